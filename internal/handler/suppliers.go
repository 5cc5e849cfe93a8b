package handler

import (
	"net/http"

	"stockportal/internal/dto"
	"stockportal/internal/service"

	"github.com/gin-gonic/gin"
)

type SuppliersHandler struct {
	sessionGate
	catalog   service.CatalogService
	inventory service.InventoryService
	pageSize  int
}

func NewSuppliersHandler(catalog service.CatalogService, inventory service.InventoryService, sessions service.SessionService, pageSize int) *SuppliersHandler {
	return &SuppliersHandler{
		sessionGate: sessionGate{sessions: sessions},
		catalog:     catalog,
		inventory:   inventory,
		pageSize:    pageSize,
	}
}

func (h *SuppliersHandler) List(c *gin.Context) {
	var f dto.SuppliersFilter
	if !bindQuery(c, &f) {
		return
	}
	c.JSON(http.StatusOK, h.catalog.ListSuppliers(f.ToQuery(h.pageSize)))
}

func (h *SuppliersHandler) Create(c *gin.Context) {
	var req dto.SupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	out, err := h.inventory.CreateSupplier(c.Request.Context(), req)
	h.respondOutcome(c, out, err, http.StatusCreated)
}

func (h *SuppliersHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.SupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	out, err := h.inventory.UpdateSupplier(c.Request.Context(), id, req)
	h.respondOutcome(c, out, err, http.StatusOK)
}

// Delete removes a supplier. Items referencing it keep their supplier_id.
func (h *SuppliersHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.inventory.DeleteSupplier(c.Request.Context(), id)
	h.respondOutcome(c, out, err, http.StatusOK)
}
