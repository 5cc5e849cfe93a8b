package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"stockportal/internal/apierror"
	"stockportal/internal/dto"
	"stockportal/internal/infra"
	"stockportal/internal/middleware"
	"stockportal/internal/service"
	"stockportal/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF  = "application/pdf"
)

type ItemsHandler struct {
	sessionGate
	catalog   service.CatalogService
	inventory service.InventoryService
	pageSize  int
}

func NewItemsHandler(catalog service.CatalogService, inventory service.InventoryService, sessions service.SessionService, pageSize int) *ItemsHandler {
	return &ItemsHandler{
		sessionGate: sessionGate{sessions: sessions},
		catalog:     catalog,
		inventory:   inventory,
		pageSize:    pageSize,
	}
}

// List serves the items table: GET /v1/items?search=&category=&status=&sort=&page=
func (h *ItemsHandler) List(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.catalog.ListItems(q))
}

func (h *ItemsHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	d, err := h.catalog.GetItem(id)
	if errors.Is(err, service.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("Item not found"))
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.ItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	out, err := h.inventory.CreateItem(c.Request.Context(), req)
	h.respondOutcome(c, out, err, http.StatusCreated)
}

func (h *ItemsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	out, err := h.inventory.UpdateItem(c.Request.Context(), id, req)
	h.respondOutcome(c, out, err, http.StatusOK)
}

func (h *ItemsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.inventory.DeleteItem(c.Request.Context(), id)
	h.respondOutcome(c, out, err, http.StatusOK)
}

// ExportXLSX downloads every row of the current view as a spreadsheet.
func (h *ItemsHandler) ExportXLSX(c *gin.Context) {
	h.export(c, "xlsx", mimeXLSX, infra.RenderItemsXLSX)
}

// ReportPDF downloads the printable stock report for the current view.
func (h *ItemsHandler) ReportPDF(c *gin.Context) {
	h.export(c, "pdf", mimePDF, infra.RenderStockReportPDF)
}

func (h *ItemsHandler) export(c *gin.Context, ext, mime string, render func(infra.StockReport) ([]byte, error)) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	data, err := render(h.catalog.StockReport(q))
	if err != nil {
		log.Error().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Str("format", ext).Msg("export failed")
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to generate export"))
		return
	}
	name := fmt.Sprintf("items-%s.%s", time.Now().Format("20060102-150405"), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, mime, data)
}

func (h *ItemsHandler) query(c *gin.Context) (view.ItemsQuery, bool) {
	var f dto.ItemsFilter
	if !bindQuery(c, &f) {
		return view.ItemsQuery{}, false
	}
	q, err := f.ToQuery(h.pageSize)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"status": err.Error()}))
		return view.ItemsQuery{}, false
	}
	return q, true
}
