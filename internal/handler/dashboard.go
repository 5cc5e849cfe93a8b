package handler

import (
	"errors"
	"net/http"
	"strconv"

	"stockportal/internal/apierror"
	"stockportal/internal/infra"
	"stockportal/internal/notify"
	"stockportal/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	sessionGate
	catalog service.CatalogService
	feed    *notify.Feed
}

func NewDashboardHandler(catalog service.CatalogService, feed *notify.Feed, sessions service.SessionService) *DashboardHandler {
	return &DashboardHandler{sessionGate: sessionGate{sessions: sessions}, catalog: catalog, feed: feed}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Summary())
}

func (h *DashboardHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Categories())
}

// Notifications lists recent outcomes, newest first. ?limit= caps the list.
func (h *DashboardHandler) Notifications(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid limit"))
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, h.feed.Recent(limit))
}

// Refresh reloads both collections from the inventory API.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	err := h.catalog.Refresh(c.Request.Context())
	if errors.Is(err, infra.ErrUnauthorized) {
		h.unauthorized(c, nil)
		return
	}
	at, loaded := h.catalog.LastRefreshed()
	body := gin.H{"refreshed_at": at, "loaded": loaded}
	if err != nil {
		body["detail"] = service.MsgRefreshFailed
		c.JSON(upstreamStatus(err), body)
		return
	}
	c.JSON(http.StatusOK, body)
}
