package handler

import (
	"context"
	"net/http"
	"time"

	"stockportal/internal/infra"
	"stockportal/internal/service"

	"github.com/gin-gonic/gin"
)

// Health reports the upstream circuit, cache freshness and the session store.
// It never exposes credentials or upstream URLs.
func Health(breaker *infra.CircuitBreaker, catalog service.CatalogService, sessions service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		sessionStatus := "connected"
		if sessions.Ping(ctx) != nil {
			sessionStatus = "error"
		}

		upstream := infra.CBClosed.String()
		if breaker != nil {
			upstream = breaker.State().String()
		}

		refreshedAt, loaded := catalog.LastRefreshed()
		cache := gin.H{"loaded": loaded}
		if !refreshedAt.IsZero() {
			cache["refreshed_at"] = refreshedAt.UTC()
			cache["age_seconds"] = int(time.Since(refreshedAt).Seconds())
		}

		status := http.StatusOK
		if sessionStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":            status == http.StatusOK,
			"upstream":      upstream,
			"cache":         cache,
			"session_store": sessionStatus,
		})
	}
}
