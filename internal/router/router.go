package router

import (
	"time"

	"stockportal/internal/config"
	"stockportal/internal/docs"
	"stockportal/internal/handler"
	"stockportal/internal/infra"
	"stockportal/internal/middleware"
	"stockportal/internal/notify"
	"stockportal/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the long-lived components built by the composition root.
type Deps struct {
	Catalog   service.CatalogService
	Inventory service.InventoryService
	Sessions  service.SessionService
	Feed      *notify.Feed
	Breaker   *infra.CircuitBreaker
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// New wires all handlers and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Store/Repository ← Inventory API/Redis
func New(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(d.Sessions)
	itemsH := handler.NewItemsHandler(d.Catalog, d.Inventory, d.Sessions, cfg.ItemsPageSize)
	suppliersH := handler.NewSuppliersHandler(d.Catalog, d.Inventory, d.Sessions, cfg.SuppliersPageSize)
	dashboardH := handler.NewDashboardHandler(d.Catalog, d.Feed, d.Sessions)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.Breaker, d.Catalog, d.Sessions))
	r.GET("/openapi.yaml", docs.Handler)
	if cfg.MetricsEnabled && d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(cfg.LoginAttempts), authH.Login)
	}

	// Protected routes
	v1 := r.Group("/v1", middleware.SessionAuth(d.Sessions))
	{
		v1.POST("/auth/logout", authH.Logout)

		items := v1.Group("/items")
		{
			items.GET("", itemsH.List)
			items.POST("", itemsH.Create)
			// Static paths before :id
			items.GET("/export.xlsx", itemsH.ExportXLSX)
			items.GET("/report.pdf", itemsH.ReportPDF)
			items.GET("/:id", itemsH.Get)
			items.PUT("/:id", itemsH.Update)
			items.DELETE("/:id", itemsH.Delete)
		}

		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", suppliersH.List)
			suppliers.POST("", suppliersH.Create)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Delete)
		}

		v1.GET("/summary", dashboardH.Summary)
		v1.GET("/categories", dashboardH.Categories)
		v1.GET("/notifications", dashboardH.Notifications)
		v1.POST("/refresh", dashboardH.Refresh)
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/openapi.yaml")))
	}

	return r
}
