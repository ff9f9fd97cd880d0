package routes

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockpilot-api/internal/config"
	domainRepo "github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/internal/presentation/http/handler"
	"github.com/sangkips/stockpilot-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Product    *handler.ProductHandler
	Client     *handler.ClientHandler
	Supplier   *handler.SupplierHandler
	Brand      *handler.BrandHandler
	Sale       *handler.SaleHandler
	Purchase   *handler.PurchaseHandler
	Receivable *handler.ReceivableHandler
	CashFlow   *handler.CashFlowHandler
	Dashboard  *handler.DashboardHandler
	Settings   *handler.SettingsHandler
	Backup     *handler.BackupHandler
	Report     *handler.ReportHandler
	Events     *handler.EventsHandler
	Receipt    *handler.ReceiptHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Ctx             context.Context
	Cfg             *config.Config
	Logger          *slog.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	ctx := deps.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	rateLimiter := middleware.NewClientRateLimiter(ctx,
		middleware.RateLimiterConfigFor(deps.Cfg.RateLimit.Requests, deps.Cfg.RateLimit.Duration))

	v1 := router.Group("/api/v1")
	v1.Use(rateLimiter.Middleware())
	{
		registerCatalogRoutes(v1, h)
		registerSaleRoutes(v1, h, deps)
		registerPurchaseRoutes(v1, h)
		registerReceivableRoutes(v1, h)
		registerCashFlowRoutes(v1, h)

		v1.GET("/dashboard", h.Dashboard.GetStats)
		v1.GET("/settings", h.Settings.GetSettings)
		v1.PUT("/settings", h.Settings.UpdateSettings)
		v1.GET("/printer/status", h.Receipt.GetStatus)

		registerBackupRoutes(v1, h)
		registerReportRoutes(v1, h)

		v1.GET("/events", h.Events.Stream)
	}

	return router
}

func registerCatalogRoutes(v1 *gin.RouterGroup, h *Handlers) {
	products := v1.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/barcode/:code", h.Product.GetByBarcode)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}

	clients := v1.Group("/clients")
	{
		clients.GET("", h.Client.List)
		clients.POST("", h.Client.Create)
		clients.GET("/:id", h.Client.Get)
		clients.PUT("/:id", h.Client.Update)
		clients.DELETE("/:id", h.Client.Delete)
	}

	suppliers := v1.Group("/suppliers")
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
	}

	brands := v1.Group("/brands")
	{
		brands.GET("", h.Brand.List)
		brands.POST("", h.Brand.Create)
		brands.GET("/:id", h.Brand.Get)
		brands.PUT("/:id", h.Brand.Update)
		brands.DELETE("/:id", h.Brand.Delete)
	}
}

func registerSaleRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := v1.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
		sales.DELETE("/:id", h.Sale.Delete)
		sales.GET("/:id/receipt", h.Receipt.Get)
		sales.POST("/:id/receipt/print", h.Receipt.Print)

		// Retried checkouts must not sell twice
		sales.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Sale.Create)
	}
}

func registerPurchaseRoutes(v1 *gin.RouterGroup, h *Handlers) {
	purchases := v1.Group("/purchases")
	{
		purchases.GET("", h.Purchase.List)
		purchases.POST("", h.Purchase.Create)
		purchases.GET("/:id", h.Purchase.Get)
		purchases.PUT("/:id", h.Purchase.Update)
		purchases.DELETE("/:id", h.Purchase.Delete)
	}
}

func registerReceivableRoutes(v1 *gin.RouterGroup, h *Handlers) {
	receivables := v1.Group("/receivables")
	{
		receivables.GET("", h.Receivable.List)
		receivables.GET("/:id", h.Receivable.Get)
		receivables.POST("/:id/pay", h.Receivable.MarkPaid)
	}
}

func registerCashFlowRoutes(v1 *gin.RouterGroup, h *Handlers) {
	v1.GET("/cash-flow", h.CashFlow.List)
	v1.GET("/cash-flow/summary", h.CashFlow.Summary)

	adjustments := v1.Group("/cash-adjustments")
	{
		adjustments.GET("", h.CashFlow.ListAdjustments)
		adjustments.POST("", h.CashFlow.CreateAdjustment)
		adjustments.DELETE("/:id", h.CashFlow.DeleteAdjustment)
	}
}

func registerBackupRoutes(v1 *gin.RouterGroup, h *Handlers) {
	backup := v1.Group("/backup")
	{
		backup.GET("/export", h.Backup.Export)
		backup.POST("/import", h.Backup.Import)
	}
}

func registerReportRoutes(v1 *gin.RouterGroup, h *Handlers) {
	reports := v1.Group("/reports")
	{
		reports.GET("/cash-flow", h.Report.CashFlow)
		reports.GET("/sales", h.Report.Sales)
		reports.GET("/purchases", h.Report.Purchases)
	}
}
