package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/config"
	domainRepo "github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/internal/infrastructure/database"
	"github.com/sangkips/stockpilot-api/internal/infrastructure/repository"
	"github.com/sangkips/stockpilot-api/internal/infrastructure/store"
	"github.com/sangkips/stockpilot-api/internal/presentation/http/handler"
	"github.com/sangkips/stockpilot-api/internal/presentation/http/routes"
	"github.com/sangkips/stockpilot-api/pkg/printer"
)

const idempotencySweepInterval = time.Hour

func main() {
	cfg := config.Load()

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := store.NewHub(logger)
	collections, idempotencyRepo, err := openStore(ctx, cfg, hub, logger)
	if err != nil {
		logger.Error("Failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	go sweepIdempotencyKeys(ctx, idempotencyRepo, logger)

	thermalPrinter, err := printer.NewFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		logger.Warn("Failed to initialize printer", slog.String("error", err.Error()))
		thermalPrinter = printer.NewNull()
	}

	var clock service.Clock = time.Now
	biz := cfg.Business

	// Initialize services
	ledger := service.NewInventoryLedger(logger)
	productService := service.NewProductService(collections, biz.LowStockThreshold, logger)
	clientService := service.NewClientService(collections, logger)
	supplierService := service.NewSupplierService(collections, logger)
	brandService := service.NewBrandService(collections)
	saleService := service.NewSaleService(collections, ledger, biz.CreditTermDays, clock, logger)
	purchaseService := service.NewPurchaseService(collections, ledger, clock, logger)
	receivableService := service.NewReceivableService(collections, clock, logger)
	cashFlowService := service.NewCashFlowService(collections, clock, logger)
	dashboardService := service.NewDashboardService(collections, productService, clock)
	settingsService := service.NewSettingsService(collections, biz.DefaultAppName)
	backupService := service.NewBackupService(collections, biz.DefaultAppName, logger)
	reportService := service.NewReportService(collections, saleService, purchaseService, biz.ReportDefaultDays, biz.DefaultAppName, clock)
	receiptService := service.NewReceiptService(collections, thermalPrinter, cfg.Printer.Width, biz.DefaultAppName, logger)

	// Initialize handlers
	handlers := &routes.Handlers{
		Product:    handler.NewProductHandler(productService),
		Client:     handler.NewClientHandler(clientService),
		Supplier:   handler.NewSupplierHandler(supplierService),
		Brand:      handler.NewBrandHandler(brandService),
		Sale:       handler.NewSaleHandler(saleService),
		Purchase:   handler.NewPurchaseHandler(purchaseService),
		Receivable: handler.NewReceivableHandler(receivableService),
		CashFlow:   handler.NewCashFlowHandler(cashFlowService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Settings:   handler.NewSettingsHandler(settingsService),
		Backup:     handler.NewBackupHandler(backupService),
		Report:     handler.NewReportHandler(reportService),
		Events:     handler.NewEventsHandler(collections),
		Receipt:    handler.NewReceiptHandler(receiptService, cfg.Printer.Width),
	}

	router := routes.Setup(handlers, &routes.Deps{
		Ctx:             ctx,
		Cfg:             cfg,
		Logger:          logger,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			slog.String("app", cfg.App.Name),
			slog.String("port", port),
			slog.String("env", cfg.App.Env),
			slog.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.App.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// openStore builds the collection store for the configured driver. The
// PostgreSQL store also starts the listener that relays other instances'
// changes to local subscribers.
func openStore(ctx context.Context, cfg *config.Config, hub *store.Hub, logger *slog.Logger) (domainRepo.CollectionStore, domainRepo.IdempotencyRepository, error) {
	switch strings.ToLower(cfg.Store.Driver) {
	case config.StoreDriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		return store.NewMemoryStore(hub), repository.NewMemoryIdempotencyRepository(), nil

	default:
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
		if err != nil {
			return nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, err
		}

		gormStore := store.NewGormStore(db, hub)
		listener := store.NewPostgresListener(cfg.Database.URL(), gormStore.InstanceID(), gormStore, hub, logger)
		go listener.Run(ctx)

		return gormStore, repository.NewIdempotencyRepository(db), nil
	}
}

func sweepIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, logger *slog.Logger) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				logger.Warn("Failed to delete expired idempotency keys", slog.String("error", err.Error()))
			}
		}
	}
}
