package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexstock/nexstock-console/internal/app"
	"github.com/nexstock/nexstock-console/internal/auth"
	"github.com/nexstock/nexstock-console/internal/dashboard"
	"github.com/nexstock/nexstock-console/internal/gateway"
	"github.com/nexstock/nexstock-console/internal/inventory"
	"github.com/nexstock/nexstock-console/internal/masterdata/products"
	"github.com/nexstock/nexstock-console/internal/masterdata/vendors"
	"github.com/nexstock/nexstock-console/internal/masterdata/warehouses"
	"github.com/nexstock/nexstock-console/internal/observability"
	"github.com/nexstock/nexstock-console/internal/page"
	"github.com/nexstock/nexstock-console/internal/platform/cache"
	"github.com/nexstock/nexstock-console/internal/procurement"
	"github.com/nexstock/nexstock-console/internal/shared"
	"github.com/nexstock/nexstock-console/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	redisClient, err := cache.Open(ctx, cfg.RedisAddr, 5*time.Second)
	if err != nil {
		logger.Error("connect session store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	client, err := gateway.NewClient(gateway.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Logger:  logger,
		Metrics: gateway.NewMetrics(metrics.Registerer()),
	})
	if err != nil {
		logger.Error("configure backend client", slog.Any("error", err))
		os.Exit(1)
	}

	pages := page.NewBuilder(templates, csrfManager, logger)

	authService := auth.NewService(client)
	warehouseService := warehouses.NewService(client)
	vendorService := vendors.NewService(client)
	productService := products.NewService(client)
	orderService := procurement.NewService(client)
	inventoryService := inventory.NewService(client)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Templates:      templates,
		Pages:          pages,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		Authenticator:  authService,
		Metrics:        metrics,

		AuthHandler:        auth.NewHandler(logger, templates, sessionManager, csrfManager),
		DashboardHandler:   dashboard.NewHandler(logger, warehouseService, orderService, inventoryService, pages),
		WarehouseHandler:   warehouses.NewHandler(logger, warehouseService, pages),
		InventoryHandler:   inventory.NewHandler(logger, inventoryService, warehouseService, productService, pages),
		ProductHandler:     products.NewHandler(logger, productService, vendorService, pages),
		VendorHandler:      vendors.NewHandler(logger, vendorService, pages),
		ProcurementHandler: procurement.NewHandler(logger, orderService, vendorService, productService, pages),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("backend", cfg.APIBaseURL))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
