package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/config"
	"storefront/internal/clients"
	"storefront/internal/delivery"
	grpcDelivery "storefront/internal/delivery/grpc"
	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/session"
	"storefront/internal/upload"
	"storefront/internal/usecase"
	"storefront/pkg/db"
)

const (
	shutdownTimeout = 10 * time.Second
	healthInterval  = 15 * time.Second
)

func main() {
	logger := setupLogger("info", "json")

	cfg := config.LoadConfig(logger)
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s' in config, using default 'info'. Error: %v", cfg.LogLevel, err)
	} else {
		logger.SetLevel(logLevel)
	}
	if cfg.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("Starting Storefront...")

	opts := cfg.StorageOptions()
	database, err := db.Connect(context.Background(), opts, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Errorf("Error closing database connection: %v", err)
		} else {
			logger.Info("Database connection closed.")
		}
	}()

	adapter := db.NewAdapter(database, opts.Dialect, logger)
	if cfg.AutoMigrate {
		if err := adapter.Migrate(context.Background()); err != nil {
			logger.Fatalf("Failed to apply schema: %v", err)
		}
	}

	sessions, err := session.NewManager(session.Options{
		Name:   cfg.SessionName,
		Secret: cfg.SessionSecret,
		Store:  cfg.SessionStore,
		Dir:    cfg.SessionDir,
		Secure: cfg.SessionSecure,
	}, logger)
	if err != nil {
		logger.Fatalf("Failed to set up sessions: %v", err)
	}

	images, uploadDir, err := imageSaver(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to set up image uploads: %v", err)
	}

	provider := paymentProvider(cfg, logger)

	productRepo := repository.NewProductRepository(adapter, logger)
	flavorRepo := repository.NewFlavorRepository(adapter, logger)

	authUseCase, err := usecase.NewAuthUseCase(cfg.AdminUsername, cfg.AdminPassword, logger)
	if err != nil {
		logger.Fatalf("Failed to set up admin credentials: %v", err)
	}

	router := delivery.SetupRouter(delivery.Handlers{
		Catalog: delivery.NewCatalogHandler(usecase.NewCatalogUseCase(productRepo, logger), logger),
		Cart:    delivery.NewCartHandler(usecase.NewCartUseCase(productRepo, logger), logger),
		Auth:    delivery.NewAuthHandler(authUseCase, logger),
		Product: delivery.NewProductHandler(usecase.NewProductUseCase(productRepo, flavorRepo, logger), images, logger),
		Flavor:  delivery.NewFlavorHandler(usecase.NewFlavorUseCase(flavorRepo, logger), logger),
		Payment: delivery.NewPaymentHandler(usecase.NewCheckoutUseCase(provider, logger), logger),
		Health:  delivery.NewHealthHandler(adapter, logger),
	}, sessions, uploadDir, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to serve HTTP: %v", err)
		}
		logger.Info("HTTP server stopped serving.")
	}()

	stopGRPC, err := startGRPC(cfg.GrpcPort, adapter, logger)
	if err != nil {
		logger.Fatalf("Failed to start gRPC server: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("Signal listener started.")

	<-quit
	logger.Warn("Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP server forced to shut down: %v", err)
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	stopGRPC(ctx)

	logger.Info("Storefront shut down gracefully.")
}

func setupLogger(level, format string) *logrus.Logger {
	logger := logrus.New()
	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.SetOutput(os.Stdout)

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using default 'info'. Error: %v", level, err)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

// imageSaver returns a nil saver and an empty directory when UPLOAD_DIR is
// empty, which disables uploads and the /uploads route.
func imageSaver(cfg *config.Config, logger *logrus.Logger) (delivery.ImageSaver, string, error) {
	if cfg.UploadDir == "" {
		logger.Warn("UPLOAD_DIR is empty; product image uploads are disabled")
		return nil, "", nil
	}
	store, err := upload.NewImageStore(cfg.UploadDir, "/uploads", cfg.UploadMaxDimension, logger)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}

// startGRPC serves the health service on addr and returns its shutdown
// func. An empty addr disables gRPC and the returned func does nothing.
func startGRPC(addr string, database grpcDelivery.Pinger, logger *logrus.Logger) (func(context.Context), error) {
	if addr == "" {
		logger.Warn("GRPC_PORT is empty; gRPC health service is disabled")
		return func(context.Context) {}, nil
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %s: %w", addr, err)
	}
	grpcServer := grpcDelivery.NewHealthServer(logger)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Errorf("Failed to serve gRPC: %v", err)
		}
	}()
	grpcServer.SetServing(true)

	watchCtx, stopWatch := context.WithCancel(context.Background())
	go grpcServer.Watch(watchCtx, database, healthInterval)

	return func(ctx context.Context) {
		stopWatch()
		grpcServer.SetServing(false)

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			logger.Warn("gRPC graceful stop timed out")
		}
	}, nil
}

// paymentProvider returns nil when payments are disabled.
func paymentProvider(cfg *config.Config, logger *logrus.Logger) domain.PaymentProvider {
	if cfg.PaymentProvider != config.PaymentStripe {
		logger.Warn("Payment provider disabled; /create-payment will answer 503")
		return nil
	}
	stripeClient, err := clients.NewStripeClient(clients.StripeConfig{
		SecretKey:  cfg.StripeSecretKey,
		Currency:   cfg.PaymentCurrency,
		SuccessURL: cfg.SuccessURL(),
		CancelURL:  cfg.CancelURL(),
	}, logger)
	if err != nil {
		logger.Fatalf("Failed to set up payment provider: %v", err)
	}
	return stripeClient
}
