package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/eChanneling-Revamp/payment-service/internal/config"
	"github.com/eChanneling-Revamp/payment-service/internal/infrastructure/database"
	httpServer "github.com/eChanneling-Revamp/payment-service/internal/infrastructure/http"
	"github.com/eChanneling-Revamp/payment-service/internal/infrastructure/lock"
	"github.com/eChanneling-Revamp/payment-service/internal/infrastructure/provider"
	"github.com/eChanneling-Revamp/payment-service/internal/usecase"
	"github.com/eChanneling-Revamp/payment-service/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger = zapLogger.With(
		zap.String("service", cfg.Service.Name),
		zap.String("environment", cfg.Service.Environment))

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, zapLogger); err != nil {
			zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
		}
	}

	// Initialize repositories
	repos := database.NewRepositories(db, zapLogger)

	locker, closeLocker, err := lock.New(cfg.Lock, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize payment lock", zap.Error(err))
	}
	defer func() {
		if err := closeLocker(); err != nil {
			zapLogger.Error("Failed to close payment lock", zap.Error(err))
		}
	}()

	// Build PayHere components
	factory := provider.NewFactory(&cfg.PayHere, zapLogger)
	verifier, err := factory.GetVerifier()
	if err != nil {
		zapLogger.Fatal("Failed to create signature verifier", zap.Error(err))
	}
	mapper, err := factory.GetStatusMapper()
	if err != nil {
		zapLogger.Fatal("Failed to load status table", zap.Error(err))
	}
	policy, err := usecase.ParseTransitionPolicy(cfg.PayHere.TransitionPolicy)
	if err != nil {
		zapLogger.Fatal("Invalid transition policy", zap.Error(err))
	}

	webhookUsecase := usecase.NewWebhookUsecase(usecase.WebhookDependencies{
		Verifier:   verifier,
		Normalizer: factory.GetNormalizer(),
		Mapper:     mapper,
		Payments:   repos.Payment,
		Events:     repos.Event,
		AuditLogs:  repos.AuditLog,
		Tx:         repos.Tx,
		Locker:     locker,
	}, usecase.WebhookOptions{
		Policy:                 policy,
		AllowTestNotifications: cfg.Service.TestEndpointsEnabled(),
	}, zapLogger)
	queryUsecase := usecase.NewPaymentQueryUsecase(repos.Payment, repos.Event, repos.AuditLog, zapLogger)

	// Initialize server
	httpSrv := httpServer.NewServer(cfg, zapLogger, webhookUsecase, queryUsecase)

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Server shut down successfully")
}
