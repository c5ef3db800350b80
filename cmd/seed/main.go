package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/eChanneling-Revamp/payment-service/internal/config"
	"github.com/eChanneling-Revamp/payment-service/internal/infrastructure/database"
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

	if cfg.Service.Environment == config.EnvironmentProduction {
		zapLogger.Fatal("Refusing to seed test data in production")
	}

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

	// Run migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	repos := database.NewRepositories(db, zapLogger)

	payment, err := database.SeedTestPayment(context.Background(), repos, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to seed test payment", zap.Error(err))
	}

	zapLogger.Info("Seed completed",
		zap.String("payment_id", payment.ID),
		zap.String("booking_id", payment.BookingID),
		zap.String("status", string(payment.Status)))
}
