package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if db.Dialector.Name() == "postgres" {
		if err := createExtensions(db); err != nil {
			logger.Error("Failed to create extensions", zap.Error(err))
			return err
		}
	}

	err := db.AutoMigrate(
		&model.Payment{},
		&model.PaymentEvent{},
		&model.WebhookAuditLog{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates indexes GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// one webhook.received event per PSP payment id; seed events carry no psp id
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_payment_events_psp_event ON payment_events (psp_payment_id, event_type) WHERE psp_payment_id IS NOT NULL`).Error; err != nil {
		return fmt.Errorf("failed to create uq_payment_events_psp_event: %w", err)
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_payment_events_payment_created ON payment_events (payment_id, created_at)`).Error; err != nil {
		return fmt.Errorf("failed to create idx_payment_events_payment_created: %w", err)
	}

	return nil
}

// createExtensions creates required PostgreSQL extensions
func createExtensions(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}
	return nil
}
