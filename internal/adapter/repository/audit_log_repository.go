package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
	"github.com/eChanneling-Revamp/payment-service/internal/domain/repository"
)

const maxAuditLogPage = 200

type auditLogRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAuditLogRepository creates a new webhook audit log repository
func NewAuditLogRepository(db *gorm.DB, logger *zap.Logger) repository.AuditLogRepository {
	return &auditLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *auditLogRepository) Create(ctx context.Context, log *model.WebhookAuditLog) error {
	if err := conn(ctx, r.db).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create webhook audit log: %w", err)
	}
	return nil
}

func (r *auditLogRepository) ListRecent(ctx context.Context, limit int) ([]*model.WebhookAuditLog, error) {
	if limit <= 0 || limit > maxAuditLogPage {
		limit = maxAuditLogPage
	}

	var logs []*model.WebhookAuditLog
	err := conn(ctx, r.db).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook audit logs: %w", err)
	}
	return logs, nil
}
