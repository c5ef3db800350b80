package repository

import (
	"context"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *model.WebhookAuditLog) error
	ListRecent(ctx context.Context, limit int) ([]*model.WebhookAuditLog, error)
}
