package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
	"github.com/eChanneling-Revamp/payment-service/internal/domain/repository"
	apperrors "github.com/eChanneling-Revamp/payment-service/pkg/errors"
)

// PaymentQueryUsecase serves the read-only inspection API
type PaymentQueryUsecase struct {
	payments  repository.PaymentRepository
	events    repository.EventRepository
	auditLogs repository.AuditLogRepository
	logger    *zap.Logger
}

func NewPaymentQueryUsecase(
	payments repository.PaymentRepository,
	events repository.EventRepository,
	auditLogs repository.AuditLogRepository,
	logger *zap.Logger,
) *PaymentQueryUsecase {
	return &PaymentQueryUsecase{
		payments:  payments,
		events:    events,
		auditLogs: auditLogs,
		logger:    logger,
	}
}

// GetPayment treats an id that is not a uuid as unknown
func (u *PaymentQueryUsecase) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "payment not found", nil)
	}
	payment, err := u.payments.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("failed to get payment", err)
	}
	if payment == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "payment not found", nil)
	}
	return payment, nil
}

// ListEvents returns the audit trail of a payment, oldest first
func (u *PaymentQueryUsecase) ListEvents(ctx context.Context, paymentID string) ([]*model.PaymentEvent, error) {
	if _, err := u.GetPayment(ctx, paymentID); err != nil {
		return nil, err
	}
	events, err := u.events.ListByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, apperrors.Internal("failed to list payment events", err)
	}
	return events, nil
}

func (u *PaymentQueryUsecase) ListAuditLogs(ctx context.Context, limit int) ([]*model.WebhookAuditLog, error) {
	logs, err := u.auditLogs.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.Internal("failed to list webhook audit logs", err)
	}
	return logs, nil
}
