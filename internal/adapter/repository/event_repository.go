package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domainErrors "github.com/eChanneling-Revamp/payment-service/internal/domain/errors"
	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
	"github.com/eChanneling-Revamp/payment-service/internal/domain/repository"
)

type eventRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewEventRepository creates a new payment event repository
func NewEventRepository(db *gorm.DB, logger *zap.Logger) repository.EventRepository {
	return &eventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *eventRepository) ExistsWebhookEvent(ctx context.Context, pspPaymentID string) (bool, error) {
	var ids []int64
	err := conn(ctx, r.db).
		Model(&model.PaymentEvent{}).
		Where("psp_payment_id = ? AND event_type = ?", pspPaymentID, model.EventTypeWebhookReceived).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, fmt.Errorf("failed to check webhook event: %w", err)
	}
	return len(ids) > 0, nil
}

func (r *eventRepository) Create(ctx context.Context, event *model.PaymentEvent) error {
	err := conn(ctx, r.db).Create(event).Error
	if err == nil {
		return nil
	}
	// requires gorm.Config.TranslateError
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainErrors.ErrDuplicateWebhookEvent
	}

	r.logger.Error("Failed to create payment event",
		zap.String("payment_id", event.PaymentID),
		zap.String("event_type", event.EventType),
		zap.Error(err))
	return fmt.Errorf("failed to create payment event: %w", err)
}

func (r *eventRepository) ListByPaymentID(ctx context.Context, paymentID string) ([]*model.PaymentEvent, error) {
	var events []*model.PaymentEvent
	err := conn(ctx, r.db).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment events: %w", err)
	}
	return events, nil
}
