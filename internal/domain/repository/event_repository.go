package repository

import (
	"context"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
)

type EventRepository interface {
	// ExistsWebhookEvent reports whether a webhook.received event exists for the PSP payment id
	ExistsWebhookEvent(ctx context.Context, pspPaymentID string) (bool, error)

	// Create appends an event. It returns errors.ErrDuplicateWebhookEvent when the
	// (psp_payment_id, event_type) uniqueness constraint rejects the insert.
	Create(ctx context.Context, event *model.PaymentEvent) error

	ListByPaymentID(ctx context.Context, paymentID string) ([]*model.PaymentEvent, error)
}
