package repository

import (
	"context"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
)

// PaymentStatusUpdate carries the PSP identifiers written along with a status change.
// Empty fields leave the stored value unchanged.
type PaymentStatusUpdate struct {
	PspPaymentID string
	PspReference string
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	GetByBookingID(ctx context.Context, bookingID string) (*model.Payment, error)

	// FindByPspOrBooking matches psp_payment_id OR booking_id over the non-empty keys.
	// Returns nil, nil when nothing matches or both keys are empty.
	FindByPspOrBooking(ctx context.Context, pspPaymentID, bookingID string) (*model.Payment, error)

	UpdateStatus(ctx context.Context, id string, status model.PaymentStatus, update PaymentStatusUpdate) error
}
