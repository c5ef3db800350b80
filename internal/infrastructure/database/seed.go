package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
)

// TestBookingID is the booking seeded for local webhook testing
const TestBookingID = "TEST-BOOKING-001"

// SeedTestPayment creates the test payment and its payment.created event.
// It does nothing when the booking already exists.
func SeedTestPayment(ctx context.Context, repos *Repositories, logger *zap.Logger) (*model.Payment, error) {
	existing, err := repos.Payment.GetByBookingID(ctx, TestBookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.Info("Test payment already seeded", zap.String("payment_id", existing.ID))
		return existing, nil
	}

	payment := &model.Payment{
		BookingID: TestBookingID,
		Psp:       model.EventSourcePayHere,
		Amount:    decimal.RequireFromString("1500.00"),
		Currency:  "LKR",
		Status:    model.PaymentStatusCreated,
	}

	err = repos.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := repos.Payment.Create(ctx, payment); err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]interface{}{
			"bookingId": payment.BookingID,
			"amount":    payment.Amount.StringFixed(2),
			"currency":  payment.Currency,
		})
		if err != nil {
			return fmt.Errorf("failed to encode seed payload: %w", err)
		}

		return repos.Event.Create(ctx, &model.PaymentEvent{
			PaymentID:   payment.ID,
			EventType:   model.EventTypePaymentCreated,
			EventSource: model.EventSourceSeed,
			Payload:     payload,
			StatusAfter: model.PaymentStatusCreated,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed test payment: %w", err)
	}

	logger.Info("Test payment seeded",
		zap.String("payment_id", payment.ID),
		zap.String("booking_id", payment.BookingID))
	return payment, nil
}
