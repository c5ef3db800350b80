package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainErrors "github.com/eChanneling-Revamp/payment-service/internal/domain/errors"
	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
	"github.com/eChanneling-Revamp/payment-service/internal/domain/repository"
)

type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) repository.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if err := conn(ctx, r.db).Create(payment).Error; err != nil {
		r.logger.Error("Failed to create payment",
			zap.String("booking_id", payment.BookingID),
			zap.Error(err))
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *paymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*model.Payment, error) {
	return r.first(ctx, "booking_id = ?", bookingID)
}

func (r *paymentRepository) FindByPspOrBooking(ctx context.Context, pspPaymentID, bookingID string) (*model.Payment, error) {
	switch {
	case pspPaymentID == "" && bookingID == "":
		return nil, nil
	case bookingID == "":
		return r.first(ctx, "psp_payment_id = ?", pspPaymentID)
	case pspPaymentID == "":
		return r.first(ctx, "booking_id = ?", bookingID)
	}

	var payment model.Payment
	// a psp_payment_id match wins over a booking_id match on another row
	err := conn(ctx, r.db).
		Where("psp_payment_id = ?", pspPaymentID).
		Or("booking_id = ?", bookingID).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN psp_payment_id = ? THEN 0 ELSE 1 END",
			Vars:               []interface{}{pspPaymentID},
			WithoutParentheses: true,
		}}).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepository) first(ctx context.Context, query string, arg string) (*model.Payment, error) {
	var payment model.Payment
	if err := conn(ctx, r.db).Where(query, arg).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus, update repository.PaymentStatusUpdate) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if update.PspPaymentID != "" {
		updates["psp_payment_id"] = update.PspPaymentID
	}
	if update.PspReference != "" {
		updates["psp_reference"] = update.PspReference
	}

	result := conn(ctx, r.db).
		Model(&model.Payment{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("Failed to update payment status",
			zap.String("payment_id", id),
			zap.String("status", string(status)),
			zap.Error(result.Error))
		return fmt.Errorf("failed to update payment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domainErrors.ErrPaymentNotFound, id)
	}
	return nil
}
