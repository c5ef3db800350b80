package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	domainErrors "github.com/eChanneling-Revamp/payment-service/internal/domain/errors"
	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
	"github.com/eChanneling-Revamp/payment-service/internal/domain/provider"
	"github.com/eChanneling-Revamp/payment-service/internal/domain/repository"
	apperrors "github.com/eChanneling-Revamp/payment-service/pkg/errors"
)

const (
	NoteUnknownPayment    = "unknown_payment"
	NoteTransitionIgnored = "transition_ignored"
)

// KeyLocker serializes notification handling per PSP payment id
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// WebhookResult is returned to the PSP on every accepted notification
type WebhookResult struct {
	OK        bool   `json:"ok"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Note      string `json:"note,omitempty"`
}

type WebhookDependencies struct {
	Verifier   provider.SignatureVerifier
	Normalizer provider.PayloadNormalizer
	Mapper     provider.StatusMapper
	Payments   repository.PaymentRepository
	Events     repository.EventRepository
	AuditLogs  repository.AuditLogRepository
	Tx         repository.TxManager
	Locker     KeyLocker
}

type WebhookOptions struct {
	Policy TransitionPolicy
	// AllowTestNotifications enables HandleTestNotification
	AllowTestNotifications bool
}

// WebhookUsecase verifies PSP notifications and applies each status transition exactly once
type WebhookUsecase struct {
	deps   WebhookDependencies
	opts   WebhookOptions
	logger *zap.Logger
}

// NewWebhookUsecase creates a new webhook usecase
func NewWebhookUsecase(deps WebhookDependencies, opts WebhookOptions, logger *zap.Logger) *WebhookUsecase {
	if opts.Policy == "" {
		opts.Policy = TransitionPolicyPermissive
	}
	return &WebhookUsecase{
		deps:   deps,
		opts:   opts,
		logger: logger,
	}
}

// HandleNotification authenticates rawBody and applies it. rawBody must be the
// exact bytes received.
func (u *WebhookUsecase) HandleNotification(ctx context.Context, rawBody []byte, header http.Header) (*WebhookResult, error) {
	if !u.deps.Verifier.Verify(rawBody, header) {
		payload := u.deps.Normalizer.Normalize(rawBody)
		u.logger.Warn("PayHere notification signature verification failed",
			zap.String("scheme", u.deps.Verifier.Scheme()),
			zap.String("merchant_id", payload.MerchantID),
			zap.String("order_id", payload.OrderID),
			zap.String("psp_payment_id", payload.PspPaymentID),
			zap.String("status_code", payload.StatusCode.String()),
			zap.Int("body_bytes", len(rawBody)))
		return nil, apperrors.Unauthenticated("invalid signature")
	}

	return u.process(ctx, u.deps.Normalizer.Normalize(rawBody))
}

// HandleTestNotification applies rawBody without signature verification.
// Only available outside production.
func (u *WebhookUsecase) HandleTestNotification(ctx context.Context, rawBody []byte) (*WebhookResult, error) {
	if !u.opts.AllowTestNotifications {
		return nil, apperrors.Forbidden("test notifications are disabled")
	}

	payload := u.deps.Normalizer.Normalize(rawBody)
	u.logger.Warn("Processing unverified test notification",
		zap.String("order_id", payload.OrderID),
		zap.String("psp_payment_id", payload.PspPaymentID))

	return u.process(ctx, payload)
}

func (u *WebhookUsecase) process(ctx context.Context, payload *provider.NotificationPayload) (*WebhookResult, error) {
	pspPaymentID := payload.PspPaymentID
	if pspPaymentID == "" {
		u.logger.Warn("Notification without payment id", zap.String("order_id", payload.OrderID))
		return nil, apperrors.BadRequest("missing payment id")
	}

	log := u.logger.With(
		zap.String("psp_payment_id", pspPaymentID),
		zap.String("order_id", payload.OrderID))

	unlock, err := u.deps.Locker.Lock(ctx, pspPaymentID)
	if err != nil {
		apperrors.LogError(log, err, "Failed to acquire payment lock")
		return nil, apperrors.Internal("failed to acquire payment lock", err)
	}
	defer unlock()

	duplicate, err := u.deps.Events.ExistsWebhookEvent(ctx, pspPaymentID)
	if err != nil {
		apperrors.LogError(log, err, "Failed to check for duplicate notification")
		return nil, apperrors.Internal("failed to check notification history", err)
	}
	if duplicate {
		log.Info("Duplicate notification ignored")
		return &WebhookResult{OK: true, Duplicate: true}, nil
	}

	status := u.deps.Mapper.Map(payload.StatusCode)

	payment, err := u.deps.Payments.FindByPspOrBooking(ctx, pspPaymentID, payload.OrderID)
	if err != nil {
		apperrors.LogError(log, err, "Failed to look up payment")
		return nil, apperrors.Internal("failed to look up payment", err)
	}
	if payment == nil {
		u.recordUnknownPayment(ctx, log, payload)
		return &WebhookResult{OK: true, Note: NoteUnknownPayment}, nil
	}

	return u.applyTransition(ctx, log, payment, payload, status)
}

// recordUnknownPayment writes a best-effort audit log. Failures are logged only.
func (u *WebhookUsecase) recordUnknownPayment(ctx context.Context, log *zap.Logger, payload *provider.NotificationPayload) {
	log.Warn("Notification for unknown payment")

	data, err := json.Marshal(payload)
	if err == nil {
		err = u.deps.AuditLogs.Create(ctx, &model.WebhookAuditLog{
			EventSource: model.EventSourcePayHere,
			Payload:     data,
			Reason:      model.AuditReasonPaymentNotFound,
		})
	}
	if err != nil {
		log.Warn("Failed to write webhook audit log", zap.Error(err))
	}
}

func (u *WebhookUsecase) applyTransition(
	ctx context.Context,
	log *zap.Logger,
	payment *model.Payment,
	payload *provider.NotificationPayload,
	mapped model.PaymentStatus,
) (*WebhookResult, error) {
	before := payment.Status
	after := mapped
	result := &WebhookResult{OK: true}

	if !u.opts.Policy.Allows(before, mapped) {
		log.Warn("Status transition rejected by policy",
			zap.String("status_before", string(before)),
			zap.String("status_mapped", string(mapped)),
			zap.String("policy", string(u.opts.Policy)))
		after = before
		result.Note = NoteTransitionIgnored
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Internal("failed to encode notification", err)
	}

	pspPaymentID := payload.PspPaymentID
	err = u.deps.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := u.deps.Payments.UpdateStatus(ctx, payment.ID, after, repository.PaymentStatusUpdate{
			PspPaymentID: pspPaymentID,
			PspReference: payload.Reference,
		}); err != nil {
			return err
		}

		return u.deps.Events.Create(ctx, &model.PaymentEvent{
			PaymentID:    payment.ID,
			EventType:    model.EventTypeWebhookReceived,
			EventSource:  model.EventSourcePayHere,
			PspPaymentID: &pspPaymentID,
			Payload:      data,
			StatusBefore: before.Ptr(),
			StatusAfter:  after,
		})
	})
	if errors.Is(err, domainErrors.ErrDuplicateWebhookEvent) {
		log.Info("Concurrent duplicate notification rolled back")
		return &WebhookResult{OK: true, Duplicate: true}, nil
	}
	if err != nil {
		apperrors.LogError(log, err, "Failed to apply payment status",
			zap.String("payment_id", payment.ID))
		return nil, apperrors.Internal("failed to apply payment status", err)
	}

	log.Info("Payment status updated",
		zap.String("payment_id", payment.ID),
		zap.String("status_before", string(before)),
		zap.String("status_after", string(after)))
	return result, nil
}
