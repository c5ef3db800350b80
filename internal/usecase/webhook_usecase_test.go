package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/eChanneling-Revamp/payment-service/internal/domain/errors"
	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
	"github.com/eChanneling-Revamp/payment-service/internal/domain/repository"
	"github.com/eChanneling-Revamp/payment-service/internal/infrastructure/lock"
	"github.com/eChanneling-Revamp/payment-service/internal/infrastructure/provider/payhere"
	"github.com/eChanneling-Revamp/payment-service/internal/usecase"
	apperrors "github.com/eChanneling-Revamp/payment-service/pkg/errors"
)

const succeededBody = `{"merchant_id":"M1","order_id":"ORD-1","payment_id":"psp-1","status_code":2,"reference":"R-1"}`

type webhookFixture struct {
	verifier *MockVerifier
	payments *MockPaymentRepository
	events   *MockEventRepository
	audits   *MockAuditLogRepository
	tx       *passthroughTx
	locker   usecase.KeyLocker
	opts     usecase.WebhookOptions
}

func newWebhookFixture() *webhookFixture {
	return &webhookFixture{
		verifier: new(MockVerifier),
		payments: new(MockPaymentRepository),
		events:   new(MockEventRepository),
		audits:   new(MockAuditLogRepository),
		tx:       &passthroughTx{},
		locker:   lock.NewMemoryLocker(),
	}
}

func (f *webhookFixture) usecase(t *testing.T) *usecase.WebhookUsecase {
	t.Helper()
	table, err := payhere.LoadStatusTable("payhere", nil)
	require.NoError(t, err)

	return usecase.NewWebhookUsecase(usecase.WebhookDependencies{
		Verifier:   f.verifier,
		Normalizer: payhere.NewNormalizer(),
		Mapper:     payhere.NewStatusMapper(table),
		Payments:   f.payments,
		Events:     f.events,
		AuditLogs:  f.audits,
		Tx:         f.tx,
		Locker:     f.locker,
	}, f.opts, zap.NewNop())
}

func (f *webhookFixture) assertExpectations(t *testing.T) {
	f.verifier.AssertExpectations(t)
	f.payments.AssertExpectations(t)
	f.events.AssertExpectations(t)
	f.audits.AssertExpectations(t)
}

func createdPayment() *model.Payment {
	return &model.Payment{ID: "pay-1", BookingID: "ORD-1", Status: model.PaymentStatusCreated}
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, apperrors.CodeOf(err))
}

func TestWebhookUsecase_HandleNotification(t *testing.T) {
	ctx := context.Background()
	header := http.Header{}

	t.Run("invalid signature is rejected before any storage access", func(t *testing.T) {
		f := newWebhookFixture()
		f.verifier.On("Verify", []byte(succeededBody), header).Return(false)

		result, err := f.usecase(t).HandleNotification(ctx, []byte(succeededBody), header)

		assert.Nil(t, result)
		assertAppError(t, err, apperrors.ErrUnauthenticated)
		f.events.AssertNotCalled(t, "ExistsWebhookEvent", mock.Anything, mock.Anything)
		f.payments.AssertNotCalled(t, "FindByPspOrBooking", mock.Anything, mock.Anything, mock.Anything)
		assert.Zero(t, f.tx.calls)
		f.assertExpectations(t)
	})

	t.Run("missing payment id is a bad request", func(t *testing.T) {
		f := newWebhookFixture()
		body := []byte(`{"order_id":"ORD-1","status_code":2}`)
		f.verifier.On("Verify", body, header).Return(true)

		_, err := f.usecase(t).HandleNotification(ctx, body, header)

		assertAppError(t, err, apperrors.ErrInvalidArgument)
		f.events.AssertNotCalled(t, "ExistsWebhookEvent", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("duplicate delivery short-circuits", func(t *testing.T) {
		f := newWebhookFixture()
		f.verifier.On("Verify", mock.Anything, header).Return(true)
		f.events.On("ExistsWebhookEvent", ctx, "psp-1").Return(true, nil)

		result, err := f.usecase(t).HandleNotification(ctx, []byte(succeededBody), header)

		require.NoError(t, err)
		assert.Equal(t, &usecase.WebhookResult{OK: true, Duplicate: true}, result)
		f.payments.AssertNotCalled(t, "FindByPspOrBooking", mock.Anything, mock.Anything, mock.Anything)
		assert.Zero(t, f.tx.calls)
		f.assertExpectations(t)
	})

	t.Run("unknown payment writes audit log and succeeds", func(t *testing.T) {
		f := newWebhookFixture()
		f.verifier.On("Verify", mock.Anything, header).Return(true)
		f.events.On("ExistsWebhookEvent", ctx, "psp-1").Return(false, nil)
		f.payments.On("FindByPspOrBooking", ctx, "psp-1", "ORD-1").Return(nil, nil)
		f.audits.On("Create", ctx, mock.MatchedBy(func(l *model.WebhookAuditLog) bool {
			return l.Reason == model.AuditReasonPaymentNotFound &&
				l.EventSource == model.EventSourcePayHere &&
				assert.JSONEq(t, `{"merchantId":"M1","orderId":"ORD-1","pspPaymentId":"psp-1","statusCode":2,"reference":"R-1","raw":{"merchant_id":"M1","order_id":"ORD-1","payment_id":"psp-1","status_code":2,"reference":"R-1"}}`, string(l.Payload))
		})).Return(nil)

		result, err := f.usecase(t).HandleNotification(ctx, []byte(succeededBody), header)

		require.NoError(t, err)
		assert.Equal(t, &usecase.WebhookResult{OK: true, Note: usecase.NoteUnknownPayment}, result)
		assert.Zero(t, f.tx.calls)
		f.assertExpectations(t)
	})

	t.Run("audit log failure is swallowed", func(t *testing.T) {
		f := newWebhookFixture()
		f.verifier.On("Verify", mock.Anything, header).Return(true)
		f.events.On("ExistsWebhookEvent", ctx, "psp-1").Return(false, nil)
		f.payments.On("FindByPspOrBooking", ctx, "psp-1", "ORD-1").Return(nil, nil)
		f.audits.On("Create", ctx, mock.Anything).Return(errors.New("disk full"))

		result, err := f.usecase(t).HandleNotification(ctx, []byte(succeededBody), header)

		require.NoError(t, err)
		assert.Equal(t, usecase.NoteUnknownPayment, result.Note)
		f.assertExpectations(t)
	})

	t.Run("applies transition and appends event", func(t *testing.T) {
		f := newWebhookFixture()
		f.verifier.On("Verify", mock.Anything, header).Return(true)
		f.events.On("ExistsWebhookEvent", ctx, "psp-1").Return(false, nil)
		f.payments.On("FindByPspOrBooking", ctx, "psp-1", "ORD-1").Return(createdPayment(), nil)
		f.payments.On("UpdateStatus", ctx, "pay-1", model.PaymentStatusSucceeded, repository.PaymentStatusUpdate{
			PspPaymentID: "psp-1",
			PspReference: "R-1",
		}).Return(nil)
		f.events.On("Create", ctx, mock.MatchedBy(func(e *model.PaymentEvent) bool {
			return e.PaymentID == "pay-1" &&
				e.EventType == model.EventTypeWebhookReceived &&
				e.EventSource == model.EventSourcePayHere &&
				*e.PspPaymentID == "psp-1" &&
				*e.StatusBefore == model.PaymentStatusCreated &&
				e.StatusAfter == model.PaymentStatusSucceeded
		})).Return(nil)

		result, err := f.usecase(t).HandleNotification(ctx, []byte(succeededBody), header)

		require.NoError(t, err)
		assert.Equal(t, &usecase.WebhookResult{OK: true}, result)
		assert.Equal(t, 1, f.tx.calls)
		f.assertExpectations(t)
	})

	t.Run("merchant_reference used when reference absent", func(t *testing.T) {
		f := newWebhookFixture()
		body := []byte(`{"order_id":"ORD-1","payment_id":"psp-1","status_code":-2,"merchant_reference":"MR-9"}`)
		f.verifier.On("Verify", body, header).Return(true)
		f.events.On("ExistsWebhookEvent", ctx, "psp-1").Return(false, nil)
		f.payments.On("FindByPspOrBooking", ctx, "psp-1", "ORD-1").Return(createdPayment(), nil)
		f.payments.On("UpdateStatus", ctx, "pay-1", model.PaymentStatusFailed, repository.PaymentStatusUpdate{
			PspPaymentID: "psp-1",
			PspReference: "MR-9",
		}).Return(nil)
		f.events.On("Create", ctx, mock.Anything).Return(nil)

		_, err := f.usecase(t).HandleNotification(ctx, body, header)

		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("unknown status code maps to pending", func(t *testing.T) {
		f := newWebhookFixture()
		body := []byte(`{"order_id":"ORD-1","payment_id":"psp-1","status_code":42}`)
		f.verifier.On("Verify", body, header).Return(true)
		f.events.On("ExistsWebhookEvent", ctx, "psp-1").Return(false, nil)
		f.payments.On("FindByPspOrBooking", ctx, "psp-1", "ORD-1").Return(createdPayment(), nil)
		f.payments.On("UpdateStatus", ctx, "pay-1", model.PaymentStatusPending, repository.PaymentStatusUpdate{PspPaymentID: "psp-1"}).Return(nil)
		f.events.On("Create", ctx, mock.Anything).Return(nil)

		_, err := f.usecase(t).HandleNotification(ctx, body, header)

		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("unique violation on event insert is a duplicate", func(t *testing.T) {
		f := newWebhookFixture()
		f.verifier.On("Verify", mock.Anything, header).Return(true)
		f.events.On("ExistsWebhookEvent", ctx, "psp-1").Return(false, nil)
		f.payments.On("FindByPspOrBooking", ctx, "psp-1", "ORD-1").Return(createdPayment(), nil)
		f.payments.On("UpdateStatus", ctx, "pay-1", model.PaymentStatusSucceeded, mock.Anything).Return(nil)
		f.events.On("Create", ctx, mock.Anything).Return(domainErrors.ErrDuplicateWebhookEvent)

		result, err := f.usecase(t).HandleNotification(ctx, []byte(succeededBody), header)

		require.NoError(t, err)
		assert.Equal(t, &usecase.WebhookResult{OK: true, Duplicate: true}, result)
		f.assertExpectations(t)
	})

	t.Run("storage failure is surfaced as internal", func(t *testing.T) {
		f := newWebhookFixture()
		f.verifier.On("Verify", mock.Anything, header).Return(true)
		f.events.On("ExistsWebhookEvent", ctx, "psp-1").Return(false, nil)
		f.payments.On("FindByPspOrBooking", ctx, "psp-1", "ORD-1").Return(createdPayment(), nil)
		f.payments.On("UpdateStatus", ctx, "pay-1", model.PaymentStatusSucceeded, mock.Anything).Return(errors.New("connection reset"))

		_, err := f.usecase(t).HandleNotification(ctx, []byte(succeededBody), header)

		assertAppError(t, err, apperrors.ErrInternal)
		f.events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("duplicate check failure is surfaced as internal", func(t *testing.T) {
		f := newWebhookFixture()
		f.verifier.On("Verify", mock.Anything, header).Return(true)
		f.events.On("ExistsWebhookEvent", ctx, "psp-1").Return(false, errors.New("timeout"))

		_, err := f.usecase(t).HandleNotification(ctx, []byte(succeededBody), header)

		assertAppError(t, err, apperrors.ErrInternal)
		f.assertExpectations(t)
	})

	t.Run("lock failure is surfaced as internal", func(t *testing.T) {
		f := newWebhookFixture()
		locker := new(MockLocker)
		locker.On("Lock", ctx, "psp-1").Return(nil, errors.New("redis down"))
		f.locker = locker
		f.verifier.On("Verify", mock.Anything, header).Return(true)

		_, err := f.usecase(t).HandleNotification(ctx, []byte(succeededBody), header)

		assertAppError(t, err, apperrors.ErrInternal)
		f.events.AssertNotCalled(t, "ExistsWebhookEvent", mock.Anything, mock.Anything)
		locker.AssertExpectations(t)
	})

	t.Run("lock is released after processing", func(t *testing.T) {
		f := newWebhookFixture()
		released := 0
		locker := new(MockLocker)
		locker.On("Lock", ctx, "psp-1").Return(func() { released++ }, nil)
		f.locker = locker
		f.verifier.On("Verify", mock.Anything, header).Return(true)
		f.events.On("ExistsWebhookEvent", ctx, "psp-1").Return(true, nil)

		_, err := f.usecase(t).HandleNotification(ctx, []byte(succeededBody), header)

		require.NoError(t, err)
		assert.Equal(t, 1, released)
	})
}

func TestWebhookUsecase_StrictPolicy(t *testing.T) {
	ctx := context.Background()
	header := http.Header{}

	f := newWebhookFixture()
	f.opts.Policy = usecase.TransitionPolicyStrict
	failedBody := []byte(`{"order_id":"ORD-1","payment_id":"psp-late","status_code":-2}`)
	succeeded := &model.Payment{ID: "pay-1", BookingID: "ORD-1", Status: model.PaymentStatusSucceeded}

	f.verifier.On("Verify", failedBody, header).Return(true)
	f.events.On("ExistsWebhookEvent", ctx, "psp-late").Return(false, nil)
	f.payments.On("FindByPspOrBooking", ctx, "psp-late", "ORD-1").Return(succeeded, nil)
	f.payments.On("UpdateStatus", ctx, "pay-1", model.PaymentStatusSucceeded, mock.Anything).Return(nil)
	f.events.On("Create", ctx, mock.MatchedBy(func(e *model.PaymentEvent) bool {
		return *e.StatusBefore == model.PaymentStatusSucceeded && e.StatusAfter == model.PaymentStatusSucceeded
	})).Return(nil)

	result, err := f.usecase(t).HandleNotification(ctx, failedBody, header)

	require.NoError(t, err)
	assert.Equal(t, &usecase.WebhookResult{OK: true, Note: usecase.NoteTransitionIgnored}, result)
	f.assertExpectations(t)
}

func TestWebhookUsecase_HandleTestNotification(t *testing.T) {
	ctx := context.Background()

	t.Run("forbidden when disabled", func(t *testing.T) {
		f := newWebhookFixture()

		_, err := f.usecase(t).HandleTestNotification(ctx, []byte(succeededBody))

		assertAppError(t, err, apperrors.ErrUnauthorized)
		f.events.AssertNotCalled(t, "ExistsWebhookEvent", mock.Anything, mock.Anything)
	})

	t.Run("skips verification when enabled", func(t *testing.T) {
		f := newWebhookFixture()
		f.opts.AllowTestNotifications = true
		f.events.On("ExistsWebhookEvent", ctx, "psp-1").Return(true, nil)

		result, err := f.usecase(t).HandleTestNotification(ctx, []byte(succeededBody))

		require.NoError(t, err)
		assert.True(t, result.Duplicate)
		f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}
