package usecase_test

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
	"github.com/eChanneling-Revamp/payment-service/internal/domain/repository"
)

// MockVerifier is a mock implementation of provider.SignatureVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(rawBody []byte, header http.Header) bool {
	args := m.Called(rawBody, header)
	return args.Bool(0)
}

func (m *MockVerifier) Scheme() string {
	return "mock"
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*model.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByPspOrBooking(ctx context.Context, pspPaymentID, bookingID string) (*model.Payment, error) {
	args := m.Called(ctx, pspPaymentID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus, update repository.PaymentStatusUpdate) error {
	args := m.Called(ctx, id, status, update)
	return args.Error(0)
}

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) ExistsWebhookEvent(ctx context.Context, pspPaymentID string) (bool, error) {
	args := m.Called(ctx, pspPaymentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventRepository) Create(ctx context.Context, event *model.PaymentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) ListByPaymentID(ctx context.Context, paymentID string) ([]*model.PaymentEvent, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PaymentEvent), args.Error(1)
}

// MockAuditLogRepository is a mock implementation of AuditLogRepository
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, log *model.WebhookAuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditLogRepository) ListRecent(ctx context.Context, limit int) ([]*model.WebhookAuditLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.WebhookAuditLog), args.Error(1)
}

// MockLocker is a mock implementation of KeyLocker
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Lock(ctx context.Context, key string) (func(), error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}

// passthroughTx runs fn directly, standing in for a real transaction
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}
