package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
	"github.com/eChanneling-Revamp/payment-service/internal/middleware/auth"
	apperrors "github.com/eChanneling-Revamp/payment-service/pkg/errors"
)

const defaultAuditLogLimit = 50

// PaymentQuery reads payments and their notification history
type PaymentQuery interface {
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
	ListEvents(ctx context.Context, paymentID string) ([]*model.PaymentEvent, error)
	ListAuditLogs(ctx context.Context, limit int) ([]*model.WebhookAuditLog, error)
}

type PaymentHandler struct {
	query  PaymentQuery
	logger *zap.Logger
}

func NewPaymentHandler(query PaymentQuery, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		query:  query,
		logger: logger,
	}
}

func (h *PaymentHandler) GetPayment(c echo.Context) error {
	payment, err := h.query.GetPayment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apperrors.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) ListPaymentEvents(c echo.Context) error {
	id := c.Param("id")

	events, err := h.query.ListEvents(c.Request().Context(), id)
	if err != nil {
		return apperrors.ToHTTPError(err)
	}

	h.logger.Debug("Retrieved payment events",
		zap.String("payment_id", id),
		zap.Int("event_count", len(events)),
		zap.String("requested_by", requestedBy(c)))

	return c.JSON(http.StatusOK, echo.Map{
		"payment_id": id,
		"events":     events,
	})
}

func (h *PaymentHandler) ListWebhookAuditLogs(c echo.Context) error {
	limit := defaultAuditLogLimit
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return apperrors.ToHTTPError(apperrors.BadRequest("limit must be a positive integer"))
		}
		limit = parsed
	}

	logs, err := h.query.ListAuditLogs(c.Request().Context(), limit)
	if err != nil {
		return apperrors.ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"audit_logs": logs,
		"count":      len(logs),
	})
}

func requestedBy(c echo.Context) string {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return ""
	}
	return user.UserID
}
