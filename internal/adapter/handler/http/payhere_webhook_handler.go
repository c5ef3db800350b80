package http

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eChanneling-Revamp/payment-service/internal/usecase"
	apperrors "github.com/eChanneling-Revamp/payment-service/pkg/errors"
)

// WebhookProcessor applies PSP notifications
type WebhookProcessor interface {
	HandleNotification(ctx context.Context, rawBody []byte, header http.Header) (*usecase.WebhookResult, error)
	HandleTestNotification(ctx context.Context, rawBody []byte) (*usecase.WebhookResult, error)
}

type PayHereWebhookHandler struct {
	processor WebhookProcessor
	logger    *zap.Logger
}

func NewPayHereWebhookHandler(processor WebhookProcessor, logger *zap.Logger) *PayHereWebhookHandler {
	return &PayHereWebhookHandler{
		processor: processor,
		logger:    logger,
	}
}

// HandleWebhook receives PayHere server-to-server notifications.
// The body is read verbatim; signatures are computed over these exact bytes.
func (h *PayHereWebhookHandler) HandleWebhook(c echo.Context) error {
	body, err := h.readBody(c)
	if err != nil {
		return err
	}

	result, err := h.processor.HandleNotification(c.Request().Context(), body, c.Request().Header)
	if err != nil {
		return apperrors.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// HandleTestWebhook processes a notification without signature verification
func (h *PayHereWebhookHandler) HandleTestWebhook(c echo.Context) error {
	body, err := h.readBody(c)
	if err != nil {
		return err
	}

	result, err := h.processor.HandleTestNotification(c.Request().Context(), body)
	if err != nil {
		return apperrors.ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *PayHereWebhookHandler) readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		// body limit middleware reports oversize bodies as an echo.HTTPError
		if he, ok := err.(*echo.HTTPError); ok {
			return nil, he
		}
		h.logger.Error("Error reading request body", zap.Error(err))
		return nil, apperrors.ToHTTPError(apperrors.BadRequest("error reading request body"))
	}
	return body, nil
}
