package errors

import "errors"

var (
	// ErrDuplicateWebhookEvent indicates a webhook.received event already exists for the PSP payment id
	ErrDuplicateWebhookEvent = errors.New("webhook event already recorded")

	// ErrPaymentNotFound indicates that the payment row to update does not exist
	ErrPaymentNotFound = errors.New("payment not found")
)
