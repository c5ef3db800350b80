package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventTypeWebhookReceived = "webhook.received"
	EventTypePaymentCreated  = "payment.created"

	EventSourcePayHere = "payhere"
	EventSourceSeed    = "seed"
)

// PaymentEvent is an append-only audit record of a payment state change.
// At most one webhook.received event exists per PspPaymentID.
type PaymentEvent struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	PaymentID    string         `gorm:"column:payment_id;type:uuid;not null;index" json:"payment_id"`
	EventType    string         `gorm:"not null;size:100" json:"event_type"`
	EventSource  string         `gorm:"not null;size:50" json:"event_source"`
	PspPaymentID *string        `gorm:"column:psp_payment_id;size:100" json:"psp_payment_id,omitempty"`
	Payload      datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	StatusBefore *PaymentStatus `gorm:"size:20" json:"status_before,omitempty"`
	StatusAfter  PaymentStatus  `gorm:"size:20;not null" json:"status_after"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for GORM
func (PaymentEvent) TableName() string {
	return "payment_events"
}
