package model

import (
	"time"

	"gorm.io/datatypes"
)

const AuditReasonPaymentNotFound = "payment_not_found"

// WebhookAuditLog records verified notifications that could not be applied
type WebhookAuditLog struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	EventSource string         `gorm:"not null;size:50" json:"event_source"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	Reason      string         `gorm:"not null;size:100;index" json:"reason"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for GORM
func (WebhookAuditLog) TableName() string {
	return "webhook_audit_logs"
}
