package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentStatus is the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentStatusCreated   PaymentStatus = "CREATED"
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusDisputed  PaymentStatus = "DISPUTED"
)

// Valid reports whether s is one of the known statuses
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusCreated, PaymentStatusPending, PaymentStatusSucceeded,
		PaymentStatusCancelled, PaymentStatusFailed, PaymentStatusDisputed:
		return true
	}
	return false
}

// Scan implements sql.Scanner interface
func (s *PaymentStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = PaymentStatus(v)
	case []byte:
		*s = PaymentStatus(v)
	default:
		*s = PaymentStatusCreated
	}
	return nil
}

// Value implements driver.Valuer interface
func (s PaymentStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Ptr returns a pointer to a copy of s
func (s PaymentStatus) Ptr() *PaymentStatus {
	return &s
}

// Payment represents a payment record
type Payment struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID     string          `gorm:"column:booking_id;not null;size:100;uniqueIndex" json:"booking_id"`
	UserID        *string         `gorm:"size:100;index" json:"user_id,omitempty"`
	Psp           string          `gorm:"size:50;not null;default:'payhere'" json:"psp"`
	PspPaymentID  *string         `gorm:"column:psp_payment_id;size:100;index" json:"psp_payment_id,omitempty"`
	PspReference  *string         `gorm:"column:psp_reference;size:255" json:"psp_reference,omitempty"`
	PaymentMethod *string         `gorm:"size:50" json:"payment_method,omitempty"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency      string          `gorm:"size:3;not null" json:"currency"`
	Status        PaymentStatus   `gorm:"size:20;not null;index" json:"status"`
	Metadata      datatypes.JSON  `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate assigns the id and initial status
func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = PaymentStatusCreated
	}
	return nil
}
