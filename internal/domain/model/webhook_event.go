package model

import (
	"database/sql/driver"
	"time"
)

// WebhookStatus represents the processing outcome of a stored webhook event
type WebhookStatus string

const (
	WebhookStatusReceived  WebhookStatus = "received"
	WebhookStatusProcessed WebhookStatus = "processed"
	WebhookStatusIgnored   WebhookStatus = "ignored"
	WebhookStatusFailed    WebhookStatus = "failed"
)

// Scan implements sql.Scanner interface
func (s *WebhookStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = WebhookStatus(v)
	case []byte:
		*s = WebhookStatus(v)
	default:
		*s = WebhookStatusReceived
	}
	return nil
}

// Value implements driver.Valuer interface
func (s WebhookStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// WebhookEvent is the audit record of a MercadoPago notification delivery.
// Every POST to /webhook that parses as JSON is stored here, including
// ignored event kinds, so redeliveries and failures can be traced.
type WebhookEvent struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	EventType   string        `gorm:"not null;size:100;index" json:"event_type"`
	Action      *string       `gorm:"size:100" json:"action,omitempty"`
	PaymentID   *string       `gorm:"size:100;index" json:"payment_id,omitempty"`
	Status      WebhookStatus `gorm:"type:webhook_status;default:'received';index" json:"status"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
	Payload     JSONB         `gorm:"type:jsonb;not null" json:"payload"`
	LastError   *string       `json:"last_error,omitempty"`
	CreatedAt   time.Time     `gorm:"default:now()" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
