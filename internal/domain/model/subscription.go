package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PlanMensal is the only plan sold at the moment. Reconciliation always
// writes this value; additional plans require a plans table first.
const PlanMensal = "mensal"

// Subscription is the reconciliation target: one row per user, upserted on
// every payment notification for that user, never deleted.
type Subscription struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         string          `gorm:"column:id_usuario;type:uuid;not null;uniqueIndex:uq_assinaturas_id_usuario" json:"id_usuario"`
	Email          string          `gorm:"not null;size:255" json:"email"`
	Active         bool            `gorm:"column:assinatura_ativa;not null;default:false" json:"assinatura_ativa"`
	Plan           string          `gorm:"column:plano;not null;size:50" json:"plano"`
	StartDate      *time.Time      `gorm:"column:data_inicio" json:"data_inicio,omitempty"`
	ExpirationDate *time.Time      `gorm:"column:data_expiracao" json:"data_expiracao,omitempty"`
	PaymentID      string          `gorm:"column:mercado_payment_id;size:100" json:"mercado_payment_id"`
	PaymentStatus  string          `gorm:"column:mercado_pago_status;size:50" json:"mercado_pago_status"`
	AmountPaid     decimal.Decimal `gorm:"column:valor_pago;type:numeric(12,2)" json:"valor_pago"`
	UpdatedAt      time.Time       `gorm:"column:atualizado_em;default:now()" json:"atualizado_em"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "assinaturas"
}

// JSONB represents a JSONB database type
type JSONB map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONB) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		*j = make(JSONB)
		return nil
	}
}
