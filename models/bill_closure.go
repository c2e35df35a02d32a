package models

import "time"

// BillClosure is the append-only audit record of a billed closure.
// Exactly one row exists per successfully closed session. The webhook
// fields are the only ones written after creation, once, when the POS
// notification outcome is known.
type BillClosure struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	SessionID       uint         `gorm:"not null;uniqueIndex" json:"session_id"`
	Session         TableSession `gorm:"foreignKey:SessionID" json:"-"`
	ClosedAt        time.Time    `gorm:"not null" json:"closed_at"`
	Subtotal        int64        `gorm:"not null" json:"subtotal"`
	ServiceCharge   int64        `gorm:"not null" json:"service_charge"`
	DiscountApplied int64        `gorm:"not null" json:"discount_applied"`
	Total           int64        `gorm:"not null" json:"total"`
	AmountPaid      int64        `gorm:"not null" json:"amount_paid"`
	PaymentMethod   string       `gorm:"type:varchar(50)" json:"payment_method"`
	POSReference    string       `gorm:"type:varchar(100);not null" json:"pos_reference"`
	WebhookSent     bool         `gorm:"not null;default:false" json:"webhook_sent"`
	WebhookError    *string      `gorm:"type:text" json:"webhook_error,omitempty"`
	CreatedAt       time.Time    `gorm:"not null" json:"created_at"`
}
