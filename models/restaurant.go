package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Restaurant holds per-tenant settings consumed by the session engine:
// the QR rotation policy, the service charge percentage and the optional
// POS webhook target.
type Restaurant struct {
	ID                     uint            `gorm:"primaryKey" json:"id"`
	Name                   string          `gorm:"type:varchar(100);not null" json:"name"`
	RegenerateQRPerSession bool            `gorm:"not null;default:false" json:"regenerate_qr_per_session"`
	ServiceChargePercent   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"service_charge_percent"`
	POSEndpoint            *string         `gorm:"type:varchar(255)" json:"pos_endpoint,omitempty"`
	POSCredential          *string         `gorm:"type:varchar(255)" json:"-"`
	CreatedAt              time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"not null" json:"updated_at"`
}

// HasPOSConfig reports whether an outbound POS target is configured.
func (r *Restaurant) HasPOSConfig() bool {
	return r.POSEndpoint != nil && *r.POSEndpoint != ""
}
