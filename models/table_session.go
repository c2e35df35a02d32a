package models

import "time"

// TableSession is one party's occupancy of one unit. EndedAt == nil
// defines an active session; a closed session is immutable.
type TableSession struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TableID   uint       `gorm:"not null;index" json:"table_id"`
	Table     Table      `gorm:"foreignKey:TableID" json:"-"`
	UnitID    uint       `gorm:"not null;index" json:"unit_id"`
	Unit      TableUnit  `gorm:"foreignKey:UnitID" json:"-"`
	Pax       int        `gorm:"not null" json:"pax"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `gorm:"index" json:"ended_at,omitempty"`

	// Closure fields, written once by the closure coordinator.
	PaymentMethod   string  `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	AmountPaid      int64   `gorm:"not null;default:0" json:"amount_paid"`
	DiscountApplied int64   `gorm:"not null;default:0" json:"discount_applied"`
	Notes           string  `gorm:"type:text" json:"notes,omitempty"`
	ClosedByStaffID *uint   `json:"closed_by_staff_id,omitempty"`
	POSReference    *string `gorm:"type:varchar(100);uniqueIndex" json:"pos_reference,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Orders []Order `gorm:"foreignKey:SessionID" json:"orders,omitempty"`
}

// IsActive reports whether the session still occupies its unit.
func (s *TableSession) IsActive() bool {
	return s.EndedAt == nil
}
