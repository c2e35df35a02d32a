package models

import "time"

const (
	OrderStatusActive    = "active"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	SessionID uint         `gorm:"not null;index" json:"session_id"`
	Session   TableSession `gorm:"foreignKey:SessionID" json:"-"`
	Status    string       `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}
