package models

import "time"

type OrderItem struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID uint   `gorm:"not null;index" json:"order_id"`
	Order   Order  `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	Quantity int `gorm:"not null" json:"quantity"`
	// UnitPrice is captured in cents at insertion time and never
	// recomputed from any menu source afterwards.
	UnitPrice int64     `gorm:"not null" json:"unit_price"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
