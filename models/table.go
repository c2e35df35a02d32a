package models

import "time"

type Table struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`
	Category     string     `gorm:"type:varchar(50)" json:"category"`
	Name         string     `gorm:"type:varchar(50);not null" json:"name"`
	SeatCount    int        `gorm:"not null" json:"seat_count"`
	// Available is a convenience flag for staff dashboards. Occupancy
	// truth is always derived from active sessions, never from this.
	Available bool      `gorm:"not null;default:true" json:"available"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Units []TableUnit `gorm:"foreignKey:TableID" json:"units,omitempty"`
}
