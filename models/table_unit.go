package models

import "time"

// TableUnit is one assignable occupancy slot on a table (a single seat at
// a bar, or the whole table as one unit). A unit is occupied iff an
// active session references it; no occupancy flag is stored here.
type TableUnit struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TableID     uint   `gorm:"not null;uniqueIndex:idx_table_unit_code" json:"table_id"`
	Table       Table  `gorm:"foreignKey:TableID" json:"-"`
	UnitCode    string `gorm:"type:varchar(50);not null;uniqueIndex:idx_table_unit_code" json:"unit_code"`
	DisplayName string `gorm:"type:varchar(100)" json:"display_name"`
	// QRToken is the unit's current scan credential. Fixed at table
	// creation under the static policy, rotated on every allocation
	// under the dynamic policy (nil until first allocation).
	QRToken   *string   `gorm:"type:varchar(128);index" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
