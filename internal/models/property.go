package models

import "time"

// Property represents a camp/property location with its own inventory and orders
type Property struct {
	ID        uint       `gorm:"primary_key" json:"id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Code      string     `gorm:"type:varchar(50);unique_index;not null" json:"code"`
	Address   string     `gorm:"type:text" json:"address,omitempty"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `sql:"index" json:"-"`
}

// TableName sets the table name for Property
func (Property) TableName() string {
	return "properties"
}
