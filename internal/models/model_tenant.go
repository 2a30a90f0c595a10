package models

import "time"

// Tenant is a business customer of the platform, e.g. one gym chain.
type Tenant struct {
	ID   string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name string `gorm:"column:name;type:varchar(255);not null" json:"name"`
	// BusinessType keeps the model reusable beyond gyms ("gym", "studio", ...).
	BusinessType string    `gorm:"column:business_type;type:varchar(64);not null;default:'gym'" json:"business_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenant"
}
