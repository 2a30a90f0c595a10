package models

import "time"

// MembershipPlan is a tenant-defined plan members subscribe to.
type MembershipPlan struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TenantID string `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenant_id"`
	Name     string `gorm:"column:name;type:varchar(128);not null" json:"name"`
	// Price in the tenant currency's minor unit.
	Price        int64     `gorm:"column:price;type:bigint;not null" json:"price"`
	DurationDays int       `gorm:"column:duration_days;type:int;not null" json:"duration_days"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (MembershipPlan) TableName() string {
	return "membership_plan"
}
