package models

import "time"

// Branch is a physical location belonging to a tenant.
type Branch struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TenantID  string    `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenant_id"`
	Name      string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Address   string    `gorm:"column:address;type:text" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Branch) TableName() string {
	return "branch"
}
