package models

import (
	"time"

	"gorm.io/datatypes"
)

// Member is an end customer of a tenant. Its lifecycle state is never stored;
// it is derived from the flags below together with the latest subscription.
type Member struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TenantID  string `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenant_id"`
	FirstName string `gorm:"column:first_name;type:varchar(128);not null" json:"first_name"`
	LastName  string `gorm:"column:last_name;type:varchar(128);not null" json:"last_name"`
	Email     string `gorm:"column:email;type:varchar(255);not null;index" json:"email"`
	Phone     string `gorm:"column:phone;type:varchar(32)" json:"phone"`
	IsActive  bool   `gorm:"column:is_active;not null;default:true" json:"is_active"`
	// DeletedAt/DeletedBy form the soft-deletion marker. Managed explicitly by
	// the lifecycle service rather than gorm.DeletedAt so that restore and
	// derivation keep full control over visibility.
	DeletedAt *time.Time `gorm:"column:deleted_at;index" json:"deleted_at"`
	DeletedBy *string    `gorm:"column:deleted_by;type:uuid" json:"deleted_by"`
	// BusinessData holds tenant-specific payload (e.g. locker number, trainer).
	BusinessData datatypes.JSONMap `gorm:"column:business_data;type:jsonb;default:'{}'" json:"business_data"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func (Member) TableName() string {
	return "member"
}

// Deleted reports whether the soft-deletion marker is set.
func (m *Member) Deleted() bool {
	return m != nil && m.DeletedAt != nil
}

// FullName joins first and last name for display.
func (m *Member) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}
