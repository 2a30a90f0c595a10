package models

import (
	"time"

	"github.com/fitcrew/memberd/pkg/types"
)

// MemberSubscription is one time-boxed enrollment of a member in a plan.
// A member accumulates subscriptions over time; the row with the highest
// CreatedAt is the "current" one for state derivation.
type MemberSubscription struct {
	ID       string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MemberID string  `gorm:"column:member_id;type:uuid;not null;index:idx_sub_member_created,priority:1" json:"member_id"`
	PlanID   string  `gorm:"column:plan_id;type:uuid;not null" json:"plan_id"`
	TenantID string  `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenant_id"`
	BranchID *string `gorm:"column:branch_id;type:uuid;index" json:"branch_id"`

	Status    types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	StartDate time.Time                `gorm:"column:start_date;not null" json:"start_date"`
	EndDate   time.Time                `gorm:"column:end_date;not null;index" json:"end_date"`
	// Price in the tenant currency's minor unit.
	Price int64 `gorm:"column:price;type:bigint;not null" json:"price"`

	CancelledAt        *time.Time        `gorm:"column:cancelled_at" json:"cancelled_at"`
	CancellationReason *types.ReasonCode `gorm:"column:cancellation_reason;type:varchar(64)" json:"cancellation_reason"`
	CancellationNotes  *string           `gorm:"column:cancellation_notes;type:text" json:"cancellation_notes"`
	AutoRenew          bool              `gorm:"column:auto_renew;not null" json:"auto_renew"`

	CreatedAt time.Time `gorm:"column:created_at;index:idx_sub_member_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Member *Member         `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Plan   *MembershipPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Branch *Branch         `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	Tenant *Tenant         `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

func (MemberSubscription) TableName() string {
	return "member_subscription"
}

// Lapsed reports whether the end date has passed at the given instant.
func (s *MemberSubscription) Lapsed(now time.Time) bool {
	return s != nil && s.EndDate.Before(now)
}
