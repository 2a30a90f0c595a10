package models

import (
	"time"

	"github.com/fitcrew/memberd/pkg/types"

	"gorm.io/datatypes"
)

// MemberAuditLog is the append-only ledger of lifecycle transitions.
// Rows are written inside the transition transaction and never updated
// or deleted afterwards.
type MemberAuditLog struct {
	ID       string            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MemberID string            `gorm:"column:member_id;type:uuid;not null;index:idx_audit_member_at,priority:1" json:"member_id"`
	Action   types.AuditAction `gorm:"column:action;type:varchar(64);not null;index" json:"action"`
	Reason   types.ReasonCode  `gorm:"column:reason;type:varchar(64);not null" json:"reason"`
	Notes    *string           `gorm:"column:notes;type:text" json:"notes"`

	PreviousState types.MemberState `gorm:"column:previous_state;type:varchar(32);not null" json:"previous_state"`
	NewState      types.MemberState `gorm:"column:new_state;type:varchar(32);not null" json:"new_state"`
	PerformedBy   *string           `gorm:"column:performed_by;type:uuid" json:"performed_by"`

	// Metadata carries enough structured context to reconstruct the business
	// effect: subscription id, plan id/name, duration, price, start/end dates.
	Metadata    datatypes.JSONMap `gorm:"column:metadata;type:jsonb;not null" json:"metadata"`
	PerformedAt time.Time         `gorm:"column:performed_at;not null;index:idx_audit_member_at,priority:2" json:"performed_at"`
}

func (MemberAuditLog) TableName() string {
	return "member_audit_log"
}
