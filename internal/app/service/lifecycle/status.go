package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fitcrew/memberd/internal/models"
	"github.com/fitcrew/memberd/pkg/types"

	"gorm.io/gorm"
)

// MemberStatus is the read-only answer to "what state is this member in".
type MemberStatus struct {
	MemberID            string                     `json:"member_id"`
	State               types.MemberState          `json:"state"`
	IsActive            bool                       `json:"is_active"`
	Deleted             bool                       `json:"deleted"`
	CurrentSubscription *models.MemberSubscription `json:"current_subscription,omitempty"`
	DaysRemaining       *int                       `json:"days_remaining,omitempty"`
}

// GetStatus derives the current state without locking; it is a plain read.
func (s *Service) GetStatus(ctx context.Context, memberID string) (*MemberStatus, error) {
	var m models.Member
	if err := s.db.WithContext(ctx).Where("id = ?", memberID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to load member: %w", err)
	}

	var latest *models.MemberSubscription
	var sub models.MemberSubscription
	err := s.db.WithContext(ctx).Where("member_id = ?", memberID).Order("created_at DESC").First(&sub).Error
	switch {
	case err == nil:
		latest = &sub
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, fmt.Errorf("failed to load latest subscription: %w", err)
	}

	now := time.Now().UTC()
	status := &MemberStatus{
		MemberID:            m.ID,
		State:               DeriveState(&m, latest, now),
		IsActive:            m.IsActive,
		Deleted:             m.Deleted(),
		CurrentSubscription: latest,
	}
	if latest != nil {
		days := int(math.Ceil(latest.EndDate.Sub(now).Hours() / 24))
		status.DaysRemaining = &days
	}
	return status, nil
}
