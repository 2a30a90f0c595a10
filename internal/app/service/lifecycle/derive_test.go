package lifecycle

import (
	"testing"
	"time"

	"github.com/fitcrew/memberd/internal/models"
	"github.com/fitcrew/memberd/pkg/types"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestDeriveState_PriorityOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 30)

	sub := func(status types.SubscriptionStatus, endDate time.Time) *models.MemberSubscription {
		return &models.MemberSubscription{ID: "s1", Status: status, EndDate: endDate}
	}

	tests := []struct {
		name   string
		member *models.Member
		latest *models.MemberSubscription
		want   types.MemberState
	}{
		{
			name:   "deleted wins over everything",
			member: &models.Member{IsActive: true, DeletedAt: lo.ToPtr(past)},
			latest: sub(types.SubscriptionStatusActive, future),
			want:   types.MemberStateDeleted,
		},
		{
			name:   "deleted wins even when account inactive and sub expired",
			member: &models.Member{IsActive: false, DeletedAt: lo.ToPtr(past)},
			latest: sub(types.SubscriptionStatusExpired, past),
			want:   types.MemberStateDeleted,
		},
		{
			name:   "no subscription, inactive account",
			member: &models.Member{IsActive: false},
			want:   types.MemberStateInactive,
		},
		{
			name:   "no subscription, active account is cancelled",
			member: &models.Member{IsActive: true},
			want:   types.MemberStateCancelled,
		},
		{
			name:   "cancelled subscription wins over end date",
			member: &models.Member{IsActive: true},
			latest: sub(types.SubscriptionStatusCancelled, future),
			want:   types.MemberStateCancelled,
		},
		{
			name:   "cancelled subscription wins over inactive account",
			member: &models.Member{IsActive: false},
			latest: sub(types.SubscriptionStatusCancelled, future),
			want:   types.MemberStateCancelled,
		},
		{
			name:   "lapsed end date is expired even with ACTIVE status",
			member: &models.Member{IsActive: true},
			latest: sub(types.SubscriptionStatusActive, past),
			want:   types.MemberStateExpired,
		},
		{
			name:   "expired status with future end date is expired",
			member: &models.Member{IsActive: true},
			latest: sub(types.SubscriptionStatusExpired, future),
			want:   types.MemberStateExpired,
		},
		{
			name:   "expired wins over inactive account",
			member: &models.Member{IsActive: false},
			latest: sub(types.SubscriptionStatusActive, past),
			want:   types.MemberStateExpired,
		},
		{
			name:   "inactive account with live subscription",
			member: &models.Member{IsActive: false},
			latest: sub(types.SubscriptionStatusActive, future),
			want:   types.MemberStateInactive,
		},
		{
			name:   "active",
			member: &models.Member{IsActive: true},
			latest: sub(types.SubscriptionStatusActive, future),
			want:   types.MemberStateActive,
		},
		{
			name:   "end date exactly now is not yet expired",
			member: &models.Member{IsActive: true},
			latest: sub(types.SubscriptionStatusActive, now),
			want:   types.MemberStateActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveState(tt.member, tt.latest, now))
		})
	}
}

// A member who renewed and was later re-cancelled must be judged by the
// newest record even when an older one has a later end date. The caller
// selects by created_at; the engine trusts the record it is given.
func TestDeriveState_NewestRecordWins(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := &models.Member{IsActive: true}

	older := &models.MemberSubscription{
		Status:    types.SubscriptionStatusActive,
		EndDate:   now.AddDate(0, 0, 60),
		CreatedAt: now.AddDate(0, 0, -20),
	}
	newest := &models.MemberSubscription{
		Status:    types.SubscriptionStatusCancelled,
		EndDate:   now.AddDate(0, 0, 10),
		CreatedAt: now.AddDate(0, 0, -1),
	}

	assert.Equal(t, types.MemberStateActive, DeriveState(m, older, now))
	assert.Equal(t, types.MemberStateCancelled, DeriveState(m, newest, now))
}
