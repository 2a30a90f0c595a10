package lifecycle

import (
	"time"

	"github.com/fitcrew/memberd/internal/models"
	"github.com/fitcrew/memberd/pkg/types"
)

// DeriveState computes the lifecycle state of a member from its stored facts.
// latest must be the subscription with the highest created_at, not the highest
// end date: a member who renewed and was later re-cancelled is judged by the
// newest record even when an older one ends later.
//
// The checks run in strict priority order; the first match wins.
func DeriveState(m *models.Member, latest *models.MemberSubscription, now time.Time) types.MemberState {
	switch {
	case m.DeletedAt != nil:
		return types.MemberStateDeleted
	case latest == nil:
		// No subscription history: an inactive account is INACTIVE, an active
		// one is CANCELLED (there is no plan to be active under).
		if !m.IsActive {
			return types.MemberStateInactive
		}
		return types.MemberStateCancelled
	case latest.Status == types.SubscriptionStatusCancelled:
		return types.MemberStateCancelled
	case latest.EndDate.Before(now) || latest.Status == types.SubscriptionStatusExpired:
		return types.MemberStateExpired
	case !m.IsActive:
		return types.MemberStateInactive
	default:
		return types.MemberStateActive
	}
}
