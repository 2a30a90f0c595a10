package types

// MemberState is the derived lifecycle state of a member. It is never stored
// directly; it is computed from the member flags and the latest subscription.
type MemberState string

const (
	MemberStateActive    MemberState = "ACTIVE"
	MemberStateCancelled MemberState = "CANCELLED"
	MemberStateExpired   MemberState = "EXPIRED"
	MemberStateInactive  MemberState = "INACTIVE"
	MemberStateDeleted   MemberState = "DELETED"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

// ExpiryUrgency buckets how close a subscription is to its end date.
type ExpiryUrgency string

const (
	ExpiryUrgencyCritical ExpiryUrgency = "critical"
	ExpiryUrgencyHigh     ExpiryUrgency = "high"
	ExpiryUrgencyMedium   ExpiryUrgency = "medium"
)

// UrgencyForDays maps days-until-expiry to an urgency bucket.
func UrgencyForDays(days int) ExpiryUrgency {
	switch {
	case days <= 1:
		return ExpiryUrgencyCritical
	case days <= 3:
		return ExpiryUrgencyHigh
	default:
		return ExpiryUrgencyMedium
	}
}
