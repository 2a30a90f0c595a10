package types

// AuditAction identifies what a lifecycle audit entry records.
type AuditAction string

const (
	AuditActionAccountActivated    AuditAction = "ACCOUNT_ACTIVATED"
	AuditActionAccountDeactivated  AuditAction = "ACCOUNT_DEACTIVATED"
	AuditActionAccountRestored     AuditAction = "ACCOUNT_RESTORED"
	AuditActionSubscriptionRenewed AuditAction = "SUBSCRIPTION_RENEWED"

	// Written by collaborating subsystems, present here so history filtering
	// covers the full taxonomy.
	AuditActionPaymentRecorded AuditAction = "PAYMENT_RECORDED"
	AuditActionPaymentRefunded AuditAction = "PAYMENT_REFUNDED"
	AuditActionAccessGranted   AuditAction = "ACCESS_GRANTED"
	AuditActionAccessRevoked   AuditAction = "ACCESS_REVOKED"
)

// AuditCategory groups audit actions for history filtering.
type AuditCategory string

const (
	AuditCategoryAccount      AuditCategory = "ACCOUNT"
	AuditCategorySubscription AuditCategory = "SUBSCRIPTION"
	AuditCategoryPayment      AuditCategory = "PAYMENT"
	AuditCategoryAccess       AuditCategory = "ACCESS"
)

var actionsByCategory = map[AuditCategory][]AuditAction{
	AuditCategoryAccount: {
		AuditActionAccountActivated,
		AuditActionAccountDeactivated,
		AuditActionAccountRestored,
	},
	AuditCategorySubscription: {
		AuditActionSubscriptionRenewed,
	},
	AuditCategoryPayment: {
		AuditActionPaymentRecorded,
		AuditActionPaymentRefunded,
	},
	AuditCategoryAccess: {
		AuditActionAccessGranted,
		AuditActionAccessRevoked,
	},
}

// ActionsInCategory returns the closed set of actions a category covers.
// Unknown categories return nil.
func ActionsInCategory(c AuditCategory) []AuditAction {
	return actionsByCategory[c]
}

// ValidCategory reports whether c is part of the category taxonomy.
func ValidCategory(c AuditCategory) bool {
	_, ok := actionsByCategory[c]
	return ok
}
