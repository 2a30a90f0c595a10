package types

// LifecycleOperation names a member lifecycle transition.
type LifecycleOperation string

const (
	OperationActivate LifecycleOperation = "activate"
	OperationCancel   LifecycleOperation = "cancel"
	OperationRestore  LifecycleOperation = "restore"
	OperationRenew    LifecycleOperation = "renew"
)

// ReasonCode is a closed-vocabulary justification attached to a transition.
type ReasonCode string

const (
	ReasonPaymentReceived     ReasonCode = "PAYMENT_RECEIVED"
	ReasonIssueResolved       ReasonCode = "ISSUE_RESOLVED"
	ReasonPolicyUpdate        ReasonCode = "POLICY_UPDATE"
	ReasonAdminDecision       ReasonCode = "ADMIN_DECISION"
	ReasonSubscriptionRenewed ReasonCode = "SUBSCRIPTION_RENEWED"
	ReasonNonPayment          ReasonCode = "NON_PAYMENT"
	ReasonPolicyViolation     ReasonCode = "POLICY_VIOLATION"
	ReasonMemberRequest       ReasonCode = "MEMBER_REQUEST"
	ReasonFacilityAbuse       ReasonCode = "FACILITY_ABUSE"
	ReasonSubscriptionExpired ReasonCode = "SUBSCRIPTION_EXPIRED"
	ReasonDataError           ReasonCode = "DATA_ERROR"
	ReasonPolicyChange        ReasonCode = "POLICY_CHANGE"
	ReasonAdminError          ReasonCode = "ADMIN_ERROR"
	ReasonPaymentResolved     ReasonCode = "PAYMENT_RESOLVED"
	ReasonOther               ReasonCode = "OTHER"
)

// AllowedReasons is the static registry of reason vocabularies per operation.
// Renew carries no client-supplied reason; its audit entries always record
// SUBSCRIPTION_RENEWED.
var AllowedReasons = map[LifecycleOperation][]ReasonCode{
	OperationActivate: {
		ReasonPaymentReceived,
		ReasonIssueResolved,
		ReasonPolicyUpdate,
		ReasonAdminDecision,
		ReasonSubscriptionRenewed,
		ReasonOther,
	},
	OperationCancel: {
		ReasonNonPayment,
		ReasonPolicyViolation,
		ReasonMemberRequest,
		ReasonFacilityAbuse,
		ReasonSubscriptionExpired,
		ReasonAdminDecision,
		ReasonOther,
	},
	OperationRestore: {
		ReasonDataError,
		ReasonPolicyChange,
		ReasonMemberRequest,
		ReasonAdminError,
		ReasonPaymentResolved,
		ReasonOther,
	},
}

// ReasonAllowed reports whether reason belongs to the vocabulary of op.
func ReasonAllowed(op LifecycleOperation, reason ReasonCode) bool {
	for _, r := range AllowedReasons[op] {
		if r == reason {
			return true
		}
	}
	return false
}
