package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReasonAllowed(t *testing.T) {
	assert.True(t, ReasonAllowed(OperationActivate, ReasonPaymentReceived))
	assert.True(t, ReasonAllowed(OperationCancel, ReasonNonPayment))
	assert.True(t, ReasonAllowed(OperationRestore, ReasonAdminError))

	// OTHER is valid everywhere a reason is taken.
	for _, op := range []LifecycleOperation{OperationActivate, OperationCancel, OperationRestore} {
		assert.True(t, ReasonAllowed(op, ReasonOther), string(op))
	}

	// Vocabularies are closed per operation.
	assert.False(t, ReasonAllowed(OperationActivate, ReasonNonPayment))
	assert.False(t, ReasonAllowed(OperationCancel, ReasonDataError))
	assert.False(t, ReasonAllowed(OperationRestore, ReasonFacilityAbuse))
	assert.False(t, ReasonAllowed(OperationActivate, ReasonCode("MADE_UP")))

	// Renew carries no client-supplied reason.
	assert.False(t, ReasonAllowed(OperationRenew, ReasonSubscriptionRenewed))
}

func TestActionsInCategory(t *testing.T) {
	assert.Contains(t, ActionsInCategory(AuditCategoryAccount), AuditActionAccountActivated)
	assert.Contains(t, ActionsInCategory(AuditCategoryAccount), AuditActionAccountRestored)
	assert.Contains(t, ActionsInCategory(AuditCategorySubscription), AuditActionSubscriptionRenewed)
	assert.NotContains(t, ActionsInCategory(AuditCategoryAccount), AuditActionSubscriptionRenewed)
	assert.Nil(t, ActionsInCategory(AuditCategory("NOPE")))

	assert.True(t, ValidCategory(AuditCategoryPayment))
	assert.False(t, ValidCategory(AuditCategory("NOPE")))
}

func TestUrgencyForDays(t *testing.T) {
	assert.Equal(t, ExpiryUrgencyCritical, UrgencyForDays(-3))
	assert.Equal(t, ExpiryUrgencyCritical, UrgencyForDays(1))
	assert.Equal(t, ExpiryUrgencyHigh, UrgencyForDays(2))
	assert.Equal(t, ExpiryUrgencyHigh, UrgencyForDays(3))
	assert.Equal(t, ExpiryUrgencyMedium, UrgencyForDays(4))
}
