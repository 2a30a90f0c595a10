package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fitcrew/memberd/pkg/config"
	"github.com/fitcrew/memberd/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Lifecycle: config.LifecycleConfig{
			DefaultExpiryWindowDays: 7,
			DefaultPageSize:         20,
			MaxPageSize:             100,
		},
	}
}

func TestTransitionAllowed_LegalTable(t *testing.T) {
	tests := []struct {
		op      types.LifecycleOperation
		from    types.MemberState
		allowed bool
	}{
		{types.OperationActivate, types.MemberStateCancelled, true},
		{types.OperationActivate, types.MemberStateExpired, true},
		{types.OperationActivate, types.MemberStateInactive, true},
		{types.OperationActivate, types.MemberStateActive, false},
		{types.OperationActivate, types.MemberStateDeleted, false},
		{types.OperationCancel, types.MemberStateActive, true},
		{types.OperationCancel, types.MemberStateExpired, true},
		{types.OperationCancel, types.MemberStateCancelled, false},
		{types.OperationCancel, types.MemberStateInactive, false},
		{types.OperationCancel, types.MemberStateDeleted, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_from_%s", tt.op, tt.from), func(t *testing.T) {
			assert.Equal(t, tt.allowed, transitionAllowed(tt.op, tt.from))
		})
	}
}

// Precondition checks run before any persistence access, so a service with no
// database must still reject these inputs.
func TestTransitions_RejectBeforePersistence(t *testing.T) {
	svc := NewService(nil, zap.NewNop().Sugar(), testConfig())
	ctx := context.Background()

	t.Run("missing actor", func(t *testing.T) {
		_, err := svc.Activate(ctx, &TransitionRequest{MemberID: "m1", Reason: types.ReasonAdminDecision})
		require.ErrorIs(t, err, ErrMissingActor)

		_, err = svc.Cancel(ctx, &TransitionRequest{MemberID: "m1", Reason: types.ReasonMemberRequest})
		require.ErrorIs(t, err, ErrMissingActor)

		_, err = svc.Restore(ctx, &TransitionRequest{MemberID: "m1", Reason: types.ReasonDataError})
		require.ErrorIs(t, err, ErrMissingActor)

		_, err = svc.Renew(ctx, &RenewRequest{MemberID: "m1", PlanID: "p1"})
		require.ErrorIs(t, err, ErrMissingActor)
	})

	t.Run("reason outside vocabulary", func(t *testing.T) {
		_, err := svc.Activate(ctx, &TransitionRequest{MemberID: "m1", Reason: types.ReasonNonPayment, PerformedBy: "u1"})
		var invalidReason *InvalidReasonError
		require.ErrorAs(t, err, &invalidReason)
		assert.Equal(t, types.OperationActivate, invalidReason.Operation)
		assert.Equal(t, types.ReasonNonPayment, invalidReason.Reason)

		_, err = svc.Cancel(ctx, &TransitionRequest{MemberID: "m1", Reason: types.ReasonDataError, PerformedBy: "u1"})
		require.ErrorAs(t, err, &invalidReason)

		_, err = svc.Restore(ctx, &TransitionRequest{MemberID: "m1", Reason: types.ReasonFacilityAbuse, PerformedBy: "u1"})
		require.ErrorAs(t, err, &invalidReason)
	})
}

func TestInvalidTransitionError_IsWrapFriendly(t *testing.T) {
	base := &InvalidTransitionError{From: types.MemberStateCancelled, Operation: types.OperationCancel}
	err := fmt.Errorf("wrapped: %w", base)

	var target *InvalidTransitionError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, types.MemberStateCancelled, target.From)
	assert.Contains(t, base.Error(), "CANCELLED")
	assert.Contains(t, base.Error(), "cancel")
}

func TestSentinelErrors_AreWrapFriendly(t *testing.T) {
	for _, sentinel := range []error{ErrMemberNotFound, ErrPlanNotFound, ErrMissingActor, ErrDuplicateRenewalToday} {
		err := fmt.Errorf("wrapped: %w", sentinel)
		require.True(t, errors.Is(err, sentinel))
	}
}
