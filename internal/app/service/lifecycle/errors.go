package lifecycle

import (
	"errors"
	"fmt"

	"github.com/fitcrew/memberd/pkg/types"
)

var (
	ErrMemberNotFound        = errors.New("member not found")
	ErrPlanNotFound          = errors.New("membership plan not found")
	ErrMissingActor          = errors.New("performed_by is required")
	ErrDuplicateRenewalToday = errors.New("a subscription was already created for this member today")
)

// InvalidTransitionError reports an operation attempted from a state the
// legal-transition table does not allow.
type InvalidTransitionError struct {
	From      types.MemberState
	Operation types.LifecycleOperation
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a member in state %s", e.Operation, e.From)
}

// InvalidReasonError reports a reason outside the vocabulary of the operation.
type InvalidReasonError struct {
	Operation types.LifecycleOperation
	Reason    types.ReasonCode
}

func (e *InvalidReasonError) Error() string {
	return fmt.Sprintf("reason %q is not allowed for %s", e.Reason, e.Operation)
}
