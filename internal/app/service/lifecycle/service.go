package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitcrew/memberd/internal/models"
	"github.com/fitcrew/memberd/pkg/config"
	"github.com/fitcrew/memberd/pkg/logctx"
	"github.com/fitcrew/memberd/pkg/tool"
	"github.com/fitcrew/memberd/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service executes member lifecycle transitions. Every operation runs inside
// one database transaction with the member row locked, so concurrent attempts
// on the same member serialize and re-validate against fresh state.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
	cfg *config.Config
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config) *Service {
	return &Service{db: db, log: log, cfg: cfg}
}

// TransitionRequest is the common input of activate/cancel/restore.
type TransitionRequest struct {
	MemberID    string
	Reason      types.ReasonCode
	Notes       string
	PerformedBy string
}

// RenewRequest renews a member onto a plan. No client reason is taken; the
// audit entry always records SUBSCRIPTION_RENEWED.
type RenewRequest struct {
	MemberID    string
	PlanID      string
	Notes       string
	PerformedBy string
}

// TransitionResult reports the states observed immediately before and after
// the operation, plus the subscription the operation touched or created.
type TransitionResult struct {
	MemberID      string                     `json:"member_id"`
	PreviousState types.MemberState          `json:"previous_state"`
	NewState      types.MemberState          `json:"new_state"`
	Subscription  *models.MemberSubscription `json:"subscription,omitempty"`
	AuditEntryID  string                     `json:"audit_entry_id"`
}

// legalSources is the legal-transition table for derived-state-gated
// operations. Restore is gated on the deletion marker directly and renew has
// no state precondition, so neither appears here.
var legalSources = map[types.LifecycleOperation][]types.MemberState{
	types.OperationActivate: {types.MemberStateCancelled, types.MemberStateExpired, types.MemberStateInactive},
	types.OperationCancel:   {types.MemberStateActive, types.MemberStateExpired},
}

func transitionAllowed(op types.LifecycleOperation, from types.MemberState) bool {
	return lo.Contains(legalSources[op], from)
}

// loadMemberForUpdate fetches the member with a row lock plus its latest
// subscription (highest created_at). A nil subscription means no history.
func loadMemberForUpdate(tx *gorm.DB, memberID string) (*models.Member, *models.MemberSubscription, error) {
	var m models.Member
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", memberID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrMemberNotFound
		}
		return nil, nil, fmt.Errorf("failed to load member: %w", err)
	}

	var sub models.MemberSubscription
	err := tx.Where("member_id = ?", memberID).Order("created_at DESC").First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &m, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to load latest subscription: %w", err)
	}
	return &m, &sub, nil
}

func (s *Service) appendAudit(tx *gorm.DB, m *models.Member, action types.AuditAction, reason types.ReasonCode,
	notes string, prev, next types.MemberState, performedBy string, meta datatypes.JSONMap, now time.Time) (*models.MemberAuditLog, error) {
	entry := &models.MemberAuditLog{
		ID:            tool.GenerateUUIDV7(),
		MemberID:      m.ID,
		Action:        action,
		Reason:        reason,
		PreviousState: prev,
		NewState:      next,
		Metadata:      meta,
		PerformedAt:   now,
	}
	if notes != "" {
		entry.Notes = lo.ToPtr(notes)
	}
	if performedBy != "" {
		entry.PerformedBy = lo.ToPtr(performedBy)
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to append audit entry: %w", err)
	}
	return entry, nil
}

// Activate returns a cancelled, expired or inactive member to good standing.
// A cancelled latest subscription is reactivated; otherwise only the account
// flag flips. The result reports the states actually observed before and
// after the write: activating a member whose latest subscription has lapsed
// leaves the derived state EXPIRED until the member renews.
func (s *Service) Activate(ctx context.Context, req *TransitionRequest) (*TransitionResult, error) {
	if req.PerformedBy == "" {
		return nil, ErrMissingActor
	}
	if !types.ReasonAllowed(types.OperationActivate, req.Reason) {
		return nil, &InvalidReasonError{Operation: types.OperationActivate, Reason: req.Reason}
	}

	var res *TransitionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, latest, err := loadMemberForUpdate(tx, req.MemberID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		prev := DeriveState(m, latest, now)
		if !transitionAllowed(types.OperationActivate, prev) {
			return &InvalidTransitionError{From: prev, Operation: types.OperationActivate}
		}

		meta := datatypes.JSONMap{}
		if latest != nil && latest.Status == types.SubscriptionStatusCancelled {
			latest.Status = types.SubscriptionStatusActive
			latest.CancelledAt = nil
			latest.CancellationReason = nil
			latest.CancellationNotes = nil
			if err := tx.Save(latest).Error; err != nil {
				return fmt.Errorf("failed to reactivate subscription: %w", err)
			}
			meta["subscription_id"] = latest.ID
			meta["plan_id"] = latest.PlanID
		}
		m.IsActive = true
		if err := tx.Save(m).Error; err != nil {
			return fmt.Errorf("failed to update member: %w", err)
		}

		next := DeriveState(m, latest, now)
		entry, err := s.appendAudit(tx, m, types.AuditActionAccountActivated, req.Reason, req.Notes, prev, next, req.PerformedBy, meta, now)
		if err != nil {
			return err
		}
		res = &TransitionResult{MemberID: m.ID, PreviousState: prev, NewState: next, Subscription: latest, AuditEntryID: entry.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("member activated",
		"member_id", req.MemberID, "previous_state", res.PreviousState, "new_state", res.NewState, "performed_by", req.PerformedBy)
	return res, nil
}

// Cancel ends the membership of an active or expired member. The latest
// subscription is marked cancelled with the supplied reason and notes.
func (s *Service) Cancel(ctx context.Context, req *TransitionRequest) (*TransitionResult, error) {
	if req.PerformedBy == "" {
		return nil, ErrMissingActor
	}
	if !types.ReasonAllowed(types.OperationCancel, req.Reason) {
		return nil, &InvalidReasonError{Operation: types.OperationCancel, Reason: req.Reason}
	}

	var res *TransitionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, latest, err := loadMemberForUpdate(tx, req.MemberID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		prev := DeriveState(m, latest, now)
		if !transitionAllowed(types.OperationCancel, prev) {
			return &InvalidTransitionError{From: prev, Operation: types.OperationCancel}
		}

		meta := datatypes.JSONMap{}
		if latest != nil {
			latest.Status = types.SubscriptionStatusCancelled
			latest.CancelledAt = lo.ToPtr(now)
			latest.CancellationReason = lo.ToPtr(req.Reason)
			if req.Notes != "" {
				latest.CancellationNotes = lo.ToPtr(req.Notes)
			}
			if err := tx.Save(latest).Error; err != nil {
				return fmt.Errorf("failed to cancel subscription: %w", err)
			}
			meta["subscription_id"] = latest.ID
			meta["plan_id"] = latest.PlanID
			meta["end_date"] = latest.EndDate
		}
		next := DeriveState(m, latest, now)
		entry, err := s.appendAudit(tx, m, types.AuditActionAccountDeactivated, req.Reason, req.Notes, prev, next, req.PerformedBy, meta, now)
		if err != nil {
			return err
		}
		res = &TransitionResult{MemberID: m.ID, PreviousState: prev, NewState: next, Subscription: latest, AuditEntryID: entry.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("member cancelled",
		"member_id", req.MemberID, "reason", req.Reason, "previous_state", res.PreviousState, "new_state", res.NewState, "performed_by", req.PerformedBy)
	return res, nil
}

// Restore lifts the soft-deletion marker. Gated on the marker itself rather
// than the derived-state table. A cancelled latest subscription is
// reactivated so the member comes back in the state it was deleted from.
func (s *Service) Restore(ctx context.Context, req *TransitionRequest) (*TransitionResult, error) {
	if req.PerformedBy == "" {
		return nil, ErrMissingActor
	}
	if !types.ReasonAllowed(types.OperationRestore, req.Reason) {
		return nil, &InvalidReasonError{Operation: types.OperationRestore, Reason: req.Reason}
	}

	var res *TransitionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, latest, err := loadMemberForUpdate(tx, req.MemberID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		prev := DeriveState(m, latest, now)
		if m.DeletedAt == nil {
			return &InvalidTransitionError{From: prev, Operation: types.OperationRestore}
		}

		meta := datatypes.JSONMap{}
		if m.DeletedBy != nil {
			meta["deleted_by"] = *m.DeletedBy
		}
		meta["deleted_at"] = *m.DeletedAt

		m.DeletedAt = nil
		m.DeletedBy = nil
		m.IsActive = true
		if err := tx.Save(m).Error; err != nil {
			return fmt.Errorf("failed to restore member: %w", err)
		}
		if latest != nil && latest.Status == types.SubscriptionStatusCancelled {
			latest.Status = types.SubscriptionStatusActive
			latest.CancelledAt = nil
			latest.CancellationReason = nil
			latest.CancellationNotes = nil
			if err := tx.Save(latest).Error; err != nil {
				return fmt.Errorf("failed to reactivate subscription: %w", err)
			}
			meta["subscription_id"] = latest.ID
		}

		next := DeriveState(m, latest, now)
		entry, err := s.appendAudit(tx, m, types.AuditActionAccountRestored, req.Reason, req.Notes, prev, next, req.PerformedBy, meta, now)
		if err != nil {
			return err
		}
		res = &TransitionResult{MemberID: m.ID, PreviousState: prev, NewState: next, Subscription: latest, AuditEntryID: entry.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("member restored",
		"member_id", req.MemberID, "new_state", res.NewState, "performed_by", req.PerformedBy)
	return res, nil
}

// Renew enrolls the member on a plan for a fresh term. Any currently active
// subscription is expired first so at most one ACTIVE subscription exists.
// A second renewal within the same UTC calendar day is rejected; the check
// runs inside the transaction so concurrent renewals cannot both pass.
func (s *Service) Renew(ctx context.Context, req *RenewRequest) (*TransitionResult, error) {
	if req.PerformedBy == "" {
		return nil, ErrMissingActor
	}

	var res *TransitionResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, latest, err := loadMemberForUpdate(tx, req.MemberID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		prev := DeriveState(m, latest, now)

		var plan models.MembershipPlan
		if err := tx.Where("id = ? AND tenant_id = ?", req.PlanID, m.TenantID).First(&plan).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlanNotFound
			}
			return fmt.Errorf("failed to load plan: %w", err)
		}

		dayStart := now.Truncate(24 * time.Hour)
		var createdToday int64
		if err := tx.Model(&models.MemberSubscription{}).
			Where("member_id = ? AND created_at >= ?", m.ID, dayStart).
			Count(&createdToday).Error; err != nil {
			return fmt.Errorf("failed to check same-day renewal: %w", err)
		}
		if createdToday > 0 {
			return ErrDuplicateRenewalToday
		}

		if latest != nil && latest.Status == types.SubscriptionStatusActive {
			latest.Status = types.SubscriptionStatusExpired
			latest.CancelledAt = lo.ToPtr(now)
			latest.CancellationReason = lo.ToPtr(types.ReasonSubscriptionRenewed)
			if err := tx.Save(latest).Error; err != nil {
				return fmt.Errorf("failed to expire previous subscription: %w", err)
			}
		}

		sub := &models.MemberSubscription{
			ID:        tool.GenerateUUIDV7(),
			MemberID:  m.ID,
			PlanID:    plan.ID,
			TenantID:  m.TenantID,
			Status:    types.SubscriptionStatusActive,
			StartDate: now,
			EndDate:   now.AddDate(0, 0, plan.DurationDays),
			Price:     plan.Price,
			AutoRenew: true,
		}
		if latest != nil {
			// New terms stay attached to the branch the member enrolled at.
			sub.BranchID = latest.BranchID
		}
		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		m.IsActive = true
		if err := tx.Save(m).Error; err != nil {
			return fmt.Errorf("failed to update member: %w", err)
		}

		next := DeriveState(m, sub, now)
		meta := datatypes.JSONMap{
			"subscription_id": sub.ID,
			"plan_id":         plan.ID,
			"plan_name":       plan.Name,
			"duration_days":   plan.DurationDays,
			"price":           plan.Price,
			"start_date":      sub.StartDate,
			"end_date":        sub.EndDate,
		}
		entry, err := s.appendAudit(tx, m, types.AuditActionSubscriptionRenewed, types.ReasonSubscriptionRenewed, req.Notes, prev, next, req.PerformedBy, meta, now)
		if err != nil {
			return err
		}
		res = &TransitionResult{MemberID: m.ID, PreviousState: prev, NewState: next, Subscription: sub, AuditEntryID: entry.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("member renewed",
		"member_id", req.MemberID, "plan_id", req.PlanID, "previous_state", res.PreviousState, "performed_by", req.PerformedBy)
	return res, nil
}
