package expiring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/fitcrew/memberd/internal/models"
	"github.com/fitcrew/memberd/pkg/config"
	"github.com/fitcrew/memberd/pkg/logctx"
	"github.com/fitcrew/memberd/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// noBranchLabel groups rows whose subscription carries no branch.
const noBranchLabel = "No Branch Assigned"

// Service surfaces subscriptions expiring soon (including already lapsed
// ones), scoped to what the requesting actor may see and deduplicated to one
// row per member.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
	cfg *config.Config
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config) *Service {
	return &Service{db: db, log: log, cfg: cfg}
}

type CountRequest struct {
	TenantID   string
	DaysBefore int
	Actor      *types.ActorContext
}

type CountResult struct {
	Count      int64 `json:"count"`
	DaysBefore int   `json:"days_before"`
}

type OverviewRequest struct {
	DaysBefore int
	TenantID   string
	BranchID   string
	Page       int
	Limit      int
	Actor      *types.ActorContext
}

// OverviewRow is one member's current expiring subscription with derived
// expiry fields.
type OverviewRow struct {
	SubscriptionID  string              `json:"subscription_id"`
	MemberID        string              `json:"member_id"`
	MemberName      string              `json:"member_name"`
	MemberEmail     string              `json:"member_email"`
	PlanID          string              `json:"plan_id"`
	PlanName        string              `json:"plan_name"`
	TenantID        string              `json:"tenant_id"`
	TenantName      string              `json:"tenant_name"`
	BranchID        *string             `json:"branch_id"`
	BranchName      string              `json:"branch_name"`
	EndDate         time.Time           `json:"end_date"`
	AutoRenew       bool                `json:"auto_renew"`
	DaysUntilExpiry int                 `json:"days_until_expiry"`
	IsExpired       bool                `json:"is_expired"`
	Urgency         types.ExpiryUrgency `json:"urgency"`
}

type BranchOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// OverviewSummary: TotalExpiring counts the full deduplicated set; the
// urgency buckets are computed over the current page only.
type OverviewSummary struct {
	TotalExpiring int64 `json:"total_expiring"`
	PageCritical  int   `json:"page_critical"`
	PageHigh      int   `json:"page_high"`
	PageMedium    int   `json:"page_medium"`
}

type Overview struct {
	Subscriptions     []*OverviewRow            `json:"subscriptions"`
	GroupedByTenant   map[string][]*OverviewRow `json:"grouped_by_tenant,omitempty"`
	GroupedByBranch   map[string][]*OverviewRow `json:"grouped_by_branch,omitempty"`
	AvailableBranches []*BranchOption           `json:"available_branches"`
	Pagination        Pagination                `json:"pagination"`
	Summary           OverviewSummary           `json:"summary"`
}

// matching builds the expiring predicate: an ACTIVE, uncancelled subscription
// ending on or before the cutoff, owned by a live, active member. Lapsed but
// not yet cancelled subscriptions still match.
func (s *Service) matching(tx *gorm.DB, scope EffectiveScope, cutoff time.Time) *gorm.DB {
	q := tx.Model(&models.MemberSubscription{}).
		Joins("JOIN member ON member.id = member_subscription.member_id").
		Where("member_subscription.status = ?", types.SubscriptionStatusActive).
		Where("member_subscription.cancelled_at IS NULL").
		Where("member_subscription.end_date <= ?", cutoff).
		Where("member.deleted_at IS NULL").
		Where("member.is_active = ?", true)

	switch scope.Kind {
	case ScopeTenantWide:
		q = q.Where("member_subscription.tenant_id = ?", scope.TenantID)
	case ScopeBranchSubset:
		q = q.Where("member_subscription.tenant_id = ?", scope.TenantID).
			Where("member_subscription.branch_id IN ?", scope.BranchIDs)
	}
	return q
}

// Count returns how many distinct members have an expiring subscription
// within the window, under the actor's visibility.
func (s *Service) Count(ctx context.Context, req *CountRequest) (*CountResult, error) {
	days := req.DaysBefore
	if days <= 0 {
		days = s.cfg.Lifecycle.DefaultExpiryWindowDays
	}
	scope := ResolveScope(req.Actor, req.TenantID, "")
	if scope.Empty() {
		return &CountResult{Count: 0, DaysBefore: days}, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, days)
	var count int64
	err := s.matching(s.db.WithContext(ctx), scope, cutoff).
		Distinct("member_subscription.member_id").
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count expiring subscriptions: %w", err)
	}
	return &CountResult{Count: count, DaysBefore: days}, nil
}

// dedupeLatestPerMember keeps, per member, only the most recently created
// subscription among the matching rows, sorted by end date ascending.
func dedupeLatestPerMember(rows []*models.MemberSubscription) []*models.MemberSubscription {
	groups := lo.GroupBy(rows, func(r *models.MemberSubscription) string { return r.MemberID })
	deduped := make([]*models.MemberSubscription, 0, len(groups))
	for _, g := range groups {
		deduped = append(deduped, lo.MaxBy(g, func(a, b *models.MemberSubscription) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}))
	}
	sort.Slice(deduped, func(i, j int) bool {
		if deduped[i].EndDate.Equal(deduped[j].EndDate) {
			return deduped[i].ID < deduped[j].ID
		}
		return deduped[i].EndDate.Before(deduped[j].EndDate)
	})
	return deduped
}

func daysUntil(endDate, now time.Time) int {
	return int(math.Ceil(endDate.Sub(now).Hours() / 24))
}

// Overview returns the paginated expiring set with per-row expiry fields,
// page-scoped groupings and a summary block.
func (s *Service) Overview(ctx context.Context, req *OverviewRequest) (*Overview, error) {
	days := req.DaysBefore
	if days <= 0 {
		days = s.cfg.Lifecycle.DefaultExpiryWindowDays
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.Lifecycle.DefaultPageSize
	}
	if limit > s.cfg.Lifecycle.MaxPageSize {
		limit = s.cfg.Lifecycle.MaxPageSize
	}

	scope := ResolveScope(req.Actor, req.TenantID, req.BranchID)
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, days)

	out := &Overview{
		Subscriptions:     []*OverviewRow{},
		AvailableBranches: []*BranchOption{},
		Pagination:        Pagination{Page: page, Limit: limit},
	}
	if scope.Empty() {
		return out, nil
	}

	var detailed []*models.MemberSubscription
	var total int
	// Candidate fetch, dedup and detail fetch run inside one transaction so a
	// subscription created mid-query cannot double-count a member.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []*models.MemberSubscription
		if err := s.matching(tx, scope, cutoff).Select("member_subscription.*").Find(&rows).Error; err != nil {
			return fmt.Errorf("failed to fetch expiring subscriptions: %w", err)
		}

		deduped := dedupeLatestPerMember(rows)
		total = len(deduped)

		start := (page - 1) * limit
		if start >= total {
			return nil
		}
		end := start + limit
		if end > total {
			end = total
		}
		pageSlice := deduped[start:end]

		ids := lo.Map(pageSlice, func(r *models.MemberSubscription, _ int) string { return r.ID })
		if err := tx.Preload("Member").Preload("Plan").Preload("Branch").Preload("Tenant").
			Where("id IN ?", ids).Find(&detailed).Error; err != nil {
			return fmt.Errorf("failed to load subscription details: %w", err)
		}

		// Restore end-date ordering; IN-queries return rows in storage order.
		pos := make(map[string]int, len(pageSlice))
		for i, r := range pageSlice {
			pos[r.ID] = i
		}
		sort.Slice(detailed, func(i, j int) bool { return pos[detailed[i].ID] < pos[detailed[j].ID] })
		return nil
	})
	if err != nil {
		return nil, err
	}

	pageRows := lo.Map(detailed, func(sub *models.MemberSubscription, _ int) *OverviewRow {
		return s.toOverviewRow(sub, now)
	})

	out.Subscriptions = pageRows
	out.Pagination.Total = int64(total)
	out.Pagination.TotalPages = int(math.Ceil(float64(total) / float64(limit)))
	out.Summary.TotalExpiring = int64(total)
	for _, r := range pageRows {
		switch r.Urgency {
		case types.ExpiryUrgencyCritical:
			out.Summary.PageCritical++
		case types.ExpiryUrgencyHigh:
			out.Summary.PageHigh++
		default:
			out.Summary.PageMedium++
		}
	}

	// Enrichment degrades gracefully: counts and pagination above stay
	// correct even when branch resolution fails.
	branches, err := s.availableBranches(ctx, scope)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("failed to resolve available branches", "err", err)
	} else {
		out.AvailableBranches = branches
	}

	if req.Actor.Role == types.RoleSuperAdmin && req.TenantID == "" {
		out.GroupedByTenant = lo.GroupBy(pageRows, func(r *OverviewRow) string { return r.TenantName })
	} else if req.Actor.Role != types.RoleSuperAdmin && len(out.AvailableBranches) > 1 {
		out.GroupedByBranch = lo.GroupBy(pageRows, func(r *OverviewRow) string {
			if r.BranchName == "" {
				return noBranchLabel
			}
			return r.BranchName
		})
	}

	return out, nil
}

func (s *Service) toOverviewRow(sub *models.MemberSubscription, now time.Time) *OverviewRow {
	days := daysUntil(sub.EndDate, now)
	row := &OverviewRow{
		SubscriptionID:  sub.ID,
		MemberID:        sub.MemberID,
		PlanID:          sub.PlanID,
		TenantID:        sub.TenantID,
		BranchID:        sub.BranchID,
		EndDate:         sub.EndDate,
		AutoRenew:       sub.AutoRenew,
		DaysUntilExpiry: days,
		IsExpired:       days <= 0,
		Urgency:         types.UrgencyForDays(days),
	}
	if sub.Member != nil {
		row.MemberName = sub.Member.FullName()
		row.MemberEmail = sub.Member.Email
	}
	if sub.Plan != nil {
		row.PlanName = sub.Plan.Name
	}
	if sub.Tenant != nil {
		row.TenantName = sub.Tenant.Name
	}
	if sub.Branch != nil {
		row.BranchName = sub.Branch.Name
	}
	return row
}

// availableBranches lists the branches the actor may use as a branch filter.
func (s *Service) availableBranches(ctx context.Context, scope EffectiveScope) ([]*BranchOption, error) {
	if scope.Kind == ScopeAllTenants {
		return []*BranchOption{}, nil
	}

	q := s.db.WithContext(ctx).Model(&models.Branch{}).Where("tenant_id = ?", scope.TenantID)
	if scope.Kind == ScopeBranchSubset {
		q = q.Where("id IN ?", scope.BranchIDs)
	}

	var branches []*models.Branch
	if err := q.Order("name ASC").Find(&branches).Error; err != nil {
		return nil, err
	}
	return lo.Map(branches, func(b *models.Branch, _ int) *BranchOption {
		return &BranchOption{ID: b.ID, Name: b.Name}
	}), nil
}
