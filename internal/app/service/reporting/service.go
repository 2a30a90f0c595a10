package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitcrew/memberd/internal/app/service/lifecycle"
	"github.com/fitcrew/memberd/internal/models"
	"github.com/fitcrew/memberd/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrInvalidRequest = errors.New("invalid report request")
)

// Service produces per-tenant membership reports for admin dashboards.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type MembershipReportRequest struct {
	TenantID string `json:"tenant_id"`
	// StartDate/EndDate bound the daily series, inclusive, YYYY-MM-DD.
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	// Filters narrow the state-count population over member columns.
	Filters []*types.CommonFilter `json:"filters"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type MembershipReport struct {
	TenantID        string                      `json:"tenant_id"`
	StateCounts     map[types.MemberState]int64 `json:"state_counts"`
	DailyNewMembers []*DateCount                `json:"daily_new_members"`
	DailyRenewals   []*DateCount                `json:"daily_renewals"`
}

// filtersAnd combines CommonFilters into a single AND expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// MembershipReport aggregates derived-state counts plus daily new-member and
// renewal series. State counts re-derive each member's state in memory so the
// numbers agree exactly with the lifecycle engine.
func (s *Service) MembershipReport(ctx context.Context, req *MembershipReportRequest) (*MembershipReport, error) {
	if req == nil || req.TenantID == "" {
		return nil, fmt.Errorf("%w: tenant_id is required", ErrInvalidRequest)
	}

	from, to, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var tenant models.Tenant
	if err := s.db.WithContext(ctx).Select("id").First(&tenant, "id = ?", req.TenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	mq := s.db.WithContext(ctx).Where("tenant_id = ?", req.TenantID)
	if len(req.Filters) > 0 {
		mq = mq.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}
	var members []*models.Member
	if err := mq.Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	var subs []*models.MemberSubscription
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ?", req.TenantID).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	// Rows are newest-first, so the first subscription seen per member is the
	// latest one.
	latestByMember := make(map[string]*models.MemberSubscription, len(members))
	for _, sub := range subs {
		if _, seen := latestByMember[sub.MemberID]; !seen {
			latestByMember[sub.MemberID] = sub
		}
	}

	now := time.Now().UTC()
	counts := map[types.MemberState]int64{}
	for _, m := range members {
		counts[lifecycle.DeriveState(m, latestByMember[m.ID], now)]++
	}

	newMembers, err := s.dailySeries(ctx, s.db.WithContext(ctx).Model(&models.Member{}).
		Where("tenant_id = ?", req.TenantID), "created_at", from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate new members: %w", err)
	}

	renewals, err := s.dailySeries(ctx, s.db.WithContext(ctx).Model(&models.MemberAuditLog{}).
		Joins("JOIN member ON member.id = member_audit_log.member_id").
		Where("member.tenant_id = ?", req.TenantID).
		Where("member_audit_log.action = ?", types.AuditActionSubscriptionRenewed), "performed_at", from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate renewals: %w", err)
	}

	return &MembershipReport{
		TenantID:        req.TenantID,
		StateCounts:     counts,
		DailyNewMembers: newMembers,
		DailyRenewals:   renewals,
	}, nil
}

func (s *Service) dailySeries(ctx context.Context, q *gorm.DB, column string, from, to time.Time) ([]*DateCount, error) {
	var out []*DateCount
	err := q.
		Select(fmt.Sprintf("to_char(%s, 'YYYY-MM-DD') AS date, count(*) AS count", column)).
		Where(fmt.Sprintf("%s >= ? AND %s < ?", column, column), from, to).
		Group("1").
		Order("1").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return lo.Ternary(out != nil, out, []*DateCount{}), nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now.AddDate(0, 0, 1)
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start_date", ErrInvalidRequest)
		}
		from = t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end_date", ErrInvalidRequest)
		}
		to = t.AddDate(0, 0, 1)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date before start_date", ErrInvalidRequest)
	}
	return from, to, nil
}
