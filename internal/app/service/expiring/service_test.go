package expiring

import (
	"context"
	"testing"
	"time"

	"github.com/fitcrew/memberd/internal/models"
	"github.com/fitcrew/memberd/pkg/config"
	"github.com/fitcrew/memberd/pkg/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
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

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *Service) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return mock, NewService(gdb, zap.NewNop().Sugar(), testConfig())
}

func TestDedupeLatestPerMember(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sub := func(id, memberID string, createdDaysAgo, endsInDays int) *models.MemberSubscription {
		return &models.MemberSubscription{
			ID:        id,
			MemberID:  memberID,
			CreatedAt: now.AddDate(0, 0, -createdDaysAgo),
			EndDate:   now.AddDate(0, 0, endsInDays),
		}
	}

	t.Run("newest row wins per member", func(t *testing.T) {
		rows := []*models.MemberSubscription{
			sub("old", "m1", 20, 30), // older but ends later
			sub("new", "m1", 1, 3),
			sub("only", "m2", 5, 5),
		}
		got := dedupeLatestPerMember(rows)
		require.Len(t, got, 2)
		assert.Equal(t, "new", got[0].ID)
		assert.Equal(t, "only", got[1].ID)
	})

	t.Run("sorted by end date ascending", func(t *testing.T) {
		rows := []*models.MemberSubscription{
			sub("c", "m3", 1, 9),
			sub("a", "m1", 1, 1),
			sub("b", "m2", 1, 4),
		}
		got := dedupeLatestPerMember(rows)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, dedupeLatestPerMember(nil))
	})
}

func TestDaysUntilAndUrgency(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		endDate   time.Time
		wantDays  int
		expired   bool
		urgency   types.ExpiryUrgency
	}{
		{"ends in 3 days", now.Add(72 * time.Hour), 3, false, types.ExpiryUrgencyHigh},
		{"ends in 12 hours", now.Add(12 * time.Hour), 1, false, types.ExpiryUrgencyCritical},
		{"already lapsed", now.Add(-36 * time.Hour), -1, true, types.ExpiryUrgencyCritical},
		{"exactly now", now, 0, true, types.ExpiryUrgencyCritical},
		{"ends in a week", now.Add(7 * 24 * time.Hour), 7, false, types.ExpiryUrgencyMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := daysUntil(tt.endDate, now)
			assert.Equal(t, tt.wantDays, days)
			assert.Equal(t, tt.expired, days <= 0)
			assert.Equal(t, tt.urgency, types.UrgencyForDays(days))
		})
	}
}

func TestCount_ManagerScopedToBranches(t *testing.T) {
	mock, svc := setupMockDB(t)

	mock.ExpectQuery(`(?i)SELECT COUNT\(DISTINCT\(.*member_id.*\)\) FROM "member_subscription" JOIN member`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	res, err := svc.Count(context.Background(), &CountRequest{
		DaysBefore: 7,
		Actor:      actor(types.RoleManager, "t1", "b1"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Count)
	assert.Equal(t, 7, res.DaysBefore)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCount_EmptyScopeShortCircuits(t *testing.T) {
	_, svc := setupMockDB(t)

	// Staff with no branch assignment: no query may run at all.
	res, err := svc.Count(context.Background(), &CountRequest{Actor: actor(types.RoleStaff, "t1")})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Count)
	assert.Equal(t, 7, res.DaysBefore)
}

// A manager's overview must apply the branch_id IN predicate of their
// assignment and bucket urgencies over the returned page.
func TestOverview_ManagerScopedRowsAndPageBuckets(t *testing.T) {
	mock, svc := setupMockDB(t)
	now := time.Now().UTC()

	subCols := []string{
		"id", "member_id", "plan_id", "tenant_id", "branch_id", "status",
		"start_date", "end_date", "price", "auto_renew", "created_at",
	}
	candidateRows := func() *sqlmock.Rows {
		return sqlmock.NewRows(subCols).
			AddRow("s1", "m1", "p1", "t1", "b1", string(types.SubscriptionStatusActive),
				now.AddDate(0, 0, -29), now.Add(12*time.Hour), int64(4900), true, now.Add(-time.Hour)).
			AddRow("s2", "m2", "p1", "t1", "b1", string(types.SubscriptionStatusActive),
				now.AddDate(0, 0, -27), now.Add(60*time.Hour), int64(4900), true, now.Add(-time.Hour))
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT member_subscription\..* FROM "member_subscription" JOIN member .*branch_id IN`).
		WillReturnRows(candidateRows())
	mock.ExpectQuery(`SELECT \* FROM "member_subscription" WHERE id IN`).
		WillReturnRows(candidateRows())
	mock.ExpectQuery(`SELECT \* FROM "branch" WHERE "branch"\."id" IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}).AddRow("b1", "t1", "Downtown"))
	mock.ExpectQuery(`SELECT \* FROM "member" WHERE "member"\."id" IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "first_name", "last_name", "email", "is_active"}).
			AddRow("m1", "t1", "Ada", "Lovelace", "ada@example.com", true).
			AddRow("m2", "t1", "Grace", "Hopper", "grace@example.com", true))
	mock.ExpectQuery(`SELECT \* FROM "membership_plan" WHERE "membership_plan"\."id" IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name", "price", "duration_days"}).
			AddRow("p1", "t1", "Monthly", int64(4900), 30))
	mock.ExpectQuery(`SELECT \* FROM "tenant" WHERE "tenant"\."id" IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("t1", "Iron Temple"))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "branch" WHERE tenant_id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}).AddRow("b1", "t1", "Downtown"))

	out, err := svc.Overview(context.Background(), &OverviewRequest{
		DaysBefore: 7,
		Actor:      actor(types.RoleManager, "t1", "b1"),
	})
	require.NoError(t, err)
	require.Len(t, out.Subscriptions, 2)

	first, second := out.Subscriptions[0], out.Subscriptions[1]
	assert.Equal(t, "s1", first.SubscriptionID)
	assert.Equal(t, "Ada Lovelace", first.MemberName)
	assert.Equal(t, "Monthly", first.PlanName)
	assert.Equal(t, "Downtown", first.BranchName)
	assert.Equal(t, "Iron Temple", first.TenantName)
	assert.Equal(t, 1, first.DaysUntilExpiry)
	assert.False(t, first.IsExpired)
	assert.Equal(t, types.ExpiryUrgencyCritical, first.Urgency)
	assert.Equal(t, types.ExpiryUrgencyHigh, second.Urgency)

	assert.Equal(t, int64(2), out.Pagination.Total)
	assert.Equal(t, int64(2), out.Summary.TotalExpiring)
	assert.Equal(t, 1, out.Summary.PageCritical)
	assert.Equal(t, 1, out.Summary.PageHigh)
	assert.Equal(t, 0, out.Summary.PageMedium)

	require.Len(t, out.AvailableBranches, 1)
	assert.Equal(t, "Downtown", out.AvailableBranches[0].Name)
	// A single visible branch yields no branch grouping.
	assert.Nil(t, out.GroupedByBranch)
	assert.Nil(t, out.GroupedByTenant)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOverview_EmptyScopeShortCircuits(t *testing.T) {
	_, svc := setupMockDB(t)

	out, err := svc.Overview(context.Background(), &OverviewRequest{
		Actor: actor(types.RoleManager, "t1"),
	})
	require.NoError(t, err)
	assert.Empty(t, out.Subscriptions)
	assert.Empty(t, out.AvailableBranches)
	assert.Equal(t, int64(0), out.Pagination.Total)
	assert.Equal(t, int64(0), out.Summary.TotalExpiring)
}
