package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitcrew/memberd/internal/models"
	"github.com/fitcrew/memberd/pkg/types"

	"gorm.io/gorm"
)

// HistoryRequest filters the audit ledger of one member.
type HistoryRequest struct {
	MemberID  string
	Page      int
	Limit     int
	Category  types.AuditCategory
	StartDate *time.Time
	EndDate   *time.Time
}

type HistoryResponse struct {
	Entries []*models.MemberAuditLog `json:"entries"`
	Total   int64                    `json:"total"`
	Page    int                      `json:"page"`
	Limit   int                      `json:"limit"`
}

// History lists audit entries, newest first. Category, when set, narrows to
// the actions of that category; the HTTP layer rejects unknown category
// values before this runs.
func (s *Service) History(ctx context.Context, req *HistoryRequest) (*HistoryResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = s.cfg.Lifecycle.DefaultPageSize
	}
	if req.Limit > s.cfg.Lifecycle.MaxPageSize {
		req.Limit = s.cfg.Lifecycle.MaxPageSize
	}

	var exists int64
	if err := s.db.WithContext(ctx).Model(&models.Member{}).Where("id = ?", req.MemberID).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("failed to check member: %w", err)
	}
	if exists == 0 {
		return nil, ErrMemberNotFound
	}

	q := s.db.WithContext(ctx).Model(&models.MemberAuditLog{}).Where("member_id = ?", req.MemberID)
	if req.Category != "" {
		q = q.Where("action IN ?", types.ActionsInCategory(req.Category))
	}
	if req.StartDate != nil {
		q = q.Where("performed_at >= ?", *req.StartDate)
	}
	if req.EndDate != nil {
		q = q.Where("performed_at <= ?", *req.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}

	var entries []*models.MemberAuditLog
	err := q.Order("performed_at DESC").
		Offset((req.Page - 1) * req.Limit).
		Limit(req.Limit).
		Find(&entries).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	return &HistoryResponse{Entries: entries, Total: total, Page: req.Page, Limit: req.Limit}, nil
}
