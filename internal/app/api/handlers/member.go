package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	mw "github.com/fitcrew/memberd/internal/app/api/middleware"
	"github.com/fitcrew/memberd/internal/app/service/lifecycle"
	"github.com/fitcrew/memberd/pkg/response"
	"github.com/fitcrew/memberd/pkg/types"

	"github.com/gin-gonic/gin"
)

type TransitionBody struct {
	Reason string `json:"reason" binding:"required"`
	Notes  string `json:"notes"`
}

type RenewBody struct {
	MembershipPlanID string `json:"membership_plan_id" binding:"required"`
	Notes            string `json:"notes"`
}

// respondLifecycleError maps the lifecycle error taxonomy onto HTTP statuses
// and envelope codes. State errors carry a human-readable explanation of the
// current state and attempted operation.
func respondLifecycleError(c *gin.Context, err error) {
	var invalidTransition *lifecycle.InvalidTransitionError
	var invalidReason *lifecycle.InvalidReasonError
	switch {
	case errors.Is(err, lifecycle.ErrMemberNotFound), errors.Is(err, lifecycle.ErrPlanNotFound):
		c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
	case errors.As(err, &invalidTransition), errors.As(err, &invalidReason), errors.Is(err, lifecycle.ErrDuplicateRenewalToday):
		c.JSON(http.StatusConflict, response.ErrorT[any](response.APIResponseCodeInvalidState, err.Error()))
	case errors.Is(err, lifecycle.ErrMissingActor):
		c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
	default:
		// Do not leak internal detail; the full error is logged by the service.
		c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "internal error"))
	}
}

func transitionHandler(run func(c *gin.Context, req *lifecycle.TransitionRequest) (*lifecycle.TransitionResult, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body TransitionBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		req := &lifecycle.TransitionRequest{
			MemberID:    c.Param("id"),
			Reason:      types.ReasonCode(body.Reason),
			Notes:       body.Notes,
			PerformedBy: mw.ActorFromGin(c).UserID,
		}
		res, err := run(c, req)
		if err != nil {
			respondLifecycleError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Activate member
// @Description  Returns a cancelled, expired or inactive member to good standing.
// @Tags         Members
// @Accept       json
// @Produce      json
// @Param        id      path  string          true  "Member ID"
// @Param        request body  TransitionBody  true  "Reason and optional notes"
// @Success      200  {object}  response.APIResponse[lifecycle.TransitionResult]
// @Router       /api/v1/members/{id}/activate [post]
func ApiActivateMember(svc *lifecycle.Service) gin.HandlerFunc {
	return transitionHandler(func(c *gin.Context, req *lifecycle.TransitionRequest) (*lifecycle.TransitionResult, error) {
		return svc.Activate(c.Request.Context(), req)
	})
}

// @Summary      Cancel member
// @Description  Cancels the membership of an active or expired member.
// @Tags         Members
// @Accept       json
// @Produce      json
// @Param        id      path  string          true  "Member ID"
// @Param        request body  TransitionBody  true  "Reason and optional notes"
// @Success      200  {object}  response.APIResponse[lifecycle.TransitionResult]
// @Router       /api/v1/members/{id}/cancel [post]
func ApiCancelMember(svc *lifecycle.Service) gin.HandlerFunc {
	return transitionHandler(func(c *gin.Context, req *lifecycle.TransitionRequest) (*lifecycle.TransitionResult, error) {
		return svc.Cancel(c.Request.Context(), req)
	})
}

// @Summary      Restore member
// @Description  Lifts the soft-deletion marker of a deleted member.
// @Tags         Members
// @Accept       json
// @Produce      json
// @Param        id      path  string          true  "Member ID"
// @Param        request body  TransitionBody  true  "Reason and optional notes"
// @Success      200  {object}  response.APIResponse[lifecycle.TransitionResult]
// @Router       /api/v1/members/{id}/restore [post]
func ApiRestoreMember(svc *lifecycle.Service) gin.HandlerFunc {
	return transitionHandler(func(c *gin.Context, req *lifecycle.TransitionRequest) (*lifecycle.TransitionResult, error) {
		return svc.Restore(c.Request.Context(), req)
	})
}

// @Summary      Renew member
// @Description  Enrolls the member on a plan for a fresh term. At most one renewal per member per day.
// @Tags         Members
// @Accept       json
// @Produce      json
// @Param        id      path  string     true  "Member ID"
// @Param        request body  RenewBody  true  "Plan and optional notes"
// @Success      200  {object}  response.APIResponse[lifecycle.TransitionResult]
// @Router       /api/v1/members/{id}/renew [post]
func ApiRenewMember(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body RenewBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.Renew(c.Request.Context(), &lifecycle.RenewRequest{
			MemberID:    c.Param("id"),
			PlanID:      body.MembershipPlanID,
			Notes:       body.Notes,
			PerformedBy: mw.ActorFromGin(c).UserID,
		})
		if err != nil {
			respondLifecycleError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Member status
// @Description  Returns the derived lifecycle state and current subscription.
// @Tags         Members
// @Produce      json
// @Param        id  path  string  true  "Member ID"
// @Success      200  {object}  response.APIResponse[lifecycle.MemberStatus]
// @Router       /api/v1/members/{id}/status [get]
func ApiMemberStatus(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := svc.GetStatus(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondLifecycleError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(status))
	}
}

// @Summary      Member audit history
// @Description  Lists lifecycle audit entries, newest first.
// @Tags         Members
// @Produce      json
// @Param        id        path   string  true   "Member ID"
// @Param        page      query  int     false  "Page (1-based)"
// @Param        limit     query  int     false  "Page size"
// @Param        category  query  string  false  "ACCOUNT | SUBSCRIPTION | PAYMENT | ACCESS"
// @Param        startDate query  string  false  "RFC3339 lower bound"
// @Param        endDate   query  string  false  "RFC3339 upper bound"
// @Success      200  {object}  response.APIResponse[lifecycle.HistoryResponse]
// @Router       /api/v1/members/{id}/history [get]
func ApiMemberHistory(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := &lifecycle.HistoryRequest{
			MemberID: c.Param("id"),
			Category: types.AuditCategory(c.Query("category")),
		}
		if req.Category != "" && !types.ValidCategory(req.Category) {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "unknown category"))
			return
		}
		if v := c.Query("page"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				req.Page = n
			}
		}
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				req.Limit = n
			}
		}
		for _, q := range []struct {
			name string
			dst  **time.Time
		}{{"startDate", &req.StartDate}, {"endDate", &req.EndDate}} {
			if v := c.Query(q.name); v != "" {
				t, err := time.Parse(time.RFC3339, v)
				if err != nil {
					c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid "+q.name))
					return
				}
				*q.dst = &t
			}
		}
		res, err := svc.History(c.Request.Context(), req)
		if err != nil {
			respondLifecycleError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Action reasons
// @Description  Returns the closed reason vocabulary per lifecycle operation.
// @Tags         Members
// @Produce      json
// @Success      200  {object}  response.APIResponse[map[string][]string]
// @Router       /api/v1/members/action-reasons [get]
func ApiActionReasons() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, response.OKT(types.AllowedReasons))
	}
}

func RegisterMemberRoutes(r gin.IRouter, svc *lifecycle.Service) {
	r.GET("/members/action-reasons", ApiActionReasons())
	r.POST("/members/:id/activate", ApiActivateMember(svc))
	r.POST("/members/:id/cancel", ApiCancelMember(svc))
	r.POST("/members/:id/restore", ApiRestoreMember(svc))
	r.POST("/members/:id/renew", ApiRenewMember(svc))
	r.GET("/members/:id/status", ApiMemberStatus(svc))
	r.GET("/members/:id/history", ApiMemberHistory(svc))
}
