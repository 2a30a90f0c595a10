package handlers

import (
	"net/http"
	"strconv"

	mw "github.com/fitcrew/memberd/internal/app/api/middleware"
	"github.com/fitcrew/memberd/internal/app/service/expiring"
	"github.com/fitcrew/memberd/pkg/response"

	"github.com/gin-gonic/gin"
)

func intQuery(c *gin.Context, name string) int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// @Summary      Expiring subscriptions overview
// @Description  Paginated, actor-scoped list of members whose subscriptions expire within the window.
// @Tags         Expiring
// @Produce      json
// @Param        daysBefore query  int     false  "Window in days (default from config)"
// @Param        tenantId   query  string  false  "Tenant filter (SUPER_ADMIN only)"
// @Param        branchId   query  string  false  "Branch filter"
// @Param        page       query  int     false  "Page (1-based)"
// @Param        limit      query  int     false  "Page size"
// @Success      200  {object}  response.APIResponse[expiring.Overview]
// @Router       /api/v1/members/expiring-overview [get]
func ApiExpiringOverview(svc *expiring.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Overview(c.Request.Context(), &expiring.OverviewRequest{
			DaysBefore: intQuery(c, "daysBefore"),
			TenantID:   c.Query("tenantId"),
			BranchID:   c.Query("branchId"),
			Page:       intQuery(c, "page"),
			Limit:      intQuery(c, "limit"),
			Actor:      mw.ActorFromGin(c),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "internal error"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Expiring subscriptions count
// @Description  Actor-scoped count of distinct members with an expiring subscription.
// @Tags         Expiring
// @Produce      json
// @Param        daysBefore query  int     false  "Window in days (default from config)"
// @Param        tenantId   query  string  false  "Tenant filter (SUPER_ADMIN only)"
// @Success      200  {object}  response.APIResponse[expiring.CountResult]
// @Router       /api/v1/members/expiring-count [get]
func ApiExpiringCount(svc *expiring.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Count(c.Request.Context(), &expiring.CountRequest{
			TenantID:   c.Query("tenantId"),
			DaysBefore: intQuery(c, "daysBefore"),
			Actor:      mw.ActorFromGin(c),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "internal error"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterExpiringRoutes(r gin.IRouter, svc *expiring.Service) {
	r.GET("/members/expiring-overview", ApiExpiringOverview(svc))
	r.GET("/members/expiring-count", ApiExpiringCount(svc))
}
