package handlers

import (
	"errors"
	"net/http"

	mw "github.com/fitcrew/memberd/internal/app/api/middleware"
	"github.com/fitcrew/memberd/internal/app/service/reporting"
	"github.com/fitcrew/memberd/pkg/response"
	"github.com/fitcrew/memberd/pkg/types"

	"github.com/gin-gonic/gin"
)

// @Summary      Membership report (Admin)
// @Description  Per-tenant derived-state counts plus daily new-member and renewal series.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body reporting.MembershipReportRequest true "Report parameters"
// @Success      200  {object}  response.APIResponse[reporting.MembershipReport]
// @Router       /api/v1/admin/membership-report [post]
func ApiMembershipReport(svc *reporting.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reporting.MembershipReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		actor := mw.ActorFromGin(c)
		switch actor.Role {
		case types.RoleSuperAdmin:
		case types.RoleOwner:
			// Owners only report on their own tenant.
			req.TenantID = actor.TenantID
		default:
			c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeBadRequest, "insufficient role"))
			return
		}
		res, err := svc.MembershipReport(c.Request.Context(), &req)
		if err != nil {
			switch {
			case errors.Is(err, reporting.ErrTenantNotFound):
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
			case errors.Is(err, reporting.ErrInvalidRequest):
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			default:
				c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "internal error"))
			}
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, svc *reporting.Service) {
	r.POST("/membership-report", ApiMembershipReport(svc))
}
