package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRegisterMemberRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1")
	RegisterMemberRoutes(g, nil)
	RegisterExpiringRoutes(g, nil)
	RegisterAdminRoutes(g.Group("/admin"), nil)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("POST /api/v1/members/:id/activate"))
	require.True(t, contains("POST /api/v1/members/:id/cancel"))
	require.True(t, contains("POST /api/v1/members/:id/restore"))
	require.True(t, contains("POST /api/v1/members/:id/renew"))
	require.True(t, contains("GET /api/v1/members/:id/status"))
	require.True(t, contains("GET /api/v1/members/:id/history"))
	require.True(t, contains("GET /api/v1/members/action-reasons"))
	require.True(t, contains("GET /api/v1/members/expiring-overview"))
	require.True(t, contains("GET /api/v1/members/expiring-count"))
	require.True(t, contains("POST /api/v1/admin/membership-report"))
}
