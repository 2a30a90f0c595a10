package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitcrew/memberd/pkg/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActorMiddleware_ParsesGatewayHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got *types.ActorContext
	r := gin.New()
	r.Use(ActorMiddleware())
	r.GET("/probe", func(c *gin.Context) {
		got = ActorFromGin(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderActorID, "u1")
	req.Header.Set(HeaderActorRole, "MANAGER")
	req.Header.Set(HeaderActorTenant, "t1")
	req.Header.Set(HeaderActorBranches, "b1:MANAGE, b2:VIEW, b3")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, types.RoleManager, got.Role)
	assert.Equal(t, "t1", got.TenantID)
	require.Len(t, got.BranchAccess, 3)
	assert.Equal(t, types.BranchAccess{BranchID: "b1", AccessLevel: types.AccessLevelManage}, got.BranchAccess[0])
	assert.Equal(t, types.BranchAccess{BranchID: "b2", AccessLevel: types.AccessLevelView}, got.BranchAccess[1])
	// Missing level defaults to VIEW.
	assert.Equal(t, types.BranchAccess{BranchID: "b3", AccessLevel: types.AccessLevelView}, got.BranchAccess[2])
	assert.Equal(t, []string{"b1", "b2", "b3"}, got.AssignedBranchIDs())
}

func TestActorFromGin_WithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	a := ActorFromGin(c)
	require.NotNil(t, a)
	assert.Empty(t, a.UserID)
	assert.Empty(t, a.BranchAccess)
}
