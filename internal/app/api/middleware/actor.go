package middleware

import (
	"strings"

	"github.com/fitcrew/memberd/pkg/types"

	"github.com/gin-gonic/gin"
)

// Headers set by the upstream auth gateway after token verification.
// Token issuance and verification never happen here.
const (
	HeaderActorID       = "X-Actor-Id"
	HeaderActorRole     = "X-Actor-Role"
	HeaderActorTenant   = "X-Actor-Tenant"
	HeaderActorBranches = "X-Actor-Branches"

	actorKey = "actor"
)

// ActorMiddleware resolves the acting user's identity, role, tenant and
// branch assignments from gateway headers into an ActorContext and attaches
// it to the gin context. Branch assignments are encoded as
// "branchID:accessLevel" pairs joined by commas.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := &types.ActorContext{
			UserID:   c.GetHeader(HeaderActorID),
			Role:     types.Role(c.GetHeader(HeaderActorRole)),
			TenantID: c.GetHeader(HeaderActorTenant),
		}
		if raw := c.GetHeader(HeaderActorBranches); raw != "" {
			for _, pair := range strings.Split(raw, ",") {
				id, level, _ := strings.Cut(strings.TrimSpace(pair), ":")
				if id == "" {
					continue
				}
				if level == "" {
					level = string(types.AccessLevelView)
				}
				actor.BranchAccess = append(actor.BranchAccess, types.BranchAccess{
					BranchID:    id,
					AccessLevel: types.AccessLevel(level),
				})
			}
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFromGin returns the actor context attached by ActorMiddleware, or an
// empty context when the middleware did not run.
func ActorFromGin(c *gin.Context) *types.ActorContext {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(*types.ActorContext); ok && a != nil {
			return a
		}
	}
	return &types.ActorContext{}
}
