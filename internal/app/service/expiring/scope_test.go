package expiring

import (
	"testing"

	"github.com/fitcrew/memberd/pkg/types"

	"github.com/stretchr/testify/assert"
)

func actor(role types.Role, tenantID string, branchIDs ...string) *types.ActorContext {
	a := &types.ActorContext{UserID: "u1", Role: role, TenantID: tenantID}
	for _, id := range branchIDs {
		a.BranchAccess = append(a.BranchAccess, types.BranchAccess{BranchID: id, AccessLevel: types.AccessLevelView})
	}
	return a
}

func TestResolveScope(t *testing.T) {
	tests := []struct {
		name            string
		actor           *types.ActorContext
		requestedTenant string
		requestedBranch string
		want            EffectiveScope
	}{
		{
			name:  "super admin unfiltered sees all tenants",
			actor: actor(types.RoleSuperAdmin, ""),
			want:  EffectiveScope{Kind: ScopeAllTenants},
		},
		{
			name:            "super admin narrows to a tenant",
			actor:           actor(types.RoleSuperAdmin, ""),
			requestedTenant: "t1",
			want:            EffectiveScope{Kind: ScopeTenantWide, TenantID: "t1"},
		},
		{
			name:            "super admin narrows to tenant and branch",
			actor:           actor(types.RoleSuperAdmin, ""),
			requestedTenant: "t1",
			requestedBranch: "b1",
			want:            EffectiveScope{Kind: ScopeBranchSubset, TenantID: "t1", BranchIDs: []string{"b1"}},
		},
		{
			name:  "owner is pinned to own tenant",
			actor: actor(types.RoleOwner, "t1"),
			want:  EffectiveScope{Kind: ScopeTenantWide, TenantID: "t1"},
		},
		{
			name:            "owner tenant request is ignored in favor of own tenant",
			actor:           actor(types.RoleOwner, "t1"),
			requestedTenant: "t2",
			want:            EffectiveScope{Kind: ScopeTenantWide, TenantID: "t1"},
		},
		{
			name:            "owner may narrow to a branch",
			actor:           actor(types.RoleOwner, "t1"),
			requestedBranch: "b2",
			want:            EffectiveScope{Kind: ScopeBranchSubset, TenantID: "t1", BranchIDs: []string{"b2"}},
		},
		{
			name:  "manager defaults to assigned branches",
			actor: actor(types.RoleManager, "t1", "b1", "b2"),
			want:  EffectiveScope{Kind: ScopeBranchSubset, TenantID: "t1", BranchIDs: []string{"b1", "b2"}},
		},
		{
			name:            "manager may narrow within assignment",
			actor:           actor(types.RoleManager, "t1", "b1", "b2"),
			requestedBranch: "b2",
			want:            EffectiveScope{Kind: ScopeBranchSubset, TenantID: "t1", BranchIDs: []string{"b2"}},
		},
		{
			name:            "manager requesting unassigned branch gets empty subset, not an error",
			actor:           actor(types.RoleManager, "t1", "b1"),
			requestedBranch: "b9",
			want:            EffectiveScope{Kind: ScopeBranchSubset, TenantID: "t1", BranchIDs: nil},
		},
		{
			name:  "staff with no assignment sees nothing",
			actor: actor(types.RoleStaff, "t1"),
			want:  EffectiveScope{Kind: ScopeBranchSubset, TenantID: "t1", BranchIDs: []string{}},
		},
		{
			name:            "staff follows assignment, no role elevation",
			actor:           actor(types.RoleStaff, "t1", "b3"),
			requestedBranch: "b3",
			want:            EffectiveScope{Kind: ScopeBranchSubset, TenantID: "t1", BranchIDs: []string{"b3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveScope(tt.actor, tt.requestedTenant, tt.requestedBranch)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.TenantID, got.TenantID)
			assert.ElementsMatch(t, tt.want.BranchIDs, got.BranchIDs)
		})
	}
}

func TestEffectiveScope_Empty(t *testing.T) {
	assert.True(t, EffectiveScope{Kind: ScopeBranchSubset, TenantID: "t1"}.Empty())
	assert.False(t, EffectiveScope{Kind: ScopeBranchSubset, TenantID: "t1", BranchIDs: []string{"b1"}}.Empty())
	assert.False(t, EffectiveScope{Kind: ScopeTenantWide, TenantID: "t1"}.Empty())
	assert.False(t, EffectiveScope{Kind: ScopeAllTenants}.Empty())
}
