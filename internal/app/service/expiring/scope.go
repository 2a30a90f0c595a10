package expiring

import (
	"github.com/fitcrew/memberd/pkg/types"

	"github.com/samber/lo"
)

// ScopeKind tags what slice of the data an actor may see.
type ScopeKind int

const (
	// ScopeAllTenants is a platform-wide view (SUPER_ADMIN with no tenant filter).
	ScopeAllTenants ScopeKind = iota
	// ScopeTenantWide covers every branch of one tenant.
	ScopeTenantWide
	// ScopeBranchSubset covers an explicit set of branches in one tenant.
	// An empty set is valid and yields zero results, never an error.
	ScopeBranchSubset
)

// EffectiveScope is the resolved row-level visibility of a request. It is
// computed once from (role, branch assignments, requested filters) and then
// consumed identically by count and overview, so role comparisons never leak
// into query-building code.
type EffectiveScope struct {
	Kind      ScopeKind
	TenantID  string
	BranchIDs []string
}

// Empty reports whether the scope cannot match any row.
func (s EffectiveScope) Empty() bool {
	return s.Kind == ScopeBranchSubset && len(s.BranchIDs) == 0
}

// ResolveScope maps the actor and requested filters onto an effective scope.
//
//   - SUPER_ADMIN: unrestricted; a tenant filter narrows to that tenant and a
//     branch filter (only meaningful once a tenant is chosen) to that branch.
//   - OWNER: own tenant, all branches; may narrow to a single branch.
//   - MANAGER / STAFF: own tenant, restricted to assigned branches. A
//     requested branch outside the assignment resolves to the empty subset.
func ResolveScope(actor *types.ActorContext, requestedTenantID, requestedBranchID string) EffectiveScope {
	switch actor.Role {
	case types.RoleSuperAdmin:
		if requestedTenantID == "" {
			return EffectiveScope{Kind: ScopeAllTenants}
		}
		if requestedBranchID != "" {
			return EffectiveScope{Kind: ScopeBranchSubset, TenantID: requestedTenantID, BranchIDs: []string{requestedBranchID}}
		}
		return EffectiveScope{Kind: ScopeTenantWide, TenantID: requestedTenantID}

	case types.RoleOwner:
		if requestedBranchID != "" {
			return EffectiveScope{Kind: ScopeBranchSubset, TenantID: actor.TenantID, BranchIDs: []string{requestedBranchID}}
		}
		return EffectiveScope{Kind: ScopeTenantWide, TenantID: actor.TenantID}

	default: // MANAGER, STAFF: assignment-based, no role elevation
		assigned := actor.AssignedBranchIDs()
		if requestedBranchID != "" {
			if lo.Contains(assigned, requestedBranchID) {
				return EffectiveScope{Kind: ScopeBranchSubset, TenantID: actor.TenantID, BranchIDs: []string{requestedBranchID}}
			}
			return EffectiveScope{Kind: ScopeBranchSubset, TenantID: actor.TenantID, BranchIDs: nil}
		}
		return EffectiveScope{Kind: ScopeBranchSubset, TenantID: actor.TenantID, BranchIDs: assigned}
	}
}
