package types

// Role of the acting staff user, resolved by the upstream auth layer.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleOwner      Role = "OWNER"
	RoleManager    Role = "MANAGER"
	RoleStaff      Role = "STAFF"
)

// AccessLevel of a branch assignment.
type AccessLevel string

const (
	AccessLevelManage AccessLevel = "MANAGE"
	AccessLevelView   AccessLevel = "VIEW"
)

// BranchAccess is one (branch, access level) assignment of a staff user.
type BranchAccess struct {
	BranchID    string      `json:"branch_id"`
	AccessLevel AccessLevel `json:"access_level"`
}

// ActorContext carries the resolved identity of the requesting user.
// It is threaded explicitly into every service call; there is no ambient
// request-global state.
type ActorContext struct {
	UserID       string         `json:"user_id"`
	Role         Role           `json:"role"`
	TenantID     string         `json:"tenant_id"`
	BranchAccess []BranchAccess `json:"branch_access"`
}

// AssignedBranchIDs returns the branches explicitly assigned to the actor.
func (a *ActorContext) AssignedBranchIDs() []string {
	ids := make([]string, 0, len(a.BranchAccess))
	for _, b := range a.BranchAccess {
		ids = append(ids, b.BranchID)
	}
	return ids
}

// TenantBound reports whether the role is implicitly scoped to its own tenant.
func (a *ActorContext) TenantBound() bool {
	return a.Role != RoleSuperAdmin
}
