package authz

import "github.com/gmml-lab/inventory-backend/pkg/enums"

// Operation names a gated action on the inventory domain.
type Operation string

const (
	OpItemRead       Operation = "item:read"
	OpItemCreate     Operation = "item:create"
	OpItemUpdate     Operation = "item:update"
	OpItemDelete     Operation = "item:delete"
	OpCategoryManage Operation = "category:manage"
	OpLocationManage Operation = "location:manage"
	OpRoleManage     Operation = "role:manage"
)

// allowed maps each operation to the roles permitted to perform it. Reads are
// open to every authenticated role; item mutations need member or better;
// reference data and role management are admin only.
var allowed = map[Operation]map[enums.Role]bool{
	OpItemRead: {
		enums.RoleAdmin:  true,
		enums.RoleMember: true,
		enums.RoleUser:   true,
	},
	OpItemCreate: {
		enums.RoleAdmin:  true,
		enums.RoleMember: true,
	},
	OpItemUpdate: {
		enums.RoleAdmin:  true,
		enums.RoleMember: true,
	},
	OpItemDelete: {
		enums.RoleAdmin:  true,
		enums.RoleMember: true,
	},
	OpCategoryManage: {
		enums.RoleAdmin: true,
	},
	OpLocationManage: {
		enums.RoleAdmin: true,
	},
	OpRoleManage: {
		enums.RoleAdmin: true,
	},
}

// CanMutate reports whether the role may perform the operation. Unknown roles
// and unknown operations are both denied.
func CanMutate(role enums.Role, op Operation) bool {
	roles, ok := allowed[op]
	if !ok {
		return false
	}
	return roles[role]
}

// Permissions summarizes what a role can do. The flags are advisory for
// clients; services re-check CanMutate on every mutation.
type Permissions struct {
	CanRead          bool `json:"can_read"`
	CanMutateItems   bool `json:"can_mutate_items"`
	CanManageLookups bool `json:"can_manage_lookups"`
	CanManageRoles   bool `json:"can_manage_roles"`
}

// PermissionsFor derives the advisory permission flags for a role.
func PermissionsFor(role enums.Role) Permissions {
	return Permissions{
		CanRead:          CanMutate(role, OpItemRead),
		CanMutateItems:   CanMutate(role, OpItemCreate),
		CanManageLookups: CanMutate(role, OpCategoryManage),
		CanManageRoles:   CanMutate(role, OpRoleManage),
	}
}
