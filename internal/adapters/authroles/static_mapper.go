package authroles

import (
	"slices"

	domainauth "github.com/target/storefront-admin/internal/domain/auth"
)

// StaticRoleMapper maps group membership to an application role by simple string rules.
// The most privileged matching group wins; no match yields RoleUser.
type StaticRoleMapper struct {
	SuperAdminGroup string
	AdminGroup      string
	UserGroup       string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	switch {
	case m.SuperAdminGroup != "" && slices.Contains(groups, m.SuperAdminGroup):
		return domainauth.RoleSuperAdmin
	case m.AdminGroup != "" && slices.Contains(groups, m.AdminGroup):
		return domainauth.RoleAdmin
	default:
		return domainauth.RoleUser
	}
}
