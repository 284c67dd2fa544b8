package authroles

import (
	domainauth "github.com/itimad/portal-api/internal/domain/auth"
)

// StaticRoleMapper maps IdP groups to staff roles by simple string membership.
// Identities outside both groups get no role, which denies the SSO login;
// center and student accounts never pass through here.
type StaticRoleMapper struct {
	SuperAdminGroup string
	AdminGroup      string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.SuperAdminGroup != "" && g == m.SuperAdminGroup {
			return domainauth.RoleSuperAdmin
		}
	}
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	return ""
}
