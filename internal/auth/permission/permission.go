// Package permission provides pure role and permission predicates.
// Every check is derived from the role ordering in domain/auth (user < admin < superadmin),
// so changing that ordering changes these answers consistently.
package permission

import (
	"slices"

	domainauth "github.com/target/storefront-admin/internal/domain/auth"
)

func atLeast(role string, min domainauth.Role) bool {
	r, ok := domainauth.ParseRole(role)
	return ok && r.AtLeast(min)
}

// IsSuperAdmin reports whether role is superadmin (case-insensitive).
func IsSuperAdmin(role string) bool {
	return atLeast(role, domainauth.RoleSuperAdmin)
}

// IsAdmin reports whether role is admin or superadmin (case-insensitive).
func IsAdmin(role string) bool {
	return atLeast(role, domainauth.RoleAdmin)
}

// HasPermission is a membership test. A nil or empty list never grants anything.
func HasPermission(permissions []string, required string) bool {
	if len(permissions) == 0 {
		return false
	}
	return slices.Contains(permissions, required)
}

// CanUploadImages reports whether role may upload images.
func CanUploadImages(role string) bool { return IsAdmin(role) }

// CanDeleteImages reports whether role may delete images.
func CanDeleteImages(role string) bool { return IsSuperAdmin(role) }

// CanViewImages reports whether any role is present.
func CanViewImages(role string) bool { return role != "" }

// Capabilities bundles the derived checks for one profile, for templates and JSON.
type Capabilities struct {
	IsAdmin         bool `json:"is_admin"`
	IsSuperAdmin    bool `json:"is_super_admin"`
	CanViewImages   bool `json:"can_view_images"`
	CanUploadImages bool `json:"can_upload_images"`
	CanDeleteImages bool `json:"can_delete_images"`
}

// For computes Capabilities for p. A nil profile has none.
func For(p *domainauth.Profile) Capabilities {
	if p == nil {
		return Capabilities{}
	}
	role := string(p.Role)
	return Capabilities{
		IsAdmin:         IsAdmin(role),
		IsSuperAdmin:    IsSuperAdmin(role),
		CanViewImages:   CanViewImages(role),
		CanUploadImages: CanUploadImages(role),
		CanDeleteImages: CanDeleteImages(role),
	}
}
