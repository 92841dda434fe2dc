package auth

// Admin role constants.
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// AllAdminRoles returns all valid admin roles.
func AllAdminRoles() []string {
	return []string{RoleViewer, RoleEditor, RoleAdmin}
}

// WriteRoles returns roles that can modify content.
func WriteRoles() []string {
	return []string{RoleEditor, RoleAdmin}
}
