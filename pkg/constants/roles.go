package constants

// Имена ролей, как в roles.name.
const (
	RoleSuperAdmin     = "SUPER_ADMIN"
	RoleAdmin          = "ADMIN"
	RoleUser           = "USER"
	RoleHRManager      = "HRMANAGER"
	RoleProjectManager = "PROJECTMANAGER"

	// RoleProjectManagerAlias принимаем на входе, храним как RoleProjectManager.
	RoleProjectManagerAlias = "PROJECTMGR"
)

// NormalizeRoleName приводит алиасы к хранимому имени роли.
func NormalizeRoleName(name string) string {
	if name == RoleProjectManagerAlias {
		return RoleProjectManager
	}
	return name
}
