package authz

import (
	"strings"

	"erp-system/internal/entities"
)

type Context struct {
	Actor             *entities.User
	Permissions       map[string]bool
	Target            interface{}
	CurrentPermission string
}

// HasPermission: superuser имеет все права.
func (c *Context) HasPermission(permission string) bool {
	if c.Permissions == nil {
		return false
	}
	return c.Permissions[Superuser] || c.Permissions[permission]
}

func (c *Context) IsSuperuser() bool {
	return c.Permissions != nil && c.Permissions[Superuser]
}

func getAction(permission string) string {
	parts := strings.Split(permission, ":")
	if len(parts) > 1 {
		return parts[1]
	}
	return ""
}

// canAccessMRF: править и удалять заявку может только автор, а заявки выше
// порога утверждает только superuser.
func canAccessMRF(ctx Context, target *entities.MaterialRequestForm) bool {
	switch getAction(ctx.CurrentPermission) {
	case "update", "delete":
		return ctx.Actor != nil && target.RequestedBy == ctx.Actor.ID
	case "approve":
		return !target.RequiresSuperadmin || ctx.IsSuperuser()
	}
	return true
}

func canAccessNotification(ctx Context, target *entities.Notification) bool {
	return ctx.Actor != nil && target.UserID == ctx.Actor.ID
}

func CanDo(permission string, ctx Context) bool {
	ctx.CurrentPermission = permission

	if !ctx.HasPermission(permission) {
		return false
	}
	if ctx.Target == nil {
		return true
	}

	switch target := ctx.Target.(type) {
	case *entities.MaterialRequestForm:
		return canAccessMRF(ctx, target)
	case *entities.Notification:
		return canAccessNotification(ctx, target)
	}
	return true
}
