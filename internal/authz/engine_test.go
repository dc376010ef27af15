package authz

import (
	"testing"

	"erp-system/internal/entities"
	"erp-system/pkg/constants"

	"github.com/stretchr/testify/assert"
)

func perms(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func TestCanDo_RBAC(t *testing.T) {
	pm := Context{Actor: &entities.User{ID: 1}, Permissions: perms(RoleGrants[constants.RoleProjectManager]...)}
	assert.True(t, CanDo(MRFCreate, pm))
	assert.False(t, CanDo(MRFApprove, pm))
	assert.False(t, CanDo(ReportsView, pm))

	super := Context{Actor: &entities.User{ID: 2}, Permissions: perms(Superuser)}
	assert.True(t, CanDo(ReportsView, super))
	assert.True(t, CanDo(UsersManage, super))

	assert.False(t, CanDo(MRFView, Context{}))
}

func TestCanDo_MRFOwnership(t *testing.T) {
	mrf := &entities.MaterialRequestForm{RequestedBy: 7}
	owner := Context{Actor: &entities.User{ID: 7}, Permissions: perms(MRFUpdate, MRFDelete), Target: mrf}
	other := Context{Actor: &entities.User{ID: 8}, Permissions: perms(MRFUpdate, MRFDelete), Target: mrf}

	assert.True(t, CanDo(MRFUpdate, owner))
	assert.True(t, CanDo(MRFDelete, owner))
	assert.False(t, CanDo(MRFUpdate, other))
	assert.False(t, CanDo(MRFDelete, other))
}

func TestCanDo_MRFApprovalTier(t *testing.T) {
	tests := []struct {
		name     string
		perms    map[string]bool
		requires bool
		want     bool
	}{
		{"admin below threshold", perms(MRFApprove), false, true},
		{"admin above threshold", perms(MRFApprove), true, false},
		{"superuser above threshold", perms(Superuser), true, true},
		{"no permission", perms(MRFView), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := Context{
				Actor:       &entities.User{ID: 1},
				Permissions: tt.perms,
				Target:      &entities.MaterialRequestForm{RequiresSuperadmin: tt.requires},
			}
			assert.Equal(t, tt.want, CanDo(MRFApprove, ctx))
		})
	}
}

func TestCanDo_NotificationOwnership(t *testing.T) {
	n := &entities.Notification{UserID: 3}
	assert.True(t, CanDo(NotificationsView, Context{Actor: &entities.User{ID: 3}, Permissions: perms(NotificationsView), Target: n}))
	assert.False(t, CanDo(NotificationsView, Context{Actor: &entities.User{ID: 4}, Permissions: perms(NotificationsView), Target: n}))
}

func TestRoleGrantsAreCatalogued(t *testing.T) {
	for role, grants := range RoleGrants {
		for _, g := range grants {
			_, ok := PermissionDescriptions[g]
			assert.Truef(t, ok, "role %s grants unknown permission %s", role, g)
		}
	}
}
