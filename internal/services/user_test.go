package services

import (
	"testing"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserFixture() (UserServiceInterface, *fakeUserRepo, *entities.User) {
	admin := &entities.User{ID: 1, Username: "root", RoleID: 1, RoleName: constants.RoleSuperAdmin}
	clerk := &entities.User{ID: 2, Username: "clerk", RoleID: 2, RoleName: constants.RoleUser}
	users := newFakeUserRepo(admin, clerk)
	roles := &fakeRoleRepo{roles: []entities.Role{
		{ID: 1, Name: constants.RoleSuperAdmin},
		{ID: 2, Name: constants.RoleUser},
	}}
	return NewUserService(users, roles, zap.NewNop()), users, admin
}

func TestUserService_DeleteByUsername(t *testing.T) {
	cases := []struct {
		username string
		code     int
	}{
		{"root", 400},
		{"ghost", 404},
		{"clerk", 0},
	}
	for _, tc := range cases {
		t.Run(tc.username, func(t *testing.T) {
			service, users, admin := newUserFixture()
			err := service.DeleteByUsername(actorCtx(admin, authz.UsersManage), tc.username)
			if tc.code != 0 {
				assert.Equal(t, tc.code, httpCode(err))
				assert.Len(t, users.users, 2)
				return
			}
			require.NoError(t, err)
			assert.NotContains(t, users.users, uint64(2))
		})
	}
}

func TestUserService_CreateUser(t *testing.T) {
	service, users, admin := newUserFixture()
	ctx := actorCtx(admin, authz.UsersManage)

	_, err := service.CreateUser(ctx, dto.CreateUserDTO{Username: "clerk", Password: "secret1", RoleID: 2})
	assert.Equal(t, 409, httpCode(err))

	_, err = service.CreateUser(ctx, dto.CreateUserDTO{Username: "newbie", Password: "secret1", RoleID: 42})
	assert.Equal(t, 400, httpCode(err))

	created, err := service.CreateUser(ctx, dto.CreateUserDTO{Username: "newbie", Password: "secret1", RoleID: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), created.RoleID)
	assert.NotEqual(t, "secret1", users.users[created.ID].Password)

	_, err = service.CreateUser(actorCtx(admin, authz.NotificationsView), dto.CreateUserDTO{Username: "x", Password: "secret1", RoleID: 2})
	assert.Equal(t, 403, httpCode(err))
}
