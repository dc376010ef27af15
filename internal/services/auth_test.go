package services

import (
	"context"
	"testing"
	"time"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/pkg/config"
	"erp-system/pkg/constants"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthFixture(t *testing.T) (AuthServiceInterface, *fakeCache, *entities.User) {
	t.Helper()
	hash, err := utils.HashPassword("secret")
	require.NoError(t, err)
	user := &entities.User{ID: 7, Username: "alice", Password: hash, RoleID: 2, RoleName: constants.RoleAdmin}
	cache := newFakeCache()
	cfg := &config.AuthConfig{MaxLoginAttempts: 3, LockoutDuration: 15 * time.Minute}
	return NewAuthService(newFakeUserRepo(user), cache, zap.NewNop(), cfg), cache, user
}

func TestAuthService_Login(t *testing.T) {
	service, cache, user := newAuthFixture(t)
	ctx := context.Background()

	got, err := service.Login(ctx, dto.LoginDTO{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = service.Login(ctx, dto.LoginDTO{Username: "bob", Password: "secret"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = service.Login(ctx, dto.LoginDTO{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, "1", cache.values["login_attempts:7"])
	assert.Equal(t, 15*time.Minute, cache.ttls["login_attempts:7"])

	_, err = service.Login(ctx, dto.LoginDTO{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	_, ok := cache.values["login_attempts:7"]
	assert.False(t, ok, "a successful login clears the counter")
}

func TestAuthService_LockoutAfterMaxAttempts(t *testing.T) {
	service, cache, _ := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := service.Login(ctx, dto.LoginDTO{Username: "alice", Password: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}
	assert.Equal(t, "locked", cache.values["lockout:7"])

	_, err := service.Login(ctx, dto.LoginDTO{Username: "alice", Password: "secret"})
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked)
}

func TestAuthService_RevokeToken(t *testing.T) {
	service, cache, _ := newAuthFixture(t)
	ctx := context.Background()

	revoked, err := service.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, service.RevokeToken(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err = service.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.InDelta(t, time.Hour.Seconds(), cache.ttls["auth:revoked:jti-1"].Seconds(), 5)

	require.NoError(t, service.RevokeToken(ctx, "jti-2", time.Now().Add(-time.Minute)))
	revoked, err = service.IsTokenRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "expired tokens need no blacklist entry")
}

func TestAuthService_Status(t *testing.T) {
	service, _, user := newAuthFixture(t)
	ctx := actorCtx(user, authz.UsersManage, authz.MRFView)

	status, err := service.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Authenticated)
	assert.Equal(t, "alice", status.Username)
	assert.Equal(t, []string{"ROLE_ADMIN", authz.MRFView, authz.UsersManage}, status.Authorities)

	_, err = service.Status(context.Background())
	assert.Error(t, err)
}
