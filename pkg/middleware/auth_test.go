package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"erp-system/internal/authz"
	"erp-system/pkg/contextkeys"
	"erp-system/pkg/service"
	"erp-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticPermissions map[uint64][]string

func (s staticPermissions) GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error) {
	return s[roleID], nil
}

type revokedSet map[string]bool

func (r revokedSet) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return r[tokenID], nil
}

func setup(t *testing.T, revoked revokedSet) (*echo.Echo, service.JWTService) {
	t.Helper()
	logger := zap.NewNop()
	jwtSvc := service.NewJWTService("test-secret", time.Minute, time.Hour, logger)
	mw := NewAuthMiddleware(jwtSvc, staticPermissions{
		1: {authz.Superuser},
		2: {authz.MRFView},
	}, revoked, logger)

	e := echo.New()
	g := e.Group("/api", mw.Auth)
	g.GET("/mrf", func(c echo.Context) error {
		userID, err := utils.GetUserIDFromCtx(c.Request().Context())
		require.NoError(t, err)
		roleID, err := utils.GetUserRoleIDFromCtx(c.Request().Context())
		require.NoError(t, err)
		assert.NotZero(t, roleID)
		jti, _ := c.Request().Context().Value(contextkeys.TokenIDKey).(string)
		assert.NotEmpty(t, jti)
		return c.JSON(http.StatusOK, map[string]uint64{"userId": userID})
	}, mw.AuthorizeAny(authz.MRFView))
	g.POST("/mrf/:id/approve", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, mw.AuthorizeAny(authz.MRFApprove))
	return e, jwtSvc
}

func do(e *echo.Echo, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	revoked := revokedSet{}
	e, jwtSvc := setup(t, revoked)

	viewer, viewerRefresh, err := jwtSvc.GenerateTokens(5, 2)
	require.NoError(t, err)
	admin, _, err := jwtSvc.GenerateTokens(6, 1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/api/mrf", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/api/mrf", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/api/mrf", viewerRefresh).Code)

	rec := do(e, http.MethodGet, "/api/mrf", viewer)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":5}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/mrf?token="+viewer, "").Code)

	assert.Equal(t, http.StatusForbidden, do(e, http.MethodPost, "/api/mrf/1/approve", viewer).Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodPost, "/api/mrf/1/approve", admin).Code)

	claims, err := jwtSvc.ValidateToken(viewer)
	require.NoError(t, err)
	revoked[claims.ID] = true
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/api/mrf", viewer).Code)
}
