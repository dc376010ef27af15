package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/services"
	"erp-system/pkg/config"
	"erp-system/pkg/customvalidator"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/service"
	"erp-system/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const (
	viewerRole   uint64 = 2
	approverRole uint64 = 3
)

type rolePermissions struct {
	services.AuthPermissionServiceInterface
	byRole map[uint64][]string
}

func (r *rolePermissions) GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error) {
	return r.byRole[roleID], nil
}

type stubAuth struct {
	services.AuthServiceInterface
	revoked map[string]bool
}

func (s *stubAuth) Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error) {
	if payload.Username == "admin" && payload.Password == "secret" {
		return &entities.User{ID: 1, RoleID: approverRole, Username: "admin"}, nil
	}
	return nil, apperrors.ErrInvalidCredentials
}

func (s *stubAuth) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.revoked[tokenID], nil
}

func (s *stubAuth) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	s.revoked[tokenID] = true
	return nil
}

type stubMRF struct {
	services.MRFServiceInterface
	calls int
}

func (s *stubMRF) GetAll(ctx context.Context) ([]entities.MaterialRequestForm, error) {
	s.calls++
	return []entities.MaterialRequestForm{{ID: 1, MRFNumber: "MRF0001"}}, nil
}

type RouterTestSuite struct {
	suite.Suite
	echo *echo.Echo
	jwt  service.JWTService
	auth *stubAuth
	mrf  *stubMRF
}

func (s *RouterTestSuite) SetupTest() {
	logger := zap.NewNop()
	s.jwt = service.NewJWTService("router-test-secret", time.Minute, time.Hour, logger)
	s.auth = &stubAuth{revoked: map[string]bool{}}
	s.mrf = &stubMRF{}

	e := echo.New()
	v := validator.New()
	s.Require().NoError(customvalidator.RegisterCustomValidations(v))
	e.Validator = utils.NewValidator(v)

	svc := &Services{
		JWT: s.jwt,
		AuthPermission: &rolePermissions{byRole: map[uint64][]string{
			viewerRole:   {authz.NotificationsView},
			approverRole: {authz.MRFView, authz.MRFApprove},
		}},
		Auth: s.auth,
		MRF:  s.mrf,
	}
	InitRouter(e, svc, NewLoggers(logger), &config.Config{})
	s.echo = e
}

func (s *RouterTestSuite) do(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *RouterTestSuite) TestProtectedRouteNeedsToken() {
	rec := s.do(http.MethodGet, "/api/mrf", "", "")
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Zero(s.mrf.calls)
}

func (s *RouterTestSuite) TestMissingPermissionIsForbidden() {
	token, _, err := s.jwt.GenerateTokens(7, viewerRole)
	s.Require().NoError(err)

	rec := s.do(http.MethodGet, "/api/mrf", token, "")
	s.Equal(http.StatusForbidden, rec.Code)
	s.Zero(s.mrf.calls)
}

func (s *RouterTestSuite) TestPermittedRouteReachesService() {
	token, _, err := s.jwt.GenerateTokens(1, approverRole)
	s.Require().NoError(err)

	rec := s.do(http.MethodGet, "/api/mrf", token, "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(1, s.mrf.calls)

	var resp struct {
		Status bool                           `json:"status"`
		Body   []entities.MaterialRequestForm `json:"body"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Status)
	s.Require().Len(resp.Body, 1)
	s.Equal("MRF0001", resp.Body[0].MRFNumber)
}

func (s *RouterTestSuite) TestLoginIssuesTokensAndCookie() {
	rec := s.do(http.MethodPost, "/api/auth/login", "", `{"username":"admin","password":"wrong"}`)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/login", "", `{"username":"admin","password":"secret"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get(echo.HeaderSetCookie), "refreshToken=")
}

func (s *RouterTestSuite) TestLogoutRevokesAccessToken() {
	token, _, err := s.jwt.GenerateTokens(1, approverRole)
	s.Require().NoError(err)

	rec := s.do(http.MethodPost, "/api/auth/logout", token, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/mrf", token, "")
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
