package middleware

import (
	"context"
	"strings"
	"time"

	"erp-system/internal/authz"
	"erp-system/pkg/contextkeys"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/service"
	"erp-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PermissionSource отдаёт имена прав роли.
type PermissionSource interface {
	GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error)
}

// RevocationChecker: был ли jti отозван при logout.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthMiddleware struct {
	jwtService  service.JWTService
	permissions PermissionSource
	revocations RevocationChecker
	logger      *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, permissions PermissionSource, revocations RevocationChecker, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtSvc,
		permissions: permissions,
		revocations: revocations,
		logger:      logger,
	}
}

// extractToken читает "Authorization: Bearer <token>", а если его нет,
// query-параметр token от websocket-клиентов.
func extractToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		if token := c.QueryParam("token"); token != "" {
			return token, nil
		}
		return "", apperrors.ErrEmptyAuthHeader
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.ErrInvalidAuthHeader
	}
	return parts[1], nil
}

func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, err := extractToken(c)
		if err != nil {
			m.logger.Debug("AuthMiddleware: missing or malformed credentials", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.logger.Warn("AuthMiddleware: token validation failed", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}
		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: refresh token used for access", zap.Uint64("userID", claims.UserID))
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		ctx := c.Request().Context()
		revoked, err := m.revocations.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			m.logger.Error("AuthMiddleware: revocation lookup failed", zap.Error(err))
			return utils.ErrorResponse(c, apperrors.ErrInternalServer, m.logger)
		}
		if revoked {
			return utils.ErrorResponse(c, apperrors.ErrTokenRevoked, m.logger)
		}

		names, err := m.permissions.GetRolePermissionsNames(ctx, claims.RoleID)
		if err != nil {
			m.logger.Error("AuthMiddleware: permissions lookup failed", zap.Uint64("roleID", claims.RoleID), zap.Error(err))
			return utils.ErrorResponse(c, apperrors.ErrInternalServer, m.logger)
		}
		permissionsMap := make(map[string]bool, len(names))
		for _, name := range names {
			permissionsMap[name] = true
		}

		var expiresAt time.Time
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		ctx = utils.WithActor(ctx, claims.UserID, claims.RoleID, permissionsMap)
		ctx = context.WithValue(ctx, contextkeys.TokenIDKey, claims.ID)
		ctx = context.WithValue(ctx, contextkeys.TokenExpiresAtKey, expiresAt)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// AuthorizeAny пропускает запрос, если есть хотя бы одно из permissions.
// Superuser проходит всегда.
func (m *AuthMiddleware) AuthorizeAny(permissions ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			granted, err := utils.GetPermissionsMapFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
			}
			if granted[authz.Superuser] {
				return next(c)
			}
			for _, p := range permissions {
				if granted[p] {
					return next(c)
				}
			}
			userID, _ := utils.GetUserIDFromCtx(c.Request().Context())
			m.logger.Info("AuthorizeAny: access denied",
				zap.Uint64("userID", userID),
				zap.Strings("required", permissions),
				zap.String("path", c.Path()))
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}
	}
}
