package controllers

import (
	"net/http"
	"time"

	"erp-system/internal/dto"
	"erp-system/internal/services"
	"erp-system/pkg/contextkeys"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/service"
	"erp-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const refreshCookieName = "refreshToken"

type AuthController struct {
	authService services.AuthServiceInterface
	jwtSvc      service.JWTService
	logger      *zap.Logger
}

func NewAuthController(
	authService services.AuthServiceInterface,
	jwtSvc service.JWTService,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService: authService,
		jwtSvc:      jwtSvc,
		logger:      logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Warn("Login: bind failed", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Invalid login payload"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	user, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		ctrl.logger.Info("Login: rejected", zap.String("username", payload.Username), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}
	return ctrl.issueTokens(c, user.ID, user.RoleID, dto.UserPublicDTO{ID: user.ID, Username: user.Username, Role: user.RoleName}, "Login successful")
}

func (ctrl *AuthController) RefreshToken(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return ctrl.errorResponse(c, apperrors.ErrUnauthorized)
	}

	claims, err := ctrl.jwtSvc.ValidateToken(cookie.Value)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	if !claims.IsRefreshToken {
		return ctrl.errorResponse(c, apperrors.ErrTokenIsNotRefresh)
	}
	revoked, err := ctrl.authService.IsTokenRevoked(c.Request().Context(), claims.ID)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	if revoked {
		return ctrl.errorResponse(c, apperrors.ErrTokenRevoked)
	}

	// Роль перечитываем из БД, чтобы смена роли сработала при refresh.
	user, err := ctrl.authService.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return ctrl.issueTokens(c, user.ID, user.RoleID, dto.UserPublicDTO{ID: user.ID, Username: user.Username, Role: user.RoleName}, "Tokens refreshed")
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	tokenID, _ := ctx.Value(contextkeys.TokenIDKey).(string)
	expiresAt, _ := ctx.Value(contextkeys.TokenExpiresAtKey).(time.Time)
	if err := ctrl.authService.RevokeToken(ctx, tokenID, expiresAt); err != nil {
		return ctrl.errorResponse(c, err)
	}

	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		if claims, err := ctrl.jwtSvc.ValidateToken(cookie.Value); err == nil && claims.ExpiresAt != nil {
			_ = ctrl.authService.RevokeToken(ctx, claims.ID, claims.ExpiresAt.Time)
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	return utils.SuccessResponse(c, dto.ActionResultDTO{Success: true, Message: "Logged out"}, "Logged out", http.StatusOK)
}

func (ctrl *AuthController) Status(c echo.Context) error {
	status, err := ctrl.authService.Status(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, status, "Authenticated", http.StatusOK)
}

func (ctrl *AuthController) issueTokens(c echo.Context, userID, roleID uint64, user dto.UserPublicDTO, message string) error {
	accessToken, refreshToken, err := ctrl.jwtSvc.GenerateTokens(userID, roleID)
	if err != nil {
		ctrl.logger.Error("token generation failed", zap.Uint64("userID", userID), zap.Error(err))
		return ctrl.errorResponse(c, apperrors.ErrInternalServer)
	}

	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		Expires:  time.Now().Add(ctrl.jwtSvc.GetRefreshTokenTTL()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	return utils.SuccessResponse(c, dto.AuthResponseDTO{AccessToken: accessToken, User: user}, message, http.StatusOK)
}
