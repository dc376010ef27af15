package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/repositories"
	"erp-system/pkg/config"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error)
	GetUserByID(ctx context.Context, userID uint64) (*entities.User, error)
	Status(ctx context.Context) (*dto.AuthStatusDTO, error)
	// RevokeToken кладёт jti в чёрный список до истечения токена.
	RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	logger    *zap.Logger
	cfg       *config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
		cfg:       cfg,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, payload.Username)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	// 1. Заблокированный аккаунт не проверяем дальше
	if err := s.checkLockout(ctx, user.ID); err != nil {
		return nil, err
	}
	// 2. Неверный пароль увеличивает счётчик попыток
	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		s.handleFailedLoginAttempt(ctx, user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}
	s.resetLoginAttempts(ctx, user.ID)
	s.logger.Info("user logged in", zap.Uint64("userID", user.ID), zap.String("role", user.RoleName))
	return user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint64) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("GetUserByID: user lookup failed", zap.Uint64("userID", userID), zap.Error(err))
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) Status(ctx context.Context) (*dto.AuthStatusDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	authorities := []string{"ROLE_" + user.RoleName}
	if permissions, err := utils.GetPermissionsMapFromCtx(ctx); err == nil {
		names := make([]string, 0, len(permissions))
		for name, granted := range permissions {
			if granted {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		authorities = append(authorities, names...)
	}

	return &dto.AuthStatusDTO{
		Authenticated: true,
		Username:      user.Username,
		Role:          user.RoleName,
		Authorities:   authorities,
	}, nil
}

func revokedTokenKey(tokenID string) string {
	return fmt.Sprintf("auth:revoked:%s", tokenID)
}

// RevokeToken кладёт jti в кэш до истечения токена.
func (s *AuthService) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.cacheRepo.Set(ctx, revokedTokenKey(tokenID), "revoked", ttl); err != nil {
		s.logger.Error("failed to revoke token", zap.String("jti", tokenID), zap.Error(err))
		return apperrors.ErrInternalServer
	}
	return nil
}

func (s *AuthService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	exists, err := s.cacheRepo.Exists(ctx, revokedTokenKey(tokenID))
	if err != nil && err != redis.Nil {
		return false, err
	}
	return exists, nil
}

// ======================= БЛОКИРОВКА ПО ПОПЫТКАМ =======================

// checkLockout отклоняет вход, пока в кэше висит ключ блокировки.
func (s *AuthService) checkLockout(ctx context.Context, userID uint64) error {
	lockoutKey := fmt.Sprintf("lockout:%d", userID)
	if _, err := s.cacheRepo.Get(ctx, lockoutKey); err == nil {
		s.logger.Warn("login rejected, account locked", zap.Uint64("userID", userID))
		return apperrors.ErrAccountLocked
	}
	return nil
}

// handleFailedLoginAttempt считает неудачные входы и блокирует учётку
// после MaxLoginAttempts попыток. Ошибки Redis здесь не критичны.
func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, userID uint64) {
	attemptsKey := fmt.Sprintf("login_attempts:%d", userID)
	attempts, _ := s.cacheRepo.Incr(ctx, attemptsKey)
	// TTL ставим на первой попытке, окно считается от неё
	if attempts == 1 {
		s.cacheRepo.Expire(ctx, attemptsKey, s.cfg.LockoutDuration)
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		lockoutKey := fmt.Sprintf("lockout:%d", userID)
		s.cacheRepo.Set(ctx, lockoutKey, "locked", s.cfg.LockoutDuration)
		s.cacheRepo.Del(ctx, attemptsKey)
		s.logger.Warn("account locked after failed logins", zap.Uint64("userID", userID), zap.Int64("attempts", attempts))
	}
}

// resetLoginAttempts сбрасывает счётчик и блокировку после успешного входа.
func (s *AuthService) resetLoginAttempts(ctx context.Context, userID uint64) {
	attemptsKey := fmt.Sprintf("login_attempts:%d", userID)
	lockoutKey := fmt.Sprintf("lockout:%d", userID)
	s.cacheRepo.Del(ctx, attemptsKey, lockoutKey)
}
