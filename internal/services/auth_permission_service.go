package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"erp-system/internal/repositories"
	apperrors "erp-system/pkg/errors"

	"go.uber.org/zap"
)

type AuthPermissionServiceInterface interface {
	GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error)
	InvalidateRolePermissionsCache(ctx context.Context, roleID uint64) error
}

type AuthPermissionService struct {
	permissionRepo repositories.PermissionRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	logger         *zap.Logger
	cacheTTL       time.Duration
}

func NewAuthPermissionService(
	permissionRepo repositories.PermissionRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cacheTTL time.Duration,
) AuthPermissionServiceInterface {
	return &AuthPermissionService{
		permissionRepo: permissionRepo,
		cacheRepo:      cacheRepo,
		logger:         logger,
		cacheTTL:       cacheTTL,
	}
}

func rolePermissionsKey(roleID uint64) string {
	return fmt.Sprintf("auth:permissions:role:%d", roleID)
}

func (s *AuthPermissionService) GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error) {
	cacheKey := rolePermissionsKey(roleID)
	logger := s.logger.With(zap.Uint64("roleID", roleID))
	var permissions []string

	cached, errGet := s.cacheRepo.Get(ctx, cacheKey)
	if errGet == nil {
		if err := json.Unmarshal([]byte(cached), &permissions); err == nil {
			logger.Debug("role permissions served from cache")
			return permissions, nil
		} else {
			logger.Warn("corrupt role permissions in cache", zap.String("key", cacheKey), zap.Error(err))
		}
	} else {
		logger.Debug("role permissions not cached, loading from database", zap.Error(errGet))
	}

	permissions, errDB := s.permissionRepo.GetRolePermissionsNames(ctx, roleID)
	if errDB != nil {
		logger.Error("failed to load role permissions", zap.Error(errDB))
		return nil, apperrors.ErrInternalServer
	}

	if len(permissions) > 0 {
		raw, errMarshal := json.Marshal(permissions)
		if errMarshal != nil {
			logger.Error("failed to encode role permissions for cache", zap.Error(errMarshal))
		} else if errSet := s.cacheRepo.Set(ctx, cacheKey, string(raw), s.cacheTTL); errSet != nil {
			logger.Error("failed to cache role permissions", zap.Error(errSet))
		}
	}
	return permissions, nil
}

func (s *AuthPermissionService) InvalidateRolePermissionsCache(ctx context.Context, roleID uint64) error {
	if err := s.cacheRepo.Del(ctx, rolePermissionsKey(roleID)); err != nil {
		s.logger.Error("failed to invalidate role permissions cache", zap.Uint64("roleID", roleID), zap.Error(err))
		return err
	}
	s.logger.Info("role permissions cache invalidated", zap.Uint64("roleID", roleID))
	return nil
}
