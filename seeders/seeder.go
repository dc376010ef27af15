package seeders

import (
	"context"
	"fmt"

	"erp-system/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SeedAccess записывает каталог прав, встроенные роли и их права.
func SeedAccess(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	logger.Info("seeding access control")

	if err := seedPermissions(ctx, db, logger); err != nil {
		return fmt.Errorf("permissions: %w", err)
	}
	if err := seedRoles(ctx, db, logger); err != nil {
		return fmt.Errorf("roles: %w", err)
	}
	if err := seedRolePermissions(ctx, db, logger); err != nil {
		return fmt.Errorf("role permissions: %w", err)
	}

	logger.Info("access control seeded")
	return nil
}

// SeedAdmin создаёт учётку супер-админа, если её ещё нет.
func SeedAdmin(ctx context.Context, db *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) error {
	if err := seedSuperAdmin(ctx, db, cfg.Seed, logger); err != nil {
		return fmt.Errorf("super admin: %w", err)
	}
	return nil
}
