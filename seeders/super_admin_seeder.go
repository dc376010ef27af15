package seeders

import (
	"context"
	"fmt"

	"erp-system/pkg/config"
	"erp-system/pkg/constants"
	"erp-system/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func seedSuperAdmin(ctx context.Context, db *pgxpool.Pool, cfg config.SeedConfig, logger *zap.Logger) error {
	var exists bool
	if err := db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", cfg.SuperAdminUsername).Scan(&exists); err != nil {
		return err
	}
	if exists {
		logger.Info("super admin already exists, skipping", zap.String("username", cfg.SuperAdminUsername))
		return nil
	}

	var roleID uint64
	if err := db.QueryRow(ctx, "SELECT id FROM roles WHERE name = $1", constants.RoleSuperAdmin).Scan(&roleID); err != nil {
		return fmt.Errorf("role %s not found, run the access seeder first: %w", constants.RoleSuperAdmin, err)
	}

	hashedPassword, err := utils.HashPassword(cfg.SuperAdminPassword)
	if err != nil {
		return err
	}
	if _, err := db.Exec(ctx, "INSERT INTO users (username, password, role_id) VALUES ($1, $2, $3)",
		cfg.SuperAdminUsername, hashedPassword, roleID); err != nil {
		return err
	}
	logger.Info("super admin created", zap.String("username", cfg.SuperAdminUsername))
	return nil
}
