package seeders

import (
	"context"
	"fmt"

	"erp-system/internal/authz"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func seedRolePermissions(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	query := `INSERT INTO role_permissions (role_id, permission_id)
		SELECT r.id, p.id FROM roles r, permissions p
		WHERE r.name = $1 AND p.name = $2
		ON CONFLICT (role_id, permission_id) DO NOTHING`

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, r := range rolesData {
		for _, permission := range authz.RoleGrants[r.Name] {
			tag, err := tx.Exec(ctx, query, r.Name, permission)
			if err != nil {
				return err
			}
			if tag.RowsAffected() > 0 {
				logger.Debug("granted", zap.String("role", r.Name), zap.String("permission", permission))
			}
		}
	}

	var granted int
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM role_permissions").Scan(&granted); err != nil {
		return fmt.Errorf("count grants: %w", err)
	}
	logger.Info("role permissions linked", zap.Int("total", granted))
	return tx.Commit(ctx)
}
