package seeders

import (
	"context"
	"sort"

	"erp-system/internal/authz"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func seedPermissions(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	names := make([]string, 0, len(authz.PermissionDescriptions))
	for name := range authz.PermissionDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)

	query := `INSERT INTO permissions (name, description) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description`

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	for _, name := range names {
		if _, err := tx.Exec(ctx, query, name, authz.PermissionDescriptions[name]); err != nil {
			return err
		}
	}
	logger.Info("permissions upserted", zap.Int("count", len(names)))
	return tx.Commit(ctx)
}
