package repositories

import (
	"context"
	"fmt"

	"erp-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoleRepositoryInterface interface {
	GetRoles(ctx context.Context) ([]entities.Role, error)
	FindByID(ctx context.Context, id uint64) (*entities.Role, error)
	FindByName(ctx context.Context, name string) (*entities.Role, error)
}

type RoleRepository struct {
	storage *pgxpool.Pool
}

func NewRoleRepository(storage *pgxpool.Pool) RoleRepositoryInterface {
	return &RoleRepository{storage: storage}
}

func scanRole(row pgx.Row) (*entities.Role, error) {
	var role entities.Role
	if err := row.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &role, nil
}

// GetRoles - все роли в порядке id.
func (r *RoleRepository) GetRoles(ctx context.Context) ([]entities.Role, error) {
	rows, err := r.storage.Query(ctx, "SELECT id, name, description, created_at FROM roles ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	roles := make([]entities.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, rows.Err()
}

func (r *RoleRepository) find(ctx context.Context, where sq.Eq) (*entities.Role, error) {
	query, args, err := psql.Select("id", "name", "description", "created_at").From("roles").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRole(r.storage.QueryRow(ctx, query, args...))
}

func (r *RoleRepository) FindByID(ctx context.Context, id uint64) (*entities.Role, error) {
	return r.find(ctx, sq.Eq{"id": id})
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*entities.Role, error) {
	return r.find(ctx, sq.Eq{"name": name})
}
