package repositories

import (
	"context"
	"fmt"

	"erp-system/internal/entities"
	"erp-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var userColumns = []string{"u.id", "u.username", "u.password", "u.role_id", "r.name", "u.created_at", "u.updated_at"}

var userListParams = listParams{
	Filters:      map[string]string{"role_id": "u.role_id", "role": "r.name"},
	Sorts:        map[string]string{"id": "u.id", "username": "u.username", "created_at": "u.created_at"},
	Search:       []string{"u.username"},
	DefaultOrder: "u.id DESC",
}

type UserRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	FindIDsByRoleName(ctx context.Context, tx pgx.Tx, roleName string) ([]uint64, error)
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id uint64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(&user.ID, &user.Username, &user.Password, &user.RoleID, &user.RoleName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &user, nil
}

func (r *UserRepository) baseSelect() sq.SelectBuilder {
	return psql.Select().From("users u").Join("roles r ON r.id = u.role_id")
}

func (r *UserRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	base := userListParams.applyConditions(r.baseSelect(), filter)

	total, err := countRows(ctx, r.storage, base)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	query, args, err := applyPage(userListParams.applyOrder(base.Columns(userColumns...), filter), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.logger.Debug("list users", zap.String("query", query), zap.Any("args", args))

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) findOne(ctx context.Context, where sq.Eq) (*entities.User, error) {
	query, args, err := r.baseSelect().Columns(userColumns...).Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(r.storage.QueryRow(ctx, query, args...))
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"u.id": id})
}

// FindByUsername ищет пользователя по логину.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"u.username": username})
}

// FindIDsByRoleName - ID получателей уведомлений для роли.
func (r *UserRepository) FindIDsByRoleName(ctx context.Context, tx pgx.Tx, roleName string) ([]uint64, error) {
	query, args, err := r.baseSelect().Columns("u.id").Where(sq.Eq{"r.name": roleName}).OrderBy("u.id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := getQuerier(r.storage, tx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find users by role: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[uint64])
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	query, args, err := psql.Insert("users").
		Columns("username", "password", "role_id").
		Values(user.Username, user.Password, user.RoleID).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, err
	}
	var id uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return nil, mapDBError(err)
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	return execAffectingOne(ctx, r.storage, psql.Update("users").
		Set("username", user.Username).
		Set("password", user.Password).
		Set("role_id", user.RoleID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": user.ID}))
}

func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	return execAffectingOne(ctx, r.storage, psql.Delete("users").Where(sq.Eq{"id": id}))
}
