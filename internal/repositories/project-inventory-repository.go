package repositories

import (
	"context"
	"fmt"

	"erp-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var projectInventoryColumns = []string{
	"pi.id", "pi.project_id", "pi.inventory_id", "i.inventory_id", "i.name", "pi.required_quantity",
	"pi.allocated_quantity", "pi.shortage_quantity", "pi.unit_price", "pi.total_price", "pi.po_created", "pi.created_at",
}

type ProjectInventoryRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, item *entities.ProjectInventoryItem) (uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ProjectInventoryItem, error)
	FindByProject(ctx context.Context, projectID uint64) ([]entities.ProjectInventoryItem, error)
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	MarkPOCreated(ctx context.Context, tx pgx.Tx, id uint64) error
	SumByProject(ctx context.Context, projectID uint64) (decimal.Decimal, error)
}

type ProjectInventoryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewProjectInventoryRepository(storage *pgxpool.Pool, logger *zap.Logger) ProjectInventoryRepositoryInterface {
	return &ProjectInventoryRepository{storage: storage, logger: logger}
}

func scanProjectInventoryItem(row pgx.Row) (*entities.ProjectInventoryItem, error) {
	var it entities.ProjectInventoryItem
	err := row.Scan(&it.ID, &it.ProjectID, &it.InventoryID, &it.InventoryCode, &it.InventoryName, &it.RequiredQuantity,
		&it.AllocatedQuantity, &it.ShortageQuantity, &it.UnitPrice, &it.TotalPrice, &it.POCreated, &it.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &it, nil
}

func (r *ProjectInventoryRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(projectInventoryColumns...).
		From("project_inventory_items pi").
		Join("inventory i ON i.id = pi.inventory_id")
}

func (r *ProjectInventoryRepository) Create(ctx context.Context, tx pgx.Tx, it *entities.ProjectInventoryItem) (uint64, error) {
	query, args, err := psql.Insert("project_inventory_items").
		Columns("project_id", "inventory_id", "required_quantity", "allocated_quantity", "shortage_quantity", "unit_price", "total_price").
		Values(it.ProjectID, it.InventoryID, it.RequiredQuantity, it.AllocatedQuantity, it.ShortageQuantity, it.UnitPrice, it.TotalPrice).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, err
	}
	var id uint64
	if err := getQuerier(r.storage, tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapDBError(err)
	}
	return id, nil
}

func (r *ProjectInventoryRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ProjectInventoryItem, error) {
	builder := r.selectBuilder().Where(sq.Eq{"pi.id": id})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE OF pi")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanProjectInventoryItem(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *ProjectInventoryRepository) FindByProject(ctx context.Context, projectID uint64) ([]entities.ProjectInventoryItem, error) {
	query, args, err := r.selectBuilder().Where(sq.Eq{"pi.project_id": projectID}).OrderBy("pi.created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list project inventory: %w", err)
	}
	defer rows.Close()

	list := make([]entities.ProjectInventoryItem, 0)
	for rows.Next() {
		it, err := scanProjectInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *it)
	}
	return list, rows.Err()
}

func (r *ProjectInventoryRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return execAffectingOne(ctx, getQuerier(r.storage, tx), psql.Delete("project_inventory_items").Where(sq.Eq{"id": id}))
}

// MarkPOCreated срабатывает один раз: повторный вызов даст ErrNotFound.
func (r *ProjectInventoryRepository) MarkPOCreated(ctx context.Context, tx pgx.Tx, id uint64) error {
	return execAffectingOne(ctx, getQuerier(r.storage, tx), psql.Update("project_inventory_items").
		Set("po_created", true).
		Where(sq.Eq{"id": id, "po_created": false}))
}

// SumByProject - стоимость материалов проекта.
func (r *ProjectInventoryRepository) SumByProject(ctx context.Context, projectID uint64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.storage.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_price), 0) FROM project_inventory_items WHERE project_id = $1`, projectID).Scan(&total)
	return total, err
}
