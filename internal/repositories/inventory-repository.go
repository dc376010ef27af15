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

var inventoryColumns = []string{
	"id", "inventory_id", "name", "production_date", "expiry_date", "quantity",
	"per_quantity_price", "total_price", "bill_number", "supplier_name", "created_date",
}

var inventoryListParams = listParams{
	Filters:      map[string]string{"supplier_name": "supplier_name", "inventory_id": "inventory_id"},
	Sorts:        map[string]string{"id": "id", "name": "name", "quantity": "quantity", "expiry_date": "expiry_date", "created_date": "created_date"},
	Search:       []string{"name", "inventory_id", "supplier_name", "bill_number"},
	DefaultOrder: "id DESC",
}

type InventoryRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Inventory, uint64, error)
	// FindByID внутри транзакции берёт блокировку строки.
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Inventory, error)
	FindByCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Inventory, error)
	NextCode(ctx context.Context, tx pgx.Tx) (string, error)
	Create(ctx context.Context, tx pgx.Tx, item *entities.Inventory) (*entities.Inventory, error)
	Update(ctx context.Context, tx pgx.Tx, item *entities.Inventory) error
	DeleteByCode(ctx context.Context, tx pgx.Tx, code string) error
	// AdjustQuantity добавляет delta к остатку и пересчитывает total_price.
	AdjustQuantity(ctx context.Context, tx pgx.Tx, id uint64, delta int) error
}

type InventoryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewInventoryRepository(storage *pgxpool.Pool, logger *zap.Logger) InventoryRepositoryInterface {
	return &InventoryRepository{storage: storage, logger: logger}
}

func scanInventory(row pgx.Row) (*entities.Inventory, error) {
	var i entities.Inventory
	err := row.Scan(&i.ID, &i.InventoryID, &i.Name, &i.ProductionDate, &i.ExpiryDate, &i.Quantity,
		&i.PerQuantityPrice, &i.TotalPrice, &i.BillNumber, &i.SupplierName, &i.CreatedDate)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &i, nil
}

func (r *InventoryRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Inventory, uint64, error) {
	base := inventoryListParams.applyConditions(psql.Select().From("inventory"), filter)

	total, err := countRows(ctx, r.storage, base)
	if err != nil {
		return nil, 0, fmt.Errorf("count inventory: %w", err)
	}
	if total == 0 {
		return []entities.Inventory{}, 0, nil
	}

	query, args, err := applyPage(inventoryListParams.applyOrder(base.Columns(inventoryColumns...), filter), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Inventory, 0)
	for rows.Next() {
		item, err := scanInventory(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *item)
	}
	return list, total, rows.Err()
}

func (r *InventoryRepository) findOne(ctx context.Context, tx pgx.Tx, where sq.Eq) (*entities.Inventory, error) {
	builder := psql.Select(inventoryColumns...).From("inventory").Where(where)
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanInventory(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *InventoryRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Inventory, error) {
	return r.findOne(ctx, tx, sq.Eq{"id": id})
}

// FindByCode ищет позицию по коду склада, а не по id.
func (r *InventoryRepository) FindByCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Inventory, error) {
	return r.findOne(ctx, tx, sq.Eq{"inventory_id": code})
}

// NextCode выдаёт следующий код вида INV0001 по MAX(id).
// Вызывать в той же транзакции, что и Create.
func (r *InventoryRepository) NextCode(ctx context.Context, tx pgx.Tx) (string, error) {
	var next uint64
	if err := getQuerier(r.storage, tx).QueryRow(ctx, "SELECT COALESCE(MAX(id), 0) + 1 FROM inventory").Scan(&next); err != nil {
		return "", fmt.Errorf("next inventory code: %w", err)
	}
	return fmt.Sprintf("INV%04d", next), nil
}

func (r *InventoryRepository) Create(ctx context.Context, tx pgx.Tx, item *entities.Inventory) (*entities.Inventory, error) {
	item.RecalculateTotal()
	query, args, err := psql.Insert("inventory").
		Columns("inventory_id", "name", "production_date", "expiry_date", "quantity",
			"per_quantity_price", "total_price", "bill_number", "supplier_name").
		Values(item.InventoryID, item.Name, item.ProductionDate, item.ExpiryDate, item.Quantity,
			item.PerQuantityPrice, item.TotalPrice, item.BillNumber, item.SupplierName).
		Suffix("RETURNING " + joinColumns(inventoryColumns)).ToSql()
	if err != nil {
		return nil, err
	}
	return scanInventory(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *InventoryRepository) Update(ctx context.Context, tx pgx.Tx, item *entities.Inventory) error {
	item.RecalculateTotal()
	return execAffectingOne(ctx, getQuerier(r.storage, tx), psql.Update("inventory").
		Set("name", item.Name).
		Set("production_date", item.ProductionDate).
		Set("expiry_date", item.ExpiryDate).
		Set("quantity", item.Quantity).
		Set("per_quantity_price", item.PerQuantityPrice).
		Set("total_price", item.TotalPrice).
		Set("bill_number", item.BillNumber).
		Set("supplier_name", item.SupplierName).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": item.ID}))
}

// DeleteByCode удаляет позицию по коду склада.
func (r *InventoryRepository) DeleteByCode(ctx context.Context, tx pgx.Tx, code string) error {
	return execAffectingOne(ctx, getQuerier(r.storage, tx), psql.Delete("inventory").Where(sq.Eq{"inventory_id": code}))
}

// AdjustQuantity сдвигает остаток на delta и пересчитывает total_price в SQL.
func (r *InventoryRepository) AdjustQuantity(ctx context.Context, tx pgx.Tx, id uint64, delta int) error {
	return execAffectingOne(ctx, getQuerier(r.storage, tx), psql.Update("inventory").
		Set("quantity", sq.Expr("quantity + ?", delta)).
		Set("total_price", sq.Expr("ROUND((quantity + ?) * per_quantity_price, 2)", delta)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}))
}
