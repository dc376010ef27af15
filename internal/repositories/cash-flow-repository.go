package repositories

import (
	"context"
	"fmt"

	"erp-system/internal/entities"
	"erp-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var cashFlowColumns = []string{"id", "project_id", "type", "amount", "transaction_date", "description", "created_by", "created_at"}

var cashFlowListParams = listParams{
	Filters:      map[string]string{"project_id": "project_id", "type": "type"},
	Sorts:        map[string]string{"id": "id", "transaction_date": "transaction_date", "amount": "amount"},
	Search:       []string{"description"},
	DefaultOrder: "transaction_date DESC, id DESC",
}

type CashFlowRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]entities.CashFlow, uint64, error)
	Create(ctx context.Context, entry *entities.CashFlow) (*entities.CashFlow, error)
}

type CashFlowRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCashFlowRepository(storage *pgxpool.Pool, logger *zap.Logger) CashFlowRepositoryInterface {
	return &CashFlowRepository{storage: storage, logger: logger}
}

func scanCashFlow(row pgx.Row) (*entities.CashFlow, error) {
	var c entities.CashFlow
	if err := row.Scan(&c.ID, &c.ProjectID, &c.Type, &c.Amount, &c.TransactionDate, &c.Description, &c.CreatedBy, &c.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &c, nil
}

func (r *CashFlowRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.CashFlow, uint64, error) {
	base := cashFlowListParams.applyConditions(psql.Select().From("cash_flows"), filter)

	total, err := countRows(ctx, r.storage, base)
	if err != nil {
		return nil, 0, fmt.Errorf("count cash flows: %w", err)
	}
	if total == 0 {
		return []entities.CashFlow{}, 0, nil
	}

	query, args, err := applyPage(cashFlowListParams.applyOrder(base.Columns(cashFlowColumns...), filter), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cash flows: %w", err)
	}
	defer rows.Close()

	list := make([]entities.CashFlow, 0)
	for rows.Next() {
		c, err := scanCashFlow(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *c)
	}
	return list, total, rows.Err()
}

func (r *CashFlowRepository) Create(ctx context.Context, c *entities.CashFlow) (*entities.CashFlow, error) {
	query, args, err := psql.Insert("cash_flows").
		Columns("project_id", "type", "amount", "transaction_date", "description", "created_by").
		Values(c.ProjectID, c.Type, c.Amount, c.TransactionDate, c.Description, c.CreatedBy).
		Suffix("RETURNING " + joinColumns(cashFlowColumns)).ToSql()
	if err != nil {
		return nil, err
	}
	return scanCashFlow(r.storage.QueryRow(ctx, query, args...))
}
