package repositories

import (
	"context"
	"fmt"

	"erp-system/internal/entities"
	"erp-system/pkg/constants"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var inventoryRequestColumns = []string{
	"ir.id", "ir.request_type", "ir.target_inventory_id", "ir.name", "ir.production_date", "ir.expiry_date",
	"ir.quantity", "ir.per_quantity_price", "ir.bill_number", "ir.supplier_name", "ir.status",
	"ir.requested_by", "rb.username", "ir.request_date", "ir.approved_by", "ab.username",
	"ir.approval_date", "ir.rejection_reason",
}

type InventoryRequestRepositoryInterface interface {
	Create(ctx context.Context, req *entities.InventoryRequest) (*entities.InventoryRequest, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.InventoryRequest, error)
	FindPending(ctx context.Context) ([]entities.InventoryRequest, error)
	FindByRequester(ctx context.Context, userID uint64) ([]entities.InventoryRequest, error)
	Decide(ctx context.Context, tx pgx.Tx, req *entities.InventoryRequest) error
}

type InventoryRequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewInventoryRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) InventoryRequestRepositoryInterface {
	return &InventoryRequestRepository{storage: storage, logger: logger}
}

func scanInventoryRequest(row pgx.Row) (*entities.InventoryRequest, error) {
	var r entities.InventoryRequest
	err := row.Scan(&r.ID, &r.RequestType, &r.TargetInventoryID, &r.Name, &r.ProductionDate, &r.ExpiryDate,
		&r.Quantity, &r.PerQuantityPrice, &r.BillNumber, &r.SupplierName, &r.Status,
		&r.RequestedBy, &r.RequestedByName, &r.RequestDate, &r.ApprovedBy, &r.ApprovedByName,
		&r.ApprovalDate, &r.RejectionReason)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &r, nil
}

func (r *InventoryRequestRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(inventoryRequestColumns...).
		From("inventory_requests ir").
		Join("users rb ON rb.id = ir.requested_by").
		LeftJoin("users ab ON ab.id = ir.approved_by")
}

func (r *InventoryRequestRepository) Create(ctx context.Context, req *entities.InventoryRequest) (*entities.InventoryRequest, error) {
	query, args, err := psql.Insert("inventory_requests").
		Columns("request_type", "target_inventory_id", "name", "production_date", "expiry_date", "quantity",
			"per_quantity_price", "bill_number", "supplier_name", "status", "requested_by").
		Values(req.RequestType, req.TargetInventoryID, req.Name, req.ProductionDate, req.ExpiryDate, req.Quantity,
			req.PerQuantityPrice, req.BillNumber, req.SupplierName, constants.StatusPending, req.RequestedBy).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, err
	}
	var id uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return nil, mapDBError(err)
	}
	return r.FindByID(ctx, nil, id)
}

func (r *InventoryRequestRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.InventoryRequest, error) {
	builder := r.selectBuilder().Where(sq.Eq{"ir.id": id})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE OF ir")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanInventoryRequest(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *InventoryRequestRepository) list(ctx context.Context, where sq.Eq) ([]entities.InventoryRequest, error) {
	query, args, err := r.selectBuilder().Where(where).OrderBy("ir.request_date DESC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory requests: %w", err)
	}
	defer rows.Close()

	list := make([]entities.InventoryRequest, 0)
	for rows.Next() {
		req, err := scanInventoryRequest(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *req)
	}
	return list, rows.Err()
}

func (r *InventoryRequestRepository) FindPending(ctx context.Context) ([]entities.InventoryRequest, error) {
	return r.list(ctx, sq.Eq{"ir.status": constants.StatusPending})
}

func (r *InventoryRequestRepository) FindByRequester(ctx context.Context, userID uint64) ([]entities.InventoryRequest, error) {
	return r.list(ctx, sq.Eq{"ir.requested_by": userID})
}

// Decide обновляет только PENDING заявку, иначе ErrNotFound.
func (r *InventoryRequestRepository) Decide(ctx context.Context, tx pgx.Tx, req *entities.InventoryRequest) error {
	return execAffectingOne(ctx, getQuerier(r.storage, tx), psql.Update("inventory_requests").
		Set("status", req.Status).
		Set("approved_by", req.ApprovedBy).
		Set("approval_date", req.ApprovalDate).
		Set("rejection_reason", req.RejectionReason).
		Where(sq.Eq{"id": req.ID, "status": constants.StatusPending}))
}
