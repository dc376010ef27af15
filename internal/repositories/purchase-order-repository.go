package repositories

import (
	"context"
	"fmt"
	"time"

	"erp-system/internal/entities"
	"erp-system/pkg/constants"
	"erp-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var purchaseOrderColumns = []string{
	"po.id", "po.po_number", "po.project_id", "p.project_description", "po.supplier_name", "po.supplier_contact",
	"po.supplier_email", "po.supplier_address", "po.po_status", "po.total_amount", "po.created_date",
	"po.expected_delivery_date", "po.actual_delivery_date", "po.payment_terms", "po.notes",
	"po.created_by", "u.username", "po.is_approved",
}

var purchaseOrderListParams = listParams{
	Filters: map[string]string{"status": "po.po_status", "project_id": "po.project_id", "supplier_name": "po.supplier_name"},
	Sorts: map[string]string{
		"id": "po.id", "createdDate": "po.created_date", "created_date": "po.created_date",
		"totalAmount": "po.total_amount", "total_amount": "po.total_amount", "poNumber": "po.po_number",
		"supplierName": "po.supplier_name", "poStatus": "po.po_status",
	},
	Search:       []string{"po.po_number", "po.supplier_name", "p.project_description"},
	DefaultOrder: "po.id DESC",
}

var purchaseOrderRequestColumns = []string{
	"r.id", "r.purchase_order_id", "po.po_number", "r.request_status", "r.requested_by", "rb.username",
	"r.request_date", "r.approved_by", "ab.username", "r.approval_date", "r.rejection_reason", "r.notes",
}

type PurchaseOrderRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]entities.PurchaseOrder, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.PurchaseOrder, error)
	FindByProjects(ctx context.Context, projectIDs []uint64) ([]entities.PurchaseOrder, error)
	Create(ctx context.Context, tx pgx.Tx, po *entities.PurchaseOrder) (uint64, error)
	CreateItems(ctx context.Context, tx pgx.Tx, poID uint64, items []entities.PurchaseOrderItem) error
	GetItems(ctx context.Context, poID uint64) ([]entities.PurchaseOrderItem, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.POStatus, actualDelivery *time.Time, notes *string) error
	SetApproved(ctx context.Context, tx pgx.Tx, id uint64) error
	Delete(ctx context.Context, id uint64) error
	SumApprovedByProject(ctx context.Context, tx pgx.Tx, projectID uint64) (decimal.Decimal, error)

	CreateRequest(ctx context.Context, tx pgx.Tx, req *entities.PurchaseOrderRequest) (uint64, error)
	FindRequestByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.PurchaseOrderRequest, error)
	FindPendingRequests(ctx context.Context) ([]entities.PurchaseOrderRequest, error)
	DecideRequest(ctx context.Context, tx pgx.Tx, req *entities.PurchaseOrderRequest) error
}

type PurchaseOrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPurchaseOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) PurchaseOrderRepositoryInterface {
	return &PurchaseOrderRepository{storage: storage, logger: logger}
}

func scanPurchaseOrder(row pgx.Row) (*entities.PurchaseOrder, error) {
	var po entities.PurchaseOrder
	err := row.Scan(&po.ID, &po.PONumber, &po.ProjectID, &po.ProjectDescription, &po.SupplierName, &po.SupplierContact,
		&po.SupplierEmail, &po.SupplierAddress, &po.Status, &po.TotalAmount, &po.CreatedDate,
		&po.ExpectedDeliveryDate, &po.ActualDeliveryDate, &po.PaymentTerms, &po.Notes,
		&po.CreatedBy, &po.CreatedByName, &po.IsApproved)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &po, nil
}

func (r *PurchaseOrderRepository) baseSelect() sq.SelectBuilder {
	return psql.Select().
		From("purchase_orders po").
		Join("projects p ON p.id = po.project_id").
		Join("users u ON u.id = po.created_by")
}

func (r *PurchaseOrderRepository) queryOrders(ctx context.Context, builder sq.SelectBuilder) ([]entities.PurchaseOrder, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	list := make([]entities.PurchaseOrder, 0)
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *po)
	}
	return list, rows.Err()
}

// === READ ===

func (r *PurchaseOrderRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.PurchaseOrder, uint64, error) {
	base := purchaseOrderListParams.applyConditions(r.baseSelect(), filter)

	total, err := countRows(ctx, r.storage, base)
	if err != nil {
		return nil, 0, fmt.Errorf("count purchase orders: %w", err)
	}
	if total == 0 {
		return []entities.PurchaseOrder{}, 0, nil
	}

	list, err := r.queryOrders(ctx, applyPage(purchaseOrderListParams.applyOrder(base.Columns(purchaseOrderColumns...), filter), filter))
	return list, total, err
}

func (r *PurchaseOrderRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.PurchaseOrder, error) {
	builder := r.baseSelect().Columns(purchaseOrderColumns...).Where(sq.Eq{"po.id": id})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE OF po")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanPurchaseOrder(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *PurchaseOrderRepository) FindByProjects(ctx context.Context, projectIDs []uint64) ([]entities.PurchaseOrder, error) {
	if len(projectIDs) == 0 {
		return []entities.PurchaseOrder{}, nil
	}
	return r.queryOrders(ctx, r.baseSelect().Columns(purchaseOrderColumns...).
		Where(sq.Eq{"po.project_id": projectIDs}).OrderBy("po.created_date DESC"))
}

// === CREATE / UPDATE ===

func (r *PurchaseOrderRepository) Create(ctx context.Context, tx pgx.Tx, po *entities.PurchaseOrder) (uint64, error) {
	query, args, err := psql.Insert("purchase_orders").
		Columns("po_number", "project_id", "supplier_name", "supplier_contact", "supplier_email", "supplier_address",
			"po_status", "total_amount", "expected_delivery_date", "payment_terms", "notes", "created_by", "is_approved").
		Values(po.PONumber, po.ProjectID, po.SupplierName, po.SupplierContact, po.SupplierEmail, po.SupplierAddress,
			po.Status, po.TotalAmount, po.ExpectedDeliveryDate, po.PaymentTerms, po.Notes, po.CreatedBy, po.IsApproved).
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

// CreateItems пишет позиции заказа в той же транзакции, что и шапку.
func (r *PurchaseOrderRepository) CreateItems(ctx context.Context, tx pgx.Tx, poID uint64, items []entities.PurchaseOrderItem) error {
	if len(items) == 0 {
		return nil
	}
	builder := psql.Insert("purchase_order_items").
		Columns("purchase_order_id", "inventory_id", "description", "quantity_ordered", "unit_price", "total_price", "notes")
	for _, it := range items {
		builder = builder.Values(poID, it.InventoryID, it.Description, it.QuantityOrdered, it.UnitPrice, it.TotalPrice, it.Notes)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	if _, err := getQuerier(r.storage, tx).Exec(ctx, query, args...); err != nil {
		return mapDBError(err)
	}
	return nil
}

func (r *PurchaseOrderRepository) GetItems(ctx context.Context, poID uint64) ([]entities.PurchaseOrderItem, error) {
	query := `
		SELECT id, purchase_order_id, inventory_id, description, quantity_ordered, unit_price, total_price, quantity_received, notes
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY id`
	rows, err := r.storage.Query(ctx, query, poID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()

	items := make([]entities.PurchaseOrderItem, 0)
	for rows.Next() {
		var it entities.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.InventoryID, &it.Description, &it.QuantityOrdered,
			&it.UnitPrice, &it.TotalPrice, &it.QuantityReceived, &it.Notes); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatus меняет статус. Дата доставки и заметки пишутся, только если переданы.
func (r *PurchaseOrderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.POStatus, actualDelivery *time.Time, notes *string) error {
	builder := psql.Update("purchase_orders").Set("po_status", status).Where(sq.Eq{"id": id})
	if actualDelivery != nil {
		builder = builder.Set("actual_delivery_date", *actualDelivery)
	}
	if notes != nil {
		builder = builder.Set("notes", *notes)
	}
	return execAffectingOne(ctx, getQuerier(r.storage, tx), builder)
}

// SetApproved ставит флаг is_approved после утверждения заявки.
func (r *PurchaseOrderRepository) SetApproved(ctx context.Context, tx pgx.Tx, id uint64) error {
	return execAffectingOne(ctx, getQuerier(r.storage, tx), psql.Update("purchase_orders").
		Set("is_approved", true).Where(sq.Eq{"id": id}))
}

func (r *PurchaseOrderRepository) Delete(ctx context.Context, id uint64) error {
	return execAffectingOne(ctx, r.storage, psql.Delete("purchase_orders").Where(sq.Eq{"id": id}))
}

// SumApprovedByProject - сумма утверждённых заказов проекта, для проверки бюджета.
func (r *PurchaseOrderRepository) SumApprovedByProject(ctx context.Context, tx pgx.Tx, projectID uint64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := getQuerier(r.storage, tx).QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0) FROM purchase_orders WHERE project_id = $1 AND is_approved`,
		projectID).Scan(&total)
	return total, err
}

// ======================= ЗАЯВКИ НА УТВЕРЖДЕНИЕ =======================

func scanPurchaseOrderRequest(row pgx.Row) (*entities.PurchaseOrderRequest, error) {
	var req entities.PurchaseOrderRequest
	err := row.Scan(&req.ID, &req.PurchaseOrderID, &req.PONumber, &req.RequestStatus, &req.RequestedBy, &req.RequestedByName,
		&req.RequestDate, &req.ApprovedBy, &req.ApprovedByName, &req.ApprovalDate, &req.RejectionReason, &req.Notes)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &req, nil
}

func (r *PurchaseOrderRepository) requestSelect() sq.SelectBuilder {
	return psql.Select(purchaseOrderRequestColumns...).
		From("purchase_order_requests r").
		Join("purchase_orders po ON po.id = r.purchase_order_id").
		Join("users rb ON rb.id = r.requested_by").
		LeftJoin("users ab ON ab.id = r.approved_by")
}

func (r *PurchaseOrderRepository) CreateRequest(ctx context.Context, tx pgx.Tx, req *entities.PurchaseOrderRequest) (uint64, error) {
	query, args, err := psql.Insert("purchase_order_requests").
		Columns("purchase_order_id", "request_status", "requested_by", "approved_by", "approval_date", "notes").
		Values(req.PurchaseOrderID, req.RequestStatus, req.RequestedBy, req.ApprovedBy, req.ApprovalDate, req.Notes).
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

func (r *PurchaseOrderRepository) FindRequestByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.PurchaseOrderRequest, error) {
	builder := r.requestSelect().Where(sq.Eq{"r.id": id})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE OF r")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanPurchaseOrderRequest(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *PurchaseOrderRepository) FindPendingRequests(ctx context.Context) ([]entities.PurchaseOrderRequest, error) {
	query, args, err := r.requestSelect().Where(sq.Eq{"r.request_status": constants.StatusPending}).OrderBy("r.request_date DESC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase order requests: %w", err)
	}
	defer rows.Close()

	list := make([]entities.PurchaseOrderRequest, 0)
	for rows.Next() {
		req, err := scanPurchaseOrderRequest(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *req)
	}
	return list, rows.Err()
}

// DecideRequest записывает решение по заявке на заказ.
func (r *PurchaseOrderRepository) DecideRequest(ctx context.Context, tx pgx.Tx, req *entities.PurchaseOrderRequest) error {
	return execAffectingOne(ctx, getQuerier(r.storage, tx), psql.Update("purchase_order_requests").
		Set("request_status", req.RequestStatus).
		Set("approved_by", req.ApprovedBy).
		Set("approval_date", req.ApprovalDate).
		Set("rejection_reason", req.RejectionReason).
		Where(sq.Eq{"id": req.ID, "request_status": constants.StatusPending}))
}
