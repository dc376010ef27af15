package repositories

import (
	"context"
	"fmt"

	"erp-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var mrfColumns = []string{
	"m.id", "m.mrf_number", "m.requestor_name", "m.requestor_department", "m.requestor_employee_id",
	"m.reason_justification", "m.total_amount", "m.creation_date", "m.approval_date", "m.status",
	"m.requested_by", "rb.username", "m.approved_by", "ab.username", "m.rejection_reason", "m.requires_superadmin",
}

// MRFQuery сужает выборку. Нулевые значения - "любой".
type MRFQuery struct {
	Status             string
	RequestedBy        uint64
	RequiresSuperadmin *bool
}

type MRFRepositoryInterface interface {
	List(ctx context.Context, q MRFQuery) ([]entities.MaterialRequestForm, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaterialRequestForm, error)
	FindByNumber(ctx context.Context, number string) (*entities.MaterialRequestForm, error)
	NextNumber(ctx context.Context, tx pgx.Tx) (string, error)
	Create(ctx context.Context, tx pgx.Tx, mrf *entities.MaterialRequestForm) (uint64, error)
	UpdateHeader(ctx context.Context, tx pgx.Tx, mrf *entities.MaterialRequestForm) error
	ReplaceItems(ctx context.Context, tx pgx.Tx, mrfID uint64, items []entities.MRFItem) error
	Decide(ctx context.Context, tx pgx.Tx, mrf *entities.MaterialRequestForm) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type MRFRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMRFRepository(storage *pgxpool.Pool, logger *zap.Logger) MRFRepositoryInterface {
	return &MRFRepository{storage: storage, logger: logger}
}

func scanMRF(row pgx.Row) (*entities.MaterialRequestForm, error) {
	var m entities.MaterialRequestForm
	err := row.Scan(&m.ID, &m.MRFNumber, &m.RequestorName, &m.RequestorDepartment, &m.RequestorEmployeeID,
		&m.ReasonJustification, &m.TotalAmount, &m.CreationDate, &m.ApprovalDate, &m.Status,
		&m.RequestedBy, &m.RequestedByName, &m.ApprovedBy, &m.ApprovedByName, &m.RejectionReason, &m.RequiresSuperadmin)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &m, nil
}

func (r *MRFRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(mrfColumns...).
		From("material_request_forms m").
		Join("users rb ON rb.id = m.requested_by").
		LeftJoin("users ab ON ab.id = m.approved_by")
}

func (r *MRFRepository) List(ctx context.Context, q MRFQuery) ([]entities.MaterialRequestForm, error) {
	builder := r.selectBuilder()
	if q.Status != "" {
		builder = builder.Where(sq.Eq{"m.status": q.Status})
	}
	if q.RequestedBy != 0 {
		builder = builder.Where(sq.Eq{"m.requested_by": q.RequestedBy})
	}
	if q.RequiresSuperadmin != nil {
		builder = builder.Where(sq.Eq{"m.requires_superadmin": *q.RequiresSuperadmin})
	}

	query, args, err := builder.OrderBy("m.creation_date DESC", "m.id DESC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mrfs: %w", err)
	}
	defer rows.Close()

	list := make([]entities.MaterialRequestForm, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		m, err := scanMRF(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.itemsFor(ctx, r.storage, ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Items = items[list[i].ID]
		if list[i].Items == nil {
			list[i].Items = []entities.MRFItem{}
		}
	}
	return list, nil
}

// itemsFor подгружает позиции сразу для всех id одним запросом.
func (r *MRFRepository) itemsFor(ctx context.Context, q querier, ids []uint64) (map[uint64][]entities.MRFItem, error) {
	result := make(map[uint64][]entities.MRFItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query, args, err := psql.Select("id", "mrf_id", "item_description", "quantity", "specifications", "unit_price", "amount").
		From("mrf_items").Where(sq.Eq{"mrf_id": ids}).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load mrf items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it entities.MRFItem
		if err := rows.Scan(&it.ID, &it.MRFID, &it.ItemDescription, &it.Quantity, &it.Specifications, &it.UnitPrice, &it.Amount); err != nil {
			return nil, err
		}
		result[it.MRFID] = append(result[it.MRFID], it)
	}
	return result, rows.Err()
}

func (r *MRFRepository) findOne(ctx context.Context, tx pgx.Tx, where sq.Eq) (*entities.MaterialRequestForm, error) {
	builder := r.selectBuilder().Where(where)
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE OF m")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	q := getQuerier(r.storage, tx)
	m, err := scanMRF(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	items, err := r.itemsFor(ctx, q, []uint64{m.ID})
	if err != nil {
		return nil, err
	}
	m.Items = items[m.ID]
	if m.Items == nil {
		m.Items = []entities.MRFItem{}
	}
	return m, nil
}

func (r *MRFRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaterialRequestForm, error) {
	return r.findOne(ctx, tx, sq.Eq{"m.id": id})
}

func (r *MRFRepository) FindByNumber(ctx context.Context, number string) (*entities.MaterialRequestForm, error) {
	return r.findOne(ctx, nil, sq.Eq{"m.mrf_number": number})
}

// NextNumber выдаёт номера под advisory lock на время транзакции.
func (r *MRFRepository) NextNumber(ctx context.Context, tx pgx.Tx) (string, error) {
	q := getQuerier(r.storage, tx)
	if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext('material_request_forms'))"); err != nil {
		return "", fmt.Errorf("lock mrf numbering: %w", err)
	}
	var next uint64
	if err := q.QueryRow(ctx, "SELECT COALESCE(MAX(id), 0) + 1 FROM material_request_forms").Scan(&next); err != nil {
		return "", fmt.Errorf("next mrf number: %w", err)
	}
	return fmt.Sprintf("MRF%04d", next), nil
}

func (r *MRFRepository) Create(ctx context.Context, tx pgx.Tx, m *entities.MaterialRequestForm) (uint64, error) {
	query, args, err := psql.Insert("material_request_forms").
		Columns("mrf_number", "requestor_name", "requestor_department", "requestor_employee_id",
			"reason_justification", "total_amount", "status", "requested_by", "requires_superadmin").
		Values(m.MRFNumber, m.RequestorName, m.RequestorDepartment, m.RequestorEmployeeID,
			m.ReasonJustification, m.TotalAmount, m.Status, m.RequestedBy, m.RequiresSuperadmin).
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

// UpdateHeader обновляет шапку MRF. Позиции меняет ReplaceItems.
func (r *MRFRepository) UpdateHeader(ctx context.Context, tx pgx.Tx, m *entities.MaterialRequestForm) error {
	return execAffectingOne(ctx, getQuerier(r.storage, tx), psql.Update("material_request_forms").
		Set("requestor_name", m.RequestorName).
		Set("requestor_department", m.RequestorDepartment).
		Set("requestor_employee_id", m.RequestorEmployeeID).
		Set("reason_justification", m.ReasonJustification).
		Set("total_amount", m.TotalAmount).
		Set("requires_superadmin", m.RequiresSuperadmin).
		Where(sq.Eq{"id": m.ID}))
}

// ReplaceItems удаляет старые позиции и пишет новые.
func (r *MRFRepository) ReplaceItems(ctx context.Context, tx pgx.Tx, mrfID uint64, items []entities.MRFItem) error {
	q := getQuerier(r.storage, tx)
	if _, err := q.Exec(ctx, "DELETE FROM mrf_items WHERE mrf_id = $1", mrfID); err != nil {
		return fmt.Errorf("clear mrf items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	builder := psql.Insert("mrf_items").Columns("mrf_id", "item_description", "quantity", "specifications", "unit_price", "amount")
	for _, it := range items {
		builder = builder.Values(mrfID, it.ItemDescription, it.Quantity, it.Specifications, it.UnitPrice, it.Amount)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return mapDBError(err)
	}
	return nil
}

// Decide записывает решение по MRF: статус, кто и когда, причина отказа.
func (r *MRFRepository) Decide(ctx context.Context, tx pgx.Tx, m *entities.MaterialRequestForm) error {
	return execAffectingOne(ctx, getQuerier(r.storage, tx), psql.Update("material_request_forms").
		Set("status", m.Status).
		Set("approved_by", m.ApprovedBy).
		Set("approval_date", m.ApprovalDate).
		Set("rejection_reason", m.RejectionReason).
		Where(sq.Eq{"id": m.ID}))
}

func (r *MRFRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	return execAffectingOne(ctx, getQuerier(r.storage, tx), psql.Delete("material_request_forms").Where(sq.Eq{"id": id}))
}
