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

var employeeRequestColumns = []string{
	"er.id", "er.name", "er.emp_id", "er.passport_id", "er.emirates_id", "er.phone", "er.joining_date", "er.salary",
	"er.comments", "er.document_path", "er.status", "er.requested_by", "rb.username", "er.request_date",
	"er.approved_by", "ab.username", "er.approval_date", "er.rejection_reason", "er.employee_id",
}

type EmployeeRequestRepositoryInterface interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.EmployeeRequest, error)
	FindPending(ctx context.Context) ([]entities.EmployeeRequest, error)
	FindByRequester(ctx context.Context, userID uint64) ([]entities.EmployeeRequest, error)
	FindApprovedByEmployeeID(ctx context.Context, employeeID uint64) (*entities.EmployeeRequest, error)
	// IdentityTaken ищет номера среди заявок PENDING и APPROVED.
	IdentityTaken(ctx context.Context, empID, passportID, emiratesID string) (bool, error)
	Create(ctx context.Context, tx pgx.Tx, req *entities.EmployeeRequest) (uint64, error)
	Decide(ctx context.Context, tx pgx.Tx, req *entities.EmployeeRequest) error
}

type EmployeeRequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmployeeRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) EmployeeRequestRepositoryInterface {
	return &EmployeeRequestRepository{storage: storage, logger: logger}
}

func scanEmployeeRequest(row pgx.Row) (*entities.EmployeeRequest, error) {
	var r entities.EmployeeRequest
	err := row.Scan(&r.ID, &r.Name, &r.EmpID, &r.PassportID, &r.EmiratesID, &r.Phone, &r.JoiningDate, &r.Salary,
		&r.Comments, &r.DocumentPath, &r.Status, &r.RequestedBy, &r.RequestedByName, &r.RequestDate,
		&r.ApprovedBy, &r.ApprovedByName, &r.ApprovalDate, &r.RejectionReason, &r.EmployeeID)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &r, nil
}

func (r *EmployeeRequestRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(employeeRequestColumns...).
		From("employee_requests er").
		Join("users rb ON rb.id = er.requested_by").
		LeftJoin("users ab ON ab.id = er.approved_by")
}

func (r *EmployeeRequestRepository) list(ctx context.Context, where sq.Sqlizer) ([]entities.EmployeeRequest, error) {
	query, args, err := r.selectBuilder().Where(where).OrderBy("er.request_date DESC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employee requests: %w", err)
	}
	defer rows.Close()

	list := make([]entities.EmployeeRequest, 0)
	for rows.Next() {
		req, err := scanEmployeeRequest(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *req)
	}
	return list, rows.Err()
}

func (r *EmployeeRequestRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.EmployeeRequest, error) {
	builder := r.selectBuilder().Where(sq.Eq{"er.id": id})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE OF er")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanEmployeeRequest(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *EmployeeRequestRepository) FindPending(ctx context.Context) ([]entities.EmployeeRequest, error) {
	return r.list(ctx, sq.Eq{"er.status": constants.StatusPending})
}

// FindByRequester - заявки одного пользователя.
func (r *EmployeeRequestRepository) FindByRequester(ctx context.Context, userID uint64) ([]entities.EmployeeRequest, error) {
	return r.list(ctx, sq.Eq{"er.requested_by": userID})
}

// FindApprovedByEmployeeID - последняя утверждённая заявка, из которой создан сотрудник.
func (r *EmployeeRequestRepository) FindApprovedByEmployeeID(ctx context.Context, employeeID uint64) (*entities.EmployeeRequest, error) {
	query, args, err := r.selectBuilder().
		Where(sq.Eq{"er.employee_id": employeeID, "er.status": constants.StatusApproved}).
		OrderBy("er.approval_date DESC").Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	return scanEmployeeRequest(r.storage.QueryRow(ctx, query, args...))
}

// IdentityTaken учитывает только PENDING и APPROVED заявки. Отклонённые не мешают подать заново.
func (r *EmployeeRequestRepository) IdentityTaken(ctx context.Context, empID, passportID, emiratesID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM employee_requests
			WHERE status IN ($1, $2) AND (emp_id = $3 OR passport_id = $4 OR emirates_id = $5)
		)`
	var exists bool
	err := r.storage.QueryRow(ctx, query, constants.StatusPending, constants.StatusApproved, empID, passportID, emiratesID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check request identity: %w", err)
	}
	return exists, nil
}

func (r *EmployeeRequestRepository) Create(ctx context.Context, tx pgx.Tx, req *entities.EmployeeRequest) (uint64, error) {
	query, args, err := psql.Insert("employee_requests").
		Columns("name", "emp_id", "passport_id", "emirates_id", "phone", "joining_date", "salary",
			"comments", "document_path", "status", "requested_by").
		Values(req.Name, req.EmpID, req.PassportID, req.EmiratesID, req.Phone, req.JoiningDate, req.Salary,
			req.Comments, req.DocumentPath, constants.StatusPending, req.RequestedBy).
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

// Decide сохраняет решение. Трогает только строки в PENDING.
func (r *EmployeeRequestRepository) Decide(ctx context.Context, tx pgx.Tx, req *entities.EmployeeRequest) error {
	return execAffectingOne(ctx, getQuerier(r.storage, tx), psql.Update("employee_requests").
		Set("status", req.Status).
		Set("approved_by", req.ApprovedBy).
		Set("approval_date", req.ApprovalDate).
		Set("rejection_reason", req.RejectionReason).
		Set("employee_id", req.EmployeeID).
		Where(sq.Eq{"id": req.ID, "status": constants.StatusPending}))
}
