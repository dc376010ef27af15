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

var employeeColumns = []string{
	"id", "name", "emp_id", "passport_id", "emirates_id", "phone", "joining_date", "end_date",
	"salary", "comments", "document_path", "created_at", "updated_at",
}

var employeeListParams = listParams{
	Filters:      map[string]string{"emp_id": "emp_id", "joining_date": "joining_date"},
	Sorts:        map[string]string{"id": "id", "name": "name", "emp_id": "emp_id", "joining_date": "joining_date", "salary": "salary"},
	Search:       []string{"name", "emp_id", "passport_id", "emirates_id", "phone"},
	DefaultOrder: "id DESC",
}

type EmployeeRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error)
	FindByEmpID(ctx context.Context, empID string) (*entities.Employee, error)
	// IdentityTaken: какой-то из номеров уже занят сотрудником.
	IdentityTaken(ctx context.Context, tx pgx.Tx, empID, passportID, emiratesID string) (bool, error)
	Create(ctx context.Context, tx pgx.Tx, employee *entities.Employee) (*entities.Employee, error)
	Update(ctx context.Context, employee *entities.Employee) error
	DeleteByEmpID(ctx context.Context, empID string) error
}

type EmployeeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmployeeRepository(storage *pgxpool.Pool, logger *zap.Logger) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: storage, logger: logger}
}

func scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var e entities.Employee
	err := row.Scan(&e.ID, &e.Name, &e.EmpID, &e.PassportID, &e.EmiratesID, &e.Phone, &e.JoiningDate, &e.EndDate,
		&e.Salary, &e.Comments, &e.DocumentPath, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &e, nil
}

func (r *EmployeeRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	base := employeeListParams.applyConditions(psql.Select().From("employees"), filter)

	total, err := countRows(ctx, r.storage, base)
	if err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}
	if total == 0 {
		return []entities.Employee{}, 0, nil
	}

	query, args, err := applyPage(employeeListParams.applyOrder(base.Columns(employeeColumns...), filter), filter).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *e)
	}
	return list, total, rows.Err()
}

func (r *EmployeeRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error) {
	query, args, err := psql.Select(employeeColumns...).From("employees").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanEmployee(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

// FindByEmpID ищет сотрудника по табельному номеру.
func (r *EmployeeRepository) FindByEmpID(ctx context.Context, empID string) (*entities.Employee, error) {
	query, args, err := psql.Select(employeeColumns...).From("employees").Where(sq.Eq{"emp_id": empID}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanEmployee(r.storage.QueryRow(ctx, query, args...))
}

// IdentityTaken: занят ли табельный номер, паспорт или Emirates ID.
func (r *EmployeeRepository) IdentityTaken(ctx context.Context, tx pgx.Tx, empID, passportID, emiratesID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM employees WHERE emp_id = $1 OR passport_id = $2 OR emirates_id = $3)`
	var exists bool
	if err := getQuerier(r.storage, tx).QueryRow(ctx, query, empID, passportID, emiratesID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check employee identity: %w", err)
	}
	return exists, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, tx pgx.Tx, e *entities.Employee) (*entities.Employee, error) {
	query, args, err := psql.Insert("employees").
		Columns("name", "emp_id", "passport_id", "emirates_id", "phone", "joining_date", "end_date", "salary", "comments", "document_path").
		Values(e.Name, e.EmpID, e.PassportID, e.EmiratesID, e.Phone, e.JoiningDate, e.EndDate, e.Salary, e.Comments, e.DocumentPath).
		Suffix("RETURNING " + joinColumns(employeeColumns)).ToSql()
	if err != nil {
		return nil, err
	}
	return scanEmployee(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *EmployeeRepository) Update(ctx context.Context, e *entities.Employee) error {
	return execAffectingOne(ctx, r.storage, psql.Update("employees").
		Set("name", e.Name).
		Set("phone", e.Phone).
		Set("salary", e.Salary).
		Set("end_date", e.EndDate).
		Set("comments", e.Comments).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": e.ID}))
}

func (r *EmployeeRepository) DeleteByEmpID(ctx context.Context, empID string) error {
	return execAffectingOne(ctx, r.storage, psql.Delete("employees").Where(sq.Eq{"emp_id": empID}))
}
