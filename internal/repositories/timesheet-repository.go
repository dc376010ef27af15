package repositories

import (
	"context"
	"fmt"
	"time"

	"erp-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var timesheetColumns = []string{
	"t.id", "t.project_id", "t.employee_id", "e.name", "e.emp_id", "t.work_date", "t.hours_worked",
	"t.daily_rate", "t.hourly_rate", "t.total_amount", "t.comments", "t.created_at", "t.updated_at",
}

// EmployeeTimesheetTotals - итоги табеля одного сотрудника по проекту.
type EmployeeTimesheetTotals struct {
	EmployeeID  uint64
	Name        string
	EmpID       string
	TotalHours  decimal.Decimal
	TotalAmount decimal.Decimal
}

type TimesheetRepositoryInterface interface {
	// Upsert пишет запись (проект, сотрудник, дата), заменяя предыдущую.
	Upsert(ctx context.Context, ts *entities.Timesheet) (*entities.Timesheet, error)
	FindByProject(ctx context.Context, projectID uint64, from, to *time.Time) ([]entities.Timesheet, error)
	SumByProject(ctx context.Context, projectID uint64) (decimal.Decimal, error)
	TotalsByEmployee(ctx context.Context, projectID uint64) ([]EmployeeTimesheetTotals, error)
	StatsForDate(ctx context.Context, projectID uint64, day time.Time) (int64, decimal.Decimal, error)
}

type TimesheetRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTimesheetRepository(storage *pgxpool.Pool, logger *zap.Logger) TimesheetRepositoryInterface {
	return &TimesheetRepository{storage: storage, logger: logger}
}

func scanTimesheet(row pgx.Row) (*entities.Timesheet, error) {
	var t entities.Timesheet
	err := row.Scan(&t.ID, &t.ProjectID, &t.EmployeeID, &t.EmployeeName, &t.EmpID, &t.WorkDate, &t.HoursWorked,
		&t.DailyRate, &t.HourlyRate, &t.TotalAmount, &t.Comments, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &t, nil
}

// Upsert: один табель на сотрудника в день, повторное сохранение перезаписывает его.
func (r *TimesheetRepository) Upsert(ctx context.Context, ts *entities.Timesheet) (*entities.Timesheet, error) {
	query := `
		INSERT INTO timesheets (project_id, employee_id, work_date, hours_worked, daily_rate, hourly_rate, total_amount, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (project_id, employee_id, work_date) DO UPDATE SET
			hours_worked = EXCLUDED.hours_worked,
			daily_rate = EXCLUDED.daily_rate,
			hourly_rate = EXCLUDED.hourly_rate,
			total_amount = EXCLUDED.total_amount,
			comments = EXCLUDED.comments,
			updated_at = NOW()
		RETURNING id`
	var id uint64
	err := r.storage.QueryRow(ctx, query, ts.ProjectID, ts.EmployeeID, ts.WorkDate, ts.HoursWorked,
		ts.DailyRate, ts.HourlyRate, ts.TotalAmount, ts.Comments).Scan(&id)
	if err != nil {
		return nil, mapDBError(err)
	}

	sqlQuery, args, err := r.selectBuilder().Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanTimesheet(r.storage.QueryRow(ctx, sqlQuery, args...))
}

func (r *TimesheetRepository) selectBuilder() sq.SelectBuilder {
	return psql.Select(timesheetColumns...).From("timesheets t").Join("employees e ON e.id = t.employee_id")
}

func (r *TimesheetRepository) FindByProject(ctx context.Context, projectID uint64, from, to *time.Time) ([]entities.Timesheet, error) {
	builder := r.selectBuilder().Where(sq.Eq{"t.project_id": projectID})
	if from != nil {
		builder = builder.Where(sq.GtOrEq{"t.work_date": *from})
	}
	if to != nil {
		builder = builder.Where(sq.LtOrEq{"t.work_date": *to})
	}
	query, args, err := builder.OrderBy("t.work_date DESC", "e.name").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list timesheets: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Timesheet, 0)
	for rows.Next() {
		t, err := scanTimesheet(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

func (r *TimesheetRepository) SumByProject(ctx context.Context, projectID uint64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.storage.QueryRow(ctx, `SELECT COALESCE(SUM(total_amount), 0) FROM timesheets WHERE project_id = $1`, projectID).Scan(&total)
	return total, err
}

// TotalsByEmployee группирует расходы проекта по сотрудникам.
func (r *TimesheetRepository) TotalsByEmployee(ctx context.Context, projectID uint64) ([]EmployeeTimesheetTotals, error) {
	query := `
		SELECT e.id, e.name, e.emp_id, COALESCE(SUM(t.hours_worked), 0), COALESCE(SUM(t.total_amount), 0)
		FROM timesheets t
		JOIN employees e ON e.id = t.employee_id
		WHERE t.project_id = $1
		GROUP BY e.id, e.name, e.emp_id
		ORDER BY e.name`
	rows, err := r.storage.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("timesheet totals: %w", err)
	}
	defer rows.Close()

	list := make([]EmployeeTimesheetTotals, 0)
	for rows.Next() {
		var t EmployeeTimesheetTotals
		if err := rows.Scan(&t.EmployeeID, &t.Name, &t.EmpID, &t.TotalHours, &t.TotalAmount); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// StatsForDate - число сотрудников и сумма часов за день.
func (r *TimesheetRepository) StatsForDate(ctx context.Context, projectID uint64, day time.Time) (int64, decimal.Decimal, error) {
	var employees int64
	var hours decimal.Decimal
	err := r.storage.QueryRow(ctx,
		`SELECT COUNT(DISTINCT employee_id), COALESCE(SUM(hours_worked), 0) FROM timesheets WHERE project_id = $1 AND work_date = $2`,
		projectID, day).Scan(&employees, &hours)
	return employees, hours, err
}
