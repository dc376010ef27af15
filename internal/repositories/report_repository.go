package repositories

import (
	"context"
	"fmt"
	"time"

	"erp-system/internal/entities"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ProjectCashFlow - движение денег с описанием проекта.
type ProjectCashFlow struct {
	entities.CashFlow
	ProjectDescription string
}

// ProjectTimesheet - запись табеля с описанием проекта.
type ProjectTimesheet struct {
	entities.Timesheet
	ProjectDescription string
}

// ProjectTotals - сырые суммы по проекту за отчётный период.
type ProjectTotals struct {
	ProjectID          uint64
	ProjectDescription string
	ProjectBudget      decimal.Decimal
	CashInflow         decimal.Decimal
	CashOutflow        decimal.Decimal
	InventoryItems     int64
	InventoryValue     decimal.Decimal
	POCount            int64
	POValue            decimal.Decimal
	LaborCost          decimal.Decimal
	LaborHours         decimal.Decimal
}

type ReportRepositoryInterface interface {
	CashFlowsBetween(ctx context.Context, from, to time.Time) ([]ProjectCashFlow, error)
	TimesheetsBetween(ctx context.Context, from, to time.Time) ([]ProjectTimesheet, error)
	ProjectTotalsBetween(ctx context.Context, from, to time.Time) ([]ProjectTotals, error)
}

type reportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) ReportRepositoryInterface {
	return &reportRepository{db: db}
}

// CashFlowsBetween - движения денег за период, границы включительно.
func (r *reportRepository) CashFlowsBetween(ctx context.Context, from, to time.Time) ([]ProjectCashFlow, error) {
	query, args, err := psql.Select(
		"c.id", "c.project_id", "c.type", "c.amount", "c.transaction_date", "c.description", "c.created_by", "c.created_at",
		"p.project_description",
	).
		From("cash_flows c").
		Join("projects p ON p.id = c.project_id").
		Where("c.transaction_date BETWEEN ? AND ?", from, to).
		OrderBy("c.project_id", "c.transaction_date", "c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build cash flow report query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("cash flow report query: %w", err)
	}
	defer rows.Close()

	list := make([]ProjectCashFlow, 0)
	for rows.Next() {
		var line ProjectCashFlow
		c := &line.CashFlow
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Type, &c.Amount, &c.TransactionDate, &c.Description,
			&c.CreatedBy, &c.CreatedAt, &line.ProjectDescription); err != nil {
			return nil, fmt.Errorf("scan cash flow row: %w", err)
		}
		list = append(list, line)
	}
	return list, rows.Err()
}

// TimesheetsBetween - табели за период с именами сотрудников и проектов.
func (r *reportRepository) TimesheetsBetween(ctx context.Context, from, to time.Time) ([]ProjectTimesheet, error) {
	query, args, err := psql.Select(
		"t.id", "t.project_id", "t.employee_id", "e.name", "e.emp_id", "t.work_date", "t.hours_worked",
		"t.daily_rate", "t.hourly_rate", "t.total_amount", "p.project_description",
	).
		From("timesheets t").
		Join("employees e ON e.id = t.employee_id").
		Join("projects p ON p.id = t.project_id").
		Where("t.work_date BETWEEN ? AND ?", from, to).
		OrderBy("e.name", "t.project_id", "t.work_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build employee hours query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("employee hours query: %w", err)
	}
	defer rows.Close()

	list := make([]ProjectTimesheet, 0)
	for rows.Next() {
		var line ProjectTimesheet
		t := &line.Timesheet
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.EmployeeID, &t.EmployeeName, &t.EmpID, &t.WorkDate, &t.HoursWorked,
			&t.DailyRate, &t.HourlyRate, &t.TotalAmount, &line.ProjectDescription); err != nil {
			return nil, fmt.Errorf("scan timesheet row: %w", err)
		}
		list = append(list, line)
	}
	return list, rows.Err()
}

// ProjectTotalsBetween берёт все проекты. Движения денег и табель
// ограничены периодом, заказы по дню создания, склад без ограничения.
func (r *reportRepository) ProjectTotalsBetween(ctx context.Context, from, to time.Time) ([]ProjectTotals, error) {
	query := `
		SELECT
			p.id, p.project_description, p.project_budget,
			COALESCE((SELECT SUM(amount) FROM cash_flows c WHERE c.project_id = p.id AND c.type = 'INFLOW' AND c.transaction_date BETWEEN $1 AND $2), 0),
			COALESCE((SELECT SUM(amount) FROM cash_flows c WHERE c.project_id = p.id AND c.type = 'OUTFLOW' AND c.transaction_date BETWEEN $1 AND $2), 0),
			COALESCE((SELECT SUM(allocated_quantity) FROM project_inventory_items pi WHERE pi.project_id = p.id), 0),
			COALESCE((SELECT SUM(total_price) FROM project_inventory_items pi WHERE pi.project_id = p.id), 0),
			(SELECT COUNT(*) FROM purchase_orders po WHERE po.project_id = p.id AND po.created_date >= $1 AND po.created_date < $2::date + 1),
			COALESCE((SELECT SUM(total_amount) FROM purchase_orders po WHERE po.project_id = p.id AND po.created_date >= $1 AND po.created_date < $2::date + 1), 0),
			COALESCE((SELECT SUM(total_amount) FROM timesheets t WHERE t.project_id = p.id AND t.work_date BETWEEN $1 AND $2), 0),
			COALESCE((SELECT SUM(hours_worked) FROM timesheets t WHERE t.project_id = p.id AND t.work_date BETWEEN $1 AND $2), 0)
		FROM projects p
		ORDER BY p.id`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("project breakdown query: %w", err)
	}
	defer rows.Close()

	list := make([]ProjectTotals, 0)
	for rows.Next() {
		var t ProjectTotals
		if err := rows.Scan(&t.ProjectID, &t.ProjectDescription, &t.ProjectBudget, &t.CashInflow, &t.CashOutflow,
			&t.InventoryItems, &t.InventoryValue, &t.POCount, &t.POValue, &t.LaborCost, &t.LaborHours); err != nil {
			return nil, fmt.Errorf("scan project breakdown row: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
