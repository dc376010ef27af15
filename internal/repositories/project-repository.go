package repositories

import (
	"context"
	"fmt"
	"time"

	"erp-system/internal/entities"
	"erp-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var projectColumns = []string{
	"id", "project_description", "project_type", "project_stage", "start_date", "end_date",
	"project_budget", "per_day_rate", "per_hour_rate", "created_at", "updated_at",
}

var projectListParams = listParams{
	Filters:      map[string]string{"project_type": "project_type", "project_stage": "project_stage"},
	Sorts:        map[string]string{"id": "id", "start_date": "start_date", "end_date": "end_date", "project_budget": "project_budget"},
	Search:       []string{"project_description", "project_type", "project_stage"},
	DefaultOrder: "id DESC",
}

// ProjectPhase выбирает проекты относительно заданного дня.
type ProjectPhase int

const (
	PhaseAny ProjectPhase = iota
	PhaseActive
	PhaseCompleted
	PhaseUpcoming
)

type ProjectRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter, phase ProjectPhase, today time.Time) ([]entities.Project, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Project, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]entities.Project, error)
	Create(ctx context.Context, project *entities.Project) (*entities.Project, error)
	Update(ctx context.Context, tx pgx.Tx, project *entities.Project) error
	Delete(ctx context.Context, id uint64) error

	AssignEmployee(ctx context.Context, assignment *entities.ProjectEmployee) (*entities.ProjectEmployee, error)
	RemoveEmployee(ctx context.Context, projectID, employeeID uint64) error
	IsEmployeeAssigned(ctx context.Context, projectID, employeeID uint64) (bool, error)
	GetProjectEmployees(ctx context.Context, projectID uint64) ([]entities.ProjectEmployee, error)
	GetAllAssignments(ctx context.Context) ([]entities.ProjectEmployee, error)
}

type ProjectRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewProjectRepository(storage *pgxpool.Pool, logger *zap.Logger) ProjectRepositoryInterface {
	return &ProjectRepository{storage: storage, logger: logger}
}

func scanProject(row pgx.Row) (*entities.Project, error) {
	var p entities.Project
	err := row.Scan(&p.ID, &p.ProjectDescription, &p.ProjectType, &p.ProjectStage, &p.StartDate, &p.EndDate,
		&p.ProjectBudget, &p.PerDayRate, &p.PerHourRate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &p, nil
}

// phaseCondition: active - идут сегодня, completed - закончились, upcoming - ещё не начались.
func phaseCondition(phase ProjectPhase, today time.Time) sq.Sqlizer {
	switch phase {
	case PhaseActive:
		return sq.And{sq.LtOrEq{"start_date": today}, sq.GtOrEq{"end_date": today}}
	case PhaseCompleted:
		return sq.Lt{"end_date": today}
	case PhaseUpcoming:
		return sq.Gt{"start_date": today}
	}
	return nil
}

func (r *ProjectRepository) queryProjects(ctx context.Context, builder sq.SelectBuilder) ([]entities.Project, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

func (r *ProjectRepository) GetAll(ctx context.Context, filter types.Filter, phase ProjectPhase, today time.Time) ([]entities.Project, uint64, error) {
	base := projectListParams.applyConditions(psql.Select().From("projects"), filter)
	if cond := phaseCondition(phase, today); cond != nil {
		base = base.Where(cond)
	}

	total, err := countRows(ctx, r.storage, base)
	if err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}
	if total == 0 {
		return []entities.Project{}, 0, nil
	}

	list, err := r.queryProjects(ctx, applyPage(projectListParams.applyOrder(base.Columns(projectColumns...), filter), filter))
	return list, total, err
}

func (r *ProjectRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Project, error) {
	builder := psql.Select(projectColumns...).From("projects").Where(sq.Eq{"id": id})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanProject(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

// FindByIDs - пустой список ID даёт пустой результат без запроса.
func (r *ProjectRepository) FindByIDs(ctx context.Context, ids []uint64) ([]entities.Project, error) {
	if len(ids) == 0 {
		return []entities.Project{}, nil
	}
	return r.queryProjects(ctx, psql.Select(projectColumns...).From("projects").Where(sq.Eq{"id": ids}).OrderBy("id"))
}

func (r *ProjectRepository) Create(ctx context.Context, p *entities.Project) (*entities.Project, error) {
	query, args, err := psql.Insert("projects").
		Columns("project_description", "project_type", "project_stage", "start_date", "end_date",
			"project_budget", "per_day_rate", "per_hour_rate").
		Values(p.ProjectDescription, p.ProjectType, p.ProjectStage, p.StartDate, p.EndDate,
			p.ProjectBudget, p.PerDayRate, p.PerHourRate).
		Suffix("RETURNING " + joinColumns(projectColumns)).ToSql()
	if err != nil {
		return nil, err
	}
	return scanProject(r.storage.QueryRow(ctx, query, args...))
}

func (r *ProjectRepository) Update(ctx context.Context, tx pgx.Tx, p *entities.Project) error {
	return execAffectingOne(ctx, getQuerier(r.storage, tx), psql.Update("projects").
		Set("project_description", p.ProjectDescription).
		Set("project_type", p.ProjectType).
		Set("project_stage", p.ProjectStage).
		Set("start_date", p.StartDate).
		Set("end_date", p.EndDate).
		Set("project_budget", p.ProjectBudget).
		Set("per_day_rate", p.PerDayRate).
		Set("per_hour_rate", p.PerHourRate).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": p.ID}))
}

func (r *ProjectRepository) Delete(ctx context.Context, id uint64) error {
	return execAffectingOne(ctx, r.storage, psql.Delete("projects").Where(sq.Eq{"id": id}))
}

var projectEmployeeColumns = []string{
	"pe.id", "pe.project_id", "pe.employee_id", "e.name", "e.emp_id", "pe.role_in_project", "pe.assigned_date",
}

// ======================= НАЗНАЧЕНИЯ СОТРУДНИКОВ =======================

// AssignEmployee: повторное назначение ловит уникальный индекс, mapDBError вернёт 409.
func (r *ProjectRepository) AssignEmployee(ctx context.Context, a *entities.ProjectEmployee) (*entities.ProjectEmployee, error) {
	query := `INSERT INTO project_employees (project_id, employee_id, role_in_project) VALUES ($1, $2, $3) RETURNING id, assigned_date`
	if err := r.storage.QueryRow(ctx, query, a.ProjectID, a.EmployeeID, a.RoleInProject).Scan(&a.ID, &a.AssignedDate); err != nil {
		return nil, mapDBError(err)
	}
	return a, nil
}

func (r *ProjectRepository) RemoveEmployee(ctx context.Context, projectID, employeeID uint64) error {
	return execAffectingOne(ctx, r.storage, psql.Delete("project_employees").
		Where(sq.Eq{"project_id": projectID, "employee_id": employeeID}))
}

// IsEmployeeAssigned проверяет назначение перед сохранением табеля.
func (r *ProjectRepository) IsEmployeeAssigned(ctx context.Context, projectID, employeeID uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM project_employees WHERE project_id = $1 AND employee_id = $2)`,
		projectID, employeeID).Scan(&exists)
	return exists, err
}

func (r *ProjectRepository) listAssignments(ctx context.Context, where sq.Sqlizer) ([]entities.ProjectEmployee, error) {
	builder := psql.Select(projectEmployeeColumns...).
		From("project_employees pe").
		Join("employees e ON e.id = pe.employee_id").
		OrderBy("pe.project_id", "e.name")
	if where != nil {
		builder = builder.Where(where)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list project employees: %w", err)
	}
	defer rows.Close()

	list := make([]entities.ProjectEmployee, 0)
	for rows.Next() {
		var a entities.ProjectEmployee
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.EmployeeID, &a.EmployeeName, &a.EmpID, &a.RoleInProject, &a.AssignedDate); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *ProjectRepository) GetProjectEmployees(ctx context.Context, projectID uint64) ([]entities.ProjectEmployee, error) {
	return r.listAssignments(ctx, sq.Eq{"pe.project_id": projectID})
}

func (r *ProjectRepository) GetAllAssignments(ctx context.Context) ([]entities.ProjectEmployee, error) {
	return r.listAssignments(ctx, nil)
}
