package services

import (
	"context"
	"errors"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/repositories"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/types"
	"erp-system/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	hoursPerDay     = decimal.NewFromInt(8)
	maxHoursPerDay  = decimal.NewFromInt(24)
	errNotAssigned  = apperrors.NewBadRequestError("Employee is not assigned to this project")
	errNotEditable  = apperrors.NewBadRequestError("Timesheet is not editable for this date")
	errInvalidRange = apperrors.NewBadRequestError("End date cannot be before the start date")
)

// DaysWorked переводит часы в восьмичасовые дни, с округлением до сотых.
func DaysWorked(hours decimal.Decimal) decimal.Decimal {
	return hours.Div(hoursPerDay).Round(2)
}

type ProjectServiceInterface interface {
	GetProjects(ctx context.Context, filter types.Filter, phase repositories.ProjectPhase) ([]entities.Project, uint64, error)
	GetByID(ctx context.Context, id uint64) (*entities.Project, error)
	CreateProject(ctx context.Context, payload dto.CreateProjectDTO) (*entities.Project, error)
	UpdateProject(ctx context.Context, id uint64, payload dto.UpdateProjectDTO) (*entities.Project, error)
	DeleteProject(ctx context.Context, id uint64) error

	AssignEmployee(ctx context.Context, projectID, employeeID uint64, payload dto.AssignEmployeeDTO) (*entities.ProjectEmployee, error)
	RemoveEmployee(ctx context.Context, projectID, employeeID uint64) error
	GetProjectEmployees(ctx context.Context, projectID uint64) ([]entities.ProjectEmployee, error)
	GetAllAssignments(ctx context.Context) ([]entities.ProjectEmployee, error)

	SaveTimesheet(ctx context.Context, projectID uint64, payload dto.TimesheetDTO) (*entities.Timesheet, error)
	GetTimesheets(ctx context.Context, projectID uint64, startDate, endDate string) ([]entities.Timesheet, error)
	GetExpense(ctx context.Context, projectID uint64) (*dto.ProjectExpenseDTO, error)
	GetExpenseBreakdown(ctx context.Context, projectID uint64) (*dto.ProjectExpenseBreakdownDTO, error)
	GetTimesheetStats(ctx context.Context, projectID uint64, date string) (*dto.TimesheetStatsDTO, error)
	IsTimesheetEditable(ctx context.Context, projectID uint64, date string) (*dto.TimesheetEditableDTO, error)
}

type ProjectService struct {
	projectRepo          repositories.ProjectRepositoryInterface
	employeeRepo         repositories.EmployeeRepositoryInterface
	timesheetRepo        repositories.TimesheetRepositoryInterface
	projectInventoryRepo repositories.ProjectInventoryRepositoryInterface
	userRepo             repositories.UserRepositoryInterface
	logger               *zap.Logger
}

func NewProjectService(
	projectRepo repositories.ProjectRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	timesheetRepo repositories.TimesheetRepositoryInterface,
	projectInventoryRepo repositories.ProjectInventoryRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) ProjectServiceInterface {
	return &ProjectService{
		projectRepo:          projectRepo,
		employeeRepo:         employeeRepo,
		timesheetRepo:        timesheetRepo,
		projectInventoryRepo: projectInventoryRepo,
		userRepo:             userRepo,
		logger:               logger,
	}
}

func (s *ProjectService) GetProjects(ctx context.Context, filter types.Filter, phase repositories.ProjectPhase) ([]entities.Project, uint64, error) {
	if _, err := authorize(ctx, s.userRepo, authz.ProjectsView, nil); err != nil {
		return nil, 0, err
	}
	return s.projectRepo.GetAll(ctx, filter, phase, today())
}

func (s *ProjectService) GetByID(ctx context.Context, id uint64) (*entities.Project, error) {
	if _, err := authorize(ctx, s.userRepo, authz.ProjectsView, nil); err != nil {
		return nil, err
	}
	return s.projectRepo.FindByID(ctx, nil, id)
}

func (s *ProjectService) CreateProject(ctx context.Context, payload dto.CreateProjectDTO) (*entities.Project, error) {
	if _, err := authorize(ctx, s.userRepo, authz.ProjectsCreate, nil); err != nil {
		return nil, err
	}
	startDate, err := requiredDate(payload.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := requiredDate(payload.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, errInvalidRange
	}

	project, err := s.projectRepo.Create(ctx, &entities.Project{
		ProjectDescription: payload.ProjectDescription,
		ProjectType:        payload.ProjectType,
		ProjectStage:       payload.ProjectStage,
		StartDate:          startDate,
		EndDate:            endDate,
		ProjectBudget:      payload.ProjectBudget,
		PerDayRate:         payload.PerDayRate,
		PerHourRate:        payload.PerHourRate,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("project created", zap.Uint64("projectID", project.ID))
	return project, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, id uint64, payload dto.UpdateProjectDTO) (*entities.Project, error) {
	if _, err := authorize(ctx, s.userRepo, authz.ProjectsUpdate, nil); err != nil {
		return nil, err
	}
	project, err := s.projectRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	if payload.ProjectDescription.Valid {
		project.ProjectDescription = payload.ProjectDescription.String
	}
	if payload.ProjectType.Valid {
		project.ProjectType = payload.ProjectType.String
	}
	if payload.ProjectStage.Valid {
		project.ProjectStage = payload.ProjectStage.String
	}
	if payload.StartDate.Valid {
		if project.StartDate, err = requiredDate(payload.StartDate.String); err != nil {
			return nil, err
		}
	}
	if payload.EndDate.Valid {
		if project.EndDate, err = requiredDate(payload.EndDate.String); err != nil {
			return nil, err
		}
	}
	if project.EndDate.Before(project.StartDate) {
		return nil, errInvalidRange
	}
	if payload.ProjectBudget != nil {
		project.ProjectBudget = *payload.ProjectBudget
	}
	if payload.PerDayRate != nil {
		project.PerDayRate = *payload.PerDayRate
	}
	if payload.PerHourRate != nil {
		project.PerHourRate = *payload.PerHourRate
	}

	if err := s.projectRepo.Update(ctx, nil, project); err != nil {
		return nil, err
	}
	return s.projectRepo.FindByID(ctx, nil, id)
}

// DeleteProject удаляет проект. Назначения, табели и материалы уходят каскадом.
func (s *ProjectService) DeleteProject(ctx context.Context, id uint64) error {
	if _, err := authorize(ctx, s.userRepo, authz.ProjectsDelete, nil); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("project deleted", zap.Uint64("projectID", id))
	return nil
}

func (s *ProjectService) AssignEmployee(ctx context.Context, projectID, employeeID uint64, payload dto.AssignEmployeeDTO) (*entities.ProjectEmployee, error) {
	if _, err := authorize(ctx, s.userRepo, authz.ProjectsUpdate, nil); err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.FindByID(ctx, nil, projectID); err != nil {
		return nil, err
	}
	if _, err := s.employeeRepo.FindByID(ctx, nil, employeeID); err != nil {
		return nil, err
	}
	assigned, err := s.projectRepo.IsEmployeeAssigned(ctx, projectID, employeeID)
	if err != nil {
		return nil, err
	}
	if assigned {
		return nil, apperrors.NewConflictError("Employee is already assigned to this project")
	}
	return s.projectRepo.AssignEmployee(ctx, &entities.ProjectEmployee{
		ProjectID:     projectID,
		EmployeeID:    employeeID,
		RoleInProject: payload.RoleInProject,
	})
}

func (s *ProjectService) RemoveEmployee(ctx context.Context, projectID, employeeID uint64) error {
	if _, err := authorize(ctx, s.userRepo, authz.ProjectsUpdate, nil); err != nil {
		return err
	}
	return s.projectRepo.RemoveEmployee(ctx, projectID, employeeID)
}

func (s *ProjectService) GetProjectEmployees(ctx context.Context, projectID uint64) ([]entities.ProjectEmployee, error) {
	if _, err := authorize(ctx, s.userRepo, authz.ProjectsView, nil); err != nil {
		return nil, err
	}
	return s.projectRepo.GetProjectEmployees(ctx, projectID)
}

func (s *ProjectService) GetAllAssignments(ctx context.Context) ([]entities.ProjectEmployee, error) {
	if _, err := authorize(ctx, s.userRepo, authz.ProjectsView, nil); err != nil {
		return nil, err
	}
	return s.projectRepo.GetAllAssignments(ctx)
}

// ======================= ТАБЕЛЬ =======================

func (s *ProjectService) SaveTimesheet(ctx context.Context, projectID uint64, payload dto.TimesheetDTO) (*entities.Timesheet, error) {
	if _, err := authorize(ctx, s.userRepo, authz.TimesheetsManage, nil); err != nil {
		return nil, err
	}
	workDate, err := requiredDate(payload.WorkDate)
	if err != nil {
		return nil, err
	}
	// Часы храним с точностью NUMERIC(5,2)
	hours := payload.HoursWorked.Round(2)
	if hours.IsNegative() || hours.GreaterThan(maxHoursPerDay) {
		return nil, apperrors.NewBadRequestError("Hours worked must be between 0 and 24")
	}

	project, err := s.projectRepo.FindByID(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}
	if !project.AcceptsTimesheetOn(workDate, today()) {
		return nil, errNotEditable
	}
	// Часы вносятся только за назначенных на проект
	assigned, err := s.projectRepo.IsEmployeeAssigned(ctx, projectID, payload.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, errNotAssigned
	}

	return s.timesheetRepo.Upsert(ctx, &entities.Timesheet{
		ProjectID:   projectID,
		EmployeeID:  payload.EmployeeID,
		WorkDate:    workDate,
		HoursWorked: hours,
		DailyRate:   project.PerDayRate,
		HourlyRate:  project.PerHourRate,
		TotalAmount: entities.TimesheetAmount(hours, project.PerHourRate, project.PerDayRate),
		Comments:    payload.Comments,
	})
}

func (s *ProjectService) GetTimesheets(ctx context.Context, projectID uint64, startDate, endDate string) ([]entities.Timesheet, error) {
	if _, err := authorize(ctx, s.userRepo, authz.TimesheetsView, nil); err != nil {
		return nil, err
	}
	from, err := optionalDate(startDate)
	if err != nil {
		return nil, err
	}
	to, err := optionalDate(endDate)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, errInvalidRange
	}
	return s.timesheetRepo.FindByProject(ctx, projectID, from, to)
}

func (s *ProjectService) GetExpense(ctx context.Context, projectID uint64) (*dto.ProjectExpenseDTO, error) {
	if _, err := authorize(ctx, s.userRepo, authz.TimesheetsView, nil); err != nil {
		return nil, err
	}
	total, err := s.timesheetRepo.SumByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &dto.ProjectExpenseDTO{ProjectID: projectID, TotalExpense: total}, nil
}

func (s *ProjectService) GetExpenseBreakdown(ctx context.Context, projectID uint64) (*dto.ProjectExpenseBreakdownDTO, error) {
	if _, err := authorize(ctx, s.userRepo, authz.TimesheetsView, nil); err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.FindByID(ctx, nil, projectID); err != nil {
		return nil, err
	}

	totals, err := s.timesheetRepo.TotalsByEmployee(ctx, projectID)
	if err != nil {
		return nil, err
	}
	inventoryExpenses, err := s.projectInventoryRepo.SumByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	result := &dto.ProjectExpenseBreakdownDTO{
		ProjectID:         projectID,
		EmployeeExpenses:  decimal.Zero,
		InventoryExpenses: inventoryExpenses,
		OtherExpenses:     decimal.Zero,
		Employees:         make([]dto.ProjectEmployeeExpenseDTO, 0, len(totals)),
	}
	for _, t := range totals {
		result.EmployeeExpenses = result.EmployeeExpenses.Add(t.TotalAmount)
		result.Employees = append(result.Employees, dto.ProjectEmployeeExpenseDTO{
			EmployeeID:   t.EmployeeID,
			Name:         t.Name,
			EmpID:        t.EmpID,
			TotalExpense: t.TotalAmount,
			TotalHours:   t.TotalHours,
			DaysWorked:   DaysWorked(t.TotalHours),
		})
	}
	result.TotalExpenses = result.EmployeeExpenses.Add(result.InventoryExpenses).Add(result.OtherExpenses)
	return result, nil
}

// GetTimesheetStats - число сотрудников и часы за один день.
func (s *ProjectService) GetTimesheetStats(ctx context.Context, projectID uint64, date string) (*dto.TimesheetStatsDTO, error) {
	if _, err := authorize(ctx, s.userRepo, authz.TimesheetsView, nil); err != nil {
		return nil, err
	}
	day, err := requiredDate(date)
	if err != nil {
		return nil, err
	}
	count, hours, err := s.timesheetRepo.StatsForDate(ctx, projectID, day)
	if err != nil {
		return nil, err
	}
	return &dto.TimesheetStatsDTO{Date: day.Format(utils.DateLayout), EmployeeCount: count, TotalHours: hours}, nil
}

// IsTimesheetEditable: для неизвестного проекта отвечаем false, а не 404.
func (s *ProjectService) IsTimesheetEditable(ctx context.Context, projectID uint64, date string) (*dto.TimesheetEditableDTO, error) {
	if _, err := authorize(ctx, s.userRepo, authz.TimesheetsView, nil); err != nil {
		return nil, err
	}
	day, err := requiredDate(date)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.FindByID(ctx, nil, projectID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return &dto.TimesheetEditableDTO{Date: date, Editable: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &dto.TimesheetEditableDTO{
		Date:     day.Format(utils.DateLayout),
		Editable: project.AcceptsTimesheetOn(day, today()),
	}, nil
}

