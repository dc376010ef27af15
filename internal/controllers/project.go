package controllers

import (
	"net/http"

	"erp-system/internal/dto"
	"erp-system/internal/repositories"
	"erp-system/internal/services"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ProjectController struct {
	projectService services.ProjectServiceInterface
	logger         *zap.Logger
}

func NewProjectController(projectService services.ProjectServiceInterface, logger *zap.Logger) *ProjectController {
	return &ProjectController{projectService: projectService, logger: logger}
}

func (c *ProjectController) list(phase repositories.ProjectPhase) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
		list, total, err := c.projectService.GetProjects(ctx.Request().Context(), filter, phase)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK, total)
	}
}

// GetProjects отдаёт проекты постранично (GET /projects).
func (c *ProjectController) GetProjects(ctx echo.Context) error {
	return c.list(repositories.PhaseAny)(ctx)
}

// GetActive - проекты, идущие сегодня.
func (c *ProjectController) GetActive(ctx echo.Context) error {
	return c.list(repositories.PhaseActive)(ctx)
}

func (c *ProjectController) GetCompleted(ctx echo.Context) error {
	return c.list(repositories.PhaseCompleted)(ctx)
}

func (c *ProjectController) GetUpcoming(ctx echo.Context) error {
	return c.list(repositories.PhaseUpcoming)(ctx)
}

// GetProject возвращает один проект (GET /projects/:id).
func (c *ProjectController) GetProject(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	project, err := c.projectService.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, project, "Successfully", http.StatusOK)
}

// CreateProject создаёт проект (POST /projects).
func (c *ProjectController) CreateProject(ctx echo.Context) error {
	var payload dto.CreateProjectDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid project payload"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	project, err := c.projectService.CreateProject(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, project, "Project created", http.StatusCreated)
}

// UpdateProject обрабатывает запрос на обновление проекта (PUT /projects/:id).
func (c *ProjectController) UpdateProject(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdateProjectDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid project payload"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	project, err := c.projectService.UpdateProject(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, project, "Project updated", http.StatusOK)
}

// DeleteProject удаляет проект (DELETE /projects/:id).
func (c *ProjectController) DeleteProject(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.projectService.DeleteProject(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.ActionResultDTO{Success: true, Message: "Project deleted"}, "Project deleted", http.StatusOK)
}

func (c *ProjectController) projectAndEmployee(ctx echo.Context) (uint64, uint64, error) {
	projectID, err := utils.ParseIDParam(ctx, "projectId")
	if err != nil {
		return 0, 0, err
	}
	employeeID, err := utils.ParseIDParam(ctx, "employeeId")
	if err != nil {
		return 0, 0, err
	}
	return projectID, employeeID, nil
}

// AssignEmployee назначает сотрудника на проект.
func (c *ProjectController) AssignEmployee(ctx echo.Context) error {
	projectID, employeeID, err := c.projectAndEmployee(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.AssignEmployeeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid assignment payload"), c.logger)
	}
	if payload.RoleInProject == "" {
		payload.RoleInProject = ctx.QueryParam("roleInProject")
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	assignment, err := c.projectService.AssignEmployee(ctx.Request().Context(), projectID, employeeID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, assignment, "Employee assigned", http.StatusCreated)
}

// RemoveEmployee снимает сотрудника с проекта.
func (c *ProjectController) RemoveEmployee(ctx echo.Context) error {
	projectID, employeeID, err := c.projectAndEmployee(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.projectService.RemoveEmployee(ctx.Request().Context(), projectID, employeeID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.ActionResultDTO{Success: true, Message: "Employee removed"}, "Employee removed", http.StatusOK)
}

// GetProjectEmployees - сотрудники, назначенные на проект.
func (c *ProjectController) GetProjectEmployees(ctx echo.Context) error {
	projectID, err := utils.ParseIDParam(ctx, "projectId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	list, err := c.projectService.GetProjectEmployees(ctx.Request().Context(), projectID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
}

func (c *ProjectController) GetAllAssignments(ctx echo.Context) error {
	list, err := c.projectService.GetAllAssignments(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
}

// SaveTimesheet сохраняет табель за день (POST /projects/:projectId/timesheet).
func (c *ProjectController) SaveTimesheet(ctx echo.Context) error {
	projectID, err := utils.ParseIDParam(ctx, "projectId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.TimesheetDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid timesheet payload"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.projectService.SaveTimesheet(ctx.Request().Context(), projectID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Timesheet saved", http.StatusOK)
}

// GetTimesheets - табели проекта, границы дат необязательны.
func (c *ProjectController) GetTimesheets(ctx echo.Context) error {
	projectID, err := utils.ParseIDParam(ctx, "projectId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	list, err := c.projectService.GetTimesheets(ctx.Request().Context(), projectID, ctx.QueryParam("startDate"), ctx.QueryParam("endDate"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
}

// GetTimesheetRange требует обе границы, в отличие от GetTimesheets.
func (c *ProjectController) GetTimesheetRange(ctx echo.Context) error {
	if ctx.QueryParam("startDate") == "" || ctx.QueryParam("endDate") == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("startDate and endDate are required"), c.logger)
	}
	return c.GetTimesheets(ctx)
}

// GetExpense - сумма по табелям проекта.
func (c *ProjectController) GetExpense(ctx echo.Context) error {
	projectID, err := utils.ParseIDParam(ctx, "projectId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	expense, err := c.projectService.GetExpense(ctx.Request().Context(), projectID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, expense, "Successfully", http.StatusOK)
}

func (c *ProjectController) GetExpenseBreakdown(ctx echo.Context) error {
	projectID, err := utils.ParseIDParam(ctx, "projectId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	breakdown, err := c.projectService.GetExpenseBreakdown(ctx.Request().Context(), projectID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, breakdown, "Successfully", http.StatusOK)
}

func (c *ProjectController) GetTimesheetStats(ctx echo.Context) error {
	projectID, err := utils.ParseIDParam(ctx, "projectId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	stats, err := c.projectService.GetTimesheetStats(ctx.Request().Context(), projectID, ctx.Param("date"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "Successfully", http.StatusOK)
}

// IsTimesheetEditable отвечает, можно ли править табель за дату.
func (c *ProjectController) IsTimesheetEditable(ctx echo.Context) error {
	projectID, err := utils.ParseIDParam(ctx, "projectId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.projectService.IsTimesheetEditable(ctx.Request().Context(), projectID, ctx.Param("date"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Successfully", http.StatusOK)
}
