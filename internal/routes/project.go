package routes

import (
	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runProjectRouter(secure *echo.Group, ctrl *controllers.ProjectController, authMW *middleware.AuthMiddleware) {
	projects := secure.Group("/projects")
	view := authMW.AuthorizeAny(authz.ProjectsView)

	projects.GET("", ctrl.GetProjects, view)
	projects.GET("/active", ctrl.GetActive, view)
	projects.GET("/completed", ctrl.GetCompleted, view)
	projects.GET("/upcoming", ctrl.GetUpcoming, view)
	projects.GET("/employees", ctrl.GetAllAssignments, view)
	projects.GET("/:id", ctrl.GetProject, view)
	projects.POST("", ctrl.CreateProject, authMW.AuthorizeAny(authz.ProjectsCreate))
	projects.PUT("/:id", ctrl.UpdateProject, authMW.AuthorizeAny(authz.ProjectsUpdate))
	projects.DELETE("/:id", ctrl.DeleteProject, authMW.AuthorizeAny(authz.ProjectsDelete))

	projects.GET("/:projectId/employees", ctrl.GetProjectEmployees, view)
	projects.POST("/:projectId/employees/:employeeId", ctrl.AssignEmployee, authMW.AuthorizeAny(authz.ProjectsUpdate))
	projects.DELETE("/:projectId/employees/:employeeId", ctrl.RemoveEmployee, authMW.AuthorizeAny(authz.ProjectsUpdate))

	timesheets := authMW.AuthorizeAny(authz.TimesheetsView)
	projects.POST("/:projectId/timesheet", ctrl.SaveTimesheet, authMW.AuthorizeAny(authz.TimesheetsManage))
	projects.GET("/:projectId/timesheet", ctrl.GetTimesheets, timesheets)
	projects.GET("/:projectId/timesheet/range", ctrl.GetTimesheetRange, timesheets)
	projects.GET("/:projectId/timesheet/editable/:date", ctrl.IsTimesheetEditable, timesheets)
	projects.GET("/:projectId/stats/date/:date", ctrl.GetTimesheetStats, timesheets)
	projects.GET("/:projectId/expense", ctrl.GetExpense, timesheets)
	projects.GET("/:projectId/expense/breakdown", ctrl.GetExpenseBreakdown, timesheets)
}

func runProjectInventoryRouter(secure *echo.Group, ctrl *controllers.ProjectInventoryController, authMW *middleware.AuthMiddleware) {
	items := secure.Group("/projects/:projectId/inventory")
	items.GET("", ctrl.GetItems, authMW.AuthorizeAny(authz.ProjectInventoryView))
	items.GET("/expense", ctrl.GetExpense, authMW.AuthorizeAny(authz.ProjectInventoryView))
	items.POST("", ctrl.AddItem, authMW.AuthorizeAny(authz.ProjectInventoryManage))
	items.DELETE("/:itemId", ctrl.RemoveItem, authMW.AuthorizeAny(authz.ProjectInventoryManage))
	items.POST("/:itemId/create-po", ctrl.CreateShortagePO, authMW.AuthorizeAny(authz.PurchaseOrdersCreate))
}
