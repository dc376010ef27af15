package routes

import (
	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runEmployeeRouter(secure *echo.Group, ctrl *controllers.EmployeeController, authMW *middleware.AuthMiddleware) {
	employees := secure.Group("/employees")
	employees.GET("/list", ctrl.GetEmployees, authMW.AuthorizeAny(authz.EmployeesView))
	employees.GET("/:empId", ctrl.GetEmployee, authMW.AuthorizeAny(authz.EmployeesView))
	employees.POST("/create", ctrl.CreateEmployee, authMW.AuthorizeAny(authz.EmployeesCreate))
	employees.PUT("/:id", ctrl.UpdateEmployee, authMW.AuthorizeAny(authz.EmployeesUpdate))
	employees.DELETE("/:empId", ctrl.DeleteEmployee, authMW.AuthorizeAny(authz.EmployeesDelete))
}

func runEmployeeRequestRouter(secure *echo.Group, ctrl *controllers.EmployeeRequestController, authMW *middleware.AuthMiddleware) {
	requests := secure.Group("/employee-requests")

	requests.POST("/create", ctrl.Create, authMW.AuthorizeAny(authz.EmployeeRequestsCreate))
	requests.GET("/my-requests", ctrl.GetMine, authMW.AuthorizeAny(authz.EmployeeRequestsView))
	requests.GET("/pending", ctrl.GetPending, authMW.AuthorizeAny(authz.EmployeeRequestsApprove))
	requests.POST("/approve/:id", ctrl.Approve, authMW.AuthorizeAny(authz.EmployeeRequestsApprove))
	requests.POST("/reject/:id", ctrl.Reject, authMW.AuthorizeAny(authz.EmployeeRequestsApprove))
	requests.GET("/:id", ctrl.GetByID, authMW.AuthorizeAny(authz.EmployeeRequestsView, authz.EmployeeRequestsApprove))
	requests.GET("/download-docs/:employeeId", ctrl.DownloadDocument,
		authMW.AuthorizeAny(authz.EmployeesView, authz.EmployeeRequestsView))

	// HR смотрит заявки по складу с того же экрана очереди.
	requests.GET("/inventory/pending", ctrl.GetPendingInventory, authMW.AuthorizeAny(authz.InventoryApprove))
	requests.POST("/inventory/approve/:id", ctrl.ApproveInventory, authMW.AuthorizeAny(authz.InventoryApprove))
	requests.POST("/inventory/reject/:id", ctrl.RejectInventory, authMW.AuthorizeAny(authz.InventoryApprove))
}
