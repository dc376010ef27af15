package routes

import (
	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runCashFlowRouter(secure *echo.Group, ctrl *controllers.CashFlowController, authMW *middleware.AuthMiddleware) {
	cashFlows := secure.Group("/cash-flows")
	cashFlows.GET("", ctrl.GetCashFlows, authMW.AuthorizeAny(authz.CashFlowsView))
	cashFlows.POST("", ctrl.CreateCashFlow, authMW.AuthorizeAny(authz.CashFlowsCreate))
}

func runReportRouter(secure *echo.Group, ctrl *controllers.ReportController, authMW *middleware.AuthMiddleware) {
	reports := secure.Group("/reports", authMW.AuthorizeAny(authz.ReportsView))
	reports.GET("/cashflow", ctrl.GetCashFlowReport)
	reports.GET("/employee-hours", ctrl.GetEmployeeHoursReport)
	reports.GET("/project-breakdown", ctrl.GetProjectBreakdownReport)
}
