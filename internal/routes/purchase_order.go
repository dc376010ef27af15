package routes

import (
	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runPurchaseOrderRouter(secure *echo.Group, ctrl *controllers.PurchaseOrderController, authMW *middleware.AuthMiddleware) {
	orders := secure.Group("/purchase-orders")
	view := authMW.AuthorizeAny(authz.PurchaseOrdersView)

	orders.GET("", ctrl.GetPurchaseOrders, view)
	orders.GET("/statuses", ctrl.GetStatuses, view)
	orders.GET("/projects", ctrl.GetByProjects, view)
	orders.GET("/project/:projectId", ctrl.GetByProject, view)
	orders.GET("/:id", ctrl.GetByID, view)
	orders.GET("/:id/items", ctrl.GetItems, view)

	orders.POST("", ctrl.Create, authMW.AuthorizeAny(authz.PurchaseOrdersCreate))
	orders.POST("/from-shortage", ctrl.CreateFromShortage, authMW.AuthorizeAny(authz.PurchaseOrdersCreate))
	orders.PUT("/:id/status", ctrl.UpdateStatus, authMW.AuthorizeAny(authz.PurchaseOrdersUpdate))
	orders.DELETE("/:id", ctrl.Delete, authMW.AuthorizeAny(authz.PurchaseOrdersDelete))

	approve := authMW.AuthorizeAny(authz.PurchaseOrdersApprove)
	orders.GET("/requests/pending", ctrl.GetPendingRequests, approve)
	orders.POST("/requests/:requestId/approve", ctrl.ApproveRequest, approve)
	orders.POST("/requests/:requestId/reject", ctrl.RejectRequest, approve)
}
