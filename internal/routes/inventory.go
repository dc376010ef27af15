package routes

import (
	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runInventoryRouter(secure *echo.Group, ctrl *controllers.InventoryController, authMW *middleware.AuthMiddleware) {
	inventory := secure.Group("/inventory")

	inventory.GET("", ctrl.GetInventory, authMW.AuthorizeAny(authz.InventoryView))
	inventory.GET("/requests", ctrl.GetPendingRequests, authMW.AuthorizeAny(authz.InventoryApprove))
	inventory.GET("/requests/my", ctrl.GetMyRequests, authMW.AuthorizeAny(authz.InventoryRequest))
	inventory.GET("/:inventoryId", ctrl.GetItem, authMW.AuthorizeAny(authz.InventoryView))

	inventory.POST("/request/create", ctrl.RequestCreate, authMW.AuthorizeAny(authz.InventoryRequest))
	inventory.POST("/request/update/:inventoryId", ctrl.RequestUpdate, authMW.AuthorizeAny(authz.InventoryRequest))
	inventory.POST("/request/delete/:inventoryId", ctrl.RequestDelete, authMW.AuthorizeAny(authz.InventoryRequest))

	inventory.POST("/requests/:requestId/approve", ctrl.ApproveRequest, authMW.AuthorizeAny(authz.InventoryApprove))
	inventory.POST("/requests/:requestId/reject", ctrl.RejectRequest, authMW.AuthorizeAny(authz.InventoryApprove))
}
