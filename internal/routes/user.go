package routes

import (
	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runUserRouter(secure *echo.Group, ctrl *controllers.UserController, authMW *middleware.AuthMiddleware) {
	users := secure.Group("/users", authMW.AuthorizeAny(authz.UsersManage))
	users.GET("/roles", ctrl.GetRoles)
	users.GET("/list", ctrl.GetUsers)
	users.POST("/create", ctrl.CreateUser)
	users.GET("/:username", ctrl.GetUser)
	users.PUT("/:id", ctrl.UpdateUser)
	users.DELETE("/:username", ctrl.DeleteUser)
}
