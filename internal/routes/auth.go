package routes

import (
	"erp-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

// runAuthRouter: login и refresh открыты, остальное за токеном.
func runAuthRouter(public, secure *echo.Group, ctrl *controllers.AuthController) {
	auth := public.Group("/auth")
	auth.POST("/login", ctrl.Login)
	auth.POST("/refresh", ctrl.RefreshToken)

	secureAuth := secure.Group("/auth")
	secureAuth.POST("/logout", ctrl.Logout)
	secureAuth.GET("/status", ctrl.Status)
}
