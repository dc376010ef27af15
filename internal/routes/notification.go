package routes

import (
	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func runNotificationRouter(secure *echo.Group, ctrl *controllers.NotificationController, authMW *middleware.AuthMiddleware) {
	notifications := secure.Group("/notifications", authMW.AuthorizeAny(authz.NotificationsView))
	notifications.GET("", ctrl.GetAll)
	notifications.GET("/unread", ctrl.GetUnread)
	notifications.GET("/unread-count", ctrl.CountUnread)
	notifications.POST("/mark-read/:id", ctrl.MarkRead)
	notifications.POST("/mark-all-read", ctrl.MarkAllRead)
}
