package controllers

import (
	"net/http"

	"erp-system/internal/dto"
	"erp-system/internal/services"
	"erp-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationController(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationController {
	return &NotificationController{notificationService: notificationService, logger: logger}
}

func (c *NotificationController) list(unreadOnly bool) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		list, err := c.notificationService.GetMine(ctx.Request().Context(), unreadOnly)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
	}
}

// GetAll - уведомления текущего пользователя (GET /notifications).
func (c *NotificationController) GetAll(ctx echo.Context) error {
	return c.list(false)(ctx)
}

func (c *NotificationController) GetUnread(ctx echo.Context) error {
	return c.list(true)(ctx)
}

// CountUnread - счётчик непрочитанных для бейджа.
func (c *NotificationController) CountUnread(ctx echo.Context) error {
	count, err := c.notificationService.CountUnread(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.CountDTO{Count: count}, "Successfully", http.StatusOK)
}

// MarkRead помечает одно уведомление прочитанным.
func (c *NotificationController) MarkRead(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.notificationService.MarkRead(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.ActionResultDTO{Success: true, Message: "Notification marked as read"}, "Successfully", http.StatusOK)
}

// MarkAllRead помечает прочитанными все уведомления пользователя.
func (c *NotificationController) MarkAllRead(ctx echo.Context) error {
	count, err := c.notificationService.MarkAllRead(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.CountDTO{Count: count}, "All notifications marked as read", http.StatusOK)
}
