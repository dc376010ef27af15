package controllers

import (
	"net/http"

	"erp-system/internal/dto"
	"erp-system/internal/services"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type InventoryController struct {
	inventoryService services.InventoryServiceInterface
	logger           *zap.Logger
}

func NewInventoryController(inventoryService services.InventoryServiceInterface, logger *zap.Logger) *InventoryController {
	return &InventoryController{inventoryService: inventoryService, logger: logger}
}

func (c *InventoryController) bindRequest(ctx echo.Context) (dto.InventoryRequestDTO, error) {
	var payload dto.InventoryRequestDTO
	if err := ctx.Bind(&payload); err != nil {
		return payload, apperrors.NewBadRequestError("Invalid inventory payload")
	}
	if err := ctx.Validate(&payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// GetInventory отдаёт склад постранично (GET /inventory).
func (c *InventoryController) GetInventory(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.inventoryService.GetInventory(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK, total)
}

// GetItem ищет позицию по коду INV0001 (GET /inventory/:inventoryId).
func (c *InventoryController) GetItem(ctx echo.Context) error {
	item, err := c.inventoryService.GetByCode(ctx.Request().Context(), ctx.Param("inventoryId"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Successfully", http.StatusOK)
}

// RequestCreate ставит в очередь заявку на новую позицию. Склад не меняется до утверждения.
func (c *InventoryController) RequestCreate(ctx echo.Context) error {
	payload, err := c.bindRequest(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.inventoryService.RequestCreate(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Inventory request submitted", http.StatusCreated)
}

// RequestUpdate - заявка на изменение позиции (POST /inventory/request/update/:inventoryId).
func (c *InventoryController) RequestUpdate(ctx echo.Context) error {
	payload, err := c.bindRequest(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.inventoryService.RequestUpdate(ctx.Request().Context(), ctx.Param("inventoryId"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Inventory request submitted", http.StatusCreated)
}

// RequestDelete - заявка на удаление позиции (POST /inventory/request/delete/:inventoryId).
func (c *InventoryController) RequestDelete(ctx echo.Context) error {
	request, err := c.inventoryService.RequestDelete(ctx.Request().Context(), ctx.Param("inventoryId"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Inventory request submitted", http.StatusCreated)
}

func (c *InventoryController) GetPendingRequests(ctx echo.Context) error {
	list, err := c.inventoryService.GetPendingRequests(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
}

// GetMyRequests - заявки текущего пользователя.
func (c *InventoryController) GetMyRequests(ctx echo.Context) error {
	list, err := c.inventoryService.GetMyRequests(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
}

// ApproveRequest применяет заявку к складу.
func (c *InventoryController) ApproveRequest(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "requestId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.inventoryService.ApproveRequest(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Inventory request approved", http.StatusOK)
}

// RejectRequest отклоняет заявку на изменение склада.
func (c *InventoryController) RejectRequest(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "requestId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	reason, err := bindReject(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.inventoryService.RejectRequest(ctx.Request().Context(), id, reason)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Inventory request rejected", http.StatusOK)
}
