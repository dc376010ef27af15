package controllers

import (
	"net/http"

	"erp-system/internal/dto"
	"erp-system/internal/services"
	"erp-system/pkg/constants"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ProjectInventoryController struct {
	itemService services.ProjectInventoryServiceInterface
	poService   services.PurchaseOrderServiceInterface
	logger      *zap.Logger
}

func NewProjectInventoryController(
	itemService services.ProjectInventoryServiceInterface,
	poService services.PurchaseOrderServiceInterface,
	logger *zap.Logger,
) *ProjectInventoryController {
	return &ProjectInventoryController{itemService: itemService, poService: poService, logger: logger}
}

// GetItems - материалы проекта (GET /projects/:projectId/inventory).
func (c *ProjectInventoryController) GetItems(ctx echo.Context) error {
	projectID, err := utils.ParseIDParam(ctx, "projectId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	items, err := c.itemService.GetItems(ctx.Request().Context(), projectID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "Successfully", http.StatusOK)
}

// AddItem выделяет материал со склада на проект.
func (c *ProjectInventoryController) AddItem(ctx echo.Context) error {
	projectID, err := utils.ParseIDParam(ctx, "projectId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.AddProjectInventoryDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid project inventory payload"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	item, err := c.itemService.AddItem(ctx.Request().Context(), projectID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Inventory added to project", http.StatusCreated)
}

// RemoveItem убирает материал с проекта.
func (c *ProjectInventoryController) RemoveItem(ctx echo.Context) error {
	projectID, err := utils.ParseIDParam(ctx, "projectId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	itemID, err := utils.ParseIDParam(ctx, "itemId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.itemService.RemoveItem(ctx.Request().Context(), projectID, itemID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.ActionResultDTO{Success: true, Message: "Inventory removed from project"}, "Inventory removed from project", http.StatusOK)
}

func (c *ProjectInventoryController) GetExpense(ctx echo.Context) error {
	projectID, err := utils.ParseIDParam(ctx, "projectId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	expense, err := c.itemService.GetExpense(ctx.Request().Context(), projectID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, expense, "Successfully", http.StatusOK)
}

// CreateShortagePO оформляет заказ на дефицит по позиции проекта.
func (c *ProjectInventoryController) CreateShortagePO(ctx echo.Context) error {
	projectID, err := utils.ParseIDParam(ctx, "projectId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	itemID, err := utils.ParseIDParam(ctx, "itemId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.CreateShortagePODTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid purchase order payload"), c.logger)
	}
	if payload.SupplierName == "" {
		payload.SupplierName = constants.DefaultSupplierName
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	po, err := c.poService.CreateFromShortage(ctx.Request().Context(), dto.CreatePOFromShortageDTO{
		ProjectID:              projectID,
		ProjectInventoryItemID: itemID,
		SupplierName:           payload.SupplierName,
	})
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, po, "Purchase order created", http.StatusCreated)
}
