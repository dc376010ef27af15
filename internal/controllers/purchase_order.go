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

type PurchaseOrderController struct {
	poService services.PurchaseOrderServiceInterface
	logger    *zap.Logger
}

func NewPurchaseOrderController(poService services.PurchaseOrderServiceInterface, logger *zap.Logger) *PurchaseOrderController {
	return &PurchaseOrderController{poService: poService, logger: logger}
}

// Create создаёт заказ поставщику (POST /purchase-orders).
func (c *PurchaseOrderController) Create(ctx echo.Context) error {
	var payload dto.CreatePurchaseOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid purchase order payload"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	po, err := c.poService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, po, "Purchase order created", http.StatusCreated)
}

// CreateFromShortage оформляет заказ на дефицит по проекту (POST /purchase-orders/from-shortage).
func (c *PurchaseOrderController) CreateFromShortage(ctx echo.Context) error {
	var payload dto.CreatePOFromShortageDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid purchase order payload"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	po, err := c.poService.CreateFromShortage(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, po, "Purchase order created", http.StatusCreated)
}

// GetPurchaseOrders отдаёт страницу заказов с сортировкой (GET /purchase-orders).
func (c *PurchaseOrderController) GetPurchaseOrders(ctx echo.Context) error {
	query := ctx.Request().URL.Query()
	filter := utils.ParseFilterFromQuery(query)
	utils.ApplySortByParams(&filter, query, "id", "desc")
	list, total, err := c.poService.GetPurchaseOrders(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK, total)
}

// GetByID возвращает один заказ вместе с позициями (GET /purchase-orders/:id).
func (c *PurchaseOrderController) GetByID(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	po, err := c.poService.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, po, "Successfully", http.StatusOK)
}

// GetByProject - заказы одного проекта (GET /purchase-orders/project/:projectId).
func (c *PurchaseOrderController) GetByProject(ctx echo.Context) error {
	projectID, err := utils.ParseIDParam(ctx, "projectId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	list, err := c.poService.GetByProjects(ctx.Request().Context(), []uint64{projectID})
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
}

// GetByProjects читает ?projectIds=1,2,3.
func (c *PurchaseOrderController) GetByProjects(ctx echo.Context) error {
	ids, err := utils.ParseUint64List(ctx.QueryParam("projectIds"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	list, err := c.poService.GetByProjects(ctx.Request().Context(), ids)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
}

func (c *PurchaseOrderController) GetItems(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	items, err := c.poService.GetItems(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "Successfully", http.StatusOK)
}

// UpdateStatus двигает заказ по статусам (PUT /purchase-orders/:id/status).
func (c *PurchaseOrderController) UpdateStatus(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var payload dto.UpdatePOStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid status payload"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	po, err := c.poService.UpdateStatus(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, po, "Status updated", http.StatusOK)
}

// Delete удаляет заказ, пока он в статусе CREATED (DELETE /purchase-orders/:id).
func (c *PurchaseOrderController) Delete(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.poService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.ActionResultDTO{Success: true, Message: "Purchase order deleted"}, "Purchase order deleted", http.StatusOK)
}

func (c *PurchaseOrderController) GetStatuses(ctx echo.Context) error {
	return utils.SuccessResponse(ctx, c.poService.Statuses(), "Successfully", http.StatusOK)
}

// GetPendingRequests - очередь заявок на утверждение заказов.
func (c *PurchaseOrderController) GetPendingRequests(ctx echo.Context) error {
	list, err := c.poService.GetPendingRequests(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
}

// ApproveRequest утверждает заявку (POST /purchase-orders/requests/:requestId/approve).
func (c *PurchaseOrderController) ApproveRequest(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "requestId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.poService.ApproveRequest(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Purchase order approved", http.StatusOK)
}

// RejectRequest отклоняет заявку, причина обязательна.
func (c *PurchaseOrderController) RejectRequest(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "requestId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	reason, err := bindReject(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.poService.RejectRequest(ctx.Request().Context(), id, reason)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Purchase order rejected", http.StatusOK)
}
