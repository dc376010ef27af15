package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"erp-system/internal/dto"
	"erp-system/internal/services"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type EmployeeRequestController struct {
	requestService   services.EmployeeRequestServiceInterface
	inventoryService services.InventoryServiceInterface
	logger           *zap.Logger
}

func NewEmployeeRequestController(
	requestService services.EmployeeRequestServiceInterface,
	inventoryService services.InventoryServiceInterface,
	logger *zap.Logger,
) *EmployeeRequestController {
	return &EmployeeRequestController{requestService: requestService, inventoryService: inventoryService, logger: logger}
}

// Create принимает multipart/form-data с полями сотрудника и необязательным
// ZIP-архивом "document".
func (c *EmployeeRequestController) Create(ctx echo.Context) error {
	var payload dto.CreateEmployeeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid employee request form"), c.logger)
	}
	salary, err := decimal.NewFromString(strings.TrimSpace(ctx.FormValue("salary")))
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Salary must be a number"), c.logger)
	}
	payload.Salary = salary
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	document, err := ctx.FormFile("document")
	if err != nil && err != http.ErrMissingFile {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid document upload"), c.logger)
	}

	request, err := c.requestService.Create(ctx.Request().Context(), payload, document)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Employee request submitted", http.StatusCreated)
}

// GetPending - заявки, ждущие решения (GET /employee-requests/pending).
func (c *EmployeeRequestController) GetPending(ctx echo.Context) error {
	list, err := c.requestService.GetPending(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
}

// GetMine - заявки на сотрудников, поданные текущим пользователем.
func (c *EmployeeRequestController) GetMine(ctx echo.Context) error {
	list, err := c.requestService.GetMine(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
}

// GetByID возвращает одну заявку (GET /employee-requests/:id).
func (c *EmployeeRequestController) GetByID(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.requestService.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Successfully", http.StatusOK)
}

// Approve утверждает заявку и создаёт сотрудника (POST /employee-requests/approve/:id).
func (c *EmployeeRequestController) Approve(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.requestService.Approve(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Employee request approved", http.StatusOK)
}

// Reject отклоняет заявку (POST /employee-requests/reject/:id).
func (c *EmployeeRequestController) Reject(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	reason, err := bindReject(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.requestService.Reject(ctx.Request().Context(), id, reason)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Employee request rejected", http.StatusOK)
}

// GetPendingInventory - складские заявки в том же разделе заявок.
func (c *EmployeeRequestController) GetPendingInventory(ctx echo.Context) error {
	list, err := c.inventoryService.GetPendingRequests(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
}

func (c *EmployeeRequestController) ApproveInventory(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	request, err := c.inventoryService.ApproveRequest(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, request, "Inventory request approved", http.StatusOK)
}

func (c *EmployeeRequestController) RejectInventory(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
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

func (c *EmployeeRequestController) DownloadDocument(ctx echo.Context) error {
	employeeID, err := utils.ParseIDParam(ctx, "employeeId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	file, name, err := c.requestService.OpenDocument(ctx.Request().Context(), employeeID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer file.Close()

	ctx.Response().Header().Set(echo.HeaderContentType, "application/zip")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	ctx.Response().WriteHeader(http.StatusOK)
	if _, err := io.Copy(ctx.Response().Writer, file); err != nil {
		c.logger.Error("document stream interrupted", zap.Uint64("employeeID", employeeID), zap.Error(err))
	}
	return nil
}
