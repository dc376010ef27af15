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

type CashFlowController struct {
	cashFlowService services.CashFlowServiceInterface
	logger          *zap.Logger
}

func NewCashFlowController(cashFlowService services.CashFlowServiceInterface, logger *zap.Logger) *CashFlowController {
	return &CashFlowController{cashFlowService: cashFlowService, logger: logger}
}

// GetCashFlows отдаёт движения денег (GET /cash-flows).
func (c *CashFlowController) GetCashFlows(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	list, total, err := c.cashFlowService.GetCashFlows(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK, total)
}

// CreateCashFlow записывает движение денег (POST /cash-flows).
func (c *CashFlowController) CreateCashFlow(ctx echo.Context) error {
	var payload dto.CreateCashFlowDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Invalid cash flow payload"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	entry, err := c.cashFlowService.CreateCashFlow(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entry, "Cash flow recorded", http.StatusCreated)
}
