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

type MRFController struct {
	mrfService services.MRFServiceInterface
	logger     *zap.Logger
}

func NewMRFController(mrfService services.MRFServiceInterface, logger *zap.Logger) *MRFController {
	return &MRFController{mrfService: mrfService, logger: logger}
}

func (c *MRFController) bindMRF(ctx echo.Context) (dto.CreateMRFDTO, error) {
	var payload dto.CreateMRFDTO
	if err := ctx.Bind(&payload); err != nil {
		return payload, apperrors.NewBadRequestError("Invalid MRF payload")
	}
	if err := ctx.Validate(&payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// Create создаёт MRF (POST /mrf).
func (c *MRFController) Create(ctx echo.Context) error {
	payload, err := c.bindMRF(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	mrf, err := c.mrfService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, mrf, "MRF created", http.StatusCreated)
}

// Update обрабатывает запрос на обновление MRF (PUT /mrf/:id).
func (c *MRFController) Update(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	payload, err := c.bindMRF(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	mrf, err := c.mrfService.Update(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, mrf, "MRF updated", http.StatusOK)
}

// Delete удаляет MRF (DELETE /mrf/:id).
func (c *MRFController) Delete(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.mrfService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.ActionResultDTO{Success: true, Message: "MRF deleted"}, "MRF deleted", http.StatusOK)
}

func (c *MRFController) GetByID(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	mrf, err := c.mrfService.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, mrf, "Successfully", http.StatusOK)
}

// GetByNumber ищет MRF по номеру (GET /mrf/number/:mrfNumber).
func (c *MRFController) GetByNumber(ctx echo.Context) error {
	mrf, err := c.mrfService.GetByNumber(ctx.Request().Context(), ctx.Param("mrfNumber"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, mrf, "Successfully", http.StatusOK)
}

// GetAll возвращает список MRF (GET /mrf).
func (c *MRFController) GetAll(ctx echo.Context) error {
	list, err := c.mrfService.GetAll(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
}

// GetMine - MRF, созданные текущим пользователем.
func (c *MRFController) GetMine(ctx echo.Context) error {
	list, err := c.mrfService.GetMine(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
}

func (c *MRFController) GetPending(ctx echo.Context) error {
	list, err := c.mrfService.GetPending(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
}

func (c *MRFController) pendingTier(superadmin bool) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		list, err := c.mrfService.GetPendingTier(ctx.Request().Context(), superadmin)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, list, "Successfully", http.StatusOK)
	}
}

// GetPendingAdmin - MRF, ждущие решения администратора.
func (c *MRFController) GetPendingAdmin(ctx echo.Context) error {
	return c.pendingTier(false)(ctx)
}

// GetPendingSuperadmin - MRF выше порога, ждущие супер-админа.
func (c *MRFController) GetPendingSuperadmin(ctx echo.Context) error {
	return c.pendingTier(true)(ctx)
}

// Approve утверждает MRF на уровне текущего пользователя (POST /mrf/:id/approve).
func (c *MRFController) Approve(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	mrf, err := c.mrfService.Approve(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Info("MRF approve refused", zap.Uint64("mrfID", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, mrf, "MRF approved", http.StatusOK)
}

// Reject отклоняет MRF (POST /mrf/:id/reject).
func (c *MRFController) Reject(ctx echo.Context) error {
	id, err := utils.ParseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	reason, err := bindReject(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	mrf, err := c.mrfService.Reject(ctx.Request().Context(), id, reason)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, mrf, "MRF rejected", http.StatusOK)
}
