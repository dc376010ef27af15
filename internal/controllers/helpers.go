package controllers

import (
	"erp-system/internal/dto"
	apperrors "erp-system/pkg/errors"

	"github.com/labstack/echo/v4"
)

// bindReject берёт причину отказа из JSON-тела или из query-параметра
// reason.
func bindReject(ctx echo.Context) (string, error) {
	var payload dto.RejectDTO
	if err := ctx.Bind(&payload); err != nil {
		return "", apperrors.NewBadRequestError("Invalid reject payload")
	}
	if payload.Reason == "" {
		payload.Reason = ctx.QueryParam("reason")
	}
	if err := ctx.Validate(&payload); err != nil {
		return "", apperrors.NewBadRequestError("Rejection reason is required")
	}
	return payload.Reason, nil
}
