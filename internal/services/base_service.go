package services

import (
	"context"
	"time"

	"erp-system/internal/authz"
	"erp-system/internal/repositories"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/utils"
)

// timeNow подменяется в тестах, завязанных на текущий день.
var timeNow = time.Now

func buildAuthzContext(ctx context.Context, userRepo repositories.UserRepositoryInterface) (*authz.Context, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	permissionsMap, err := utils.GetPermissionsMapFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	actor, err := userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	return &authz.Context{Actor: actor, Permissions: permissionsMap}, nil
}

// authorize собирает контекст вызывающего и требует permission на target.
func authorize(ctx context.Context, userRepo repositories.UserRepositoryInterface, permission string, target interface{}) (*authz.Context, error) {
	authContext, err := buildAuthzContext(ctx, userRepo)
	if err != nil {
		return nil, err
	}
	authContext.Target = target
	if !authz.CanDo(permission, *authContext) {
		return nil, apperrors.ErrForbidden
	}
	return authContext, nil
}

func today() time.Time {
	return utils.DateOnly(timeNow())
}

func strPtr(s string) *string {
	return &s
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(value)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	return &d, nil
}

func requiredDate(value string) (time.Time, error) {
	d, err := utils.ParseDate(value)
	if err != nil {
		return time.Time{}, apperrors.NewBadRequestError(err.Error())
	}
	return d, nil
}
