package services

import (
	"context"
	"errors"
	"strings"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/repositories"
	"erp-system/pkg/constants"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/types"
	"erp-system/pkg/utils"

	"go.uber.org/zap"
)

type UserServiceInterface interface {
	GetRoles(ctx context.Context) ([]entities.Role, error)
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error)
	DeleteByUsername(ctx context.Context, username string) error
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	roleRepo repositories.RoleRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	roleRepo repositories.RoleRepositoryInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{userRepo: userRepo, roleRepo: roleRepo, logger: logger}
}

// GetRoles возвращает все роли.
func (s *UserService) GetRoles(ctx context.Context) ([]entities.Role, error) {
	if _, err := authorize(ctx, s.userRepo, authz.UsersManage, nil); err != nil {
		return nil, err
	}
	return s.roleRepo.GetRoles(ctx)
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	if _, err := authorize(ctx, s.userRepo, authz.UsersManage, nil); err != nil {
		return nil, 0, err
	}
	return s.userRepo.GetAll(ctx, filter)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	if _, err := authorize(ctx, s.userRepo, authz.UsersManage, nil); err != nil {
		return nil, err
	}
	return s.userRepo.FindByUsername(ctx, username)
}

// resolveRole ищет роль по ID, иначе по имени. Неизвестная роль - 400, а не 404.
func (s *UserService) resolveRole(ctx context.Context, roleID uint64, roleName string) (*entities.Role, error) {
	var (
		role *entities.Role
		err  error
	)
	if roleID != 0 {
		role, err = s.roleRepo.FindByID(ctx, roleID)
	} else {
		role, err = s.roleRepo.FindByName(ctx, constants.NormalizeRoleName(strings.ToUpper(strings.TrimSpace(roleName))))
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewBadRequestError("Unknown role")
	}
	return role, err
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error) {
	if _, err := authorize(ctx, s.userRepo, authz.UsersManage, nil); err != nil {
		return nil, err
	}

	role, err := s.resolveRole(ctx, payload.RoleID, payload.Role)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByUsername(ctx, payload.Username); err == nil {
		return nil, apperrors.NewConflictError("Username already exists")
	}

	hashed, err := utils.HashPassword(payload.Password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.ErrInternalServer
	}

	user, err := s.userRepo.Create(ctx, &entities.User{
		Username: payload.Username,
		Password: hashed,
		RoleID:   role.ID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.Uint64("userID", user.ID), zap.String("role", role.Name))
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error) {
	if _, err := authorize(ctx, s.userRepo, authz.UsersManage, nil); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Username.Valid && payload.Username.String != user.Username {
		if _, err := s.userRepo.FindByUsername(ctx, payload.Username.String); err == nil {
			return nil, apperrors.NewConflictError("Username already exists")
		}
		user.Username = payload.Username.String
	}
	if payload.Password.Valid && payload.Password.String != "" {
		hashed, err := utils.HashPassword(payload.Password.String)
		if err != nil {
			s.logger.Error("failed to hash password", zap.Error(err))
			return nil, apperrors.ErrInternalServer
		}
		user.Password = hashed
	}
	if payload.RoleID.Valid {
		role, err := s.resolveRole(ctx, payload.RoleID.Uint64, "")
		if err != nil {
			return nil, err
		}
		user.RoleID = role.ID
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) DeleteByUsername(ctx context.Context, username string) error {
	if _, err := authorize(ctx, s.userRepo, authz.UsersManage, nil); err != nil {
		return err
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	// Супер-админа удалить нельзя
	if user.RoleName == constants.RoleSuperAdmin {
		return apperrors.NewBadRequestError("Cannot delete a SUPER_ADMIN user")
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.String("username", username))
	return nil
}
