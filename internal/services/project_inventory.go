package services

import (
	"context"
	"errors"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/repositories"
	apperrors "erp-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProjectInventoryServiceInterface interface {
	AddItem(ctx context.Context, projectID uint64, payload dto.AddProjectInventoryDTO) (*entities.ProjectInventoryItem, error)
	RemoveItem(ctx context.Context, projectID, itemID uint64) error
	GetItems(ctx context.Context, projectID uint64) ([]entities.ProjectInventoryItem, error)
	GetExpense(ctx context.Context, projectID uint64) (*dto.ProjectExpenseDTO, error)
}

type ProjectInventoryService struct {
	itemRepo      repositories.ProjectInventoryRepositoryInterface
	inventoryRepo repositories.InventoryRepositoryInterface
	projectRepo   repositories.ProjectRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
}

func NewProjectInventoryService(
	itemRepo repositories.ProjectInventoryRepositoryInterface,
	inventoryRepo repositories.InventoryRepositoryInterface,
	projectRepo repositories.ProjectRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) ProjectInventoryServiceInterface {
	return &ProjectInventoryService{
		itemRepo:      itemRepo,
		inventoryRepo: inventoryRepo,
		projectRepo:   projectRepo,
		userRepo:      userRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

func (s *ProjectInventoryService) AddItem(ctx context.Context, projectID uint64, payload dto.AddProjectInventoryDTO) (*entities.ProjectInventoryItem, error) {
	if _, err := authorize(ctx, s.userRepo, authz.ProjectInventoryManage, nil); err != nil {
		return nil, err
	}
	if payload.RequiredQuantity <= 0 {
		return nil, apperrors.NewBadRequestError("Required quantity must be positive")
	}

	var itemID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.projectRepo.FindByID(ctx, tx, projectID); err != nil {
			return err
		}
		inv, err := s.inventoryRepo.FindByID(ctx, tx, payload.InventoryID)
		if err != nil {
			return err
		}

		// Выдаём со склада сколько есть, остальное уходит в дефицит
		alloc := entities.Allocate(payload.RequiredQuantity, inv.Quantity)
		item := &entities.ProjectInventoryItem{
			ProjectID:         projectID,
			InventoryID:       inv.ID,
			RequiredQuantity:  payload.RequiredQuantity,
			AllocatedQuantity: alloc.Allocated,
			ShortageQuantity:  alloc.Shortage,
			UnitPrice:         inv.PerQuantityPrice,
			TotalPrice:        inv.PerQuantityPrice.Mul(decimal.NewFromInt(int64(alloc.Allocated))).Round(2),
		}
		if itemID, err = s.itemRepo.Create(ctx, tx, item); err != nil {
			return err
		}
		if alloc.Allocated > 0 {
			return s.inventoryRepo.AdjustQuantity(ctx, tx, inv.ID, -alloc.Allocated)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("inventory allocated to project", zap.Uint64("projectID", projectID), zap.Uint64("itemID", itemID))
	return s.itemRepo.FindByID(ctx, nil, itemID)
}

// RemoveItem возвращает выделенное количество на склад и удаляет позицию.
func (s *ProjectInventoryService) RemoveItem(ctx context.Context, projectID, itemID uint64) error {
	if _, err := authorize(ctx, s.userRepo, authz.ProjectInventoryManage, nil); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		item, err := s.itemRepo.FindByID(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item.ProjectID != projectID {
			return apperrors.ErrNotFound
		}
		if item.AllocatedQuantity > 0 {
			err := s.inventoryRepo.AdjustQuantity(ctx, tx, item.InventoryID, item.AllocatedQuantity)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
		}
		return s.itemRepo.Delete(ctx, tx, itemID)
	})
}

func (s *ProjectInventoryService) GetItems(ctx context.Context, projectID uint64) ([]entities.ProjectInventoryItem, error) {
	if _, err := authorize(ctx, s.userRepo, authz.ProjectInventoryView, nil); err != nil {
		return nil, err
	}
	return s.itemRepo.FindByProject(ctx, projectID)
}

func (s *ProjectInventoryService) GetExpense(ctx context.Context, projectID uint64) (*dto.ProjectExpenseDTO, error) {
	if _, err := authorize(ctx, s.userRepo, authz.ProjectInventoryView, nil); err != nil {
		return nil, err
	}
	total, err := s.itemRepo.SumByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &dto.ProjectExpenseDTO{ProjectID: projectID, TotalExpense: total}, nil
}
