package services

import (
	"context"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/repositories"
	"erp-system/pkg/types"

	"go.uber.org/zap"
)

type CashFlowServiceInterface interface {
	GetCashFlows(ctx context.Context, filter types.Filter) ([]entities.CashFlow, uint64, error)
	CreateCashFlow(ctx context.Context, payload dto.CreateCashFlowDTO) (*entities.CashFlow, error)
}

type CashFlowService struct {
	cashFlowRepo repositories.CashFlowRepositoryInterface
	projectRepo  repositories.ProjectRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	logger       *zap.Logger
}

func NewCashFlowService(
	cashFlowRepo repositories.CashFlowRepositoryInterface,
	projectRepo repositories.ProjectRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) CashFlowServiceInterface {
	return &CashFlowService{cashFlowRepo: cashFlowRepo, projectRepo: projectRepo, userRepo: userRepo, logger: logger}
}

func (s *CashFlowService) GetCashFlows(ctx context.Context, filter types.Filter) ([]entities.CashFlow, uint64, error) {
	if _, err := authorize(ctx, s.userRepo, authz.CashFlowsView, nil); err != nil {
		return nil, 0, err
	}
	return s.cashFlowRepo.GetAll(ctx, filter)
}

func (s *CashFlowService) CreateCashFlow(ctx context.Context, payload dto.CreateCashFlowDTO) (*entities.CashFlow, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.CashFlowsCreate, nil)
	if err != nil {
		return nil, err
	}
	transactionDate, err := requiredDate(payload.TransactionDate)
	if err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.FindByID(ctx, nil, payload.ProjectID); err != nil {
		return nil, err
	}

	entry, err := s.cashFlowRepo.Create(ctx, &entities.CashFlow{
		ProjectID:       payload.ProjectID,
		Type:            payload.Type,
		Amount:          payload.Amount.Round(2),
		TransactionDate: transactionDate,
		Description:     payload.Description,
		CreatedBy:       &authContext.Actor.ID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("cash flow recorded",
		zap.Uint64("projectID", entry.ProjectID),
		zap.String("type", entry.Type),
		zap.String("amount", entry.Amount.StringFixed(2)))
	return entry, nil
}
