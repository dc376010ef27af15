package services

import (
	"context"
	"fmt"
	"strings"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/repositories"
	"erp-system/pkg/constants"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type InventoryServiceInterface interface {
	GetInventory(ctx context.Context, filter types.Filter) ([]entities.Inventory, uint64, error)
	GetByCode(ctx context.Context, code string) (*entities.Inventory, error)

	RequestCreate(ctx context.Context, payload dto.InventoryRequestDTO) (*entities.InventoryRequest, error)
	RequestUpdate(ctx context.Context, code string, payload dto.InventoryRequestDTO) (*entities.InventoryRequest, error)
	RequestDelete(ctx context.Context, code string) (*entities.InventoryRequest, error)
	GetPendingRequests(ctx context.Context) ([]entities.InventoryRequest, error)
	GetMyRequests(ctx context.Context) ([]entities.InventoryRequest, error)
	ApproveRequest(ctx context.Context, id uint64) (*entities.InventoryRequest, error)
	RejectRequest(ctx context.Context, id uint64, reason string) (*entities.InventoryRequest, error)
}

type InventoryService struct {
	inventoryRepo       repositories.InventoryRepositoryInterface
	requestRepo         repositories.InventoryRequestRepositoryInterface
	userRepo            repositories.UserRepositoryInterface
	notificationService NotificationServiceInterface
	txManager           repositories.TxManagerInterface
	logger              *zap.Logger
}

func NewInventoryService(
	inventoryRepo repositories.InventoryRepositoryInterface,
	requestRepo repositories.InventoryRequestRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	notificationService NotificationServiceInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) InventoryServiceInterface {
	return &InventoryService{
		inventoryRepo:       inventoryRepo,
		requestRepo:         requestRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		txManager:           txManager,
		logger:              logger,
	}
}

func (s *InventoryService) GetInventory(ctx context.Context, filter types.Filter) ([]entities.Inventory, uint64, error) {
	if _, err := authorize(ctx, s.userRepo, authz.InventoryView, nil); err != nil {
		return nil, 0, err
	}
	return s.inventoryRepo.GetAll(ctx, filter)
}

// GetByCode ищет позицию по коду INV0001.
func (s *InventoryService) GetByCode(ctx context.Context, code string) (*entities.Inventory, error) {
	if _, err := authorize(ctx, s.userRepo, authz.InventoryView, nil); err != nil {
		return nil, err
	}
	return s.inventoryRepo.FindByCode(ctx, nil, code)
}

func inventoryRequestFromDTO(requestType string, payload dto.InventoryRequestDTO) (*entities.InventoryRequest, error) {
	productionDate, err := optionalDate(payload.ProductionDate)
	if err != nil {
		return nil, err
	}
	expiryDate, err := optionalDate(payload.ExpiryDate)
	if err != nil {
		return nil, err
	}
	if productionDate != nil && expiryDate != nil && expiryDate.Before(*productionDate) {
		return nil, apperrors.NewBadRequestError("Expiry date cannot be before the production date")
	}
	quantity := payload.Quantity
	price := payload.PerQuantityPrice
	return &entities.InventoryRequest{
		RequestType:      requestType,
		Name:             payload.Name,
		ProductionDate:   productionDate,
		ExpiryDate:       expiryDate,
		Quantity:         &quantity,
		PerQuantityPrice: &price,
		BillNumber:       optionalString(payload.BillNumber),
		SupplierName:     optionalString(payload.SupplierName),
	}, nil
}

// submit сохраняет заявку и оповещает супер-админов. Заявка остаётся,
// даже если уведомления не ушли.
func (s *InventoryService) submit(ctx context.Context, actor *entities.User, req *entities.InventoryRequest) (*entities.InventoryRequest, error) {
	req.RequestedBy = actor.ID
	req.Status = constants.StatusPending
	saved, err := s.requestRepo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	var created []entities.Notification
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		created, err = s.notificationService.NotifyRole(ctx, tx, constants.RoleSuperAdmin, NotificationMessage{
			Type:  constants.NotificationInventoryRequestCreated,
			Title: "Inventory Request",
			Message: fmt.Sprintf("%s submitted an inventory %s request for '%s'.",
				actor.Username, strings.ToLower(saved.RequestType), saved.Name),
			RelatedEntity:   constants.EntityInventoryRequest,
			RelatedEntityID: saved.ID,
		})
		return err
	})
	if err != nil {
		s.logger.Warn("inventory request stored but approvers were not notified", zap.Uint64("requestID", saved.ID), zap.Error(err))
	} else {
		s.notificationService.Dispatch(ctx, created)
	}
	return saved, nil
}

func (s *InventoryService) RequestCreate(ctx context.Context, payload dto.InventoryRequestDTO) (*entities.InventoryRequest, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.InventoryRequest, nil)
	if err != nil {
		return nil, err
	}
	req, err := inventoryRequestFromDTO(constants.InventoryRequestCreate, payload)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, authContext.Actor, req)
}

func (s *InventoryService) RequestUpdate(ctx context.Context, code string, payload dto.InventoryRequestDTO) (*entities.InventoryRequest, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.InventoryRequest, nil)
	if err != nil {
		return nil, err
	}
	if _, err := s.inventoryRepo.FindByCode(ctx, nil, code); err != nil {
		return nil, err
	}
	req, err := inventoryRequestFromDTO(constants.InventoryRequestUpdate, payload)
	if err != nil {
		return nil, err
	}
	req.TargetInventoryID = &code
	return s.submit(ctx, authContext.Actor, req)
}

func (s *InventoryService) RequestDelete(ctx context.Context, code string) (*entities.InventoryRequest, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.InventoryRequest, nil)
	if err != nil {
		return nil, err
	}
	target, err := s.inventoryRepo.FindByCode(ctx, nil, code)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, authContext.Actor, &entities.InventoryRequest{
		RequestType:       constants.InventoryRequestDelete,
		TargetInventoryID: &code,
		Name:              target.Name,
	})
}

// ======================= ОЧЕРЕДЬ ЗАЯВОК =======================

func (s *InventoryService) GetPendingRequests(ctx context.Context) ([]entities.InventoryRequest, error) {
	if _, err := authorize(ctx, s.userRepo, authz.InventoryApprove, nil); err != nil {
		return nil, err
	}
	return s.requestRepo.FindPending(ctx)
}

func (s *InventoryService) GetMyRequests(ctx context.Context) ([]entities.InventoryRequest, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.InventoryRequest, nil)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.FindByRequester(ctx, authContext.Actor.ID)
}

func (s *InventoryService) ApproveRequest(ctx context.Context, id uint64) (*entities.InventoryRequest, error) {
	return s.decide(ctx, id, constants.StatusApproved, "")
}

func (s *InventoryService) RejectRequest(ctx context.Context, id uint64, reason string) (*entities.InventoryRequest, error) {
	if reason == "" {
		return nil, apperrors.NewBadRequestError("Rejection reason is required")
	}
	return s.decide(ctx, id, constants.StatusRejected, reason)
}

// decide - общая часть ApproveRequest и RejectRequest.
func (s *InventoryService) decide(ctx context.Context, id uint64, status, reason string) (*entities.InventoryRequest, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.InventoryApprove, nil)
	if err != nil {
		return nil, err
	}
	actor := authContext.Actor

	var created []entities.Notification
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.Status != constants.StatusPending {
			return apperrors.NewBadRequestError("Request has already been processed")
		}

		now := timeNow()
		req.Status = status
		req.ApprovedBy = &actor.ID
		req.ApprovalDate = &now
		kind := strings.ToLower(req.RequestType)

		msg := NotificationMessage{
			Type:            constants.NotificationInventoryApproved,
			Title:           "Inventory Request Approved",
			Message:         fmt.Sprintf("Your inventory %s request for '%s' has been approved.", kind, req.Name),
			RelatedEntity:   constants.EntityInventoryRequest,
			RelatedEntityID: req.ID,
		}
		// Изменение склада и решение по заявке в одной транзакции
		if status == constants.StatusApproved {
			if err := s.apply(ctx, tx, req); err != nil {
				return err
			}
		} else {
			req.RejectionReason = &reason
			msg.Type = constants.NotificationInventoryRejected
			msg.Title = "Inventory Request Rejected"
			msg.Message = fmt.Sprintf("Your inventory %s request for '%s' has been rejected. Reason: %s", kind, req.Name, reason)
		}

		if err := s.requestRepo.Decide(ctx, tx, req); err != nil {
			return err
		}
		created, err = s.notificationService.NotifyUsers(ctx, tx, []uint64{req.RequestedBy}, msg)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notificationService.Dispatch(ctx, created)
	s.logger.Info("inventory request decided", zap.Uint64("requestID", id), zap.String("status", status))
	return s.requestRepo.FindByID(ctx, nil, id)
}

// apply применяет одобренное изменение к таблице inventory.
func (s *InventoryService) apply(ctx context.Context, tx pgx.Tx, req *entities.InventoryRequest) error {
	switch req.RequestType {
	case constants.InventoryRequestCreate:
		code, err := s.inventoryRepo.NextCode(ctx, tx)
		if err != nil {
			return err
		}
		item := &entities.Inventory{
			InventoryID:    code,
			Name:           req.Name,
			ProductionDate: req.ProductionDate,
			ExpiryDate:     req.ExpiryDate,
		}
		applyInventoryPayload(item, req)
		_, err = s.inventoryRepo.Create(ctx, tx, item)
		return err

	case constants.InventoryRequestUpdate:
		if req.TargetInventoryID == nil {
			return apperrors.NewBadRequestError("Update request has no target inventory")
		}
		item, err := s.inventoryRepo.FindByCode(ctx, tx, *req.TargetInventoryID)
		if err != nil {
			return err
		}
		item.Name = req.Name
		item.ProductionDate = req.ProductionDate
		item.ExpiryDate = req.ExpiryDate
		applyInventoryPayload(item, req)
		return s.inventoryRepo.Update(ctx, tx, item)

	case constants.InventoryRequestDelete:
		if req.TargetInventoryID == nil {
			return apperrors.NewBadRequestError("Delete request has no target inventory")
		}
		return s.inventoryRepo.DeleteByCode(ctx, tx, *req.TargetInventoryID)
	}
	return apperrors.NewBadRequestError("Unknown inventory request type " + req.RequestType)
}

func applyInventoryPayload(item *entities.Inventory, req *entities.InventoryRequest) {
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.PerQuantityPrice != nil {
		item.PerQuantityPrice = *req.PerQuantityPrice
	}
	if req.BillNumber != nil {
		item.BillNumber = *req.BillNumber
	}
	if req.SupplierName != nil {
		item.SupplierName = *req.SupplierName
	}
	item.RecalculateTotal()
}
