package services

import (
	"context"
	"fmt"
	"time"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/repositories"
	"erp-system/pkg/constants"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PurchaseOrderServiceInterface interface {
	GetPurchaseOrders(ctx context.Context, filter types.Filter) ([]entities.PurchaseOrder, uint64, error)
	GetByID(ctx context.Context, id uint64) (*entities.PurchaseOrder, error)
	GetByProjects(ctx context.Context, projectIDs []uint64) ([]entities.PurchaseOrder, error)
	GetItems(ctx context.Context, poID uint64) ([]entities.PurchaseOrderItem, error)
	Create(ctx context.Context, payload dto.CreatePurchaseOrderDTO) (*entities.PurchaseOrder, error)
	CreateFromShortage(ctx context.Context, payload dto.CreatePOFromShortageDTO) (*entities.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id uint64, payload dto.UpdatePOStatusDTO) (*entities.PurchaseOrder, error)
	Delete(ctx context.Context, id uint64) error
	Statuses() []dto.POStatusDTO

	GetPendingRequests(ctx context.Context) ([]entities.PurchaseOrderRequest, error)
	ApproveRequest(ctx context.Context, requestID uint64) (*entities.PurchaseOrderRequest, error)
	RejectRequest(ctx context.Context, requestID uint64, reason string) (*entities.PurchaseOrderRequest, error)
}

type PurchaseOrderService struct {
	poRepo               repositories.PurchaseOrderRepositoryInterface
	projectRepo          repositories.ProjectRepositoryInterface
	inventoryRepo        repositories.InventoryRepositoryInterface
	projectInventoryRepo repositories.ProjectInventoryRepositoryInterface
	userRepo             repositories.UserRepositoryInterface
	notificationService  NotificationServiceInterface
	txManager            repositories.TxManagerInterface
	budgetAlertRatio     decimal.Decimal
	logger               *zap.Logger
}

func NewPurchaseOrderService(
	poRepo repositories.PurchaseOrderRepositoryInterface,
	projectRepo repositories.ProjectRepositoryInterface,
	inventoryRepo repositories.InventoryRepositoryInterface,
	projectInventoryRepo repositories.ProjectInventoryRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	notificationService NotificationServiceInterface,
	txManager repositories.TxManagerInterface,
	budgetAlertRatio decimal.Decimal,
	logger *zap.Logger,
) PurchaseOrderServiceInterface {
	return &PurchaseOrderService{
		poRepo:               poRepo,
		projectRepo:          projectRepo,
		inventoryRepo:        inventoryRepo,
		projectInventoryRepo: projectInventoryRepo,
		userRepo:             userRepo,
		notificationService:  notificationService,
		txManager:            txManager,
		budgetAlertRatio:     budgetAlertRatio,
		logger:               logger,
	}
}

// PONumber имеет вид "<projectId>-PO-<unix millis>".
func PONumber(projectID uint64) string {
	return fmt.Sprintf("%d-PO-%d", projectID, timeNow().UnixMilli())
}

func (s *PurchaseOrderService) GetPurchaseOrders(ctx context.Context, filter types.Filter) ([]entities.PurchaseOrder, uint64, error) {
	if _, err := authorize(ctx, s.userRepo, authz.PurchaseOrdersView, nil); err != nil {
		return nil, 0, err
	}
	return s.poRepo.GetAll(ctx, filter)
}

func (s *PurchaseOrderService) GetByID(ctx context.Context, id uint64) (*entities.PurchaseOrder, error) {
	if _, err := authorize(ctx, s.userRepo, authz.PurchaseOrdersView, nil); err != nil {
		return nil, err
	}
	return s.loadWithItems(ctx, id)
}

// loadWithItems подгружает заказ вместе с позициями.
func (s *PurchaseOrderService) loadWithItems(ctx context.Context, id uint64) (*entities.PurchaseOrder, error) {
	po, err := s.poRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if po.Items, err = s.poRepo.GetItems(ctx, id); err != nil {
		return nil, err
	}
	return po, nil
}

// GetByProjects - заказы по нескольким проектам сразу.
func (s *PurchaseOrderService) GetByProjects(ctx context.Context, projectIDs []uint64) ([]entities.PurchaseOrder, error) {
	if _, err := authorize(ctx, s.userRepo, authz.PurchaseOrdersView, nil); err != nil {
		return nil, err
	}
	if len(projectIDs) == 0 {
		return []entities.PurchaseOrder{}, nil
	}
	return s.poRepo.FindByProjects(ctx, projectIDs)
}

func (s *PurchaseOrderService) GetItems(ctx context.Context, poID uint64) ([]entities.PurchaseOrderItem, error) {
	if _, err := authorize(ctx, s.userRepo, authz.PurchaseOrdersView, nil); err != nil {
		return nil, err
	}
	if _, err := s.poRepo.FindByID(ctx, nil, poID); err != nil {
		return nil, err
	}
	return s.poRepo.GetItems(ctx, poID)
}

func (s *PurchaseOrderService) Create(ctx context.Context, payload dto.CreatePurchaseOrderDTO) (*entities.PurchaseOrder, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.PurchaseOrdersCreate, nil)
	if err != nil {
		return nil, err
	}
	if len(payload.InventoryIDs) != len(payload.Quantities) {
		return nil, apperrors.NewBadRequestError("inventoryIds and quantities must have the same length")
	}
	expected, err := optionalDate(payload.PurchaseOrder.ExpectedDeliveryDate)
	if err != nil {
		return nil, err
	}

	header := payload.PurchaseOrder
	po := &entities.PurchaseOrder{
		ProjectID:            payload.ProjectID,
		SupplierName:         header.SupplierName,
		SupplierContact:      header.SupplierContact,
		SupplierEmail:        header.SupplierEmail,
		SupplierAddress:      header.SupplierAddress,
		ExpectedDeliveryDate: expected,
		PaymentTerms:         header.PaymentTerms,
		Notes:                header.Notes,
	}

	var created []entities.Notification
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		// Цена позиции берётся из склада на момент заказа
		items := make([]entities.PurchaseOrderItem, 0, len(payload.InventoryIDs))
		for i, inventoryID := range payload.InventoryIDs {
			inv, err := s.inventoryRepo.FindByID(ctx, tx, inventoryID)
			if err != nil {
				return err
			}
			id := inv.ID
			items = append(items, entities.PurchaseOrderItem{
				InventoryID:     &id,
				Description:     inv.Name,
				QuantityOrdered: payload.Quantities[i],
				UnitPrice:       inv.PerQuantityPrice,
			})
		}
		po.Items = items

		created, err = s.place(ctx, tx, authContext, po)
		return err
	})
	if err != nil {
		s.logger.Error("failed to create purchase order", zap.Uint64("projectID", payload.ProjectID), zap.Error(err))
		return nil, err
	}

	s.notificationService.Dispatch(ctx, created)
	return s.loadWithItems(ctx, po.ID)
}

func (s *PurchaseOrderService) CreateFromShortage(ctx context.Context, payload dto.CreatePOFromShortageDTO) (*entities.PurchaseOrder, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.PurchaseOrdersCreate, nil)
	if err != nil {
		return nil, err
	}
	supplier := payload.SupplierName
	if supplier == "" {
		supplier = constants.DefaultSupplierName
	}

	po := &entities.PurchaseOrder{ProjectID: payload.ProjectID, SupplierName: supplier}

	var created []entities.Notification
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		item, err := s.projectInventoryRepo.FindByID(ctx, tx, payload.ProjectInventoryItemID)
		if err != nil {
			return err
		}
		// 1. Позиция должна быть из этого проекта, с дефицитом и без заказа
		if item.ProjectID != payload.ProjectID {
			return apperrors.NewBadRequestError("Inventory item does not belong to this project")
		}
		if item.ShortageQuantity <= 0 {
			return apperrors.NewBadRequestError("Item has no shortage")
		}
		if item.POCreated {
			return apperrors.NewConflictError("A purchase order was already created for this shortage")
		}

		// 2. Заказываем ровно дефицит
		inventoryID := item.InventoryID
		po.Items = []entities.PurchaseOrderItem{{
			InventoryID:     &inventoryID,
			Description:     item.InventoryName,
			QuantityOrdered: item.ShortageQuantity,
			UnitPrice:       item.UnitPrice,
		}}
		if err := s.projectInventoryRepo.MarkPOCreated(ctx, tx, item.ID); err != nil {
			return err
		}

		created, err = s.place(ctx, tx, authContext, po)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notificationService.Dispatch(ctx, created)
	return s.loadWithItems(ctx, po.ID)
}

// place сохраняет заказ, позиции и заявку на утверждение. Заказ superuser
// утверждается сразу, остальные ждут супер-админа.
func (s *PurchaseOrderService) place(ctx context.Context, tx pgx.Tx, authContext *authz.Context, po *entities.PurchaseOrder) ([]entities.Notification, error) {
	actor := authContext.Actor
	project, err := s.projectRepo.FindByID(ctx, tx, po.ProjectID)
	if err != nil {
		return nil, err
	}

	po.PONumber = PONumber(project.ID)
	po.Status = constants.POCreated
	po.CreatedBy = actor.ID
	po.TotalAmount = entities.PriceItems(po.Items)
	autoApprove := authContext.IsSuperuser()
	po.IsApproved = autoApprove

	// === Заказ и позиции ===
	id, err := s.poRepo.Create(ctx, tx, po)
	if err != nil {
		return nil, err
	}
	po.ID = id
	if err := s.poRepo.CreateItems(ctx, tx, id, po.Items); err != nil {
		return nil, err
	}

	// === Заявка на утверждение ===
	req := &entities.PurchaseOrderRequest{
		PurchaseOrderID: id,
		RequestStatus:   constants.StatusPending,
		RequestedBy:     actor.ID,
	}
	if autoApprove {
		now := timeNow()
		req.RequestStatus = constants.StatusApproved
		req.ApprovedBy = &actor.ID
		req.ApprovalDate = &now
	}
	if req.ID, err = s.poRepo.CreateRequest(ctx, tx, req); err != nil {
		return nil, err
	}

	if autoApprove {
		s.logger.Info("purchase order auto-approved", zap.String("poNumber", po.PONumber))
		return s.markProjectOrdered(ctx, tx, project)
	}
	return s.notificationService.NotifyRole(ctx, tx, constants.RoleSuperAdmin, NotificationMessage{
		Type:            constants.NotificationPOApprovalRequired,
		Title:           "Purchase Order Approval Required",
		Message:         fmt.Sprintf("Purchase order %s created by %s requires your approval.", po.PONumber, actor.Username),
		RelatedEntity:   constants.EntityPurchaseOrder,
		RelatedEntityID: id,
	})
}

// markProjectOrdered переводит проект в ORDER_STAGE и проверяет бюджет.
func (s *PurchaseOrderService) markProjectOrdered(ctx context.Context, tx pgx.Tx, project *entities.Project) ([]entities.Notification, error) {
	if project.ProjectStage != constants.ProjectStageOrder {
		project.ProjectStage = constants.ProjectStageOrder
		if err := s.projectRepo.Update(ctx, tx, project); err != nil {
			return nil, err
		}
	}
	return s.checkBudget(ctx, tx, project)
}

// BudgetExhausted: остаток бюджета опустился до ratio от общего или ниже.
// Проекты без бюджета не алертят.
func BudgetExhausted(budget, spent, ratio decimal.Decimal) bool {
	if !budget.IsPositive() {
		return false
	}
	remaining := budget.Sub(spent)
	return remaining.LessThanOrEqual(budget.Mul(ratio))
}

// checkBudget шлёт супер-админам алерт, когда утверждённые заказы
// съели бюджет проекта до порога. Проект без бюджета не проверяется.
func (s *PurchaseOrderService) checkBudget(ctx context.Context, tx pgx.Tx, project *entities.Project) ([]entities.Notification, error) {
	if !project.ProjectBudget.IsPositive() {
		return nil, nil
	}
	spent, err := s.poRepo.SumApprovedByProject(ctx, tx, project.ID)
	if err != nil {
		return nil, err
	}
	if !BudgetExhausted(project.ProjectBudget, spent, s.budgetAlertRatio) {
		return nil, nil
	}

	remaining := project.ProjectBudget.Sub(spent)
	s.logger.Warn("project budget alert",
		zap.Uint64("projectID", project.ID),
		zap.String("remaining", remaining.StringFixed(2)),
		zap.String("budget", project.ProjectBudget.StringFixed(2)))
	return s.notificationService.NotifyRole(ctx, tx, constants.RoleSuperAdmin, NotificationMessage{
		Type:  constants.NotificationBudgetAlert,
		Title: "Budget Alert",
		Message: fmt.Sprintf("Project %d (%s) has %s AED remaining out of %s AED.",
			project.ID, project.ProjectDescription, remaining.StringFixed(2), project.ProjectBudget.StringFixed(2)),
		RelatedEntity:   constants.EntityProject,
		RelatedEntityID: project.ID,
	})
}

// UpdateStatus меняет статус заказа. Для DELIVERED проставляется дата доставки.
func (s *PurchaseOrderService) UpdateStatus(ctx context.Context, id uint64, payload dto.UpdatePOStatusDTO) (*entities.PurchaseOrder, error) {
	if _, err := authorize(ctx, s.userRepo, authz.PurchaseOrdersUpdate, nil); err != nil {
		return nil, err
	}
	status := constants.POStatus(payload.Status)
	if !status.IsValid() {
		return nil, apperrors.NewBadRequestError("Invalid purchase order status: " + payload.Status)
	}

	var delivered *time.Time
	if status == constants.PODelivered {
		now := timeNow()
		delivered = &now
	}
	var notes *string
	if payload.Notes.Valid {
		notes = &payload.Notes.String
	}

	if err := s.poRepo.UpdateStatus(ctx, nil, id, status, delivered, notes); err != nil {
		return nil, err
	}
	s.logger.Info("purchase order status changed", zap.Uint64("poID", id), zap.String("status", string(status)))
	return s.loadWithItems(ctx, id)
}

func (s *PurchaseOrderService) Delete(ctx context.Context, id uint64) error {
	if _, err := authorize(ctx, s.userRepo, authz.PurchaseOrdersDelete, nil); err != nil {
		return err
	}
	po, err := s.poRepo.FindByID(ctx, nil, id)
	if err != nil {
		return err
	}
	// Удалять можно только пока заказ не ушёл поставщику
	if po.Status != constants.POCreated {
		return apperrors.NewBadRequestError("Cannot delete PO that has been sent to supplier")
	}
	return s.poRepo.Delete(ctx, id)
}

// Statuses - список статусов заказа для фронта.
func (s *PurchaseOrderService) Statuses() []dto.POStatusDTO {
	out := make([]dto.POStatusDTO, 0, len(constants.POStatuses))
	for _, st := range constants.POStatuses {
		out = append(out, dto.POStatusDTO{Value: string(st), DisplayName: st.DisplayName()})
	}
	return out
}

// ======================= ЗАЯВКИ НА УТВЕРЖДЕНИЕ =======================

func (s *PurchaseOrderService) GetPendingRequests(ctx context.Context) ([]entities.PurchaseOrderRequest, error) {
	if _, err := authorize(ctx, s.userRepo, authz.PurchaseOrdersApprove, nil); err != nil {
		return nil, err
	}
	return s.poRepo.FindPendingRequests(ctx)
}

func (s *PurchaseOrderService) ApproveRequest(ctx context.Context, requestID uint64) (*entities.PurchaseOrderRequest, error) {
	return s.decide(ctx, requestID, constants.StatusApproved, "")
}

func (s *PurchaseOrderService) RejectRequest(ctx context.Context, requestID uint64, reason string) (*entities.PurchaseOrderRequest, error) {
	if reason == "" {
		return nil, apperrors.NewBadRequestError("Rejection reason is required")
	}
	return s.decide(ctx, requestID, constants.StatusRejected, reason)
}

// decide - общая часть ApproveRequest и RejectRequest.
func (s *PurchaseOrderService) decide(ctx context.Context, requestID uint64, status, reason string) (*entities.PurchaseOrderRequest, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.PurchaseOrdersApprove, nil)
	if err != nil {
		return nil, err
	}
	actor := authContext.Actor

	var created []entities.Notification
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.poRepo.FindRequestByID(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if req.RequestStatus != constants.StatusPending {
			return apperrors.NewBadRequestError("Purchase Order has already been processed")
		}
		po, err := s.poRepo.FindByID(ctx, tx, req.PurchaseOrderID)
		if err != nil {
			return err
		}

		now := timeNow()
		req.RequestStatus = status
		req.ApprovedBy = &actor.ID
		req.ApprovalDate = &now

		msg := NotificationMessage{
			Type:            constants.NotificationPOApproved,
			Title:           "Purchase Order Approved",
			Message:         fmt.Sprintf("Your purchase order %s has been approved by %s.", po.PONumber, actor.Username),
			RelatedEntity:   constants.EntityPurchaseOrder,
			RelatedEntityID: po.ID,
		}

		// Отказ отменяет сам заказ
		if status == constants.StatusRejected {
			req.RejectionReason = &reason
			if err := s.poRepo.UpdateStatus(ctx, tx, po.ID, constants.POCancelled, nil, nil); err != nil {
				return err
			}
			msg.Type = constants.NotificationPORejected
			msg.Title = "Purchase Order Rejected"
			msg.Message = fmt.Sprintf("Your purchase order %s has been rejected by %s. Reason: %s", po.PONumber, actor.Username, reason)
		}
		if err := s.poRepo.DecideRequest(ctx, tx, req); err != nil {
			return err
		}

		// Утверждение: флаг на заказе, стадия проекта, проверка бюджета
		if status == constants.StatusApproved {
			if err := s.poRepo.SetApproved(ctx, tx, po.ID); err != nil {
				return err
			}
			project, err := s.projectRepo.FindByID(ctx, tx, po.ProjectID)
			if err != nil {
				return err
			}
			alerts, err := s.markProjectOrdered(ctx, tx, project)
			if err != nil {
				return err
			}
			created = append(created, alerts...)
		}

		sent, err := s.notificationService.NotifyUsers(ctx, tx, []uint64{req.RequestedBy}, msg)
		if err != nil {
			return err
		}
		created = append(created, sent...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notificationService.Dispatch(ctx, created)
	s.logger.Info("purchase order request decided", zap.Uint64("requestID", requestID), zap.String("status", status))
	return s.poRepo.FindRequestByID(ctx, nil, requestID)
}
