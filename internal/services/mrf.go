package services

import (
	"context"
	"fmt"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/repositories"
	"erp-system/pkg/constants"
	apperrors "erp-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type MRFServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateMRFDTO) (*entities.MaterialRequestForm, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateMRFDTO) (*entities.MaterialRequestForm, error)
	Delete(ctx context.Context, id uint64) error
	GetByID(ctx context.Context, id uint64) (*entities.MaterialRequestForm, error)
	GetByNumber(ctx context.Context, number string) (*entities.MaterialRequestForm, error)
	GetAll(ctx context.Context) ([]entities.MaterialRequestForm, error)
	GetMine(ctx context.Context) ([]entities.MaterialRequestForm, error)
	// GetPending отдаёт то, что вызывающий может решить: superuser видит
	// все заявки PENDING, остальные только ниже порога.
	GetPending(ctx context.Context) ([]entities.MaterialRequestForm, error)
	GetPendingTier(ctx context.Context, superadminTier bool) ([]entities.MaterialRequestForm, error)
	Approve(ctx context.Context, id uint64) (*entities.MaterialRequestForm, error)
	Reject(ctx context.Context, id uint64, reason string) (*entities.MaterialRequestForm, error)
}

type MRFService struct {
	mrfRepo             repositories.MRFRepositoryInterface
	userRepo            repositories.UserRepositoryInterface
	notificationService NotificationServiceInterface
	txManager           repositories.TxManagerInterface
	threshold           decimal.Decimal
	logger              *zap.Logger
}

func NewMRFService(
	mrfRepo repositories.MRFRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	notificationService NotificationServiceInterface,
	txManager repositories.TxManagerInterface,
	threshold decimal.Decimal,
	logger *zap.Logger,
) MRFServiceInterface {
	return &MRFService{
		mrfRepo:             mrfRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		txManager:           txManager,
		threshold:           threshold,
		logger:              logger,
	}
}

func mrfItemsFromDTO(items []dto.MRFItemDTO) []entities.MRFItem {
	out := make([]entities.MRFItem, 0, len(items))
	for _, it := range items {
		out = append(out, entities.MRFItem{
			ItemDescription: it.ItemDescription,
			Quantity:        it.Quantity,
			Specifications:  it.Specifications,
			UnitPrice:       it.UnitPrice,
		})
	}
	return out
}

// Create создаёт MRF в PENDING, номер выдаётся внутри той же транзакции.
func (s *MRFService) Create(ctx context.Context, payload dto.CreateMRFDTO) (*entities.MaterialRequestForm, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.MRFCreate, nil)
	if err != nil {
		return nil, err
	}

	mrf := &entities.MaterialRequestForm{
		RequestorName:       payload.RequestorName,
		RequestorDepartment: payload.RequestorDepartment,
		RequestorEmployeeID: payload.RequestorEmployeeID,
		ReasonJustification: payload.ReasonJustification,
		Status:              constants.StatusPending,
		RequestedBy:         authContext.Actor.ID,
		Items:               mrfItemsFromDTO(payload.Items),
	}
	mrf.Recalculate(s.threshold)

	// Номер, шапка и позиции в одной транзакции
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		number, err := s.mrfRepo.NextNumber(ctx, tx)
		if err != nil {
			return err
		}
		mrf.MRFNumber = number

		id, err := s.mrfRepo.Create(ctx, tx, mrf)
		if err != nil {
			return err
		}
		mrf.ID = id
		return s.mrfRepo.ReplaceItems(ctx, tx, id, mrf.Items)
	})
	if err != nil {
		s.logger.Error("failed to create MRF", zap.Uint64("userID", authContext.Actor.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("MRF created",
		zap.String("mrfNumber", mrf.MRFNumber),
		zap.String("total", mrf.TotalAmount.StringFixed(2)),
		zap.Bool("requiresSuperadmin", mrf.RequiresSuperadmin))
	return s.mrfRepo.FindByID(ctx, nil, mrf.ID)
}

// loadOwnPending блокирует заявку и проверяет, что её ещё можно менять.
func (s *MRFService) loadOwnPending(ctx context.Context, tx pgx.Tx, id uint64, permission string) (*entities.MaterialRequestForm, error) {
	authContext, err := buildAuthzContext(ctx, s.userRepo)
	if err != nil {
		return nil, err
	}
	if !authContext.HasPermission(permission) {
		return nil, apperrors.ErrForbidden
	}

	mrf, err := s.mrfRepo.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	authContext.Target = mrf
	if !authz.CanDo(permission, *authContext) {
		return nil, apperrors.NewForbiddenError("Only the requester can change this MRF")
	}
	if !mrf.IsPending() {
		return nil, apperrors.NewBadRequestError("Only pending MRFs can be changed")
	}
	return mrf, nil
}

// Update заменяет шапку и позиции MRF целиком. Править можно только свою MRF в PENDING.
func (s *MRFService) Update(ctx context.Context, id uint64, payload dto.UpdateMRFDTO) (*entities.MaterialRequestForm, error) {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		mrf, err := s.loadOwnPending(ctx, tx, id, authz.MRFUpdate)
		if err != nil {
			return err
		}

		mrf.RequestorName = payload.RequestorName
		mrf.RequestorDepartment = payload.RequestorDepartment
		mrf.RequestorEmployeeID = payload.RequestorEmployeeID
		mrf.ReasonJustification = payload.ReasonJustification
		mrf.Items = mrfItemsFromDTO(payload.Items)
		mrf.Recalculate(s.threshold)

		if err := s.mrfRepo.UpdateHeader(ctx, tx, mrf); err != nil {
			return err
		}
		return s.mrfRepo.ReplaceItems(ctx, tx, mrf.ID, mrf.Items)
	})
	if err != nil {
		return nil, err
	}
	return s.mrfRepo.FindByID(ctx, nil, id)
}

// Delete удаляет свою MRF, пока она в PENDING.
func (s *MRFService) Delete(ctx context.Context, id uint64) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := s.loadOwnPending(ctx, tx, id, authz.MRFDelete); err != nil {
			return err
		}
		return s.mrfRepo.Delete(ctx, tx, id)
	})
}

func (s *MRFService) GetByID(ctx context.Context, id uint64) (*entities.MaterialRequestForm, error) {
	if _, err := authorize(ctx, s.userRepo, authz.MRFView, nil); err != nil {
		return nil, err
	}
	return s.mrfRepo.FindByID(ctx, nil, id)
}

func (s *MRFService) GetByNumber(ctx context.Context, number string) (*entities.MaterialRequestForm, error) {
	if _, err := authorize(ctx, s.userRepo, authz.MRFView, nil); err != nil {
		return nil, err
	}
	return s.mrfRepo.FindByNumber(ctx, number)
}

func (s *MRFService) GetAll(ctx context.Context) ([]entities.MaterialRequestForm, error) {
	if _, err := authorize(ctx, s.userRepo, authz.MRFView, nil); err != nil {
		return nil, err
	}
	return s.mrfRepo.List(ctx, repositories.MRFQuery{})
}

func (s *MRFService) GetMine(ctx context.Context) ([]entities.MaterialRequestForm, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.MRFView, nil)
	if err != nil {
		return nil, err
	}
	return s.mrfRepo.List(ctx, repositories.MRFQuery{RequestedBy: authContext.Actor.ID})
}

func (s *MRFService) GetPending(ctx context.Context) ([]entities.MaterialRequestForm, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.MRFApprove, nil)
	if err != nil {
		return nil, err
	}
	q := repositories.MRFQuery{Status: constants.StatusPending}
	if !authContext.IsSuperuser() {
		belowThreshold := false
		q.RequiresSuperadmin = &belowThreshold
	}
	return s.mrfRepo.List(ctx, q)
}

// GetPendingTier - очередь одного уровня. Очередь супер-админа видит только суперпользователь.
func (s *MRFService) GetPendingTier(ctx context.Context, superadminTier bool) ([]entities.MaterialRequestForm, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.MRFApprove, nil)
	if err != nil {
		return nil, err
	}
	if superadminTier && !authContext.IsSuperuser() {
		return nil, apperrors.ErrForbidden
	}
	return s.mrfRepo.List(ctx, repositories.MRFQuery{
		Status:             constants.StatusPending,
		RequiresSuperadmin: &superadminTier,
	})
}

func (s *MRFService) Approve(ctx context.Context, id uint64) (*entities.MaterialRequestForm, error) {
	return s.decide(ctx, id, constants.StatusApproved, "")
}

func (s *MRFService) Reject(ctx context.Context, id uint64, reason string) (*entities.MaterialRequestForm, error) {
	if reason == "" {
		return nil, apperrors.NewBadRequestError("Rejection reason is required")
	}
	return s.decide(ctx, id, constants.StatusRejected, reason)
}

// decide - общая часть Approve и Reject.
func (s *MRFService) decide(ctx context.Context, id uint64, status, reason string) (*entities.MaterialRequestForm, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.MRFApprove, nil)
	if err != nil {
		return nil, err
	}
	actor := authContext.Actor

	var created []entities.Notification
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		mrf, err := s.mrfRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if !mrf.IsPending() {
			return apperrors.NewBadRequestError(fmt.Sprintf("MRF %s is not pending", mrf.MRFNumber))
		}
		// Уровень утверждения проверяем уже по заблокированной строке
		authContext.Target = mrf
		if !authz.CanDo(authz.MRFApprove, *authContext) {
			return apperrors.NewForbiddenError("This MRF requires SuperAdmin approval")
		}

		now := timeNow()
		mrf.Status = status
		mrf.ApprovedBy = &actor.ID
		mrf.ApprovalDate = &now

		msg := NotificationMessage{
			Type:            constants.NotificationMRFApproved,
			Title:           "MRF Approved",
			Message:         fmt.Sprintf("Your MRF %s has been approved by %s.", mrf.MRFNumber, actor.Username),
			RelatedEntity:   constants.EntityMRF,
			RelatedEntityID: mrf.ID,
		}
		if status == constants.StatusRejected {
			mrf.RejectionReason = &reason
			msg.Type = constants.NotificationMRFRejected
			msg.Title = "MRF Rejected"
			msg.Message = fmt.Sprintf("Your MRF %s has been rejected by %s. Reason: %s", mrf.MRFNumber, actor.Username, reason)
		}

		if err := s.mrfRepo.Decide(ctx, tx, mrf); err != nil {
			return err
		}
		created, err = s.notificationService.NotifyUsers(ctx, tx, []uint64{mrf.RequestedBy}, msg)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notificationService.Dispatch(ctx, created)
	s.logger.Info("MRF decided", zap.Uint64("mrfID", id), zap.String("status", status), zap.Uint64("actorID", actor.ID))
	return s.mrfRepo.FindByID(ctx, nil, id)
}
