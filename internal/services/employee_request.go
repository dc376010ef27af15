package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"erp-system/config"
	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/repositories"
	"erp-system/pkg/constants"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/filestorage"
	"erp-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const employeeDocumentContext = "employee_document"

type EmployeeRequestServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateEmployeeDTO, document *multipart.FileHeader) (*entities.EmployeeRequest, error)
	GetPending(ctx context.Context) ([]entities.EmployeeRequest, error)
	GetMine(ctx context.Context) ([]entities.EmployeeRequest, error)
	GetByID(ctx context.Context, id uint64) (*entities.EmployeeRequest, error)
	Approve(ctx context.Context, id uint64) (*entities.EmployeeRequest, error)
	Reject(ctx context.Context, id uint64, reason string) (*entities.EmployeeRequest, error)
	// OpenDocument возвращает архив документов сотрудника и имя для скачивания.
	OpenDocument(ctx context.Context, employeeID uint64) (*os.File, string, error)
}

type EmployeeRequestService struct {
	requestRepo         repositories.EmployeeRequestRepositoryInterface
	employeeRepo        repositories.EmployeeRepositoryInterface
	userRepo            repositories.UserRepositoryInterface
	notificationService NotificationServiceInterface
	fileStorage         filestorage.FileStorageInterface
	txManager           repositories.TxManagerInterface
	logger              *zap.Logger
}

func NewEmployeeRequestService(
	requestRepo repositories.EmployeeRequestRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	notificationService NotificationServiceInterface,
	fileStorage filestorage.FileStorageInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) EmployeeRequestServiceInterface {
	return &EmployeeRequestService{
		requestRepo:         requestRepo,
		employeeRepo:        employeeRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		fileStorage:         fileStorage,
		txManager:           txManager,
		logger:              logger,
	}
}

// storeDocument проверяет и сохраняет документ сотрудника, возвращает путь.
func (s *EmployeeRequestService) storeDocument(payload dto.CreateEmployeeDTO, document *multipart.FileHeader) (string, error) {
	file, err := document.Open()
	if err != nil {
		s.logger.Error("failed to open uploaded document", zap.Error(err))
		return "", apperrors.ErrInternalServer
	}
	defer file.Close()

	if err := utils.ValidateFile(document, file, employeeDocumentContext); err != nil {
		return "", apperrors.NewHttpError(http.StatusBadRequest, "Document: "+err.Error(), err, nil)
	}

	rules := config.UploadContexts[employeeDocumentContext]
	path, err := s.fileStorage.Save(file, document.Filename, rules.PathPrefix, payload.PassportID+"_"+payload.Name)
	if err != nil {
		s.logger.Error("failed to store uploaded document", zap.Error(err))
		return "", apperrors.ErrInternalServer
	}
	return path, nil
}

func (s *EmployeeRequestService) Create(ctx context.Context, payload dto.CreateEmployeeDTO, document *multipart.FileHeader) (*entities.EmployeeRequest, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.EmployeeRequestsCreate, nil)
	if err != nil {
		return nil, err
	}

	joiningDate, err := requiredDate(payload.JoiningDate)
	if err != nil {
		return nil, err
	}
	if !payload.Salary.IsPositive() {
		return nil, apperrors.NewBadRequestError("Salary must be greater than zero")
	}

	// Номера не должны совпадать ни с сотрудниками, ни с открытыми заявками
	takenByEmployee, err := s.employeeRepo.IdentityTaken(ctx, nil, payload.EmpID, payload.PassportID, payload.EmiratesID)
	if err != nil {
		return nil, err
	}
	takenByRequest, err := s.requestRepo.IdentityTaken(ctx, payload.EmpID, payload.PassportID, payload.EmiratesID)
	if err != nil {
		return nil, err
	}
	if takenByEmployee || takenByRequest {
		return nil, apperrors.NewConflictError("Employee ID, passport or Emirates ID already exists")
	}

	req := &entities.EmployeeRequest{
		Name:        payload.Name,
		EmpID:       payload.EmpID,
		PassportID:  payload.PassportID,
		EmiratesID:  payload.EmiratesID,
		Phone:       payload.Phone,
		JoiningDate: joiningDate,
		Salary:      payload.Salary,
		Comments:    payload.Comments,
		Status:      constants.StatusPending,
		RequestedBy: authContext.Actor.ID,
	}
	// Файл сохраняем до транзакции, при ошибке удаляем
	if document != nil {
		path, err := s.storeDocument(payload, document)
		if err != nil {
			return nil, err
		}
		req.DocumentPath = &path
	}

	var created []entities.Notification
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		id, err := s.requestRepo.Create(ctx, tx, req)
		if err != nil {
			return err
		}
		req.ID = id

		created, err = s.notificationService.NotifyRole(ctx, tx, constants.RoleSuperAdmin, NotificationMessage{
			Type:            constants.NotificationEmployeeRequestCreated,
			Title:           "New Employee Request",
			Message:         fmt.Sprintf("%s requested approval for employee %s (%s).", authContext.Actor.Username, req.Name, req.EmpID),
			RelatedEntity:   constants.EntityEmployeeRequest,
			RelatedEntityID: id,
		})
		return err
	})
	if err != nil {
		if req.DocumentPath != nil {
			if errDel := s.fileStorage.Delete(*req.DocumentPath); errDel != nil {
				s.logger.Warn("failed to remove orphaned document", zap.String("path", *req.DocumentPath), zap.Error(errDel))
			}
		}
		return nil, err
	}

	s.notificationService.Dispatch(ctx, created)
	return s.requestRepo.FindByID(ctx, nil, req.ID)
}

func (s *EmployeeRequestService) GetPending(ctx context.Context) ([]entities.EmployeeRequest, error) {
	if _, err := authorize(ctx, s.userRepo, authz.EmployeeRequestsApprove, nil); err != nil {
		return nil, err
	}
	return s.requestRepo.FindPending(ctx)
}

func (s *EmployeeRequestService) GetMine(ctx context.Context) ([]entities.EmployeeRequest, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.EmployeeRequestsView, nil)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.FindByRequester(ctx, authContext.Actor.ID)
}

func (s *EmployeeRequestService) GetByID(ctx context.Context, id uint64) (*entities.EmployeeRequest, error) {
	authContext, err := buildAuthzContext(ctx, s.userRepo)
	if err != nil {
		return nil, err
	}
	if !authContext.HasPermission(authz.EmployeeRequestsView) && !authContext.HasPermission(authz.EmployeeRequestsApprove) {
		return nil, apperrors.ErrForbidden
	}
	return s.requestRepo.FindByID(ctx, nil, id)
}

func (s *EmployeeRequestService) Approve(ctx context.Context, id uint64) (*entities.EmployeeRequest, error) {
	return s.decide(ctx, id, constants.StatusApproved, "")
}

func (s *EmployeeRequestService) Reject(ctx context.Context, id uint64, reason string) (*entities.EmployeeRequest, error) {
	if reason == "" {
		return nil, apperrors.NewBadRequestError("Rejection reason is required")
	}
	return s.decide(ctx, id, constants.StatusRejected, reason)
}

// decide - общая часть Approve и Reject.
func (s *EmployeeRequestService) decide(ctx context.Context, id uint64, status, reason string) (*entities.EmployeeRequest, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.EmployeeRequestsApprove, nil)
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

		msg := NotificationMessage{
			Type:            constants.NotificationEmployeeRequestApproved,
			Title:           "Employee Request Approved",
			Message:         fmt.Sprintf("Your request for employee %s has been approved by %s.", req.Name, actor.Username),
			RelatedEntity:   constants.EntityEmployeeRequest,
			RelatedEntityID: req.ID,
		}

		// При утверждении создаём сотрудника в той же транзакции.
		// Номер мог заняться, пока заявка ждала.
		if status == constants.StatusApproved {
			taken, err := s.employeeRepo.IdentityTaken(ctx, tx, req.EmpID, req.PassportID, req.EmiratesID)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.NewConflictError("An employee with the same identity already exists")
			}
			employee, err := s.employeeRepo.Create(ctx, tx, &entities.Employee{
				Name:         req.Name,
				EmpID:        req.EmpID,
				PassportID:   req.PassportID,
				EmiratesID:   req.EmiratesID,
				Phone:        req.Phone,
				JoiningDate:  req.JoiningDate,
				Salary:       req.Salary,
				Comments:     req.Comments,
				DocumentPath: req.DocumentPath,
			})
			if err != nil {
				return err
			}
			req.EmployeeID = &employee.ID
		} else {
			req.RejectionReason = &reason
			msg.Type = constants.NotificationEmployeeRequestRejected
			msg.Title = "Employee Request Rejected"
			msg.Message = fmt.Sprintf("Your request for employee %s has been rejected by %s. Reason: %s", req.Name, actor.Username, reason)
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
	s.logger.Info("employee request decided", zap.Uint64("requestID", id), zap.String("status", status))
	return s.requestRepo.FindByID(ctx, nil, id)
}

// OpenDocument открывает документ сотрудника для скачивания.
func (s *EmployeeRequestService) OpenDocument(ctx context.Context, employeeID uint64) (*os.File, string, error) {
	authContext, err := buildAuthzContext(ctx, s.userRepo)
	if err != nil {
		return nil, "", err
	}
	if !authContext.HasPermission(authz.EmployeesView) && !authContext.HasPermission(authz.EmployeeRequestsView) {
		return nil, "", apperrors.ErrForbidden
	}

	employee, err := s.employeeRepo.FindByID(ctx, nil, employeeID)
	if err != nil {
		return nil, "", err
	}
	// Старые сотрудники: документ лежит только в заявке
	path := employee.DocumentPath
	if path == nil {
		req, err := s.requestRepo.FindApprovedByEmployeeID(ctx, employeeID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", err
		}
		if req != nil {
			path = req.DocumentPath
		}
	}
	if path == nil {
		return nil, "", apperrors.NewNotFoundError("No document uploaded for this employee")
	}

	file, err := s.fileStorage.Open(*path)
	if err != nil {
		s.logger.Warn("stored document missing", zap.Uint64("employeeID", employeeID), zap.String("path", *path), zap.Error(err))
		return nil, "", apperrors.NewNotFoundError("Document file not found")
	}
	return file, filepath.Base(*path), nil
}
