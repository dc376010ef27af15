package services

import (
	"context"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/repositories"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/types"

	"go.uber.org/zap"
)

type EmployeeServiceInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	GetByEmpID(ctx context.Context, empID string) (*entities.Employee, error)
	CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error)
	UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO) (*entities.Employee, error)
	DeleteByEmpID(ctx context.Context, empID string) error
}

type EmployeeService struct {
	employeeRepo repositories.EmployeeRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	logger       *zap.Logger
}

func NewEmployeeService(
	employeeRepo repositories.EmployeeRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) EmployeeServiceInterface {
	return &EmployeeService{employeeRepo: employeeRepo, userRepo: userRepo, logger: logger}
}

func (s *EmployeeService) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	if _, err := authorize(ctx, s.userRepo, authz.EmployeesView, nil); err != nil {
		return nil, 0, err
	}
	return s.employeeRepo.GetAll(ctx, filter)
}

func (s *EmployeeService) GetByEmpID(ctx context.Context, empID string) (*entities.Employee, error) {
	if _, err := authorize(ctx, s.userRepo, authz.EmployeesView, nil); err != nil {
		return nil, err
	}
	return s.employeeRepo.FindByEmpID(ctx, empID)
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error) {
	if _, err := authorize(ctx, s.userRepo, authz.EmployeesCreate, nil); err != nil {
		return nil, err
	}

	joiningDate, err := requiredDate(payload.JoiningDate)
	if err != nil {
		return nil, err
	}
	taken, err := s.employeeRepo.IdentityTaken(ctx, nil, payload.EmpID, payload.PassportID, payload.EmiratesID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflictError("Employee ID, passport or Emirates ID already exists")
	}

	employee, err := s.employeeRepo.Create(ctx, nil, &entities.Employee{
		Name:        payload.Name,
		EmpID:       payload.EmpID,
		PassportID:  payload.PassportID,
		EmiratesID:  payload.EmiratesID,
		Phone:       payload.Phone,
		JoiningDate: joiningDate,
		Salary:      payload.Salary,
		Comments:    payload.Comments,
	})
	if err != nil {
		s.logger.Error("failed to create employee", zap.String("empId", payload.EmpID), zap.Error(err))
		return nil, err
	}
	return employee, nil
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO) (*entities.Employee, error) {
	if _, err := authorize(ctx, s.userRepo, authz.EmployeesUpdate, nil); err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	if payload.Name.Valid {
		employee.Name = payload.Name.String
	}
	if payload.Phone.Valid {
		employee.Phone = payload.Phone.String
	}
	if payload.Salary != nil {
		if !payload.Salary.IsPositive() {
			return nil, apperrors.NewBadRequestError("Salary must be greater than zero")
		}
		employee.Salary = *payload.Salary
	}
	if payload.EndDate.Valid {
		endDate, err := optionalDate(payload.EndDate.String)
		if err != nil {
			return nil, err
		}
		if endDate != nil && endDate.Before(employee.JoiningDate) {
			return nil, apperrors.NewBadRequestError("End date cannot be before the joining date")
		}
		employee.EndDate = endDate
	}
	if payload.Comments.Valid {
		employee.Comments = strPtr(payload.Comments.String)
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, err
	}
	return s.employeeRepo.FindByID(ctx, nil, id)
}

// DeleteByEmpID удаляет сотрудника по табельному номеру.
func (s *EmployeeService) DeleteByEmpID(ctx context.Context, empID string) error {
	if _, err := authorize(ctx, s.userRepo, authz.EmployeesDelete, nil); err != nil {
		return err
	}
	if err := s.employeeRepo.DeleteByEmpID(ctx, empID); err != nil {
		return err
	}
	s.logger.Info("employee deleted", zap.String("empId", empID))
	return nil
}
