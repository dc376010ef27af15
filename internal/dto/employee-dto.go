package dto

import (
	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
)

// CreateEmployeeDTO приходит как multipart-форма вместе с документом.
// Salary из формы контроллер разбирает сам.
type CreateEmployeeDTO struct {
	Name        string          `json:"name" form:"name" validate:"required,max=255"`
	EmpID       string          `json:"empId" form:"empId" validate:"required,max=50"`
	PassportID  string          `json:"passportId" form:"passportId" validate:"required,passport_id"`
	EmiratesID  string          `json:"emiratesId" form:"emiratesId" validate:"required,emirates_id"`
	Phone       string          `json:"phone" form:"phone" validate:"required,uae_phone"`
	JoiningDate string          `json:"joiningDate" form:"joiningDate" validate:"required,datetime=2006-01-02"`
	Salary      decimal.Decimal `json:"salary" form:"-" validate:"decimal_gt0"`
	Comments    *string         `json:"comments" form:"comments" validate:"omitempty,max=1000"`
}

// UpdateEmployeeDTO: меняются только переданные поля.
type UpdateEmployeeDTO struct {
	Name     null.String      `json:"name" validate:"omitempty,max=255"`
	Phone    null.String      `json:"phone" validate:"omitempty,uae_phone"`
	Salary   *decimal.Decimal `json:"salary" validate:"omitempty,decimal_gt0"`
	EndDate  null.String      `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Comments null.String      `json:"comments" validate:"omitempty,max=1000"`
}
