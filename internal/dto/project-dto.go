package dto

import (
	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
)

type CreateProjectDTO struct {
	ProjectDescription string          `json:"projectDescription" validate:"required,max=1000"`
	ProjectType        string          `json:"projectType" validate:"required,max=100"`
	ProjectStage       string          `json:"projectStage" validate:"required,max=100"`
	StartDate          string          `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate            string          `json:"endDate" validate:"required,datetime=2006-01-02"`
	ProjectBudget      decimal.Decimal `json:"projectBudget" validate:"decimal_gte0"`
	PerDayRate         decimal.Decimal `json:"perDayRate" validate:"decimal_gte0"`
	PerHourRate        decimal.Decimal `json:"perHourRate" validate:"decimal_gte0"`
}

type UpdateProjectDTO struct {
	ProjectDescription null.String      `json:"projectDescription" validate:"omitempty,max=1000"`
	ProjectType        null.String      `json:"projectType" validate:"omitempty,max=100"`
	ProjectStage       null.String      `json:"projectStage" validate:"omitempty,max=100"`
	StartDate          null.String      `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate            null.String      `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	ProjectBudget      *decimal.Decimal `json:"projectBudget" validate:"omitempty,decimal_gte0"`
	PerDayRate         *decimal.Decimal `json:"perDayRate" validate:"omitempty,decimal_gte0"`
	PerHourRate        *decimal.Decimal `json:"perHourRate" validate:"omitempty,decimal_gte0"`
}

type AssignEmployeeDTO struct {
	RoleInProject string `json:"roleInProject" validate:"max=100"`
}

// TimesheetDTO - табель одного сотрудника за день. Часы округляются до сотых.
type TimesheetDTO struct {
	EmployeeID  uint64          `json:"employeeId" validate:"required"`
	WorkDate    string          `json:"workDate" validate:"required,datetime=2006-01-02"`
	HoursWorked decimal.Decimal `json:"hoursWorked" validate:"decimal_gte0"`
	Comments    *string         `json:"comments" validate:"omitempty,max=1000"`
}

type ProjectEmployeeExpenseDTO struct {
	EmployeeID   uint64          `json:"employeeId"`
	Name         string          `json:"name"`
	EmpID        string          `json:"empId"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	TotalHours   decimal.Decimal `json:"totalHours"`
	DaysWorked   decimal.Decimal `json:"daysWorked"`
}

type ProjectExpenseBreakdownDTO struct {
	ProjectID         uint64                      `json:"projectId"`
	EmployeeExpenses  decimal.Decimal             `json:"employeeExpenses"`
	InventoryExpenses decimal.Decimal             `json:"inventoryExpenses"`
	OtherExpenses     decimal.Decimal             `json:"otherExpenses"`
	TotalExpenses     decimal.Decimal             `json:"totalExpenses"`
	Employees         []ProjectEmployeeExpenseDTO `json:"employeeBreakdown"`
}

type ProjectExpenseDTO struct {
	ProjectID    uint64          `json:"projectId"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
}

type TimesheetStatsDTO struct {
	Date          string          `json:"date"`
	EmployeeCount int64           `json:"employeeCount"`
	TotalHours    decimal.Decimal `json:"totalHours"`
}

type TimesheetEditableDTO struct {
	Date     string `json:"date"`
	Editable bool   `json:"editable"`
}

type AddProjectInventoryDTO struct {
	InventoryID      uint64 `json:"inventoryId" validate:"required"`
	RequiredQuantity int    `json:"requiredQuantity" validate:"required,min=1"`
}

type CreateShortagePODTO struct {
	SupplierName string `json:"supplierName" validate:"max=255"`
}
