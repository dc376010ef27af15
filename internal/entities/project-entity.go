package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Project struct {
	ID                 uint64          `json:"id"`
	ProjectDescription string          `json:"projectDescription"`
	ProjectType        string          `json:"projectType"`
	ProjectStage       string          `json:"projectStage"`
	StartDate          time.Time       `json:"startDate"`
	EndDate            time.Time       `json:"endDate"`
	ProjectBudget      decimal.Decimal `json:"projectBudget"`
	PerDayRate         decimal.Decimal `json:"perDayRate"`
	PerHourRate        decimal.Decimal `json:"perHourRate"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// AcceptsTimesheetOn: можно ли вносить часы за day. День внутри
// сроков проекта и не позже today.
func (p *Project) AcceptsTimesheetOn(day, today time.Time) bool {
	return !day.Before(p.StartDate) && !day.After(p.EndDate) && !day.After(today)
}

type ProjectEmployee struct {
	ID            uint64    `json:"id"`
	ProjectID     uint64    `json:"projectId"`
	EmployeeID    uint64    `json:"employeeId"`
	EmployeeName  string    `json:"employeeName"`
	EmpID         string    `json:"empId"`
	RoleInProject string    `json:"roleInProject"`
	AssignedDate  time.Time `json:"assignedDate"`
}

type Timesheet struct {
	ID           uint64          `json:"id"`
	ProjectID    uint64          `json:"projectId"`
	EmployeeID   uint64          `json:"employeeId"`
	EmployeeName string          `json:"employeeName"`
	EmpID        string          `json:"empId"`
	WorkDate     time.Time       `json:"workDate"`
	HoursWorked  decimal.Decimal `json:"hoursWorked"`
	DailyRate    decimal.Decimal `json:"dailyRate"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Comments     *string         `json:"comments,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// TimesheetAmount считает стоимость дня: ноль часов - ноль, при почасовой
// ставке часы * ставка, иначе дневная ставка. Часы считаем
// до сотых.
func TimesheetAmount(hours, hourlyRate, dailyRate decimal.Decimal) decimal.Decimal {
	hours = hours.Round(2)
	switch {
	case hours.IsZero():
		return decimal.Zero
	case hourlyRate.IsPositive():
		return hours.Mul(hourlyRate).Round(2)
	case dailyRate.IsPositive():
		return dailyRate
	default:
		return decimal.Zero
	}
}

type ProjectInventoryItem struct {
	ID                uint64          `json:"id"`
	ProjectID         uint64          `json:"projectId"`
	InventoryID       uint64          `json:"inventoryRecordId"`
	InventoryCode     string          `json:"inventoryId"`
	InventoryName     string          `json:"inventoryName"`
	RequiredQuantity  int             `json:"requiredQuantity"`
	AllocatedQuantity int             `json:"allocatedQuantity"`
	ShortageQuantity  int             `json:"shortageQuantity"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	POCreated         bool            `json:"poCreated"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// Allocation делит потребность на выданное со склада и дефицит.
type Allocation struct {
	Allocated int
	Shortage  int
}

func Allocate(required, available int) Allocation {
	if available < 0 {
		available = 0
	}
	allocated := min(required, available)
	return Allocation{Allocated: allocated, Shortage: required - allocated}
}

type CashFlow struct {
	ID              uint64          `json:"id"`
	ProjectID       uint64          `json:"projectId"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Description     string          `json:"description"`
	CreatedBy       *uint64         `json:"createdBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}
