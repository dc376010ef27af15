package dto

import (
	"erp-system/internal/entities"

	"github.com/shopspring/decimal"
)

// ReportPeriodDTO - границы отчёта включительно, format=xlsx отдаёт файл.
type ReportPeriodDTO struct {
	StartDate string `query:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `query:"endDate" validate:"required,datetime=2006-01-02"`
	Format    string `query:"format" validate:"omitempty,oneof=json xlsx"`
}

type CashFlowReportRowDTO struct {
	ProjectID          uint64              `json:"projectId"`
	ProjectDescription string              `json:"projectDescription"`
	Inflow             decimal.Decimal     `json:"inflow"`
	Outflow            decimal.Decimal     `json:"outflow"`
	Net                decimal.Decimal     `json:"net"`
	Transactions       []entities.CashFlow `json:"transactions"`
}

type CashFlowReportDTO struct {
	StartDate    string                 `json:"startDate"`
	EndDate      string                 `json:"endDate"`
	Projects     []CashFlowReportRowDTO `json:"projects"`
	TotalInflow  decimal.Decimal        `json:"totalInflow"`
	TotalOutflow decimal.Decimal        `json:"totalOutflow"`
	NetCashFlow  decimal.Decimal        `json:"netCashFlow"`
}

type EmployeeProjectHoursDTO struct {
	ProjectID          uint64          `json:"projectId"`
	ProjectDescription string          `json:"projectDescription"`
	Hours              decimal.Decimal `json:"hours"`
	DaysWorked         decimal.Decimal `json:"daysWorked"`
	Amount             decimal.Decimal `json:"amount"`
	DailyRate          decimal.Decimal `json:"dailyRate"`
	HourlyRate         decimal.Decimal `json:"hourlyRate"`
}

type EmployeeHoursDTO struct {
	EmployeeID  uint64                    `json:"employeeId"`
	Name        string                    `json:"name"`
	EmpID       string                    `json:"empId"`
	TotalHours  decimal.Decimal           `json:"totalHours"`
	TotalDays   decimal.Decimal           `json:"totalDays"`
	TotalAmount decimal.Decimal           `json:"totalAmount"`
	Projects    []EmployeeProjectHoursDTO `json:"projects"`
}

type EmployeeHoursReportDTO struct {
	StartDate string             `json:"startDate"`
	EndDate   string             `json:"endDate"`
	Employees []EmployeeHoursDTO `json:"employees"`
}

type ProjectBreakdownDTO struct {
	ProjectID          uint64          `json:"projectId"`
	ProjectDescription string          `json:"projectDescription"`
	ProjectBudget      decimal.Decimal `json:"projectBudget"`
	CashInflow         decimal.Decimal `json:"cashInflow"`
	CashOutflow        decimal.Decimal `json:"cashOutflow"`
	NetCashFlow        decimal.Decimal `json:"netCashFlow"`
	InventoryItems     int64           `json:"inventoryItems"`
	InventoryValue     decimal.Decimal `json:"inventoryValue"`
	POCount            int64           `json:"poCount"`
	POValue            decimal.Decimal `json:"poValue"`
	LaborCost          decimal.Decimal `json:"laborCost"`
	LaborHours         decimal.Decimal `json:"laborHours"`
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	ProfitLoss         decimal.Decimal `json:"profitLoss"`
}

type ProjectBreakdownReportDTO struct {
	StartDate string                `json:"startDate"`
	EndDate   string                `json:"endDate"`
	Projects  []ProjectBreakdownDTO `json:"projects"`
}
