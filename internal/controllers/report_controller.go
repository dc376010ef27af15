package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"erp-system/internal/dto"
	"erp-system/internal/services"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) parsePeriod(ctx echo.Context) (dto.ReportPeriodDTO, error) {
	period := dto.ReportPeriodDTO{
		StartDate: ctx.QueryParam("startDate"),
		EndDate:   ctx.QueryParam("endDate"),
		Format:    strings.ToLower(ctx.QueryParam("format")),
	}
	if err := ctx.Validate(&period); err != nil {
		return period, apperrors.NewBadRequestError("startDate and endDate (YYYY-MM-DD) are required; format is json or xlsx")
	}
	return period, nil
}

// GetCashFlowReport - отчёт по движению денег, JSON или xlsx при format=xlsx (GET /reports/cashflow).
func (c *ReportController) GetCashFlowReport(ctx echo.Context) error {
	period, err := c.parsePeriod(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.reportService.CashFlowReport(ctx.Request().Context(), period)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if period.Format == "xlsx" {
		return c.respondWithXLSX(ctx, "cashflow", period, "Cash Flow", cashFlowHeaders, cashFlowRows(report))
	}
	return utils.SuccessResponse(ctx, report, "Report generated", http.StatusOK)
}

// GetEmployeeHoursReport - отчёт по часам сотрудников.
func (c *ReportController) GetEmployeeHoursReport(ctx echo.Context) error {
	period, err := c.parsePeriod(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.reportService.EmployeeHoursReport(ctx.Request().Context(), period)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if period.Format == "xlsx" {
		return c.respondWithXLSX(ctx, "employee-hours", period, "Employee Hours", employeeHoursHeaders, employeeHoursRows(report))
	}
	return utils.SuccessResponse(ctx, report, "Report generated", http.StatusOK)
}

// GetProjectBreakdownReport - разбивка расходов по проектам.
func (c *ReportController) GetProjectBreakdownReport(ctx echo.Context) error {
	period, err := c.parsePeriod(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	report, err := c.reportService.ProjectBreakdownReport(ctx.Request().Context(), period)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if period.Format == "xlsx" {
		return c.respondWithXLSX(ctx, "project-breakdown", period, "Project Breakdown", projectBreakdownHeaders, projectBreakdownRows(report))
	}
	return utils.SuccessResponse(ctx, report, "Report generated", http.StatusOK)
}

var (
	cashFlowHeaders = []string{"Project ID", "Project", "Inflow", "Outflow", "Net", "Transactions"}

	employeeHoursHeaders = []string{
		"Employee", "Emp ID", "Project", "Hours", "Days Worked", "Daily Rate", "Hourly Rate", "Amount",
	}

	projectBreakdownHeaders = []string{
		"Project ID", "Project", "Budget", "Cash Inflow", "Cash Outflow", "Net Cash Flow",
		"Inventory Items", "Inventory Value", "PO Count", "PO Value", "Labor Hours", "Labor Cost",
		"Total Expenses", "Profit/Loss",
	}
)

func cashFlowRows(report *dto.CashFlowReportDTO) [][]interface{} {
	rows := make([][]interface{}, 0, len(report.Projects)+1)
	for _, p := range report.Projects {
		rows = append(rows, []interface{}{
			p.ProjectID, p.ProjectDescription,
			p.Inflow.InexactFloat64(), p.Outflow.InexactFloat64(), p.Net.InexactFloat64(),
			len(p.Transactions),
		})
	}
	rows = append(rows, []interface{}{
		"", "Total", report.TotalInflow.InexactFloat64(), report.TotalOutflow.InexactFloat64(), report.NetCashFlow.InexactFloat64(), "",
	})
	return rows
}

func employeeHoursRows(report *dto.EmployeeHoursReportDTO) [][]interface{} {
	var rows [][]interface{}
	for _, e := range report.Employees {
		for _, p := range e.Projects {
			rows = append(rows, []interface{}{
				e.Name, e.EmpID, p.ProjectDescription,
				p.Hours.InexactFloat64(), p.DaysWorked.InexactFloat64(),
				p.DailyRate.InexactFloat64(), p.HourlyRate.InexactFloat64(), p.Amount.InexactFloat64(),
			})
		}
		rows = append(rows, []interface{}{
			e.Name, e.EmpID, "Total",
			e.TotalHours.InexactFloat64(), e.TotalDays.InexactFloat64(), "", "", e.TotalAmount.InexactFloat64(),
		})
	}
	return rows
}

func projectBreakdownRows(report *dto.ProjectBreakdownReportDTO) [][]interface{} {
	rows := make([][]interface{}, 0, len(report.Projects))
	for _, p := range report.Projects {
		rows = append(rows, []interface{}{
			p.ProjectID, p.ProjectDescription, p.ProjectBudget.InexactFloat64(),
			p.CashInflow.InexactFloat64(), p.CashOutflow.InexactFloat64(), p.NetCashFlow.InexactFloat64(),
			p.InventoryItems, p.InventoryValue.InexactFloat64(), p.POCount, p.POValue.InexactFloat64(),
			p.LaborHours.InexactFloat64(), p.LaborCost.InexactFloat64(),
			p.TotalExpenses.InexactFloat64(), p.ProfitLoss.InexactFloat64(),
		})
	}
	return rows
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, name string, period dto.ReportPeriodDTO, sheet string, headers []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &headers)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", lastHeader, style)

	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		f.SetSheetRow(sheet, cell, &rows[i])
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheet, "A", lastCol, 16)
	f.SetColWidth(sheet, "B", "C", 30)

	fileName := fmt.Sprintf("%s_%s_%s.xlsx", name, period.StartDate, period.EndDate)
	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	if err := f.Write(ctx.Response().Writer); err != nil {
		c.logger.Error("xlsx write failed", zap.String("report", name), zap.Error(err))
		return err
	}
	return nil
}
