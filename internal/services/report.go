package services

import (
	"context"
	"sort"
	"time"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/repositories"
	"erp-system/pkg/constants"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	CashFlowReport(ctx context.Context, period dto.ReportPeriodDTO) (*dto.CashFlowReportDTO, error)
	EmployeeHoursReport(ctx context.Context, period dto.ReportPeriodDTO) (*dto.EmployeeHoursReportDTO, error)
	ProjectBreakdownReport(ctx context.Context, period dto.ReportPeriodDTO) (*dto.ProjectBreakdownReportDTO, error)
}

type ReportService struct {
	reportRepo repositories.ReportRepositoryInterface
	userRepo   repositories.UserRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(
	reportRepo repositories.ReportRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) ReportServiceInterface {
	return &ReportService{reportRepo: reportRepo, userRepo: userRepo, logger: logger}
}

// period проверяет права и разбирает обязательные границы отчёта.
func (s *ReportService) period(ctx context.Context, p dto.ReportPeriodDTO) (time.Time, time.Time, error) {
	if _, err := authorize(ctx, s.userRepo, authz.ReportsView, nil); err != nil {
		return time.Time{}, time.Time{}, err
	}
	from, err := requiredDate(p.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := requiredDate(p.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, apperrors.NewBadRequestError("End date cannot be before the start date")
	}
	return from, to, nil
}

func (s *ReportService) CashFlowReport(ctx context.Context, p dto.ReportPeriodDTO) (*dto.CashFlowReportDTO, error) {
	from, to, err := s.period(ctx, p)
	if err != nil {
		return nil, err
	}
	entries, err := s.reportRepo.CashFlowsBetween(ctx, from, to)
	if err != nil {
		s.logger.Error("cash flow report query failed", zap.Error(err))
		return nil, err
	}

	report := &dto.CashFlowReportDTO{
		StartDate:    from.Format(utils.DateLayout),
		EndDate:      to.Format(utils.DateLayout),
		Projects:     []dto.CashFlowReportRowDTO{},
		TotalInflow:  decimal.Zero,
		TotalOutflow: decimal.Zero,
	}
	index := make(map[uint64]int)
	for _, e := range entries {
		i, ok := index[e.ProjectID]
		if !ok {
			i = len(report.Projects)
			index[e.ProjectID] = i
			report.Projects = append(report.Projects, dto.CashFlowReportRowDTO{
				ProjectID:          e.ProjectID,
				ProjectDescription: e.ProjectDescription,
				Inflow:             decimal.Zero,
				Outflow:            decimal.Zero,
				Transactions:       []entities.CashFlow{},
			})
		}
		row := &report.Projects[i]
		switch e.Type {
		case constants.CashFlowInflow:
			row.Inflow = row.Inflow.Add(e.Amount)
			report.TotalInflow = report.TotalInflow.Add(e.Amount)
		case constants.CashFlowOutflow:
			row.Outflow = row.Outflow.Add(e.Amount)
			report.TotalOutflow = report.TotalOutflow.Add(e.Amount)
		}
		row.Transactions = append(row.Transactions, e.CashFlow)
	}
	for i := range report.Projects {
		report.Projects[i].Net = report.Projects[i].Inflow.Sub(report.Projects[i].Outflow)
	}
	report.NetCashFlow = report.TotalInflow.Sub(report.TotalOutflow)
	return report, nil
}

func (s *ReportService) EmployeeHoursReport(ctx context.Context, p dto.ReportPeriodDTO) (*dto.EmployeeHoursReportDTO, error) {
	from, to, err := s.period(ctx, p)
	if err != nil {
		return nil, err
	}
	entries, err := s.reportRepo.TimesheetsBetween(ctx, from, to)
	if err != nil {
		s.logger.Error("employee hours report query failed", zap.Error(err))
		return nil, err
	}

	type projectKey struct{ employeeID, projectID uint64 }
	employees := make(map[uint64]*dto.EmployeeHoursDTO)
	projects := make(map[projectKey]*dto.EmployeeProjectHoursDTO)
	order := make([]uint64, 0)
	projectOrder := make(map[uint64][]uint64)

	for _, t := range entries {
		emp, ok := employees[t.EmployeeID]
		if !ok {
			emp = &dto.EmployeeHoursDTO{
				EmployeeID:  t.EmployeeID,
				Name:        t.EmployeeName,
				EmpID:       t.EmpID,
				TotalHours:  decimal.Zero,
				TotalAmount: decimal.Zero,
			}
			employees[t.EmployeeID] = emp
			order = append(order, t.EmployeeID)
		}
		key := projectKey{t.EmployeeID, t.ProjectID}
		ph, ok := projects[key]
		if !ok {
			ph = &dto.EmployeeProjectHoursDTO{
				ProjectID:          t.ProjectID,
				ProjectDescription: t.ProjectDescription,
				Hours:              decimal.Zero,
				Amount:             decimal.Zero,
			}
			projects[key] = ph
			projectOrder[t.EmployeeID] = append(projectOrder[t.EmployeeID], t.ProjectID)
		}
		// Ставки берём из последней записи.
		ph.DailyRate = t.DailyRate
		ph.HourlyRate = t.HourlyRate
		ph.Hours = ph.Hours.Add(t.HoursWorked)
		ph.Amount = ph.Amount.Add(t.TotalAmount)
		emp.TotalHours = emp.TotalHours.Add(t.HoursWorked)
		emp.TotalAmount = emp.TotalAmount.Add(t.TotalAmount)
	}

	report := &dto.EmployeeHoursReportDTO{
		StartDate: from.Format(utils.DateLayout),
		EndDate:   to.Format(utils.DateLayout),
		Employees: make([]dto.EmployeeHoursDTO, 0, len(order)),
	}
	for _, id := range order {
		emp := employees[id]
		emp.TotalDays = DaysWorked(emp.TotalHours)
		emp.Projects = make([]dto.EmployeeProjectHoursDTO, 0, len(projectOrder[id]))
		for _, pid := range projectOrder[id] {
			ph := projects[projectKey{id, pid}]
			ph.DaysWorked = DaysWorked(ph.Hours)
			emp.Projects = append(emp.Projects, *ph)
		}
		report.Employees = append(report.Employees, *emp)
	}
	sort.SliceStable(report.Employees, func(i, j int) bool {
		return report.Employees[i].Name < report.Employees[j].Name
	})
	return report, nil
}

// ProjectProfit считает расходы и прибыль по одной строке проекта.
func ProjectProfit(t repositories.ProjectTotals) dto.ProjectBreakdownDTO {
	total := t.CashOutflow.Add(t.POValue).Add(t.LaborCost).Add(t.InventoryValue)
	return dto.ProjectBreakdownDTO{
		ProjectID:          t.ProjectID,
		ProjectDescription: t.ProjectDescription,
		ProjectBudget:      t.ProjectBudget,
		CashInflow:         t.CashInflow,
		CashOutflow:        t.CashOutflow,
		NetCashFlow:        t.CashInflow.Sub(t.CashOutflow),
		InventoryItems:     t.InventoryItems,
		InventoryValue:     t.InventoryValue,
		POCount:            t.POCount,
		POValue:            t.POValue,
		LaborCost:          t.LaborCost,
		LaborHours:         t.LaborHours,
		TotalExpenses:      total,
		ProfitLoss:         t.CashInflow.Sub(total),
	}
}

func (s *ReportService) ProjectBreakdownReport(ctx context.Context, p dto.ReportPeriodDTO) (*dto.ProjectBreakdownReportDTO, error) {
	from, to, err := s.period(ctx, p)
	if err != nil {
		return nil, err
	}
	totals, err := s.reportRepo.ProjectTotalsBetween(ctx, from, to)
	if err != nil {
		s.logger.Error("project breakdown report query failed", zap.Error(err))
		return nil, err
	}

	rows := make([]dto.ProjectBreakdownDTO, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, ProjectProfit(t))
	}
	return &dto.ProjectBreakdownReportDTO{
		StartDate: from.Format(utils.DateLayout),
		EndDate:   to.Format(utils.DateLayout),
		Projects:  rows,
	}, nil
}
