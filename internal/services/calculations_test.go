package services

import (
	"regexp"
	"testing"
	"time"

	"erp-system/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDaysWorked(t *testing.T) {
	assert.True(t, DaysWorked(d("8")).Equal(d("1")))
	assert.True(t, DaysWorked(d("0")).IsZero())
	assert.True(t, DaysWorked(d("10")).Equal(d("1.25")))
	assert.True(t, DaysWorked(d("5")).Equal(d("0.63")))
}

func TestBudgetExhausted(t *testing.T) {
	ratio := d("0.1")
	assert.False(t, BudgetExhausted(d("1000"), d("800"), ratio))
	assert.True(t, BudgetExhausted(d("1000"), d("900"), ratio), "exactly ten percent left alerts")
	assert.True(t, BudgetExhausted(d("1000"), d("1200"), ratio))
	assert.False(t, BudgetExhausted(decimal.Zero, d("50"), ratio), "projects without budget never alert")
}

func TestPONumber(t *testing.T) {
	old := timeNow
	timeNow = func() time.Time { return time.UnixMilli(1700000000123) }
	defer func() { timeNow = old }()

	assert.Equal(t, "42-PO-1700000000123", PONumber(42))
	assert.Regexp(t, regexp.MustCompile(`^\d+-PO-\d+$`), PONumber(1))
}

func TestProjectProfit(t *testing.T) {
	row := ProjectProfit(repositories.ProjectTotals{
		ProjectID:      3,
		ProjectBudget:  d("10000"),
		CashInflow:     d("9000"),
		CashOutflow:    d("1000"),
		InventoryValue: d("500"),
		POValue:        d("2000"),
		LaborCost:      d("1500"),
	})
	assert.True(t, row.NetCashFlow.Equal(d("8000")))
	assert.True(t, row.TotalExpenses.Equal(d("5000")))
	assert.True(t, row.ProfitLoss.Equal(d("4000")))
}
