package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTimesheetAmount(t *testing.T) {
	cases := []struct {
		name       string
		hours      string
		hourlyRate string
		dailyRate  string
		want       string
	}{
		{"zero hours with both rates", "0", "50", "400", "0"},
		{"hourly rate wins", "7.5", "40", "400", "300"},
		{"hourly rate rounds to cents", "3.33", "12.5", "0", "41.63"},
		{"hours rounded before pricing", "0.125", "16", "0", "2.08"},
		{"daily rate is flat", "3", "0", "350", "350"},
		{"neither rate", "8", "0", "0", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TimesheetAmount(d(tc.hours), d(tc.hourlyRate), d(tc.dailyRate))
			assert.True(t, got.Equal(d(tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}

func TestProject_AcceptsTimesheetOn(t *testing.T) {
	p := &Project{StartDate: day("2026-03-01"), EndDate: day("2026-03-31")}
	today := day("2026-03-15")

	cases := []struct {
		date string
		want bool
	}{
		{"2026-02-28", false},
		{"2026-03-01", true},
		{"2026-03-15", true},
		{"2026-03-16", false},
		{"2026-04-01", false},
	}
	for _, tc := range cases {
		t.Run(tc.date, func(t *testing.T) {
			assert.Equal(t, tc.want, p.AcceptsTimesheetOn(day(tc.date), today))
		})
	}

	assert.True(t, p.AcceptsTimesheetOn(day("2026-03-31"), day("2026-06-01")), "last project day once it has passed")
}

func TestMaterialRequestForm_RecalculateRoundsUnitPrice(t *testing.T) {
	mrf := &MaterialRequestForm{Items: []MRFItem{
		{Quantity: 16, UnitPrice: d("0.125")},
		{Quantity: 3, UnitPrice: d("10.004")},
	}}
	mrf.Recalculate(d("100"))

	assert.True(t, mrf.Items[0].UnitPrice.Equal(d("0.13")))
	assert.True(t, mrf.Items[0].Amount.Equal(d("2.08")))
	assert.True(t, mrf.Items[1].UnitPrice.Equal(d("10")))
	assert.True(t, mrf.Items[1].Amount.Equal(d("30")))
	assert.True(t, mrf.TotalAmount.Equal(d("32.08")))
	assert.False(t, mrf.RequiresSuperadmin)
}

func TestPriceItemsRoundsUnitPrice(t *testing.T) {
	items := []PurchaseOrderItem{{QuantityOrdered: 16, UnitPrice: d("0.125")}}
	total := PriceItems(items)
	assert.True(t, items[0].UnitPrice.Equal(d("0.13")))
	assert.True(t, total.Equal(d("2.08")))

	inv := &Inventory{Quantity: 16, PerQuantityPrice: d("0.125")}
	inv.RecalculateTotal()
	assert.True(t, inv.PerQuantityPrice.Equal(d("0.13")))
	assert.True(t, inv.TotalPrice.Equal(d("2.08")))
}
