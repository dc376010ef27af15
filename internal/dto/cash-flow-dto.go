package dto

import "github.com/shopspring/decimal"

type CreateCashFlowDTO struct {
	ProjectID       uint64          `json:"projectId" validate:"required"`
	Type            string          `json:"type" validate:"required,oneof=INFLOW OUTFLOW"`
	Amount          decimal.Decimal `json:"amount" validate:"decimal_gt0"`
	TransactionDate string          `json:"transactionDate" validate:"required,datetime=2006-01-02"`
	Description     string          `json:"description" validate:"max=1000"`
}
