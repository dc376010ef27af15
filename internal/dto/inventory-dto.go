package dto

import "github.com/shopspring/decimal"

// InventoryRequestDTO - тело заявок на создание и изменение позиции склада.
type InventoryRequestDTO struct {
	Name             string          `json:"name" validate:"required,max=255"`
	ProductionDate   string          `json:"productionDate" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate       string          `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
	Quantity         int             `json:"quantity" validate:"min=0"`
	PerQuantityPrice decimal.Decimal `json:"perQuantityPrice" validate:"decimal_gte0"`
	BillNumber       string          `json:"billNumber" validate:"max=100"`
	SupplierName     string          `json:"supplierName" validate:"max=255"`
}
