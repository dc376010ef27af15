package dto

import "github.com/aarondl/null/v8"

type PurchaseOrderHeaderDTO struct {
	SupplierName         string `json:"supplierName" validate:"required,max=255"`
	SupplierContact      string `json:"supplierContact" validate:"max=100"`
	SupplierEmail        string `json:"supplierEmail" validate:"omitempty,email"`
	SupplierAddress      string `json:"supplierAddress" validate:"max=500"`
	ExpectedDeliveryDate string `json:"expectedDeliveryDate" validate:"omitempty,datetime=2006-01-02"`
	PaymentTerms         string `json:"paymentTerms" validate:"max=255"`
	Notes                string `json:"notes" validate:"max=2000"`
}

// CreatePurchaseOrderDTO: inventoryIds и quantities сопоставляются по индексу.
type CreatePurchaseOrderDTO struct {
	PurchaseOrder PurchaseOrderHeaderDTO `json:"purchaseOrder" validate:"required"`
	InventoryIDs  []uint64               `json:"inventoryIds" validate:"required,min=1"`
	Quantities    []int                  `json:"quantities" validate:"required,min=1,dive,min=1"`
	ProjectID     uint64                 `json:"projectId" validate:"required"`
}

type CreatePOFromShortageDTO struct {
	ProjectID              uint64 `json:"projectId" validate:"required"`
	ProjectInventoryItemID uint64 `json:"projectInventoryItemId" validate:"required"`
	SupplierName           string `json:"supplierName" validate:"max=255"`
}

type UpdatePOStatusDTO struct {
	Status string      `json:"status" validate:"required"`
	Notes  null.String `json:"notes" validate:"omitempty,max=2000"`
}

type POStatusDTO struct {
	Value       string `json:"value"`
	DisplayName string `json:"displayName"`
}
