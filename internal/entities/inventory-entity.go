package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Inventory struct {
	ID               uint64          `json:"id"`
	InventoryID      string          `json:"inventoryId"`
	Name             string          `json:"name"`
	ProductionDate   *time.Time      `json:"productionDate,omitempty"`
	ExpiryDate       *time.Time      `json:"expiryDate,omitempty"`
	Quantity         int             `json:"quantity"`
	PerQuantityPrice decimal.Decimal `json:"perQuantityPrice"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	BillNumber       string          `json:"billNumber"`
	SupplierName     string          `json:"supplierName"`
	CreatedDate      time.Time       `json:"createdDate"`
}

// RecalculateTotal держит TotalPrice = Quantity * PerQuantityPrice.
func (i *Inventory) RecalculateTotal() {
	i.PerQuantityPrice = i.PerQuantityPrice.Round(2)
	i.TotalPrice = i.PerQuantityPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}

type InventoryRequest struct {
	ID                uint64           `json:"id"`
	RequestType       string           `json:"requestType"`
	TargetInventoryID *string          `json:"targetInventoryId,omitempty"`
	Name              string           `json:"name"`
	ProductionDate    *time.Time       `json:"productionDate,omitempty"`
	ExpiryDate        *time.Time       `json:"expiryDate,omitempty"`
	Quantity          *int             `json:"quantity,omitempty"`
	PerQuantityPrice  *decimal.Decimal `json:"perQuantityPrice,omitempty"`
	BillNumber        *string          `json:"billNumber,omitempty"`
	SupplierName      *string          `json:"supplierName,omitempty"`
	Status            string           `json:"status"`
	RequestedBy       uint64           `json:"requestedById"`
	RequestedByName   string           `json:"requestedBy"`
	RequestDate       time.Time        `json:"requestDate"`
	ApprovedBy        *uint64          `json:"approvedById,omitempty"`
	ApprovedByName    *string          `json:"approvedBy,omitempty"`
	ApprovalDate      *time.Time       `json:"approvalDate,omitempty"`
	RejectionReason   *string          `json:"rejectionReason,omitempty"`
}
