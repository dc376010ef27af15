package entities

import (
	"time"

	"erp-system/pkg/constants"

	"github.com/shopspring/decimal"
)

type PurchaseOrder struct {
	ID                   uint64              `json:"id"`
	PONumber             string              `json:"poNumber"`
	ProjectID            uint64              `json:"projectId"`
	ProjectDescription   string              `json:"projectDescription,omitempty"`
	SupplierName         string              `json:"supplierName"`
	SupplierContact      string              `json:"supplierContact"`
	SupplierEmail        string              `json:"supplierEmail"`
	SupplierAddress      string              `json:"supplierAddress"`
	Status               constants.POStatus  `json:"poStatus"`
	TotalAmount          decimal.Decimal     `json:"totalAmount"`
	CreatedDate          time.Time           `json:"createdDate"`
	ExpectedDeliveryDate *time.Time          `json:"expectedDeliveryDate,omitempty"`
	ActualDeliveryDate   *time.Time          `json:"actualDeliveryDate,omitempty"`
	PaymentTerms         string              `json:"paymentTerms"`
	Notes                string              `json:"notes"`
	CreatedBy            uint64              `json:"createdById"`
	CreatedByName        string              `json:"createdBy"`
	IsApproved           bool                `json:"isApproved"`
	Items                []PurchaseOrderItem `json:"items,omitempty"`
}

type PurchaseOrderItem struct {
	ID               uint64          `json:"id"`
	PurchaseOrderID  uint64          `json:"purchaseOrderId"`
	InventoryID      *uint64         `json:"inventoryRecordId,omitempty"`
	Description      string          `json:"description"`
	QuantityOrdered  int             `json:"quantityOrdered"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	QuantityReceived int             `json:"quantityReceived"`
	Notes            string          `json:"notes"`
}

// PriceItems проставляет TotalPrice позициям и возвращает итог заказа.
func PriceItems(items []PurchaseOrderItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		items[i].UnitPrice = items[i].UnitPrice.Round(2)
		items[i].TotalPrice = items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].QuantityOrdered))).Round(2)
		total = total.Add(items[i].TotalPrice)
	}
	return total
}

type PurchaseOrderRequest struct {
	ID              uint64     `json:"id"`
	PurchaseOrderID uint64     `json:"purchaseOrderId"`
	PONumber        string     `json:"poNumber,omitempty"`
	RequestStatus   string     `json:"requestStatus"`
	RequestedBy     uint64     `json:"requestedById"`
	RequestedByName string     `json:"requestedBy"`
	RequestDate     time.Time  `json:"requestDate"`
	ApprovedBy      *uint64    `json:"approvedById,omitempty"`
	ApprovedByName  *string    `json:"approvedBy,omitempty"`
	ApprovalDate    *time.Time `json:"approvalDate,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	Notes           string     `json:"notes"`
}
