package entities

import (
	"time"

	"erp-system/pkg/constants"

	"github.com/shopspring/decimal"
)

type MaterialRequestForm struct {
	ID                  uint64          `json:"id"`
	MRFNumber           string          `json:"mrfNumber"`
	RequestorName       string          `json:"requestorName"`
	RequestorDepartment string          `json:"requestorDepartment"`
	RequestorEmployeeID string          `json:"requestorEmployeeId"`
	ReasonJustification string          `json:"reasonJustification"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	CreationDate        time.Time       `json:"creationDate"`
	ApprovalDate        *time.Time      `json:"approvalDate,omitempty"`
	Status              string          `json:"status"`
	RequestedBy         uint64          `json:"requestedById"`
	RequestedByName     string          `json:"requestedBy"`
	ApprovedBy          *uint64         `json:"approvedById,omitempty"`
	ApprovedByName      *string         `json:"approvedBy,omitempty"`
	RejectionReason     *string         `json:"rejectionReason,omitempty"`
	RequiresSuperadmin  bool            `json:"requiresSuperadmin"`
	Items               []MRFItem       `json:"items"`
}

type MRFItem struct {
	ID              uint64          `json:"id"`
	MRFID           uint64          `json:"mrfId"`
	ItemDescription string          `json:"itemDescription"`
	Quantity        int             `json:"quantity"`
	Specifications  string          `json:"specifications"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Amount          decimal.Decimal `json:"amount"`
}

// Recalculate считает позиции, итог и уровень утверждения:
// итог от порога и выше утверждает супер-админ. Цена за единицу
// округляется до копеек, как в БД.
func (m *MaterialRequestForm) Recalculate(threshold decimal.Decimal) {
	total := decimal.Zero
	for i := range m.Items {
		m.Items[i].UnitPrice = m.Items[i].UnitPrice.Round(2)
		m.Items[i].Amount = m.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(m.Items[i].Quantity))).Round(2)
		total = total.Add(m.Items[i].Amount)
	}
	m.TotalAmount = total
	m.RequiresSuperadmin = total.GreaterThanOrEqual(threshold)
}

func (m *MaterialRequestForm) IsPending() bool {
	return m.Status == constants.StatusPending
}
