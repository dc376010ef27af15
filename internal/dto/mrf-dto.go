package dto

import "github.com/shopspring/decimal"

type MRFItemDTO struct {
	ItemDescription string          `json:"itemDescription" validate:"required,max=500"`
	Quantity        int             `json:"quantity" validate:"required,min=1"`
	Specifications  string          `json:"specifications" validate:"max=1000"`
	UnitPrice       decimal.Decimal `json:"unitPrice" validate:"decimal_gte0"`
}

type CreateMRFDTO struct {
	RequestorName       string       `json:"requestorName" validate:"required,max=255"`
	RequestorDepartment string       `json:"requestorDepartment" validate:"required,max=255"`
	RequestorEmployeeID string       `json:"requestorEmployeeId" validate:"required,max=50"`
	ReasonJustification string       `json:"reasonJustification" validate:"required"`
	Items               []MRFItemDTO `json:"items" validate:"required,min=1,dive"`
}

// UpdateMRFDTO заменяет шапку и все позиции заявки в статусе PENDING.
type UpdateMRFDTO = CreateMRFDTO
