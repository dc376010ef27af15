package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           uint64          `json:"id"`
	Name         string          `json:"name"`
	EmpID        string          `json:"empId"`
	PassportID   string          `json:"passportId"`
	EmiratesID   string          `json:"emiratesId"`
	Phone        string          `json:"phone"`
	JoiningDate  time.Time       `json:"joiningDate"`
	EndDate      *time.Time      `json:"endDate,omitempty"`
	Salary       decimal.Decimal `json:"salary"`
	Comments     *string         `json:"comments,omitempty"`
	DocumentPath *string         `json:"documentPath,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type EmployeeRequest struct {
	ID              uint64          `json:"id"`
	Name            string          `json:"name"`
	EmpID           string          `json:"empId"`
	PassportID      string          `json:"passportId"`
	EmiratesID      string          `json:"emiratesId"`
	Phone           string          `json:"phone"`
	JoiningDate     time.Time       `json:"joiningDate"`
	Salary          decimal.Decimal `json:"salary"`
	Comments        *string         `json:"comments,omitempty"`
	DocumentPath    *string         `json:"documentPath,omitempty"`
	Status          string          `json:"status"`
	RequestedBy     uint64          `json:"requestedById"`
	RequestedByName string          `json:"requestedBy"`
	RequestDate     time.Time       `json:"requestDate"`
	ApprovedBy      *uint64         `json:"approvedById,omitempty"`
	ApprovedByName  *string         `json:"approvedBy,omitempty"`
	ApprovalDate    *time.Time      `json:"approvalDate,omitempty"`
	RejectionReason *string         `json:"rejectionReason,omitempty"`
	EmployeeID      *uint64         `json:"employeeId,omitempty"`
}
