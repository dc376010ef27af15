package constants

const (
	NotificationEmployeeRequestCreated  = "EMPLOYEE_REQUEST_CREATED"
	NotificationEmployeeRequestApproval = "EMPLOYEE_REQUEST_APPROVAL"
	NotificationEmployeeRequestApproved = "EMPLOYEE_REQUEST_APPROVED"
	NotificationEmployeeRequestRejected = "EMPLOYEE_REQUEST_REJECTED"
	NotificationInventoryRequestCreated = "INVENTORY_REQUEST_CREATED"
	NotificationInventoryApproved       = "INVENTORY_REQUEST_APPROVED"
	NotificationInventoryRejected       = "INVENTORY_REQUEST_REJECTED"
	NotificationMRFApproved             = "MRF_APPROVED"
	NotificationMRFRejected             = "MRF_REJECTED"
	NotificationPOApprovalRequired      = "PO_APPROVAL_REQUIRED"
	NotificationPOApproved              = "PO_APPROVED"
	NotificationPORejected              = "PO_REJECTED"
	NotificationBudgetAlert             = "BUDGET_ALERT"
)

// Значения notifications.related_entity.
const (
	EntityEmployeeRequest  = "employee_request"
	EntityInventoryRequest = "inventory_request"
	EntityMRF              = "mrf"
	EntityPurchaseOrder    = "purchase_order"
	EntityProject          = "project"
)
