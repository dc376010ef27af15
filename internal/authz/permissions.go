package authz

const (
	Superuser = "superuser"

	MRFView    = "mrf:view"
	MRFCreate  = "mrf:create"
	MRFUpdate  = "mrf:update"
	MRFDelete  = "mrf:delete"
	MRFApprove = "mrf:approve"

	EmployeesView   = "employees:view"
	EmployeesCreate = "employees:create"
	EmployeesUpdate = "employees:update"
	EmployeesDelete = "employees:delete"

	EmployeeRequestsCreate  = "employee_requests:create"
	EmployeeRequestsView    = "employee_requests:view"
	EmployeeRequestsApprove = "employee_requests:approve"

	InventoryView    = "inventory:view"
	InventoryRequest = "inventory:request"
	InventoryApprove = "inventory:approve"

	ProjectsView   = "projects:view"
	ProjectsCreate = "projects:create"
	ProjectsUpdate = "projects:update"
	ProjectsDelete = "projects:delete"

	ProjectInventoryView   = "project_inventory:view"
	ProjectInventoryManage = "project_inventory:manage"

	TimesheetsView   = "timesheets:view"
	TimesheetsManage = "timesheets:manage"

	PurchaseOrdersView    = "purchase_orders:view"
	PurchaseOrdersCreate  = "purchase_orders:create"
	PurchaseOrdersUpdate  = "purchase_orders:update"
	PurchaseOrdersDelete  = "purchase_orders:delete"
	PurchaseOrdersApprove = "purchase_orders:approve"

	ReportsView = "reports:view"

	CashFlowsView   = "cash_flows:view"
	CashFlowsCreate = "cash_flows:create"

	UsersManage = "users:manage"

	NotificationsView = "notifications:view"
)

// PermissionDescriptions - полный каталог прав, его пишет сидер.
var PermissionDescriptions = map[string]string{
	Superuser:               "Full access",
	MRFView:                 "View material request forms",
	MRFCreate:               "Create material request forms",
	MRFUpdate:               "Edit own pending material request forms",
	MRFDelete:               "Delete own pending material request forms",
	MRFApprove:              "Approve or reject material request forms",
	EmployeesView:           "View employees",
	EmployeesCreate:         "Create employees",
	EmployeesUpdate:         "Edit employees",
	EmployeesDelete:         "Delete employees",
	EmployeeRequestsCreate:  "Submit employee onboarding requests",
	EmployeeRequestsView:    "View employee onboarding requests",
	EmployeeRequestsApprove: "Approve or reject employee onboarding requests",
	InventoryView:           "View inventory",
	InventoryRequest:        "Request inventory changes",
	InventoryApprove:        "Approve or reject inventory requests",
	ProjectsView:            "View projects",
	ProjectsCreate:          "Create projects",
	ProjectsUpdate:          "Edit projects and assignments",
	ProjectsDelete:          "Delete projects",
	ProjectInventoryView:    "View project inventory",
	ProjectInventoryManage:  "Allocate inventory to projects",
	TimesheetsView:          "View timesheets",
	TimesheetsManage:        "Record timesheets",
	PurchaseOrdersView:      "View purchase orders",
	PurchaseOrdersCreate:    "Create purchase orders",
	PurchaseOrdersUpdate:    "Update purchase order status",
	PurchaseOrdersDelete:    "Delete purchase orders",
	PurchaseOrdersApprove:   "Approve or reject purchase orders",
	ReportsView:             "View financial reports",
	CashFlowsView:           "View cash flow entries",
	CashFlowsCreate:         "Record cash flow entries",
	UsersManage:             "Manage user accounts",
	NotificationsView:       "Read own notifications",
}
