package authz

import "erp-system/pkg/constants"

// RoleGrants: встроенная роль -> права, с которыми она создаётся.
var RoleGrants = map[string][]string{
	constants.RoleSuperAdmin: {Superuser},
	constants.RoleAdmin: {
		MRFView, MRFApprove,
		ReportsView, CashFlowsView, CashFlowsCreate,
		ProjectsView, PurchaseOrdersView,
		NotificationsView,
	},
	constants.RoleProjectManager: {
		MRFView, MRFCreate, MRFUpdate, MRFDelete,
		InventoryView, InventoryRequest,
		ProjectsView, ProjectsCreate, ProjectsUpdate, ProjectsDelete,
		ProjectInventoryView, ProjectInventoryManage,
		TimesheetsView, TimesheetsManage,
		PurchaseOrdersView, PurchaseOrdersCreate, PurchaseOrdersUpdate, PurchaseOrdersDelete,
		EmployeesView,
		NotificationsView,
	},
	constants.RoleHRManager: {
		EmployeesView, EmployeesCreate, EmployeesUpdate, EmployeesDelete,
		EmployeeRequestsCreate, EmployeeRequestsView,
		NotificationsView,
	},
	constants.RoleUser: {NotificationsView},
}
