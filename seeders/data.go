package seeders

import "erp-system/pkg/constants"

type roleSeed struct {
	Name        string
	Description string
}

var rolesData = []roleSeed{
	{Name: constants.RoleSuperAdmin, Description: "Full access, approves high value material requests"},
	{Name: constants.RoleAdmin, Description: "Approves material requests and reviews finance"},
	{Name: constants.RoleProjectManager, Description: "Runs projects, timesheets and procurement"},
	{Name: constants.RoleHRManager, Description: "Manages employees and onboarding requests"},
	{Name: constants.RoleUser, Description: "Basic access"},
}
