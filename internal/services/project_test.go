package services

import (
	"testing"
	"time"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProjectService_SaveTimesheet(t *testing.T) {
	old := timeNow
	timeNow = func() time.Time { return time.Date(2026, 3, 15, 17, 30, 0, 0, time.UTC) }
	defer func() { timeNow = old }()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	projects := &fakeProjectRepo{
		projects: map[uint64]*entities.Project{
			1: {ID: 1, StartDate: start, EndDate: end, PerHourRate: d("16"), PerDayRate: d("150")},
			2: {ID: 2, StartDate: start, EndDate: end, PerDayRate: d("150")},
		},
		assigned: map[uint64][]uint64{1: {20}, 2: {20}},
	}
	timesheets := &fakeTimesheetRepo{}
	lead := &entities.User{ID: 9, Username: "lead", RoleName: constants.RoleProjectManager}
	service := NewProjectService(projects, &fakeEmployeeRepo{}, timesheets, &fakeProjectInventoryRepo{}, newFakeUserRepo(lead), zap.NewNop())
	ctx := actorCtx(lead, authz.TimesheetsManage)

	cases := []struct {
		name      string
		projectID uint64
		payload   dto.TimesheetDTO
		code      int
		hours     string
		amount    string
	}{
		{"hourly rate", 1, dto.TimesheetDTO{EmployeeID: 20, WorkDate: "2026-03-10", HoursWorked: d("7.5")}, 0, "7.5", "120"},
		{"hours rounded before pricing", 1, dto.TimesheetDTO{EmployeeID: 20, WorkDate: "2026-03-11", HoursWorked: d("0.125")}, 0, "0.13", "2.08"},
		{"daily rate", 2, dto.TimesheetDTO{EmployeeID: 20, WorkDate: "2026-03-15", HoursWorked: d("3")}, 0, "3", "150"},
		{"zero hours", 2, dto.TimesheetDTO{EmployeeID: 20, WorkDate: "2026-03-12", HoursWorked: d("0")}, 0, "0", "0"},
		{"not assigned", 1, dto.TimesheetDTO{EmployeeID: 21, WorkDate: "2026-03-10", HoursWorked: d("8")}, 400, "", ""},
		{"future date", 1, dto.TimesheetDTO{EmployeeID: 20, WorkDate: "2026-03-16", HoursWorked: d("8")}, 400, "", ""},
		{"before project start", 1, dto.TimesheetDTO{EmployeeID: 20, WorkDate: "2026-02-28", HoursWorked: d("8")}, 400, "", ""},
		{"too many hours", 1, dto.TimesheetDTO{EmployeeID: 20, WorkDate: "2026-03-10", HoursWorked: d("24.5")}, 400, "", ""},
		{"unknown project", 7, dto.TimesheetDTO{EmployeeID: 20, WorkDate: "2026-03-10", HoursWorked: d("8")}, 404, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			saved := len(timesheets.saved)
			ts, err := service.SaveTimesheet(ctx, tc.projectID, tc.payload)
			if tc.code != 0 {
				assert.Equal(t, tc.code, httpCode(err))
				assert.Len(t, timesheets.saved, saved)
				return
			}
			require.NoError(t, err)
			assert.True(t, ts.HoursWorked.Equal(d(tc.hours)), "hours %s", ts.HoursWorked)
			assert.True(t, ts.TotalAmount.Equal(d(tc.amount)), "amount %s", ts.TotalAmount)
		})
	}

	_, err := service.SaveTimesheet(ctx, 1, dto.TimesheetDTO{EmployeeID: 21, WorkDate: "2026-03-10", HoursWorked: d("8")})
	assert.ErrorIs(t, err, errNotAssigned)
	assert.EqualError(t, err, errNotAssigned.Error())

	_, err = service.SaveTimesheet(actorCtx(lead, authz.TimesheetsView), 1, dto.TimesheetDTO{EmployeeID: 20, WorkDate: "2026-03-10", HoursWorked: d("1")})
	assert.Equal(t, 403, httpCode(err))
}
