package services

import (
	"testing"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/pkg/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type employeeRequestFixture struct {
	service   EmployeeRequestServiceInterface
	requests  *fakeEmployeeRequestRepo
	employees *fakeEmployeeRepo
	notes     *fakeNotificationRepo
	hr        *entities.User
	admin     *entities.User
}

func newEmployeeRequestFixture() *employeeRequestFixture {
	f := &employeeRequestFixture{
		requests:  &fakeEmployeeRequestRepo{requests: map[uint64]*entities.EmployeeRequest{}},
		employees: &fakeEmployeeRepo{employees: map[uint64]*entities.Employee{}},
		notes:     &fakeNotificationRepo{},
		hr:        &entities.User{ID: 8, Username: "hr", RoleName: constants.RoleUser},
		admin:     &entities.User{ID: 3, Username: "root", RoleName: constants.RoleSuperAdmin},
	}
	users := newFakeUserRepo(f.hr, f.admin)
	notifications := NewNotificationService(f.notes, users, &recordingPublisher{}, zap.NewNop())
	f.service = NewEmployeeRequestService(f.requests, f.employees, users, notifications, nil, fakeTxManager{}, zap.NewNop())
	return f
}

func employeePayload(empID, passport, emirates string) dto.CreateEmployeeDTO {
	return dto.CreateEmployeeDTO{
		Name:        "Ali Hassan",
		EmpID:       empID,
		PassportID:  passport,
		EmiratesID:  emirates,
		Phone:       "+971501234567",
		JoiningDate: "2026-03-01",
		Salary:      d("4500"),
	}
}

func TestEmployeeRequestService_ApproveCreatesEmployee(t *testing.T) {
	f := newEmployeeRequestFixture()

	req, err := f.service.Create(actorCtx(f.hr, authz.EmployeeRequestsCreate), employeePayload("E-100", "A1234567", "784-1990-1234567-1"), nil)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPending, req.Status)
	assert.Empty(t, f.employees.employees)

	require.Len(t, f.notes.rows, 1)
	assert.Equal(t, constants.NotificationEmployeeRequestCreated, f.notes.rows[0].Type)
	assert.Equal(t, f.admin.ID, f.notes.rows[0].UserID)

	approved, err := f.service.Approve(actorCtx(f.admin, authz.EmployeeRequestsApprove), req.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusApproved, approved.Status)
	require.NotNil(t, approved.EmployeeID)

	employee := f.employees.employees[*approved.EmployeeID]
	require.NotNil(t, employee)
	assert.Equal(t, "E-100", employee.EmpID)
	assert.Equal(t, "A1234567", employee.PassportID)
	assert.True(t, employee.Salary.Equal(d("4500")))
	assert.Equal(t, "2026-03-01", employee.JoiningDate.Format("2006-01-02"))

	require.Len(t, f.notes.rows, 2)
	assert.Equal(t, constants.NotificationEmployeeRequestApproved, f.notes.rows[1].Type)
	assert.Equal(t, f.hr.ID, f.notes.rows[1].UserID)
}

func TestEmployeeRequestService_IdentityConflicts(t *testing.T) {
	cases := []struct {
		name     string
		existing entities.Employee
	}{
		{"same employee id", entities.Employee{EmpID: "E-100", PassportID: "Z0000001", EmiratesID: "784-1980-0000001-1"}},
		{"same passport", entities.Employee{EmpID: "E-900", PassportID: "A1234567", EmiratesID: "784-1980-0000001-1"}},
		{"same emirates id", entities.Employee{EmpID: "E-900", PassportID: "Z0000001", EmiratesID: "784-1990-1234567-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newEmployeeRequestFixture()
			payload := employeePayload("E-100", "A1234567", "784-1990-1234567-1")

			req, err := f.service.Create(actorCtx(f.hr, authz.EmployeeRequestsCreate), payload, nil)
			require.NoError(t, err)

			existing := tc.existing
			existing.ID = 1
			f.employees.employees[1] = &existing

			_, err = f.service.Approve(actorCtx(f.admin, authz.EmployeeRequestsApprove), req.ID)
			assert.Equal(t, 409, httpCode(err))
			assert.Len(t, f.employees.employees, 1)
			assert.Equal(t, constants.StatusPending, f.requests.requests[req.ID].Status)

			_, err = f.service.Create(actorCtx(f.hr, authz.EmployeeRequestsCreate), employeePayload(existing.EmpID, existing.PassportID, existing.EmiratesID), nil)
			assert.Equal(t, 409, httpCode(err), "a new request reusing a stored identity")
		})
	}
}

func TestEmployeeRequestService_RejectAndValidation(t *testing.T) {
	f := newEmployeeRequestFixture()
	ctx := actorCtx(f.hr, authz.EmployeeRequestsCreate)

	bad := employeePayload("E-1", "B7654321", "784-1985-7654321-2")
	bad.Salary = d("0")
	_, err := f.service.Create(ctx, bad, nil)
	assert.Equal(t, 400, httpCode(err))

	req, err := f.service.Create(ctx, employeePayload("E-1", "B7654321", "784-1985-7654321-2"), nil)
	require.NoError(t, err)

	_, err = f.service.Create(ctx, employeePayload("E-2", "B7654321", "784-1985-0000000-2"), nil)
	assert.Equal(t, 409, httpCode(err), "a pending request already holds the passport")

	_, err = f.service.Reject(actorCtx(f.admin, authz.EmployeeRequestsApprove), req.ID, "")
	assert.Equal(t, 400, httpCode(err))

	rejected, err := f.service.Reject(actorCtx(f.admin, authz.EmployeeRequestsApprove), req.ID, "missing visa")
	require.NoError(t, err)
	assert.Equal(t, constants.StatusRejected, rejected.Status)
	assert.Nil(t, rejected.EmployeeID)
	assert.Empty(t, f.employees.employees)
	assert.Equal(t, constants.NotificationEmployeeRequestRejected, f.notes.rows[len(f.notes.rows)-1].Type)

	_, err = f.service.Approve(actorCtx(f.admin, authz.EmployeeRequestsApprove), req.ID)
	assert.Equal(t, 400, httpCode(err))
}
