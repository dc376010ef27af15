package services

import (
	"context"
	"testing"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/events"
	"erp-system/pkg/constants"
	apperrors "erp-system/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mrfFixture struct {
	service  MRFServiceInterface
	repo     *fakeMRFRepo
	notes    *fakeNotificationRepo
	bus      *recordingPublisher
	employee *entities.User
	manager  *entities.User
	admin    *entities.User
}

func newMRFFixture() *mrfFixture {
	f := &mrfFixture{
		repo:     newFakeMRFRepo(),
		notes:    &fakeNotificationRepo{},
		bus:      &recordingPublisher{},
		employee: &entities.User{ID: 1, Username: "emp", RoleName: constants.RoleUser},
		manager:  &entities.User{ID: 2, Username: "pm", RoleName: constants.RoleProjectManager},
		admin:    &entities.User{ID: 3, Username: "root", RoleName: constants.RoleSuperAdmin},
	}
	users := newFakeUserRepo(f.employee, f.manager, f.admin)
	notifications := NewNotificationService(f.notes, users, f.bus, zap.NewNop())
	f.service = NewMRFService(f.repo, users, notifications, fakeTxManager{}, decimal.NewFromInt(5000), zap.NewNop())
	return f
}

func mrfPayload(unitPrice int64, qty int) dto.CreateMRFDTO {
	return dto.CreateMRFDTO{
		RequestorName:       "Emp",
		RequestorDepartment: "Site",
		RequestorEmployeeID: "E-1",
		ReasonJustification: "tools",
		Items: []dto.MRFItemDTO{
			{ItemDescription: "drill", Quantity: qty, UnitPrice: decimal.NewFromInt(unitPrice)},
		},
	}
}

func TestMRFService_CreateComputesTier(t *testing.T) {
	f := newMRFFixture()
	ctx := actorCtx(f.employee, authz.MRFCreate)

	below, err := f.service.Create(ctx, mrfPayload(1000, 4))
	require.NoError(t, err)
	assert.True(t, below.TotalAmount.Equal(decimal.NewFromInt(4000)))
	assert.False(t, below.RequiresSuperadmin)
	assert.Equal(t, constants.StatusPending, below.Status)
	assert.Equal(t, f.employee.ID, below.RequestedBy)

	atThreshold, err := f.service.Create(ctx, mrfPayload(2500, 2))
	require.NoError(t, err)
	assert.True(t, atThreshold.RequiresSuperadmin, "the threshold itself needs a super admin")
}

func TestMRFService_CreateRequiresPermission(t *testing.T) {
	f := newMRFFixture()
	_, err := f.service.Create(actorCtx(f.employee, authz.MRFView), mrfPayload(1, 1))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestMRFService_ApproveRespectsTier(t *testing.T) {
	f := newMRFFixture()
	created, err := f.service.Create(actorCtx(f.employee, authz.MRFCreate), mrfPayload(6000, 1))
	require.NoError(t, err)

	_, err = f.service.Approve(actorCtx(f.manager, authz.MRFApprove), created.ID)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 403, httpErr.Code)

	approved, err := f.service.Approve(actorCtx(f.admin, authz.Superuser), created.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, f.admin.ID, *approved.ApprovedBy)

	require.Len(t, f.notes.rows, 1)
	assert.Equal(t, f.employee.ID, f.notes.rows[0].UserID)
	assert.Equal(t, constants.NotificationMRFApproved, f.notes.rows[0].Type)
	require.Len(t, f.bus.events, 1)
	assert.Equal(t, events.NotificationCreatedEventName, f.bus.events[0].Name())

	_, err = f.service.Approve(actorCtx(f.admin, authz.Superuser), created.ID)
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code, "a decided form cannot be decided again")
}

func TestMRFService_RejectNotifiesRequester(t *testing.T) {
	f := newMRFFixture()
	created, err := f.service.Create(actorCtx(f.employee, authz.MRFCreate), mrfPayload(10, 3))
	require.NoError(t, err)

	_, err = f.service.Reject(actorCtx(f.manager, authz.MRFApprove), created.ID, "")
	assert.Error(t, err)

	rejected, err := f.service.Reject(actorCtx(f.manager, authz.MRFApprove), created.ID, "over budget")
	require.NoError(t, err)
	assert.Equal(t, constants.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "over budget", *rejected.RejectionReason)

	require.Len(t, f.notes.rows, 1)
	assert.Equal(t, constants.NotificationMRFRejected, f.notes.rows[0].Type)
	assert.Equal(t, "Your MRF MRF0001 has been rejected by pm. Reason: over budget", f.notes.rows[0].Message)
}

func TestMRFService_UpdateOnlyByRequester(t *testing.T) {
	f := newMRFFixture()
	created, err := f.service.Create(actorCtx(f.employee, authz.MRFCreate), mrfPayload(10, 1))
	require.NoError(t, err)

	_, err = f.service.Update(actorCtx(f.admin, authz.Superuser), created.ID, mrfPayload(10, 2))
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 403, httpErr.Code)

	updated, err := f.service.Update(actorCtx(f.employee, authz.MRFUpdate), created.ID, mrfPayload(3000, 2))
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(6000)))
	assert.True(t, updated.RequiresSuperadmin)

	require.NoError(t, f.service.Delete(actorCtx(f.employee, authz.MRFDelete), created.ID))
	_, err = f.service.GetByID(actorCtx(f.employee, authz.MRFView), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMRFService_PendingQueueByTier(t *testing.T) {
	f := newMRFFixture()

	_, err := f.service.GetPending(actorCtx(f.manager, authz.MRFApprove))
	require.NoError(t, err)
	_, err = f.service.GetPending(actorCtx(f.admin, authz.Superuser))
	require.NoError(t, err)

	require.Len(t, f.repo.queries, 2)
	require.NotNil(t, f.repo.queries[0].RequiresSuperadmin)
	assert.False(t, *f.repo.queries[0].RequiresSuperadmin)
	assert.Nil(t, f.repo.queries[1].RequiresSuperadmin)

	_, err = f.service.GetPendingTier(context.Background(), true)
	assert.Error(t, err)
	_, err = f.service.GetPendingTier(actorCtx(f.manager, authz.MRFApprove), true)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
