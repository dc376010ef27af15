package services

import (
	"context"
	"testing"

	"erp-system/internal/authz"
	"erp-system/internal/entities"
	"erp-system/pkg/constants"
	apperrors "erp-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotificationService_NotifyAndDispatch(t *testing.T) {
	admin1 := &entities.User{ID: 1, Username: "a1", RoleName: constants.RoleSuperAdmin}
	admin2 := &entities.User{ID: 2, Username: "a2", RoleName: constants.RoleSuperAdmin}
	repo := &fakeNotificationRepo{}
	bus := &recordingPublisher{}
	service := NewNotificationService(repo, newFakeUserRepo(admin1, admin2), bus, zap.NewNop())
	ctx := context.Background()

	msg := NotificationMessage{
		Type:            constants.NotificationPOApprovalRequired,
		Title:           "Purchase Order Approval Required",
		Message:         "PO 1-PO-1 needs approval",
		RelatedEntity:   constants.EntityPurchaseOrder,
		RelatedEntityID: 9,
	}
	created, err := service.NotifyUsers(ctx, nil, []uint64{1, 1, 0, 2}, msg)
	require.NoError(t, err)
	require.Len(t, created, 2)
	require.NotNil(t, created[0].RelatedEntityID)
	assert.Equal(t, uint64(9), *created[0].RelatedEntityID)
	assert.Empty(t, bus.events, "nothing is published before Dispatch")

	service.Dispatch(ctx, created)
	assert.Len(t, bus.events, 2)

	byRole, err := service.NotifyRole(ctx, nil, constants.RoleSuperAdmin, msg)
	require.NoError(t, err)
	assert.Len(t, byRole, 2)

	none, err := service.NotifyRole(ctx, nil, constants.RoleHRManager, msg)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNotificationService_MarkReadOwnerOnly(t *testing.T) {
	owner := &entities.User{ID: 1, Username: "owner"}
	other := &entities.User{ID: 2, Username: "other"}
	repo := &fakeNotificationRepo{}
	service := NewNotificationService(repo, newFakeUserRepo(owner, other), nil, zap.NewNop())

	created, err := service.NotifyUsers(context.Background(), nil, []uint64{owner.ID}, NotificationMessage{Type: "T", Title: "t", Message: "m"})
	require.NoError(t, err)
	id := created[0].ID

	err = service.MarkRead(actorCtx(other, authz.NotificationsView), id)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, service.MarkRead(actorCtx(owner, authz.NotificationsView), id))
	assert.True(t, repo.rows[0].IsRead)
}
