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

type inventoryFixture struct {
	service   InventoryServiceInterface
	inventory *fakeInventoryRepo
	requests  *fakeInventoryRequestRepo
	notes     *fakeNotificationRepo
	tx        *recordingTxManager
	clerk     *entities.User
	admin     *entities.User
}

func newInventoryFixture() *inventoryFixture {
	f := &inventoryFixture{
		inventory: &fakeInventoryRepo{items: map[uint64]*entities.Inventory{
			1: {ID: 1, InventoryID: "INV0001", Name: "Cement", Quantity: 10, PerQuantityPrice: d("4"), TotalPrice: d("40")},
		}},
		requests: &fakeInventoryRequestRepo{requests: map[uint64]*entities.InventoryRequest{}},
		notes:    &fakeNotificationRepo{},
		tx:       newRecordingTxManager(),
		clerk:    &entities.User{ID: 6, Username: "clerk", RoleName: constants.RoleUser},
		admin:    &entities.User{ID: 3, Username: "root", RoleName: constants.RoleSuperAdmin},
	}
	users := newFakeUserRepo(f.clerk, f.admin)
	notifications := NewNotificationService(f.notes, users, &recordingPublisher{}, zap.NewNop())
	f.service = NewInventoryService(f.inventory, f.requests, users, notifications, f.tx, zap.NewNop())
	return f
}

func TestInventoryService_ApproveAppliesChangeInSameTx(t *testing.T) {
	cases := []struct {
		name   string
		submit func(f *inventoryFixture) (*entities.InventoryRequest, error)
		check  func(t *testing.T, items map[uint64]*entities.Inventory)
	}{
		{
			name: "create",
			submit: func(f *inventoryFixture) (*entities.InventoryRequest, error) {
				return f.service.RequestCreate(actorCtx(f.clerk, authz.InventoryRequest),
					dto.InventoryRequestDTO{Name: "Sand", Quantity: 3, PerQuantityPrice: d("2.5"), SupplierName: "Quarry"})
			},
			check: func(t *testing.T, items map[uint64]*entities.Inventory) {
				require.Len(t, items, 2)
				sand := items[2]
				assert.Equal(t, "INV0002", sand.InventoryID)
				assert.Equal(t, "Sand", sand.Name)
				assert.Equal(t, "Quarry", sand.SupplierName)
				assert.True(t, sand.TotalPrice.Equal(d("7.5")))
			},
		},
		{
			name: "update",
			submit: func(f *inventoryFixture) (*entities.InventoryRequest, error) {
				return f.service.RequestUpdate(actorCtx(f.clerk, authz.InventoryRequest), "INV0001",
					dto.InventoryRequestDTO{Name: "Cement 50kg", Quantity: 20, PerQuantityPrice: d("4.5")})
			},
			check: func(t *testing.T, items map[uint64]*entities.Inventory) {
				require.Len(t, items, 1)
				assert.Equal(t, "Cement 50kg", items[1].Name)
				assert.Equal(t, 20, items[1].Quantity)
				assert.True(t, items[1].TotalPrice.Equal(d("90")))
			},
		},
		{
			name: "delete",
			submit: func(f *inventoryFixture) (*entities.InventoryRequest, error) {
				return f.service.RequestDelete(actorCtx(f.clerk, authz.InventoryRequest), "INV0001")
			},
			check: func(t *testing.T, items map[uint64]*entities.Inventory) {
				assert.Empty(t, items)
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newInventoryFixture()
			req, err := tc.submit(f)
			require.NoError(t, err)
			assert.Equal(t, constants.StatusPending, req.Status)
			assert.Len(t, f.inventory.items, 1, "nothing changes before approval")

			f.inventory.txs = nil
			runsBefore := f.tx.runs
			approved, err := f.service.ApproveRequest(actorCtx(f.admin, authz.InventoryApprove), req.ID)
			require.NoError(t, err)
			assert.Equal(t, constants.StatusApproved, approved.Status)
			tc.check(t, f.inventory.items)

			assert.Equal(t, runsBefore+1, f.tx.runs)
			require.NotEmpty(t, f.inventory.txs)
			for _, tx := range f.inventory.txs {
				assert.Same(t, f.tx.tx, tx)
			}
			require.Len(t, f.requests.txs, 1)
			assert.Same(t, f.tx.tx, f.requests.txs[0])

			last := f.notes.rows[len(f.notes.rows)-1]
			assert.Equal(t, constants.NotificationInventoryApproved, last.Type)
			assert.Equal(t, f.clerk.ID, last.UserID)
		})
	}
}

func TestInventoryService_RejectLeavesStockAlone(t *testing.T) {
	f := newInventoryFixture()
	req, err := f.service.RequestDelete(actorCtx(f.clerk, authz.InventoryRequest), "INV0001")
	require.NoError(t, err)

	require.Len(t, f.notes.rows, 1)
	assert.Equal(t, constants.NotificationInventoryRequestCreated, f.notes.rows[0].Type)
	assert.Equal(t, f.admin.ID, f.notes.rows[0].UserID)

	_, err = f.service.RejectRequest(actorCtx(f.admin, authz.InventoryApprove), req.ID, "")
	assert.Equal(t, 400, httpCode(err))

	rejected, err := f.service.RejectRequest(actorCtx(f.admin, authz.InventoryApprove), req.ID, "still in use")
	require.NoError(t, err)
	assert.Equal(t, constants.StatusRejected, rejected.Status)
	assert.Len(t, f.inventory.items, 1)
	assert.Equal(t, "Your inventory delete request for 'Cement' has been rejected. Reason: still in use", f.notes.rows[1].Message)

	_, err = f.service.ApproveRequest(actorCtx(f.admin, authz.InventoryApprove), req.ID)
	assert.Equal(t, 400, httpCode(err))
}

func TestInventoryService_RequestValidation(t *testing.T) {
	f := newInventoryFixture()
	ctx := actorCtx(f.clerk, authz.InventoryRequest)

	_, err := f.service.RequestUpdate(ctx, "INV9999", dto.InventoryRequestDTO{Name: "x"})
	assert.Equal(t, 404, httpCode(err))

	_, err = f.service.RequestCreate(ctx, dto.InventoryRequestDTO{Name: "Paint", ProductionDate: "2026-05-01", ExpiryDate: "2026-04-01"})
	assert.Equal(t, 400, httpCode(err))

	_, err = f.service.RequestCreate(actorCtx(f.clerk, authz.InventoryView), dto.InventoryRequestDTO{Name: "Paint"})
	assert.Equal(t, 403, httpCode(err))
	assert.Empty(t, f.requests.requests)
}
