package services

import (
	"testing"

	"erp-system/internal/authz"
	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/pkg/constants"
	apperrors "erp-system/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProjectInventoryService_AllocatesAndReturnsStock(t *testing.T) {
	pm := &entities.User{ID: 4, Username: "pm", RoleName: constants.RoleProjectManager}
	inventory := &fakeInventoryRepo{items: map[uint64]*entities.Inventory{
		10: {ID: 10, InventoryID: "INV0010", Quantity: 5, PerQuantityPrice: decimal.RequireFromString("12.50")},
	}}
	items := &fakeProjectInventoryRepo{items: map[uint64]*entities.ProjectInventoryItem{}}
	projects := &fakeProjectRepo{projects: map[uint64]*entities.Project{1: {ID: 1}}}
	service := NewProjectInventoryService(items, inventory, projects, newFakeUserRepo(pm), fakeTxManager{}, zap.NewNop())
	ctx := actorCtx(pm, authz.ProjectInventoryManage)

	item, err := service.AddItem(ctx, 1, dto.AddProjectInventoryDTO{InventoryID: 10, RequiredQuantity: 8})
	require.NoError(t, err)
	assert.Equal(t, 5, item.AllocatedQuantity)
	assert.Equal(t, 3, item.ShortageQuantity)
	assert.True(t, item.TotalPrice.Equal(decimal.RequireFromString("62.5")))
	assert.Equal(t, 0, inventory.items[10].Quantity)

	_, err = service.AddItem(ctx, 2, dto.AddProjectInventoryDTO{InventoryID: 10, RequiredQuantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, service.RemoveItem(ctx, 2, item.ID), apperrors.ErrNotFound, "item belongs to another project")

	require.NoError(t, service.RemoveItem(ctx, 1, item.ID))
	assert.Equal(t, 5, inventory.items[10].Quantity)
	assert.True(t, inventory.items[10].TotalPrice.Equal(decimal.RequireFromString("62.5")))
	assert.Empty(t, items.items)

	_, err = service.AddItem(actorCtx(pm, authz.ProjectInventoryView), 1, dto.AddProjectInventoryDTO{InventoryID: 10, RequiredQuantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
