package repositories

import (
	"context"
	"errors"
	"os"
	"testing"

	"erp-system/internal/entities"
	"erp-system/pkg/constants"
	"erp-system/pkg/database/postgresql"
	apperrors "erp-system/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Runs against a disposable database: TEST_DATABASE_URL=postgres://... go test ./internal/repositories
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := postgresql.ConnectDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgresql.Migrate(ctx, pool))
	return pool
}

func createTestUser(t *testing.T, pool *pgxpool.Pool) *entities.User {
	t.Helper()
	ctx := context.Background()
	var roleID uint64
	err := pool.QueryRow(ctx, `INSERT INTO roles (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id`, constants.RoleUser).Scan(&roleID)
	require.NoError(t, err)

	user, err := NewUserRepository(pool, zap.NewNop()).Create(ctx, &entities.User{
		Username: "it-" + uuid.NewString()[:8],
		Password: "hash",
		RoleID:   roleID,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleUser, user.RoleName)
	return user
}

func TestMRFRepository_CreateAndReadBack(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := createTestUser(t, pool)
	repo := NewMRFRepository(pool, zap.NewNop())

	var id uint64
	var number string
	err := NewTxManager(pool).RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		number, err = repo.NextNumber(ctx, tx)
		if err != nil {
			return err
		}
		id, err = repo.Create(ctx, tx, &entities.MaterialRequestForm{
			MRFNumber:           number,
			RequestorName:       "Site Lead",
			RequestorDepartment: "Operations",
			RequestorEmployeeID: "E-1",
			ReasonJustification: "scaffolding",
			TotalAmount:         decimal.RequireFromString("150.00"),
			Status:              constants.StatusPending,
			RequestedBy:         user.ID,
		})
		if err != nil {
			return err
		}
		return repo.ReplaceItems(ctx, tx, id, []entities.MRFItem{
			{ItemDescription: "Clamp", Quantity: 10, UnitPrice: decimal.RequireFromString("15"), Amount: decimal.RequireFromString("150")},
		})
	})
	require.NoError(t, err)

	got, err := repo.FindByNumber(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, user.Username, got.RequestedByName)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Amount.Equal(decimal.NewFromInt(150)))

	mine, err := repo.List(ctx, MRFQuery{RequestedBy: user.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, number, mine[0].MRFNumber)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := createTestUser(t, pool)
	notifications := NewNotificationRepository(pool, zap.NewNop())

	boom := errors.New("boom")
	err := NewTxManager(pool).RunInTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := notifications.Create(ctx, tx, &entities.Notification{
			UserID: user.ID, Type: constants.NotificationMRFApproved, Title: "t", Message: "m",
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := notifications.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotificationRepository_ReadFlow(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := createTestUser(t, pool)
	repo := NewNotificationRepository(pool, zap.NewNop())

	first, err := repo.Create(ctx, nil, &entities.Notification{UserID: user.ID, Type: constants.NotificationMRFApproved, Title: "a", Message: "a"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, nil, &entities.Notification{UserID: user.ID, Type: constants.NotificationMRFApproved, Title: "b", Message: "b"})
	require.NoError(t, err)

	require.NoError(t, repo.MarkRead(ctx, first.ID))
	unread, err := repo.FindByUser(ctx, user.ID, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	updated, err := repo.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, updated)

	count, err := repo.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInventoryRepository_AdjustQuantity(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewInventoryRepository(pool, zap.NewNop())

	code, err := repo.NextCode(ctx, nil)
	require.NoError(t, err)
	item, err := repo.Create(ctx, nil, &entities.Inventory{
		InventoryID:      code,
		Name:             "Cement bag",
		Quantity:         10,
		PerQuantityPrice: decimal.RequireFromString("2.50"),
	})
	require.NoError(t, err)
	assert.True(t, item.TotalPrice.Equal(decimal.RequireFromString("25")))

	require.NoError(t, repo.AdjustQuantity(ctx, nil, item.ID, -4))
	got, err := repo.FindByCode(ctx, nil, code)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)
	assert.True(t, got.TotalPrice.Equal(decimal.RequireFromString("15")))

	err = repo.AdjustQuantity(ctx, nil, item.ID, -100)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, apperrors.ErrBadRequest.Code, httpErr.Code)

	assert.ErrorIs(t, repo.AdjustQuantity(ctx, nil, 0, 1), apperrors.ErrNotFound)
}
