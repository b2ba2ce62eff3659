package repository

import (
	"context"
	"testing"
	"time"

	"brewpos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashFlowRepository_Lifecycle(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCashFlowRepository(pool, zerolog.Nop())
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)

	float := &model.CashFlowEntry{
		ID: uuid.New(), Type: model.CashIn, Amount: dec("100.00"),
		Reason: "Opening float", CashierID: "cashier-1", CreatedAt: base,
	}
	milk := &model.CashFlowEntry{
		ID: uuid.New(), Type: model.CashOut, Amount: dec("18.40"),
		Reason: "Milk delivery", CashierID: "cashier-1", CreatedAt: base.Add(2 * time.Hour),
	}
	require.NoError(t, repo.Create(ctx, float))
	require.NoError(t, repo.Create(ctx, milk))

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, milk.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, model.CashOut, got.Type)
		assert.True(t, dec("18.40").Equal(got.Amount))
		assert.Nil(t, got.UpdatedAt)

		missing, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("List filters", func(t *testing.T) {
		all, err := repo.List(ctx, model.CashFlowFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, milk.ID, all[0].ID)

		outs, err := repo.List(ctx, model.CashFlowFilter{Type: model.CashOut})
		require.NoError(t, err)
		require.Len(t, outs, 1)

		from := base.Add(time.Hour)
		recent, err := repo.List(ctx, model.CashFlowFilter{From: &from})
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, milk.ID, recent[0].ID)

		early, err := repo.List(ctx, model.CashFlowFilter{To: &from})
		require.NoError(t, err)
		require.Len(t, early, 1)
		assert.Equal(t, float.ID, early[0].ID)

		search, err := repo.List(ctx, model.CashFlowFilter{Search: "FLOAT"})
		require.NoError(t, err)
		require.Len(t, search, 1)
		assert.Equal(t, float.ID, search[0].ID)
	})

	t.Run("Update", func(t *testing.T) {
		edited := base.Add(3 * time.Hour)
		milk.Amount = dec("19.40")
		milk.UpdatedAt = &edited
		require.NoError(t, repo.Update(ctx, milk))

		got, err := repo.GetByID(ctx, milk.ID)
		require.NoError(t, err)
		assert.True(t, dec("19.40").Equal(got.Amount))
		require.NotNil(t, got.UpdatedAt)
		assert.True(t, edited.Equal(*got.UpdatedAt))

		ghost := *milk
		ghost.ID = uuid.New()
		assert.Equal(t, model.ErrCashFlowNotFound, repo.Update(ctx, &ghost))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, float.ID))
		assert.Equal(t, model.ErrCashFlowNotFound, repo.Delete(ctx, float.ID))
	})
}

func TestSettingsRepository_GetAndUpdate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSettingsRepository(pool, zerolog.Nop())
	ctx := context.Background()

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "no settings saved yet")

	now := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)
	settings := &model.Settings{
		ShopName:      "Corner Roasters",
		Address:       "1 Main St",
		TaxRate:       dec("0.0825"),
		Currency:      "USD",
		ReceiptFooter: "See you tomorrow",
		UpdatedAt:     now,
	}
	require.NoError(t, repo.Update(ctx, settings))

	settings.TaxRate = dec("0.09")
	settings.UpdatedAt = now.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, settings))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Corner Roasters", got.ShopName)
	assert.True(t, dec("0.09").Equal(got.TaxRate))
	assert.True(t, now.Add(time.Hour).Equal(got.UpdatedAt))

	var rows int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM settings`).Scan(&rows))
	assert.Equal(t, 1, rows)
}
