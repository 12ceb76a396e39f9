package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/staycheck/internal/domain"
)

func TestChecklistStoreCreateAndList(t *testing.T) {
	d := openTestDB(t)
	f := newFixture(t, d)
	items := NewChecklistStore(d)
	ctx := context.Background()

	towel, err := items.Create(ctx, f.room.ID, "Towel", decimal.RequireFromString("15.25"))
	require.NoError(t, err)
	_, err = items.Create(ctx, f.room.ID, "Hair Dryer", decimal.NewFromInt(30))
	require.NoError(t, err)

	assert.Equal(t, "15.25", towel.ReplacementCost.String())

	list, err := items.ListByRoomID(ctx, f.room.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Towel", list[0].Name)
	assert.Equal(t, "30", list[1].ReplacementCost.String())
}

func TestChecklistStoreUpdate(t *testing.T) {
	d := openTestDB(t)
	f := newFixture(t, d)
	items := NewChecklistStore(d)
	ctx := context.Background()

	it, err := items.Create(ctx, f.room.ID, "Towel", decimal.NewFromInt(15))
	require.NoError(t, err)

	require.NoError(t, items.Update(ctx, it.ID, "Bath Towel", decimal.NewFromInt(20)))

	got, err := items.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bath Towel", got.Name)
	assert.Equal(t, "20", got.ReplacementCost.String())

	err = items.Update(ctx, 99999, "Ghost", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
