package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vbonduro/staycheck/internal/db"
	"github.com/vbonduro/staycheck/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// fixture is a property with one room and a check-in/check-out pair.
type fixture struct {
	property *domain.Property
	room     *domain.Room
	checkin  *domain.Check
	checkout *domain.Check
}

func newFixture(t *testing.T, d *sql.DB) fixture {
	t.Helper()
	ctx := context.Background()

	p, err := NewPropertyStore(d).Create(ctx, "Beach House", nil)
	require.NoError(t, err)
	r, err := NewRoomStore(d).Create(ctx, p.ID, "Bathroom", domain.RoomBathroom)
	require.NoError(t, err)

	checks := NewCheckStore(d)
	guest := "Ada"
	in, err := checks.Create(ctx, p.ID, domain.CheckIn, &guest, time.Date(2026, 7, 1, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	out, err := checks.Create(ctx, p.ID, domain.CheckOut, &guest, time.Date(2026, 7, 5, 11, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	return fixture{property: p, room: r, checkin: in, checkout: out}
}
