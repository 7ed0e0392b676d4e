package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosk-order/cart"
)

func TestCartKey(t *testing.T) {
	assert.Equal(t, "kiosk-cart:abc", cartKey("abc"))
}

func latteSnapshot(revision int64) cart.Snapshot {
	s := cart.AddItemTo(cart.New(cart.DefaultTaxRate), cart.LineItemInput{
		MenuItemID: "latte",
		Quantity:   2,
		UnitPrice:  decimal.RequireFromString("4.25"),
		Modifiers:  []cart.Modifier{},
	}, "store-1")

	snap := s.Snapshot()
	snap.Revision = revision
	return snap
}

func TestMemoryCartRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCartRepository(0)

	snap, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Nil(t, snap)

	require.NoError(t, repo.Save(ctx, "session-1", latteSnapshot(1), 0))

	snap, err = repo.Load(ctx, "session-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "store-1", *snap.BoundStoreID)
	assert.Equal(t, int64(1), snap.Revision)

	other, err := repo.Load(ctx, "session-2")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestMemoryCartRepository_RejectsStaleRevision(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCartRepository(0)

	require.NoError(t, repo.Save(ctx, "s", latteSnapshot(1), 0))

	err := repo.Save(ctx, "s", cart.New(cart.DefaultTaxRate).Snapshot(), 0)
	assert.True(t, errors.Is(err, ErrCartConflict))

	require.NoError(t, repo.Save(ctx, "s", latteSnapshot(2), 1))
	err = repo.Save(ctx, "s", latteSnapshot(2), 1)
	assert.True(t, errors.Is(err, ErrCartConflict))

	snap, err := repo.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.Revision)
}

func TestMemoryCartRepository_ExpiresIdleCarts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := NewMemoryCartRepository(time.Hour)
	repo.now = func() time.Time { return now }

	require.NoError(t, repo.Save(ctx, "idle", latteSnapshot(1), 0))
	now = now.Add(30 * time.Minute)
	require.NoError(t, repo.Save(ctx, "active", latteSnapshot(1), 0))

	now = now.Add(45 * time.Minute)
	snap, err := repo.Load(ctx, "idle")
	require.NoError(t, err)
	assert.Nil(t, snap)

	require.NoError(t, repo.Save(ctx, "active", latteSnapshot(2), 1))
	repo.mu.Lock()
	assert.Len(t, repo.blobs, 1)
	repo.mu.Unlock()

	// an expired blob counts as absent
	now = now.Add(2 * time.Hour)
	require.NoError(t, repo.Save(ctx, "active", latteSnapshot(1), 0))
}

func TestMemoryCartRepository_StoresCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCartRepository(0)

	snap := cart.New(cart.DefaultTaxRate).Snapshot()
	snap.Revision = 1
	require.NoError(t, repo.Save(ctx, "s", snap, 0))
	snap.Items = append(snap.Items, cart.SnapshotItem{ID: "x", Quantity: 1})

	loaded, err := repo.Load(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
}
