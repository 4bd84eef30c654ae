package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/logger"
	"tableside/internal/models"
	"tableside/internal/storage"
)

func newManager(t *testing.T) (*Manager, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	m, err := NewManager(context.Background(), store, logger.New("cart-test"))
	require.NoError(t, err)
	return m, store
}

func item(id string, price int64, quantity int) models.CartItem {
	return models.CartItem{
		ID:       id,
		Name:     "Dish " + id,
		Price:    decimal.NewFromInt(price),
		Quantity: quantity,
	}
}

func TestAddToCart_MergesOnSameID(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	require.NoError(t, m.AddToCart(ctx, item("d1", 100, 2)))
	require.NoError(t, m.AddToCart(ctx, item("d2", 50, 1)))
	assert.True(t, m.TotalAmount().Equal(decimal.NewFromInt(250)))

	// Adding the same ID again sums quantities instead of appending.
	require.NoError(t, m.AddToCart(ctx, item("d1", 100, 1)))

	items := m.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "d1", items[0].ID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, m.TotalAmount().Equal(decimal.NewFromInt(350)))
}

func TestAddToCart_QuantitySumsAcrossManyAdds(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, m.AddToCart(ctx, item("d1", 10, 2)))
	}

	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].Quantity)
}

func TestAddToCart_RejectsInvalidItem(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	assert.Error(t, m.AddToCart(ctx, item("", 100, 1)))
	assert.Error(t, m.AddToCart(ctx, item("d1", 100, 0)))
	assert.Equal(t, 0, m.Len())
}

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	require.NoError(t, m.AddToCart(ctx, item("d1", 100, 1)))
	require.NoError(t, m.AddToCart(ctx, item("d2", 50, 1)))

	require.NoError(t, m.RemoveFromCart(ctx, "d1"))
	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "d2", items[0].ID)
	assert.True(t, m.TotalAmount().Equal(decimal.NewFromInt(50)))

	// Absent ID is a no-op.
	require.NoError(t, m.RemoveFromCart(ctx, "missing"))
	assert.Equal(t, 1, m.Len())
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	require.NoError(t, m.AddToCart(ctx, item("d1", 100, 2)))

	// Replace, not merge.
	require.NoError(t, m.UpdateQuantity(ctx, "d1", 5))
	assert.Equal(t, 5, m.Items()[0].Quantity)
	assert.True(t, m.TotalAmount().Equal(decimal.NewFromInt(500)))

	// Below one is rejected, state unchanged.
	assert.ErrorIs(t, m.UpdateQuantity(ctx, "d1", 0), ErrQuantityTooSmall)
	assert.Equal(t, 5, m.Items()[0].Quantity)

	// Absent ID leaves the cart unchanged.
	require.NoError(t, m.UpdateQuantity(ctx, "missing", 3))
	items := m.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestClearCart_DeletesPersistedKey(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t)

	require.NoError(t, m.AddToCart(ctx, item("d1", 100, 1)))
	_, ok, err := store.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, m.ClearCart(ctx))
	assert.Equal(t, 0, m.Len())
	assert.True(t, m.TotalAmount().Equal(decimal.Zero))

	// The key is removed, not rewritten as an empty list.
	_, ok, err = store.Get(ctx, storage.KeyCart)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	log := logger.New("cart-test")

	m, err := NewManager(ctx, store, log)
	require.NoError(t, err)
	require.NoError(t, m.AddToCart(ctx, models.CartItem{
		ID:        "d1",
		Name:      "Biryani",
		Price:     decimal.RequireFromString("249.50"),
		Image:     "biryani.jpg",
		Quantity:  2,
		Nutrition: models.NutritionMap{"calories": 800},
	}))

	// A fresh manager over the same store simulates a page reload.
	reloaded, err := NewManager(ctx, store, log)
	require.NoError(t, err)

	items := reloaded.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "d1", items[0].ID)
	assert.Equal(t, "Biryani", items[0].Name)
	assert.Equal(t, "biryani.jpg", items[0].Image)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 800.0, items[0].Nutrition["calories"])
	assert.True(t, reloaded.TotalAmount().Equal(decimal.RequireFromString("499")))
}

func TestMalformedPersistedCartLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, storage.KeyCart, []byte("{not an array")))

	m, err := NewManager(ctx, store, logger.New("cart-test"))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	assert.True(t, m.TotalAmount().Equal(decimal.Zero))
}

func TestTotalRecomputedAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	require.NoError(t, m.AddToCart(ctx, item("d1", 100, 2)))
	assert.True(t, m.TotalAmount().Equal(decimal.NewFromInt(200)))

	require.NoError(t, m.AddToCart(ctx, item("d2", 50, 1)))
	assert.True(t, m.TotalAmount().Equal(decimal.NewFromInt(250)))

	require.NoError(t, m.UpdateQuantity(ctx, "d2", 4))
	assert.True(t, m.TotalAmount().Equal(decimal.NewFromInt(400)))

	require.NoError(t, m.RemoveFromCart(ctx, "d1"))
	assert.True(t, m.TotalAmount().Equal(decimal.NewFromInt(200)))

	require.NoError(t, m.ClearCart(ctx))
	assert.True(t, m.TotalAmount().Equal(decimal.Zero))
}
