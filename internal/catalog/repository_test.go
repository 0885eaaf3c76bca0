package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddharth-200231/ADProject/internal/catalog"
	"github.com/siddharth-200231/ADProject/internal/db"
	"github.com/siddharth-200231/ADProject/internal/domain"
)

func setupTestStore(t *testing.T) catalog.Store {
	t.Helper()

	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.RunMigrations(conn, "../../migrations"))

	return catalog.NewStore(conn)
}

func seedProduct(t *testing.T, store catalog.Store, name, category string) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:          name,
		Description:   "test product",
		Category:      category,
		Brand:         "Acme",
		Price:         19.99,
		Available:     true,
		StockQuantity: 10,
		ReleaseDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Create(context.Background(), p))
	return p
}

func TestCreateAndFindByID(t *testing.T) {
	store := setupTestStore(t)

	created := seedProduct(t, store, "Laptop", "electronics")
	require.NotZero(t, created.ID)

	found, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Laptop", found.Name)
	assert.Equal(t, "electronics", found.Category)
	assert.Equal(t, 19.99, found.Price)
	assert.True(t, found.Available)
	assert.False(t, found.CreatedAt.IsZero())
}

func TestFindByID_Unknown(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.FindByID(context.Background(), 9999)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestListAll(t *testing.T) {
	store := setupTestStore(t)
	seedProduct(t, store, "Laptop", "electronics")
	seedProduct(t, store, "Mug", "kitchen")

	products, err := store.ListAll(context.Background())
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "Laptop", products[0].Name)
	assert.Equal(t, "Mug", products[1].Name)
}

func TestListCategories_DistinctAndSorted(t *testing.T) {
	store := setupTestStore(t)
	seedProduct(t, store, "Laptop", "electronics")
	seedProduct(t, store, "Phone", "electronics")
	seedProduct(t, store, "Mug", "kitchen")

	categories, err := store.ListCategories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"electronics", "kitchen"}, categories)
}

func TestFindByID_CancelledContext(t *testing.T) {
	store := setupTestStore(t)
	created := seedProduct(t, store, "Laptop", "electronics")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.FindByID(ctx, created.ID)
	assert.Error(t, err)
}
