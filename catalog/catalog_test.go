package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/norun9/dressco-storefront/cart"
)

func TestLoadLocalCatalog_DefaultSeed(t *testing.T) {
	ctx := context.Background()
	c, err := LoadLocalCatalog("")
	require.NoError(t, err)

	products, err := c.ListProducts(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, products, 5)

	p, err := c.GetProductByID(ctx, "linen-wrap-dress")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 89.0, p.Price)
	assert.True(t, p.HasSize("M"))
	assert.True(t, p.HasColor("Olive"))

	orders, err := c.GetOrdersByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ord-1002", orders[0].ID, "newest first")

	faqs, err := c.GetFAQs(ctx)
	require.NoError(t, err)
	require.Len(t, faqs, 3)
	assert.Equal(t, "faq-shipping", faqs[0].ID)

	reviews, err := c.GetReviews(ctx, "linen-wrap-dress")
	require.NoError(t, err)
	assert.Len(t, reviews, 4)
	assert.Equal(t, "Lovely fabric, runs a bit long.", reviews[1].Comment)
}

func TestGetProductByID_Absent(t *testing.T) {
	c, err := NewLocalCatalog(Seed{})
	require.NoError(t, err)

	p, err := c.GetProductByID(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetProductByID_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c, err := NewLocalCatalog(Seed{Products: []cart.Product{{ID: "a", Name: "A", Price: 1}}})
	require.NoError(t, err)

	p, _ := c.GetProductByID(ctx, "a")
	p.Price = 99
	again, _ := c.GetProductByID(ctx, "a")
	assert.Equal(t, 1.0, again.Price)
}

func TestListProducts_Filter(t *testing.T) {
	ctx := context.Background()
	c, err := LoadLocalCatalog("")
	require.NoError(t, err)

	dresses, _ := c.ListProducts(ctx, Filter{Category: "Dresses"})
	assert.Len(t, dresses, 2)

	silk, _ := c.ListProducts(ctx, Filter{Query: "  SILK "})
	require.Len(t, silk, 1)
	assert.Equal(t, "silk-slip-dress", silk[0].ID)
}

func TestUnknownUserHasNoOrders(t *testing.T) {
	c, err := LoadLocalCatalog("")
	require.NoError(t, err)

	orders, err := c.GetOrdersByUserID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestNewLocalCatalog_RejectsBadProducts(t *testing.T) {
	_, err := NewLocalCatalog(Seed{Products: []cart.Product{{ID: "a"}, {ID: "a"}}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewLocalCatalog(Seed{Products: []cart.Product{{Name: "anonymous"}}})
	assert.ErrorContains(t, err, "no id")
}

func TestLoadLocalCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
products:
  - id: tee
    name: Tee
    price: 12.5
    sizes: [M]
    colors: [{name: Grey}]
`), 0o644))

	c, err := LoadLocalCatalog(path)
	require.NoError(t, err)
	n, _ := c.CountOrders(context.Background())
	assert.Zero(t, n)
	p, _ := c.GetProductByID(context.Background(), "tee")
	require.NotNil(t, p)
	assert.Equal(t, []cart.ColorVariant{{Name: "Grey"}}, p.Colors)
}

func TestLoadLocalCatalog_MissingFile(t *testing.T) {
	_, err := LoadLocalCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
