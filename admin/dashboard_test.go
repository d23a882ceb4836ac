package admin

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/norun9/dressco-storefront/catalog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type brokenOrders struct {
	catalog.Catalog
}

func (brokenOrders) CountOrders(context.Context) (int, error) {
	return 0, errors.New("orders backend down")
}

func TestDashboardStats(t *testing.T) {
	c, err := catalog.LoadLocalCatalog("")
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()

	got := NewDashboard(c, logger).Stats(context.Background())
	assert.Equal(t, Stats{Products: 5, Orders: 2, FAQs: 3, Reviews: 5}, got)
}

func TestDashboardStats_PartialFailure(t *testing.T) {
	c, err := catalog.LoadLocalCatalog("")
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()

	got := NewDashboard(brokenOrders{c}, logger).Stats(context.Background())
	assert.Equal(t, Stats{Products: 5, Orders: 0, FAQs: 3, Reviews: 5}, got)
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "orders", hook.LastEntry().Data["stat"])
}

type requestKey struct{}

type ctxCheckingCatalog struct {
	catalog.Catalog
}

func (c ctxCheckingCatalog) CountReviews(ctx context.Context) (int, error) {
	if ctx.Value(requestKey{}) == nil {
		return 0, errors.New("caller context not propagated")
	}
	return c.Catalog.CountReviews(ctx)
}

func TestDashboardStats_UsesCallerContext(t *testing.T) {
	c, err := catalog.LoadLocalCatalog("")
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	ctx := context.WithValue(context.Background(), requestKey{}, "r1")

	got := NewDashboard(ctxCheckingCatalog{c}, logger).Stats(ctx)
	assert.Equal(t, 5, got.Reviews)
	assert.Empty(t, hook.AllEntries())
}
