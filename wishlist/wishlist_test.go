package wishlist

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/norun9/dressco-storefront/cart"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeLookup struct {
	products map[string]cart.Product
	failing  map[string]bool
	calls    atomic.Int32
}

func (f *fakeLookup) GetProductByID(_ context.Context, id string) (*cart.Product, error) {
	f.calls.Add(1)
	if f.failing[id] {
		return nil, errors.New("backend unavailable")
	}
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func TestStore_AddIsIdempotent(t *testing.T) {
	s := NewStore()
	assert.True(t, s.Add("u", "a"))
	assert.True(t, s.Add("u", "b"))
	assert.False(t, s.Add("u", "a"))
	assert.Equal(t, []string{"a", "b"}, s.IDs("u"))
	assert.Empty(t, s.IDs("someone-else"))
}

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	s.Add("u", "a")
	s.Add("u", "b")
	s.Add("u", "c")

	assert.True(t, s.Remove("u", "b"))
	assert.False(t, s.Remove("u", "b"))
	assert.Equal(t, []string{"a", "c"}, s.IDs("u"))
	assert.False(t, s.Contains("u", "b"))
	assert.True(t, s.Contains("u", "c"))
}

func TestStore_IDsIsACopy(t *testing.T) {
	s := NewStore()
	s.Add("u", "a")
	ids := s.IDs("u")
	ids[0] = "mutated"
	assert.Equal(t, []string{"a"}, s.IDs("u"))
}

func TestResolve_FiltersAbsentAndFailed(t *testing.T) {
	lookup := &fakeLookup{
		products: map[string]cart.Product{
			"a": {ID: "a"}, "c": {ID: "c"}, "d": {ID: "d"},
		},
		failing: map[string]bool{"d": true},
	}
	logger, hook := test.NewNullLogger()

	got := Resolve(context.Background(), lookup, []string{"c", "missing", "a", "d"}, logger)

	var gotIDs []string
	for _, p := range got {
		gotIDs = append(gotIDs, p.ID)
	}
	assert.Equal(t, []string{"c", "a"}, gotIDs)
	assert.EqualValues(t, 4, lookup.calls.Load())
	assert.Len(t, hook.AllEntries(), 1)
}

func TestResolve_Empty(t *testing.T) {
	logger, _ := test.NewNullLogger()
	got := Resolve(context.Background(), &fakeLookup{}, nil, logger)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

type tenantKey struct{}

type ctxLookup struct {
	mu   sync.Mutex
	seen []interface{}
}

func (c *ctxLookup) GetProductByID(ctx context.Context, id string) (*cart.Product, error) {
	c.mu.Lock()
	c.seen = append(c.seen, ctx.Value(tenantKey{}))
	c.mu.Unlock()
	return &cart.Product{ID: id}, nil
}

func TestResolve_LookupsShareCallerContext(t *testing.T) {
	lookup := &ctxLookup{}
	logger, _ := test.NewNullLogger()
	ctx := context.WithValue(context.Background(), tenantKey{}, "dressco")

	got := Resolve(ctx, lookup, []string{"a", "b", "c"}, logger)
	require.Len(t, got, 3)
	assert.Equal(t, []interface{}{"dressco", "dressco", "dressco"}, lookup.seen)
}
