package catalog

import (
	"context"
	_ "embed"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/norun9/dressco-storefront/cart"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the on-disk layout of a catalog file.
type Seed struct {
	Products []cart.Product `yaml:"products"`
	Orders   []Order        `yaml:"orders"`
	FAQs     []FAQ          `yaml:"faqs"`
	Reviews  []Review       `yaml:"reviews"`
}

// LocalCatalog serves a catalog held in memory. It is read-only after construction.
type LocalCatalog struct {
	products []cart.Product
	byID     map[string]int
	orders   map[string][]Order
	nOrders  int
	faqs     []FAQ
	reviews  map[string][]Review
	nReviews int
	tracer   trace.Tracer
}

var _ Catalog = (*LocalCatalog)(nil)

// NewLocalCatalog indexes seed. Duplicate product ids are rejected.
func NewLocalCatalog(seed Seed) (*LocalCatalog, error) {
	c := &LocalCatalog{
		products: seed.Products,
		byID:     make(map[string]int, len(seed.Products)),
		orders:   make(map[string][]Order),
		nOrders:  len(seed.Orders),
		faqs:     append([]FAQ(nil), seed.FAQs...),
		reviews:  make(map[string][]Review),
		nReviews: len(seed.Reviews),
		tracer:   otel.Tracer("catalog"),
	}
	for i, p := range seed.Products {
		if p.ID == "" {
			return nil, errors.Errorf("product %d has no id", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, errors.Errorf("duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = i
	}
	for _, o := range seed.Orders {
		c.orders[o.UserID] = append(c.orders[o.UserID], o)
	}
	for user := range c.orders {
		orders := c.orders[user]
		sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	}
	sort.SliceStable(c.faqs, func(i, j int) bool { return c.faqs[i].Position < c.faqs[j].Position })
	for _, r := range seed.Reviews {
		c.reviews[r.ProductID] = append(c.reviews[r.ProductID], r)
	}
	return c, nil
}

// LoadLocalCatalog reads a YAML seed file, or the built-in seed when path is empty.
func LoadLocalCatalog(path string) (*LocalCatalog, error) {
	data := defaultSeed
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, errors.Wrapf(err, "reading catalog %s", path)
		}
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, errors.Wrap(err, "parsing catalog")
	}
	return NewLocalCatalog(seed)
}

// GetProductByID returns a copy of the product, or nil when it does not exist.
func (c *LocalCatalog) GetProductByID(ctx context.Context, id string) (*cart.Product, error) {
	_, span := c.tracer.Start(ctx, "GetProductByID")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))

	i, ok := c.byID[id]
	if !ok {
		return nil, nil
	}
	p := c.products[i]
	return &p, nil
}

// ListProducts returns products in catalog order. Query matches names case-insensitively.
func (c *LocalCatalog) ListProducts(ctx context.Context, f Filter) ([]cart.Product, error) {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]cart.Product, 0, len(c.products))
	for _, p := range c.products {
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// GetOrdersByUserID returns the user's orders, newest first.
func (c *LocalCatalog) GetOrdersByUserID(ctx context.Context, userID string) ([]Order, error) {
	return append([]Order{}, c.orders[userID]...), nil
}

// GetFAQs returns FAQs by position.
func (c *LocalCatalog) GetFAQs(ctx context.Context) ([]FAQ, error) {
	return append([]FAQ{}, c.faqs...), nil
}

// GetReviews returns the product's reviews in seed order.
func (c *LocalCatalog) GetReviews(ctx context.Context, productID string) ([]Review, error) {
	return append([]Review{}, c.reviews[productID]...), nil
}

func (c *LocalCatalog) CountReviews(ctx context.Context) (int, error) { return c.nReviews, nil }

func (c *LocalCatalog) CountOrders(ctx context.Context) (int, error) { return c.nOrders, nil }
