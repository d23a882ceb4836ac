package admin

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/norun9/dressco-storefront/catalog"
)

// Stats are the dashboard counters.
type Stats struct {
	Products int `json:"products"`
	Orders   int `json:"orders"`
	FAQs     int `json:"faqs"`
	Reviews  int `json:"reviews"`
}

// Dashboard computes Stats from the catalog.
type Dashboard struct {
	catalog catalog.Catalog
	log     logrus.FieldLogger
}

// NewDashboard constructor
func NewDashboard(c catalog.Catalog, log logrus.FieldLogger) *Dashboard {
	return &Dashboard{catalog: c, log: log}
}

// Stats fetches every counter in parallel. A counter whose fetch fails is
// reported as zero and logged.
func (d *Dashboard) Stats(ctx context.Context) Stats {
	var (
		s Stats
		g errgroup.Group
	)

	count := func(name string, dst *int, fetch func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fetch(ctx)
			if err != nil {
				d.log.WithError(err).WithField("stat", name).Warn("dashboard stat unavailable")
				return nil
			}
			*dst = n
			return nil
		})
	}

	count("products", &s.Products, func(ctx context.Context) (int, error) {
		ps, err := d.catalog.ListProducts(ctx, catalog.Filter{})
		return len(ps), err
	})
	count("orders", &s.Orders, d.catalog.CountOrders)
	count("faqs", &s.FAQs, func(ctx context.Context) (int, error) {
		fs, err := d.catalog.GetFAQs(ctx)
		return len(fs), err
	})
	count("reviews", &s.Reviews, d.catalog.CountReviews)

	g.Wait()
	return s
}
