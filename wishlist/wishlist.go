// Package wishlist keeps per-user saved products and resolves them against
// the catalog.
package wishlist

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/norun9/dressco-storefront/cart"
	"github.com/norun9/dressco-storefront/catalog"
)

// maxParallelLookups bounds concurrent catalog calls per Resolve.
const maxParallelLookups = 8

// Store holds wishlists in memory, keyed by user (or session) id.
type Store struct {
	mu    sync.RWMutex
	lists map[string][]string
}

// NewStore constructor
func NewStore() *Store {
	return &Store{lists: make(map[string][]string)}
}

// Add appends productID unless it is already saved. Reports whether it was added.
func (s *Store) Add(userID, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.lists[userID] {
		if id == productID {
			return false
		}
	}
	s.lists[userID] = append(s.lists[userID], productID)
	return true
}

// Remove drops productID. Reports whether it was present.
func (s *Store) Remove(userID, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.lists[userID]
	for i, id := range ids {
		if id == productID {
			s.lists[userID] = append(ids[:i:i], ids[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether productID is saved.
func (s *Store) Contains(userID, productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.lists[userID] {
		if id == productID {
			return true
		}
	}
	return false
}

// IDs returns the saved ids in the order they were added.
func (s *Store) IDs(userID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.lists[userID]...)
}

// Resolve looks up every id in parallel and returns the products found, in
// input order. Ids the catalog does not know and failed lookups are dropped;
// failures are logged.
func Resolve(ctx context.Context, lookup catalog.ProductLookup, ids []string, log logrus.FieldLogger) []cart.Product {
	found := make([]*cart.Product, len(ids))

	var g errgroup.Group
	g.SetLimit(maxParallelLookups)
	for i, id := range ids {
		g.Go(func() error {
			p, err := lookup.GetProductByID(ctx, id)
			if err != nil {
				log.WithError(err).WithField("product_id", id).Warn("wishlist lookup failed")
				return nil
			}
			found[i] = p
			return nil
		})
	}
	g.Wait()

	out := make([]cart.Product, 0, len(found))
	for _, p := range found {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
