// Package cart holds the shopping cart: an ordered set of lines keyed by
// product, size and color, with totals derived on every read.
package cart

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Store is one client's cart. It is safe for concurrent use; each operation
// applies its change and then writes the full line sequence to the persister.
type Store struct {
	mu        sync.Mutex
	lines     []Line
	open      bool
	persister Persister
	log       logrus.FieldLogger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for hydrate and save failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore returns an empty cart bound to p. Call Hydrate before use to pick
// up a previously saved cart.
func NewStore(p Persister, opts ...Option) *Store {
	if p == nil {
		p = NopPersister{}
	}
	s := &Store{
		persister: p,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate replaces the lines with the persisted snapshot and writes it back.
// A snapshot that fails to decode is logged and replaced by an empty cart.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.persister.Load(ctx)
	switch {
	case errors.Is(err, ErrCorruptSnapshot):
		s.log.WithError(err).Warn("discarding unreadable cart snapshot")
		lines = nil
	case err != nil:
		return errors.Wrap(err, "loading cart")
	}
	s.lines = Normalize(lines)
	return s.saveLocked(ctx)
}

// AddLine merges quantity into the line for (product, size, color), appending
// a new line when none exists, and opens the cart panel. Inputs are not
// validated.
func (s *Store) AddLine(ctx context.Context, product Product, quantity int, size, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := LineID(product.ID, size, color)
	if i := s.indexLocked(id); i >= 0 {
		s.lines[i].Quantity += quantity
	} else {
		s.lines = append(s.lines, NewLine(product, quantity, size, color))
	}
	s.open = true
	return s.saveLocked(ctx)
}

// RemoveLine drops the line with the given id. Removing an absent line is a no-op.
func (s *Store) RemoveLine(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(id); i >= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	}
	return s.saveLocked(ctx)
}

// UpdateQuantity replaces the quantity of a line. Quantities below one return
// ErrInvalidQuantity and leave the cart as it was; an unknown id is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(id); i >= 0 {
		s.lines[i].Quantity = quantity
	}
	return s.saveLocked(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	return s.saveLocked(ctx)
}

// Lines returns a copy of the lines in the order they were first added.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Line returns the line with the given id.
func (s *Store) Line(id string) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.lines[i], true
	}
	return Line{}, false
}

// TotalItems is the sum of quantities over all lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return TotalItems(s.lines)
}

// Subtotal is the sum of price times quantity over all lines.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Subtotal(s.lines)
}

// IsOpen reports whether the cart panel should be shown.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Open shows the cart panel.
func (s *Store) Open() {
	s.mu.Lock()
	s.open = true
	s.mu.Unlock()
}

// Close hides the cart panel.
func (s *Store) Close() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

func (s *Store) indexLocked(id string) int {
	for i := range s.lines {
		if s.lines[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) saveLocked(ctx context.Context) error {
	snapshot := make([]Line, len(s.lines))
	copy(snapshot, s.lines)
	if err := s.persister.Save(ctx, snapshot); err != nil {
		s.log.WithError(err).WithField("lines", len(snapshot)).Error("saving cart")
		return errors.Wrap(err, "saving cart")
	}
	return nil
}

// TotalItems sums quantities.
func TotalItems(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// Subtotal sums line totals.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// Normalize restores the one-line-per-id invariant on a loaded snapshot,
// folding repeated ids into the first occurrence. Ids are recomputed from the
// line contents so a hand-edited slot cannot smuggle in a mismatched key.
func Normalize(lines []Line) []Line {
	if len(lines) == 0 {
		return nil
	}
	out := make([]Line, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		l.ID = LineID(l.Product.ID, l.SelectedSize, l.SelectedColor)
		if i, ok := index[l.ID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ID] = len(out)
		out = append(out, l)
	}
	return out
}
