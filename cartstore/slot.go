package cartstore

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/norun9/dressco-storefront/cart"
)

// Slot is one session's cart inside a store. It implements cart.Persister.
type Slot struct {
	store     ICartStore
	sessionID string
}

// NewSlot binds a session to a store.
func NewSlot(store ICartStore, sessionID string) *Slot {
	return &Slot{store: store, sessionID: sessionID}
}

var _ cart.Persister = (*Slot)(nil)

// Load decodes the stored line sequence. An empty slot yields no lines.
func (s *Slot) Load(ctx context.Context) ([]cart.Line, error) {
	data, err := s.store.Load(ctx, s.sessionID)
	if errors.Is(err, ErrSlotNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Save encodes and writes the line sequence.
func (s *Slot) Save(ctx context.Context, lines []cart.Line) error {
	data, err := Encode(lines)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, s.sessionID, data)
}

// Encode serializes lines as a JSON array. A nil slice encodes as [].
func Encode(lines []cart.Line) ([]byte, error) {
	if lines == nil {
		lines = []cart.Line{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, errors.Wrap(err, "encoding cart")
	}
	return data, nil
}

// Decode parses a JSON array of lines. Malformed input wraps cart.ErrCorruptSnapshot.
func Decode(data []byte) ([]cart.Line, error) {
	var lines []cart.Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, errors.Wrapf(cart.ErrCorruptSnapshot, "decoding cart: %v", err)
	}
	return lines, nil
}
