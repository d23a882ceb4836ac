package cart

import "context"

// StorageKey is the fixed slot key the line sequence is saved under.
const StorageKey = "dressco_cart"

// Persister loads and saves the full line sequence of one cart.
//
// Load returns (nil, nil) when nothing has been saved yet and an error wrapping
// ErrCorruptSnapshot when the stored value cannot be decoded.
type Persister interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
}

// NopPersister keeps nothing. Useful for carts that never outlive the process.
type NopPersister struct{}

func (NopPersister) Load(context.Context) ([]Line, error) { return nil, nil }

func (NopPersister) Save(context.Context, []Line) error { return nil }
