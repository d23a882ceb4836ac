// Package cartstore provides the storage backends a cart slot can live in.
package cartstore

import (
	"context"

	"github.com/pkg/errors"
)

// ErrSlotNotFound is returned by Load when nothing was saved for the session.
var ErrSlotNotFound = errors.New("cartstore: slot not found")

// ICartStore stores one serialized cart per session.
type ICartStore interface {
	Initialize(ctx context.Context) error

	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, data []byte) error
	Delete(ctx context.Context, sessionID string) error

	Ping(ctx context.Context) bool
	Close() error
}
