package cartstore

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// LocalCartStore keeps carts in process memory.
type LocalCartStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
	log   logrus.FieldLogger
}

// NewLocalCartStore constructor
func NewLocalCartStore(log logrus.FieldLogger) *LocalCartStore {
	return &LocalCartStore{
		slots: make(map[string][]byte),
		log:   log,
	}
}

// Initialize does nothing in this implementation.
func (l *LocalCartStore) Initialize(ctx context.Context) error {
	l.log.Info("LocalCartStore initialized")
	return nil
}

// Load returns a copy of the stored slot.
func (l *LocalCartStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	data, ok := l.slots[sessionID]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return append([]byte(nil), data...), nil
}

// Save replaces the slot for the session.
func (l *LocalCartStore) Save(ctx context.Context, sessionID string, data []byte) error {
	l.log.WithField("session", sessionID).Debug("LocalCartStore: Save called")
	l.mu.Lock()
	defer l.mu.Unlock()

	l.slots[sessionID] = append([]byte(nil), data...)
	return nil
}

// Delete forgets the session's slot.
func (l *LocalCartStore) Delete(ctx context.Context, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.slots, sessionID)
	return nil
}

// Ping is a health check that always returns true.
func (l *LocalCartStore) Ping(ctx context.Context) bool {
	return true
}

func (l *LocalCartStore) Close() error { return nil }
