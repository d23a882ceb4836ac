package services

import (
	"context"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/norun9/dressco-storefront/cart"
	"github.com/norun9/dressco-storefront/cartstore"
	"github.com/norun9/dressco-storefront/telemetry"
)

// session is one cart held in memory. refs counts the callers between
// Acquire and release; a session is only evictable at zero.
type session struct {
	mu    sync.Mutex // serializes hydration
	store *cart.Store
	refs  int
}

// Registry hands out one cart.Store per session. A cart is hydrated from the
// ICartStore on first use. Carts in use are never dropped, so every caller of
// a session shares one Store. Idle carts are kept in an LRU of at most
// maxSessions entries and evicted carts stay persisted.
type Registry struct {
	store   cartstore.ICartStore
	log     logrus.FieldLogger
	metrics *telemetry.CartMetrics

	mu     sync.Mutex
	active map[string]*session
	idle   *simplelru.LRU
}

// NewRegistry constructor
func NewRegistry(store cartstore.ICartStore, maxSessions int, metrics *telemetry.CartMetrics, log logrus.FieldLogger) (*Registry, error) {
	idle, err := simplelru.NewLRU(maxSessions, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating cart cache")
	}
	return &Registry{
		store:   store,
		log:     log,
		metrics: metrics,
		active:  make(map[string]*session),
		idle:    idle,
	}, nil
}

// Acquire returns the session's cart, hydrating it on first access. The cart
// stays pinned in memory until release is called; release is safe to call
// more than once. Hydration holds only the session's own lock.
func (r *Registry) Acquire(ctx context.Context, sessionID string) (*cart.Store, func(), error) {
	sess := r.checkout(sessionID)
	var once sync.Once
	release := func() {
		once.Do(func() { r.checkin(sessionID, sess) })
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.store == nil {
		s := cart.NewStore(
			cartstore.NewSlot(r.store, sessionID),
			cart.WithLogger(r.log.WithField("session", sessionID)),
		)
		if err := s.Hydrate(ctx); err != nil {
			release()
			return nil, nil, errors.Wrapf(err, "hydrating cart for session %s", sessionID)
		}
		sess.store = s
		r.metrics.Hydrations.Add(ctx, 1)
	}
	return sess.store, release, nil
}

func (r *Registry) checkout(sessionID string) *session {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.active[sessionID]
	if !ok {
		if v, found := r.idle.Peek(sessionID); found {
			sess = v.(*session)
			r.idle.Remove(sessionID)
		} else {
			sess = &session{}
			r.metrics.Sessions.Add(context.Background(), 1)
		}
		r.active[sessionID] = sess
	}
	sess.refs++
	return sess
}

func (r *Registry) checkin(sessionID string, sess *session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess.refs--
	if sess.refs > 0 {
		return
	}
	delete(r.active, sessionID)
	if sess.store == nil {
		// hydration failed; the next Acquire starts over
		r.metrics.Sessions.Add(context.Background(), -1)
		return
	}
	if r.idle.Add(sessionID, sess) {
		r.metrics.Sessions.Add(context.Background(), -1)
		r.log.Debug("evicted idle cart from memory")
	}
}

// Len is the number of carts held in memory, in use or idle.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active) + r.idle.Len()
}
