// Package admin backs the dashboard: a cookie session guarded by static
// credentials, and aggregate stats.
package admin

import (
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CookieName is the admin session cookie.
const CookieName = "admin_session"

// ErrBadCredentials is returned by Login for a wrong username or password.
var ErrBadCredentials = errors.New("admin: invalid credentials")

// SessionManager issues opaque tokens after comparing against a single
// configured credential pair. Tokens expire after maxAge.
type SessionManager struct {
	username string
	password string
	maxAge   time.Duration
	now      func() time.Time

	mu     sync.Mutex
	tokens map[string]time.Time // token -> expiry
}

// NewSessionManager constructor. An empty password disables login.
func NewSessionManager(username, password string, maxAge time.Duration) *SessionManager {
	return &SessionManager{
		username: username,
		password: password,
		maxAge:   maxAge,
		now:      time.Now,
		tokens:   make(map[string]time.Time),
	}
}

// Login checks the credentials and returns a cookie carrying a fresh token.
func (m *SessionManager) Login(username, password string) (*http.Cookie, error) {
	if m.password == "" || !equal(username, m.username) || !equal(password, m.password) {
		return nil, ErrBadCredentials
	}

	token := uuid.NewString()
	expires := m.now().Add(m.maxAge)

	m.mu.Lock()
	m.pruneLocked()
	m.tokens[token] = expires
	m.mu.Unlock()

	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.maxAge / time.Second),
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Logout revokes the request's token and returns a cookie that clears it.
func (m *SessionManager) Logout(r *http.Request) *http.Cookie {
	if c, err := r.Cookie(CookieName); err == nil {
		m.mu.Lock()
		delete(m.tokens, c.Value)
		m.mu.Unlock()
	}
	return &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true}
}

// Authenticated reports whether the request carries a live token.
func (m *SessionManager) Authenticated(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	expires, ok := m.tokens[c.Value]
	if !ok {
		return false
	}
	if !m.now().Before(expires) {
		delete(m.tokens, c.Value)
		return false
	}
	return true
}

// Middleware rejects unauthenticated requests with 401.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Authenticated(r) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *SessionManager) pruneLocked() {
	now := m.now()
	for token, expires := range m.tokens {
		if !now.Before(expires) {
			delete(m.tokens, token)
		}
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
