package backend

import (
	"context"
	"strings"
	"sync"
)

type tokenKey struct{}

// WithToken returns a context whose requests authenticate as the caller
// holding token instead of with the client's token store. A 401 on such a
// request leaves the store untouched.
func WithToken(ctx context.Context, token string) context.Context {
	token = strings.TrimSpace(token)
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the token set by WithToken.
func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// TokenStore keeps the bearer token shared by every request of a session.
type TokenStore interface {
	Token() string
	SetToken(token string)
	// Clear drops the token. It is called when the backend answers 401.
	Clear()
}

// MemoryTokenStore is a TokenStore held in process memory.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	token   string
	onClear func()
}

// NewMemoryTokenStore returns a store seeded with token, which may be empty.
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

// OnClear registers fn to run after the token is cleared, e.g. to send the
// user back to the login screen.
func (s *MemoryTokenStore) OnClear(fn func()) {
	s.mu.Lock()
	s.onClear = fn
	s.mu.Unlock()
}

// Token returns the current token.
func (s *MemoryTokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the current token.
func (s *MemoryTokenStore) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Clear drops the token and fires the OnClear hook.
func (s *MemoryTokenStore) Clear() {
	s.mu.Lock()
	s.token = ""
	fn := s.onClear
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
