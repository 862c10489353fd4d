// Package auth holds the gateway's session with the remote cleaning
// service: the bearer token and the expiry notification used to tear the
// UI down when the service rejects the credential.
package auth

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the single source of truth for the remote credential. The
// token is read before every outbound request; nothing caches a decoded
// copy across calls.
type Session struct {
	mu       sync.RWMutex
	token    string
	username string
	subs     []func()
}

// NewSession creates an unauthenticated session.
func NewSession() *Session {
	return &Session{}
}

// SetToken stores a fresh credential after login.
func (s *Session) SetToken(token, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.username = username
}

// Token returns the current bearer token, empty when not authenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Username returns the principal set at login.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Authenticated reports whether a credential is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Clear drops the credential without firing expiry subscribers. Used for
// explicit logout.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.username = ""
}

// OnExpiry registers a callback invoked whenever the remote service
// rejects the credential. Callbacks run synchronously on the goroutine
// that observed the 401 and must not block.
func (s *Session) OnExpiry(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Expire clears the credential and notifies subscribers. Safe to call
// concurrently from several in-flight requests; only the call that
// actually held a token notifies.
func (s *Session) Expire() {
	s.mu.Lock()
	hadToken := s.token != ""
	s.token = ""
	s.username = ""
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if !hadToken {
		return
	}
	for _, fn := range subs {
		fn()
	}
}

// ExpiresAt reports the token's exp claim for display purposes. The
// gateway does not hold the service's signing secret, so the claim is
// read without signature verification; authorization decisions stay with
// the remote service. Returns the zero time when absent or unreadable.
func (s *Session) ExpiresAt() time.Time {
	token := s.Token()
	if token == "" {
		return time.Time{}
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
