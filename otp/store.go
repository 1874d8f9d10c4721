// Package otp holds short-lived one-time codes keyed by purpose-scoped
// identity. The table is process-local and non-durable: a restart
// invalidates every outstanding code.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// DefaultTTL is how long an issued code stays valid.
const DefaultTTL = 5 * time.Minute

// Key builders. Codes are namespaced by purpose so a code issued for one
// flow can never validate a request in another, even for the same email.
func AdminKey(email string) string  { return "admin:" + email }
func SignupKey(email string) string { return "user:signup:" + email }
func LoginKey(email string) string  { return "user:login:" + email }

type entry struct {
	code      string
	expiresAt time.Time
}

// Store is the in-process OTP table. It is owned by main and injected into
// the auth handlers.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{entries: make(map[string]entry), now: time.Now}
}

// Set stores a code against key with the given TTL, replacing any pending
// code for that key. Expired leftovers are swept opportunistically.
func (s *Store) Set(key, code string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.entries {
		if !e.expiresAt.After(now) {
			delete(s.entries, k)
		}
	}
	s.entries[key] = entry{code: code, expiresAt: now.Add(ttl)}
}

// Verify reports whether code is the pending, unexpired code for key, and
// consumes it on success. Wrong code, expired code and no pending code are
// indistinguishable to the caller. Expiry is checked here regardless of
// whether a sweep has run.
func (s *Store) Verify(key, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return false
	}
	if e.code != code || !e.expiresAt.After(s.now()) {
		return false
	}
	delete(s.entries, key)
	return true
}

// Delete discards any pending code for key. Used when code delivery fails,
// so a half-issued code cannot be replayed later.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// GenerateCode returns a numeric code of the given number of digits. Each
// digit is drawn uniformly so no digit is favored.
func GenerateCode(digits int) (string, error) {
	code := make([]byte, digits)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate OTP: %w", err)
		}
		code[i] = '0' + byte(n.Int64())
	}
	return string(code), nil
}
