// Package staging holds sign-ups that are waiting for OTP confirmation.
//
// Entries live in process memory only. Expiry is passive: Get returns an
// entry even after its ExpiresAt and the caller decides what that means.
// Sweep, and the optional RunSweeper loop, exist for deployments that want
// stale entries reclaimed; nothing in the registration flow depends on them.
package staging

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/pkg/clock"
)

// Store is a concurrency-safe map from email to its pending registration.
// Every method takes the lock for its whole duration, so each call is a
// single linearizable step. Entries are copied in and out by value.
type Store struct {
	mu      sync.RWMutex
	entries map[string]domain.PendingRegistration
}

func NewStore() *Store {
	return &Store{entries: make(map[string]domain.PendingRegistration)}
}

// Put stores reg under reg.Email, replacing any entry already staged for it.
func (s *Store) Put(reg domain.PendingRegistration) {
	s.mu.Lock()
	s.entries[reg.Email] = reg
	s.mu.Unlock()
}

// PutIfUnclaimed stores reg unless an entry for a different email already
// holds reg.Phone, in which case it returns domain.ErrAlreadyExists. An entry
// for the same email is replaced, as with Put.
func (s *Store) PutIfUnclaimed(reg domain.PendingRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, staged := range s.entries {
		if email != reg.Email && staged.Phone == reg.Phone {
			return domain.ErrAlreadyExists
		}
	}
	s.entries[reg.Email] = reg
	return nil
}

// Get returns the entry staged for email, expired or not.
func (s *Store) Get(email string) (domain.PendingRegistration, bool) {
	s.mu.RLock()
	reg, ok := s.entries[email]
	s.mu.RUnlock()
	return reg, ok
}

// Remove deletes the entry for email. Removing a missing entry is a no-op.
func (s *Store) Remove(email string) {
	s.mu.Lock()
	delete(s.entries, email)
	s.mu.Unlock()
}

// FindByPhone scans staged entries for one carrying phone.
func (s *Store) FindByPhone(phone string) (domain.PendingRegistration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, reg := range s.entries {
		if reg.Phone == phone {
			return reg, true
		}
	}
	return domain.PendingRegistration{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes every entry whose ExpiresAt is before now and returns how many went.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for email, reg := range s.entries {
		if reg.Expired(now) {
			delete(s.entries, email)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration, clk clock.Clocker) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(clk.Now()); n > 0 {
				slog.InfoContext(ctx, "swept expired pending registrations", "removed", n, "remaining", s.Len())
			}
		}
	}
}
