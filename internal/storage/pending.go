package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
)

// Pending is a resolved book waiting for the user to choose where it goes.
type Pending struct {
	Token     string            `json:"token"`
	Record    models.BookRecord `json:"book"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// PendingStore holds pending resolutions in memory, keyed by an opaque token.
// Expired entries behave as if they were never stored.
type PendingStore struct {
	pending map[string]Pending
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
}

func NewPendingStore(ttl time.Duration) *PendingStore {
	return &PendingStore{
		pending: make(map[string]Pending),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores a record under a fresh token.
func (s *PendingStore) Put(record models.BookRecord) Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	p := Pending{
		Token:     uuid.NewString(),
		Record:    record,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.pending[p.Token] = p
	return p
}

func (s *PendingStore) Get(token string) (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[token]
	if !ok {
		return Pending{}, false
	}
	if !s.now().Before(p.ExpiresAt) {
		delete(s.pending, token)
		return Pending{}, false
	}
	return p, true
}

func (s *PendingStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, token)
}

// Len reports the number of unexpired entries.
func (s *PendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.pending)
}

func (s *PendingStore) sweepLocked() {
	now := s.now()
	for token, p := range s.pending {
		if !now.Before(p.ExpiresAt) {
			delete(s.pending, token)
		}
	}
}
