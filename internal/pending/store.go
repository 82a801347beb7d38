// Package pending holds candidates awaiting user confirmation. The store is
// the single piece of shared mutable state in the detection core: entries
// are keyed by the triggering message id, live for a fixed TTL, and leave
// the store through an atomic take-once operation so that concurrent
// confirm/cancel attempts resolve to exactly one effect.
package pending

import (
	"context"
	"sync"
	"time"

	"github.com/glebsterx/TaskFlow/internal/detect"
)

// Entry is a stored candidate with its confirmation window.
type Entry struct {
	Candidate detect.Candidate
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store is a thread-safe keyed holder of pending candidates.
type Store struct {
	mu      sync.Mutex
	entries map[int64]Entry
	ttl     time.Duration
	metrics *Metrics
	now     func() time.Time
}

// DefaultTTL is the confirmation window applied when none is configured.
const DefaultTTL = 15 * time.Minute

// NewStore creates a store with the given TTL; non-positive selects
// DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries: make(map[int64]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// SetMetrics attaches optional Prometheus metrics.
func (s *Store) SetMetrics(m *Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m
}

// WithClock overrides the store's clock. Intended for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Put inserts a candidate under key, overwriting any existing entry: a new
// detection for the same message supersedes the stale one. The overwrite is
// atomic with respect to concurrent takers.
func (s *Store) Put(key int64, c detect.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.entries[key] = Entry{
		Candidate: c,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if s.metrics != nil {
		s.metrics.SetSize(len(s.entries))
	}
}

// TakeIfPending atomically removes and returns the entry for key. It
// returns false if the key is absent or the entry has expired; an expired
// entry is removed as a side effect. Exactly one of N concurrent callers
// for the same key observes the entry.
func (s *Store) TakeIfPending(key int64) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}

	delete(s.entries, key)
	if s.metrics != nil {
		s.metrics.SetSize(len(s.entries))
	}

	if s.now().After(entry.ExpiresAt) {
		if s.metrics != nil {
			s.metrics.RecordExpiry()
		}
		return Entry{}, false
	}
	return entry, true
}

// Peek returns a copy of the entry for key without consuming it, for
// building prompt text. Expired entries read as absent but are left for the
// take/sweep paths to remove.
func (s *Store) Peek(key int64) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || s.now().After(entry.ExpiresAt) {
		return Entry{}, false
	}
	return entry, true
}

// Len returns the number of stored entries, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes every expired entry and returns how many were reclaimed.
// It shares the same lock as TakeIfPending, so a sweep can never race a
// taker into double resolution.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	if removed > 0 && s.metrics != nil {
		s.metrics.RecordSweep(removed)
		s.metrics.SetSize(len(s.entries))
	}
	return removed
}

// RunSweeper periodically sweeps expired entries until ctx is cancelled.
// A non-positive interval defaults to a third of the TTL.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.ttl / 3
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
