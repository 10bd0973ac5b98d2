// File: internal/monitor/store.go (complete file)

package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/baptistax/ip-insight/internal/resolver"
)

// Snapshot is what one resolution run produced. Err is set when the run failed,
// in which case Result is the zero value.
type Snapshot struct {
	RunID  uint64
	AtUTC  time.Time
	Result resolver.Result
	Err    error
}

// Store is the single "current result" slot. Every run takes a ticket with
// Begin; Commit only lands if no newer run has started since.
type Store struct {
	mu      sync.Mutex
	started uint64
	current *Snapshot
}

// Begin starts a run and returns its id. Ids increase monotonically.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
	return s.started
}

// Commit replaces the current snapshot if snap belongs to the latest started run.
// It reports whether the snapshot was applied.
func (s *Store) Commit(snap Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.RunID != s.started {
		return false
	}
	s.current = &snap
	return true
}

// Current returns the last committed snapshot.
func (s *Store) Current() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Snapshot{}, false
	}
	return *s.current, true
}

// Resolver is the pipeline the refresher drives.
type Resolver interface {
	Resolve(ctx context.Context) (resolver.Result, error)
}

// Refresher runs resolutions against a Store. Starting a refresh cancels the
// one still in flight, and the run-id check discards it even if it ignores
// cancellation.
type Refresher struct {
	Resolver Resolver
	Store    *Store

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewRefresher(r Resolver) *Refresher {
	return &Refresher{Resolver: r, Store: &Store{}}
}

// Refresh resolves once and returns the snapshot with whether it was committed.
func (r *Refresher) Refresh(ctx context.Context) (Snapshot, bool) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.mu.Lock()
	id := r.Store.Begin()
	if r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	r.mu.Unlock()

	res, err := r.Resolver.Resolve(ctx)
	snap := Snapshot{RunID: id, AtUTC: time.Now().UTC(), Result: res, Err: err}
	return snap, r.Store.Commit(snap)
}
