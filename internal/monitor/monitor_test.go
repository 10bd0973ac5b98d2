// File: internal/monitor/monitor_test.go (complete file)

package monitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baptistax/ip-insight/internal/resolver"
)

// scriptedResolver answers call n with script[n]; the last entry repeats.
type scriptedResolver struct {
	mu     sync.Mutex
	calls  int
	script []func(ctx context.Context) (resolver.Result, error)
}

func (s *scriptedResolver) Resolve(ctx context.Context) (resolver.Result, error) {
	s.mu.Lock()
	i := s.calls
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	s.calls++
	fn := s.script[i]
	s.mu.Unlock()
	return fn(ctx)
}

func resultFor(ip string) resolver.Result {
	return resolver.Result{
		Info:   resolver.Canonicalize(resolver.Payload{Country: "Testland"}, ip),
		Status: resolver.NetworkStatus{ConnectionType: resolver.ConnectionBroadband, SecurityStatus: resolver.SecurityDirect},
	}
}

func answer(ip string) func(context.Context) (resolver.Result, error) {
	return func(context.Context) (resolver.Result, error) { return resultFor(ip), nil }
}

func snapshotFor(ip string) *Snapshot {
	return &Snapshot{Result: resultFor(ip)}
}

func TestChanged_PublicIPChange(t *testing.T) {
	assert.True(t, changed(snapshotFor("192.0.2.1"), snapshotFor("192.0.2.2")))
}

func TestChanged_NoChange(t *testing.T) {
	a, b := snapshotFor("192.0.2.1"), snapshotFor("192.0.2.1")
	a.Result.Status.ResponseTime = 120
	b.Result.Status.ResponseTime = 870
	a.AtUTC = time.Now().UTC()
	assert.False(t, changed(a, b))
}

func TestChanged_StatusAndErrors(t *testing.T) {
	a, b := snapshotFor("192.0.2.1"), snapshotFor("192.0.2.1")
	b.Result.Status.SecurityStatus = resolver.SecurityProxy
	assert.True(t, changed(a, b))

	failed := &Snapshot{Err: resolver.ErrNoIPDiscoverable}
	assert.True(t, changed(a, failed))
	assert.False(t, changed(failed, &Snapshot{Err: resolver.ErrNoIPDiscoverable}))
}

func TestStore_CommitOnlyLatestRun(t *testing.T) {
	var s Store
	_, ok := s.Current()
	assert.False(t, ok)

	first := s.Begin()
	second := s.Begin()
	require.Greater(t, second, first)

	assert.False(t, s.Commit(Snapshot{RunID: first, Result: resultFor("192.0.2.1")}))
	_, ok = s.Current()
	assert.False(t, ok, "stale run must not populate the slot")

	assert.True(t, s.Commit(Snapshot{RunID: second, Result: resultFor("192.0.2.2")}))
	assert.False(t, s.Commit(Snapshot{RunID: first, Result: resultFor("192.0.2.1")}))

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "192.0.2.2", cur.Result.Info.IP)
}

func TestRefresher_LaterStartedRunWinsWhenEarlierLandsLast(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	res := &scriptedResolver{script: []func(context.Context) (resolver.Result, error){
		// Ignores cancellation on purpose so only the run-id check protects the slot.
		func(context.Context) (resolver.Result, error) {
			close(started)
			<-release
			return resultFor("192.0.2.1"), nil
		},
		answer("192.0.2.2"),
	}}
	r := NewRefresher(res)

	firstDone := make(chan bool, 1)
	go func() {
		_, ok := r.Refresh(context.Background())
		firstDone <- ok
	}()
	<-started

	snap, ok := r.Refresh(context.Background())
	require.True(t, ok)
	assert.Equal(t, "192.0.2.2", snap.Result.Info.IP)

	close(release)
	assert.False(t, <-firstDone)

	cur, ok := r.Store.Current()
	require.True(t, ok)
	assert.Equal(t, "192.0.2.2", cur.Result.Info.IP)
}

func TestRefresher_CancelsPreviousRun(t *testing.T) {
	started := make(chan struct{})
	res := &scriptedResolver{script: []func(context.Context) (resolver.Result, error){
		func(ctx context.Context) (resolver.Result, error) {
			close(started)
			<-ctx.Done()
			return resolver.Result{}, ctx.Err()
		},
		answer("192.0.2.9"),
	}}
	r := NewRefresher(res)

	firstErr := make(chan error, 1)
	go func() {
		snap, _ := r.Refresh(context.Background())
		firstErr <- snap.Err
	}()
	<-started

	_, ok := r.Refresh(context.Background())
	require.True(t, ok)

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("previous run was not cancelled")
	}
}

func TestRefresher_CommitsFailures(t *testing.T) {
	res := &scriptedResolver{script: []func(context.Context) (resolver.Result, error){
		func(context.Context) (resolver.Result, error) {
			return resolver.Result{}, resolver.ErrNoIPDiscoverable
		},
	}}
	r := NewRefresher(res)

	snap, ok := r.Refresh(context.Background())
	require.True(t, ok)
	assert.True(t, errors.Is(snap.Err, resolver.ErrNoIPDiscoverable))
}

func TestRun_EmitsResolvedThenChangedOnTrigger(t *testing.T) {
	res := &scriptedResolver{script: []func(context.Context) (resolver.Result, error){
		answer("192.0.2.1"),
		answer("198.51.100.7"),
	}}
	r := NewRefresher(res)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	trigger := make(chan struct{})
	events := make(chan Event, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(ctx, r, Options{Interval: time.Hour, Trigger: trigger}, func(ev Event) { events <- ev })
	}()

	next := func() Event {
		select {
		case ev := <-events:
			return ev
		case <-time.After(2 * time.Second):
			t.Fatal("no event")
			return Event{}
		}
	}

	ev := next()
	assert.Equal(t, KindResolved, ev.Kind)
	assert.Nil(t, ev.Previous)
	assert.Equal(t, "192.0.2.1", ev.Current.Result.Info.IP)

	trigger <- struct{}{}

	ev = next()
	assert.Equal(t, KindChanged, ev.Kind)
	require.NotNil(t, ev.Previous)
	assert.Equal(t, "192.0.2.1", ev.Previous.Result.Info.IP)
	assert.Equal(t, "198.51.100.7", ev.Current.Result.Info.IP)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRun_ReportsFailure(t *testing.T) {
	res := &scriptedResolver{script: []func(context.Context) (resolver.Result, error){
		func(context.Context) (resolver.Result, error) {
			return resolver.Result{}, resolver.ErrNoIPDiscoverable
		},
	}}
	r := NewRefresher(res)

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Event, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(ctx, r, Options{Interval: time.Hour}, func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		})
	}()

	select {
	case ev := <-events:
		assert.Equal(t, KindFailed, ev.Kind)
		assert.Contains(t, ev.Message, "unable to detect IP address")
	case <-time.After(2 * time.Second):
		t.Fatal("no failure event")
	}
	cancel()
	<-done
}
