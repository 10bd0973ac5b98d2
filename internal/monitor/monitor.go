// File: internal/monitor/monitor.go (complete file)

package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/baptistax/ip-insight/internal/logging"
)

// Event kinds.
const (
	KindResolved = "resolved"
	KindChanged  = "changed"
	KindFailed   = "failed"
)

type Event struct {
	AtUTC    time.Time
	Kind     string
	Message  string
	Previous *Snapshot
	Current  *Snapshot
}

type Options struct {
	// Interval between scheduled refreshes after a success. Failures are retried
	// sooner, backing off up to Interval.
	Interval time.Duration

	// Timeout bounds a single run; zero means no bound beyond the endpoints' own.
	Timeout time.Duration

	// Trigger requests an immediate refresh, e.g. on SIGHUP.
	Trigger <-chan struct{}

	Logger logging.Logger
}

// Run refreshes until ctx is done. onEvent is called from Run's goroutine for the
// first committed snapshot, every failure, and every change.
func Run(ctx context.Context, r *Refresher, opt Options, onEvent func(Event)) {
	if opt.Interval <= 0 {
		opt.Interval = time.Minute
	}
	logger := logging.OrDefault(opt.Logger)

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = time.Second
	retry.MaxInterval = opt.Interval
	retry.MaxElapsedTime = 0
	retry.Reset()

	committed := make(chan Snapshot)
	var wg sync.WaitGroup
	defer wg.Wait()

	refresh := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runCtx, cancel := ctx, context.CancelFunc(func() {})
			if opt.Timeout > 0 {
				runCtx, cancel = context.WithTimeout(ctx, opt.Timeout)
			}
			defer cancel()

			snap, ok := r.Refresh(runCtx)
			if !ok {
				logger.Debugf("monitor: discarded stale run %d", snap.RunID)
				return
			}
			select {
			case committed <- snap:
			case <-ctx.Done():
			}
		}()
	}

	timer := time.NewTimer(opt.Interval)
	defer timer.Stop()
	reschedule := func(d time.Duration) {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(d)
	}

	var prev *Snapshot
	refresh()

	for {
		select {
		case <-ctx.Done():
			return

		case <-timer.C:
			refresh()
			timer.Reset(opt.Interval)

		case <-opt.Trigger:
			logger.Infof("monitor: manual refresh")
			refresh()

		case snap := <-committed:
			cur := snap
			if ctx.Err() != nil {
				return
			}
			if cur.Err != nil {
				next := retry.NextBackOff()
				reschedule(next)
				onEvent(Event{
					AtUTC:    cur.AtUTC,
					Kind:     KindFailed,
					Message:  cur.Err.Error(),
					Previous: prev,
					Current:  &cur,
				})
				prev = &cur
				continue
			}

			retry.Reset()
			reschedule(opt.Interval)
			switch {
			case prev == nil || prev.Err != nil:
				onEvent(Event{AtUTC: cur.AtUTC, Kind: KindResolved, Message: "resolved " + cur.Result.Info.IP, Previous: prev, Current: &cur})
			case changed(prev, &cur):
				onEvent(Event{AtUTC: cur.AtUTC, Kind: KindChanged, Message: "network identity changed", Previous: prev, Current: &cur})
			}
			prev = &cur
		}
	}
}

// changed compares what a user would notice. ResponseTime differs on every run
// and is ignored.
func changed(a, b *Snapshot) bool {
	if (a.Err == nil) != (b.Err == nil) {
		return true
	}
	if a.Err != nil {
		return a.Err.Error() != b.Err.Error()
	}
	if a.Result.Info != b.Result.Info {
		return true
	}
	sa, sb := a.Result.Status, b.Result.Status
	return sa.ConnectionType != sb.ConnectionType ||
		sa.SecurityStatus != sb.SecurityStatus ||
		sa.IPv6Support != sb.IPv6Support ||
		sa.GlobalIPv6Interface != sb.GlobalIPv6Interface
}
