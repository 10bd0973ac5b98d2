// File: internal/resolver/chain.go (complete file)

package resolver

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/baptistax/ip-insight/internal/logging"
	"github.com/baptistax/ip-insight/internal/metrics"
)

// errExhausted means every attempt of a phase failed.
var errExhausted = errors.New("all sources failed")

// attempt is one entry of an ordered fallback list.
type attempt[T any] struct {
	name    string
	timeout time.Duration
	run     func(ctx context.Context) (T, error)
}

// firstSuccess runs attempts strictly one after the other and returns the first
// result that did not error, with the name of the attempt that produced it.
//
// Each attempt gets its own deadline; a failure or timeout is logged and the next
// attempt starts with a fresh budget. Only cancellation of ctx stops the walk early.
func firstSuccess[T any](
	ctx context.Context,
	logger logging.Logger,
	m *metrics.Metrics,
	phase string,
	attempts []attempt[T],
) (T, string, error) {
	var zero T
	for _, a := range attempts {
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}

		actx, cancel := context.WithTimeout(ctx, a.timeout)
		started := time.Now()
		v, err := a.run(actx)
		timedOut := errors.Is(actx.Err(), context.DeadlineExceeded)
		cancel()

		if err == nil {
			logger.Debugf("%s: %s answered in %s", phase, a.name, time.Since(started).Round(time.Millisecond))
			m.ObserveAttempt(phase, a.name, metrics.OutcomeSuccess)
			return v, a.name, nil
		}

		switch {
		case ctx.Err() != nil:
			return zero, "", ctx.Err()
		case timedOut:
			logger.Warnf("%s: %s timed out after %s", phase, a.name, a.timeout)
			m.ObserveAttempt(phase, a.name, metrics.OutcomeTimeout)
		case errors.Is(err, ErrProviderFailed):
			logger.Warnf("%s: %s rejected the lookup: %s", phase, a.name, err)
			m.ObserveAttempt(phase, a.name, metrics.OutcomeRejected)
		default:
			logger.Warnf("%s: %s failed: %s", phase, a.name, err)
			m.ObserveAttempt(phase, a.name, metrics.OutcomeError)
		}
	}
	return zero, "", errExhausted
}
