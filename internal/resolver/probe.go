// File: internal/resolver/probe.go (complete file)

package resolver

import (
	"context"
	"time"

	"github.com/baptistax/ip-insight/internal/logging"
	"github.com/baptistax/ip-insight/internal/netutil"
)

// Prober answers whether IPv6 connectivity is available.
type Prober interface {
	Probe(ctx context.Context) bool
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context) bool

func (f ProberFunc) Probe(ctx context.Context) bool { return f(ctx) }

// HTTPProbe reaches a host that only has IPv6 addresses. Completion of the
// request is the signal; status and body are ignored.
type HTTPProbe struct {
	URL     string
	Timeout time.Duration
	Client  netutil.Doer
	Logger  logging.Logger
}

// NewHTTPProbe builds a probe dialing through the given address family.
func NewHTTPProbe(url string, timeout time.Duration, family netutil.Family, logger logging.Logger) *HTTPProbe {
	return &HTTPProbe{
		URL:     url,
		Timeout: timeout,
		Client:  netutil.HTTPClientForFamily(family),
		Logger:  logger,
	}
}

func (p *HTTPProbe) Probe(ctx context.Context) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	url := p.URL
	if url == "" {
		url = DefaultProbeURL
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := netutil.Reach(ctx, p.Client, url); err != nil {
		logging.OrDefault(p.Logger).Debugf("probe: %s unreachable: %s", url, err)
		return false
	}
	return true
}
