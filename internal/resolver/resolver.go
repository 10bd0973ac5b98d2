// File: internal/resolver/resolver.go (complete file)

package resolver

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/baptistax/ip-insight/internal/logging"
	"github.com/baptistax/ip-insight/internal/metrics"
	"github.com/baptistax/ip-insight/internal/netutil"
)

// ErrNoIPDiscoverable is the only failure a resolution can end with, apart from
// cancellation of the caller's context.
var ErrNoIPDiscoverable = errors.New("unable to detect IP address from any service")

const (
	phaseDiscovery = "discovery"
	phaseDetail    = "detail"
)

// Options configures a Resolver. Zero values select the defaults.
type Options struct {
	Discovery []Endpoint
	Detail    []Endpoint

	// Sources are tried after the Detail endpoints.
	Sources []Source

	Client    netutil.Doer
	Prober    Prober
	UserAgent string

	// ConnectionType, when set, is reported verbatim as the connection type.
	ConnectionType string

	// HostIPv6 reports whether the host has a global IPv6 address.
	HostIPv6 func() bool

	Logger  logging.Logger
	Metrics *metrics.Metrics
}

// Resolver discovers the public IP and enriches it. It holds no state between
// runs, so Resolve may be called concurrently.
type Resolver struct {
	opt Options
}

// Result is the outcome of one successful run. DiscoveredBy names the source of
// the IP and EnrichedBy the source of the geo payload; EnrichedBy is empty when
// every detail source failed and defaults were used.
type Result struct {
	Info         IPInfo        `json:"ipInfo"`
	Status       NetworkStatus `json:"networkStatus"`
	Elapsed      time.Duration `json:"-"`
	DiscoveredBy string        `json:"discoveredBy"`
	EnrichedBy   string        `json:"enrichedBy,omitempty"`
}

func New(opt Options) *Resolver {
	if opt.Discovery == nil {
		opt.Discovery = DefaultDiscovery()
	}
	if opt.Detail == nil {
		opt.Detail = DefaultDetail()
	}
	if opt.Client == nil {
		opt.Client = netutil.HTTPClientForFamily(netutil.FamilyAny)
	}
	opt.Logger = logging.OrDefault(opt.Logger)
	if opt.Prober == nil {
		opt.Prober = &HTTPProbe{
			URL:     DefaultProbeURL,
			Timeout: DefaultProbeTimeout,
			Client:  netutil.HTTPClientForFamily(netutil.FamilyIPv6),
			Logger:  opt.Logger,
		}
	}
	if opt.HostIPv6 == nil {
		opt.HostIPv6 = netutil.HasGlobalIPv6
	}
	return &Resolver{opt: opt}
}

type discovered struct {
	ip  string
	geo *Payload
}

// Resolve runs discovery, enrichment, canonicalization, the connectivity probe
// and status derivation, in that order.
func (r *Resolver) Resolve(ctx context.Context) (Result, error) {
	start := time.Now()
	log := r.opt.Logger

	found, by, err := firstSuccess(ctx, log, r.opt.Metrics, phaseDiscovery, r.discoveryAttempts())
	if err != nil {
		r.opt.Metrics.ObserveResolution(metrics.ResolutionFailed, time.Since(start))
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
			return Result{}, ctxErr
		}
		return Result{}, ErrNoIPDiscoverable
	}
	log.Infof("discovery: %s via %s", found.ip, by)

	res := Result{DiscoveredBy: by}
	outcome := metrics.ResolutionOK

	var payload Payload
	if found.geo != nil {
		payload = *found.geo
		res.EnrichedBy = by
	} else {
		payload, res.EnrichedBy, err = firstSuccess(ctx, log, r.opt.Metrics, phaseDetail, r.detailAttempts(found.ip))
		// Once an IP is known the run always produces a result: a deadline
		// or cancellation here is treated like exhausted enrichment.
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				log.Warnf("detail: %s before %s was described, using defaults", ctxErr, found.ip)
			} else {
				log.Warnf("detail: no source could describe %s, using defaults", found.ip)
			}
			payload = Payload{}
			outcome = metrics.ResolutionDegraded
		}
	}

	res.Info = Canonicalize(payload, found.ip)
	ipv6 := ctx.Err() == nil && r.opt.Prober.Probe(ctx)

	res.Elapsed = time.Since(start)
	res.Status = DeriveStatus(res.Info, ipv6, r.opt.ConnectionType, res.Elapsed)
	res.Status.GlobalIPv6Interface = r.opt.HostIPv6()

	r.opt.Metrics.ObserveResolution(outcome, res.Elapsed)
	return res, nil
}

func (r *Resolver) discoveryAttempts() []attempt[discovered] {
	out := make([]attempt[discovered], 0, len(r.opt.Discovery))
	for _, ep := range r.opt.Discovery {
		ep := ep
		out = append(out, attempt[discovered]{
			name:    ep.Name,
			timeout: ep.timeout(),
			run: func(ctx context.Context) (discovered, error) {
				return r.discover(ctx, ep)
			},
		})
	}
	return out
}

func (r *Resolver) discover(ctx context.Context, ep Endpoint) (discovered, error) {
	body, err := netutil.Fetch(ctx, r.opt.Client, ep.URLFor(""), r.opt.UserAgent)
	if err != nil {
		return discovered{}, err
	}

	if ep.Kind == KindBareText {
		ip, err := ParseBareIP(body)
		return discovered{ip: ip}, err
	}

	p, err := Normalize(ep.Dialect, body)
	if err != nil {
		return discovered{}, err
	}
	ip, err := checkIP(p.IP)
	if err != nil {
		return discovered{}, err
	}
	if p.HasGeo() {
		p.IP = ip
		return discovered{ip: ip, geo: &p}, nil
	}
	return discovered{ip: ip}, nil
}

func (r *Resolver) detailAttempts(ip string) []attempt[Payload] {
	out := make([]attempt[Payload], 0, len(r.opt.Detail)+len(r.opt.Sources))
	for _, ep := range r.opt.Detail {
		ep := ep
		out = append(out, attempt[Payload]{
			name:    ep.Name,
			timeout: ep.timeout(),
			run: func(ctx context.Context) (Payload, error) {
				body, err := netutil.Fetch(ctx, r.opt.Client, ep.URLFor(ip), r.opt.UserAgent)
				if err != nil {
					return Payload{}, err
				}
				return Normalize(ep.Dialect, body)
			},
		})
	}
	for _, src := range r.opt.Sources {
		src := src
		out = append(out, attempt[Payload]{
			name:    src.Name(),
			timeout: DefaultTimeout,
			run: func(ctx context.Context) (Payload, error) {
				return src.Lookup(ctx, ip)
			},
		})
	}
	return out
}
