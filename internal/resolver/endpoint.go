// File: internal/resolver/endpoint.go (complete file)

package resolver

import (
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Kind selects how an endpoint's response body is parsed.
type Kind string

const (
	// KindBareText endpoints answer with the IP as plain text.
	KindBareText Kind = "text"
	// KindDiscoveryJSON endpoints answer with a JSON object carrying the IP,
	// and possibly a full geo payload.
	KindDiscoveryJSON Kind = "discovery-json"
	// KindDetailJSON endpoints answer with geo/ISP details for a known IP.
	KindDetailJSON Kind = "detail-json"
)

const (
	// DefaultTimeout bounds every discovery and detail call.
	DefaultTimeout = 5 * time.Second
	// DefaultProbeTimeout bounds the IPv6 connectivity probe.
	DefaultProbeTimeout = 3 * time.Second
	// DefaultProbeURL only resolves to IPv6 addresses.
	DefaultProbeURL = "https://ipv6.google.com"
)

// IPPlaceholder is replaced by the discovered address in detail URLs.
const IPPlaceholder = "{ip}"

// Endpoint describes one external lookup source. Dialect names the provider's
// field naming convention and is ignored for KindBareText.
type Endpoint struct {
	Name    string        `mapstructure:"name"`
	URL     string        `mapstructure:"url"`
	Kind    Kind          `mapstructure:"kind"`
	Timeout time.Duration `mapstructure:"timeout"`
	Dialect string        `mapstructure:"dialect"`
}

// URLFor expands the endpoint URL template with ip.
func (e Endpoint) URLFor(ip string) string {
	if ip == "" {
		return e.URL
	}
	return strings.ReplaceAll(e.URL, IPPlaceholder, url.PathEscape(ip))
}

func (e Endpoint) timeout() time.Duration {
	if e.Timeout <= 0 {
		return DefaultTimeout
	}
	return e.Timeout
}

// Budget is the longest one resolution can take when every endpoint and source
// runs out its timeout, followed by the connectivity check. Nil registries mean
// the built-in ones.
func Budget(discovery, detail []Endpoint, sources int, check time.Duration) time.Duration {
	if discovery == nil {
		discovery = DefaultDiscovery()
	}
	if detail == nil {
		detail = DefaultDetail()
	}
	if check <= 0 {
		check = DefaultProbeTimeout
	}
	total := check + time.Duration(sources)*DefaultTimeout
	for _, ep := range discovery {
		total += ep.timeout()
	}
	for _, ep := range detail {
		total += ep.timeout()
	}
	return total
}

// Validate checks that the endpoint can be used in the given phase. A zero
// timeout selects DefaultTimeout; a negative one is rejected.
func (e Endpoint) Validate(detail bool) error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("endpoint: missing name")
	}
	if _, err := url.Parse(e.URLFor("192.0.2.1")); err != nil || e.URL == "" {
		return errors.Errorf("endpoint %s: invalid url %q", e.Name, e.URL)
	}
	if e.Timeout < 0 {
		return errors.Errorf("endpoint %s: negative timeout", e.Name)
	}
	switch e.Kind {
	case KindBareText:
		if detail {
			return errors.Errorf("endpoint %s: %s cannot be used for enrichment", e.Name, e.Kind)
		}
		return nil
	case KindDiscoveryJSON:
		if detail {
			return errors.Errorf("endpoint %s: %s cannot be used for enrichment", e.Name, e.Kind)
		}
	case KindDetailJSON:
		if !detail {
			return errors.Errorf("endpoint %s: %s cannot be used for discovery", e.Name, e.Kind)
		}
		if !strings.Contains(e.URL, IPPlaceholder) {
			return errors.Errorf("endpoint %s: detail url lacks %s", e.Name, IPPlaceholder)
		}
	default:
		return errors.Errorf("endpoint %s: unknown kind %q", e.Name, e.Kind)
	}
	if _, ok := LookupDialect(e.Dialect); !ok {
		return errors.Errorf("endpoint %s: unknown dialect %q, use one of: %s", e.Name, e.Dialect, strings.Join(Dialects(), ", "))
	}
	return nil
}

// DefaultDiscovery is the discovery registry, in priority order.
func DefaultDiscovery() []Endpoint {
	return []Endpoint{
		{Name: "ipify", URL: "https://api.ipify.org?format=json", Kind: KindDiscoveryJSON, Dialect: DialectIPify, Timeout: DefaultTimeout},
		{Name: "ipify64", URL: "https://api64.ipify.org?format=json", Kind: KindDiscoveryJSON, Dialect: DialectIPify, Timeout: DefaultTimeout},
		{Name: "ipapi.co", URL: "https://ipapi.co/json/", Kind: KindDiscoveryJSON, Dialect: DialectIPAPICo, Timeout: DefaultTimeout},
		{Name: "httpbin", URL: "https://httpbin.org/ip", Kind: KindDiscoveryJSON, Dialect: DialectHTTPBin, Timeout: DefaultTimeout},
		{Name: "icanhazip", URL: "https://icanhazip.com", Kind: KindBareText, Timeout: DefaultTimeout},
	}
}

// DefaultDetail is the enrichment registry, in priority order.
func DefaultDetail() []Endpoint {
	return []Endpoint{
		{
			Name: "ip-api.com",
			// The free tier of ip-api.com is only served over plain HTTP.
			URL:     "http://ip-api.com/json/{ip}?fields=status,message,country,countryCode,region,regionName,city,zip,lat,lon,timezone,isp,org,as,query,proxy,hosting,mobile",
			Kind:    KindDetailJSON,
			Dialect: DialectIPAPICom,
			Timeout: DefaultTimeout,
		},
		{Name: "ipapi.co", URL: "https://ipapi.co/{ip}/json/", Kind: KindDetailJSON, Dialect: DialectIPAPICo, Timeout: DefaultTimeout},
		{Name: "ipinfo.io", URL: "https://ipinfo.io/{ip}/json", Kind: KindDetailJSON, Dialect: DialectIPInfo, Timeout: DefaultTimeout},
	}
}
