// File: internal/resolver/dialect.go (complete file)

package resolver

import (
	"encoding/json"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Dialect maps one provider's JSON object onto canonical field names.
type Dialect func(raw map[string]any) (Payload, error)

// Dialect names usable in Endpoint.Dialect.
const (
	DialectIPify    = "ipify"
	DialectHTTPBin  = "httpbin"
	DialectIPAPICo  = "ipapi.co"
	DialectIPAPICom = "ip-api.com"
	DialectIPInfo   = "ipinfo.io"
	DialectGeneric  = "generic"
)

var (
	// ErrProviderFailed means the provider answered 200 but flagged the lookup as failed.
	ErrProviderFailed = errors.New("provider reported failure")

	errNotJSONObject = errors.New("response is not a JSON object")
	errEmptyIP       = errors.New("empty ip")
	errInvalidIP     = errors.New("not an ip address")
)

var dialects = map[string]Dialect{
	DialectIPify:    ipifyDialect,
	DialectHTTPBin:  httpbinDialect,
	DialectIPAPICo:  ipapiCoDialect,
	DialectIPAPICom: ipAPIComDialect,
	DialectIPInfo:   ipinfoDialect,
	DialectGeneric:  genericDialect,
}

// LookupDialect returns the named dialect. The empty name selects the generic one.
func LookupDialect(name string) (Dialect, bool) {
	if strings.TrimSpace(name) == "" {
		name = DialectGeneric
	}
	d, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Dialects lists the registered dialect names.
func Dialects() []string {
	return []string{DialectIPify, DialectHTTPBin, DialectIPAPICo, DialectIPAPICom, DialectIPInfo, DialectGeneric}
}

// Normalize decodes body as a JSON object and applies the named dialect.
func Normalize(dialect string, body []byte) (Payload, error) {
	d, ok := LookupDialect(dialect)
	if !ok {
		return Payload{}, errors.Errorf("unknown dialect %q", dialect)
	}
	raw, err := decodeObject(body)
	if err != nil {
		return Payload{}, err
	}
	return d(raw)
}

// ParseBareIP trims a plain-text body and checks it is an address.
func ParseBareIP(body []byte) (string, error) {
	return checkIP(string(body))
}

func checkIP(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errEmptyIP
	}
	if _, err := netip.ParseAddr(s); err != nil {
		return "", errors.Wrapf(errInvalidIP, "%q", s)
	}
	return s, nil
}

func decodeObject(body []byte) (map[string]any, error) {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "{") {
		return nil, errNotJSONObject
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, errors.Wrap(err, "decode json")
	}
	return raw, nil
}

func ipifyDialect(raw map[string]any) (Payload, error) {
	return Payload{IP: pickString(raw, "ip")}, nil
}

// httpbinDialect reads the origin field, which lists every hop as "a, b".
func httpbinDialect(raw map[string]any) (Payload, error) {
	origin := pickString(raw, "origin")
	if i := strings.Index(origin, ","); i >= 0 {
		origin = origin[:i]
	}
	return Payload{IP: strings.TrimSpace(origin)}, nil
}

func ipapiCoDialect(raw map[string]any) (Payload, error) {
	if pickBool(raw, "error") {
		return Payload{}, errors.Wrap(ErrProviderFailed, pickString(raw, "reason"))
	}
	org := pickString(raw, "org")
	return Payload{
		IP:          pickString(raw, "ip"),
		Country:     pickString(raw, "country_name"),
		CountryCode: pickString(raw, "country_code"),
		Region:      pickString(raw, "region_code"),
		RegionName:  pickString(raw, "region"),
		City:        pickString(raw, "city"),
		Zip:         pickString(raw, "postal"),
		Lat:         pickFloat(raw, "latitude"),
		Lon:         pickFloat(raw, "longitude"),
		Timezone:    pickString(raw, "timezone"),
		ISP:         org,
		Org:         org,
		AS:          pickString(raw, "asn"),
		Status:      statusSuccess,
	}, nil
}

// ipAPIComDialect is the only dialect that reports proxy, hosting and mobile flags.
func ipAPIComDialect(raw map[string]any) (Payload, error) {
	if strings.EqualFold(pickString(raw, "status"), statusFail) {
		return Payload{}, errors.Wrap(ErrProviderFailed, pickString(raw, "message"))
	}
	return Payload{
		IP:          pickString(raw, "query"),
		Country:     pickString(raw, "country"),
		CountryCode: pickString(raw, "countryCode"),
		Region:      pickString(raw, "region"),
		RegionName:  pickString(raw, "regionName"),
		City:        pickString(raw, "city"),
		Zip:         pickString(raw, "zip"),
		Lat:         pickFloat(raw, "lat"),
		Lon:         pickFloat(raw, "lon"),
		Timezone:    pickString(raw, "timezone"),
		ISP:         pickString(raw, "isp"),
		Org:         pickString(raw, "org"),
		AS:          pickString(raw, "as"),
		Proxy:       pickBool(raw, "proxy"),
		Hosting:     pickBool(raw, "hosting"),
		Mobile:      pickBool(raw, "mobile"),
		Status:      pickString(raw, "status"),
	}, nil
}

// ipinfoDialect only knows the country code, and packs coordinates as "lat,lon".
func ipinfoDialect(raw map[string]any) (Payload, error) {
	if msg := pickNested(raw, "error", "title"); msg != "" {
		return Payload{}, errors.Wrap(ErrProviderFailed, msg)
	}
	lat, lon := SplitLatLon(pickString(raw, "loc"))
	country := pickString(raw, "country")
	region := pickString(raw, "region")
	org := pickString(raw, "org")
	return Payload{
		IP:          pickString(raw, "ip"),
		Country:     country,
		CountryCode: country,
		Region:      region,
		RegionName:  region,
		City:        pickString(raw, "city"),
		Zip:         pickString(raw, "postal"),
		Lat:         lat,
		Lon:         lon,
		Timezone:    pickString(raw, "timezone"),
		ISP:         org,
		Org:         org,
		AS:          org,
		Status:      statusSuccess,
	}, nil
}

// genericDialect accepts the most common spellings of each field.
func genericDialect(raw map[string]any) (Payload, error) {
	if strings.EqualFold(pickString(raw, "status"), statusFail) {
		return Payload{}, errors.Wrap(ErrProviderFailed, pickString(raw, "message", "reason"))
	}
	p := Payload{
		IP:          pickString(raw, "ip", "query", "ip_address", "address"),
		Country:     pickString(raw, "country_name", "country"),
		CountryCode: pickString(raw, "country_code", "countryCode", "cc"),
		Region:      pickString(raw, "region_code", "region"),
		RegionName:  pickString(raw, "regionName", "region_name", "region", "state"),
		City:        pickString(raw, "city", "town"),
		Zip:         pickString(raw, "zip", "postal", "postal_code"),
		Lat:         pickFloat(raw, "lat", "latitude"),
		Lon:         pickFloat(raw, "lon", "lng", "longitude"),
		Timezone:    pickString(raw, "timezone", "time_zone", "tz"),
		ISP:         pickString(raw, "isp", "org", "organization"),
		Org:         pickString(raw, "org", "organization", "isp"),
		AS:          pickString(raw, "as", "asn", "as_number"),
		Proxy:       pickBool(raw, "proxy"),
		Hosting:     pickBool(raw, "hosting"),
		Mobile:      pickBool(raw, "mobile"),
		Status:      pickString(raw, "status"),
	}
	if p.Lat == nil && p.Lon == nil {
		p.Lat, p.Lon = SplitLatLon(pickString(raw, "loc"))
	}
	return p, nil
}

// SplitLatLon parses a "lat,lon" pair. Missing or malformed halves are nil.
func SplitLatLon(loc string) (lat, lon *float64) {
	if strings.TrimSpace(loc) == "" {
		return nil, nil
	}
	first, second, _ := strings.Cut(loc, ",")
	return parseFloat(first), parseFloat(second)
}

func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch t := m[k].(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			// Numeric ASNs and the like.
			return fmt.Sprintf("%.0f", t)
		}
	}
	return ""
}

func pickFloat(m map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		switch t := m[k].(type) {
		case float64:
			v := t
			return &v
		case string:
			if v := parseFloat(t); v != nil {
				return v
			}
		}
	}
	return nil
}

func pickBool(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		switch t := m[k].(type) {
		case bool:
			return t
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
				return b
			}
		}
	}
	return false
}

func pickNested(m map[string]any, outer, inner string) string {
	sub, ok := m[outer].(map[string]any)
	if !ok {
		return ""
	}
	return pickString(sub, inner)
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}
