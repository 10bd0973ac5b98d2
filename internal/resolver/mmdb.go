// File: internal/resolver/mmdb.go (complete file)

package resolver

import (
	"context"
	"net"
	"strconv"

	"github.com/oschwald/maxminddb-golang"
	"github.com/pkg/errors"
)

// Source enriches a known IP without going through an HTTP endpoint.
type Source interface {
	Name() string
	Lookup(ctx context.Context, ip string) (Payload, error)
}

var errNoRecord = errors.New("no record for address")

// mmdbRecord covers the GeoLite2/GeoIP2 City and ASN layouts, so one struct can
// be decoded from either kind of database.
type mmdbRecord struct {
	City struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"city"`
	Country struct {
		ISOCode string            `maxminddb:"iso_code"`
		Names   map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
	Subdivisions []struct {
		ISOCode string            `maxminddb:"iso_code"`
		Names   map[string]string `maxminddb:"names"`
	} `maxminddb:"subdivisions"`
	Location struct {
		Latitude  float64 `maxminddb:"latitude"`
		Longitude float64 `maxminddb:"longitude"`
		TimeZone  string  `maxminddb:"time_zone"`
	} `maxminddb:"location"`
	Postal struct {
		Code string `maxminddb:"code"`
	} `maxminddb:"postal"`
	Traits struct {
		IsAnonymousProxy bool `maxminddb:"is_anonymous_proxy"`
	} `maxminddb:"traits"`
	ASN   uint   `maxminddb:"autonomous_system_number"`
	ASOrg string `maxminddb:"autonomous_system_organization"`
}

// MMDBSource looks addresses up in local MaxMind databases. Answers from several
// databases (typically City + ASN) are merged, earlier databases winning.
type MMDBSource struct {
	readers []*maxminddb.Reader
}

// OpenMMDB opens every path. On error, readers opened so far are closed.
func OpenMMDB(paths ...string) (*MMDBSource, error) {
	src := &MMDBSource{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		r, err := maxminddb.Open(p)
		if err != nil {
			_ = src.Close()
			return nil, errors.Wrapf(err, "open mmdb %s", p)
		}
		src.readers = append(src.readers, r)
	}
	return src, nil
}

func (s *MMDBSource) Name() string { return "mmdb" }

func (s *MMDBSource) Lookup(ctx context.Context, ip string) (Payload, error) {
	if len(s.readers) == 0 {
		return Payload{}, errors.New("mmdb: no database loaded")
	}
	addr := net.ParseIP(ip)
	if addr == nil {
		return Payload{}, errors.Wrapf(errInvalidIP, "%q", ip)
	}

	var merged Payload
	for _, r := range s.readers {
		if err := ctx.Err(); err != nil {
			return Payload{}, err
		}
		var rec mmdbRecord
		if err := r.Lookup(addr, &rec); err != nil {
			return Payload{}, errors.Wrap(err, "mmdb lookup")
		}
		merged = mergePayload(merged, payloadFromRecord(rec))
	}
	if !merged.HasGeo() && merged.AS == "" {
		return Payload{}, errNoRecord
	}
	merged.IP = ip
	merged.Status = statusSuccess
	return merged, nil
}

func (s *MMDBSource) Close() error {
	var first error
	for _, r := range s.readers {
		if err := r.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.readers = nil
	return first
}

func payloadFromRecord(rec mmdbRecord) Payload {
	p := Payload{
		Country:     rec.Country.Names["en"],
		CountryCode: rec.Country.ISOCode,
		City:        rec.City.Names["en"],
		Zip:         rec.Postal.Code,
		Timezone:    rec.Location.TimeZone,
		Proxy:       rec.Traits.IsAnonymousProxy,
	}
	if lat, lon := rec.Location.Latitude, rec.Location.Longitude; lat != 0 || lon != 0 {
		p.Lat, p.Lon = &lat, &lon
	}
	if len(rec.Subdivisions) > 0 {
		p.Region = rec.Subdivisions[0].ISOCode
		p.RegionName = rec.Subdivisions[0].Names["en"]
	}
	if rec.ASN != 0 {
		p.AS = "AS" + strconv.FormatUint(uint64(rec.ASN), 10)
		if rec.ASOrg != "" {
			p.AS += " " + rec.ASOrg
		}
	}
	p.ISP = rec.ASOrg
	p.Org = rec.ASOrg
	return p
}

// mergePayload keeps every field already set in a and fills the rest from b.
func mergePayload(a, b Payload) Payload {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&a.IP, b.IP)
	fill(&a.Country, b.Country)
	fill(&a.CountryCode, b.CountryCode)
	fill(&a.Region, b.Region)
	fill(&a.RegionName, b.RegionName)
	fill(&a.City, b.City)
	fill(&a.Zip, b.Zip)
	fill(&a.Timezone, b.Timezone)
	fill(&a.ISP, b.ISP)
	fill(&a.Org, b.Org)
	fill(&a.AS, b.AS)
	fill(&a.Status, b.Status)
	if a.Lat == nil {
		a.Lat = b.Lat
	}
	if a.Lon == nil {
		a.Lon = b.Lon
	}
	a.Proxy = a.Proxy || b.Proxy
	a.Hosting = a.Hosting || b.Hosting
	a.Mobile = a.Mobile || b.Mobile
	return a
}
