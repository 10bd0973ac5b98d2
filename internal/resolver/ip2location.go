// File: internal/resolver/ip2location.go (complete file)

package resolver

import (
	"context"
	"strings"
	"sync"

	"github.com/ip2location/ip2location-go/v9"
	"github.com/pkg/errors"
)

// IP2LocationSource looks addresses up in a local IP2Location BIN database.
//
// This site or product includes IP2Location LITE data available from
// <a href="https://lite.ip2location.com">https://lite.ip2location.com</a>.
type IP2LocationSource struct {
	mu sync.Mutex
	db *ip2location.DB
}

func OpenIP2Location(path string) (*IP2LocationSource, error) {
	db, err := ip2location.OpenDB(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open ip2location %s", path)
	}
	return &IP2LocationSource{db: db}, nil
}

func (s *IP2LocationSource) Name() string { return "ip2location" }

func (s *IP2LocationSource) Lookup(ctx context.Context, ip string) (Payload, error) {
	if _, err := checkIP(ip); err != nil {
		return Payload{}, err
	}
	if err := ctx.Err(); err != nil {
		return Payload{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return Payload{}, errors.New("ip2location: database closed")
	}
	rec, err := s.db.Get_all(ip)
	if err != nil {
		return Payload{}, errors.Wrap(err, "ip2location lookup")
	}

	p := payloadFromIP2Location(rec)
	if !p.HasGeo() {
		return Payload{}, errNoRecord
	}
	p.IP = ip
	p.Status = statusSuccess
	return p, nil
}

func (s *IP2LocationSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	return nil
}

func payloadFromIP2Location(rec ip2location.IP2Locationrecord) Payload {
	p := Payload{
		Country:     i2lField(rec.Country_long),
		CountryCode: i2lField(rec.Country_short),
		RegionName:  i2lField(rec.Region),
		City:        i2lField(rec.City),
		Zip:         i2lField(rec.Zipcode),
		ISP:         i2lField(rec.Isp),
		Timezone:    i2lTimezone(i2lField(rec.Timezone)),
	}
	if as := i2lField(rec.As); as != "" {
		p.Org = as
	}
	if asn := i2lField(rec.Asn); asn != "" {
		p.AS = "AS" + asn
		if p.Org != "" {
			p.AS += " " + p.Org
		}
	}
	if lat, lon := float64(rec.Latitude), float64(rec.Longitude); lat != 0 || lon != 0 {
		p.Lat, p.Lon = &lat, &lon
	}

	// Usage types: MOB mobile carrier, DCH data center/hosting.
	for _, u := range strings.Split(i2lField(rec.Usagetype), "/") {
		switch u {
		case "MOB":
			p.Mobile = true
		case "DCH":
			p.Hosting = true
		}
	}
	return p
}

// i2lField drops the placeholders IP2Location uses for missing data.
func i2lField(s string) string {
	s = strings.TrimSpace(s)
	if s == "-" || strings.Contains(s, "unavailable") || strings.Contains(s, "Invalid") {
		return ""
	}
	return s
}

// i2lTimezone turns the "+02:00" offsets of the BIN files into "UTC+02:00".
func i2lTimezone(s string) string {
	if s == "" || strings.Contains(s, "/") {
		return s
	}
	return "UTC" + s
}
