// File: internal/resolver/payload.go (complete file)

package resolver

import (
	"math"
	"strings"
)

const (
	unknown            = "Unknown"
	unknownCountryCode = "XX"
	statusSuccess      = "success"
	statusFail         = "fail"
)

// Payload is one provider's answer mapped onto canonical field names.
// Empty strings and nil coordinates mean the provider did not say.
type Payload struct {
	IP          string
	Country     string
	CountryCode string
	Region      string
	RegionName  string
	City        string
	Zip         string
	Lat         *float64
	Lon         *float64
	Timezone    string
	ISP         string
	Org         string
	AS          string
	Proxy       bool
	Hosting     bool
	Mobile      bool
	Status      string
}

// HasGeo reports whether the payload carries a country name, which is what makes
// a discovery answer good enough to skip enrichment.
func (p Payload) HasGeo() bool {
	return strings.TrimSpace(p.Country) != ""
}

// IPInfo is the canonical, fully populated identity record.
type IPInfo struct {
	IP          string  `json:"ip"`
	Query       string  `json:"query"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	RegionName  string  `json:"regionName"`
	ISP         string  `json:"isp"`
	Org         string  `json:"org"`
	Timezone    string  `json:"timezone"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Zip         string  `json:"zip"`
	AS          string  `json:"as"`
	Proxy       bool    `json:"proxy"`
	Hosting     bool    `json:"hosting"`
	Mobile      bool    `json:"mobile"`
	Status      string  `json:"status"`
}

// Canonicalize fills every IPInfo field from p, falling back field by field to the
// documented defaults. discoveredIP is used when the payload has no address.
func Canonicalize(p Payload, discoveredIP string) IPInfo {
	ip := or(p.IP, strings.TrimSpace(discoveredIP))
	return IPInfo{
		IP:          ip,
		Query:       ip,
		Country:     or(p.Country, unknown),
		CountryCode: or(p.CountryCode, unknownCountryCode),
		City:        or(p.City, unknown),
		Region:      or(p.Region, unknown),
		RegionName:  or(p.RegionName, unknown),
		ISP:         or(p.ISP, unknown),
		Org:         or(p.Org, unknown),
		Timezone:    or(p.Timezone, unknown),
		Lat:         coord(p.Lat),
		Lon:         coord(p.Lon),
		Zip:         or(p.Zip, unknown),
		AS:          or(p.AS, unknown),
		Proxy:       p.Proxy,
		Hosting:     p.Hosting,
		Mobile:      p.Mobile,
		Status:      or(p.Status, statusSuccess),
	}
}

func or(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

func coord(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}
