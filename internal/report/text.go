// File: internal/report/text.go (complete file)

package report

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/baptistax/ip-insight/internal/i18n"
	"github.com/baptistax/ip-insight/internal/resolver"
)

type palette struct {
	title, label, good, bad, dim *color.Color
}

func newPalette(colored bool) palette {
	p := palette{
		title: color.New(color.FgCyan, color.Bold),
		label: color.New(color.Bold),
		good:  color.New(color.FgGreen),
		bad:   color.New(color.FgRed, color.Bold),
		dim:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.title, p.label, p.good, p.bad, p.dim} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

type line struct {
	key   string
	value string
	paint *color.Color
}

// RenderText renders r for a terminal in the report's language.
func RenderText(r Report, colored bool) string {
	lang := r.Language
	if lang == "" {
		lang = i18n.Default
	}
	p := newPalette(colored)

	var b strings.Builder
	writeBanner(&b, p, lang.T(i18n.LabelTitle))
	b.WriteString(p.dim.Sprintf("%s: %s  |  %s", lang.T(i18n.LabelRun), r.RunID, r.TimestampUTC.Format("2006-01-02T15:04:05Z")) + "\n\n")

	if r.Error != "" || r.IPInfo == nil || r.NetworkStatus == nil {
		msg := r.Error
		if msg == "" {
			msg = "no result"
		}
		b.WriteString(p.bad.Sprint(lang.T(i18n.LabelError)+": "+msg) + "\n")
		return b.String()
	}

	info, st := *r.IPInfo, *r.NetworkStatus

	writeLines(&b, p, lang, []line{
		{i18n.LabelIP, info.IP, p.title},
		{i18n.LabelLocation, formatLocation(info), nil},
		{i18n.LabelPostal, info.Zip, nil},
		{i18n.LabelCoordinates, formatCoord(info.Lat) + ", " + formatCoord(info.Lon), nil},
		{i18n.LabelTimezone, info.Timezone, nil},
		{i18n.LabelISP, info.ISP, nil},
		{i18n.LabelOrg, info.Org, nil},
		{i18n.LabelAS, info.AS, nil},
		{i18n.LabelProxy, yesNo(lang, info.Proxy), flagPaint(p, info.Proxy)},
		{i18n.LabelHosting, yesNo(lang, info.Hosting), nil},
		{i18n.LabelMobile, yesNo(lang, info.Mobile), nil},
	})
	if r.Degraded() {
		b.WriteString(p.dim.Sprint(lang.T(i18n.LabelFallbackNotice)) + "\n")
	}

	b.WriteString("\n" + p.title.Sprint(lang.T(i18n.LabelNetwork)) + "\n")

	ipv6 := p.bad
	ipv6Text := lang.T(i18n.LabelNotSupported)
	if st.IPv6Support {
		ipv6, ipv6Text = p.good, lang.T(i18n.LabelSupported)
	}
	writeLines(&b, p, lang, []line{
		{i18n.LabelConnectionType, localizeStatus(lang, st.ConnectionType), nil},
		{i18n.LabelSecurity, localizeStatus(lang, st.SecurityStatus), flagPaint(p, st.SecurityStatus == resolver.SecurityProxy)},
		{i18n.LabelIPv6, ipv6Text, ipv6},
		{i18n.LabelDNSServers, strings.Join(st.DNSServers, ", "), nil},
		{i18n.LabelResponseTime, strconv.FormatInt(st.ResponseTime, 10) + " " + lang.T(i18n.LabelMilliseconds), nil},
		{i18n.LabelSources, formatSources(r), p.dim},
	})

	return b.String()
}

func writeBanner(b *strings.Builder, p palette, title string) {
	rule := strings.Repeat("=", 24)
	pad := (24 - utf8.RuneCountInString(title)) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(rule + "\n")
	b.WriteString(p.title.Sprint(strings.Repeat(" ", pad)+title) + "\n")
	b.WriteString(rule + "\n")
}

func writeLines(b *strings.Builder, p palette, lang i18n.Language, lines []line) {
	width := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(lang.T(l.key)); n > width {
			width = n
		}
	}
	for _, l := range lines {
		value := l.value
		if l.paint != nil {
			value = l.paint.Sprint(value)
		}
		b.WriteString(p.label.Sprintf("%-*s", width, lang.T(l.key)) + " : " + value + "\n")
	}
}

func flagPaint(p palette, bad bool) *color.Color {
	if bad {
		return p.bad
	}
	return p.good
}

func yesNo(lang i18n.Language, v bool) string {
	if v {
		return lang.T(i18n.LabelYes)
	}
	return lang.T(i18n.LabelNo)
}

func localizeStatus(lang i18n.Language, v string) string {
	switch v {
	case resolver.SecurityProxy:
		return lang.T(i18n.LabelProxyDetected)
	case resolver.SecurityDirect:
		return lang.T(i18n.LabelDirect)
	case resolver.ConnectionBroadband:
		return lang.T(i18n.LabelBroadband)
	case resolver.ConnectionMobile:
		return lang.T(i18n.LabelMobile)
	}
	return v
}

func formatLocation(info resolver.IPInfo) string {
	parts := []string{}
	for _, s := range []string{info.City, info.RegionName, info.Country} {
		if s = strings.TrimSpace(s); s != "" && s != "Unknown" && !contains(parts, s) {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, info.Country)
	}
	return fmt.Sprintf("%s (%s)", strings.Join(parts, ", "), info.CountryCode)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatSources(r Report) string {
	if r.EnrichedBy == "" || r.EnrichedBy == r.DiscoveredBy {
		return r.DiscoveredBy
	}
	return r.DiscoveredBy + " -> " + r.EnrichedBy
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
