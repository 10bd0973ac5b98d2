// File: internal/report/model.go (complete file)

package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/baptistax/ip-insight/internal/i18n"
	"github.com/baptistax/ip-insight/internal/resolver"
)

// Report is what a resolution run exports and prints. Exactly one of Error and
// IPInfo is set.
type Report struct {
	RunID         string                  `json:"run_id"`
	TimestampUTC  time.Time               `json:"timestamp_utc"`
	Language      i18n.Language           `json:"language"`
	Version       string                  `json:"version,omitempty"`
	IPInfo        *resolver.IPInfo        `json:"ip_info,omitempty"`
	NetworkStatus *resolver.NetworkStatus `json:"network_status,omitempty"`
	DiscoveredBy  string                  `json:"discovered_by,omitempty"`
	EnrichedBy    string                  `json:"enriched_by,omitempty"`
	ElapsedMs     int64                   `json:"elapsed_ms"`
	Error         string                  `json:"error,omitempty"`
}

// New builds a report for one run. An empty runID gets a fresh UUID.
func New(runID string, at time.Time, lang i18n.Language, res resolver.Result, err error) Report {
	if runID == "" {
		runID = uuid.NewString()
	}
	r := Report{
		RunID:        runID,
		TimestampUTC: at.UTC(),
		Language:     lang,
	}
	if err != nil {
		r.Error = err.Error()
		return r
	}

	info, status := res.Info, res.Status
	r.IPInfo = &info
	r.NetworkStatus = &status
	r.DiscoveredBy = res.DiscoveredBy
	r.EnrichedBy = res.EnrichedBy
	r.ElapsedMs = res.Elapsed.Milliseconds()
	return r
}

// Degraded reports whether the location fields are defaults because no
// enrichment source answered.
func (r Report) Degraded() bool {
	return r.Error == "" && r.EnrichedBy == ""
}
