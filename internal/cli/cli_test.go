// File: internal/cli/cli_test.go (complete file)

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baptistax/ip-insight/internal/config"
	"github.com/baptistax/ip-insight/internal/i18n"
	"github.com/baptistax/ip-insight/internal/logging"
	"github.com/baptistax/ip-insight/internal/metrics"
	"github.com/baptistax/ip-insight/internal/monitor"
	"github.com/baptistax/ip-insight/internal/resolver"
)

// syncBuffer is an io.Writer safe for the concurrent writes of watch.
type syncBuffer struct {
	b bytes.Buffer
	m sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.m.Lock()
	defer b.m.Unlock()
	return b.b.Write(p)
}

func (b *syncBuffer) String() string {
	b.m.Lock()
	defer b.m.Unlock()
	return b.b.String()
}

type resolverFunc func(ctx context.Context) (resolver.Result, error)

func (f resolverFunc) Resolve(ctx context.Context) (resolver.Result, error) { return f(ctx) }

func fixedFactory(res resolver.Result, err error) ResolverFactory {
	return func(*config.Config, *metrics.Metrics, logging.Logger) (monitor.Resolver, func(), error) {
		return resolverFunc(func(context.Context) (resolver.Result, error) { return res, err }), func() {}, nil
	}
}

func sampleResult() resolver.Result {
	info := resolver.Canonicalize(resolver.Payload{Country: "Netherlands", CountryCode: "NL", City: "Amsterdam"}, "203.0.113.7")
	return resolver.Result{
		Info:         info,
		Status:       resolver.DeriveStatus(info, false, "", 420*time.Millisecond),
		Elapsed:      420 * time.Millisecond,
		DiscoveredBy: "ipify",
		EnrichedBy:   "ip-api.com",
	}
}

type harness struct {
	root   *cobra.Command
	app    *app
	out    *syncBuffer
	errOut *syncBuffer
	dir    string
}

func newHarness(t *testing.T, factory ResolverFactory) *harness {
	t.Helper()
	dir := t.TempDir()
	a := &app{
		vip:         config.DefaultViper(),
		newResolver: factory,
		preference: func() (*i18n.Preference, error) {
			return &i18n.Preference{Path: filepath.Join(dir, "config", "language")}, nil
		},
		stdin: strings.NewReader(""),
	}
	h := &harness{root: a.rootCommand(), app: a, out: &syncBuffer{}, errOut: &syncBuffer{}, dir: dir}
	h.root.SetOut(h.out)
	h.root.SetErr(h.errOut)
	return h
}

func (h *harness) run(ctx context.Context, args ...string) int {
	h.root.SetArgs(args)
	return exitCode(h.root.ExecuteContext(ctx), h.errOut)
}

func TestResolve_TextAndExports(t *testing.T) {
	h := newHarness(t, fixedFactory(sampleResult(), nil))
	exports := filepath.Join(h.dir, "exports")

	code := h.run(context.Background(), "--exports", exports, "--language", "en")
	require.Equal(t, ExitOK, code, h.errOut.String())

	out := h.out.String()
	assert.Contains(t, out, "203.0.113.7")
	assert.Contains(t, out, "Amsterdam, Netherlands (NL)")
	assert.Contains(t, out, "Not supported")
	assert.Contains(t, out, "Outputs written to: "+exports)

	runs, err := filepath.Glob(filepath.Join(exports, "run_*", "report.json"))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	_, err = os.Stat(filepath.Join(filepath.Dir(runs[0]), "report.txt"))
	assert.NoError(t, err)
}

func TestResolve_JSON(t *testing.T) {
	h := newHarness(t, fixedFactory(sampleResult(), nil))

	code := h.run(context.Background(), "resolve", "--format", "json", "--exports", "")
	require.Equal(t, ExitOK, code, h.errOut.String())

	var decoded struct {
		RunID  string          `json:"run_id"`
		IPInfo resolver.IPInfo `json:"ip_info"`
	}
	require.NoError(t, json.Unmarshal([]byte(h.out.String()), &decoded))
	assert.NotEmpty(t, decoded.RunID)
	assert.Equal(t, "203.0.113.7", decoded.IPInfo.IP)
	assert.Equal(t, "NL", decoded.IPInfo.CountryCode)
}

func TestResolve_FailureExitsWithOne(t *testing.T) {
	h := newHarness(t, fixedFactory(resolver.Result{}, resolver.ErrNoIPDiscoverable))

	code := h.run(context.Background(), "--exports", "")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, h.out.String(), "unable to detect IP address from any service")
	assert.Empty(t, h.errOut.String(), "the failure is part of the report, not repeated on stderr")
}

func TestUsageErrorsExitWithTwo(t *testing.T) {
	cases := [][]string{
		{"--no-such-flag"},
		{"--format", "xml"},
		{"--language", "de"},
		{"frobnicate"},
		{"lang", "de"},
	}
	for _, args := range cases {
		h := newHarness(t, fixedFactory(sampleResult(), nil))
		assert.Equal(t, ExitUsage, h.run(context.Background(), args...), "%v", args)
		assert.Contains(t, h.errOut.String(), "ipinsight:")
	}
}

func TestLang_SaveAndShow(t *testing.T) {
	h := newHarness(t, fixedFactory(sampleResult(), nil))
	require.Equal(t, ExitOK, h.run(context.Background(), "lang", "fa"))
	assert.Contains(t, h.out.String(), "language set to fa")

	h2 := newHarness(t, fixedFactory(sampleResult(), nil))
	h2.app.preference = h.app.preference
	require.Equal(t, ExitOK, h2.run(context.Background(), "lang"))
	assert.Equal(t, "fa\n", h2.out.String())

	h3 := newHarness(t, fixedFactory(sampleResult(), nil))
	h3.app.preference = h.app.preference
	require.Equal(t, ExitOK, h3.run(context.Background(), "--exports", ""))
	assert.Contains(t, h3.out.String(), "اطلاعات IP")
}

func TestLang_CompletesSupportedLanguages(t *testing.T) {
	h := newHarness(t, fixedFactory(sampleResult(), nil))
	cmd, _, err := h.root.Find([]string{"lang"})
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fa"}, cmd.ValidArgs)
}

func TestVersion(t *testing.T) {
	h := newHarness(t, fixedFactory(sampleResult(), nil))
	require.Equal(t, ExitOK, h.run(context.Background(), "version"))
	assert.Contains(t, h.out.String(), "ipinsight dev")
}

func TestWatch_PrintsFirstResolution(t *testing.T) {
	h := newHarness(t, fixedFactory(sampleResult(), nil))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	code := h.run(ctx, "watch", "--interval", "1h", "--exports", "")
	require.Equal(t, ExitOK, code, h.errOut.String())
	assert.Contains(t, h.out.String(), "resolved 203.0.113.7")
	assert.Contains(t, h.out.String(), "Amsterdam")
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestWatch_StopsWhenOutputFails(t *testing.T) {
	h := newHarness(t, fixedFactory(sampleResult(), nil))
	h.root.SetOut(brokenWriter{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	code := h.run(ctx, "watch", "--interval", "1h", "--exports", "")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, h.errOut.String(), "write event")
	assert.Less(t, time.Since(start), 4*time.Second, "watch kept running after its output broke")
}

func TestResolve_DefaultResolverAgainstFakeProviders(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/discover", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"ip":"198.51.100.23"}`)
	})
	mux.HandleFunc("/geo/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"success","country":"Japan","countryCode":"JP","city":"Tokyo","proxy":true,"query":"198.51.100.23"}`)
	})
	mux.HandleFunc("/probe", func(w http.ResponseWriter, _ *http.Request) {})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "ipinsight.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf(`
format: json
exports: ""
probe:
  url: %[1]s/probe
  family: any
discovery:
  - name: fake-ipify
    url: %[1]s/discover
    kind: discovery-json
    dialect: ipify
detail:
  - name: fake-ip-api
    url: %[1]s/geo/{ip}
    kind: detail-json
    dialect: ip-api.com
`, srv.URL)), 0o644))

	metricsFile := filepath.Join(t.TempDir(), "ipinsight.prom")
	h := newHarness(t, DefaultResolver)
	code := h.run(context.Background(), "--config", cfgPath, "--metrics-file", metricsFile)
	require.Equal(t, ExitOK, code, h.errOut.String())

	var decoded struct {
		IPInfo        resolver.IPInfo        `json:"ip_info"`
		NetworkStatus resolver.NetworkStatus `json:"network_status"`
		DiscoveredBy  string                 `json:"discovered_by"`
		EnrichedBy    string                 `json:"enriched_by"`
	}
	require.NoError(t, json.Unmarshal([]byte(h.out.String()), &decoded))
	assert.Equal(t, "198.51.100.23", decoded.IPInfo.IP)
	assert.Equal(t, "Tokyo", decoded.IPInfo.City)
	assert.Equal(t, resolver.SecurityProxy, decoded.NetworkStatus.SecurityStatus)
	assert.True(t, decoded.NetworkStatus.IPv6Support)
	assert.Equal(t, "fake-ipify", decoded.DiscoveredBy)
	assert.Equal(t, "fake-ip-api", decoded.EnrichedBy)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `ipinsight_resolutions_total{outcome="ok"} 1`)
}

func TestDefaultResolver_MissingDatabases(t *testing.T) {
	cfg, err := config.Load(config.DefaultViper(), "")
	require.NoError(t, err)
	cfg.Enrichment.MMDBPath = []string{filepath.Join(t.TempDir(), "missing.mmdb")}

	_, _, err = DefaultResolver(cfg, metrics.New(), logging.Discard)
	assert.ErrorIs(t, err, config.ErrInvalid)

	cfg.Enrichment.MMDBPath = nil
	cfg.Enrichment.IP2LocationPath = filepath.Join(t.TempDir(), "missing.BIN")
	_, _, err = DefaultResolver(cfg, metrics.New(), logging.Discard)
	assert.ErrorIs(t, err, config.ErrInvalid)
}
