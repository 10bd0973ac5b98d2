// File: internal/cli/cli.go (complete file)

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/baptistax/ip-insight/internal/config"
	"github.com/baptistax/ip-insight/internal/i18n"
	"github.com/baptistax/ip-insight/internal/logging"
	"github.com/baptistax/ip-insight/internal/metrics"
	"github.com/baptistax/ip-insight/internal/monitor"
	"github.com/baptistax/ip-insight/internal/netutil"
	"github.com/baptistax/ip-insight/internal/resolver"
	"github.com/baptistax/ip-insight/internal/version"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// exitError carries a specific exit code. Silent errors were already shown to
// the user as part of the command output.
type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func failure(err error) error { return &exitError{code: ExitFailure, err: err} }

// ResolverFactory builds the pipeline for a loaded configuration. The returned
// func releases whatever the resolver holds open.
type ResolverFactory func(cfg *config.Config, m *metrics.Metrics, logger logging.Logger) (monitor.Resolver, func(), error)

// app holds state shared by the commands of one invocation.
type app struct {
	vip        *viper.Viper
	configPath string

	cfg    *config.Config
	lang   i18n.Language
	logger logging.Logger

	newResolver ResolverFactory
	preference  func() (*i18n.Preference, error)
	stdin       io.Reader
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCommand(DefaultResolver)
	root.SetArgs(args)
	return exitCode(root.ExecuteContext(ctx), root.ErrOrStderr())
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.silent {
			fmt.Fprintln(stderr, "ipinsight:", ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, "ipinsight:", err)
	return ExitUsage
}

// NewRootCommand builds the command tree. Running the root command resolves once.
func NewRootCommand(factory ResolverFactory) *cobra.Command {
	a := &app{
		vip:         config.DefaultViper(),
		newResolver: factory,
		preference:  i18n.DefaultPreference,
		stdin:       os.Stdin,
	}
	return a.rootCommand()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "ipinsight",
		Short: "Show your public IP address, its location and basic network status",
		Long: `ipinsight discovers the public IP address of this machine through a list of
free lookup services, enriches it with location and ISP details, and reports
whether the path looks proxied and whether IPv6 works.

Default command:
  resolve   Resolve once and print the result`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runResolve,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (yaml, json or toml)")
	pf.String("log-level", "info", "Log level: debug|info|warn|error")
	pf.String("format", config.FormatText, "Output format: text|json")
	pf.String("exports", "exports", "Base exports directory (empty disables)")
	pf.String("language", "", "Display language: en|fa (default: saved preference)")
	pf.String("metrics-file", "", "Write prometheus metrics to this textfile")
	pf.StringSlice("mmdb", nil, "MaxMind DB files used after the online detail services")
	pf.String("ip2location", "", "IP2Location BIN file used after the MaxMind databases")
	pf.String("connection-type", "", "Report this connection type instead of deriving it")

	for key, flag := range map[string]string{
		"log_level":                   "log-level",
		"format":                      "format",
		"exports":                     "exports",
		"language":                    "language",
		"metrics_file":                "metrics-file",
		"enrichment.mmdb_path":        "mmdb",
		"enrichment.ip2location_path": "ip2location",
		"connection_type":             "connection-type",
	} {
		// BindPFlag only fails on a nil flag.
		_ = a.vip.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		a.resolveCommand(),
		a.watchCommand(),
		a.langCommand(),
		versionCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.vip, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel)

	a.lang = i18n.Default
	if cfg.Language != "" {
		a.lang, _ = i18n.Parse(cfg.Language)
		return nil
	}
	pref, err := a.preference()
	if err != nil {
		a.logger.Debugf("language preference unavailable: %s", err)
		return nil
	}
	lang, err := pref.Load()
	if err != nil {
		a.logger.Warnf("ignoring saved language: %s", err)
	}
	a.lang = lang
	return nil
}

// DefaultResolver wires the configured endpoints, probe, and optional offline
// databases into a resolver.
func DefaultResolver(cfg *config.Config, m *metrics.Metrics, logger logging.Logger) (monitor.Resolver, func(), error) {
	opt := cfg.ResolverOptions()
	opt.Logger = logger
	opt.Metrics = m
	opt.UserAgent = version.UserAgent()
	opt.Prober = resolver.NewHTTPProbe(cfg.Probe.URL, cfg.Probe.Timeout, cfg.ProbeFamily(), logger)
	opt.HostIPv6 = netutil.HasGlobalIPv6

	var closers []io.Closer
	release := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	if len(cfg.Enrichment.MMDBPath) > 0 {
		db, err := resolver.OpenMMDB(cfg.Enrichment.MMDBPath...)
		if err != nil {
			return nil, nil, errors.Wrapf(config.ErrInvalid, "enrichment.mmdb_path: %v", err)
		}
		opt.Sources = append(opt.Sources, db)
		closers = append(closers, db)
	}
	if cfg.Enrichment.IP2LocationPath != "" {
		db, err := resolver.OpenIP2Location(cfg.Enrichment.IP2LocationPath)
		if err != nil {
			release()
			return nil, nil, errors.Wrapf(config.ErrInvalid, "enrichment.ip2location_path: %v", err)
		}
		opt.Sources = append(opt.Sources, db)
		closers = append(closers, db)
	}
	return resolver.New(opt), release, nil
}
