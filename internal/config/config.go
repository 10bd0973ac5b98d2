// File: internal/config/config.go (complete file)

package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/baptistax/ip-insight/internal/i18n"
	"github.com/baptistax/ip-insight/internal/netutil"
	"github.com/baptistax/ip-insight/internal/resolver"
)

// EnvPrefix namespaces environment overrides, e.g. IPINSIGHT_PROBE_TIMEOUT=2s.
const EnvPrefix = "IPINSIGHT"

var ErrInvalid = errors.New("invalid configuration")

// Config is the tool's configuration. It is intended to be mapped by viper.
// Empty Discovery or Detail lists select the built-in registries.
type Config struct {
	LogLevel       string `mapstructure:"log_level"`
	Format         string `mapstructure:"format"`
	Exports        string `mapstructure:"exports"`
	Language       string `mapstructure:"language"`
	ConnectionType string `mapstructure:"connection_type"`
	MetricsFile    string `mapstructure:"metrics_file"`

	Discovery []resolver.Endpoint `mapstructure:"discovery"`
	Detail    []resolver.Endpoint `mapstructure:"detail"`

	Probe      Probe      `mapstructure:"probe"`
	Enrichment Enrichment `mapstructure:"enrichment"`
	Watch      Watch      `mapstructure:"watch"`
}

type (
	Probe struct {
		URL     string        `mapstructure:"url"`
		Timeout time.Duration `mapstructure:"timeout"`
		Family  string        `mapstructure:"family"`
	}

	// Enrichment configures the offline sources tried after the HTTP detail
	// endpoints, MaxMind first. MMDBPath may list a City and an ASN database.
	Enrichment struct {
		MMDBPath        []string `mapstructure:"mmdb_path"`
		IP2LocationPath string   `mapstructure:"ip2location_path"`
	}

	Watch struct {
		Interval time.Duration `mapstructure:"interval"`
		Timeout  time.Duration `mapstructure:"timeout"`
	}
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultViper returns a viper instance with every default set and environment
// overrides enabled.
func DefaultViper() *viper.Viper {
	vip := viper.New()

	vip.SetDefault("log_level", "info")
	vip.SetDefault("format", FormatText)
	vip.SetDefault("exports", "exports")
	vip.SetDefault("language", "")
	vip.SetDefault("connection_type", "")
	vip.SetDefault("metrics_file", "")

	vip.SetDefault("probe.url", resolver.DefaultProbeURL)
	vip.SetDefault("probe.timeout", resolver.DefaultProbeTimeout)
	vip.SetDefault("probe.family", string(netutil.FamilyIPv6))

	vip.SetDefault("enrichment.mmdb_path", []string{})
	vip.SetDefault("enrichment.ip2location_path", "")

	vip.SetDefault("watch.interval", time.Minute)
	vip.SetDefault("watch.timeout", time.Duration(0))

	vip.SetEnvPrefix(EnvPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()

	return vip
}

// Load reads path (if set) into vip and decodes the result.
func Load(vip *viper.Viper, path string) (*Config, error) {
	if path != "" {
		vip.SetConfigFile(path)
		if err := vip.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(ErrInvalid, "read %s: %v", path, err)
		}
	}

	var cfg Config
	err := vip.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		allowedKindHookFunc(),
	)))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalid, "decode: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first problem found, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return errors.Wrapf(ErrInvalid, "log_level %q", c.LogLevel)
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return errors.Wrapf(ErrInvalid, "format %q: use text or json", c.Format)
	}
	if c.Language != "" {
		if _, err := i18n.Parse(c.Language); err != nil {
			return errors.Wrapf(ErrInvalid, "language: %v", err)
		}
	}
	for _, ep := range c.Discovery {
		if err := ep.Validate(false); err != nil {
			return errors.Wrapf(ErrInvalid, "discovery: %v", err)
		}
	}
	for _, ep := range c.Detail {
		if err := ep.Validate(true); err != nil {
			return errors.Wrapf(ErrInvalid, "detail: %v", err)
		}
	}
	if c.Probe.Timeout <= 0 {
		return errors.Wrap(ErrInvalid, "probe.timeout must be positive")
	}
	if strings.TrimSpace(c.Probe.URL) == "" {
		return errors.Wrap(ErrInvalid, "probe.url is empty")
	}
	if c.Watch.Interval <= 0 {
		return errors.Wrap(ErrInvalid, "watch.interval must be positive")
	}
	if c.Watch.Timeout < 0 {
		return errors.Wrap(ErrInvalid, "watch.timeout must not be negative")
	}
	return nil
}

// ResolverOptions maps the configuration onto resolver options. Logger, Metrics,
// Sources and UserAgent are left to the caller.
func (c *Config) ResolverOptions() resolver.Options {
	opt := resolver.Options{ConnectionType: c.ConnectionType}
	if len(c.Discovery) > 0 {
		opt.Discovery = c.Discovery
	}
	if len(c.Detail) > 0 {
		opt.Detail = c.Detail
	}
	return opt
}

// RunBudget bounds one watch run. Without an explicit watch.timeout it covers
// every configured endpoint and source timing out in turn.
func (c *Config) RunBudget() time.Duration {
	if c.Watch.Timeout > 0 {
		return c.Watch.Timeout
	}
	opt := c.ResolverOptions()
	sources := 0
	if len(c.Enrichment.MMDBPath) > 0 {
		sources++
	}
	if c.Enrichment.IP2LocationPath != "" {
		sources++
	}
	return resolver.Budget(opt.Discovery, opt.Detail, sources, c.Probe.Timeout)
}

func (c *Config) ProbeFamily() netutil.Family {
	return netutil.ParseFamily(c.Probe.Family)
}

func allowedKindHookFunc() mapstructure.DecodeHookFuncType {
	kinds := []resolver.Kind{resolver.KindBareText, resolver.KindDiscoveryJSON, resolver.KindDetailJSON}

	return func(_ reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(resolver.Kind("")) {
			return data, nil
		}
		s, _ := data.(string)
		for _, k := range kinds {
			if string(k) == s {
				return data, nil
			}
		}

		names := make([]string, 0, len(kinds))
		for _, k := range kinds {
			names = append(names, string(k))
		}
		return data, errors.Errorf("kind %q is not allowed, use one of: %s", s, strings.Join(names, ", "))
	}
}
