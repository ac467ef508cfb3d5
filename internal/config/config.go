// Package config loads outdated's settings from defaults, a YAML config file,
// OUTDATED_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	outerr "github.com/matzehuels/outdated/pkg/errors"
	"github.com/matzehuels/outdated/pkg/integrations/npm"
	"github.com/matzehuels/outdated/pkg/observability"
	"github.com/matzehuels/outdated/pkg/outdated"
	"github.com/matzehuels/outdated/pkg/render"
)

const (
	appName   = "outdated"
	envPrefix = "OUTDATED"

	// DepthInfinity is the spelling of an unbounded depth.
	DepthInfinity = "infinity"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds all application configuration.
type Config struct {
	Registry    string        `mapstructure:"registry"`
	Token       string        `mapstructure:"token"`
	Global      bool          `mapstructure:"global"`
	Prefix      string        `mapstructure:"prefix"`
	Depth       string        `mapstructure:"depth"`
	Long        bool          `mapstructure:"long"`
	Color       bool          `mapstructure:"color"`
	Format      string        `mapstructure:"format"`
	JSON        bool          `mapstructure:"json"`
	Parseable   bool          `mapstructure:"parseable"`
	Concurrency int           `mapstructure:"concurrency"`
	Locale      string        `mapstructure:"locale"`
	Refresh     bool          `mapstructure:"refresh"`
	Cache       CacheConfig   `mapstructure:"cache"`
	Tracing     TracingConfig `mapstructure:"tracing"`
}

type CacheConfig struct {
	Backend  string        `mapstructure:"backend"`
	Dir      string        `mapstructure:"dir"`
	TTL      time.Duration `mapstructure:"ttl"`
	RedisURL string        `mapstructure:"redis_url"`
}

type TracingConfig struct {
	Endpoint   string  `mapstructure:"endpoint"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("registry", npm.DefaultRegistry)
	v.SetDefault("token", "")
	v.SetDefault("global", false)
	v.SetDefault("prefix", DefaultPrefix())
	v.SetDefault("depth", DepthInfinity)
	v.SetDefault("long", false)
	v.SetDefault("color", colorDefault())
	v.SetDefault("format", string(render.FormatTable))
	v.SetDefault("json", false)
	v.SetDefault("parseable", false)
	v.SetDefault("concurrency", outdated.DefaultConcurrency)
	v.SetDefault("locale", outdated.DefaultLocale)
	v.SetDefault("refresh", false)
	v.SetDefault("cache.backend", CacheFile)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.sample_rate", 1.0)
	return v
}

// BindFlags binds each named flag to the config key of the same name.
// Flags with dashes bind to keys with dots ("cache-dir" -> "cache.dir").
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := v.BindPFlag(strings.ReplaceAll(name, "-", "."), f); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the config file at path into v and decodes the result. An
// empty path looks for config.yaml in the user config directory and
// tolerates its absence.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, outerr.Wrap(outerr.ErrCodeInvalidConfig, err, "reading config %s", path)
		}
	} else if dir, err := configDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, outerr.Wrap(outerr.ErrCodeInvalidConfig, err, "reading config")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, outerr.Wrap(outerr.ErrCodeInvalidConfig, err, "unmarshalling config")
	}
	return &cfg, nil
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Concurrency < 1 {
		warnings = append(warnings, fmt.Sprintf("concurrency %d is below 1; using %d", c.Concurrency, outdated.DefaultConcurrency))
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone, "":
	default:
		warnings = append(warnings, fmt.Sprintf("unknown cache backend %q; caching disabled", c.Cache.Backend))
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisURL == "" {
		warnings = append(warnings, "cache backend is redis but cache.redis_url is empty; caching disabled")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		warnings = append(warnings, fmt.Sprintf("tracing sample_rate %.2f is outside [0.0, 1.0]", c.Tracing.SampleRate))
	}
	if c.Token != "" && strings.HasPrefix(c.Registry, "http://") {
		warnings = append(warnings, "registry token is sent over plain http")
	}
	if c.JSON && c.Parseable {
		warnings = append(warnings, "both json and parseable set; using json")
	}

	return warnings
}

// ParseDepth parses a depth setting: a non-negative integer or "infinity".
func ParseDepth(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", DepthInfinity, "inf", "infinite":
		return outdated.Infinite, nil
	}
	d, err := strconv.Atoi(s)
	if err != nil || d < 0 {
		return 0, outerr.New(outerr.ErrCodeInvalidConfig, "invalid depth %q: want a non-negative integer or %q", s, DepthInfinity)
	}
	return d, nil
}

// WalkOptions converts the config into walker options for names.
func (c *Config) WalkOptions(names []string, logger func(string, ...any)) (outdated.Options, error) {
	depth, err := ParseDepth(c.Depth)
	if err != nil {
		return outdated.Options{}, err
	}
	return outdated.Options{
		Depth:       depth,
		Concurrency: c.Concurrency,
		Names:       names,
		Logger:      logger,
	}.WithDefaults(), nil
}

// RenderOptions converts the config into renderer options. The json and
// parseable switches take precedence over format.
func (c *Config) RenderOptions() (render.Options, error) {
	format, err := render.ParseFormat(c.Format)
	if err != nil {
		return render.Options{}, err
	}
	switch {
	case c.JSON:
		format = render.FormatJSON
	case c.Parseable:
		format = render.FormatParseable
	}
	return render.Options{Format: format, Long: c.Long, Color: c.Color}, nil
}

// TracingOptions converts the config into tracer setup options.
func (c *Config) TracingOptions(version string) observability.TracingConfig {
	return observability.TracingConfig{
		ServiceName:    appName,
		ServiceVersion: version,
		Endpoint:       c.Tracing.Endpoint,
		SampleRate:     c.Tracing.SampleRate,
	}
}

// DefaultPrefix returns npm's global prefix: $npm_config_prefix or $PREFIX
// when set, otherwise the platform default.
func DefaultPrefix() string {
	for _, env := range []string{"npm_config_prefix", "NPM_CONFIG_PREFIX", "PREFIX"} {
		if p := os.Getenv(env); p != "" {
			return p
		}
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "npm")
		}
	}
	return "/usr/local"
}

// colorDefault enables colour when stdout is a terminal and NO_COLOR is unset.
func colorDefault() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// configDir returns the config directory using XDG standard (~/.config/outdated/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
