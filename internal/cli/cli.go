package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/outdated/internal/config"
	"github.com/matzehuels/outdated/pkg/buildinfo"
	"github.com/matzehuels/outdated/pkg/cache"
	"github.com/matzehuels/outdated/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "outdated"

	// redisPrefix namespaces every key written to a shared Redis server.
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// ErrOutdated is returned by the root command when the report is non-empty.
// main exits with status 1 without printing it.
var ErrOutdated = errors.New("outdated dependencies found")

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives reports; Fs is the filesystem installed trees are read from.
	Out io.Writer
	Fs  afero.Fs

	v          *viper.Viper
	configPath string
	noCache    bool
	runID      string
	cfg        *config.Config
	tracer     *observability.TracerProvider
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Fs:     afero.NewOsFs(),
		v:      config.New(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself runs the check.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "outdated [packages...]",
		Short: "Check the registry for outdated packages",
		Long: `Outdated checks the registry to see if any installed packages are out of date.

For each dependency it reports the installed version (current), the highest
version satisfying the declared range (wanted) and the version tagged latest.
The command exits with status 1 when anything is reported.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE:              c.runCheck,
	}

	root.SetVersionTemplate(buildinfo.Template())
	c.registerFlags(root)

	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if err := c.bindFlags(cmd.Root()); err != nil {
		return err
	}
	cfg, err := config.Load(c.v, c.configPath)
	if err != nil {
		return err
	}
	for _, w := range cfg.Validate() {
		c.Logger.Warn(w)
	}
	c.cfg = cfg

	if c.runID == "" {
		c.runID = uuid.NewString()[:8]
		c.Logger = c.Logger.With("run", c.runID)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// StartTracing installs the OTLP tracer when an endpoint is configured.
// It is a no-op before configuration is loaded.
func (c *CLI) StartTracing(ctx context.Context) error {
	if c.cfg == nil || c.tracer != nil {
		return nil
	}
	tp, err := observability.InitTracing(ctx, c.cfg.TracingOptions(buildinfo.Version))
	if err != nil {
		return err
	}
	c.tracer = tp
	return nil
}

// Shutdown flushes pending spans.
func (c *CLI) Shutdown(ctx context.Context) error {
	if c.tracer == nil {
		return nil
	}
	return c.tracer.Shutdown(ctx)
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the response cache selected by cfg. Backends that cannot be
// opened degrade to no caching with a warning.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	switch cfg.Cache.Backend {
	case config.CacheFile, "":
		dir, err := cacheDir(cfg)
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache()
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache()
		}
		return fc
	case config.CacheRedis:
		if cfg.Cache.RedisURL == "" {
			return cache.NewNullCache()
		}
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, redisPrefix)
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		return cache.NewNullCache()
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns cfg.Cache.Dir when set, else the XDG cache directory
// (~/.cache/outdated/).
func cacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir(appName)
}
