package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/outdated/internal/config"
	"github.com/matzehuels/outdated/pkg/errors"
	"github.com/matzehuels/outdated/pkg/installed"
	"github.com/matzehuels/outdated/pkg/integrations/npm"
	"github.com/matzehuels/outdated/pkg/outdated"
	"github.com/matzehuels/outdated/pkg/render"
)

// checkFlags are bound to config keys of the same name and only apply to the
// root command.
var checkFlags = []string{
	"global", "prefix", "depth", "long", "color", "format", "json", "parseable",
	"concurrency", "locale", "refresh",
}

// sharedFlags are inherited by subcommands.
var sharedFlags = []string{"registry", "token", "cache-dir"}

func (c *CLI) registerFlags(root *cobra.Command) {
	f := root.Flags()
	f.BoolP("global", "g", false, "check globally installed packages")
	f.String("prefix", config.DefaultPrefix(), "npm global prefix (with --global)")
	f.String("depth", config.DepthInfinity, `max depth for checking dependency tree ("infinity" checks direct dependencies only)`)
	f.BoolP("long", "l", false, "show dependency type and homepage")
	f.Bool("color", c.v.GetBool("color"), "colorize table output")
	f.String("format", string(render.FormatTable), "output format (table, parseable, json)")
	f.Bool("json", false, "shortcut for --format json")
	f.BoolP("parseable", "p", false, "shortcut for --format parseable")
	f.Int("concurrency", outdated.DefaultConcurrency, "max registry requests in flight")
	f.String("locale", outdated.DefaultLocale, "BCP 47 locale used to sort package names")
	f.Bool("refresh", false, "bypass cached registry responses")

	pf := root.PersistentFlags()
	pf.String("registry", npm.DefaultRegistry, "npm registry URL")
	pf.String("token", "", "registry auth token")
	pf.String("cache-dir", "", "cache directory (default: XDG cache dir)")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the response cache")
	pf.StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/outdated/config.yaml)")

	_ = root.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		formats := make([]string, len(render.Formats))
		for i, format := range render.Formats {
			formats[i] = string(format)
		}
		return formats, cobra.ShellCompDirectiveNoFileComp
	})
}

func (c *CLI) bindFlags(root *cobra.Command) error {
	if err := config.BindFlags(c.v, root.Flags(), checkFlags...); err != nil {
		return err
	}
	return config.BindFlags(c.v, root.PersistentFlags(), sharedFlags...)
}

// runCheck walks the installed tree, renders the report and returns
// ErrOutdated when anything was reported.
func (c *CLI) runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := c.cfg

	names, err := packageArgs(args)
	if err != nil {
		return err
	}
	walkOpts, err := cfg.WalkOptions(names, logger.Debugf)
	if err != nil {
		return err
	}
	renderOpts, err := cfg.RenderOptions()
	if err != nil {
		return err
	}

	if err := c.StartTracing(ctx); err != nil {
		logger.Warn("tracing disabled", "err", err)
	}

	backend := c.newCache(ctx, cfg, c.noCache)
	defer backend.Close()

	client := npm.NewClient(backend, cfg.Cache.TTL, npm.WithRegistry(cfg.Registry), npm.WithToken(cfg.Token))
	root, err := c.loadRoot(cfg, logger.Debugf)
	if err != nil {
		return err
	}
	logger.Debug("loaded tree", "root", root.Label(), "path", root.Path, "registry", client.Registry())

	prog := newProgress(logger)
	spin := newSpinner(ctx, os.Stderr, root.Label())
	if stderrIsTerminal() {
		spin.Start()
	}
	reg := spin.track(outdated.NewNpmRegistry(client, cfg.Refresh))
	findings, err := outdated.NewWalker(reg, walkOpts).Walk(ctx, root)
	spin.Stop()
	if err != nil {
		return err
	}

	rs := outdated.Build(findings, cfg.Locale)
	prog.done(fmt.Sprintf("Checked %s: %d lookups, %d outdated", root.Label(), spin.Checked(), rs.Len()))

	if render.ShouldRender(rs, renderOpts) {
		if err := render.Render(c.Out, rs, renderOpts); err != nil {
			return err
		}
	}
	if rs.Outdated() {
		return ErrOutdated
	}
	return nil
}

// loadRoot reads the local project in the working directory, or the global
// prefix in global mode.
func (c *CLI) loadRoot(cfg *config.Config, logf func(string, ...any)) (*installed.Node, error) {
	loader := installed.NewLoader(c.Fs, logf)
	if cfg.Global {
		return loader.LoadGlobal(cfg.Prefix)
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolving working directory")
	}
	return loader.Load(dir)
}

// packageArgs validates explicit package arguments. A trailing "@range" is
// dropped since the declared range always wins.
func packageArgs(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(args))
	seen := make(map[string]bool, len(args))
	for _, arg := range args {
		name, _ := errors.SplitPackageSpec(strings.TrimSpace(arg))
		if err := errors.ValidateNpmPackageName(name); err != nil {
			return nil, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
