package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/outdated/internal/config"
	"github.com/matzehuels/outdated/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the registry response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached registry responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend := c.newCache(cmd.Context(), c.cfg, false)
			defer backend.Close()

			clearer, ok := backend.(cache.Clearer)
			if _, null := backend.(*cache.NullCache); null || !ok {
				printStatus(cmd.OutOrStdout(), statusInfo, "Cache is disabled")
				return nil
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printStatus(cmd.OutOrStdout(), statusInfo, "Cache is empty")
				return nil
			}

			printStatus(cmd.OutOrStdout(), statusOK, "Cleared %d cached entries", count)
			if fc, ok := backend.(*cache.FileCache); ok {
				printStatus(cmd.OutOrStdout(), statusDetail, "Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Cache.Backend != config.CacheFile && c.cfg.Cache.Backend != "" {
				printStatus(cmd.ErrOrStderr(), statusWarn, "cache backend is %s", c.cfg.Cache.Backend)
			}
			dir, err := cacheDir(c.cfg)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
