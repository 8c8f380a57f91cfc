package cli

import (
	"github.com/spf13/cobra"

	"github.com/bookwire/bookwire/pkg/cache"
	"github.com/bookwire/bookwire/pkg/codec"
)

// newCacheCmd creates the cache management command.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the payload cache",
	}

	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

// newCacheClearCmd creates the "cache clear" subcommand: drop every cached
// payload so the next request re-encodes from storage.
func newCacheClearCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached payloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cfg.Cache.Redis == "" {
				logger.Info("no payload cache configured, nothing to clear")
				return nil
			}

			c, err := cache.NewRedisCache(ctx, cfg.Cache.Redis)
			if err != nil {
				return err
			}
			defer c.Close()

			for _, name := range codec.Names() {
				if err := c.Delete(ctx, cache.PayloadKey(name)); err != nil {
					return err
				}
			}
			logger.Info("payload cache cleared", "formats", len(codec.Names()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")

	return cmd
}
