package cli

import (
	"github.com/spf13/cobra"

	"github.com/bookwire/bookwire/internal/server"
	"github.com/bookwire/bookwire/pkg/cache"
	"github.com/bookwire/bookwire/pkg/store"
)

// newServeCmd creates the "serve" command: open storage, seed it when
// empty, connect the payload cache, and run the HTTP server until the
// context is cancelled.
func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog server",
		Long:  "Serve the book catalog over HTTP in both wire formats: GET /catalog/snapshot and GET /catalog/document.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			ttl, err := cfg.cacheTTL()
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.Server.Database)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Seed(ctx); err != nil {
				return err
			}

			payloads := cache.NewNullCache()
			if cfg.Cache.Redis != "" {
				if rc, err := cache.NewRedisCache(ctx, cfg.Cache.Redis); err != nil {
					// The cache is an optimization; a dead Redis must not
					// keep the catalog from being served.
					logger.Warn("payload cache unavailable, serving uncached", "err", err)
				} else {
					payloads = rc
				}
			}
			defer payloads.Close()

			srv := server.New(st, payloads, ttl, logger)
			return srv.ListenAndServe(ctx, cfg.Server.Listen)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")

	return cmd
}
