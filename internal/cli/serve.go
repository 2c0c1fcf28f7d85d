package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tessera/internal/server"
)

// serveCommand creates the serve command. Settings come from TESSERA_*
// environment variables; flags override them.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, redisAddr, cacheDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering API",
		Long: `Run the HTTP rendering API.

Configuration is read from the environment (TESSERA_ADDR, TESSERA_REDIS_ADDR,
TESSERA_REDIS_PASSWORD, TESSERA_REDIS_DB, TESSERA_KEY_PREFIX,
TESSERA_CACHE_DIR, TESSERA_MAX_BODY_BYTES, TESSERA_MAX_CELLS,
TESSERA_REQUEST_TIMEOUT). Artifacts are stored in Redis when an address is
configured and in a local directory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("redis") {
				cfg.RedisAddr = redisAddr
			}
			if cmd.Flags().Changed("cache-dir") {
				cfg.CacheDir = cacheDir
			}

			ctx := cmd.Context()
			store, backend, err := server.OpenCache(ctx, *cfg)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			printSuccess("Serving tessera API")
			printKeyValue("Address", StyleLink.Render("http://"+displayAddr(cfg.Addr)))
			printKeyValue("Cache", backend)

			return server.New(*cfg, store, loggerFromContext(ctx)).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the artifact store")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "artifact directory when Redis is not used")

	return cmd
}

// displayAddr turns a bare ":port" into a clickable localhost address.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
