// Command assets publishes a dashboard build into the asset store served by
// the edge and dashboard binaries.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mousey-app/dashboard/shared/logger"
	"github.com/mousey-app/dashboard/shared/storage"
)

var (
	storeDriver string
	storePath   string
	logLevel    string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "assets",
		Short: "Manage the dashboard asset store",
		Long: `Manage the key-value store the edge server reads the built dashboard from.

Keys are slash separated paths relative to the build root, e.g.
static/js/archive.3f2a9c1e.js.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Initialize(logLevel, false)
		},
	}

	root.PersistentFlags().StringVar(&storeDriver, "driver", envOr("ASSETS_DRIVER", "pebble"), "asset store driver (fs or pebble)")
	root.PersistentFlags().StringVar(&storePath, "path", envOr("ASSETS_PATH", "data/assets"), "asset store location")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")

	root.AddCommand(newPublishCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newRemoveCmd())
	return root
}

func openStore() (*storage.Storage, error) {
	return storage.Open(storeDriver, storePath)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
