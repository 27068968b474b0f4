// Command stormctl is a terminal client for the weather/storm backend: it
// lists storms, checks map images, dumps raw JSON, reads city rainfall and
// draws the rain grid and the home screen particle field.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-viewer/internal/adapter/backend"
	"github.com/couchcryptid/storm-viewer/internal/config"
	"github.com/couchcryptid/storm-viewer/internal/observability"
)

// app carries what every subcommand needs; it is filled in by the root
// command's PersistentPreRunE.
type app struct {
	backendURL string
	logLevel   string
	timeout    time.Duration

	logger *slog.Logger
	client *backend.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "stormctl",
		Short: "Storm viewer terminal client",
		Long: `stormctl talks to the weather/storm backend directly. It shows the storm
list of the latest reading or an archived day, the map images behind each
storm, city rainfall and the realtime rain grid.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.backendURL, "backend", sharedcfg.EnvOrDefault("BACKEND_URL", config.DefaultBackendURL), "backend base URL")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", sharedcfg.EnvOrDefault("LOG_LEVEL", "warn"), "log level (debug, info, warn, error)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "per-request timeout")

	root.AddCommand(
		newStormsCmd(a),
		newImagesCmd(a),
		newInspectCmd(a),
		newCitiesCmd(),
		newRainCmd(a),
		newGridCmd(a),
		newSplashCmd(),
		newEventsCmd(a),
	)
	return root
}

func (a *app) init(stderr io.Writer) error {
	if a.backendURL == "" {
		return fmt.Errorf("--backend must not be empty")
	}
	a.logger = observability.NewPrettyLogger(stderr, a.logLevel)
	a.client = backend.NewClient(a.backendURL, a.logger, backend.WithTimeout(a.timeout))
	return nil
}

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
