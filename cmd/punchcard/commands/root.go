package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/dyluth/punchcard/internal/clock"
	"github.com/dyluth/punchcard/internal/config"
	"github.com/dyluth/punchcard/internal/panel"
	"github.com/dyluth/punchcard/internal/printer"
	"github.com/dyluth/punchcard/internal/quote"
	"github.com/dyluth/punchcard/internal/record"
	"github.com/dyluth/punchcard/pkg/relay"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string

	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "punchcard",
	Short: "Punchcard - daily attendance panels for chat",
	Long: `Punchcard keeps a per-user daily attendance record behind a single chat
message with In, Lunch, Resume, Out and Reset buttons.

Run it against Discord directly (punchcard serve) or behind a Redis relay
(punchcard relay) that any gateway can drive, and use start, tap, show and
watch to operate a relay from the command line.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute runs the root command with cobra's own error printing silenced.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to punchcard.yml")
}

// loadConfig reads the config file (defaults if absent) and applies the
// environment overrides.
func loadConfig() (*config.PunchcardConfig, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, printer.Error(
			"invalid configuration",
			err.Error(),
			[]string{fmt.Sprintf("Fix %s or remove it to use the defaults", configPath)},
		)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, printer.Error(
			"invalid environment override",
			err.Error(),
			[]string{fmt.Sprintf("Check %s and %s", config.EnvTimezone, config.EnvInstance)},
		)
	}
	return cfg, nil
}

// newController wires the clock, record store and quote pools from cfg.
func newController(cfg *config.PunchcardConfig) (*panel.Controller, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	quotes, err := quote.New(cfg.QuotePools(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote pools: %w", err)
	}
	store := record.NewStore(clock.Real(loc))
	return panel.NewController(store, quotes), nil
}

// connectRelay opens and pings the relay Redis for cfg's instance.
func connectRelay(ctx context.Context, cfg *config.PunchcardConfig) (*relay.Client, error) {
	client, err := relay.NewClientFromURL(cfg.Redis.URL, cfg.Instance)
	if err != nil {
		return nil, printer.Error(
			"invalid Redis URL",
			err.Error(),
			[]string{fmt.Sprintf("Set redis.url in %s or %s", configPath, config.EnvRedisURL)},
		)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, printer.ErrorWithContext(
			"Redis connection failed",
			fmt.Sprintf("Could not connect to Redis at %s", cfg.Redis.URL),
			map[string]string{"Instance": cfg.Instance, "Error": err.Error()},
			[]string{
				"Start Redis:\n  docker run -p 6379:6379 redis:7",
				fmt.Sprintf("Point punchcard at your Redis:\n  export %s=redis://host:6379", config.EnvRedisURL),
			},
		)
	}
	return client, nil
}
