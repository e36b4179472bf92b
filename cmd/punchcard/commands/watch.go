package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dyluth/punchcard/internal/filter"
	"github.com/dyluth/punchcard/internal/printer"
	"github.com/dyluth/punchcard/internal/watch"
	"github.com/spf13/cobra"
)

var (
	watchOutputFormat string
	watchTypeGlob     string
	watchChannel      string
	watchUser         string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream relay effects",
	Long: `Stream every effect the relay publishes: panels sent and edited, private
notices and event completions.

Output Formats:
  default - Human-readable output with timestamps and emojis
  json    - Line-delimited JSON for programmatic processing

Examples:
  punchcard watch
  punchcard watch --type '*_message' --channel general
  punchcard watch --type private_notice --user 1234
  punchcard watch --output=json > effects.jsonl`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutputFormat, "output", "o", "default", "Output format (default or json)")
	watchCmd.Flags().StringVar(&watchTypeGlob, "type", "", "Only effects whose type matches this glob")
	watchCmd.Flags().StringVar(&watchChannel, "channel", "", "Only effects in this channel")
	watchCmd.Flags().StringVar(&watchUser, "user", "", "Only private notices to this user")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	outputFormat, err := watch.ParseOutputFormat(watchOutputFormat)
	if err != nil {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", watchOutputFormat),
			[]string{"Valid formats: default, json"},
		)
	}

	criteria := &filter.Criteria{TypeGlob: watchTypeGlob, ChannelID: watchChannel, UserID: watchUser}
	if err := criteria.Validate(); err != nil {
		return printer.Error(
			"invalid --type pattern",
			err.Error(),
			[]string{"Use a glob such as '*_message' or 'event_completed'"},
		)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := connectRelay(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if outputFormat == watch.OutputFormatDefault {
		printer.Step("Watching instance '%s'\n", cfg.Instance)
	}
	return watch.StreamEffects(ctx, client, criteria, outputFormat, os.Stdout)
}
