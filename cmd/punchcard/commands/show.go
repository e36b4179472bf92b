package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dyluth/punchcard/internal/printer"
	"github.com/dyluth/punchcard/internal/watch"
	"github.com/dyluth/punchcard/pkg/relay"
	"github.com/spf13/cobra"
)

var showWait time.Duration

var showCmd = &cobra.Command{
	Use:   "show <message-id>",
	Short: "Print the current view of a relay-managed panel",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().DurationVar(&showWait, "wait", 0, "Wait up to this long for the message to appear")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := connectRelay(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	var msg *relay.Message
	if showWait > 0 {
		msg, err = watch.PollForMessage(ctx, client, args[0], showWait)
	} else {
		msg, err = client.GetMessage(ctx, args[0])
	}
	if err != nil {
		if relay.IsNotFound(err) {
			return printer.Error(
				"panel not found",
				fmt.Sprintf("No message %s on instance '%s'.", args[0], cfg.Instance),
				[]string{fmt.Sprintf("Wait for it:\n  punchcard show %s --wait 10s", args[0])},
			)
		}
		return fmt.Errorf("failed to read panel: %w", err)
	}

	printer.Info("%s/%s (owner %s, updated %s)\n\n", msg.ChannelID, msg.ID, msg.OwnerID,
		time.UnixMilli(msg.UpdatedAtMs).Format(time.RFC3339))
	printer.Panel(os.Stdout, msg.View)
	return nil
}
