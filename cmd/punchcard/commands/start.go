package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dyluth/punchcard/internal/printer"
	"github.com/dyluth/punchcard/internal/watch"
	"github.com/dyluth/punchcard/pkg/relay"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	startUser    string
	startName    string
	startChannel string
	startTimeout time.Duration
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Open a fresh panel through the relay",
	Long: `Publish a start command to a running relay and print the new panel.

Equivalent to a user typing !in. Today's record for the user is reset.

Examples:
  punchcard start --user 1234 --name Alice --channel general`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVarP(&startUser, "user", "u", "", "User ID opening the panel (required)")
	startCmd.Flags().StringVar(&startName, "name", "", "Display name shown on the panel")
	startCmd.Flags().StringVar(&startChannel, "channel", "cli", "Channel to post the panel in")
	startCmd.Flags().DurationVar(&startTimeout, "timeout", 5*time.Second, "How long to wait for the relay")
	startCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
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

	name := startName
	if name == "" {
		name = startUser
	}
	ev := &relay.StartEvent{
		ID:          uuid.New().String(),
		UserID:      startUser,
		DisplayName: name,
		ChannelID:   startChannel,
		CreatedAtMs: time.Now().UnixMilli(),
	}

	effects, err := publishAndWait(ctx, client, ev.ID, func() error {
		return client.PublishStartEvent(ctx, ev)
	}, startTimeout)
	if err != nil {
		return err
	}
	return reportEffects(effects)
}

// publishAndWait subscribes to effects, runs publish, and collects the
// effects of eventID.
func publishAndWait(ctx context.Context, client *relay.Client, eventID string, publish func() error, timeout time.Duration) ([]*relay.Effect, error) {
	sub, err := client.SubscribeEffects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to effects: %w", err)
	}
	defer sub.Close()

	if err := publish(); err != nil {
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}

	effects, err := watch.WaitForCompletion(ctx, sub, eventID, timeout)
	if err != nil {
		return nil, printer.ErrorWithContext(
			"no answer from relay",
			err.Error(),
			map[string]string{"Instance": client.InstanceName()},
			[]string{"Start a relay for this instance:\n  punchcard relay"},
		)
	}
	return effects, nil
}

// reportEffects prints each effect of one event. A failed event is returned
// as a printer error.
func reportEffects(effects []*relay.Effect) error {
	for _, eff := range effects {
		switch eff.Type {
		case relay.EffectSendMessage, relay.EffectEditMessage:
			printer.Step("%s %s/%s\n", eff.Type, eff.ChannelID, eff.MessageID)
			if eff.View != nil {
				printer.Panel(os.Stdout, *eff.View)
			}
			fmt.Println()
		case relay.EffectPrivateNotice:
			printer.Warning("%s\n", eff.Text)
		case relay.EffectEventCompleted:
			if eff.Error != "" {
				return printer.Error("event failed", eff.Error, nil)
			}
			printer.Success("Done\n")
		}
	}
	return nil
}
