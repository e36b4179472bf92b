package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/dyluth/punchcard/internal/panel"
	"github.com/dyluth/punchcard/internal/printer"
	"github.com/dyluth/punchcard/pkg/relay"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	tapUser    string
	tapName    string
	tapOwner   string
	tapTimeout time.Duration
)

var tapCmd = &cobra.Command{
	Use:   "tap <message-id> <in|lunch|resume|out|reset>",
	Short: "Press a panel button through the relay",
	Long: `Publish a button press for a relay-managed panel and print the result.

The panel's channel and owner are read from the relay. Pass --owner to
press a panel the relay has no record of.

Examples:
  punchcard tap 6f1c... lunch --user 1234
  punchcard tap 6f1c... reset --user 1234`,
	Args: cobra.ExactArgs(2),
	RunE: runTap,
}

func init() {
	tapCmd.Flags().StringVarP(&tapUser, "user", "u", "", "User ID pressing the button (required)")
	tapCmd.Flags().StringVar(&tapName, "name", "", "Display name of the user")
	tapCmd.Flags().StringVar(&tapOwner, "owner", "", "Panel owner (read from the relay if omitted)")
	tapCmd.Flags().DurationVar(&tapTimeout, "timeout", 5*time.Second, "How long to wait for the relay")
	tapCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(tapCmd)
}

func runTap(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	messageID := args[0]

	button := panel.Button(args[1])
	if err := button.Validate(); err != nil {
		return printer.Error(
			"unknown button",
			err.Error(),
			[]string{"Valid buttons: in, lunch, resume, out, reset"},
		)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := connectRelay(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	msg, err := client.GetMessage(ctx, messageID)
	if err != nil {
		if relay.IsNotFound(err) {
			return printer.Error(
				"panel not found",
				fmt.Sprintf("No message %s on instance '%s'.", messageID, cfg.Instance),
				[]string{"Open a panel first:\n  punchcard start --user <id>"},
			)
		}
		return fmt.Errorf("failed to read panel: %w", err)
	}

	owner := tapOwner
	if owner == "" {
		owner = msg.OwnerID
	}
	name := tapName
	if name == "" {
		name = tapUser
	}

	ev := &relay.ButtonEvent{
		ID:          uuid.New().String(),
		ChannelID:   msg.ChannelID,
		MessageID:   messageID,
		Button:      string(button),
		ActorID:     tapUser,
		ActorName:   name,
		OwnerID:     owner,
		CreatedAtMs: time.Now().UnixMilli(),
	}

	effects, err := publishAndWait(ctx, client, ev.ID, func() error {
		return client.PublishButtonEvent(ctx, ev)
	}, tapTimeout)
	if err != nil {
		return err
	}
	return reportEffects(effects)
}
