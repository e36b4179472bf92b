package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dyluth/punchcard/internal/health"
	"github.com/dyluth/punchcard/internal/relay"
	"github.com/spf13/cobra"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Serve panels over a Redis relay",
	Long: `Run the panel controller behind Redis Pub/Sub.

A gateway publishes button presses and start commands to
punchcard:{instance}:button_events and punchcard:{instance}:start_events,
and applies the effects published to punchcard:{instance}:effects.
The current view of every panel is kept in punchcard:{instance}:message:{id}.

Examples:
  # Relay for the default instance on localhost
  punchcard relay

  # Relay for another instance
  PUNCHCARD_INSTANCE=office REDIS_URL=redis://cache:6379 punchcard relay`,
	RunE: runRelay,
}

func init() {
	rootCmd.AddCommand(relayCmd)
}

func runRelay(cmd *cobra.Command, args []string) error {
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

	ctrl, err := newController(cfg)
	if err != nil {
		return err
	}

	if !cfg.Health.Disabled {
		hs := health.NewServer(cfg.Health.Addr, "redis", client, ctrl.Store())
		if err := hs.Start(); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
		defer hs.Shutdown(context.Background())
		log.Printf("[Health] Listening on %s", hs.Addr())
	}

	return relay.NewEngine(client, ctrl).Run(ctx)
}
