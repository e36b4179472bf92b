package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dyluth/punchcard/internal/config"
	"github.com/dyluth/punchcard/internal/discord"
	"github.com/dyluth/punchcard/internal/health"
	"github.com/dyluth/punchcard/internal/printer"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Discord bot",
	Long: `Connect to Discord and serve attendance panels.

Users open a panel with /in or the prefix command (default !in) and operate
it with its buttons. Records live in memory and are lost on restart.

Requires DISCORD_TOKEN.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Discord.Token == "" {
		return printer.Error(
			"missing Discord token",
			fmt.Sprintf("%s is not set.", config.EnvDiscordToken),
			[]string{fmt.Sprintf("export %s=<bot token>", config.EnvDiscordToken)},
		)
	}

	ctrl, err := newController(cfg)
	if err != nil {
		return err
	}

	bot, err := discord.New(cfg.Discord.Token, ctrl, discord.Options{
		Prefix:  cfg.Discord.Prefix,
		GuildID: cfg.Discord.GuildID,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.Health.Disabled {
		hs := health.NewServer(cfg.Health.Addr, "discord", bot, ctrl.Store())
		if err := hs.Start(); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
		defer hs.Shutdown(context.Background())
		log.Printf("[Health] Listening on %s", hs.Addr())
	}

	log.Printf("[Discord] Starting (timezone %s, prefix %q)", cfg.Timezone, cfg.Discord.Prefix)
	return bot.Run(ctx)
}
