// Package discord connects the panel controller to a Discord gateway session.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dyluth/punchcard/internal/panel"
)

// CommandName is the slash and prefix command that opens a panel.
const CommandName = "in"

const panelReadyNotice = "Your panel is ready ✨"

// Bot routes Discord events to a panel.Controller.
type Bot struct {
	session *discordgo.Session
	ctrl    *panel.Controller
	prefix  string
	guildID string
	ctx     context.Context
}

// Options configure a Bot.
type Options struct {
	Prefix string
	// GuildID scopes the slash command registration. Empty registers it globally.
	GuildID string
}

// New creates a bot for the given token. The gateway is not opened until Run.
func New(token string, ctrl *panel.Controller, opts Options) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("discord token is required")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
	return &Bot{
		session: session,
		ctrl:    ctrl,
		prefix:  opts.Prefix,
		guildID: opts.GuildID,
		ctx:     context.Background(),
	}, nil
}

// Run opens the gateway, registers the slash command and blocks until ctx
// is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.HandleInteraction(b.ctx, s, i.Interaction)
	})
	b.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.HandleMessage(b.ctx, s, m.Message)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	defer b.session.Close()

	if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.guildID, &discordgo.ApplicationCommand{
		Name:        CommandName,
		Description: "Open today's attendance panel",
	}); err != nil {
		log.Printf("[Discord] Failed to register /%s: %v", CommandName, err)
	}

	log.Printf("[Discord] Connected as %s", b.session.State.User.Username)
	logEvent("gateway_connected", map[string]interface{}{
		"user_id":  b.session.State.User.ID,
		"guild_id": b.guildID,
	})

	<-ctx.Done()
	log.Printf("[Discord] Shutting down")
	return nil
}

// Ping reports whether the gateway session has completed its handshake.
func (b *Bot) Ping(ctx context.Context) error {
	if !b.session.DataReady {
		return fmt.Errorf("discord gateway not ready")
	}
	return nil
}

// HandleInteraction dispatches component presses and the /in command.
func (b *Bot) HandleInteraction(ctx context.Context, s Session, i *discordgo.Interaction) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, s, i)
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == CommandName {
			b.handleSlashStart(ctx, s, i)
		}
	}
}

func (b *Bot) handleComponent(ctx context.Context, s Session, i *discordgo.Interaction) {
	button, ownerID, ok, err := ParseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}

	if ackErr := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}, discordgo.WithContext(ctx)); ackErr != nil {
		log.Printf("[Discord] Failed to acknowledge interaction %s: %v", i.ID, ackErr)
	}

	if err != nil {
		log.Printf("[Discord] Ignoring component %q: %v", i.MessageComponentData().CustomID, err)
		return
	}
	if i.Message == nil {
		log.Printf("[Discord] Component interaction %s has no message", i.ID)
		return
	}

	user := interactionUser(i)
	if user == nil {
		log.Printf("[Discord] Component interaction %s has no user", i.ID)
		return
	}

	ev := panel.ButtonEvent{
		Panel:     panel.MessageRef{ChannelID: i.ChannelID, MessageID: i.Message.ID},
		Button:    button,
		ActorID:   user.ID,
		ActorName: displayName(i.Member, user),
		OwnerID:   ownerID,
	}
	a := &interactionAdapter{channelAdapter: channelAdapter{session: s, ownerID: ownerID}, interaction: i}

	start := time.Now()
	if _, err := b.ctrl.HandleButton(ctx, ev, a); err != nil {
		if errors.Is(err, panel.ErrOwnershipViolation) {
			return
		}
		log.Printf("[Discord] Button %s on %s failed: %v", button, ev.Panel, err)
		return
	}
	logEvent("button_handled", map[string]interface{}{
		"panel":       ev.Panel.String(),
		"button":      string(button),
		"owner_id":    ownerID,
		"duration_ms": time.Since(start).Milliseconds(),
	})
}

func (b *Bot) handleSlashStart(ctx context.Context, s Session, i *discordgo.Interaction) {
	if err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}, discordgo.WithContext(ctx)); err != nil {
		log.Printf("[Discord] Failed to acknowledge /%s: %v", CommandName, err)
	}

	user := interactionUser(i)
	if user == nil {
		return
	}
	a := &interactionAdapter{channelAdapter: channelAdapter{session: s, ownerID: user.ID}, interaction: i}

	notice := panelReadyNotice
	if _, err := b.ctrl.Start(ctx, user.ID, displayName(i.Member, user), i.ChannelID, a); err != nil {
		log.Printf("[Discord] /%s for %s failed: %v", CommandName, user.ID, err)
		notice = startFailureNotice(err)
	}
	if err := a.SendPrivateNotice(ctx, user.ID, notice); err != nil {
		log.Printf("[Discord] Failed to answer /%s: %v", CommandName, err)
	}
}

// HandleMessage handles the prefix form of the start command.
func (b *Bot) HandleMessage(ctx context.Context, s Session, m *discordgo.Message) {
	if m.Author == nil || m.Author.Bot || b.prefix == "" {
		return
	}
	if strings.TrimSpace(m.Content) != b.prefix+CommandName {
		return
	}

	a := &channelAdapter{session: s, ownerID: m.Author.ID}
	if _, err := b.ctrl.Start(ctx, m.Author.ID, displayName(m.Member, m.Author), m.ChannelID, a); err != nil {
		log.Printf("[Discord] %s%s for %s failed: %v", b.prefix, CommandName, m.Author.ID, err)
		if nErr := a.SendPrivateNotice(ctx, m.Author.ID, startFailureNotice(err)); nErr != nil {
			log.Printf("[Discord] Failed to notify %s: %v", m.Author.ID, nErr)
		}
	}
}

func startFailureNotice(err error) string {
	var adapterErr *panel.AdapterError
	if errors.As(err, &adapterErr) {
		return adapterErr.Notice()
	}
	return "Could not open your panel. Please try again."
}

func logEvent(eventType string, data map[string]interface{}) {
	event := map[string]interface{}{
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"level":      "info",
		"component":  "discord",
		"event_type": eventType,
	}
	for k, v := range data {
		event[k] = v
	}
	out, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Discord] Failed to marshal log event: %v", err)
		return
	}
	log.Println(string(out))
}
