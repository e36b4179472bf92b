package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/dyluth/punchcard/internal/panel"
)

// Session is the subset of *discordgo.Session the adapters use.
type Session interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// channelAdapter performs panel effects through plain channel messages.
// Private notices go out as direct messages.
type channelAdapter struct {
	session Session
	ownerID string
}

var _ panel.Adapter = (*channelAdapter)(nil)

func (a *channelAdapter) EditMessage(ctx context.Context, ref panel.MessageRef, v panel.View) error {
	_, err := a.session.ChannelMessageEditComplex(messageEdit(ref, a.ownerID, v), discordgo.WithContext(ctx))
	return classify("edit message", err)
}

func (a *channelAdapter) SendMessage(ctx context.Context, channelID string, v panel.View) (panel.MessageRef, error) {
	msg, err := a.session.ChannelMessageSendComplex(channelID, messageSend(a.ownerID, v), discordgo.WithContext(ctx))
	if err != nil {
		return panel.MessageRef{}, classify("send message", err)
	}
	return panel.MessageRef{ChannelID: msg.ChannelID, MessageID: msg.ID}, nil
}

func (a *channelAdapter) SendPrivateNotice(ctx context.Context, userID, text string) error {
	ch, err := a.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return classify("open dm channel", err)
	}
	if _, err := a.session.ChannelMessageSend(ch.ID, text, discordgo.WithContext(ctx)); err != nil {
		return classify("send dm", err)
	}
	return nil
}

// interactionAdapter answers private notices as ephemeral followups to the
// interaction that triggered the event. The interaction must already have
// been acknowledged.
type interactionAdapter struct {
	channelAdapter
	interaction *discordgo.Interaction
}

var _ panel.Adapter = (*interactionAdapter)(nil)

func (a *interactionAdapter) SendPrivateNotice(ctx context.Context, userID, text string) error {
	if a.interaction == nil {
		return a.channelAdapter.SendPrivateNotice(ctx, userID, text)
	}
	if id := interactionUserID(a.interaction); id != userID {
		return fmt.Errorf("notice for %s cannot ride on interaction from %s", userID, id)
	}
	_, err := a.session.FollowupMessageCreate(a.interaction, false, &discordgo.WebhookParams{
		Content: text,
		Flags:   discordgo.MessageFlagsEphemeral,
	}, discordgo.WithContext(ctx))
	return classify("send followup", err)
}

func interactionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func interactionUserID(i *discordgo.Interaction) string {
	if u := interactionUser(i); u != nil {
		return u.ID
	}
	return ""
}

// displayName prefers the guild nickname, then the global display name,
// then the username.
func displayName(m *discordgo.Member, u *discordgo.User) string {
	if m != nil && m.Nick != "" {
		return m.Nick
	}
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
