package discord

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/dyluth/punchcard/internal/panel"
	"github.com/dyluth/punchcard/internal/render"
)

var buttonStyles = map[panel.Style]discordgo.ButtonStyle{
	panel.StyleSuccess:   discordgo.SuccessButton,
	panel.StyleSecondary: discordgo.SecondaryButton,
	panel.StylePrimary:   discordgo.PrimaryButton,
	panel.StyleDanger:    discordgo.DangerButton,
}

// embed converts a rendered summary into a Discord embed.
func embed(p render.Payload) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       p.Title,
		Description: p.Description,
		Color:       p.Color,
	}
	if p.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: p.Footer}
	}
	if p.Author != "" {
		e.Author = &discordgo.MessageEmbedAuthor{Name: p.Author}
	}
	return e
}

// components converts a panel button set into a single action row.
// Views without buttons produce no components.
func components(ownerID string, buttons []panel.ButtonState) []discordgo.MessageComponent {
	if len(buttons) == 0 {
		return []discordgo.MessageComponent{}
	}
	row := make([]discordgo.MessageComponent, 0, len(buttons))
	for _, b := range buttons {
		style, ok := buttonStyles[b.Style]
		if !ok {
			style = discordgo.SecondaryButton
		}
		row = append(row, discordgo.Button{
			CustomID: CustomID(b.Button, ownerID),
			Label:    b.Label,
			Style:    style,
			Disabled: !b.Enabled,
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: row}}
}

func messageSend(ownerID string, v panel.View) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed(v.Summary)},
		Components: components(ownerID, v.Buttons),
	}
}

func messageEdit(ref panel.MessageRef, ownerID string, v panel.View) *discordgo.MessageEdit {
	embeds := []*discordgo.MessageEmbed{embed(v.Summary)}
	comps := components(ownerID, v.Buttons)
	return &discordgo.MessageEdit{
		ID:         ref.MessageID,
		Channel:    ref.ChannelID,
		Embeds:     &embeds,
		Components: &comps,
	}
}

// classify wraps Discord permission failures with panel.ErrPermissionDenied
// so the controller can tell the user to check permissions.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			switch restErr.Message.Code {
			case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
				return fmt.Errorf("%s: %w: %s", op, panel.ErrPermissionDenied, restErr.Message.Message)
			}
		}
		if restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%s: %w: %v", op, panel.ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
