package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/dyluth/punchcard/internal/panel"
	"github.com/dyluth/punchcard/pkg/relay"
	"github.com/google/uuid"
)

// Adapter performs panel effects by writing message state to Redis and
// publishing effects for a downstream gateway. One Adapter serves one event.
type Adapter struct {
	client  *relay.Client
	eventID string
	ownerID string
}

var _ panel.Adapter = (*Adapter)(nil)

// NewAdapter returns an adapter whose effects are correlated with eventID.
func NewAdapter(client *relay.Client, eventID, ownerID string) *Adapter {
	return &Adapter{client: client, eventID: eventID, ownerID: ownerID}
}

// EditMessage replaces the stored view of ref and publishes an edit effect.
// Messages the relay has never seen are created, so panels adopted after a
// restart keep working.
func (a *Adapter) EditMessage(ctx context.Context, ref panel.MessageRef, v panel.View) error {
	view := toMessageView(v)
	msg := &relay.Message{
		ID:          ref.MessageID,
		ChannelID:   ref.ChannelID,
		OwnerID:     a.ownerID,
		View:        view,
		UpdatedAtMs: time.Now().UnixMilli(),
	}
	if err := a.client.PutMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to store message %s: %w", ref, err)
	}

	return a.publish(ctx, &relay.Effect{
		Type:      relay.EffectEditMessage,
		ChannelID: ref.ChannelID,
		MessageID: ref.MessageID,
		View:      &view,
	})
}

// SendMessage assigns a new message id, stores the view and publishes a
// send effect.
func (a *Adapter) SendMessage(ctx context.Context, channelID string, v panel.View) (panel.MessageRef, error) {
	view := toMessageView(v)
	msg := &relay.Message{
		ID:          uuid.New().String(),
		ChannelID:   channelID,
		OwnerID:     a.ownerID,
		View:        view,
		UpdatedAtMs: time.Now().UnixMilli(),
	}
	if err := a.client.PutMessage(ctx, msg); err != nil {
		return panel.MessageRef{}, fmt.Errorf("failed to store message: %w", err)
	}

	if err := a.publish(ctx, &relay.Effect{
		Type:      relay.EffectSendMessage,
		ChannelID: channelID,
		MessageID: msg.ID,
		View:      &view,
	}); err != nil {
		return panel.MessageRef{}, err
	}
	return panel.MessageRef{ChannelID: channelID, MessageID: msg.ID}, nil
}

// SendPrivateNotice publishes a notice addressed to userID.
func (a *Adapter) SendPrivateNotice(ctx context.Context, userID, text string) error {
	return a.publish(ctx, &relay.Effect{
		Type:   relay.EffectPrivateNotice,
		UserID: userID,
		Text:   text,
	})
}

// Complete publishes the end-of-event marker.
func (a *Adapter) Complete(ctx context.Context, eventErr error) error {
	eff := &relay.Effect{Type: relay.EffectEventCompleted}
	if eventErr != nil {
		eff.Error = eventErr.Error()
	}
	return a.publish(ctx, eff)
}

func (a *Adapter) publish(ctx context.Context, eff *relay.Effect) error {
	eff.ID = uuid.New().String()
	eff.EventID = a.eventID
	eff.CreatedAtMs = time.Now().UnixMilli()
	if err := a.client.PublishEffect(ctx, eff); err != nil {
		return fmt.Errorf("failed to publish %s effect: %w", eff.Type, err)
	}
	return nil
}

func toMessageView(v panel.View) relay.MessageView {
	mv := relay.MessageView{
		Title:       v.Summary.Title,
		Author:      v.Summary.Author,
		Description: v.Summary.Description,
		Footer:      v.Summary.Footer,
		Color:       v.Summary.Color,
	}
	for _, b := range v.Buttons {
		mv.Buttons = append(mv.Buttons, relay.ButtonView{
			Button:  string(b.Button),
			Label:   b.Label,
			Style:   string(b.Style),
			Enabled: b.Enabled,
		})
	}
	return mv
}
