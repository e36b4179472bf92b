package relay

import (
	"fmt"

	"github.com/google/uuid"
)

// ButtonEvent is a button press published by a gateway.
type ButtonEvent struct {
	ID          string `json:"id"`         // UUID, echoed as EventID on resulting effects
	ChannelID   string `json:"channel_id"` // Channel holding the panel
	MessageID   string `json:"message_id"` // Panel message
	Button      string `json:"button"`     // in, lunch, resume, out, reset
	ActorID     string `json:"actor_id"`   // User who pressed
	ActorName   string `json:"actor_name"`
	OwnerID     string `json:"owner_id"` // Owner encoded in the button
	CreatedAtMs int64  `json:"created_at_ms"`
}

// StartEvent asks for a fresh panel for UserID in ChannelID.
type StartEvent struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	ChannelID   string `json:"channel_id"`
	CreatedAtMs int64  `json:"created_at_ms"`
}

// EffectType names what a gateway should do with an Effect.
type EffectType string

const (
	// EffectEditMessage replaces the view of MessageID.
	EffectEditMessage EffectType = "edit_message"

	// EffectSendMessage posts View as a new message MessageID in ChannelID.
	EffectSendMessage EffectType = "send_message"

	// EffectPrivateNotice shows Text to UserID only.
	EffectPrivateNotice EffectType = "private_notice"

	// EffectEventCompleted marks the end of processing for EventID.
	// Error is set when the event failed.
	EffectEventCompleted EffectType = "event_completed"
)

// Effect is one outbound action produced while handling an event.
type Effect struct {
	ID          string       `json:"id"`
	EventID     string       `json:"event_id"`
	Type        EffectType   `json:"type"`
	ChannelID   string       `json:"channel_id,omitempty"`
	MessageID   string       `json:"message_id,omitempty"`
	UserID      string       `json:"user_id,omitempty"`
	Text        string       `json:"text,omitempty"`
	View        *MessageView `json:"view,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAtMs int64        `json:"created_at_ms"`
}

// MessageView is the platform-neutral content of a panel or archive message.
type MessageView struct {
	Title       string       `json:"title"`
	Author      string       `json:"author,omitempty"`
	Description string       `json:"description"`
	Footer      string       `json:"footer,omitempty"`
	Color       int          `json:"color"`
	Buttons     []ButtonView `json:"buttons,omitempty"`
}

// ButtonView is one button of a MessageView.
type ButtonView struct {
	Button  string `json:"button"`
	Label   string `json:"label"`
	Style   string `json:"style"`
	Enabled bool   `json:"enabled"`
}

// Message is the stored state of a relay-managed message.
type Message struct {
	ID          string      `json:"id"` // UUID assigned by the relay
	ChannelID   string      `json:"channel_id"`
	OwnerID     string      `json:"owner_id"`
	View        MessageView `json:"view"`
	UpdatedAtMs int64       `json:"updated_at_ms"`
}

// Validate checks the event has everything the controller needs.
func (e *ButtonEvent) Validate() error {
	if !isValidUUID(e.ID) {
		return fmt.Errorf("invalid event ID: %s", e.ID)
	}
	if e.ChannelID == "" || e.MessageID == "" {
		return fmt.Errorf("button event requires channel_id and message_id")
	}
	if e.Button == "" {
		return fmt.Errorf("button event requires button")
	}
	if e.ActorID == "" || e.OwnerID == "" {
		return fmt.Errorf("button event requires actor_id and owner_id")
	}
	return nil
}

// Validate checks the start event.
func (e *StartEvent) Validate() error {
	if !isValidUUID(e.ID) {
		return fmt.Errorf("invalid event ID: %s", e.ID)
	}
	if e.UserID == "" {
		return fmt.Errorf("start event requires user_id")
	}
	if e.ChannelID == "" {
		return fmt.Errorf("start event requires channel_id")
	}
	return nil
}

// Validate checks the effect type is known.
func (t EffectType) Validate() error {
	switch t {
	case EffectEditMessage, EffectSendMessage, EffectPrivateNotice, EffectEventCompleted:
		return nil
	default:
		return fmt.Errorf("invalid effect type: %s", t)
	}
}

// Validate checks the effect carries the fields its type needs.
func (e *Effect) Validate() error {
	if !isValidUUID(e.ID) {
		return fmt.Errorf("invalid effect ID: %s", e.ID)
	}
	if err := e.Type.Validate(); err != nil {
		return err
	}
	switch e.Type {
	case EffectEditMessage, EffectSendMessage:
		if e.MessageID == "" || e.View == nil {
			return fmt.Errorf("%s effect requires message_id and view", e.Type)
		}
	case EffectPrivateNotice:
		if e.UserID == "" {
			return fmt.Errorf("private_notice effect requires user_id")
		}
	case EffectEventCompleted:
		if e.EventID == "" {
			return fmt.Errorf("event_completed effect requires event_id")
		}
	}
	return nil
}

// Validate checks the stored message.
func (m *Message) Validate() error {
	if !isValidUUID(m.ID) {
		return fmt.Errorf("invalid message ID: %s", m.ID)
	}
	if m.ChannelID == "" {
		return fmt.Errorf("message requires channel_id")
	}
	return nil
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
