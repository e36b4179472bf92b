package panel

import (
	"fmt"

	"github.com/dyluth/punchcard/internal/quote"
	"github.com/dyluth/punchcard/internal/record"
	"github.com/dyluth/punchcard/internal/render"
)

// Button is one of the five panel buttons.
type Button string

const (
	ButtonIn     Button = "in"
	ButtonLunch  Button = "lunch"
	ButtonResume Button = "resume"
	ButtonOut    Button = "out"
	ButtonReset  Button = "reset"
)

// Buttons lists every button in panel order.
var Buttons = []Button{ButtonIn, ButtonLunch, ButtonResume, ButtonOut, ButtonReset}

// Validate checks if the Button is a valid enum value.
func (b Button) Validate() error {
	switch b {
	case ButtonIn, ButtonLunch, ButtonResume, ButtonOut, ButtonReset:
		return nil
	default:
		return fmt.Errorf("unknown button: %q", b)
	}
}

// Field returns the record field a button writes. Reset writes none.
func (b Button) Field() (record.Field, bool) {
	switch b {
	case ButtonIn:
		return record.FieldIn, true
	case ButtonLunch:
		return record.FieldLunch, true
	case ButtonResume:
		return record.FieldResume, true
	case ButtonOut:
		return record.FieldOut, true
	}
	return "", false
}

// Category returns the quote category for the button.
func (b Button) Category() quote.Category {
	return quote.Category(b)
}

// Label returns the text shown on the button.
func (b Button) Label() string {
	switch b {
	case ButtonIn:
		return "🟢 In"
	case ButtonLunch:
		return "🟡 Lunch"
	case ButtonResume:
		return "🟠 Resume"
	case ButtonOut:
		return "🔴 Out"
	case ButtonReset:
		return "🔄 Reset"
	}
	return string(b)
}

// Style is a platform-neutral hint for how a button should look.
type Style string

const (
	StyleSuccess   Style = "success"
	StyleSecondary Style = "secondary"
	StylePrimary   Style = "primary"
	StyleDanger    Style = "danger"
)

// Style returns the display style of the button.
func (b Button) Style() Style {
	switch b {
	case ButtonIn:
		return StyleSuccess
	case ButtonResume:
		return StylePrimary
	case ButtonOut:
		return StyleDanger
	}
	return StyleSecondary
}

// State is the lifecycle state of a panel message.
type State string

const (
	// StateOpen accepts every button
	StateOpen State = "open"

	// StateOutLogged only accepts Reset
	StateOutLogged State = "out_logged"

	// StateArchived is terminal; the message is never edited again
	StateArchived State = "archived"
)

// MessageRef locates a message on the chat platform.
type MessageRef struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

// Validate checks both ids are present.
func (r MessageRef) Validate() error {
	if r.ChannelID == "" {
		return fmt.Errorf("channel id cannot be empty")
	}
	if r.MessageID == "" {
		return fmt.Errorf("message id cannot be empty")
	}
	return nil
}

func (r MessageRef) String() string {
	return r.ChannelID + "/" + r.MessageID
}

// ButtonState is one button as it should be displayed.
type ButtonState struct {
	Button  Button `json:"button"`
	Label   string `json:"label"`
	Style   Style  `json:"style"`
	Enabled bool   `json:"enabled"`
}

// View is everything an adapter needs to draw a message: the rendered
// summary and, for panels, the button row.
type View struct {
	Summary render.Payload `json:"summary"`
	Buttons []ButtonState  `json:"buttons,omitempty"`
}

// Panel is the controller's view of one interactive message. It carries no
// record data; the record lives in the store.
type Panel struct {
	Ref       MessageRef `json:"ref"`
	OwnerID   string     `json:"owner_id"`
	OwnerName string     `json:"owner_name,omitempty"`
	DayKey    string     `json:"day_key"`
	State     State      `json:"state"`
}

// Buttons returns the panel's button set for its current state.
func (p Panel) Buttons() []ButtonState {
	return ButtonsFor(p.State)
}

// ButtonEvent is one button press delivered by an adapter.
type ButtonEvent struct {
	Panel     MessageRef `json:"panel"`
	Button    Button     `json:"button"`
	ActorID   string     `json:"actor_id"`
	ActorName string     `json:"actor_name,omitempty"`
	OwnerID   string     `json:"owner_id"`
}

// Validate checks the event is well formed.
func (e ButtonEvent) Validate() error {
	if err := e.Panel.Validate(); err != nil {
		return fmt.Errorf("invalid panel ref: %w", err)
	}
	if err := e.Button.Validate(); err != nil {
		return err
	}
	if e.ActorID == "" {
		return fmt.Errorf("actor id cannot be empty")
	}
	if e.OwnerID == "" {
		return fmt.Errorf("owner id cannot be empty")
	}
	return nil
}

// Outcome describes what an event did.
type Outcome struct {
	Action   Action             `json:"action"`
	Panel    Panel              `json:"panel"`
	Record   record.DailyRecord `json:"record"`
	NewPanel *Panel             `json:"new_panel,omitempty"`
}
