package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name       string
		state      State
		button     Button
		wantState  State
		wantAction Action
	}{
		{"in while open", StateOpen, ButtonIn, StateOpen, ActionLog},
		{"lunch while open", StateOpen, ButtonLunch, StateOpen, ActionLog},
		{"resume while open", StateOpen, ButtonResume, StateOpen, ActionLog},
		{"out while open", StateOpen, ButtonOut, StateOutLogged, ActionClockOut},
		{"reset while open abandons day", StateOpen, ButtonReset, StateArchived, ActionReset},
		{"in after out is dropped", StateOutLogged, ButtonIn, StateOutLogged, ActionIgnore},
		{"out after out is dropped", StateOutLogged, ButtonOut, StateOutLogged, ActionIgnore},
		{"reset after out", StateOutLogged, ButtonReset, StateArchived, ActionReset},
		{"anything on archived", StateArchived, ButtonReset, StateArchived, ActionIgnore},
		{"in on archived", StateArchived, ButtonIn, StateArchived, ActionIgnore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, action := Transition(tt.state, tt.button)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantAction, action)
		})
	}
}

func TestButtonsFor(t *testing.T) {
	enabled := func(bs []ButtonState) []Button {
		var out []Button
		for _, b := range bs {
			if b.Enabled {
				out = append(out, b.Button)
			}
		}
		return out
	}

	assert.Equal(t, Buttons, enabled(ButtonsFor(StateOpen)))
	assert.Equal(t, []Button{ButtonReset}, enabled(ButtonsFor(StateOutLogged)))
	assert.Empty(t, enabled(ButtonsFor(StateArchived)))

	for _, s := range []State{StateOpen, StateOutLogged, StateArchived} {
		assert.Len(t, ButtonsFor(s), len(Buttons))
	}
}

func TestButtonMetadata(t *testing.T) {
	f, ok := ButtonLunch.Field()
	assert.True(t, ok)
	assert.Equal(t, "lunch", string(f))

	_, ok = ButtonReset.Field()
	assert.False(t, ok)

	assert.Equal(t, "🔄 Reset", ButtonReset.Label())
	assert.Equal(t, StyleDanger, ButtonOut.Style())
	assert.Error(t, Button("nap").Validate())
}

func TestButtonEventValidate(t *testing.T) {
	ev := ButtonEvent{
		Panel:   MessageRef{ChannelID: "c", MessageID: "m"},
		Button:  ButtonIn,
		ActorID: "a",
		OwnerID: "a",
	}
	assert.NoError(t, ev.Validate())

	bad := ev
	bad.Panel.MessageID = ""
	assert.Error(t, bad.Validate())

	bad = ev
	bad.OwnerID = ""
	assert.Error(t, bad.Validate())

	bad = ev
	bad.Button = "nap"
	assert.Error(t, bad.Validate())
}
