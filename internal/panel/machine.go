package panel

// Action is what the controller must do for an accepted event.
type Action string

const (
	// ActionLog writes one time field and re-renders
	ActionLog Action = "log"

	// ActionClockOut writes Out, locks the record and leaves only Reset enabled
	ActionClockOut Action = "clock_out"

	// ActionReset archives the day and opens a panel for the next one
	ActionReset Action = "reset"

	// ActionIgnore drops the event without touching the record
	ActionIgnore Action = "ignore"

	// ActionRejected is reported for events from someone other than the owner
	ActionRejected Action = "rejected"
)

// Transition is the panel state machine. It decides the next state and the
// action for a button pressed on a panel in state s.
//
// Reset is accepted from OPEN as well as OUT_LOGGED (abandon today). Log
// buttons arriving after Out are dropped rather than unlocking the record.
func Transition(s State, b Button) (State, Action) {
	switch s {
	case StateOpen:
		switch b {
		case ButtonIn, ButtonLunch, ButtonResume:
			return StateOpen, ActionLog
		case ButtonOut:
			return StateOutLogged, ActionClockOut
		case ButtonReset:
			return StateArchived, ActionReset
		}
	case StateOutLogged:
		if b == ButtonReset {
			return StateArchived, ActionReset
		}
		return StateOutLogged, ActionIgnore
	}
	return s, ActionIgnore
}

// ButtonsFor returns the button set for a panel in state s.
func ButtonsFor(s State) []ButtonState {
	out := make([]ButtonState, 0, len(Buttons))
	for _, b := range Buttons {
		enabled := false
		switch s {
		case StateOpen:
			enabled = true
		case StateOutLogged:
			enabled = b == ButtonReset
		}
		out = append(out, ButtonState{
			Button:  b,
			Label:   b.Label(),
			Style:   b.Style(),
			Enabled: enabled,
		})
	}
	return out
}
