package panel

import "context"

// Adapter carries effects back to the chat platform. Each call may fail
// independently. Adapters are bound to a single event so SendPrivateNotice
// can reach the acting user (for example through an ephemeral reply).
type Adapter interface {
	// EditMessage replaces the content of an existing message.
	EditMessage(ctx context.Context, ref MessageRef, view View) error

	// SendMessage posts a new message and returns where it landed.
	SendMessage(ctx context.Context, channelID string, view View) (MessageRef, error)

	// SendPrivateNotice shows text to userID only.
	SendPrivateNotice(ctx context.Context, userID string, text string) error
}
