// Package watch waits for and streams relay effects for the CLI.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dyluth/punchcard/internal/filter"
	"github.com/dyluth/punchcard/pkg/relay"
)

// OutputFormat selects how StreamEffects writes effects.
type OutputFormat string

const (
	OutputFormatDefault OutputFormat = "default"
	OutputFormatJSON    OutputFormat = "json"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputFormatDefault, OutputFormatJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

// PollForMessage polls until a relay-managed message exists.
// Polls every 200ms for the specified timeout duration.
func PollForMessage(ctx context.Context, client *relay.Client, messageID string, timeout time.Duration) (*relay.Message, error) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	timeoutCh := time.After(timeout)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timeoutCh:
			return nil, fmt.Errorf("timeout waiting for message %s after %v", messageID, timeout)

		case <-ticker.C:
			msg, err := client.GetMessage(ctx, messageID)
			if err != nil {
				if relay.IsNotFound(err) {
					continue
				}
				return nil, fmt.Errorf("failed to query for message: %w", err)
			}
			return msg, nil
		}
	}
}

// WaitForCompletion collects effects for eventID until its completion marker
// arrives. The subscription must be opened before the event is published.
// The returned slice ends with the completion effect.
func WaitForCompletion(ctx context.Context, sub *relay.Subscription[relay.Effect], eventID string, timeout time.Duration) ([]*relay.Effect, error) {
	timeoutCh := time.After(timeout)
	var effects []*relay.Effect

	for {
		select {
		case <-ctx.Done():
			return effects, ctx.Err()

		case <-timeoutCh:
			return effects, fmt.Errorf("timeout waiting for event %s after %v (is `punchcard relay` running?)", eventID, timeout)

		case eff, ok := <-sub.Events():
			if !ok {
				return effects, fmt.Errorf("effect subscription closed")
			}
			if eff.EventID != eventID {
				continue
			}
			effects = append(effects, eff)
			if eff.Type == relay.EffectEventCompleted {
				return effects, nil
			}
		}
	}
}

// StreamEffects writes every effect matching criteria until ctx is
// cancelled. A nil criteria matches everything.
func StreamEffects(ctx context.Context, client *relay.Client, criteria *filter.Criteria, format OutputFormat, w io.Writer) error {
	sub, err := client.SubscribeEffects(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to effects: %w", err)
	}
	defer sub.Close()

	errs := sub.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil

		case eff, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if criteria != nil && !criteria.Matches(eff) {
				continue
			}
			if err := WriteEffect(w, format, eff); err != nil {
				return err
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			fmt.Fprintf(w, "⚠️  %v\n", err)
		}
	}
}

// WriteEffect writes a single effect in the requested format.
func WriteEffect(w io.Writer, format OutputFormat, eff *relay.Effect) error {
	if format == OutputFormatJSON {
		data, err := json.Marshal(eff)
		if err != nil {
			return fmt.Errorf("failed to marshal effect: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	ts := time.UnixMilli(eff.CreatedAtMs).Format("15:04:05")
	_, err := fmt.Fprintf(w, "[%s] %s\n", ts, FormatEffect(eff))
	return err
}

// FormatEffect renders a one-line human-readable summary.
func FormatEffect(eff *relay.Effect) string {
	switch eff.Type {
	case relay.EffectSendMessage:
		kind := "panel"
		if eff.View != nil && len(eff.View.Buttons) == 0 {
			kind = "archive"
		}
		return fmt.Sprintf("📨 Sent %s: %s/%s%s", kind, eff.ChannelID, eff.MessageID, viewSummary(eff.View))
	case relay.EffectEditMessage:
		return fmt.Sprintf("✏️  Edited: %s/%s%s", eff.ChannelID, eff.MessageID, viewSummary(eff.View))
	case relay.EffectPrivateNotice:
		return fmt.Sprintf("🔒 Notice to %s: %s", eff.UserID, eff.Text)
	case relay.EffectEventCompleted:
		if eff.Error != "" {
			return fmt.Sprintf("❌ Event %s failed: %s", eff.EventID, eff.Error)
		}
		return fmt.Sprintf("✅ Event %s done", eff.EventID)
	default:
		return fmt.Sprintf("❔ %s", eff.Type)
	}
}

// viewSummary picks the "Last:" line out of a rendered description.
func viewSummary(v *relay.MessageView) string {
	if v == nil {
		return ""
	}
	for _, line := range strings.Split(v.Description, "\n") {
		if strings.HasPrefix(line, "**Last:**") {
			return " (" + strings.TrimSpace(strings.TrimPrefix(line, "**Last:**")) + ")"
		}
	}
	return ""
}
