package relay

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// MessageToHash converts a Message to Redis hash fields. The view is
// JSON-encoded into a single field.
func MessageToHash(m *Message) (map[string]interface{}, error) {
	viewJSON, err := json.Marshal(m.View)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message view: %w", err)
	}

	return map[string]interface{}{
		"id":            m.ID,
		"channel_id":    m.ChannelID,
		"owner_id":      m.OwnerID,
		"view":          string(viewJSON),
		"updated_at_ms": m.UpdatedAtMs,
	}, nil
}

// HashToMessage converts Redis hash fields back to a Message.
func HashToMessage(hash map[string]string) (*Message, error) {
	var view MessageView
	if viewJSON := hash["view"]; viewJSON != "" {
		if err := json.Unmarshal([]byte(viewJSON), &view); err != nil {
			return nil, fmt.Errorf("failed to unmarshal view: %w", err)
		}
	}

	updatedAtMs, _ := strconv.ParseInt(hash["updated_at_ms"], 10, 64)

	return &Message{
		ID:          hash["id"],
		ChannelID:   hash["channel_id"],
		OwnerID:     hash["owner_id"],
		View:        view,
		UpdatedAtMs: updatedAtMs,
	}, nil
}
