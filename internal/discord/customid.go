package discord

import (
	"fmt"
	"strings"

	"github.com/dyluth/punchcard/internal/panel"
)

const (
	customIDPrefix = "punch"
	customIDSep    = ":"
)

// CustomID encodes the button kind and panel owner into a component id,
// e.g. "punch:lunch:1234567890".
func CustomID(b panel.Button, ownerID string) string {
	return customIDPrefix + customIDSep + string(b) + customIDSep + ownerID
}

// ParseCustomID decodes a component id produced by CustomID.
// ok is false for ids that belong to other features.
func ParseCustomID(raw string) (b panel.Button, ownerID string, ok bool, err error) {
	parts := strings.SplitN(raw, customIDSep, 3)
	if len(parts) == 0 || parts[0] != customIDPrefix {
		return "", "", false, nil
	}
	if len(parts) != 3 {
		return "", "", true, fmt.Errorf("malformed custom id %q", raw)
	}
	b = panel.Button(parts[1])
	if err := b.Validate(); err != nil {
		return "", "", true, err
	}
	if parts[2] == "" {
		return "", "", true, fmt.Errorf("custom id %q has no owner", raw)
	}
	return b, parts[2], true, nil
}
