// Package filter selects relay effects for the watch command.
package filter

import (
	"path/filepath"

	"github.com/dyluth/punchcard/pkg/relay"
)

// Criteria defines filtering criteria for effects.
// All filters are ANDed together: an effect must match every criterion.
type Criteria struct {
	TypeGlob  string // Glob over the effect type, e.g. "*_message"
	ChannelID string // Exact channel match
	UserID    string // Exact recipient match for private notices
}

// Matches returns true if eff matches all criteria.
// Empty criteria match everything.
func (c *Criteria) Matches(eff *relay.Effect) bool {
	if c.TypeGlob != "" {
		matched, err := filepath.Match(c.TypeGlob, string(eff.Type))
		if err != nil || !matched {
			return false
		}
	}

	if c.ChannelID != "" && eff.ChannelID != c.ChannelID {
		return false
	}

	if c.UserID != "" && eff.UserID != c.UserID {
		return false
	}

	return true
}

// HasFilters returns true if any filter is active.
func (c *Criteria) HasFilters() bool {
	return c.TypeGlob != "" || c.ChannelID != "" || c.UserID != ""
}

// Validate checks the type glob is well formed.
func (c *Criteria) Validate() error {
	if c.TypeGlob == "" {
		return nil
	}
	_, err := filepath.Match(c.TypeGlob, "")
	return err
}
