// Package render turns a daily record into the summary shown on a panel or
// archival message. Everything here is a pure function of its inputs.
package render

import (
	"fmt"
	"strings"

	"github.com/dyluth/punchcard/internal/record"
)

// Variant selects how a summary is presented.
type Variant string

const (
	// VariantPanel is a fresh panel before anything is logged
	VariantPanel Variant = "panel"

	// VariantProgress is a panel mid-day
	VariantProgress Variant = "progress"

	// VariantDone is a panel after Out, and the archival report
	VariantDone Variant = "done"
)

// Validate checks if the Variant is a valid enum value.
func (v Variant) Validate() error {
	switch v {
	case VariantPanel, VariantProgress, VariantDone:
		return nil
	default:
		return fmt.Errorf("unknown render variant: %q", v)
	}
}

const (
	// Title heads every summary.
	Title = "✨ 𝐸𝓃𝒹 𝑜𝒻 𝒟𝒶𝓎 𝑅𝑒𝓅𝑜𝓇𝓉 ✨"

	// Placeholder stands in for a field that has not been logged.
	Placeholder = "-"

	// FooterPrompt is the footer while the day is still open.
	FooterPrompt = "Tap a button when ready"

	// FooterDone is the footer once Out has been logged.
	FooterDone = "Done for today 💗"

	// StartPrompt is the quote line of a brand-new panel.
	StartPrompt = "Tap a button to start."

	// ClosingQuote is the fixed quote on every archival report.
	ClosingQuote = "That’s a wrap for today. Thank you for your hard work."

	// ReadyAction is the "Last:" line of a panel with nothing logged.
	ReadyAction = "Ready ✨"

	// ResetAction is the "Last:" line of a panel opened by Reset.
	ResetAction = "Reset ✨"

	// ArchivedAction is the "Last:" line of an archival report.
	ArchivedAction = "Archived 📁"

	// Color is the embed accent (light pink).
	Color = 0xFFB6C1
)

// Payload is a rendered summary, independent of any chat platform.
type Payload struct {
	Title       string `json:"title"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description"`
	Footer      string `json:"footer"`
	Color       int    `json:"color"`
}

// Input is everything Render needs.
type Input struct {
	OwnerName  string
	DayLabel   string
	Record     record.DailyRecord
	Quote      string
	LastAction string
	Variant    Variant
}

var fieldLabels = map[record.Field]string{
	record.FieldIn:     "🟢 **In:**",
	record.FieldLunch:  "🟡 **Lunch:**",
	record.FieldResume: "🟠 **Resume:**",
	record.FieldOut:    "🔴 **Out:**",
}

var actionLabels = map[record.Field]string{
	record.FieldIn:     "🟢 IN",
	record.FieldLunch:  "🟡 LUNCH",
	record.FieldResume: "🟠 RESUME",
	record.FieldOut:    "🔴 OUT",
}

// Render builds the summary payload for in.
func Render(in Input) Payload {
	last := in.LastAction
	if last == "" && in.Variant == VariantPanel {
		last = ReadyAction
	}
	if last == "" {
		last = Placeholder
	}

	quote := in.Quote
	if quote == "" && in.Variant == VariantPanel {
		quote = StartPrompt
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📆 **%s**\n\n", in.DayLabel)
	fmt.Fprintf(&b, "**Last:** %s\n\n", last)
	for _, f := range record.Fields {
		fmt.Fprintf(&b, "%s %s\n", fieldLabels[f], valueOrPlaceholder(in.Record.Get(f)))
	}
	if quote != "" {
		fmt.Fprintf(&b, "\n✨ _%s_", quote)
	}

	footer := FooterPrompt
	if in.Variant == VariantDone {
		footer = FooterDone
	}

	return Payload{
		Title:       Title,
		Author:      in.OwnerName,
		Description: strings.TrimRight(b.String(), "\n"),
		Footer:      footer,
		Color:       Color,
	}
}

// Archive renders the permanent report for a finished (or abandoned) day.
func Archive(ownerName, dayLabel string, rec record.DailyRecord) Payload {
	return Render(Input{
		OwnerName:  ownerName,
		DayLabel:   dayLabel,
		Record:     rec,
		Quote:      ClosingQuote,
		LastAction: ArchivedAction,
		Variant:    VariantDone,
	})
}

// LastAction renders the "Last:" line for a logged field, e.g.
// "🟢 IN — 09:00 AM".
func LastAction(f record.Field, value string) string {
	label, ok := actionLabels[f]
	if !ok {
		label = strings.ToUpper(string(f))
	}
	return fmt.Sprintf("%s — %s", label, value)
}

func valueOrPlaceholder(v string) string {
	if v == "" {
		return Placeholder
	}
	return v
}
