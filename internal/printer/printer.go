// Package printer formats CLI output for punchcard commands.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dyluth/punchcard/pkg/relay"
	"github.com/fatih/color"
)

func init() {
	// NO_COLOR still disables colours when set.
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green   = color.New(color.FgGreen)
	yellow  = color.New(color.FgYellow)
	red     = color.New(color.FgRed, color.Bold)
	cyan    = color.New(color.FgCyan)
	pink    = color.New(color.FgMagenta, color.Bold)
	faint   = color.New(color.Faint)
	enabled = color.New(color.Bold)
)

// Success prints a success message in green with a checkmark prefix
func Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		green.Printf("✓ %s", msg)
	} else {
		green.Print(msg)
	}
}

// Info prints an informational message in the default color
func Info(format string, a ...any) {
	fmt.Printf(format, a...)
}

// Warning prints a warning message in yellow with a warning emoji prefix
func Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠️") {
		yellow.Printf("⚠️  %s", msg)
	} else {
		yellow.Print(msg)
	}
}

// Step prints a step message with emphasis
func Step(format string, a ...any) {
	cyan.Printf("→ %s", fmt.Sprintf(format, a...))
}

// Error prints a title, explanation and suggestions to stderr and returns
// an error carrying only the title, for commands with SilenceErrors set.
func Error(title string, explanation string, suggestions []string) error {
	return ErrorWithContext(title, explanation, nil, suggestions)
}

// ErrorWithContext is Error with extra key/value details.
func ErrorWithContext(title string, explanation string, context map[string]string, suggestions []string) error {
	writeError(os.Stderr, title, explanation, context, suggestions)
	return fmt.Errorf("%s", title)
}

func writeError(w io.Writer, title, explanation string, context map[string]string, suggestions []string) {
	red.Fprintf(w, "%s\n\n", title)

	if explanation != "" {
		fmt.Fprintf(w, "%s\n", explanation)
	}

	if len(context) > 0 {
		fmt.Fprintf(w, "\n")
		for key, value := range context {
			fmt.Fprintf(w, "  %s: %s\n", key, value)
		}
	}

	if len(suggestions) > 0 {
		fmt.Fprintf(w, "\n")
		if len(suggestions) == 1 {
			fmt.Fprintf(w, "%s\n", suggestions[0])
		} else {
			fmt.Fprintf(w, "Either:\n")
			for i, suggestion := range suggestions {
				fmt.Fprintf(w, "  %d. %s\n", i+1, suggestion)
			}
		}
	}
}

// Panel writes a terminal rendering of a panel or archive view.
func Panel(w io.Writer, v relay.MessageView) {
	pink.Fprintf(w, "%s\n", v.Title)
	if v.Author != "" {
		faint.Fprintf(w, "%s\n", v.Author)
	}
	fmt.Fprintf(w, "\n%s\n", strings.TrimRight(plain(v.Description), "\n"))
	if v.Footer != "" {
		faint.Fprintf(w, "\n%s\n", v.Footer)
	}
	if len(v.Buttons) == 0 {
		return
	}

	fmt.Fprintln(w)
	for i, b := range v.Buttons {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		if b.Enabled {
			enabled.Fprintf(w, "[%s]", b.Label)
		} else {
			faint.Fprintf(w, "(%s)", b.Label)
		}
	}
	fmt.Fprintln(w)
}

// plain strips the chat markdown used in panel descriptions.
func plain(s string) string {
	return strings.NewReplacer("**", "", "_", "").Replace(s)
}
