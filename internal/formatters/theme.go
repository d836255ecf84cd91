package formatters

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"resumeassist/internal/chat"
)

// Theme colours terminal output. The dark variant uses bright colours that
// stay readable on dark backgrounds.
type Theme struct {
	Dark bool

	user    *color.Color
	bot     *color.Color
	failure *color.Color
	muted   *color.Color
}

// ThemeFor returns the theme for the dark mode preference
func ThemeFor(dark bool) Theme {
	if dark {
		return Theme{
			Dark:    true,
			user:    color.New(color.FgHiCyan, color.Bold),
			bot:     color.New(color.FgHiGreen),
			failure: color.New(color.FgHiRed, color.Bold),
			muted:   color.New(color.FgHiBlack),
		}
	}
	return Theme{
		user:    color.New(color.FgBlue, color.Bold),
		bot:     color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
		muted:   color.New(color.FgWhite),
	}
}

// Name returns "dark" or "light"
func (t Theme) Name() string {
	if t.Dark {
		return "dark"
	}
	return "light"
}

// WriteMessage prints one chat message with a sender label
func (t Theme) WriteMessage(w io.Writer, m chat.Message) {
	label, c := "Bot", t.bot
	if m.Sender == chat.SenderUser {
		label, c = "You", t.user
	}
	_, _ = c.Fprintf(w, "%s: ", label)
	_, _ = fmt.Fprintln(w, m.Text)
}

// WriteTyping prints the typing indicator
func (t Theme) WriteTyping(w io.Writer) {
	_, _ = t.muted.Fprintln(w, "Bot is typing...")
}

// WriteFailure prints a user-visible failure message
func (t Theme) WriteFailure(w io.Writer, message string) {
	_, _ = t.failure.Fprintln(w, message)
}

// WriteNote prints secondary information
func (t Theme) WriteNote(w io.Writer, format string, args ...any) {
	_, _ = t.muted.Fprintf(w, format+"\n", args...)
}
