// Package ui holds the shared terminal presentation helpers: the banner,
// color styles, ANSI-aware centering, and timestamp formatting.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Version is the user-facing application version.
const Version = "1.0.0"

// Logo is the banner shown at the top of every screen.
// ASCII art generated from https://patorjk.com/software/taag
const Logo = `  ____                    _____               _
 / ___|__ _ _ __ ___  _ _|_   _| __ __ _  ___| | __
| |   / _` + "`" + ` | '_ ` + "`" + ` _ \| '_ \| || '__/ _` + "`" + ` |/ __| |/ /
| |__| (_| | | | | | | |_) | || | | (_| | (__|   <
 \____\__,_|_| |_| |_| .__/|_||_|  \__,_|\___|_|\_\
                     |_|`

// Tagline is shown under the logo.
const Tagline = "A Scout Camp Management System"

// TerminalWidth is the layout width screens are composed against.
const TerminalWidth = 80

var (
	// TitleStyle renders section titles.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	// ErrorStyle renders failures and warnings.
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	// SuccessStyle renders confirmations.
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	// AccentStyle renders highlighted values such as unread counts.
	AccentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("177"))
	// PromptStyle renders input prompts.
	PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("190"))
	// MutedStyle renders secondary detail such as timestamps.
	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
)

// storedTimestampLayout is the format SQLite's datetime('now') produces.
const storedTimestampLayout = "2006-01-02 15:04:05"

// displayTimestampLayout is the user-facing message timestamp format.
const displayTimestampLayout = "03:04 PM - January 02, 2006"

// Header writes the logo banner, tagline, and version.
func Header(w io.Writer, centered bool) {
	if centered {
		for _, line := range strings.Split(Logo, "\n") {
			fmt.Fprintln(w, centerLine(line, TerminalWidth))
		}
	} else {
		fmt.Fprintln(w, Logo)
	}
	fmt.Fprintf(w, "\n%s\n", Tagline)
	fmt.Fprintf(w, "Version: %s\n\n", Version)
}

// ClearScreen erases the terminal and homes the cursor.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[2J\033[H")
}

// EraseLines moves the cursor up and clears one terminal line per line the
// given text occupied at the given terminal width. Chat views use it to
// remove echoed input before re-rendering.
func EraseLines(w io.Writer, text string, terminalWidth int) {
	if terminalWidth <= 0 {
		terminalWidth = TerminalWidth
	}

	lines := (lipgloss.Width(text) + terminalWidth - 1) / terminalWidth
	if lines < 1 {
		lines = 1
	}
	for i := 0; i < lines; i++ {
		fmt.Fprint(w, "\033[A\033[2K")
	}
}

// Center pads a string so it sits centered within the given width. Styled
// text is measured by its visible width, not its raw length.
func Center(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}

	padding := width - visible
	left := padding / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", padding-left)
}

// centerLine left-pads a single line so a block of lines keeps its shape.
func centerLine(s string, width int) string {
	margin := (width - lipgloss.Width(s)) / 2
	if margin < 1 {
		return s
	}
	return strings.Repeat(" ", margin) + s
}

// Divider writes a horizontal rule of the layout width.
func Divider(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("─", TerminalWidth))
}

// FormatTimestamp converts a stored timestamp into its display form, such as
// "03:04 PM - January 02, 2006". Unparseable input is returned as is.
func FormatTimestamp(stored string) string {
	parsed, err := time.Parse(storedTimestampLayout, stored)
	if err != nil {
		return stored
	}
	return parsed.Format(displayTimestampLayout)
}

// FormatDate converts a stored date into a long display form, such as
// "January 02, 2006". Unparseable input is returned as is.
func FormatDate(stored string) string {
	parsed, err := time.Parse("2006-01-02", stored)
	if err != nil {
		return stored
	}
	return parsed.Format("January 02, 2006")
}
