package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color styles shared by the renderers
var (
	headerStyle    = color.New(color.Bold, color.FgHiWhite)
	nameStyle      = color.New(color.FgCyan)
	contractStyle  = color.New(color.FgGreen)
	addressStyle   = color.New(color.FgWhite)
	faintStyle     = color.New(color.Faint)
	deployedStyle  = color.New(color.FgGreen)
	failedStyle    = color.New(color.FgRed)
	skippedStyle   = color.New(color.FgYellow)
	networkBgStyle = color.New(color.BgCyan, color.FgBlack, color.Bold)
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[mGKHF]`)

// title capitalizes a status label. Casers are stateful, so one per call.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Capitalize first letter
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return color.New(color.FgRed).Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// paint applies style when color output is enabled
func paint(enabled bool, style *color.Color, s string) string {
	if !enabled {
		return s
	}
	return style.Sprint(s)
}

// stripAnsiCodes removes ANSI escape sequences from a string
func stripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// formatDuration rounds d for display
func formatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}

// shortHash abbreviates a hex digest to its first and last four bytes
func shortHash(hex string) string {
	if len(hex) <= 18 {
		return hex
	}
	return fmt.Sprintf("%s…%s", hex[:10], hex[len(hex)-8:])
}

// newBorderlessTable returns a table writer with the compact column style
// used across all listings
func newBorderlessTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	return t
}
