// Package display provides unified output formatting for the hive
// CLI: boxed messages for coordinator command results, and a gutter
// style for streamed agent output so the two read distinctly in a
// shared terminal.
package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// Display handles all CLI output with visual hierarchy.
type Display struct {
	theme     *Theme
	termWidth int
	noColor   bool
}

// New creates a new Display instance.
func New() *Display {
	return NewWithOptions(false)
}

// NewWithOptions creates a Display with configuration.
func NewWithOptions(noColor bool) *Display {
	d := &Display{
		termWidth: getTerminalWidth(),
		noColor:   noColor,
	}
	if noColor {
		d.theme = NoColorTheme()
	} else {
		d.theme = DefaultTheme()
	}
	return d
}

// getTerminalWidth returns the terminal width, defaulting to 80.
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return 80
	}
	if width > 120 {
		return 120 // Cap at 120 for readability
	}
	return width
}

// Box prints a boxed message titled "HIVE" - used for coordinator
// command results (task created, advanced, merged, ...).
func (d *Display) Box(lines ...string) {
	d.BoxWithTitle("HIVE", lines...)
}

// BoxWithTitle prints a boxed message with a custom title.
func (d *Display) BoxWithTitle(title string, lines ...string) {
	if len(lines) == 0 {
		return
	}

	width := d.termWidth - 2
	titleLen := len(title) + 3 // "─ TITLE "
	remainingWidth := width - titleLen

	topLine := BoxTopLeft + BoxHorizontal + " " + title + " " + strings.Repeat(BoxHorizontal, remainingWidth) + BoxTopRight
	fmt.Println(d.theme.BoxBorder(topLine))

	for _, line := range lines {
		paddedLine := d.padRight(line, width-2)
		fmt.Println(d.theme.BoxBorder(BoxVertical) + " " + d.theme.BoxText(paddedLine) + " " + d.theme.BoxBorder(BoxVertical))
	}

	bottomLine := BoxBottomLeft + strings.Repeat(BoxHorizontal, width) + BoxBottomRight
	fmt.Println(d.theme.BoxBorder(bottomLine))
}

// StatusLine prints a single-line timestamped status message (no box).
func (d *Display) StatusLine(symbol, message string) {
	timestamp := time.Now().Format("[15:04:05]")
	fmt.Printf("%s %s %s\n",
		d.theme.BoxBorder(timestamp),
		symbol,
		d.theme.BoxText(message))
}

// Success prints a success message with a green checkmark.
func (d *Display) Success(message string) {
	d.StatusLine(d.theme.Success(SymbolSuccess), message)
}

// Error prints an error message with a red X.
func (d *Display) Error(message string) {
	d.StatusLine(d.theme.Error(SymbolError), message)
}

// Warning prints a warning message with a yellow triangle.
func (d *Display) Warning(message string) {
	d.StatusLine(d.theme.Warning(SymbolWarning), message)
}

// Info prints an info message with a cyan label.
func (d *Display) Info(label, message string) {
	d.StatusLine(d.theme.Info(label+":"), message)
}

// Resume prints a retreat/resume-style message with a cyan arrow.
func (d *Display) Resume(message string) {
	d.StatusLine(d.theme.Info(SymbolResume), message)
}

// TaskHeader prints a banner announcing which task subsequent agent
// output belongs to.
func (d *Display) TaskHeader(taskID, agentName string) {
	banner := fmt.Sprintf(">>> %s (%s) <<<", taskID, agentName)
	fmt.Printf("\n%s%s\n\n", IndentAgent, d.theme.BoxLabel(banner))
}

// wrapText wraps text to the given width, capped at 5 lines.
func (d *Display) wrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		maxWidth = 80
	}

	text = strings.TrimSpace(text)
	if len(text) <= maxWidth {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len()+len(word)+1 > maxWidth {
			if currentLine.Len() > 0 {
				lines = append(lines, currentLine.String())
				currentLine.Reset()
			}
		}
		if currentLine.Len() > 0 {
			currentLine.WriteString(" ")
		}
		currentLine.WriteString(word)
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	if len(lines) > 5 {
		lines = lines[:5]
		if len(lines[4]) > maxWidth-3 {
			lines[4] = lines[4][:maxWidth-3]
		}
		lines[4] = lines[4] + "..."
	}

	return lines
}

// AgentOutput prints one streamed output line from a running agent,
// with a left gutter naming the agent.
func (d *Display) AgentOutput(agentName, text string) {
	timestamp := time.Now().Format("[15:04:05]")
	gutter := d.theme.AgentMeta("[" + agentName + "]")

	lines := d.wrapText(text, d.termWidth-20)
	for i, line := range lines {
		if i == 0 {
			fmt.Printf("  %s %s %s\n", gutter, d.theme.AgentTimestamp(timestamp), d.theme.AgentText(line))
		} else {
			fmt.Printf("  %s %s\n", gutter, d.theme.AgentText(line))
		}
	}
}

// AgentDone prints a terminal completion/failure line for a task's
// agent, indented to match AgentOutput.
func (d *Display) AgentDone(agentName, result string) {
	timestamp := time.Now().Format("[15:04:05]")
	line := fmt.Sprintf("%s%s %s %s",
		IndentAgent,
		d.theme.AgentTimestamp(timestamp),
		d.theme.AgentMeta("["+agentName+" done]"),
		d.theme.AgentText(result))
	fmt.Println(line)
}

// SectionBreak prints a horizontal separator.
func (d *Display) SectionBreak() {
	fmt.Println(d.theme.Separator(strings.Repeat(SectionBreak, d.termWidth)))
}

// Duration prints an elapsed-time line.
func (d *Display) Duration(dur time.Duration) {
	fmt.Printf("   Duration: %s\n", dur.Round(time.Second))
}

// Theme returns the current theme for external use.
func (d *Display) Theme() *Theme {
	return d.theme
}

// padRight pads (or truncates) a string to the given width.
func (d *Display) padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Truncate truncates text to max length with an ellipsis.
func Truncate(s string, max int) string {
	s = CleanText(s)
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// CleanText removes newlines and collapses repeated spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}
