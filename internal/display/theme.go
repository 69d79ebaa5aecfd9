package display

import "github.com/fatih/color"

// Box drawing characters
const (
	BoxTopLeft     = "┌"
	BoxTopRight    = "┐"
	BoxBottomLeft  = "└"
	BoxBottomRight = "┘"
	BoxHorizontal  = "─"
	BoxVertical    = "│"
	SectionBreak   = "━"
)

// Status symbols
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolResume  = "↻"
	SymbolPending = "○"
	SymbolPartial = "◐"
)

// IndentAgent is the indentation for streamed agent output.
const IndentAgent = "  "

// Theme holds all color functions for consistent styling.
type Theme struct {
	// Coordinator-level boxed/status output (prominent)
	BoxBorder func(a ...interface{}) string
	BoxLabel  func(a ...interface{}) string
	BoxText   func(a ...interface{}) string

	// Streamed agent output (subdued, so it reads distinctly from
	// coordinator messages in a shared terminal)
	AgentTimestamp func(a ...interface{}) string
	AgentText      func(a ...interface{}) string
	AgentMeta      func(a ...interface{}) string

	// Status indicators
	Success func(a ...interface{}) string
	Error   func(a ...interface{}) string
	Warning func(a ...interface{}) string
	Info    func(a ...interface{}) string

	// Structural elements
	Bold      func(a ...interface{}) string
	Dim       func(a ...interface{}) string
	Separator func(a ...interface{}) string
}

// DefaultTheme creates the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		BoxBorder: color.New(color.FgCyan).SprintFunc(),
		BoxLabel:  color.New(color.FgCyan, color.Bold).SprintFunc(),
		BoxText:   color.New(color.FgWhite).SprintFunc(),

		AgentTimestamp: color.New(color.FgHiBlack).SprintFunc(),
		AgentText:      color.New(color.FgWhite).SprintFunc(),
		AgentMeta:      color.New(color.FgHiBlack).SprintFunc(),

		Success: color.New(color.FgGreen).SprintFunc(),
		Error:   color.New(color.FgRed).SprintFunc(),
		Warning: color.New(color.FgYellow).SprintFunc(),
		Info:    color.New(color.FgCyan).SprintFunc(),

		Bold:      color.New(color.Bold).SprintFunc(),
		Dim:       color.New(color.FgHiBlack).SprintFunc(),
		Separator: color.New(color.FgCyan).SprintFunc(),
	}
}

// NoColorTheme creates a theme without colors, used by
// NewWithOptions(true).
func NoColorTheme() *Theme {
	identity := func(a ...interface{}) string {
		if len(a) == 0 {
			return ""
		}
		return a[0].(string)
	}
	return &Theme{
		BoxBorder:      identity,
		BoxLabel:       identity,
		BoxText:        identity,
		AgentTimestamp: identity,
		AgentText:      identity,
		AgentMeta:      identity,
		Success:        identity,
		Error:          identity,
		Warning:        identity,
		Info:           identity,
		Bold:           identity,
		Dim:            identity,
		Separator:      identity,
	}
}
