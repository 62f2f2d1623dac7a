// SPDX-License-Identifier: MPL-2.0

// Package style provides named terminal styles for command output.
//
// A Style maps output roles (success, warning, error, ...) to lipgloss
// renderers. Color support is resolved from the NO_COLOR / FORCE_COLOR
// environment variables, the framework config, and whether stdout is a
// terminal; a disabled Style renders every role as plain text.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"cmdkit/internal/config"
)

// Color palette - shared colors for consistent theming across all CLI output.
// ANSI indices are used so the terminal's own scheme decides the exact shade.
const (
	// ColorSuccess is green - used for success states and positive outcomes.
	ColorSuccess = lipgloss.Color("2")

	// ColorWarning is yellow - used for warnings and caution states.
	ColorWarning = lipgloss.Color("3")

	// ColorError is red - used for errors and failure reports.
	ColorError = lipgloss.Color("1")

	// ColorNotice is blue - used for informational notices.
	ColorNotice = lipgloss.Color("4")

	// ColorAccent is cyan - used for table names and secondary emphasis.
	ColorAccent = lipgloss.Color("6")

	// ColorLabel is magenta - used for item labels in progress listings.
	ColorLabel = lipgloss.Color("5")
)

// Style holds one renderer per named output role. Roles on a disabled Style
// return their input unchanged, so callers never need to branch on color
// support themselves.
type Style struct {
	enabled bool

	success     lipgloss.Style
	warning     lipgloss.Style
	errorStyle  lipgloss.Style
	notice      lipgloss.Style
	sqlField    lipgloss.Style
	sqlColtype  lipgloss.Style
	sqlKeyword  lipgloss.Style
	sqlTable    lipgloss.Style
	httpInfo    lipgloss.Style
	httpSuccess lipgloss.Style
	httpError   lipgloss.Style
	heading     lipgloss.Style
	label       lipgloss.Style
}

func newStyle(enabled bool) *Style {
	return &Style{
		enabled:     enabled,
		success:     lipgloss.NewStyle().Foreground(ColorSuccess),
		warning:     lipgloss.NewStyle().Foreground(ColorWarning),
		errorStyle:  lipgloss.NewStyle().Bold(true).Foreground(ColorError),
		notice:      lipgloss.NewStyle().Foreground(ColorNotice),
		sqlField:    lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess),
		sqlColtype:  lipgloss.NewStyle().Foreground(ColorWarning),
		sqlKeyword:  lipgloss.NewStyle().Bold(true).Foreground(ColorNotice),
		sqlTable:    lipgloss.NewStyle().Foreground(ColorAccent),
		httpInfo:    lipgloss.NewStyle().Foreground(ColorNotice),
		httpSuccess: lipgloss.NewStyle().Foreground(ColorSuccess),
		httpError:   lipgloss.NewStyle().Foreground(ColorError),
		heading:     lipgloss.NewStyle().Bold(true).Foreground(ColorNotice),
		label:       lipgloss.NewStyle().Foreground(ColorLabel),
	}
}

func (s *Style) render(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}

// Success styles a success message.
func (s *Style) Success(text string) string { return s.render(s.success, text) }

// Warning styles a warning message.
func (s *Style) Warning(text string) string { return s.render(s.warning, text) }

// Error styles an error message.
func (s *Style) Error(text string) string { return s.render(s.errorStyle, text) }

// Notice styles an informational notice.
func (s *Style) Notice(text string) string { return s.render(s.notice, text) }

// SQLField styles a column name in SQL output.
func (s *Style) SQLField(text string) string { return s.render(s.sqlField, text) }

// SQLColtype styles a column type in SQL output.
func (s *Style) SQLColtype(text string) string { return s.render(s.sqlColtype, text) }

// SQLKeyword styles an SQL keyword.
func (s *Style) SQLKeyword(text string) string { return s.render(s.sqlKeyword, text) }

// SQLTable styles a table name in SQL output.
func (s *Style) SQLTable(text string) string { return s.render(s.sqlTable, text) }

// HTTPInfo styles a 1xx status line.
func (s *Style) HTTPInfo(text string) string { return s.render(s.httpInfo, text) }

// HTTPSuccess styles a 2xx status line.
func (s *Style) HTTPSuccess(text string) string { return s.render(s.httpSuccess, text) }

// HTTPError styles a 4xx/5xx status line.
func (s *Style) HTTPError(text string) string { return s.render(s.httpError, text) }

// Heading styles a section heading in multi-step output.
func (s *Style) Heading(text string) string { return s.render(s.heading, text) }

// Label styles an item label in progress listings.
func (s *Style) Label(text string) string { return s.render(s.label, text) }

// Enabled reports whether this Style renders colors.
func (s *Style) Enabled() bool { return s.enabled }

// supportsColor reports whether styled output should be produced by default.
// NO_COLOR and FORCE_COLOR (and their config equivalents) win over terminal
// detection, with the disabling side taking precedence.
func supportsColor() bool {
	if os.Getenv("NO_COLOR") != "" || config.Get().NoColor {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" || config.Get().ForceColor {
		return true
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// ColorStyle returns a Style that uses color if supported (or forced).
func ColorStyle(forceColor bool) *Style {
	return newStyle(forceColor || supportsColor())
}

// NoStyle returns a Style with all styling disabled.
func NoStyle() *Style {
	return newStyle(false)
}
