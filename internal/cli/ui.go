package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	red   = lipgloss.Color("#EF4444")
	amber = lipgloss.Color("#F59E0B")
	green = lipgloss.Color("#22C55E")
	cyan  = lipgloss.Color("#14B8A6")
	gray  = lipgloss.Color("#9CA3AF")

	errorStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(amber)
	successStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
	markerStyle  = lipgloss.NewStyle().Foreground(cyan)
	dimStyle     = lipgloss.NewStyle().Foreground(gray)
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

func errorIndicator() string   { return errorStyle.Render("✗") }
func warningIndicator() string { return warningStyle.Render("⚠") }
func successIndicator() string { return successStyle.Render("✓") }

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", errorIndicator(), fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", warningIndicator(), fmt.Sprintf(format, args...))
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", successIndicator(), fmt.Sprintf(format, args...))
}
