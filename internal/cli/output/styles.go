package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles shared by all commands.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Path    lipgloss.Style
}

// newStyles builds styles bound to the output writer. When colored is
// false the profile is forced to Ascii, so Render returns plain text and
// markdown or JSON output stays free of escape codes.
func newStyles(out io.Writer, colored bool) *Styles {
	lr := lipgloss.NewRenderer(out)
	if !colored {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Styles{
		Header:  lr.NewStyle().Bold(true).Underline(true),
		Success: lr.NewStyle().Foreground(lipgloss.Color("2")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   lr.NewStyle().Foreground(lipgloss.Color("1")),
		Info:    lr.NewStyle().Foreground(lipgloss.Color("6")),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:    lr.NewStyle().Bold(true),
		Path:    lr.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
	}
}
