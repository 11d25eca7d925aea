package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Prompt      lipgloss.Style
	Dim         lipgloss.Style
	Help        lipgloss.Style
	Highlight   lipgloss.Style
	Main        lipgloss.Style
	Secondary   lipgloss.Style
	Postcode    lipgloss.Style
	Distance    lipgloss.Style
	ActiveRow   lipgloss.Style
	Marker      lipgloss.Style
	Expanded    lipgloss.Style
	Collapsed   lipgloss.Style
	Loading     lipgloss.Style
	Selected    lipgloss.Style
	SectionHead lipgloss.Style
	Key         lipgloss.Style
	Desc        lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Dim:         lipgloss.NewStyle().Faint(true),
		Help:        lipgloss.NewStyle().Faint(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Main:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Secondary:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Postcode:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Distance:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
		ActiveRow:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Marker:      lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true), // green
		Expanded:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Collapsed:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Loading:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Selected:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		SectionHead: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Key:         lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Desc:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}
