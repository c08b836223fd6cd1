package tui

import "github.com/charmbracelet/lipgloss"

// Styles collects the lipgloss styles used across the tabs.
type Styles struct {
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style

	Content lipgloss.Style
	Title   lipgloss.Style
	Subtle  lipgloss.Style
	Error   lipgloss.Style

	StatusActive   lipgloss.Style
	StatusIdle     lipgloss.Style
	StatusInactive lipgloss.Style

	Column      lipgloss.Style
	ColumnTitle lipgloss.Style
	Card        lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	var s Styles
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 2)
	s.InactiveTab = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)

	s.StatusActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	s.StatusIdle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C00"))
	s.StatusInactive = lipgloss.NewStyle().Foreground(subtle)

	s.Column = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(subtle).Padding(0, 1).MarginRight(1)
	s.ColumnTitle = lipgloss.NewStyle().Bold(true)
	s.Card = lipgloss.NewStyle().PaddingLeft(1)

	return s
}
