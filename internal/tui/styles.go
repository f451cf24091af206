package tui

import "github.com/charmbracelet/lipgloss"

// Palette mirrors the web storefront: blue brand, red badges.
var (
	Brand       = lipgloss.Color("#2563EB")
	Destructive = lipgloss.Color("#EF4444")
	Muted       = lipgloss.Color("#6B7280")
	Foreground  = lipgloss.Color("#F9FAFB")
)

// Styles holds every style the views use.
type Styles struct {
	Header    lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Badge     lipgloss.Style
	Title     lipgloss.Style
	Item      lipgloss.Style
	Selected  lipgloss.Style
	Price     lipgloss.Style
	Original  lipgloss.Style
	Discount  lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Total     lipgloss.Style
}

// DefaultStyles returns the storefront theme.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(Foreground).Background(Brand).Padding(0, 1),
		Tab:       lipgloss.NewStyle().Foreground(Muted).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(Brand).Padding(0, 1),
		Badge:     lipgloss.NewStyle().Bold(true).Foreground(Foreground).Background(Destructive).Padding(0, 1),
		Title:     lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Item:      lipgloss.NewStyle().PaddingLeft(2),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(Brand),
		Price:     lipgloss.NewStyle().Bold(true).Foreground(Brand),
		Original:  lipgloss.NewStyle().Strikethrough(true).Foreground(Muted),
		Discount:  lipgloss.NewStyle().Bold(true).Foreground(Destructive),
		Error:     lipgloss.NewStyle().Foreground(Destructive),
		Muted:     lipgloss.NewStyle().Foreground(Muted),
		Total:     lipgloss.NewStyle().Bold(true).MarginTop(1),
	}
}
