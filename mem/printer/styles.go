package printer

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#04B575")
	warningColor = lipgloss.Color("#FFA500")
	errorColor   = lipgloss.Color("#FF4B4B")
	mutedColor   = lipgloss.Color("#666666")
	borderColor  = lipgloss.Color("#383838")
)

// styles are bound to one renderer so colour support follows the writer.
type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
	used   lipgloss.Style
	free   lipgloss.Style
	cursor lipgloss.Style
	label  lipgloss.Style
	ok     lipgloss.Style
	bad    lipgloss.Style
	muted  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(primaryColor),
		header: r.NewStyle().Bold(true).Foreground(primaryColor).Padding(0, 1),
		cell:   r.NewStyle().Padding(0, 1),
		border: r.NewStyle().Foreground(borderColor),
		used:   r.NewStyle().Foreground(warningColor),
		free:   r.NewStyle().Foreground(successColor),
		cursor: r.NewStyle().Bold(true).Foreground(primaryColor),
		label:  r.NewStyle().Foreground(mutedColor),
		ok:     r.NewStyle().Foreground(successColor),
		bad:    r.NewStyle().Foreground(errorColor),
		muted:  r.NewStyle().Foreground(mutedColor),
	}
}
