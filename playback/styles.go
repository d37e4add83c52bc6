package playback

import (
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/region"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Color palette
	primaryColor = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#04B575")
	warningColor = lipgloss.Color("#FFA500")
	mutedColor   = lipgloss.Color("#666666")
	borderColor  = lipgloss.Color("#383838")

	processColors = []lipgloss.Color{
		lipgloss.Color("#00D7FF"),
		lipgloss.Color("#FF00FF"),
		lipgloss.Color("#FFD700"),
		lipgloss.Color("#5FD75F"),
		lipgloss.Color("#FF875F"),
		lipgloss.Color("#AF87FF"),
	}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Background(lipgloss.Color("#1A1A1A")).
			Padding(0, 1).
			MarginBottom(1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	finishedPaneStyle = paneStyle.
				BorderForeground(successColor)

	paneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	freeStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	pendingStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)

func processStyle(process region.Pid) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(processColors[int(process)%len(processColors)])
}
