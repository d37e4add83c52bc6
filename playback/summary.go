package playback

import (
	"strconv"

	"github.com/Pickles91/ContiguousMemoryAllocation/sim"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderSummary draws the per-strategy summaries of a run as a table
func RenderSummary(summaries [3]sim.Summary) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Strategy", "Ticks", "Placed", "Unplaced", "Mean wait", "Max wait", "Peak holes", "Min % free", "Mean % free", "Largest hole")

	for _, strategy := range DisplayOrder {
		summary := summaries[strategy.Index()]
		t.Row(
			Title(strategy),
			strconv.Itoa(summary.Ticks),
			strconv.Itoa(summary.Placements),
			strconv.Itoa(summary.Unplaced),
			strconv.FormatFloat(summary.MeanWait, 'f', 2, 64),
			strconv.Itoa(summary.MaxWait),
			strconv.Itoa(summary.PeakHoles),
			strconv.Itoa(summary.MinPercentFree),
			strconv.Itoa(summary.MeanPercentFree()),
			strconv.Itoa(summary.LargestHole()),
		)
	}

	return t.String()
}
