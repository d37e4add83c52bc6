package playback

import (
	"fmt"
	"strings"

	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/engine"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/placement"
)

const frameSeparator = "------------------------------------------------------"

var titleMapping = map[placement.Strategy]string{
	placement.StrategyBestFit:  "Best Fit",
	placement.StrategyWorstFit: "Worst Fit",
	placement.StrategyNextFit:  "Next Fit",
}

// Title is the human readable name of a strategy
func Title(strategy placement.Strategy) string {
	return titleMapping[strategy]
}

// RenderLayout draws every span of a snapshot in address order, e.g. [p0[3s](15KB)|FREE(6KB)|]
func RenderLayout(snapshot engine.Snapshot) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, span := range snapshot.Spans() {
		if span.Owner.IsFree() {
			fmt.Fprintf(&sb, "FREE(%dKB)|", span.Size)
		} else {
			fmt.Fprintf(&sb, "p%d[%ds](%dKB)|", span.Owner.Process, span.Owner.Lifetime, span.Size)
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// RenderPending lists the requests still waiting in a snapshot, e.g. [P4[2s](100KB)|P7[1s](8KB)]
func RenderPending(snapshot engine.Snapshot) string {
	requests := make([]string, 0, len(snapshot.Pending))
	for _, request := range snapshot.Pending {
		requests = append(requests, request.String())
	}
	return "[" + strings.Join(requests, "|") + "]"
}

// RenderStats reports the free space, hole count and pending requests of a snapshot
func RenderStats(snapshot engine.Snapshot) string {
	stats := snapshot.Statistics()
	return fmt.Sprintf("Total Free: %d, Percentage Free: %d, Hole(s): %d\nREMAINING REQUESTS: %s",
		stats.FreeSize(), stats.PercentFree(), stats.HoleCount, RenderPending(snapshot))
}

// RenderPane draws one strategy's pane as plain text
func RenderPane(pane Pane) string {
	title := Title(pane.Strategy) + ":"
	if !pane.Present {
		return title + "\n(no snapshots)"
	}

	if pane.Finished {
		title = fmt.Sprintf("%s (finished after tick %d)", title, pane.Snapshot.Tick)
	}
	return title + "\n" + RenderLayout(pane.Snapshot) + "\n" + RenderStats(pane.Snapshot)
}

// RenderFrame draws every pane of a frame as plain text
func RenderFrame(frame Frame) string {
	panes := make([]string, 0, len(frame.Panes))
	for _, pane := range frame.Panes {
		panes = append(panes, RenderPane(pane))
	}
	return frameSeparator + "\n" + strings.Join(panes, "\n\n") + "\n"
}
