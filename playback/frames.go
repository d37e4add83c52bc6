package playback

import (
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/engine"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/placement"
	"github.com/Pickles91/ContiguousMemoryAllocation/sim"
)

// DisplayOrder is the order strategies are shown in, top to bottom
var DisplayOrder = []placement.Strategy{
	placement.StrategyBestFit,
	placement.StrategyNextFit,
	placement.StrategyWorstFit,
}

// Pane is one strategy's view of a frame
type Pane struct {
	Strategy placement.Strategy
	Snapshot engine.Snapshot
	// Present is false when the strategy produced no snapshots at all
	Present bool
	// Finished is true when the strategy's history ended before this frame. Snapshot then holds the
	// strategy's last snapshot.
	Finished bool
}

// Frame is everything shown for one step of playback
type Frame struct {
	Index int
	Panes []Pane
}

// BuildFrames lines the histories of a run up side by side. Playback runs for as long as the
// longest history, and strategies that finish early keep showing their final snapshot.
func BuildFrames(results *sim.Results) []Frame {
	length := results.MaxLen()
	frames := make([]Frame, 0, length)

	for i := 0; i < length; i++ {
		frame := Frame{Index: i, Panes: make([]Pane, 0, len(DisplayOrder))}

		for _, strategy := range DisplayOrder {
			history := results.History(strategy)
			pane := Pane{Strategy: strategy}

			switch {
			case i < history.Len():
				pane.Snapshot = history.Snapshots[i]
				pane.Present = true
			case history.Len() > 0:
				pane.Snapshot = history.Snapshots[history.Len()-1]
				pane.Present = true
				pane.Finished = true
			}

			frame.Panes = append(frame.Panes, pane)
		}

		frames = append(frames, frame)
	}

	return frames
}
