package sim

import (
	"math"

	"github.com/Pickles91/ContiguousMemoryAllocation/memutils"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/engine"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/placement"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/region"
	"github.com/dolthub/swiss"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Summary condenses one strategy's history into the figures used to compare strategies
type Summary struct {
	Strategy placement.Strategy
	Ticks    int
	// Placements is the number of requests that were seen in the address space
	Placements int
	// Unplaced is the number of requests that never reached the address space. Only truncated runs
	// can leave requests unplaced.
	Unplaced int
	// MeanWait and MaxWait measure how many ticks requests spent in the pending queue before they
	// were placed
	MeanWait       float64
	MaxWait        int
	PeakHoles      int
	MinPercentFree int
	// Space sums the statistics of every snapshot in the history
	Space memutils.DetailedStatistics

	placedAt *swiss.Map[region.Pid, int]
}

// Summarize walks a history and records the tick at which each process was first seen in the
// address space. Every request is pending from tick 0, so a request placed on tick 1 waited 0 ticks.
//
// Placements are matched to requests by process id. When a workload holds several requests for the
// same process, only the first of them is counted.
func Summarize(history History, requests []engine.Request) Summary {
	summary := Summary{
		Strategy:       history.Strategy,
		Ticks:          history.Len(),
		MinPercentFree: 100,
		placedAt:       swiss.NewMap[region.Pid, int](uint32(len(requests))),
	}
	summary.Space.Clear()

	for _, snapshot := range history.Snapshots {
		for _, span := range snapshot.Spans() {
			if span.Owner.IsOccupied() && !summary.placedAt.Has(span.Owner.Process) {
				summary.placedAt.Put(span.Owner.Process, snapshot.Tick)
			}
		}

		stats := snapshot.Statistics()
		summary.PeakHoles = max(summary.PeakHoles, stats.HoleCount)
		summary.MinPercentFree = min(summary.MinPercentFree, stats.PercentFree())
		summary.Space.AddDetailedStatistics(&stats)
	}

	var totalWait int
	seen := swiss.NewMap[region.Pid, struct{}](uint32(len(requests)))
	for _, request := range requests {
		if seen.Has(request.Process) {
			continue
		}
		seen.Put(request.Process, struct{}{})

		tick, placed := summary.placedAt.Get(request.Process)
		if !placed {
			summary.Unplaced++
			continue
		}

		wait := tick - 1
		summary.Placements++
		totalWait += wait
		summary.MaxWait = max(summary.MaxWait, wait)
	}

	if summary.Placements > 0 {
		summary.MeanWait = float64(totalWait) / float64(summary.Placements)
	}

	return summary
}

// PlacementTick returns the tick on which process first appeared in the address space
func (s Summary) PlacementTick(process region.Pid) (int, bool) {
	if s.placedAt == nil {
		return 0, false
	}
	return s.placedAt.Get(process)
}

// MeanPercentFree is the share of the address space left free, averaged over every tick
func (s Summary) MeanPercentFree() int {
	return s.Space.PercentFree()
}

// LargestHole is the size of the largest free span seen during the run
func (s Summary) LargestHole() int {
	return s.Space.HoleSizeMax
}

// Summarize condenses every history in the run, in Strategies order
func (r *Results) Summarize() [3]Summary {
	var summaries [3]Summary
	for _, strategy := range placement.Strategies {
		summaries[strategy.Index()] = Summarize(r.History(strategy), r.Requests)
	}
	return summaries
}

// WriteJSON populates a json object with the summary figures
func (s Summary) WriteJSON(json *jwriter.ObjectState) {
	json.Name("Strategy").String(s.Strategy.String())
	json.Name("Ticks").Int(s.Ticks)
	json.Name("Placements").Int(s.Placements)
	json.Name("Unplaced").Int(s.Unplaced)
	json.Name("MeanWait").Float64(math.Round(s.MeanWait*100) / 100)
	json.Name("MaxWait").Int(s.MaxWait)
	json.Name("PeakHoles").Int(s.PeakHoles)
	json.Name("MinPercentFree").Int(s.MinPercentFree)
	json.Name("MeanPercentFree").Int(s.MeanPercentFree())
	json.Name("LargestHole").Int(s.LargestHole())
}
