package engine

import (
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/placement"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/region"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Snapshot is the state of one strategy's address space at the end of a tick. Snapshots hold
// their own copies of the layout and queue and are never modified after they are taken.
type Snapshot struct {
	Strategy placement.Strategy
	Tick     int
	Regions  *region.List
	Pending  []Request
}

// Spans returns the layout of the address space in address order
func (s Snapshot) Spans() []region.Span {
	return s.Regions.Spans()
}

// Statistics summarizes the free and occupied space in the snapshot
func (s Snapshot) Statistics() memutils.DetailedStatistics {
	var stats memutils.DetailedStatistics
	stats.Clear()
	s.Regions.AddDetailedStatistics(&stats)
	return stats
}

// Done returns true if the snapshot has nothing queued and nothing occupied
func (s Snapshot) Done() bool {
	return len(s.Pending) == 0 && s.Regions.IsEmpty()
}

// WriteJSON populates a json object with the snapshot's layout and pending queue
func (s Snapshot) WriteJSON(json *jwriter.ObjectState) {
	json.Name("Tick").Int(s.Tick)
	s.Regions.WriteJSON(json)

	pending := json.Name("Pending").Array()
	defer pending.End()

	for _, request := range s.Pending {
		obj := pending.Object()
		obj.Name("Process").Int(int(request.Process))
		obj.Name("Size").Int(request.Size)
		obj.Name("Lifetime").Int(request.Lifetime)
		obj.End()
	}
}
