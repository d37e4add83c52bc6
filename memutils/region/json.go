package region

import (
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// WriteJSON populates a json object with summary information and the full span layout of this list
func (l *List) WriteJSON(json *jwriter.ObjectState) {
	var stats memutils.DetailedStatistics
	stats.Clear()
	l.AddDetailedStatistics(&stats)

	json.Name("TotalSize").Int(stats.TotalSize)
	json.Name("FreeSize").Int(stats.FreeSize())
	json.Name("Allocations").Int(stats.AllocationCount)
	json.Name("Holes").Int(stats.HoleCount)

	spans := json.Name("Spans").Array()
	defer spans.End()

	for _, span := range l.Spans() {
		obj := spans.Object()
		obj.Name("Offset").Int(span.Start)
		obj.Name("Size").Int(span.Size)
		if span.Owner.IsFree() {
			obj.Name("Type").String("Free")
		} else {
			obj.Name("Type").String("Process")
			obj.Name("Process").Int(int(span.Owner.Process))
			obj.Name("Lifetime").Int(span.Owner.Lifetime)
		}
		obj.End()
	}
}
