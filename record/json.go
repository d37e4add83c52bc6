package record

import (
	"io"
	"strconv"

	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/engine"
	"github.com/Pickles91/ContiguousMemoryAllocation/sim"
	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

const exportBufferSize = 64 * 1024

// Export streams the complete detailed map of a run to w: the workload, a summary per strategy and
// every snapshot of every strategy
func Export(w io.Writer, results *sim.Results) error {
	writer := jwriter.NewStreamingWriter(w, exportBufferSize)

	obj := writer.Object()
	PrintDetailedMap(&obj, results)
	obj.End()

	if err := writer.Flush(); err != nil {
		return errors.Wrap(err, "could not write run export")
	}
	return errors.Wrap(writer.Error(), "could not write run export")
}

// PrintDetailedMap writes the whole run into json. Histories are keyed by strategy name and
// snapshots by tick.
func PrintDetailedMap(json *jwriter.ObjectState, results *sim.Results) {
	PrintRunHeader(json, results)

	summaries := results.Summarize()
	summaryArray := json.Name("Summary").Array()
	for _, summary := range summaries {
		obj := summaryArray.Object()
		summary.WriteJSON(&obj)
		obj.End()
	}
	summaryArray.End()

	histories := json.Name("Strategies").Object()
	defer histories.End()

	for _, history := range results.Histories {
		historyObj := histories.Name(history.Strategy.String()).Object()
		PrintHistory(&historyObj, history)
		historyObj.End()
	}
}

// PrintRunHeader writes the run id, address space size and workload into json
func PrintRunHeader(json *jwriter.ObjectState, results *sim.Results) {
	json.Name("RunID").String(results.RunID.String())
	json.Name("MemorySize").Int(results.MemorySize)
	json.Name("Ticks").Int(results.MaxLen())

	requests := json.Name("Requests").Array()
	defer requests.End()

	for _, request := range results.Requests {
		obj := requests.Object()
		printRequest(&obj, request)
		obj.End()
	}
}

// PrintHistory writes every snapshot of one strategy into json
func PrintHistory(json *jwriter.ObjectState, history sim.History) {
	json.Name("Truncated").Bool(history.Truncated)

	snapshots := json.Name("Snapshots").Object()
	defer snapshots.End()

	for _, snapshot := range history.Snapshots {
		snapshotObj := snapshots.Name(strconv.Itoa(snapshot.Tick)).Object()
		snapshot.WriteJSON(&snapshotObj)
		snapshotObj.End()
	}
}

func printRequest(json *jwriter.ObjectState, request engine.Request) {
	json.Name("Process").Int(int(request.Process))
	json.Name("Size").Int(request.Size)
	json.Name("Lifetime").Int(request.Lifetime)
}
