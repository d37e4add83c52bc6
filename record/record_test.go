package record_test

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/engine"
	"github.com/Pickles91/ContiguousMemoryAllocation/record"
	"github.com/Pickles91/ContiguousMemoryAllocation/sim"
	"github.com/rs/xid"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

var logger = slog.New(slog.NewTextHandler(io.Discard))

func runResults(t *testing.T, memorySize int, requests ...engine.Request) *sim.Results {
	results, err := sim.Run(context.Background(), sim.Options{Logger: logger, MemorySize: memorySize}, requests)
	require.NoError(t, err)
	results.RunID = xid.NilID()
	return results
}

func TestExport(t *testing.T) {
	results := runResults(t, 16, engine.Request{Process: 0, Size: 8, Lifetime: 1})

	var buf bytes.Buffer
	require.NoError(t, record.Export(&buf, results))

	history := `{
		"Truncated": false,
		"Snapshots": {
			"1": {
				"Tick": 1,
				"TotalSize": 16,
				"FreeSize": 8,
				"Allocations": 1,
				"Holes": 1,
				"Spans": [
					{"Offset": 0, "Size": 8, "Type": "Process", "Process": 0, "Lifetime": 1},
					{"Offset": 8, "Size": 8, "Type": "Free"}
				],
				"Pending": []
			}
		}
	}`
	summary := `{"Strategy": %q, "Ticks": 1, "Placements": 1, "Unplaced": 0, "MeanWait": 0,
		"MaxWait": 0, "PeakHoles": 1, "MinPercentFree": 50, "MeanPercentFree": 50, "LargestHole": 8}`

	expected := `{
		"RunID": "00000000000000000000",
		"MemorySize": 16,
		"Ticks": 1,
		"Requests": [{"Process": 0, "Size": 8, "Lifetime": 1}],
		"Summary": [` + strings.Join([]string{
		fmt.Sprintf(summary, "BestFit"),
		fmt.Sprintf(summary, "WorstFit"),
		fmt.Sprintf(summary, "NextFit"),
	}, ",") + `],
		"Strategies": {
			"BestFit": ` + history + `,
			"WorstFit": ` + history + `,
			"NextFit": ` + history + `
		}
	}`

	require.JSONEq(t, expected, buf.String())
}

func TestTrace(t *testing.T) {
	results := runResults(t, 32,
		engine.Request{Process: 0, Size: 24, Lifetime: 2},
		engine.Request{Process: 1, Size: 16, Lifetime: 1},
	)
	path := filepath.Join(t.TempDir(), "trace.sqlite3")

	written, err := record.Trace(logger, path, results)
	require.NoError(t, err)
	require.Equal(t, path, written)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	count := func(query string, args ...any) int {
		var n int
		require.NoError(t, db.QueryRow(query, args...).Scan(&n))
		return n
	}

	require.Equal(t, 1, count(`SELECT COUNT(*) FROM run WHERE run_id = ?`, results.RunID.String()))
	require.Equal(t, 2, count(`SELECT COUNT(*) FROM request`))

	var expectedSpans, expectedPending int
	for _, history := range results.Histories {
		for _, snapshot := range history.Snapshots {
			expectedSpans += len(snapshot.Spans())
			expectedPending += len(snapshot.Pending)
		}
	}
	require.Equal(t, expectedSpans, count(`SELECT COUNT(*) FROM snapshot_span`))
	require.Equal(t, expectedPending, count(`SELECT COUNT(*) FROM snapshot_pending`))

	// P1 waits behind P0 on the first two ticks
	require.Equal(t, 2, count(`SELECT COUNT(*) FROM snapshot_pending WHERE strategy = 'BestFit' AND process = 1`))
	require.Equal(t, 1, count(`SELECT COUNT(*) FROM snapshot_span WHERE strategy = 'NextFit' AND tick = 1 AND kind = 'Free' AND process IS NULL`))

	_, err = record.Trace(logger, path, results)
	require.ErrorContains(t, err, "already exists")
}

func TestTraceWritesInBatches(t *testing.T) {
	results := runResults(t, 64,
		engine.Request{Process: 0, Size: 10, Lifetime: 3},
		engine.Request{Process: 1, Size: 10, Lifetime: 2},
		engine.Request{Process: 2, Size: 10, Lifetime: 1},
	)
	path := filepath.Join(t.TempDir(), "batched.sqlite3")

	w := record.NewSQLiteTraceWriter(logger, path)
	w.SetBatchSize(2)
	require.NoError(t, w.Init(results.RunID))
	require.NoError(t, w.WriteRun(results))

	var spans int
	for _, snapshot := range results.History(results.Histories[0].Strategy).Snapshots {
		require.NoError(t, w.WriteSnapshot(snapshot))
		spans += len(snapshot.Spans())
	}
	require.NoError(t, w.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM snapshot_span`).Scan(&n))
	require.Equal(t, spans, n)
}

func TestFlushBeforeInitFails(t *testing.T) {
	w := record.NewSQLiteTraceWriter(logger, filepath.Join(t.TempDir(), "unused.sqlite3"))
	results := runResults(t, 8, engine.Request{Process: 0, Size: 8, Lifetime: 1})

	w.SetBatchSize(1000)
	require.NoError(t, w.WriteSnapshot(results.Histories[0].Snapshots[0]))
	require.Error(t, w.Flush())
	require.NoError(t, w.Close())
}
