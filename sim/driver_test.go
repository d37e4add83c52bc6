package sim_test

import (
	"context"
	"io"
	"math/rand"
	"testing"

	"github.com/Pickles91/ContiguousMemoryAllocation/config"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/engine"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/placement"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/region"
	"github.com/Pickles91/ContiguousMemoryAllocation/sim"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

var logger = slog.New(slog.NewTextHandler(io.Discard))

var smallWorkload = []engine.Request{
	{Process: 0, Size: 32, Lifetime: 2},
	{Process: 1, Size: 32, Lifetime: 1},
	{Process: 2, Size: 16, Lifetime: 1},
}

func TestGenerateWorkloadIsDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.ProcSizeMax = 100
	cfg.NumProc = 50

	first := sim.GenerateWorkload(rand.New(rand.NewSource(7)), cfg)
	second := sim.GenerateWorkload(rand.New(rand.NewSource(7)), cfg)
	require.Equal(t, first, second)
	require.Len(t, first, 50)

	for i, request := range first {
		require.Equal(t, region.Pid(i), request.Process)
		require.GreaterOrEqual(t, request.Size, 1)
		require.LessOrEqual(t, request.Size, 100)
		require.GreaterOrEqual(t, request.Lifetime, 1)
		require.LessOrEqual(t, request.Lifetime, cfg.MaxLifetime())
	}
}

func TestRun(t *testing.T) {
	results, err := sim.Run(context.Background(), sim.Options{Logger: logger, MemorySize: 64}, smallWorkload)
	require.NoError(t, err)
	require.False(t, results.RunID.IsNil())
	require.Equal(t, 2, results.MaxLen())

	for _, strategy := range placement.Strategies {
		history := results.History(strategy)
		require.Equal(t, strategy, history.Strategy)
		require.False(t, history.Truncated)
		require.Equal(t, 2, history.Len())

		first := history.Snapshots[0]
		require.Equal(t, 1, first.Tick)
		require.Equal(t, []engine.Request{{Process: 2, Size: 16, Lifetime: 1}}, first.Pending)

		second := history.Snapshots[1]
		require.Equal(t, []region.Span{
			{Owner: region.Occupied(0, 1), Start: 0, Size: 32},
			{Owner: region.Occupied(2, 1), Start: 32, Size: 16},
			{Owner: region.Free, Start: 48, Size: 16},
		}, second.Spans())
	}
}

func TestRunMatchesSequentialAllocators(t *testing.T) {
	cfg := config.Default()
	cfg.MemoryMax = 256
	cfg.ProcSizeMax = 96
	cfg.NumProc = 40
	cfg.MaxProcTime = 6000
	requests := sim.GenerateWorkload(rand.New(rand.NewSource(99)), cfg)

	results, err := sim.Run(context.Background(), sim.Options{Logger: logger, MemorySize: cfg.MemoryMax}, requests)
	require.NoError(t, err)

	for _, strategy := range placement.Strategies {
		allocator, err := engine.New(logger, strategy, cfg.MemoryMax)
		require.NoError(t, err)
		for _, request := range requests {
			allocator, err = allocator.Request(request)
			require.NoError(t, err)
		}

		for _, expected := range results.History(strategy).Snapshots {
			var snapshot engine.Snapshot
			snapshot, allocator = allocator.Tick()
			require.True(t, expected.Regions.Equal(snapshot.Regions))
			require.Equal(t, expected.Pending, snapshot.Pending)
			require.NoError(t, snapshot.Regions.Validate())
		}

		final, _ := allocator.Tick()
		require.True(t, final.Done())
	}
}

func TestRunLayoutsStayCoalesced(t *testing.T) {
	rng := rand.New(rand.NewSource(1234))

	for iteration := 0; iteration < 60; iteration++ {
		cfg := config.Default()
		cfg.MemoryMax = 64 + rng.Intn(256)
		cfg.ProcSizeMax = 1 + rng.Intn(cfg.MemoryMax)
		cfg.NumProc = 1 + rng.Intn(30)
		cfg.MaxProcTime = 1000 + rng.Intn(5000)
		requests := sim.GenerateWorkload(rng, cfg)

		results, err := sim.Run(context.Background(), sim.Options{Logger: logger, MemorySize: cfg.MemoryMax}, requests)
		require.NoError(t, err)

		for _, history := range results.Histories {
			for _, snapshot := range history.Snapshots {
				require.NoError(t, snapshot.Regions.Validate())
				require.Zero(t, snapshot.Regions.Clone().Coalesce(), "%s tick %d: %s", history.Strategy, snapshot.Tick, snapshot.Regions)

				var total int
				for _, span := range snapshot.Spans() {
					total += span.Size
				}
				require.Equal(t, cfg.MemoryMax, total)
			}
		}
	}
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	requests := []engine.Request{
		{Process: 0, Size: 8, Lifetime: -1},
		{Process: 1, Size: 8, Lifetime: 1},
	}

	results, err := sim.Run(context.Background(), sim.Options{Logger: logger, MemorySize: 32, MaxTicks: 5}, requests)
	require.NoError(t, err)

	for _, history := range results.Histories {
		require.True(t, history.Truncated)
		require.Equal(t, 5, history.Len())
		require.Equal(t, region.Occupied(0, -1), history.Snapshots[4].Regions.Marker(0).Owner)
	}
}

func TestRunRejectsInvalidRequests(t *testing.T) {
	_, err := sim.Run(context.Background(), sim.Options{Logger: logger, MemorySize: 16},
		[]engine.Request{{Process: 0, Size: 17, Lifetime: 1}})
	require.ErrorIs(t, err, memutils.RequestTooLargeError)
	require.Contains(t, err.Error(), "BestFit simulation failed")
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Run(ctx, sim.Options{Logger: logger, MemorySize: 64}, smallWorkload)
	require.True(t, errors.Is(err, context.Canceled))
}
