package sim

import (
	"context"
	"sync"

	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/engine"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/placement"
	"github.com/cockroachdb/errors"
	"github.com/rs/xid"
	"golang.org/x/exp/slog"
)

// Options controls a simulation run
type Options struct {
	Logger *slog.Logger
	// MemorySize is the size of the address space every strategy starts with
	MemorySize int
	// MaxTicks stops each strategy after this many ticks even if it has not finished. Zero means no
	// limit, which is only safe when no request has a negative lifetime.
	MaxTicks int
}

// History is every snapshot one strategy produced during a run, in tick order. The final tick, in
// which the address space became completely free, is not included.
type History struct {
	Strategy  placement.Strategy
	Snapshots []engine.Snapshot
	// Truncated is true if the strategy was stopped by Options.MaxTicks before it finished
	Truncated bool
}

// Len is the number of snapshots in the history
func (h History) Len() int {
	return len(h.Snapshots)
}

// Results holds the outcome of running every strategy over one workload
type Results struct {
	RunID      xid.ID
	MemorySize int
	Requests   []engine.Request
	Histories  [3]History
}

// History returns the history recorded for strategy
func (r *Results) History(strategy placement.Strategy) History {
	return r.Histories[strategy.Index()]
}

// MaxLen is the length of the longest history
func (r *Results) MaxLen() int {
	var length int
	for _, history := range r.Histories {
		length = max(length, history.Len())
	}
	return length
}

// Run simulates every placement strategy over the same requests, each strategy on its own
// goroutine. If any strategy fails, the whole run fails and no results are returned.
func Run(ctx context.Context, options Options, requests []engine.Request) (*Results, error) {
	results := &Results{
		RunID:      xid.New(),
		MemorySize: options.MemorySize,
		Requests:   requests,
	}

	logger := options.Logger.With(slog.String("RunID", results.RunID.String()))
	logger.Info("Simulation::Run",
		slog.Int("MemorySize", options.MemorySize),
		slog.Int("Requests", len(requests)),
		slog.Int("MaxTicks", options.MaxTicks),
	)

	var failures [3]error
	var wg sync.WaitGroup

	for _, strategy := range placement.Strategies {
		wg.Add(1)
		go func(strategy placement.Strategy) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failures[strategy.Index()] = recoveredError(strategy, r)
				}
			}()

			history, err := simulate(ctx, logger, options, strategy, requests)
			if err != nil {
				failures[strategy.Index()] = errors.Wrapf(err, "%s simulation failed", strategy)
				return
			}
			results.Histories[strategy.Index()] = history
		}(strategy)
	}

	wg.Wait()

	var err error
	for _, failure := range failures {
		err = errors.CombineErrors(err, failure)
	}
	if err != nil {
		logger.Error("simulation aborted", slog.Any("error", err))
		return nil, err
	}

	return results, nil
}

// newAllocator builds the allocator each strategy goroutine starts from
var newAllocator = engine.New

func recoveredError(strategy placement.Strategy, r any) error {
	if err, isErr := r.(error); isErr {
		return errors.NewAssertionErrorWithWrappedErrf(err, "%s simulation aborted", strategy)
	}
	return errors.AssertionFailedf("%s simulation aborted: %v", strategy, r)
}

func simulate(ctx context.Context, logger *slog.Logger, options Options, strategy placement.Strategy, requests []engine.Request) (History, error) {
	allocator, err := newAllocator(logger, strategy, options.MemorySize)
	if err != nil {
		return History{}, err
	}

	for _, request := range requests {
		allocator, err = allocator.Request(request)
		if err != nil {
			return History{}, err
		}
	}

	history := History{Strategy: strategy}
	for {
		if err := ctx.Err(); err != nil {
			return History{}, err
		}

		if options.MaxTicks > 0 && history.Len() >= options.MaxTicks {
			history.Truncated = true
			break
		}

		var snapshot engine.Snapshot
		snapshot, allocator = allocator.Tick()
		if snapshot.Done() {
			break
		}
		history.Snapshots = append(history.Snapshots, snapshot)
	}

	logger.Info("Simulation finished",
		slog.String("Strategy", strategy.String()),
		slog.Int("Ticks", history.Len()),
		slog.Bool("Truncated", history.Truncated),
	)
	return history, nil
}
