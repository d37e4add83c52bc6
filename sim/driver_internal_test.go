package sim

import (
	"context"
	"io"
	"testing"

	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/engine"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/placement"
	mock_placement "github.com/Pickles91/ContiguousMemoryAllocation/memutils/placement/mocks"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/region"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slog"
)

func TestRecoveredError(t *testing.T) {
	cause := errors.AssertionFailedf("overlapping memory regions")
	err := recoveredError(placement.StrategyNextFit, cause)
	require.True(t, errors.IsAssertionFailure(err))
	require.Contains(t, err.Error(), "NextFit simulation aborted")
	require.Contains(t, err.Error(), "overlapping memory regions")

	err = recoveredError(placement.StrategyBestFit, "boom")
	require.True(t, errors.IsAssertionFailure(err))
	require.Contains(t, err.Error(), "boom")
}

func TestRunAbortsWhenAStrategyPanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	policy := mock_placement.NewMockPolicy(ctrl)
	policy.EXPECT().Strategy().Return(placement.StrategyNextFit).AnyTimes()
	policy.EXPECT().Clone().Return(policy).AnyTimes()
	// Reports a span far smaller than anything requested
	policy.EXPECT().Select(gomock.Any(), gomock.Any()).Return(region.FreeSpan{Index: 0, Start: 0, Capacity: 1}, true).AnyTimes()

	t.Cleanup(func() { newAllocator = engine.New })
	newAllocator = func(logger *slog.Logger, strategy placement.Strategy, size int) (*engine.Allocator, error) {
		if strategy != placement.StrategyNextFit {
			return engine.New(logger, strategy, size)
		}

		regions, err := region.New(size)
		if err != nil {
			return nil, err
		}
		return engine.NewWithPolicy(logger, policy, regions), nil
	}

	logger := slog.New(slog.NewTextHandler(io.Discard))
	results, err := Run(context.Background(), Options{Logger: logger, MemorySize: 64}, []engine.Request{
		{Process: 0, Size: 8, Lifetime: 2},
		{Process: 1, Size: 4, Lifetime: 1},
	})
	require.Nil(t, results)
	require.Error(t, err)
	require.True(t, errors.IsAssertionFailure(err))
	require.Contains(t, err.Error(), "NextFit simulation aborted")
	require.Contains(t, err.Error(), "capacity 1")
	require.NotContains(t, err.Error(), "BestFit")
	require.NotContains(t, err.Error(), "WorstFit")
}
