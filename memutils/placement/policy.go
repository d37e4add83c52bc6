package placement

//go:generate mockgen -source=policy.go -destination=mocks/mock_policy.go -package=mock_placement

import (
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/region"
	"github.com/cockroachdb/errors"
)

// Policy decides where in an address space a new allocation should be placed. Policies may carry
// state between placements (NextFit remembers where it last placed), so every simulation step works
// on its own Clone.
type Policy interface {
	// Strategy identifies the policy
	Strategy() Strategy
	// Select receives every free span currently in the address space, in address order, and returns
	// the one that should receive an allocation of size units. The boolean is false if no span is
	// chosen, which callers treat as "does not fit right now" rather than as an error.
	Select(spans []region.FreeSpan, size int) (region.FreeSpan, bool)
	// Placed informs the policy that an allocation was committed at address
	Placed(address int)
	// Clone returns an independent copy of the policy and its state
	Clone() Policy
}

// New creates a fresh Policy for the provided strategy
func New(strategy Strategy) (Policy, error) {
	switch strategy {
	case StrategyBestFit:
		return BestFit{}, nil
	case StrategyWorstFit:
		return WorstFit{}, nil
	case StrategyNextFit:
		return &NextFit{}, nil
	}

	return nil, errors.Newf("unknown placement strategy %d", strategy)
}
