package placement

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Strategy identifies one of the placement policies that decides which free span receives a new
// allocation
type Strategy uint32

const (
	// StrategyBestFit chooses the smallest free span that can hold the allocation, leaving the
	// smallest possible leftover hole
	StrategyBestFit Strategy = iota + 1
	// StrategyWorstFit chooses the largest free span, leaving the largest possible leftover hole
	StrategyWorstFit
	// StrategyNextFit chooses the first free span that can hold the allocation, resuming the search
	// just past the previous placement and wrapping around to the start of the address space
	StrategyNextFit
)

// Strategies lists every strategy in the order simulations report them
var Strategies = []Strategy{StrategyBestFit, StrategyWorstFit, StrategyNextFit}

var strategyMapping = map[Strategy]string{
	StrategyBestFit:  "BestFit",
	StrategyWorstFit: "WorstFit",
	StrategyNextFit:  "NextFit",
}

func (s Strategy) String() string {
	return strategyMapping[s]
}

// Index is the position of the strategy within Strategies
func (s Strategy) Index() int {
	return int(s) - 1
}

// ParseStrategy accepts a strategy name such as "best-fit", "BestFit" or "best" in any case
func ParseStrategy(name string) (Strategy, error) {
	normalized := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	normalized = strings.TrimSuffix(normalized, "fit")

	switch normalized {
	case "best":
		return StrategyBestFit, nil
	case "worst":
		return StrategyWorstFit, nil
	case "next":
		return StrategyNextFit, nil
	}

	return 0, errors.Newf("unknown placement strategy %q", name)
}
