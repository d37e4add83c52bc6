package placement

import "github.com/Pickles91/ContiguousMemoryAllocation/memutils/region"

// WorstFit selects the largest free span. Ties go to the lowest address.
type WorstFit struct{}

var _ Policy = WorstFit{}

func (WorstFit) Strategy() Strategy { return StrategyWorstFit }

func (WorstFit) Select(spans []region.FreeSpan, size int) (region.FreeSpan, bool) {
	var worst region.FreeSpan
	found := false

	for _, span := range spans {
		if span.Capacity < size {
			continue
		}

		if !found || span.Capacity > worst.Capacity {
			worst = span
			found = true
		}
	}

	return worst, found
}

func (WorstFit) Placed(address int) {}

func (p WorstFit) Clone() Policy { return p }
