package placement

import "github.com/Pickles91/ContiguousMemoryAllocation/memutils/region"

// BestFit selects the tightest free span. Ties go to the lowest address.
type BestFit struct{}

var _ Policy = BestFit{}

func (BestFit) Strategy() Strategy { return StrategyBestFit }

func (BestFit) Select(spans []region.FreeSpan, size int) (region.FreeSpan, bool) {
	var best region.FreeSpan
	found := false

	for _, span := range spans {
		if span.Capacity < size {
			continue
		}

		if !found || span.Capacity < best.Capacity {
			best = span
			found = true
		}
	}

	return best, found
}

func (BestFit) Placed(address int) {}

func (p BestFit) Clone() Policy { return p }
