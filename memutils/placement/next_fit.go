package placement

import "github.com/Pickles91/ContiguousMemoryAllocation/memutils/region"

// NextFit selects the first free span large enough for the allocation, scanning circularly from just
// past the span that received the previous allocation.
//
// The cursor is kept as the address of the previous placement rather than a marker index. Markers
// are inserted, reclaimed and coalesced between searches, so an index would go stale; an address
// always resolves to whichever span covers it now.
type NextFit struct {
	cursor int
}

var _ Policy = &NextFit{}

func (p *NextFit) Strategy() Strategy { return StrategyNextFit }

// Cursor is the address at which the previous allocation was placed
func (p *NextFit) Cursor() int { return p.cursor }

func (p *NextFit) Select(spans []region.FreeSpan, size int) (region.FreeSpan, bool) {
	// Spans opening after the cursor come after the cursor's span in address order. Everything else,
	// up to and including the span covering the cursor, is reached after wrapping around.
	for _, span := range spans {
		if span.Start > p.cursor && span.Capacity >= size {
			return span, true
		}
	}

	for _, span := range spans {
		if span.Start > p.cursor {
			break
		}
		if span.Capacity >= size {
			return span, true
		}
	}

	return region.FreeSpan{}, false
}

func (p *NextFit) Placed(address int) {
	p.cursor = address
}

func (p *NextFit) Clone() Policy {
	clone := *p
	return &clone
}
