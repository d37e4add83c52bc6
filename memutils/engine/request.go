package engine

import (
	"fmt"

	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/region"
)

// Request asks for Size contiguous units to be held by Process for Lifetime ticks. A Request is
// never modified once it has been issued.
type Request struct {
	Process  region.Pid
	Size     int
	Lifetime int
}

// Owner is the tag the request's span carries once it has been placed
func (r Request) Owner() region.Owner {
	return region.Occupied(r.Process, r.Lifetime)
}

func (r Request) String() string {
	return fmt.Sprintf("P%d[%ds](%dKB)", r.Process, r.Lifetime, r.Size)
}
