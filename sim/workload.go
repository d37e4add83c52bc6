package sim

import (
	"math/rand"

	"github.com/Pickles91/ContiguousMemoryAllocation/config"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/engine"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/region"
)

// GenerateWorkload creates cfg.NumProc requests with process ids 0 through NumProc-1. Sizes are
// drawn uniformly from [1, ProcSizeMax] and lifetimes from [1, MaxLifetime] ticks. The same rng
// seed always produces the same workload.
func GenerateWorkload(rng *rand.Rand, cfg config.Config) []engine.Request {
	requests := make([]engine.Request, 0, cfg.NumProc)
	for i := 0; i < cfg.NumProc; i++ {
		requests = append(requests, engine.Request{
			Process:  region.Pid(i),
			Size:     1 + rng.Intn(cfg.ProcSizeMax),
			Lifetime: 1 + rng.Intn(cfg.MaxLifetime()),
		})
	}
	return requests
}
