package memutils

import "math"

// Statistics holds simple free/used totals for an address space
type Statistics struct {
	SpanCount       int
	AllocationCount int
	TotalSize       int
	AllocationSize  int
}

func (s *Statistics) Clear() {
	s.SpanCount = 0
	s.AllocationCount = 0
	s.TotalSize = 0
	s.AllocationSize = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.SpanCount += other.SpanCount
	s.AllocationCount += other.AllocationCount
	s.TotalSize += other.TotalSize
	s.AllocationSize += other.AllocationSize
}

// FreeSize is the number of units not covered by an allocation
func (s *Statistics) FreeSize() int {
	return s.TotalSize - s.AllocationSize
}

// PercentFree is the free share of the address space as an integer percentage, rounded down
func (s *Statistics) PercentFree() int {
	return PercentOf(s.FreeSize(), s.TotalSize)
}

// DetailedStatistics extends Statistics with hole counts and size extremes. Clear must be called
// before use so the minimums start out at math.MaxInt.
type DetailedStatistics struct {
	Statistics
	HoleCount         int
	AllocationSizeMin int
	AllocationSizeMax int
	HoleSizeMin       int
	HoleSizeMax       int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.HoleCount = 0
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
	s.HoleSizeMin = math.MaxInt
	s.HoleSizeMax = 0
}

func (s *DetailedStatistics) AddHole(size int) {
	s.SpanCount++
	s.TotalSize += size
	s.HoleCount++

	if size < s.HoleSizeMin {
		s.HoleSizeMin = size
	}

	if size > s.HoleSizeMax {
		s.HoleSizeMax = size
	}
}

func (s *DetailedStatistics) AddAllocation(size int) {
	s.SpanCount++
	s.TotalSize += size
	s.AllocationCount++
	s.AllocationSize += size

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.HoleCount += other.HoleCount

	if other.HoleSizeMin < s.HoleSizeMin {
		s.HoleSizeMin = other.HoleSizeMin
	}

	if other.HoleSizeMax > s.HoleSizeMax {
		s.HoleSizeMax = other.HoleSizeMax
	}

	if other.AllocationSizeMin < s.AllocationSizeMin {
		s.AllocationSizeMin = other.AllocationSizeMin
	}

	if other.AllocationSizeMax > s.AllocationSizeMax {
		s.AllocationSizeMax = other.AllocationSizeMax
	}
}
