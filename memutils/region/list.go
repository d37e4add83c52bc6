package region

import (
	"fmt"
	"strings"

	"github.com/Pickles91/ContiguousMemoryAllocation/memutils"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/slices"
)

// Marker opens a span of address space. The span runs until the Start of the following marker.
type Marker struct {
	Owner Owner
	Start int
}

// Span is a resolved view of a single marker along with its size
type Span struct {
	Owner Owner
	Start int
	Size  int
}

// FreeSpan describes a free span that a placement policy may choose from. Index is the position of
// the span's marker within the List at the moment the FreeSpan was produced.
type FreeSpan struct {
	Index    int
	Start    int
	Capacity int
}

// List represents an address space as an ordered sequence of markers, closed by a Terminator
// marker whose Start is the size of the address space.
//
// Adjacent markers with identical owners are only merged by Coalesce, so between tick phases a
// List may briefly hold duplicates.
type List struct {
	markers []Marker
}

// New creates a List covering size units of address space, all of it free
func New(size int) (*List, error) {
	if err := memutils.CheckSize(size, "address space size"); err != nil {
		return nil, err
	}

	return &List{
		markers: []Marker{
			{Owner: Free, Start: 0},
			{Owner: Terminator, Start: size},
		},
	}, nil
}

// FromMarkers creates a List from an explicit marker layout. The Terminator marker at size is
// appended automatically and must not be included. The resulting List must pass Validate.
func FromMarkers(size int, markers ...Marker) (*List, error) {
	l := &List{markers: make([]Marker, 0, len(markers)+1)}
	l.markers = append(l.markers, markers...)
	l.markers = append(l.markers, Marker{Owner: Terminator, Start: size})

	if err := l.Validate(); err != nil {
		return nil, err
	}

	return l, nil
}

// Clone returns a deep copy of the List. Mutating the copy leaves the original untouched.
func (l *List) Clone() *List {
	return &List{markers: slices.Clone(l.markers)}
}

// Size is the number of units in the address space
func (l *List) Size() int {
	return l.markers[len(l.markers)-1].Start
}

// Len is the number of markers, including the Terminator
func (l *List) Len() int {
	return len(l.markers)
}

// Marker returns the marker at index
func (l *List) Marker(index int) Marker {
	return l.markers[index]
}

// Markers returns a copy of every marker, including the Terminator
func (l *List) Markers() []Marker {
	return slices.Clone(l.markers)
}

// IsEmpty returns true when the whole address space is a single free span
func (l *List) IsEmpty() bool {
	return len(l.markers) == 2 && l.markers[0].Owner.IsFree()
}

// SpanSize returns the size of the span opened by the marker at index
func (l *List) SpanSize(index int) int {
	return l.markers[index+1].Start - l.markers[index].Start
}

// Spans returns every span in address order. The Terminator does not open a span.
func (l *List) Spans() []Span {
	spans := make([]Span, 0, len(l.markers)-1)
	for i := 0; i < len(l.markers)-1; i++ {
		spans = append(spans, Span{
			Owner: l.markers[i].Owner,
			Start: l.markers[i].Start,
			Size:  l.SpanSize(i),
		})
	}
	return spans
}

// FreeSpans returns every free span in address order
func (l *List) FreeSpans() []FreeSpan {
	var spans []FreeSpan
	for i := 0; i < len(l.markers)-1; i++ {
		if !l.markers[i].Owner.IsFree() {
			continue
		}

		spans = append(spans, FreeSpan{
			Index:    i,
			Start:    l.markers[i].Start,
			Capacity: l.SpanSize(i),
		})
	}
	return spans
}

// Insert places an occupied span of size units at the start of the free span opened by the marker at
// index. The free marker is pushed forward by size, and dropped if no free space remains behind it.
//
// Insert trusts the caller to have checked capacity. If the new span runs past the following marker
// the List is no longer consistent and Insert panics with an assertion failure.
func (l *List) Insert(index int, owner Owner, size int) error {
	if index < 0 || index >= len(l.markers)-1 {
		return errors.Newf("span index %d is out of range for a list with %d spans", index, len(l.markers)-1)
	}

	if !l.markers[index].Owner.IsFree() {
		return errors.Wrapf(memutils.RegionNotFreeError, "span at offset %d is owned by %s", l.markers[index].Start, l.markers[index].Owner)
	}

	if !owner.IsOccupied() {
		return errors.Newf("cannot insert a span owned by %s", owner)
	}

	if err := memutils.CheckSize(size, "size"); err != nil {
		return err
	}

	start := l.markers[index].Start
	l.markers = slices.Insert(l.markers, index, Marker{Owner: owner, Start: start})
	l.markers[index+1].Start += size

	// The remaining free marker always has a successor: at worst, the Terminator
	remaining := l.markers[index+1].Start
	next := l.markers[index+2].Start
	switch {
	case next == remaining:
		l.markers = slices.Delete(l.markers, index+1, index+2)
	case next < remaining:
		panic(errors.AssertionFailedf("overlapping memory regions: span [%d, %d) for %s runs past the marker at %d", start, remaining, owner, next))
	}

	return nil
}

// Age decrements the remaining lifetime of every occupied span with a positive lifetime
func (l *List) Age() {
	for i := range l.markers {
		owner := &l.markers[i].Owner
		if owner.IsOccupied() && owner.Lifetime > 0 {
			owner.Lifetime--
		}
	}
}

// Reclaim frees every occupied span whose lifetime has reached zero and returns how many were freed
func (l *List) Reclaim() int {
	var reclaimed int
	for i := range l.markers {
		if l.markers[i].Owner.Expired() {
			l.markers[i].Owner = Free
			reclaimed++
		}
	}
	return reclaimed
}

// Coalesce removes every marker whose owner is identical to the owner of the marker before it, and
// returns how many were removed. The marker at address 0 and the Terminator are always kept.
func (l *List) Coalesce() int {
	merged := make([]Marker, 0, len(l.markers))
	merged = append(merged, l.markers[0])

	for i := 1; i < len(l.markers); i++ {
		if l.markers[i].Owner == l.markers[i-1].Owner {
			continue
		}
		merged = append(merged, l.markers[i])
	}

	removed := len(l.markers) - len(merged)
	l.markers = merged
	return removed
}

// AddDetailedStatistics sums this list's spans into the statistics currently present in stats
func (l *List) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	for i := 0; i < len(l.markers)-1; i++ {
		if l.markers[i].Owner.IsFree() {
			stats.AddHole(l.SpanSize(i))
		} else {
			stats.AddAllocation(l.SpanSize(i))
		}
	}
}

// Equal returns true if both lists hold identical markers
func (l *List) Equal(other *List) bool {
	return slices.Equal(l.markers, other.markers)
}

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, span := range l.Spans() {
		fmt.Fprintf(&sb, "%s(%d)|", span.Owner, span.Size)
	}
	sb.WriteByte(']')
	return sb.String()
}
