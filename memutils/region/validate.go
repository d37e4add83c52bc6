package region

import (
	"github.com/pkg/errors"
)

// Validate performs internal consistency checks on the list. When the allocator is functioning
// correctly, it should not be possible for this method to return an error, but this may assist in
// diagnosing issues with the tick phases.
//
// Adjacent occupied markers with identical owners are accepted. They appear when one process is
// placed twice with the same lifetime during a single drain, and are merged by the next Coalesce.
func (l *List) Validate() error {
	if len(l.markers) < 2 {
		return errors.Errorf("a list needs at least one span and the terminator, but there are %d markers", len(l.markers))
	}

	if l.markers[0].Start != 0 {
		return errors.Errorf("the first marker starts at offset %d rather than 0", l.markers[0].Start)
	}

	last := len(l.markers) - 1
	if !l.markers[last].Owner.IsTerminator() {
		return errors.Errorf("the final marker at offset %d is owned by %s instead of the terminator", l.markers[last].Start, l.markers[last].Owner)
	}

	for i := 0; i < last; i++ {
		marker := l.markers[i]
		next := l.markers[i+1]

		if marker.Owner.IsTerminator() {
			return errors.Errorf("marker at index %d (offset %d) is a terminator but is not the final marker", i, marker.Start)
		}

		if marker.Owner.IsFree() && marker.Owner != Free {
			return errors.Errorf("free marker at offset %d carries owner data %+v", marker.Start, marker.Owner)
		}

		if next.Start <= marker.Start {
			return errors.Errorf("marker at index %d has offset %d, which does not come after offset %d of the previous marker", i+1, next.Start, marker.Start)
		}

		if marker.Owner.IsFree() && next.Owner.IsFree() {
			return errors.Errorf("free markers at offsets %d and %d are adjacent and should have been coalesced", marker.Start, next.Start)
		}
	}

	return nil
}
