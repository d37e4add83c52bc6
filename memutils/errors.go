package memutils

import "github.com/cockroachdb/errors"

// InvalidSizeError is returned when a request or address space is given a size smaller than one unit
var InvalidSizeError error = errors.New("size must be at least one unit")

// RequestTooLargeError is returned when a request could never fit in the address space, even when
// the address space is completely free
var RequestTooLargeError error = errors.New("request is larger than the address space")

// RegionNotFreeError is returned when an occupancy is inserted at a span that is not free
var RegionNotFreeError error = errors.New("region is not free")
