package memutils

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// CheckSize verifies that a size is usable as a span or request size
func CheckSize[T constraints.Integer](size T, name string) error {
	if size < 1 {
		return errors.Wrapf(InvalidSizeError, "%s is %d", name, size)
	}
	return nil
}

// CheckFits verifies that a request of the provided size could be placed in an empty address space
// of addressSpace units
func CheckFits[T constraints.Integer](size, addressSpace T) error {
	if size > addressSpace {
		return errors.Wrapf(RequestTooLargeError, "size %d exceeds address space of %d", size, addressSpace)
	}
	return nil
}

// PercentOf returns part as an integer percentage of whole, rounding down. A zero whole yields zero.
func PercentOf(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return part * 100 / whole
}
