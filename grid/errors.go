// SPDX-License-Identifier: MIT

package grid

import "errors"

var (
	// ErrNotCoarsening is returned when a grid's spacing is not an integer
	// multiple of another grid's spacing.
	ErrNotCoarsening = errors.New("grid: other grid is not a coarsening of this one")

	// ErrResolution is returned when a sampling resolution is not a multiple of
	// the cluster shape (or spacing) it has to be split into.
	ErrResolution = errors.New("grid: invalid resolution")

	// ErrDimension is returned when two values of different dimension meet.
	ErrDimension = errors.New("grid: dimension mismatch")
)
