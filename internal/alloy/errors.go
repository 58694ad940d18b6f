package alloy

import "errors"

var (
	// ErrInvalidConfiguration is returned when a grid, metal list or run
	// setting violates its construction invariants.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrOutOfRange marks an access outside the grid. It is a programming
	// error and is only ever carried by a panic.
	ErrOutOfRange = errors.New("cell index out of range")
)
