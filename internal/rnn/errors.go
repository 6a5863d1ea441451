package rnn

import "errors"

var (
	// ErrInvalidConfiguration is returned for bad cell construction
	// arguments, such as a non-positive unit count.
	ErrInvalidConfiguration = errors.New("rnn: invalid configuration")

	// ErrShapeMismatch is returned when an argument's shape disagrees with
	// the cell's fixed unit or input dimensions. It is always detected
	// before any computation runs; no operation produces partial results.
	ErrShapeMismatch = errors.New("rnn: shape mismatch")
)
