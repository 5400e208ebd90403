package simulator

import "errors"

var (
	// ErrGDataIndex signals SetGData was called with an out-of-range index.
	ErrGDataIndex = errors.New("simulator: gdata index out of range")

	// ErrLDataIndex signals SetLData was called with an out-of-range row or
	// column.
	ErrLDataIndex = errors.New("simulator: ldata index out of range")

	// ErrNilEventTable signals a Handle was constructed without an event
	// table.
	ErrNilEventTable = errors.New("simulator: event table is required")

	// ErrNilRunner signals a Handle was constructed without a Runner.
	ErrNilRunner = errors.New("simulator: runner is required")
)
