// Package events: sentinel error set (unified, consistent).
//
// This file defines ONLY package-level sentinel errors used across the
// events package. All validation MUST return these sentinels (optionally
// wrapped with fmt.Errorf("%w: ...") for row context) and tests MUST check
// them via errors.Is. No exported constructor panics on caller-triggered
// input; panics are reserved for programmer errors in private helpers.
package events

import "errors"

var (
	// ErrEmptyTable indicates a table with zero rows was rejected; the
	// engine requires at least one event to schedule anything.
	ErrEmptyTable = errors.New("events: table has no rows")

	// ErrInvalidKind signals an event kind outside {0,1,2,3} or an
	// unrecognized string label.
	ErrInvalidKind = errors.New("events: invalid event kind")

	// ErrInvalidTime signals time <= 0 after date-origin normalization.
	ErrInvalidTime = errors.New("events: time must be >= 1")

	// ErrInvalidNode signals node < 1.
	ErrInvalidNode = errors.New("events: node must be >= 1")

	// ErrMissingDest signals a kind=ExtTransfer row with dest < 1.
	ErrMissingDest = errors.New("events: dest is required and must be >= 1 for extTrans events")

	// ErrInvalidCount signals n < 0.
	ErrInvalidCount = errors.New("events: n must be >= 0")

	// ErrInvalidProportion signals proportion outside [0,1].
	ErrInvalidProportion = errors.New("events: proportion must be in [0,1]")

	// ErrInvalidSelect signals select < 1, or select beyond the column
	// count of the supplied Select matrix.
	ErrInvalidSelect = errors.New("events: select is out of range")

	// ErrMissingShift signals a kind=IntTransfer row with shift < 1.
	ErrMissingShift = errors.New("events: shift is required and must be >= 1 for intTrans events")

	// ErrMissingOrigin signals a calendar-date Time value was supplied
	// without a reference day via WithDateOrigin.
	ErrMissingOrigin = errors.New("events: date-valued time requires WithDateOrigin")

	// ErrNegativeEntry signals a negative value in the Select matrix.
	ErrNegativeEntry = errors.New("events: matrix entries must be non-negative")

	// ErrNonIntegerEntry signals a non-integer value in the Shift matrix.
	ErrNonIntegerEntry = errors.New("events: shift matrix entries must be integers")

	// ErrRowLabelMismatch signals that Select and Shift were both supplied
	// but their compartment row labels differ.
	ErrRowLabelMismatch = errors.New("events: select and shift matrices have mismatched row labels")

	// ErrReplicateExtTransfer signals replicate_first_node was invoked on
	// an event set containing an ExtTransfer row, which the replication
	// mode forbids.
	ErrReplicateExtTransfer = errors.New("events: replicate_first_node does not support extTrans events")

	// ErrNoFirstNodeEvents signals replicate_first_node was invoked but no
	// row targets node 1.
	ErrNoFirstNodeEvents = errors.New("events: no events target the first node")
)
