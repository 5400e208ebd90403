package events

import "fmt"

// Kind is the normalized, integer event type. String labels supplied at
// construction time are remapped through this fixed table and remembered
// (see kindOrigin) so the table can be rendered back to labels.
type Kind int

const (
	// Exit removes individuals from a compartment.
	Exit Kind = iota
	// Enter introduces individuals into a compartment.
	Enter
	// IntTransfer moves individuals between compartments within a node.
	IntTransfer
	// ExtTransfer moves individuals from one node to another.
	ExtTransfer
)

// kindLabels is the fixed string<->Kind mapping used by the CSV format.
var kindLabels = [...]string{"exit", "enter", "intTrans", "extTrans"}

// String renders k using the fixed label table.
func (k Kind) String() string {
	if k < Exit || k > ExtTransfer {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindLabels[k]
}

// ParseKind maps a label onto its Kind, or ErrInvalidKind if unrecognized.
func ParseKind(label string) (Kind, error) {
	for i, l := range kindLabels {
		if l == label {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKind, label)
}

// validKind reports whether k falls within the fixed enum range.
func validKind(k Kind) bool {
	return k >= Exit && k <= ExtTransfer
}

// Row is one normalized, integer-typed scheduled event. Row is the shape
// EventTable stores and sorts internally; RawRow is the shape callers
// supply and receive back, which may carry string kinds or calendar dates.
type Row struct {
	Kind       Kind
	Time       int
	Node       int
	Dest       int // 0 unless Kind == ExtTransfer
	N          int
	Proportion float64
	Select     int
	Shift      int // 0 unless Kind == IntTransfer
}

// RawRow is the caller-facing event shape: Event and Time accept either
// their normalized integer form or their human-readable form (a string
// kind label, a calendar date). NewEventTable normalizes every RawRow into
// a Row and records enough metadata to reverse the normalization in ToRows.
type RawRow struct {
	// Event is either a Kind/int in [0,3] or one of the kindLabels strings.
	Event any
	// Time is either an int (already relative to some origin) or a
	// time.Time (requires WithDateOrigin).
	Time       any
	Node       int
	Dest       int
	N          int
	Proportion float64
	Select     int
	Shift      int
}
