package events

import (
	"fmt"
	"sort"
)

// ReplicateFirstNode expands the event side of a first-node replication:
// the first-node (node == 1) subset of the source table's events is
// expanded into n copies with the node field offset by 0..n-1; rows for
// other nodes are not carried over. dest, n, proportion, select, shift,
// and time are carried unchanged into every copy.
//
// ExtTransfer events are rejected: an external transfer names a concrete
// destination node, which replication would have to remap in some
// unspecified way, so it is disallowed under this mode outright.
func ReplicateFirstNode(t *EventTable, n int) (*EventTable, error) {
	if n < 1 {
		return nil, fmt.Errorf("events: ReplicateFirstNode: n must be >= 1, got %d", n)
	}

	rows := t.Rows()
	first := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Kind == ExtTransfer {
			return nil, ErrReplicateExtTransfer
		}
		if r.Node == 1 {
			first = append(first, r)
		}
	}
	if len(first) == 0 {
		return nil, ErrNoFirstNodeEvents
	}

	replicated := make([]Row, 0, len(first)*n)
	for i := 0; i < n; i++ {
		for _, r := range first {
			row := r
			row.Node = r.Node + i // offsets 0..n-1; source rows are node==1
			replicated = append(replicated, row)
		}
	}

	out := &EventTable{
		rows:       replicated,
		timeOrigin: t.timeOrigin,
		kindOrigin: t.kindOrigin,
		sel:        t.sel,
		shift:      t.shift,
	}
	// Re-establish execution order: interleaving n copies by node breaks
	// the (time, kind, select) sort NewEventTable would otherwise enforce.
	sort.SliceStable(out.rows, func(i, j int) bool { return RowLess(out.rows[i], out.rows[j]) })
	return out, nil
}
