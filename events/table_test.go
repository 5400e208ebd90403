package events_test

import (
	"testing"
	"time"

	"github.com/dhelms-lab/abcsmc/events"
	"github.com/stretchr/testify/require"
)

// TestDeterministicSort verifies rows given out of order come back sorted
// by (time, kind, select).
func TestDeterministicSort(t *testing.T) {
	rows := []events.RawRow{
		{Event: 0, Time: 3, Node: 1, Proportion: 0, Select: 1},
		{Event: 1, Time: 1, Node: 1, Proportion: 0, Select: 2},
		{Event: 0, Time: 1, Node: 1, Proportion: 0, Select: 1},
		{Event: 0, Time: 1, Node: 1, Proportion: 0, Select: 2},
	}
	tbl, err := events.NewEventTable(rows)
	require.NoError(t, err)

	got := tbl.Rows()
	require.Len(t, got, 4)
	want := [][3]int{{1, 0, 1}, {1, 0, 2}, {1, 1, 2}, {3, 0, 1}}
	for i, w := range want {
		require.Equal(t, w[0], got[i].Time, "row %d time", i)
		require.Equal(t, events.Kind(w[1]), got[i].Kind, "row %d kind", i)
		require.Equal(t, w[2], got[i].Select, "row %d select", i)
	}
}

// TestRoundTrip checks EventTable -> ToRows -> EventTable preserves fields
// and order, including string kinds and calendar-date times.
func TestRoundTrip(t *testing.T) {
	origin := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []events.RawRow{
		{Event: "enter", Time: origin.AddDate(0, 0, 5), Node: 1, N: 2, Select: 1},
		{Event: "exit", Time: origin.AddDate(0, 0, 2), Node: 1, N: 1, Select: 1},
	}
	tbl, err := events.NewEventTable(rows, events.WithDateOrigin(origin))
	require.NoError(t, err)

	rendered := tbl.ToRows()
	require.Len(t, rendered, 2)
	require.Equal(t, "exit", rendered[0].Event)
	require.Equal(t, origin.AddDate(0, 0, 2), rendered[0].Time)
	require.Equal(t, "enter", rendered[1].Event)
	require.Equal(t, origin.AddDate(0, 0, 5), rendered[1].Time)

	tbl2, err := events.NewEventTable(rendered, events.WithDateOrigin(origin))
	require.NoError(t, err)
	require.Equal(t, tbl.Rows(), tbl2.Rows())
}

// TestValidationErrors exercises each event table construction invariant.
func TestValidationErrors(t *testing.T) {
	base := events.RawRow{Event: 0, Time: 1, Node: 1, Proportion: 0.5, Select: 1}

	t.Run("empty table", func(t *testing.T) {
		_, err := events.NewEventTable(nil)
		require.ErrorIs(t, err, events.ErrEmptyTable)
	})

	t.Run("bad kind", func(t *testing.T) {
		row := base
		row.Event = 7
		_, err := events.NewEventTable([]events.RawRow{row})
		require.ErrorIs(t, err, events.ErrInvalidKind)
	})

	t.Run("non-positive time", func(t *testing.T) {
		row := base
		row.Time = 0
		_, err := events.NewEventTable([]events.RawRow{row})
		require.ErrorIs(t, err, events.ErrInvalidTime)
	})

	t.Run("bad node", func(t *testing.T) {
		row := base
		row.Node = 0
		_, err := events.NewEventTable([]events.RawRow{row})
		require.ErrorIs(t, err, events.ErrInvalidNode)
	})

	t.Run("missing dest on extTrans", func(t *testing.T) {
		row := base
		row.Event = events.ExtTransfer
		_, err := events.NewEventTable([]events.RawRow{row})
		require.ErrorIs(t, err, events.ErrMissingDest)
	})

	t.Run("missing shift on intTrans", func(t *testing.T) {
		row := base
		row.Event = events.IntTransfer
		_, err := events.NewEventTable([]events.RawRow{row})
		require.ErrorIs(t, err, events.ErrMissingShift)
	})

	t.Run("proportion out of range", func(t *testing.T) {
		row := base
		row.Proportion = 1.5
		_, err := events.NewEventTable([]events.RawRow{row})
		require.ErrorIs(t, err, events.ErrInvalidProportion)
	})

	t.Run("select below one", func(t *testing.T) {
		row := base
		row.Select = 0
		_, err := events.NewEventTable([]events.RawRow{row})
		require.ErrorIs(t, err, events.ErrInvalidSelect)
	})

	t.Run("select beyond E columns", func(t *testing.T) {
		sel, err := events.NewSelectMatrix(2, 1, nil, nil)
		require.NoError(t, err)
		row := base
		row.Select = 2
		_, err = events.NewEventTable([]events.RawRow{row}, events.WithSelectMatrix(sel))
		require.ErrorIs(t, err, events.ErrInvalidSelect)
	})

	t.Run("date without origin", func(t *testing.T) {
		row := base
		row.Time = time.Now()
		_, err := events.NewEventTable([]events.RawRow{row})
		require.ErrorIs(t, err, events.ErrMissingOrigin)
	})
}

// TestReplicateFirstNode verifies node-0 event replication expands one
// first-node row into n copies with distinct node offsets.
func TestReplicateFirstNode(t *testing.T) {
	rows := []events.RawRow{
		{Event: 1, Time: 5, Node: 1, Dest: 0, N: 2, Proportion: 0, Select: 1},
	}
	tbl, err := events.NewEventTable(rows)
	require.NoError(t, err)

	replicated, err := events.ReplicateFirstNode(tbl, 3)
	require.NoError(t, err)

	got := replicated.Rows()
	require.Len(t, got, 3)
	seen := map[int]bool{}
	for _, r := range got {
		seen[r.Node] = true
		require.Equal(t, events.Enter, r.Kind)
		require.Equal(t, 5, r.Time)
		require.Equal(t, 0, r.Dest)
		require.Equal(t, 2, r.N)
		require.Equal(t, 0.0, r.Proportion)
		require.Equal(t, 1, r.Select)
	}
	require.Equal(t, map[int]bool{1: true, 2: true, 3: true}, seen)
}

// TestReplicateFirstNodeRejectsExtTransfer enforces the ban on external
// transfers under replication.
func TestReplicateFirstNodeRejectsExtTransfer(t *testing.T) {
	rows := []events.RawRow{
		{Event: events.ExtTransfer, Time: 1, Node: 1, Dest: 2, Select: 1},
	}
	tbl, err := events.NewEventTable(rows)
	require.NoError(t, err)

	_, err = events.ReplicateFirstNode(tbl, 2)
	require.ErrorIs(t, err, events.ErrReplicateExtTransfer)
}

// TestSelectShiftRowLabelMismatch enforces the row-label cross-validation
// between E and N.
func TestSelectShiftRowLabelMismatch(t *testing.T) {
	sel, err := events.NewSelectMatrix(2, 1, []string{"S", "I"}, nil)
	require.NoError(t, err)
	shift, err := events.NewShiftMatrix(2, 1, []string{"S", "R"}, nil)
	require.NoError(t, err)

	rows := []events.RawRow{{Event: 0, Time: 1, Node: 1, Select: 1}}
	_, err = events.NewEventTable(rows, events.WithSelectMatrix(sel), events.WithShiftMatrix(shift))
	require.ErrorIs(t, err, events.ErrRowLabelMismatch)
}
