package simulator_test

import (
	"context"
	"testing"

	"github.com/dhelms-lab/abcsmc/events"
	"github.com/dhelms-lab/abcsmc/simulator"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type fakeRunner struct{ calls int }

func (r *fakeRunner) Run(ctx context.Context, model simulator.Model) (simulator.Trajectory, error) {
	r.calls++
	return "trajectory", nil
}

func newTestTable(t *testing.T) *events.EventTable {
	t.Helper()
	tbl, err := events.NewEventTable([]events.RawRow{
		{Event: events.Enter, Time: 1, Node: 1, N: 5, Select: 1},
	})
	require.NoError(t, err)
	return tbl
}

func TestHandleSetGData(t *testing.T) {
	h, err := simulator.NewHandle(&fakeRunner{}, newTestTable(t), []string{"beta", "gamma"}, []float64{0, 0}, nil, nil, nil)
	require.NoError(t, err)

	require.NoError(t, h.SetGData(1, 0.3))
	_, err = h.Run(context.Background(), "model")
	require.NoError(t, err)

	err = h.SetGData(5, 0.1)
	require.ErrorIs(t, err, simulator.ErrGDataIndex)
}

func TestHandleCloneIndependence(t *testing.T) {
	h, err := simulator.NewHandle(&fakeRunner{}, newTestTable(t), []string{"beta"}, []float64{0}, nil, nil, nil)
	require.NoError(t, err)

	clone := h.Clone()
	require.NoError(t, clone.SetGData(0, 1.0))
	// original must be unaffected by the mutation on its clone
	require.Equal(t, []float64{0}, h.GData())
}

func TestHandleReplicateFirstNode(t *testing.T) {
	ldata := mat.NewDense(2, 1, []float64{1, 2})
	h, err := simulator.NewHandle(&fakeRunner{}, newTestTable(t), nil, nil, []string{"S", "I"}, ldata, nil)
	require.NoError(t, err)

	replicated, err := h.ReplicateFirstNode(3)
	require.NoError(t, err)
	require.Len(t, replicated.Events().Rows(), 3)
}
