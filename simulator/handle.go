package simulator

import (
	"context"
	"fmt"

	"github.com/dhelms-lab/abcsmc/events"
	"gonum.org/v1/gonum/mat"
)

// Model is an opaque compiled-model reference the Runner understands.
// The engine never inspects it.
type Model any

// Trajectory is an opaque simulation result. The engine never inspects it,
// only forwards it to the caller's distance function.
type Trajectory any

// Runner executes one stochastic trajectory of a compiled Model. Concrete
// implementations live outside this module (SSA, multi-scale SSA, AEM);
// this interface is the entire surface the engine depends on.
type Runner interface {
	Run(ctx context.Context, model Model) (Trajectory, error)
}

// StateReplicator lets a Runner implementation participate in node-0
// replication by replicating whatever internal initial-condition state
// (u0, v0) it owns. It is optional: a Runner that never targets ldata
// need not implement it.
type StateReplicator interface {
	ReplicateFirstNode(n int) (StateReplicator, error)
}

// Handle is the opaque reference to a compiled model: it owns the
// parameter slots (gdata, ldata) and the scheduled events a proposal
// writes into before Run.
type Handle struct {
	runner Runner
	events *events.EventTable

	gdataNames []string
	gdata      []float64

	ldataNames []string
	ldata      *mat.Dense // compartments (rows) x nodes (cols)

	replicator StateReplicator // may be nil
}

// NewHandle constructs a Handle. gdata and ldata may be nil/empty when the
// model has no parameters in that space.
func NewHandle(runner Runner, tbl *events.EventTable, gdataNames []string, gdata []float64, ldataNames []string, ldata *mat.Dense, replicator StateReplicator) (*Handle, error) {
	if runner == nil {
		return nil, ErrNilRunner
	}
	if tbl == nil {
		return nil, ErrNilEventTable
	}
	return &Handle{
		runner:     runner,
		events:     tbl,
		gdataNames: gdataNames,
		gdata:      append([]float64(nil), gdata...),
		ldataNames: ldataNames,
		ldata:      cloneDense(ldata),
		replicator: replicator,
	}, nil
}

// GDataNames returns the global parameter names, in slot order.
func (h *Handle) GDataNames() []string { return h.gdataNames }

// LDataNames returns the per-node parameter row names.
func (h *Handle) LDataNames() []string { return h.ldataNames }

// Events returns the handle's current event table.
func (h *Handle) Events() *events.EventTable { return h.events }

// GData returns a copy of the current global parameter vector, in
// GDataNames order.
func (h *Handle) GData() []float64 { return append([]float64(nil), h.gdata...) }

// LData returns the current per-node parameter matrix (compartments x
// nodes), or nil if the model has no ldata parameters.
func (h *Handle) LData() *mat.Dense { return cloneDense(h.ldata) }

// SetGData writes gdata[i] = v.
func (h *Handle) SetGData(i int, v float64) error {
	if i < 0 || i >= len(h.gdata) {
		return fmt.Errorf("%w: %d", ErrGDataIndex, i)
	}
	h.gdata[i] = v
	return nil
}

// SetLData writes ldata[row, col] = v.
func (h *Handle) SetLData(row, col int, v float64) error {
	if h.ldata == nil {
		return fmt.Errorf("%w: handle has no ldata", ErrLDataIndex)
	}
	r, c := h.ldata.Dims()
	if row < 0 || row >= r || col < 0 || col >= c {
		return fmt.Errorf("%w: (%d,%d)", ErrLDataIndex, row, col)
	}
	h.ldata.Set(row, col, v)
	return nil
}

// Run delegates to the underlying Runner with the handle's current
// parameter state and event table baked into model construction by the
// caller (the engine treats Model as opaque and does not build it itself).
func (h *Handle) Run(ctx context.Context, model Model) (Trajectory, error) {
	return h.runner.Run(ctx, model)
}

// Clone returns an independent copy of the handle for a parallel worker;
// gdata and ldata are deep-copied, the event table and runner are shared
// (both are immutable/stateless from the engine's point of view).
func (h *Handle) Clone() *Handle {
	return &Handle{
		runner:     h.runner,
		events:     h.events,
		gdataNames: h.gdataNames,
		gdata:      append([]float64(nil), h.gdata...),
		ldataNames: h.ldataNames,
		ldata:      cloneDense(h.ldata),
		replicator: h.replicator,
	}
}

// ReplicateFirstNode clones column 0 of ldata (and, via the optional
// StateReplicator, u0/v0) n times, and replicates the first-node event
// subset n times with the node field offset 0..n-1.
func (h *Handle) ReplicateFirstNode(n int) (*Handle, error) {
	newEvents, err := events.ReplicateFirstNode(h.events, n)
	if err != nil {
		return nil, err
	}

	var newLData *mat.Dense
	if h.ldata != nil {
		rows, _ := h.ldata.Dims()
		newLData = mat.NewDense(rows, n, nil)
		col := mat.Col(nil, 0, h.ldata)
		for j := 0; j < n; j++ {
			newLData.SetCol(j, col)
		}
	}

	var newReplicator StateReplicator
	if h.replicator != nil {
		newReplicator, err = h.replicator.ReplicateFirstNode(n)
		if err != nil {
			return nil, fmt.Errorf("simulator: ReplicateFirstNode: state replication failed: %w", err)
		}
	}

	return &Handle{
		runner:     h.runner,
		events:     newEvents,
		gdataNames: h.gdataNames,
		gdata:      append([]float64(nil), h.gdata...),
		ldataNames: h.ldataNames,
		ldata:      newLData,
		replicator: newReplicator,
	}, nil
}

func cloneDense(m *mat.Dense) *mat.Dense {
	if m == nil {
		return nil
	}
	out := &mat.Dense{}
	out.CloneFrom(m)
	return out
}
