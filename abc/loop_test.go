package abc_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/dhelms-lab/abcsmc/abc"
	"github.com/dhelms-lab/abcsmc/config"
	"github.com/dhelms-lab/abcsmc/events"
	"github.com/dhelms-lab/abcsmc/priors"
	"github.com/dhelms-lab/abcsmc/simulator"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// fakeRunner treats the target as a point (x, y) and reports distance to
// the origin, so a tightening tolerance schedule visibly shrinks the
// accepted region without needing any real stochastic simulator.
type fakeRunner struct{}

func (fakeRunner) Run(ctx context.Context, model simulator.Model) (simulator.Trajectory, error) {
	return model, nil
}

func newTestEventTable(t *testing.T) *events.EventTable {
	t.Helper()
	tbl, err := events.NewEventTable([]events.RawRow{
		{Event: events.Enter, Time: 1, Node: 1, Dest: 0, N: 1, Proportion: 0, Select: 1},
	})
	require.NoError(t, err)
	return tbl
}

func newTestPriors(t *testing.T, target priors.Target, gNames, lNames []string) *priors.Set {
	t.Helper()
	px, err := priors.New("x", priors.Uniform, 0, 1)
	require.NoError(t, err)
	py, err := priors.New("y", priors.Uniform, 0, 1)
	require.NoError(t, err)
	var set *priors.Set
	if target == priors.LData {
		set, err = priors.NewSet(nil, lNames, px, py)
	} else {
		set, err = priors.NewSet(gNames, nil, px, py)
	}
	require.NoError(t, err)
	return set
}

func distanceToOrigin(x []float64) float64 {
	return math.Hypot(x[0], x[1])
}

type gdataInitModel struct{}

func (gdataInitModel) InitModel(ctx context.Context, h *simulator.Handle) (simulator.Model, error) {
	return h.GData(), nil
}

type gdataDistance struct{}

func (gdataDistance) Distance(traj simulator.Trajectory) ([]float64, error) {
	x := traj.([]float64)
	return []float64{distanceToOrigin(x)}, nil
}

func newGDataState(t *testing.T, cfg *config.RunConfig) *abc.State {
	t.Helper()
	ps := newTestPriors(t, priors.GData, []string{"x", "y"}, nil)
	handle, err := simulator.NewHandle(fakeRunner{}, newTestEventTable(t), []string{"x", "y"}, []float64{0, 0}, nil, nil, nil)
	require.NoError(t, err)

	state, err := abc.NewState(ps, handle, cfg,
		abc.WithInitModel(gdataInitModel{}),
		abc.WithDistance(gdataDistance{}),
	)
	require.NoError(t, err)
	return state
}

func TestRunExplicitScheduleGData(t *testing.T) {
	schedule := mat.NewDense(1, 2, []float64{2.0, 1.0})
	cfg := config.New(20, config.WithToleranceSchedule(schedule), config.WithConcurrency(2), config.WithSeed(1))
	state := newGDataState(t, cfg)

	loop, err := abc.NewLoop(state)
	require.NoError(t, err)

	err = loop.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, state.Store().Len())
	gen1 := state.Store().At(0)
	require.Equal(t, 20, gen1.NP())
	gen2 := state.Store().At(1)
	require.Equal(t, 20, gen2.NP())
	require.Less(t, gen2.Epsilon()[0], gen1.Epsilon()[0])

	sum := 0.0
	for _, w := range gen2.W() {
		sum += w
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}

func TestRunAdaptiveScheduleGData(t *testing.T) {
	cfg := config.New(10, config.WithNInit(200), config.WithConcurrency(2), config.WithSeed(7))
	state := newGDataState(t, cfg)

	loop, err := abc.NewLoop(state)
	require.NoError(t, err)

	err = loop.Run(context.Background())
	require.NoError(t, err)

	require.GreaterOrEqual(t, state.Store().Len(), 1)
	first := state.Store().At(0)
	require.Equal(t, 10, first.NP())
	require.Len(t, first.Epsilon(), 1)

	if state.Store().Len() > 1 {
		second := state.Store().At(1)
		require.Less(t, second.Epsilon()[0], first.Epsilon()[0])
	}
}

func TestRunRejectsCancelledContext(t *testing.T) {
	schedule := mat.NewDense(1, 2, []float64{2.0, 1.0})
	cfg := config.New(500, config.WithToleranceSchedule(schedule), config.WithConcurrency(2), config.WithSeed(3))
	state := newGDataState(t, cfg)

	loop, err := abc.NewLoop(state)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = loop.Run(ctx)
	require.Error(t, err)
	var cancelled *abc.CancelledError
	require.ErrorAs(t, err, &cancelled)
}

func TestNewStateRejectsMissingCollaborators(t *testing.T) {
	ps := newTestPriors(t, priors.GData, []string{"x", "y"}, nil)
	handle, err := simulator.NewHandle(fakeRunner{}, newTestEventTable(t), []string{"x", "y"}, []float64{0, 0}, nil, nil, nil)
	require.NoError(t, err)
	cfg := config.New(10, config.WithNInit(100))

	_, err = abc.NewState(ps, handle, cfg)
	require.Error(t, err)
	var constructionErr *abc.ConstructionError
	require.ErrorAs(t, err, &constructionErr)
}

func TestNewStateRejectsInitModelOnLData(t *testing.T) {
	ps := newTestPriors(t, priors.LData, nil, []string{"x", "y"})
	ldata := mat.NewDense(2, 1, []float64{0, 0})
	handle, err := simulator.NewHandle(fakeRunner{}, newTestEventTable(t), nil, nil, []string{"x", "y"}, ldata, nil)
	require.NoError(t, err)
	cfg := config.New(10, config.WithNInit(100))

	_, err = abc.NewState(ps, handle, cfg, abc.WithInitModel(gdataInitModel{}))
	require.ErrorIs(t, err, abc.ErrLDataInitModel)
}

func TestContinueExtendsHistory(t *testing.T) {
	firstSchedule := mat.NewDense(1, 1, []float64{2.0})
	cfg := config.New(15, config.WithToleranceSchedule(firstSchedule), config.WithConcurrency(2), config.WithSeed(11))
	state := newGDataState(t, cfg)

	loop, err := abc.NewLoop(state)
	require.NoError(t, err)
	require.NoError(t, loop.Run(context.Background()))
	require.Equal(t, 1, state.Store().Len())

	extension := mat.NewDense(1, 2, []float64{1.0, 0.5})
	cont, err := abc.Continue(state, extension)
	require.NoError(t, err)
	require.NoError(t, cont.Run(context.Background()))

	require.Equal(t, 3, state.Store().Len())
	require.Equal(t, 0.5, state.Store().At(2).Epsilon()[0])
}

func TestContinueRejectsEmptyHistory(t *testing.T) {
	cfg := config.New(10, config.WithNInit(100))
	state := newGDataState(t, cfg)

	_, err := abc.Continue(state, mat.NewDense(1, 1, []float64{1.0}))
	require.ErrorIs(t, err, abc.ErrEmptyHistory)
}

func TestContinueRejectsNonDecreasingExtension(t *testing.T) {
	firstSchedule := mat.NewDense(1, 1, []float64{2.0})
	cfg := config.New(15, config.WithToleranceSchedule(firstSchedule), config.WithConcurrency(2), config.WithSeed(5))
	state := newGDataState(t, cfg)

	loop, err := abc.NewLoop(state)
	require.NoError(t, err)
	require.NoError(t, loop.Run(context.Background()))

	extension := mat.NewDense(1, 1, []float64{3.0}) // not less than 2.0
	_, err = abc.Continue(state, extension)
	require.ErrorIs(t, err, abc.ErrScheduleExhausted)
	var toleranceErr *abc.ToleranceError
	require.ErrorAs(t, err, &toleranceErr)
}

// nanDistance reports a NaN on the requested call index (1-based), and a
// finite distance to the origin otherwise.
type nanDistance struct {
	calls   atomic.Int64
	nanCall int64
}

func (d *nanDistance) Distance(traj simulator.Trajectory) ([]float64, error) {
	x := traj.([]float64)
	if d.calls.Add(1) == d.nanCall {
		return []float64{math.NaN()}, nil
	}
	return []float64{distanceToOrigin(x)}, nil
}

func TestRunRejectsNaNDistance(t *testing.T) {
	ps := newTestPriors(t, priors.GData, []string{"x", "y"}, nil)
	handle, err := simulator.NewHandle(fakeRunner{}, newTestEventTable(t), []string{"x", "y"}, []float64{0, 0}, nil, nil, nil)
	require.NoError(t, err)

	schedule := mat.NewDense(1, 1, []float64{2.0})
	cfg := config.New(5, config.WithToleranceSchedule(schedule), config.WithConcurrency(1), config.WithSeed(9))
	state, err := abc.NewState(ps, handle, cfg,
		abc.WithInitModel(gdataInitModel{}),
		abc.WithDistance(&nanDistance{nanCall: 1}),
	)
	require.NoError(t, err)

	loop, err := abc.NewLoop(state)
	require.NoError(t, err)

	err = loop.Run(context.Background())
	require.Error(t, err)
	var distErr *abc.DistanceError
	require.ErrorAs(t, err, &distErr)
	require.ErrorIs(t, err, abc.ErrInvalidDistance)
}

// multiStatDistance always reports two summary statistics, which adaptive
// tolerance selection does not support.
type multiStatDistance struct{}

func (multiStatDistance) Distance(traj simulator.Trajectory) ([]float64, error) {
	x := traj.([]float64)
	return []float64{distanceToOrigin(x), distanceToOrigin(x)}, nil
}

func TestRunAdaptiveRejectsMultipleStatistics(t *testing.T) {
	ps := newTestPriors(t, priors.GData, []string{"x", "y"}, nil)
	handle, err := simulator.NewHandle(fakeRunner{}, newTestEventTable(t), []string{"x", "y"}, []float64{0, 0}, nil, nil, nil)
	require.NoError(t, err)

	cfg := config.New(5, config.WithNInit(50), config.WithConcurrency(2), config.WithSeed(13))
	state, err := abc.NewState(ps, handle, cfg,
		abc.WithInitModel(gdataInitModel{}),
		abc.WithDistance(multiStatDistance{}),
	)
	require.NoError(t, err)

	loop, err := abc.NewLoop(state)
	require.NoError(t, err)

	err = loop.Run(context.Background())
	require.Error(t, err)
	var constructionErr *abc.ConstructionError
	require.ErrorAs(t, err, &constructionErr)
	require.ErrorIs(t, err, abc.ErrAdaptiveRequiresSingleStatistic)
}

// flakyRunner fails the first threshold calls system-wide, then succeeds,
// so it exercises the discard-and-retry path deterministically regardless
// of which worker happens to draw the failing call.
type flakyRunner struct {
	calls     atomic.Int64
	threshold int64
}

func (f *flakyRunner) Run(ctx context.Context, model simulator.Model) (simulator.Trajectory, error) {
	if f.calls.Add(1) <= f.threshold {
		return nil, errFlaky
	}
	return model, nil
}

var errFlaky = errors.New("flaky: forced failure")

func TestRunRetriesFailedTrajectoryWithinBudget(t *testing.T) {
	ps := newTestPriors(t, priors.GData, []string{"x", "y"}, nil)
	runner := &flakyRunner{threshold: 3}
	handle, err := simulator.NewHandle(runner, newTestEventTable(t), []string{"x", "y"}, []float64{0, 0}, nil, nil, nil)
	require.NoError(t, err)

	schedule := mat.NewDense(1, 1, []float64{2.0})
	cfg := config.New(5, config.WithToleranceSchedule(schedule), config.WithConcurrency(1), config.WithSeed(17))
	state, err := abc.NewState(ps, handle, cfg,
		abc.WithInitModel(gdataInitModel{}),
		abc.WithDistance(gdataDistance{}),
	)
	require.NoError(t, err)

	loop, err := abc.NewLoop(state)
	require.NoError(t, err)

	err = loop.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, state.Store().Len())
	require.Equal(t, 5, state.Store().At(0).NP())
}

func TestRunAbortsWhenFailureBudgetExceeded(t *testing.T) {
	ps := newTestPriors(t, priors.GData, []string{"x", "y"}, nil)
	runner := &flakyRunner{threshold: 1000}
	handle, err := simulator.NewHandle(runner, newTestEventTable(t), []string{"x", "y"}, []float64{0, 0}, nil, nil, nil)
	require.NoError(t, err)

	schedule := mat.NewDense(1, 1, []float64{2.0})
	cfg := config.New(5, config.WithToleranceSchedule(schedule), config.WithConcurrency(1), config.WithSeed(19), config.WithMaxFailures(2))
	state, err := abc.NewState(ps, handle, cfg,
		abc.WithInitModel(gdataInitModel{}),
		abc.WithDistance(gdataDistance{}),
	)
	require.NoError(t, err)

	loop, err := abc.NewLoop(state)
	require.NoError(t, err)

	err = loop.Run(context.Background())
	require.Error(t, err)
	var simErr *abc.SimulationError
	require.ErrorAs(t, err, &simErr)
	require.ErrorIs(t, err, abc.ErrFailureBudgetExceeded)
}
