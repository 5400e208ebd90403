package config

import (
	"runtime"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Defaults, single source of truth for zero-value behavior.
const (
	// DefaultMaxRejections bounds ProposalSampler's reject-and-retry loop.
	DefaultMaxRejections = 10000

	// DefaultBatchMultiplier is the initial per-generation batch size for
	// ldata targets, expressed as a multiple of N_p.
	DefaultBatchMultiplier = 10

	// DefaultMaxBatchSize caps the doubling of the ldata batch size.
	DefaultMaxBatchSize = 100000

	// DefaultMaxFailures bounds the number of discarded Runner failures
	// tolerated within a single generation before the run aborts. The
	// adaptive generation-1 oversample does not use this budget: its first
	// Runner failure aborts the run.
	DefaultMaxFailures = 100
)

const panicInvalidParticles = "config: New: n must be > 0"
const panicInvalidNInit = "config: WithNInit: n_init must exceed n_particles"
const panicInvalidConcurrency = "config: WithConcurrency: n must be > 0"

// Option mutates a RunConfig under construction.
type Option func(*RunConfig)

// RunConfig is the effective configuration for one ABC-SMC fit, after
// applying every Option in order. Unexported to keep the surface to
// New and the With* constructors.
type RunConfig struct {
	nParticles    int
	nInit         int // 0 means "explicit schedule supplied, no oversampling"
	schedule      *mat.Dense
	maxRejections int
	maxFailures   int
	batchInitial  int
	batchMax      int
	concurrency   int
	seed          uint64
	logger        *zap.SugaredLogger
}

// New builds a RunConfig for n particles, applying opts in order and
// filling every field an Option did not touch with its documented
// default.
func New(nParticles int, opts ...Option) *RunConfig {
	if nParticles <= 0 {
		panic(panicInvalidParticles)
	}
	c := &RunConfig{
		nParticles:    nParticles,
		maxRejections: DefaultMaxRejections,
		maxFailures:   DefaultMaxFailures,
		batchInitial:  DefaultBatchMultiplier * nParticles,
		batchMax:      DefaultMaxBatchSize,
		concurrency:   runtime.NumCPU(),
		logger:        zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithNInit switches the run to adaptive-tolerance mode, oversampling n
// prior draws at generation 1 before truncating to n_particles.
func WithNInit(n int) Option {
	return func(c *RunConfig) {
		if n <= c.nParticles {
			panic(panicInvalidNInit)
		}
		c.nInit = n
	}
}

// WithToleranceSchedule supplies an explicit S×G tolerance matrix,
// disabling adaptive selection.
func WithToleranceSchedule(schedule *mat.Dense) Option {
	return func(c *RunConfig) { c.schedule = schedule }
}

// WithMaxRejections overrides DefaultMaxRejections.
func WithMaxRejections(n int) Option {
	return func(c *RunConfig) { c.maxRejections = n }
}

// WithBatchSizeCap overrides DefaultMaxBatchSize, the ceiling ldata-target
// batch-size doubling saturates at.
func WithBatchSizeCap(n int) Option {
	return func(c *RunConfig) { c.batchMax = n }
}

// WithMaxFailures overrides DefaultMaxFailures, the number of discarded
// Runner failures tolerated within a single generation before the run
// aborts with a fatal SimulationError. It does not apply to the adaptive
// generation-1 oversample, which aborts on its first Runner failure.
func WithMaxFailures(n int) Option {
	return func(c *RunConfig) { c.maxFailures = n }
}

// WithConcurrency overrides the worker count, which defaults to
// runtime.NumCPU().
func WithConcurrency(n int) Option {
	return func(c *RunConfig) {
		if n <= 0 {
			panic(panicInvalidConcurrency)
		}
		c.concurrency = n
	}
}

// WithSeed fixes the run's random seed for reproducibility.
func WithSeed(seed uint64) Option {
	return func(c *RunConfig) { c.seed = seed }
}

// WithLogger overrides the default no-op logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *RunConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func (c *RunConfig) NParticles() int     { return c.nParticles }
func (c *RunConfig) NInit() int          { return c.nInit }
func (c *RunConfig) Adaptive() bool      { return c.schedule == nil }
func (c *RunConfig) Schedule() *mat.Dense { return c.schedule }
func (c *RunConfig) MaxRejections() int  { return c.maxRejections }
func (c *RunConfig) MaxFailures() int    { return c.maxFailures }
func (c *RunConfig) BatchInitial() int   { return c.batchInitial }
func (c *RunConfig) BatchMax() int       { return c.batchMax }
func (c *RunConfig) Concurrency() int    { return c.concurrency }
func (c *RunConfig) Seed() uint64        { return c.seed }
func (c *RunConfig) Logger() *zap.SugaredLogger { return c.logger }
