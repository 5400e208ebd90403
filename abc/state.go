package abc

import (
	"github.com/dhelms-lab/abcsmc/config"
	"github.com/dhelms-lab/abcsmc/metrics"
	"github.com/dhelms-lab/abcsmc/particle"
	"github.com/dhelms-lab/abcsmc/priors"
	"github.com/dhelms-lab/abcsmc/simulator"
)

// State owns the immutable configuration of a run and the mutable history
// of committed generations. All mutation goes through Loop.
type State struct {
	priors *priors.Set
	handle *simulator.Handle
	store  *particle.Store

	initModel     InitModel
	baseModel     simulator.Model
	distance      Distance
	batchDistance BatchDistance
	postGen       PostGen

	cfg     *config.RunConfig
	metrics *metrics.Collector
}

// NewState validates and constructs a State for a run against ps and
// handle, per cfg. gdata targets build one Model per particle via
// InitModel; ldata targets share a single baseModel across every
// trajectory (its Handle already carries the per-node parameters the
// Runner reads at Run time), so InitModel is rejected there.
func NewState(ps *priors.Set, handle *simulator.Handle, cfg *config.RunConfig, opts ...StateOption) (*State, error) {
	s := &State{
		priors: ps,
		handle: handle,
		store:  particle.NewStore(),
		cfg:    cfg,
	}
	for _, opt := range opts {
		opt(s)
	}

	if ps.Target() == priors.GData {
		if s.initModel == nil {
			return nil, &ConstructionError{Field: "InitModel", Err: ErrNoInitModel}
		}
		if s.distance == nil {
			return nil, &ConstructionError{Field: "Distance", Err: ErrNoDistance}
		}
	} else {
		if s.initModel != nil {
			return nil, &ConstructionError{Field: "InitModel", Err: ErrLDataInitModel}
		}
		if s.baseModel == nil {
			return nil, &ConstructionError{Field: "BaseModel", Err: ErrNoInitModel}
		}
		if s.batchDistance == nil {
			return nil, &ConstructionError{Field: "BatchDistance", Err: ErrNoDistance}
		}
	}

	return s, nil
}

// StateOption configures optional State collaborators.
type StateOption func(*State)

// WithInitModel supplies the gdata-target model constructor.
func WithInitModel(m InitModel) StateOption { return func(s *State) { s.initModel = m } }

// WithDistance supplies the gdata-target distance callback.
func WithDistance(d Distance) StateOption { return func(s *State) { s.distance = d } }

// WithBatchDistance supplies the ldata-target distance callback.
func WithBatchDistance(d BatchDistance) StateOption { return func(s *State) { s.batchDistance = d } }

// WithBaseModel supplies the single Model every ldata-target trajectory
// runs against; it must be constructed to read the Handle's current ldata
// and events at Run time.
func WithBaseModel(m simulator.Model) StateOption { return func(s *State) { s.baseModel = m } }

// WithHistory seeds a State's generation history from a previously
// persisted Store, for reconstructing a State ahead of Continue. It must
// be applied before NewState's target validation runs; the store's
// contents are used as-is and are not re-validated.
func WithHistory(store *particle.Store) StateOption {
	return func(s *State) {
		if store != nil {
			s.store = store
		}
	}
}

// WithPostGen supplies the optional per-generation callback.
func WithPostGen(p PostGen) StateOption { return func(s *State) { s.postGen = p } }

// WithMetrics attaches a Prometheus collector.
func WithMetrics(m *metrics.Collector) StateOption { return func(s *State) { s.metrics = m } }

// Store returns the committed generation history.
func (s *State) Store() *particle.Store { return s.store }

// Priors returns the bound PriorSet.
func (s *State) Priors() *priors.Set { return s.priors }

// Config returns the run configuration.
func (s *State) Config() *config.RunConfig { return s.cfg }
