package priors

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Target names which of the simulator's two parameter spaces a PriorSet is
// bound to.
type Target int

const (
	// GData binds every prior to a slot in the model's global parameter
	// vector.
	GData Target = iota
	// LData binds every prior to a row of the model's per-node parameter
	// matrix.
	LData
)

func (t Target) String() string {
	if t == LData {
		return "ldata"
	}
	return "gdata"
}

// Set is a parsed collection of independent univariate priors, each bound
// to a named parameter slot in exactly one of the model's two parameter
// spaces.
type Set struct {
	target Target
	priors []Prior
	index  map[string]int // name -> slot index within target's namespace
}

// NewSet resolves each prior's name against the model's gdata and ldata
// namespaces, determines the single target both must agree on, and builds
// the PriorSet. Resolving every prior into exactly one of two disjoint
// namespaces is what makes mixing a construction error rather than a
// runtime surprise: it is caught here, once, at the boundary.
func NewSet(gdataNames, ldataNames []string, ps ...Prior) (*Set, error) {
	if len(ps) == 0 {
		return nil, ErrEmptySet
	}

	gIdx := nameIndex(gdataNames)
	lIdx := nameIndex(ldataNames)

	seenGData, seenLData := false, false
	names := make(map[string]bool, len(ps))
	index := make(map[string]int, len(ps))
	var target Target

	for _, p := range ps {
		if names[p.Name()] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, p.Name())
		}
		names[p.Name()] = true

		gi, inG := gIdx[p.Name()]
		li, inL := lIdx[p.Name()]
		switch {
		case inG && !inL:
			seenGData = true
			target = GData
			index[p.Name()] = gi
		case inL && !inG:
			seenLData = true
			target = LData
			index[p.Name()] = li
		case inG && inL:
			return nil, fmt.Errorf("priors: parameter %q present in both gdata and ldata namespaces", p.Name())
		default:
			return nil, fmt.Errorf("priors: parameter %q not found in gdata or ldata", p.Name())
		}
		if seenGData && seenLData {
			return nil, ErrMixedTarget
		}
	}

	return &Set{target: target, priors: append([]Prior(nil), ps...), index: index}, nil
}

func nameIndex(names []string) map[string]int {
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	return idx
}

// Target reports whether this set targets gdata or ldata.
func (s *Set) Target() Target { return s.target }

// K returns the parameter dimension k = |PriorSet|.
func (s *Set) K() int { return len(s.priors) }

// Priors returns the underlying priors in declaration order.
func (s *Set) Priors() []Prior { return s.priors }

// Names returns each prior's parameter name, in declaration order.
func (s *Set) Names() []string {
	out := make([]string, len(s.priors))
	for i, p := range s.priors {
		out[i] = p.Name()
	}
	return out
}

// Index returns the slot index name resolves to within the target
// namespace.
func (s *Set) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Contains reports whether every component of x lies within its prior's
// support, used to reject perturbed proposals.
func (s *Set) Contains(x []float64) bool {
	if len(x) != s.K() {
		return false
	}
	for i, p := range s.priors {
		if !p.Contains(x[i]) {
			return false
		}
	}
	return true
}

// Density evaluates the joint prior density π(x) = ∏ pdf_i(x_i).
func (s *Set) Density(x []float64) (float64, error) {
	if len(x) != s.K() {
		return 0, ErrDimensionMismatch
	}
	density := 1.0
	for i, p := range s.priors {
		density *= p.PDF(x[i])
	}
	return density, nil
}

// LogDensity evaluates log π(x) = Σ log pdf_i(x_i).
func (s *Set) LogDensity(x []float64) (float64, error) {
	if len(x) != s.K() {
		return 0, ErrDimensionMismatch
	}
	logDensity := 0.0
	for i, p := range s.priors {
		logDensity += p.LogPDF(x[i])
	}
	return logDensity, nil
}

// ApplyToGData writes x into gdata at exactly the slots this set's priors
// name, and no others. It returns an error if called on an LData-targeted
// set; callers branch on Target() first, as abc's Loop does before choosing
// its gdata or ldata path.
func (s *Set) ApplyToGData(x []float64, gdata []float64) error {
	if s.target != GData {
		return fmt.Errorf("priors: ApplyToGData: set targets %s", s.target)
	}
	if len(x) != s.K() {
		return ErrDimensionMismatch
	}
	for i, p := range s.priors {
		gdata[s.index[p.Name()]] = x[i]
	}
	return nil
}

// ApplyToLData writes x into column col of ldata at exactly the rows this
// set's priors name, and no others.
func (s *Set) ApplyToLData(x []float64, ldata *mat.Dense, col int) error {
	if s.target != LData {
		return fmt.Errorf("priors: ApplyToLData: set targets %s", s.target)
	}
	if len(x) != s.K() {
		return ErrDimensionMismatch
	}
	for i, p := range s.priors {
		ldata.Set(s.index[p.Name()], col, x[i])
	}
	return nil
}
