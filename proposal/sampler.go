package proposal

import (
	"fmt"
	"math/rand"

	"github.com/dhelms-lab/abcsmc/priors"
	"github.com/dhelms-lab/abcsmc/weight"
	"gonum.org/v1/gonum/mat"
)

// DefaultMaxRejections bounds the retry loop of the reject-if-outside-
// support rule: a perturbed draw that falls outside prior support is
// discarded and redrawn, up to this many times, before giving up.
const DefaultMaxRejections = 10000

// Proposal is one draw from the sampler: a k-vector plus, from generation 1
// onward, the row index of the previous generation's particle it was
// perturbed from. Ancestor is -1 for generation 0 proposals, which have no
// ancestor.
type Proposal struct {
	X        []float64
	Ancestor int
}

// Sampler draws ABC-SMC particle proposals: independent prior draws for
// generation 0, and ancestor-resample-then-perturb draws for every later
// generation.
type Sampler struct {
	priors        *priors.Set
	maxRejections int
}

// NewSampler binds a Sampler to the PriorSet its draws and rejections are
// evaluated against.
func NewSampler(ps *priors.Set) *Sampler {
	return &Sampler{priors: ps, maxRejections: DefaultMaxRejections}
}

// WithMaxRejections overrides DefaultMaxRejections.
func (s *Sampler) WithMaxRejections(n int) *Sampler {
	s.maxRejections = n
	return s
}

// SampleGeneration0 draws one independent proposal from each prior.
func (s *Sampler) SampleGeneration0(rng *rand.Rand) Proposal {
	x := make([]float64, s.priors.K())
	for i, p := range s.priors.Priors() {
		x[i] = p.Sample(rng)
	}
	return Proposal{X: x, Ancestor: -1}
}

// Sample draws one proposal for generation g>0: resample an ancestor index
// from Categorical(prevW), perturb by kernel around that ancestor's row of
// prevX, and retry (up to maxRejections times) if the perturbed vector
// falls outside prior support.
func (s *Sampler) Sample(rng *rand.Rand, prevX *mat.Dense, prevW []float64, kernel *weight.Kernel) (Proposal, error) {
	for attempt := 0; attempt < s.maxRejections; attempt++ {
		ancestor := categorical(rng, prevW)
		mean := mat.Row(nil, ancestor, prevX)
		x, err := kernel.Sample(rng, mean)
		if err != nil {
			return Proposal{}, fmt.Errorf("proposal: Sample: %w", err)
		}
		if s.priors.Contains(x) {
			return Proposal{X: x, Ancestor: ancestor}, nil
		}
	}
	return Proposal{}, ErrTooManyRejections
}

// SampleBatch draws n proposals for a per-node (ldata) target, one per
// simulator node.
func (s *Sampler) SampleBatch(rng *rand.Rand, prevX *mat.Dense, prevW []float64, kernel *weight.Kernel, n int) ([]Proposal, error) {
	out := make([]Proposal, n)
	for i := 0; i < n; i++ {
		p, err := s.Sample(rng, prevX, prevW, kernel)
		if err != nil {
			return nil, fmt.Errorf("proposal: SampleBatch[%d]: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// categorical draws an index from {0,...,len(w)-1} with probability w[i],
// via cumulative-sum inversion.
func categorical(rng *rand.Rand, w []float64) int {
	u := rng.Float64()
	cum := 0.0
	for i, wi := range w {
		cum += wi
		if u < cum {
			return i
		}
	}
	return len(w) - 1
}
