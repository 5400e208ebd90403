package priors

import (
	"fmt"
	"math"
	"math/rand"

	expRand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// randSource adapts a *math/rand.Rand to the golang.org/x/exp/rand.Source
// interface that gonum's distuv package expects for its Src field.
type randSource struct{ rng *rand.Rand }

func (s randSource) Uint64() uint64   { return s.rng.Uint64() }
func (s randSource) Seed(seed uint64) { s.rng.Seed(int64(seed)) }

// asSource wraps rng for use as a distuv Src, preserving the nil case so
// distuv falls back to its own global source when no rng is supplied.
func asSource(rng *rand.Rand) expRand.Source {
	if rng == nil {
		return nil
	}
	return randSource{rng: rng}
}

// Family tags which of the four supported distribution shapes a Prior uses.
type Family int

const (
	Uniform Family = iota
	Normal
	LogNormal
	Gamma
)

func (f Family) String() string {
	switch f {
	case Uniform:
		return "uniform"
	case Normal:
		return "normal"
	case LogNormal:
		return "lognormal"
	case Gamma:
		return "gamma"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// Prior is the uniform interface every distribution family satisfies:
// sampling, density evaluation (linear and log scale), and a support
// check used to reject perturbed proposals with zero prior density.
type Prior interface {
	Name() string
	Family() Family
	Sample(rng *rand.Rand) float64
	PDF(x float64) float64
	LogPDF(x float64) float64
	Contains(x float64) bool
}

// New constructs the Prior for family with parameters (p1, p2), validating
// each family's parameter domain.
func New(name string, family Family, p1, p2 float64) (Prior, error) {
	switch family {
	case Uniform:
		if p1 >= p2 {
			return nil, fmt.Errorf("%w: uniform(%g,%g): lower bound must be < upper bound", ErrInvalidParams, p1, p2)
		}
		return &uniformPrior{name: name, min: p1, max: p2}, nil
	case Normal:
		if p2 <= 0 {
			return nil, fmt.Errorf("%w: normal(%g,%g): sigma must be > 0", ErrInvalidParams, p1, p2)
		}
		return &normalPrior{name: name, mu: p1, sigma: p2}, nil
	case LogNormal:
		if p2 <= 0 {
			return nil, fmt.Errorf("%w: lognormal(%g,%g): sigma must be > 0", ErrInvalidParams, p1, p2)
		}
		return &logNormalPrior{name: name, mu: p1, sigma: p2}, nil
	case Gamma:
		if p1 <= 0 || p2 <= 0 {
			return nil, fmt.Errorf("%w: gamma(%g,%g): shape and rate must be > 0", ErrInvalidParams, p1, p2)
		}
		return &gammaPrior{name: name, shape: p1, rate: p2}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFamily, family)
	}
}

type uniformPrior struct {
	name     string
	min, max float64
}

func (p *uniformPrior) Name() string      { return p.name }
func (p *uniformPrior) Family() Family    { return Uniform }
func (p *uniformPrior) Contains(x float64) bool { return x >= p.min && x <= p.max }

func (p *uniformPrior) dist(rng *rand.Rand) distuv.Uniform {
	return distuv.Uniform{Min: p.min, Max: p.max, Src: asSource(rng)}
}
func (p *uniformPrior) Sample(rng *rand.Rand) float64 { return p.dist(rng).Rand() }
func (p *uniformPrior) PDF(x float64) float64         { return p.dist(nil).Prob(x) }
func (p *uniformPrior) LogPDF(x float64) float64      { return p.dist(nil).LogProb(x) }

// Quantile is the inverse-CDF the uniform family exposes.
func (p *uniformPrior) Quantile(q float64) float64 { return p.dist(nil).Quantile(q) }

type normalPrior struct {
	name       string
	mu, sigma  float64
}

func (p *normalPrior) Name() string           { return p.name }
func (p *normalPrior) Family() Family         { return Normal }
func (p *normalPrior) Contains(float64) bool  { return true } // support is all of ℝ
func (p *normalPrior) dist(rng *rand.Rand) distuv.Normal {
	return distuv.Normal{Mu: p.mu, Sigma: p.sigma, Src: asSource(rng)}
}
func (p *normalPrior) Sample(rng *rand.Rand) float64 { return p.dist(rng).Rand() }
func (p *normalPrior) PDF(x float64) float64         { return p.dist(nil).Prob(x) }
func (p *normalPrior) LogPDF(x float64) float64      { return p.dist(nil).LogProb(x) }

type logNormalPrior struct {
	name      string
	mu, sigma float64
}

func (p *logNormalPrior) Name() string          { return p.name }
func (p *logNormalPrior) Family() Family        { return LogNormal }
func (p *logNormalPrior) Contains(x float64) bool { return x > 0 }
func (p *logNormalPrior) dist(rng *rand.Rand) distuv.LogNormal {
	return distuv.LogNormal{Mu: p.mu, Sigma: p.sigma, Src: asSource(rng)}
}
func (p *logNormalPrior) Sample(rng *rand.Rand) float64 { return p.dist(rng).Rand() }
func (p *logNormalPrior) PDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return p.dist(nil).Prob(x)
}
func (p *logNormalPrior) LogPDF(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return p.dist(nil).LogProb(x)
}

type gammaPrior struct {
	name        string
	shape, rate float64
}

func (p *gammaPrior) Name() string          { return p.name }
func (p *gammaPrior) Family() Family        { return Gamma }
func (p *gammaPrior) Contains(x float64) bool { return x > 0 }
func (p *gammaPrior) dist(rng *rand.Rand) distuv.Gamma {
	return distuv.Gamma{Alpha: p.shape, Beta: p.rate, Src: asSource(rng)}
}
func (p *gammaPrior) Sample(rng *rand.Rand) float64 { return p.dist(rng).Rand() }
func (p *gammaPrior) PDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return p.dist(nil).Prob(x)
}
func (p *gammaPrior) LogPDF(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return p.dist(nil).LogProb(x)
}
