package proposal_test

import (
	"math/rand"
	"testing"

	"github.com/dhelms-lab/abcsmc/priors"
	"github.com/dhelms-lab/abcsmc/proposal"
	"github.com/dhelms-lab/abcsmc/weight"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testSet(t *testing.T) *priors.Set {
	t.Helper()
	alpha, err := priors.New("alpha", priors.Uniform, 0, 1)
	require.NoError(t, err)
	beta, err := priors.New("beta", priors.Uniform, -1, 1)
	require.NoError(t, err)
	set, err := priors.NewSet([]string{"alpha", "beta"}, nil, alpha, beta)
	require.NoError(t, err)
	return set
}

func TestSampleGeneration0DrawsWithinSupport(t *testing.T) {
	set := testSet(t)
	sampler := proposal.NewSampler(set)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 50; i++ {
		p := sampler.SampleGeneration0(rng)
		require.Equal(t, -1, p.Ancestor)
		require.Len(t, p.X, 2)
		require.True(t, set.Contains(p.X))
	}
}

func TestSampleRejectsOutsideSupportAndRetries(t *testing.T) {
	set := testSet(t)
	sampler := proposal.NewSampler(set)
	rng := rand.New(rand.NewSource(2))

	prevX := mat.NewDense(3, 2, []float64{
		0.5, 0.0,
		0.5, 0.0,
		0.5, 0.0,
	})
	prevW := []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}
	kernel, err := weight.NewKernel(prevX)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		p, err := sampler.Sample(rng, prevX, prevW, kernel)
		require.NoError(t, err)
		require.True(t, set.Contains(p.X))
		require.GreaterOrEqual(t, p.Ancestor, 0)
		require.Less(t, p.Ancestor, 3)
	}
}

func TestSampleExhaustsRejectionsOnDegenerateKernel(t *testing.T) {
	alpha, err := priors.New("alpha", priors.Uniform, 1000, 1001)
	require.NoError(t, err)
	set, err := priors.NewSet([]string{"alpha"}, nil, alpha)
	require.NoError(t, err)

	sampler := proposal.NewSampler(set).WithMaxRejections(5)
	rng := rand.New(rand.NewSource(3))

	prevX := mat.NewDense(2, 1, []float64{0.0, 0.0})
	prevW := []float64{0.5, 0.5}
	kernel, err := weight.NewKernel(prevX)
	require.NoError(t, err)

	_, err = sampler.Sample(rng, prevX, prevW, kernel)
	require.ErrorIs(t, err, proposal.ErrTooManyRejections)
}

func TestSampleBatchDrawsRequestedCount(t *testing.T) {
	set := testSet(t)
	sampler := proposal.NewSampler(set)
	rng := rand.New(rand.NewSource(4))

	prevX := mat.NewDense(4, 2, []float64{
		0.2, -0.2,
		0.4, -0.1,
		0.6, 0.1,
		0.8, 0.2,
	})
	prevW := []float64{0.25, 0.25, 0.25, 0.25}
	kernel, err := weight.NewKernel(prevX)
	require.NoError(t, err)

	batch, err := sampler.SampleBatch(rng, prevX, prevW, kernel, 10)
	require.NoError(t, err)
	require.Len(t, batch, 10)
	for _, p := range batch {
		require.True(t, set.Contains(p.X))
	}
}

func TestCategoricalDistributionIsUnbiasedRoughly(t *testing.T) {
	set := testSet(t)
	sampler := proposal.NewSampler(set)
	rng := rand.New(rand.NewSource(5))

	prevX := mat.NewDense(2, 2, []float64{
		0.1, 0.0,
		0.9, 0.0,
	})
	kernel, err := weight.NewKernel(mat.NewDense(2, 2, []float64{
		0.1, -0.1,
		0.9, 0.1,
	}))
	require.NoError(t, err)

	// Heavily weight ancestor 1; most proposals should perturb around it.
	prevW := []float64{0.01, 0.99}
	nearOne := 0
	for i := 0; i < 200; i++ {
		p, err := sampler.Sample(rng, prevX, prevW, kernel)
		require.NoError(t, err)
		if p.Ancestor == 1 {
			nearOne++
		}
	}
	require.Greater(t, nearOne, 150)
}
