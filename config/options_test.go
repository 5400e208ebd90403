package config_test

import (
	"testing"

	"github.com/dhelms-lab/abcsmc/config"
	"github.com/stretchr/testify/require"
)

func TestNewAppliesDefaults(t *testing.T) {
	c := config.New(100)
	require.Equal(t, 100, c.NParticles())
	require.Equal(t, config.DefaultMaxRejections, c.MaxRejections())
	require.Equal(t, 1000, c.BatchInitial())
	require.Equal(t, config.DefaultMaxBatchSize, c.BatchMax())
	require.True(t, c.Adaptive())
	require.NotNil(t, c.Logger())
}

func TestWithNInitEnablesAdaptiveOversampling(t *testing.T) {
	c := config.New(100, config.WithNInit(500))
	require.Equal(t, 500, c.NInit())
	require.True(t, c.Adaptive())
}

func TestWithNInitPanicsWhenNotGreaterThanParticles(t *testing.T) {
	require.Panics(t, func() {
		config.New(100, config.WithNInit(100))
	})
}

func TestNewPanicsOnNonPositiveParticles(t *testing.T) {
	require.Panics(t, func() {
		config.New(0)
	})
}

func TestWithConcurrencyOverridesDefault(t *testing.T) {
	c := config.New(10, config.WithConcurrency(4))
	require.Equal(t, 4, c.Concurrency())
}

func TestWithConcurrencyPanicsOnNonPositive(t *testing.T) {
	require.Panics(t, func() {
		config.New(10, config.WithConcurrency(0))
	})
}
