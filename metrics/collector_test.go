package metrics_test

import (
	"testing"

	"github.com/dhelms-lab/abcsmc/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestCollectorRegistersAndObserves(t *testing.T) {
	c := metrics.New("test-run")
	registry := prometheus.NewRegistry()
	require.NoError(t, c.Register(registry))

	c.ObserveProposals(10)
	c.ObserveAccepted(3)
	c.SetGeneration(2)
	c.SetTolerance("distance", 0.5)
	c.ObserveDuration(1.25)

	families, err := registry.Gather()
	require.NoError(t, err)

	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
	}
	require.True(t, found["abcsmc_particles_proposed_total"])
	require.True(t, found["abcsmc_particles_accepted_total"])
	require.True(t, found["abcsmc_generation"])
	require.True(t, found["abcsmc_tolerance"])
	require.True(t, found["abcsmc_generation_duration_seconds"])
}

func TestCollectorRejectsDoubleRegistration(t *testing.T) {
	c := metrics.New("dup-run")
	registry := prometheus.NewRegistry()
	require.NoError(t, c.Register(registry))
	require.Error(t, c.Register(registry))
}
