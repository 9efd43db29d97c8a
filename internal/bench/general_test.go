package bench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunGeneralReturnsSixRowsForFiveIterations(t *testing.T) {
	results, err := RunGeneral(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, results, len(generalBenchmarks)*2)

	for _, r := range results {
		require.GreaterOrEqual(t, r.Stats.Mean, 0.0)
		require.GreaterOrEqual(t, r.Stats.P95, r.Stats.Mean)
	}
}

func TestComputeStatsOnSingleSample(t *testing.T) {
	st := ComputeStats([]float64{4.0})
	require.Equal(t, 4.0, st.Mean)
	require.Equal(t, 4.0, st.Median)
	require.Equal(t, 4.0, st.P95)
}

func TestComputeStatsMeanMedianP95Ordering(t *testing.T) {
	st := ComputeStats([]float64{1, 2, 3, 4, 100})
	require.InDelta(t, 22.0, st.Mean, 0.001)
	require.Equal(t, 3.0, st.Median)
	require.GreaterOrEqual(t, st.P95, st.Median)
}
