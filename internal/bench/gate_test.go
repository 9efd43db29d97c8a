package bench

import (
	"testing"

	"github.com/oaflang/oaf/internal/config"
	"github.com/stretchr/testify/require"
)

func meansAgreeP95Diverge() []GeneralResult {
	return []GeneralResult{
		{Benchmark: BenchLexer, Runtime: RuntimeBaseline, Stats: Stats{Mean: 10, Median: 10, P95: 11}},
		{Benchmark: BenchLexer, Runtime: RuntimeTarget, Stats: Stats{Mean: 10, Median: 10, P95: 20}},
	}
}

func TestGateStatisticSelectionFlipsRegressionList(t *testing.T) {
	th := config.Default()
	th.MaxMeanRatio = 1.25

	results := meansAgreeP95Diverge()

	meanRegressions, err := Gate(results, th, StatMean)
	require.NoError(t, err)
	require.Empty(t, meanRegressions, "means agree, so the mean-statistic gate should report no regressions")

	p95Regressions, err := Gate(results, th, StatP95)
	require.NoError(t, err)
	require.Len(t, p95Regressions, 1, "p95s diverge beyond the threshold, so the p95-statistic gate should flag it")
	require.Equal(t, BenchLexer, p95Regressions[0].Benchmark)
}

func TestGateRespectsPerBenchmarkOverride(t *testing.T) {
	th := config.Default()
	th.PerBenchmark["lexer"] = 1.05

	results := []GeneralResult{
		{Benchmark: BenchLexer, Runtime: RuntimeBaseline, Stats: Stats{Mean: 10}},
		{Benchmark: BenchLexer, Runtime: RuntimeTarget, Stats: Stats{Mean: 10.8}},
	}

	regressions, err := Gate(results, th, StatMean)
	require.NoError(t, err)
	require.Len(t, regressions, 1)
	require.Equal(t, 1.05, regressions[0].Threshold)
}

func TestGateSkipsBenchmarkMissingEitherRuntime(t *testing.T) {
	th := config.Default()
	results := []GeneralResult{
		{Benchmark: BenchLexer, Runtime: RuntimeTarget, Stats: Stats{Mean: 10}},
	}

	regressions, err := Gate(results, th, StatMean)
	require.NoError(t, err)
	require.Empty(t, regressions)
}
