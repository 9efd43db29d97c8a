package bench

import (
	"fmt"

	"github.com/oaflang/oaf/internal/config"
)

// Statistic is the closed set of summary values a regression gate may
// compare (spec.md §9 REDESIGN FLAGS: strategy dispatch over a small
// closed set rather than string-keyed configuration; spec.md §8
// scenario 8 exercises the Mean/P95 distinction directly).
type Statistic int

const (
	StatMean Statistic = iota
	StatMedian
	StatP95
)

func (s Statistic) String() string {
	switch s {
	case StatMean:
		return "Mean"
	case StatMedian:
		return "Median"
	case StatP95:
		return "P95"
	default:
		return "Unknown"
	}
}

// Value extracts this statistic's value from a Stats sample.
func (s Statistic) Value(st Stats) float64 {
	switch s {
	case StatMean:
		return st.Mean
	case StatMedian:
		return st.Median
	case StatP95:
		return st.P95
	default:
		return 0
	}
}

// Regression is one benchmark whose target/baseline ratio, under the
// selected statistic, exceeds its configured threshold.
type Regression struct {
	Benchmark BenchmarkName
	Statistic Statistic
	Ratio     float64
	Threshold float64
}

// Gate pairs each benchmark's target and baseline rows and reports
// any whose ratio (under stat) exceeds the threshold configured for
// that benchmark (global default or per-benchmark override, spec.md §6
// YAML shape).
func Gate(results []GeneralResult, thresholds config.Thresholds, stat Statistic) ([]Regression, error) {
	type pair struct {
		target, baseline *GeneralResult
	}
	byBenchmark := map[BenchmarkName]*pair{}

	for i := range results {
		r := &results[i]
		p, ok := byBenchmark[r.Benchmark]
		if !ok {
			p = &pair{}
			byBenchmark[r.Benchmark] = p
		}
		switch r.Runtime {
		case RuntimeTarget:
			p.target = r
		case RuntimeBaseline:
			p.baseline = r
		}
	}

	var regressions []Regression
	for _, name := range generalBenchmarks {
		p, ok := byBenchmark[name]
		if !ok || p.target == nil || p.baseline == nil {
			continue
		}

		baselineValue := stat.Value(p.baseline.Stats)
		if baselineValue == 0 {
			return nil, fmt.Errorf("gate: benchmark %q has a zero baseline %s", name, stat)
		}
		ratio := stat.Value(p.target.Stats) / baselineValue
		threshold := thresholds.RatioFor(string(name))

		if ratio > threshold {
			regressions = append(regressions, Regression{
				Benchmark: name,
				Statistic: stat,
				Ratio:     ratio,
				Threshold: threshold,
			})
		}
	}
	return regressions, nil
}
