// Package config loads the optional YAML threshold configuration for
// the benchmark regression gate (SPEC_FULL.md §6),
// grounded on the teacher's internal/eval_harness config-loading
// pattern (os.ReadFile + yaml.Unmarshal into a tagged struct, defaults
// applied when the file is absent).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxMeanRatio is applied when a config file sets no
// process-wide threshold.
const DefaultMaxMeanRatio = 1.25

// Thresholds holds the regression gate's global and per-benchmark
// ratio limits (SPEC_FULL.md §6 YAML shape):
//
//	max_mean_ratio: 1.25
//	per_benchmark:
//	  lexer: 1.1
//	  compiler_pipeline: 1.3
//	  bytecode_vm: 1.2
type Thresholds struct {
	MaxMeanRatio float64            `yaml:"max_mean_ratio"`
	PerBenchmark map[string]float64 `yaml:"per_benchmark"`
}

// Default returns the baseline Thresholds used when no override file
// is supplied.
func Default() Thresholds {
	return Thresholds{MaxMeanRatio: DefaultMaxMeanRatio, PerBenchmark: map[string]float64{}}
}

// RatioFor returns the threshold that applies to benchmark name: its
// per-benchmark override if one is configured, otherwise the global
// max_mean_ratio.
func (t Thresholds) RatioFor(name string) float64 {
	if r, ok := t.PerBenchmark[name]; ok {
		return r
	}
	return t.MaxMeanRatio
}

// Load reads and parses a threshold-override YAML file at path. Unset
// fields keep their Default() value, so a partial override file (e.g.
// only per_benchmark entries) is valid.
func Load(path string) (Thresholds, error) {
	t := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("failed to read threshold config: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("failed to parse threshold config: %w", err)
	}
	if t.PerBenchmark == nil {
		t.PerBenchmark = map[string]float64{}
	}
	return t, nil
}
