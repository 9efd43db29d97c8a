package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRatioAppliesWhenNoOverride(t *testing.T) {
	th := Default()
	require.Equal(t, DefaultMaxMeanRatio, th.RatioFor("lexer"))
}

func TestLoadAppliesPerBenchmarkOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_mean_ratio: 1.25
per_benchmark:
  lexer: 1.1
  bytecode_vm: 1.2
`), 0o644))

	th, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1.1, th.RatioFor("lexer"))
	require.Equal(t, 1.2, th.RatioFor("bytecode_vm"))
	require.Equal(t, 1.25, th.RatioFor("compiler_pipeline"))
}

func TestLoadPartialFileKeepsDefaultMaxRatio(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("per_benchmark:\n  lexer: 1.05\n"), 0o644))

	th, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultMaxMeanRatio, th.RatioFor("compiler_pipeline"))
	require.Equal(t, 1.05, th.RatioFor("lexer"))
}
