package bench

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteKernelCSVHeaderAndRowShape(t *testing.T) {
	var buf bytes.Buffer
	results := []Result{
		{Algorithm: "sum_xor", Iterations: 3, TotalMs: 1.5, MeanMs: 0.5, Checksum: 42},
	}
	require.NoError(t, WriteKernelCSV(&buf, results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "language,algorithm,iterations,total_ms,mean_ms,checksum", lines[0])
	require.Equal(t, "oaf,sum_xor,3,1.5000,0.5000,42", lines[1])
}
