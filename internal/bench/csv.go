package bench

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteKernelCSV emits results as CSV rows matching the contract
// header (spec.md §6): language,algorithm,iterations,total_ms,mean_ms,checksum.
// The language cell is always "oaf" here; external scripts relabel it
// per mode (oaf_vm, oaf_exe, ...).
func WriteKernelCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"language", "algorithm", "iterations", "total_ms", "mean_ms", "checksum"}); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			"oaf",
			r.Algorithm,
			fmt.Sprintf("%d", r.Iterations),
			fmt.Sprintf("%.4f", r.TotalMs),
			fmt.Sprintf("%.4f", r.MeanMs),
			fmt.Sprintf("%d", r.Checksum),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}
