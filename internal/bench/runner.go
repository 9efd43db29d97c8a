package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/oaflang/oaf/internal/driver"
	"github.com/oaflang/oaf/internal/vm"
)

// RunKernel executes kernel under mode, iterations times, at size n,
// and returns the aggregate timing plus the checksum every iteration
// must agree on (spec.md §4.11: "observable checksums must be
// identical across modes for identical inputs; only timings differ").
func RunKernel(ctx context.Context, k Kernel, mode Mode, n int64, iterations int) (Result, error) {
	if iterations <= 0 {
		iterations = 1
	}

	var checksum int64
	start := time.Now()
	for it := 0; it < iterations; it++ {
		effectiveMode := mode
		if mode == ModeTiered && it > 0 {
			effectiveMode = ModeNative
		}

		cs, err := runOnce(ctx, k, effectiveMode, n)
		if err != nil {
			return Result{}, fmt.Errorf("kernel %s mode %s iteration %d: %w", k.Name, mode, it, err)
		}
		if it > 0 && cs != checksum {
			return Result{}, fmt.Errorf("kernel %s mode %s: checksum diverged across iterations (%d vs %d)", k.Name, mode, checksum, cs)
		}
		checksum = cs
	}
	elapsed := time.Since(start)

	totalMs := float64(elapsed) / float64(time.Millisecond)
	return Result{
		Algorithm:  k.Name,
		Mode:       mode,
		Iterations: iterations,
		TotalMs:    totalMs,
		MeanMs:     totalMs / float64(iterations),
		Checksum:   checksum,
	}, nil
}

// runOnce runs one pass of kernel k under mode at size n, returning
// its checksum.
func runOnce(ctx context.Context, k Kernel, mode Mode, n int64) (int64, error) {
	switch mode {
	case ModeNative, ModeMLIRNative:
		return k.Native(n), nil
	case ModeVM, ModeMLIRVM:
		target := driver.TargetBytecode
		if mode == ModeMLIRVM {
			target = driver.TargetMLIR
		}
		result, err := driver.Compile(ctx, k.Source(n), target)
		if err != nil {
			return 0, err
		}
		if !result.Success {
			return 0, fmt.Errorf("kernel source failed to compile: %v", result.Diagnostics.All())
		}
		machine := vm.New()
		v, err := machine.Run(result.Program)
		if err != nil {
			return 0, fmt.Errorf("kernel runtime error: %w", err)
		}
		return v.AsInt(), nil
	default:
		return 0, fmt.Errorf("unknown execution mode %v", mode)
	}
}

// RunAllKernels runs every registered kernel under mode and returns
// one Result per kernel.
func RunAllKernels(ctx context.Context, mode Mode, n int64, iterations int) ([]Result, error) {
	results := make([]Result, 0, len(Kernels))
	for _, k := range Kernels {
		r, err := RunKernel(ctx, k, mode, n, iterations)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
