// Package bench implements the kernel benchmark harness and the
// general process-wide benchmark runner (spec.md §4.11), grounded on
// the teacher's internal/eval_analysis comparison/matrix machinery and
// internal/effects clock (time.Now/time.Since for elapsed timing).
//
// Every kernel is defined twice: once as oaf source text compiled and
// run through the real pipeline (for the VM and MLIR-VM modes), and
// once as a native Go function computing the identical checksum (for
// the native, tiered, and MLIR-native modes). The two must agree
// exactly for any input size, since mode selection may only change
// timing, never the observable result.
package bench

import (
	"context"
	"fmt"

	"github.com/oaflang/oaf/internal/driver"
	"github.com/oaflang/oaf/internal/vm"
)

// Mode is the closed set of kernel execution strategies (spec.md §9
// REDESIGN FLAGS: "implement as a strategy dispatch over a small
// closed set of modes rather than string-keyed configuration").
type Mode int

const (
	ModeVM Mode = iota
	ModeNative
	ModeTiered
	ModeMLIRVM
	ModeMLIRNative
)

func (m Mode) String() string {
	switch m {
	case ModeVM:
		return "vm"
	case ModeNative:
		return "native"
	case ModeTiered:
		return "tiered"
	case ModeMLIRVM:
		return "mlir-vm"
	case ModeMLIRNative:
		return "mlir-native"
	default:
		return "unknown"
	}
}

// Kernel pairs a name with an oaf source generator and a native Go
// equivalent, both parameterized by a single size input n.
type Kernel struct {
	Name   string
	Source func(n int64) string
	Native func(n int64) int64
}

// Kernels is the fixed set run by the harness: sum_xor, prime_trial,
// affine_grid (core, spec.md §4.11) plus branch_mix, gcd_fold,
// lcg_stream (extended, SPEC_FULL.md §10).
var Kernels = []Kernel{
	{Name: "sum_xor", Source: sumXorSource, Native: sumXorNative},
	{Name: "prime_trial", Source: primeTrialSource, Native: primeTrialNative},
	{Name: "affine_grid", Source: affineGridSource, Native: affineGridNative},
	{Name: "branch_mix", Source: branchMixSource, Native: branchMixNative},
	{Name: "gcd_fold", Source: gcdFoldSource, Native: gcdFoldNative},
	{Name: "lcg_stream", Source: lcgStreamSource, Native: lcgStreamNative},
}

// Lookup returns the kernel registered under name.
func Lookup(name string) (Kernel, bool) {
	for _, k := range Kernels {
		if k.Name == name {
			return k, true
		}
	}
	return Kernel{}, false
}

// sum_xor accumulates i XOR (i+1) over [0, n), exercising the VM's
// bitwise-xor opcode. Every mutation of the running total uses
// compound assignment (+=) since oaf only recognizes compound
// assignment for +=, -=, *=, /= (spec.md §4.2) — a loop body opens its
// own nested scope (spec.md §4.4 checkBlock), so a plain `=` to an
// outer-declared name would shadow rather than mutate it.
func sumXorSource(n int64) string {
	return fmt.Sprintf(`flux int total = 0;
flux int i = 0;
loop i < %d => {
	total += i ^ (i + 1);
	i += 1;
}
return total;`, n)
}

func sumXorNative(n int64) int64 {
	var total, i int64
	for i = 0; i < n; i++ {
		total += i ^ (i + 1)
	}
	return total
}

// prime_trial counts primes below n via trial division. isPrime is
// reset with `isPrime *= 0` rather than `isPrime = 0` for the same
// nested-scope reason as sum_xor: the divisor check runs inside an
// `if` nested under the outer loop's body, so only a compound
// assignment reaches the isPrime binding declared one scope out.
func primeTrialSource(n int64) string {
	return fmt.Sprintf(`flux int count = 0;
flux int i = 2;
loop i < %d => {
	flux int isPrime = 1;
	flux int d = 2;
	loop d * d <= i => {
		if i / d * d == i => {
			isPrime *= 0;
		}
		d += 1;
	}
	if isPrime == 1 => {
		count += 1;
	}
	i += 1;
}
return count;`, n)
}

func primeTrialNative(n int64) int64 {
	var count int64
	for i := int64(2); i < n; i++ {
		isPrime := true
		for d := int64(2); d*d <= i; d++ {
			if i%d == 0 {
				isPrime = false
			}
		}
		if isPrime {
			count++
		}
	}
	return count
}

// affine_grid sums ax+by+c over an n x n grid of (x, y) coordinates,
// exercising nested loops and multiply/add arithmetic.
func affineGridSource(n int64) string {
	return fmt.Sprintf(`flux int total = 0;
flux int x = 0;
loop x < %d => {
	flux int y = 0;
	loop y < %d => {
		total += 3 * x + 5 * y + 7;
		y += 1;
	}
	x += 1;
}
return total;`, n, n)
}

func affineGridNative(n int64) int64 {
	var total int64
	for x := int64(0); x < n; x++ {
		for y := int64(0); y < n; y++ {
			total += 3*x + 5*y + 7
		}
	}
	return total
}

// branch_mix sums a branchy accumulator over [0, n), selecting one of
// three branches by i mod 3: residue 0 adds the square of the index,
// residue 1 subtracts the index, residue 2 adds twice the index. The
// branch taken cycles with period 3.
func branchMixSource(n int64) string {
	return fmt.Sprintf(`flux int total = 0;
flux int i = 0;
loop i < %d => {
	if i %% 3 == 0 => {
		total += i * i;
	}
	if i %% 3 == 1 => {
		total -= i;
	}
	if i %% 3 == 2 => {
		total += i * 2;
	}
	i += 1;
}
return total;`, n)
}

func branchMixNative(n int64) int64 {
	var total int64
	for i := int64(0); i < n; i++ {
		switch i % 3 {
		case 0:
			total += i * i
		case 1:
			total -= i
		case 2:
			total += i * 2
		}
	}
	return total
}

// gcd_fold folds Euclid's GCD over a generated integer stream: the
// stream term at index i is (i*2654435761 mod n) + 1, and the running
// fold is GCD(running, term). `a` and `b` are declared in the outer
// loop's body, one scope out from the inner Euclid loop's own body, so
// the inner loop writes them via `a += b - a` rather than `a = b` —
// only compound assignment reaches a name declared in an enclosing
// scope (spec.md §4.4 checkBlock nests a scope per loop body).
func gcdFoldSource(n int64) string {
	return fmt.Sprintf(`flux int running = %d;
flux int i = 0;
loop i < %d => {
	flux int term = (i * 2654435761) %% %d + 1;
	flux int a = running;
	flux int b = term;
	loop b != 0 => {
		flux int t = a %% b;
		a += b - a;
		b += t - b;
	}
	running += a - running;
	i += 1;
}
return running;`, n, n, n)
}

func gcdFoldNative(n int64) int64 {
	running := n
	for i := int64(0); i < n; i++ {
		term := (i*2654435761)%n + 1
		a, b := running, term
		for b != 0 {
			a, b = b, a%b
		}
		running = a
	}
	return running
}

// lcg_stream sums n outputs of a 64-bit linear congruential generator
// (the constants are Knuth's MMIX multiplier/increment pair; both fit
// in int64 and the multiply wraps under int64 arithmetic). `state` is
// declared outside the loop, so its per-iteration update goes through
// `state += next - state` rather than a plain `=`, for the same
// nested-scope reason as gcd_fold.
func lcgStreamSource(n int64) string {
	return fmt.Sprintf(`flux int total = 0;
flux int state = 1;
flux int i = 0;
loop i < %d => {
	flux int next = state * 6364136223846793005 + 1442695040888963407;
	state += next - state;
	total += state %% 1000000007;
	i += 1;
}
return total;`, n)
}

func lcgStreamNative(n int64) int64 {
	var total int64
	state := int64(1)
	for i := int64(0); i < n; i++ {
		state = state*6364136223846793005 + 1442695040888963407
		total += state % 1000000007
	}
	return total
}

// Result is one (kernel, mode) measurement row (spec.md §4.11 and §6
// CSV shape: language, algorithm, iterations, total_ms, mean_ms,
// checksum).
type Result struct {
	Algorithm  string
	Mode       Mode
	Iterations int
	TotalMs    float64
	MeanMs     float64
	Checksum   int64
}
