package bench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKernelVMAndNativeModesAgreeOnChecksum(t *testing.T) {
	ctx := context.Background()
	for _, k := range Kernels {
		vmResult, err := RunKernel(ctx, k, ModeVM, 12, 1)
		require.NoError(t, err, "kernel %s vm mode", k.Name)

		nativeResult, err := RunKernel(ctx, k, ModeNative, 12, 1)
		require.NoError(t, err, "kernel %s native mode", k.Name)

		require.Equal(t, vmResult.Checksum, nativeResult.Checksum, "kernel %s: vm and native checksums diverged", k.Name)
	}
}

func TestKernelMLIRVMMatchesBytecodeVM(t *testing.T) {
	ctx := context.Background()
	k, ok := Lookup("sum_xor")
	require.True(t, ok)

	bytecodeResult, err := RunKernel(ctx, k, ModeVM, 20, 1)
	require.NoError(t, err)
	mlirResult, err := RunKernel(ctx, k, ModeMLIRVM, 20, 1)
	require.NoError(t, err)

	require.Equal(t, bytecodeResult.Checksum, mlirResult.Checksum)
}

func TestTieredModeFallsBackToNativeAfterFirstIteration(t *testing.T) {
	ctx := context.Background()
	k, ok := Lookup("prime_trial")
	require.True(t, ok)

	result, err := RunKernel(ctx, k, ModeTiered, 30, 3)
	require.NoError(t, err)
	require.Equal(t, k.Native(30), result.Checksum)
}

func TestSumXorMatchesNativeFormula(t *testing.T) {
	var want int64
	for i := int64(0); i < 5; i++ {
		want += i ^ (i + 1)
	}
	require.Equal(t, want, sumXorNative(5))
}

func TestPrimeTrialCountsKnownPrimesUnder30(t *testing.T) {
	require.Equal(t, int64(10), primeTrialNative(30))
}

func TestGcdFoldIsDeterministicAcrossRepeatedCalls(t *testing.T) {
	require.Equal(t, gcdFoldNative(50), gcdFoldNative(50))
}

func TestLookupReportsMissingKernel(t *testing.T) {
	_, ok := Lookup("does_not_exist")
	require.False(t, ok)
}
