package driver

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileBytecodeTargetSucceeds(t *testing.T) {
	result, err := Compile(context.Background(), "return 1 + 2;", TargetBytecode)
	require.NoError(t, err)
	require.True(t, result.Success, "diagnostics: %v", result.Diagnostics.All())
	require.NotNil(t, result.Program)
}

func TestCompileHaltsBeforeIRLoweringOnTypeError(t *testing.T) {
	result, err := Compile(context.Background(), "return undefinedName;", TargetBytecode)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Nil(t, result.IR)
	require.Nil(t, result.Program)
	require.True(t, result.Diagnostics.HasErrors())
}

func TestBytecodeAndMLIRTargetsProduceIdenticalPrograms(t *testing.T) {
	src := "int x = 2; int y = 3; return x * y + 1;"

	bc, err := Compile(context.Background(), src, TargetBytecode)
	require.NoError(t, err)
	ml, err := Compile(context.Background(), src, TargetMLIR)
	require.NoError(t, err)

	require.Equal(t, bc.Program.Code, ml.Program.Code)
	require.Equal(t, bc.Program.Constants, ml.Program.Constants)
}

func TestCacheReturnsSameResultOnRepeatedFingerprint(t *testing.T) {
	cache := NewCache(4)
	src := "return 5;"

	first, err := cache.CompileCached(context.Background(), src, TargetBytecode)
	require.NoError(t, err)
	second, err := cache.CompileCached(context.Background(), src, TargetBytecode)
	require.NoError(t, err)
	require.Same(t, first, second, "expected the cached pointer to be reused across identical fingerprints")
}

func TestCacheEvictsLeastRecentlyUsedBeyondSize(t *testing.T) {
	cache := NewCache(2)
	cache.Put("a", &CompilationResult{Success: true})
	cache.Put("b", &CompilationResult{Success: true})
	cache.Put("c", &CompilationResult{Success: true})

	_, ok := cache.Get("a")
	require.False(t, ok, "expected the least-recently-used entry to be evicted")
	_, ok = cache.Get("c")
	require.True(t, ok, "expected the most recently inserted entry to remain cached")
}

func TestConcurrentCompileCachedForSameFingerprintRunsOnce(t *testing.T) {
	cache := NewCache(8)
	src := "return 7;"

	var calls int32
	original := compileImpl
	compileImpl = func(ctx context.Context, source, target string) (*CompilationResult, error) {
		atomic.AddInt32(&calls, 1)
		return original(ctx, source, target)
	}
	defer func() { compileImpl = original }()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.CompileCached(context.Background(), src, TargetBytecode)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), atomic.LoadInt32(&calls), "expected the pipeline to run exactly once across 10 concurrent callers for the same fingerprint")

	_, ok := cache.Get(Fingerprint(src, TargetBytecode))
	require.True(t, ok, "expected the fingerprint to be cached after concurrent calls")
}
