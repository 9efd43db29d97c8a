// Command oaf is the command-line entry point for the oaf toolchain:
// compile-and-run, bytecode inspection, the kernel/general benchmark
// harness, source formatting, documentation generation, package
// management, and the REPL (spec.md §6). Grounded structurally on the
// teacher's cmd/ailang/main.go: a flag.Bool/flag.String set parsed up
// front, dispatch on flag.Arg(0) for subcommands, fatih/color for
// terminal output.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/bench"
	"github.com/oaflang/oaf/internal/bytecode"
	"github.com/oaflang/oaf/internal/config"
	"github.com/oaflang/oaf/internal/docgen"
	"github.com/oaflang/oaf/internal/driver"
	"github.com/oaflang/oaf/internal/format"
	"github.com/oaflang/oaf/internal/ir"
	"github.com/oaflang/oaf/internal/pkgmgr"
	"github.com/oaflang/oaf/internal/repl"
	"github.com/oaflang/oaf/internal/vm"
)

var (
	Version = "dev"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Exit codes (spec.md §6): 0 success, 1 compile error, 2 runtime
// error, 3 benchmark regression gate failure.
const (
	exitOK                 = 0
	exitCompileError       = 1
	exitRuntimeError       = 2
	exitRegressionDetected = 3
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "print version information")
		helpFlag    = flag.Bool("help", false, "show help")

		target      = flag.String("compilation-target", driver.TargetBytecode, "compilation target: bytecode or mlir")
		runBytecode = flag.Bool("run-bytecode", false, "compile <file> and execute the resulting bytecode program")

		astFlag       = flag.Bool("ast", false, "dump the parsed AST for <file> instead of running it")
		irFlag        = flag.Bool("ir", false, "dump the lowered IR for <file> instead of running it")
		bytecodeFlag  = flag.Bool("bytecode", false, "dump the disassembled bytecode for <file> instead of running it")
		formatFlag    = flag.Bool("format", false, "print <file> reformatted with deterministic indentation and spacing")
		genDocsFlag   = flag.Bool("gen-docs", false, "render Markdown documentation for <file-or-dir>")
		selfTestFlag  = flag.Bool("self-test", false, "run the toolchain's embedded self-test suite")

		benchmarkFlag        = flag.Bool("benchmark", false, "run the general process benchmark suite against the csharp-baseline")
		maxMeanRatio         = flag.Float64("max-mean-ratio", 0, "override the default max mean-ratio regression threshold")
		failOnRegression     = flag.Bool("fail-on-regression", false, "exit 3 if the regression gate flags any benchmark")
		thresholdsFile       = flag.String("thresholds", "", "path to a YAML regression-threshold overrides file")
		gateStatistic        = flag.String("gate-statistic", "mean", "statistic the regression gate evaluates: mean, median, or p95")

		benchmarkKernelsFlag = flag.Bool("benchmark-kernels", false, "run the C11 kernel benchmark harness")
		nativeFlag           = flag.Bool("native", false, "run kernels in native mode instead of the VM")
		tieredFlag           = flag.Bool("tiered", false, "run kernels in tiered mode (iteration 0 on the VM, rest native)")
		iterations           = flag.Int("iterations", 5, "iterations per benchmark")
		sumN                 = flag.Int64("sum-n", 1000, "n for the sum_xor and lcg_stream kernels")
		primeN               = flag.Int64("prime-n", 1000, "n for the prime_trial kernel")
		matrixN              = flag.Int64("matrix-n", 20, "n for the affine_grid, branch_mix, and gcd_fold kernels")

		pkgInit    = flag.Bool("pkg-init", false, "create an empty package manifest in the current directory")
		pkgAdd     = flag.String("pkg-add", "", "add a name@version dependency to the package manifest")
		pkgRemove  = flag.String("pkg-remove", "", "remove a dependency from the package manifest by name")
		pkgInstall = flag.Bool("pkg-install", false, "resolve the package manifest and write a lockfile")
	)

	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 && !(*benchmarkFlag || *benchmarkKernelsFlag || *selfTestFlag || *pkgInit || *pkgAdd != "" || *pkgRemove != "" || *pkgInstall) {
		printHelp()
		return
	}

	switch {
	case *selfTestFlag:
		os.Exit(runSelfTest())

	case *benchmarkKernelsFlag:
		mode := bench.ModeVM
		switch {
		case *nativeFlag:
			mode = bench.ModeNative
		case *tieredFlag:
			mode = bench.ModeTiered
		case *target == driver.TargetMLIR:
			mode = bench.ModeMLIRVM
		}
		os.Exit(runBenchmarkKernels(mode, *iterations, *sumN, *primeN, *matrixN))

	case *benchmarkFlag:
		os.Exit(runBenchmarkGeneral(*iterations, *maxMeanRatio, *thresholdsFile, *gateStatistic, *failOnRegression))

	case *pkgInit:
		os.Exit(runPkgInit())
	case *pkgAdd != "":
		os.Exit(runPkgAdd(*pkgAdd))
	case *pkgRemove != "":
		os.Exit(runPkgRemove(*pkgRemove))
	case *pkgInstall:
		os.Exit(runPkgInstall())
	}

	command := flag.Arg(0)
	switch command {
	case "run":
		requireFileArg(2, "oaf run <file>")
		os.Exit(runFile(flag.Arg(1), *target, *runBytecode))

	case "build":
		requireFileArg(2, "oaf build <file>")
		os.Exit(buildFile(flag.Arg(1), *target))

	case "repl":
		os.Exit(runREPL())

	default:
		if *astFlag || *irFlag || *bytecodeFlag {
			requireFileArg(1, "oaf --ast|--ir|--bytecode <file>")
			os.Exit(dumpFile(flag.Arg(0), *target, *astFlag, *irFlag, *bytecodeFlag))
		}
		if *formatFlag {
			requireFileArg(1, "oaf --format <file>")
			os.Exit(formatFile(flag.Arg(0)))
		}
		if *genDocsFlag {
			requireFileArg(1, "oaf --gen-docs <file-or-dir>")
			os.Exit(genDocs(flag.Arg(0)))
		}
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), command)
		printHelp()
		os.Exit(exitCompileError)
	}
}

func requireFileArg(minArgs int, usage string) {
	if flag.NArg() < minArgs {
		fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
		fmt.Println("Usage:", usage)
		os.Exit(exitCompileError)
	}
}

func printVersion() {
	fmt.Printf("oaf %s\n", bold(Version))
}

func printHelp() {
	fmt.Println(bold(cyan("oaf - the oaf language toolchain")))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  oaf run <file>                 compile and execute a .oaf file")
	fmt.Println("  oaf build <file>                compile a .oaf file to bytecode")
	fmt.Println("  oaf repl                        start the interactive REPL")
	fmt.Println("  oaf --ast|--ir|--bytecode <file> dump a compilation phase's artifact")
	fmt.Println("  oaf --format <file>             print <file> reformatted")
	fmt.Println("  oaf --gen-docs <path>           render Markdown docs for <path>")
	fmt.Println("  oaf --self-test                 run the embedded self-test suite")
	fmt.Println("  oaf --benchmark                 run the general benchmark suite")
	fmt.Println("  oaf --benchmark-kernels         run the C11 kernel benchmark harness")
	fmt.Println("  oaf --pkg-init|--pkg-add|--pkg-remove|--pkg-install")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

func readSource(path string) (string, int) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return "", exitCompileError
	}
	return string(data), exitOK
}

func runFile(path, target string, forceBytecode bool) int {
	source, code := readSource(path)
	if code != exitOK {
		return code
	}
	if forceBytecode {
		target = driver.TargetBytecode
	}

	result, err := driver.Compile(context.Background(), source, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitCompileError
	}
	if !result.Success {
		printDiagnostics(result)
		return exitCompileError
	}

	v, err := vm.New().Run(result.Program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Runtime error"), err)
		return exitRuntimeError
	}
	if v.Kind != vm.KUnit {
		fmt.Println(v.Inspect())
	}
	return exitOK
}

func buildFile(path, target string) int {
	source, code := readSource(path)
	if code != exitOK {
		return code
	}

	result, err := driver.Compile(context.Background(), source, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitCompileError
	}
	if !result.Success {
		printDiagnostics(result)
		return exitCompileError
	}

	fmt.Println(bytecode.Disassemble(result.Program, path))
	return exitOK
}

func dumpFile(path, target string, wantAST, wantIR, wantBytecode bool) int {
	source, code := readSource(path)
	if code != exitOK {
		return code
	}

	result, err := driver.Compile(context.Background(), source, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitCompileError
	}
	if wantAST && result.Unit != nil {
		fmt.Println(ast.Dump(result.Unit))
	}
	if result.Diagnostics.HasErrors() {
		printDiagnostics(result)
		return exitCompileError
	}
	if wantIR && result.IR != nil {
		fmt.Println(ir.Dump(result.IR))
	}
	if wantBytecode && result.Program != nil {
		fmt.Println(bytecode.Disassemble(result.Program, path))
	}
	return exitOK
}

func printDiagnostics(result *driver.CompilationResult) {
	for _, d := range result.Diagnostics.All() {
		fmt.Fprintln(os.Stderr, d.String())
	}
}

func formatFile(path string) int {
	source, code := readSource(path)
	if code != exitOK {
		return code
	}
	result, err := driver.Compile(context.Background(), source, driver.TargetBytecode)
	if err != nil || result.Unit == nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitCompileError
	}
	if result.Diagnostics.HasErrors() {
		printDiagnostics(result)
		return exitCompileError
	}
	fmt.Print(format.Source(result.Unit))
	return exitOK
}

func genDocs(path string) int {
	out, err := docgen.Generate(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitCompileError
	}
	fmt.Print(out)
	return exitOK
}

func runBenchmarkKernels(mode bench.Mode, iterations int, sumN, primeN, matrixN int64) int {
	ns := map[string]int64{
		"sum_xor":     sumN,
		"prime_trial": primeN,
		"affine_grid": matrixN,
		"branch_mix":  matrixN,
		"gcd_fold":    matrixN,
		"lcg_stream":  sumN,
	}

	var results []bench.Result
	for _, k := range bench.Kernels {
		n := ns[k.Name]
		res, err := bench.RunKernel(context.Background(), k, mode, n, iterations)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: kernel %s: %v\n", red("Error"), k.Name, err)
			return exitRuntimeError
		}
		results = append(results, res)
	}

	if err := bench.WriteKernelCSV(os.Stdout, results); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitRuntimeError
	}
	return exitOK
}

func runBenchmarkGeneral(iterations int, maxMeanRatio float64, thresholdsPath, statName string, failOnRegression bool) int {
	results, err := bench.RunGeneral(context.Background(), iterations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitRuntimeError
	}

	for _, r := range results {
		fmt.Printf("%-20s %-15s mean=%.4fms median=%.4fms p95=%.4fms\n",
			r.Benchmark, r.Runtime, r.Stats.Mean, r.Stats.Median, r.Stats.P95)
	}

	thresholds := config.Default()
	if thresholdsPath != "" {
		thresholds, err = config.Load(thresholdsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			return exitRuntimeError
		}
	}
	if maxMeanRatio > 0 {
		thresholds.MaxMeanRatio = maxMeanRatio
	}

	stat := parseStatistic(statName)
	regressions, err := bench.Gate(results, thresholds, stat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitRuntimeError
	}

	for _, r := range regressions {
		fmt.Printf("%s: %s %s ratio=%.3f threshold=%.3f\n", yellow("regression"), r.Benchmark, r.Statistic, r.Ratio, r.Threshold)
	}

	if len(regressions) > 0 && failOnRegression {
		return exitRegressionDetected
	}
	return exitOK
}

func parseStatistic(name string) bench.Statistic {
	switch name {
	case "median":
		return bench.StatMedian
	case "p95":
		return bench.StatP95
	default:
		return bench.StatMean
	}
}

func runSelfTest() int {
	kernelNames := []string{}
	for _, k := range bench.Kernels {
		kernelNames = append(kernelNames, k.Name)
		vmResult, err := bench.RunKernel(context.Background(), k, bench.ModeVM, 12, 1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: kernel %s (vm): %v\n", red("FAIL"), k.Name, err)
			return exitRuntimeError
		}
		nativeResult, err := bench.RunKernel(context.Background(), k, bench.ModeNative, 12, 1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: kernel %s (native): %v\n", red("FAIL"), k.Name, err)
			return exitRuntimeError
		}
		if vmResult.Checksum != nativeResult.Checksum {
			fmt.Fprintf(os.Stderr, "%s: kernel %s: vm checksum %d != native checksum %d\n",
				red("FAIL"), k.Name, vmResult.Checksum, nativeResult.Checksum)
			return exitRuntimeError
		}
	}
	fmt.Printf("%s: %d kernels agree between vm and native mode (%v)\n", green("PASS"), len(kernelNames), kernelNames)
	return exitOK
}

func runPkgInit() int {
	m := &pkgmgr.Manifest{}
	if err := m.Save(pkgmgr.ManifestFile); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitCompileError
	}
	fmt.Printf("%s %s\n", green("created"), pkgmgr.ManifestFile)
	return exitOK
}

func runPkgAdd(spec string) int {
	name, version, ok := cutAt(spec)
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: --pkg-add wants name@version, got %q\n", red("Error"), spec)
		return exitCompileError
	}
	m, err := pkgmgr.LoadManifest(pkgmgr.ManifestFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitCompileError
	}
	m.Add(pkgmgr.Dependency{Name: name, Version: version})
	if err := m.Save(pkgmgr.ManifestFile); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitCompileError
	}
	fmt.Printf("%s %s@%s\n", green("added"), name, version)
	return exitOK
}

func runPkgRemove(name string) int {
	m, err := pkgmgr.LoadManifest(pkgmgr.ManifestFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitCompileError
	}
	if !m.Remove(name) {
		fmt.Fprintf(os.Stderr, "%s: %s is not in %s\n", yellow("warning"), name, pkgmgr.ManifestFile)
	}
	if err := m.Save(pkgmgr.ManifestFile); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitCompileError
	}
	fmt.Printf("%s %s\n", green("removed"), name)
	return exitOK
}

func runPkgInstall() int {
	m, err := pkgmgr.LoadManifest(pkgmgr.ManifestFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitCompileError
	}
	entries, err := pkgmgr.Install(".", m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitCompileError
	}
	if err := pkgmgr.SaveLock(pkgmgr.LockFile, entries); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitCompileError
	}
	fmt.Printf("%s %d dependencies into %s\n", green("resolved"), len(entries), pkgmgr.LockFile)
	return exitOK
}

func cutAt(spec string) (name, version string, ok bool) {
	for i := 0; i < len(spec); i++ {
		if spec[i] == '@' {
			return spec[:i], spec[i+1:], i > 0 && i < len(spec)-1
		}
	}
	return "", "", false
}

func runREPL() int {
	cfg := repl.Config{Version: Version}
	r := repl.New(cfg)
	if err := r.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return exitRuntimeError
	}
	return exitOK
}
