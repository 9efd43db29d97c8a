// Package repl implements the interactive read-eval-print loop
// (spec.md §6 `oaf repl`). Grounded on the teacher's internal/repl.REPL:
// a peterh/liner prompt loop with history persisted to a temp file and
// fatih/color output, kept verbatim in shape. The evaluation model
// underneath is narrowed to this spec's language: oaf has no
// functions, algebraic effects, or type classes, so the teacher's
// persistent CoreEvaluator/EffContext/DictionaryRegistry machinery
// doesn't carry over. In its place, the REPL accumulates top-level
// declarations across lines into one growing session program and
// recompiles/reruns it through internal/driver and internal/vm on
// every input, mirroring the teacher's "persistent environment so
// `let` bindings survive across lines" behavior with this language's
// flat `flux`/`loop`/`if` statement model instead of `let`.
package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/bytecode"
	"github.com/oaflang/oaf/internal/driver"
	"github.com/oaflang/oaf/internal/format"
	"github.com/oaflang/oaf/internal/ir"
	"github.com/oaflang/oaf/internal/vm"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Config holds REPL configuration.
type Config struct {
	Version string
}

// REPL is a read-eval-print loop session. Session holds every
// statement accepted so far (spec.md §6 session persistence); each new
// line recompiles Session+line as one program, so declarations from
// earlier lines stay in scope for later ones.
type REPL struct {
	version string
	session []string
	history []string
}

// New creates a REPL session.
func New(cfg Config) *REPL {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	return &REPL{version: version}
}

func (r *REPL) prompt() string {
	return "oaf> "
}

// Start begins the interactive session against stdin/stdout.
func (r *REPL) Start() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".oaf_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(text string) (c []string) {
		if !strings.HasPrefix(text, ":") {
			return nil
		}
		for _, cmd := range replCommands {
			if strings.HasPrefix(cmd, text) {
				c = append(c, cmd)
			}
		}
		return
	})

	fmt.Printf("%s %s\n", bold("oaf"), bold(r.version))
	fmt.Println(dim("Type :help for help, :quit to exit"))
	fmt.Println()

	for {
		input, err := line.Prompt(r.prompt())
		if err == io.EOF {
			fmt.Println(green("Goodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if isQuitCommand(input) {
				fmt.Println(green("Goodbye!"))
				break
			}
			r.handleCommand(input, os.Stdout)
			continue
		}

		r.evalLine(input, os.Stdout)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
	return nil
}

func isQuitCommand(input string) bool {
	return input == ":quit" || input == ":q" || input == ":exit"
}

// compileSession builds a CompilationResult for session+extra without
// mutating r.session, so the caller can choose whether to keep extra.
func (r *REPL) compileSession(extra string) (*driver.CompilationResult, error) {
	src := strings.Join(append(append([]string(nil), r.session...), extra), "\n")
	return driver.Compile(context.Background(), src, driver.TargetBytecode)
}

// evalLine compiles and runs the accumulated session plus input. A
// bare expression (no trailing ";") is wrapped in "return" so its
// value prints without becoming a permanent part of the session;
// anything else (a declaration, assignment, loop, ...) is kept.
func (r *REPL) evalLine(input string, out io.Writer) {
	trimmed := strings.TrimSpace(input)
	isBareExpr := !strings.HasSuffix(trimmed, ";") && !strings.HasSuffix(trimmed, "}")

	toRun := input
	if isBareExpr {
		toRun = "return " + trimmed + ";"
	}

	result, err := r.compileSession(toRun)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
		return
	}
	if !result.Success {
		for _, d := range result.Diagnostics.All() {
			fmt.Fprintln(out, red(d.String()))
		}
		return
	}

	v, err := vm.New().Run(result.Program)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("Runtime error"), err)
		return
	}
	if v.Kind != vm.KUnit {
		fmt.Fprintln(out, v.Inspect())
	}

	if !isBareExpr {
		r.session = append(r.session, input)
	}
}

var replCommands = []string{
	":help", ":quit", ":exit", ":reset", ":history", ":session",
	":ast", ":ir", ":bytecode", ":format",
}

func (r *REPL) handleCommand(cmd string, out io.Writer) {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ":help", ":h":
		r.printHelp(out)
	case ":reset":
		r.session = nil
		fmt.Fprintln(out, yellow("session cleared"))
	case ":history":
		for i, h := range r.history {
			fmt.Fprintf(out, "%3d  %s\n", i+1, h)
		}
	case ":session":
		for _, s := range r.session {
			fmt.Fprintln(out, s)
		}
	case ":ast", ":ir", ":bytecode":
		r.dumpSession(fields[0], out)
	case ":format":
		r.formatSession(out)
	default:
		fmt.Fprintf(out, "%s: unknown command %q (try :help)\n", red("Error"), fields[0])
	}
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("Commands:"))
	fmt.Fprintln(out, "  :help              show this message")
	fmt.Fprintln(out, "  :quit, :exit       leave the REPL")
	fmt.Fprintln(out, "  :reset             clear the accumulated session")
	fmt.Fprintln(out, "  :history           list every line entered this session")
	fmt.Fprintln(out, "  :session           print the accumulated session program")
	fmt.Fprintln(out, "  :ast :ir :bytecode dump the session program's compilation artifacts")
	fmt.Fprintln(out, "  :format            print the session program reformatted")
}

func (r *REPL) dumpSession(which string, out io.Writer) {
	if len(r.session) == 0 {
		fmt.Fprintln(out, yellow("session is empty"))
		return
	}
	result, err := r.compileSession("return 0;")
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
		return
	}
	switch which {
	case ":ast":
		if result.Unit != nil {
			fmt.Fprintln(out, ast.Dump(result.Unit))
		}
	case ":ir":
		if result.Diagnostics.HasErrors() {
			for _, d := range result.Diagnostics.All() {
				fmt.Fprintln(out, red(d.String()))
			}
			return
		}
		if result.IR != nil {
			fmt.Fprintln(out, ir.Dump(result.IR))
		}
	case ":bytecode":
		if result.Diagnostics.HasErrors() {
			for _, d := range result.Diagnostics.All() {
				fmt.Fprintln(out, red(d.String()))
			}
			return
		}
		if result.Program != nil {
			fmt.Fprintln(out, bytecode.Disassemble(result.Program, "session"))
		}
	}
}

func (r *REPL) formatSession(out io.Writer) {
	if len(r.session) == 0 {
		fmt.Fprintln(out, yellow("session is empty"))
		return
	}
	result, err := r.compileSession("return 0;")
	if err != nil || result.Unit == nil {
		fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
		return
	}
	fmt.Fprint(out, format.Source(result.Unit))
}
