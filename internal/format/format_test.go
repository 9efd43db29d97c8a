package format

import (
	"testing"

	"github.com/oaflang/oaf/internal/diag"
	"github.com/oaflang/oaf/internal/lexer"
	"github.com/oaflang/oaf/internal/parser"
	"github.com/stretchr/testify/require"
)

func TestFormatIsIdempotent(t *testing.T) {
	src := "flux int total = 0;\nflux int i = 0;\nloop i < 10 => {\n\ttotal += i * 2;\n\ti += 1;\n}\nreturn total;\n"

	bag := diag.NewBag()
	unit := parser.New(lexer.New(src, bag), bag).Parse()
	require.False(t, bag.HasErrors(), "unexpected diagnostics: %v", bag.All())

	once := Source(unit)

	bag2 := diag.NewBag()
	reparsed := parser.New(lexer.New(once, bag2), bag2).Parse()
	require.False(t, bag2.HasErrors(), "unexpected diagnostics on reformatted source: %v", bag2.All())

	twice := Source(reparsed)
	require.Equal(t, once, twice)
}

func TestFormatPreservesOperatorPrecedenceWithParens(t *testing.T) {
	bag := diag.NewBag()
	unit := parser.New(lexer.New("return (1 + 2) * 3;", bag), bag).Parse()
	require.False(t, bag.HasErrors())

	out := Source(unit)
	require.Contains(t, out, "(1 + 2) * 3")
}

func TestFormatOmitsRedundantParensForLeftAssociativeChain(t *testing.T) {
	bag := diag.NewBag()
	unit := parser.New(lexer.New("return 1 + 2 + 3;", bag), bag).Parse()
	require.False(t, bag.HasErrors())

	out := Source(unit)
	require.Contains(t, out, "1 + 2 + 3")
	require.NotContains(t, out, "(")
}
