package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvalLineReturnsBareExpressionValueWithoutPersistingIt(t *testing.T) {
	r := New(Config{})
	var out bytes.Buffer

	r.evalLine("1 + 2", &out)
	require.Contains(t, out.String(), "3")
	require.Empty(t, r.session)
}

func TestEvalLinePersistsDeclarationsAcrossCalls(t *testing.T) {
	r := New(Config{})
	var out bytes.Buffer

	r.evalLine("flux int total = 10;", &out)
	require.Len(t, r.session, 1)

	out.Reset()
	r.evalLine("total", &out)
	require.Contains(t, out.String(), "10")
}

func TestEvalLineAccumulatesCompoundAssignmentAcrossSession(t *testing.T) {
	r := New(Config{})
	var out bytes.Buffer

	r.evalLine("flux int total = 0;", &out)
	r.evalLine("total += 5;", &out)
	require.Len(t, r.session, 2)

	out.Reset()
	r.evalLine("total", &out)
	require.Contains(t, out.String(), "5")
}

func TestEvalLineReportsDiagnosticsOnBadInput(t *testing.T) {
	r := New(Config{})
	var out bytes.Buffer

	r.evalLine("flux int x = ;", &out)
	require.NotEmpty(t, out.String())
	require.Empty(t, r.session)
}

func TestResetCommandClearsSession(t *testing.T) {
	r := New(Config{})
	var out bytes.Buffer

	r.evalLine("flux int x = 1;", &out)
	require.Len(t, r.session, 1)

	r.handleCommand(":reset", &out)
	require.Empty(t, r.session)
}

func TestHistoryCommandListsEnteredLines(t *testing.T) {
	r := New(Config{})
	r.history = []string{"1 + 1", ":help"}

	var out bytes.Buffer
	r.handleCommand(":history", &out)
	require.Contains(t, out.String(), "1 + 1")
}

func TestIsQuitCommandRecognizesAllAliases(t *testing.T) {
	require.True(t, isQuitCommand(":quit"))
	require.True(t, isQuitCommand(":q"))
	require.True(t, isQuitCommand(":exit"))
	require.False(t, isQuitCommand(":help"))
}
