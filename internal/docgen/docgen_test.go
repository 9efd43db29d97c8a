package docgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSingleFileListsTypeAndBinding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapes.oaf")
	require.NoError(t, os.WriteFile(path, []byte("struct Point [x: int, y: int];\nint origin = 0;\n"), 0o644))

	out, err := Generate(path)
	require.NoError(t, err)
	require.Contains(t, out, "struct `Point`")
	require.Contains(t, out, "`x: int`")
	require.Contains(t, out, "`origin`")
}

func TestGenerateDirectoryWalksAllOafFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.oaf"), []byte("int a = 1;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.oaf"), []byte("int b = 2;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("not oaf"), 0o644))

	out, err := Generate(dir)
	require.NoError(t, err)
	require.Contains(t, out, "a.oaf")
	require.Contains(t, out, "b.oaf")
	require.NotContains(t, out, "ignore.txt")
}

func TestGenerateReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.oaf")
	require.NoError(t, os.WriteFile(path, []byte("int x = ;\n"), 0o644))

	_, err := Generate(path)
	require.Error(t, err)
}

func TestGenerateEmptyFileNotesNoDeclarations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.oaf")
	require.NoError(t, os.WriteFile(path, []byte("return 1;\n"), 0o644))

	out, err := Generate(path)
	require.NoError(t, err)
	require.Contains(t, out, "No top-level declarations")
}
