// Package docgen renders Markdown documentation for a .oaf source file
// or a directory of them (spec.md §6 `--gen-docs <path>`). Grounded on
// the teacher's internal/eval_analysis/formatter.go (strings.Builder
// section-by-section Markdown assembly) narrowed to this spec's
// declaration set: top-level type declarations and top-level bindings.
package docgen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oaflang/oaf/internal/ast"
	"github.com/oaflang/oaf/internal/diag"
	"github.com/oaflang/oaf/internal/lexer"
	"github.com/oaflang/oaf/internal/parser"
)

// Generate renders Markdown documentation for the .oaf file at path,
// or for every .oaf file found under path if it is a directory.
func Generate(path string) (string, error) {
	files, err := collectSourceFiles(path)
	if err != nil {
		return "", err
	}
	sort.Strings(files)

	var sb strings.Builder
	sb.WriteString("# Package Documentation\n\n")
	for _, f := range files {
		if err := renderFile(&sb, f); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func collectSourceFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".oaf") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", path, err)
	}
	return files, nil
}

func renderFile(sb *strings.Builder, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	bag := diag.NewBag()
	unit := parser.New(lexer.New(string(data), bag), bag).Parse()
	if bag.HasErrors() {
		return fmt.Errorf("failed to parse %s: %v", path, bag.All())
	}

	fmt.Fprintf(sb, "## %s\n\n", path)

	types := topLevelTypeDecls(unit)
	bindings := topLevelVarDecls(unit)

	if len(types) == 0 && len(bindings) == 0 {
		sb.WriteString("_No top-level declarations._\n\n")
		return nil
	}

	for _, t := range types {
		renderTypeDecl(sb, t)
	}
	if len(bindings) > 0 {
		sb.WriteString("### Bindings\n\n")
		for _, v := range bindings {
			renderVarDecl(sb, v)
		}
		sb.WriteByte('\n')
	}
	return nil
}

func topLevelTypeDecls(unit *ast.CompilationUnit) []*ast.TypeDecl {
	var out []*ast.TypeDecl
	for _, s := range unit.Statements {
		if t, ok := s.(*ast.TypeDecl); ok {
			out = append(out, t)
		}
	}
	return out
}

func topLevelVarDecls(unit *ast.CompilationUnit) []*ast.VarDecl {
	var out []*ast.VarDecl
	for _, s := range unit.Statements {
		if v, ok := s.(*ast.VarDecl); ok {
			out = append(out, v)
		}
	}
	return out
}

func renderTypeDecl(sb *strings.Builder, t *ast.TypeDecl) {
	kind := "struct"
	switch t.Kind {
	case ast.KindClass:
		kind = "class"
	case ast.KindEnum:
		kind = "enum"
	}
	fmt.Fprintf(sb, "### %s `%s`\n\n", kind, t.Name)

	switch t.Kind {
	case ast.KindEnum:
		for _, v := range t.Variants {
			if v.Payload != nil {
				fmt.Fprintf(sb, "- `%s(%s)`\n", v.Name, v.Payload.String())
			} else {
				fmt.Fprintf(sb, "- `%s`\n", v.Name)
			}
		}
	default:
		for _, f := range t.Fields {
			fmt.Fprintf(sb, "- `%s: %s`\n", f.Name, f.Type.String())
		}
	}
	sb.WriteByte('\n')
}

func renderVarDecl(sb *strings.Builder, v *ast.VarDecl) {
	mut := ""
	if v.Mutable {
		mut = "flux "
	}
	typ := ""
	if v.DeclaredType != nil {
		typ = v.DeclaredType.String() + " "
	}
	fmt.Fprintf(sb, "- `%s%s%s`\n", mut, typ, v.Name)
}
