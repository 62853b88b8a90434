package testkit

import (
	"strings"
	"testing"

	"goboscript/internal/ast"
	"goboscript/internal/diag"
	"goboscript/internal/lexer"
	"goboscript/internal/parser"
	"goboscript/internal/source"
)

func parse(t *testing.T, input string) (*ast.Builder, ast.FileID, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("unit.gs", []byte(input)))
	reporter := diag.BagReporter{Bag: diag.NewBag(16)}
	builder := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs, lexer.New(file, lexer.Options{Reporter: reporter}), builder, parser.Options{MaxErrors: 16, Reporter: reporter})
	return builder, res.File, file
}

func TestCheckSpanInvariants(t *testing.T) {
	for _, src := range []string{
		"",
		"var x = 1;\nlist l = [1, 2];\n",
		"def greet name { say name; }\nonflag { greet \"cat\"; }\n",
	} {
		b, id, file := parse(t, src)
		if err := CheckSpanInvariants(b, id, file); err != nil {
			t.Fatalf("%q: %v", src, err)
		}
	}
}

func TestCheckSpanInvariantsDetectsEscapedItem(t *testing.T) {
	b, id, file := parse(t, "var x = 1;\n")
	item := b.Items.Get(b.Files.Get(id).Items[0])
	item.Span.End += 100

	err := CheckSpanInvariants(b, id, file)
	if err == nil || !strings.Contains(err.Error(), "outside file span") {
		t.Fatalf("expected containment error, got %v", err)
	}
}
