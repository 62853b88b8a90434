package parser

import (
	"fmt"
	"strings"
	"testing"

	"goboscript/internal/ast"
	"goboscript/internal/diag"
	"goboscript/internal/lexer"
	"goboscript/internal/source"
	"goboscript/internal/testkit"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func parseSource(t *testing.T, input string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	b, fileID, bag, _ := parseUnit(t, input)
	return b, fileID, bag
}

func parseUnit(t *testing.T, input string) (*ast.Builder, ast.FileID, *diag.Bag, *source.File) {
	t.Helper()

	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.gs", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})

	result := ParseFile(fs, lx, builder, Options{MaxErrors: 100, Reporter: reporter})
	return builder, result.File, bag, file
}

func mustParse(t *testing.T, input string) (*ast.Builder, *ast.File) {
	t.Helper()
	b, fileID, bag, file := parseUnit(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	if err := testkit.CheckSpanInvariants(b, fileID, file); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	return b, b.Files.Get(fileID)
}

// renderExpr печатает выражение в полностью скобочной форме для сравнения в тестах.
func renderExpr(b *ast.Builder, id ast.ExprID) string {
	ex := b.Exprs.Get(id)
	switch ex.Kind {
	case ast.ExprLit:
		lit, _ := b.Exprs.Lit(id)
		if lit.Kind == ast.LitString {
			return fmt.Sprintf("%q", lit.Value)
		}
		return lit.Value
	case ast.ExprIdent:
		data, _ := b.Exprs.Ident(id)
		return data.Name.Text
	case ast.ExprIndex:
		data, _ := b.Exprs.Index(id)
		return data.List.Text + "[" + renderExpr(b, data.Index) + "]"
	case ast.ExprCall:
		data, _ := b.Exprs.Call(id)
		args := make([]string, len(data.Args))
		for i, a := range data.Args {
			args[i] = renderExpr(b, a)
		}
		return data.Name.Text + "(" + strings.Join(args, ", ") + ")"
	case ast.ExprBinary:
		data, _ := b.Exprs.Binary(id)
		return "(" + renderExpr(b, data.Left) + " " + data.Op.String() + " " + renderExpr(b, data.Right) + ")"
	case ast.ExprUnary:
		data, _ := b.Exprs.Unary(id)
		if data.Op == ast.OpNot {
			return "(not " + renderExpr(b, data.Operand) + ")"
		}
		return "(-" + renderExpr(b, data.Operand) + ")"
	case ast.ExprGroup:
		data, _ := b.Exprs.Group(id)
		return renderExpr(b, data.Inner)
	}
	return "?"
}
