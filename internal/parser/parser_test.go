package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"goboscript/internal/ast"
	"goboscript/internal/diag"
)

func TestParseDeclarations(t *testing.T) {
	b, file := mustParse(t, `
var score = 0;
var name = "cat";
var neg = -5;
list items = [1, "two", -3];
list empty;
`)
	if len(file.Items) != 5 {
		t.Fatalf("items = %d, want 5", len(file.Items))
	}
	v, ok := b.Items.Var(file.Items[2])
	if !ok || v.Name.Text != "neg" {
		t.Fatalf("third item = %+v", v)
	}
	lit, ok := b.Exprs.Lit(v.Init)
	if !ok || lit.Value != "-5" || lit.Kind != ast.LitNumber {
		t.Fatalf("negative literal not folded: %+v", lit)
	}
	l, ok := b.Items.List(file.Items[3])
	if !ok || len(l.Init) != 3 {
		t.Fatalf("list init = %+v", l)
	}
	empty, _ := b.Items.List(file.Items[4])
	if empty.Init != nil {
		t.Fatal("list without initializer must have nil Init")
	}
}

func TestParseFunctions(t *testing.T) {
	b, file := mustParse(t, `
def plain { }
warp def fast a, b { x = a + b; }
nowarp def slow n { wait n; }
`)
	var got []struct {
		Name   string
		Params []string
		Warp   ast.WarpMode
	}
	for _, id := range file.Items {
		fn, ok := b.Items.Fn(id)
		if !ok {
			t.Fatalf("item %d is not a function", id)
		}
		got = append(got, struct {
			Name   string
			Params []string
			Warp   ast.WarpMode
		}{fn.Name.Text, fn.Params.Texts(), fn.Warp})
	}
	want := []struct {
		Name   string
		Params []string
		Warp   ast.WarpMode
	}{
		{"plain", []string{}, ast.WarpDefault},
		{"fast", []string{"a", "b"}, ast.WarpOn},
		{"slow", []string{"n"}, ast.WarpOff},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("functions mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEvents(t *testing.T) {
	b, file := mustParse(t, `
onflag { }
onclick { }
onclone { }
onkey "space" { }
onbroadcast "go" { }
`)
	var kinds []ast.EventKind
	var args []string
	for _, id := range file.Items {
		ev, ok := b.Items.Event(id)
		if !ok {
			t.Fatalf("item %d is not an event", id)
		}
		kinds = append(kinds, ev.Event)
		args = append(args, ev.Arg)
	}
	if diff := cmp.Diff([]ast.EventKind{ast.EventFlag, ast.EventClick, ast.EventClone, ast.EventKey, ast.EventBroadcast}, kinds); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", "", "", "space", "go"}, args); diff != "" {
		t.Fatalf("args (-want +got):\n%s", diff)
	}
}

func TestParseStatements(t *testing.T) {
	b, file := mustParse(t, `
onflag {
	x = 1;
	x += 2;
	x -= 3;
	L[1] = "a";
	add 4 to L;
	delete L[1];
	delete L;
	insert 5 at L[2];
	if x > 1 { say x; } else if x < 0 { hide; } else { show; }
	repeat 10 { move 5; }
	until x = 0 { x -= 1; }
	forever { next_costume; }
	goto 0, -10;
}
`)
	ev, _ := b.Items.Event(file.Items[0])
	body := b.Stmts.Block(ev.Body)
	var kinds []ast.StmtKind
	for _, s := range body.Stmts {
		kinds = append(kinds, b.Stmts.Get(s).Kind)
	}
	want := []ast.StmtKind{
		ast.StmtAssign, ast.StmtAssign, ast.StmtAssign,
		ast.StmtListSet, ast.StmtListAdd, ast.StmtListDelete, ast.StmtListDelete, ast.StmtListInsert,
		ast.StmtIf, ast.StmtRepeat, ast.StmtUntil, ast.StmtForever, ast.StmtCall,
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("statement kinds (-want +got):\n%s", diff)
	}

	if op := b.Stmts.Assign(body.Stmts[1]).Op; op != ast.AssignAdd {
		t.Fatalf("second assign op = %v", op)
	}
	if idx := b.Stmts.ListOp(body.Stmts[6]).Index; idx.IsValid() {
		t.Fatal("`delete L;` must have no index")
	}
	elseIf := b.Stmts.If(body.Stmts[8]).Else
	if b.Stmts.Get(elseIf).Kind != ast.StmtIf {
		t.Fatal("else-if must nest an if statement")
	}
	call := b.Stmts.Call(body.Stmts[12])
	if call.Name.Text != "goto" || len(call.Args) != 2 || renderExpr(b, call.Args[1]) != "-10" {
		t.Fatalf("call = %+v", call)
	}
}

func TestParsePrecedence(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a & b + 1", "(a & (b + 1))"},
		{"a = 1 or b < 2 and not c", "((a = 1) or ((b < 2) and (not c)))"},
		{"x - -y", "(x - (-y))"},
		{"L[i + 1] % 2", "(L[(i + 1)] % 2)"},
		{"random(1, 10) >= 5", "(random(1, 10) >= 5)"},
		{`"a" & "b" & "c"`, `(("a" & "b") & "c")`},
	}
	for _, tc := range cases {
		b, file := mustParse(t, "var v = "+tc.src+";")
		v, _ := b.Items.Var(file.Items[0])
		if got := renderExpr(b, v.Init); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.src, got, tc.want)
		}
	}
}

func TestParseRecovery(t *testing.T) {
	b, fileID, bag := parseSource(t, `
var a = ;
var ok = 1;
onflag {
	x = ;
	y = 2;
}
`)
	if !bag.HasErrors() {
		t.Fatal("expected errors")
	}
	for _, d := range bag.Items() {
		if !d.IsParse() {
			t.Fatalf("non-parse diagnostic: %+v", d)
		}
	}
	file := b.Files.Get(fileID)
	if len(file.Items) != 2 {
		t.Fatalf("recovered items = %d, want 2 (%s)", len(file.Items), diagnosticsSummary(bag))
	}
	ev, ok := b.Items.Event(file.Items[1])
	if !ok || len(b.Stmts.Block(ev.Body).Stmts) != 1 {
		t.Fatal("statement after the broken one must survive")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{"var x = 1", diag.SynExpectSemicolon},
		{"onflag { x = 1;", diag.SynUnclosedBrace},
		{"onkey { }", diag.SynExpectString},
		{"warp x", diag.SynExpectDef},
		{"def f", diag.SynExpectBlock},
		{"42;", diag.SynUnexpectedTopLevel},
		{"var v = (1 + 2;", diag.SynUnclosedParen},
		{"onflag { ) }", diag.SynUnexpectedToken},
	}
	for _, tc := range cases {
		_, _, bag := parseSource(t, tc.src)
		if bag.Len() == 0 || bag.Items()[0].Code != tc.code {
			t.Errorf("%q: got %s, want %s", tc.src, diagnosticsSummary(bag), tc.code.ID())
		}
	}
}

func TestParseLexErrorNotDuplicated(t *testing.T) {
	_, _, bag := parseSource(t, "var x = @;")
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(bag))
	}
}
