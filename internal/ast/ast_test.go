package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"goboscript/internal/source"
)

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	if a.Get(0) != nil || a.Get(1) != nil {
		t.Fatal("empty arena must return nil")
	}
	id := a.Allocate(42)
	if id != 1 || *a.Get(id) != 42 || a.Len() != 1 {
		t.Fatalf("id=%d len=%d", id, a.Len())
	}
}

func TestInspectOrder(t *testing.T) {
	b := NewBuilder(Hints{})
	sp := source.Span{}
	x := Name{Text: "x"}
	one := b.Exprs.NewLit(sp, LitNumber, "1")
	two := b.Exprs.NewLit(sp, LitNumber, "2")
	sum := b.Exprs.NewBinary(sp, OpAdd, b.Exprs.NewIdent(sp, x), two)

	assign := b.Stmts.NewAssign(sp, AssignSet, x, sum)
	inner := b.Stmts.NewBlock(sp, []StmtID{assign})
	loop := b.Stmts.NewLoop(StmtRepeat, sp, one, inner)
	call := b.Stmts.NewCall(sp, Name{Text: "wait"}, []ExprID{one})
	root := b.Stmts.NewBlock(sp, []StmtID{loop, call})

	var kinds []StmtKind
	b.InspectStmts(root, func(_ StmtID, st *Stmt) bool {
		kinds = append(kinds, st.Kind)
		return true
	})
	want := []StmtKind{StmtBlock, StmtRepeat, StmtBlock, StmtAssign, StmtCall}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("stmt order (-want +got):\n%s", diff)
	}

	var exprs []ExprKind
	for _, e := range b.StmtExprs(assign) {
		b.InspectExpr(e, func(_ ExprID, ex *Expr) bool {
			exprs = append(exprs, ex.Kind)
			return true
		})
	}
	if diff := cmp.Diff([]ExprKind{ExprBinary, ExprIdent, ExprLit}, exprs); diff != "" {
		t.Fatalf("expr order (-want +got):\n%s", diff)
	}
}

func TestTypedAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{})
	v := b.Items.NewVar(source.Span{}, Name{Text: "x"}, NoExprID)
	if _, ok := b.Items.Fn(v); ok {
		t.Fatal("var item must not read as fn")
	}
	if data, ok := b.Items.Var(v); !ok || data.Name.Text != "x" {
		t.Fatal("var accessor")
	}
}
