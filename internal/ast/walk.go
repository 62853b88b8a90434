package ast

// InspectStmts walks root and every nested statement in source order.
// Returning false from visit skips the children of that statement.
func (b *Builder) InspectStmts(root StmtID, visit func(id StmtID, st *Stmt) bool) {
	st := b.Stmts.Get(root)
	if st == nil || !visit(root, st) {
		return
	}
	switch st.Kind {
	case StmtBlock:
		for _, child := range b.Stmts.Block(root).Stmts {
			b.InspectStmts(child, visit)
		}
	case StmtIf:
		data := b.Stmts.If(root)
		b.InspectStmts(data.Then, visit)
		if data.Else.IsValid() {
			b.InspectStmts(data.Else, visit)
		}
	case StmtRepeat, StmtUntil, StmtForever:
		b.InspectStmts(b.Stmts.Loop(root).Body, visit)
	}
}

// StmtExprs returns the expressions owned directly by a statement, in source order.
func (b *Builder) StmtExprs(id StmtID) []ExprID {
	st := b.Stmts.Get(id)
	if st == nil {
		return nil
	}
	var out []ExprID
	add := func(ids ...ExprID) {
		for _, e := range ids {
			if e.IsValid() {
				out = append(out, e)
			}
		}
	}
	switch st.Kind {
	case StmtAssign:
		add(b.Stmts.Assign(id).Value)
	case StmtListSet, StmtListAdd, StmtListDelete, StmtListInsert:
		op := b.Stmts.ListOp(id)
		if st.Kind == StmtListSet || st.Kind == StmtListDelete {
			add(op.Index, op.Value)
		} else {
			add(op.Value, op.Index)
		}
	case StmtIf:
		add(b.Stmts.If(id).Cond)
	case StmtRepeat, StmtUntil, StmtForever:
		add(b.Stmts.Loop(id).Cond)
	case StmtCall:
		add(b.Stmts.Call(id).Args...)
	}
	return out
}

// InspectExpr walks an expression tree pre-order.
func (b *Builder) InspectExpr(root ExprID, visit func(id ExprID, ex *Expr) bool) {
	ex := b.Exprs.Get(root)
	if ex == nil || !visit(root, ex) {
		return
	}
	switch ex.Kind {
	case ExprIndex:
		data, _ := b.Exprs.Index(root)
		b.InspectExpr(data.Index, visit)
	case ExprCall:
		data, _ := b.Exprs.Call(root)
		for _, a := range data.Args {
			b.InspectExpr(a, visit)
		}
	case ExprBinary:
		data, _ := b.Exprs.Binary(root)
		b.InspectExpr(data.Left, visit)
		b.InspectExpr(data.Right, visit)
	case ExprUnary:
		data, _ := b.Exprs.Unary(root)
		b.InspectExpr(data.Operand, visit)
	case ExprGroup:
		data, _ := b.Exprs.Group(root)
		b.InspectExpr(data.Inner, visit)
	}
}
