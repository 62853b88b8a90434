package symbols

import (
	"fmt"

	"goboscript/internal/ast"
	"goboscript/internal/blocks"
	"goboscript/internal/diag"
	"goboscript/internal/source"
)

// Resolve walks one parsed unit and builds its Program. It never fails:
// conflicts are reported and the first declaration wins. The tree is not
// modified, so resolving the same tree twice gives equal results.
func Resolve(builder *ast.Builder, fileID ast.FileID, reporter diag.Reporter) *Program {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	prog := &Program{
		File:      fileID,
		Builder:   builder,
		Variables: NewNameSet(),
		Lists:     NewNameSet(),
		Functions: make(map[string]*FunctionPrototype),
		Bindings:  newBindings(),
	}

	file := builder.Files.Get(fileID)
	if file == nil {
		return prog
	}

	fr := fileResolver{
		builder:  builder,
		prog:     prog,
		reporter: reporter,
		protos:   make(map[ast.ItemID]*FunctionPrototype),
		modes:    make(map[*FunctionPrototype]ast.WarpMode),
		flow:     make(map[*FunctionPrototype]*suspendInfo),
	}
	for _, itemID := range file.Items {
		fr.declareItem(itemID)
	}
	fr.checkCollisions()
	for _, itemID := range file.Items {
		fr.walkItem(itemID)
	}
	fr.inferWarp()
	return prog
}

type fileResolver struct {
	builder  *ast.Builder
	prog     *Program
	reporter diag.Reporter

	// прототипы всех def, включая отвергнутые дубликаты
	protos map[ast.ItemID]*FunctionPrototype
	modes  map[*FunctionPrototype]ast.WarpMode
	flow   map[*FunctionPrototype]*suspendInfo
}

func (fr *fileResolver) declareItem(id ast.ItemID) {
	item := fr.builder.Items.Get(id)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemVar:
		v, _ := fr.builder.Items.Var(id)
		if v.Init.IsValid() {
			fr.checkLiteral(v.Init, "variable")
		}
		if !fr.prog.Variables.Add(v.Name.Text, Decl{Item: id, Span: v.Name.Span}) {
			prev, _ := fr.prog.Variables.Decl(v.Name.Text)
			fr.reportDuplicate("variable", v.Name, prev.Span)
		}
	case ast.ItemList:
		l, _ := fr.builder.Items.List(id)
		for _, e := range l.Init {
			fr.checkLiteral(e, "list")
		}
		if !fr.prog.Lists.Add(l.Name.Text, Decl{Item: id, Span: l.Name.Span}) {
			prev, _ := fr.prog.Lists.Decl(l.Name.Text)
			fr.reportDuplicate("list", l.Name, prev.Span)
		}
	case ast.ItemFn:
		fn, _ := fr.builder.Items.Fn(id)
		fr.declareFn(id, fn)
	}
}

func (fr *fileResolver) declareFn(id ast.ItemID, fn *ast.FnItem) {
	proto := &FunctionPrototype{
		Name:    fn.Name.Text,
		Args:    make(ast.Names, 0, len(fn.Params)),
		ArgsSet: make(map[string]struct{}, len(fn.Params)),
		Span:    fn.Name.Span,
		Item:    id,
	}
	for _, param := range fn.Params {
		if proto.HasArg(param.Text) {
			prev := proto.Args[proto.Args.Index(param.Text)]
			diag.ReportError(fr.reporter, diag.SemaDuplicateParam, param.Span,
				fmt.Sprintf("duplicate parameter '%s' in function '%s'", param.Text, fn.Name.Text)).
				WithNote(prev.Span, "previous declaration here").
				Emit()
			continue
		}
		proto.ArgsSet[param.Text] = struct{}{}
		proto.Args = append(proto.Args, param)
	}
	fr.protos[id] = proto

	if blocks.IsBuiltin(fn.Name.Text) {
		diag.ReportError(fr.reporter, diag.SemaBuiltinRedefined, fn.Name.Span,
			fmt.Sprintf("function '%s' has the name of a builtin block", fn.Name.Text)).Emit()
		return
	}
	if prev, ok := fr.prog.Functions[fn.Name.Text]; ok {
		fr.reportDuplicate("function", fn.Name, prev.Span)
		return
	}
	fr.prog.Functions[fn.Name.Text] = proto
	fr.prog.FunctionOrder = append(fr.prog.FunctionOrder, fn.Name.Text)
	fr.modes[proto] = fn.Warp
	fr.flow[proto] = &suspendInfo{}
}

func (fr *fileResolver) reportDuplicate(what string, name ast.Name, prevSpan source.Span) {
	b := diag.ReportError(fr.reporter, diag.SemaDuplicateSymbol, name.Span,
		fmt.Sprintf("duplicate %s declaration '%s'", what, name.Text))
	if prevSpan != (source.Span{}) {
		b.WithNote(prevSpan, "previous declaration here")
	}
	b.Emit()
}

// checkLiteral: инициализаторы — только числа и строки (отрицательные числа парсер уже свернул).
func (fr *fileResolver) checkLiteral(e ast.ExprID, what string) {
	if _, ok := fr.builder.Exprs.Lit(e); ok {
		return
	}
	if g, ok := fr.builder.Exprs.Group(e); ok {
		fr.checkLiteral(g.Inner, what)
		return
	}
	diag.ReportError(fr.reporter, diag.SemaNonConstInit, fr.builder.Exprs.Get(e).Span,
		what+" initializer must be a number or string literal").Emit()
}

// checkCollisions reports variables and lists that share a name with a function.
func (fr *fileResolver) checkCollisions() {
	check := func(set *NameSet, what string) {
		for _, name := range set.Names() {
			fp, ok := fr.prog.Functions[name]
			if !ok {
				continue
			}
			decl, _ := set.Decl(name)
			diag.ReportError(fr.reporter, diag.SemaNameCollision, decl.Span,
				fmt.Sprintf("%s '%s' has the same name as a function", what, name)).
				WithNote(fp.Span, "function declared here").
				Emit()
		}
	}
	check(&fr.prog.Variables, "variable")
	check(&fr.prog.Lists, "list")
}

func (fr *fileResolver) walkItem(id ast.ItemID) {
	item := fr.builder.Items.Get(id)
	if item == nil {
		return
	}
	switch item.Kind {
	case ast.ItemFn:
		fn, _ := fr.builder.Items.Fn(id)
		proto := fr.protos[id]
		used := make([]bool, len(proto.Args))
		fr.walkBody(fn.Body, proto, used)
		for i, arg := range proto.Args {
			if !used[i] {
				diag.ReportWarning(fr.reporter, diag.SemaUnusedParam, arg.Span,
					fmt.Sprintf("parameter '%s' is never used", arg.Text)).Emit()
			}
		}
	case ast.ItemEvent:
		ev, _ := fr.builder.Items.Event(id)
		fr.walkBody(ev.Body, nil, nil)
	}
}

// walkBody binds call sites and parameter uses; fp is nil for event scripts.
func (fr *fileResolver) walkBody(body ast.StmtID, fp *FunctionPrototype, used []bool) {
	info := fr.flow[fp] // nil для событий и отвергнутых функций
	fr.builder.InspectStmts(body, func(id ast.StmtID, st *ast.Stmt) bool {
		switch st.Kind {
		case ast.StmtAssign:
			a := fr.builder.Stmts.Assign(id)
			if fp != nil && fp.HasArg(a.Name.Text) {
				diag.ReportError(fr.reporter, diag.SemaAssignToParam, a.Name.Span,
					fmt.Sprintf("cannot assign to parameter '%s'", a.Name.Text)).Emit()
				used[fp.Args.Index(a.Name.Text)] = true
			}
		case ast.StmtCall:
			fr.bindCall(id, fr.builder.Stmts.Call(id), st.Span, info)
		case ast.StmtForever:
			info.addSite(st.Span, "'forever' loop never finishes without yielding")
		}
		for _, e := range fr.builder.StmtExprs(id) {
			fr.walkExpr(e, fp, used)
		}
		return true
	})
}

func (fr *fileResolver) bindCall(id ast.StmtID, call *ast.CallStmt, span source.Span, info *suspendInfo) {
	name := call.Name.Text
	if blk, ok := blocks.Statement(name); ok {
		fr.prog.Bindings.Calls[id] = CallBinding{Kind: CallBuiltin, Builtin: blk}
		fr.checkArity(call.Name, blk.Arity(), len(call.Args))
		if blk.Yields {
			info.addSite(span, fmt.Sprintf("'%s' waits", name))
		}
		return
	}
	if proto, ok := fr.prog.Functions[name]; ok {
		fr.prog.Bindings.Calls[id] = CallBinding{Kind: CallFunction, Proto: proto}
		fr.checkArity(call.Name, len(proto.Args), len(call.Args))
		info.addCall(span, proto)
		return
	}
	// неизвестные вызовы репортит генератор; для warp считаем их уступающими
	fr.prog.Bindings.Calls[id] = CallBinding{Kind: CallUnknown}
	info.addSite(span, fmt.Sprintf("call to unknown '%s' may yield", name))
}

func (fr *fileResolver) checkArity(name ast.Name, want, got int) {
	if want == got {
		return
	}
	diag.ReportError(fr.reporter, diag.SemaArgumentCount, name.Span,
		fmt.Sprintf("'%s' expects %d argument(s), got %d", name.Text, want, got)).Emit()
}

func (fr *fileResolver) walkExpr(root ast.ExprID, fp *FunctionPrototype, used []bool) {
	fr.builder.InspectExpr(root, func(id ast.ExprID, ex *ast.Expr) bool {
		switch ex.Kind {
		case ast.ExprIdent:
			if fp == nil {
				return true
			}
			ident, _ := fr.builder.Exprs.Ident(id)
			if i := fp.Args.Index(ident.Name.Text); i >= 0 {
				fr.prog.Bindings.Params[id] = i
				used[i] = true
			}
		case ast.ExprCall:
			call, _ := fr.builder.Exprs.Call(id)
			blk, ok := blocks.Reporter(call.Name.Text)
			if !ok {
				diag.ReportError(fr.reporter, diag.SemaUnknownReporter, call.Name.Span,
					fmt.Sprintf("unknown reporter: %s", call.Name.Text)).Emit()
				return true
			}
			fr.prog.Bindings.Reporters[id] = blk
			fr.checkArity(call.Name, blk.Arity(), len(call.Args))
		}
		return true
	})
}
