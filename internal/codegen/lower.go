package codegen

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"goboscript/internal/ast"
	"goboscript/internal/blocks"
	"goboscript/internal/diag"
	"goboscript/internal/symbols"
)

const scriptSpacing = 400

type procInfo struct {
	proto    *symbols.FunctionPrototype
	proccode string
	argIDs   []string
}

// spriteGen lowers one Program into one Target.
type spriteGen struct {
	g          *CodeGen
	target     *Target
	prog       *symbols.Program
	b          *ast.Builder
	stageVars  *symbols.NameSet
	stageLists *symbols.NameSet
	reporter   diag.Reporter
	isActor    bool

	vars  map[string]string // local name -> id
	lists map[string]string
	procs map[string]*procInfo
	proc  *procInfo // function being lowered, nil in event scripts

	scriptY int
}

func (sg *spriteGen) lower() {
	sg.declareVariables()
	sg.declareLists()
	sg.declareProcs()
	for _, id := range sg.prog.Items() {
		item := sg.b.Items.Get(id)
		if item == nil {
			continue
		}
		switch item.Kind {
		case ast.ItemFn:
			sg.lowerFn(id)
		case ast.ItemEvent:
			sg.lowerEvent(id)
		}
	}
}

func (sg *spriteGen) declareVariables() {
	for _, name := range sg.prog.Variables.Names() {
		decl, _ := sg.prog.Variables.Decl(name)
		var value any = 0
		if v, ok := sg.b.Items.Var(decl.Item); ok && v.Init.IsValid() {
			if lit, ok := sg.literal(v.Init); ok {
				value = lit
			}
		}
		sg.warnShadow("variable", name, decl, sg.stageVars)
		id := sg.g.ids.Next()
		sg.target.Variables[id] = [2]any{name, value}
		sg.vars[name] = id
		if !sg.isActor {
			sg.g.stageVars[name] = id
		}
	}
}

func (sg *spriteGen) declareLists() {
	for _, name := range sg.prog.Lists.Names() {
		decl, _ := sg.prog.Lists.Decl(name)
		values := []any{}
		if l, ok := sg.b.Items.List(decl.Item); ok {
			for _, e := range l.Init {
				if lit, ok := sg.literal(e); ok {
					values = append(values, lit)
				}
			}
		}
		sg.warnShadow("list", name, decl, sg.stageLists)
		id := sg.g.ids.Next()
		sg.target.Lists[id] = [2]any{name, values}
		sg.lists[name] = id
		if !sg.isActor {
			sg.g.stageLists[name] = id
		}
	}
}

func (sg *spriteGen) warnShadow(what, name string, decl symbols.Decl, stage *symbols.NameSet) {
	if !sg.isActor || !stage.Has(name) {
		return
	}
	b := diag.ReportWarning(sg.reporter, diag.SemaShadowSymbol, decl.Span,
		fmt.Sprintf("%s '%s' shadows a stage %s", what, name, what))
	if prev, ok := stage.Decl(name); ok {
		b.WithNote(prev.Span, "stage declaration here")
	}
	b.Emit()
}

// literal converts an initializer to its JSON value. Numbers become JSON
// numbers when they parse, everything else stays text.
func (sg *spriteGen) literal(e ast.ExprID) (any, bool) {
	if g, ok := sg.b.Exprs.Group(e); ok {
		return sg.literal(g.Inner)
	}
	lit, ok := sg.b.Exprs.Lit(e)
	if !ok {
		return nil, false
	}
	if lit.Kind == ast.LitString {
		return lit.Value, true
	}
	if n, ok := parseInt(lit.Value); ok {
		return n, true
	}
	if f, err := strconv.ParseFloat(lit.Value, 64); err == nil {
		return f, true
	}
	return lit.Value, true
}

// numberText renders a number literal the way Scratch parses it: base
// prefixes are expanded to decimal.
func numberText(v string) string {
	if n, ok := parseInt(v); ok {
		return strconv.FormatInt(n, 10)
	}
	return v
}

// parseInt accepts decimal and 0x/0o/0b literals. A leading zero is
// decimal, not octal.
func parseInt(v string) (int64, bool) {
	digits := strings.TrimPrefix(v, "-")
	base := 10
	if len(digits) > 1 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			base = 0
		}
	}
	n, err := strconv.ParseInt(v, base, 64)
	return n, err == nil
}

func (sg *spriteGen) declareProcs() {
	for _, name := range sg.prog.FunctionOrder {
		proto := sg.prog.Functions[name]
		info := &procInfo{
			proto:    proto,
			proccode: name + strings.Repeat(" %s", len(proto.Args)),
			argIDs:   make([]string, len(proto.Args)),
		}
		for i := range proto.Args {
			info.argIDs[i] = sg.g.ids.Next()
		}
		sg.procs[name] = info
	}
}

func (sg *spriteGen) node(opcode, parent string) (string, *Node) {
	id := sg.g.ids.Next()
	n := &Node{
		Opcode: opcode,
		Inputs: map[string][]any{},
		Fields: map[string][]any{},
	}
	if parent != "" {
		n.Parent = strptr(parent)
	}
	sg.target.Blocks[id] = n
	return id, n
}

func (sg *spriteGen) topNode(opcode string) (string, *Node) {
	id, n := sg.node(opcode, "")
	x, y := 0, sg.scriptY
	sg.scriptY += scriptSpacing
	n.TopLevel = true
	n.X, n.Y = &x, &y
	return id, n
}

func (sg *spriteGen) lowerFn(itemID ast.ItemID) {
	fn, ok := sg.b.Items.Fn(itemID)
	if !ok {
		return
	}
	proto, ok := sg.prog.Functions[fn.Name.Text]
	// rejected declarations (duplicates, builtin names) have no prototype of their own
	if !ok || proto.Item != itemID {
		return
	}
	info := sg.procs[proto.Name]

	defID, def := sg.topNode("procedures_definition")
	protoID, protoNode := sg.node("procedures_prototype", defID)
	protoNode.Shadow = true
	def.Inputs["custom_block"] = []any{shadowSame, protoID}

	names := proto.Args.Texts()
	defaults := make([]string, len(names))
	for i, argID := range info.argIDs {
		rid, r := sg.node("argument_reporter_string_number", protoID)
		r.Shadow = true
		r.Fields["VALUE"] = []any{names[i], nil}
		protoNode.Inputs[argID] = []any{shadowSame, rid}
	}
	protoNode.Mutation = map[string]any{
		"tagName":          "mutation",
		"children":         []any{},
		"proccode":         info.proccode,
		"argumentids":      mustJSON(info.argIDs),
		"argumentnames":    mustJSON(names),
		"argumentdefaults": mustJSON(defaults),
		"warp":             strconv.FormatBool(proto.Warp),
	}

	sg.proc = info
	if first := sg.lowerBody(fn.Body, defID); first != "" {
		def.Next = strptr(first)
	}
	sg.proc = nil
}

func (sg *spriteGen) lowerEvent(itemID ast.ItemID) {
	ev, ok := sg.b.Items.Event(itemID)
	if !ok {
		return
	}
	var opcode string
	fields := map[string][]any{}
	switch ev.Event {
	case ast.EventFlag:
		opcode = "event_whenflagclicked"
	case ast.EventClick:
		opcode = "event_whenthisspriteclicked"
		if !sg.isActor {
			opcode = "event_whenstageclicked"
		}
	case ast.EventClone:
		if !sg.isActor {
			diag.ReportError(sg.reporter, diag.SemaActorOnlyBlock, sg.b.Items.Get(itemID).Span,
				"onclone is not available on the stage").Emit()
			return
		}
		opcode = "control_start_as_clone"
	case ast.EventKey:
		opcode = "event_whenkeypressed"
		fields["KEY_OPTION"] = []any{ev.Arg, nil}
	case ast.EventBroadcast:
		opcode = "event_whenbroadcastreceived"
		fields["BROADCAST_OPTION"] = []any{ev.Arg, sg.g.broadcast(ev.Arg)}
	default:
		return
	}
	hatID, hat := sg.topNode(opcode)
	hat.Fields = fields
	if first := sg.lowerBody(ev.Body, hatID); first != "" {
		hat.Next = strptr(first)
	}
}

// lowerBody lowers a block into a next-linked chain and returns the id of
// its first node. Each node's parent is the node before it, the first
// one's parent is the enclosing block.
func (sg *spriteGen) lowerBody(body ast.StmtID, parent string) string {
	blk := sg.b.Stmts.Block(body)
	if blk == nil {
		return ""
	}
	first, prev := "", parent
	var prevNode *Node
	for _, s := range blk.Stmts {
		id := sg.lowerStmt(s, prev)
		if id == "" {
			continue
		}
		if prevNode != nil {
			prevNode.Next = strptr(id)
		}
		if first == "" {
			first = id
		}
		prev, prevNode = id, sg.target.Blocks[id]
	}
	return first
}

// lowerStmt returns "" when the statement produced no node.
func (sg *spriteGen) lowerStmt(s ast.StmtID, parent string) string {
	st := sg.b.Stmts.Get(s)
	if st == nil {
		return ""
	}
	switch st.Kind {
	case ast.StmtAssign:
		return sg.lowerAssign(sg.b.Stmts.Assign(s), parent)
	case ast.StmtListSet, ast.StmtListAdd, ast.StmtListDelete, ast.StmtListInsert:
		return sg.lowerListOp(st.Kind, sg.b.Stmts.ListOp(s), parent)
	case ast.StmtIf:
		return sg.lowerIf(sg.b.Stmts.If(s), parent)
	case ast.StmtRepeat, ast.StmtUntil, ast.StmtForever:
		return sg.lowerLoop(st.Kind, sg.b.Stmts.Loop(s), parent)
	case ast.StmtCall:
		return sg.lowerCall(s, sg.b.Stmts.Call(s), parent)
	}
	return ""
}

func (sg *spriteGen) lowerAssign(a *ast.AssignStmt, parent string) string {
	if a == nil {
		return ""
	}
	// assigning a parameter was already rejected by the resolver
	if sg.proc != nil && sg.proc.proto.HasArg(a.Name.Text) {
		return ""
	}
	varID, ok := sg.variable(a.Name)
	if !ok {
		return ""
	}
	var (
		id string
		n  *Node
	)
	switch a.Op {
	case ast.AssignSet:
		id, n = sg.node("data_setvariableto", parent)
		n.Inputs["VALUE"] = sg.input(a.Value, blocks.InputText, id)
	case ast.AssignAdd:
		id, n = sg.node("data_changevariableby", parent)
		n.Inputs["VALUE"] = sg.input(a.Value, blocks.InputNumber, id)
	case ast.AssignSub:
		id, n = sg.node("data_changevariableby", parent)
		n.Inputs["VALUE"] = sg.negated(a.Value, id)
	}
	n.Fields["VARIABLE"] = []any{a.Name.Text, varID}
	return id
}

func (sg *spriteGen) lowerListOp(kind ast.StmtKind, op *ast.ListOpStmt, parent string) string {
	if op == nil {
		return ""
	}
	listID, ok := sg.list(op.List)
	if !ok {
		return ""
	}
	var (
		id string
		n  *Node
	)
	switch kind {
	case ast.StmtListSet:
		id, n = sg.node("data_replaceitemoflist", parent)
		n.Inputs["INDEX"] = sg.input(op.Index, blocks.InputNumber, id)
		n.Inputs["ITEM"] = sg.input(op.Value, blocks.InputText, id)
	case ast.StmtListAdd:
		id, n = sg.node("data_addtolist", parent)
		n.Inputs["ITEM"] = sg.input(op.Value, blocks.InputText, id)
	case ast.StmtListDelete:
		if !op.Index.IsValid() {
			id, n = sg.node("data_deletealloflist", parent)
			break
		}
		id, n = sg.node("data_deleteoflist", parent)
		n.Inputs["INDEX"] = sg.input(op.Index, blocks.InputNumber, id)
	case ast.StmtListInsert:
		id, n = sg.node("data_insertatlist", parent)
		n.Inputs["ITEM"] = sg.input(op.Value, blocks.InputText, id)
		n.Inputs["INDEX"] = sg.input(op.Index, blocks.InputNumber, id)
	}
	n.Fields["LIST"] = []any{op.List.Text, listID}
	return id
}

func (sg *spriteGen) lowerIf(st *ast.IfStmt, parent string) string {
	if st == nil {
		return ""
	}
	opcode := "control_if"
	if st.Else.IsValid() {
		opcode = "control_if_else"
	}
	id, n := sg.node(opcode, parent)
	sg.setCondition(n, "CONDITION", st.Cond, id)
	sg.setSubstack(n, "SUBSTACK", sg.lowerBody(st.Then, id))
	if st.Else.IsValid() {
		var first string
		if els := sg.b.Stmts.Get(st.Else); els != nil && els.Kind == ast.StmtIf {
			first = sg.lowerStmt(st.Else, id)
		} else {
			first = sg.lowerBody(st.Else, id)
		}
		sg.setSubstack(n, "SUBSTACK2", first)
	}
	return id
}

func (sg *spriteGen) lowerLoop(kind ast.StmtKind, loop *ast.LoopStmt, parent string) string {
	if loop == nil {
		return ""
	}
	var (
		id string
		n  *Node
	)
	switch kind {
	case ast.StmtRepeat:
		id, n = sg.node("control_repeat", parent)
		n.Inputs["TIMES"] = sg.input(loop.Cond, blocks.InputNumber, id)
	case ast.StmtUntil:
		id, n = sg.node("control_repeat_until", parent)
		sg.setCondition(n, "CONDITION", loop.Cond, id)
	default:
		id, n = sg.node("control_forever", parent)
	}
	sg.setSubstack(n, "SUBSTACK", sg.lowerBody(loop.Body, id))
	return id
}

func (sg *spriteGen) setSubstack(n *Node, input, first string) {
	if first != "" {
		n.Inputs[input] = []any{shadowNone, first}
	}
}

func (sg *spriteGen) setCondition(n *Node, input string, cond ast.ExprID, parent string) {
	if in := sg.input(cond, blocks.InputBool, parent); in != nil {
		n.Inputs[input] = in
	}
}

func (sg *spriteGen) lowerCall(s ast.StmtID, call *ast.CallStmt, parent string) string {
	if call == nil {
		return ""
	}
	binding := sg.prog.Bindings.Calls[s]
	switch binding.Kind {
	case symbols.CallBuiltin:
		blk := binding.Builtin
		if blk.ActorOnly && !sg.isActor {
			sg.reportActorOnly(call.Name)
			return ""
		}
		id, n := sg.node(blk.Opcode, parent)
		sg.fillBuiltin(n, id, blk, call.Args)
		return id
	case symbols.CallFunction:
		info := sg.procs[binding.Proto.Name]
		if info == nil {
			break
		}
		id, n := sg.node("procedures_call", parent)
		for i, argID := range info.argIDs {
			if i < len(call.Args) {
				n.Inputs[argID] = sg.input(call.Args[i], blocks.InputText, id)
			} else {
				n.Inputs[argID] = []any{shadowSame, []any{primText, ""}}
			}
		}
		n.Mutation = map[string]any{
			"tagName":     "mutation",
			"children":    []any{},
			"proccode":    info.proccode,
			"argumentids": mustJSON(info.argIDs),
			// the callee decides, never the caller
			"warp": strconv.FormatBool(info.proto.Warp),
		}
		return id
	}
	diag.ReportError(sg.reporter, diag.SemaUndefinedFunction, call.Name.Span,
		"undefined function: "+call.Name.Text).Emit()
	return ""
}

// fillBuiltin sets the inputs, fields, menu and mutation of a builtin
// node. Missing arguments (already reported as an arity error) get empty
// shadows so the node still loads.
func (sg *spriteGen) fillBuiltin(n *Node, id string, blk *blocks.Block, args []ast.ExprID) {
	for i, in := range blk.Inputs {
		if i >= len(args) {
			switch in.Kind {
			case blocks.InputNumber:
				n.Inputs[in.Name] = []any{shadowSame, []any{primNumber, ""}}
			case blocks.InputText:
				n.Inputs[in.Name] = []any{shadowSame, []any{primText, ""}}
			}
			continue
		}
		if in.Kind == blocks.InputList {
			name, ok := sg.listArg(args[i])
			if !ok {
				continue
			}
			listID, ok := sg.list(name)
			if !ok {
				continue
			}
			n.Fields[in.Name] = []any{name.Text, listID}
			continue
		}
		if v := sg.input(args[i], in.Kind, id); v != nil {
			n.Inputs[in.Name] = v
		}
	}
	fields := blk.Fields
	if !sg.isActor && len(blk.StageFields) > 0 {
		fields = blk.StageFields
	}
	for _, f := range fields {
		n.Fields[f.Name] = []any{f.Value, nil}
	}
	if blk.Menu != nil {
		menuID, menu := sg.node(blk.Menu.Opcode, id)
		menu.Shadow = true
		menu.Fields[blk.Menu.Field.Name] = []any{blk.Menu.Field.Value, nil}
		n.Inputs[blk.Menu.Input] = []any{shadowSame, menuID}
	}
	if len(blk.Mutation) > 0 {
		n.Mutation = make(map[string]any, len(blk.Mutation)+1)
		for k, v := range blk.Mutation {
			n.Mutation[k] = v
		}
		n.Mutation["children"] = []any{}
	}
}

func (sg *spriteGen) listArg(e ast.ExprID) (ast.Name, bool) {
	if id, ok := sg.b.Exprs.Ident(e); ok {
		return id.Name, true
	}
	diag.ReportError(sg.reporter, diag.SemaNotAList, sg.b.Exprs.Get(e).Span,
		"expected a list name").Emit()
	return ast.Name{}, false
}

func (sg *spriteGen) reportActorOnly(name ast.Name) {
	diag.ReportError(sg.reporter, diag.SemaActorOnlyBlock, name.Span,
		fmt.Sprintf("'%s' is not available on the stage", name.Text)).Emit()
}

// variable resolves name against the local scope, then the stage.
func (sg *spriteGen) variable(name ast.Name) (string, bool) {
	if id, ok := sg.lookupVariable(name.Text); ok {
		return id, true
	}
	diag.ReportError(sg.reporter, diag.SemaUndefinedVariable, name.Span,
		"undefined variable: "+name.Text).Emit()
	return "", false
}

func (sg *spriteGen) lookupVariable(name string) (string, bool) {
	if id, ok := sg.vars[name]; ok {
		return id, true
	}
	if sg.isActor && sg.stageVars.Has(name) {
		id, ok := sg.g.stageVars[name]
		return id, ok
	}
	return "", false
}

func (sg *spriteGen) list(name ast.Name) (string, bool) {
	if id, ok := sg.lookupList(name.Text); ok {
		return id, true
	}
	if _, isVar := sg.lookupVariable(name.Text); isVar {
		diag.ReportError(sg.reporter, diag.SemaNotAList, name.Span,
			fmt.Sprintf("'%s' is not a list", name.Text)).Emit()
		return "", false
	}
	diag.ReportError(sg.reporter, diag.SemaUndefinedList, name.Span,
		"undefined list: "+name.Text).Emit()
	return "", false
}

func (sg *spriteGen) lookupList(name string) (string, bool) {
	if id, ok := sg.lists[name]; ok {
		return id, true
	}
	if sg.isActor && sg.stageLists.Has(name) {
		id, ok := sg.g.stageLists[name]
		return id, ok
	}
	return "", false
}

func strptr(s string) *string { return &s }

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}
