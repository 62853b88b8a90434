package codegen

import (
	"goboscript/internal/ast"
	"goboscript/internal/blocks"
	"goboscript/internal/diag"
)

type operandKind uint8

const (
	operandLiteral operandKind = iota
	operandVariable
	operandList
	operandBlock
)

// operand is what an expression lowers to before it is placed into an
// input slot.
type operand struct {
	kind    operandKind
	text    string // literal text
	name    string // variable or list name
	id      string // variable, list or block id
	boolean bool   // block reports a boolean
}

var placeholder = operand{kind: operandLiteral}

var booleanOpcodes = map[string]bool{
	"operator_equals":       true,
	"operator_lt":           true,
	"operator_gt":           true,
	"operator_and":          true,
	"operator_or":           true,
	"operator_not":          true,
	"operator_contains":     true,
	"data_listcontainsitem": true,
}

var arithmeticOpcodes = map[ast.BinaryOp]string{
	ast.OpAdd: "operator_add",
	ast.OpSub: "operator_subtract",
	ast.OpMul: "operator_multiply",
	ast.OpDiv: "operator_divide",
	ast.OpMod: "operator_mod",
}

var compareOpcodes = map[ast.BinaryOp]string{
	ast.OpEq: "operator_equals",
	ast.OpLt: "operator_lt",
	ast.OpGt: "operator_gt",
}

// negatedCompare: a != b is not(a = b), a <= b is not(a > b), a >= b is not(a < b).
var negatedCompare = map[ast.BinaryOp]ast.BinaryOp{
	ast.OpNe: ast.OpEq,
	ast.OpLe: ast.OpGt,
	ast.OpGe: ast.OpLt,
}

// input lowers e into an input array of the given kind; nil means leave
// the input empty.
func (sg *spriteGen) input(e ast.ExprID, kind blocks.InputKind, parent string) []any {
	if !e.IsValid() {
		return sg.place(placeholder, kind, parent)
	}
	return sg.place(sg.operand(e, parent), kind, parent)
}

// negated lowers `x -= e` as change by -e, folding literals.
func (sg *spriteGen) negated(e ast.ExprID, parent string) []any {
	if lit, ok := sg.b.Exprs.Lit(e); ok && lit.Kind == ast.LitNumber {
		v := numberText(lit.Value)
		if len(v) > 0 && v[0] == '-' {
			v = v[1:]
		} else {
			v = "-" + v
		}
		return []any{shadowSame, []any{primNumber, v}}
	}
	id, n := sg.node("operator_subtract", parent)
	n.Inputs["NUM1"] = []any{shadowSame, []any{primNumber, "0"}}
	n.Inputs["NUM2"] = sg.input(e, blocks.InputNumber, id)
	return []any{shadowObscured, id, []any{primNumber, ""}}
}

func (sg *spriteGen) place(op operand, kind blocks.InputKind, parent string) []any {
	prim := primText
	switch kind {
	case blocks.InputNumber:
		prim = primNumber
	case blocks.InputBool:
		if op.kind == operandBlock && op.boolean {
			return []any{shadowNone, op.id}
		}
		// a non-boolean condition is true when it equals "true"
		id, n := sg.node("operator_equals", parent)
		if op.kind == operandBlock {
			sg.target.Blocks[op.id].Parent = strptr(id)
		}
		n.Inputs["OPERAND1"] = sg.place(op, blocks.InputText, id)
		n.Inputs["OPERAND2"] = []any{shadowSame, []any{primText, "true"}}
		return []any{shadowNone, id}
	case blocks.InputBroadcast:
		if op.kind == operandLiteral {
			return []any{shadowSame, []any{primBroadcast, op.text, sg.g.broadcast(op.text)}}
		}
		const fallback = "message1"
		return []any{shadowObscured, sg.covering(op), []any{primBroadcast, fallback, sg.g.broadcast(fallback)}}
	}
	if op.kind == operandLiteral {
		return []any{shadowSame, []any{prim, op.text}}
	}
	return []any{shadowObscured, sg.covering(op), []any{prim, ""}}
}

// covering is the value that sits on top of a shadow: a block id or an
// inline variable/list reference.
func (sg *spriteGen) covering(op operand) any {
	switch op.kind {
	case operandVariable:
		return []any{primVariable, op.name, op.id}
	case operandList:
		return []any{primList, op.name, op.id}
	}
	return op.id
}

func (sg *spriteGen) operand(e ast.ExprID, parent string) operand {
	ex := sg.b.Exprs.Get(e)
	if ex == nil {
		return placeholder
	}
	switch ex.Kind {
	case ast.ExprLit:
		lit, _ := sg.b.Exprs.Lit(e)
		if lit.Kind == ast.LitNumber {
			return operand{kind: operandLiteral, text: numberText(lit.Value)}
		}
		return operand{kind: operandLiteral, text: lit.Value}
	case ast.ExprGroup:
		g, _ := sg.b.Exprs.Group(e)
		return sg.operand(g.Inner, parent)
	case ast.ExprIdent:
		id, _ := sg.b.Exprs.Ident(e)
		return sg.identOperand(e, id.Name, parent)
	case ast.ExprIndex:
		ix, _ := sg.b.Exprs.Index(e)
		listID, ok := sg.list(ix.List)
		if !ok {
			return placeholder
		}
		id, n := sg.node("data_itemoflist", parent)
		n.Inputs["INDEX"] = sg.input(ix.Index, blocks.InputNumber, id)
		n.Fields["LIST"] = []any{ix.List.Text, listID}
		return operand{kind: operandBlock, id: id}
	case ast.ExprCall:
		call, _ := sg.b.Exprs.Call(e)
		return sg.reporterOperand(e, call, parent)
	case ast.ExprBinary:
		bin, _ := sg.b.Exprs.Binary(e)
		return sg.binaryOperand(bin, parent)
	case ast.ExprUnary:
		un, _ := sg.b.Exprs.Unary(e)
		if un.Op == ast.OpNot {
			id, n := sg.node("operator_not", parent)
			sg.setCondition(n, "OPERAND", un.Operand, id)
			return operand{kind: operandBlock, id: id, boolean: true}
		}
		id, n := sg.node("operator_subtract", parent)
		n.Inputs["NUM1"] = []any{shadowSame, []any{primNumber, "0"}}
		n.Inputs["NUM2"] = sg.input(un.Operand, blocks.InputNumber, id)
		return operand{kind: operandBlock, id: id}
	}
	return placeholder
}

func (sg *spriteGen) identOperand(e ast.ExprID, name ast.Name, parent string) operand {
	if _, ok := sg.prog.Bindings.Params[e]; ok {
		id, n := sg.node("argument_reporter_string_number", parent)
		n.Fields["VALUE"] = []any{name.Text, nil}
		return operand{kind: operandBlock, id: id}
	}
	if id, ok := sg.lookupVariable(name.Text); ok {
		return operand{kind: operandVariable, name: name.Text, id: id}
	}
	if id, ok := sg.lookupList(name.Text); ok {
		return operand{kind: operandList, name: name.Text, id: id}
	}
	diag.ReportError(sg.reporter, diag.SemaUndefinedVariable, name.Span,
		"undefined variable: "+name.Text).Emit()
	return placeholder
}

func (sg *spriteGen) reporterOperand(e ast.ExprID, call *ast.CallData, parent string) operand {
	blk := sg.prog.Bindings.Reporters[e]
	if blk == nil {
		return placeholder
	}
	if blk.ActorOnly && !sg.isActor {
		sg.reportActorOnly(call.Name)
		return placeholder
	}
	id, n := sg.node(blk.Opcode, parent)
	sg.fillBuiltin(n, id, blk, call.Args)
	return operand{kind: operandBlock, id: id, boolean: booleanOpcodes[blk.Opcode]}
}

func (sg *spriteGen) binaryOperand(bin *ast.BinaryData, parent string) operand {
	if opcode, ok := arithmeticOpcodes[bin.Op]; ok {
		id, n := sg.node(opcode, parent)
		n.Inputs["NUM1"] = sg.input(bin.Left, blocks.InputNumber, id)
		n.Inputs["NUM2"] = sg.input(bin.Right, blocks.InputNumber, id)
		return operand{kind: operandBlock, id: id}
	}
	if inner, ok := negatedCompare[bin.Op]; ok {
		id, n := sg.node("operator_not", parent)
		cmpID := sg.compare(compareOpcodes[inner], bin.Left, bin.Right, id)
		n.Inputs["OPERAND"] = []any{shadowNone, cmpID}
		return operand{kind: operandBlock, id: id, boolean: true}
	}
	switch bin.Op {
	case ast.OpJoin:
		id, n := sg.node("operator_join", parent)
		n.Inputs["STRING1"] = sg.input(bin.Left, blocks.InputText, id)
		n.Inputs["STRING2"] = sg.input(bin.Right, blocks.InputText, id)
		return operand{kind: operandBlock, id: id}
	case ast.OpAnd, ast.OpOr:
		opcode := "operator_and"
		if bin.Op == ast.OpOr {
			opcode = "operator_or"
		}
		id, n := sg.node(opcode, parent)
		sg.setCondition(n, "OPERAND1", bin.Left, id)
		sg.setCondition(n, "OPERAND2", bin.Right, id)
		return operand{kind: operandBlock, id: id, boolean: true}
	}
	id := sg.compare(compareOpcodes[bin.Op], bin.Left, bin.Right, parent)
	return operand{kind: operandBlock, id: id, boolean: true}
}

func (sg *spriteGen) compare(opcode string, left, right ast.ExprID, parent string) string {
	id, n := sg.node(opcode, parent)
	n.Inputs["OPERAND1"] = sg.input(left, blocks.InputText, id)
	n.Inputs["OPERAND2"] = sg.input(right, blocks.InputText, id)
	return id
}
