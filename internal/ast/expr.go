package ast

import (
	"goboscript/internal/source"
)

type ExprKind uint8

const (
	ExprLit ExprKind = iota
	ExprIdent
	ExprIndex
	ExprCall
	ExprBinary
	ExprUnary
	ExprGroup
)

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type LitKind uint8

const (
	LitNumber LitKind = iota
	LitString
)

type BinaryOp uint8

const (
	OpOr BinaryOp = iota
	OpAnd
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpJoin
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
)

var binaryOpNames = [...]string{
	OpOr: "or", OpAnd: "and", OpEq: "=", OpNe: "!=", OpLt: "<", OpGt: ">",
	OpLe: "<=", OpGe: ">=", OpJoin: "&", OpAdd: "+", OpSub: "-", OpMul: "*",
	OpDiv: "/", OpMod: "%",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpNot
)

// LitData: Value is the decoded text; numbers keep their source spelling
// without digit separators, a folded negation is prefixed with '-'.
type LitData struct {
	Kind  LitKind
	Value string
}

type IdentData struct {
	Name Name
}

type IndexData struct {
	List  Name
	Index ExprID
}

type CallData struct {
	Name Name
	Args []ExprID
}

type BinaryData struct {
	Op          BinaryOp
	Left, Right ExprID
}

type UnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type GroupData struct {
	Inner ExprID
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Literals *Arena[LitData]
	Idents   *Arena[IdentData]
	Indices  *Arena[IndexData]
	Calls    *Arena[CallData]
	Binaries *Arena[BinaryData]
	Unaries  *Arena[UnaryData]
	Groups   *Arena[GroupData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Literals: NewArena[LitData](capHint),
		Idents:   NewArena[IdentData](capHint),
		Indices:  NewArena[IndexData](capHint),
		Calls:    NewArena[CallData](capHint),
		Binaries: NewArena[BinaryData](capHint),
		Unaries:  NewArena[UnaryData](capHint),
		Groups:   NewArena[GroupData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) NewLit(span source.Span, kind LitKind, value string) ExprID {
	return e.new(ExprLit, span, PayloadID(e.Literals.Allocate(LitData{Kind: kind, Value: value})))
}

func (e *Exprs) NewIdent(span source.Span, name Name) ExprID {
	return e.new(ExprIdent, span, PayloadID(e.Idents.Allocate(IdentData{Name: name})))
}

func (e *Exprs) NewIndex(span source.Span, list Name, index ExprID) ExprID {
	return e.new(ExprIndex, span, PayloadID(e.Indices.Allocate(IndexData{List: list, Index: index})))
}

func (e *Exprs) NewCall(span source.Span, name Name, args []ExprID) ExprID {
	return e.new(ExprCall, span, PayloadID(e.Calls.Allocate(CallData{Name: name, Args: args})))
}

func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, PayloadID(e.Binaries.Allocate(BinaryData{Op: op, Left: left, Right: right})))
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, PayloadID(e.Unaries.Allocate(UnaryData{Op: op, Operand: operand})))
}

func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	return e.new(ExprGroup, span, PayloadID(e.Groups.Allocate(GroupData{Inner: inner})))
}

func (e *Exprs) Lit(id ExprID) (*LitData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprLit {
		return nil, false
	}
	return e.Literals.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Ident(id ExprID) (*IdentData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Index(id ExprID) (*IndexData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprIndex {
		return nil, false
	}
	return e.Indices.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Call(id ExprID) (*CallData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Binary(id ExprID) (*BinaryData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Unary(id ExprID) (*UnaryData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(ex.Payload)), true
}

func (e *Exprs) Group(id ExprID) (*GroupData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprGroup {
		return nil, false
	}
	return e.Groups.Get(uint32(ex.Payload)), true
}
