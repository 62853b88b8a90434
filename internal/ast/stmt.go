package ast

import (
	"goboscript/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtAssign
	StmtListSet
	StmtListAdd
	StmtListDelete
	StmtListInsert
	StmtIf
	StmtRepeat
	StmtUntil
	StmtForever
	StmtCall
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type AssignOp uint8

const (
	AssignSet AssignOp = iota // =
	AssignAdd                 // +=
	AssignSub                 // -=
)

type BlockStmt struct {
	Stmts []StmtID
}

type AssignStmt struct {
	Op    AssignOp
	Name  Name
	Value ExprID
}

// ListOpStmt covers `L[i] = v`, `add v to L`, `delete L[i]`, `insert v at L[i]`.
// Unused operands are NoExprID; `delete L;` has no index and clears the list.
type ListOpStmt struct {
	List  Name
	Index ExprID
	Value ExprID
}

// IfStmt: Else is NoStmtID, a StmtBlock or a nested StmtIf.
type IfStmt struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

// LoopStmt: Cond is the count for repeat, the condition for until, NoExprID for forever.
type LoopStmt struct {
	Cond ExprID
	Body StmtID
}

type CallStmt struct {
	Name Name
	Args []ExprID
}

type Stmts struct {
	Arena   *Arena[Stmt]
	Blocks  *Arena[BlockStmt]
	Assigns *Arena[AssignStmt]
	ListOps *Arena[ListOpStmt]
	Ifs     *Arena[IfStmt]
	Loops   *Arena[LoopStmt]
	Calls   *Arena[CallStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Blocks:  NewArena[BlockStmt](capHint),
		Assigns: NewArena[AssignStmt](capHint),
		ListOps: NewArena[ListOpStmt](capHint),
		Ifs:     NewArena[IfStmt](capHint),
		Loops:   NewArena[LoopStmt](capHint),
		Calls:   NewArena[CallStmt](capHint),
	}
}

func (s *Stmts) New(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	return s.New(StmtBlock, span, PayloadID(s.Blocks.Allocate(BlockStmt{Stmts: stmts})))
}

func (s *Stmts) NewAssign(span source.Span, op AssignOp, name Name, value ExprID) StmtID {
	return s.New(StmtAssign, span, PayloadID(s.Assigns.Allocate(AssignStmt{Op: op, Name: name, Value: value})))
}

func (s *Stmts) NewListOp(kind StmtKind, span source.Span, list Name, index, value ExprID) StmtID {
	return s.New(kind, span, PayloadID(s.ListOps.Allocate(ListOpStmt{List: list, Index: index, Value: value})))
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	return s.New(StmtIf, span, PayloadID(s.Ifs.Allocate(IfStmt{Cond: cond, Then: then, Else: els})))
}

func (s *Stmts) NewLoop(kind StmtKind, span source.Span, cond ExprID, body StmtID) StmtID {
	return s.New(kind, span, PayloadID(s.Loops.Allocate(LoopStmt{Cond: cond, Body: body})))
}

func (s *Stmts) NewCall(span source.Span, name Name, args []ExprID) StmtID {
	return s.New(StmtCall, span, PayloadID(s.Calls.Allocate(CallStmt{Name: name, Args: args})))
}

func (s *Stmts) Block(id StmtID) *BlockStmt {
	st := s.Get(id)
	if st == nil || st.Kind != StmtBlock {
		return nil
	}
	return s.Blocks.Get(uint32(st.Payload))
}

func (s *Stmts) Assign(id StmtID) *AssignStmt {
	st := s.Get(id)
	if st == nil || st.Kind != StmtAssign {
		return nil
	}
	return s.Assigns.Get(uint32(st.Payload))
}

func (s *Stmts) ListOp(id StmtID) *ListOpStmt {
	st := s.Get(id)
	if st == nil {
		return nil
	}
	switch st.Kind {
	case StmtListSet, StmtListAdd, StmtListDelete, StmtListInsert:
		return s.ListOps.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) If(id StmtID) *IfStmt {
	st := s.Get(id)
	if st == nil || st.Kind != StmtIf {
		return nil
	}
	return s.Ifs.Get(uint32(st.Payload))
}

func (s *Stmts) Loop(id StmtID) *LoopStmt {
	st := s.Get(id)
	if st == nil {
		return nil
	}
	switch st.Kind {
	case StmtRepeat, StmtUntil, StmtForever:
		return s.Loops.Get(uint32(st.Payload))
	}
	return nil
}

func (s *Stmts) Call(id StmtID) *CallStmt {
	st := s.Get(id)
	if st == nil || st.Kind != StmtCall {
		return nil
	}
	return s.Calls.Get(uint32(st.Payload))
}
