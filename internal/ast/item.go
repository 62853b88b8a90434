package ast

import (
	"goboscript/internal/source"
)

type ItemKind uint8

const (
	ItemVar ItemKind = iota
	ItemList
	ItemFn
	ItemEvent
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// VarItem: `var x [= lit];`. Init is NoExprID when absent.
type VarItem struct {
	Name Name
	Init ExprID
}

// ListItem: `list L [= [..]];`.
type ListItem struct {
	Name Name
	Init []ExprID
}

// WarpMode is the source annotation in front of `def`.
type WarpMode uint8

const (
	WarpDefault WarpMode = iota
	WarpOn
	WarpOff
)

type FnItem struct {
	Name     Name
	Params   Names
	Warp     WarpMode
	WarpSpan source.Span
	Body     StmtID // StmtBlock
}

type EventKind uint8

const (
	EventFlag EventKind = iota
	EventClick
	EventClone
	EventKey
	EventBroadcast
)

func (k EventKind) String() string {
	switch k {
	case EventFlag:
		return "onflag"
	case EventClick:
		return "onclick"
	case EventClone:
		return "onclone"
	case EventKey:
		return "onkey"
	case EventBroadcast:
		return "onbroadcast"
	}
	return "event"
}

type EventItem struct {
	Event   EventKind
	Arg     string // key name or broadcast message
	ArgSpan source.Span
	Body    StmtID
}

type Items struct {
	Arena  *Arena[Item]
	Vars   *Arena[VarItem]
	Lists  *Arena[ListItem]
	Fns    *Arena[FnItem]
	Events *Arena[EventItem]
}

// NewItems creates per-kind arenas; capHint 0 means 1<<6.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena:  NewArena[Item](capHint),
		Vars:   NewArena[VarItem](capHint),
		Lists:  NewArena[ListItem](capHint),
		Fns:    NewArena[FnItem](capHint),
		Events: NewArena[EventItem](capHint),
	}
}

func (i *Items) New(kind ItemKind, span source.Span, payloadID PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:    kind,
		Span:    span,
		Payload: payloadID,
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewVar(span source.Span, name Name, init ExprID) ItemID {
	return i.New(ItemVar, span, PayloadID(i.Vars.Allocate(VarItem{Name: name, Init: init})))
}

func (i *Items) NewList(span source.Span, name Name, init []ExprID) ItemID {
	return i.New(ItemList, span, PayloadID(i.Lists.Allocate(ListItem{Name: name, Init: init})))
}

func (i *Items) NewFn(span source.Span, fn FnItem) ItemID {
	return i.New(ItemFn, span, PayloadID(i.Fns.Allocate(fn)))
}

func (i *Items) NewEvent(span source.Span, ev EventItem) ItemID {
	return i.New(ItemEvent, span, PayloadID(i.Events.Allocate(ev)))
}

func (i *Items) Var(id ItemID) (*VarItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemVar {
		return nil, false
	}
	return i.Vars.Get(uint32(item.Payload)), true
}

func (i *Items) List(id ItemID) (*ListItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemList {
		return nil, false
	}
	return i.Lists.Get(uint32(item.Payload)), true
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}

func (i *Items) Event(id ItemID) (*EventItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemEvent {
		return nil, false
	}
	return i.Events.Get(uint32(item.Payload)), true
}
