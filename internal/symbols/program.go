package symbols

import (
	"goboscript/internal/ast"
	"goboscript/internal/blocks"
	"goboscript/internal/source"
)

// FunctionPrototype is the resolved signature of one `def`.
type FunctionPrototype struct {
	Name    string
	Args    ast.Names
	ArgsSet map[string]struct{}
	// Warp: run without screen refresh. Explicit annotation or !Suspends.
	Warp     bool
	Suspends bool
	Span     source.Span
	Item     ast.ItemID
}

// HasArg reports whether name is one of the parameters.
func (fp *FunctionPrototype) HasArg(name string) bool {
	_, ok := fp.ArgsSet[name]
	return ok
}

type CallKind uint8

const (
	CallUnknown CallKind = iota
	CallBuiltin
	CallFunction
)

// CallBinding is what a statement call site resolved to.
type CallBinding struct {
	Kind    CallKind
	Builtin *blocks.Block
	Proto   *FunctionPrototype
}

// Bindings are the resolver's annotations, kept beside the tree instead of
// inside it so the tree stays read-only.
type Bindings struct {
	Calls map[ast.StmtID]CallBinding
	// Reporters binds reporter call expressions; unknown names are absent.
	Reporters map[ast.ExprID]*blocks.Block
	// Params maps identifier uses inside a function body to the parameter index.
	Params map[ast.ExprID]int
}

func newBindings() *Bindings {
	return &Bindings{
		Calls:     make(map[ast.StmtID]CallBinding),
		Reporters: make(map[ast.ExprID]*blocks.Block),
		Params:    make(map[ast.ExprID]int),
	}
}

// Program is the resolved form of one unit. Read-only after Resolve returns.
type Program struct {
	File      ast.FileID
	Builder   *ast.Builder
	Variables NameSet
	Lists     NameSet
	Functions map[string]*FunctionPrototype
	// FunctionOrder lists Functions keys in declaration order.
	FunctionOrder []string
	Bindings      *Bindings
}

// Function returns the prototype for name, if declared in this unit.
func (p *Program) Function(name string) (*FunctionPrototype, bool) {
	fp, ok := p.Functions[name]
	return fp, ok
}

// Items returns the unit's top-level items in source order.
func (p *Program) Items() []ast.ItemID {
	f := p.Builder.Files.Get(p.File)
	if f == nil {
		return nil
	}
	return f.Items
}
