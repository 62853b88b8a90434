package symbols

import (
	"goboscript/internal/ast"
	"goboscript/internal/source"
)

// NameSet is an insertion-ordered set of unit-scope names. Order drives
// deterministic id allocation in codegen; Has is O(1).
type NameSet struct {
	names []string
	index map[string]int
	decls []Decl
}

// Decl remembers where a name was first declared.
type Decl struct {
	Item ast.ItemID
	Span source.Span
}

func NewNameSet() NameSet {
	return NameSet{index: make(map[string]int)}
}

// Add inserts name; it returns false and leaves the set untouched when the
// name is already present (the first declaration wins).
func (s *NameSet) Add(name string, decl Decl) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = len(s.names)
	s.names = append(s.names, name)
	s.decls = append(s.decls, decl)
	return true
}

// Has is nil-safe so an absent stage scope can be passed as nil.
func (s *NameSet) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

func (s *NameSet) Decl(name string) (Decl, bool) {
	if s == nil {
		return Decl{}, false
	}
	i, ok := s.index[name]
	if !ok {
		return Decl{}, false
	}
	return s.decls[i], true
}

func (s *NameSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns names in declaration order. Read-only.
func (s *NameSet) Names() []string {
	if s == nil {
		return nil
	}
	return s.names
}
