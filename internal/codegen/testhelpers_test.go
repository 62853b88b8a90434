package codegen

import (
	"encoding/json"
	"fmt"
	"testing"

	"goboscript/internal/ast"
	"goboscript/internal/diag"
	"goboscript/internal/lexer"
	"goboscript/internal/parser"
	"goboscript/internal/project"
	"goboscript/internal/source"
	"goboscript/internal/symbols"
)

type memContainer struct {
	files  map[string][]byte
	order  []string
	closed int
	// failOn makes WriteFile fail for that entry name.
	failOn string
}

func newMemContainer() *memContainer {
	return &memContainer{files: map[string][]byte{}}
}

func (m *memContainer) WriteFile(name string, data []byte) error {
	if name == m.failOn {
		return fmt.Errorf("disk full")
	}
	m.files[name] = data
	m.order = append(m.order, name)
	return nil
}

func (m *memContainer) Close() error {
	m.closed++
	return nil
}

// resolveUnit parses and resolves src; it returns a nil program when the
// source has parse errors, like the build does.
func resolveUnit(t *testing.T, name, src string, bag *diag.Bag) *symbols.Program {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name+".gs", []byte(src)))
	reporter := diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs, lexer.New(file, lexer.Options{Reporter: reporter}), builder, parser.Options{Reporter: reporter})
	if bag.HasErrors() {
		return nil
	}
	return symbols.Resolve(builder, res.File, reporter)
}

type unit struct {
	name string
	src  string
}

type generated struct {
	doc   *Document
	out   *memContainer
	bags  map[string]*diag.Bag
	ids   *IDAllocator
	stage *symbols.Program
}

// generate builds a project the way the pipeline does: stage first, then
// sprites with the stage scope. stage may be nil.
func generate(t *testing.T, cfg project.Config, stage *unit, sprites ...unit) generated {
	t.Helper()
	out := newMemContainer()
	ids := NewIDAllocator()
	g := New(out, Options{Config: cfg, IDs: ids, Version: "test"})
	if err := g.BeginProject(); err != nil {
		t.Fatalf("BeginProject: %v", err)
	}
	res := generated{out: out, bags: map[string]*diag.Bag{}, ids: ids}
	var stageVars, stageLists *symbols.NameSet
	if stage != nil {
		bag := diag.NewBag(0)
		res.bags[project.StageName] = bag
		res.stage = resolveUnit(t, "stage", stage.src, bag)
		if res.stage != nil {
			stageVars, stageLists = &res.stage.Variables, &res.stage.Lists
			if err := g.Sprite(project.StageName, res.stage, nil, nil, bag, false); err != nil {
				t.Fatalf("Sprite(stage): %v", err)
			}
		}
	}
	for _, s := range sprites {
		bag := diag.NewBag(0)
		res.bags[s.name] = bag
		prog := resolveUnit(t, s.name, s.src, bag)
		if prog == nil {
			continue
		}
		if err := g.Sprite(s.name, prog, stageVars, stageLists, bag, true); err != nil {
			t.Fatalf("Sprite(%s): %v", s.name, err)
		}
	}
	if err := g.EndProject(); err != nil {
		t.Fatalf("EndProject: %v", err)
	}
	res.doc = g.Document()
	return res
}

func (g generated) target(t *testing.T, name string) *Target {
	t.Helper()
	for _, tg := range g.doc.Targets {
		if tg.Name == name {
			return tg
		}
	}
	t.Fatalf("no target %q", name)
	return nil
}

func codes(bag *diag.Bag) []string {
	out := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, fmt.Sprintf("%s %s", d.Severity.Label(), d.Code.ID()))
	}
	return out
}

func nodesWithOpcode(tg *Target, opcode string) []*Node {
	var out []*Node
	for _, n := range tg.Blocks {
		if n.Opcode == opcode {
			out = append(out, n)
		}
	}
	return out
}

func varID(t *testing.T, tg *Target, name string) string {
	t.Helper()
	for id, v := range tg.Variables {
		if v[0] == name {
			return id
		}
	}
	t.Fatalf("target %s has no variable %q", tg.Name, name)
	return ""
}

// decodeProject re-reads project.json from the container.
func decodeProject(t *testing.T, out *memContainer) map[string]any {
	t.Helper()
	data, ok := out.files["project.json"]
	if !ok {
		t.Fatal("project.json not written")
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("project.json is not valid JSON: %v", err)
	}
	return doc
}
