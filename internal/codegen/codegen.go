// Package codegen lowers resolved units into a Scratch 3 project and writes
// it into a container. Usage is strictly BeginProject, Sprite per unit
// (stage first), EndProject.
package codegen

import (
	"crypto/md5" // #nosec G501 -- Scratch names assets by md5
	"encoding/hex"
	"encoding/json"
	"fmt"

	"goboscript/internal/diag"
	"goboscript/internal/project"
	"goboscript/internal/symbols"
)

// Container receives the archive entries.
type Container interface {
	WriteFile(name string, data []byte) error
	Close() error
}

type Options struct {
	Config project.Config
	// IDs is shared when set; BeginProject creates one otherwise.
	IDs *IDAllocator
	// Version goes into meta.agent.
	Version string
}

type state uint8

const (
	stateIdle state = iota
	stateOpen
	stateClosed
)

// blankCostume is the single asset every target points at.
const blankCostume = `<svg version="1.1" width="2" height="2" viewBox="-1 -1 2 2" xmlns="http://www.w3.org/2000/svg"></svg>`

type CodeGen struct {
	out   Container
	opts  Options
	ids   *IDAllocator
	state state

	doc     Document
	stage   *Target
	sprites []*Target
	costume Costume

	// stage scope, filled when the stage unit is generated
	stageVars  map[string]string
	stageLists map[string]string
	// broadcasts are project wide: message -> id
	broadcasts     map[string]string
	broadcastOrder []string
}

func New(out Container, opts Options) *CodeGen {
	return &CodeGen{
		out:        out,
		opts:       opts,
		stageVars:  map[string]string{},
		stageLists: map[string]string{},
		broadcasts: map[string]string{},
	}
}

// IDs exposes the allocator in use; nil before BeginProject.
func (g *CodeGen) IDs() *IDAllocator { return g.ids }

// BeginProject writes the shared costume asset and opens the project.
func (g *CodeGen) BeginProject() error {
	if g.state != stateIdle {
		panic("codegen: BeginProject called twice")
	}
	g.ids = g.opts.IDs
	if g.ids == nil {
		g.ids = NewIDAllocator()
	}
	sum := md5.Sum([]byte(blankCostume)) // #nosec G401
	assetID := hex.EncodeToString(sum[:])
	g.costume = Costume{
		Name:             "blank",
		BitmapResolution: 1,
		DataFormat:       "svg",
		AssetID:          assetID,
		MD5Ext:           assetID + ".svg",
		RotationCenterX:  1,
		RotationCenterY:  1,
	}
	if err := g.out.WriteFile(g.costume.MD5Ext, []byte(blankCostume)); err != nil {
		return fmt.Errorf("write costume: %w", err)
	}
	g.state = stateOpen
	return nil
}

// Sprite lowers one unit into a target. isActor is false only for the
// stage; stageVars/stageLists are nil when generating the stage itself or
// when the stage has no program. Diagnostics go to bag; only container
// failures are returned.
func (g *CodeGen) Sprite(name string, prog *symbols.Program, stageVars, stageLists *symbols.NameSet, bag *diag.Bag, isActor bool) error {
	if g.state != stateOpen {
		panic("codegen: Sprite called outside BeginProject/EndProject")
	}
	var target *Target
	if isActor {
		target = newTarget(name, false, len(g.sprites)+1)
		g.sprites = append(g.sprites, target)
	} else {
		if g.stage != nil {
			panic("codegen: stage generated twice")
		}
		target = newTarget(project.StageName, true, 0)
		g.stage = target
	}
	target.Costumes = []Costume{g.costume}
	if prog == nil {
		return nil
	}
	sg := &spriteGen{
		g:          g,
		target:     target,
		prog:       prog,
		b:          prog.Builder,
		stageVars:  stageVars,
		stageLists: stageLists,
		reporter:   diag.BagReporter{Bag: bag},
		isActor:    isActor,
		vars:       map[string]string{},
		lists:      map[string]string{},
		procs:      map[string]*procInfo{},
	}
	sg.lower()
	return nil
}

// EndProject writes project.json and closes the container.
func (g *CodeGen) EndProject() error {
	if g.state != stateOpen {
		panic("codegen: EndProject called outside an open project")
	}
	g.state = stateClosed
	if g.stage == nil {
		g.stage = newTarget(project.StageName, true, 0)
		g.stage.Costumes = []Costume{g.costume}
	}
	for _, msg := range g.broadcastOrder {
		g.stage.Broadcasts[g.broadcasts[msg]] = msg
	}
	if text, ok := twconfig(g.opts.Config); ok {
		g.stage.Comments[g.ids.Next()] = Comment{
			X: 0, Y: 0, Width: 350, Height: 170,
			Text: text,
		}
	}

	g.doc = Document{
		Targets:    append([]*Target{g.stage}, g.sprites...),
		Monitors:   []any{},
		Extensions: []string{},
		Meta: Meta{
			Semver: "3.0.0",
			VM:     "0.2.0",
			Agent:  "goboscript " + g.opts.Version,
		},
	}
	data, err := json.Marshal(&g.doc)
	if err != nil {
		// only reachable through a lowering bug: every value is plain data
		panic(fmt.Errorf("codegen: marshal project.json: %w", err))
	}
	writeErr := g.out.WriteFile("project.json", data)
	closeErr := g.out.Close()
	if writeErr != nil {
		return fmt.Errorf("write project.json: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close container: %w", closeErr)
	}
	return nil
}

// Document returns the generated project; valid after EndProject.
func (g *CodeGen) Document() *Document {
	return &g.doc
}

// broadcast returns the id of message, allocating it on first use.
func (g *CodeGen) broadcast(message string) string {
	if id, ok := g.broadcasts[message]; ok {
		return id
	}
	id := g.ids.Next()
	g.broadcasts[message] = id
	g.broadcastOrder = append(g.broadcastOrder, message)
	return id
}
