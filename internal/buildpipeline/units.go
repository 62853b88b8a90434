package buildpipeline

import (
	"context"
	"fmt"
	"runtime"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"goboscript/internal/ast"
	"goboscript/internal/diag"
	"goboscript/internal/lexer"
	"goboscript/internal/parser"
	"goboscript/internal/project"
	"goboscript/internal/source"
	"goboscript/internal/symbols"
	"goboscript/internal/trace"
)

// Unit is one source file of the project: the stage or a sprite.
type Unit struct {
	Name    string
	Path    string
	File    *source.File
	Program *symbols.Program // nil when parsing failed
	Bag     *diag.Bag
	IsStage bool

	builder *ast.Builder
	astFile ast.FileID
}

// Diagnostics returns the unit's diagnostics of one severity in report order.
func (u *Unit) Diagnostics(sev diag.Severity) []diag.Diagnostic {
	if u == nil || u.Bag == nil {
		return nil
	}
	return u.Bag.Filter(sev)
}

// loadUnits reads every discovered file into fs, stage first. FileSet is not
// safe for concurrent use, so loading stays sequential.
func loadUnits(fs *source.FileSet, layout project.Layout, maxDiagnostics int) ([]*Unit, error) {
	files := make([]project.UnitFile, 0, len(layout.Sprites)+1)
	if layout.Stage != nil {
		files = append(files, *layout.Stage)
	}
	files = append(files, layout.Sprites...)

	units := make([]*Unit, 0, len(files))
	for i, uf := range files {
		id, err := fs.Load(uf.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", uf.Path, err)
		}
		units = append(units, &Unit{
			Name:    uf.Name,
			Path:    uf.Path,
			File:    fs.Get(id),
			Bag:     diag.NewBag(maxDiagnostics),
			IsStage: layout.Stage != nil && i == 0,
		})
	}
	return units, nil
}

// forEachUnit runs fn over units with at most jobs goroutines. Every unit owns
// its bag and builder, so fn needs no locking.
func forEachUnit(ctx context.Context, units []*Unit, jobs int, fn func(ctx context.Context, u *Unit) error) error {
	if len(units) == 0 {
		return nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(units)))
	for _, u := range units {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return fn(gctx, u)
		})
	}
	return g.Wait()
}

func parseUnits(ctx context.Context, fs *source.FileSet, units []*Unit, req *BuildRequest) error {
	return forEachUnit(ctx, units, req.Jobs, func(ctx context.Context, u *Unit) error {
		span, _ := trace.StartSpan(ctx, trace.ScopeUnit, "parse:"+u.Name)
		emitUnit(req.Progress, u.Path, StageParse, StatusWorking, nil)

		reporter := diag.BagReporter{Bag: u.Bag}
		u.builder = ast.NewBuilder(ast.Hints{})
		lx := lexer.New(u.File, lexer.Options{Reporter: reporter})
		res := parser.ParseFile(fs, lx, u.builder, parser.Options{
			MaxErrors: maxErrors(req.MaxDiagnostics),
			Reporter:  reporter,
		})
		u.astFile = res.File

		status := StatusDone
		if u.Bag.HasErrors() {
			status = StatusError
		}
		emitUnit(req.Progress, u.Path, StageParse, status, nil)
		span.WithExtra("diagnostics", fmt.Sprint(u.Bag.Len())).End(string(status))
		return nil
	})
}

// resolveUnits builds a Program for every unit that parsed cleanly; a unit
// with a parse error keeps a nil Program and is skipped by code generation.
func resolveUnits(ctx context.Context, units []*Unit, req *BuildRequest) error {
	return forEachUnit(ctx, units, req.Jobs, func(ctx context.Context, u *Unit) error {
		if u.Bag.HasErrors() {
			u.builder = nil
			return nil
		}
		span, _ := trace.StartSpan(ctx, trace.ScopeUnit, "resolve:"+u.Name)
		emitUnit(req.Progress, u.Path, StageResolve, StatusWorking, nil)
		u.Program = symbols.Resolve(u.builder, u.astFile, diag.BagReporter{Bag: u.Bag})
		emitUnit(req.Progress, u.Path, StageResolve, StatusDone, nil)
		span.WithExtra("variables", fmt.Sprint(u.Program.Variables.Len())).
			WithExtra("functions", fmt.Sprint(len(u.Program.Functions))).
			End("")
		return nil
	})
}

// maxErrors maps the diagnostics limit onto the parser's error budget; 0 means unlimited.
func maxErrors(maxDiagnostics int) uint {
	n, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return 0
	}
	return n
}
