// Package buildpipeline turns a project directory into an .sb3 archive:
// discover units, parse and resolve them in parallel, generate the project
// and report diagnostics in a fixed order.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"goboscript/internal/archive"
	"goboscript/internal/codegen"
	"goboscript/internal/diag"
	"goboscript/internal/project"
	"goboscript/internal/source"
	"goboscript/internal/symbols"
	"goboscript/internal/trace"
)

var (
	// ErrDiagnostics means the build finished and reported errors. The
	// diagnostics are already printed; callers only set the exit status.
	ErrDiagnostics = errors.New("build finished with errors")
	// ErrNoStage means the project directory has no stage.gs.
	ErrNoStage = errors.New("no " + project.StageFile + " found")
)

// BuildRequest configures one build.
type BuildRequest struct {
	Input  string // project directory; "" means the working directory
	Output string // archive path; "" means <Input>/<basename>.sb3

	Jobs           int // parallel parse/resolve workers; <= 0 means GOMAXPROCS
	MaxDiagnostics int // per unit; 0 means unlimited
	Version        string

	// Cache enables the up-to-date check; nil disables it.
	Cache *Cache

	Out    io.Writer // diagnostics and summary; nil means os.Stderr
	Color  bool
	Format Format
	Quiet  bool

	Progress ProgressSink
}

// BuildResult captures what a build did.
type BuildResult struct {
	Output   string
	Units    []*Unit // stage first
	Config   project.LoadedConfig
	FileSet  *source.FileSet
	Summary  diag.Summary
	Timings  Timings
	Elapsed  time.Duration
	UpToDate bool
}

// Build runs the whole pipeline. Source problems are reported as
// diagnostics and surface as ErrDiagnostics; any other error is fatal and
// nothing after the failing phase runs.
func Build(ctx context.Context, req *BuildRequest) (result BuildResult, err error) {
	start := time.Now()
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	reqCopy := *req
	req = &reqCopy
	if req.Out == nil {
		req.Out = os.Stderr
	}
	if req.Format == "" {
		req.Format = FormatPretty
	}
	if req.Input == "" {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return result, fmt.Errorf("working directory: %w", cwdErr)
		}
		req.Input = cwd
	}
	if req.Output == "" {
		req.Output = project.DefaultOutput(req.Input)
	}
	result.Output = req.Output

	buildSpan, ctx := trace.StartSpan(ctx, trace.ScopeBuild, "build")
	defer func() {
		result.Elapsed = time.Since(start)
		if err != nil && !errors.Is(err, ErrDiagnostics) {
			buildSpan.Fail(err)
			return
		}
		buildSpan.WithExtra("warnings", fmt.Sprint(result.Summary.Warnings)).
			WithExtra("errors", fmt.Sprint(result.Summary.Errors)).
			End(req.Output)
	}()

	// discover
	phaseStart := time.Now()
	emitStage(req.Progress, StageDiscover, StatusWorking, nil, 0)
	span, _ := trace.StartSpan(ctx, trace.ScopePhase, string(StageDiscover))
	layout, cfg, fs, units, err := discover(req)
	if err != nil {
		span.Fail(err)
		emitStage(req.Progress, StageDiscover, StatusError, err, 0)
		return result, err
	}
	span.WithExtra("units", fmt.Sprint(len(units))).End(layout.Dir)
	result.Config, result.FileSet, result.Units = cfg, fs, units
	result.Timings.Set(StageDiscover, time.Since(phaseStart))
	emitStage(req.Progress, StageDiscover, StatusDone, nil, result.Timings.Duration(StageDiscover))

	rep := newReporter(req.Out, fs, req)
	for _, d := range unknownKeyWarnings(fs, cfg) {
		rep.projectWarning(d)
	}

	fingerprint := fingerprintOf(req.Version, cfg.Config, units)
	cacheKey := OutputKey(req.Output)
	if upToDate(ctx, req, cacheKey, fingerprint) {
		result.UpToDate = true
		rep.upToDate(req.Output)
		rep.finished(time.Since(start))
		return result, nil
	}

	paths := make([]string, len(units))
	for i, u := range units {
		paths[i] = u.Path
	}
	emitQueued(req.Progress, paths)

	if err := runPhase(ctx, req, &result.Timings, StageParse, func(ctx context.Context) error {
		return parseUnits(ctx, fs, units, req)
	}); err != nil {
		return result, err
	}
	if err := runPhase(ctx, req, &result.Timings, StageResolve, func(ctx context.Context) error {
		return resolveUnits(ctx, units, req)
	}); err != nil {
		return result, err
	}

	if err := runPhase(ctx, req, &result.Timings, StageGenerate, func(ctx context.Context) error {
		return generate(ctx, req, cfg.Config, units, rep)
	}); err != nil {
		// не оставляем полузаписанный архив
		_ = os.Remove(req.Output)
		return result, err
	}

	result.Summary.Add(rep.project)
	for _, u := range units {
		result.Summary.Merge(u.Bag.Summary())
	}
	if err := runPhase(ctx, req, &result.Timings, StageReport, func(context.Context) error {
		return rep.summary(result.Summary)
	}); err != nil {
		return result, err
	}
	rep.finished(time.Since(start))

	storeFingerprint(ctx, req, cacheKey, fingerprint, units, result.Summary)
	if result.Summary.Failed() {
		return result, ErrDiagnostics
	}
	return result, nil
}

// runPhase wraps fn with a trace span, progress events and a timing.
func runPhase(ctx context.Context, req *BuildRequest, timings *Timings, stage Stage, fn func(context.Context) error) error {
	phaseStart := time.Now()
	span, ctx := trace.StartSpan(ctx, trace.ScopePhase, string(stage))
	emitStage(req.Progress, stage, StatusWorking, nil, 0)
	if err := fn(ctx); err != nil {
		span.Fail(err)
		emitStage(req.Progress, stage, StatusError, err, time.Since(phaseStart))
		return err
	}
	timings.Set(stage, time.Since(phaseStart))
	span.End("")
	emitStage(req.Progress, stage, StatusDone, nil, timings.Duration(stage))
	return nil
}

func discover(req *BuildRequest) (project.Layout, project.LoadedConfig, *source.FileSet, []*Unit, error) {
	layout, err := project.Discover(req.Input)
	if err != nil {
		return layout, project.LoadedConfig{}, nil, nil, err
	}
	if layout.Stage == nil {
		return layout, project.LoadedConfig{}, nil, nil, fmt.Errorf("%w in %s", ErrNoStage, req.Input)
	}
	cfg, err := project.LoadConfig(req.Input)
	if err != nil {
		return layout, cfg, nil, nil, err
	}
	fs := source.NewFileSetWithBase(req.Input)
	units, err := loadUnits(fs, layout, req.MaxDiagnostics)
	if err != nil {
		return layout, cfg, fs, nil, err
	}
	return layout, cfg, fs, units, nil
}

// generate writes the archive: stage first, then sprites in discovery
// order. Each sprite's warnings are printed right after it is generated,
// then the stage warnings, the sprite errors and the stage errors.
func generate(ctx context.Context, req *BuildRequest, cfg project.Config, units []*Unit, rep *reporter) error {
	zf, err := archive.Create(req.Output)
	if err != nil {
		return err
	}
	defer func() { _ = zf.Close() }()

	gen := codegen.New(zf, codegen.Options{Config: cfg, Version: req.Version})
	if err := gen.BeginProject(); err != nil {
		return err
	}

	stage, sprites := units[0], units[1:]
	var stageVars, stageLists *symbols.NameSet
	if stage.Program != nil {
		stageVars, stageLists = &stage.Program.Variables, &stage.Program.Lists
		if err := generateUnit(ctx, req, gen, stage, nil, nil); err != nil {
			return err
		}
	}
	for _, u := range sprites {
		if u.Program != nil {
			if err := generateUnit(ctx, req, gen, u, stageVars, stageLists); err != nil {
				return err
			}
		}
		rep.unit(u, diag.SevWarning)
	}
	rep.unit(stage, diag.SevWarning)
	for _, u := range sprites {
		rep.unit(u, diag.SevError)
	}
	rep.unit(stage, diag.SevError)

	if err := gen.EndProject(); err != nil {
		return err
	}
	trace.Point(ctx, trace.ScopeEvent, "ids", fmt.Sprint(gen.IDs().Issued()))
	return nil
}

func generateUnit(ctx context.Context, req *BuildRequest, gen *codegen.CodeGen, u *Unit, stageVars, stageLists *symbols.NameSet) error {
	span, _ := trace.StartSpan(ctx, trace.ScopeUnit, "generate:"+u.Name)
	emitUnit(req.Progress, u.Path, StageGenerate, StatusWorking, nil)
	if err := gen.Sprite(u.Name, u.Program, stageVars, stageLists, u.Bag, !u.IsStage); err != nil {
		span.Fail(err)
		emitUnit(req.Progress, u.Path, StageGenerate, StatusError, err)
		return err
	}
	status := StatusDone
	if u.Bag.HasErrors() {
		status = StatusError
	}
	emitUnit(req.Progress, u.Path, StageGenerate, status, nil)
	span.End(string(status))
	return nil
}

// fingerprintOf covers everything that changes the archive: the tool
// version, the decoded config and the name and content of every unit.
func fingerprintOf(version string, cfg project.Config, units []*Unit) project.Digest {
	cfgBytes, err := msgpack.Marshal(&cfg)
	if err != nil {
		// plain struct of ints and bools
		panic(fmt.Errorf("encode config: %w", err))
	}
	parts := make([]project.Digest, 0, 2*len(units)+1)
	parts = append(parts, project.DigestBytes(cfgBytes))
	for _, u := range units {
		parts = append(parts, project.DigestBytes([]byte(u.Name)), project.Digest(u.File.Hash))
	}
	return project.Combine(project.DigestBytes([]byte(version)), parts...)
}

// upToDate reports whether the previous clean build of the same output saw
// exactly these inputs and its archive still exists. Cache failures only
// cost a rebuild.
func upToDate(ctx context.Context, req *BuildRequest, key, fingerprint project.Digest) bool {
	if req.Cache == nil {
		return false
	}
	var entry CacheEntry
	ok, err := req.Cache.Get(key, &entry)
	switch {
	case err != nil:
		trace.Point(ctx, trace.ScopeEvent, "cache", "unreadable: "+err.Error())
		return false
	case !ok:
		trace.Point(ctx, trace.ScopeEvent, "cache", "miss")
		return false
	case entry.Fingerprint != fingerprint || !entry.Clean:
		trace.Point(ctx, trace.ScopeEvent, "cache", "stale")
		return false
	}
	if _, err := os.Stat(req.Output); err != nil {
		trace.Point(ctx, trace.ScopeEvent, "cache", "output missing")
		return false
	}
	trace.Point(ctx, trace.ScopeEvent, "cache", "hit")
	return true
}

// storeFingerprint records a clean build; any other outcome drops the entry
// so the next build reports its diagnostics again.
func storeFingerprint(ctx context.Context, req *BuildRequest, key, fingerprint project.Digest, units []*Unit, summary diag.Summary) {
	if req.Cache == nil {
		return
	}
	var err error
	if summary.Warnings == 0 && summary.Errors == 0 {
		entry := &CacheEntry{
			Output:      req.Output,
			Version:     req.Version,
			Fingerprint: fingerprint,
			Clean:       true,
			BuiltAt:     time.Now(),
		}
		for _, u := range units {
			entry.Files = append(entry.Files, u.Path)
			entry.Hashes = append(entry.Hashes, project.Digest(u.File.Hash))
		}
		err = req.Cache.Put(key, entry)
	} else {
		err = req.Cache.Forget(key)
	}
	if err != nil {
		trace.Point(ctx, trace.ScopeEvent, "cache", "store failed: "+err.Error())
	}
}
