package symbols

import (
	"fmt"

	"goboscript/internal/ast"
	"goboscript/internal/diag"
	"goboscript/internal/source"
)

type suspendSite struct {
	span   source.Span
	reason string
}

type callEdge struct {
	span   source.Span
	callee *FunctionPrototype
}

// suspendInfo collects, per function, the places that can pause it.
type suspendInfo struct {
	sites []suspendSite
	calls []callEdge
}

// nil-safe: event scripts have no info
func (si *suspendInfo) addSite(span source.Span, reason string) {
	if si == nil {
		return
	}
	si.sites = append(si.sites, suspendSite{span: span, reason: reason})
}

func (si *suspendInfo) addCall(span source.Span, callee *FunctionPrototype) {
	if si == nil {
		return
	}
	si.calls = append(si.calls, callEdge{span: span, callee: callee})
}

// inferWarp computes Suspends as a least fixpoint over the call graph and then
// sets Warp. A function suspends when it reaches a yielding block, a forever
// loop or an unknown call, or calls a non-warp function that suspends.
// Explicit `warp`/`nowarp` always wins; unannotated functions get !Suspends.
func (fr *fileResolver) inferWarp() {
	order := make([]*FunctionPrototype, 0, len(fr.prog.FunctionOrder))
	for _, name := range fr.prog.FunctionOrder {
		order = append(order, fr.prog.Functions[name])
	}

	propagates := func(callee *FunctionPrototype) bool {
		return fr.modes[callee] != ast.WarpOn && callee.Suspends
	}

	for _, fp := range order {
		fp.Suspends = len(fr.flow[fp].sites) > 0
	}
	for changed := true; changed; {
		changed = false
		for _, fp := range order {
			if fp.Suspends {
				continue
			}
			for _, edge := range fr.flow[fp].calls {
				if propagates(edge.callee) {
					fp.Suspends = true
					changed = true
					break
				}
			}
		}
	}

	for _, fp := range order {
		switch fr.modes[fp] {
		case ast.WarpOn:
			fp.Warp = true
		case ast.WarpOff:
			fp.Warp = false
		default:
			fp.Warp = !fp.Suspends
		}
		if fr.modes[fp] != ast.WarpOn || !fp.Suspends {
			continue
		}
		info := fr.flow[fp]
		for _, site := range info.sites {
			fr.warnWarp(fp, site.span, site.reason)
		}
		for _, edge := range info.calls {
			if propagates(edge.callee) {
				fr.warnWarp(fp, edge.span, fmt.Sprintf("'%s' is not warp and can yield", edge.callee.Name))
			}
		}
	}
}

func (fr *fileResolver) warnWarp(fp *FunctionPrototype, span source.Span, reason string) {
	diag.ReportWarning(fr.reporter, diag.SemaWarpYields, span,
		fmt.Sprintf("warp function '%s' can yield here: %s", fp.Name, reason)).
		WithNote(fp.Span, "declared warp here").
		Emit()
}
