package codegen

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"goboscript/internal/diag"
	"goboscript/internal/project"
)

func TestIDAllocator(t *testing.T) {
	a := NewIDAllocator()
	seen := map[string]bool{}
	for i := 0; i < 10000; i++ {
		id := a.Next()
		if seen[id] {
			t.Fatalf("id %q issued twice", id)
		}
		seen[id] = true
	}
	if a.Issued() != 10000 {
		t.Fatalf("Issued = %d, want 10000", a.Issued())
	}
	if got := encodeID(0); got != "a" {
		t.Fatalf("encodeID(0) = %q", got)
	}
	if got := encodeID(62); got != "ba" {
		t.Fatalf("encodeID(62) = %q", got)
	}
}

func TestIDsUniqueAcrossProject(t *testing.T) {
	stage := &unit{src: `
var score = 0;
list L = [1, 2];
onflag { broadcast "go"; score = 1; }
`}
	cfg := project.DefaultConfig()
	cfg.FrameRate = 60
	res := generate(t, cfg, stage,
		unit{name: "cat", src: `
var x = 1;
def jump h { change_y h; }
onflag { jump 10; if x > 0 { say "hi"; } else { think "no"; } }
onbroadcast "go" { add x to L; }
`},
		unit{name: "dog", src: `
var x = 2;
onflag { repeat 3 { move 10; } }
`},
	)
	seen := map[string]string{}
	mark := func(id, where string) {
		if prev, dup := seen[id]; dup {
			t.Fatalf("id %q used by %s and %s", id, prev, where)
		}
		seen[id] = where
	}
	for _, tg := range res.doc.Targets {
		for id := range tg.Blocks {
			mark(id, tg.Name+" block")
		}
		for id := range tg.Variables {
			mark(id, tg.Name+" variable")
		}
		for id := range tg.Lists {
			mark(id, tg.Name+" list")
		}
		for id := range tg.Broadcasts {
			mark(id, tg.Name+" broadcast")
		}
		for id := range tg.Comments {
			mark(id, tg.Name+" comment")
		}
		// every link stays inside the target
		for id, n := range tg.Blocks {
			if n.Next != nil && tg.Blocks[*n.Next] == nil {
				t.Fatalf("%s: block %s next %s is dangling", tg.Name, id, *n.Next)
			}
			if n.Parent != nil && tg.Blocks[*n.Parent] == nil {
				t.Fatalf("%s: block %s parent %s is dangling", tg.Name, id, *n.Parent)
			}
		}
	}
	// procedure argument ids live in mutations, not as keys
	if uint64(len(seen)) > res.ids.Issued() {
		t.Fatalf("document holds %d ids, allocator issued only %d", len(seen), res.ids.Issued())
	}
}

func TestScopePrecedence(t *testing.T) {
	stage := &unit{src: "var x = 1;\nvar y = 5;\n"}
	res := generate(t, project.DefaultConfig(), stage, unit{name: "cat", src: `
var x = 2;
onflag { x = 3; y = 4; }
`})
	cat := res.target(t, "cat")
	st := res.target(t, project.StageName)

	if diff := cmp.Diff([]string{"warning SEM3004"}, codes(res.bags["cat"])); diff != "" {
		t.Fatalf("cat diagnostics (-want +got):\n%s", diff)
	}
	local, stageX, stageY := varID(t, cat, "x"), varID(t, st, "x"), varID(t, st, "y")
	got := map[string]string{}
	for _, n := range nodesWithOpcode(cat, "data_setvariableto") {
		got[n.Fields["VARIABLE"][0].(string)] = n.Fields["VARIABLE"][1].(string)
	}
	want := map[string]string{"x": local, "y": stageY}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("variable bindings (-want +got):\n%s", diff)
	}
	if local == stageX {
		t.Fatal("sprite-local x must not reuse the stage id")
	}
}

func TestNoStageFunctionInheritance(t *testing.T) {
	stage := &unit{src: "var helper = 0;\ndef helper2 { }\n"}
	res := generate(t, project.DefaultConfig(), stage, unit{name: "cat", src: "onflag { helper2; }\n"})
	bag := res.bags["cat"]
	if diff := cmp.Diff([]string{"error SEM3006"}, codes(bag)); diff != "" {
		t.Fatalf("cat diagnostics (-want +got):\n%s", diff)
	}
	if msg := bag.Items()[0].Message; msg != "undefined function: helper2" {
		t.Fatalf("message = %q", msg)
	}
	if n := nodesWithOpcode(res.target(t, "cat"), "procedures_call"); len(n) != 0 {
		t.Fatalf("unexpected procedures_call nodes: %d", len(n))
	}
}

func TestWarpDecidedByCallee(t *testing.T) {
	res := generate(t, project.DefaultConfig(), nil, unit{name: "cat", src: `
def fast { move 1; }
nowarp def slow { move 1; }
def waits { wait 1; }
warp def outer { slow; fast; waits; }
onflag { fast; slow; outer; }
`})
	cat := res.target(t, "cat")
	calls := map[string][]string{}
	for _, n := range nodesWithOpcode(cat, "procedures_call") {
		code := n.Mutation["proccode"].(string)
		calls[code] = append(calls[code], n.Mutation["warp"].(string))
	}
	want := map[string][]string{
		"fast":  {"true", "true"},
		"slow":  {"false", "false"},
		"waits": {"false"},
		"outer": {"true"},
	}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("call-site warp (-want +got):\n%s", diff)
	}
	protos := map[string]string{}
	for _, n := range nodesWithOpcode(cat, "procedures_prototype") {
		protos[n.Mutation["proccode"].(string)] = n.Mutation["warp"].(string)
	}
	if diff := cmp.Diff(map[string]string{"fast": "true", "slow": "false", "waits": "false", "outer": "true"}, protos); diff != "" {
		t.Fatalf("prototype warp (-want +got):\n%s", diff)
	}
	// outer is explicitly warp and reaches a suspending callee
	if diff := cmp.Diff([]string{"warning SEM3014"}, codes(res.bags["cat"])); diff != "" {
		t.Fatalf("diagnostics (-want +got):\n%s", diff)
	}
}

func TestCatMeowScenario(t *testing.T) {
	stage := &unit{src: "list L;\n"}
	res := generate(t, project.DefaultConfig(), stage, unit{name: "cat", src: `
var x = 0;
onflag { x = 1; meow; x += 1; }
`})
	bag := res.bags["cat"]
	if diff := cmp.Diff([]string{"error SEM3006"}, codes(bag)); diff != "" {
		t.Fatalf("cat diagnostics (-want +got):\n%s", diff)
	}
	if got := bag.Items()[0].Message; got != "undefined function: meow" {
		t.Fatalf("message = %q", got)
	}
	if res.bags[project.StageName].Len() != 0 {
		t.Fatalf("stage diagnostics: %v", codes(res.bags[project.StageName]))
	}
	if res.out.closed != 1 {
		t.Fatalf("container closed %d times", res.out.closed)
	}
	cat := res.target(t, "cat")
	varID(t, cat, "x")

	// the failed call leaves no node and the chain skips over it
	hat := nodesWithOpcode(cat, "event_whenflagclicked")[0]
	set := cat.Blocks[*hat.Next]
	change := cat.Blocks[*set.Next]
	if set.Opcode != "data_setvariableto" || change.Opcode != "data_changevariableby" || change.Next != nil {
		t.Fatalf("chain = %s -> %s", set.Opcode, change.Opcode)
	}
	if len(cat.Blocks) != 3 {
		t.Fatalf("cat has %d blocks, want 3", len(cat.Blocks))
	}
}

func TestStageFailureDegrades(t *testing.T) {
	stage := &unit{src: "var = ;\n"}
	res := generate(t, project.DefaultConfig(), stage, unit{name: "cat", src: "onflag { say \"hi\"; }\n"})
	if !res.bags[project.StageName].HasErrors() {
		t.Fatal("expected stage parse errors")
	}
	st := res.target(t, project.StageName)
	if len(st.Blocks) != 0 || len(st.Variables) != 0 {
		t.Fatalf("stage should be empty, got %d blocks", len(st.Blocks))
	}
	if len(res.target(t, "cat").Blocks) != 2 {
		t.Fatalf("cat blocks = %d, want 2", len(res.target(t, "cat").Blocks))
	}
	doc := decodeProject(t, res.out)
	targets := doc["targets"].([]any)
	if len(targets) != 2 || !targets[0].(map[string]any)["isStage"].(bool) {
		t.Fatalf("targets = %v", targets)
	}
}

func TestActorOnlyOnStage(t *testing.T) {
	stage := &unit{src: `
onflag { move 10; say x_position(); wait 1; }
onclone { }
onclick { }
`}
	res := generate(t, project.DefaultConfig(), stage)
	if diff := cmp.Diff([]string{"error SEM3015", "error SEM3015", "error SEM3015"}, codes(res.bags[project.StageName])); diff != "" {
		t.Fatalf("diagnostics (-want +got):\n%s", diff)
	}
	st := res.target(t, project.StageName)
	var ops []string
	for _, n := range st.Blocks {
		ops = append(ops, n.Opcode)
	}
	for _, op := range ops {
		if op == "motion_movesteps" || op == "control_start_as_clone" || op == "looks_say" {
			t.Fatalf("actor-only opcode %s emitted on the stage", op)
		}
	}
	if len(nodesWithOpcode(st, "event_whenstageclicked")) != 1 || len(nodesWithOpcode(st, "control_wait")) != 1 {
		t.Fatalf("stage opcodes = %v", ops)
	}
}

func TestStatementLinks(t *testing.T) {
	res := generate(t, project.DefaultConfig(), nil, unit{name: "cat", src: `
var n = 0;
onflag {
	if n = 0 { n = 1; n = 2; } else if n = 1 { n = 3; }
	forever { n -= 1; }
}
`})
	cat := res.target(t, "cat")
	ifElse := nodesWithOpcode(cat, "control_if_else")[0]
	sub := ifElse.Inputs["SUBSTACK"]
	first := cat.Blocks[sub[1].(string)]
	if *first.Parent == "" || cat.Blocks[*first.Parent] != ifElse {
		t.Fatal("substack head must point at the if block")
	}
	second := cat.Blocks[*first.Next]
	if cat.Blocks[*second.Parent] != first {
		t.Fatal("second statement's parent must be the first statement")
	}
	nested := cat.Blocks[ifElse.Inputs["SUBSTACK2"][1].(string)]
	if nested.Opcode != "control_if" {
		t.Fatalf("else-if lowered to %s", nested.Opcode)
	}
	if ifElse.Next == nil || cat.Blocks[*ifElse.Next].Opcode != "control_forever" {
		t.Fatal("forever must follow the if")
	}
	change := nodesWithOpcode(cat, "data_changevariableby")[0]
	if diff := cmp.Diff([]any{1, []any{4, "-1"}}, change.Inputs["VALUE"]); diff != "" {
		t.Fatalf("-= lowering (-want +got):\n%s", diff)
	}
}

func TestExpressionLowering(t *testing.T) {
	res := generate(t, project.DefaultConfig(), nil, unit{name: "cat", src: `
var a = 0;
list L = ["x", 0x10];
def f p { say p & L[1]; }
onflag {
	a = a <= 2;
	f random(1, 6);
	delete L;
	insert "y" at L[2];
	a = list_length(L);
}
`})
	cat := res.target(t, "cat")
	notNode := nodesWithOpcode(cat, "operator_not")[0]
	inner := cat.Blocks[notNode.Inputs["OPERAND"][1].(string)]
	if inner.Opcode != "operator_gt" {
		t.Fatalf("a <= 2 lowered to not(%s)", inner.Opcode)
	}
	if diff := cmp.Diff([]any{3, []any{12, "a", varID(t, cat, "a")}, []any{10, ""}}, inner.Inputs["OPERAND1"]); diff != "" {
		t.Fatalf("variable operand (-want +got):\n%s", diff)
	}
	for id, l := range cat.Lists {
		if diff := cmp.Diff([2]any{"L", []any{"x", int64(16)}}, l); diff != "" {
			t.Fatalf("list %s (-want +got):\n%s", id, diff)
		}
	}
	if len(nodesWithOpcode(cat, "argument_reporter_string_number")) != 2 {
		t.Fatal("want one prototype reporter and one use of p")
	}
	if len(nodesWithOpcode(cat, "data_deletealloflist")) != 1 || len(nodesWithOpcode(cat, "data_insertatlist")) != 1 {
		t.Fatal("list statements missing")
	}
	length := nodesWithOpcode(cat, "data_lengthoflist")[0]
	if length.Fields["LIST"][0] != "L" {
		t.Fatalf("LIST field = %v", length.Fields["LIST"])
	}
	if len(res.bags["cat"].Items()) != 0 {
		t.Fatalf("diagnostics: %v", codes(res.bags["cat"]))
	}
}

func TestUndefinedNamesBecomePlaceholders(t *testing.T) {
	res := generate(t, project.DefaultConfig(), nil, unit{name: "cat", src: `
var v = 0;
onflag { say ghost; add 1 to nowhere; v[1] = 2; }
`})
	want := []string{"error SEM3005", "error SEM3007", "error SEM3016"}
	if diff := cmp.Diff(want, codes(res.bags["cat"])); diff != "" {
		t.Fatalf("diagnostics (-want +got):\n%s", diff)
	}
	say := nodesWithOpcode(res.target(t, "cat"), "looks_say")[0]
	if diff := cmp.Diff([]any{1, []any{10, ""}}, say.Inputs["MESSAGE"]); diff != "" {
		t.Fatalf("placeholder (-want +got):\n%s", diff)
	}
}

func TestBroadcastsAndConfig(t *testing.T) {
	cfg := project.DefaultConfig()
	cfg.FrameRate = 60
	cfg.HighQualityPen = true
	stage := &unit{src: `onflag { broadcast "go"; }`}
	res := generate(t, cfg, stage, unit{name: "cat", src: `onbroadcast "go" { } onkey "space" { broadcast_and_wait "done"; }`})
	st := res.target(t, project.StageName)
	got := map[string]bool{}
	for _, msg := range st.Broadcasts {
		got[msg] = true
	}
	if diff := cmp.Diff(map[string]bool{"go": true, "done": true}, got); diff != "" {
		t.Fatalf("broadcasts (-want +got):\n%s", diff)
	}
	if len(st.Comments) != 1 {
		t.Fatalf("comments = %d, want 1", len(st.Comments))
	}
	for _, c := range st.Comments {
		if !strings.HasSuffix(c.Text, `{"framerate":60,"hq":true} // _twconfig_`) {
			t.Fatalf("twconfig comment = %q", c.Text)
		}
	}
	doc := decodeProject(t, res.out)
	meta := doc["meta"].(map[string]any)
	if meta["agent"] != "goboscript test" || meta["semver"] != "3.0.0" {
		t.Fatalf("meta = %v", meta)
	}
}

func TestDefaultConfigHasNoComment(t *testing.T) {
	res := generate(t, project.DefaultConfig(), nil)
	if len(res.target(t, project.StageName).Comments) != 0 {
		t.Fatal("default config must not emit a twconfig comment")
	}
}

func TestContainerEntries(t *testing.T) {
	res := generate(t, project.DefaultConfig(), nil, unit{name: "cat", src: ""})
	if len(res.out.order) != 2 || res.out.order[1] != "project.json" {
		t.Fatalf("entries = %v", res.out.order)
	}
	costume := res.target(t, "cat").Costumes[0]
	if _, ok := res.out.files[costume.MD5Ext]; !ok {
		t.Fatalf("costume asset %s not written", costume.MD5Ext)
	}
	doc := decodeProject(t, res.out)
	targets := doc["targets"].([]any)
	cat := targets[1].(map[string]any)
	if _, ok := cat["rotationStyle"]; !ok {
		t.Fatal("actor fields missing on sprite")
	}
	if _, ok := targets[0].(map[string]any)["rotationStyle"]; ok {
		t.Fatal("actor fields present on stage")
	}
	if _, ok := targets[0].(map[string]any)["tempo"]; !ok {
		t.Fatal("stage fields missing")
	}
}

func TestStateMachine(t *testing.T) {
	mustPanic := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatalf("%s: expected panic", name)
			}
		}()
		fn()
	}
	g := New(newMemContainer(), Options{})
	mustPanic("Sprite before BeginProject", func() {
		_ = g.Sprite("cat", nil, nil, nil, diag.NewBag(0), true)
	})
	if err := g.BeginProject(); err != nil {
		t.Fatal(err)
	}
	if err := g.EndProject(); err != nil {
		t.Fatal(err)
	}
	mustPanic("Sprite after EndProject", func() {
		_ = g.Sprite("cat", nil, nil, nil, diag.NewBag(0), true)
	})
	mustPanic("EndProject twice", func() { _ = g.EndProject() })
}

func TestContainerFailureIsReturned(t *testing.T) {
	out := newMemContainer()
	out.failOn = "project.json"
	g := New(out, Options{})
	if err := g.BeginProject(); err != nil {
		t.Fatal(err)
	}
	if err := g.EndProject(); err == nil {
		t.Fatal("expected write error")
	}
	if out.closed != 1 {
		t.Fatal("container must be closed even when the write fails")
	}
}
