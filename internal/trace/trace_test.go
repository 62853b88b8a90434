package trace

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func names(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind.String()+":"+ev.Name)
	}
	return out
}

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		want  []string
	}{
		{LevelPhase, []string{"begin:build", "begin:parse", "end:parse", "end:build"}},
		{LevelDetail, []string{"begin:build", "begin:parse", "begin:unit:cat", "end:unit:cat", "end:parse", "end:build"}},
	}
	for _, tt := range tests {
		ring := NewRingTracer(64, tt.level)
		ctx := WithTracer(context.Background(), ring)

		build, ctx := StartSpan(ctx, ScopeBuild, "build")
		parse, pctx := StartSpan(ctx, ScopePhase, "parse")
		unit, _ := StartSpan(pctx, ScopeUnit, "unit:cat")
		unit.End("")
		parse.End("")
		build.End("")

		if diff := cmp.Diff(tt.want, names(ring.Snapshot())); diff != "" {
			t.Errorf("level %s (-want +got):\n%s", tt.level, diff)
		}
	}
}

func TestStartSpanLinksParent(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), ring)

	outer, ctx := StartSpan(ctx, ScopePhase, "generate")
	inner, _ := StartSpan(ctx, ScopeUnit, "unit:Stage")
	inner.End("")
	outer.End("")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("got %d events", len(events))
	}
	if events[1].ParentID != outer.ID() {
		t.Errorf("inner parent = %d, want %d", events[1].ParentID, outer.ID())
	}
	if events[0].ParentID != 0 {
		t.Errorf("outer parent = %d, want 0", events[0].ParentID)
	}
}

func TestFailIsEmittedAtErrorLevel(t *testing.T) {
	ring := NewRingTracer(16, LevelError)
	ctx := WithTracer(context.Background(), ring)

	ok, _ := StartSpan(ctx, ScopePhase, "parse")
	ok.End("")
	bad, _ := StartSpan(ctx, ScopePhase, "generate")
	bad.Fail(errors.New("disk full"))

	events := ring.Snapshot()
	if diff := cmp.Diff([]string{"end:generate"}, names(events)); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
	if events[0].Extra["error"] != "disk full" {
		t.Errorf("extra = %v", events[0].Extra)
	}
}

func TestNopSpansAreSafe(t *testing.T) {
	span, ctx := StartSpan(context.Background(), ScopeBuild, "build")
	if span.ID() != 0 {
		t.Errorf("nop span id = %d", span.ID())
	}
	if CurrentSpan(ctx).SpanID != 0 {
		t.Error("nop span must not become current")
	}
	span.WithExtra("k", "v").End("")
	Point(ctx, ScopeBuild, "noop", "")
}

func TestFormatText(t *testing.T) {
	ev := &Event{
		Time:   time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC),
		Kind:   KindSpanEnd,
		Scope:  ScopeUnit,
		Name:   "unit:cat",
		Detail: "ok",
		Extra:  map[string]string{"warnings": "1", "errors": "0"},
	}
	got := string(FormatEvent(ev, FormatText))
	want := "03:04:05.006 [unit]     ← unit:cat (ok) {errors=0, warnings=1}\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Output: &buf, Format: FormatNDJSON})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopeBuild, "build", 0).End("done")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], `"detail":"done"`) || !strings.Contains(lines[1], `"kind":"end"`) {
		t.Errorf("unexpected end line %s", lines[1])
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(s)
		if err != nil || lvl.String() != s {
			t.Errorf("ParseLevel(%q) = %v, %v", s, lvl, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestHeartbeatBeatsUntilStopped(t *testing.T) {
	ring := NewRingTracer(64, LevelError)
	hb := StartHeartbeat(ring, 2*time.Millisecond)
	if hb == nil {
		t.Fatal("heartbeat not started for an enabled tracer")
	}
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	hb.Stop()

	got := ring.Snapshot()
	if len(got) < 2 {
		t.Fatalf("got %d heartbeats", len(got))
	}
	if got[0].Kind != KindHeartbeat || !strings.HasPrefix(got[0].Detail, "#1 at ") {
		t.Fatalf("first event = %+v", got[0])
	}
	time.Sleep(10 * time.Millisecond)
	if after := len(ring.Snapshot()); after != len(got) {
		t.Fatalf("heartbeat kept beating after Stop: %d -> %d events", len(got), after)
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatal("no heartbeat expected for the nop tracer")
	}
}

func TestRingDumpsTailOnClose(t *testing.T) {
	var out bytes.Buffer
	ring := NewRingTracer(2, LevelPhase).DumpTo(&out, FormatNDJSON, false, false)
	ctx := WithTracer(context.Background(), ring)
	for _, name := range []string{"parse", "resolve", "generate"} {
		Point(ctx, ScopePhase, name, "")
	}
	if out.Len() != 0 {
		t.Fatal("ring must not write before Close")
	}
	if err := ring.Close(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], `"resolve"`) || !strings.Contains(lines[1], `"generate"`) {
		t.Fatalf("tail = %q", lines)
	}
}

func TestRingFailedOnly(t *testing.T) {
	for _, fail := range []bool{false, true} {
		var out bytes.Buffer
		ring := NewRingTracer(16, LevelDebug).DumpTo(&out, FormatText, true, false)
		ctx := WithTracer(context.Background(), ring)
		span, _ := StartSpan(ctx, ScopePhase, "generate")
		if fail {
			span.Fail(errors.New("disk full"))
		} else {
			span.End("ok")
		}
		if err := ring.Close(); err != nil {
			t.Fatal(err)
		}
		if got := out.Len() > 0; got != fail {
			t.Fatalf("fail=%v: dump written = %v", fail, got)
		}
	}
}
