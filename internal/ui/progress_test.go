package ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"goboscript/internal/buildpipeline"
)

func TestApplyEventLifecycle(t *testing.T) {
	m := NewProgressModel("build", []string{"/p/stage.gs", "/p/cat.gs"}, nil).(*progressModel)

	steps := []buildpipeline.Event{
		{Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking},
		{File: "/p/stage.gs", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking},
		{File: "/p/cat.gs", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusError},
		{File: "/p/stage.gs", Stage: buildpipeline.StageResolve, Status: buildpipeline.StatusDone},
		// cat already failed; later events do not revive it
		{File: "/p/cat.gs", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusWorking},
		{File: "/p/unknown.gs", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking},
	}
	for _, ev := range steps {
		m.applyEvent(ev)
	}

	got := []string{m.items[0].status, m.items[1].status}
	if diff := cmp.Diff([]string{"resolving", "error"}, got); diff != "" {
		t.Fatalf("statuses (-want +got):\n%s", diff)
	}
	if m.stageLabel != "parsing" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
	if got, want := m.percent(), (0.5+1.0)/2; got != want {
		t.Fatalf("percent = %v, want %v", got, want)
	}

	m.applyEvent(buildpipeline.Event{File: "/p/stage.gs", Stage: buildpipeline.StageGenerate, Status: buildpipeline.StatusDone})
	if m.items[0].status != "done" || m.percent() != 1.0 {
		t.Fatalf("stage = %q, percent = %v", m.items[0].status, m.percent())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"cat.gs", 20, "cat.gs"},
		{"a_very_long_sprite.gs", 10, "a_very_..."},
		{"猫猫猫.gs", 5, "猫..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
