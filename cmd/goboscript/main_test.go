package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"goboscript/internal/buildpipeline"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		input   string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"auto", uiModeAuto, false},
		{" ON ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", uiModeAuto, true},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.input)
		if (err != nil) != tc.wantErr {
			t.Fatalf("readUIMode(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("readUIMode(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestReadOutputOptions(t *testing.T) {
	root := newRootCmd()
	flags := root.PersistentFlags()
	for name, value := range map[string]string{
		"color":              "off",
		"quiet":              "true",
		"max-diagnostics":    "7",
		"diagnostics-format": "JSON",
	} {
		if err := flags.Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	opts, err := readOutputOptions(root)
	if err != nil {
		t.Fatalf("readOutputOptions: %v", err)
	}
	want := outputOptions{color: false, quiet: true, maxDiagnostics: 7, format: buildpipeline.FormatJSON}
	if diff := cmp.Diff(want, opts, cmp.AllowUnexported(outputOptions{})); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestReadOutputOptionsRejectsBadValues(t *testing.T) {
	for name, value := range map[string]string{
		"color":              "rainbow",
		"max-diagnostics":    "-1",
		"diagnostics-format": "xml",
	} {
		root := newRootCmd()
		if err := root.PersistentFlags().Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
		if _, err := readOutputOptions(root); err == nil {
			t.Fatalf("--%s=%s: expected error", name, value)
		}
	}
}

func TestCompletions(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := runRoot(t, "completions", shell)
		if err != nil {
			t.Fatalf("completions %s: %v", shell, err)
		}
		if !strings.Contains(out, "goboscript") {
			t.Fatalf("completions %s: script does not mention goboscript", shell)
		}
	}
	if _, err := runRoot(t, "completions", "tcsh"); err == nil {
		t.Fatal("expected error for unsupported shell")
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := runRoot(t, "version", "--format", "json", "--hash")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if payload.Tool != "goboscript" || payload.Version == "" || payload.GitCommit == "" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.BuildDate != "" {
		t.Fatalf("build date should be omitted without --date, got %q", payload.BuildDate)
	}
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stage.gs"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cat.gs"), []byte("onflag { say \"hi\"; }\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(t.TempDir(), "out.sb3")
	if _, err := runRoot(t, "--color", "off", "build", "-i", dir, "-o", output, "--ui", "off", "--no-cache"); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("archive not written: %v", err)
	}
}

func TestBuildCommandReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stage.gs"), []byte("onflag { meow; }\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := runRoot(t, "--color", "off", "build", "-i", dir, "--ui", "off", "--no-cache")
	if !errors.Is(err, buildpipeline.ErrDiagnostics) {
		t.Fatalf("expected ErrDiagnostics, got %v", err)
	}
}

func TestCleanProject(t *testing.T) {
	cache, err := buildpipeline.OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(t.TempDir(), "demo.sb3")
	if err := os.WriteFile(output, []byte("zip"), 0o600); err != nil {
		t.Fatal(err)
	}
	key := buildpipeline.OutputKey(output)
	if err := cache.Put(key, &buildpipeline.CacheEntry{Output: output, Clean: true}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := cleanProject(&out, cache, output, false); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("archive still present: %v", err)
	}
	var entry buildpipeline.CacheEntry
	if ok, err := cache.Get(key, &entry); err != nil || ok {
		t.Fatalf("cache entry survived clean (ok=%v, err=%v)", ok, err)
	}
	if !strings.HasPrefix(out.String(), "removed ") {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := cleanProject(&out, cache, output, true); err != nil {
		t.Fatalf("second clean: %v", err)
	}
	if !strings.Contains(out.String(), "not found") || !strings.Contains(out.String(), "dropped cache") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestPrintStageTimings(t *testing.T) {
	var timings buildpipeline.Timings
	timings.Set(buildpipeline.StageParse, 2*time.Millisecond)
	timings.Set(buildpipeline.StageGenerate, 500*time.Microsecond)

	var out bytes.Buffer
	printStageTimings(&out, timings)
	want := "parse        2.0 ms\ngenerate     0.5 ms\ntotal        2.5 ms\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("timings mismatch (-want +got):\n%s", diff)
	}
}
