package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"goboscript/internal/diag"
	"goboscript/internal/source"
)

func singleDiag(t *testing.T, path, content string, start, end uint32) (*source.FileSet, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSetWithBase("/home/user/game")
	id := fs.Add(path, []byte(content), 0)
	bag := diag.NewBag(0)
	d := diag.NewError(diag.SemaUndefinedFunction, source.Span{File: id, Start: start, End: end}, "undefined function: meow").
		WithNote(source.Span{File: id, Start: 0, End: 3}, "declared here")
	bag.Add(d)
	return fs, bag
}

func TestPrettyLayout(t *testing.T) {
	fs, bag := singleDiag(t, "/home/user/game/cat.gs", "var x;\nonflag {\n    meow;\n}\n", 20, 24)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowNotes: true})
	want := strings.Join([]string{
		"cat.gs:3:5: ERROR SEM3006: undefined function: meow",
		"2 | onflag {",
		"3 |     meow;",
		"  |     ^~~~",
		"  note: cat.gs:1:1: declared here",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrettyWideCharacters(t *testing.T) {
	// "猫" is two columns wide and three bytes long
	content := "say \"猫\"; meow;\n"
	start := uint32(strings.Index(content, "meow"))
	fs, bag := singleDiag(t, "/home/user/game/cat.gs", content, start, start+4)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	caret := lines[2]
	if got, want := strings.Index(caret, "^"), len("1 | ")+len(`say "`)+2+len(`"; `); got != want {
		t.Fatalf("caret at %d, want %d:\n%s", got, want, buf.String())
	}
}

func TestPrettyPathModes(t *testing.T) {
	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"auto", PathModeAuto, "src/cat.gs:1:1:"},
		{"relative", PathModeRelative, "src/cat.gs:1:1:"},
		{"basename", PathModeBasename, "cat.gs:1:1:"},
		{"absolute", PathModeAbsolute, "/home/user/game/src/cat.gs:1:1:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, bag := singleDiag(t, "/home/user/game/src/cat.gs", "meow;\n", 0, 4)
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			if !strings.HasPrefix(buf.String(), tt.want) {
				t.Fatalf("output %q does not start with %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrettyColor(t *testing.T) {
	fs, bag := singleDiag(t, "cat.gs", "meow;\n", 0, 4)
	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatal("plain output contains escape codes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatal("colored output has no escape codes")
	}
}

func TestJSONItems(t *testing.T) {
	fs, bag := singleDiag(t, "/home/user/game/cat.gs", "var x;\nonflag {\n    meow;\n}\n", 20, 24)
	bag.Add(diag.NewWarning(diag.SemaUnusedParam, source.Span{File: 0, Start: 4, End: 5}, "parameter 'x' is never used"))

	out := BuildDiagnosticsOutput(bag.Items(), fs, JSONOpts{IncludePositions: true, Max: 1, IncludeNotes: true})
	if out.Count != 1 || out.Warnings != 1 || out.Errors != 1 {
		t.Fatalf("counters = %d/%d/%d", out.Count, out.Warnings, out.Errors)
	}
	got := out.Diagnostics[0]
	want := DiagnosticJSON{
		Severity: "ERROR",
		Code:     "SEM3006",
		Message:  "undefined function: meow",
		Location: LocationJSON{File: "cat.gs", StartByte: 20, EndByte: 24, StartLine: 3, StartCol: 5, EndLine: 3, EndCol: 9},
		Notes: []NoteJSON{{
			Message:  "declared here",
			Location: LocationJSON{File: "cat.gs", StartByte: 0, EndByte: 3, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 4},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("diagnostic mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"count": 2`) {
		t.Fatalf("unexpected JSON:\n%s", buf.String())
	}
}
