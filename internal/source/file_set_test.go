package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.gs", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], val)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag to be set")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("cat.gs", []byte("var x;\nonflag {\n    meow;\n}\n"))

	start, end := fs.Resolve(Span{File: id, Start: 20, End: 24})
	if start != (LineCol{Line: 3, Col: 5}) {
		t.Errorf("start = %+v, want 3:5", start)
	}
	if end != (LineCol{Line: 3, Col: 9}) {
		t.Errorf("end = %+v, want 3:9", end)
	}

	file := fs.Get(id)
	if got := file.GetLine(3); got != "    meow;" {
		t.Errorf("GetLine(3) = %q", got)
	}
	if got := file.GetLine(42); got != "" {
		t.Errorf("GetLine(42) = %q, want empty", got)
	}
	if got := file.Text(Span{File: id, Start: 20, End: 24}); got != "meow" {
		t.Errorf("Text = %q, want meow", got)
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stage.gs")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFvar a;\r\nvar b;\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "var a;\nvar b;\n" {
		t.Errorf("content = %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b, want BOM and CRLF bits", file.Flags)
	}
	if got := fs.DisplayPath(file); got != "stage.gs" {
		t.Errorf("DisplayPath = %q, want stage.gs", got)
	}
	if _, ok := fs.GetByPath(path); !ok {
		t.Error("GetByPath did not find loaded file")
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.gs")); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Errorf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Errorf("Cover across files = %v, want %v", got, a)
	}
	if !a.Cover(b).Contains(a) {
		t.Error("cover must contain the original span")
	}
}
