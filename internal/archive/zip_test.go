package archive

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestZipFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.sb3")
	z, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := z.WriteFile("a.svg", []byte("<svg/>")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := z.WriteFile("project.json", []byte(`{"targets":[]}`)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := z.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	got := map[string]string{}
	var order []string
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		got[f.Name] = string(data)
		order = append(order, f.Name)
	}
	want := map[string]string{"a.svg": "<svg/>", "project.json": `{"targets":[]}`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("contents mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a.svg", "project.json"}, order); diff != "" {
		t.Fatalf("entry order mismatch (-want +got):\n%s", diff)
	}
}

func TestZipFileCloseIdempotent(t *testing.T) {
	z, err := Create(filepath.Join(t.TempDir(), "x.sb3"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := z.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := z.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := z.WriteFile("late", nil); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("WriteFile after Close = %v, want os.ErrClosed", err)
	}
}

func TestZipFileDuplicateEntry(t *testing.T) {
	z, err := Create(filepath.Join(t.TempDir(), "x.sb3"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer z.Close()
	if err := z.WriteFile("a", []byte("1")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := z.WriteFile("a", []byte("2")); err == nil {
		t.Fatal("expected duplicate entry error")
	}
}

func TestCreateMissingDir(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "x.sb3"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Create = %v, want os.ErrNotExist", err)
	}
}
