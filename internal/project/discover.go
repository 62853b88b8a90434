package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// SourceExt is the extension of every unit.
	SourceExt = ".gs"
	// StageFile is the unit compiled as the stage.
	StageFile = "stage" + SourceExt
	// StageName is the target name Scratch requires for the stage.
	StageName = "Stage"
	// ArchiveExt is the extension of the build output.
	ArchiveExt = ".sb3"
)

// UnitFile is one discovered source file.
type UnitFile struct {
	Name string // sprite name, or StageName
	Path string
}

// Layout is the result of scanning a project directory.
type Layout struct {
	Dir     string
	Stage   *UnitFile // nil when stage.gs is missing
	Sprites []UnitFile
}

// Discover lists the units of dir: stage.gs and every other *.gs file as a
// sprite, sprites sorted by name so builds are reproducible.
func Discover(dir string) (Layout, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Layout{}, fmt.Errorf("read project dir: %w", err)
	}
	layout := Layout{Dir: dir}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), SourceExt) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if e.Name() == StageFile {
			layout.Stage = &UnitFile{Name: StageName, Path: path}
			continue
		}
		layout.Sprites = append(layout.Sprites, UnitFile{
			Name: strings.TrimSuffix(e.Name(), SourceExt),
			Path: path,
		})
	}
	sort.Slice(layout.Sprites, func(i, j int) bool {
		return layout.Sprites[i].Name < layout.Sprites[j].Name
	})
	return layout, nil
}

// Files returns every unit path, stage first.
func (l Layout) Files() []string {
	out := make([]string, 0, len(l.Sprites)+1)
	if l.Stage != nil {
		out = append(out, l.Stage.Path)
	}
	for _, s := range l.Sprites {
		out = append(out, s.Path)
	}
	return out
}

// DefaultOutput is <dir>/<basename(dir)>.sb3.
func DefaultOutput(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return filepath.Join(dir, filepath.Base(abs)+ArchiveExt)
}
