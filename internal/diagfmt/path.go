package diagfmt

import (
	"path/filepath"

	"goboscript/internal/source"
)

func formatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(filepath.FromSlash(f.Path)); err == nil && f.Flags&source.FileVirtual == 0 {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative, PathModeAuto:
		return fs.DisplayPath(f)
	case PathModeBasename:
		return filepath.Base(filepath.FromSlash(f.Path))
	}
	return f.Path
}
