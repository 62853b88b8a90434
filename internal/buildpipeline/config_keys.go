package buildpipeline

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"goboscript/internal/diag"
	"goboscript/internal/project"
	"goboscript/internal/source"
)

// unknownKeyWarnings turns the keys goboscript.toml does not define into
// warnings pointing at the config file. The file joins fs after the units,
// so unit FileIDs stay dense.
func unknownKeyWarnings(fs *source.FileSet, cfg project.LoadedConfig) []diag.Diagnostic {
	if len(cfg.Unknown) == 0 {
		return nil
	}
	id, err := fs.Load(cfg.Path)
	if err != nil {
		// удалён между LoadConfig и сборкой
		id = fs.AddVirtual(project.ConfigFileName, nil)
	}
	f := fs.Get(id)
	out := make([]diag.Diagnostic, 0, len(cfg.Unknown))
	for _, key := range cfg.Unknown {
		out = append(out, diag.NewWarning(diag.CfgUnknownKey, keySpan(f, key),
			fmt.Sprintf("unknown key in %s: %s", project.ConfigFileName, key)))
	}
	return out
}

// keySpan finds the first line that starts with the last segment of key.
// The whole-file head is the fallback.
func keySpan(f *source.File, key string) source.Span {
	name := key[strings.LastIndexByte(key, '.')+1:]
	offset := 0
	for line := range strings.SplitAfterSeq(string(f.Content), "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, name) {
			start, err1 := safecast.Conv[uint32](offset + len(line) - len(trimmed))
			end, err2 := safecast.Conv[uint32](offset + len(line) - len(trimmed) + len(name))
			if err1 != nil || err2 != nil {
				break
			}
			return source.Span{File: f.ID, Start: start, End: end}
		}
		offset += len(line)
	}
	return source.Span{File: f.ID}
}
