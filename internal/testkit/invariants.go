package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"goboscript/internal/ast"
	"goboscript/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed unit:
// 1) file.Span lies within the content of sf
// 2) every item span is non-empty and fully contained in file.Span
// 3) items appear in source order without overlapping
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.Start > f.Span.End || f.Span.End > lenContent {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, lenContent)
	}
	// пустой юнит без items допустим
	if len(f.Items) > 0 && f.Span.End == f.Span.Start {
		return fmt.Errorf("file with %d items has an empty span", len(f.Items))
	}

	var prevEnd uint32
	for i, it := range f.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		sp := item.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty item span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("item span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if !f.Span.Contains(sp) {
			return fmt.Errorf("item span %v is outside file span %v", sp, f.Span)
		}
		if i > 0 && sp.Start < prevEnd {
			return fmt.Errorf("item %d span %v overlaps the previous item", i, sp)
		}
		prevEnd = sp.End
	}
	return nil
}
