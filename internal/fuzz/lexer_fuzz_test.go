package fuzztests

import (
	"testing"

	"goboscript/internal/diag"
	"goboscript/internal/lexer"
	"goboscript/internal/source"
	"goboscript/internal/token"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.gs", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		var prevEnd uint32
		for steps := 0; ; steps++ {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			if tok.Span.Start < prevEnd || tok.Span.End > uint32(len(input)) {
				t.Fatalf("token %v has span %v after offset %d", tok.Kind, tok.Span, prevEnd)
			}
			// каждый токен съедает хотя бы байт
			if steps > len(input) {
				t.Fatalf("lexer produced more tokens than input bytes")
			}
			prevEnd = tok.Span.End
		}
	})
}
