package fuzztests

import (
	"context"
	"testing"
	"time"

	"goboscript/internal/ast"
	"goboscript/internal/diag"
	"goboscript/internal/lexer"
	"goboscript/internal/parser"
	"goboscript/internal/source"
	"goboscript/internal/symbols"
	"goboscript/internal/testkit"
)

// parseTimeout is the maximum time allowed for one input. Anything slower
// means error recovery is looping.
const parseTimeout = 5 * time.Second

func parseAndResolve(input []byte) error {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("fuzz.gs", input))

	bag := diag.NewBag(128)
	reporter := diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs, lexer.New(file, lexer.Options{Reporter: reporter}), builder, parser.Options{
		Reporter:  reporter,
		MaxErrors: 128,
	})
	if bag.HasErrors() {
		return nil
	}
	if err := testkit.CheckSpanInvariants(builder, res.File, file); err != nil {
		return err
	}
	_ = symbols.Resolve(builder, res.File, reporter)
	return nil
}

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if err := parseAndResolve(clampInput(input)); err != nil {
			t.Fatalf("input %q: %v", truncateForLog(input, 200), err)
		}
	})
}

// FuzzParserNoHang tests that the parser terminates on any input.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// recovery edge cases
	f.Add([]byte("onflag { x = 1\ny = 2; }"))
	f.Add([]byte("def f a, { }"))
	f.Add([]byte("onflag { { { { } } } }"))
	f.Add([]byte("onflag { repeat { } }"))
	f.Add([]byte("list l = [1, 2"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = parseAndResolve(input)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
