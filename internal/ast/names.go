package ast

import "goboscript/internal/source"

// Name is one identifier occurrence. Text is NFC-normalised.
type Name struct {
	Text string
	Span source.Span
}

// Names is an ordered identifier list; position matters (parameters map
// to call arguments by index).
type Names []Name

func (ns Names) Texts() []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Text
	}
	return out
}

// Index returns the position of text in ns or -1.
func (ns Names) Index(text string) int {
	for i, n := range ns {
		if n.Text == text {
			return i
		}
	}
	return -1
}
