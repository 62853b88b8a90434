package token

import (
	"goboscript/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind Kind
	Span source.Span
	Text string // exact source slice
	// Value is the decoded form: NFC identifiers, unescaped NFC strings.
	Value   string
	Leading []Trivia
}

// IsLiteral reports whether the token is a number or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwVar && t.Kind <= KwNot
}

// IsItemStarter reports whether the token can begin a top-level declaration.
func (t Token) IsItemStarter() bool {
	switch t.Kind {
	case KwVar, KwList, KwDef, KwWarp, KwNoWarp, KwOnFlag, KwOnKey, KwOnClick, KwOnBroadcast, KwOnClone:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
