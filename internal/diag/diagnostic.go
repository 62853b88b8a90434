package diag

import (
	"goboscript/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single compiler finding. Parse failures and semantic
// findings share this shape and are told apart by Code.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// IsParse reports whether the diagnostic came from the lexer or parser.
func (d Diagnostic) IsParse() bool {
	return d.Code.IsParse()
}
