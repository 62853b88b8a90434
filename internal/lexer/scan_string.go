package lexer

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"goboscript/internal/diag"
	"goboscript/internal/token"
)

// "..." с escape \n \t \r \" \\. Неизвестный escape репортим и оставляем как есть.
// Token.Value — раскрытая строка в NFC.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'

	var val strings.Builder
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '"':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp), Value: norm.NFC.String(val.String())}
		case '\\':
			esc := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				continue
			}
			switch e := lx.cursor.Bump(); e {
			case 'n':
				val.WriteByte('\n')
			case 't':
				val.WriteByte('\t')
			case 'r':
				val.WriteByte('\r')
			case '"', '\\':
				val.WriteByte(e)
			default:
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(esc), "unknown escape sequence")
				val.WriteByte('\\')
				val.WriteByte(e)
			}
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		default:
			val.WriteByte(lx.cursor.Bump())
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
