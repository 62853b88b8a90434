package lexer

import (
	"strings"

	"goboscript/internal/diag"
	"goboscript/internal/token"
)

// Поддержка: 0, 123, 0b..., 0o..., 0x..., 1.0, .5, 1e-3, 1.0e+10, разделитель '_'.
// Token.Value — текст без '_'; неверные формы репортим и отдаём Invalid.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	emit := func() token.Token {
		sp := lx.cursor.SpanFrom(start)
		text := lx.text(sp)
		return token.Token{Kind: kind, Span: sp, Text: text, Value: strings.ReplaceAll(text, "_", "")}
	}
	bad := func(msg string) token.Token {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, msg)
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	digits := func(ok func(byte) bool) int {
		n := 0
		for {
			b := lx.cursor.Peek()
			if b == '_' {
				lx.cursor.Bump()
				continue
			}
			if !ok(b) {
				return n
			}
			lx.cursor.Bump()
			n++
		}
	}

	if lx.cursor.Peek() == '0' {
		if _, b1, ok := lx.cursor.Peek2(); ok {
			var class func(byte) bool
			switch b1 {
			case 'b', 'B':
				class = func(b byte) bool { return b == '0' || b == '1' }
			case 'o', 'O':
				class = func(b byte) bool { return b >= '0' && b <= '7' }
			case 'x', 'X':
				class = isHex
			}
			if class != nil {
				lx.cursor.Bump()
				lx.cursor.Bump()
				if digits(class) == 0 {
					return bad("missing digits after base prefix")
				}
				if isIdentContinueByte(lx.cursor.Peek()) {
					lx.cursor.Bump()
					return bad("invalid digit in number literal")
				}
				return emit()
			}
		}
	}

	digits(isDec)

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		digits(isDec)
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if digits(isDec) == 0 {
			return bad("expected digit after exponent")
		}
	}

	if isIdentStartByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
		return bad("invalid suffix on number literal")
	}
	return emit()
}
