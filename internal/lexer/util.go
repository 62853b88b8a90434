package lexer

import "unicode"

// классы ASCII-байтов; всё >= 0x80 решают rune-классификаторы
const (
	classIdentStart uint8 = 1 << iota
	classDigit
	classHex
)

var asciiClass = func() (t [128]uint8) {
	for b := 'a'; b <= 'z'; b++ {
		t[b] |= classIdentStart
	}
	for b := 'A'; b <= 'Z'; b++ {
		t[b] |= classIdentStart
	}
	t['_'] |= classIdentStart
	for b := '0'; b <= '9'; b++ {
		t[b] |= classDigit | classHex
	}
	for _, b := range "abcdefABCDEF" {
		t[b] |= classHex
	}
	return t
}()

func byteHas(b byte, class uint8) bool {
	return b < 128 && asciiClass[b]&class != 0
}

func isIdentStartByte(b byte) bool    { return byteHas(b, classIdentStart) }
func isIdentContinueByte(b byte) bool { return byteHas(b, classIdentStart|classDigit) }
func isDec(b byte) bool               { return byteHas(b, classDigit) }
func isHex(b byte) bool               { return byteHas(b, classHex) }

// Non-ASCII identifiers: letters start, marks and digits may follow.
func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// isNumberAfterDot reports a ".5"-style number at the cursor.
func (lx *Lexer) isNumberAfterDot() bool {
	dot, next, ok := lx.cursor.Peek2()
	return ok && dot == '.' && isDec(next)
}

// try2 consumes the two-byte operator ab when it is next.
func (lx *Lexer) try2(a, b byte) bool {
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == a && b1 == b {
		lx.cursor.Off += 2
		return true
	}
	return false
}
