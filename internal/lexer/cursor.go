package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"goboscript/internal/source"
)

// Cursor walks the bytes of one unit. Off is the offset of the next unread
// byte; it never passes the end of the content.
type Cursor struct {
	src  []byte
	file source.FileID
	end  uint32
	Off  uint32
}

// NewCursor positions a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("unit %s is too large: %w", f.Path, err))
	}
	return Cursor{src: f.Content, file: f.ID, end: end}
}

func (c *Cursor) EOF() bool {
	return c.Off >= c.end
}

// Peek returns the next byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.Off]
}

// Peek2 returns the next two bytes; ok is false when fewer than two remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.EOF() || c.end-c.Off < 2 {
		return 0, 0, false
	}
	return c.src[c.Off], c.src[c.Off+1], true
}

// Bump consumes one byte and returns it; 0 at EOF.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.src[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte only when it equals b.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.src[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// PeekRune decodes the rune at Off. size is 0 at EOF.
func (c *Cursor) PeekRune() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	if b := c.src[c.Off]; b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.src[c.Off:c.end])
}

// BumpRune consumes one rune (one byte for invalid UTF-8).
func (c *Cursor) BumpRune() {
	_, size := c.PeekRune()
	step, err := safecast.Conv[uint32](size)
	if err != nil {
		panic(fmt.Errorf("rune size overflow: %w", err))
	}
	c.Off += step
}

// Mark is a saved offset for SpanFrom and Reset.
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom is the span between m and the current offset.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.Off}
}

// Reset rewinds to m.
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}
