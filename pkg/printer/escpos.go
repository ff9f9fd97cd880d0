package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// ESC/POS control bytes
const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

// Alignment
type Align byte

const (
	AlignLeft   Align = 0
	AlignCenter Align = 1
	AlignRight  Align = 2
)

// Character size, see GS !
type Size byte

const (
	SizeNormal Size = 0x00
	SizeDouble Size = 0x11
	SizeWide   Size = 0x10
	SizeTall   Size = 0x01
)

// Paper widths in characters for font A
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds an ESC/POS byte stream. Layout helpers count runes, not
// bytes, so accented product and client names keep the columns aligned.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a document for a paper of charWidth columns.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width58mm
	}
	d := &Document{width: charWidth}
	d.buf.Write([]byte{esc, '@'})
	return d
}

// Width is the number of columns per line
func (d *Document) Width() int {
	return d.width
}

func (d *Document) Feed(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(lf)
	}
	return d
}

func (d *Document) Align(a Align) *Document {
	d.buf.Write([]byte{esc, 'a', byte(a)})
	return d
}

func (d *Document) Bold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{esc, 'E', b})
	return d
}

func (d *Document) Size(s Size) *Document {
	d.buf.Write([]byte{gs, '!', byte(s)})
	return d
}

// Line writes s, cut to the paper width, followed by a line feed.
func (d *Document) Line(s string) *Document {
	d.buf.WriteString(Truncate(s, d.width))
	d.buf.WriteByte(lf)
	return d
}

// Rule prints a full-width line of char
func (d *Document) Rule(char rune) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(lf)
	return d
}

// Columns prints left flush-left and right flush-right on the same line.
// The left text is shortened when both do not fit.
func (d *Document) Columns(left, right string) *Document {
	room := d.width - utf8.RuneCountInString(right) - 1
	if room < 0 {
		room = 0
	}
	left = Truncate(left, room)
	pad := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if pad < 1 {
		pad = 1
	}
	d.buf.WriteString(left)
	d.buf.WriteString(strings.Repeat(" ", pad))
	d.buf.WriteString(right)
	d.buf.WriteByte(lf)
	return d
}

// Cut feeds past the tear bar and performs a partial cut.
func (d *Document) Cut() *Document {
	d.Feed(3)
	d.buf.Write([]byte{gs, 'V', 0x01})
	return d
}

// Bytes returns the accumulated stream
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
