// Package textpos converts byte offsets into line and column positions.
package textpos

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// Index maps offsets of one text. Lines and columns are zero-based.
type Index struct {
	text  []byte
	lines []int // byte offset of the first byte of each line
}

// New indexes text.
func New(text []byte) *Index {
	lines := []int{0}
	for i, c := range text {
		if c == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &Index{text: text, lines: lines}
}

func (x *Index) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(x.text) {
		return len(x.text)
	}
	return offset
}

// Line returns the zero-based line containing offset.
func (x *Index) Line(offset int) int {
	offset = x.clamp(offset)
	return sort.Search(len(x.lines), func(i int) bool { return x.lines[i] > offset }) - 1
}

// Position returns the zero-based line and byte column of offset.
func (x *Index) Position(offset int) (line, col int) {
	offset = x.clamp(offset)
	line = x.Line(offset)
	return line, offset - x.lines[line]
}

// UTF16Position returns the zero-based line and UTF-16 code unit column of
// offset, as used by the Language Server Protocol.
func (x *Index) UTF16Position(offset int) (line, col int) {
	offset = x.clamp(offset)
	line = x.Line(offset)
	for i := x.lines[line]; i < offset; {
		r, size := utf8.DecodeRune(x.text[i:])
		i += size
		if r >= 0x10000 {
			col += 2
		} else {
			col++
		}
	}
	return line, col
}

// OffsetUTF16 is the inverse of UTF16Position. Out of range positions are
// clamped to the end of the line or text.
func (x *Index) OffsetUTF16(line, col int) int {
	if line < 0 {
		return 0
	}
	if line >= len(x.lines) {
		return len(x.text)
	}
	i := x.lines[line]
	end := len(x.text)
	if line+1 < len(x.lines) {
		end = x.lines[line+1] - 1
	}
	for n := 0; n < col && i < end; {
		r, size := utf8.DecodeRune(x.text[i:])
		n += len(utf16.Encode([]rune{r}))
		i += size
	}
	return i
}

// LineText returns the content of line without its terminator.
func (x *Index) LineText(line int) string {
	if line < 0 || line >= len(x.lines) {
		return ""
	}
	start := x.lines[line]
	end := len(x.text)
	if line+1 < len(x.lines) {
		end = x.lines[line+1] - 1
	}
	if end > start && x.text[end-1] == '\r' {
		end--
	}
	return string(x.text[start:end])
}
