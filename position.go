package jsonldlint

import "github.com/reoring/jsonldlint/internal/jsonast"

// Position is a byte range [StartOffset, EndOffset) of the input text.
type Position struct {
	StartOffset int `json:"startOffset"`
	EndOffset   int `json:"endOffset"`
}

// NewPosition converts an offset and length into a Position.
func NewPosition(offset, length int) Position {
	return Position{StartOffset: offset, EndOffset: offset + length}
}

// Contains reports whether offset falls inside p.
func (p Position) Contains(offset int) bool {
	return offset >= p.StartOffset && offset < p.EndOffset
}

func positionOf(n *jsonast.Node) Position { return NewPosition(n.Offset, n.Length) }
