package textpos

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndex_Position(t *testing.T) {
	x := New([]byte("ab\ncd\r\nef"))
	line, col := x.Position(0)
	require.Equal(t, 0, line)
	require.Equal(t, 0, col)

	line, col = x.Position(4)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	line, col = x.Position(7)
	require.Equal(t, 2, line)
	require.Equal(t, 0, col)

	require.Equal(t, "cd", x.LineText(1))
	require.Equal(t, "ef", x.LineText(2))
	require.Equal(t, "", x.LineText(9))
}

func TestIndex_UTF16(t *testing.T) {
	// "é" is 2 bytes / 1 unit, "😀" is 4 bytes / 2 units.
	text := []byte("{\"é😀\": 1}")
	x := New(text)
	one := len(text) - 2
	line, col := x.UTF16Position(one)
	require.Equal(t, 0, line)
	require.Equal(t, 8, col)
	require.Equal(t, one, x.OffsetUTF16(0, 8))
	require.Equal(t, len(text), x.OffsetUTF16(0, 100))
	require.Equal(t, len(text), x.OffsetUTF16(5, 0))
}
