package wireformat

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignUp(t *testing.T) {
	assert.Equal(t, 0, AlignUp(0, WordSize))
	assert.Equal(t, 4, AlignUp(1, WordSize))
	assert.Equal(t, 4, AlignUp(4, WordSize))
	assert.Equal(t, 8, AlignUp(5, WordSize))
}

func TestPaddingRoundTrip(t *testing.T) {
	// Every length in [0, 4k+3] must round-trip unchanged and leave the
	// channel on a word boundary.
	for length := 0; length <= 4*3+3; length++ {
		buf := NewWordBuffer()
		payload := bytes.Repeat([]byte{0xa5}, length)

		require.NoError(t, buf.WritePaddedBytes(payload))
		assert.Equal(t, AlignUp(length, WordSize), len(buf.Bytes()), "write length %d", length)

		got := make([]byte, length)
		require.NoError(t, buf.ReadPaddedBytes(got))
		assert.Equal(t, payload, got, "length %d", length)
		assert.Equal(t, 0, buf.Pos()%WordSize, "read position after length %d", length)
		assert.Equal(t, 0, buf.Len(), "padding fully consumed for length %d", length)
	}
}

func TestPaddingKeepsChannelInSync(t *testing.T) {
	buf := NewWordBuffer()
	require.NoError(t, buf.WritePaddedBytes([]byte("abc")))
	require.NoError(t, buf.WriteWords([]uint32{0x11223344}))

	head := make([]byte, 3)
	require.NoError(t, buf.ReadPaddedBytes(head))
	assert.Equal(t, []byte("abc"), head)

	// The word written after the unaligned bytes is still readable:
	// the padding byte was consumed, not handed to the next read.
	var word [1]uint32
	require.NoError(t, buf.ReadWords(word[:]))
	assert.Equal(t, uint32(0x11223344), word[0])
}

func TestWordBufferUnderrun(t *testing.T) {
	buf := NewWordBuffer()
	require.NoError(t, buf.WritePaddedBytes([]byte{1, 2}))

	long := make([]byte, 8)
	assert.ErrorIs(t, buf.ReadPaddedBytes(long), ErrUnexpectedEnd)

	var words [4]uint32
	assert.ErrorIs(t, buf.ReadWords(words[:]), ErrUnexpectedEnd)
}

func TestWordRoundTrip(t *testing.T) {
	buf := NewWordBuffer()
	in := []uint32{0, 1, 0xffffffff, 0xdeadbeef}
	require.NoError(t, buf.WriteWords(in))

	out := make([]uint32, len(in))
	require.NoError(t, buf.ReadWords(out))
	assert.Equal(t, in, out)
}
