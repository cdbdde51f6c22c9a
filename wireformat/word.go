// Package wireformat defines the word-aligned binary contract for all
// host/guest data exchange: the word/byte padding rules, the reader and
// writer capabilities over a word-oriented channel, and the JSON wire
// representation of receipt claims used by host-side tooling. These
// rules are part of the ABI and must remain stable.
package wireformat

import (
	"encoding/binary"
	"errors"
)

// WordSize is the channel transfer unit in bytes.
const WordSize = 4

// DigestWords is the size of a digest in words, fixed by the host ABI.
const DigestWords = 8

// ErrUnexpectedEnd reports that the channel ended before a structured
// read was satisfied.
var ErrUnexpectedEnd = errors.New("wireformat: unexpected end of stream")

// AlignUp rounds n up to the next multiple of align. align must be a
// power of two.
func AlignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// PadLen returns the number of zero padding bytes needed after n bytes
// to reach the next word boundary.
func PadLen(n int) int {
	return AlignUp(n, WordSize) - n
}

// WordWriter is the write capability of a word-oriented channel.
type WordWriter interface {
	// WriteWords transfers whole words.
	WriteWords(words []uint32) error

	// WritePaddedBytes transfers the exact bytes followed by zero
	// padding up to the next word boundary.
	WritePaddedBytes(b []byte) error
}

// WordReader is the read capability of a word-oriented channel.
type WordReader interface {
	// ReadWords fills words entirely or fails with ErrUnexpectedEnd.
	ReadWords(words []uint32) error

	// ReadPaddedBytes fills b entirely, then consumes and discards the
	// padding written by WritePaddedBytes. Skipping the padding would
	// desynchronize every subsequent read on the channel.
	ReadPaddedBytes(b []byte) error
}

// WordBuffer is an in-memory word channel implementing both WordReader
// and WordWriter. Reads consume what writes produced, in order.
type WordBuffer struct {
	buf []byte
	pos int
}

// NewWordBuffer returns an empty in-memory word channel.
func NewWordBuffer() *WordBuffer {
	return &WordBuffer{}
}

// Len returns the number of unread bytes in the buffer.
func (b *WordBuffer) Len() int {
	return len(b.buf) - b.pos
}

// Pos returns the read position in bytes from the start of the stream.
func (b *WordBuffer) Pos() int {
	return b.pos
}

// Bytes returns everything written so far, including padding.
func (b *WordBuffer) Bytes() []byte {
	return b.buf
}

// WriteWords implements WordWriter.
func (b *WordBuffer) WriteWords(words []uint32) error {
	for _, w := range words {
		var enc [WordSize]byte
		binary.LittleEndian.PutUint32(enc[:], w)
		b.buf = append(b.buf, enc[:]...)
	}
	return nil
}

// WritePaddedBytes implements WordWriter.
func (b *WordBuffer) WritePaddedBytes(p []byte) error {
	b.buf = append(b.buf, p...)
	for i := 0; i < PadLen(len(p)); i++ {
		b.buf = append(b.buf, 0)
	}
	return nil
}

// ReadWords implements WordReader.
func (b *WordBuffer) ReadWords(words []uint32) error {
	n := len(words) * WordSize
	if b.Len() < n {
		return ErrUnexpectedEnd
	}
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b.buf[b.pos+i*WordSize:])
	}
	b.pos += n
	return nil
}

// ReadPaddedBytes implements WordReader.
func (b *WordBuffer) ReadPaddedBytes(p []byte) error {
	n := AlignUp(len(p), WordSize)
	if b.Len() < n {
		return ErrUnexpectedEnd
	}
	copy(p, b.buf[b.pos:])
	b.pos += n
	return nil
}
