package risc0

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bouewnm/risc0/domain/ports"
	"github.com/bouewnm/risc0/wireformat"
)

// Reader is the read capability of a host channel: the structured decode
// path, the raw slice path, and the word-level channel it rides on.
type Reader interface {
	io.Reader
	wireformat.WordReader

	// Decode reads one structured value. An end of stream before the
	// value is complete is reported as wireformat.ErrUnexpectedEnd.
	Decode(v any) error

	// ReadSlice fills buf with raw bytes. A short stream here is a
	// length-contract violation with no recovery path, so it panics.
	ReadSlice(buf []byte)
}

// Writer is the write capability of a host channel.
type Writer interface {
	io.Writer
	wireformat.WordWriter

	// Encode writes one structured value.
	Encode(v any) error

	// WriteSlice writes raw bytes.
	WriteSlice(buf []byte)
}

// FdReader reads from a numbered host channel.
type FdReader struct {
	fd    uint32
	host  ports.Host
	codec wireformat.Codec
}

// NewFdReader returns a reader bound to the given file descriptor. A nil
// codec selects the default JSON codec.
func NewFdReader(host ports.Host, fd uint32, codec wireformat.Codec) *FdReader {
	if codec == nil {
		codec = wireformat.JSONCodec{}
	}
	return &FdReader{fd: fd, host: host, codec: codec}
}

// Fd returns the channel number the reader is bound to.
func (r *FdReader) Fd() uint32 {
	return r.fd
}

// readBytesAll retries short reads until buf is full or the stream ends,
// returning the number of bytes read.
func (r *FdReader) readBytesAll(buf []byte) int {
	total := 0
	for len(buf) > 0 {
		n := r.host.Read(r.fd, buf)
		if n == 0 {
			break
		}
		total += n
		buf = buf[n:]
	}
	return total
}

// Read implements io.Reader. Short reads are surfaced to the caller.
func (r *FdReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := r.host.Read(r.fd, p)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// ReadSlice implements Reader.
func (r *FdReader) ReadSlice(buf []byte) {
	if got := r.readBytesAll(buf); got != len(buf) {
		panic(fmt.Sprintf("risc0: read %d of %d bytes on fd %d: %v",
			got, len(buf), r.fd, wireformat.ErrUnexpectedEnd))
	}
}

// ReadWords implements wireformat.WordReader via the aligned bulk
// transfer host call.
func (r *FdReader) ReadWords(words []uint32) error {
	if len(words) == 0 {
		return nil
	}
	if n := r.host.ReadWords(r.fd, words); n != len(words)*wireformat.WordSize {
		return wireformat.ErrUnexpectedEnd
	}
	return nil
}

// ReadPaddedBytes implements wireformat.WordReader. The padding after the
// payload is consumed and discarded, keeping the channel word-aligned for
// whatever reads next.
func (r *FdReader) ReadPaddedBytes(b []byte) error {
	if r.readBytesAll(b) != len(b) {
		return wireformat.ErrUnexpectedEnd
	}
	if pad := wireformat.PadLen(len(b)); pad > 0 {
		var scratch [wireformat.WordSize]byte
		if r.readBytesAll(scratch[:pad]) != pad {
			return wireformat.ErrUnexpectedEnd
		}
	}
	return nil
}

// Decode implements Reader.
func (r *FdReader) Decode(v any) error {
	return r.codec.Decode(r, v)
}

// WriteHook is invoked with every byte buffer written to a channel, in
// write order. The journal channel uses it to feed the running journal
// digest without duplicating the write path.
type WriteHook func(b []byte)

// FdWriter writes to a numbered host channel.
type FdWriter struct {
	fd    uint32
	host  ports.Host
	codec wireformat.Codec
	hook  WriteHook
}

// NewFdWriter returns a writer bound to the given file descriptor. A nil
// codec selects the default JSON codec; a nil hook is skipped.
func NewFdWriter(host ports.Host, fd uint32, codec wireformat.Codec, hook WriteHook) *FdWriter {
	if codec == nil {
		codec = wireformat.JSONCodec{}
	}
	return &FdWriter{fd: fd, host: host, codec: codec, hook: hook}
}

// Fd returns the channel number the writer is bound to.
func (w *FdWriter) Fd() uint32 {
	return w.fd
}

func (w *FdWriter) writeBytes(b []byte) {
	w.host.Write(w.fd, b)
	if w.hook != nil {
		w.hook(b)
	}
}

// Write implements io.Writer. Host writes are fire-and-forget, so the
// full length is always reported.
func (w *FdWriter) Write(p []byte) (int, error) {
	w.writeBytes(p)
	return len(p), nil
}

// WriteSlice implements Writer.
func (w *FdWriter) WriteSlice(buf []byte) {
	w.writeBytes(buf)
}

// WriteWords implements wireformat.WordWriter.
func (w *FdWriter) WriteWords(words []uint32) error {
	w.writeBytes(wordsToBytes(words))
	return nil
}

// WritePaddedBytes implements wireformat.WordWriter.
func (w *FdWriter) WritePaddedBytes(b []byte) error {
	w.writeBytes(b)
	if pad := wireformat.PadLen(len(b)); pad > 0 {
		var zeros [wireformat.WordSize]byte
		w.writeBytes(zeros[:pad])
	}
	return nil
}

// Encode implements Writer.
func (w *FdWriter) Encode(v any) error {
	return w.codec.Encode(w, v)
}

func wordsToBytes(words []uint32) []byte {
	buf := make([]byte, len(words)*wireformat.WordSize)
	for i, word := range words {
		binary.LittleEndian.PutUint32(buf[i*wireformat.WordSize:], word)
	}
	return buf
}

// Stdin returns a reader for the private standard input channel.
func (e *Env) Stdin() *FdReader {
	return NewFdReader(e.host, ports.Stdin, e.codec)
}

// Stdout returns a writer for the private standard output channel. Data
// written here is visible to host-local tooling but excluded from the
// receipt.
func (e *Env) Stdout() *FdWriter {
	return NewFdWriter(e.host, ports.Stdout, e.codec, nil)
}

// Stderr returns a writer for the private standard error channel, with
// the same visibility as Stdout.
func (e *Env) Stderr() *FdWriter {
	return NewFdWriter(e.host, ports.Stderr, e.codec, nil)
}

// Journal returns a writer for the journal channel. Every byte written
// reaches the host and the running journal digest, and becomes part of
// the public receipt at segment end.
func (e *Env) Journal() *FdWriter {
	return NewFdWriter(e.host, ports.Journal, e.codec, e.journalHook)
}

// journalHook feeds journal writes into the running hasher under the
// context lock.
func (e *Env) journalHook(b []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		panic("risc0: journal write after segment finalized")
	}
	e.journalBytes += len(b)
	if e.limits.MaxJournalBytes > 0 && e.journalBytes > e.limits.MaxJournalBytes {
		panic(fmt.Sprintf("risc0: journal size limit of %d bytes exceeded", e.limits.MaxJournalBytes))
	}
	e.hasher.Write(b)
}

// Reader returns a reader for an arbitrary channel number. Reusing one of
// the reserved numbers in the ports package is discouraged.
func (e *Env) Reader(fd uint32) *FdReader {
	return NewFdReader(e.host, fd, e.codec)
}

// Writer returns a writer for an arbitrary channel number with an
// optional per-write hook. Reusing one of the reserved numbers in the
// ports package is discouraged.
func (e *Env) Writer(fd uint32, hook WriteHook) *FdWriter {
	return NewFdWriter(e.host, fd, e.codec, hook)
}
