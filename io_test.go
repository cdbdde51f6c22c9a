package risc0

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bouewnm/risc0/domain/ports"
	"github.com/bouewnm/risc0/internal/testhost"
	"github.com/bouewnm/risc0/wireformat"
)

type guestInput struct {
	Name  string `json:"name"`
	Round uint32 `json:"round"`
}

// encodeJSON renders a value the way the default codec puts it on the
// wire: one little-endian length word, the JSON bytes, zero padding up
// to the next word boundary.
func encodeJSON(t *testing.T, v any) []byte {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	buf := make([]byte, wireformat.WordSize, wireformat.WordSize+wireformat.AlignUp(len(payload), wireformat.WordSize))
	binary.LittleEndian.PutUint32(buf, uint32(len(payload)))
	buf = append(buf, payload...)
	return append(buf, make([]byte, wireformat.PadLen(len(payload)))...)
}

func TestReadSliceRetriesShortReads(t *testing.T) {
	host := testhost.New()
	host.ProvideInput([]byte("hello, guest"))
	host.SetReadChunk(3)

	env, err := NewEnv(host)
	require.NoError(t, err)

	buf := make([]byte, 12)
	env.Stdin().ReadSlice(buf)
	assert.Equal(t, "hello, guest", string(buf))
}

func TestReadSliceUnderrunPanics(t *testing.T) {
	host := testhost.New()
	host.ProvideInput([]byte("short"))

	env, err := NewEnv(host)
	require.NoError(t, err)

	assert.Panics(t, func() {
		env.Stdin().ReadSlice(make([]byte, 6))
	})
}

func TestStdinIsAnIOReader(t *testing.T) {
	host := testhost.New()
	host.ProvideInput([]byte("stream"))
	host.SetReadChunk(4)

	env, err := NewEnv(host)
	require.NoError(t, err)

	// The adapter surfaces the host's short reads as-is and reports the
	// end of input as io.EOF, so it composes with the standard library.
	data, err := io.ReadAll(env.Stdin())
	require.NoError(t, err)
	assert.Equal(t, "stream", string(data))

	n, err := env.Stdin().Read(make([]byte, 1))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeStructuredInput(t *testing.T) {
	host := testhost.New()
	want := guestInput{Name: "fib", Round: 7}
	host.ProvideInput(encodeJSON(t, want))
	host.SetReadChunk(5)

	env, err := NewEnv(host)
	require.NoError(t, err)

	var got guestInput
	require.NoError(t, env.Stdin().Decode(&got))
	assert.Equal(t, want, got)
}

func TestDecodeTruncatedInput(t *testing.T) {
	host := testhost.New()
	full := encodeJSON(t, guestInput{Name: "fib", Round: 7})
	host.ProvideInput(full[:len(full)-6])

	env, err := NewEnv(host)
	require.NoError(t, err)

	var got guestInput
	err = env.Stdin().Decode(&got)
	assert.ErrorIs(t, err, wireformat.ErrUnexpectedEnd)
}

func TestEncodeStructuredOutput(t *testing.T) {
	host := testhost.New()
	env, err := NewEnv(host)
	require.NoError(t, err)

	value := guestInput{Name: "fib", Round: 7}
	require.NoError(t, env.Stdout().Encode(value))
	assert.Equal(t, encodeJSON(t, value), host.Written(ports.Stdout))
}

func TestPaddedBytesKeepChannelAligned(t *testing.T) {
	host := testhost.New()

	// Payload of 5 bytes followed by one word: the reader must consume
	// the 3 padding bytes so the word read starts on a boundary.
	input := append([]byte{'a', 'b', 'c', 'd', 'e'}, 0, 0, 0)
	input = binary.LittleEndian.AppendUint32(input, 0xcafef00d)
	host.ProvideInput(input)

	env, err := NewEnv(host)
	require.NoError(t, err)
	in := env.Stdin()

	payload := make([]byte, 5)
	require.NoError(t, in.ReadPaddedBytes(payload))
	assert.Equal(t, "abcde", string(payload))

	word := make([]uint32, 1)
	require.NoError(t, in.ReadWords(word))
	assert.Equal(t, uint32(0xcafef00d), word[0])
}

func TestWritePaddedBytesZeroFills(t *testing.T) {
	host := testhost.New()
	env, err := NewEnv(host)
	require.NoError(t, err)

	require.NoError(t, env.Stdout().WritePaddedBytes([]byte("abcde")))
	assert.Equal(t, []byte{'a', 'b', 'c', 'd', 'e', 0, 0, 0}, host.Written(ports.Stdout))
}

func TestWriteWordsLittleEndian(t *testing.T) {
	host := testhost.New()
	env, err := NewEnv(host)
	require.NoError(t, err)

	require.NoError(t, env.Stderr().WriteWords([]uint32{0x04030201}))
	assert.Equal(t, []byte{1, 2, 3, 4}, host.Written(ports.Stderr))
}

func TestWriterHookSeesEveryWrite(t *testing.T) {
	host := testhost.New()
	env, err := NewEnv(host)
	require.NoError(t, err)

	var seen []byte
	w := env.Writer(8, func(b []byte) { seen = append(seen, b...) })

	n, err := w.Write([]byte("one"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, w.WritePaddedBytes([]byte("two")))

	// The hook observes the padding too, exactly what the host received.
	assert.Equal(t, host.Written(8), seen)
	assert.Equal(t, "one"+"two\x00", string(seen))
}

func TestCustomCodecOption(t *testing.T) {
	host := testhost.New()
	env, err := NewEnv(host, WithCodec(wireformat.JSONCodec{}))
	require.NoError(t, err)

	value := guestInput{Name: "fib", Round: 1}
	require.NoError(t, env.Stdout().Encode(value))
	assert.Equal(t, encodeJSON(t, value), host.Written(ports.Stdout))
}
