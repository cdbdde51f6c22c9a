package wireformat

import (
	"encoding/json"
	"fmt"
)

// Codec is the contract of the structured-serialization collaborator: a
// byte-stream codec carried over a word-oriented channel. Implementations
// must produce a whole number of words so that raw reads and structured
// reads can be interleaved on one channel.
type Codec interface {
	Encode(w WordWriter, v any) error
	Decode(r WordReader, v any) error
}

// JSONCodec carries values as a one-word byte length followed by the
// JSON encoding padded to a word boundary.
type JSONCodec struct{}

// Encode implements Codec.
func (JSONCodec) Encode(w WordWriter, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	if err := w.WriteWords([]uint32{uint32(len(data))}); err != nil {
		return err
	}
	return w.WritePaddedBytes(data)
}

// Decode implements Codec.
func (JSONCodec) Decode(r WordReader, v any) error {
	var length [1]uint32
	if err := r.ReadWords(length[:]); err != nil {
		return err
	}
	data := make([]byte, length[0])
	if err := r.ReadPaddedBytes(data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	return nil
}
