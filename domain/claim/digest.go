package claim

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// DigestWords is the size of a Digest in 32-bit words.
const DigestWords = 8

// DigestBytes is the size of a Digest in bytes.
const DigestBytes = DigestWords * 4

// Digest is a fixed-size cryptographic hash value, stored as eight
// little-endian 32-bit words. The zero value is the well-known "empty"
// sentinel used for unset fields and empty assumption lists.
type Digest [DigestWords]uint32

// Digestible is implemented by every value that has a well-defined digest.
type Digestible interface {
	Digest() Digest
}

// Digest implements Digestible; a digest is its own digest.
func (d Digest) Digest() Digest {
	return d
}

// IsZero reports whether the digest is the all-zero sentinel.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Bytes returns the 32-byte little-endian-word encoding of the digest.
func (d Digest) Bytes() []byte {
	buf := make([]byte, DigestBytes)
	for i, w := range d {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

func (d Digest) String() string {
	return hex.EncodeToString(d.Bytes())
}

// DigestFromBytes builds a Digest from exactly 32 bytes.
func DigestFromBytes(b []byte) (Digest, error) {
	if len(b) != DigestBytes {
		return Digest{}, fmt.Errorf("digest must be %d bytes, got %d", DigestBytes, len(b))
	}
	var d Digest
	for i := range d {
		d[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return d, nil
}

// DigestFromHex builds a Digest from a 64-character hex string.
func DigestFromHex(s string) (Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid digest hex: %w", err)
	}
	return DigestFromBytes(b)
}

// HashBytes returns the SHA-256 digest of a byte string. This is the
// hash applied to journal contents.
func HashBytes(b []byte) Digest {
	sum := sha256.Sum256(b)
	d, _ := DigestFromBytes(sum[:])
	return d
}

// TaggedStruct hashes one node of the claim graph. The preimage is the
// digest of the tag string, followed by the digests of the down-tree
// fields, followed by the plain data fields as little-endian words,
// terminated by the down-field count as a little-endian uint16. Including
// the count makes preimages of different shapes non-overlapping.
func TaggedStruct(tag string, down []Digest, data []uint32) Digest {
	h := sha256.New()
	tagDigest := sha256.Sum256([]byte(tag))
	h.Write(tagDigest[:])
	for _, d := range down {
		h.Write(d.Bytes())
	}
	var word [4]byte
	for _, w := range data {
		binary.LittleEndian.PutUint32(word[:], w)
		h.Write(word[:])
	}
	var count [2]byte
	binary.LittleEndian.PutUint16(count[:], uint16(len(down)))
	h.Write(count[:])

	d, _ := DigestFromBytes(h.Sum(nil))
	return d
}
