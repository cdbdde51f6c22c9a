package risc0

import (
	"github.com/bouewnm/risc0/domain/claim"
	"github.com/bouewnm/risc0/domain/ports"
)

// defaultEnv backs the package-level convenience functions. Guest
// execution is single-threaded, so a plain variable suffices.
var defaultEnv *Env

// Install binds the package-level convenience functions to a new Env on
// the given host and returns it. Call it once at guest start.
func Install(host ports.Host, opts ...Option) (*Env, error) {
	e, err := NewEnv(host, opts...)
	if err != nil {
		return nil, err
	}
	defaultEnv = e
	return e, nil
}

// Default returns the installed Env. It panics if Install has not been
// called.
func Default() *Env {
	if defaultEnv == nil {
		panic("risc0: no environment installed")
	}
	return defaultEnv
}

// Read reads one structured value from standard input.
func Read[T any]() (T, error) {
	var v T
	err := Default().Stdin().Decode(&v)
	return v, err
}

// ReadSlice fills buf with raw bytes from standard input, bypassing the
// structured codec. It panics if the stream ends first.
func ReadSlice(buf []byte) {
	Default().Stdin().ReadSlice(buf)
}

// Write serializes v to standard output. The data is private: available
// to the prover, excluded from the receipt.
func Write(v any) error {
	return Default().Stdout().Encode(v)
}

// WriteSlice writes raw bytes to standard output.
func WriteSlice(buf []byte) {
	Default().Stdout().WriteSlice(buf)
}

// Commit serializes v to the journal. Journal data is public: it is
// hashed into the receipt and available to any verifier.
func Commit(v any) error {
	return Default().Journal().Encode(v)
}

// CommitSlice writes raw bytes to the journal.
func CommitSlice(buf []byte) {
	Default().Journal().WriteSlice(buf)
}

// Verify calls Env.Verify on the installed environment.
func Verify(imageID claim.Digest, journal []byte) error {
	return Default().Verify(imageID, journal)
}

// VerifyIntegrity calls Env.VerifyIntegrity on the installed environment.
func VerifyIntegrity(c *claim.ReceiptClaim) error {
	return Default().VerifyIntegrity(c)
}

// AssumptionsDigest returns the running digest of the assumptions folded
// into the current segment so far.
func AssumptionsDigest() claim.Digest {
	return Default().AssumptionsDigest()
}

// Exit terminates execution with the given user exit code. Use 0 for
// success. It does not return.
func Exit(code uint8) {
	Default().Exit(code)
}

// Pause suspends execution with the given user exit code; the program
// continues in a fresh segment when the host resumes it.
func Pause(code uint8) {
	Default().Pause(code)
}

// InputDigest returns the input commitment digest.
func InputDigest() claim.Digest {
	return Default().InputDigest()
}

// CycleCount returns the host-reported cycle count. Informational only.
func CycleCount() uint64 {
	return Default().CycleCount()
}

// Log prints a message to the host debug console.
func Log(msg string) {
	Default().Log(msg)
}
