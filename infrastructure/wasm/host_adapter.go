//go:build wasip1

// Package wasm provides the infrastructure adapter that binds the guest
// ABI to the real host via wasm imports. Outside the zkVM a stub with the
// same shape keeps the package compilable; tests inject an in-memory
// host instead.
package wasm

import (
	"runtime"
	"unsafe"

	"github.com/bouewnm/risc0/domain/claim"
	"github.com/bouewnm/risc0/domain/ports"
)

// Host function signatures, one per ABI entry point. Pointer arguments
// are guest linear-memory addresses.
//
//go:wasmimport risc0_host sys_read
//nolint:revive // intentional snake_case to match the import convention
func sys_read(fd, ptr, nbytes uint32) uint32

//go:wasmimport risc0_host sys_read_words
func sys_read_words(fd, ptr, nwords uint32) uint32

//go:wasmimport risc0_host sys_write
func sys_write(fd, ptr, nbytes uint32)

// sys_call packs the two return words as (a0 << 32) | a1.
//
//go:wasmimport risc0_host sys_call
func sys_call(namePtr, nameLen, toPtr, toLen, fromPtr, fromWords uint32) uint64

// sys_verify writes nine words at outPtr: the post-state digest followed
// by the raw exit code word.
//
//go:wasmimport risc0_host sys_verify
func sys_verify(imageIDPtr, journalDigestPtr, outPtr uint32)

//go:wasmimport risc0_host sys_verify_integrity
func sys_verify_integrity(claimDigestPtr uint32)

//go:wasmimport risc0_host sys_halt
func sys_halt(userExit, outputDigestPtr uint32)

//go:wasmimport risc0_host sys_pause
func sys_pause(userExit, outputDigestPtr uint32)

//go:wasmimport risc0_host sys_cycle_count
func sys_cycle_count() uint64

//go:wasmimport risc0_host sys_log
func sys_log(ptr, nbytes uint32)

//go:wasmimport risc0_host sys_rand
func sys_rand(ptr, nbytes uint32)

//go:wasmimport risc0_host sys_input
func sys_input(index uint32) uint32

// Compile-time interface compliance check
var _ ports.Host = (*HostAdapter)(nil)

// HostAdapter implements ports.Host over the wasm imports.
type HostAdapter struct{}

// NewHostAdapter creates a new HostAdapter.
func NewHostAdapter() *HostAdapter {
	return &HostAdapter{}
}

func bytesPtr(b []byte) uint32 {
	if len(b) == 0 {
		return 0
	}
	return uint32(uintptr(unsafe.Pointer(&b[0])))
}

func wordsPtr(w []uint32) uint32 {
	if len(w) == 0 {
		return 0
	}
	return uint32(uintptr(unsafe.Pointer(&w[0])))
}

func digestPtr(d *claim.Digest) uint32 {
	return uint32(uintptr(unsafe.Pointer(d)))
}

// Read implements ports.Host.
func (a *HostAdapter) Read(fd uint32, buf []byte) int {
	n := sys_read(fd, bytesPtr(buf), uint32(len(buf)))
	runtime.KeepAlive(buf)
	return int(n)
}

// ReadWords implements ports.Host.
func (a *HostAdapter) ReadWords(fd uint32, words []uint32) int {
	n := sys_read_words(fd, wordsPtr(words), uint32(len(words)))
	runtime.KeepAlive(words)
	return int(n)
}

// Write implements ports.Host.
func (a *HostAdapter) Write(fd uint32, buf []byte) {
	sys_write(fd, bytesPtr(buf), uint32(len(buf)))
	runtime.KeepAlive(buf)
}

// Call implements ports.Host.
func (a *HostAdapter) Call(name string, toHost []byte, fromHost []uint32) ports.Return {
	nameBytes := []byte(name)
	packed := sys_call(
		bytesPtr(nameBytes), uint32(len(nameBytes)),
		bytesPtr(toHost), uint32(len(toHost)),
		wordsPtr(fromHost), uint32(len(fromHost)),
	)
	runtime.KeepAlive(nameBytes)
	runtime.KeepAlive(toHost)
	runtime.KeepAlive(fromHost)
	return ports.Return{A0: uint32(packed >> 32), A1: uint32(packed)}
}

// Verify implements ports.Host.
func (a *HostAdapter) Verify(imageID, journalDigest claim.Digest) (claim.Digest, uint32) {
	var out [claim.DigestWords + 1]uint32
	sys_verify(digestPtr(&imageID), digestPtr(&journalDigest), wordsPtr(out[:]))
	runtime.KeepAlive(&out)

	var post claim.Digest
	copy(post[:], out[:claim.DigestWords])
	return post, out[claim.DigestWords]
}

// VerifyIntegrity implements ports.Host.
func (a *HostAdapter) VerifyIntegrity(claimDigest claim.Digest) {
	sys_verify_integrity(digestPtr(&claimDigest))
	runtime.KeepAlive(&claimDigest)
}

// Halt implements ports.Host. The import does not return; the trailing
// panic documents that for the compiler and for anyone reading a stack.
func (a *HostAdapter) Halt(userExit uint8, outputDigest claim.Digest) {
	sys_halt(uint32(userExit), digestPtr(&outputDigest))
	panic("risc0: sys_halt returned")
}

// Pause implements ports.Host.
func (a *HostAdapter) Pause(userExit uint8, outputDigest claim.Digest) {
	sys_pause(uint32(userExit), digestPtr(&outputDigest))
	runtime.KeepAlive(&outputDigest)
}

// CycleCount implements ports.Host.
func (a *HostAdapter) CycleCount() uint64 {
	return sys_cycle_count()
}

// Log implements ports.Host.
func (a *HostAdapter) Log(msg []byte) {
	sys_log(bytesPtr(msg), uint32(len(msg)))
	runtime.KeepAlive(msg)
}

// Rand implements ports.Host.
func (a *HostAdapter) Rand(buf []byte) {
	sys_rand(bytesPtr(buf), uint32(len(buf)))
	runtime.KeepAlive(buf)
}

// Input implements ports.Host.
func (a *HostAdapter) Input(index uint32) uint32 {
	return sys_input(index)
}
