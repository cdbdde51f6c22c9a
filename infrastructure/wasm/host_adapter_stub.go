//go:build !wasip1

// Package wasm provides the infrastructure adapter that binds the guest
// ABI to the real host via wasm imports. Outside the zkVM a stub with the
// same shape keeps the package compilable; tests inject an in-memory
// host instead.
package wasm

import (
	"github.com/bouewnm/risc0/domain/claim"
	"github.com/bouewnm/risc0/domain/ports"
)

// Compile-time interface compliance check
var _ ports.Host = (*HostAdapter)(nil)

const stubMsg = "risc0: host calls are only available inside the zkVM guest; inject a ports.Host for native tests"

// HostAdapter stub for native builds.
type HostAdapter struct{}

// NewHostAdapter creates a new HostAdapter stub.
func NewHostAdapter() *HostAdapter {
	return &HostAdapter{}
}

// Read panics because the host ABI is not available natively.
func (a *HostAdapter) Read(fd uint32, buf []byte) int { panic(stubMsg) }

// ReadWords panics because the host ABI is not available natively.
func (a *HostAdapter) ReadWords(fd uint32, words []uint32) int { panic(stubMsg) }

// Write panics because the host ABI is not available natively.
func (a *HostAdapter) Write(fd uint32, buf []byte) { panic(stubMsg) }

// Call panics because the host ABI is not available natively.
func (a *HostAdapter) Call(name string, toHost []byte, fromHost []uint32) ports.Return {
	panic(stubMsg)
}

// Verify panics because the host ABI is not available natively.
func (a *HostAdapter) Verify(imageID, journalDigest claim.Digest) (claim.Digest, uint32) {
	panic(stubMsg)
}

// VerifyIntegrity panics because the host ABI is not available natively.
func (a *HostAdapter) VerifyIntegrity(claimDigest claim.Digest) { panic(stubMsg) }

// Halt panics because the host ABI is not available natively.
func (a *HostAdapter) Halt(userExit uint8, outputDigest claim.Digest) { panic(stubMsg) }

// Pause panics because the host ABI is not available natively.
func (a *HostAdapter) Pause(userExit uint8, outputDigest claim.Digest) { panic(stubMsg) }

// CycleCount panics because the host ABI is not available natively.
func (a *HostAdapter) CycleCount() uint64 { panic(stubMsg) }

// Log panics because the host ABI is not available natively.
func (a *HostAdapter) Log(msg []byte) { panic(stubMsg) }

// Rand panics because the host ABI is not available natively.
func (a *HostAdapter) Rand(buf []byte) { panic(stubMsg) }

// Input panics because the host ABI is not available natively.
func (a *HostAdapter) Input(index uint32) uint32 { panic(stubMsg) }
