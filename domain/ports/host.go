package ports

import "github.com/bouewnm/risc0/domain/claim"

// Return carries the two raw words a generic host call hands back.
type Return struct {
	A0 uint32
	A1 uint32
}

// Host is the narrow foreign-call interface between the guest and the
// machine it runs on. Every higher-level component goes through this
// interface and never touches the host ABI directly.
//
// Host calls are synchronous and complete before the next instruction
// executes. There is no cancellation and no transient failure: each call
// either returns normally or the host aborts the entire trace. Calls
// documented as diverging do not return control to the guest on failure.
type Host interface {
	// Read transfers up to len(buf) bytes from the numbered channel and
	// returns the number of bytes transferred. Zero means end of stream.
	// Short reads are permitted; retrying is the caller's concern.
	Read(fd uint32, buf []byte) int

	// ReadWords transfers whole words from the numbered channel into the
	// word-aligned buffer and returns the number of bytes transferred.
	ReadWords(fd uint32, words []uint32) int

	// Write transfers all of buf to the numbered channel. Writes are
	// fire-and-forget; the host reports nothing back.
	Write(fd uint32, buf []byte)

	// Call performs a generic named call, sending toHost and filling
	// fromHost with whole words. Used by the raw slice-exchange path.
	Call(name string, toHost []byte, fromHost []uint32) Return

	// Verify asks the host to produce a receipt for an execution of
	// imageID whose journal hashes to journalDigest. On success it
	// returns the post-state digest and the raw system exit code of the
	// verified execution. If no matching receipt exists the host aborts
	// the trace; this call does not return in that case.
	Verify(imageID, journalDigest claim.Digest) (post claim.Digest, exitCode uint32)

	// VerifyIntegrity asks the host to produce a receipt attesting the
	// exact claim digest. Diverges if the host cannot.
	VerifyIntegrity(claimDigest claim.Digest)

	// Halt ends the trace with the given user exit code, committing the
	// output digest. It does not return.
	Halt(userExit uint8, outputDigest claim.Digest)

	// Pause suspends the trace with the given user exit code, committing
	// the output digest for the segment ending here. Execution resumes
	// after this call when the host continues the session.
	Pause(userExit uint8, outputDigest claim.Digest)

	// CycleCount returns the number of cycles executed so far. The value
	// is host-provided and never constrained by the proof.
	CycleCount() uint64

	// Log sends best-effort debug text to the host console, outside the
	// attested computation.
	Log(msg []byte)

	// Rand fills buf with host-supplied entropy. Consumed only for the
	// memory-image entropy seed.
	Rand(buf []byte)

	// Input returns one word of the 8-word input commitment digest.
	Input(index uint32) uint32
}
