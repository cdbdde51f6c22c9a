// Package risc0 is the guest-side runtime environment of the zkVM: the
// interface through which a program running inside the provable machine
// exchanges data with an untrusted host and shapes the statement its
// receipt will attest to.
//
// The package manages execution (Exit, Pause), proof composition (Verify,
// VerifyIntegrity) and input/output. I/O comes in two variants: structured
// functions that (de)serialize typed values, and Slice variants operating
// on raw bytes for performance. Convenience functions bound to the default
// file descriptors are provided; the descriptors themselves are reachable
// through Env.Stdin, Env.Stdout, Env.Stderr and Env.Journal.
//
// WARNING: binding a caller-chosen channel to one of the reserved
// descriptor numbers in the ports package is not prevented, but it mixes
// semantics in undefined ways and is discouraged.
package risc0

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"hash"
	"sync"

	"github.com/bouewnm/risc0/domain/claim"
	"github.com/bouewnm/risc0/domain/ports"
	"github.com/bouewnm/risc0/wireformat"
)

// entropyWords is the size of the memory-image entropy seed: 128 bits.
const entropyWords = 4

// Env is the composition context of one execution segment: the journal
// hasher, the running assumptions digest and the memory-image entropy
// seed, bracketed by explicit segment boundaries. Exactly one segment is
// live per Env at any time; using it after finalization panics.
//
// Guest execution is single-threaded, but every mutation goes through one
// mutex so that composition bookkeeping stays atomic with respect to
// re-entrant journal writes.
type Env struct {
	mu    sync.Mutex
	host  ports.Host
	codec wireformat.Codec

	limits Limits

	hasher          hash.Hash
	assumptions     claim.Assumptions
	assumptionCount int
	journalBytes    int

	// Refreshed from host entropy on every segment start so the
	// post-execution memory image cannot leak information through its
	// digest.
	entropy [entropyWords]uint32

	active bool
}

// NewEnv creates a composition context bound to the given host and begins
// its first segment.
func NewEnv(host ports.Host, opts ...Option) (*Env, error) {
	if host == nil {
		return nil, errors.New("risc0: host must not be nil")
	}
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	e := &Env{
		host:   host,
		codec:  cfg.codec,
		limits: cfg.limits,
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.beginSegment()
	return e, nil
}

// BeginSegment resets the journal hasher and the assumptions digest and
// draws a fresh entropy seed from the host. It is called for the first
// segment by NewEnv and after every Pause; calling it on a live segment
// discards that segment's pending state without committing it.
func (e *Env) BeginSegment() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.beginSegment()
}

func (e *Env) beginSegment() {
	e.hasher = sha256.New()
	e.assumptions = claim.Assumptions{}
	e.assumptionCount = 0
	e.journalBytes = 0

	var seed [entropyWords * wireformat.WordSize]byte
	e.host.Rand(seed[:])
	for i := range e.entropy {
		e.entropy[i] = binary.LittleEndian.Uint32(seed[i*wireformat.WordSize:])
	}
	e.active = true
}

// finalize drains the hasher into the journal digest, folds it with the
// assumptions digest into the segment Output, and issues the terminal
// host call. The caller must hold e.mu.
func (e *Env) finalize(halt bool, userExit uint8) {
	if !e.active {
		panic("risc0: segment already finalized")
	}
	journalDigest, err := claim.DigestFromBytes(e.hasher.Sum(nil))
	if err != nil {
		panic("risc0: journal hasher produced malformed digest: " + err.Error())
	}
	output := &claim.Output{
		Journal:     claim.Pruned[claim.Digest](journalDigest),
		Assumptions: claim.Pruned[claim.Digest](e.assumptions.Digest()),
	}
	outputDigest := output.Digest()

	e.active = false
	e.hasher = nil

	if halt {
		e.host.Halt(userExit, outputDigest)
	} else {
		e.host.Pause(userExit, outputDigest)
	}
}

// Exit terminates execution with the given user exit code, committing the
// segment output. Use 0 for success. It does not return.
func (e *Env) Exit(code uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.finalize(true, code)
	panic("risc0: host returned control after halt")
}

// Pause suspends execution with the given user exit code, committing the
// output of the segment ending here, then opens a fresh segment. The next
// segment starts with an empty journal and empty assumptions; everything
// committed so far stays bound to the paused segment's receipt.
func (e *Env) Pause(code uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.finalize(false, code)
	e.beginSegment()
}

// AssumptionsDigest returns the running digest of the ordered assumption
// list accumulated by Verify and VerifyIntegrity calls this segment.
func (e *Env) AssumptionsDigest() claim.Digest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.assumptions.Digest()
}

// JournalBytes returns the number of bytes committed to the journal this
// segment.
func (e *Env) JournalBytes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.journalBytes
}

// InputDigest reads the 8-word input commitment digest from the host.
func (e *Env) InputDigest() claim.Digest {
	var d claim.Digest
	for i := range d {
		d[i] = e.host.Input(uint32(i))
	}
	return d
}

// CycleCount returns the host-reported cycle count. The value is
// informational only and never constrained by the proof.
func (e *Env) CycleCount() uint64 {
	return e.host.CycleCount()
}

// Log prints a message to the host debug console, outside the attested
// computation.
func (e *Env) Log(msg string) {
	e.host.Log([]byte(msg))
}

// SendRecvBytes exchanges raw bytes with the host over a named call. The
// first call reports the response length, the second transfers it.
func (e *Env) SendRecvBytes(name string, toHost []byte) []byte {
	ret := e.host.Call(name, toHost, nil)
	nbytes := int(ret.A0)
	fromHost := make([]uint32, wireformat.AlignUp(nbytes, wireformat.WordSize)/wireformat.WordSize)
	e.host.Call(name, nil, fromHost)
	return wordsToBytes(fromHost)[:nbytes]
}
