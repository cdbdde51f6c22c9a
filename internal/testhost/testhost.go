// Package testhost provides a deterministic in-memory implementation of
// the host side of the guest ABI, for tests and examples. It answers the
// same calls a real host answers, records everything the guest sends,
// and models the non-returning host behaviors by panicking with typed
// sentinels that CaptureExit recovers.
package testhost

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/bouewnm/risc0/domain/claim"
	"github.com/bouewnm/risc0/domain/ports"
)

// Termination records a terminal host call issued by the guest.
type Termination struct {
	// Halted is true for a halt, false for a pause.
	Halted bool
	// UserExit is the user half of the exit code.
	UserExit uint8
	// OutputDigest is the committed output digest.
	OutputDigest claim.Digest
}

// receiptKey identifies a registered receipt by the fixed fields of a
// verify request.
type receiptKey struct {
	imageID       claim.Digest
	journalDigest claim.Digest
}

type receiptEntry struct {
	post     claim.Digest
	exitCode uint32
}

// CallHandler answers one generic named host call.
type CallHandler func(toHost []byte, fromHost []uint32) ports.Return

// Host is an in-memory ports.Host. The zero value is not usable; call
// New.
type Host struct {
	mu sync.Mutex

	stdin     []byte
	readChunk int

	written map[uint32][]byte

	receipts map[receiptKey]receiptEntry
	claims   map[claim.Digest]bool

	handlers map[string]CallHandler

	inputDigest claim.Digest
	entropy     byte
	randCalls   int
	cycles      uint64

	logs []string

	terminations []Termination
}

// New returns an empty host: no input queued, no receipts registered,
// scripted entropy.
func New() *Host {
	return &Host{
		written:  make(map[uint32][]byte),
		receipts: make(map[receiptKey]receiptEntry),
		claims:   make(map[claim.Digest]bool),
		handlers: make(map[string]CallHandler),
	}
}

// ProvideInput queues bytes on the standard input channel.
func (h *Host) ProvideInput(b []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stdin = append(h.stdin, b...)
}

// SetReadChunk caps the bytes returned by a single Read call, forcing
// guests to exercise their short-read retry path. Zero means unlimited.
func (h *Host) SetReadChunk(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readChunk = n
}

// RegisterReceipt makes Verify succeed for (imageID, journal) with the
// given post state and raw exit code word.
func (h *Host) RegisterReceipt(imageID claim.Digest, journal []byte, post claim.Digest, exitCode uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := receiptKey{imageID: imageID, journalDigest: claim.HashBytes(journal)}
	h.receipts[key] = receiptEntry{post: post, exitCode: exitCode}
}

// RegisterClaim makes VerifyIntegrity succeed for the claim digest.
func (h *Host) RegisterClaim(d claim.Digest) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.claims[d] = true
}

// HandleCall registers a handler for a generic named call.
func (h *Host) HandleCall(name string, fn CallHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[name] = fn
}

// SetInputDigest sets the 8-word input commitment served by Input.
func (h *Host) SetInputDigest(d claim.Digest) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inputDigest = d
}

// SetCycleCount sets the value served by CycleCount.
func (h *Host) SetCycleCount(n uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cycles = n
}

// Written returns everything the guest wrote to the channel so far.
func (h *Host) Written(fd uint32) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]byte(nil), h.written[fd]...)
}

// Logs returns the debug-log lines received so far.
func (h *Host) Logs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.logs...)
}

// RandCalls returns how many times the guest drew entropy.
func (h *Host) RandCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.randCalls
}

// Terminations returns the recorded halt and pause calls, in order.
func (h *Host) Terminations() []Termination {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Termination(nil), h.terminations...)
}

// Read implements ports.Host.
func (h *Host) Read(fd uint32, buf []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if fd != ports.Stdin {
		panic(fmt.Sprintf("testhost: read on unbound fd %d", fd))
	}
	n := min(len(buf), len(h.stdin))
	if h.readChunk > 0 {
		n = min(n, h.readChunk)
	}
	copy(buf, h.stdin[:n])
	h.stdin = h.stdin[n:]
	return n
}

// ReadWords implements ports.Host.
func (h *Host) ReadWords(fd uint32, words []uint32) int {
	buf := make([]byte, len(words)*4)
	total := 0
	for total < len(buf) {
		n := h.Read(fd, buf[total:])
		if n == 0 {
			break
		}
		total += n
	}
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return total
}

// Write implements ports.Host.
func (h *Host) Write(fd uint32, buf []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.written[fd] = append(h.written[fd], buf...)
}

// Call implements ports.Host.
func (h *Host) Call(name string, toHost []byte, fromHost []uint32) ports.Return {
	h.mu.Lock()
	fn, ok := h.handlers[name]
	h.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("testhost: no handler for call %q", name))
	}
	return fn(toHost, fromHost)
}

// Verify implements ports.Host. An unregistered receipt aborts the trace,
// as the real host would; the abort is modeled as a panic.
func (h *Host) Verify(imageID, journalDigest claim.Digest) (claim.Digest, uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entry, ok := h.receipts[receiptKey{imageID: imageID, journalDigest: journalDigest}]
	if !ok {
		panic(fmt.Sprintf("testhost: trace aborted: no receipt for image %s", imageID))
	}
	return entry.post, entry.exitCode
}

// VerifyIntegrity implements ports.Host. An unregistered claim aborts the
// trace.
func (h *Host) VerifyIntegrity(claimDigest claim.Digest) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.claims[claimDigest] {
		panic(fmt.Sprintf("testhost: trace aborted: no receipt for claim %s", claimDigest))
	}
}

// Halt implements ports.Host. It panics with the Termination so that the
// call never returns to the guest; CaptureExit recovers it.
func (h *Host) Halt(userExit uint8, outputDigest claim.Digest) {
	term := Termination{Halted: true, UserExit: userExit, OutputDigest: outputDigest}
	h.mu.Lock()
	h.terminations = append(h.terminations, term)
	h.mu.Unlock()
	panic(term)
}

// Pause implements ports.Host.
func (h *Host) Pause(userExit uint8, outputDigest claim.Digest) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.terminations = append(h.terminations, Termination{UserExit: userExit, OutputDigest: outputDigest})
}

// CycleCount implements ports.Host.
func (h *Host) CycleCount() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cycles
}

// Log implements ports.Host.
func (h *Host) Log(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logs = append(h.logs, string(msg))
}

// Rand implements ports.Host with a scripted counter stream: entropy is
// deterministic across runs but distinct across calls.
func (h *Host) Rand(buf []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.randCalls++
	for i := range buf {
		h.entropy++
		buf[i] = h.entropy
	}
}

// Input implements ports.Host.
func (h *Host) Input(index uint32) uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if index >= claim.DigestWords {
		panic(fmt.Sprintf("testhost: input index %d out of range", index))
	}
	return h.inputDigest[index]
}

// CaptureExit runs fn and recovers the Termination panicked by Halt,
// returning it with ok=true. If fn returns normally ok is false. Panics
// of any other kind propagate.
func CaptureExit(fn func()) (term Termination, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t, isTerm := r.(Termination)
			if !isTerm {
				panic(r)
			}
			term, ok = t, true
		}
	}()
	fn()
	return Termination{}, false
}
