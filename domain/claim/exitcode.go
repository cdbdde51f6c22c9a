package claim

import "fmt"

// ExitCodeKind discriminates the system half of an exit code.
type ExitCodeKind uint32

const (
	// KindHalted marks a final segment; execution cannot be resumed.
	KindHalted ExitCodeKind = 0
	// KindPaused marks a resumable segment.
	KindPaused ExitCodeKind = 1
	// KindSystemSplit marks a segment split by the host for its own
	// scheduling reasons. It carries no user code and no output.
	KindSystemSplit ExitCodeKind = 2
)

// InvalidExitCodeError is returned when a raw (system, user) pair does
// not decode to any known exit code.
type InvalidExitCodeError struct {
	System uint32
	User   uint32
}

func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code pair (%d, %d)", e.System, e.User)
}

// ExitCode is the tagged outcome of an execution segment.
type ExitCode struct {
	kind ExitCodeKind
	user uint32
}

// Halted builds the terminal exit code with the given user code.
func Halted(user uint32) ExitCode {
	return ExitCode{kind: KindHalted, user: user}
}

// Paused builds the resumable exit code with the given user code.
func Paused(user uint32) ExitCode {
	return ExitCode{kind: KindPaused, user: user}
}

// SystemSplit builds the host-initiated split exit code.
func SystemSplit() ExitCode {
	return ExitCode{kind: KindSystemSplit}
}

// ExitCodeFromPair decodes a raw (system, user) pair as received from the
// host. SystemSplit admits no user code.
func ExitCodeFromPair(system, user uint32) (ExitCode, error) {
	switch ExitCodeKind(system) {
	case KindHalted:
		return Halted(user), nil
	case KindPaused:
		return Paused(user), nil
	case KindSystemSplit:
		if user != 0 {
			return ExitCode{}, &InvalidExitCodeError{System: system, User: user}
		}
		return SystemSplit(), nil
	default:
		return ExitCode{}, &InvalidExitCodeError{System: system, User: user}
	}
}

// Kind returns the system half of the exit code.
func (c ExitCode) Kind() ExitCodeKind {
	return c.kind
}

// UserCode returns the user half of the exit code. It is always zero for
// SystemSplit.
func (c ExitCode) UserCode() uint32 {
	return c.user
}

// Pair re-encodes the exit code as the raw (system, user) pair.
func (c ExitCode) Pair() (system, user uint32) {
	return uint32(c.kind), c.user
}

// IsOK reports whether the exit code is Halted(0) or Paused(0), the only
// outcomes a verified assumption may carry.
func (c ExitCode) IsOK() bool {
	return (c.kind == KindHalted || c.kind == KindPaused) && c.user == 0
}

func (c ExitCode) String() string {
	switch c.kind {
	case KindHalted:
		return fmt.Sprintf("Halted(%d)", c.user)
	case KindPaused:
		return fmt.Sprintf("Paused(%d)", c.user)
	case KindSystemSplit:
		return "SystemSplit"
	default:
		return fmt.Sprintf("Unknown(%d, %d)", c.kind, c.user)
	}
}
