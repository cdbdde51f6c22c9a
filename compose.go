package risc0

import (
	"fmt"

	"github.com/bouewnm/risc0/domain/claim"
)

// BadExitCodeResponseError reports that the host answered a verify call
// with an exit code other than Halted(0) or Paused(0). Only malformed
// responses from an otherwise-cooperating host are reported this way; a
// host with no matching receipt aborts the trace instead of responding.
type BadExitCodeResponseError struct {
	Err error
}

func (e *BadExitCodeResponseError) Error() string {
	return fmt.Sprintf("bad response from host to verify: %v", e.Err)
}

func (e *BadExitCodeResponseError) Unwrap() error {
	return e.Err
}

// NonEmptyAssumptionsError reports that a conditional claim was passed to
// VerifyIntegrity. Only unconditional claims can be verified directly; a
// conditional claim must first have its own assumptions resolved.
type NonEmptyAssumptionsError struct {
	// Assumptions is the offending non-zero assumptions digest.
	Assumptions claim.Digest
}

func (e *NonEmptyAssumptionsError) Error() string {
	return fmt.Sprintf("assumptions list is not empty: %s", e.Assumptions)
}

// AssumptionLimitError reports that a verify call would exceed the
// configured assumption count limit. Nothing was sent to the host and the
// running assumptions digest is unchanged.
type AssumptionLimitError struct {
	Limit int
}

func (e *AssumptionLimitError) Error() string {
	return fmt.Sprintf("assumption count limit of %d exceeded", e.Limit)
}

// Verify asserts that a valid receipt exists for an execution of imageID
// whose journal is exactly journal. On success the synthesized claim is
// folded into the running assumptions digest, in call order; any party
// verifying this execution's receipt is then also assured of the folded
// claim.
//
// The admitted receipt must have exit code Halted(0) or Paused(0), an
// empty assumptions list and an all-zero input commitment. It may have
// any post state. If the host holds no matching receipt the trace is
// aborted and this call does not return.
func (e *Env) Verify(imageID claim.Digest, journal []byte) error {
	journalDigest := claim.HashBytes(journal)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		panic("risc0: verify after segment finalized")
	}
	if err := e.checkAssumptionBudget(); err != nil {
		return err
	}

	post, rawExit := e.host.Verify(imageID, journalDigest)

	// The response word is the system half of the exit code; the user
	// half of an admissible receipt is always zero.
	exitCode, err := claim.ExitCodeFromPair(rawExit, 0)
	if err != nil {
		return &BadExitCodeResponseError{Err: err}
	}
	if !exitCode.IsOK() {
		return &BadExitCodeResponseError{Err: &claim.InvalidExitCodeError{System: rawExit, User: 0}}
	}

	// Fix every field the admitted receipt is required to have; the host
	// only chooses the post state. The assumption resolves only if a
	// receipt matching this exact claim exists.
	assumption := &claim.ReceiptClaim{
		Pre:      claim.Pruned[claim.Digest](imageID),
		Post:     claim.Pruned[claim.Digest](post),
		ExitCode: exitCode,
		Input:    claim.Digest{},
		Output: claim.Value(&claim.Output{
			Journal:     claim.Pruned[claim.Digest](journalDigest),
			Assumptions: claim.Pruned[claim.Digest](claim.Digest{}),
		}),
	}
	e.assumptions.Add(assumption.Digest())
	e.assumptionCount++
	return nil
}

// VerifyIntegrity asserts that a valid receipt exists for the exact
// claim. The claim must be unconditional: its output must be absent or
// carry an empty assumptions digest. On success the claim digest is
// folded into the running assumptions digest, in call order.
//
// If the host holds no receipt for the claim digest the trace is aborted
// and this call does not return.
func (e *Env) VerifyIntegrity(c *claim.ReceiptClaim) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		panic("risc0: verify after segment finalized")
	}
	if err := e.checkAssumptionBudget(); err != nil {
		return err
	}

	if c.Output.IsPruned() {
		// A pruned zero digest is the canonical "no output"; any other
		// pruned digest hides whether the assumptions list is empty.
		if !c.Output.Digest().IsZero() {
			return &claim.PrunedValueError{Digest: c.Output.Digest()}
		}
	} else {
		output, err := c.Output.Value()
		if err != nil {
			return err
		}
		if output != nil && !output.Assumptions.Digest().IsZero() {
			return &NonEmptyAssumptionsError{Assumptions: output.Assumptions.Digest()}
		}
	}

	claimDigest := c.Digest()
	e.host.VerifyIntegrity(claimDigest)
	e.assumptions.Add(claimDigest)
	e.assumptionCount++
	return nil
}

func (e *Env) checkAssumptionBudget() error {
	if e.limits.MaxAssumptions > 0 && e.assumptionCount >= e.limits.MaxAssumptions {
		return &AssumptionLimitError{Limit: e.limits.MaxAssumptions}
	}
	return nil
}
