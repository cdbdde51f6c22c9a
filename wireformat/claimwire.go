package wireformat

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/bouewnm/risc0/domain/claim"
)

// OutputWire is the JSON wire form of a segment output. Both fields are
// hex-encoded digests.
type OutputWire struct {
	Journal     string `json:"journal"`
	Assumptions string `json:"assumptions"`
}

// ExitCodeWire is the JSON wire form of an exit code, as the raw
// (system, user) pair.
type ExitCodeWire struct {
	System uint32 `json:"system"`
	User   uint32 `json:"user"`
}

// ReceiptClaimWire is the JSON wire form of a receipt claim, exchanged
// with host-side tooling. Digests are hex-encoded; a claim with no
// output omits the output field.
type ReceiptClaimWire struct {
	Pre      string       `json:"pre"`
	Post     string       `json:"post"`
	ExitCode ExitCodeWire `json:"exit_code"`
	Input    string       `json:"input"`
	Output   *OutputWire  `json:"output,omitempty"`
}

// ClaimToWire converts a claim to its wire form. A claim whose output is
// pruned to a non-zero digest cannot be put on the wire field by field;
// the pruned value error is propagated.
func ClaimToWire(c *claim.ReceiptClaim) (*ReceiptClaimWire, error) {
	system, user := c.ExitCode.Pair()
	w := &ReceiptClaimWire{
		Pre:      c.Pre.Digest().String(),
		Post:     c.Post.Digest().String(),
		ExitCode: ExitCodeWire{System: system, User: user},
		Input:    c.Input.String(),
	}
	if c.Output.IsPruned() && c.Output.Digest().IsZero() {
		return w, nil
	}
	out, err := c.Output.Value()
	if err != nil {
		return nil, err
	}
	if out != nil {
		w.Output = &OutputWire{
			Journal:     out.Journal.Digest().String(),
			Assumptions: out.Assumptions.Digest().String(),
		}
	}
	return w, nil
}

// WireToClaim converts a wire form back into a claim. All digest-valued
// fields come back pruned; that loses no attested information.
func WireToClaim(w *ReceiptClaimWire) (*claim.ReceiptClaim, error) {
	pre, err := claim.DigestFromHex(w.Pre)
	if err != nil {
		return nil, fmt.Errorf("pre: %w", err)
	}
	post, err := claim.DigestFromHex(w.Post)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	input, err := claim.DigestFromHex(w.Input)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	exitCode, err := claim.ExitCodeFromPair(w.ExitCode.System, w.ExitCode.User)
	if err != nil {
		return nil, err
	}

	c := &claim.ReceiptClaim{
		Pre:      claim.Pruned[claim.Digest](pre),
		Post:     claim.Pruned[claim.Digest](post),
		ExitCode: exitCode,
		Input:    input,
		Output:   claim.Value[*claim.Output](nil),
	}
	if w.Output != nil {
		journal, err := claim.DigestFromHex(w.Output.Journal)
		if err != nil {
			return nil, fmt.Errorf("output journal: %w", err)
		}
		assumptions, err := claim.DigestFromHex(w.Output.Assumptions)
		if err != nil {
			return nil, fmt.Errorf("output assumptions: %w", err)
		}
		c.Output = claim.Value(&claim.Output{
			Journal:     claim.Pruned[claim.Digest](journal),
			Assumptions: claim.Pruned[claim.Digest](assumptions),
		})
	}
	return c, nil
}

// ReceiptClaimSchema generates the JSON schema (Draft 2020-12) of the
// claim wire form, for host-side validation of guest-produced claims.
func ReceiptClaimSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	schema := reflector.Reflect(&ReceiptClaimWire{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}
