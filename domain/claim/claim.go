package claim

// Domain-separation tags for the claim graph. Changing any of these
// changes every digest derived from them.
const (
	outputTag       = "risc0.Output"
	assumptionsTag  = "risc0.Assumptions"
	receiptClaimTag = "risc0.ReceiptClaim"
)

// Output is everything a segment publicly commits to beyond its state
// transition: the journal and the assumptions folded in along the way.
// Both fields hold digests of byte streams and may be pruned.
type Output struct {
	Journal     MaybePruned[Digest]
	Assumptions MaybePruned[Digest]
}

// Digest implements Digestible. A nil *Output (a segment with no output,
// e.g. one ending in a system split) digests to the zero sentinel.
func (o *Output) Digest() Digest {
	if o == nil {
		return Digest{}
	}
	return TaggedStruct(outputTag, []Digest{o.Journal.Digest(), o.Assumptions.Digest()}, nil)
}

// Assumptions is the ordered, append-only list of claims the guest has
// vouched for, represented compactly as a single running digest. Two
// lists differing only in insertion order have different digests.
type Assumptions struct {
	head Digest
}

// Add folds one claim digest into the list. Appends are irreversible.
func (a *Assumptions) Add(claimDigest Digest) {
	a.head = TaggedStruct(assumptionsTag, []Digest{claimDigest, a.head}, nil)
}

// Digest returns the accumulator for the full ordered call sequence.
func (a *Assumptions) Digest() Digest {
	return a.head
}

// IsEmpty reports whether no assumption has been added.
func (a *Assumptions) IsEmpty() bool {
	return a.head.IsZero()
}

// ReceiptClaim is the canonical statement a receipt attests to.
type ReceiptClaim struct {
	// Pre is the system state digest before execution.
	Pre MaybePruned[Digest]
	// Post is the system state digest after execution.
	Post MaybePruned[Digest]
	// ExitCode is the outcome of the segment.
	ExitCode ExitCode
	// Input is the digest of the input commitment.
	Input Digest
	// Output is the public output, absent for segments with no output.
	Output MaybePruned[*Output]
}

// Digest implements Digestible.
func (c *ReceiptClaim) Digest() Digest {
	system, user := c.ExitCode.Pair()
	return TaggedStruct(
		receiptClaimTag,
		[]Digest{c.Input, c.Pre.Digest(), c.Post.Digest(), c.Output.Digest()},
		[]uint32{system, user},
	)
}
