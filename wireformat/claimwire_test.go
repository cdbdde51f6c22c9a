package wireformat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bouewnm/risc0/domain/claim"
)

func sampleClaim() *claim.ReceiptClaim {
	return &claim.ReceiptClaim{
		Pre:      claim.Pruned[claim.Digest](claim.HashBytes([]byte("pre"))),
		Post:     claim.Pruned[claim.Digest](claim.HashBytes([]byte("post"))),
		ExitCode: claim.Halted(0),
		Input:    claim.Digest{},
		Output: claim.Value(&claim.Output{
			Journal:     claim.Pruned[claim.Digest](claim.HashBytes([]byte("journal"))),
			Assumptions: claim.Pruned[claim.Digest](claim.Digest{}),
		}),
	}
}

func TestClaimWireRoundTrip(t *testing.T) {
	c := sampleClaim()

	w, err := ClaimToWire(c)
	require.NoError(t, err)
	require.NotNil(t, w.Output)

	back, err := WireToClaim(w)
	require.NoError(t, err)

	// The wire form carries digests only, but the attested statement
	// survives the round trip bit for bit.
	assert.Equal(t, c.Digest(), back.Digest())
}

func TestClaimWireNoOutput(t *testing.T) {
	c := sampleClaim()
	c.Output = claim.Value[*claim.Output](nil)

	w, err := ClaimToWire(c)
	require.NoError(t, err)
	assert.Nil(t, w.Output)

	back, err := WireToClaim(w)
	require.NoError(t, err)
	assert.Equal(t, c.Digest(), back.Digest())
}

func TestClaimWirePrunedOutput(t *testing.T) {
	c := sampleClaim()
	out, err := c.Output.Value()
	require.NoError(t, err)
	c.Output = claim.Pruned[*claim.Output](out.Digest())

	_, err = ClaimToWire(c)
	var pve *claim.PrunedValueError
	assert.ErrorAs(t, err, &pve)
}

func TestWireToClaimRejectsBadDigests(t *testing.T) {
	w, err := ClaimToWire(sampleClaim())
	require.NoError(t, err)

	bad := *w
	bad.Pre = "not-hex"
	_, err = WireToClaim(&bad)
	assert.Error(t, err)

	bad = *w
	bad.ExitCode = ExitCodeWire{System: 9}
	_, err = WireToClaim(&bad)
	var ice *claim.InvalidExitCodeError
	assert.ErrorAs(t, err, &ice)
}

func TestReceiptClaimSchema(t *testing.T) {
	data, err := ReceiptClaimSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok, "schema should expand the struct inline")
	assert.Contains(t, props, "pre")
	assert.Contains(t, props, "exit_code")
}
