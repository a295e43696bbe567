package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacilityRecordsOnlyValidSignatures(t *testing.T) {
	signer, err := NewEd25519Signer("agent-1")
	require.NoError(t, err)

	msg := VoteMessage(signer.PublicKey(), 1, true, 10_000, 1_700_000_000, 0)
	sig := signer.Sign(msg)

	f := NewVerificationFacility()
	assert.False(t, f.Verify(signer.PublicKey(), msg))

	require.True(t, f.Submit(signer.PublicKey(), msg, sig))
	assert.True(t, f.Verify(signer.PublicKey(), msg))

	// a different message is not covered by the recorded verification
	other := VoteMessage(signer.PublicKey(), 2, true, 10_000, 1_700_000_000, 0)
	assert.False(t, f.Verify(signer.PublicKey(), other))

	// a bad signature records nothing
	bad := make([]byte, SignatureSize)
	assert.False(t, f.Submit(signer.PublicKey(), other, bad))
	assert.False(t, f.Verify(signer.PublicKey(), other))

	f.Reset()
	assert.False(t, f.Verify(signer.PublicKey(), msg))
}
