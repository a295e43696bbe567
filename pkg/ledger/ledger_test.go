package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestAppendChainsEntries(t *testing.T) {
	l := New().WithClock(fixedClock)

	seq, err := l.Append(EntryProposalCreated, "agent-1", map[string]any{"proposal_id": uint64(1)})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)

	seq, err = l.Append(EntryVoteCast, "agent-2", map[string]any{"proposal_id": uint64(1), "prediction": true})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), seq)

	first, err := l.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "genesis", first.PrevHash)

	second, err := l.Get(2)
	require.NoError(t, err)
	assert.Equal(t, first.ContentHash, second.PrevHash)
	assert.Equal(t, second.ContentHash, l.Head())
}

func TestGetOutOfRange(t *testing.T) {
	l := New()
	_, err := l.Get(0)
	require.Error(t, err)
	_, err = l.Get(1)
	require.Error(t, err)
}

func TestVerifyDetectsTampering(t *testing.T) {
	l := New().WithClock(fixedClock)
	_, err := l.Append(EntryOracleUpdated, "oracle", map[string]any{"value": uint64(1_000_000)})
	require.NoError(t, err)
	_, err = l.Append(EntryBreakerRequested, "authority", nil)
	require.NoError(t, err)
	require.NoError(t, l.Verify())

	l.entries[0].Data["value"] = uint64(2_000_000)
	err = l.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hash mismatch at seq 1")
}

func TestVerifyDetectsBrokenChain(t *testing.T) {
	l := New().WithClock(fixedClock)
	_, err := l.Append(EntryVaultDeposit, "alice", map[string]any{"amount": uint64(500)})
	require.NoError(t, err)
	_, err = l.Append(EntryVaultWithdraw, "authority", map[string]any{"amount": uint64(100)})
	require.NoError(t, err)

	l.entries[1].PrevHash = "sha256:0000"
	err = l.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chain broken at seq 2")
}

func TestRestore(t *testing.T) {
	l := New().WithClock(fixedClock)
	for _, et := range []string{EntryProposalCreated, EntryVoteCast, EntryProposalFinalized} {
		_, err := l.Append(et, "agent-1", map[string]any{"proposal_id": uint64(7)})
		require.NoError(t, err)
	}

	restored, err := Restore(l.Entries())
	require.NoError(t, err)
	assert.Equal(t, l.Head(), restored.Head())
	assert.Equal(t, 3, restored.Length())

	tampered := l.Entries()
	tampered[1].Actor = "agent-9"
	_, err = Restore(tampered)
	require.Error(t, err)
}
