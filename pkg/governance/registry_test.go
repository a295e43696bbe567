package governance

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ars-protocol/ars-core/pkg/protoerr"
)

func newTestRegistry(t *testing.T) (*Registry, *Proposal) {
	t.Helper()
	r := NewRegistry()
	p, err := NewProposal(0, proposer, PolicyUpdateRatio, nil, 1000, 600)
	require.NoError(t, err)
	require.NoError(t, r.Add(p))
	return r, p
}

func TestAddRejectsDuplicateID(t *testing.T) {
	r, p := newTestRegistry(t)
	dup, err := NewProposal(p.ID, proposer, PolicyBurnAsset, nil, 1000, 600)
	require.NoError(t, err)
	assert.ErrorIs(t, r.Add(dup), protoerr.ErrProposalAlreadyExists)
}

func TestGetUnknownProposal(t *testing.T) {
	r, _ := newTestRegistry(t)
	_, err := r.Get(42)
	assert.ErrorIs(t, err, protoerr.ErrProposalNotFound)
}

func TestVoteCreatesRecord(t *testing.T) {
	r, p := newTestRegistry(t)
	agent := bytes.Repeat([]byte{0x02}, 32)
	sig := bytes.Repeat([]byte{0x03}, 64)

	rec, err := r.Vote(p.ID, agent, true, 10000, sig, 1100)
	require.NoError(t, err)
	assert.Equal(t, p.ID, rec.ProposalID)
	assert.Equal(t, uint64(10000), rec.StakeAmount)
	assert.True(t, rec.Prediction)
	assert.False(t, rec.Claimed)
	assert.Equal(t, sig, rec.Signature)
	assert.Equal(t, uint64(100), p.YesStake)
}

func TestDuplicateVoteRejected(t *testing.T) {
	r, p := newTestRegistry(t)
	agent := bytes.Repeat([]byte{0x02}, 32)

	_, err := r.Vote(p.ID, agent, true, 10000, nil, 1100)
	require.NoError(t, err)

	_, err = r.Vote(p.ID, agent, false, 400, nil, 1200)
	assert.ErrorIs(t, err, protoerr.ErrAlreadyVoted)
	assert.Equal(t, uint64(100), p.YesStake, "tally unchanged by rejected vote")
	assert.Zero(t, p.NoStake)
}

func TestVoteAfterClaimAllowed(t *testing.T) {
	r, p := newTestRegistry(t)
	agent := bytes.Repeat([]byte{0x02}, 32)

	rec, err := r.Vote(p.ID, agent, true, 100, nil, 1100)
	require.NoError(t, err)

	// The constraint is one non-claimed record per (proposal, agent).
	rec.Claimed = true
	_, err = r.Vote(p.ID, agent, true, 100, nil, 1200)
	assert.NoError(t, err)
}

func TestDistinctAgentsMayVote(t *testing.T) {
	r, p := newTestRegistry(t)

	_, err := r.Vote(p.ID, bytes.Repeat([]byte{0x02}, 32), true, 10000, nil, 1100)
	require.NoError(t, err)
	_, err = r.Vote(p.ID, bytes.Repeat([]byte{0x04}, 32), false, 2500, nil, 1200)
	require.NoError(t, err)

	assert.Equal(t, uint64(100), p.YesStake)
	assert.Equal(t, uint64(50), p.NoStake)
	assert.Len(t, r.Votes(p.ID), 2)
}

func TestFailedVoteLeavesNoRecord(t *testing.T) {
	r, p := newTestRegistry(t)
	agent := bytes.Repeat([]byte{0x02}, 32)

	_, err := r.Vote(p.ID, agent, true, 0, nil, 1100)
	require.ErrorIs(t, err, protoerr.ErrInvalidStakeAmount)
	assert.Empty(t, r.Votes(p.ID))

	// The agent can still vote afterwards.
	_, err = r.Vote(p.ID, agent, true, 100, nil, 1100)
	assert.NoError(t, err)
}

func TestRestore(t *testing.T) {
	r := NewRegistry()
	p, err := NewProposal(7, proposer, PolicyRebalanceVault, nil, 1000, 600)
	require.NoError(t, err)
	agent := bytes.Repeat([]byte{0x05}, 32)
	votes := []*VoteRecord{{ProposalID: 7, Agent: agent, StakeAmount: 400, Prediction: true}}

	r.Restore(p, votes)

	got, err := r.Get(7)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = r.Vote(7, agent, true, 100, nil, 1100)
	assert.ErrorIs(t, err, protoerr.ErrAlreadyVoted, "restored vote still guards duplicates")
}

func TestProposalsOrderedByID(t *testing.T) {
	r := NewRegistry()
	for _, id := range []uint64{3, 1, 2} {
		p, err := NewProposal(id, proposer, PolicyMintAsset, nil, 1000, 600)
		require.NoError(t, err)
		require.NoError(t, r.Add(p))
	}
	ps := r.Proposals()
	require.Len(t, ps, 3)
	assert.Equal(t, uint64(1), ps[0].ID)
	assert.Equal(t, uint64(2), ps[1].ID)
	assert.Equal(t, uint64(3), ps[2].ID)
}
