package governance

import (
	"bytes"
	"sort"

	"github.com/ars-protocol/ars-core/pkg/protoerr"
)

// Registry holds all proposals and vote records for one protocol
// instance. Records are never deleted: terminal proposals and their
// votes remain as the audit trail.
type Registry struct {
	proposals map[uint64]*Proposal
	votes     map[uint64]map[string]*VoteRecord
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		proposals: make(map[uint64]*Proposal),
		votes:     make(map[uint64]map[string]*VoteRecord),
	}
}

// Add registers a freshly created proposal.
func (r *Registry) Add(p *Proposal) error {
	if _, ok := r.proposals[p.ID]; ok {
		return protoerr.ErrProposalAlreadyExists
	}
	r.proposals[p.ID] = p
	return nil
}

// Get returns the proposal with the given id.
func (r *Registry) Get(id uint64) (*Proposal, error) {
	p, ok := r.proposals[id]
	if !ok {
		return nil, protoerr.ErrProposalNotFound.WithDetail("id %d", id)
	}
	return p, nil
}

// Vote records an agent's vote on a proposal. Creating the vote
// record is itself the duplicate-vote guard: a second non-claimed
// record for the same (proposal, agent) pair is rejected before any
// tally mutation.
func (r *Registry) Vote(id uint64, agent []byte, prediction bool, stake uint64, signature []byte, now int64) (*VoteRecord, error) {
	p, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	byAgent, ok := r.votes[id]
	if !ok {
		byAgent = make(map[string]*VoteRecord)
		r.votes[id] = byAgent
	}
	if prev, exists := byAgent[string(agent)]; exists && !prev.Claimed {
		return nil, protoerr.ErrAlreadyVoted
	}

	if err := p.castVote(prediction, stake, now); err != nil {
		return nil, err
	}

	rec := &VoteRecord{
		ProposalID:  id,
		Agent:       bytes.Clone(agent),
		StakeAmount: stake,
		Prediction:  prediction,
		Timestamp:   now,
		Signature:   bytes.Clone(signature),
	}
	byAgent[string(agent)] = rec
	return rec, nil
}

// Votes returns all vote records for a proposal, ordered by agent.
func (r *Registry) Votes(id uint64) []*VoteRecord {
	byAgent := r.votes[id]
	keys := make([]string, 0, len(byAgent))
	for k := range byAgent {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*VoteRecord, 0, len(keys))
	for _, k := range keys {
		out = append(out, byAgent[k])
	}
	return out
}

// Proposals returns all proposals ordered by id.
func (r *Registry) Proposals() []*Proposal {
	ids := make([]uint64, 0, len(r.proposals))
	for id := range r.proposals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*Proposal, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.proposals[id])
	}
	return out
}

// Restore reinstates a persisted proposal and its votes, replacing any
// in-memory entries.
func (r *Registry) Restore(p *Proposal, votes []*VoteRecord) {
	r.proposals[p.ID] = p
	byAgent := make(map[string]*VoteRecord, len(votes))
	for _, v := range votes {
		byAgent[string(v.Agent)] = v
	}
	r.votes[p.ID] = byAgent
}
