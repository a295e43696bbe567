// Package ledger records every protocol state transition in an
// append-only, hash-chained log. Each entry commits to its
// predecessor, so any rewrite of history breaks verification.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/ars-protocol/ars-core/pkg/canonical"
)

// Entry types, one per recorded transition.
const (
	EntryInitialized       = "PROTOCOL_INITIALIZED"
	EntryVaultSet          = "VAULT_SET"
	EntryProposalCreated   = "PROPOSAL_CREATED"
	EntryVoteCast          = "VOTE_CAST"
	EntryProposalFinalized = "PROPOSAL_FINALIZED"
	EntryProposalExecuted  = "PROPOSAL_EXECUTED"
	EntryProposalCancelled = "PROPOSAL_CANCELLED"
	EntryOracleUpdated     = "ORACLE_UPDATED"
	EntryBreakerRequested  = "BREAKER_REQUESTED"
	EntryBreakerActivated  = "BREAKER_ACTIVATED"
	EntryBreakerCleared    = "BREAKER_CLEARED"
	EntryVaultDeposit      = "VAULT_DEPOSIT"
	EntryVaultWithdraw     = "VAULT_WITHDRAW"
	EntryVaultRebalance    = "VAULT_REBALANCE"
)

const genesisHash = "genesis"

// Entry is an immutable, hash-chained record of one transition.
type Entry struct {
	Sequence    uint64         `json:"sequence"`
	EntryType   string         `json:"entry_type"`
	Actor       string         `json:"actor,omitempty"`
	Data        map[string]any `json:"data"`
	PrevHash    string         `json:"prev_hash"`
	ContentHash string         `json:"content_hash"`
	Timestamp   time.Time      `json:"timestamp"`
}

// Ledger is the append-only transition log.
type Ledger struct {
	mu       sync.RWMutex
	entries  []Entry
	headHash string
	clock    func() time.Time
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		entries:  make([]Entry, 0),
		headHash: genesisHash,
		clock:    time.Now,
	}
}

// WithClock overrides clock for testing.
func (l *Ledger) WithClock(clock func() time.Time) *Ledger {
	l.clock = clock
	return l
}

// Append records a transition and returns its sequence number.
func (l *Ledger) Append(entryType, actor string, data map[string]any) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seq := uint64(len(l.entries)) + 1
	contentHash, err := entryHash(seq, entryType, actor, data, l.headHash)
	if err != nil {
		return 0, fmt.Errorf("hash ledger entry: %w", err)
	}

	l.entries = append(l.entries, Entry{
		Sequence:    seq,
		EntryType:   entryType,
		Actor:       actor,
		Data:        data,
		PrevHash:    l.headHash,
		ContentHash: contentHash,
		Timestamp:   l.clock(),
	})
	l.headHash = contentHash
	return seq, nil
}

func entryHash(seq uint64, entryType, actor string, data map[string]any, prevHash string) (string, error) {
	return canonical.Hash(struct {
		Seq   uint64         `json:"seq"`
		Type  string         `json:"type"`
		Actor string         `json:"actor"`
		Data  map[string]any `json:"data"`
		Prev  string         `json:"prev"`
	}{seq, entryType, actor, data, prevHash})
}

// Get retrieves an entry by sequence number.
func (l *Ledger) Get(seq uint64) (*Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if seq == 0 || seq > uint64(len(l.entries)) {
		return nil, fmt.Errorf("sequence %d out of range [1, %d]", seq, len(l.entries))
	}
	e := l.entries[seq-1]
	return &e, nil
}

// Head returns the current head hash.
func (l *Ledger) Head() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.headHash
}

// Length returns the number of entries.
func (l *Ledger) Length() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a copy of the full log, oldest first.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Verify walks the chain and recomputes every hash.
func (l *Ledger) Verify() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	prevHash := genesisHash
	for _, entry := range l.entries {
		if entry.PrevHash != prevHash {
			return fmt.Errorf("chain broken at seq %d: expected prev %s, got %s", entry.Sequence, prevHash, entry.PrevHash)
		}
		computed, err := entryHash(entry.Sequence, entry.EntryType, entry.Actor, entry.Data, entry.PrevHash)
		if err != nil {
			return fmt.Errorf("rehash seq %d: %w", entry.Sequence, err)
		}
		if computed != entry.ContentHash {
			return fmt.Errorf("hash mismatch at seq %d", entry.Sequence)
		}
		prevHash = entry.ContentHash
	}
	return nil
}

// Restore rebuilds the ledger from persisted entries after verifying
// the chain.
func Restore(entries []Entry) (*Ledger, error) {
	l := New()
	l.entries = make([]Entry, len(entries))
	copy(l.entries, entries)
	if len(entries) > 0 {
		l.headHash = entries[len(entries)-1].ContentHash
	}
	if err := l.Verify(); err != nil {
		return nil, err
	}
	return l, nil
}
