// Package store persists protocol state in SQLite so a restarted node
// resumes with its proposals, votes, agent nonces and audit log
// intact.
package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ars-protocol/ars-core/pkg/agentauth"
	"github.com/ars-protocol/ars-core/pkg/governance"
	"github.com/ars-protocol/ars-core/pkg/ledger"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed persistence layer.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dsn and runs migrations.
// Use ":memory:" for an ephemeral store.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing database handle and runs migrations.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS proposals (
		id INTEGER PRIMARY KEY,
		proposer TEXT NOT NULL,
		kind INTEGER NOT NULL,
		params BLOB,
		start_time INTEGER NOT NULL,
		end_time INTEGER NOT NULL,
		yes_stake INTEGER NOT NULL DEFAULT 0,
		no_stake INTEGER NOT NULL DEFAULT 0,
		status INTEGER NOT NULL,
		passed_at INTEGER NOT NULL DEFAULT 0,
		execution_receipt TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS votes (
		proposal_id INTEGER NOT NULL,
		agent TEXT NOT NULL,
		stake_amount INTEGER NOT NULL,
		prediction INTEGER NOT NULL,
		timestamp INTEGER NOT NULL,
		claimed INTEGER NOT NULL DEFAULT 0,
		signature BLOB,
		PRIMARY KEY (proposal_id, agent)
	);
	CREATE TABLE IF NOT EXISTS agent_states (
		agent TEXT PRIMARY KEY,
		nonce INTEGER NOT NULL,
		last_action_timestamp INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS ledger_entries (
		sequence INTEGER PRIMARY KEY,
		entry_type TEXT NOT NULL,
		actor TEXT,
		data JSON,
		prev_hash TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		timestamp DATETIME NOT NULL
	);`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

// SaveProposal upserts a proposal row.
func (s *Store) SaveProposal(ctx context.Context, p *governance.Proposal) error {
	query := `INSERT INTO proposals (
		id, proposer, kind, params, start_time, end_time, yes_stake, no_stake, status, passed_at, execution_receipt
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		yes_stake = excluded.yes_stake,
		no_stake = excluded.no_stake,
		status = excluded.status,
		passed_at = excluded.passed_at,
		execution_receipt = excluded.execution_receipt`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, hex.EncodeToString(p.Proposer), int(p.Kind), p.Params,
		p.StartTime, p.EndTime, p.YesStake, p.NoStake, int(p.Status), p.PassedAt, p.ExecutionReceipt,
	)
	if err != nil {
		return fmt.Errorf("save proposal %d: %w", p.ID, err)
	}
	return nil
}

// Proposals returns all proposals ordered by id.
func (s *Store) Proposals(ctx context.Context) ([]*governance.Proposal, error) {
	query := `
		SELECT id, proposer, kind, params, start_time, end_time, yes_stake, no_stake, status, passed_at, execution_receipt
		FROM proposals
		ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*governance.Proposal
	for rows.Next() {
		var (
			p        governance.Proposal
			proposer string
			kind     int
			status   int
		)
		if err := rows.Scan(&p.ID, &proposer, &kind, &p.Params, &p.StartTime, &p.EndTime,
			&p.YesStake, &p.NoStake, &status, &p.PassedAt, &p.ExecutionReceipt); err != nil {
			return nil, err
		}
		p.Proposer, err = hex.DecodeString(proposer)
		if err != nil {
			return nil, fmt.Errorf("decode proposer for proposal %d: %w", p.ID, err)
		}
		p.Kind = governance.PolicyKind(kind)
		p.Status = governance.Status(status)
		out = append(out, &p)
	}
	return out, rows.Err()
}

// SaveVote upserts a vote row.
func (s *Store) SaveVote(ctx context.Context, v *governance.VoteRecord) error {
	query := `INSERT INTO votes (
		proposal_id, agent, stake_amount, prediction, timestamp, claimed, signature
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(proposal_id, agent) DO UPDATE SET
		stake_amount = excluded.stake_amount,
		prediction = excluded.prediction,
		timestamp = excluded.timestamp,
		claimed = excluded.claimed,
		signature = excluded.signature`

	_, err := s.db.ExecContext(ctx, query,
		v.ProposalID, hex.EncodeToString(v.Agent), v.StakeAmount, boolToInt(v.Prediction),
		v.Timestamp, boolToInt(v.Claimed), v.Signature,
	)
	if err != nil {
		return fmt.Errorf("save vote (%d, %x): %w", v.ProposalID, v.Agent, err)
	}
	return nil
}

// Votes returns all votes for a proposal.
func (s *Store) Votes(ctx context.Context, proposalID uint64) ([]*governance.VoteRecord, error) {
	query := `
		SELECT proposal_id, agent, stake_amount, prediction, timestamp, claimed, signature
		FROM votes
		WHERE proposal_id = ?
		ORDER BY agent ASC`
	rows, err := s.db.QueryContext(ctx, query, proposalID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*governance.VoteRecord
	for rows.Next() {
		var (
			v          governance.VoteRecord
			agent      string
			prediction int
			claimed    int
		)
		if err := rows.Scan(&v.ProposalID, &agent, &v.StakeAmount, &prediction, &v.Timestamp, &claimed, &v.Signature); err != nil {
			return nil, err
		}
		v.Agent, err = hex.DecodeString(agent)
		if err != nil {
			return nil, fmt.Errorf("decode agent in vote for proposal %d: %w", v.ProposalID, err)
		}
		v.Prediction = prediction != 0
		v.Claimed = claimed != 0
		out = append(out, &v)
	}
	return out, rows.Err()
}

// SaveAgentState upserts the nonce registry row for one agent.
func (s *Store) SaveAgentState(ctx context.Context, st agentauth.AgentState) error {
	query := `INSERT INTO agent_states (agent, nonce, last_action_timestamp)
	VALUES (?, ?, ?)
	ON CONFLICT(agent) DO UPDATE SET
		nonce = excluded.nonce,
		last_action_timestamp = excluded.last_action_timestamp`

	_, err := s.db.ExecContext(ctx, query, hex.EncodeToString(st.Agent), st.Nonce, st.LastActionTimestamp)
	if err != nil {
		return fmt.Errorf("save agent state %x: %w", st.Agent, err)
	}
	return nil
}

// AgentStates returns all persisted agent nonce records.
func (s *Store) AgentStates(ctx context.Context) ([]agentauth.AgentState, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT agent, nonce, last_action_timestamp FROM agent_states`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []agentauth.AgentState
	for rows.Next() {
		var (
			st    agentauth.AgentState
			agent string
		)
		if err := rows.Scan(&agent, &st.Nonce, &st.LastActionTimestamp); err != nil {
			return nil, err
		}
		st.Agent, err = hex.DecodeString(agent)
		if err != nil {
			return nil, fmt.Errorf("decode agent state key: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// AppendLedgerEntry persists one audit log entry.
func (s *Store) AppendLedgerEntry(ctx context.Context, e ledger.Entry) error {
	dataJSON, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("marshal ledger data: %w", err)
	}
	query := `INSERT INTO ledger_entries (sequence, entry_type, actor, data, prev_hash, content_hash, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		e.Sequence, e.EntryType, e.Actor, string(dataJSON), e.PrevHash, e.ContentHash,
		e.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append ledger entry %d: %w", e.Sequence, err)
	}
	return nil
}

// LedgerEntries returns the persisted audit log, oldest first.
func (s *Store) LedgerEntries(ctx context.Context) ([]ledger.Entry, error) {
	query := `
		SELECT sequence, entry_type, actor, data, prev_hash, content_hash, timestamp
		FROM ledger_entries
		ORDER BY sequence ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []ledger.Entry
	for rows.Next() {
		var (
			e         ledger.Entry
			actor     sql.NullString
			dataJSON  sql.NullString
			timestamp string
		)
		if err := rows.Scan(&e.Sequence, &e.EntryType, &actor, &dataJSON, &e.PrevHash, &e.ContentHash, &timestamp); err != nil {
			return nil, err
		}
		e.Actor = actor.String
		if dataJSON.Valid && dataJSON.String != "" {
			if err := json.Unmarshal([]byte(dataJSON.String), &e.Data); err != nil {
				return nil, fmt.Errorf("decode ledger data at seq %d: %w", e.Sequence, err)
			}
		}
		e.Timestamp, err = parseTime(timestamp)
		if err != nil {
			return nil, fmt.Errorf("decode ledger timestamp at seq %d: %w", e.Sequence, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err == nil {
		return t, nil
	}
	if t, err2 := time.Parse(time.RFC3339, value); err2 == nil {
		return t, nil
	}
	return time.Time{}, err
}
