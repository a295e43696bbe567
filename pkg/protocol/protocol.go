// Package protocol is the governance and risk-control engine. It owns
// the global protocol state and wires authentication, the circuit
// breaker, the oracle, the proposal state machine and the reserve
// vault into one transition surface.
//
// Every operation is a single atomic transition: all checks run before
// any mutation, and a rejected transition leaves no trace (the agent
// nonce included). Committed transitions are appended to the
// hash-chained ledger and persisted when a store is attached.
package protocol

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"

	"github.com/ars-protocol/ars-core/pkg/agentauth"
	"github.com/ars-protocol/ars-core/pkg/breaker"
	"github.com/ars-protocol/ars-core/pkg/config"
	"github.com/ars-protocol/ars-core/pkg/crypto"
	"github.com/ars-protocol/ars-core/pkg/fixedpoint"
	"github.com/ars-protocol/ars-core/pkg/governance"
	"github.com/ars-protocol/ars-core/pkg/ledger"
	"github.com/ars-protocol/ars-core/pkg/observability"
	"github.com/ars-protocol/ars-core/pkg/oracle"
	"github.com/ars-protocol/ars-core/pkg/policy"
	"github.com/ars-protocol/ars-core/pkg/protoerr"
	"github.com/ars-protocol/ars-core/pkg/store"
	"github.com/ars-protocol/ars-core/pkg/vault"
)

// Params are the initialize-time risk parameters.
type Params struct {
	EpochDuration   int64 // seconds
	MintBurnCapBPS  uint16
	StabilityFeeBPS uint16
	VHRThresholdBPS uint16
}

// GlobalState is the protocol singleton record.
type GlobalState struct {
	Authority       []byte
	Params          Params
	ProposalCounter uint64
	LastUpdateSlot  uint64
	Initialized     bool
	VaultSet        bool
}

// Config wires an Engine's collaborators. Authority, VerifierProgram
// and Verifier are required; everything else has a default.
type Config struct {
	Authority       []byte
	VerifierProgram string
	Verifier        agentauth.Verifier
	Profile         *config.RiskProfile
	Logger          *slog.Logger
	Clock           Clock
	Observability   *observability.Provider
	Store           *store.Store
	Executor        governance.PolicyExecutor
	Transfer        vault.Transfer
	Strategy        vault.Rebalancer
}

// Engine is the single-writer protocol state machine.
type Engine struct {
	mu sync.Mutex

	logger   *slog.Logger
	clock    Clock
	obs      *observability.Provider
	db       *store.Store
	executor governance.PolicyExecutor
	transfer vault.Transfer
	strategy vault.Rebalancer
	profile  *config.RiskProfile

	auth     *agentauth.Authenticator
	oracle   *oracle.Oracle
	breaker  *breaker.Breaker
	registry *governance.Registry
	policies *policy.Registry
	vault    *vault.Vault
	log      *ledger.Ledger

	state GlobalState
}

// nopExecutor accepts every policy effect. The mint/burn/ratio
// mechanics live outside the core.
type nopExecutor struct{}

func (nopExecutor) Execute(governance.PolicyKind, []byte) error { return nil }

// New constructs an engine. The protocol starts uninitialized; call
// Initialize before any other transition.
func New(cfg Config) (*Engine, error) {
	if len(cfg.Authority) == 0 {
		return nil, protoerr.ErrUnauthorized.WithDetail("authority identity required")
	}
	if cfg.Verifier == nil {
		return nil, protoerr.ErrMissingSignatureVerification.WithDetail("verifier facility required")
	}
	if cfg.Profile == nil {
		cfg.Profile = config.DefaultProfile()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = NewSystemClock(0)
	}
	if cfg.Observability == nil {
		obs, err := observability.New(context.Background(), &observability.Config{Enabled: false})
		if err != nil {
			return nil, err
		}
		cfg.Observability = obs
	}
	if cfg.Executor == nil {
		cfg.Executor = nopExecutor{}
	}

	return &Engine{
		logger:   cfg.Logger.With("component", "protocol"),
		clock:    cfg.Clock,
		obs:      cfg.Observability,
		db:       cfg.Store,
		executor: cfg.Executor,
		transfer: cfg.Transfer,
		strategy: cfg.Strategy,
		profile:  cfg.Profile,
		auth:     agentauth.New(cfg.VerifierProgram, cfg.Verifier),
		oracle:   oracle.New(cfg.Authority, cfg.Profile.Oracle.UpdateIntervalSeconds, cfg.Profile.Oracle.SlotBuffer),
		breaker:  breaker.New(cfg.Profile.Breaker.ActivationDelaySeconds),
		registry: governance.NewRegistry(),
		policies: policy.DefaultRegistry(),
		vault:    nil,
		log:      ledger.New(),
		state:    GlobalState{Authority: append([]byte(nil), cfg.Authority...)},
	}, nil
}

// Initialize installs the risk parameters. One-time.
func (e *Engine) Initialize(ctx context.Context, p Params) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	finish := e.observe(ctx, "initialize")

	err := e.initialize(ctx, p)
	finish(err)
	return err
}

func (e *Engine) initialize(ctx context.Context, p Params) error {
	if e.state.Initialized {
		return protoerr.ErrAlreadyInitialized
	}
	if p.EpochDuration <= 0 {
		return protoerr.ErrInvalidEpochDuration
	}
	if p.MintBurnCapBPS > 10_000 {
		return protoerr.ErrInvalidMintBurnCap
	}
	if p.VHRThresholdBPS < 10_000 {
		return protoerr.ErrInvalidVHRThreshold
	}

	e.state.Params = p
	e.state.Initialized = true

	e.appendLedger(ctx, ledger.EntryInitialized, e.actorID(e.state.Authority), map[string]any{
		"epoch_duration":    p.EpochDuration,
		"mint_burn_cap_bps": p.MintBurnCapBPS,
		"vhr_threshold_bps": p.VHRThresholdBPS,
	})
	e.logger.InfoContext(ctx, "protocol initialized",
		"epoch_duration", p.EpochDuration,
		"mint_burn_cap_bps", p.MintBurnCapBPS,
		"vhr_threshold_bps", p.VHRThresholdBPS,
	)
	return nil
}

// SetReserveVault attaches the custody vault. One-time, authority
// only.
func (e *Engine) SetReserveVault(ctx context.Context, caller []byte, v *vault.Vault) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	finish := e.observe(ctx, "set_reserve_vault")

	err := func() error {
		if err := e.requireInitialized(); err != nil {
			return err
		}
		if err := e.requireAuthority(caller); err != nil {
			return err
		}
		if e.state.VaultSet {
			return protoerr.ErrInvalidReserveVault.WithDetail("vault already set")
		}
		if v == nil {
			return protoerr.ErrInvalidReserveVault
		}
		e.vault = v
		e.state.VaultSet = true
		e.appendLedger(ctx, ledger.EntryVaultSet, e.actorID(caller), nil)
		return nil
	}()
	finish(err)
	return err
}

// CreateProposal opens a new governance proposal and returns its id.
func (e *Engine) CreateProposal(ctx context.Context, act *agentauth.Action, kind governance.PolicyKind, params []byte, duration int64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	finish := e.observe(ctx, "create_proposal")

	id, err := e.createProposal(ctx, act, kind, params, duration)
	finish(err)
	return id, err
}

func (e *Engine) createProposal(ctx context.Context, act *agentauth.Action, kind governance.PolicyKind, params []byte, duration int64) (uint64, error) {
	if err := e.requireInitialized(); err != nil {
		return 0, err
	}
	now := e.clock.Now()
	expected := crypto.ProposalMessage(act.Agent, uint8(kind), params, act.Timestamp, act.Nonce)
	if err := e.auth.Authenticate(act, expected, now); err != nil {
		return 0, err
	}
	if err := e.breaker.Gate(); err != nil {
		return 0, err
	}
	validated, err := e.policies.Validate(kind, params)
	if err != nil {
		return 0, err
	}

	id := e.state.ProposalCounter
	nextCounter, err := fixedpoint.CheckedAdd(id, 1)
	if err != nil {
		return 0, protoerr.ErrCounterOverflow
	}
	p, err := governance.NewProposal(id, act.Agent, kind, params, now.Unix(), duration)
	if err != nil {
		return 0, err
	}
	if err := e.registry.Add(p); err != nil {
		return 0, err
	}

	// all checks passed: commit
	e.state.ProposalCounter = nextCounter
	e.auth.Commit(act.Agent, now)

	e.appendLedger(ctx, ledger.EntryProposalCreated, e.actorID(act.Agent), map[string]any{
		"proposal_id": id,
		"policy_kind": kind.String(),
		"params_hash": validated.ParamsHash,
		"end_time":    p.EndTime,
	})
	e.persistProposal(ctx, p)
	e.persistAgent(ctx, act.Agent)

	e.logger.InfoContext(ctx, "proposal created",
		"proposal_id", id,
		"policy_kind", kind.String(),
		"duration", duration,
	)
	return id, nil
}

// Vote records an agent's quadratic-stake vote on an active proposal.
func (e *Engine) Vote(ctx context.Context, act *agentauth.Action, proposalID uint64, prediction bool, stake uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	finish := e.observe(ctx, "vote")

	err := e.vote(ctx, act, proposalID, prediction, stake)
	finish(err)
	return err
}

func (e *Engine) vote(ctx context.Context, act *agentauth.Action, proposalID uint64, prediction bool, stake uint64) error {
	if err := e.requireInitialized(); err != nil {
		return err
	}
	now := e.clock.Now()
	expected := crypto.VoteMessage(act.Agent, proposalID, prediction, stake, act.Timestamp, act.Nonce)
	if err := e.auth.Authenticate(act, expected, now); err != nil {
		return err
	}
	if err := e.breaker.Gate(); err != nil {
		return err
	}

	rec, err := e.registry.Vote(proposalID, act.Agent, prediction, stake, act.Proof.Signature, now.Unix())
	if err != nil {
		return err
	}
	e.auth.Commit(act.Agent, now)
	e.obs.RecordVoteStake(ctx, stake)

	e.appendLedger(ctx, ledger.EntryVoteCast, e.actorID(act.Agent), map[string]any{
		"proposal_id": proposalID,
		"prediction":  prediction,
		"stake":       stake,
	})
	if p, perr := e.registry.Get(proposalID); perr == nil {
		e.persistProposal(ctx, p)
	}
	e.persistVote(ctx, rec)
	e.persistAgent(ctx, act.Agent)

	e.logger.InfoContext(ctx, "vote cast",
		"proposal_id", proposalID,
		"prediction", prediction,
		"stake", stake,
	)
	return nil
}

// FinalizeOrExecute advances a proposal one phase: an Active proposal
// past its end time is finalized, a Passed proposal past the execution
// delay is executed. Authority only. Returns the resulting status.
func (e *Engine) FinalizeOrExecute(ctx context.Context, caller []byte, proposalID uint64) (governance.Status, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	finish := e.observe(ctx, "finalize_or_execute")

	st, err := e.finalizeOrExecute(ctx, caller, proposalID)
	finish(err)
	return st, err
}

func (e *Engine) finalizeOrExecute(ctx context.Context, caller []byte, proposalID uint64) (governance.Status, error) {
	if err := e.requireInitialized(); err != nil {
		return 0, err
	}
	if err := e.requireAuthority(caller); err != nil {
		return 0, err
	}
	p, err := e.registry.Get(proposalID)
	if err != nil {
		return 0, err
	}
	now := e.clock.Now().Unix()

	switch p.Status {
	case governance.StatusActive:
		yesBPS, err := p.Finalize(now)
		if err != nil {
			return p.Status, err
		}
		e.appendLedger(ctx, ledger.EntryProposalFinalized, e.actorID(caller), map[string]any{
			"proposal_id": proposalID,
			"yes_bps":     yesBPS,
			"status":      p.Status.String(),
		})
		e.persistProposal(ctx, p)
		e.logger.InfoContext(ctx, "proposal finalized",
			"proposal_id", proposalID,
			"yes_bps", yesBPS,
			"status", p.Status.String(),
		)
		return p.Status, nil

	case governance.StatusPassed:
		if err := p.Execute(now, e.executor); err != nil {
			return p.Status, err
		}
		e.appendLedger(ctx, ledger.EntryProposalExecuted, e.actorID(caller), map[string]any{
			"proposal_id": proposalID,
			"receipt":     p.ExecutionReceipt,
		})
		e.persistProposal(ctx, p)
		e.logger.InfoContext(ctx, "proposal executed",
			"proposal_id", proposalID,
			"receipt", p.ExecutionReceipt,
		)
		return p.Status, nil

	default:
		return p.Status, protoerr.ErrProposalNotReadyForExecution.WithDetail("status %s", p.Status)
	}
}

// CancelProposal administratively cancels a pre-terminal proposal.
// Authority only.
func (e *Engine) CancelProposal(ctx context.Context, caller []byte, proposalID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	finish := e.observe(ctx, "cancel_proposal")

	err := func() error {
		if err := e.requireInitialized(); err != nil {
			return err
		}
		if err := e.requireAuthority(caller); err != nil {
			return err
		}
		p, err := e.registry.Get(proposalID)
		if err != nil {
			return err
		}
		if err := p.Cancel(); err != nil {
			return err
		}
		e.appendLedger(ctx, ledger.EntryProposalCancelled, e.actorID(caller), map[string]any{
			"proposal_id": proposalID,
		})
		e.persistProposal(ctx, p)
		e.logger.InfoContext(ctx, "proposal cancelled", "proposal_id", proposalID)
		return nil
	}()
	finish(err)
	return err
}

// UpdateOracle commits a new ILI observation. Oracle authority only.
func (e *Engine) UpdateOracle(ctx context.Context, caller []byte, u oracle.Update) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	finish := e.observe(ctx, "update_oracle")

	err := func() error {
		if err := e.requireInitialized(); err != nil {
			return err
		}
		now := e.clock.Now().Unix()
		slot := e.clock.Slot()
		if err := e.oracle.Apply(caller, u, now, slot); err != nil {
			return err
		}
		e.state.LastUpdateSlot = slot

		e.appendLedger(ctx, ledger.EntryOracleUpdated, e.actorID(caller), map[string]any{
			"value":          u.Value,
			"yield_bps":      u.YieldBPS,
			"volatility_bps": u.VolatilityBPS,
			"tvl":            u.TVL,
			"slot":           slot,
		})
		e.logger.InfoContext(ctx, "oracle updated", "value", u.Value, "slot", slot)
		return nil
	}()
	finish(err)
	return err
}

// QueryOracle returns the current ILI value. Pure read.
func (e *Engine) QueryOracle() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.oracle.Query()
}

// RequestCircuitBreaker arms the breaker timelock. Authority only.
func (e *Engine) RequestCircuitBreaker(ctx context.Context, caller []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	finish := e.observe(ctx, "request_circuit_breaker")

	err := func() error {
		if err := e.requireInitialized(); err != nil {
			return err
		}
		if err := e.requireAuthority(caller); err != nil {
			return err
		}
		now := e.clock.Now().Unix()
		if err := e.breaker.Request(now); err != nil {
			return err
		}
		e.advisoryChecks(ctx, now)
		e.appendLedger(ctx, ledger.EntryBreakerRequested, e.actorID(caller), nil)
		e.logger.WarnContext(ctx, "circuit breaker requested", "requested_at", now)
		return nil
	}()
	finish(err)
	return err
}

// advisoryChecks logs health signals alongside a breaker request.
// Automatic activation on these signals is an extension point.
func (e *Engine) advisoryChecks(ctx context.Context, now int64) {
	if e.vault != nil && e.vault.VHR() < e.state.Params.VHRThresholdBPS {
		e.logger.WarnContext(ctx, "vault health below threshold",
			"vhr_bps", e.vault.VHR(),
			"threshold_bps", e.state.Params.VHRThresholdBPS,
		)
	}
	if e.oracle.Stale(now, e.profile.Oracle.MaxAgeSeconds) {
		e.logger.WarnContext(ctx, "oracle is stale",
			"last_update", e.oracle.LastUpdate(),
			"max_age", e.profile.Oracle.MaxAgeSeconds,
		)
	}
}

// ActivateCircuitBreaker trips the breaker once the timelock has
// elapsed. Authority only.
func (e *Engine) ActivateCircuitBreaker(ctx context.Context, caller []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	finish := e.observe(ctx, "activate_circuit_breaker")

	err := func() error {
		if err := e.requireInitialized(); err != nil {
			return err
		}
		if err := e.requireAuthority(caller); err != nil {
			return err
		}
		if err := e.breaker.Activate(e.clock.Now().Unix()); err != nil {
			return err
		}
		e.appendLedger(ctx, ledger.EntryBreakerActivated, e.actorID(caller), nil)
		e.logger.WarnContext(ctx, "circuit breaker active")
		return nil
	}()
	finish(err)
	return err
}

// DeactivateCircuitBreaker clears the breaker immediately. Recovery is
// never timelocked. Authority only.
func (e *Engine) DeactivateCircuitBreaker(ctx context.Context, caller []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	finish := e.observe(ctx, "deactivate_circuit_breaker")

	err := func() error {
		if err := e.requireInitialized(); err != nil {
			return err
		}
		if err := e.requireAuthority(caller); err != nil {
			return err
		}
		e.breaker.Deactivate()
		e.appendLedger(ctx, ledger.EntryBreakerCleared, e.actorID(caller), nil)
		e.logger.InfoContext(ctx, "circuit breaker deactivated")
		return nil
	}()
	finish(err)
	return err
}

// Deposit moves funds from a holder into the vault.
func (e *Engine) Deposit(ctx context.Context, from, asset string, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	finish := e.observe(ctx, "deposit")

	err := func() error {
		if err := e.requireVault(); err != nil {
			return err
		}
		if err := e.vault.Deposit(e.transfer, from, asset, amount); err != nil {
			return err
		}
		e.appendLedger(ctx, ledger.EntryVaultDeposit, from, map[string]any{
			"asset":  asset,
			"amount": amount,
		})
		e.logger.InfoContext(ctx, "vault deposit", "asset", asset, "amount", amount)
		return nil
	}()
	finish(err)
	return err
}

// Withdraw moves funds out of the vault. Authority only.
func (e *Engine) Withdraw(ctx context.Context, caller []byte, dest, asset string, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	finish := e.observe(ctx, "withdraw")

	err := func() error {
		if err := e.requireVault(); err != nil {
			return err
		}
		if err := e.vault.Withdraw(e.transfer, caller, dest, asset, amount); err != nil {
			return err
		}
		e.appendLedger(ctx, ledger.EntryVaultWithdraw, e.actorID(caller), map[string]any{
			"asset":  asset,
			"amount": amount,
		})
		e.logger.InfoContext(ctx, "vault withdrawal", "asset", asset, "amount", amount)
		return nil
	}()
	finish(err)
	return err
}

// Rebalance triggers the external reallocation strategy. Authority
// only.
func (e *Engine) Rebalance(ctx context.Context, caller []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	finish := e.observe(ctx, "rebalance")

	err := func() error {
		if err := e.requireVault(); err != nil {
			return err
		}
		now := e.clock.Now().Unix()
		if err := e.vault.Rebalance(caller, e.strategy, now); err != nil {
			return err
		}
		e.appendLedger(ctx, ledger.EntryVaultRebalance, e.actorID(caller), map[string]any{
			"last_rebalance": now,
		})
		e.logger.InfoContext(ctx, "vault rebalanced", "at", now)
		return nil
	}()
	finish(err)
	return err
}

// State returns a copy of the global state.
func (e *Engine) State() GlobalState {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.state
	st.Authority = append([]byte(nil), e.state.Authority...)
	return st
}

// Proposal returns a proposal by id.
func (e *Engine) Proposal(id uint64) (*governance.Proposal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Get(id)
}

// Votes returns the vote records for a proposal.
func (e *Engine) Votes(id uint64) []*governance.VoteRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Votes(id)
}

// Nonce returns the nonce an agent's next signed message must embed.
func (e *Engine) Nonce(agent []byte) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.auth.Nonce(agent)
}

// BreakerStatus returns the circuit breaker phase.
func (e *Engine) BreakerStatus() breaker.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.breaker.Status()
}

// Ledger returns the transition log.
func (e *Engine) Ledger() *ledger.Ledger {
	return e.log
}

// Restore reloads proposals, votes and agent nonce state from the
// attached store. Call once at startup, before serving transitions.
func (e *Engine) Restore(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.db == nil {
		return nil
	}

	proposals, err := e.db.Proposals(ctx)
	if err != nil {
		return err
	}
	var maxID uint64
	var seen bool
	for _, p := range proposals {
		votes, err := e.db.Votes(ctx, p.ID)
		if err != nil {
			return err
		}
		e.registry.Restore(p, votes)
		if p.ID >= maxID {
			maxID = p.ID
			seen = true
		}
	}
	if seen {
		e.state.ProposalCounter = maxID + 1
	}

	states, err := e.db.AgentStates(ctx)
	if err != nil {
		return err
	}
	for _, st := range states {
		e.auth.Restore(st)
	}

	entries, err := e.db.LedgerEntries(ctx)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		restored, err := ledger.Restore(entries)
		if err != nil {
			return err
		}
		e.log = restored
	}

	e.logger.InfoContext(ctx, "state restored",
		"proposals", len(proposals),
		"agents", len(states),
		"ledger_entries", len(entries),
	)
	return nil
}

func (e *Engine) requireInitialized() error {
	if !e.state.Initialized {
		return protoerr.ErrNotInitialized
	}
	return nil
}

func (e *Engine) requireAuthority(caller []byte) error {
	if !bytes.Equal(caller, e.state.Authority) {
		return protoerr.ErrUnauthorized
	}
	return nil
}

func (e *Engine) requireVault() error {
	if err := e.requireInitialized(); err != nil {
		return err
	}
	if !e.state.VaultSet || e.vault == nil {
		return protoerr.ErrInvalidReserveVault.WithDetail("vault not set")
	}
	return nil
}

func (e *Engine) observe(ctx context.Context, op string) func(error) {
	ctx, finish := e.obs.TrackOperation(ctx, op)
	return func(err error) {
		if err != nil {
			e.obs.RecordRejection(ctx, op, errorCode(err))
		} else {
			e.obs.RecordTransition(ctx, op)
		}
		finish(err)
	}
}

func (e *Engine) appendLedger(ctx context.Context, entryType, actor string, data map[string]any) {
	seq, err := e.log.Append(entryType, actor, data)
	if err != nil {
		e.logger.ErrorContext(ctx, "ledger append failed", "entry_type", entryType, "error", err)
		return
	}
	if e.db != nil {
		entry, err := e.log.Get(seq)
		if err != nil {
			return
		}
		if err := e.db.AppendLedgerEntry(ctx, *entry); err != nil {
			e.logger.ErrorContext(ctx, "ledger persistence failed", "sequence", seq, "error", err)
		}
	}
}

func (e *Engine) persistProposal(ctx context.Context, p *governance.Proposal) {
	if e.db == nil {
		return
	}
	if err := e.db.SaveProposal(ctx, p); err != nil {
		e.logger.ErrorContext(ctx, "proposal persistence failed", "proposal_id", p.ID, "error", err)
	}
}

func (e *Engine) persistVote(ctx context.Context, v *governance.VoteRecord) {
	if e.db == nil {
		return
	}
	if err := e.db.SaveVote(ctx, v); err != nil {
		e.logger.ErrorContext(ctx, "vote persistence failed", "proposal_id", v.ProposalID, "error", err)
	}
}

func (e *Engine) persistAgent(ctx context.Context, agent []byte) {
	if e.db == nil {
		return
	}
	for _, st := range e.auth.States() {
		if bytes.Equal(st.Agent, agent) {
			if err := e.db.SaveAgentState(ctx, st); err != nil {
				e.logger.ErrorContext(ctx, "agent state persistence failed", "error", err)
			}
			return
		}
	}
}

func (e *Engine) actorID(identity []byte) string {
	return hex.EncodeToString(identity)
}

func errorCode(err error) string {
	var pe *protoerr.Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return "INTERNAL"
}
