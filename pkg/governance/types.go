// Package governance implements the proposal state machine: creation,
// quadratic-stake voting, stake-weighted finalization, and delayed
// execution.
package governance

import "fmt"

// Voting and execution bounds, in seconds.
const (
	MinVotingPeriod = 300
	MaxVotingPeriod = 7 * 24 * 3600
	// ExecutionDelay is the mandatory wait between a proposal passing
	// and its effect landing. It mirrors the circuit breaker's
	// request/activate split: decide, then wait, then commit.
	ExecutionDelay = 24 * 3600
)

// MaxParamsLen bounds the opaque policy parameter payload.
const MaxParamsLen = 256

const (
	bpsDenominator   = 10_000
	passThresholdBPS = 5_000
)

// PolicyKind tags the governance action a proposal carries.
type PolicyKind uint8

const (
	PolicyMintAsset PolicyKind = iota
	PolicyBurnAsset
	PolicyUpdateRatio
	PolicyRebalanceVault
)

func (k PolicyKind) String() string {
	switch k {
	case PolicyMintAsset:
		return "MINT_ASSET"
	case PolicyBurnAsset:
		return "BURN_ASSET"
	case PolicyUpdateRatio:
		return "UPDATE_RATIO"
	case PolicyRebalanceVault:
		return "REBALANCE_VAULT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(k))
	}
}

// Valid reports whether k is a known policy kind.
func (k PolicyKind) Valid() bool {
	return k <= PolicyRebalanceVault
}

// Status is a proposal's lifecycle position.
type Status uint8

const (
	StatusActive Status = iota
	StatusPassed
	StatusFailed
	StatusExecuted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "ACTIVE"
	case StatusPassed:
		return "PASSED"
	case StatusFailed:
		return "FAILED"
	case StatusExecuted:
		return "EXECUTED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusExecuted || s == StatusFailed || s == StatusCancelled
}

// Proposal is one governance action. ID, Proposer and Kind are
// immutable after creation; the proposal is owned by the protocol, not
// the proposer.
type Proposal struct {
	ID        uint64
	Proposer  []byte
	Kind      PolicyKind
	Params    []byte
	StartTime int64
	EndTime   int64
	YesStake  uint64
	NoStake   uint64
	Status    Status
	PassedAt  int64
	// ExecutionReceipt is set when the policy effect lands.
	ExecutionReceipt string
}

// VoteRecord is one (proposal, agent) vote. Its existence is the
// duplicate-vote guard: at most one non-claimed record per pair.
type VoteRecord struct {
	ProposalID  uint64
	Agent       []byte
	StakeAmount uint64
	Prediction  bool
	Timestamp   int64
	Claimed     bool
	Signature   []byte
}

// PolicyExecutor applies a passed proposal's effect. The mint/burn/
// ratio/rebalance mechanics live outside the core.
type PolicyExecutor interface {
	Execute(kind PolicyKind, params []byte) error
}
