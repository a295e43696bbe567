package governance

import (
	"bytes"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/ars-protocol/ars-core/pkg/fixedpoint"
	"github.com/ars-protocol/ars-core/pkg/protoerr"
)

// NewProposal validates creation parameters and returns an Active
// proposal. The caller supplies the id from the monotonic global
// counter.
func NewProposal(id uint64, proposer []byte, kind PolicyKind, params []byte, now, duration int64) (*Proposal, error) {
	if !kind.Valid() {
		return nil, protoerr.ErrInvalidPolicyParams.WithDetail("unknown policy kind %d", uint8(kind))
	}
	if duration < MinVotingPeriod || duration > MaxVotingPeriod {
		return nil, protoerr.ErrInvalidVotingPeriod
	}
	if len(params) > MaxParamsLen {
		return nil, protoerr.ErrInvalidPolicyParams.WithDetail("%d bytes exceeds limit %d", len(params), MaxParamsLen)
	}
	return &Proposal{
		ID:        id,
		Proposer:  bytes.Clone(proposer),
		Kind:      kind,
		Params:    bytes.Clone(params),
		StartTime: now,
		EndTime:   now + duration,
		Status:    StatusActive,
	}, nil
}

// castVote applies a vote's quadratic power to the tallies. All
// validation happens before any mutation.
func (p *Proposal) castVote(prediction bool, stake uint64, now int64) error {
	if stake == 0 {
		return protoerr.ErrInvalidStakeAmount
	}
	if p.Status != StatusActive {
		return protoerr.ErrProposalNotActive
	}
	if now >= p.EndTime {
		return protoerr.ErrProposalNotActive.WithDetail("voting window closed at %d", p.EndTime)
	}

	power, err := fixedpoint.VotingPower(stake)
	if err != nil {
		return err
	}

	if prediction {
		sum, err := fixedpoint.CheckedAdd(p.YesStake, power)
		if err != nil {
			return protoerr.ErrArithmeticOverflow
		}
		p.YesStake = sum
	} else {
		sum, err := fixedpoint.CheckedAdd(p.NoStake, power)
		if err != nil {
			return protoerr.ErrArithmeticOverflow
		}
		p.NoStake = sum
	}
	return nil
}

// Finalize tallies a proposal whose voting window has closed and
// moves it to Passed or Failed. Returns the yes share in basis
// points. Strict majority: exactly 50% fails, biasing ties toward
// protocol conservatism.
func (p *Proposal) Finalize(now int64) (uint64, error) {
	if p.Status != StatusActive {
		return 0, protoerr.ErrProposalNotActive
	}
	if now < p.EndTime {
		return 0, protoerr.ErrProposalStillActive
	}

	total, err := fixedpoint.CheckedAdd(p.YesStake, p.NoStake)
	if err != nil {
		return 0, protoerr.ErrArithmeticOverflow
	}
	if total == 0 {
		return 0, protoerr.ErrInsufficientStake
	}
	if p.YesStake > math.MaxUint64/bpsDenominator {
		return 0, protoerr.ErrArithmeticOverflow
	}
	yesBPS := p.YesStake * bpsDenominator / total

	if yesBPS > passThresholdBPS {
		p.Status = StatusPassed
		p.PassedAt = now
	} else {
		p.Status = StatusFailed
	}
	return yesBPS, nil
}

// Execute applies a Passed proposal's policy effect once the
// execution delay has elapsed. Execution is deliberately not gated by
// the circuit breaker: governance already in flight is not stalled by
// an emergency freeze.
func (p *Proposal) Execute(now int64, exec PolicyExecutor) error {
	if p.Status != StatusPassed {
		return protoerr.ErrProposalNotReadyForExecution
	}
	if now < p.PassedAt+ExecutionDelay {
		return protoerr.ErrExecutionDelayNotMet
	}

	if exec != nil {
		if err := exec.Execute(p.Kind, p.Params); err != nil {
			return fmt.Errorf("policy effect %s: %w", p.Kind, err)
		}
	}

	p.Status = StatusExecuted
	p.ExecutionReceipt = uuid.NewString()
	return nil
}

// Cancel administratively terminates a pre-terminal proposal.
func (p *Proposal) Cancel() error {
	if p.Status.Terminal() {
		return protoerr.ErrProposalNotActive.WithDetail("status %s is terminal", p.Status)
	}
	p.Status = StatusCancelled
	return nil
}
