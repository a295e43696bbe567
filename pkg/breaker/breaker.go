// Package breaker implements the two-phase, timelocked circuit
// breaker: Idle → Requested → Active → Idle.
//
// The split prevents a single compromised or rushed authority action
// from instantly halting the protocol, while deactivation stays
// immediate so recovery is never itself delayed.
package breaker

import (
	"fmt"

	"github.com/ars-protocol/ars-core/pkg/protoerr"
)

// DefaultDelay is the mandatory wait between request and activation.
const DefaultDelay = 3600

// Status is the breaker's observable state.
type Status int

const (
	StatusIdle Status = iota
	StatusRequested
	StatusActive
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusRequested:
		return "REQUESTED"
	case StatusActive:
		return "ACTIVE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// Breaker is the protocol-wide kill switch. Authority checks belong to
// the caller (the engine owns the authority identity); the breaker is
// purely the timelocked state machine.
type Breaker struct {
	active      bool
	requestedAt int64
	delay       int64
}

// New creates a breaker with the given activation delay in seconds.
// Non-positive delays fall back to DefaultDelay.
func New(delay int64) *Breaker {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Breaker{delay: delay}
}

// Request arms the breaker. Re-requesting simply resets the timer.
// Fails if the breaker is already active.
func (b *Breaker) Request(now int64) error {
	if b.active {
		return protoerr.ErrCircuitBreakerActive
	}
	b.requestedAt = now
	return nil
}

// Activate trips the breaker once the timelock has elapsed. A request
// must be pending: requestedAt of zero means no request, and
// activating from idle is not a legal transition.
func (b *Breaker) Activate(now int64) error {
	if b.requestedAt == 0 || now < b.requestedAt+b.delay {
		return protoerr.ErrCircuitBreakerTimelockNotMet
	}
	b.active = true
	return nil
}

// Deactivate clears the breaker unconditionally and immediately.
func (b *Breaker) Deactivate() {
	b.active = false
	b.requestedAt = 0
}

// Active reports whether the breaker has tripped.
func (b *Breaker) Active() bool {
	return b.active
}

// RequestedAt returns the pending request timestamp, zero if none.
func (b *Breaker) RequestedAt() int64 {
	return b.requestedAt
}

// Status derives the state-machine position.
func (b *Breaker) Status() Status {
	switch {
	case b.active:
		return StatusActive
	case b.requestedAt != 0:
		return StatusRequested
	default:
		return StatusIdle
	}
}

// Gate rejects gated operations (proposal creation and voting) while
// the breaker is active. Execution of already-passed proposals is
// deliberately not gated: governance already in flight must not be
// silently stalled by an emergency freeze.
func (b *Breaker) Gate() error {
	if b.active {
		return protoerr.ErrCircuitBreakerActive
	}
	return nil
}

// Restore reinstates persisted breaker state.
func (b *Breaker) Restore(active bool, requestedAt int64) {
	b.active = active
	b.requestedAt = requestedAt
}
