// Package agentauth enforces agent authentication and replay
// protection for signed actions.
//
// The core never re-runs cryptographic verification itself. It trusts
// the output of the external signature-verification facility attached
// to the action as a Proof, and independently enforces that the
// verified payload matches the action's parameters, freshness (the
// embedded timestamp) and one-time use (the per-agent nonce).
package agentauth

import (
	"bytes"
	"time"

	"github.com/ars-protocol/ars-core/pkg/crypto"
	"github.com/ars-protocol/ars-core/pkg/protoerr"
)

// SignatureValidityWindow bounds the age of a signed timestamp.
// Messages signed more than this far from current time are rejected.
const SignatureValidityWindow = 300 * time.Second

// Verifier is the capability interface to the trusted verification
// facility: it reports whether message was verified as signed by
// identity. Tests inject fakes to drive every failure branch.
type Verifier interface {
	Verify(identity, message []byte) bool
}

// Proof is the record of the signature-verification operation that
// preceded the action in the same execution batch.
type Proof struct {
	// Program identifies the facility that produced the verification.
	Program string
	// Identity is the 32-byte verified public identity.
	Identity []byte
	// Message is the signed payload bytes.
	Message []byte
	// Signature is the 64-byte signature covered by the verification.
	Signature []byte
}

// Action is an authenticated action context. Message must embed the
// action type, all parameters, Timestamp and Nonce (see
// crypto.ProposalMessage and crypto.VoteMessage).
type Action struct {
	Agent     []byte
	Proof     *Proof
	Timestamp int64
	Nonce     uint64
}

// AgentState tracks one agent's replay anchor. Created lazily on the
// agent's first authenticated action.
type AgentState struct {
	Agent               []byte
	Nonce               uint64
	LastActionTimestamp int64
}

// Authenticator validates actions against the trusted program identity
// and the per-agent nonce registry.
type Authenticator struct {
	program  string
	verifier Verifier
	agents   map[string]*AgentState
}

// New creates an Authenticator trusting verifications produced by
// program.
func New(program string, verifier Verifier) *Authenticator {
	return &Authenticator{
		program:  program,
		verifier: verifier,
		agents:   make(map[string]*AgentState),
	}
}

// Authenticate checks the action without mutating any state. The
// caller completes the transition and then calls Commit; splitting the
// two keeps a failed transition from consuming the nonce.
//
// expected is the payload the action's parameters require (built with
// crypto.ProposalMessage or crypto.VoteMessage from the real call
// arguments, act.Timestamp and act.Nonce). The verified message must
// equal it byte for byte, which binds the signature to exactly this
// action: a signed message lifted from a public vote record cannot
// authenticate a different action under a fresh nonce.
func (a *Authenticator) Authenticate(act *Action, expected []byte, now time.Time) error {
	if act.Proof == nil {
		return protoerr.ErrMissingSignatureVerification
	}
	if act.Proof.Program != a.program {
		return protoerr.ErrInvalidSignatureProgram
	}
	if len(act.Proof.Identity) != crypto.IdentitySize ||
		len(act.Proof.Signature) != crypto.SignatureSize ||
		len(act.Proof.Message) == 0 {
		return protoerr.ErrSignatureVerificationFailed
	}
	if !bytes.Equal(act.Proof.Identity, act.Agent) {
		return protoerr.ErrAgentMismatch
	}
	if !a.verifier.Verify(act.Proof.Identity, act.Proof.Message) {
		return protoerr.ErrSignatureVerificationFailed
	}
	if !bytes.Equal(act.Proof.Message, expected) {
		return protoerr.ErrSignatureVerificationFailed.WithDetail(
			"signed message does not match action parameters")
	}

	skew := now.Unix() - act.Timestamp
	if skew < 0 {
		skew = -skew
	}
	if skew >= int64(SignatureValidityWindow/time.Second) {
		return protoerr.ErrSignatureExpired
	}

	if act.Nonce != a.state(act.Agent).Nonce {
		return protoerr.ErrInvalidNonce
	}
	return nil
}

// Commit consumes the agent's nonce after a successful transition.
// The increment is unconditional: an identical signed message can
// never authenticate twice.
func (a *Authenticator) Commit(agent []byte, now time.Time) {
	st := a.state(agent)
	st.Nonce++
	st.LastActionTimestamp = now.Unix()
}

// Nonce returns the agent's current nonce (the value its next signed
// message must embed).
func (a *Authenticator) Nonce(agent []byte) uint64 {
	return a.state(agent).Nonce
}

// States returns a snapshot of all agent states, for persistence.
func (a *Authenticator) States() []AgentState {
	out := make([]AgentState, 0, len(a.agents))
	for _, st := range a.agents {
		out = append(out, *st)
	}
	return out
}

// Restore installs a persisted agent state, replacing any in-memory
// entry for the same agent.
func (a *Authenticator) Restore(st AgentState) {
	cp := st
	a.agents[string(st.Agent)] = &cp
}

func (a *Authenticator) state(agent []byte) *AgentState {
	key := string(agent)
	st, ok := a.agents[key]
	if !ok {
		st = &AgentState{Agent: bytes.Clone(agent)}
		a.agents[key] = st
	}
	return st
}
