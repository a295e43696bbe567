package crypto

import "crypto/sha256"

// ProgramID names this package's verification facility when it is
// wired as the trusted program for agent authentication.
const ProgramID = "ed25519:native"

// VerificationFacility runs ed25519 verification ahead of an action
// and answers, during authentication, whether a given (identity,
// message) pair was verified. This mirrors the preceding-instruction
// pattern: the signature check happens first, the state transition
// only consults its recorded outcome.
type VerificationFacility struct {
	verified map[[32]byte]struct{}
}

// NewVerificationFacility creates an empty facility.
func NewVerificationFacility() *VerificationFacility {
	return &VerificationFacility{verified: make(map[[32]byte]struct{})}
}

// Submit verifies signature over message for identity and records the
// result. Returns false without recording when verification fails.
func (f *VerificationFacility) Submit(identity, message, signature []byte) bool {
	if !Verify(identity, message, signature) {
		return false
	}
	f.verified[pairKey(identity, message)] = struct{}{}
	return true
}

// Verify reports whether the (identity, message) pair was verified by
// a prior Submit. Satisfies the authentication component's verifier
// capability.
func (f *VerificationFacility) Verify(identity, message []byte) bool {
	_, ok := f.verified[pairKey(identity, message)]
	return ok
}

// Reset clears recorded verifications at a batch boundary.
func (f *VerificationFacility) Reset() {
	f.verified = make(map[[32]byte]struct{})
}

func pairKey(identity, message []byte) [32]byte {
	h := sha256.New()
	h.Write(identity)
	h.Write(message)
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}
