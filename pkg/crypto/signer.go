// Package crypto provides ed25519 signing and the deterministic
// message construction for agent actions. The protocol core never runs
// signature math on the settlement path; it trusts the verification
// facility (see pkg/agentauth) and uses this package to build and bind
// the signed payloads.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// IdentitySize is the byte length of an agent identity (public key).
const IdentitySize = ed25519.PublicKeySize

// SignatureSize is the byte length of an agent signature.
const SignatureSize = ed25519.SignatureSize

// Signer produces agent signatures.
type Signer interface {
	Sign(message []byte) []byte
	PublicKey() []byte
}

// Ed25519Signer is the default Signer implementation.
type Ed25519Signer struct {
	privKey ed25519.PrivateKey
	pubKey  ed25519.PublicKey
	KeyID   string
}

// NewEd25519Signer generates a fresh keypair.
func NewEd25519Signer(keyID string) (*Ed25519Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("key generation failed: %w", err)
	}
	return &Ed25519Signer{
		privKey: priv,
		pubKey:  pub,
		KeyID:   keyID,
	}, nil
}

// NewEd25519SignerFromKey wraps an existing private key.
func NewEd25519SignerFromKey(priv ed25519.PrivateKey, keyID string) *Ed25519Signer {
	return &Ed25519Signer{
		privKey: priv,
		pubKey:  priv.Public().(ed25519.PublicKey),
		KeyID:   keyID,
	}
}

func (s *Ed25519Signer) Sign(message []byte) []byte {
	return ed25519.Sign(s.privKey, message)
}

func (s *Ed25519Signer) PublicKey() []byte {
	return s.pubKey
}

// PublicKeyHex returns the hex-encoded public key, used for log and
// audit output.
func (s *Ed25519Signer) PublicKeyHex() string {
	return hex.EncodeToString(s.pubKey)
}

// Verify checks a signature against a public key. Size checks first so
// malformed inputs fail cleanly rather than panicking inside ed25519.
func Verify(pubKey, message, signature []byte) bool {
	if len(pubKey) != IdentitySize || len(signature) != SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pubKey), message, signature)
}
