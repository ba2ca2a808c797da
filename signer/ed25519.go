package signer

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// Ed25519Signer implements the "ed25519" (type 2) scheme directly over
// stdlib crypto/ed25519 — no third-party Ed25519 implementation is used
// anywhere in this module; Go's standard library is the idiomatic choice.
type Ed25519Signer struct {
	PrivateKey ed25519.PrivateKey
}

// NewEd25519 generates a fresh Ed25519 signer.
func NewEd25519() (*Ed25519Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Ed25519Signer{PrivateKey: priv}, nil
}

// Ed25519FromPrivateKey wraps a raw 64-byte Ed25519 private key.
func Ed25519FromPrivateKey(priv ed25519.PrivateKey) (*Ed25519Signer, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: ed25519 private key must be %d bytes", ErrMalformedSignature, ed25519.PrivateKeySize)
	}
	return &Ed25519Signer{PrivateKey: priv}, nil
}

func (s *Ed25519Signer) Type() Type       { return TypeEd25519 }
func (s *Ed25519Signer) RawOwner() []byte { return []byte(s.PrivateKey.Public().(ed25519.PublicKey)) }
func (s *Ed25519Signer) Address() string  { return addressFromOwner(s.RawOwner()) }

func (s *Ed25519Signer) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.PrivateKey, message), nil
}

type ed25519Verifier struct {
	pub ed25519.PublicKey
}

func newEd25519Verifier(rawOwner []byte) Verifier {
	return &ed25519Verifier{pub: ed25519.PublicKey(rawOwner)}
}

func (v *ed25519Verifier) Verify(message, signature []byte) bool {
	return ed25519.Verify(v.pub, message, signature)
}
