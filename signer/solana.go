package signer

import (
	"crypto/ed25519"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// SolanaSigner is the "solana" (type 4) scheme: an Ed25519 key pair,
// signed identically to Ed25519Signer but tagged with a distinct type so
// that decoders can route it to Solana-flavoured downstream handling
// (e.g. base58 display addresses instead of the Arweave address form).
type SolanaSigner struct {
	inner *Ed25519Signer
}

// NewSolana generates a fresh Solana signer.
func NewSolana() (*SolanaSigner, error) {
	s, err := NewEd25519()
	if err != nil {
		return nil, err
	}
	return &SolanaSigner{inner: s}, nil
}

// SolanaFromPrivateKey wraps a raw 64-byte Ed25519 private key as a Solana signer.
func SolanaFromPrivateKey(priv ed25519.PrivateKey) (*SolanaSigner, error) {
	s, err := Ed25519FromPrivateKey(priv)
	if err != nil {
		return nil, err
	}
	return &SolanaSigner{inner: s}, nil
}

func (s *SolanaSigner) Type() Type       { return TypeSolana }
func (s *SolanaSigner) RawOwner() []byte { return s.inner.RawOwner() }
func (s *SolanaSigner) Sign(message []byte) ([]byte, error) { return s.inner.Sign(message) }

// Base58Address renders the signer's raw public key in the conventional
// Solana base58 address form. This is distinct from the Arweave address
// (base64url(SHA-256(rawOwner))), which SolanaSigner also exposes via
// Address() for consistency with the other schemes.
func (s *SolanaSigner) Base58Address() string {
	return base58.Encode(s.RawOwner())
}

func (s *SolanaSigner) Address() string { return addressFromOwner(s.RawOwner()) }
