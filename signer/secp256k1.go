package signer

import (
	"crypto/ecdsa"
	"fmt"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Secp256k1Signer implements the "ethereum" (type 3) scheme: a secp256k1
// key pair, signing the Keccak-256 hash of the message and producing a
// 65-byte recoverable signature (r || s || v), using go-ethereum's
// production secp256k1 bindings rather than hand-rolled curve math.
type Secp256k1Signer struct {
	PrivateKey *ecdsa.PrivateKey
}

// NewSecp256k1 generates a fresh secp256k1 signer.
func NewSecp256k1() (*Secp256k1Signer, error) {
	key, err := gethcrypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &Secp256k1Signer{PrivateKey: key}, nil
}

// Secp256k1FromPrivateKey wraps an existing secp256k1 private key.
func Secp256k1FromPrivateKey(key *ecdsa.PrivateKey) *Secp256k1Signer {
	return &Secp256k1Signer{PrivateKey: key}
}

func (s *Secp256k1Signer) Type() Type { return TypeEthereum }

// RawOwner returns the 65-byte uncompressed public key (0x04 || X || Y).
func (s *Secp256k1Signer) RawOwner() []byte {
	return gethcrypto.FromECDSAPub(&s.PrivateKey.PublicKey)
}

func (s *Secp256k1Signer) Address() string { return addressFromOwner(s.RawOwner()) }

func (s *Secp256k1Signer) Sign(message []byte) ([]byte, error) {
	hash := gethcrypto.Keccak256(message)
	return gethcrypto.Sign(hash, s.PrivateKey)
}

type secp256k1Verifier struct {
	pub []byte
}

func newSecp256k1Verifier(rawOwner []byte) (Verifier, error) {
	if _, err := gethcrypto.UnmarshalPubkey(rawOwner); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	return &secp256k1Verifier{pub: rawOwner}, nil
}

func (v *secp256k1Verifier) Verify(message, signature []byte) bool {
	if len(signature) != 65 {
		return false
	}
	hash := gethcrypto.Keccak256(message)
	return gethcrypto.VerifySignature(v.pub, hash, signature[:64])
}
