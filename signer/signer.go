// Package signer implements the multi-scheme signer registry used to sign
// and verify Arweave transactions and ANS-104 data items.
//
// Four signature types are registered, each with a fixed owner length and
// signature length that drive the binary layout of data item headers:
//
//	1  Arweave    RSA-4096 PSS      owner 512B  sig 512B
//	2  Ed25519    Ed25519           owner  32B  sig  64B
//	3  Ethereum   secp256k1         owner  65B  sig  65B
//	4  Solana     Ed25519 variant   owner  32B  sig  64B
//
// Types 5-7 are reserved and unsignable in this registry.
package signer

import (
	"errors"
	"fmt"
)

// Type identifies a registered signature scheme.
type Type uint16

const (
	TypeArweave  Type = 1
	TypeEd25519  Type = 2
	TypeEthereum Type = 3
	TypeSolana   Type = 4
)

var (
	// ErrUnknownSignatureType is returned when a signature_type has no
	// registered scheme.
	ErrUnknownSignatureType = errors.New("signer: unknown signature type")
	// ErrMalformedSignature is returned when signature bytes do not match
	// the length required by the declared type.
	ErrMalformedSignature = errors.New("signer: malformed signature")
)

// Scheme describes the fixed shape of a registered signature type.
type Scheme struct {
	Type            Type
	Name            string
	OwnerLength     int
	SignatureLength int
}

var schemes = map[Type]Scheme{
	TypeArweave:  {TypeArweave, "arweave", 512, 512},
	TypeEd25519:  {TypeEd25519, "ed25519", 32, 64},
	TypeEthereum: {TypeEthereum, "ethereum", 65, 65},
	TypeSolana:   {TypeSolana, "solana", 32, 64},
}

// SchemeFor looks up the registered Scheme for a type, or
// ErrUnknownSignatureType if it is not one of the four registered types.
func SchemeFor(t Type) (Scheme, error) {
	s, ok := schemes[t]
	if !ok {
		return Scheme{}, fmt.Errorf("%w: %d", ErrUnknownSignatureType, t)
	}
	return s, nil
}

// Signer is a private-key handle capable of signing arbitrary message
// bytes and reporting the raw public-key material ("owner") that verifiers
// reconstruct a Verifier from.
type Signer interface {
	Type() Type
	RawOwner() []byte
	Sign(message []byte) ([]byte, error)
}

// Verifier reconstructs from raw owner bytes and checks message/signature
// pairs produced by the matching Signer.
type Verifier interface {
	Verify(message, signature []byte) bool
}

// VerifierFor reconstructs a Verifier from a signature type and raw owner
// bytes, validating the owner length against the scheme.
func VerifierFor(t Type, rawOwner []byte) (Verifier, error) {
	scheme, err := SchemeFor(t)
	if err != nil {
		return nil, err
	}
	if len(rawOwner) != scheme.OwnerLength {
		return nil, fmt.Errorf("%w: owner length %d, want %d", ErrMalformedSignature, len(rawOwner), scheme.OwnerLength)
	}
	switch t {
	case TypeArweave:
		return newRSAVerifier(rawOwner)
	case TypeEd25519, TypeSolana:
		return newEd25519Verifier(rawOwner), nil
	case TypeEthereum:
		return newSecp256k1Verifier(rawOwner)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownSignatureType, t)
	}
}

// Verify reconstructs a Verifier for t from rawOwner and checks signature
// against message, returning false (never an error) on any signature
// mismatch, per the core's "verification failures return false" policy.
// A malformed owner or unknown type is still reported as an error, since
// those are structural decode failures rather than cryptographic ones.
func Verify(t Type, rawOwner, message, signature []byte) (bool, error) {
	scheme, err := SchemeFor(t)
	if err != nil {
		return false, err
	}
	if len(signature) != scheme.SignatureLength {
		return false, nil
	}
	v, err := VerifierFor(t, rawOwner)
	if err != nil {
		return false, err
	}
	return v.Verify(message, signature), nil
}

// AddressFromOwner derives the Arweave address (base64url(SHA-256(rawOwner)))
// shared by all four signature schemes.
func AddressFromOwner(rawOwner []byte) string {
	return addressFromOwner(rawOwner)
}
