package signer

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"math/big"
	"os"

	"github.com/weavecore/goweave/codec"
)

// RSASigner signs with a 4096-bit RSA key using RSA-PSS/SHA-256, the
// "arweave" (type 1) scheme. Salt length is automatic, which for a
// 4096-bit key resolves to emLen - hLen - 2 = 512 - 32 - 2 = 478, matching
// the scheme's explicit salt-length rule.
type RSASigner struct {
	PrivateKey *rsa.PrivateKey
	rawOwner   []byte
}

// New generates a fresh 4096-bit RSA signer.
func New() (*RSASigner, error) {
	key, err := rsa.GenerateKey(rand.Reader, 4096)
	if err != nil {
		return nil, err
	}
	return FromPrivateKey(key), nil
}

// FromPrivateKey wraps an existing RSA private key as a Signer.
func FromPrivateKey(key *rsa.PrivateKey) *RSASigner {
	return &RSASigner{PrivateKey: key, rawOwner: key.N.Bytes()}
}

// FromPath loads an RSA signer from a JWK wallet file on disk.
func FromPath(path string) (*RSASigner, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromJWK(b)
}

// FromJWK loads an RSA signer from JWK bytes in memory.
func FromJWK(data []byte) (*RSASigner, error) {
	key, rawOwner, err := parseJWK(data)
	if err != nil {
		return nil, err
	}
	return &RSASigner{PrivateKey: key, rawOwner: rawOwner}, nil
}

// Generate creates a new 4096-bit RSA key and returns it JWK-encoded,
// suitable for writing out as a new wallet file. The key size is fixed at
// 4096 bits; Generate takes no size argument, so no other size can be
// requested.
func Generate() ([]byte, error) {
	key, err := rsa.GenerateKey(rand.Reader, 4096)
	if err != nil {
		return nil, err
	}
	return marshalJWK(key)
}

func (s *RSASigner) Type() Type       { return TypeArweave }
func (s *RSASigner) RawOwner() []byte { return s.rawOwner }
func (s *RSASigner) Address() string  { return addressFromOwner(s.rawOwner) }

// Owner returns the base64url-encoded public-key modulus, the value
// carried in a transaction's/data item's owner field.
func (s *RSASigner) Owner() string { return codec.B64Encode(s.rawOwner) }

// Sign produces an RSA-PSS/SHA-256 signature over message.
func (s *RSASigner) Sign(message []byte) ([]byte, error) {
	hashed := sha256.Sum256(message)
	return rsa.SignPSS(rand.Reader, s.PrivateKey, crypto.SHA256, hashed[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
		Hash:       crypto.SHA256,
	})
}

type rsaVerifier struct {
	pub *rsa.PublicKey
}

func newRSAVerifier(rawOwner []byte) (Verifier, error) {
	n := new(big.Int).SetBytes(rawOwner)
	return &rsaVerifier{pub: &rsa.PublicKey{N: n, E: 65537}}, nil
}

func (v *rsaVerifier) Verify(message, signature []byte) bool {
	hashed := sha256.Sum256(message)
	err := rsa.VerifyPSS(v.pub, crypto.SHA256, hashed[:], signature, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
		Hash:       crypto.SHA256,
	})
	return err == nil
}
