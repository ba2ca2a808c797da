package signer

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
)

// jwk is the on-disk JSON Web Key shape used by Arweave wallet files: an
// RSA private key in RFC 7517 form plus the PS256-specific p2s/p2c fields
// some wallet generators leave populated even though they play no role in
// RSA-PSS signing. p2s is zeroed before the key is used, matching the
// upstream wallet loader's defensive clearing of that field.
type jwk struct {
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
	D   string `json:"d,omitempty"`
	P   string `json:"p,omitempty"`
	Q   string `json:"q,omitempty"`
	DP  string `json:"dp,omitempty"`
	DQ  string `json:"dq,omitempty"`
	QI  string `json:"qi,omitempty"`
	P2S string `json:"p2s,omitempty"`
}

func jwkBigInt(s string) *big.Int {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil
	}
	return new(big.Int).SetBytes(b)
}

// parseJWK parses Arweave JWK wallet bytes into an RSA private key and its
// raw owner (modulus) bytes.
func parseJWK(data []byte) (*rsa.PrivateKey, []byte, error) {
	var k jwk
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, nil, fmt.Errorf("signer: invalid jwk: %w", err)
	}
	if k.Kty != "" && k.Kty != "RSA" {
		return nil, nil, fmt.Errorf("signer: unsupported jwk kty %q", k.Kty)
	}
	k.P2S = ""

	n := jwkBigInt(k.N)
	if n == nil {
		return nil, nil, fmt.Errorf("signer: invalid jwk modulus")
	}
	if k.D == "" {
		return nil, nil, fmt.Errorf("signer: jwk has no private exponent")
	}
	d := jwkBigInt(k.D)
	p := jwkBigInt(k.P)
	q := jwkBigInt(k.Q)
	if d == nil || p == nil || q == nil {
		return nil, nil, fmt.Errorf("signer: incomplete jwk private key")
	}

	priv := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: n, E: 65537},
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	priv.Precompute()
	if err := priv.Validate(); err != nil {
		return nil, nil, fmt.Errorf("signer: invalid jwk key: %w", err)
	}
	return priv, n.Bytes(), nil
}

func marshalJWK(priv *rsa.PrivateKey) ([]byte, error) {
	if len(priv.Primes) != 2 {
		return nil, fmt.Errorf("signer: can only marshal two-prime RSA keys")
	}
	enc := func(b *big.Int) string { return base64.RawURLEncoding.EncodeToString(b.Bytes()) }
	k := jwk{
		Kty: "RSA",
		N:   enc(priv.N),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(priv.E)).Bytes()),
		D:   enc(priv.D),
		P:   enc(priv.Primes[0]),
		Q:   enc(priv.Primes[1]),
		DP:  enc(priv.Precomputed.Dp),
		DQ:  enc(priv.Precomputed.Dq),
		QI:  enc(priv.Precomputed.Qinv),
	}
	return json.Marshal(k)
}
