package signer

import (
	"crypto/sha256"

	"github.com/weavecore/goweave/codec"
)

func addressFromOwner(rawOwner []byte) string {
	sum := sha256.Sum256(rawOwner)
	return codec.B64Encode(sum[:])
}
