// Package codec implements the variable-length integer and blob framing
// used by Arweave's binary block and transaction encodings, plus the
// URL-safe base64 encoding used for every textual byte view in the
// protocol.
package codec

import (
	"encoding/base64"
	"errors"
	"io"
	"math/big"
)

// ErrShortRead is returned by the decoders when the underlying reader ends
// before the declared length has been consumed.
var ErrShortRead = errors.New("codec: short read")

// IntEnc encodes n as a length-prefixed big-endian integer: sizeBytes bytes
// of big-endian byte-length, followed by that many bytes of big-endian n.
func IntEnc(n *big.Int, sizeBytes int) []byte {
	raw := n.Bytes()
	if len(raw) == 0 {
		raw = []byte{0}
	}
	return append(lenPrefix(len(raw), sizeBytes), raw...)
}

// IntEncUint64 is IntEnc for the common case of an unsigned 64-bit count.
func IntEncUint64(n uint64, sizeBytes int) []byte {
	return IntEnc(new(big.Int).SetUint64(n), sizeBytes)
}

// BinEnc encodes b as a length-prefixed blob: sizeBytes bytes of
// big-endian byte-length, followed by b itself.
func BinEnc(b []byte, sizeBytes int) []byte {
	return append(lenPrefix(len(b), sizeBytes), b...)
}

func lenPrefix(n int, sizeBytes int) []byte {
	out := make([]byte, sizeBytes)
	v := big.NewInt(int64(n))
	raw := v.Bytes()
	copy(out[sizeBytes-len(raw):], raw)
	return out
}

// IntDec reads a length-prefixed integer from r: sizeBytes bytes of
// big-endian length L, then L bytes interpreted as a big-endian integer.
func IntDec(r io.Reader, sizeBytes int) (*big.Int, error) {
	raw, err := BinDec(r, sizeBytes)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

// IntDecUint64 is IntDec for values known to fit in 64 bits.
func IntDecUint64(r io.Reader, sizeBytes int) (uint64, error) {
	n, err := IntDec(r, sizeBytes)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// BinDec reads a length-prefixed blob from r: sizeBytes bytes of
// big-endian length L, then L raw bytes.
func BinDec(r io.Reader, sizeBytes int) ([]byte, error) {
	lenBuf := make([]byte, sizeBytes)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, errors.Join(ErrShortRead, err)
	}
	l := new(big.Int).SetBytes(lenBuf).Uint64()
	buf := make([]byte, l)
	if l > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errors.Join(ErrShortRead, err)
		}
	}
	return buf, nil
}

// B64Encode encodes data as unpadded URL-safe base64, the textual form
// used for every binary field in Arweave's JSON representations.
func B64Encode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// B64Decode decodes an unpadded (or padded) URL-safe base64 string.
func B64Decode(s string) ([]byte, error) {
	if dec, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return dec, nil
	}
	return base64.URLEncoding.DecodeString(s)
}
