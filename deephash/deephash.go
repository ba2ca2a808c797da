// Package deephash implements the domain-separated recursive hash used
// throughout the Arweave protocol to derive transaction, data item and
// block signing inputs.
//
// https://www.arweave.org/yellow-paper.pdf
package deephash

import (
	"crypto/sha512"
	"fmt"
	"io"
)

// Input is either a raw byte string (Blob) or an ordered list of other
// Inputs (List). It mirrors the tagged union the Arweave reference
// implementations express as untyped nested arrays.
type Input interface {
	isInput()
}

// Blob is a leaf Input: a raw byte string.
type Blob []byte

// List is a branch Input: an ordered sequence of child Inputs.
type List []Input

func (Blob) isInput() {}
func (List) isInput() {}

// Ascii renders an integer as its decimal-digit ASCII encoding, the form
// deep_hash expects wherever the reference implementations tag a value
// with `ascii(x)`.
func Ascii[T ~int | ~int64 | ~uint64](n T) Blob {
	return Blob(fmt.Sprintf("%d", n))
}

// Hash computes the 384-bit deep hash of input. For a Blob b it is
// SHA384("blob" ++ ascii(len(b)) ++ b); for a List it folds SHA384(acc ++
// Hash(child)) over an accumulator seeded with SHA384("list" ++ ascii(n)).
func Hash(input Input) [48]byte {
	switch v := input.(type) {
	case Blob:
		tag := append([]byte("blob"), []byte(fmt.Sprint(len(v)))...)
		return sha512.Sum384(append(tag, v...))
	case List:
		tag := append([]byte("list"), []byte(fmt.Sprint(len(v)))...)
		acc := sha512.Sum384(tag)
		for _, child := range v {
			childHashed := Hash(child)
			acc = sha512.Sum384(append(acc[:], childHashed[:]...))
		}
		return acc
	default:
		panic(fmt.Sprintf("deephash: unsupported input type %T", input))
	}
}

// Stream computes the same hash as Hash(Blob(data)) for data read from r,
// sized dataSize, without buffering the whole blob in memory. Used for
// transaction/data-item payloads too large to hold twice over.
func Stream(r io.Reader, dataSize int64) ([48]byte, error) {
	tag := append([]byte("blob"), []byte(fmt.Sprint(dataSize))...)

	h := sha512.New384()
	h.Write(tag)
	if _, err := io.Copy(h, r); err != nil {
		return [48]byte{}, err
	}
	var out [48]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// MixedList hashes a List whose final element is supplied as a stream
// instead of a pre-loaded Blob: heads are small fields, the streamed
// element is typically the payload. This lets callers deep-hash a data
// item's signing input without holding the payload twice.
func MixedList(heads []Blob, tail io.Reader, tailSize int64) ([48]byte, error) {
	total := len(heads) + 1
	tag := append([]byte("list"), []byte(fmt.Sprint(total))...)
	acc := sha512.Sum384(tag)

	for _, h := range heads {
		hh := Hash(h)
		acc = sha512.Sum384(append(acc[:], hh[:]...))
	}

	tailHashed, err := Stream(tail, tailSize)
	if err != nil {
		return [48]byte{}, err
	}
	return sha512.Sum384(append(acc[:], tailHashed[:]...)), nil
}
