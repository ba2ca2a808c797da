// Package bundle implements the ANS-104 bundle format: a count-prefixed
// index of (length, id) pairs followed by the concatenated data items it
// indexes.
package bundle

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/weavecore/goweave/dataitem"
)

// ErrMalformedBundle covers header/length inconsistencies that make a
// bundle unparseable.
var ErrMalformedBundle = errors.New("bundle: malformed bundle")

// Entry is one (length, id) pair in a BundleHeader.
type Entry struct {
	Length int
	ID     []byte // 32 bytes
}

// Header is the bundle's count-prefixed index.
type Header struct {
	Entries []Entry
}

// Bundle is an ordered sequence of data items plus the index describing
// their byte lengths and ids.
type Bundle struct {
	Header Header
	Items  []*dataitem.DataItem
}

// New builds a Bundle (and its Header) from already-signed data items.
func New(items []*dataitem.DataItem) (*Bundle, error) {
	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		raw, err := it.Bytes()
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Length: len(raw), ID: it.ID()})
	}
	return &Bundle{Header: Header{Entries: entries}, Items: items}, nil
}

func le32(n int) []byte {
	out := make([]byte, 32)
	binary.LittleEndian.PutUint64(out[:8], uint64(n))
	return out
}

func readLE32(b []byte) uint64 {
	// only the low 8 bytes are ever meaningful for realistic bundle sizes
	return binary.LittleEndian.Uint64(b[:8])
}

// Bytes serializes the full bundle: header + concatenated item bytes.
func (bd *Bundle) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(le32(len(bd.Header.Entries)))
	for _, e := range bd.Header.Entries {
		if len(e.ID) != 32 {
			return nil, fmt.Errorf("%w: entry id must be 32 bytes", ErrMalformedBundle)
		}
		buf.Write(le32(e.Length))
		buf.Write(e.ID)
	}
	for _, it := range bd.Items {
		raw, err := it.Bytes()
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// Decode parses a Bundle from its binary form. Parsing does not itself
// require the header's ids to match the parsed items' computed ids — call
// Verify for that.
func Decode(raw []byte) (*Bundle, error) {
	if len(raw) < 32 {
		return nil, fmt.Errorf("%w: too short for count", ErrMalformedBundle)
	}
	count := readLE32(raw[:32])
	pos := 32

	entries := make([]Entry, 0, count)
	for i := uint64(0); i < count; i++ {
		if pos+64 > len(raw) {
			return nil, fmt.Errorf("%w: truncated header entry %d", ErrMalformedBundle, i)
		}
		length := readLE32(raw[pos : pos+32])
		id := append([]byte(nil), raw[pos+32:pos+64]...)
		entries = append(entries, Entry{Length: int(length), ID: id})
		pos += 64
	}

	items := make([]*dataitem.DataItem, 0, count)
	for _, e := range entries {
		if pos+e.Length > len(raw) {
			return nil, fmt.Errorf("%w: truncated item", ErrMalformedBundle)
		}
		item, err := dataitem.Decode(raw[pos : pos+e.Length])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBundle, err)
		}
		itemLen, err := item.Header.Len()
		if err != nil {
			return nil, err
		}
		if itemLen+len(item.Data) != e.Length {
			return nil, fmt.Errorf("%w: header advance disagrees with declared length", ErrMalformedBundle)
		}
		items = append(items, item)
		pos += e.Length
	}

	return &Bundle{Header: Header{Entries: entries}, Items: items}, nil
}

// Verify checks that the header's declared ids match the parsed items'
// computed ids, in order.
func (bd *Bundle) Verify() error {
	if len(bd.Header.Entries) != len(bd.Items) {
		return fmt.Errorf("%w: entry/item count mismatch", ErrMalformedBundle)
	}
	for i, e := range bd.Header.Entries {
		if !bytes.Equal(e.ID, bd.Items[i].ID()) {
			return fmt.Errorf("%w: entry %d id does not match item id", ErrMalformedBundle, i)
		}
	}
	return nil
}
