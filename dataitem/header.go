// Package dataitem implements the ANS-104 DataItem: a fixed-layout binary
// header (signature, owner, optional target/anchor, tag block) plus a
// payload, signed and verified through the signer registry.
package dataitem

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/weavecore/goweave/signer"
	"github.com/weavecore/goweave/tag"
)

var (
	// ErrMalformedHeader covers unknown flag bytes, wrong lengths, and
	// tag-count/raw-tags disagreement beyond the tolerated "cruft".
	ErrMalformedHeader = errors.New("dataitem: malformed header")
	// ErrMalformedTag is returned by Verify for tag shape violations.
	ErrMalformedTag = errors.New("dataitem: malformed tag")
)

const (
	maxAnchorLen = 32
	maxTargetLen = 32
)

// Header is the fixed-layout ANS-104 data item header (spec §4.E):
//
//	u16 sig_type | signature[sig_len] | owner[own_len] |
//	u8 tgt_flag | [bytes[32] target] | u8 anc_flag | [bytes[32] anchor] |
//	u64 tags_count | u64 raw_tags_len | raw_tags
type Header struct {
	SignatureType signer.Type
	Signature     []byte
	Owner         []byte
	Target        []byte // empty or exactly 32 bytes
	Anchor        []byte // empty or up to 32 bytes
	Tags          []tag.Tag

	// ExtraTagsData holds any bytes left over in the tags block after the
	// avro decoder's terminator — "cruft" preserved verbatim and
	// re-emitted on re-encode, matching upstream tolerance.
	ExtraTagsData []byte
}

// ID is SHA-256(raw_signature), the data item's content address.
func (h *Header) ID() []byte {
	sum := sha256.Sum256(h.Signature)
	return sum[:]
}

// Len returns the deterministic encoded length of the header given its
// signer scheme and target/anchor optionality.
func (h *Header) Len() (int, error) {
	scheme, err := signer.SchemeFor(h.SignatureType)
	if err != nil {
		return 0, err
	}
	rawTags, err := h.encodeTags()
	if err != nil {
		return 0, err
	}
	tgtLen := 1
	if len(h.Target) > 0 {
		tgtLen = 33
	}
	ancLen := 1
	if len(h.Anchor) > 0 {
		ancLen = 33
	}
	return 2 + scheme.SignatureLength + scheme.OwnerLength + tgtLen + ancLen + 16 + len(rawTags), nil
}

func (h *Header) encodeTags() ([]byte, error) {
	raw, err := tag.Encode(h.Tags)
	if err != nil {
		return nil, err
	}
	return append(raw, h.ExtraTagsData...), nil
}

// Bytes serializes the header to its binary wire form.
func (h *Header) Bytes() ([]byte, error) {
	scheme, err := signer.SchemeFor(h.SignatureType)
	if err != nil {
		return nil, err
	}
	if len(h.Signature) != scheme.SignatureLength {
		return nil, fmt.Errorf("%w: signature length %d, want %d", ErrMalformedHeader, len(h.Signature), scheme.SignatureLength)
	}
	if len(h.Owner) != scheme.OwnerLength {
		return nil, fmt.Errorf("%w: owner length %d, want %d", ErrMalformedHeader, len(h.Owner), scheme.OwnerLength)
	}

	var buf bytes.Buffer
	var typeBuf [2]byte
	binary.LittleEndian.PutUint16(typeBuf[:], uint16(h.SignatureType))
	buf.Write(typeBuf[:])
	buf.Write(h.Signature)
	buf.Write(h.Owner)

	if len(h.Target) == 0 {
		buf.WriteByte(0)
	} else if len(h.Target) == maxTargetLen {
		buf.WriteByte(1)
		buf.Write(h.Target)
	} else {
		return nil, fmt.Errorf("%w: target must be 0 or 32 bytes", ErrMalformedHeader)
	}

	if len(h.Anchor) == 0 {
		buf.WriteByte(0)
	} else if len(h.Anchor) <= maxAnchorLen {
		buf.WriteByte(1)
		anchor := make([]byte, maxAnchorLen)
		copy(anchor, h.Anchor)
		buf.Write(anchor)
	} else {
		return nil, fmt.Errorf("%w: anchor must be <= 32 bytes", ErrMalformedHeader)
	}

	rawTags, err := h.encodeTags()
	if err != nil {
		return nil, err
	}

	var countBuf, lenBuf [8]byte
	binary.LittleEndian.PutUint64(countBuf[:], uint64(len(h.Tags)))
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(rawTags)))
	buf.Write(countBuf[:])
	buf.Write(lenBuf[:])
	buf.Write(rawTags)

	return buf.Bytes(), nil
}

// DecodeHeader parses a Header from the start of raw, returning the
// header and the byte offset where the payload begins.
func DecodeHeader(raw []byte) (*Header, int, error) {
	if len(raw) < 2 {
		return nil, 0, fmt.Errorf("%w: too short", ErrMalformedHeader)
	}
	sigType := signer.Type(binary.LittleEndian.Uint16(raw[:2]))
	scheme, err := signer.SchemeFor(sigType)
	if err != nil {
		return nil, 0, err
	}

	pos := 2
	sigEnd := pos + scheme.SignatureLength
	if sigEnd > len(raw) {
		return nil, 0, fmt.Errorf("%w: truncated signature", ErrMalformedHeader)
	}
	signature := raw[pos:sigEnd]
	pos = sigEnd

	ownerEnd := pos + scheme.OwnerLength
	if ownerEnd > len(raw) {
		return nil, 0, fmt.Errorf("%w: truncated owner", ErrMalformedHeader)
	}
	owner := raw[pos:ownerEnd]
	pos = ownerEnd

	target, pos, err := readOptional32(raw, pos)
	if err != nil {
		return nil, 0, err
	}
	anchor, pos, err := readOptional32(raw, pos)
	if err != nil {
		return nil, 0, err
	}

	if pos+16 > len(raw) {
		return nil, 0, fmt.Errorf("%w: truncated tag counts", ErrMalformedHeader)
	}
	tagsCount := binary.LittleEndian.Uint64(raw[pos : pos+8])
	rawTagsLen := binary.LittleEndian.Uint64(raw[pos+8 : pos+16])
	pos += 16

	tagsEnd := pos + int(rawTagsLen)
	if tagsEnd > len(raw) || rawTagsLen > uint64(len(raw)) {
		return nil, 0, fmt.Errorf("%w: truncated tags block", ErrMalformedHeader)
	}
	rawTags := raw[pos:tagsEnd]

	var tags []tag.Tag
	var extra []byte
	if len(rawTags) > 0 {
		tags, extra, err = tag.Decode(rawTags)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
	}
	if uint64(len(tags)) != tagsCount {
		return nil, 0, fmt.Errorf("%w: tags_count %d disagrees with decoded %d", ErrMalformedHeader, tagsCount, len(tags))
	}

	return &Header{
		SignatureType: sigType,
		Signature:     signature,
		Owner:         owner,
		Target:        target,
		Anchor:        anchor,
		Tags:          tags,
		ExtraTagsData: extra,
	}, tagsEnd, nil
}

func readOptional32(raw []byte, pos int) ([]byte, int, error) {
	if pos >= len(raw) {
		return nil, 0, fmt.Errorf("%w: missing flag byte", ErrMalformedHeader)
	}
	flag := raw[pos]
	pos++
	switch flag {
	case 0:
		return nil, pos, nil
	case 1:
		if pos+32 > len(raw) {
			return nil, 0, fmt.Errorf("%w: truncated optional field", ErrMalformedHeader)
		}
		v := append([]byte(nil), raw[pos:pos+32]...)
		return v, pos + 32, nil
	default:
		return nil, 0, fmt.Errorf("%w: flag byte must be 0x00 or 0x01, got 0x%02x", ErrMalformedHeader, flag)
	}
}
