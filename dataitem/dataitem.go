package dataitem

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/weavecore/goweave/codec"
	"github.com/weavecore/goweave/deephash"
	"github.com/weavecore/goweave/signer"
	"github.com/weavecore/goweave/tag"
)

// SigningVersion selects the shape of a DataItem's signing input (§4.F).
type SigningVersion int

const (
	// V2 is the default: raw_tags is the already-avro-encoded tag block.
	V2 SigningVersion = 2
	// V1 is the JSON-originated variant: tags are carried as a list of
	// [name, value] byte pairs instead of the avro-encoded block.
	V1 SigningVersion = 1
)

// DataItem is an ANS-104 data item: a Header plus its payload.
type DataItem struct {
	Header  Header
	Data    []byte
	Version SigningVersion
}

// New constructs an unsigned DataItem for signatureType with the given
// target/anchor/tags/payload. Target and anchor are raw bytes (0 or 32,
// 0-32 respectively); callers pass nil for absent fields.
func New(signatureType signer.Type, data, target, anchor []byte, tags []tag.Tag) (*DataItem, error) {
	if len(target) != 0 && len(target) != 32 {
		return nil, fmt.Errorf("%w: target must be 0 or 32 bytes", ErrMalformedHeader)
	}
	if len(anchor) > 32 {
		return nil, fmt.Errorf("%w: anchor must be <= 32 bytes", ErrMalformedHeader)
	}
	return &DataItem{
		Header: Header{
			SignatureType: signatureType,
			Target:        target,
			Anchor:        anchor,
			Tags:          tags,
		},
		Data:    data,
		Version: V2,
	}, nil
}

// signingInput computes the deep_hash over the signing-input list per
// §4.F, dispatched on d.Version.
func (d *DataItem) signingInput(rawOwner []byte) ([48]byte, error) {
	rawTarget := d.Header.Target
	rawAnchor := d.Header.Anchor

	switch d.Version {
	case V1:
		pairs := make(deephash.List, 0, len(d.Header.Tags))
		for _, t := range d.Header.Tags {
			pairs = append(pairs, deephash.List{deephash.Blob(t.Name), deephash.Blob(t.Value)})
		}
		list := deephash.List{
			deephash.Blob("dataitem"),
			deephash.Blob("1"),
			deephash.Ascii(int(d.Header.SignatureType)),
			deephash.Blob(rawOwner),
			deephash.Blob(rawTarget),
			deephash.Blob(rawAnchor),
			pairs,
			deephash.Blob(d.Data),
		}
		return deephash.Hash(list), nil
	default:
		rawTags, err := d.Header.encodeTags()
		if err != nil {
			return [48]byte{}, err
		}
		list := deephash.List{
			deephash.Blob("dataitem"),
			deephash.Blob("1"),
			deephash.Ascii(int(d.Header.SignatureType)),
			deephash.Blob(rawOwner),
			deephash.Blob(rawTarget),
			deephash.Blob(rawAnchor),
			deephash.Blob(rawTags),
			deephash.Blob(d.Data),
		}
		return deephash.Hash(list), nil
	}
}

// Sign computes the signing input, signs it with s, and fills in the
// header's signature type, owner, and signature.
func (d *DataItem) Sign(s signer.Signer) error {
	d.Header.SignatureType = s.Type()
	rawOwner := s.RawOwner()

	input, err := d.signingInput(rawOwner)
	if err != nil {
		return err
	}
	sig, err := s.Sign(input[:])
	if err != nil {
		return err
	}
	d.Header.Owner = rawOwner
	d.Header.Signature = sig
	return nil
}

// ID returns the data item's content address, SHA-256(raw_signature).
func (d *DataItem) ID() []byte { return d.Header.ID() }

// Verify checks tag shape invariants and the header's signature against
// its own signing input. Per spec policy, cryptographic verification
// failures are reported via the returned error but never panic; an
// unknown signature type or malformed tag is also an error.
func (d *DataItem) Verify() error {
	if len(d.Header.Tags) > tag.MaxTags {
		return fmt.Errorf("%w: too many tags", ErrMalformedTag)
	}
	for _, t := range d.Header.Tags {
		if len(t.Name) == 0 || len(t.Name) > tag.MaxNameLen {
			return fmt.Errorf("%w: tag name invalid", ErrMalformedTag)
		}
		if len(t.Value) == 0 || len(t.Value) > tag.MaxValueLen {
			return fmt.Errorf("%w: tag value invalid", ErrMalformedTag)
		}
	}
	if len(d.Header.Anchor) > 32 {
		return fmt.Errorf("%w: anchor must be <= 32 bytes", ErrMalformedTag)
	}

	input, err := d.signingInput(d.Header.Owner)
	if err != nil {
		return err
	}
	ok, err := signer.Verify(d.Header.SignatureType, d.Header.Owner, input[:], d.Header.Signature)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("dataitem: signature verification failed")
	}
	return nil
}

// Bytes serializes the full data item (header + payload) to binary.
func (d *DataItem) Bytes() ([]byte, error) {
	header, err := d.Header.Bytes()
	if err != nil {
		return nil, err
	}
	return append(header, d.Data...), nil
}

// Decode parses a DataItem from its complete binary form.
func Decode(raw []byte) (*DataItem, error) {
	header, offset, err := DecodeHeader(raw)
	if err != nil {
		return nil, err
	}
	return &DataItem{Header: *header, Data: raw[offset:], Version: V2}, nil
}

// jsonDataItem is the upstream JSON shape: all byte fields base64url.
type jsonDataItem struct {
	ID            string    `json:"id"`
	Signature     string    `json:"signature"`
	SignatureType int       `json:"signature_type"`
	Owner         string    `json:"owner"`
	Target        string    `json:"target"`
	Anchor        string    `json:"nonce"`
	Tags          []tag.Tag `json:"tags"`
	Data          string    `json:"data"`
}

// MarshalJSON renders the DataItem in the upstream JSON shape.
func (d *DataItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonDataItem{
		ID:            codec.B64Encode(d.ID()),
		Signature:     codec.B64Encode(d.Header.Signature),
		SignatureType: int(d.Header.SignatureType),
		Owner:         codec.B64Encode(d.Header.Owner),
		Target:        codec.B64Encode(d.Header.Target),
		Anchor:        codec.B64Encode(d.Header.Anchor),
		Tags:          d.Header.Tags,
		Data:          codec.B64Encode(d.Data),
	})
}

// UnmarshalJSON parses the upstream JSON shape into a DataItem. The
// resulting DataItem's signing input uses V1 semantics, since JSON-
// originated items carry tags as decoded pairs, not an avro block.
func (d *DataItem) UnmarshalJSON(b []byte) error {
	var j jsonDataItem
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	signature, err := codec.B64Decode(j.Signature)
	if err != nil {
		return err
	}
	owner, err := codec.B64Decode(j.Owner)
	if err != nil {
		return err
	}
	target, err := codec.B64Decode(j.Target)
	if err != nil {
		return err
	}
	anchor, err := codec.B64Decode(j.Anchor)
	if err != nil {
		return err
	}
	data, err := codec.B64Decode(j.Data)
	if err != nil {
		return err
	}

	d.Header = Header{
		SignatureType: signer.Type(j.SignatureType),
		Signature:     signature,
		Owner:         owner,
		Target:        target,
		Anchor:        anchor,
		Tags:          j.Tags,
	}
	d.Data = data
	d.Version = V1
	return nil
}
