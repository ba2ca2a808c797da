// Package tag implements the Avro-flavoured zigzag/varint "blocks"
// encoding ANS-104 uses for a data item's or block's tag list.
package tag

import (
	"errors"

	"github.com/linkedin/goavro/v2"
)

// ErrTooManyTags is returned when a tag list exceeds the 128-tag limit.
var ErrTooManyTags = errors.New("tag: too many tags")

const (
	MaxTags      = 128
	MaxNameLen   = 1024
	MaxValueLen  = 3072
	avroTagSchema = `
{
	"type": "array",
	"items": {
		"type": "record",
		"name": "Tag",
		"fields": [
			{ "name": "name", "type": "bytes" },
			{ "name": "value", "type": "bytes" }
		]
	}
}`
)

var avroCodec = mustCodec()

func mustCodec() *goavro.Codec {
	c, err := goavro.NewCodec(avroTagSchema)
	if err != nil {
		panic(err)
	}
	return c
}

// Encode converts a tag list into its Avro "blocks" binary encoding (§4.D):
// a single block of n items terminated by a zero-count block, or a lone
// zero byte when the list is empty.
func Encode(tags []Tag) ([]byte, error) {
	if len(tags) == 0 {
		return []byte{0}, nil
	}
	native := make([]map[string]any, 0, len(tags))
	for _, t := range tags {
		native = append(native, map[string]any{"name": []byte(t.Name), "value": []byte(t.Value)})
	}
	return avroCodec.BinaryFromNative(nil, native)
}

// Decode parses Avro "blocks"-encoded tag bytes back into a tag list. Any
// bytes left over after the decoder's zero-count terminator ("cruft") are
// returned separately so callers can preserve and re-emit them on
// re-encode, matching the upstream tolerance for trailing junk.
func Decode(data []byte) (tags []Tag, extra []byte, err error) {
	if len(data) == 0 {
		return nil, nil, nil
	}
	if len(data) == 1 && data[0] == 0 {
		return nil, nil, nil
	}
	native, rest, err := avroCodec.NativeFromBinary(data)
	if err != nil {
		return nil, nil, err
	}
	items, ok := native.([]any)
	if !ok {
		return nil, nil, errors.New("tag: unexpected avro decode shape")
	}
	if len(items) > MaxTags {
		return nil, nil, ErrTooManyTags
	}
	for _, v := range items {
		m := v.(map[string]any)
		tags = append(tags, Tag{Name: string(m["name"].([]byte)), Value: string(m["value"].([]byte))})
	}
	return tags, rest, nil
}

// Validate checks every tag against the ANS-104 size invariants: non-empty
// name/value, name <= 1024 bytes, value <= 3072 bytes, and at most 128
// tags total. Every tag is checked, not only the last one.
func Validate(tags []Tag) error {
	if len(tags) > MaxTags {
		return ErrTooManyTags
	}
	for _, t := range tags {
		if len(t.Name) == 0 || len(t.Name) > MaxNameLen {
			return errors.New("tag: name must be 1-1024 bytes")
		}
		if len(t.Value) == 0 || len(t.Value) > MaxValueLen {
			return errors.New("tag: value must be 1-3072 bytes")
		}
	}
	return nil
}
