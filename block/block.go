// Package block implements the Arweave chain block: its fixed binary
// stream layout and the three historical shapes of its signing input,
// gated by the protocol's FORK_2_4 and FORK_2_5 heights.
package block

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/weavecore/goweave/codec"
	"github.com/weavecore/goweave/deephash"
	"github.com/weavecore/goweave/tag"
)

// Fork heights that gate the shape of a block's signing input and tag
// encoding (https://docs.arweave.org/developers/server/http-api#block-format).
const (
	Fork24 = 235200
	Fork25 = 812970
)

// ErrMalformedBlock covers field-length/count violations that make a
// block unparseable.
var ErrMalformedBlock = errors.New("block: malformed block")

// Rate is a (numerator, denominator) rational USD/AR exchange rate, as
// the protocol carries it on the wire.
type Rate struct {
	Numerator   int64
	Denominator int64
}

// Decimal renders r as a decimal.Decimal, or the zero value when
// Denominator is zero (the protocol's "rate unset" sentinel).
func (r Rate) Decimal() decimal.Decimal {
	if r.Denominator == 0 {
		return decimal.Decimal{}
	}
	return decimal.NewFromInt(r.Numerator).DivRound(decimal.NewFromInt(r.Denominator), 12)
}

// Block is an Arweave chain block.
type Block struct {
	IndepHash      []byte // 48 bytes
	PrevBlock      []byte
	Timestamp      int64
	Nonce          []byte
	Height         int64
	Diff           *big.Int
	CumulativeDiff *big.Int
	LastRetarget   int64
	Hash           []byte
	BlockSize      int64
	WeaveSize      int64
	RewardAddr     []byte
	TxRoot         []byte
	WalletList     []byte
	HashListMerkle []byte
	RewardPool     int64

	PackingThreshold     int64
	StrictChunkThreshold int64
	USDToARRate          Rate
	ScheduledUSDToARRate Rate

	PoAOption   int64
	PoAChunk    []byte
	PoATxPath   []byte
	PoADataPath []byte

	Tags []tag.Tag
	// TxIDs holds each transaction's 32-byte id in canonical order. Bytes
	// writes them to the wire in reverse order (the protocol's historical
	// tx-list quirk) and Decode reverses them back.
	TxIDs [][]byte
}

func ascii(n int64) []byte { return []byte(fmt.Sprint(n)) }

// encodeBlockTag renders a single tag as an independent one-element Avro
// "blocks" encoding, reusing the tag package's codec rather than inventing
// a second tag wire format for blocks.
func encodeBlockTag(t tag.Tag) ([]byte, error) {
	return tag.Encode([]tag.Tag{t})
}

func decodeBlockTag(raw []byte) (tag.Tag, error) {
	tags, _, err := tag.Decode(raw)
	if err != nil {
		return tag.Tag{}, err
	}
	if len(tags) != 1 {
		return tag.Tag{}, fmt.Errorf("%w: block tag blob did not decode to exactly one tag", ErrMalformedBlock)
	}
	return tags[0], nil
}

func encodeTagsBlock(tags []tag.Tag) ([]byte, error) {
	var buf bytes.Buffer
	for _, t := range tags {
		raw, err := encodeBlockTag(t)
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
	}
	return buf.Bytes(), nil
}

// Bytes serializes b to its wire binary form (spec.md §4.H field order).
func (b *Block) Bytes() ([]byte, error) {
	if len(b.IndepHash) != 48 {
		return nil, fmt.Errorf("%w: indep_hash must be 48 bytes", ErrMalformedBlock)
	}
	var buf bytes.Buffer
	buf.Write(b.IndepHash)
	buf.Write(codec.BinEnc(b.PrevBlock, 8))
	buf.Write(codec.IntEnc(big.NewInt(b.Timestamp), 8))
	buf.Write(codec.BinEnc(b.Nonce, 16))
	buf.Write(codec.IntEnc(big.NewInt(b.Height), 8))
	buf.Write(codec.IntEnc(b.Diff, 16))
	buf.Write(codec.IntEnc(b.CumulativeDiff, 16))
	buf.Write(codec.IntEnc(big.NewInt(b.LastRetarget), 8))
	buf.Write(codec.BinEnc(b.Hash, 8))
	buf.Write(codec.IntEnc(big.NewInt(b.BlockSize), 16))
	buf.Write(codec.IntEnc(big.NewInt(b.WeaveSize), 16))
	buf.Write(codec.BinEnc(b.RewardAddr, 8))
	buf.Write(codec.BinEnc(b.TxRoot, 8))
	buf.Write(codec.BinEnc(b.WalletList, 8))
	buf.Write(codec.BinEnc(b.HashListMerkle, 8))
	buf.Write(codec.IntEnc(big.NewInt(b.RewardPool), 8))
	buf.Write(codec.IntEnc(big.NewInt(b.PackingThreshold), 8))
	buf.Write(codec.IntEnc(big.NewInt(b.StrictChunkThreshold), 8))
	buf.Write(codec.IntEnc(big.NewInt(b.USDToARRate.Numerator), 8))
	buf.Write(codec.IntEnc(big.NewInt(b.USDToARRate.Denominator), 8))
	buf.Write(codec.IntEnc(big.NewInt(b.ScheduledUSDToARRate.Numerator), 8))
	buf.Write(codec.IntEnc(big.NewInt(b.ScheduledUSDToARRate.Denominator), 8))
	buf.Write(codec.IntEnc(big.NewInt(b.PoAOption), 8))
	buf.Write(codec.BinEnc(b.PoAChunk, 24))
	buf.Write(codec.BinEnc(b.PoATxPath, 24))
	buf.Write(codec.BinEnc(b.PoADataPath, 24))

	var tagCount [2]byte
	binary.BigEndian.PutUint16(tagCount[:], uint16(len(b.Tags)))
	buf.Write(tagCount[:])
	for _, t := range b.Tags {
		raw, err := encodeBlockTag(t)
		if err != nil {
			return nil, err
		}
		buf.Write(codec.BinEnc(raw, 16))
	}

	var txCount [2]byte
	binary.BigEndian.PutUint16(txCount[:], uint16(len(b.TxIDs)))
	buf.Write(txCount[:])
	for i := len(b.TxIDs) - 1; i >= 0; i-- {
		buf.Write(codec.BinEnc(b.TxIDs[i], 24))
	}

	return buf.Bytes(), nil
}

// Decode parses a Block from its complete binary wire form.
func Decode(raw []byte) (*Block, error) {
	r := bytes.NewReader(raw)

	indepHash := make([]byte, 48)
	if _, err := io.ReadFull(r, indepHash); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBlock, err)
	}

	readBin := func(sizeBytes int) ([]byte, error) { return codec.BinDec(r, sizeBytes) }
	readInt := func(sizeBytes int) (*big.Int, error) { return codec.IntDec(r, sizeBytes) }
	readInt64 := func(sizeBytes int) (int64, error) {
		n, err := readInt(sizeBytes)
		if err != nil {
			return 0, err
		}
		return n.Int64(), nil
	}

	b := &Block{IndepHash: indepHash}
	var err error
	if b.PrevBlock, err = readBin(8); err != nil {
		return nil, err
	}
	if b.Timestamp, err = readInt64(8); err != nil {
		return nil, err
	}
	if b.Nonce, err = readBin(16); err != nil {
		return nil, err
	}
	if b.Height, err = readInt64(8); err != nil {
		return nil, err
	}
	if b.Diff, err = readInt(16); err != nil {
		return nil, err
	}
	if b.CumulativeDiff, err = readInt(16); err != nil {
		return nil, err
	}
	if b.LastRetarget, err = readInt64(8); err != nil {
		return nil, err
	}
	if b.Hash, err = readBin(8); err != nil {
		return nil, err
	}
	if b.BlockSize, err = readInt64(16); err != nil {
		return nil, err
	}
	if b.WeaveSize, err = readInt64(16); err != nil {
		return nil, err
	}
	if b.RewardAddr, err = readBin(8); err != nil {
		return nil, err
	}
	if b.TxRoot, err = readBin(8); err != nil {
		return nil, err
	}
	if b.WalletList, err = readBin(8); err != nil {
		return nil, err
	}
	if b.HashListMerkle, err = readBin(8); err != nil {
		return nil, err
	}
	if b.RewardPool, err = readInt64(8); err != nil {
		return nil, err
	}
	if b.PackingThreshold, err = readInt64(8); err != nil {
		return nil, err
	}
	if b.StrictChunkThreshold, err = readInt64(8); err != nil {
		return nil, err
	}
	if b.USDToARRate.Numerator, err = readInt64(8); err != nil {
		return nil, err
	}
	if b.USDToARRate.Denominator, err = readInt64(8); err != nil {
		return nil, err
	}
	if b.ScheduledUSDToARRate.Numerator, err = readInt64(8); err != nil {
		return nil, err
	}
	if b.ScheduledUSDToARRate.Denominator, err = readInt64(8); err != nil {
		return nil, err
	}
	if b.PoAOption, err = readInt64(8); err != nil {
		return nil, err
	}
	if b.PoAChunk, err = readBin(24); err != nil {
		return nil, err
	}
	if b.PoATxPath, err = readBin(24); err != nil {
		return nil, err
	}
	if b.PoADataPath, err = readBin(24); err != nil {
		return nil, err
	}

	var tagCountBuf [2]byte
	if _, err := io.ReadFull(r, tagCountBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBlock, err)
	}
	tagCount := binary.BigEndian.Uint16(tagCountBuf[:])
	b.Tags = make([]tag.Tag, tagCount)
	for i := range b.Tags {
		raw, err := readBin(16)
		if err != nil {
			return nil, err
		}
		t, err := decodeBlockTag(raw)
		if err != nil {
			return nil, err
		}
		b.Tags[i] = t
	}

	var txCountBuf [2]byte
	if _, err := io.ReadFull(r, txCountBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBlock, err)
	}
	txCount := binary.BigEndian.Uint16(txCountBuf[:])
	ids := make([][]byte, txCount)
	for i := range ids {
		id, err := readBin(24)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	b.TxIDs = make([][]byte, txCount)
	for i, id := range ids {
		b.TxIDs[txCount-1-uint16(i)] = id
	}

	return b, nil
}

// dataSegmentBase computes the fork-gated inner signing segment (the
// "bds_base" of the original implementation) and returns its deep_hash.
func (b *Block) dataSegmentBase() ([48]byte, error) {
	txIDBlobs := make(deephash.List, len(b.TxIDs))
	for i, id := range b.TxIDs {
		txIDBlobs[i] = deephash.Blob(id)
	}

	if b.Height < Fork24 {
		pairs := make(deephash.List, len(b.Tags))
		for i, t := range b.Tags {
			pairs[i] = deephash.List{deephash.Blob(t.Name), deephash.Blob(t.Value)}
		}
		poa := deephash.List{
			deephash.Blob(ascii(b.PoAOption)),
			deephash.Blob(b.PoATxPath),
			deephash.Blob(b.PoADataPath),
			deephash.Blob(b.PoAChunk),
		}
		list := deephash.List{
			deephash.Blob(ascii(b.Height)),
			deephash.Blob(b.PrevBlock),
			deephash.Blob(b.TxRoot),
			txIDBlobs,
			deephash.Blob(ascii(b.BlockSize)),
			deephash.Blob(ascii(b.WeaveSize)),
			deephash.Blob(b.RewardAddr),
			pairs,
			poa,
		}
		return deephash.Hash(list), nil
	}

	tagsEncoded, err := encodeTagsBlock(b.Tags)
	if err != nil {
		return [48]byte{}, err
	}
	props := deephash.List{
		deephash.Blob(ascii(b.Height)),
		deephash.Blob(b.PrevBlock),
		deephash.Blob(b.TxRoot),
		txIDBlobs,
		deephash.Blob(ascii(b.BlockSize)),
		deephash.Blob(ascii(b.WeaveSize)),
		deephash.Blob(b.RewardAddr),
		deephash.Blob(tagsEncoded),
	}

	if b.Height < Fork25 {
		return deephash.Hash(props), nil
	}

	// Resolved open question: strict_chunk_threshold is ascii-encoded like
	// the five other fields in this list, rather than reproducing the source's un-encoded
	// big-int quirk (see DESIGN.md).
	rate := deephash.List{
		deephash.Blob(ascii(b.USDToARRate.Numerator)),
		deephash.Blob(ascii(b.USDToARRate.Denominator)),
		deephash.Blob(ascii(b.ScheduledUSDToARRate.Numerator)),
		deephash.Blob(ascii(b.ScheduledUSDToARRate.Denominator)),
		deephash.Blob(ascii(b.PackingThreshold)),
		deephash.Blob(ascii(b.StrictChunkThreshold)),
	}
	full := append(rate, props...)
	return deephash.Hash(full), nil
}

// SigningInput computes the block's full signing input: the outer
// deep_hash wrapping dataSegmentBase with the fields common to every
// fork (spec.md §4.H).
func (b *Block) SigningInput() ([48]byte, error) {
	base, err := b.dataSegmentBase()
	if err != nil {
		return [48]byte{}, err
	}
	list := deephash.List{
		deephash.Blob(base[:]),
		deephash.Blob(ascii(b.Timestamp)),
		deephash.Blob(ascii(b.LastRetarget)),
		deephash.Blob(b.Diff.String()),
		deephash.Blob(b.CumulativeDiff.String()),
		deephash.Blob(ascii(b.RewardPool)),
		deephash.Blob(b.WalletList),
		deephash.Blob(b.HashListMerkle),
	}
	return deephash.Hash(list), nil
}

// ComputeIndepHash returns SHA-256 of the block's signing input, the
// network's block identifier.
func (b *Block) ComputeIndepHash() ([]byte, error) {
	input, err := b.SigningInput()
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(input[:])
	return sum[:], nil
}
