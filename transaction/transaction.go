// Package transaction implements the Arweave format-2 transaction: a
// signed transfer/data record whose id is the hash of a canonical,
// fork-independent signing input, with a JSON round-trip and Merkle
// chunking of its data delegated to the merkle package. The package has
// no binary wire encoding or decoding of a transaction.
package transaction

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/weavecore/goweave/codec"
	"github.com/weavecore/goweave/deephash"
	"github.com/weavecore/goweave/merkle"
	"github.com/weavecore/goweave/signer"
	"github.com/weavecore/goweave/tag"
)

// ErrMalformedTransaction covers field-length/count violations that make
// a transaction unparseable or unsignable.
var ErrMalformedTransaction = errors.New("transaction: malformed transaction")

// winstonPerAR is the fixed exchange rate between Winston (the base unit
// transactions denominate quantity/reward in) and AR.
var winstonPerAR = decimal.New(1, 12)

// Transaction is a format-2 Arweave transaction.
type Transaction struct {
	Format        int
	ID            []byte
	LastTx        []byte // anchor: previous transaction id, or empty
	Owner         []byte
	SignatureType signer.Type
	Target        []byte // empty or 32 bytes
	Quantity      string // decimal Winston string
	Tags          []tag.Tag
	Data          []byte
	DataSize      int64
	DataRoot      []byte
	Reward        string // decimal Winston string
	Signature     []byte

	Chunks *merkle.ChunkedData
}

// New creates an unsigned format-2 transaction for data or an AR
// transfer. target/data may be nil; quantity defaults to "0" when empty.
func New(data []byte, target []byte, quantity string, tags []tag.Tag) *Transaction {
	if quantity == "" {
		quantity = "0"
	}
	return &Transaction{
		Format:   2,
		Target:   target,
		Quantity: quantity,
		Reward:   "0",
		Tags:     tags,
		Data:     data,
	}
}

// PrepareChunks splits data into Merkle chunks and populates DataSize,
// DataRoot, and Chunks. Called automatically by Sign; exposed so an
// uploader can walk GetChunk independently of signing.
func (tx *Transaction) PrepareChunks(data []byte) error {
	if len(data) == 0 {
		tx.Chunks = &merkle.ChunkedData{}
		tx.DataSize = 0
		tx.DataRoot = nil
		return nil
	}
	chunked, err := merkle.GenerateChunks(data)
	if err != nil {
		return err
	}
	tx.Chunks = chunked
	tx.DataSize = int64(len(data))
	tx.DataRoot = chunked.DataRoot
	return nil
}

// Chunk is one chunk of transaction data plus the information needed to
// submit it to a peer's /chunk endpoint.
type Chunk struct {
	DataRoot []byte
	DataSize int64
	DataPath []byte
	Offset   int
	Data     []byte
}

// ToGetChunkResult encodes a chunk into the base64url JSON shape a
// peer's /chunk endpoint expects.
func (c *Chunk) ToGetChunkResult() *GetChunkResult {
	return &GetChunkResult{
		DataRoot: codec.B64Encode(c.DataRoot),
		DataSize: strconv.FormatInt(c.DataSize, 10),
		DataPath: codec.B64Encode(c.DataPath),
		Offset:   strconv.Itoa(c.Offset),
		Chunk:    codec.B64Encode(c.Data),
	}
}

// GetChunk returns the i-th prepared chunk of data. PrepareChunks (or
// Sign) must have been called first.
func (tx *Transaction) GetChunk(i int, data []byte) (*Chunk, error) {
	if tx.Chunks == nil {
		return nil, errors.New("transaction: chunks have not been prepared")
	}
	if i < 0 || i >= len(tx.Chunks.Proofs) {
		return nil, fmt.Errorf("%w: chunk index out of range", ErrMalformedTransaction)
	}
	proof := tx.Chunks.Proofs[i]
	c := tx.Chunks.Chunks[i]
	return &Chunk{
		DataRoot: tx.DataRoot,
		DataSize: tx.DataSize,
		DataPath: proof.Proof,
		Offset:   proof.Offset,
		Data:     data[c.MinByteRange:c.MaxByteRange],
	}, nil
}

// signingInput computes the deep_hash over the format-2 signing list
// (§4.G): format, owner, target, quantity, reward, last_tx, tags, data
// size, data root — using the caller-supplied owner so Verify can
// recompute it from an already-populated Owner field.
func (tx *Transaction) signingInput(rawOwner []byte) ([48]byte, error) {
	if tx.Format != 2 {
		return [48]byte{}, fmt.Errorf("%w: only format 2 is supported", ErrMalformedTransaction)
	}
	tagList := make(deephash.List, 0, len(tx.Tags))
	for _, t := range tx.Tags {
		tagList = append(tagList, deephash.List{deephash.Blob(t.Name), deephash.Blob(t.Value)})
	}

	list := deephash.List{
		deephash.Blob("2"),
		deephash.Blob(rawOwner),
		deephash.Blob(tx.Target),
		deephash.Blob(tx.Quantity),
		deephash.Blob(tx.Reward),
		deephash.Blob(tx.LastTx),
		tagList,
		deephash.Blob(fmt.Sprint(tx.DataSize)),
		deephash.Blob(tx.DataRoot),
	}
	return deephash.Hash(list), nil
}

// Sign chunks tx.Data (if any), computes the signing input, and signs it
// with s, filling in SignatureType, Owner, Signature, and ID.
func (tx *Transaction) Sign(s signer.Signer) error {
	if err := tag.Validate(tx.Tags); err != nil {
		return err
	}
	if err := tx.PrepareChunks(tx.Data); err != nil {
		return err
	}

	rawOwner := s.RawOwner()
	input, err := tx.signingInput(rawOwner)
	if err != nil {
		return err
	}
	sig, err := s.Sign(input[:])
	if err != nil {
		return err
	}

	sum := sha256.Sum256(sig)
	tx.SignatureType = s.Type()
	tx.Owner = rawOwner
	tx.Signature = sig
	tx.ID = sum[:]
	return nil
}

// Verify recomputes the signing input from tx's current fields and
// checks Signature against it using Owner under SignatureType. A
// cryptographic mismatch is reported as a returned error, never a panic.
func (tx *Transaction) Verify() error {
	input, err := tx.signingInput(tx.Owner)
	if err != nil {
		return err
	}
	ok, err := signer.Verify(tx.SignatureType, tx.Owner, input[:], tx.Signature)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("transaction: signature verification failed")
	}
	return nil
}

// WinstonToAR converts a decimal Winston amount to AR.
func WinstonToAR(winston string) (decimal.Decimal, error) {
	w, err := decimal.NewFromString(winston)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("transaction: invalid winston amount: %w", err)
	}
	return w.DivRound(winstonPerAR, 12), nil
}

// ARToWinston converts an AR amount to its Winston string representation.
func ARToWinston(ar decimal.Decimal) string {
	return ar.Mul(winstonPerAR).Truncate(0).String()
}

// jsonTransaction is the upstream JSON shape: byte fields base64url,
// tags as base64-encoded name/value pairs.
type jsonTransaction struct {
	Format    int       `json:"format"`
	ID        string    `json:"id"`
	LastTx    string    `json:"last_tx"`
	Owner     string    `json:"owner"`
	Target    string    `json:"target"`
	Quantity  string    `json:"quantity"`
	Tags      []tag.Tag `json:"tags"`
	Data      string    `json:"data"`
	DataSize  string    `json:"data_size"`
	DataRoot  string    `json:"data_root"`
	Reward    string    `json:"reward"`
	Signature string    `json:"signature"`
}

// MarshalJSON renders the transaction in the upstream GraphQL/HTTP shape,
// with tag name/value pairs base64url-encoded as the network expects.
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	b64Tags := make([]tag.Tag, len(tx.Tags))
	for i, t := range tx.Tags {
		b64Tags[i] = tag.Tag{Name: codec.B64Encode([]byte(t.Name)), Value: codec.B64Encode([]byte(t.Value))}
	}
	return json.Marshal(jsonTransaction{
		Format:    tx.Format,
		ID:        codec.B64Encode(tx.ID),
		LastTx:    codec.B64Encode(tx.LastTx),
		Owner:     codec.B64Encode(tx.Owner),
		Target:    codec.B64Encode(tx.Target),
		Quantity:  tx.Quantity,
		Tags:      b64Tags,
		Data:      codec.B64Encode(tx.Data),
		DataSize:  fmt.Sprint(tx.DataSize),
		DataRoot:  codec.B64Encode(tx.DataRoot),
		Reward:    tx.Reward,
		Signature: codec.B64Encode(tx.Signature),
	})
}

// UnmarshalJSON parses the upstream transaction JSON shape.
func (tx *Transaction) UnmarshalJSON(b []byte) error {
	var j jsonTransaction
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}

	decode := func(s string) ([]byte, error) { return codec.B64Decode(s) }
	id, err := decode(j.ID)
	if err != nil {
		return fmt.Errorf("%w: id: %v", ErrMalformedTransaction, err)
	}
	lastTx, err := decode(j.LastTx)
	if err != nil {
		return fmt.Errorf("%w: last_tx: %v", ErrMalformedTransaction, err)
	}
	owner, err := decode(j.Owner)
	if err != nil {
		return fmt.Errorf("%w: owner: %v", ErrMalformedTransaction, err)
	}
	target, err := decode(j.Target)
	if err != nil {
		return fmt.Errorf("%w: target: %v", ErrMalformedTransaction, err)
	}
	if len(target) != 0 && len(target) != 32 {
		return fmt.Errorf("%w: target must be 0 or 32 bytes", ErrMalformedTransaction)
	}
	data, err := decode(j.Data)
	if err != nil {
		return fmt.Errorf("%w: data: %v", ErrMalformedTransaction, err)
	}
	dataRoot, err := decode(j.DataRoot)
	if err != nil {
		return fmt.Errorf("%w: data_root: %v", ErrMalformedTransaction, err)
	}
	signature, err := decode(j.Signature)
	if err != nil {
		return fmt.Errorf("%w: signature: %v", ErrMalformedTransaction, err)
	}

	tags := make([]tag.Tag, len(j.Tags))
	for i, t := range j.Tags {
		name, err := decode(t.Name)
		if err != nil {
			return fmt.Errorf("%w: tag name: %v", ErrMalformedTransaction, err)
		}
		value, err := decode(t.Value)
		if err != nil {
			return fmt.Errorf("%w: tag value: %v", ErrMalformedTransaction, err)
		}
		tags[i] = tag.Tag{Name: string(name), Value: string(value)}
	}

	var dataSize int64
	if j.DataSize != "" {
		if _, err := fmt.Sscan(j.DataSize, &dataSize); err != nil {
			return fmt.Errorf("%w: data_size: %v", ErrMalformedTransaction, err)
		}
	}

	*tx = Transaction{
		Format:    j.Format,
		ID:        id,
		LastTx:    lastTx,
		Owner:     owner,
		Target:    target,
		Quantity:  j.Quantity,
		Tags:      tags,
		Data:      data,
		DataSize:  dataSize,
		DataRoot:  dataRoot,
		Reward:    j.Reward,
		Signature: signature,
	}
	return nil
}
