package block

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavecore/goweave/tag"
)

func randBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func sampleBlock(t *testing.T, height int64) *Block {
	t.Helper()
	return &Block{
		IndepHash:            randBytes(t, 48),
		PrevBlock:            randBytes(t, 48),
		Timestamp:            1700000000,
		Nonce:                randBytes(t, 32),
		Height:               height,
		Diff:                 big.NewInt(123456789),
		CumulativeDiff:       new(big.Int).SetInt64(987654321),
		LastRetarget:         1699990000,
		Hash:                 randBytes(t, 32),
		BlockSize:            1024,
		WeaveSize:            2048,
		RewardAddr:           randBytes(t, 32),
		TxRoot:               randBytes(t, 32),
		WalletList:           randBytes(t, 32),
		HashListMerkle:       randBytes(t, 32),
		RewardPool:           42,
		PackingThreshold:     100,
		StrictChunkThreshold: 200,
		USDToARRate:          Rate{Numerator: 1, Denominator: 5},
		ScheduledUSDToARRate: Rate{Numerator: 1, Denominator: 6},
		PoAOption:            1,
		PoAChunk:             randBytes(t, 64),
		PoATxPath:            randBytes(t, 64),
		PoADataPath:          randBytes(t, 64),
		Tags:                 []tag.Tag{{Name: "Protocol", Value: "Arweave"}},
		TxIDs:                [][]byte{randBytes(t, 32), randBytes(t, 32)},
	}
}

func TestBlockBinaryRoundTrip(t *testing.T) {
	for _, height := range []int64{Fork24 - 1, Fork24 + 1, Fork25 + 1} {
		b := sampleBlock(t, height)
		raw, err := b.Bytes()
		require.NoError(t, err)

		decoded, err := Decode(raw)
		require.NoError(t, err)

		assert.Equal(t, b.IndepHash, decoded.IndepHash)
		assert.Equal(t, b.Height, decoded.Height)
		assert.Equal(t, 0, b.Diff.Cmp(decoded.Diff))
		assert.Equal(t, 0, b.CumulativeDiff.Cmp(decoded.CumulativeDiff))
		assert.Equal(t, b.TxIDs, decoded.TxIDs)
		assert.Len(t, decoded.Tags, 1)
		assert.Equal(t, b.Tags[0], decoded.Tags[0])
	}
}

func TestSigningInputVariesByFork(t *testing.T) {
	pre24 := sampleBlock(t, Fork24-1)
	post24 := sampleBlock(t, Fork24+1)
	post24.IndepHash = pre24.IndepHash
	post24.PrevBlock = pre24.PrevBlock
	post24.Timestamp = pre24.Timestamp
	post24.LastRetarget = pre24.LastRetarget
	post24.Diff = pre24.Diff
	post24.CumulativeDiff = pre24.CumulativeDiff
	post24.RewardPool = pre24.RewardPool
	post24.WalletList = pre24.WalletList
	post24.HashListMerkle = pre24.HashListMerkle
	post24.TxRoot = pre24.TxRoot
	post24.BlockSize = pre24.BlockSize
	post24.WeaveSize = pre24.WeaveSize
	post24.RewardAddr = pre24.RewardAddr
	post24.TxIDs = pre24.TxIDs
	post24.Tags = pre24.Tags

	inputPre, err := pre24.SigningInput()
	require.NoError(t, err)
	inputPost, err := post24.SigningInput()
	require.NoError(t, err)

	assert.NotEqual(t, inputPre, inputPost, "pre- and post-FORK_2_4 signing inputs must diverge")
}

func TestSigningInputDeterministic(t *testing.T) {
	b := sampleBlock(t, Fork25+1)
	a, err := b.SigningInput()
	require.NoError(t, err)
	c, err := b.SigningInput()
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestComputeIndepHash(t *testing.T) {
	b := sampleBlock(t, Fork25+100)
	hash, err := b.ComputeIndepHash()
	require.NoError(t, err)
	assert.Len(t, hash, 32)
}

func TestRateDecimal(t *testing.T) {
	r := Rate{Numerator: 1, Denominator: 4}
	assert.Equal(t, "0.25", r.Decimal().String())

	zero := Rate{}
	assert.True(t, zero.Decimal().IsZero())
}

func TestDecodeRejectsShortInput(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3})
	assert.Error(t, err)
}
