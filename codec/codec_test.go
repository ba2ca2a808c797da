package codec

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 255, 256, 65535, 1 << 40}
	for _, n := range cases {
		enc := IntEncUint64(n, 8)
		got, err := IntDecUint64(bytes.NewReader(enc), 8)
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestBinRoundTrip(t *testing.T) {
	blobs := [][]byte{nil, []byte("a"), bytes.Repeat([]byte{0x42}, 300)}
	for _, b := range blobs {
		enc := BinEnc(b, 16)
		got, err := BinDec(bytes.NewReader(enc), 16)
		require.NoError(t, err)
		assert.Equal(t, len(b), len(got))
		assert.True(t, bytes.Equal(b, got) || (len(b) == 0 && len(got) == 0))
	}
}

func TestBinDecShortRead(t *testing.T) {
	_, err := BinDec(bytes.NewReader([]byte{0, 0}), 8)
	require.Error(t, err)
}

func TestIntEncBigValue(t *testing.T) {
	n := new(big.Int)
	n.SetString("123456789012345678901234567890", 10)
	enc := IntEnc(n, 16)
	got, err := IntDec(bytes.NewReader(enc), 16)
	require.NoError(t, err)
	assert.Equal(t, 0, n.Cmp(got))
}

func TestB64RoundTrip(t *testing.T) {
	data := []byte("Hello, Arweave!")
	enc := B64Encode(data)
	assert.NotContains(t, enc, "=")
	dec, err := B64Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, data, dec)
}
