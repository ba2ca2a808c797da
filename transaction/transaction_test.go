package transaction

import (
	"crypto/rand"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavecore/goweave/signer"
	"github.com/weavecore/goweave/tag"
)

func TestSignAndVerifyDataTransaction(t *testing.T) {
	s, err := signer.New()
	require.NoError(t, err)

	tx := New([]byte("hello, arweave"), nil, "", []tag.Tag{{Name: "Content-Type", Value: "text/plain"}})
	require.NoError(t, tx.Sign(s))

	assert.NotEmpty(t, tx.ID)
	assert.NotEmpty(t, tx.DataRoot)
	assert.Equal(t, int64(len("hello, arweave")), tx.DataSize)
	assert.NoError(t, tx.Verify())
}

func TestSignAndVerifyTransferTransaction(t *testing.T) {
	s, err := signer.NewEd25519()
	require.NoError(t, err)

	target := make([]byte, 32)
	_, err = rand.Read(target)
	require.NoError(t, err)

	tx := New(nil, target, "1000000000000", nil)
	tx.Reward = "50000000"
	require.NoError(t, tx.Sign(s))
	assert.Equal(t, int64(0), tx.DataSize)
	assert.NoError(t, tx.Verify())
}

func TestVerifyRejectsTamperedQuantity(t *testing.T) {
	s, err := signer.New()
	require.NoError(t, err)

	tx := New(nil, nil, "1", nil)
	require.NoError(t, tx.Sign(s))

	tx.Quantity = "2"
	assert.Error(t, tx.Verify())
}

func TestJSONRoundTrip(t *testing.T) {
	s, err := signer.New()
	require.NoError(t, err)

	tx := New([]byte("payload"), nil, "", []tag.Tag{{Name: "App-Name", Value: "goweave-test"}})
	require.NoError(t, tx.Sign(s))

	raw, err := json.Marshal(tx)
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, tx.ID, decoded.ID)
	assert.Equal(t, tx.Data, decoded.Data)
	assert.Equal(t, tx.DataRoot, decoded.DataRoot)
	assert.Len(t, decoded.Tags, 1)
	assert.Equal(t, "App-Name", decoded.Tags[0].Name)
}

func TestGetChunk(t *testing.T) {
	s, err := signer.New()
	require.NoError(t, err)

	data := make([]byte, 10000)
	_, err = rand.Read(data)
	require.NoError(t, err)

	tx := New(data, nil, "", nil)
	require.NoError(t, tx.Sign(s))

	chunk, err := tx.GetChunk(0, data)
	require.NoError(t, err)
	assert.Equal(t, data, chunk.Data)
	assert.Equal(t, tx.DataRoot, chunk.DataRoot)
}

func TestWinstonARConversion(t *testing.T) {
	ar, err := WinstonToAR("1000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1", ar.String())

	winston := ARToWinston(ar)
	assert.Equal(t, "1000000000000", winston)
}
