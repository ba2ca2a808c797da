package merkle

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateChunksSmallPayload(t *testing.T) {
	data := []byte("a small payload that fits in a single chunk")
	chunked, err := GenerateChunks(data)
	require.NoError(t, err)
	require.Len(t, chunked.Chunks, 1)
	require.Len(t, chunked.Proofs, 1)
	assert.Equal(t, len(data), chunked.Chunks[0].MaxByteRange)
}

func TestGenerateChunksMultiChunk(t *testing.T) {
	data := make([]byte, MaxChunkSize*3+1000)
	_, err := rand.Read(data)
	require.NoError(t, err)

	chunked, err := GenerateChunks(data)
	require.NoError(t, err)
	require.True(t, len(chunked.Chunks) >= 3)

	var total int
	for _, c := range chunked.Chunks {
		total += c.MaxByteRange - c.MinByteRange
	}
	assert.Equal(t, len(data), total)
}

func TestValidatePathAllChunks(t *testing.T) {
	data := make([]byte, MaxChunkSize*2+5000)
	_, err := rand.Read(data)
	require.NoError(t, err)

	chunked, err := GenerateChunks(data)
	require.NoError(t, err)

	for i, proof := range chunked.Proofs {
		chunk, err := ValidatePath(chunked.DataRoot, proof.Offset, 0, len(data), proof.Proof)
		require.NoError(t, err, "chunk %d", i)
		assert.Equal(t, chunked.Chunks[i].MinByteRange, chunk.MinByteRange)
		assert.Equal(t, chunked.Chunks[i].MaxByteRange, chunk.MaxByteRange)
		assert.True(t, bytes.Equal(chunked.Chunks[i].DataHash, chunk.DataHash))
	}
}

func TestValidatePathRejectsCorruption(t *testing.T) {
	data := make([]byte, MaxChunkSize*2+5000)
	_, err := rand.Read(data)
	require.NoError(t, err)

	chunked, err := GenerateChunks(data)
	require.NoError(t, err)

	proof := append([]byte(nil), chunked.Proofs[0].Proof...)
	proof[0] ^= 0xFF

	_, err = ValidatePath(chunked.DataRoot, chunked.Proofs[0].Offset, 0, len(data), proof)
	assert.ErrorIs(t, err, ErrInvalidPath)
}
