// Package uploader tests - verifies transaction upload functionality
package uploader

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavecore/goweave/client"
	"github.com/weavecore/goweave/signer"
	"github.com/weavecore/goweave/transaction"
)

// TestNew verifies that uploaders can be created correctly
func TestNew(t *testing.T) {
	c := client.New("http://localhost:1984")
	data := []byte("test data")
	tx := transaction.New(data, nil, "0", nil)

	u, err := New(c, tx, data)
	require.NoError(t, err)
	assert.NotNil(t, u)
	assert.Equal(t, c, u.client)
	assert.Equal(t, tx, u.transaction)
	assert.Equal(t, 0, u.ChunkIndex)
	assert.False(t, u.TxPosted)
	assert.Equal(t, 0, u.TotalErrors)
	assert.Equal(t, 0, u.LastResponseStatus)
	assert.Empty(t, u.LastResponseError)
}

// TestUploaderInitialization verifies uploader is properly initialized
func TestUploaderInitialization(t *testing.T) {
	c := client.New("http://localhost:1984")

	t.Run("Small transaction", func(t *testing.T) {
		data := []byte("small data")
		tx := transaction.New(data, nil, "0", nil)

		u, err := New(c, tx, data)
		require.NoError(t, err)
		assert.Equal(t, 1, u.TotalChunks)
		assert.Equal(t, 0, u.ChunkIndex)
	})

	t.Run("Empty transaction", func(t *testing.T) {
		tx := transaction.New(nil, make([]byte, 32), "1000", nil)

		u, err := New(c, tx, nil)
		require.NoError(t, err)
		assert.NotNil(t, u)
	})
}

// TestFatalErrors verifies fatal error detection
func TestFatalErrors(t *testing.T) {
	testCases := []struct {
		name    string
		error   string
		isFatal bool
	}{
		{"Invalid JSON", "invalid_json", true},
		{"Chunk too big", "chunk_too_big", true},
		{"Data path too big", "data_path_too_big", true},
		{"Offset too big", "offset_too_big", true},
		{"Data size too big", "data_size_too_big", true},
		{"Proof ratio not attractive", "chunk_proof_ratio_not_attractive", true},
		{"Invalid proof", "invalid_proof", true},
		{"Network error", "network_timeout", false},
		{"Temporary error", "temporary_failure", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			isFatal := false
			for _, fatalError := range FATAL_CHUNK_UPLOAD_ERRORS {
				if fatalError == tc.error {
					isFatal = true
					break
				}
			}
			assert.Equal(t, tc.isFatal, isFatal)
		})
	}
}

// TestConstants verifies important constants are set correctly
func TestConstants(t *testing.T) {
	assert.Equal(t, 1, MAX_CHUNKS_IN_BODY)
	assert.Equal(t, 30000, DELAY)
	assert.Len(t, FATAL_CHUNK_UPLOAD_ERRORS, 7)
}

// TestUploaderFields verifies all uploader fields are accessible
func TestUploaderFields(t *testing.T) {
	c := client.New("http://localhost:1984")
	data := []byte("test data for uploader")
	tx := transaction.New(data, nil, "0", nil)

	u, err := New(c, tx, data)
	require.NoError(t, err)

	u.ChunkIndex = 5
	u.TxPosted = true
	u.Data = []byte("new data")
	u.LastRequestTimeEnd = 123456789
	u.TotalErrors = 3
	u.LastResponseStatus = 200
	u.LastResponseError = "test error"
	u.TotalChunks = 10

	assert.Equal(t, 5, u.ChunkIndex)
	assert.True(t, u.TxPosted)
	assert.Equal(t, []byte("new data"), u.Data)
	assert.Equal(t, int64(123456789), u.LastRequestTimeEnd)
	assert.Equal(t, 3, u.TotalErrors)
	assert.Equal(t, 200, u.LastResponseStatus)
	assert.Equal(t, "test error", u.LastResponseError)
	assert.Equal(t, 10, u.TotalChunks)
}

// createMockSignedTransaction creates a properly signed transaction for testing
func createMockSignedTransaction(t *testing.T, data []byte) *transaction.Transaction {
	t.Helper()
	s, err := signer.New()
	require.NoError(t, err)

	tx := transaction.New(data, nil, "0", nil)
	tx.Owner = s.RawOwner()
	tx.SignatureType = s.Type()
	tx.LastTx = []byte("test-anchor-000000000000000000000")
	tx.Reward = "1000"

	err = tx.Sign(s)
	require.NoError(t, err)

	return tx
}

// TestPostTransactionValidation verifies transaction validation before posting
func TestPostTransactionValidation(t *testing.T) {
	c := client.New("http://localhost:1984")
	data := []byte("test transaction data")
	tx := createMockSignedTransaction(t, data)

	u, err := New(c, tx, data)
	require.NoError(t, err)

	assert.NotNil(t, u.transaction)
	assert.NotEmpty(t, u.transaction.ID)
	assert.NotEmpty(t, u.transaction.Signature)
}

func TestPostTransactionSmall(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := client.New(ts.URL)
	data := []byte("small payload")
	tx := createMockSignedTransaction(t, data)

	u, err := New(c, tx, data)
	require.NoError(t, err)

	err = u.PostTransaction()
	require.NoError(t, err)
	assert.True(t, u.TxPosted)
	assert.Equal(t, 200, u.LastResponseStatus)
}

func TestConcurrentUploadUploadsAllChunks(t *testing.T) {
	chunkRequests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/chunk" {
			chunkRequests++
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := client.New(ts.URL)
	data := make([]byte, 600*1024) // forces multiple chunks
	for i := range data {
		data[i] = byte(i)
	}
	tx := createMockSignedTransaction(t, data)

	u, err := New(c, tx, data)
	require.NoError(t, err)
	require.Greater(t, u.TotalChunks, 1)

	err = u.ConcurrentUpload(4)
	require.NoError(t, err)
	assert.Equal(t, u.TotalChunks, u.ChunkIndex)
	assert.Equal(t, u.TotalChunks, chunkRequests)
}

// TestIsFatalChunkUploadErrorMatchesWrappedForm asserts the fatal-error
// check actually fires against the error string client.post produces: a
// sentinel-prefixed message, not the gateway's bare token on its own.
func TestIsFatalChunkUploadErrorMatchesWrappedForm(t *testing.T) {
	assert.True(t, isFatalChunkUploadError("invalid arweave id: chunk_too_big"))
	assert.True(t, isFatalChunkUploadError("invalid_proof"))
	assert.False(t, isFatalChunkUploadError("invalid arweave id: some_other_reason"))
	assert.False(t, isFatalChunkUploadError(""))
}

// TestUploadChunkFailsFastOnFatalGatewayError verifies a /chunk response
// carrying a fatal error token aborts the upload on the first attempt
// instead of retrying until TotalErrors reaches its cap.
func TestUploadChunkFailsFastOnFatalGatewayError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/chunk" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("chunk_too_big"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := client.New(ts.URL)
	data := make([]byte, 600*1024) // multiple chunks, so the header is posted without data
	tx := createMockSignedTransaction(t, data)

	u, err := New(c, tx, data)
	require.NoError(t, err)
	require.NoError(t, u.PostTransaction())

	err = u.UploadChunk(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fatal")
	assert.Equal(t, 0, u.TotalErrors)
}
