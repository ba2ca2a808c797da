// Package uploader provides functionality for uploading transactions and data to Arweave nodes.
//
// This package handles the complex process of uploading transactions to the Arweave
// network, including chunked upload for large data, retry logic, and error handling.
// It supports both small transactions (uploaded in a single request) and large
// transactions (uploaded as chunks with Merkle proofs).
//
// Example usage:
//
//	// Create uploader for a transaction
//	uploader, err := New(client, transaction, data)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Upload the transaction
//	err = uploader.PostTransaction()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// For large transactions, upload chunks
//	for i := 0; i < uploader.TotalChunks; i++ {
//		err = uploader.UploadChunk(i)
//		if err != nil {
//			log.Fatal(err)
//		}
//	}
package uploader

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/weavecore/goweave/client"
	"github.com/weavecore/goweave/transaction"
)

// Upload configuration constants
const (
	MAX_CHUNKS_IN_BODY = 1     // Maximum number of chunks to include in transaction body
	DELAY              = 30000 // Base delay in milliseconds for retry logic
)

// FATAL_CHUNK_UPLOAD_ERRORS lists errors that should not be retried.
// These errors indicate permanent failures that won't be resolved by retrying.
var FATAL_CHUNK_UPLOAD_ERRORS = []string{
	"invalid_json",                     // JSON parsing error
	"chunk_too_big",                    // Chunk exceeds size limits
	"data_path_too_big",                // Merkle proof path is too large
	"offset_too_big",                   // Chunk offset is invalid
	"data_size_too_big",                // Total data size exceeds limits
	"chunk_proof_ratio_not_attractive", // Economic constraints not met
	"invalid_proof",                    // Merkle proof verification failed
}

// isFatalChunkUploadError reports whether msg (client.post's wrapped
// error text, e.g. "invalid arweave id: chunk_too_big") names one of
// FATAL_CHUNK_UPLOAD_ERRORS. The gateway's error token survives as a
// substring of the wrapped form rather than the whole string, since a
// sentinel prefix (from client.statusError) comes before it.
func isFatalChunkUploadError(msg string) bool {
	for _, token := range FATAL_CHUNK_UPLOAD_ERRORS {
		if strings.Contains(msg, token) {
			return true
		}
	}
	return false
}

// TransactionUploader manages the upload process for an Arweave transaction.
//
// This struct tracks the state of an ongoing upload operation, including
// which chunks have been uploaded, error counts, and timing information.
// It handles both simple uploads (small transactions) and chunked uploads
// (large transactions with Merkle proofs).
type TransactionUploader struct {
	client             *client.Client           // HTTP client for communicating with Arweave nodes
	transaction        *transaction.Transaction // The transaction being uploaded
	ChunkIndex         int                      // Index of the next chunk to upload
	TxPosted           bool                     // Whether the transaction header has been posted
	Data               []byte                   // Raw transaction data (for chunk generation)
	LastRequestTimeEnd int64                    // Timestamp of last request completion
	TotalErrors        int                      // Running count of upload errors (not serialized)
	LastResponseStatus int                      // HTTP status code from last request
	LastResponseError  string                   // Error message from last failed request
	TotalChunks        int                      // Total number of chunks in this transaction
}

// New creates a new TransactionUploader for the given transaction.
//
// This function initializes an uploader instance to manage the upload
// process for a transaction. The uploader tracks upload state and handles
// retry logic for failed uploads.
//
// Parameters:
//   - c: HTTP client for communicating with Arweave nodes
//   - t: The transaction to upload
//   - data: The transaction's payload; chunked via PrepareChunks when t has no chunks yet
//
// Returns a new TransactionUploader instance ready to begin uploading.
//
// Example:
//
//	uploader, err := New(client, signedTransaction, signedTransaction.Data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Created uploader for transaction %s\n", signedTransaction.ID)
func New(c *client.Client, t *transaction.Transaction, data []byte) (*TransactionUploader, error) {
	if t.Chunks == nil {
		if err := t.PrepareChunks(data); err != nil {
			return nil, err
		}
	}
	return &TransactionUploader{
		client:             c,
		transaction:        t,
		ChunkIndex:         0,
		TxPosted:           false,
		Data:               data,
		LastRequestTimeEnd: 0,
		TotalErrors:        0,
		LastResponseStatus: 0,
		LastResponseError:  "",
		TotalChunks:        len(t.Chunks.Chunks),
	}, nil
}

// PostTransaction uploads the transaction to the Arweave network.
//
// This method handles the initial transaction submission. For small transactions
// (with few chunks), the entire transaction including data is uploaded in one
// request. For large transactions, only the transaction header is uploaded,
// and data chunks must be uploaded separately using UploadChunk.
//
// The method automatically determines the upload strategy based on the
// MAX_CHUNKS_IN_BODY constant.
//
// Returns an error if the transaction submission fails.
//
// Example:
//
//	err := uploader.PostTransaction()
//	if err != nil {
//		log.Printf("Failed to post transaction: %v", err)
//		return err
//	}
//	if uploader.TxPosted {
//		fmt.Println("Transaction posted successfully")
//	}
func (tu *TransactionUploader) PostTransaction() error {
	if tu.TotalChunks <= MAX_CHUNKS_IN_BODY {
		code, err := tu.client.SubmitTransaction(tu.transaction)
		if err != nil {
			return err
		}
		tu.LastRequestTimeEnd = time.Now().UTC().UnixMilli()
		tu.LastResponseStatus = code
		if code >= 200 && code < 400 {
			tu.TxPosted = true
			tu.ChunkIndex = MAX_CHUNKS_IN_BODY
		}
		return nil
	} else {
		// Post the transaction header only; chunk data is uploaded separately.
		header := *tu.transaction
		header.Data = nil
		code, err := tu.client.SubmitTransaction(&header)
		if err != nil {
			return err
		}
		tu.LastRequestTimeEnd = time.Now().UTC().UnixMilli()
		tu.LastResponseStatus = code
		if code >= 200 && code < 300 {
			tu.TxPosted = true
			return nil
		}
		return nil
	}
}

// UploadChunk uploads a specific chunk of the transaction data.
//
// This method uploads individual data chunks for large transactions.
// After a failed request it waits before retrying: a fixed DELAY base
// (plus any remaining cool-down from the last request), reduced by up to
// 30% random jitter; the delay does not grow with repeated failures.
// Fatal gateway errors abort instead of retrying.
//
// The method will:
// 1. Check if upload is already complete
// 2. Track error counts and implement failure limits
// 3. Apply retry delays with jitter
// 4. Post the transaction header if not already done
// 5. Upload the specified chunk with its Merkle proof
// 6. Handle response codes and errors
//
// Parameters:
//   - chunkIndex: The index of the chunk to upload (0-based)
//
// Returns an error if the chunk upload fails permanently or if
// too many errors have occurred.
//
// Example:
//
//	// Upload all chunks
//	for i := 0; i < uploader.TotalChunks; i++ {
//		err := uploader.UploadChunk(i)
//		if err != nil {
//			log.Printf("Failed to upload chunk %d: %v", i, err)
//			return err
//		}
//		fmt.Printf("Uploaded chunk %d/%d\n", i+1, uploader.TotalChunks)
//	}
func (tu *TransactionUploader) UploadChunk(chunkIndex int) error {
	if tu.TxPosted && tu.ChunkIndex == tu.TotalChunks {
		return errors.New("upload is already complete")
	}

	if tu.LastResponseError != "" {
		tu.TotalErrors++
	} else {
		tu.TotalErrors = 0
	}

	if tu.TotalErrors >= 100 {
		return fmt.Errorf("fatal: unable to complete upload: %d: %s", tu.LastResponseStatus, tu.LastResponseError)
	}

	var delay = 0.0
	if tu.LastResponseError != "" {
		delay = DELAY + math.Max(0, float64(tu.LastRequestTimeEnd)-float64(time.Now().UTC().UnixMilli()))
	}

	if delay > 0 {
		delay = delay - delay*0.3*rand.Float64()
		time.Sleep(time.Duration(delay) * time.Millisecond)
	}

	if !tu.TxPosted {
		return tu.PostTransaction()
	}

	chunk, err := tu.transaction.GetChunk(chunkIndex, tu.Data)
	if err != nil {
		return err
	}

	code, err := tu.client.UploadChunk(chunk.ToGetChunkResult())
	tu.LastRequestTimeEnd = time.Now().UTC().UnixMilli()
	tu.LastResponseStatus = code

	if tu.LastResponseStatus == 200 {
		tu.ChunkIndex++
	} else {
		if err != nil {
			tu.LastResponseError = err.Error()
		}
		if isFatalChunkUploadError(tu.LastResponseError) {
			return fmt.Errorf("fatal: unable to complete upload: %d: %s", tu.LastResponseStatus, tu.LastResponseError)
		}
	}
	return nil
}

// ConcurrentUpload uploads every remaining chunk using a bounded pool of
// workers instead of one chunk at a time. The transaction header is
// posted first, synchronously, since every chunk upload depends on
// TxPosted being true. concurrency caps the number of chunks in flight
// at once; errors from individual chunks are collected and returned
// together, uploading continues past a non-fatal chunk failure so a
// caller can retry just the chunks that failed.
func (tu *TransactionUploader) ConcurrentUpload(concurrency int) error {
	if !tu.TxPosted {
		if err := tu.PostTransaction(); err != nil {
			return err
		}
	}

	var (
		mu     sync.Mutex
		errs   []error
		wg     sync.WaitGroup
		remain = tu.TotalChunks - tu.ChunkIndex
	)
	if remain <= 0 {
		return nil
	}
	wg.Add(remain)

	pool, err := ants.NewPoolWithFunc(concurrency, func(arg interface{}) {
		defer wg.Done()
		i := arg.(int)
		chunk, err := tu.transaction.GetChunk(i, tu.Data)
		if err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("chunk %d: %w", i, err))
			mu.Unlock()
			return
		}
		code, err := tu.client.UploadChunk(chunk.ToGetChunkResult())
		if err != nil || code != 200 {
			mu.Lock()
			errs = append(errs, fmt.Errorf("chunk %d: status %d: %w", i, code, err))
			mu.Unlock()
			return
		}
		mu.Lock()
		tu.ChunkIndex++
		mu.Unlock()
	})
	if err != nil {
		return fmt.Errorf("uploader: failed to start worker pool: %w", err)
	}
	defer pool.Release()

	for i := tu.ChunkIndex; i < tu.TotalChunks; i++ {
		if err := pool.Invoke(i); err != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, fmt.Errorf("chunk %d: %w", i, err))
			mu.Unlock()
		}
	}
	wg.Wait()

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
