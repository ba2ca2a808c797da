// Package wallet provides high-level functionality for managing Arweave wallets and transactions.
//
// This package combines the signer, client, and transaction functionality into a convenient
// wallet interface that handles the common workflow of creating, signing, and sending
// transactions to the Arweave network.
//
// Example usage:
//
//	// Create wallet from JWK file
//	wallet, err := wallet.FromPath("wallet.json", "https://arweave.net")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Create and send a transaction
//	tx := wallet.CreateTransaction([]byte("Hello Arweave!"), nil, "0", nil)
//	signedTx, err := wallet.SignTransaction(tx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = wallet.SendTransaction(signedTx)
//	if err != nil {
//		log.Fatal(err)
//	}
package wallet

import (
	"errors"
	"os"

	"github.com/weavecore/goweave/bundle"
	"github.com/weavecore/goweave/client"
	"github.com/weavecore/goweave/codec"
	"github.com/weavecore/goweave/dataitem"
	"github.com/weavecore/goweave/signer"
	"github.com/weavecore/goweave/tag"
	"github.com/weavecore/goweave/transaction"
	"github.com/weavecore/goweave/uploader"
)

// Wallet represents an Arweave wallet with signing and network capabilities.
//
// A Wallet combines a cryptographic signer for creating transaction signatures
// and a client for communicating with Arweave nodes. It provides a high-level
// interface for common Arweave operations like creating transactions, data items,
// and bundles. The signer is held as the signer.Signer interface so a Wallet
// works the same way regardless of which key scheme (Arweave RSA, Ed25519,
// secp256k1, or Solana) backs it.
type Wallet struct {
	Client *client.Client // HTTP client for communicating with Arweave nodes
	Signer signer.Signer  // Cryptographic signer for transaction and data item signing
}

// New creates a new wallet with a randomly generated Arweave RSA key.
//
// Parameters:
//   - gateway: The URL of the Arweave gateway to use (e.g., "https://arweave.net")
//
// Returns a new Wallet instance or an error if key generation fails.
func New(gateway string) (w *Wallet, err error) {
	s, err := signer.New()
	if err != nil {
		return nil, err
	}
	return &Wallet{
		Client: client.New(gateway),
		Signer: s,
	}, nil
}

// FromPath creates a wallet from a JWK file on disk.
//
// Parameters:
//   - path: The file system path to the JWK file
//   - gateway: The URL of the Arweave gateway to use
func FromPath(path string, gateway string) (*Wallet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromJWK(b, gateway)
}

// FromJWK creates a wallet from JWK data in memory.
//
// Parameters:
//   - jwk: The JWK data as bytes (should be valid JSON)
//   - gateway: The URL of the Arweave gateway to use
func FromJWK(jwk []byte, gateway string) (*Wallet, error) {
	s, err := signer.FromJWK(jwk)
	if err != nil {
		return nil, err
	}
	return &Wallet{
		Client: client.New(gateway),
		Signer: s,
	}, nil
}

// FromSigner wraps an already-constructed signer of any supported scheme
// (Ed25519, secp256k1, Solana, or Arweave RSA) into a Wallet.
func FromSigner(s signer.Signer, gateway string) *Wallet {
	return &Wallet{
		Client: client.New(gateway),
		Signer: s,
	}
}

// CreateTransaction creates a new, unsigned Arweave transaction.
//
// Parameters:
//   - data: The data to include in the transaction (can be nil for AR transfers)
//   - target: The target wallet's raw 32-byte address for AR transfers (nil for data-only)
//   - quantity: The amount of AR to transfer in Winston units ("0" for data-only)
//   - tags: Optional metadata tags (can be nil)
func (w *Wallet) CreateTransaction(data []byte, target []byte, quantity string, tags []tag.Tag) *transaction.Transaction {
	return transaction.New(data, target, quantity, tags)
}

// SignTransaction signs a transaction and fills in required network fields.
//
// This method sets the transaction owner to this wallet's public key, fetches
// the current transaction anchor and fee from the network, and signs the
// transaction with this wallet's signer.
func (w *Wallet) SignTransaction(tx *transaction.Transaction) (*transaction.Transaction, error) {
	tx.Owner = w.Signer.RawOwner()
	tx.SignatureType = w.Signer.Type()

	anchor, err := w.Client.GetTransactionAnchor()
	if err != nil {
		return nil, err
	}
	rawAnchor, err := codec.B64Decode(anchor)
	if err != nil {
		return nil, err
	}
	tx.LastTx = rawAnchor

	reward, err := w.Client.GetTransactionPrice(len(tx.Data), "")
	if err != nil {
		return nil, err
	}
	tx.Reward = reward

	if err = tx.Sign(w.Signer); err != nil {
		return nil, err
	}
	return tx, nil
}

// SendTransaction sends a signed transaction to the Arweave network.
//
// For small transactions this uploads the full transaction (including data)
// in a single request; for large transactions only the header is posted and
// the caller must follow up with UploadChunks.
func (w *Wallet) SendTransaction(tx *transaction.Transaction) error {
	if len(tx.ID) == 0 || len(tx.Signature) == 0 {
		return errors.New("wallet: transaction not signed")
	}
	tu, err := uploader.New(w.Client, tx, tx.Data)
	if err != nil {
		return err
	}
	return tu.PostTransaction()
}

// UploadChunks uploads every chunk of a large, already-posted transaction
// using a bounded pool of concurrent workers.
func (w *Wallet) UploadChunks(tx *transaction.Transaction, concurrency int) error {
	tu, err := uploader.New(w.Client, tx, tx.Data)
	if err != nil {
		return err
	}
	if err := tu.PostTransaction(); err != nil {
		return err
	}
	return tu.ConcurrentUpload(concurrency)
}

// CreateDataItem creates a new, unsigned ANS-104 data item.
//
// Data items are a more efficient way to upload data to Arweave when using
// bundling services. They follow the ANS-104 specification and can be
// aggregated into bundles for cost-effective uploads.
//
// Parameters:
//   - data: The data to include in the data item
//   - target: Optional raw bytes of a target address (nil or 32 bytes)
//   - anchor: Optional anchor value (nil or up to 32 bytes)
//   - tags: Optional metadata tags
func (w *Wallet) CreateDataItem(data, target, anchor []byte, tags []tag.Tag) (*dataitem.DataItem, error) {
	return dataitem.New(w.Signer.Type(), data, target, anchor, tags)
}

// SignDataItem signs a data item with this wallet's signer, making it
// ready for inclusion in a bundle or direct upload.
func (w *Wallet) SignDataItem(di *dataitem.DataItem) (*dataitem.DataItem, error) {
	if err := di.Sign(w.Signer); err != nil {
		return nil, err
	}
	return di, nil
}

// CreateBundle creates a new ANS-104 bundle from multiple signed data items.
func (w *Wallet) CreateBundle(items []*dataitem.DataItem) (*bundle.Bundle, error) {
	return bundle.New(items)
}

// SendBundle wraps a bundle's binary form in a data transaction, signs it,
// and submits it to the network, tagging it per the ANS-104 bundle format
// so gateways and indexers recognize it as a bundle.
func (w *Wallet) SendBundle(bd *bundle.Bundle) (*transaction.Transaction, error) {
	raw, err := bd.Bytes()
	if err != nil {
		return nil, err
	}
	tx := w.CreateTransaction(raw, nil, "0", []tag.Tag{
		{Name: "Bundle-Format", Value: "binary"},
		{Name: "Bundle-Version", Value: "2.0.0"},
	})
	tx, err = w.SignTransaction(tx)
	if err != nil {
		return nil, err
	}
	if err := w.SendTransaction(tx); err != nil {
		return nil, err
	}
	return tx, nil
}
