package wallet

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavecore/goweave/dataitem"
	"github.com/weavecore/goweave/signer"
)

func testWallet(t *testing.T, handler http.HandlerFunc) (*Wallet, func()) {
	t.Helper()
	ts := httptest.NewServer(handler)
	s, err := signer.New()
	require.NoError(t, err)
	return FromSigner(s, ts.URL), ts.Close
}

func gatewayStub(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/tx_anchor":
		w.Write([]byte("YW5jaG9yLXZhbHVlLTAwMDAwMDAwMDAwMDAwMA"))
	case len(r.URL.Path) >= 6 && r.URL.Path[:6] == "/price":
		w.Write([]byte("1234567"))
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func TestSignTransaction(t *testing.T) {
	w, closeFn := testWallet(t, gatewayStub)
	defer closeFn()

	tx := w.CreateTransaction([]byte{1, 2, 3}, nil, "0", nil)

	t.Run("Sign", func(t *testing.T) {
		signed, err := w.SignTransaction(tx)
		require.NoError(t, err)
		assert.NotEmpty(t, signed.ID)
		assert.NotEmpty(t, signed.Signature)
	})
}

func TestSendTransaction(t *testing.T) {
	w, closeFn := testWallet(t, gatewayStub)
	defer closeFn()

	tx := w.CreateTransaction([]byte{1, 2, 3}, nil, "0", nil)
	signed, err := w.SignTransaction(tx)
	require.NoError(t, err)

	t.Run("Sent", func(t *testing.T) {
		err := w.SendTransaction(signed)
		assert.NoError(t, err)
	})

	t.Run("rejects an unsigned transaction", func(t *testing.T) {
		unsigned := w.CreateTransaction([]byte{1, 2, 3}, nil, "0", nil)
		err := w.SendTransaction(unsigned)
		assert.Error(t, err)
	})
}

func TestCreateAndSignDataItem(t *testing.T) {
	w, closeFn := testWallet(t, gatewayStub)
	defer closeFn()

	di, err := w.CreateDataItem([]byte("hello item"), nil, nil, nil)
	require.NoError(t, err)

	signed, err := w.SignDataItem(di)
	require.NoError(t, err)
	assert.NotEmpty(t, signed.Header.ID())
	assert.NoError(t, signed.Verify())
}

func TestCreateBundle(t *testing.T) {
	w, closeFn := testWallet(t, gatewayStub)
	defer closeFn()

	di1, err := w.CreateDataItem([]byte("one"), nil, nil, nil)
	require.NoError(t, err)
	signed1, err := w.SignDataItem(di1)
	require.NoError(t, err)

	di2, err := w.CreateDataItem([]byte("two"), nil, nil, nil)
	require.NoError(t, err)
	signed2, err := w.SignDataItem(di2)
	require.NoError(t, err)

	bd, err := w.CreateBundle([]*dataitem.DataItem{signed1, signed2})
	require.NoError(t, err)
	assert.NoError(t, bd.Verify())
}
