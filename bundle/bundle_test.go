package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weavecore/goweave/dataitem"
	"github.com/weavecore/goweave/signer"
)

func mustSignedItem(t *testing.T, s signer.Signer, data string) *dataitem.DataItem {
	t.Helper()
	d, err := dataitem.New(s.Type(), []byte(data), nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, d.Sign(s))
	return d
}

func TestBundleRoundTrip(t *testing.T) {
	s, err := signer.New()
	require.NoError(t, err)

	items := []*dataitem.DataItem{
		mustSignedItem(t, s, "first"),
		mustSignedItem(t, s, "second"),
	}
	b, err := New(items)
	require.NoError(t, err)

	raw, err := b.Bytes()
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	require.NoError(t, decoded.Verify())
	assert.Len(t, decoded.Items, 2)
	assert.Equal(t, items[0].Data, decoded.Items[0].Data)
	assert.Equal(t, items[1].Data, decoded.Items[1].Data)
}

func TestBundleHeaderLength(t *testing.T) {
	s, err := signer.New()
	require.NoError(t, err)
	items := []*dataitem.DataItem{mustSignedItem(t, s, "x"), mustSignedItem(t, s, "y")}
	b, err := New(items)
	require.NoError(t, err)

	raw, err := b.Bytes()
	require.NoError(t, err)

	headerLen := 32 + 64*len(items)
	var total int
	for _, e := range b.Header.Entries {
		total += e.Length
	}
	assert.Equal(t, headerLen+total, len(raw))
}

func TestDecodeRejectsShortInput(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrMalformedBundle)
}
