package deephash

import (
	"bytes"
	"crypto/sha512"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashLeaf(t *testing.T) {
	got := Hash(Blob("abc"))
	want := sha512.Sum384(append([]byte("blob3"), []byte("abc")...))
	assert.Equal(t, want, got)
}

func TestHashList(t *testing.T) {
	got := Hash(List{Blob("a"), Blob("b")})

	listTag := sha512.Sum384([]byte("list2"))
	aHash := Hash(Blob("a"))
	acc := sha512.Sum384(append(listTag[:], aHash[:]...))
	bHash := Hash(Blob("b"))
	want := sha512.Sum384(append(acc[:], bHash[:]...))

	assert.Equal(t, want, got)
}

func TestHashEmptyList(t *testing.T) {
	got := Hash(List{})
	want := sha512.Sum384([]byte("list0"))
	assert.Equal(t, want, got)
}

func TestStreamMatchesHash(t *testing.T) {
	data := []byte("some payload bytes")
	want := Hash(Blob(data))
	got, err := Stream(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMixedListMatchesHash(t *testing.T) {
	heads := []Blob{Blob("x"), Blob("y")}
	tail := []byte("z-tail")

	want := Hash(List{heads[0], heads[1], Blob(tail)})
	got, err := MixedList(heads, bytes.NewReader(tail), int64(len(tail)))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAscii(t *testing.T) {
	assert.Equal(t, Blob("123"), Ascii(123))
	assert.Equal(t, Blob("0"), Ascii(0))
}
