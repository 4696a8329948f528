package changestrie

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputKeyRoundTrip(t *testing.T) {
	keys := []InputKey{
		ExtrinsicIndexKey(0, []byte{100}),
		ExtrinsicIndexKey(5, []byte("balances:alice")),
		ExtrinsicIndexKey(^uint64(0), bytes.Repeat([]byte{0xff}, 64)),
		DigestIndexKey(4, []byte{100}),
		DigestIndexKey(1<<40, []byte{0}),
	}
	for _, k := range keys {
		decoded, err := DecodeInputKey(k.Encode())
		require.NoError(t, err)
		assert.Equal(t, k, decoded)
	}
}

func TestDecodeInputKeyRejectsMalformed(t *testing.T) {
	_, err := DecodeInputKey(nil)
	require.ErrorIs(t, err, ErrInvalidInputKey)

	_, err = DecodeInputKey([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidInputKey)

	// unknown discriminant
	foreign := ExtrinsicIndexKey(4, []byte{100}).Encode()
	foreign[0] = 3
	_, err = DecodeInputKey(foreign)
	require.ErrorIs(t, err, ErrInvalidInputKey)
}

func TestKeyNeutralPrefixes(t *testing.T) {
	extrinsic := ExtrinsicIndexKey(4, []byte{100}).Encode()
	digest := DigestIndexKey(4, []byte{100}).Encode()

	assert.True(t, bytes.HasPrefix(extrinsic, ExtrinsicPrefix(4)))
	assert.True(t, bytes.HasPrefix(digest, DigestPrefix(4)))

	// prefixes separate kinds and blocks
	assert.False(t, bytes.HasPrefix(extrinsic, DigestPrefix(4)))
	assert.False(t, bytes.HasPrefix(digest, ExtrinsicPrefix(4)))
	assert.False(t, bytes.HasPrefix(extrinsic, ExtrinsicPrefix(5)))
}

// Big endian block numbers keep encoded keys of one kind sorted by block.
func TestEncodedKeysSortByBlock(t *testing.T) {
	prev := ExtrinsicIndexKey(0, nil).Encode()
	for _, block := range []uint64{1, 2, 255, 256, 1 << 20, 1 << 40} {
		cur := ExtrinsicIndexKey(block, nil).Encode()
		require.True(t, bytes.Compare(prev, cur) < 0, "block %d", block)
		prev = cur
	}
}
