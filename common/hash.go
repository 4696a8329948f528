package common

import "encoding/hex"

// HashLength is the expected length of a trie root hash in bytes.
const HashLength = 32

// Hash represents the 32 byte root of a changes trie.
type Hash [HashLength]byte

// BytesToHash sets b to hash. If b is larger than HashLength, b will be
// cropped from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// SetBytes sets the hash to the value of b. If b is larger than HashLength,
// b will be cropped from the left.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// Bytes returns the bytes underlying the hash.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the hash as an unprefixed hex string.
func (h Hash) Hex() string { return hex.EncodeToString(h[:]) }
