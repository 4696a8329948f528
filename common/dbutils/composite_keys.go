package dbutils

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// NumberLength is the length of a big endian encoded block number.
const NumberLength = 8

// EncodeBlockNumber encodes a block number as big endian uint64. The encoding
// sorts lexicographically in block order, which composite keys rely on.
func EncodeBlockNumber(number uint64) []byte {
	enc := make([]byte, NumberLength)
	binary.BigEndian.PutUint64(enc, number)
	return enc
}

var ErrInvalidSize = errors.New("big endian number has an invalid size")

func DecodeBlockNumber(number []byte) (uint64, error) {
	if len(number) != NumberLength {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, len(number))
	}
	return binary.BigEndian.Uint64(number), nil
}
