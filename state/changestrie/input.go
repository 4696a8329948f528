package changestrie

import (
	"errors"
	"fmt"

	"github.com/AtenJin/substrate/common"
	"github.com/AtenJin/substrate/common/dbutils"
)

// InputKind discriminates the two kinds of changes trie entries.
type InputKind uint8

const (
	// ExtrinsicInput tags entries listing the extrinsics that changed a
	// storage key within a single block.
	ExtrinsicInput InputKind = 1
	// DigestInput tags entries listing the child blocks whose changes tries
	// reference a storage key.
	DigestInput InputKind = 2
)

// 1 byte kind + big endian block number
const inputKeyPrefixLength = 1 + dbutils.NumberLength

var ErrInvalidInputKey = errors.New("invalid changes trie input key")

// InputKey addresses one entry of a block's changes trie.
// Encoded layout: 1 byte kind, 8 byte big endian block number, raw storage
// key. Big endian block numbers keep lexicographic and numeric order aligned,
// so all entries of one kind and block share a common prefix.
type InputKey struct {
	Kind  InputKind
	Block uint64
	Key   []byte
}

func ExtrinsicIndexKey(block uint64, key []byte) InputKey {
	return InputKey{Kind: ExtrinsicInput, Block: block, Key: key}
}

func DigestIndexKey(block uint64, key []byte) InputKey {
	return InputKey{Kind: DigestInput, Block: block, Key: key}
}

// Encode returns the stable binary form of the key.
func (k InputKey) Encode() []byte {
	enc := make([]byte, 0, inputKeyPrefixLength+len(k.Key))
	enc = append(enc, byte(k.Kind))
	enc = append(enc, dbutils.EncodeBlockNumber(k.Block)...)
	return append(enc, k.Key...)
}

// DecodeInputKey parses a raw key read out of changes trie storage. Malformed
// or foreign prefix bytes yield ErrInvalidInputKey, never a panic: prefix
// scans may structurally admit keys written by other schemes.
func DecodeInputKey(enc []byte) (InputKey, error) {
	if len(enc) < inputKeyPrefixLength {
		return InputKey{}, fmt.Errorf("%w: %d bytes", ErrInvalidInputKey, len(enc))
	}
	kind := InputKind(enc[0])
	if kind != ExtrinsicInput && kind != DigestInput {
		return InputKey{}, fmt.Errorf("%w: unknown kind %d", ErrInvalidInputKey, enc[0])
	}
	block, err := dbutils.DecodeBlockNumber(enc[1:inputKeyPrefixLength])
	if err != nil {
		return InputKey{}, err
	}
	return InputKey{Kind: kind, Block: block, Key: common.Copy(enc[inputKeyPrefixLength:])}, nil
}

// ExtrinsicPrefix returns the key neutral prefix shared by every extrinsic
// index entry of the given block.
func ExtrinsicPrefix(block uint64) []byte { return keyPrefix(ExtrinsicInput, block) }

// DigestPrefix returns the key neutral prefix shared by every digest index
// entry of the given block.
func DigestPrefix(block uint64) []byte { return keyPrefix(DigestInput, block) }

func keyPrefix(kind InputKind, block uint64) []byte {
	prefix := make([]byte, 0, inputKeyPrefixLength)
	prefix = append(prefix, byte(kind))
	return append(prefix, dbutils.EncodeBlockNumber(block)...)
}

// InputPair is the atomic unit fed into the trie builder: an input key with
// its value set. Extrinsics is populated for ExtrinsicInput keys, Blocks for
// DigestInput keys. Both sets are ascending and free of duplicates, and are
// never mutated after the pair is produced.
type InputPair struct {
	Key        InputKey
	Extrinsics []uint32
	Blocks     []uint64
}

func ExtrinsicIndexPair(block uint64, key []byte, extrinsics []uint32) InputPair {
	return InputPair{Key: ExtrinsicIndexKey(block, key), Extrinsics: extrinsics}
}

func DigestIndexPair(block uint64, key []byte, blocks []uint64) InputPair {
	return InputPair{Key: DigestIndexKey(block, key), Blocks: blocks}
}
