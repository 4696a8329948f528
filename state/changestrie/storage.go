package changestrie

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/AtenJin/substrate/common"
	"github.com/AtenJin/substrate/common/dbutils"
)

// Storage gives read access to previously built changes tries. It must be
// safe for concurrent read-only use: input preparation for different blocks
// may run in parallel.
type Storage interface {
	// Root returns the changes trie root built at block, nil when the block
	// built none.
	Root(block uint64) (*common.Hash, error)
	// ForKeysWithPrefix visits every key of the trie with the given root that
	// starts with prefix. Visit order is deterministic but unspecified.
	ForKeysWithPrefix(root common.Hash, prefix []byte, f func(key []byte)) error
}

// InMemoryStorage keeps built changes tries in memory, keyed by block.
// It backs tests and inspection tooling; persistent trie storage lives
// outside this package.
type InMemoryStorage struct {
	mu    sync.RWMutex
	roots map[uint64]common.Hash
	tries map[common.Hash][][]byte // sorted encoded input keys
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		roots: map[uint64]common.Hash{},
		tries: map[common.Hash][][]byte{},
	}
}

// InsertBlock records the trie built at block from its input pairs.
// Reinserting a block replaces its trie.
func (s *InMemoryStorage) InsertBlock(block uint64, pairs []InputPair) {
	keys := make([][]byte, 0, len(pairs))
	for _, pair := range pairs {
		keys = append(keys, pair.Key.Encode())
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })
	root := trieRoot(block, keys)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots[block] = root
	s.tries[root] = keys
}

func (s *InMemoryStorage) Root(block uint64) (*common.Hash, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	root, ok := s.roots[block]
	if !ok {
		return nil, nil
	}
	return &root, nil
}

func (s *InMemoryStorage) ForKeysWithPrefix(root common.Hash, prefix []byte, f func(key []byte)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys, ok := s.tries[root]
	if !ok {
		return fmt.Errorf("no changes trie with root %s", root.Hex())
	}
	for _, k := range keys {
		if bytes.HasPrefix(k, prefix) {
			f(k)
		}
	}
	return nil
}

// trieRoot stands in for trie node hashing: keccak over the block number and
// the sorted encoded keys. Distinct blocks always get distinct roots, empty
// tries included.
func trieRoot(block uint64, sortedKeys [][]byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(dbutils.EncodeBlockNumber(block))
	for _, k := range sortedKeys {
		h.Write(dbutils.EncodeBlockNumber(uint64(len(k))))
		h.Write(k)
	}
	var root common.Hash
	h.Sum(root[:0])
	return root
}
