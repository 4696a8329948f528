package changestrie

import (
	"bytes"
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/RoaringBitmap/roaring/roaring64"
	"github.com/google/btree"
	"github.com/ledgerwatch/log/v3"
)

// Backend is the state database view as of the start of the block being
// prepared.
type Backend interface {
	ExistsStorage(key []byte) (bool, error)
}

// OverlayReader is the pending-change overlay view needed to prepare input
// pairs: the final value per key plus the per-extrinsic change tracking.
type OverlayReader interface {
	// Storage returns the final pending value for key. ok is false when the
	// overlay holds no opinion on the key; a nil value with ok=true is a
	// deletion.
	Storage(key []byte) (value []byte, ok bool)
	// ExtrinsicChanges returns the active tracking record, nil when tracking
	// was not engaged for this block.
	ExtrinsicChanges() *ExtrinsicChanges
}

// PrepareInput computes the input pairs for building the changes trie of the
// overlay's block: one extrinsic index entry per touched key surviving the
// retention filter, followed by the digest index entries summarizing lower
// blocks when the block is a digest boundary. Extrinsic entries precede
// digest entries; within each kind entries are ordered by ascending raw key.
//
// ok is false when no trie is to be built for this call: no historical
// storage was supplied, or the overlay never engaged extrinsic tracking.
// Any backend or storage failure aborts the whole preparation; a partial
// result is never returned.
func PrepareInput(backend Backend, storage Storage, overlay OverlayReader) (pairs []InputPair, ok bool, err error) {
	if storage == nil {
		return nil, false, nil
	}
	ec := overlay.ExtrinsicChanges()
	if ec == nil {
		return nil, false, nil
	}

	pairs, err = prepareExtrinsicsInput(backend, overlay, ec)
	if err != nil {
		return nil, false, err
	}
	digestPairs, err := prepareDigestInput(ec.Block, ec.Config, storage)
	if err != nil {
		return nil, false, err
	}
	return append(pairs, digestPairs...), true, nil
}

type extrinsicItem struct {
	key        []byte
	extrinsics *roaring.Bitmap
}

func extrinsicItemLess(a, b *extrinsicItem) bool { return bytes.Compare(a.key, b.key) < 0 }

// prepareExtrinsicsInput merges the prospective and committed ordinal sets
// per key and applies the retention filter: keys whose final overlay value is
// absent and which never existed in the backend leave no observable trace and
// are dropped.
func prepareExtrinsicsInput(backend Backend, overlay OverlayReader, ec *ExtrinsicChanges) ([]InputPair, error) {
	tree := btree.NewG[*extrinsicItem](32, extrinsicItemLess)

	collect := func(layer map[string]*roaring.Bitmap) error {
		for key, extrinsics := range layer {
			if value, hasValue := overlay.Storage([]byte(key)); !hasValue || value == nil {
				exists, err := backend.ExistsStorage([]byte(key))
				if err != nil {
					return fmt.Errorf("backend existence check for key %x: %w", key, err)
				}
				if !exists {
					continue
				}
			}
			item, found := tree.Get(&extrinsicItem{key: []byte(key)})
			if !found {
				item = &extrinsicItem{key: []byte(key), extrinsics: roaring.New()}
				tree.ReplaceOrInsert(item)
			}
			item.extrinsics.Or(extrinsics)
		}
		return nil
	}
	if err := collect(ec.Prospective); err != nil {
		return nil, err
	}
	if err := collect(ec.Committed); err != nil {
		return nil, err
	}

	pairs := make([]InputPair, 0, tree.Len())
	tree.Ascend(func(item *extrinsicItem) bool {
		pairs = append(pairs, ExtrinsicIndexPair(ec.Block, item.key, item.extrinsics.ToArray()))
		return true
	})
	return pairs, nil
}

type digestItem struct {
	key    []byte
	blocks *roaring64.Bitmap
}

func digestItemLess(a, b *digestItem) bool { return bytes.Compare(a.key, b.key) < 0 }

// prepareDigestInput scans the changes tries of every block selected by the
// digest build iterator and folds the storage keys they reference into one
// contributing-block set per key. Only the immediate children are recorded; a
// digest entry is never expanded down to leaf blocks.
func prepareDigestInput(block uint64, config Configuration, storage Storage) ([]InputPair, error) {
	tree := btree.NewG[*digestItem](32, digestItemLess)

	it := NewDigestBuildIterator(config, block)
	for child, ok := it.Next(); ok; child, ok = it.Next() {
		root, err := storage.Root(child)
		if err != nil {
			return nil, fmt.Errorf("changes trie root lookup for block %d: %w", child, err)
		}
		if root == nil {
			// digest boundaries are scheduled deterministically, so the tries
			// of all earlier children must already exist
			return nil, fmt.Errorf("no changes trie root for block %d", child)
		}

		record := func(want InputKind) func(rawKey []byte) {
			return func(rawKey []byte) {
				decoded, err := DecodeInputKey(rawKey)
				if err != nil || decoded.Kind != want {
					log.Trace("changes trie: skipping unparsable key", "block", child, "key", fmt.Sprintf("%x", rawKey))
					return
				}
				item, found := tree.Get(&digestItem{key: decoded.Key})
				if !found {
					item = &digestItem{key: decoded.Key, blocks: roaring64.New()}
					tree.ReplaceOrInsert(item)
				}
				item.blocks.Add(child)
			}
		}
		if err := storage.ForKeysWithPrefix(*root, ExtrinsicPrefix(child), record(ExtrinsicInput)); err != nil {
			return nil, fmt.Errorf("scanning extrinsic entries of block %d: %w", child, err)
		}
		if err := storage.ForKeysWithPrefix(*root, DigestPrefix(child), record(DigestInput)); err != nil {
			return nil, fmt.Errorf("scanning digest entries of block %d: %w", child, err)
		}
	}

	if tree.Len() == 0 {
		return nil, nil
	}
	pairs := make([]InputPair, 0, tree.Len())
	tree.Ascend(func(item *digestItem) bool {
		pairs = append(pairs, DigestIndexPair(block, item.key, item.blocks.ToArray()))
		return true
	})
	return pairs, nil
}
