package changestrie

import (
	"github.com/RoaringBitmap/roaring"
)

// ExtrinsicChanges tracks, for the block being built, which extrinsics
// changed which storage keys. Like the value overlay it is split into a
// prospective layer for the extrinsic currently executing and a committed
// layer for extrinsics that already finished.
type ExtrinsicChanges struct {
	Config Configuration
	Block  uint64

	Prospective map[string]*roaring.Bitmap
	Committed   map[string]*roaring.Bitmap
}

func NewExtrinsicChanges(config Configuration, block uint64) *ExtrinsicChanges {
	return &ExtrinsicChanges{
		Config:      config,
		Block:       block,
		Prospective: map[string]*roaring.Bitmap{},
		Committed:   map[string]*roaring.Bitmap{},
	}
}

// NoteChanged records that extrinsic changed key in the prospective layer.
func (ec *ExtrinsicChanges) NoteChanged(key []byte, extrinsic uint32) {
	bm, ok := ec.Prospective[string(key)]
	if !ok {
		bm = roaring.New()
		ec.Prospective[string(key)] = bm
	}
	bm.Add(extrinsic)
}

// Commit merges the prospective layer into the committed one. Ordinal sets of
// keys present in both layers are unioned.
func (ec *ExtrinsicChanges) Commit() {
	for key, bm := range ec.Prospective {
		if committed, ok := ec.Committed[key]; ok {
			committed.Or(bm)
		} else {
			ec.Committed[key] = bm
		}
	}
	ec.Prospective = map[string]*roaring.Bitmap{}
}

// Discard drops the prospective layer.
func (ec *ExtrinsicChanges) Discard() {
	ec.Prospective = map[string]*roaring.Bitmap{}
}
