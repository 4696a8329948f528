package state

import (
	"github.com/AtenJin/substrate/common"
	"github.com/AtenJin/substrate/state/changestrie"
)

// OverlayedChanges buffers the storage writes of the block being executed on
// top of the backend, in two layers: prospective changes belong to the
// extrinsic currently executing, committed changes to extrinsics that already
// finished. With extrinsic tracking active it also records which extrinsic
// touched which key, feeding changes trie preparation.
type OverlayedChanges struct {
	prospective map[string]overlayedValue
	committed   map[string]overlayedValue

	extrinsics     *changestrie.ExtrinsicChanges
	extrinsicIndex uint32
}

// a nil value marks the key as deleted by this change
type overlayedValue struct {
	value []byte
}

func NewOverlayedChanges() *OverlayedChanges {
	return &OverlayedChanges{
		prospective: map[string]overlayedValue{},
		committed:   map[string]overlayedValue{},
	}
}

// ActivateExtrinsicTracking engages changes trie tracking for block under the
// given configuration. It must run before the block's first write for the
// resulting trie to be complete.
func (o *OverlayedChanges) ActivateExtrinsicTracking(config changestrie.Configuration, block uint64) {
	o.extrinsics = changestrie.NewExtrinsicChanges(config, block)
	o.extrinsicIndex = 0
}

// SetExtrinsicIndex sets the ordinal recorded for subsequent writes.
func (o *OverlayedChanges) SetExtrinsicIndex(index uint32) {
	o.extrinsicIndex = index
}

// SetStorage records a pending write. A nil value deletes the key.
func (o *OverlayedChanges) SetStorage(key, value []byte) {
	if o.extrinsics != nil {
		o.extrinsics.NoteChanged(key, o.extrinsicIndex)
	}
	o.prospective[string(key)] = overlayedValue{value: common.Copy(value)}
}

// Storage returns the final pending value for key. ok is false when the
// overlay holds no opinion on the key; a nil value with ok=true is a
// deletion.
func (o *OverlayedChanges) Storage(key []byte) (value []byte, ok bool) {
	if v, ok := o.prospective[string(key)]; ok {
		return v.value, true
	}
	if v, ok := o.committed[string(key)]; ok {
		return v.value, true
	}
	return nil, false
}

// CommitProspective moves the prospective layer into the committed one.
// Values override per key, extrinsic ordinal sets union.
func (o *OverlayedChanges) CommitProspective() {
	for key, v := range o.prospective {
		o.committed[key] = v
	}
	o.prospective = map[string]overlayedValue{}
	if o.extrinsics != nil {
		o.extrinsics.Commit()
	}
}

// DiscardProspective drops the prospective layer.
func (o *OverlayedChanges) DiscardProspective() {
	o.prospective = map[string]overlayedValue{}
	if o.extrinsics != nil {
		o.extrinsics.Discard()
	}
}

// ExtrinsicChanges returns the active tracking record, nil when tracking was
// never engaged.
func (o *OverlayedChanges) ExtrinsicChanges() *changestrie.ExtrinsicChanges {
	return o.extrinsics
}
