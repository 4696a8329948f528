package changestrie

// DigestBuildIterator yields the historical blocks whose changes trie entries
// must be folded into the digest built at a block. Blocks come out level by
// level: first the leaf tail not covered by any lower digest, then the
// immediate children of each higher level. The sequence is finite,
// deterministic and computed without touching storage.
type DigestBuildIterator struct {
	block          uint64
	digestInterval uint64
	maxLevel       uint8

	level    uint8
	step     uint64
	coverage uint64
	current  uint64
}

// NewDigestBuildIterator returns the iterator for the given block. Blocks
// that build no digest under the configuration get an exhausted iterator.
func NewDigestBuildIterator(config Configuration, block uint64) *DigestBuildIterator {
	maxLevel, _, _, ok := config.DigestLevelAtBlock(block)
	if !ok {
		return &DigestBuildIterator{}
	}
	return &DigestBuildIterator{
		block:          block,
		digestInterval: config.DigestInterval,
		maxLevel:       maxLevel,
	}
}

// Next returns the next historical block, ok=false once exhausted.
func (it *DigestBuildIterator) Next() (uint64, bool) {
	if it.level != 0 && it.current+it.step < it.block {
		it.current += it.step
		return it.current, true
	}
	if it.level >= it.maxLevel {
		return 0, false
	}
	if it.level == 0 {
		it.step, it.coverage = 1, it.digestInterval
	} else {
		it.step, it.coverage = it.coverage, it.coverage*it.digestInterval
	}
	it.level++
	it.current = it.block - it.coverage + it.step
	return it.current, true
}

// DigestBuildBlocks collects the iterator output into a slice.
func DigestBuildBlocks(config Configuration, block uint64) []uint64 {
	var blocks []uint64
	it := NewDigestBuildIterator(config, block)
	for b, ok := it.Next(); ok; b, ok = it.Next() {
		blocks = append(blocks, b)
	}
	return blocks
}
