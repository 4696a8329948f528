package changestrie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestBuildIteratorEmpty(t *testing.T) {
	config := Configuration{DigestInterval: 4, DigestLevels: 2}

	// non boundary blocks
	for _, block := range []uint64{1, 2, 3, 5, 6, 7, 15, 17} {
		assert.Nil(t, DigestBuildBlocks(config, block), "block %d", block)
	}
	// block zero never builds a digest
	assert.Nil(t, DigestBuildBlocks(config, 0))
	// disabled configurations
	assert.Nil(t, DigestBuildBlocks(Configuration{DigestInterval: 1, DigestLevels: 2}, 4))
	assert.Nil(t, DigestBuildBlocks(Configuration{DigestInterval: 4, DigestLevels: 0}, 4))
}

func TestDigestBuildIteratorL1(t *testing.T) {
	config := Configuration{DigestInterval: 4, DigestLevels: 2}
	require.Equal(t, []uint64{1, 2, 3}, DigestBuildBlocks(config, 4))
	require.Equal(t, []uint64{5, 6, 7}, DigestBuildBlocks(config, 8))
	require.Equal(t, []uint64{9, 10, 11}, DigestBuildBlocks(config, 12))
}

func TestDigestBuildIteratorL2(t *testing.T) {
	config := Configuration{DigestInterval: 4, DigestLevels: 2}
	// the leaf tail not covered by any level 1 digest, then the level 1
	// digest blocks
	require.Equal(t, []uint64{13, 14, 15, 4, 8, 12}, DigestBuildBlocks(config, 16))
	require.Equal(t, []uint64{29, 30, 31, 20, 24, 28}, DigestBuildBlocks(config, 32))
}

func TestDigestBuildIteratorL3(t *testing.T) {
	config := Configuration{DigestInterval: 2, DigestLevels: 3}
	require.Equal(t, []uint64{7, 6, 4}, DigestBuildBlocks(config, 8))
	require.Equal(t, []uint64{15, 14, 12}, DigestBuildBlocks(config, 16))
}

// DigestLevels caps the hierarchy even when the block divides deeper
// intervals.
func TestDigestBuildIteratorLevelsClamped(t *testing.T) {
	config := Configuration{DigestInterval: 4, DigestLevels: 1}
	require.Equal(t, []uint64{13, 14, 15}, DigestBuildBlocks(config, 16))
}

func TestDigestBuildIteratorOverflowGuard(t *testing.T) {
	config := Configuration{DigestInterval: 1 << 32, DigestLevels: 4}
	block := uint64(1) << 32

	level, coverage, step, ok := config.DigestLevelAtBlock(block)
	require.True(t, ok)
	assert.Equal(t, uint8(1), level)
	assert.Equal(t, uint64(1)<<32, coverage)
	assert.Equal(t, uint64(1), step)

	it := NewDigestBuildIterator(config, block)
	first, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, uint64(1), first)
}
