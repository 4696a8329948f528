package changestrie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDigestBuildEnabled(t *testing.T) {
	assert.True(t, Configuration{DigestInterval: 4, DigestLevels: 2}.IsDigestBuildEnabled())
	assert.False(t, Configuration{DigestInterval: 1, DigestLevels: 2}.IsDigestBuildEnabled())
	assert.False(t, Configuration{DigestInterval: 0, DigestLevels: 2}.IsDigestBuildEnabled())
	assert.False(t, Configuration{DigestInterval: 4, DigestLevels: 0}.IsDigestBuildEnabled())
}

func TestIsDigestBuildRequired(t *testing.T) {
	config := Configuration{DigestInterval: 4, DigestLevels: 2}
	assert.False(t, config.IsDigestBuildRequired(0))
	assert.False(t, config.IsDigestBuildRequired(1))
	assert.False(t, config.IsDigestBuildRequired(3))
	assert.True(t, config.IsDigestBuildRequired(4))
	assert.False(t, config.IsDigestBuildRequired(5))
	assert.True(t, config.IsDigestBuildRequired(8))
	assert.True(t, config.IsDigestBuildRequired(16))
}

func TestDigestLevelAtBlock(t *testing.T) {
	cases := []struct {
		config   Configuration
		block    uint64
		level    uint8
		coverage uint64
		step     uint64
		ok       bool
	}{
		{Configuration{4, 2}, 0, 0, 0, 0, false},
		{Configuration{4, 2}, 3, 0, 0, 0, false},
		{Configuration{4, 2}, 4, 1, 4, 1, true},
		{Configuration{4, 2}, 8, 1, 4, 1, true},
		{Configuration{4, 2}, 16, 2, 16, 4, true},
		{Configuration{4, 2}, 32, 2, 16, 4, true},
		// level capped by DigestLevels, not by divisibility
		{Configuration{4, 1}, 16, 1, 4, 1, true},
		{Configuration{2, 3}, 8, 3, 8, 4, true},
		{Configuration{2, 3}, 64, 3, 8, 4, true},
	}
	for _, tc := range cases {
		level, coverage, step, ok := tc.config.DigestLevelAtBlock(tc.block)
		require.Equal(t, tc.ok, ok, "block %d", tc.block)
		assert.Equal(t, tc.level, level, "block %d", tc.block)
		assert.Equal(t, tc.coverage, coverage, "block %d", tc.block)
		assert.Equal(t, tc.step, step, "block %d", tc.block)
	}
}
