package changestrie

// Configuration governs the digest hierarchy of a chain's changes tries.
// A level 1 digest summarizes DigestInterval consecutive blocks; a level L
// digest summarizes DigestInterval level-(L-1) digests. The configuration is
// immutable and supplied per chain.
type Configuration struct {
	// DigestInterval is the number of blocks (or lower level digests)
	// summarized by one digest entry.
	DigestInterval uint64
	// DigestLevels is the maximal digest level built for the chain. Zero
	// disables digests entirely.
	DigestLevels uint8
}

// IsDigestBuildEnabled reports whether the configuration produces digests at
// all. An interval of one would summarize single blocks and is treated as
// disabled.
func (c Configuration) IsDigestBuildEnabled() bool {
	return c.DigestInterval > 1 && c.DigestLevels > 0
}

// IsDigestBuildRequired reports whether a digest must be built at block.
func (c Configuration) IsDigestBuildRequired(block uint64) bool {
	return block != 0 && c.IsDigestBuildEnabled() && block%c.DigestInterval == 0
}

// DigestLevelAtBlock returns the maximal digest level to build at block,
// together with the number of blocks the digest covers (interval^level) and
// the distance between its immediate children (interval^(level-1)).
// ok is false when block builds no digest under the configuration.
func (c Configuration) DigestLevelAtBlock(block uint64) (level uint8, coverage, step uint64, ok bool) {
	if !c.IsDigestBuildRequired(block) {
		return 0, 0, 0, false
	}
	level, coverage, step = 1, c.DigestInterval, 1
	for level < c.DigestLevels {
		next := coverage * c.DigestInterval
		if next/c.DigestInterval != coverage { // overflow
			break
		}
		if block%next != 0 {
			break
		}
		step = coverage
		coverage = next
		level++
	}
	return level, coverage, step, true
}
