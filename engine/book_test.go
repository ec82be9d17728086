package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProbeCacheMemoizesBookProbe checks that a second lookup of the same
// Zobrist key is served from the cache rather than calling probe again.
func TestProbeCacheMemoizesBookProbe(t *testing.T) {
	cache := newProbeCache()
	calls := 0
	probe := cache.cachedBook(func(key uint64) []BookMove {
		calls++
		return []BookMove{{Move: NullMove, Weight: 1}}
	})

	first := probe(42)
	second := probe(42)
	require.Equal(t, first, second)
	assert.Equal(t, 1, calls, "expected the second lookup to be served from cache")

	probe(43)
	assert.Equal(t, 2, calls, "a distinct key must still reach the underlying probe")
}

// TestProbeCacheMemoizesTablebaseProbe mirrors the book case for tablebase
// lookups, which are keyed by the position rather than a caller-supplied key.
func TestProbeCacheMemoizesTablebaseProbe(t *testing.T) {
	pos, err := BoardFromFEN("8/8/8/4k3/8/8/4K3/4R3 w - - 0 1")
	require.NoError(t, err)

	cache := newProbeCache()
	calls := 0
	probe := cache.cachedTablebase(func(*Board) TablebaseResult {
		calls++
		return TablebaseResult{WDL: WDLWin, Exists: true}
	})

	probe(pos)
	result := probe(pos)
	assert.Equal(t, 1, calls)
	assert.Equal(t, WDLWin, result.WDL)
}

// TestProbeCacheNilProbePassesThrough checks that wrapping a nil hook
// still yields nil, so SearchManager can unconditionally wrap sm.Book and
// sm.Tablebase without a separate nil check at every call site.
func TestProbeCacheNilProbePassesThrough(t *testing.T) {
	cache := newProbeCache()
	assert.Nil(t, cache.cachedBook(nil))
	assert.Nil(t, cache.cachedTablebase(nil))
}

// TestProbeCacheClearDropsEntries checks that clear forces a fresh probe.
func TestProbeCacheClearDropsEntries(t *testing.T) {
	cache := newProbeCache()
	calls := 0
	probe := cache.cachedBook(func(key uint64) []BookMove {
		calls++
		return nil
	})

	probe(7)
	cache.clear()
	probe(7)
	assert.Equal(t, 2, calls, "clear must force the next lookup to re-probe")
}
