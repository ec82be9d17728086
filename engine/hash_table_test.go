package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTTStoreProbeRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(0xdeadbeefcafef00d)
	m := MakeMove(SquareE2, SquareE4, DoublePush, Pawn, NoPiece, NoPiece)

	tt.Store(key, 6, 0, 123, TTExact, m)
	res := tt.Probe(key, 6, 0, -InfinityScore, InfinityScore)

	assert.True(t, res.Found)
	assert.True(t, res.Usable)
	assert.Equal(t, int32(123), res.Score)
	assert.Equal(t, m, res.Move)
	assert.Equal(t, TTExact, res.Flag)
}

func TestTTProbeMissForUnknownKey(t *testing.T) {
	tt := NewTranspositionTable(1)
	res := tt.Probe(0x1234, 4, 0, -InfinityScore, InfinityScore)
	assert.False(t, res.Found)
}

func TestTTShallowerStoreDepthIsNotUsable(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(42)
	tt.Store(key, 3, 0, 50, TTExact, NullMove)

	res := tt.Probe(key, 10, 0, -InfinityScore, InfinityScore)
	assert.True(t, res.Found)
	assert.False(t, res.Usable, "a depth-3 entry must not satisfy a depth-10 request")
}

func TestTTAlphaBoundOnlyUsableBelowAlpha(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(99)
	tt.Store(key, 8, 0, 50, TTAlpha, NullMove)

	assert.True(t, tt.Probe(key, 8, 0, 100, InfinityScore).Usable)
	assert.False(t, tt.Probe(key, 8, 0, 10, InfinityScore).Usable)
}

// TestScoreToFromTTRoundTrip checks mate scores are normalized by ply on
// store and restored unchanged when read back at the same ply, and that
// non-mate scores pass through untouched.
func TestScoreToFromTTRoundTrip(t *testing.T) {
	cases := []struct {
		score int32
		ply   int
	}{
		{MateScore - 3, 5},
		{MatedScore + 4, 2},
		{37, 0},
		{-250, 12},
	}
	for _, c := range cases {
		stored := scoreToTT(c.score, c.ply)
		got := scoreFromTT(stored, c.ply)
		assert.Equal(t, c.score, got)
	}
}

func TestTTClearRemovesEntries(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(7, 4, 0, 1, TTExact, NullMove)
	tt.Clear()
	res := tt.Probe(7, 4, 0, -InfinityScore, InfinityScore)
	assert.False(t, res.Found)
}
