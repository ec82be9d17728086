package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(threads int) *SearchManager {
	opts := NewOptions()
	opts.Threads = threads
	return NewSearchManager(opts, NullLogger{})
}

// TestStartSearchFindsLegalMoveAtLowDepth is a shallow smoke test for the
// whole negamax/qsearch/move-ordering/TT stack together, the search
// equivalent of the teacher's engine_test.go depth-limited searches: it
// does not assert on a specific move, only that the search terminates
// and returns one of the position's own legal moves.
func TestStartSearchFindsLegalMoveAtLowDepth(t *testing.T) {
	pos, err := BoardFromFEN(FENStartPos)
	require.NoError(t, err)

	sm := newTestManager(1)
	best, _ := sm.StartSearch(context.Background(), pos, Limits{Depth: 4})

	var legal MoveList
	pos.GenerateLegal(&legal)
	assert.Contains(t, legal.Moves(), best)
}

// TestStartSearchFindsMateInOne gives the search a forced mate-in-one and
// checks it finds a mating move, grounded on the same kind of fixed
// mate-in-N position the teacher's internal/mates package regresses
// against.
func TestStartSearchFindsMateInOne(t *testing.T) {
	pos, err := BoardFromFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	require.NoError(t, err)

	sm := newTestManager(1)
	best, _ := sm.StartSearch(context.Background(), pos, Limits{Depth: 6})

	pos.Play(best)
	defer pos.Unplay(best)
	assert.True(t, pos.IsChecked(Black))

	var reply MoveList
	pos.GenerateLegal(&reply)
	assert.Zero(t, reply.Len(), "expected %s to be checkmate", best.UCI())
}

func TestStartSearchRespectsExternalCancellation(t *testing.T) {
	pos, err := BoardFromFEN(FENStartPos)
	require.NoError(t, err)

	sm := newTestManager(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	var best Move
	go func() {
		best, _ = sm.StartSearch(ctx, pos, Limits{Depth: 64})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("StartSearch did not honor a pre-cancelled context")
	}
	_ = best
}

func TestFormatScoreMateAndCentipawns(t *testing.T) {
	assert.Equal(t, "cp 37", formatScore(37))
	assert.Equal(t, "mate 1", formatScore(MateScore-1))
	assert.Equal(t, "mate -2", formatScore(MatedScore+3))
}
