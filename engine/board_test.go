package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardFromFENRoundTrip(t *testing.T) {
	pos, err := BoardFromFEN(FENStartPos)
	require.NoError(t, err)
	assert.Equal(t, FENStartPos, pos.String())
}

func TestBoardFromFENKiwipete(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	pos, err := BoardFromFEN(fen)
	require.NoError(t, err)
	assert.Equal(t, fen, pos.String())
	assert.Equal(t, AnyCastle, pos.CastlingRights())
}

func TestBoardFromFENRejectsGarbage(t *testing.T) {
	_, err := BoardFromFEN("not a fen string")
	assert.Error(t, err)
}

func TestPutRemoveRoundTrip(t *testing.T) {
	pos := NewBoard()
	pos.Put(White, Queen, SquareD4)
	c, p := pos.PieceAt(SquareD4)
	assert.Equal(t, White, c)
	assert.Equal(t, Queen, p)
	assert.False(t, pos.IsEmpty(SquareD4))

	pos.Remove(White, Queen, SquareD4)
	assert.True(t, pos.IsEmpty(SquareD4))
}

// TestPlayUnplayRestoresZobrist checks that playing then unplaying every
// legal move from a position leaves the Zobrist key exactly as it was,
// the same invariant the teacher's position_test.go exercises via
// DoUndo -- a make/unmake bug almost always shows up first as a key
// that fails to round-trip.
func TestPlayUnplayRestoresZobrist(t *testing.T) {
	positions := []string{
		FENStartPos,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}
	for _, fen := range positions {
		pos, err := BoardFromFEN(fen)
		require.NoError(t, err)
		before := pos.Zobrist()
		beforeStr := pos.String()

		var list MoveList
		pos.GenerateLegal(&list)
		for _, m := range list.Moves() {
			pos.Play(m)
			pos.Unplay(m)
			assert.Equal(t, before, pos.Zobrist(), "fen=%s move=%s", fen, m.UCI())
			assert.Equal(t, beforeStr, pos.String(), "fen=%s move=%s", fen, m.UCI())
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	pos, err := BoardFromFEN(FENStartPos)
	require.NoError(t, err)
	clone := pos.Clone()

	var list MoveList
	clone.GenerateLegal(&list)
	require.NotZero(t, list.Len())
	clone.Play(list.Moves()[0])

	assert.Equal(t, FENStartPos, pos.String())
	assert.NotEqual(t, FENStartPos, clone.String())
}

func TestIsCheckedDetectsCheck(t *testing.T) {
	pos, err := BoardFromFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.NoError(t, err)
	assert.True(t, pos.IsChecked(White))
}

// TestRepetitionsDetectsKnightShuffle checks that shuffling both sides'
// knights back to the start position is recognized as a repeat of the
// very first position: Ng1f3 Ng8f6 Nf3g1 Nf6g8 returns to FENStartPos
// with White to move again, so Repetitions() must count it twice.
func TestRepetitionsDetectsKnightShuffle(t *testing.T) {
	pos, err := BoardFromFEN(FENStartPos)
	require.NoError(t, err)
	assert.Equal(t, 1, pos.Repetitions())

	for _, uci := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		m, err := MoveFromUCI(pos, uci)
		require.NoError(t, err)
		pos.Play(m)
	}

	assert.Equal(t, FENStartPos, pos.String())
	assert.Equal(t, 2, pos.Repetitions())
	assert.True(t, pos.IsTwoFoldRepetition())
	assert.False(t, pos.IsThreeFoldRepetition())
}

func TestInsufficientMaterial(t *testing.T) {
	pos, err := BoardFromFEN("8/8/4k3/8/8/4K3/8/8 w - - 0 1")
	require.NoError(t, err)
	assert.True(t, pos.InsufficientMaterial())

	pos, err = BoardFromFEN(FENStartPos)
	require.NoError(t, err)
	assert.False(t, pos.InsufficientMaterial())
}
