package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLegalStartPositionCount(t *testing.T) {
	pos, err := BoardFromFEN(FENStartPos)
	require.NoError(t, err)

	var list MoveList
	pos.GenerateLegal(&list)
	assert.Equal(t, 20, list.Len())
}

func TestGenerateLegalExcludesMovesIntoCheck(t *testing.T) {
	// White king on e1 pinned behind a bishop on e2 by a black rook on e8:
	// a diagonal-only mover can never stay on the e-file, so it has no
	// legal moves at all while the pin holds.
	pos, err := BoardFromFEN("4r2k/8/8/8/8/8/4B3/4K3 w - - 0 1")
	require.NoError(t, err)

	var list MoveList
	pos.GenerateLegal(&list)
	for _, m := range list.Moves() {
		assert.NotEqual(t, Bishop, m.Piece(), "pinned bishop should have no legal moves: %s", m.UCI())
	}
}

func TestMoveFromUCIRoundTrip(t *testing.T) {
	pos, err := BoardFromFEN(FENStartPos)
	require.NoError(t, err)

	m, err := MoveFromUCI(pos, "e2e4")
	require.NoError(t, err)
	assert.Equal(t, SquareE2, m.From())
	assert.Equal(t, SquareE4, m.To())
	assert.Equal(t, DoublePush, m.Flag())
}

func TestMoveFromUCIPromotion(t *testing.T) {
	pos, err := BoardFromFEN("8/4P3/8/8/8/8/8/4K2k w - - 0 1")
	require.NoError(t, err)

	m, err := MoveFromUCI(pos, "e7e8q")
	require.NoError(t, err)
	assert.Equal(t, Promotion, m.Flag())
	assert.Equal(t, Queen, m.Promotion())
}

func TestMoveFromUCIRejectsIllegalMove(t *testing.T) {
	pos, err := BoardFromFEN(FENStartPos)
	require.NoError(t, err)

	_, err = MoveFromUCI(pos, "e2e5")
	assert.Error(t, err)
}

func TestMoveFromUCIRejectsGarbage(t *testing.T) {
	pos, err := BoardFromFEN(FENStartPos)
	require.NoError(t, err)

	_, err = MoveFromUCI(pos, "zz")
	assert.Error(t, err)
}
