package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSEEPawnTakesPawnIsEven(t *testing.T) {
	pos, err := BoardFromFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	m := MakeMove(SquareE4, SquareD5, Capture, Pawn, Pawn, NoPiece)
	assert.Equal(t, int32(100), pos.SEE(m))
	assert.False(t, pos.SeeSign(m))
}

func TestSEELosingExchangeIsNegative(t *testing.T) {
	// White queen takes a pawn defended by a black pawn: loses the queen
	// for a pawn.
	pos, err := BoardFromFEN("4k3/3p4/8/3Q4/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	m := MakeMove(SquareD5, SquareD7, Capture, Queen, Pawn, NoPiece)
	assert.Negative(t, pos.SEE(m))
	assert.True(t, pos.SeeSign(m))
}

func TestSEEIgnoredWhenNoCapture(t *testing.T) {
	pos, err := BoardFromFEN(FENStartPos)
	require.NoError(t, err)

	m := MakeMove(SquareE2, SquareE4, DoublePush, Pawn, NoPiece, NoPiece)
	assert.False(t, pos.SeeSign(m))
	assert.Zero(t, pos.SEE(m))
}
