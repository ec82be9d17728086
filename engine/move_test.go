package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeMovePacksAndUnpacks(t *testing.T) {
	m := MakeMove(SquareE2, SquareE4, DoublePush, Pawn, NoPiece, NoPiece)
	assert.Equal(t, SquareE2, m.From())
	assert.Equal(t, SquareE4, m.To())
	assert.Equal(t, DoublePush, m.Flag())
	assert.Equal(t, Pawn, m.Piece())
	assert.True(t, m.IsQuiet())
	assert.False(t, m.IsViolent())
}

func TestMoveUCIFormatting(t *testing.T) {
	m := MakeMove(SquareE7, SquareE8, Promotion, Pawn, NoPiece, Queen)
	assert.Equal(t, "e7e8q", m.UCI())

	quiet := MakeMove(SquareG1, SquareF3, Quiet, Knight, NoPiece, NoPiece)
	assert.Equal(t, "g1f3", quiet.UCI())
}

func TestMoveCaptureSquareForEnPassant(t *testing.T) {
	m := MakeMove(SquareD5, SquareE6, EnPassant, Pawn, Pawn, NoPiece)
	assert.Equal(t, SquareE5, m.CaptureSquare())
}

func TestMoveIsCastle(t *testing.T) {
	k := MakeMove(SquareE1, SquareG1, KingCastle, King, NoPiece, NoPiece)
	q := MakeMove(SquareE1, SquareC1, QueenCastle, King, NoPiece, NoPiece)
	assert.True(t, k.IsCastle())
	assert.True(t, q.IsCastle())
	assert.True(t, k.IsQuiet())
}

func TestNullMoveIsZero(t *testing.T) {
	assert.Equal(t, Move(0), NullMove)
}
