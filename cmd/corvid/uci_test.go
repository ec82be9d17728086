package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/corvidchess/corvid/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUCIHandshake(t *testing.T) {
	var out bytes.Buffer
	u := newUCI(&out, "")
	require.NoError(t, u.execute("uci"))

	output := out.String()
	assert.Contains(t, output, "id name corvid")
	assert.Contains(t, output, "uciok")
	assert.Contains(t, output, "option name Hash")
}

func TestUCIIsReady(t *testing.T) {
	var out bytes.Buffer
	u := newUCI(&out, "")
	require.NoError(t, u.execute("isready"))
	assert.Equal(t, "readyok\n", out.String())
}

func TestUCIPositionStartposWithMoves(t *testing.T) {
	var out bytes.Buffer
	u := newUCI(&out, "")
	require.NoError(t, u.execute("position startpos moves e2e4 e7e5"))

	_, p := u.board.PieceAt(enginePieceSquare(t, "e4"))
	assert.Equal(t, engine.Pawn, p)
}

func enginePieceSquare(t *testing.T, s string) engine.Square {
	t.Helper()
	sq, err := engine.SquareFromString(s)
	require.NoError(t, err)
	return sq
}

func TestUCIPositionFEN(t *testing.T) {
	var out bytes.Buffer
	u := newUCI(&out, "")
	fen := "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"
	require.NoError(t, u.execute("position fen "+fen))
	assert.Equal(t, fen, u.board.String())
}

func TestUCIPositionRejectsUnknownKeyword(t *testing.T) {
	var out bytes.Buffer
	u := newUCI(&out, "")
	err := u.execute("position bogus")
	assert.Error(t, err)
}

func TestUCISetOptionHash(t *testing.T) {
	var out bytes.Buffer
	u := newUCI(&out, "")
	require.NoError(t, u.execute("setoption name Hash value 64"))
	assert.Equal(t, 64, u.opts.HashMB)
}

func TestUCISetOptionRejectsOutOfRangeHash(t *testing.T) {
	var out bytes.Buffer
	u := newUCI(&out, "")
	err := u.execute("setoption name Hash value 999999")
	assert.Error(t, err)
}

func TestUCIClearHashButton(t *testing.T) {
	var out bytes.Buffer
	u := newUCI(&out, "")
	assert.NoError(t, u.execute("setoption name Clear Hash"))
}

func TestUCIQuitReturnsErrQuit(t *testing.T) {
	var out bytes.Buffer
	u := newUCI(&out, "")
	assert.ErrorIs(t, u.execute("quit"), errQuit)
}

func TestUCIGoMoveTimeEmitsBestMove(t *testing.T) {
	var out bytes.Buffer
	u := newUCI(&out, "")
	require.NoError(t, u.execute("go movetime 50"))
	u.wg.Wait()

	assert.True(t, strings.Contains(out.String(), "bestmove"))
}

func TestUCIStopCancelsSearch(t *testing.T) {
	var out bytes.Buffer
	u := newUCI(&out, "")
	require.NoError(t, u.execute("go infinite"))
	time.Sleep(20 * time.Millisecond)
	u.stop()

	assert.True(t, strings.Contains(out.String(), "bestmove"))
}
