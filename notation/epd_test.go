package notation

import (
	"testing"

	"github.com/corvidchess/corvid/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEPDBestMoveAndId(t *testing.T) {
	line := `rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 bm d7d5; id "opening.1";`
	epd, err := ParseEPD(line)
	require.NoError(t, err)

	assert.Equal(t, []string{"d7d5"}, epd.BestMove)
	assert.Equal(t, "opening.1", epd.Id)
	assert.Equal(t, engine.Black, epd.Board.SideToMove)
}

func TestParseEPDCommentOpcode(t *testing.T) {
	line := `8/8/8/8/8/8/8/K6k w - - c0 "trivial draw";`
	epd, err := ParseEPD(line)
	require.NoError(t, err)
	assert.Equal(t, "trivial draw", epd.Comment["c0"])
}

func TestParseEPDRejectsTooFewFields(t *testing.T) {
	_, err := ParseEPD("rnbqkbnr/pppppppp/8/8 w")
	assert.Error(t, err)
}

func TestParseFENAppliesDefaultCounters(t *testing.T) {
	epd, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -")
	require.NoError(t, err)
	assert.Equal(t, engine.FENStartPos, epd.Board.String())
	assert.Empty(t, epd.BestMove)
	assert.Empty(t, epd.Id)
}

func TestEPDStringRendersBestMoveAndId(t *testing.T) {
	epd, err := ParseFEN(engine.FENStartPos)
	require.NoError(t, err)
	epd.BestMove = []string{"e2e4"}
	epd.Id = "round-trip"

	rendered := epd.String()
	assert.Contains(t, rendered, "bm e2e4;")
	assert.Contains(t, rendered, `id "round-trip";`)
}
