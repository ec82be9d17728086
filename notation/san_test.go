package notation

import (
	"testing"

	"github.com/corvidchess/corvid/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSANSimpleMoves(t *testing.T) {
	pos, err := engine.BoardFromFEN(engine.FENStartPos)
	require.NoError(t, err)

	var legal engine.MoveList
	pos.GenerateLegal(&legal)

	m, err := engine.MoveFromUCI(pos, "g1f3")
	require.NoError(t, err)
	assert.Equal(t, "Nf3", FormatSAN(pos, m, legal.Moves(), false, false))

	m, err = engine.MoveFromUCI(pos, "e2e4")
	require.NoError(t, err)
	assert.Equal(t, "e4", FormatSAN(pos, m, legal.Moves(), false, false))
}

func TestFormatSANCastling(t *testing.T) {
	pos, err := engine.BoardFromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	var legal engine.MoveList
	pos.GenerateLegal(&legal)

	m, err := engine.MoveFromUCI(pos, "e1g1")
	require.NoError(t, err)
	assert.Equal(t, "O-O", FormatSAN(pos, m, legal.Moves(), false, false))

	m, err = engine.MoveFromUCI(pos, "e1c1")
	require.NoError(t, err)
	assert.Equal(t, "O-O-O", FormatSAN(pos, m, legal.Moves(), false, false))
}

// TestFormatSANDisambiguatesByFile checks that two rooks able to reach
// the same square on the same rank are told apart by origin file, the
// same rule treepeck-chego's san.go applies.
func TestFormatSANDisambiguatesByFile(t *testing.T) {
	pos, err := engine.BoardFromFEN("4k3/8/8/8/8/8/6K1/R6R w - - 0 1")
	require.NoError(t, err)

	var legal engine.MoveList
	pos.GenerateLegal(&legal)

	m, err := engine.MoveFromUCI(pos, "a1d1")
	require.NoError(t, err)
	assert.Equal(t, "Rad1", FormatSAN(pos, m, legal.Moves(), false, false))

	m, err = engine.MoveFromUCI(pos, "h1d1")
	require.NoError(t, err)
	assert.Equal(t, "Rhd1", FormatSAN(pos, m, legal.Moves(), false, false))
}

func TestFormatSANCheckAndMateMarkers(t *testing.T) {
	pos, err := engine.BoardFromFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	require.NoError(t, err)

	var legal engine.MoveList
	pos.GenerateLegal(&legal)

	m, err := engine.MoveFromUCI(pos, "a1a8")
	require.NoError(t, err)
	assert.Equal(t, "Ra8#", FormatSAN(pos, m, legal.Moves(), true, true))
}

func TestFormatSANPromotion(t *testing.T) {
	pos, err := engine.BoardFromFEN("8/4P3/8/8/8/8/8/4K2k w - - 0 1")
	require.NoError(t, err)

	var legal engine.MoveList
	pos.GenerateLegal(&legal)

	m, err := engine.MoveFromUCI(pos, "e7e8q")
	require.NoError(t, err)
	assert.Equal(t, "e8=Q", FormatSAN(pos, m, legal.Moves(), false, false))
}

func TestParseSANRoundTrip(t *testing.T) {
	pos, err := engine.BoardFromFEN(engine.FENStartPos)
	require.NoError(t, err)

	var legal engine.MoveList
	pos.GenerateLegal(&legal)

	m, err := ParseSAN(pos, "Nf3", legal.Moves())
	require.NoError(t, err)
	assert.Equal(t, "g1", m.From().String())
	assert.Equal(t, "f3", m.To().String())
}

func TestParseSANRejectsUnknownMove(t *testing.T) {
	pos, err := engine.BoardFromFEN(engine.FENStartPos)
	require.NoError(t, err)

	var legal engine.MoveList
	pos.GenerateLegal(&legal)

	_, err = ParseSAN(pos, "Qh5", legal.Moves())
	assert.Error(t, err)
}
