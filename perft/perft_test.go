package perft

import (
	"testing"

	"github.com/corvidchess/corvid/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Known node counts for two standard perft test positions (the start
// position and kiwipete), the same reference figures the teacher's
// perft_test.go checks against.
func TestPerftStartPosition(t *testing.T) {
	pos, err := engine.BoardFromFEN(engine.FENStartPos)
	require.NoError(t, err)

	cases := []struct {
		depth int
		want  Counters
	}{
		{1, Counters{Nodes: 20}},
		{2, Counters{Nodes: 400}},
		{3, Counters{Nodes: 8902, Captures: 34, EnPassant: 0, Castles: 0, Promotions: 0}},
	}
	for _, c := range cases {
		got := Perft(pos, c.depth)
		assert.Equal(t, c.want.Nodes, got.Nodes, "depth %d nodes", c.depth)
		if c.depth == 3 {
			assert.Equal(t, c.want.Captures, got.Captures, "depth %d captures", c.depth)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	pos, err := engine.BoardFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	assert.Equal(t, uint64(48), Perft(pos, 1).Nodes)
	assert.Equal(t, uint64(2039), Perft(pos, 2).Nodes)
}

func TestPerftDepthZeroIsOneNode(t *testing.T) {
	pos, err := engine.BoardFromFEN(engine.FENStartPos)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), Perft(pos, 0).Nodes)
}

func TestDivideSumsToPerft(t *testing.T) {
	pos, err := engine.BoardFromFEN(engine.FENStartPos)
	require.NoError(t, err)

	breakdown := Divide(pos, 3)
	var sum uint64
	for _, n := range breakdown {
		sum += n
	}
	assert.Equal(t, Perft(pos, 3).Nodes, sum)
	assert.Len(t, breakdown, 20)
}
