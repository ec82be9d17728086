package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perftLeaves is a small, self-contained leaf counter used only to cross
// check GenerateLegal/Play/Unplay -- the full perft tool with its memo
// table and divide output lives in package perft, but the bootstrap
// counts here (depth 1 and 2 from the start position) belong next to
// the move generator they test.
func perftLeaves(pos *Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var list MoveList
	pos.GenerateLegal(&list)
	if depth == 1 {
		return uint64(list.Len())
	}
	var nodes uint64
	for _, m := range list.Moves() {
		pos.Play(m)
		nodes += perftLeaves(pos, depth-1)
		pos.Unplay(m)
	}
	return nodes
}

func TestPerftStartPosition(t *testing.T) {
	pos, err := BoardFromFEN(FENStartPos)
	require.NoError(t, err)

	cases := []struct {
		depth int
		nodes uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
	}
	for _, c := range cases {
		assert.Equal(t, c.nodes, perftLeaves(pos, c.depth), "depth %d", c.depth)
	}
}

func TestPerftKiwipete(t *testing.T) {
	pos, err := BoardFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	assert.Equal(t, uint64(48), perftLeaves(pos, 1))
	assert.Equal(t, uint64(2039), perftLeaves(pos, 2))
}
