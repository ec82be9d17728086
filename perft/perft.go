// Package perft counts leaf nodes of the legal move tree to a fixed
// depth, the standard move-generator correctness and performance
// check: known node counts exist for several start positions at
// several depths (see spec.md §8's testable properties), and any
// divergence points at a move generation bug.
//
// Grounded on the teacher's perft/perft.go (recursive leaf count,
// per-move-type counters, a Zobrist-keyed memo table, and a
// divide-style per-move breakdown), adapted to this repo's Board/Move
// types and GenerateLegal rather than the teacher's generate-then-
// legality-filter-during-descent loop.
package perft

import "github.com/corvidchess/corvid/engine"

// Counters tallies leaf-node outcomes reached at the bottom of a perft
// walk, broken out by move type the same way the teacher's perft tool
// reports them.
type Counters struct {
	Nodes      uint64
	Captures   uint64
	EnPassant  uint64
	Castles    uint64
	Promotions uint64
}

// Add accumulates other into c.
func (c *Counters) Add(other Counters) {
	c.Nodes += other.Nodes
	c.Captures += other.Captures
	c.EnPassant += other.EnPassant
	c.Castles += other.Castles
	c.Promotions += other.Promotions
}

type memoEntry struct {
	key   uint64
	depth int
	c     Counters
}

// Perft walks every legal line to depth plies deep and returns the
// aggregate leaf counters. depth 0 returns a single node with no
// captures counted, matching the convention the testable properties in
// spec.md §8 use (depth 1 from the start position is 20 nodes).
func Perft(pos *engine.Board, depth int) Counters {
	memo := make([]memoEntry, 1<<20)
	return perft(pos, depth, memo)
}

func perft(pos *engine.Board, depth int, memo []memoEntry) Counters {
	if depth == 0 {
		return Counters{Nodes: 1}
	}

	key := pos.Zobrist()
	idx := key % uint64(len(memo))
	if memo[idx].depth == depth && memo[idx].key == key {
		return memo[idx].c
	}

	var list engine.MoveList
	pos.GenerateLegal(&list)

	var c Counters
	for _, m := range list.Moves() {
		if depth == 1 {
			switch {
			case m.Flag() == engine.EnPassant:
				c.EnPassant++
				c.Captures++
			case m.Flag() == engine.Capture:
				c.Captures++
			case m.IsCastle():
				c.Castles++
			}
			if m.Flag() == engine.Promotion {
				c.Promotions++
				if m.Capture() != engine.NoPiece {
					c.Captures++
				}
			}
		}
		pos.Play(m)
		c.Add(perft(pos, depth-1, memo))
		pos.Unplay(m)
	}

	memo[idx] = memoEntry{key: key, depth: depth, c: c}
	return c
}

// Divide returns, for each legal move at the root, the leaf count of
// the subtree rooted at that move searched to depth-1 further plies --
// the standard technique for isolating which root move's subtree
// disagrees with a known-good perft count.
func Divide(pos *engine.Board, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	if depth == 0 {
		return result
	}

	var list engine.MoveList
	pos.GenerateLegal(&list)
	for _, m := range list.Moves() {
		pos.Play(m)
		result[m.UCI()] = Perft(pos, depth-1).Nodes
		pos.Unplay(m)
	}
	return result
}
