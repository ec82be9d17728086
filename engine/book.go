// book.go defines the opening-book and tablebase consult hooks
// spec.md §1 and §6 call out as the core's only sanctioned contact
// with those external collaborators: the core never parses a Polyglot
// book or probes Syzygy tablebases itself, but the search manager will
// call these function values if the embedding program sets them.
//
// probeCache memoizes those calls across the shared worker pool: unlike
// the transposition table (whose bucket layout spec.md §4.7 dictates
// exactly), a probe cache is a plain read-mostly map under concurrent
// access from every search worker, so it is backed by
// github.com/puzpuzpuz/xsync/v3's lock-free MapOf rather than a
// hand-rolled bucket table.
package engine

import "github.com/puzpuzpuz/xsync/v3"

// probeCache holds recently seen book and tablebase probe results,
// shared by every worker a SearchManager spawns for one search. A book
// or tablebase consult can be costly (disk I/O, a large on-disk index),
// and the same Zobrist key is frequently re-probed across Lazy SMP
// threads and across adjacent search iterations.
type probeCache struct {
	book      *xsync.MapOf[uint64, []BookMove]
	tablebase *xsync.MapOf[uint64, TablebaseResult]
}

func newProbeCache() *probeCache {
	return &probeCache{
		book:      xsync.NewMapOf[uint64, []BookMove](),
		tablebase: xsync.NewMapOf[uint64, TablebaseResult](),
	}
}

// clear discards every cached entry, called alongside the transposition
// table's own Clear on UCI ucinewgame so a stale book/tablebase result
// from a previous game's position space is never served. Rebuilding
// fresh maps rather than calling a per-entry delete keeps this O(1)
// regardless of how large the cache has grown.
func (c *probeCache) clear() {
	c.book = xsync.NewMapOf[uint64, []BookMove]()
	c.tablebase = xsync.NewMapOf[uint64, TablebaseResult]()
}

// cachedBook wraps probe so repeated lookups of the same key, across
// workers or iterative-deepening passes, hit the shared cache instead
// of calling back into the embedding program's book reader every time.
// Returns nil if probe itself is nil.
func (c *probeCache) cachedBook(probe BookProbe) BookProbe {
	if probe == nil {
		return nil
	}
	return func(key uint64) []BookMove {
		if moves, ok := c.book.Load(key); ok {
			return moves
		}
		moves := probe(key)
		c.book.Store(key, moves)
		return moves
	}
}

// cachedTablebase is cachedBook's counterpart for tablebase probes,
// keyed by the position's Zobrist key.
func (c *probeCache) cachedTablebase(probe TablebaseProbe) TablebaseProbe {
	if probe == nil {
		return nil
	}
	return func(pos *Board) TablebaseResult {
		key := pos.Zobrist()
		if result, ok := c.tablebase.Load(key); ok {
			return result
		}
		result := probe(pos)
		c.tablebase.Store(key, result)
		return result
	}
}

// BookMove is a candidate reply from an opening book probe, with its
// relative weight (higher is more preferred), matching a Polyglot
// record's weight field without depending on Polyglot's binary layout.
type BookMove struct {
	Move   Move
	Weight uint16
}

// BookProbe looks up pos's Zobrist key in an externally-maintained
// opening book and returns its candidate replies, if any. The core
// ships no implementation; SearchManager.Book, if set, is called
// before starting the worker pool.
type BookProbe func(zobristKey uint64) []BookMove

// WDL is a tablebase win/draw/loss classification, mapped to a score
// band rather than an exact centipawn value, matching how Syzygy
// results are folded into alpha-beta search.
type WDL int8

const (
	WDLLoss WDL = iota - 2
	WDLBlessedLoss
	WDLDraw
	WDLCursedWin
	WDLWin
)

// TablebaseResult is a tablebase probe outcome, usable at a search
// node (see engine/worker.go's syzygyProbe call site) once the core's
// piece-count and irreversibility preconditions are met.
type TablebaseResult struct {
	WDL    WDL
	Exists bool
}

// TablebaseProbe looks up the WDL classification of pos. The core ships
// no Syzygy implementation; SearchManager.Tablebase, if set, is
// consulted by the search worker per spec.md §4.9 step 3 (piece count
// <= 5, halfmove clock == 0, no castling rights).
type TablebaseProbe func(pos *Board) TablebaseResult

// wdlToScore maps a WDL classification to a search score a fixed
// distance inside the known-win/loss band, leaving room for the search
// to still prefer a faster mate over a merely won tablebase position.
func wdlToScore(w WDL, ply int) int32 {
	switch w {
	case WDLWin:
		return KnownWinScore - int32(ply)
	case WDLCursedWin:
		return 0
	case WDLDraw:
		return 0
	case WDLBlessedLoss:
		return 0
	case WDLLoss:
		return KnownLossScore + int32(ply)
	default:
		return 0
	}
}
