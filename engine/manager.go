// manager.go implements SearchManager: the entry point spec.md §1 calls
// start_search(limits) -> best_move. It owns the shared transposition
// table and clock, spawns one Worker per thread via
// golang.org/x/sync/errgroup, drives each worker's iterative deepening
// with a gradually-widening aspiration window, reports UCI `info` lines
// through its Logger, and returns the thread-0 worker's best and ponder
// moves to the caller, which prints `bestmove`.
//
// Grounded on the teacher's engine/engine.go Play/search (iterative
// deepening driver, aspiration window widening loop) and its Logger
// interface, generalized from one goroutine to a Lazy SMP pool per
// spec.md §5: every worker runs the same iterative deepening loop
// concurrently against the shared TT, and only thread 0's result is
// reported, the standard Lazy SMP arrangement also described in the
// rest of the retrieval pack's engines.
package engine

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	initialAspirationWindow = 21 // centipawns, about a quarter of a pawn
	maxIterativeDepth       = 64
)

// Logger reports iterative-deepening progress to the UCI output stream.
// Grounded on the teacher's engine.Logger, renamed from BeginSearch/
// PrintPV/EndSearch to the UCI line shapes spec.md §6 names directly.
type Logger interface {
	Info(depth, selDepth int, score int32, nodes uint64, nps uint64, hashfull int, pv []Move)
	BestMove(best, ponder Move)
}

// UCILogger writes `info`/`bestmove` lines to w in UCI text form, the
// only logging the teacher does unconditionally (via its own stdout
// writer) regardless of Options.AnalyseMode.
type UCILogger struct {
	w io.Writer
}

// NewUCILogger returns a Logger that writes UCI protocol lines to w.
func NewUCILogger(w io.Writer) *UCILogger { return &UCILogger{w: w} }

func (l *UCILogger) Info(depth, selDepth int, score int32, nodes, nps uint64, hashfull int, pv []Move) {
	fmt.Fprintf(l.w, "info depth %d seldepth %d score %s nodes %d nps %d hashfull %d pv%s\n",
		depth, selDepth, formatScore(score), nodes, nps, hashfull, formatPV(pv))
}

func (l *UCILogger) BestMove(best, ponder Move) {
	if ponder != NullMove {
		fmt.Fprintf(l.w, "bestmove %s ponder %s\n", best.UCI(), ponder.UCI())
		return
	}
	fmt.Fprintf(l.w, "bestmove %s\n", best.UCI())
}

func formatScore(score int32) string {
	if score >= KnownWinScore {
		return fmt.Sprintf("mate %d", (MateScore-score+1)/2)
	}
	if score <= KnownLossScore {
		return fmt.Sprintf("mate %d", -(MateScore+score+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}

func formatPV(pv []Move) string {
	s := ""
	for _, m := range pv {
		s += " " + m.UCI()
	}
	return s
}

// NullLogger discards every report; used by callers (e.g. tests) that
// only want the best move, not UCI output.
type NullLogger struct{}

func (NullLogger) Info(int, int, int32, uint64, uint64, int, []Move) {}
func (NullLogger) BestMove(Move, Move)                               {}

// SearchManager coordinates a Lazy SMP search: a shared transposition
// table and stop flag, one Worker per configured thread, and the
// book/tablebase hooks consulted before the workers start.
type SearchManager struct {
	tt    *TranspositionTable
	cache *probeCache
	opts  Options
	log   Logger

	startedAt time.Time

	Book      BookProbe
	Tablebase TablebaseProbe
}

// NewSearchManager builds a manager with its own transposition table
// sized per opts.HashMB.
func NewSearchManager(opts Options, log Logger) *SearchManager {
	if log == nil {
		log = NullLogger{}
	}
	return &SearchManager{
		tt:    NewTranspositionTable(opts.HashMB),
		cache: newProbeCache(),
		opts:  opts,
		log:   log,
	}
}

// SetOptions replaces the manager's option set, resizing the
// transposition table if HashMB changed.
func (sm *SearchManager) SetOptions(opts Options) {
	if opts.HashMB != sm.opts.HashMB {
		sm.tt = NewTranspositionTable(opts.HashMB)
	}
	sm.opts = opts
}

// Clear discards every transposition table entry and every cached
// book/tablebase probe result, as UCI `ucinewgame` requires.
func (sm *SearchManager) Clear() {
	sm.tt.Clear()
	sm.cache.clear()
}

// StartSearch runs iterative deepening to the limits' depth or
// deadline and returns the best move found (and, if known, a ponder
// move: the PV's second move), implementing spec.md §1's
// start_search(limits) -> best_move entry point and §4.11's Lazy SMP
// fan-out.
func (sm *SearchManager) StartSearch(ctx context.Context, root *Board, limits Limits) (best, ponder Move) {
	sm.tt.NextGeneration()

	if moves := sm.probeBook(root); len(moves) > 0 {
		return moves[0].Move, NullMove
	}

	tc := NewTimeControl(limits, root.SideToMove)
	sm.startedAt = time.Now()
	threads := sm.opts.Threads
	if threads < 1 {
		threads = 1
	}

	var stop atomic.Bool
	var sharedNodes atomic.Int64
	cachedTablebase := sm.cache.cachedTablebase(sm.Tablebase)
	workers := make([]*Worker, threads)
	for i := range workers {
		w := NewWorker(i, root, sm.tt, &stop, &sharedNodes, tc)
		w.contempt = sm.opts.Contempt
		w.tablebase = cachedTablebase
		if sm.opts.NullMoveBaseR > 0 {
			w.nullMoveBaseR = sm.opts.NullMoveBaseR
		}
		workers[i] = w
	}

	group, gctx := errgroup.WithContext(ctx)
	go func() {
		<-gctx.Done()
		stop.Store(true)
	}()

	for _, w := range workers {
		w := w
		group.Go(func() error {
			sm.iterativeDeepen(w, tc)
			return nil
		})
	}
	_ = group.Wait()

	main := workers[0]
	best = sm.finalBestMove(main, root)
	if pv := main.PV(); len(pv) > 1 && pv[0] == best {
		ponder = pv[1]
	}
	return best, ponder
}

// finalBestMove implements spec.md §4.11 step 6's fallback chain: the
// lead worker's own recorded root move; failing that, a usable move
// from the transposition table; failing that, any legal move. Only a
// position with no legal moves at all (checkmate/stalemate at the
// root) yields NullMove.
func (sm *SearchManager) finalBestMove(main *Worker, root *Board) Move {
	if main.bestRootMove != NullMove {
		return main.bestRootMove
	}
	if probe := sm.tt.Probe(root.Zobrist(), 0, 0, -InfinityScore, InfinityScore); probe.Found && probe.Move != NullMove {
		// A hash collision can hand back a move that is not even
		// pseudo-legal here; validate before trusting it as bestmove.
		if root.IsMovePseudoLegal(probe.Move) && root.IsMoveLegal(probe.Move) {
			return probe.Move
		}
	}
	var legal MoveList
	root.GenerateLegal(&legal)
	if legal.Len() > 0 {
		return legal.Moves()[0]
	}
	return NullMove
}

// probeBook consults the book hook, if set, before the worker pool
// starts; book moves are returned unsearched per spec.md §6.
func (sm *SearchManager) probeBook(root *Board) []BookMove {
	probe := sm.cache.cachedBook(sm.Book)
	if probe == nil {
		return nil
	}
	return probe(root.Zobrist())
}

// iterativeDeepen drives one worker's iterative deepening loop with a
// gradually-widening aspiration window, grounded on the teacher's
// search/Play pair: depths 1..3 search with an infinite window (cheap
// and volatile at low depth), depth >= 4 starts from the previous
// score +/- the configured aspiration delta (initialAspirationWindow by
// default) and widens geometrically on either bound failing.
func (sm *SearchManager) iterativeDeepen(w *Worker, tc *TimeControl) {
	score := int32(0)
	maxDepth := tc.Depth()
	if maxDepth <= 0 || maxDepth > maxIterativeDepth {
		maxDepth = maxIterativeDepth
	}

	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 && w.stopped() {
			break
		}
		if depth > 1 {
			w.history.Age()
		}

		alpha, beta := int32(-InfinityScore), int32(InfinityScore)
		delta := sm.opts.AspirationDelta
		if depth >= 4 {
			alpha = max(score-delta, -InfinityScore)
			beta = min(score+delta, InfinityScore)
		}

		for {
			s := w.negamax(depth, 0, alpha, beta, true, NullMove)
			if w.stopped() {
				score = s
				break
			}
			if s <= alpha {
				alpha = max(alpha-delta, -InfinityScore)
				delta += delta / 2
				continue
			}
			if s >= beta {
				beta = min(beta+delta, InfinityScore)
				delta += delta / 2
				continue
			}
			score = s
			break
		}

		// Record this iteration's root move once it either completed
		// cleanly or is the mandatory first iteration -- a later
		// iteration aborted mid-search by the stop flag produced only a
		// partial, untrustworthy score and must not overwrite a deeper,
		// completed result. Per spec.md §4.11 step 4/6, this is the
		// worker's "chosen root move" the manager reads back.
		if !w.stopped() || depth == 1 {
			if pv := w.PV(); len(pv) > 0 {
				w.bestRootMove = pv[0]
				w.bestRootScore = score
			}
		}

		w.flushNodes()
		if w.id == 0 {
			if w.stopped() && depth > 1 {
				break
			}
			sm.reportDepth(w, depth, score)
			if w.stopped() {
				break
			}
		} else if w.stopped() {
			break
		}
	}
}

func (sm *SearchManager) reportDepth(w *Worker, depth int, score int32) {
	nodes := uint64(w.sharedNodes.Load())
	elapsed := time.Since(sm.startedAt).Seconds()
	nps := nodes
	if elapsed > 0 {
		nps = uint64(float64(nodes) / elapsed)
	}
	hashfull := w.tt.HashFull()
	sm.log.Info(depth, w.selDepth, score, nodes, nps, hashfull, w.PV())
}
