// worker.go implements the thread-local half of Lazy SMP search: a
// Worker owns its own Board (deep-copied from the root), its own
// killer/counter/history tables, and a local node counter, and shares
// only the transposition table, the stop flag, the node counter, and
// the deadline with its siblings (see manager.go). negamax and
// qsearch are direct translations of spec.md §4.9/§4.10's numbered
// steps.
//
// Grounded on the teacher's engine/engine.go searchTree/searchQuiescence
// (negamax framework, fail-soft, PVS null-window re-search, null-move
// pruning, futility/history leaf pruning, check extension, LMR, killer
// heuristic) generalized from one goroutine with package-global state
// to a value type one goroutine owns outright, plus the features the
// expanded spec adds that the teacher does not have: singular
// extension, internal iterative deepening, razoring, and a shared
// lock-free TT instead of the teacher's single-threaded one.
package engine

import (
	"math"
	"sync/atomic"
)

const (
	nodeCheckInterval = 32768

	checkDepthExtension = 1
	nullMoveDepthLimit  = 3 // NMP needs depth >= this
	nullMoveBaseReduction = 2
	lmrDepthLimit       = 3 // do not reduce at or below this depth
	lmrMoveThreshold    = 4 // only reduce the 5th move onward
	razorDepthLimit     = 3
	reverseFutilityDepthLimit = 6
	futilityDepthLimit  = 6
	iidDepthLimit       = 6
	singularDepthLimit  = 8
	lateMovePruneBase   = 4

	contemptHistoryPly = 10
	contemptPenalty    = 1
)

// lmrTable[depth][moveIndex] is a precomputed log-log reduction, in the
// style of every modern alpha-beta engine's LMR table; it is built once
// at init from a closed-form formula rather than tuned by hand, same
// spirit as attack.go's magic search being self-verifying rather than
// hardcoded.
var lmrTable [64][64]int32

func init() {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			r := 0.35 + math.Log(float64(d))*math.Log(float64(m))/2.25
			lmrTable[d][m] = int32(r)
		}
	}
}

// Worker runs iterative deepening on its own Board, sharing only the
// transposition table and the manager's coordination flags with its
// siblings.
type Worker struct {
	id    int
	board *Board

	tt *TranspositionTable

	history  HistoryTable
	killers  KillerTable
	counters CounterMoveTable
	pickers  [maxSearchPly]MovePicker
	pv       [maxSearchPly + 1][]Move
	lastMove [maxSearchPly]Move

	stop        *atomic.Bool
	sharedNodes *atomic.Int64
	localNodes  uint64

	tc *TimeControl

	tablebase     TablebaseProbe
	contempt      int32
	nullMoveBaseR int

	selDepth     int
	bestRootMove Move
	bestRootScore int32
}

// NewWorker builds a worker owning its own deep copy of root.
func NewWorker(id int, root *Board, tt *TranspositionTable, stop *atomic.Bool, sharedNodes *atomic.Int64, tc *TimeControl) *Worker {
	w := &Worker{
		id:            id,
		board:         root.Clone(),
		tt:            tt,
		stop:          stop,
		sharedNodes:   sharedNodes,
		tc:            tc,
		nullMoveBaseR: nullMoveBaseReduction,
	}
	for i := range w.pv {
		w.pv[i] = make([]Move, 0, maxSearchPly)
	}
	return w
}

// bumpNode increments the local node counter, periodically flushing it
// to the shared atomic counter and, on the manager's thread-0 worker,
// checking the deadline -- per spec.md §5, drift of a few thousand
// nodes across flushes is acceptable.
func (w *Worker) bumpNode() {
	w.localNodes++
	if w.localNodes%nodeCheckInterval == 0 {
		w.sharedNodes.Add(nodeCheckInterval)
		if w.id == 0 && w.tc.Expired() {
			w.stop.Store(true)
		}
	}
}

// flushNodes adds any nodes counted since the last periodic flush to
// the shared counter; called once iterative deepening finishes so the
// reported node count is not short by up to nodeCheckInterval-1.
func (w *Worker) flushNodes() {
	w.sharedNodes.Add(int64(w.localNodes % nodeCheckInterval))
}

func (w *Worker) stopped() bool { return w.stop.Load() }

// drawScore returns the score for a detected draw: zero, except a
// small negative contempt-adjustment when the game history is still
// short, discouraging the engine from steering an early, still-rich
// position into a repetition. Spec.md §9 keeps two-fold detection
// (see Board.IsTwoFoldRepetition) rather than three-fold.
func (w *Worker) drawScore() int32 {
	if len(w.board.history) < contemptHistoryPly {
		return -contemptPenalty - w.contempt
	}
	return -w.contempt
}

// endPosition reports a terminal or drawn score for the current
// position, if any, following spec.md §4.9 step 2: fifty-move rule or
// two-fold repetition (only checked at ply > 0), or insufficient
// material.
func (w *Worker) endPosition(ply int) (int32, bool) {
	pos := w.board
	if ply > 0 {
		if pos.FiftyMoveRule() || pos.IsTwoFoldRepetition() {
			return w.drawScore(), true
		}
	}
	if pos.InsufficientMaterial() {
		return 0, true
	}
	return 0, false
}

func (w *Worker) updatePV(ply int, m Move) {
	w.pv[ply] = append(w.pv[ply][:0], m)
	w.pv[ply] = append(w.pv[ply], w.pv[ply+1]...)
}

// PV returns the principal variation found by the last completed
// search, root move first.
func (w *Worker) PV() []Move { return w.pv[0] }

// syzygyProbe consults the tablebase hook, if set, under the
// preconditions spec.md §4.9 step 3 names: piece count <= 5, no
// castling rights, and a reversible (just-zeroed) halfmove clock.
func (w *Worker) syzygyProbe(ply int) (int32, bool) {
	if w.tablebase == nil {
		return 0, false
	}
	pos := w.board
	if pos.halfmoveClock != 0 || pos.castlingRights != NoCastle {
		return 0, false
	}
	pieces := pos.Occ(OccAll).Popcnt()
	if pieces > 5 {
		return 0, false
	}
	result := w.tablebase(pos)
	if !result.Exists {
		return 0, false
	}
	return wdlToScore(result.WDL, ply), true
}

// negamax implements spec.md §4.9: negamax with TT-backed cutoffs,
// razoring, reverse futility, null-move pruning, internal iterative
// deepening, singular extension, check extension, late-move reduction,
// and principal-variation search with null-window re-search.
func (w *Worker) negamax(depth, ply int, alpha, beta int32, allowNull bool, excluded Move) int32 {
	w.bumpNode()
	if w.stopped() {
		return alpha
	}

	pvNode := alpha+1 < beta
	if pvNode && ply > w.selDepth {
		w.selDepth = ply
	}

	if score, done := w.endPosition(ply); done {
		return score
	}

	// Mate distance pruning: no line through this node can beat a mate
	// already found closer to the root.
	alpha = max(alpha, MatedScore+int32(ply))
	beta = min(beta, MateScore-int32(ply))
	if alpha >= beta {
		return alpha
	}

	if score, ok := w.syzygyProbe(ply); ok {
		return score
	}

	if ply >= maxSearchPly-1 {
		// Hard ply cap: a chain of check extensions can otherwise hold
		// depth constant while ply grows without bound.
		return w.board.EvalRelative(alpha, beta)
	}

	pos := w.board
	key := pos.Zobrist()
	var ttMove Move
	if excluded == NullMove {
		probe := w.tt.Probe(key, int8(depth), ply, alpha, beta)
		if probe.Found {
			ttMove = probe.Move
			if ply > 0 && probe.Usable {
				return probe.Score
			}
		}
	}

	us := pos.SideToMove
	inCheck := pos.IsChecked(us)

	if depth <= 0 {
		if inCheck {
			return w.negamaxCheckExtendedLeaf(alpha, beta, ply)
		}
		return w.qsearch(alpha, beta, ply)
	}

	staticEval := int32(0)
	haveStatic := false
	lazyEval := func() int32 {
		if !haveStatic {
			staticEval = pos.EvalRelative(-InfinityScore, InfinityScore)
			haveStatic = true
		}
		return staticEval
	}

	if !pvNode && !inCheck && ply > 0 {
		if depth <= razorDepthLimit && lazyEval()+razorMargin(depth) <= alpha {
			return w.qsearch(alpha, beta, ply)
		}
		if depth <= reverseFutilityDepthLimit && alpha > KnownLossScore && beta < KnownWinScore {
			if lazyEval()-reverseFutilityMargin(depth) >= beta {
				return beta
			}
		}
	}

	if pvNode && ttMove == NullMove && depth >= iidDepthLimit {
		w.negamax(depth-2, ply, alpha, beta, true, NullMove)
		if probe := w.tt.Probe(key, 0, ply, alpha, beta); probe.Found {
			ttMove = probe.Move
		}
	}

	if allowNull && !inCheck && depth >= nullMoveDepthLimit &&
		alpha > KnownLossScore && beta < KnownWinScore &&
		pos.minorsAndMajors(us) != 0 {
		undo := pos.PlayNull()
		r := w.nullMoveBaseR
		if depth > 6 {
			r++
		}
		score := -w.negamax(depth-1-r, ply+1, -beta, -beta+1, false, NullMove)
		pos.UndoNull(undo)
		if w.stopped() {
			return alpha
		}
		if score >= beta && score < KnownWinScore {
			return beta
		}
	}

	picker := &w.pickers[ply]
	killer0, killer1 := w.killers.Get(ply)
	var counter Move
	if ply > 0 {
		last := w.lastMove[ply-1]
		if last != NullMove {
			counter = w.counters.Get(us.Opposite(), last.Piece(), last.To())
		}
	}
	picker.Reset(pos, ttMove, killer0, killer1, counter)

	// Singular extension: if the TT move is far better than every
	// alternative at a reduced search, it is forced and worth extending.
	singularExt := 0
	if depth >= singularDepthLimit && ttMove != NullMove && excluded == NullMove {
		if probe := w.tt.Probe(key, int8(depth-3), ply, alpha, beta); probe.Found && int(probe.Depth) >= depth-3 && probe.Flag != TTAlpha {
			sBeta := probe.Score - 2*int32(depth)
			sDepth := depth/2 - 1
			score := w.negamax(sDepth, ply, sBeta-1, sBeta, false, ttMove)
			if score < sBeta {
				singularExt = 1
			}
		}
	}

	bestMove, bestScore := NullMove, int32(-InfinityScore)
	localAlpha := alpha
	numMoves := 0
	allowLMP := !pvNode && !inCheck && depth <= lateMovePruneBase
	allowLeafPruning := !pvNode && !inCheck && depth <= futilityDepthLimit && alpha > KnownLossScore && beta < KnownWinScore

	for {
		m := picker.Next(&w.history, ply, w.id)
		if m == NullMove {
			break
		}
		if m == excluded {
			continue
		}

		critical := m == ttMove || m == killer0 || m == killer1
		pos.Play(m)
		if pos.IsChecked(us) {
			pos.Unplay(m)
			continue
		}
		numMoves++
		w.lastMove[ply] = m

		givesCheck := pos.IsChecked(pos.SideToMove)
		newDepth := depth
		if givesCheck && depth >= 2 {
			newDepth += checkDepthExtension
		} else if m == ttMove {
			newDepth += singularExt
		}

		if allowLMP && !givesCheck && !critical && m.IsQuiet() && numMoves > lateMovePruneBase+depth*3 {
			pos.Unplay(m)
			numMoves--
			continue
		}
		if allowLeafPruning && !givesCheck && !critical && m.IsQuiet() &&
			lazyEval()+futilityMargin(depth) <= localAlpha {
			pos.Unplay(m)
			numMoves--
			continue
		}

		lmr := int32(0)
		if !inCheck && !givesCheck && !critical && depth > lmrDepthLimit && numMoves > lmrMoveThreshold &&
			(m.IsQuiet() || pos.SeeSign(m)) {
			lmr = lmrTable[min(depth, 63)][min(numMoves, 63)]
			if lmr < 0 {
				lmr = 0
			}
		}

		var score int32
		if numMoves == 1 {
			score = -w.negamax(newDepth-1, ply+1, -beta, -localAlpha, true, NullMove)
		} else {
			searchDepth := newDepth - 1 - int(lmr)
			score = -w.negamax(searchDepth, ply+1, -localAlpha-1, -localAlpha, true, NullMove)
			if score > localAlpha && lmr > 0 {
				score = -w.negamax(newDepth-1, ply+1, -localAlpha-1, -localAlpha, true, NullMove)
			}
			if score > localAlpha && score < beta {
				score = -w.negamax(newDepth-1, ply+1, -beta, -localAlpha, true, NullMove)
			}
		}
		pos.Unplay(m)

		if w.stopped() {
			return alpha
		}

		if allowLeafPruning && !givesCheck {
			if score > localAlpha {
				w.history.Update(us, m.From(), m.To(), int32(depth*depth))
			} else if m.IsQuiet() {
				w.history.Update(us, m.From(), m.To(), -int32(depth))
			}
		}

		if score >= beta {
			if m.IsQuiet() {
				w.killers.Add(ply, m)
				if ply > 0 && w.lastMove[ply-1] != NullMove {
					last := w.lastMove[ply-1]
					w.counters.Set(us, last.Piece(), last.To(), m)
				}
			}
			if excluded == NullMove {
				w.tt.Store(key, int8(depth), ply, score, TTBeta, m)
			}
			return score
		}
		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > localAlpha {
				localAlpha = score
				w.updatePV(ply, m)
			}
		}
	}

	if numMoves == 0 {
		if excluded != NullMove {
			// Every move but the excluded one was illegal too; treat as
			// a normal (non-singular) position one ply up.
			return alpha
		}
		if inCheck {
			return MatedScore + int32(ply)
		}
		return 0
	}

	if excluded == NullMove {
		flag := TTExact
		if bestScore <= alpha {
			flag = TTAlpha
		}
		w.tt.Store(key, int8(depth), ply, bestScore, flag, bestMove)
	}
	return bestScore
}

// negamaxCheckExtendedLeaf handles depth<=0 while in check: quiescence
// assumes check evasions are generated, but a cleaner and equally
// correct treatment is to extend one more full ply of negamax so a
// mate hiding immediately past the depth limit is not missed.
func (w *Worker) negamaxCheckExtendedLeaf(alpha, beta int32, ply int) int32 {
	return w.negamax(1, ply, alpha, beta, true, NullMove)
}

func razorMargin(depth int) int32           { return 200 + int32(depth)*60 }
func reverseFutilityMargin(depth int) int32 { return int32(depth) * 85 }
func futilityMargin(depth int) int32        { return futilityMargin0 + int32(depth)*futilityMarginStep }

const (
	futilityMargin0    = 80
	futilityMarginStep = 60
)

// minorsAndMajors returns the bitboard of us's knights, bishops, rooks,
// and queens -- used by null-move pruning to refuse the heuristic in
// pawn-and-king-only endgames where zugzwang makes it unsound.
func (pos *Board) minorsAndMajors(us Color) Bitboard {
	return pos.PieceBB(us, Knight) | pos.PieceBB(us, Bishop) | pos.PieceBB(us, Rook) | pos.PieceBB(us, Queen)
}

// evasionScore orders check evasions for qsearch: the TT move first (if
// any), then captures by MVV-LVA with a SEE-based demotion for losing
// captures, then quiet evasions last -- the same ordering principle as
// MovePicker's staged captures, applied directly since evasions mix
// captures and quiets in one generation pass.
func evasionScore(pos *Board, m, ttMove Move) int32 {
	const ttBonus = 1 << 20
	if m == ttMove {
		return ttBonus
	}
	if m.Capture() == NoPiece {
		return 0
	}
	attacker, victim := mvvValue[m.Piece()], mvvValue[m.Capture()]
	score := victim*64 - attacker
	if attacker > victim && pos.SeeSign(m) {
		score -= ttBonus / 2
	}
	return score
}

// qsearch implements spec.md §4.10: stand-pat with a beta cutoff, then
// captures (plus all evasions when in check) ordered by SEE/MVV-LVA,
// delta-pruned and SEE-pruned, recursing with a negated window.
func (w *Worker) qsearch(alpha, beta int32, ply int) int32 {
	w.bumpNode()
	if w.stopped() {
		return alpha
	}
	if ply > maxSearchPly-1 {
		return w.board.EvalRelative(alpha, beta)
	}

	pos := w.board
	key := pos.Zobrist()
	probe := w.tt.Probe(key, 0, ply, alpha, beta)
	if probe.Found && probe.Usable {
		return probe.Score
	}

	us := pos.SideToMove
	inCheck := pos.IsChecked(us)
	origAlpha := alpha

	standPat := int32(-InfinityScore)
	if !inCheck {
		standPat = pos.EvalRelative(alpha, beta)
		if standPat >= beta {
			w.tt.Store(key, 0, ply, standPat, TTBeta, NullMove)
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	picker := &w.pickers[min(ply, maxSearchPly-1)]
	if inCheck {
		var list MoveList
		pos.GeneratePseudoLegal(&list)
		// Evasions include quiets, which CapturesOnly would exclude, so
		// they are scored here directly (TT-move bonus, then SEE/MVV-LVA
		// for captures, per spec.md §4.10 step 4) rather than run through
		// the staged MovePicker.
		scored := make([]scoredMove, 0, list.Len())
		for _, m := range list.Moves() {
			scored = append(scored, scoredMove{m, evasionScore(pos, m, probe.Move)})
		}

		bestScore := int32(MatedScore + int32(ply))
		numMoves := 0
		for len(scored) > 0 {
			var m Move
			scored, m = popBest(scored)
			pos.Play(m)
			if pos.IsChecked(us) {
				pos.Unplay(m)
				continue
			}
			numMoves++
			score := -w.qsearch(-beta, -alpha, ply+1)
			pos.Unplay(m)
			if w.stopped() {
				return alpha
			}
			if score >= beta {
				w.tt.Store(key, 0, ply, score, TTBeta, m)
				return score
			}
			if score > bestScore {
				bestScore = score
			}
			if score > alpha {
				alpha = score
			}
		}
		if numMoves == 0 {
			mateScore := MatedScore + int32(ply)
			w.tt.Store(key, 0, ply, mateScore, TTExact, NullMove)
			return mateScore
		}
		flag := TTExact
		if bestScore <= origAlpha {
			flag = TTAlpha
		}
		w.tt.Store(key, 0, ply, bestScore, flag, NullMove)
		return bestScore
	}

	picker.CapturesOnly(pos)
	bestScore := standPat
	for {
		m := picker.NextAllowingBad()
		if m == NullMove {
			break
		}

		if m.Flag() != Promotion {
			victim := seeValue[m.Capture()]
			if standPat+victim+200 < alpha {
				continue
			}
		}
		if m.Piece() != King && seeValue[m.Piece()] > seeValue[m.Capture()] && pos.SeeSign(m) {
			continue
		}

		pos.Play(m)
		if pos.IsChecked(us) {
			pos.Unplay(m)
			continue
		}
		score := -w.qsearch(-beta, -alpha, ply+1)
		pos.Unplay(m)
		if w.stopped() {
			return alpha
		}

		if score >= beta {
			w.tt.Store(key, 0, ply, score, TTBeta, m)
			return score
		}
		if score > bestScore {
			bestScore = score
		}
		if score > alpha {
			alpha = score
		}
	}

	flag := TTExact
	if bestScore <= origAlpha {
		flag = TTAlpha
	}
	w.tt.Store(key, 0, ply, bestScore, flag, NullMove)
	return bestScore
}
