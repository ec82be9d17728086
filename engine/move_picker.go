// move_picker.go implements staged move ordering: a MovePicker hands
// the search worker one move at a time, cheapest-to-produce stages
// first, picking the highest-scored remaining move within each stage
// before generating the next.
//
// Grounded on the teacher's engine/move_ordering.go state machine
// (msHash -> msGenViolent -> msReturnViolent -> msGenKiller -> ... ->
// msDone) and its MVV-LVA scoring table, reshaped into the stage list
// the expanded spec calls for: promotions get their own stage ahead of
// captures, and SEE (not just MVV-LVA) disambiguates captures into
// "good" (searched now) and "bad" (deferred to the final stage).
package engine

// pickerStage enumerates the move picker's stages in the exact order
// the expanded spec requires.
type pickerStage int

const (
	stageTT pickerStage = iota
	stagePromotions
	stageGoodCaptures
	stageKillers
	stageQuiets
	stageBadCaptures
	stageDone
)

// scoredMove pairs a move with an ordering score; higher is better.
type scoredMove struct {
	move  Move
	score int32
}

// mvvValue gives each piece a value for Most-Valuable-Victim /
// Least-Valuable-Aggressor scoring, independent of SEE.
var mvvValue = [PieceArraySize]int32{
	NoPiece: 0, Pawn: 100, Knight: 320, Bishop: 330, Rook: 500, Queen: 950, King: 10000,
}

// promotionValue ranks promotion choices, queen highest.
var promotionValue = [PieceArraySize]int32{
	Queen: 4, Rook: 3, Bishop: 2, Knight: 1,
}

// MovePicker produces pseudo-legal moves for one search node in staged
// order. It is owned by a single Worker and reused across nodes via
// Reset, never shared across goroutines.
type MovePicker struct {
	pos *Board

	ttMove      Move
	killer0     Move
	killer1     Move
	counterMove Move

	stage pickerStage

	promotions  []scoredMove
	goodCapts   []scoredMove
	badCapts    []scoredMove
	quiets      []scoredMove
	killerQueue []Move

	emitted []Move // moves already returned, to suppress duplicates
}

// NewMovePicker builds a picker for pos's current side to move.
func NewMovePicker() *MovePicker {
	return &MovePicker{}
}

// Reset prepares the picker for a new node: ttMove is the (possibly
// null) transposition-table move, killer0/killer1 are this ply's killer
// moves, and counterMove is the counter-move table's reply to the
// opponent's last move.
func (mp *MovePicker) Reset(pos *Board, ttMove, killer0, killer1, counterMove Move) {
	mp.pos = pos
	mp.ttMove = ttMove
	mp.killer0 = killer0
	mp.killer1 = killer1
	mp.counterMove = counterMove
	mp.stage = stageTT
	mp.promotions = mp.promotions[:0]
	mp.goodCapts = mp.goodCapts[:0]
	mp.badCapts = mp.badCapts[:0]
	mp.quiets = mp.quiets[:0]
	mp.killerQueue = mp.killerQueue[:0]
	mp.emitted = mp.emitted[:0]
}

// wasEmitted reports whether m has already been returned from this
// picker, so a move discovered in a later stage (e.g. a killer that is
// also a generated quiet) is not returned twice.
func (mp *MovePicker) wasEmitted(m Move) bool {
	for _, e := range mp.emitted {
		if e == m {
			return true
		}
	}
	return false
}

func (mp *MovePicker) markEmitted(m Move) {
	mp.emitted = append(mp.emitted, m)
}

// generate runs the pseudo-legal generator once and buckets every move
// into promotions, captures (split good/bad by SEE), or quiets.
func (mp *MovePicker) generate(history *HistoryTable, ply, threadID int) {
	var list MoveList
	mp.pos.GeneratePseudoLegal(&list)
	us := mp.pos.SideToMove

	for _, m := range list.Moves() {
		if mp.wasEmitted(m) {
			continue
		}
		switch {
		case m.Flag() == Promotion:
			score := promotionValue[m.Promotion()] * 1000
			if m.Capture() != NoPiece {
				score += mvvValue[m.Capture()]
			}
			mp.promotions = append(mp.promotions, scoredMove{m, score})

		case m.Capture() != NoPiece:
			attacker, victim := mvvValue[m.Piece()], mvvValue[m.Capture()]
			score := victim*64 - attacker
			if attacker > victim && mp.pos.SeeSign(m) {
				mp.badCapts = append(mp.badCapts, scoredMove{m, score})
			} else {
				mp.goodCapts = append(mp.goodCapts, scoredMove{m, score})
			}

		default:
			score := history.Get(us, m.From(), m.To())
			if threadID > 0 {
				score += jitter(m, ply, threadID)
			}
			mp.quiets = append(mp.quiets, scoredMove{m, score})
		}
	}
}

// jitter derives bounded, deterministic pseudo-random noise for quiet
// move scores on non-main threads, so Lazy SMP workers diversify their
// search instead of all following the same ordering.
func jitter(m Move, ply, threadID int) int32 {
	h := uint32(m)*2654435761 + uint32(ply)*40503 + uint32(threadID)*2246822519
	return int32(h%33) - 16
}

// popBest removes and returns the highest-scored move from s.
func popBest(s []scoredMove) ([]scoredMove, Move) {
	best := 0
	for i := 1; i < len(s); i++ {
		if s[i].score > s[best].score {
			best = i
		}
	}
	m := s[best].move
	last := len(s) - 1
	s[best] = s[last]
	return s[:last], m
}

// Next returns the next move in staged order, or NullMove once every
// stage is exhausted.
func (mp *MovePicker) Next(history *HistoryTable, ply, threadID int) Move {
	for {
		switch mp.stage {
		case stageTT:
			mp.stage = stagePromotions
			if mp.ttMove != NullMove && mp.pos.IsMovePseudoLegal(mp.ttMove) {
				mp.markEmitted(mp.ttMove)
				return mp.ttMove
			}

		case stagePromotions:
			if len(mp.promotions) == 0 {
				mp.generate(history, ply, threadID)
				mp.stage = stageGoodCaptures
				continue
			}
			var m Move
			mp.promotions, m = popBest(mp.promotions)
			mp.markEmitted(m)
			return m

		case stageGoodCaptures:
			if len(mp.goodCapts) == 0 {
				mp.stage = stageKillers
				continue
			}
			var m Move
			mp.goodCapts, m = popBest(mp.goodCapts)
			mp.markEmitted(m)
			return m

		case stageKillers:
			if len(mp.killerQueue) == 0 {
				for _, k := range [3]Move{mp.killer0, mp.killer1, mp.counterMove} {
					if k != NullMove && !mp.wasEmitted(k) && mp.pos.IsMovePseudoLegal(k) && k.Capture() == NoPiece {
						mp.killerQueue = append(mp.killerQueue, k)
					}
				}
				if len(mp.killerQueue) == 0 {
					mp.stage = stageQuiets
					continue
				}
			}
			m := mp.killerQueue[0]
			mp.killerQueue = mp.killerQueue[1:]
			if mp.wasEmitted(m) {
				continue
			}
			mp.markEmitted(m)
			return m

		case stageQuiets:
			if len(mp.quiets) == 0 {
				mp.stage = stageBadCaptures
				continue
			}
			var m Move
			mp.quiets, m = popBest(mp.quiets)
			if mp.wasEmitted(m) {
				continue
			}
			mp.markEmitted(m)
			return m

		case stageBadCaptures:
			if len(mp.badCapts) == 0 {
				mp.stage = stageDone
				continue
			}
			var m Move
			mp.badCapts, m = popBest(mp.badCapts)
			mp.markEmitted(m)
			return m

		case stageDone:
			return NullMove
		}
	}
}

// CapturesOnly resets the picker to emit only pseudo-legal captures and
// non-quiet promotions, in SEE/MVV-LVA order with no TT/killer stages --
// used by quiescence search.
func (mp *MovePicker) CapturesOnly(pos *Board) {
	mp.pos = pos
	mp.ttMove = NullMove
	mp.killer0, mp.killer1, mp.counterMove = NullMove, NullMove, NullMove
	mp.emitted = mp.emitted[:0]
	mp.promotions = mp.promotions[:0]
	mp.goodCapts = mp.goodCapts[:0]
	mp.badCapts = mp.badCapts[:0]
	mp.quiets = mp.quiets[:0]
	mp.killerQueue = mp.killerQueue[:0]

	var list MoveList
	pos.GeneratePseudoLegalCaptures(&list)
	for _, m := range list.Moves() {
		if m.Flag() == Promotion {
			score := promotionValue[m.Promotion()]*1000 + mvvValue[m.Capture()]
			mp.promotions = append(mp.promotions, scoredMove{m, score})
			continue
		}
		attacker, victim := mvvValue[m.Piece()], mvvValue[m.Capture()]
		score := victim*64 - attacker
		if attacker > victim && pos.SeeSign(m) {
			mp.badCapts = append(mp.badCapts, scoredMove{m, score})
		} else {
			mp.goodCapts = append(mp.goodCapts, scoredMove{m, score})
		}
	}
	mp.stage = stagePromotions
}

// NextCaptureOnly pops the next move from a CapturesOnly-reset picker;
// unlike Next, bad captures are only returned by NextAllowingBad.
func (mp *MovePicker) NextCaptureOnly() Move {
	for {
		switch mp.stage {
		case stagePromotions:
			if len(mp.promotions) == 0 {
				mp.stage = stageGoodCaptures
				continue
			}
			var m Move
			mp.promotions, m = popBest(mp.promotions)
			return m
		case stageGoodCaptures:
			if len(mp.goodCapts) == 0 {
				mp.stage = stageDone
				return NullMove
			}
			var m Move
			mp.goodCapts, m = popBest(mp.goodCapts)
			return m
		default:
			return NullMove
		}
	}
}

// NextAllowingBad is like NextCaptureOnly but also yields bad captures
// last, for quiescence when not in check (where even a losing capture
// may still be worth trying at shallow depth before delta-pruning).
func (mp *MovePicker) NextAllowingBad() Move {
	if m := mp.NextCaptureOnly(); m != NullMove {
		return m
	}
	if len(mp.badCapts) == 0 {
		return NullMove
	}
	var m Move
	mp.badCapts, m = popBest(mp.badCapts)
	return m
}

// HistoryTable scores quiet moves by how often they have raised alpha
// in the past, indexed [color][from][to] as the expanded spec requires.
//
// Grounded on the teacher's historyTable (bonus on cutoff, penalty on
// tried-but-failed quiets), redesigned from the teacher's murmur-hashed
// 1024-slot LRU-ish cache to a direct [color][64][64] array since the
// spec's indexing scheme has no collisions to guard against.
type HistoryTable [ColorArraySize][SquareArraySize][SquareArraySize]int32

const historyMax = 1 << 14

// Get returns the current history score for a color's move.
func (h *HistoryTable) Get(col Color, from, to Square) int32 {
	return h[col][from][to]
}

// Update applies bonus (depth^2 on a cutoff, negative for quiets tried
// and rejected before the cutting move), saturating toward historyMax
// the same way the teacher's history decays -- gravity proportional to
// the current value keeps the table self-normalizing across a long
// search instead of growing without bound.
func (h *HistoryTable) Update(col Color, from, to Square, bonus int32) {
	v := &h[col][from][to]
	*v += bonus - (*v * abs32(bonus) / historyMax)
	if *v > historyMax {
		*v = historyMax
	}
	if *v < -historyMax {
		*v = -historyMax
	}
}

// Age halves every entry, called between iterative-deepening depths so
// old-depth evidence fades relative to the current iteration.
func (h *HistoryTable) Age() {
	for c := range h {
		for f := range h[c] {
			for t := range h[c][f] {
				h[c][f][t] /= 2
			}
		}
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// KillerTable stores two killer moves per ply, the quiet moves that
// most recently caused a beta cutoff at that ply.
type KillerTable [maxSearchPly][2]Move

// Get returns the two killer moves stored for ply.
func (kt *KillerTable) Get(ply int) (Move, Move) {
	if ply >= len(kt) {
		return NullMove, NullMove
	}
	return kt[ply][0], kt[ply][1]
}

// Add records m as the newest killer at ply, bumping the previous
// newest killer down to the second slot.
func (kt *KillerTable) Add(ply int, m Move) {
	if ply >= len(kt) || m.Capture() != NoPiece {
		return
	}
	if kt[ply][0] == m {
		return
	}
	kt[ply][1] = kt[ply][0]
	kt[ply][0] = m
}

// CounterMoveTable records, for each (side, last-moved piece, last
// destination square), the quiet move that most recently refuted it.
type CounterMoveTable [ColorArraySize][PieceArraySize][SquareArraySize]Move

// Get returns the counter-move reply to a move by piece p landing on to.
func (ct *CounterMoveTable) Get(side Color, p Piece, to Square) Move {
	return ct[side][p][to]
}

// Set records m as the counter to a move by piece p landing on to.
func (ct *CounterMoveTable) Set(side Color, p Piece, to Square, m Move) {
	ct[side][p][to] = m
}

// maxSearchPly bounds the killer table and the mate-score normalization
// horizon; no search in this engine ever reaches this depth.
const maxSearchPly = 128
