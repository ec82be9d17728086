// eval.go implements static position evaluation: an incrementally
// maintained material/PST/phase accumulator (EvalState, updated from
// board.go's Put/Remove) plus a non-incremental pass over pawn
// structure, mobility, and king safety, interpolated by game phase and
// negated for the side not to move.
//
// Grounded on the teacher's material.go/score.go/pawns.go for the shape
// of a two-tempo (mid-game, end-game) scorer interpolated by phase and
// cached pawn structure; the teacher's specific 187-weight tuned vector
// (trained via Texel tuning) is not reproduced -- it is the output of an
// offline training process, not an architectural pattern, and is replaced
// here with a small hand-written PST/material/mobility/king-safety set
// that keeps the same Score{MG,EG} + phase-interpolation shape.
package engine

// Score is a (middlegame, endgame) value pair, interpolated by phase.
type Score struct {
	MG, EG int32
}

func (s Score) Add(o Score) Score { return Score{s.MG + o.MG, s.EG + o.EG} }
func (s Score) Sub(o Score) Score { return Score{s.MG - o.MG, s.EG - o.EG} }
func (s Score) Neg() Score        { return Score{-s.MG, -s.EG} }
func (s Score) Mul(n int32) Score { return Score{s.MG * n, s.EG * n} }

const (
	KnownWinScore  = 25000
	KnownLossScore = -KnownWinScore
	MateScore      = 30000
	MatedScore     = -MateScore
	InfinityScore  = 32000

	// MaxPhase is full opening material; 0 is a pure pawn endgame.
	MaxPhase = 24
	// LazyMargin bounds the incremental score before the full,
	// non-incremental evaluation is computed.
	LazyMargin = 110
)

// pieceValue is the material score of each piece used by the incremental
// evaluation; move ordering and SEE use their own value tables.
var pieceValue = [PieceArraySize]Score{
	NoPiece: {0, 0},
	Pawn:    {100, 120},
	Knight:  {320, 300},
	Bishop:  {330, 320},
	Rook:    {500, 550},
	Queen:   {975, 1000},
	King:    {0, 0},
}

// phaseWeight is how much material of each piece counts towards phase;
// starting material (8P is phase-neutral) totals MaxPhase.
var phaseWeight = [PieceArraySize]int{
	NoPiece: 0, Pawn: 0, Knight: 1, Bishop: 1, Rook: 2, Queen: 4, King: 0,
}

// pst is a hand-written piece-square table, indexed [piece][color-normalized square];
// Black squares are mirrored vertically before lookup.
var pst = [PieceArraySize][SquareArraySize]Score{
	Pawn: {
		{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0},
		{5, 10}, {10, 10}, {10, 10}, {-20, 10}, {-20, 10}, {10, 10}, {10, 10}, {5, 10},
		{5, 5}, {-5, 5}, {-10, 5}, {0, 5}, {0, 5}, {-10, 5}, {-5, 5}, {5, 5},
		{0, 10}, {0, 10}, {0, 10}, {20, 15}, {20, 15}, {0, 10}, {0, 10}, {0, 10},
		{5, 20}, {5, 20}, {10, 20}, {25, 25}, {25, 25}, {10, 20}, {5, 20}, {5, 20},
		{10, 35}, {10, 35}, {20, 35}, {30, 40}, {30, 40}, {20, 35}, {10, 35}, {10, 35},
		{50, 55}, {50, 55}, {50, 55}, {50, 55}, {50, 55}, {50, 55}, {50, 55}, {50, 55},
		{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0},
	},
	Knight: {
		{-50, -40}, {-40, -30}, {-30, -20}, {-30, -20}, {-30, -20}, {-30, -20}, {-40, -30}, {-50, -40},
		{-40, -30}, {-20, -10}, {0, 0}, {5, 0}, {5, 0}, {0, 0}, {-20, -10}, {-40, -30},
		{-30, -20}, {5, 0}, {10, 10}, {15, 10}, {15, 10}, {10, 10}, {5, 0}, {-30, -20},
		{-30, -20}, {0, 0}, {15, 10}, {20, 15}, {20, 15}, {15, 10}, {0, 0}, {-30, -20},
		{-30, -20}, {5, 0}, {15, 10}, {20, 15}, {20, 15}, {15, 10}, {5, 0}, {-30, -20},
		{-30, -20}, {0, 0}, {10, 10}, {15, 10}, {15, 10}, {10, 10}, {0, 0}, {-30, -20},
		{-40, -30}, {-20, -10}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-20, -10}, {-40, -30},
		{-50, -40}, {-40, -30}, {-30, -20}, {-30, -20}, {-30, -20}, {-30, -20}, {-40, -30}, {-50, -40},
	},
	Bishop: {
		{-20, -15}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-20, -15},
		{-10, -10}, {5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {5, 0}, {-10, -10},
		{-10, -10}, {10, 0}, {10, 5}, {10, 5}, {10, 5}, {10, 5}, {10, 0}, {-10, -10},
		{-10, -10}, {0, 0}, {10, 5}, {10, 10}, {10, 10}, {10, 5}, {0, 0}, {-10, -10},
		{-10, -10}, {5, 0}, {5, 5}, {10, 10}, {10, 10}, {5, 5}, {5, 0}, {-10, -10},
		{-10, -10}, {0, 0}, {5, 5}, {5, 5}, {5, 5}, {5, 5}, {0, 0}, {-10, -10},
		{-10, -10}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-10, -10},
		{-20, -15}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-20, -15},
	},
	Rook: {
		{0, 0}, {0, 0}, {5, 0}, {10, 5}, {10, 5}, {5, 0}, {0, 0}, {0, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{5, 5}, {10, 5}, {10, 5}, {10, 5}, {10, 5}, {10, 5}, {10, 5}, {5, 5},
		{0, 0}, {0, 0}, {0, 0}, {5, 5}, {5, 5}, {0, 0}, {0, 0}, {0, 0},
	},
	Queen: {
		{-20, -20}, {-10, -10}, {-10, -10}, {-5, -5}, {-5, -5}, {-10, -10}, {-10, -10}, {-20, -20},
		{-10, -10}, {0, 0}, {5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-10, -10},
		{-10, -10}, {5, 0}, {5, 5}, {5, 5}, {5, 5}, {5, 5}, {0, 0}, {-10, -10},
		{0, 0}, {0, 0}, {5, 5}, {5, 10}, {5, 10}, {5, 5}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {5, 5}, {5, 10}, {5, 10}, {5, 5}, {0, 0}, {-5, 0},
		{-10, -10}, {0, 0}, {5, 5}, {5, 5}, {5, 5}, {5, 5}, {0, 0}, {-10, -10},
		{-10, -10}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-10, -10},
		{-20, -20}, {-10, -10}, {-10, -10}, {-5, -5}, {-5, -5}, {-10, -10}, {-10, -10}, {-20, -20},
	},
	King: {
		{20, -50}, {30, -30}, {10, -30}, {0, -30}, {0, -30}, {10, -30}, {30, -30}, {20, -50},
		{20, -30}, {20, -30}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {20, -30}, {20, -30},
		{-10, -30}, {-20, -10}, {-20, 20}, {-20, 30}, {-20, 30}, {-20, 20}, {-20, -10}, {-10, -30},
		{-20, -30}, {-30, -10}, {-30, 30}, {-40, 40}, {-40, 40}, {-30, 30}, {-30, -10}, {-20, -30},
		{-30, -30}, {-40, -10}, {-40, 30}, {-50, 40}, {-50, 40}, {-40, 30}, {-40, -10}, {-30, -30},
		{-30, -30}, {-40, -10}, {-40, 20}, {-50, 30}, {-50, 30}, {-40, 20}, {-40, -10}, {-30, -30},
		{-30, -30}, {-40, -20}, {-40, -10}, {-50, 0}, {-50, 0}, {-40, -10}, {-40, -20}, {-30, -30},
		{-30, -50}, {-40, -40}, {-40, -30}, {-50, -20}, {-50, -20}, {-40, -30}, {-40, -40}, {-30, -50},
	},
}

var mobilityBonus = [PieceArraySize]Score{
	Knight: {4, 4}, Bishop: {5, 5}, Rook: {2, 4}, Queen: {1, 2},
}

var (
	bishopPairBonus       = Score{30, 40}
	rookOpenFileBonus     = Score{20, 10}
	rookHalfOpenFileBonus = Score{10, 5}
	kingShelterBonus      = Score{6, 0}
	kingOpenFileMalus     = Score{-20, 0}
)

var passedPawnBonus = [8]Score{
	{0, 0}, {5, 10}, {10, 20}, {20, 35}, {35, 55}, {60, 85}, {90, 120}, {0, 0},
}

// pstIndex mirrors sq vertically for Black so the same table serves both
// colors.
func pstIndex(col Color, sq Square) Square {
	if col == White {
		return sq
	}
	return RankFile(7-sq.Rank(), sq.File())
}

// EvalState is the incremental evaluation accumulator, mirrored on
// Board.Eval and updated from Put/Remove during play/unplay.
type EvalState struct {
	material [ColorArraySize]Score
	pstScore [ColorArraySize]Score
	phase    int
	pawnKey  uint64
	kingSq   [ColorArraySize]Square
}

func newEvalState() EvalState {
	return EvalState{phase: 0}
}

// AddPiece updates the accumulator for a piece placed on sq.
func (e *EvalState) AddPiece(col Color, p Piece, sq Square) {
	e.material[col] = e.material[col].Add(pieceValue[p])
	e.pstScore[col] = e.pstScore[col].Add(pst[p][pstIndex(col, sq)])
	e.phase += phaseWeight[p]
	if p == Pawn {
		e.pawnKey ^= zobristForPiece(col, p, sq)
	}
	if p == King {
		e.kingSq[col] = sq
	}
}

// RemovePiece updates the accumulator for a piece removed from sq.
func (e *EvalState) RemovePiece(col Color, p Piece, sq Square) {
	e.material[col] = e.material[col].Sub(pieceValue[p])
	e.pstScore[col] = e.pstScore[col].Sub(pst[p][pstIndex(col, sq)])
	e.phase -= phaseWeight[p]
	if p == Pawn {
		e.pawnKey ^= zobristForPiece(col, p, sq)
	}
}

// Phase returns the current game phase, clamped to [0, MaxPhase].
func (e *EvalState) Phase() int {
	p := e.phase
	if p > MaxPhase {
		p = MaxPhase
	}
	if p < 0 {
		p = 0
	}
	return p
}

// incrementalScore returns the interpolated material+PST score from
// White's perspective, before the non-incremental terms are added.
func (e *EvalState) incrementalScore() int32 {
	m := e.material[White].Add(e.pstScore[White]).Sub(e.material[Black].Add(e.pstScore[Black]))
	return interpolate(m, e.Phase())
}

// evaluateAbsolute returns the static score of pos from White's perspective.
func (pos *Board) evaluateAbsolute() int32 {
	score := pos.Eval.incrementalScore()
	score += pos.evaluatePawns(White) - pos.evaluatePawns(Black)
	score += pos.evaluateMobilityAndKingSafety(White) - pos.evaluateMobilityAndKingSafety(Black)
	return score
}

// EvalRelative returns the score from the side-to-move's viewpoint,
// applying a lazy cutoff against alpha/beta using the cheap incremental
// score before computing the full non-incremental terms.
func (pos *Board) EvalRelative(alpha, beta int32) int32 {
	us := pos.SideToMove
	inc := pos.Eval.incrementalScore()
	if us == Black {
		inc = -inc
	}
	if inc-LazyMargin >= beta || inc+LazyMargin <= alpha {
		return inc
	}

	score := pos.evaluateAbsolute()
	if us == Black {
		score = -score
	}
	return score
}

func (pos *Board) evaluatePawns(us Color) int32 {
	ours := pos.PieceBB(us, Pawn)
	theirs := pos.PieceBB(us.Opposite(), Pawn)

	var score Score
	if s, ok := pos.pawnHash.get(pos.Eval.pawnKey, us); ok {
		score = s
		return interpolate(score, pos.Eval.Phase())
	}
	for bb := ours; bb != 0; {
		sq := bb.Pop()
		file, rank := sq.File(), sq.Rank()
		relRank := rank
		if us == Black {
			relRank = 7 - rank
		}

		adjFiles := FileBb(file)
		if file > 0 {
			adjFiles |= FileBb(file - 1)
		}
		if file < 7 {
			adjFiles |= FileBb(file + 1)
		}

		// Doubled: another friendly pawn strictly ahead on the same file.
		aheadMask := fileAheadMask(us, sq)
		if ours&FileBb(file)&aheadMask != 0 {
			score.MG -= 8
			score.EG -= 16
		}
		// Isolated: no friendly pawns on adjacent files at all.
		if ours&(adjFiles&^FileBb(file)) == 0 {
			score.MG -= 10
			score.EG -= 15
		}
		// Passed: no enemy pawn on own or adjacent files, ahead of us.
		if theirs&adjFiles&aheadMask == 0 {
			score = score.Add(passedPawnBonus[relRank])
		}
	}

	pos.pawnHash.put(pos.Eval.pawnKey, us, score)
	return interpolate(score, pos.Eval.Phase())
}

// interpolate blends a (mid-game, end-game) score pair by phase
// (MaxPhase = full opening material, 0 = pure pawn endgame).
func interpolate(s Score, phase int) int32 {
	p := int32(phase)
	return (s.MG*p + s.EG*(MaxPhase-p)) / MaxPhase
}

// fileAheadMask returns the squares strictly ahead of sq (in us's
// direction of advance) restricted to no particular file; callers mask
// by file themselves.
func fileAheadMask(us Color, sq Square) Bitboard {
	var mask Bitboard
	if us == White {
		for r := sq.Rank() + 1; r < 8; r++ {
			mask |= RankBb(r)
		}
	} else {
		for r := sq.Rank() - 1; r >= 0; r-- {
			mask |= RankBb(r)
		}
	}
	return mask
}

func (pos *Board) evaluateMobilityAndKingSafety(us Color) int32 {
	var score Score
	them := us.Opposite()
	all := pos.occ[OccAll]
	ownOcc := pos.occ[us]

	for p := Knight; p <= Queen; p++ {
		for bb := pos.PieceBB(us, p); bb != 0; {
			sq := bb.Pop()
			att := Attack(p, us, sq, all) &^ ownOcc
			score = score.Add(mobilityBonus[p].Mul(int32(att.Popcnt())))
		}
	}

	if pos.PieceBB(us, Bishop).Popcnt() >= 2 {
		score = score.Add(bishopPairBonus)
	}

	for bb := pos.PieceBB(us, Rook); bb != 0; {
		sq := bb.Pop()
		file := FileBb(sq.File())
		if file&(pos.PieceBB(White, Pawn)|pos.PieceBB(Black, Pawn)) == 0 {
			score = score.Add(rookOpenFileBonus)
		} else if file&pos.PieceBB(us, Pawn) == 0 {
			score = score.Add(rookHalfOpenFileBonus)
		}
	}

	kingSq := pos.KingSq(us)
	shield := kingShelterMask(us, kingSq)
	score = score.Add(kingShelterBonus.Mul(int32((shield & pos.PieceBB(us, Pawn)).Popcnt())))

	for f := kingSq.File() - 1; f <= kingSq.File()+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		if pos.PieceBB(us, Pawn)&FileBb(f) == 0 {
			malus := kingOpenFileMalus
			if pos.PieceBB(them, Pawn)&FileBb(f) == 0 {
				malus = malus.Mul(2)
			}
			score = score.Add(malus)
		}
	}

	return interpolate(score, pos.Eval.Phase())
}

func kingShelterMask(us Color, kingSq Square) Bitboard {
	var mask Bitboard
	rank := kingSq.Rank() + 1
	if us == Black {
		rank = kingSq.Rank() - 1
	}
	if rank < 0 || rank > 7 {
		return 0
	}
	for f := kingSq.File() - 1; f <= kingSq.File()+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		mask |= RankFile(rank, f).Bitboard()
	}
	return mask
}

// pawnHashTable caches evaluatePawns results keyed by the incremental
// pawn_key, one slot per (color, key) pair. Grounded on the teacher's
// pawn_table.go, adapted to key off the Zobrist-style pawn_key the
// expanded spec mandates instead of the raw pawn bitboards.
type pawnHashEntry struct {
	key   uint64
	valid bool
	score Score
}

const pawnHashBits = 12

type pawnHashTable [ColorArraySize][1 << pawnHashBits]pawnHashEntry

func (t *pawnHashTable) get(key uint64, col Color) (Score, bool) {
	e := &t[col][key&((1<<pawnHashBits)-1)]
	if e.valid && e.key == key {
		return e.score, true
	}
	return Score{}, false
}

func (t *pawnHashTable) put(key uint64, col Color, score Score) {
	e := &t[col][key&((1<<pawnHashBits)-1)]
	e.key = key
	e.valid = true
	e.score = score
}
