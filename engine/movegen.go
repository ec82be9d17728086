// movegen.go generates pseudo-legal moves from precomputed attack
// tables, filters them for legality, and validates a single move (e.g.
// a transposition-table move) against the current position.
//
// Grounded on the teacher's position.go generation functions
// (genPawn*, genKnightMoves, genBishopMoves, genRookMoves,
// genKingMovesNear, genKingCastles, GetAttacker), adapted to the
// packed Move type and generalized to emit the generation order the
// expanded spec calls for: Pawns, Knights, Bishops, Rooks, Queens,
// King, Castles, low-to-high square index within each.
package engine

import "fmt"

// MoveList is a fixed-capacity move buffer, stack-sized per the
// concurrency model's resource limits.
type MoveList struct {
	moves [256]Move
	n     int
}

func (l *MoveList) add(m Move) {
	if l.n < len(l.moves) {
		l.moves[l.n] = m
		l.n++
	}
}

// Moves returns the moves accumulated so far.
func (l *MoveList) Moves() []Move { return l.moves[:l.n] }

// Len returns the number of moves accumulated so far.
func (l *MoveList) Len() int { return l.n }

// GeneratePseudoLegal appends every pseudo-legal move (quiet, capture,
// castle, promotion) to l, in Pawns/Knights/Bishops/Rooks/Queens/King/
// Castles order.
func (pos *Board) GeneratePseudoLegal(l *MoveList) {
	pos.genPawnMoves(l, true)
	pos.genPieceMoves(Knight, l)
	pos.genPieceMoves(Bishop, l)
	pos.genPieceMoves(Rook, l)
	pos.genPieceMoves(Queen, l)
	pos.genKingMoves(l)
	pos.genCastles(l)
}

// GeneratePseudoLegalCaptures appends captures and non-quiet promotions
// only, for use by quiescence search.
func (pos *Board) GeneratePseudoLegalCaptures(l *MoveList) {
	pos.genPawnMoves(l, false)
	pos.genPieceCaptures(Knight, l)
	pos.genPieceCaptures(Bishop, l)
	pos.genPieceCaptures(Rook, l)
	pos.genPieceCaptures(Queen, l)
	pos.genKingCaptures(l)
}

// GenerateLegal runs the pseudo-legal generator then filters by legality.
func (pos *Board) GenerateLegal(l *MoveList) {
	var pl MoveList
	pos.GeneratePseudoLegal(&pl)
	for _, m := range pl.Moves() {
		if pos.IsMoveLegal(m) {
			l.add(m)
		}
	}
}

func (pos *Board) genPawnMoves(l *MoveList, includeQuiet bool) {
	us := pos.SideToMove
	them := us.Opposite()
	all := pos.occ[OccAll]
	ours := pos.PieceBB(us, Pawn)
	theirs := pos.occ[them]

	startRank, promoRank := BbRank2, BbRank7
	forward1, forward2 := 8, 16
	if us == Black {
		startRank, promoRank = BbRank7, BbRank2
		forward1, forward2 = -8, -16
	}

	// Single and double pushes (no promotion).
	if includeQuiet {
		pushers := ours &^ promoRank
		for bb := pushers; bb != 0; {
			from := bb.Pop()
			to := Square(int(from) + forward1)
			if all.Has(to) {
				continue
			}
			l.add(MakeMove(from, to, Quiet, Pawn, NoPiece, NoPiece))
			if startRank.Has(from) {
				to2 := Square(int(from) + forward2)
				if !all.Has(to2) {
					l.add(MakeMove(from, to2, DoublePush, Pawn, NoPiece, NoPiece))
				}
			}
		}
	}

	// Captures, including en passant (non-promotion only here).
	epBB := Bitboard(0)
	if pos.enPassantSq != NoSquare {
		epBB = pos.enPassantSq.Bitboard()
	}
	attackTargets := theirs | epBB

	for bb := ours &^ promoRank; bb != 0; {
		from := bb.Pop()
		atk := PawnAttack(us, from) & attackTargets
		for atk != 0 {
			to := atk.Pop()
			if to == pos.enPassantSq {
				l.add(MakeMove(from, to, EnPassant, Pawn, Pawn, NoPiece))
			} else {
				_, capt := pos.PieceAt(to)
				l.add(MakeMove(from, to, Capture, Pawn, capt, NoPiece))
			}
		}
	}

	// Promotions (push and capture).
	for bb := ours & promoRank; bb != 0; {
		from := bb.Pop()
		to := Square(int(from) + forward1)
		if includeQuiet && !all.Has(to) {
			addPromotions(l, from, to, NoPiece)
		}
		atk := PawnAttack(us, from) & theirs
		for atk != 0 {
			capSq := atk.Pop()
			_, capt := pos.PieceAt(capSq)
			addPromotions(l, from, capSq, capt)
		}
	}
}

func addPromotions(l *MoveList, from, to Square, capt Piece) {
	flag := Promotion
	for _, p := range [4]Piece{Queen, Rook, Bishop, Knight} {
		m := MakeMove(from, to, flag, Pawn, capt, NoPiece)
		m |= Move(p) << movePromoShift
		l.add(m)
	}
}

func (pos *Board) genPieceMoves(p Piece, l *MoveList) {
	us := pos.SideToMove
	all := pos.occ[OccAll]
	own := pos.occ[us]
	for bb := pos.PieceBB(us, p); bb != 0; {
		from := bb.Pop()
		targets := Attack(p, us, from, all) &^ own
		for targets != 0 {
			to := targets.Pop()
			if all.Has(to) {
				_, capt := pos.PieceAt(to)
				l.add(MakeMove(from, to, Capture, p, capt, NoPiece))
			} else {
				l.add(MakeMove(from, to, Quiet, p, NoPiece, NoPiece))
			}
		}
	}
}

func (pos *Board) genPieceCaptures(p Piece, l *MoveList) {
	us := pos.SideToMove
	all := pos.occ[OccAll]
	them := pos.occ[us.Opposite()]
	for bb := pos.PieceBB(us, p); bb != 0; {
		from := bb.Pop()
		targets := Attack(p, us, from, all) & them
		for targets != 0 {
			to := targets.Pop()
			_, capt := pos.PieceAt(to)
			l.add(MakeMove(from, to, Capture, p, capt, NoPiece))
		}
	}
}

func (pos *Board) genKingMoves(l *MoveList) {
	us := pos.SideToMove
	all := pos.occ[OccAll]
	own := pos.occ[us]
	from := pos.kingSq[us]
	targets := KingAttack(from) &^ own
	for targets != 0 {
		to := targets.Pop()
		if all.Has(to) {
			_, capt := pos.PieceAt(to)
			l.add(MakeMove(from, to, Capture, King, capt, NoPiece))
		} else {
			l.add(MakeMove(from, to, Quiet, King, NoPiece, NoPiece))
		}
	}
}

func (pos *Board) genKingCaptures(l *MoveList) {
	us := pos.SideToMove
	from := pos.kingSq[us]
	targets := KingAttack(from) & pos.occ[us.Opposite()]
	for targets != 0 {
		to := targets.Pop()
		_, capt := pos.PieceAt(to)
		l.add(MakeMove(from, to, Capture, King, capt, NoPiece))
	}
}

// genCastles emits castles only when rights remain, the intermediate
// squares are empty, and the king's start/pass/end squares are safe.
func (pos *Board) genCastles(l *MoveList) {
	us := pos.SideToMove
	them := us.Opposite()
	rank := kingHomeRank(us)
	oo, ooo := WhiteOO, WhiteOOO
	if us == Black {
		oo, ooo = BlackOO, BlackOOO
	}
	from := RankFile(rank, 4)

	if pos.castlingRights&oo != 0 {
		f, g := RankFile(rank, 5), RankFile(rank, 6)
		if pos.IsEmpty(f) && pos.IsEmpty(g) &&
			!pos.IsAttacked(from, them) && !pos.IsAttacked(f, them) && !pos.IsAttacked(g, them) {
			l.add(MakeMove(from, g, KingCastle, King, NoPiece, NoPiece))
		}
	}
	if pos.castlingRights&ooo != 0 {
		b, c, d := RankFile(rank, 1), RankFile(rank, 2), RankFile(rank, 3)
		if pos.IsEmpty(b) && pos.IsEmpty(c) && pos.IsEmpty(d) &&
			!pos.IsAttacked(from, them) && !pos.IsAttacked(d, them) && !pos.IsAttacked(c, them) {
			l.add(MakeMove(from, c, QueenCastle, King, NoPiece, NoPiece))
		}
	}
}

// IsMoveLegal reports whether playing m leaves the mover's own king
// attacked. King moves and en passant are checked by playing the move
// in a scratch copy of the relevant bitboards; all other moves fast-path
// via the pin-ray test, since a non-king move can only expose check by
// moving a piece off a ray the king would otherwise be shielded from.
func (pos *Board) IsMoveLegal(m Move) bool {
	us := pos.SideToMove
	them := us.Opposite()
	kingSq := pos.kingSq[us]

	if m.Piece() == King && !m.IsCastle() {
		occ := (pos.occ[OccAll] &^ m.From().Bitboard()) | m.To().Bitboard()
		exclude := NoSquare
		if m.Capture() != NoPiece {
			exclude = m.To()
		}
		return !pos.isAttackerPresent(m.To(), them, occ, exclude)
	}

	if m.Flag() == EnPassant {
		// En passant can expose the king along the capture rank even
		// without a direct pin on the moving pawn; always verify exactly.
		occ := pos.occ[OccAll]
		occ &^= m.From().Bitboard()
		occ &^= m.CaptureSquare().Bitboard()
		occ |= m.To().Bitboard()
		return !pos.isAttackerPresent(kingSq, them, occ, m.CaptureSquare())
	}

	if !pos.onPinRay(m.From(), us) {
		return true
	}

	occ := (pos.occ[OccAll] &^ m.From().Bitboard()) | m.To().Bitboard()
	exclude := NoSquare
	if m.Capture() != NoPiece {
		exclude = m.To()
	}
	return !pos.isAttackerPresent(kingSq, them, occ, exclude)
}

// onPinRay reports whether sq lies on a ray between the king of col and
// a potential sliding attacker, i.e. whether moving the piece at sq
// could possibly expose the king -- a cheap necessary condition checked
// before paying for the exact occupancy-based test.
func (pos *Board) onPinRay(sq Square, col Color) bool {
	kingSq := pos.kingSq[col]
	return SuperAttack(kingSq).Has(sq)
}

// isAttackerPresent reports whether any by-colored piece attacks sq
// given a caller-substituted occupancy bitboard (used to test legality
// without mutating the real board). exclude, if not NoSquare, is a
// square whose by-colored occupant is being captured by the move under
// test and so must not count as an attacker, even though its bit is
// still set in the real piece bitboards.
func (pos *Board) isAttackerPresent(sq Square, by Color, occ Bitboard, exclude Square) bool {
	excludeBB := ^Bitboard(0)
	if exclude != NoSquare {
		excludeBB = ^exclude.Bitboard()
	}
	var att Bitboard
	att |= PawnAttack(by.Opposite(), sq) & pos.PieceBB(by, Pawn) & excludeBB
	att |= KnightAttack(sq) & pos.PieceBB(by, Knight) & excludeBB
	att |= KingAttack(sq) & pos.PieceBB(by, King) & excludeBB
	bishopLike := (pos.PieceBB(by, Bishop) | pos.PieceBB(by, Queen)) & excludeBB
	att |= BishopAttack(sq, occ) & bishopLike
	rookLike := (pos.PieceBB(by, Rook) | pos.PieceBB(by, Queen)) & excludeBB
	att |= RookAttack(sq, occ) & rookLike
	return att != 0
}

// IsMovePseudoLegal reports whether m is consistent with the current
// position: the right piece sits on from, the destination is not
// occupied by a friendly piece, sliders have a clear path, and the
// move's special-case preconditions hold. Used to validate a
// transposition-table move recovered from a (possibly stale or
// colliding) hash entry before playing it.
func (pos *Board) IsMovePseudoLegal(m Move) bool {
	if m == NullMove {
		return false
	}
	us := pos.SideToMove
	from, to := m.From(), m.To()
	col, p := pos.PieceAt(from)
	if col != us || p != m.Piece() {
		return false
	}
	if pos.occ[us].Has(to) {
		return false
	}

	forward := 8
	if us == Black {
		forward = -8
	}

	switch m.Flag() {
	case EnPassant:
		if p != Pawn || to != pos.enPassantSq {
			return false
		}
	case DoublePush:
		if p != Pawn || int(to) != int(from)+2*forward {
			return false
		}
	case Quiet:
		if p == Pawn && int(to) != int(from)+forward {
			return false
		}
	case Capture:
		if p == Pawn && PawnAttack(us, from)&to.Bitboard() == 0 {
			return false
		}
	case KingCastle, QueenCastle:
		if p != King {
			return false
		}
		var tmp MoveList
		pos.genCastles(&tmp)
		found := false
		for _, cm := range tmp.Moves() {
			if cm == m {
				found = true
				break
			}
		}
		return found
	case Promotion:
		if p != Pawn {
			return false
		}
		onPush := int(to) == int(from)+forward && !pos.occ[OccAll].Has(to)
		onAttack := PawnAttack(us, from)&to.Bitboard() != 0
		if !onPush && !onAttack {
			return false
		}
	}

	targetCol, targetPiece := pos.PieceAt(to)
	switch {
	case m.Flag() == EnPassant:
		// capture square differs from to; checked separately below.
	case targetPiece == NoPiece:
		if m.Capture() != NoPiece {
			return false
		}
	default:
		if targetCol == us || m.Capture() != targetPiece {
			return false
		}
	}

	if m.Flag() == EnPassant {
		capCol, capPiece := pos.PieceAt(m.CaptureSquare())
		if capPiece != Pawn || capCol == us {
			return false
		}
	}

	// Pawn destinations were already validated via the EnPassant/Promotion/
	// DoublePush flag checks and the attack-table-free forward-push case;
	// castle destinations were validated against genCastles above. Every
	// other piece must reach `to` through its attack table given the
	// current occupancy.
	if p != Pawn && !m.IsCastle() {
		all := pos.occ[OccAll]
		if Attack(p, us, from, all)&to.Bitboard() == 0 {
			return false
		}
	}

	return true
}

// MoveFromUCI parses a UCI long algebraic move string ("e2e4",
// "e7e8q") against pos's legal moves, returning the matching packed
// Move. Parsing against the legal move list, rather than reconstructing
// flags from the string directly, means a malformed or illegal UCI
// string is rejected outright instead of producing a Move that plays
// incorrectly.
func MoveFromUCI(pos *Board, s string) (Move, error) {
	if len(s) < 4 {
		return NullMove, moveParseError(s)
	}
	from, err := SquareFromString(s[0:2])
	if err != nil {
		return NullMove, moveParseError(s)
	}
	to, err := SquareFromString(s[2:4])
	if err != nil {
		return NullMove, moveParseError(s)
	}
	var promo Piece
	if len(s) >= 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NullMove, moveParseError(s)
		}
	}

	var list MoveList
	pos.GenerateLegal(&list)
	for _, m := range list.Moves() {
		if m.From() != from || m.To() != to {
			continue
		}
		if m.Flag() == Promotion && m.Promotion() != promo {
			continue
		}
		return m, nil
	}
	return NullMove, moveParseError(s)
}

func moveParseError(s string) error {
	return fmt.Errorf("engine: %q is not a legal UCI move", s)
}
