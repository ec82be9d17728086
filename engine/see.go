// see.go implements static exchange evaluation: the net material result
// of playing out every attacker and defender of a square, least-valuable
// attacker first, until one side stops capturing.
//
// Grounded on the teacher's engine/see.go "swap algorithm": a capture on
// sq is scored by simulating the full capture sequence into a gain
// array, then folding that array back to front so each side only
// continues the exchange when doing so improves its result. This
// version walks attackers via Board.AttackersTo (x-ray aware through a
// shrinking occupancy bitboard) instead of the teacher's per-figure
// mobility calls, since this repo's attack tables are already unified
// behind Attack/AttackersTo.
package engine

// seeValue gives each piece a fixed value for exchange evaluation,
// independent of the tuned mid/end-game material in eval.go: SEE only
// needs a stable ordering of piece worth, not a positionally accurate
// score.
var seeValue = [PieceArraySize]int32{
	NoPiece: 0,
	Pawn:    100,
	Knight:  325,
	Bishop:  325,
	Rook:    500,
	Queen:   975,
	King:    20000,
}

// SeeSign reports whether SEE(m) is negative, without paying for the
// full exchange walk when the answer is obvious: capturing a piece
// worth at least as much as the mover can never lose material even if
// the mover is then recaptured for free.
func (pos *Board) SeeSign(m Move) bool {
	if m.Capture() == NoPiece {
		return false
	}
	if seeValue[m.Piece()] <= seeValue[m.Capture()] {
		return false
	}
	return pos.SEE(m) < 0
}

// SEE returns the static exchange evaluation of playing m: the net
// material gained by the side to move after every legal recapture on
// m.To() has been played out in least-valuable-attacker order.
func (pos *Board) SEE(m Move) int32 {
	sq := m.To()
	us := pos.SideToMove
	them := us.Opposite()

	occ := pos.occ[OccAll]
	occ &^= m.From().Bitboard()
	if m.Flag() == EnPassant {
		occ &^= m.CaptureSquare().Bitboard()
	}
	occ |= sq.Bitboard()

	gain := make([]int32, 1, 32)
	gain[0] = seeValue[m.Capture()]
	if m.Flag() == Promotion {
		gain[0] += seeValue[m.Promotion()] - seeValue[Pawn]
	}

	sideToCapture := them
	occupied := [ColorArraySize]Bitboard{White: pos.occ[White], Black: pos.occ[Black]}
	occupied[us] &^= m.From().Bitboard()
	occupied[us] |= sq.Bitboard()
	if m.Flag() == EnPassant {
		occupied[them] &^= m.CaptureSquare().Bitboard()
	}

	lastAttacker := m.Piece()
	if m.Flag() == Promotion {
		lastAttacker = m.Promotion()
	}

	for {
		att := pos.attackersOfColor(sq, occ, sideToCapture) & occupied[sideToCapture]
		if att == 0 {
			break
		}
		fromSq, fromPiece := pos.leastValuableAttacker(att, sideToCapture)

		gain = append(gain, seeValue[lastAttacker]-gain[len(gain)-1])

		occ &^= fromSq.Bitboard()
		occupied[sideToCapture] &^= fromSq.Bitboard()
		lastAttacker = fromPiece
		sideToCapture = sideToCapture.Opposite()
	}

	for i := len(gain) - 2; i >= 0; i-- {
		if -gain[i+1] < gain[i] {
			gain[i] = -gain[i+1]
		}
	}
	return gain[0]
}

// leastValuableAttacker returns the square and piece type of the
// cheapest attacker of color by within att.
func (pos *Board) leastValuableAttacker(att Bitboard, by Color) (Square, Piece) {
	for p := Pawn; p <= King; p++ {
		bb := att & pos.PieceBB(by, p)
		if bb != 0 {
			return bb.AsSquare(), p
		}
	}
	panic("leastValuableAttacker: att has no pieces of color by")
}
