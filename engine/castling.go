package engine

// CastlingMask holds, per square, the castling rights that survive a
// move touching that square. A move's effect on rights is
// `rights & CastlingMask[from] & CastlingMask[to]`: moving the king away
// from its home square, or a rook away from (or a capture landing on) a
// corner, clears exactly the bits tied to that square.
//
// Grounded on the teacher's position.go `lostCastleRights` table, which
// computes the same fact subtractively; this version follows the
// AND-mask form the expanded spec calls for instead.
var CastlingMask [SquareArraySize]Castle

func init() {
	for sq := Square(0); sq < SquareArraySize; sq++ {
		CastlingMask[sq] = AnyCastle
	}
	CastlingMask[SquareA1] &^= WhiteOOO
	CastlingMask[SquareE1] &^= WhiteOO | WhiteOOO
	CastlingMask[SquareH1] &^= WhiteOO
	CastlingMask[SquareA8] &^= BlackOOO
	CastlingMask[SquareE8] &^= BlackOO | BlackOOO
	CastlingMask[SquareH8] &^= BlackOO
}

// CastlingRook returns the rook's start/end squares for a castling move whose king lands on kingTo.
func CastlingRook(kingTo Square) (start, end Square) {
	switch kingTo {
	case SquareG1:
		return SquareH1, SquareF1
	case SquareC1:
		return SquareA1, SquareD1
	case SquareG8:
		return SquareH8, SquareF8
	case SquareC8:
		return SquareA8, SquareD8
	default:
		panic("not a castling destination")
	}
}

func kingHomeRank(col Color) int {
	if col == White {
		return 0
	}
	return 7
}
