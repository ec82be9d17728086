package engine

// MoveFlag classifies a move as specified by the move encoding: quiet,
// double pawn push, castling, en passant, capture, or promotion.
type MoveFlag uint8

const (
	Quiet MoveFlag = iota
	DoublePush
	KingCastle
	QueenCastle
	EnPassant
	Capture
	Promotion
)

// Move is a packed 32-bit move: from(6) | to(6) | flag(4) | piece(4) |
// capture(3) | promotion(4). Move(0) is NullMove -- from=to=a1, flag=Quiet,
// piece=NoPiece, which never occurs for a legal move since a piece always
// moves away from its own square.
type Move uint32

const (
	NullMove Move = 0

	moveFromShift  = 0
	moveToShift    = 6
	moveFlagShift  = 12
	movePieceShift = 16
	moveCaptShift  = 20
	movePromoShift = 23

	moveFromMask  = 0x3F
	moveToMask    = 0x3F
	moveFlagMask  = 0xF
	movePieceMask = 0xF
	moveCaptMask  = 0x7
	movePromoMask = 0xF
)

// MakeMove packs a move. capture is NoPiece unless the move takes a
// piece: flag Capture, EnPassant (where it is always Pawn), or a
// capturing Promotion; promotion is meaningful only when flag is
// Promotion.
func MakeMove(from, to Square, flag MoveFlag, piece, capture, promotion Piece) Move {
	return Move(uint32(from)<<moveFromShift |
		uint32(to)<<moveToShift |
		uint32(flag)<<moveFlagShift |
		uint32(piece)<<movePieceShift |
		uint32(capture)<<moveCaptShift |
		uint32(promotion)<<movePromoShift)
}

func (m Move) From() Square    { return Square(uint32(m) >> moveFromShift & moveFromMask) }
func (m Move) To() Square      { return Square(uint32(m) >> moveToShift & moveToMask) }
func (m Move) Flag() MoveFlag  { return MoveFlag(uint32(m) >> moveFlagShift & moveFlagMask) }
func (m Move) Piece() Piece    { return Piece(uint32(m) >> movePieceShift & movePieceMask) }
func (m Move) Capture() Piece  { return Piece(uint32(m) >> moveCaptShift & moveCaptMask) }
func (m Move) Promotion() Piece {
	if m.Flag() != Promotion {
		return NoPiece
	}
	return Piece(uint32(m) >> movePromoShift & movePromoMask)
}

// IsCastle reports whether m is a king- or queen-side castle.
func (m Move) IsCastle() bool {
	return m.Flag() == KingCastle || m.Flag() == QueenCastle
}

// IsQuiet reports whether m is a non-capturing, non-promoting move.
func (m Move) IsQuiet() bool {
	return m.Flag() != Capture && m.Flag() != EnPassant && m.Flag() != Promotion
}

// IsViolent reports whether m is a capture or a promotion -- a move that
// can change the static evaluation significantly.
func (m Move) IsViolent() bool {
	return m.Flag() == Capture || m.Flag() == EnPassant || m.Flag() == Promotion
}

// CaptureSquare returns the square of the captured piece. For en passant
// this is not m.To(): it is the square the captured pawn actually sits on.
func (m Move) CaptureSquare() Square {
	if m.Flag() == EnPassant {
		return RankFile(m.From().Rank(), m.To().File())
	}
	return m.To()
}

// UCI renders the move in UCI long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) UCI() string {
	s := m.From().String() + m.To().String()
	if promo := m.Promotion(); promo != NoPiece {
		s += string(promo.String()[0] + 32) // lowercase letter
	}
	return s
}

func (m Move) String() string { return m.UCI() }
