// board.go implements Board (the Position): bitboards kept redundant
// with an explicit mailbox, a bounded undo-info history stack, make/
// unmake, FEN I/O, and the draw/legality predicates the rest of the
// engine consults.
//
// Grounded on the teacher's position.go for the overall shape (a state
// stack pushed/popped around each ply, Zobrist maintained incrementally
// through Put/Remove, castling rights derived from a per-square mask,
// FEN parsed field-by-field without allocating via strings.Fields).
// Diverges from the teacher by adding the explicit mailbox array and a
// bounded-capacity history slice, both required by the data model.
package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the standard initial position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const (
	OccWhite = 0
	OccBlack = 1
	OccAll   = 2

	historyCapacity = 256
)

func pieceBBIndex(c Color, p Piece) int {
	return int(c)*6 + int(p) - 1
}

// UndoInfo stores the pre-move values needed to reverse one ply without
// recomputing Zobrist from scratch.
type UndoInfo struct {
	Move             Move
	ZobristKey       uint64
	HalfmoveClock    int
	LastIrreversible int
	EnPassantSq      Square
	CastlingRights   Castle
	FullMoveNumber   int
}

// Board is the bitboard position, kept redundant with an explicit
// mailbox array for O(1) piece lookup.
type Board struct {
	pieceBB [12]Bitboard
	occ     [3]Bitboard
	mailbox [SquareArraySize]ColorPiece
	kingSq  [ColorArraySize]Square

	SideToMove     Color
	castlingRights Castle
	enPassantSq    Square
	halfmoveClock  int
	fullMoveNumber int
	zobristKey     uint64

	history             []UndoInfo
	lastIrreversibleIdx int

	Eval     EvalState
	pawnHash pawnHashTable
}

// NewBoard returns an empty board (no pieces placed), side to move White.
func NewBoard() *Board {
	pos := &Board{
		enPassantSq:    NoSquare,
		fullMoveNumber: 1,
		history:        make([]UndoInfo, 0, historyCapacity),
		Eval:           newEvalState(),
	}
	pos.kingSq[White] = NoSquare
	pos.kingSq[Black] = NoSquare
	return pos
}

// BoardFromFEN parses fen (6 space-separated fields) into a new Board.
func BoardFromFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return nil, fmt.Errorf("fen %q: expected 6 fields, got %d", fen, len(fields))
	}

	pos := NewBoard()
	if err := parsePiecePlacement(fields[0], pos); err != nil {
		return nil, err
	}
	if err := parseSideToMove(fields[1], pos); err != nil {
		return nil, err
	}
	if err := parseCastlingAbility(fields[2], pos); err != nil {
		return nil, err
	}
	if err := parseEnPassant(fields[3], pos); err != nil {
		return nil, err
	}
	hmc, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("fen %q: bad halfmove clock: %w", fen, err)
	}
	pos.halfmoveClock = hmc
	fmn, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, fmt.Errorf("fen %q: bad fullmove number: %w", fen, err)
	}
	pos.fullMoveNumber = fmn

	pos.zobristKey = pos.recomputeZobrist()
	return pos, nil
}

var pieceFromFENByte = map[byte]Piece{
	'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King,
}

func parsePiecePlacement(field string, pos *Board) error {
	rank, file := 7, 0
	for i := 0; i < len(field); i++ {
		c := field[i]
		switch {
		case c == '/':
			if file != 8 {
				return fmt.Errorf("piece placement %q: rank has %d files", field, file)
			}
			rank--
			file = 0
		case c >= '1' && c <= '8':
			file += int(c - '0')
		default:
			p, ok := pieceFromFENByte[toLowerByte(c)]
			if !ok {
				return fmt.Errorf("piece placement %q: bad piece byte %q", field, c)
			}
			col := Black
			if c == toUpperByte(c) {
				col = White
			}
			if rank < 0 || file > 7 {
				return fmt.Errorf("piece placement %q: out of range", field)
			}
			pos.Put(col, p, RankFile(rank, file))
			file++
		}
	}
	if rank != 0 || file != 8 {
		return fmt.Errorf("piece placement %q: incomplete board", field)
	}
	return nil
}

func toLowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 32
	}
	return c
}

func toUpperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 32
	}
	return c
}

func parseSideToMove(field string, pos *Board) error {
	switch field {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return fmt.Errorf("bad side to move %q", field)
	}
	return nil
}

func parseCastlingAbility(field string, pos *Board) error {
	pos.castlingRights = NoCastle
	if field == "-" {
		return nil
	}
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case 'K':
			pos.castlingRights |= WhiteOO
		case 'Q':
			pos.castlingRights |= WhiteOOO
		case 'k':
			pos.castlingRights |= BlackOO
		case 'q':
			pos.castlingRights |= BlackOOO
		default:
			return fmt.Errorf("bad castling field %q", field)
		}
	}
	return nil
}

func parseEnPassant(field string, pos *Board) error {
	if field == "-" {
		pos.enPassantSq = NoSquare
		return nil
	}
	sq, err := SquareFromString(field)
	if err != nil {
		return fmt.Errorf("bad en passant field %q: %w", field, err)
	}
	pos.enPassantSq = sq
	return nil
}

// String renders the board in FEN.
func (pos *Board) String() string {
	var b strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := RankFile(rank, file)
			cp := pos.mailbox[sq]
			if cp.Piece() == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			b.WriteString(cp.String())
		}
		if empty > 0 {
			b.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			b.WriteByte('/')
		}
	}
	b.WriteByte(' ')
	if pos.SideToMove == White {
		b.WriteByte('w')
	} else {
		b.WriteByte('b')
	}
	b.WriteByte(' ')
	b.WriteString(pos.castlingRights.String())
	b.WriteByte(' ')
	if pos.enPassantSq == NoSquare {
		b.WriteByte('-')
	} else {
		b.WriteString(pos.enPassantSq.String())
	}
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(pos.halfmoveClock))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(pos.fullMoveNumber))
	return b.String()
}

// PieceBB returns the bitboard of pieces of type p and color c.
func (pos *Board) PieceBB(c Color, p Piece) Bitboard {
	return pos.pieceBB[pieceBBIndex(c, p)]
}

// Occ returns the occupancy bitboard for White, Black, or (OccAll) both.
func (pos *Board) Occ(which int) Bitboard { return pos.occ[which] }

// KingSq returns the cached king square for color c.
func (pos *Board) KingSq(c Color) Square { return pos.kingSq[c] }

// CastlingRights returns the remaining castling rights.
func (pos *Board) CastlingRights() Castle { return pos.castlingRights }

// EnPassantSquare returns the current en passant target, or NoSquare.
func (pos *Board) EnPassantSquare() Square { return pos.enPassantSq }

// HalfmoveClock returns the current 50-move-rule counter.
func (pos *Board) HalfmoveClock() int { return pos.halfmoveClock }

// Zobrist returns the current position key.
func (pos *Board) Zobrist() uint64 { return pos.zobristKey }

// PieceAt returns the color and piece occupying sq (NoColor/NoPiece if empty).
func (pos *Board) PieceAt(sq Square) (Color, Piece) {
	cp := pos.mailbox[sq]
	return cp.Color(), cp.Piece()
}

// IsEmpty reports whether sq has no piece.
func (pos *Board) IsEmpty(sq Square) bool {
	return pos.mailbox[sq] == EmptySquare
}

// Put places piece p of color c on sq, updating bitboards, mailbox,
// occupancy, Zobrist, and the incremental evaluator together. Undefined
// if sq is already occupied.
func (pos *Board) Put(c Color, p Piece, sq Square) {
	bb := sq.Bitboard()
	pos.pieceBB[pieceBBIndex(c, p)] |= bb
	pos.occ[c] |= bb
	pos.occ[OccAll] |= bb
	pos.mailbox[sq] = MakeColorPiece(c, p)
	pos.zobristKey ^= zobristForPiece(c, p, sq)
	pos.Eval.AddPiece(c, p, sq)
	if p == King {
		pos.kingSq[c] = sq
	}
}

// Remove takes piece p of color c off sq.
func (pos *Board) Remove(c Color, p Piece, sq Square) {
	bb := ^sq.Bitboard()
	pos.pieceBB[pieceBBIndex(c, p)] &= bb
	pos.occ[c] &= bb
	pos.occ[OccAll] &= bb
	pos.mailbox[sq] = EmptySquare
	pos.zobristKey ^= zobristForPiece(c, p, sq)
	pos.Eval.RemovePiece(c, p, sq)
}

// recomputeZobrist rebuilds the Zobrist key from scratch; used by FEN
// parsing and by the consistency assertion in VerifyConsistency.
func (pos *Board) recomputeZobrist() uint64 {
	var key uint64
	for sq := Square(0); sq < SquareArraySize; sq++ {
		c, p := pos.PieceAt(sq)
		if p != NoPiece {
			key ^= zobristForPiece(c, p, sq)
		}
	}
	key ^= zobristCastle[pos.castlingRights]
	if pos.enPassantSq != NoSquare {
		key ^= zobristEnPassantFile[pos.enPassantSq.File()]
	}
	if pos.SideToMove == Black {
		key ^= zobristSide
	}
	return key
}

// Play executes m, which must be legal, updating all board state.
func (pos *Board) Play(m Move) {
	undo := UndoInfo{
		Move:             m,
		ZobristKey:       pos.zobristKey,
		HalfmoveClock:    pos.halfmoveClock,
		LastIrreversible: pos.lastIrreversible(),
		EnPassantSq:      pos.enPassantSq,
		CastlingRights:   pos.castlingRights,
		FullMoveNumber:   pos.fullMoveNumber,
	}
	pos.history = append(pos.history, undo)

	us := pos.SideToMove
	them := us.Opposite()
	pi := m.Piece()
	capt := m.Capture()
	from, to := m.From(), m.To()

	if capt != NoPiece || pi == Pawn {
		pos.setLastIrreversible(len(pos.history) - 1)
		pos.halfmoveClock = 0
	} else {
		pos.halfmoveClock++
	}

	pos.zobristKey ^= zobristCastle[pos.castlingRights]
	if pos.enPassantSq != NoSquare {
		pos.zobristKey ^= zobristEnPassantFile[pos.enPassantSq.File()]
	}

	pos.Remove(us, pi, from)
	if capt != NoPiece {
		pos.Remove(them, capt, m.CaptureSquare())
	}

	placed := pi
	if m.Flag() == Promotion {
		placed = m.Promotion()
	}
	pos.Put(us, placed, to)

	pos.enPassantSq = NoSquare
	switch m.Flag() {
	case DoublePush:
		pos.enPassantSq = Square((int(from) + int(to)) / 2)
	case KingCastle, QueenCastle:
		rookFrom, rookTo := CastlingRook(to)
		pos.Remove(us, Rook, rookFrom)
		pos.Put(us, Rook, rookTo)
	}

	pos.castlingRights &= CastlingMask[from] & CastlingMask[to]

	pos.zobristKey ^= zobristCastle[pos.castlingRights]
	if pos.enPassantSq != NoSquare {
		pos.zobristKey ^= zobristEnPassantFile[pos.enPassantSq.File()]
	}
	pos.zobristKey ^= zobristSide
	pos.SideToMove = them
	if us == Black {
		pos.fullMoveNumber++
	}
}

// Unplay reverses the last move played, which must be m.
func (pos *Board) Unplay(m Move) {
	n := len(pos.history) - 1
	undo := pos.history[n]
	pos.history = pos.history[:n]

	them := pos.SideToMove
	us := them.Opposite()
	pi := m.Piece()
	from, to := m.From(), m.To()

	if m.IsCastle() {
		rookFrom, rookTo := CastlingRook(to)
		pos.Remove(us, Rook, rookTo)
		pos.Put(us, Rook, rookFrom)
	}

	placed := pi
	if m.Flag() == Promotion {
		placed = m.Promotion()
	}
	pos.Remove(us, placed, to)

	if m.Capture() != NoPiece {
		pos.Put(them, m.Capture(), m.CaptureSquare())
	}

	pos.Put(us, pi, from)

	pos.zobristKey = undo.ZobristKey
	pos.halfmoveClock = undo.HalfmoveClock
	pos.lastIrreversibleIdx = undo.LastIrreversible
	pos.enPassantSq = undo.EnPassantSq
	pos.castlingRights = undo.CastlingRights
	pos.fullMoveNumber = undo.FullMoveNumber
	pos.SideToMove = us
}

// lastIrreversible/setLastIrreversible track the history index of the
// last capture or pawn move, anchoring repetition search and stored
// separately from UndoInfo since it is itself part of state, not a
// snapshot of a single ply.
func (pos *Board) lastIrreversible() int {
	return pos.lastIrreversibleIdx
}

func (pos *Board) setLastIrreversible(idx int) {
	pos.lastIrreversibleIdx = idx
}

// PlayNull plays a null move: flips side to move and clears en passant,
// used only by null-move pruning. UndoNull reverses it.
func (pos *Board) PlayNull() UndoInfo {
	undo := UndoInfo{
		ZobristKey:  pos.zobristKey,
		EnPassantSq: pos.enPassantSq,
	}
	pos.zobristKey ^= zobristSide
	if pos.enPassantSq != NoSquare {
		pos.zobristKey ^= zobristEnPassantFile[pos.enPassantSq.File()]
		pos.enPassantSq = NoSquare
	}
	pos.SideToMove = pos.SideToMove.Opposite()
	return undo
}

func (pos *Board) UndoNull(undo UndoInfo) {
	pos.SideToMove = pos.SideToMove.Opposite()
	pos.enPassantSq = undo.EnPassantSq
	pos.zobristKey = undo.ZobristKey
}

// IsChecked reports whether side's king is attacked.
func (pos *Board) IsChecked(side Color) bool {
	return pos.IsAttacked(pos.kingSq[side], side.Opposite())
}

// IsAttacked reports whether any piece of color by attacks sq.
func (pos *Board) IsAttacked(sq Square, by Color) bool {
	return pos.attackersOfColor(sq, pos.occ[OccAll], by) != 0
}

// attackersOfColor returns the bitboard of by-colored pieces attacking
// sq given occupancy occ. This is the general x-ray-aware primitive
// used by the legality filter and by SEE.
func (pos *Board) attackersOfColor(sq Square, occ Bitboard, by Color) Bitboard {
	var att Bitboard
	att |= PawnAttack(by.Opposite(), sq) & pos.PieceBB(by, Pawn)
	att |= KnightAttack(sq) & pos.PieceBB(by, Knight)
	att |= KingAttack(sq) & pos.PieceBB(by, King)

	// Cheap reject: no sliding attacker on an empty board means none
	// can exist with blockers added either.
	if pos.occ[by]&SuperAttack(sq) == 0 {
		return att
	}

	bishopLike := pos.PieceBB(by, Bishop) | pos.PieceBB(by, Queen)
	att |= BishopAttack(sq, occ) & bishopLike
	rookLike := pos.PieceBB(by, Rook) | pos.PieceBB(by, Queen)
	att |= RookAttack(sq, occ) & rookLike
	return att
}

// AttackersTo returns all pieces (either color) attacking sq given a
// caller-supplied occupancy, for use while walking a SEE swap list.
func (pos *Board) AttackersTo(sq Square, occ Bitboard) Bitboard {
	return pos.attackersOfColor(sq, occ, White) | pos.attackersOfColor(sq, occ, Black)
}

// FiftyMoveRule reports whether the 50-move (100 half-move) rule applies.
func (pos *Board) FiftyMoveRule() bool {
	return pos.halfmoveClock >= 100
}

// InsufficientMaterial reports whether neither side has enough material
// to deliver mate (K vs K, K+N vs K, K+B vs K, or K+B vs K+B with
// same-colored bishops).
func (pos *Board) InsufficientMaterial() bool {
	if pos.PieceBB(White, Pawn)|pos.PieceBB(Black, Pawn) != 0 {
		return false
	}
	if pos.PieceBB(White, Rook)|pos.PieceBB(Black, Rook)|pos.PieceBB(White, Queen)|pos.PieceBB(Black, Queen) != 0 {
		return false
	}
	wMinors := pos.PieceBB(White, Knight).Popcnt() + pos.PieceBB(White, Bishop).Popcnt()
	bMinors := pos.PieceBB(Black, Knight).Popcnt() + pos.PieceBB(Black, Bishop).Popcnt()
	if wMinors == 0 && bMinors == 0 {
		return true
	}
	if wMinors+bMinors == 1 {
		return true
	}
	if wMinors == 1 && bMinors == 1 &&
		pos.PieceBB(White, Bishop) != 0 && pos.PieceBB(Black, Bishop) != 0 {
		wSq := pos.PieceBB(White, Bishop).AsSquare()
		bSq := pos.PieceBB(Black, Bishop).AsSquare()
		return squareColor(wSq) == squareColor(bSq)
	}
	return false
}

func squareColor(sq Square) int {
	return (sq.Rank() + sq.File()) & 1
}

// Repetitions counts how many times the current Zobrist key has
// occurred since the last irreversible move, including the current
// occurrence.
func (pos *Board) Repetitions() int {
	count := 1
	key := pos.zobristKey
	limit := pos.lastIrreversible()
	for i := len(pos.history) - 2; i >= limit && i >= 0; i -= 2 {
		if pos.history[i].ZobristKey == key {
			count++
		}
	}
	return count
}

// IsThreeFoldRepetition reports whether the current position has
// occurred three times; spec.md deliberately keeps two-fold detection
// for search hygiene (see IsTwoFoldRepetition), so this predicate is
// offered only as a strict, independently testable supplement.
func (pos *Board) IsThreeFoldRepetition() bool {
	return pos.Repetitions() >= 3
}

// IsTwoFoldRepetition reports whether the current position has occurred
// at least twice since the last irreversible move -- used inside search
// to detect and avoid repetition cycles a ply or more from the root.
func (pos *Board) IsTwoFoldRepetition() bool {
	return pos.Repetitions() >= 2
}

// Clone returns a deep copy of pos, including its history stack, for
// handing an independent board to a search worker.
func (pos *Board) Clone() *Board {
	cp := *pos
	cp.history = make([]UndoInfo, len(pos.history), historyCapacity)
	copy(cp.history, pos.history)
	return &cp
}
