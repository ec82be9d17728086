// Package notation implements the chess engine's human-readable
// surfaces: Standard Algebraic Notation (SAN) move formatting/parsing
// and EPD position records. Neither is used on the UCI wire (spec.md
// §6 keeps that long algebraic only); both exist for test suites and
// tooling built against the engine package.
//
// Grounded on the teacher's notation package for the EPD record shape
// and on treepeck-chego's san.go for SAN's disambiguation rules, since
// the teacher formats SAN through a yacc-generated parser this repo
// does not carry forward (see DESIGN.md).
package notation

import (
	"fmt"
	"strings"

	"github.com/corvidchess/corvid/engine"
)

// FormatSAN renders m, played from pos, in Standard Algebraic Notation.
// pos must be the position before m is played; legal is pos's legal
// move list, used to resolve disambiguation. isCheck/isMate describe
// the position after m has been played.
func FormatSAN(pos *engine.Board, m engine.Move, legal []engine.Move, isCheck, isMate bool) string {
	if m.Flag() == engine.KingCastle {
		return appendCheck("O-O", isCheck, isMate)
	}
	if m.Flag() == engine.QueenCastle {
		return appendCheck("O-O-O", isCheck, isMate)
	}

	var b strings.Builder
	piece := m.Piece()
	if piece != engine.Pawn {
		b.WriteString(pieceLetter(piece))
		b.WriteString(disambiguate(pos, m, legal))
	}

	isCapture := m.Flag() == engine.Capture || m.Flag() == engine.EnPassant
	if isCapture {
		if piece == engine.Pawn {
			b.WriteByte("abcdefgh"[m.From().File()])
		}
		b.WriteByte('x')
	}
	b.WriteString(m.To().String())

	if promo := m.Promotion(); promo != engine.NoPiece {
		b.WriteByte('=')
		b.WriteString(pieceLetter(promo))
	}

	return appendCheck(b.String(), isCheck, isMate)
}

func appendCheck(s string, isCheck, isMate bool) string {
	if isMate {
		return s + "#"
	}
	if isCheck {
		return s + "+"
	}
	return s
}

func pieceLetter(p engine.Piece) string {
	switch p {
	case engine.Knight:
		return "N"
	case engine.Bishop:
		return "B"
	case engine.Rook:
		return "R"
	case engine.Queen:
		return "Q"
	case engine.King:
		return "K"
	default:
		return ""
	}
}

// disambiguate returns the file, rank, or full-square prefix needed to
// tell m apart from every other legal move by the same piece type to
// the same destination, or "" if m is already unambiguous.
func disambiguate(pos *engine.Board, m engine.Move, legal []engine.Move) string {
	sameFile, sameRank, ambiguous := false, false, false
	for _, other := range legal {
		if other == m || other.Piece() != m.Piece() || other.To() != m.To() {
			continue
		}
		ambiguous = true
		if other.From().File() == m.From().File() {
			sameFile = true
		}
		if other.From().Rank() == m.From().Rank() {
			sameRank = true
		}
	}
	if !ambiguous {
		return ""
	}
	switch {
	case !sameFile:
		return string("abcdefgh"[m.From().File()])
	case !sameRank:
		return string("12345678"[m.From().Rank()])
	default:
		return m.From().String()
	}
}

// ParseSAN finds the legal move in legal whose SAN rendering (ignoring
// the trailing check/mate marker) matches san, per the same scheme
// FormatSAN uses, without the caller needing to know check status.
func ParseSAN(pos *engine.Board, san string, legal []engine.Move) (engine.Move, error) {
	san = strings.TrimRight(san, "+#")
	for _, m := range legal {
		rendered := FormatSAN(pos, m, legal, false, false)
		rendered = strings.TrimRight(rendered, "+#")
		if rendered == san {
			return m, nil
		}
	}
	return engine.NullMove, fmt.Errorf("notation: no legal move matches SAN %q", san)
}
