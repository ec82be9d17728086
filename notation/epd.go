package notation

import (
	"fmt"
	"strings"

	"github.com/corvidchess/corvid/engine"
)

// EPD is one Extended Position Description record: a FEN-shaped board
// plus opcode/operand annotations, the most common of which (bm, id,
// c0) are pulled into dedicated fields.
//
// Grounded on the teacher's notation.EPD for the field shape (Position,
// Id, BestMove, Comment); the teacher parses this with a yacc-generated
// lexer/parser pair not carried forward here (see DESIGN.md) since an
// EPD record's grammar -- four FEN fields followed by semicolon-
// terminated "opcode operand..." pairs -- is simple enough to tokenize
// directly.
type EPD struct {
	Board    *engine.Board
	Id       string
	BestMove []string // SAN or UCI text, resolved against Board by the caller
	Comment  map[string]string
}

// ParseEPD parses one EPD record line: four FEN fields followed by any
// number of "opcode operand...;" clauses.
func ParseEPD(line string) (*EPD, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, fmt.Errorf("notation: EPD record has fewer than 4 FEN fields: %q", line)
	}
	fen := strings.Join(fields[:4], " ")
	board, err := engine.BoardFromFEN(fenWithDefaults(fen))
	if err != nil {
		return nil, fmt.Errorf("notation: EPD FEN fields: %w", err)
	}

	epd := &EPD{Board: board, Comment: make(map[string]string)}
	rest := strings.TrimSpace(strings.Join(fields[4:], " "))
	for _, clause := range splitClauses(rest) {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		opcode, operand, _ := strings.Cut(clause, " ")
		operand = strings.Trim(strings.TrimSpace(operand), "\"")
		switch opcode {
		case "bm":
			epd.BestMove = strings.Fields(operand)
		case "id":
			epd.Id = operand
		default:
			epd.Comment[opcode] = operand
		}
	}
	return epd, nil
}

// ParseFEN parses a bare FEN string (no EPD opcodes) into an EPD record
// whose Comment/BestMove/Id fields are left empty.
func ParseFEN(fen string) (*EPD, error) {
	board, err := engine.BoardFromFEN(fenWithDefaults(fen))
	if err != nil {
		return nil, err
	}
	return &EPD{Board: board, Comment: make(map[string]string)}, nil
}

// fenWithDefaults appends the halfmove/fullmove counters EPD records
// conventionally omit, since engine.BoardFromFEN expects all six fields.
func fenWithDefaults(fen string) string {
	if len(strings.Fields(fen)) >= 6 {
		return fen
	}
	return fen + " 0 1"
}

// splitClauses splits an EPD operand tail on semicolons that are not
// inside a quoted operand (only "c0"-style comment opcodes ever quote
// a semicolon).
func splitClauses(s string) []string {
	var clauses []string
	inQuotes := false
	start := 0
	for i, r := range s {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ';':
			if !inQuotes {
				clauses = append(clauses, s[start:i])
				start = i + 1
			}
		}
	}
	if start < len(s) {
		clauses = append(clauses, s[start:])
	}
	return clauses
}

// String renders the EPD record back to its textual form.
func (e *EPD) String() string {
	var b strings.Builder
	b.WriteString(e.Board.String())
	for _, bm := range e.BestMove {
		fmt.Fprintf(&b, " bm %s;", bm)
	}
	if e.Id != "" {
		fmt.Fprintf(&b, " id %q;", e.Id)
	}
	for k, v := range e.Comment {
		fmt.Fprintf(&b, " %s %q;", k, v)
	}
	return b.String()
}
