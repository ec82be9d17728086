// diag.go abstracts the engine's diagnostic output from its UCI
// protocol output: `info`/`bestmove` lines always go to stdout via
// plain fmt.Fprintf (see manager.go), exactly like the teacher's
// uciLogger; debug consistency-check failures go through a Sink, backed
// by github.com/op/go-logging per SPEC_FULL.md §10. The search itself
// writes no trace to a Sink, whatever Options.AnalyseMode says. This
// replaces the teacher's bare log.Println calls, which the teacher can
// get away with because it has no dependency surface at all.
package engine

import "github.com/op/go-logging"

var log = logging.MustGetLogger("engine")

// Sink is the diagnostic output surface: debug assertions, verbose
// search traces, and startup resource errors all go through it instead
// of directly to the UCI output stream.
type Sink interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// loggingSink backs Sink with github.com/op/go-logging.
type loggingSink struct {
	logger *logging.Logger
}

// NewLoggingSink returns a Sink backed by the package-wide go-logging
// logger.
func NewLoggingSink() Sink {
	return &loggingSink{logger: log}
}

func (s *loggingSink) Debugf(format string, args ...interface{}) { s.logger.Debugf(format, args...) }
func (s *loggingSink) Infof(format string, args ...interface{})  { s.logger.Infof(format, args...) }
func (s *loggingSink) Errorf(format string, args ...interface{}) { s.logger.Errorf(format, args...) }

// nullSink discards everything; used when no diagnostic sink is wired.
type nullSink struct{}

// NewNullSink returns a Sink that discards every message.
func NewNullSink() Sink { return nullSink{} }

func (nullSink) Debugf(string, ...interface{}) {}
func (nullSink) Infof(string, ...interface{})  {}
func (nullSink) Errorf(string, ...interface{}) {}

// VerifyConsistency re-derives the Zobrist key, mailbox agreement, and
// single-king invariant from scratch and reports any mismatch to sink.
// Per spec.md §7, a failure here is fatal in debug builds (the caller
// decides whether to panic) and should never be reachable outside one.
func (pos *Board) VerifyConsistency(sink Sink) bool {
	ok := true
	if want := pos.recomputeZobrist(); want != pos.zobristKey {
		sink.Errorf("zobrist mismatch: have %x want %x", pos.zobristKey, want)
		ok = false
	}
	if pos.PieceBB(White, King).Popcnt() != 1 {
		sink.Errorf("white king count != 1")
		ok = false
	}
	if pos.PieceBB(Black, King).Popcnt() != 1 {
		sink.Errorf("black king count != 1")
		ok = false
	}
	for sq := Square(0); sq < SquareArraySize; sq++ {
		col, p := pos.PieceAt(sq)
		for c := White; c <= Black; c++ {
			for pc := PieceMinValue; pc <= PieceMaxValue; pc++ {
				has := pos.PieceBB(c, pc).Has(sq)
				should := col == c && p == pc
				if has != should {
					sink.Errorf("mailbox/bitboard mismatch at %v for %v %v", sq, c, pc)
					ok = false
				}
			}
		}
	}
	return ok
}
