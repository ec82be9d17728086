// options.go implements the plain value setters spec.md §1 and §6
// require as the core's configuration surface: hash size, thread
// count, and the handful of boolean toggles `setoption` exposes. The
// UCI text protocol that parses `setoption name ... value ...` lines
// lives outside the core (cmd/corvid); this file is what it calls.
package engine

import "fmt"

const (
	MinHashMB = 1
	MaxHashMB = 2048
	MinThreads = 1
	MaxThreads = 128

	DefaultHashMB  = 16
	DefaultThreads = 1
)

// Options holds every plain-setter engine option. Zero value is not
// valid; use NewOptions.
type Options struct {
	HashMB      int
	Threads     int
	Ponder      bool
	AnalyseMode bool // set from UCI_AnalyseMode; the search does not read it
	Contempt    int32

	// AspirationDelta and NullMoveBaseR have no UCI setoption path (spec.md
	// §6 names only Hash/Threads/Ponder); they are reachable only through
	// Config.ApplyTo, per SPEC_FULL.md §11's [search] tuning table.
	AspirationDelta int32
	NullMoveBaseR   int
}

// NewOptions returns the default option set.
func NewOptions() Options {
	return Options{
		HashMB:          DefaultHashMB,
		Threads:         DefaultThreads,
		AspirationDelta: initialAspirationWindow,
		NullMoveBaseR:   nullMoveBaseReduction,
	}
}

// SetHash sets the transposition table size in MiB, clamped to
// [MinHashMB, MaxHashMB].
func (o *Options) SetHash(mb int) error {
	if mb < MinHashMB || mb > MaxHashMB {
		return fmt.Errorf("Hash must be in [%d, %d], got %d", MinHashMB, MaxHashMB, mb)
	}
	o.HashMB = mb
	return nil
}

// SetThreads sets the worker thread count, clamped to [MinThreads, MaxThreads].
func (o *Options) SetThreads(n int) error {
	if n < MinThreads || n > MaxThreads {
		return fmt.Errorf("Threads must be in [%d, %d], got %d", MinThreads, MaxThreads, n)
	}
	o.Threads = n
	return nil
}

// SetPonder toggles pondering.
func (o *Options) SetPonder(v bool) { o.Ponder = v }

// SetAnalyseMode records the UCI_AnalyseMode flag; no search behaviour
// depends on it.
func (o *Options) SetAnalyseMode(v bool) { o.AnalyseMode = v }

// SetContempt sets the draw-score adjustment (centipawns, from the
// side-to-move's perspective) applied to repetition/fifty-move scores.
func (o *Options) SetContempt(c int32) { o.Contempt = c }
