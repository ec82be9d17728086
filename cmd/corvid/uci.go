package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/corvidchess/corvid/engine"
)

var errQuit = errors.New("quit")

const engineName = "corvid"
const engineAuthor = "corvid contributors"

// uci dispatches UCI protocol lines against one engine.SearchManager
// and the board position built up by `position`/`go`. Grounded on the
// teacher's UCI struct and its Execute dispatcher (isready/quit/stop/
// uci/ponderhit handled regardless of search state, everything else
// routed only once idle), simplified because engine.SearchManager
// already blocks a search goroutine on its own context rather than the
// teacher's idle/ponder channel pair.
type uci struct {
	out     io.Writer
	board   *engine.Board
	opts    engine.Options
	manager *engine.SearchManager

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newUCI(out io.Writer, configPath string) *uci {
	opts := engine.NewOptions()
	if configPath != "" {
		if cfg, err := engine.LoadConfig(configPath); err == nil {
			cfg.ApplyTo(&opts)
		} else {
			fmt.Fprintf(out, "info string failed to load %s: %v\n", configPath, err)
		}
	}
	board, _ := engine.BoardFromFEN(engine.FENStartPos)
	return &uci{
		out:     out,
		board:   board,
		opts:    opts,
		manager: engine.NewSearchManager(opts, engine.NewUCILogger(out)),
	}
}

func (u *uci) execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "quit":
		u.stop()
		return errQuit
	case "isready":
		fmt.Fprintln(u.out, "readyok")
		return nil
	case "uci":
		return u.uciHandshake()
	case "stop":
		u.stop()
		return nil
	case "ponderhit":
		return nil
	case "ucinewgame":
		u.stop()
		u.manager.Clear()
		return nil
	case "position":
		return u.position(args)
	case "go":
		return u.goCmd(args)
	case "setoption":
		return u.setoption(args)
	default:
		return fmt.Errorf("unhandled command %q", cmd)
	}
}

func (u *uci) uciHandshake() error {
	fmt.Fprintf(u.out, "id name %s\n", engineName)
	fmt.Fprintf(u.out, "id author %s\n", engineAuthor)
	fmt.Fprintf(u.out, "option name Hash type spin default %d min %d max %d\n",
		engine.DefaultHashMB, engine.MinHashMB, engine.MaxHashMB)
	fmt.Fprintf(u.out, "option name Threads type spin default %d min %d max %d\n",
		engine.DefaultThreads, engine.MinThreads, engine.MaxThreads)
	fmt.Fprintln(u.out, "option name Ponder type check default false")
	fmt.Fprintln(u.out, "option name UCI_AnalyseMode type check default false")
	fmt.Fprintln(u.out, "option name Clear Hash type button")
	fmt.Fprintln(u.out, "uciok")
	return nil
}

func (u *uci) position(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("expected argument for 'position'")
	}

	i := 0
	var board *engine.Board
	var err error
	switch args[0] {
	case "startpos":
		board, err = engine.BoardFromFEN(engine.FENStartPos)
		i = 1
	case "fen":
		j := 1
		for j < len(args) && args[j] != "moves" {
			j++
		}
		board, err = engine.BoardFromFEN(strings.Join(args[1:j], " "))
		i = j
	default:
		return fmt.Errorf("unknown position argument %q", args[0])
	}
	if err != nil {
		return err
	}

	if i < len(args) {
		if args[i] != "moves" {
			return fmt.Errorf("expected 'moves', got %q", args[i])
		}
		for _, uciMove := range args[i+1:] {
			m, err := engine.MoveFromUCI(board, uciMove)
			if err != nil {
				return err
			}
			board.Play(m)
		}
	}

	u.board = board
	return nil
}

func (u *uci) goCmd(args []string) error {
	limits := engine.Limits{}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "ponder":
			limits.Ponder = true
		case "infinite":
			limits.Infinite = true
		case "wtime":
			i++
			limits.WTime = millis(args[i])
		case "btime":
			i++
			limits.BTime = millis(args[i])
		case "winc":
			i++
			limits.WInc = millis(args[i])
		case "binc":
			i++
			limits.BInc = millis(args[i])
		case "movetime":
			i++
			limits.MoveTime = millis(args[i])
		case "depth":
			i++
			d, _ := strconv.Atoi(args[i])
			limits.Depth = d
		case "movestogo", "nodes", "mate", "searchmoves":
			// Not modeled by engine.Limits; consumed and ignored like the
			// teacher ignores nodes/mate.
			for i+1 < len(args) && !isGoKeyword(args[i+1]) {
				i++
			}
		default:
			return fmt.Errorf("invalid go argument %q", args[i])
		}
	}

	root := u.board.Clone()
	ctx, cancel := context.WithCancel(context.Background())
	u.mu.Lock()
	u.cancel = cancel
	u.mu.Unlock()

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		defer cancel()
		best, ponder := u.manager.StartSearch(ctx, root, limits)
		if ponder != engine.NullMove {
			fmt.Fprintf(u.out, "bestmove %s ponder %s\n", best.UCI(), ponder.UCI())
		} else if best != engine.NullMove {
			fmt.Fprintf(u.out, "bestmove %s\n", best.UCI())
		} else {
			fmt.Fprintln(u.out, "bestmove 0000")
		}
	}()
	return nil
}

func isGoKeyword(s string) bool {
	switch s {
	case "searchmoves", "ponder", "wtime", "btime", "winc", "binc",
		"movestogo", "depth", "nodes", "mate", "movetime", "infinite":
		return true
	}
	return false
}

func millis(s string) time.Duration {
	n, _ := strconv.Atoi(s)
	return time.Duration(n) * time.Millisecond
}

func (u *uci) stop() {
	u.mu.Lock()
	cancel := u.cancel
	u.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	u.wg.Wait()
}

func (u *uci) setoption(args []string) error {
	line := strings.Join(args, " ")
	if !strings.HasPrefix(line, "name ") {
		return fmt.Errorf("invalid setoption arguments")
	}
	line = strings.TrimPrefix(line, "name ")
	name, value, hasValue := strings.Cut(line, " value ")
	name = strings.TrimSpace(name)

	if name == "Clear Hash" {
		u.manager.Clear()
		return nil
	}
	if !hasValue {
		return fmt.Errorf("missing value for option %q", name)
	}
	value = strings.TrimSpace(value)

	switch name {
	case "Hash":
		mb, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if err := u.opts.SetHash(mb); err != nil {
			return err
		}
	case "Threads":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if err := u.opts.SetThreads(n); err != nil {
			return err
		}
	case "Ponder":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		u.opts.SetPonder(v)
	case "UCI_AnalyseMode":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		u.opts.SetAnalyseMode(v)
	default:
		return fmt.Errorf("unhandled option %q", name)
	}

	u.manager.SetOptions(u.opts)
	return nil
}
