// Command corvid is a UCI-compatible chess engine: it reads UCI
// protocol commands from stdin and writes `info`/`bestmove` lines to
// stdout, driving engine.SearchManager.
//
// Grounded on the teacher's zurichess/main.go (buffered stdin read
// loop, a single UCI command dispatcher, an optional CPU profile flag)
// and zurichess/uci.go (command set, option names). The teacher's
// separate ponder/idle channel machinery is replaced by a plain
// synchronous dispatcher per command, since this repo's SearchManager
// already blocks until either the deadline or an explicit `stop`, so
// there is no separate idle-tracking state to maintain.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
)

var (
	cpuProfile = flag.String("cpuprofile", "", "write a CPU profile to this file and exit on quit")
	configPath = flag.String("config", "", "optional TOML tuning file (see engine.Config)")
)

func main() {
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	log.SetOutput(os.Stderr)
	log.SetPrefix("info string ")

	u := newUCI(os.Stdout, *configPath)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if err := u.execute(scanner.Text()); err != nil {
			if err == errQuit {
				break
			}
			fmt.Fprintf(os.Stderr, "info string error: %v\n", err)
		}
	}
}
