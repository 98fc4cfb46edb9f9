/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/op/go-logging"
	"github.com/pkg/profile"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/corvidchess/corvid/internal/applog"
	"github.com/corvidchess/corvid/internal/book"
	"github.com/corvidchess/corvid/internal/config"
	"github.com/corvidchess/corvid/internal/endgame"
	"github.com/corvidchess/corvid/internal/engine"
	testsuite "github.com/corvidchess/corvid/internal/epd"
	"github.com/corvidchess/corvid/internal/movegen"
	"github.com/corvidchess/corvid/internal/position"
	"github.com/corvidchess/corvid/internal/search"
	"github.com/corvidchess/corvid/internal/uci"
	"github.com/corvidchess/corvid/internal/util"
	"github.com/corvidchess/corvid/internal/version"
)

var out = message.NewPrinter(language.German)

// cmdLogLevels maps the -loglvl/-searchloglvl flag values to go-logging
// levels, matching internal/config's own mapping so a command line
// override behaves the same as the equivalent config.toml entry.
var cmdLogLevels = map[string]logging.Level{
	"critical": logging.CRITICAL,
	"error":    logging.ERROR,
	"warning":  logging.WARNING,
	"notice":   logging.NOTICE,
	"info":     logging.INFO,
	"debug":    logging.DEBUG,
}

func main() {
	// command line args
	versionInfo := flag.Bool("version", false, "prints version and exits")
	cpuProfile := flag.Bool("profile", false, "writes a CPU profile (cpu.pprof in the working directory) for the whole run\ngo tool pprof -http=localhost:8080 franky cpu.pprof")
	configFile := flag.String("config", "./config.toml", "path to configuration settings file")
	logLvl := flag.String("loglvl", "", "standard log level\n(critical|error|warning|notice|info|debug)")
	searchlogLvl := flag.String("searchloglvl", "", "search log level\n(critical|error|warning|notice|info|debug)")
	bookPath := flag.String("bookpath", "", "path to opening book files")
	bookFile := flag.String("bookfile", "", "opening book file\nprovide path if file is not in same directory as executable\nPlease also provide bookFormat otherwise this will be ignored")
	bookFormat := flag.String("bookFormat", "", "format of opening book\n(Simple|San|Pgn)")
	testSuite := flag.String("testsuite", "", "path to file containing EPD tests or folder containing EPD files")
	testMovetime := flag.Int("testtime", 2000, "search time for each test position in milliseconds")
	testSearchdepth := flag.Int("testdepth", 0, "search depth limit for each test position")
	perft := flag.Int("perft", 0, "starts perft on the start position with the given depth\nuse -fen to provide a different position")
	fen := flag.String("fen", position.StartFen, "fen for perft, nps and -solve")
	nps := flag.Int("nps", 0, "starts nodes per second test on the start position for given amount of seconds\nuse -fen to provide a different position")
	solveDepth := flag.Int("solve", 0, "computes one best move for -fen via internal/engine.Coordinator at the given depth and exits\nuse -json to print the SearchOutcome as JSON instead of plain text")
	asJSON := flag.Bool("json", false, "render -solve's result as a SearchOutcome JSON document")
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	// print version info and exit
	if *versionInfo {
		printVersionInfo()
		return
	}

	// set config file
	// this needs to be set before config.Setup() is called. Otherwise the default will be used.
	config.ConfFile = *configFile

	// read config file
	config.Setup()

	// After reading the configuration file and the defaults we can now overwrite
	// settings with command line options. Log levels are applied directly to
	// applog since config.Setup() has already resolved the string settings
	// into applog.StandardLevel/SearchLevel by this point.
	if lvl, found := cmdLogLevels[*logLvl]; found {
		applog.StandardLevel = lvl
	}
	if lvl, found := cmdLogLevels[*searchlogLvl]; found {
		applog.SearchLevel = lvl
	}

	// set book path if provided as cmd line option
	if *bookPath != "" {
		config.Settings.Search.BookPath = *bookPath
	}
	if *bookFile != "" && *bookFormat != "" {
		config.Settings.Search.BookFile = *bookFile
		config.Settings.Search.BookFormat = *bookFormat
	}

	// resetting log level auf standard log - required  as most packages include
	// the standard logger as a global var and therefore even before main() is
	// called. These loggers start with the default log level and must be reset
	// to the actual level required.
	applog.GetLog()

	// nps test
	if *nps != 0 {
		config.Settings.Search.UseBook = false
		s := search.NewSearch()
		p := position.NewPosition(*fen)
		sl := search.NewSearchLimits()
		sl.TimeControl = true
		sl.MoveTime = time.Duration(*nps * int(time.Second))
		s.StartSearch(*p, *sl)
		s.WaitWhileSearching()
		out.Println()
		out.Println("NPS : ", util.Nps(s.NodesVisited(), s.LastSearchResult().SearchTime))
		return
	}

	// perft
	if *perft != 0 {
		var perftTest movegen.Perft
		for i := 1; i <= *perft; i++ {
			perftTest.StartPerft(*fen, i, true)
		}
		return
	}

	// execute test suite if command line options are given
	if *testSuite != "" {
		name := *testSuite
		fi, err := os.Stat(name)
		if err != nil {
			fmt.Println(err)
			return
		}
		switch mode := fi.Mode(); {
		case mode.IsDir():
			testsuite.FeatureTests(name+"/", time.Duration(*testMovetime*int(time.Millisecond)), *testSearchdepth)
		case mode.IsRegular():
			ts, _ := testsuite.NewTestSuite(name, time.Duration(*testMovetime*1_000_000), *testSearchdepth)
			ts.RunTests()
		}
		return
	}

	// one-shot best-move computation through the engine.Coordinator,
	// exercising the lookup chain (opening book, then null tablebase,
	// then search) and optionally rendering the SearchOutcome as JSON
	if *solveDepth != 0 {
		runSolve(*fen, *solveDepth, *asJSON)
		return
	}

	// starting the uci handler and waiting for communication with
	// the UCI user interface
	u := uci.NewUciHandler()
	u.Loop()
}

// runSolve builds a Coordinator with the configured opening book (if
// any) ahead of a no-op tablebase stub, computes one move for fen at
// the given depth, and prints the result either as plain text or as a
// SearchOutcome JSON document.
func runSolve(fen string, depth int, asJSON bool) {
	var lookups []engine.LookupMoveService
	if config.Settings.Search.UseBook {
		b := book.NewBook()
		err := b.Initialize(config.Settings.Search.BookPath, config.Settings.Search.BookFile,
			book.FormatFromString[config.Settings.Search.BookFormat], true, false)
		if err != nil {
			out.Println("opening book could not be loaded, continuing without it:", err)
		} else {
			lookups = append(lookups, engine.NewBookLookup(b))
		}
	}
	lookups = append(lookups, endgame.NullTablebase{})

	c := engine.NewCoordinator(lookups...)
	p, err := position.NewPositionFen(fen)
	if err != nil {
		out.Println("invalid fen:", err)
		return
	}

	result, err := c.ComputeMove(engine.ComputeMoveInput{Position: *p, End: engine.Empty{}, MaxDepth: depth})
	if err != nil {
		out.Println("compute move failed:", err)
		return
	}

	if asJSON {
		outcome := engine.NewSearchOutcome(*p, result)
		buf, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			out.Println("could not render outcome as json:", err)
			return
		}
		fmt.Println(string(buf))
		return
	}
	out.Println(result.String())
}

func printVersionInfo() {
	out.Printf("franky %s\n", version.Version())
	out.Println("Environment:")
	out.Printf("  Using GO version %s\n", runtime.Version())
	out.Printf("  Running %s using %s as a compiler\n", runtime.GOARCH, runtime.Compiler)
	out.Printf("  Number of CPU: %d\n", runtime.NumCPU())
	out.Printf("  Number of Goroutines: %d\n", runtime.NumGoroutine())
	cwd, _ := os.Getwd()
	out.Printf("  Working directory: %s\n", cwd)
}
