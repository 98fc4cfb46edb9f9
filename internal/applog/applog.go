//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

// Package applog is a thin helper over "github.com/op/go-logging" that
// hands out a handful of preconfigured, named loggers (standard,
// search, test, uci) so the rest of the engine doesn't repeat backend
// and formatter setup in every package.
package applog

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/op/go-logging"
)

// StandardLevel, SearchLevel and TestLevel are set by internal/config
// during startup. A level is applied to its shared logger each time
// GetLog/GetSearchLog/GetTestLog is called, so a logger fetched earlier
// picks up a changed level on the next call.
var (
	StandardLevel = logging.INFO
	SearchLevel   = logging.INFO
	TestLevel     = logging.INFO
)

var (
	standardLog *logging.Logger
	searchLog   *logging.Logger
	testLog     *logging.Logger
	uciLog      *logging.Logger
	uciLogFile  *os.File

	standardFormat = logging.MustStringFormatter(
		`%{time:15:04:05.000} %{shortpkg:-8.8s}:%{shortfile:-14.14s} %{level:-7.7s}:  %{message}`)

	uciLogFilePath string
)

func init() {
	programName, _ := os.Executable()
	exePath := filepath.Dir(programName)
	exeName := strings.TrimSuffix(filepath.Base(programName), ".exe")
	uciLogFilePath = exePath + "/../logs/" + exeName + "_ucilog.log"

	standardLog = logging.MustGetLogger("standard")
	searchLog = logging.MustGetLogger("search")
	testLog = logging.MustGetLogger("test")
	uciLog = logging.MustGetLogger("UCI ")
}

// GetLog returns the standard logger, configured to write to stdout at
// StandardLevel.
func GetLog() *logging.Logger {
	backend := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	formatted := logging.NewBackendFormatter(backend, standardFormat)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(StandardLevel, "")
	standardLog.SetBackend(leveled)
	return standardLog
}

// GetSearchLog returns the logger used by the search package, kept
// separate from the standard logger so search tracing can be silenced
// independently.
func GetSearchLog() *logging.Logger {
	backend := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	formatted := logging.NewBackendFormatter(backend, standardFormat)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(SearchLevel, "")
	searchLog.SetBackend(leveled)
	return searchLog
}

// GetTestLog returns the logger used by tests and the EPD test-suite runner.
func GetTestLog() *logging.Logger {
	backend := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	formatted := logging.NewBackendFormatter(backend, standardFormat)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(TestLevel, "")
	testLog.SetBackend(leveled)
	return testLog
}

// GetUciLog returns a logger dedicated to raw UCI protocol traffic. It
// logs to stdout and, if the log directory exists, to a log file in the
// "logs" folder beside the executable's directory (<exe dir>/../logs).
func GetUciLog() *logging.Logger {
	uciFormat := logging.MustStringFormatter(`%{time:15:04:05.000} UCI %{message}`)

	backend1 := logging.NewLogBackend(os.Stdout, "", log.Lmsgprefix)
	formatted1 := logging.NewBackendFormatter(backend1, uciFormat)
	leveled1 := logging.AddModuleLevel(formatted1)
	leveled1.SetLevel(logging.DEBUG, "")

	var err error
	uciLogFile, err = os.OpenFile(uciLogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Println("uci log file could not be opened:", err)
		uciLog.SetBackend(leveled1)
		return uciLog
	}
	backend2 := logging.NewLogBackend(uciLogFile, "", log.Lmsgprefix)
	formatted2 := logging.NewBackendFormatter(backend2, uciFormat)
	leveled2 := logging.AddModuleLevel(formatted2)
	leveled2.SetLevel(logging.DEBUG, "")

	uciLog.SetBackend(logging.SetBackend(leveled1, leveled2))
	return uciLog
}
