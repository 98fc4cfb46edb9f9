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

// Package engine coordinates one search at a time over a shared
// transposition table and an ordered chain of opening-book/tablebase
// lookup services, owns the think-time allocation formula, and defines the
// end-signal capability set the searcher polls to know when to stop.
package engine

import (
	"errors"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/corvidchess/corvid/internal/applog"
	"github.com/corvidchess/corvid/internal/position"
	"github.com/corvidchess/corvid/internal/search"
)

var log = applog.GetLog()

// ErrEngineBusy is returned when a compute-move request arrives while
// another one is already in flight. Not retried automatically - the
// caller decides whether and when to try again.
var ErrEngineBusy = errors.New("engine: busy with another search")

// ErrEarlyTermination names the case where the end signal fired before
// the first iterative-deepening depth completed. The Coordinator itself
// never returns it (see the note at the end of runOne).
var ErrEarlyTermination = errors.New("engine: search ended before depth 1 completed")

// ComputeMoveInput bundles everything one compute-move request needs.
type ComputeMoveInput struct {
	Position   position.Position
	End        EndSignal
	MaxDepth   int // 0 means unlimited
	WaitForEnd bool
}

// ComputeMoveResult is delivered to the completion callback exactly once.
type ComputeMoveResult struct {
	Outcome search.Result
	Err     error
}

// Coordinator owns the single dedicated search worker: it runs at most one
// search at a time, atomically flipping a single-permit availability flag
// the same way teacher search.Search guards itself with initSemaphore -
// generalized here across the whole lookup chain instead of just the
// book, so opening-book and endgame-tablebase providers are tried in
// order before a search is ever started.
type Coordinator struct {
	searcher *search.Search
	lookups  []LookupMoveService
	busy     *semaphore.Weighted
}

// NewCoordinator builds a Coordinator around its own Search instance and
// an ordered lookup chain consulted before falling back to a real search.
func NewCoordinator(lookups ...LookupMoveService) *Coordinator {
	return &Coordinator{
		searcher: search.NewSearch(),
		lookups:  lookups,
		busy:     semaphore.NewWeighted(1),
	}
}

// ComputeMoveAsync spawns one worker to satisfy the request and returns
// immediately. It returns false without spawning anything if another
// computation already holds the availability permit - no queueing.
// The callback fires exactly once, from the worker goroutine.
func (c *Coordinator) ComputeMoveAsync(input ComputeMoveInput, callback func(ComputeMoveResult)) bool {
	if !c.busy.TryAcquire(1) {
		return false
	}
	go func() {
		defer c.busy.Release(1)
		result := c.runOne(input)
		callback(result)
	}()
	return true
}

// ComputeMove is the synchronous adapter: it spawns the async form and
// blocks on its completion. Returns ErrEngineBusy immediately, without
// blocking, if another computation is already running.
func (c *Coordinator) ComputeMove(input ComputeMoveInput) (search.Result, error) {
	done := make(chan ComputeMoveResult, 1)
	if !c.ComputeMoveAsync(input, func(r ComputeMoveResult) { done <- r }) {
		return search.Result{}, ErrEngineBusy
	}
	r := <-done
	return r.Outcome, r.Err
}

// Reset atomically acquires availability, clears the transposition table,
// and releases. No-op if another computation currently holds the permit.
func (c *Coordinator) Reset() {
	if !c.busy.TryAcquire(1) {
		return
	}
	defer c.busy.Release(1)
	c.searcher.ClearHash()
}

func (c *Coordinator) runOne(input ComputeMoveInput) ComputeMoveResult {
	pos := input.Position

	for _, lookup := range c.lookups {
		move, found, err := lookup.Lookup(&pos)
		if err != nil {
			log.Warningf("lookup service failed, skipping: %s", err)
			continue
		}
		if found {
			result := search.Result{BestMove: move, BookMove: true}
			if input.WaitForEnd && input.End != nil {
				input.End.Join()
			}
			return ComputeMoveResult{Outcome: result}
		}
	}

	sl := search.NewSearchLimits()
	sl.Depth = input.MaxDepth
	stopWatcher := configureLimits(sl, input.End, c.searcher.StopSearch)
	defer func() {
		if stopWatcher != nil {
			stopWatcher()
		}
	}()

	c.searcher.StartSearch(pos, *sl)
	c.searcher.WaitWhileSearching()

	if input.WaitForEnd && input.End != nil {
		input.End.Join()
	}

	// The searcher's iterativeDeepening returns an error only when the root
	// has no legal move (see internal/search/search.go), so LastSearchError
	// here only ever means a genuine terminal position. An end signal that
	// fires during depth 1 is not reported as an error: the nodes below the
	// root stop without a score and the result is built from whatever the
	// partial first iteration left in the principal variation.
	// ErrEarlyTermination is kept as a named error for callers building
	// their own EndSignal/searcher pairing.
	return ComputeMoveResult{Outcome: c.searcher.LastSearchResult(), Err: c.searcher.LastSearchError()}
}

// configureLimits translates an EndSignal into search.Limits fields plus,
// for signals with an external stop condition, a background watcher that
// forwards that condition into the searcher's own stopSearch. It returns a
// cleanup func stopping the watcher, or nil if none was started.
func configureLimits(sl *search.Limits, end EndSignal, stopSearch func()) (stopWatcher func()) {
	switch e := end.(type) {
	case nil, Empty:
		return nil
	case Deadline:
		sl.TimeControl = true
		sl.MoveTime = time.Until(e.At)
		return nil
	case *Compound:
		sl.TimeControl = true
		sl.MoveTime = time.Until(e.Deadline.At)
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(10 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if e.Stop.Stopped() {
						stopSearch()
						return
					}
				}
			}
		}()
		return func() { close(done) }
	default:
		sl.Infinite = true
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(10 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if end.ShouldEndNow() {
						stopSearch()
						return
					}
				}
			}
		}()
		return func() { close(done) }
	}
}
