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

package engine

import (
	"sync"
	"time"
)

// EndSignal is a polymorphic stop condition consulted by the searcher and
// the coordinator. It never special-cases deadline-vs-ponder logic itself -
// callers decide which implementation to hand the searcher.
type EndSignal interface {
	// ShouldEndNow reports whether the search must stop at the next poll.
	ShouldEndNow() bool
	// Join blocks until the signal fires.
	Join()
}

// Deadline ends a search at a fixed instant.
type Deadline struct {
	At time.Time
}

// NewDeadline returns a Deadline firing after d has elapsed.
func NewDeadline(d time.Duration) Deadline {
	return Deadline{At: time.Now().Add(d)}
}

func (d Deadline) ShouldEndNow() bool {
	return !time.Now().Before(d.At)
}

func (d Deadline) Join() {
	if remaining := time.Until(d.At); remaining > 0 {
		time.Sleep(remaining)
	}
}

// StopLatch is a one-shot, concurrency-safe stop flag - the "counted-stop-latch"
// half of a Compound signal. Calling Stop more than once is a no-op.
type StopLatch struct {
	once sync.Once
	done chan struct{}
}

// NewStopLatch returns a latch that has not fired yet.
func NewStopLatch() *StopLatch {
	return &StopLatch{done: make(chan struct{})}
}

// Stop fires the latch. Safe to call from any goroutine, any number of times.
func (s *StopLatch) Stop() {
	s.once.Do(func() { close(s.done) })
}

// Stopped reports whether Stop has been called.
func (s *StopLatch) Stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Wait blocks until Stop is called or timeout elapses, whichever is first.
func (s *StopLatch) Wait(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-s.done:
	case <-timer.C:
	}
}

// Compound ends a search when either its deadline passes or its stop latch
// fires, whichever happens first - the combination pondering needs: a hard
// time cap plus an explicit stop command from the UCI driver.
type Compound struct {
	Deadline Deadline
	Stop     *StopLatch
}

// NewCompound builds a Compound signal with a fresh stop latch.
func NewCompound(d time.Duration) *Compound {
	return &Compound{Deadline: NewDeadline(d), Stop: NewStopLatch()}
}

func (c *Compound) ShouldEndNow() bool {
	return c.Deadline.ShouldEndNow() || c.Stop.Stopped()
}

func (c *Compound) Join() {
	remaining := time.Until(c.Deadline.At)
	c.Stop.Wait(remaining)
}

// Empty never ends a search. Used for depth-bounded unit tests where no
// clock should ever interrupt the search.
type Empty struct{}

func (Empty) ShouldEndNow() bool { return false }
func (Empty) Join()              {}
