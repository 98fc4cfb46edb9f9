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
	"math"
	"time"
)

// Default tuning constants for TimeAllocator - any time spent that is not
// actual thinking (network, GUI round trip) should be budgeted into Latency.
const (
	DefaultMinComputeTime = 50 * time.Millisecond
	DefaultMinClockTime   = 250 * time.Millisecond
	DefaultLatency        = 5 * time.Millisecond
)

// TimeAllocator computes a think-time budget for one move from the clock
// state reported by the UCI "go" command. The min-clock-floor variant:
// reserve a floor below which the clock may never drop, spend the rest
// proportionally across the expected remaining moves.
type TimeAllocator struct {
	// HalfMovesRemaining estimates the expected number of half-moves still
	// to be played given how many have been played so far.
	HalfMovesRemaining func(halfMovesPlayed int) float64
	Latency            time.Duration
	MinComputeTime     time.Duration
	MinClockTime       time.Duration
}

// NewTimeAllocator returns a TimeAllocator using the default constants and
// the empirical expected-game-length formula.
func NewTimeAllocator() *TimeAllocator {
	return &TimeAllocator{
		HalfMovesRemaining: ExpectedHalfMovesRemaining,
		Latency:            DefaultLatency,
		MinComputeTime:     DefaultMinComputeTime,
		MinClockTime:       DefaultMinClockTime,
	}
}

// Allocate computes how long to think given the half-moves played so far,
// the remaining clock time, and the per-move increment.
func (a *TimeAllocator) Allocate(halfMovesPlayed int, remainingTime, increment time.Duration) time.Duration {
	minRemainingAfterThinking := a.MinClockTime + a.Latency
	if remainingTime < minRemainingAfterThinking {
		minRemainingAfterThinking = remainingTime
	}
	usable := remainingTime - minRemainingAfterThinking

	var allocated time.Duration
	if usable <= increment {
		allocated = usable
	} else {
		thinkingAfterIncrement := usable - increment
		expRemaining := a.HalfMovesRemaining(halfMovesPlayed) / 2
		extraMs := math.Round(float64(thinkingAfterIncrement.Milliseconds()) / expRemaining)
		allocated = increment + time.Duration(extraMs)*time.Millisecond
	}
	if allocated < a.MinComputeTime {
		allocated = a.MinComputeTime
	}
	return allocated
}

// ExpectedHalfMovesRemaining is an empirical expectation-of-game-length
// formula: https://chess.stackexchange.com/questions/2506
func ExpectedHalfMovesRemaining(halfMovesPlayed int) float64 {
	k := float64(halfMovesPlayed)
	return 59.3 + (72830-2330*k)/(2644+k*(10+k))
}

// AllocateTime is the package-level convenience using the default tuning
// constants and the empirical half-moves-remaining formula.
func AllocateTime(halfMovesPlayed int, remainingTime, increment time.Duration) time.Duration {
	return NewTimeAllocator().Allocate(halfMovesPlayed, remainingTime, increment)
}
