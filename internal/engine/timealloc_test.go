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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func dummyHalfMovesRemaining(halfMovesPlayed int) float64 {
	return float64(halfMovesPlayed)
}

func TestAllocate_RemainingLessThanIncrementThreshold(t *testing.T) {
	a := &TimeAllocator{
		HalfMovesRemaining: dummyHalfMovesRemaining,
		MinComputeTime:     500 * time.Millisecond,
		Latency:            200 * time.Millisecond,
		MinClockTime:       250 * time.Millisecond,
	}
	assert.EqualValues(t, 1355*time.Millisecond, a.Allocate(20, 4999*time.Millisecond, 1000*time.Millisecond))
}

func TestAllocate_RemainingLessThanLatency(t *testing.T) {
	a := &TimeAllocator{
		HalfMovesRemaining: dummyHalfMovesRemaining,
		MinComputeTime:     1100 * time.Millisecond,
		Latency:            200 * time.Millisecond,
		MinClockTime:       250 * time.Millisecond,
	}
	assert.EqualValues(t, 1100*time.Millisecond, a.Allocate(20, 100*time.Millisecond, 0))
}

func TestAllocate_EstimatedGreaterThanMin(t *testing.T) {
	a := &TimeAllocator{
		HalfMovesRemaining: dummyHalfMovesRemaining,
		MinComputeTime:     1100 * time.Millisecond,
		Latency:            200 * time.Millisecond,
		MinClockTime:       250 * time.Millisecond,
	}
	assert.EqualValues(t, 4854*time.Millisecond, a.Allocate(20, 40000*time.Millisecond, 999*time.Millisecond))
}

func TestAllocate_EstimatedLessThanMin(t *testing.T) {
	a := &TimeAllocator{
		HalfMovesRemaining: dummyHalfMovesRemaining,
		MinComputeTime:     1100 * time.Millisecond,
		Latency:            200 * time.Millisecond,
		MinClockTime:       250 * time.Millisecond,
	}
	assert.EqualValues(t, 1100*time.Millisecond, a.Allocate(200, 10*time.Second, 999*time.Millisecond))
}

func TestAllocate_LatencyLargerThanIncrement(t *testing.T) {
	a := &TimeAllocator{
		HalfMovesRemaining: dummyHalfMovesRemaining,
		MinComputeTime:     100 * time.Millisecond,
		Latency:            200 * time.Millisecond,
		MinClockTime:       250 * time.Millisecond,
	}
	assert.EqualValues(t, 105*time.Millisecond, a.Allocate(200, 1*time.Second, 100*time.Millisecond))
}

func TestAllocate_IncrementLargerThanRemainingTime(t *testing.T) {
	a := &TimeAllocator{
		HalfMovesRemaining: dummyHalfMovesRemaining,
		MinComputeTime:     50 * time.Millisecond,
		Latency:            5 * time.Millisecond,
		MinClockTime:       250 * time.Millisecond,
	}
	assert.EqualValues(t, 749*time.Millisecond, a.Allocate(224, 1004*time.Millisecond, 1000*time.Millisecond))
}

func TestAllocateTime_UsesDefaults(t *testing.T) {
	d := AllocateTime(20, 40*time.Second, 1*time.Second)
	assert.Greater(t, d, time.Duration(0))
}

func TestSelectByFrequency(t *testing.T) {
	frequencies := []int{1, 1, 3, 20}
	// cumulative after stable sort: [1, 2, 5, 25]
	assert.EqualValues(t, 0, SelectByFrequency(frequencies, 0.5))
	assert.EqualValues(t, 1, SelectByFrequency(frequencies, 1.5))
	assert.EqualValues(t, 2, SelectByFrequency(frequencies, 4.9))
	assert.EqualValues(t, 3, SelectByFrequency(frequencies, 24.9))
}
