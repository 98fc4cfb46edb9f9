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

func TestDeadline(t *testing.T) {
	d := NewDeadline(20 * time.Millisecond)
	assert.False(t, d.ShouldEndNow())
	time.Sleep(30 * time.Millisecond)
	assert.True(t, d.ShouldEndNow())
}

func TestDeadline_Join(t *testing.T) {
	d := NewDeadline(20 * time.Millisecond)
	start := time.Now()
	d.Join()
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestStopLatch(t *testing.T) {
	s := NewStopLatch()
	assert.False(t, s.Stopped())
	s.Stop()
	assert.True(t, s.Stopped())
	// idempotent
	s.Stop()
	assert.True(t, s.Stopped())
}

func TestStopLatch_Wait(t *testing.T) {
	s := NewStopLatch()
	start := time.Now()
	go func() {
		time.Sleep(10 * time.Millisecond)
		s.Stop()
	}()
	s.Wait(time.Second)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestCompound_DeadlineFires(t *testing.T) {
	c := NewCompound(10 * time.Millisecond)
	assert.False(t, c.ShouldEndNow())
	time.Sleep(20 * time.Millisecond)
	assert.True(t, c.ShouldEndNow())
}

func TestCompound_StopFires(t *testing.T) {
	c := NewCompound(time.Hour)
	assert.False(t, c.ShouldEndNow())
	c.Stop.Stop()
	assert.True(t, c.ShouldEndNow())
}

func TestEmpty(t *testing.T) {
	e := Empty{}
	assert.False(t, e.ShouldEndNow())
	start := time.Now()
	e.Join()
	assert.Less(t, time.Since(start), 10*time.Millisecond)
}
