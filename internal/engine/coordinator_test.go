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
	"os"
	"path"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/corvidchess/corvid/internal/chess"
	"github.com/corvidchess/corvid/internal/config"
	"github.com/corvidchess/corvid/internal/position"
)

// make tests run in the project's root directory.
func init() {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "../..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}

func TestMain(m *testing.M) {
	config.Setup()
	os.Exit(m.Run())
}

type fakeLookup struct {
	move  Move
	found bool
	err   error
}

func (f fakeLookup) Lookup(pos *position.Position) (Move, bool, error) {
	return f.move, f.found, f.err
}

func TestComputeMove_LookupHit(t *testing.T) {
	hit := fakeLookup{move: NewNormalMove(WhitePawn, SqE2, SqE4, PieceNone), found: true}
	c := NewCoordinator(hit)
	p, _ := position.NewPositionFen(position.StartFen)
	result, err := c.ComputeMove(ComputeMoveInput{Position: *p, End: Empty{}})
	assert.NoError(t, err)
	assert.True(t, result.BookMove)
	assert.True(t, hit.move.SameAs(result.BestMove))
}

func TestComputeMove_LookupMissFallsBackToSearch(t *testing.T) {
	miss := fakeLookup{found: false}
	c := NewCoordinator(miss)
	p, _ := position.NewPositionFen(position.StartFen)
	result, err := c.ComputeMove(ComputeMoveInput{Position: *p, End: Empty{}, MaxDepth: 2})
	assert.NoError(t, err)
	assert.False(t, result.BookMove)
	assert.False(t, result.BestMove.IsNone())
}

func TestComputeMove_BusyRejectsConcurrentRequest(t *testing.T) {
	c := NewCoordinator()
	p, _ := position.NewPositionFen(position.StartFen)

	release := NewCompound(time.Hour)
	c.ComputeMoveAsync(ComputeMoveInput{Position: *p, End: release}, func(ComputeMoveResult) {})

	time.Sleep(5 * time.Millisecond)
	_, err := c.ComputeMove(ComputeMoveInput{Position: *p, End: Empty{}})
	assert.ErrorIs(t, err, ErrEngineBusy)

	release.Stop.Stop()
	c.searcher.WaitWhileSearching()
}

func TestReset_NoopWhileBusy(t *testing.T) {
	c := NewCoordinator()
	p, _ := position.NewPositionFen(position.StartFen)
	release := NewCompound(time.Hour)
	c.ComputeMoveAsync(ComputeMoveInput{Position: *p, End: release}, func(ComputeMoveResult) {})
	time.Sleep(5 * time.Millisecond)
	c.Reset() // no-op, must not block or panic
	release.Stop.Stop()
	c.searcher.WaitWhileSearching()
}

func TestCompoundAsEndSignal_StopsSearch(t *testing.T) {
	c := NewCoordinator()
	p, _ := position.NewPositionFen(position.StartFen)
	signal := NewCompound(time.Hour)

	done := make(chan ComputeMoveResult, 1)
	c.ComputeMoveAsync(ComputeMoveInput{Position: *p, End: signal}, func(r ComputeMoveResult) { done <- r })
	time.Sleep(20 * time.Millisecond)
	signal.Stop.Stop()

	select {
	case r := <-done:
		assert.NoError(t, r.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("compound stop did not end the search in time")
	}
}
