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

package search

import (
	"math"

	. "github.com/corvidchess/corvid/internal/chess"
)

// This file contain data structures and functions to support the search with
// static or pre-computed parameters. Mostly for params too complex to be
// part of the search configuration

// LmrReduction returns the search depth reduction for a late move,
// i.e. the r handed to the recursive search call for the movesSearched-th
// move (0-indexed) searched at this node. The base reduction is 1 and is
// only ever increased, never below it: a PV node gives every move up to
// the sixth its full depth and then reduces by one more; a non-PV node
// reduces the second and third move by one and every move after that by
// max(1, depth/3), since with no PV left to preserve it is safe to cut
// deeper into moves move ordering has already pushed to the back.
func LmrReduction(depth int, movesSearched int, isPVNode bool) int {
	r := 1
	if isPVNode {
		if movesSearched > 5 {
			r++
		}
		return r
	}
	switch {
	case movesSearched == 0:
		// first move searched at full depth
	case movesSearched == 1, movesSearched == 2:
		r++
	default:
		r += maxInt(1, depth/3)
	}
	return r
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

var lmp [16]int

func init() {
	for i := 1; i < 16; i++ {
		// from Crafty
		lmp[i] = 6 + int(math.Pow(float64(i)+0.5, 1.3))
		// out.Printf("LMP: depth: %2d r:%2d\n", i, lmp[i])
	}
}

// LmpMovesSearched returns a depth dependent value for moves searched
// for late Move Prunings.
func LmpMovesSearched(depth int) int {
	if depth >= 16 {
		return lmp[15]
	}
	return lmp[depth]
}

// futility pruning - array with margins per depth left.
var fp = [7]Value{0, 100, 200, 300, 500, 900, 1200}

// Crafty values: {  0, 100, 150, 200,  250,  300,  400,  500, 600, 700, 800, 900, 1000, 1100, 1200, 1300 }

// reverse futility pruning - array with margins per depth left
var rfp = [4]Value{0, 200, 400, 800}

// aspiration steps
var aspirationSteps = []Value{50, 200, ValueMax}
