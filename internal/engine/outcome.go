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
	"github.com/corvidchess/corvid/internal/evaluator"
	"github.com/corvidchess/corvid/internal/position"
	"github.com/corvidchess/corvid/internal/search"
)

// SearchOutcome is the JSON-friendly rendering of a completed
// compute-move request, mirroring the fields teacher Result.String()
// prints for a human but shaped for a machine reader instead.
type SearchOutcome struct {
	BestMove             string `json:"bestMove"`
	PositionEval         int    `json:"positionEval"`
	DepthSearched        int    `json:"depthSearched"`
	SearchDurationMillis int64  `json:"searchDurationMillis"`
	OptimalPath          string `json:"optimalPath"`
	BookMove             bool   `json:"bookMove"`
}

// NewSearchOutcome builds a SearchOutcome from a completed search result
// and the position it was computed against. positionEval is evaluated
// fresh from the static evaluator rather than taken from the search's
// internal score, so it reflects the position's evaluation the same
// way regardless of how deep the search that produced result went.
func NewSearchOutcome(pos position.Position, result search.Result) SearchOutcome {
	e := evaluator.NewEvaluator()
	e.InitEval(&pos)
	eval := e.Evaluate(&pos)
	return SearchOutcome{
		BestMove:             result.BestMove.StringUci(),
		PositionEval:         int(eval),
		DepthSearched:        result.SearchDepth,
		SearchDurationMillis: result.SearchTime.Milliseconds(),
		OptimalPath:          result.Pv.StringUci(),
		BookMove:             result.BookMove,
	}
}
