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
	"math/rand"
	"sort"
	"time"

	. "github.com/corvidchess/corvid/internal/chess"
	"github.com/corvidchess/corvid/internal/book"
	"github.com/corvidchess/corvid/internal/position"
)

// LookupMoveService supplies a move for a position without searching -
// an opening book or an endgame tablebase. Consulted by the Coordinator
// in registration order; the first hit wins. A lookup error is logged and
// skipped, never fatal to the surrounding search.
type LookupMoveService interface {
	Lookup(pos *position.Position) (Move, bool, error)
}

// BookLookup adapts an opening book into a LookupMoveService, choosing
// uniformly at random among the moves recorded for the current position -
// the same selection search.Search itself makes when it consults its own
// embedded book (see internal/search/search.go).
type BookLookup struct {
	Book *book.Book
}

// NewBookLookup wraps an already-initialized opening book.
func NewBookLookup(b *book.Book) *BookLookup {
	return &BookLookup{Book: b}
}

func (l *BookLookup) Lookup(pos *position.Position) (Move, bool, error) {
	if l.Book == nil {
		return MoveNone, false, nil
	}
	entry, found := l.Book.GetEntry(pos.ZobristKey())
	if !found || len(entry.Moves) == 0 {
		return MoveNone, false, nil
	}
	rand.Seed(int64(time.Now().Nanosecond()))
	return entry.Moves[rand.Intn(len(entry.Moves))].Move, true, nil
}

// SelectByFrequency implements cumulative-frequency selection over a list
// of weights already stable-sorted by frequency: it returns the index of
// the first entry whose cumulative frequency exceeds r. This is the
// selection rule opening-book move choice is specified against; kept
// standalone (rather than threaded through book.Book, whose BookEntry only
// tracks a single Counter per position, not a frequency per successor
// move) so it can be exercised and tested against the rule directly.
func SelectByFrequency(frequencies []int, r float64) int {
	sorted := make([]int, len(frequencies))
	copy(sorted, frequencies)
	sort.Ints(sorted)

	cumulative := 0
	for i, f := range sorted {
		cumulative += f
		if float64(cumulative) > r {
			return i
		}
	}
	return len(sorted) - 1
}
