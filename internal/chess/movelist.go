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

package chess

import (
	"fmt"
	"strings"
)

// MoveList is a worst-to-best ordered list of moves. The search consumes
// it back to front, so "best" lives at the end of the slice - repeatedly
// popping the back element yields moves in descending heuristic value
// without ever shifting the rest of the slice.
type MoveList []Move

// NewMoveList creates an empty move list with the given capacity.
func NewMoveList(capacity int) *MoveList {
	ml := make(MoveList, 0, capacity)
	return &ml
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return len(*ml)
}

// PushBack appends a move to the end of the list (the "best" side).
func (ml *MoveList) PushBack(m Move) {
	*ml = append(*ml, m)
}

// PopBack removes and returns the move at the end of the list - the
// move the search should try next. Panics if the list is empty.
func (ml *MoveList) PopBack() Move {
	if len(*ml) == 0 {
		panic("MoveList: PopBack() called on empty list")
	}
	last := (*ml)[len(*ml)-1]
	*ml = (*ml)[:len(*ml)-1]
	return last
}

// Back returns, without removing, the move at the end of the list.
func (ml *MoveList) Back() Move {
	if len(*ml) == 0 {
		panic("MoveList: Back() called on empty list")
	}
	return (*ml)[len(*ml)-1]
}

// At returns the move at index i.
func (ml *MoveList) At(i int) Move {
	return (*ml)[i]
}

// Clear empties the list but keeps its underlying array, so repeated
// per-node use during search does not churn the allocator.
func (ml *MoveList) Clear() {
	*ml = (*ml)[:0]
}

// Clone returns a deep copy of the list.
func (ml *MoveList) Clone() *MoveList {
	dst := make(MoveList, len(*ml))
	copy(dst, *ml)
	return &dst
}

// Sort orders the list worst-to-best by Value, ascending, using a
// stable insertion sort - lists are short and close to already sorted
// once a table move or killer has been repositioned.
func (ml *MoveList) Sort() {
	l := len(*ml)
	for i := 1; i < l; i++ {
		tmp := (*ml)[i]
		j := i
		for j > 0 && (*ml)[j-1].Value > tmp.Value {
			(*ml)[j] = (*ml)[j-1]
			j--
		}
		(*ml)[j] = tmp
	}
}

// RepositionLast finds the first move for which pred returns true and
// moves it to the end of the list (the side the search pops from
// next), preserving the relative order of every other move. If no move
// satisfies pred the list is unchanged and ok is false.
//
// This is how the move orderer promotes a transposition-table
// suggestion, a known alpha-raiser, or the current PV move to the
// front of the search's attention without a full re-sort.
func (ml *MoveList) RepositionLast(pred func(Move) bool) (moved Move, ok bool) {
	s := *ml
	n := len(s)
	for i := 0; i < n; i++ {
		if pred(s[i]) {
			moved = s[i]
			copy(s[i:], s[i+1:])
			s[n-1] = moved
			return moved, true
		}
	}
	return MoveNone, false
}

// Contains reports whether the list holds a move equal to m.
func (ml *MoveList) Contains(m Move) bool {
	for _, x := range *ml {
		if x == m {
			return true
		}
	}
	return false
}

func (ml *MoveList) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("MoveList: [%d] { ", len(*ml)))
	for i, m := range *ml {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.String())
	}
	sb.WriteString(" }")
	return sb.String()
}

// StringUci renders the list as a space-separated sequence of UCI move
// strings, worst to best.
func (ml *MoveList) StringUci() string {
	var sb strings.Builder
	for i, m := range *ml {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(m.StringUci())
	}
	return sb.String()
}
