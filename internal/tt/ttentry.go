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

package transpositiontable

import (
	. "github.com/corvidchess/corvid/internal/chess"
)

// NodeKind labels how the stored value relates to the true minimax value
// of the node, mirroring the three ways an alpha-beta search can finish
// a node:
//   - NodeKindAll: every move was searched and none raised alpha - the
//     value is an upper bound (a "fail low"/all-node).
//   - NodeKindCut: a move caused a beta cutoff - the value is a lower
//     bound and Move is the move that caused it.
//   - NodeKindPV: a move strictly improved alpha without reaching beta -
//     the value is exact and Path carries the remembered principal
//     continuation from this position onward.
type NodeKind int8

const (
	NodeKindAll NodeKind = iota
	NodeKindCut
	NodeKindPV
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindAll:
		return "All"
	case NodeKindCut:
		return "Cut"
	case NodeKindPV:
		return "PV"
	default:
		return "Unknown"
	}
}

// TtEntry is one stored search result. Unlike a fixed-width bit-packed
// record, a PV entry carries a variable-length Path - the table trades
// the old 16-byte-per-bucket guarantee for the ability to answer "what
// is the remembered line from here" without re-probing position by
// position.
type TtEntry struct {
	key        Key
	kind       NodeKind
	move       Move     // Cut: the move that caused the cutoff. All: empty. PV: Path[0].
	path       MoveList // only populated for NodeKindPV
	value      int16
	depth      int8
	age        int8
	rootIndex  int32 // NextHalfMoveNumber() of the position at the root of the search that produced this entry
	mateThreat bool
}

// baseTtEntrySize is the approximate per-bucket footprint used only to
// size the table - actual memory use varies with how many buckets hold
// a PV path, which baseTtEntrySize intentionally does not try to model.
const baseTtEntrySize = 56

func (e *TtEntry) decreaseAge() {
	if e.age > 0 {
		e.age--
	}
}

func (e *TtEntry) increaseAge() {
	if e.age < 127 {
		e.age++
	}
}

// Key returns the Zobrist key this entry was stored under.
func (e *TtEntry) Key() Key {
	return e.key
}

// Kind returns how the stored value relates to the node's true value.
func (e *TtEntry) Kind() NodeKind {
	return e.kind
}

// Move returns the entry's best/cutoff move, or MoveNone if none was
// stored. For a PV entry this is Path[0].
func (e *TtEntry) Move() Move {
	return e.move
}

// HasMove reports whether a move is stored.
func (e *TtEntry) HasMove() bool {
	return e.move != MoveNone
}

// Path returns the remembered principal continuation starting at this
// position, or nil if this entry is not a PV entry.
func (e *TtEntry) Path() MoveList {
	return e.path
}

func (e *TtEntry) Value() Value {
	return Value(e.value)
}

func (e *TtEntry) Depth() int8 {
	return e.depth
}

func (e *TtEntry) Age() int8 {
	return e.age
}

// RootIndex returns NextHalfMoveNumber() of the position at the root of
// the search that produced this entry.
func (e *TtEntry) RootIndex() int {
	return int(e.rootIndex)
}

func (e *TtEntry) MateThreat() bool {
	return e.mateThreat
}
