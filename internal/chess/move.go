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

	"github.com/corvidchess/corvid/internal/assert"
)

// Kind discriminates the variant a Move carries. Kept tiny and copied by
// value throughout the search - no interface, no virtual dispatch, no
// heap allocation on the hot path.
type Kind uint8

const (
	// KindNone is the zero value; MoveNone.Kind() == KindNone.
	KindNone Kind = iota
	KindNormal
	KindEnpassant
	KindCastle
	KindPromote
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "Normal"
	case KindEnpassant:
		return "Enpassant"
	case KindCastle:
		return "Castle"
	case KindPromote:
		return "Promote"
	case KindNull:
		return "Null"
	default:
		return "None"
	}
}

// IsValid reports whether k is one of the five defined variants.
func (k Kind) IsValid() bool {
	return k >= KindNormal && k <= KindNull
}

// Move is a tagged sum type over the five ways a ply can change a
// position: a normal piece move, an en passant capture, a castle, a
// pawn promotion, or the null move used only by null-move pruning
// (never legal, never applied to the board proper).
//
// All variants share one struct rather than an interface so the move
// generator and search can pass and copy moves by value. Captured is
// PieceNone when the move does not capture. Value carries the move
// generator's order/sort key, mirroring how the table entries carry
// a best-move hint: a 16-bit signed field, orthogonal to the move's
// identity. Plain == compares Value too; use SameAs to compare two
// moves while ignoring it.
type Move struct {
	Kind          Kind
	From          Square
	To            Square
	Piece         Piece
	Captured      Piece
	CaptureSquare Square
	Corner        Corner
	PromotedClass PieceType
	Value         int16
}

// MoveNone is the absent move.
var MoveNone = Move{Kind: KindNone, CaptureSquare: SqNone}

// NullMove is the internal null move used by null-move pruning. It is
// never pseudo-legal and must never reach DoMove on a real position.
var NullMove = Move{Kind: KindNull, CaptureSquare: SqNone}

// NewNormalMove builds a Normal move: piece moving from one square to
// another, optionally capturing.
func NewNormalMove(piece Piece, from, to Square, captured Piece) Move {
	return Move{Kind: KindNormal, Piece: piece, From: from, To: to, Captured: captured, CaptureSquare: SqNone}
}

// NewEnpassantMove builds an Enpassant move. captureSquare is the
// square of the captured pawn, which is not the same as to.
func NewEnpassantMove(piece Piece, from, to, captureSquare Square, captured Piece) Move {
	return Move{Kind: KindEnpassant, Piece: piece, From: from, To: to, Captured: captured, CaptureSquare: captureSquare}
}

// NewCastleMove builds a Castle move for the given corner.
func NewCastleMove(piece Piece, from, to Square, corner Corner) Move {
	return Move{Kind: KindCastle, Piece: piece, From: from, To: to, Corner: corner, CaptureSquare: SqNone}
}

// NewPromoteMove builds a Promote move.
func NewPromoteMove(piece Piece, from, to Square, captured Piece, promotedClass PieceType) Move {
	return Move{Kind: KindPromote, Piece: piece, From: from, To: to, Captured: captured, PromotedClass: promotedClass, CaptureSquare: SqNone}
}

// IsNone reports whether m is the absent move.
func (m Move) IsNone() bool {
	return m.Kind == KindNone
}

// IsCapture reports whether applying m removes an enemy piece from the
// board, true for captures proper and en passant, never for Castle.
func (m Move) IsCapture() bool {
	return (m.Kind == KindNormal || m.Kind == KindPromote) && m.Captured != PieceNone || m.Kind == KindEnpassant
}

// IsPromotion reports whether m is a Promote move.
func (m Move) IsPromotion() bool {
	return m.Kind == KindPromote
}

// ValueOf returns the move generator's sort key for m.
func (m Move) ValueOf() Value {
	return Value(m.Value)
}

// SameAs reports whether m and other identify the same move on the
// board, ignoring the move generator's sort Value. Two moves built from
// independent generations - one carrying an MVV-LVA score, one a bare
// move parsed from UCI input or stored in a transposition entry -
// compare equal here even though Value differs.
func (m Move) SameAs(other Move) bool {
	m.Value = 0
	other.Value = 0
	return m == other
}

// SetValue stores the move generator's sort key on m.
func (m *Move) SetValue(v Value) {
	if assert.DEBUG {
		assert.Assert(v.IsValid() || v == ValueNA, "invalid move order value: %d", v)
	}
	m.Value = int16(v)
}

// IsValid checks structural validity: a recognized kind with valid
// squares for that kind. It does not check pseudo-legality against any
// position - callers must revalidate a stored move against the current
// board before applying it, since a transposition table entry may
// reference a move from an unrelated position after a hash collision.
func (m Move) IsValid() bool {
	if !m.Kind.IsValid() {
		return false
	}
	switch m.Kind {
	case KindNormal:
		return m.From.IsValid() && m.To.IsValid() && m.From != m.To
	case KindEnpassant:
		return m.From.IsValid() && m.To.IsValid() && m.CaptureSquare.IsValid() && m.From != m.To
	case KindCastle:
		return m.From.IsValid() && m.To.IsValid()
	case KindPromote:
		return m.From.IsValid() && m.To.IsValid() && m.PromotedClass.IsValid() && m.PromotedClass != King && m.PromotedClass != Pawn
	case KindNull:
		return true
	default:
		return false
	}
}

// StringUci renders m the way the universal chess protocol expects:
// "e2e4", "e7e8q", "e1g1" for a kingside castle, "0000" for the null
// move and for MoveNone.
func (m Move) StringUci() string {
	switch m.Kind {
	case KindNone:
		return "0000"
	case KindNull:
		return "0000"
	case KindPromote:
		return m.From.String() + m.To.String() + strings.ToLower(m.PromotedClass.Char())
	default:
		return m.From.String() + m.To.String()
	}
}

func (m Move) String() string {
	if m.Kind == KindNone {
		return "Move: { None }"
	}
	return fmt.Sprintf("Move: { %-5s kind:%s value:%d }", m.StringUci(), m.Kind.String(), m.Value)
}
