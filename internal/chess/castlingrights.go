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

import "strings"

// CastlingRights is a 4-bit vector, one bit per corner: white kingside,
// white queenside, black kingside, black queenside.
type CastlingRights uint8

const (
	CastlingNone CastlingRights = 0

	WhiteKingside  CastlingRights = 1
	WhiteQueenside CastlingRights = 2
	BlackKingside  CastlingRights = 4
	BlackQueenside CastlingRights = 8

	CastlingWhite CastlingRights = WhiteKingside | WhiteQueenside
	CastlingBlack CastlingRights = BlackKingside | BlackQueenside
	CastlingAny   CastlingRights = CastlingWhite | CastlingBlack

	// CastlingRightsLength sizes zobrist/history tables indexed by the
	// full CastlingRights bit vector (0..CastlingAny inclusive).
	CastlingRightsLength = CastlingAny + 1
)

// Corner identifies one of the four castling corners, used by the
// Castle move variant.
type Corner uint8

const (
	CornerWhiteKingside Corner = iota
	CornerWhiteQueenside
	CornerBlackKingside
	CornerBlackQueenside
)

var cornerRight = [4]CastlingRights{WhiteKingside, WhiteQueenside, BlackKingside, BlackQueenside}

// Right returns the single-bit CastlingRights value for this corner.
func (c Corner) Right() CastlingRights {
	return cornerRight[c]
}

// Has reports whether cr holds at least one of the rights in rhs.
func (cr CastlingRights) Has(rhs CastlingRights) bool {
	return cr&rhs != 0
}

// Remove clears rhs from cr and returns the new value.
func (cr *CastlingRights) Remove(rhs CastlingRights) CastlingRights {
	*cr &^= rhs
	return *cr
}

// Add sets rhs on cr and returns the new value.
func (cr *CastlingRights) Add(rhs CastlingRights) CastlingRights {
	*cr |= rhs
	return *cr
}

func (cr CastlingRights) String() string {
	if cr == CastlingNone {
		return "-"
	}
	var b strings.Builder
	if cr.Has(WhiteKingside) {
		b.WriteString("K")
	}
	if cr.Has(WhiteQueenside) {
		b.WriteString("Q")
	}
	if cr.Has(BlackKingside) {
		b.WriteString("k")
	}
	if cr.Has(BlackQueenside) {
		b.WriteString("q")
	}
	return b.String()
}
