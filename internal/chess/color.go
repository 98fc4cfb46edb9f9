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

import "fmt"

// Color represents one of the two sides in a chess game.
type Color uint8

const (
	White       Color = 0
	Black       Color = 1
	ColorLength int   = 2
)

// Flip returns the opposite color.
func (c Color) Flip() Color {
	return c ^ 1
}

// IsValid checks if c represents a valid color.
func (c Color) IsValid() bool {
	return c < 2
}

func (c Color) String() string {
	switch c {
	case White:
		return "w"
	case Black:
		return "b"
	default:
		panic(fmt.Sprintf("invalid color %d", c))
	}
}

var moveDirectionFactor = [2]int{1, -1}

// Direction returns +1 for White and -1 for Black, useful for
// sign-flipping evaluations computed from White's perspective.
func (c Color) Direction() int {
	return moveDirectionFactor[c]
}

var pawnDir = [2]Direction{North, South}

// PawnPushDirection returns the direction a pawn of this color advances.
func (c Color) PawnPushDirection() Direction {
	return pawnDir[c]
}

var promRank = [2]Rank{Rank8, Rank1}

// PromotionRank returns the rank on which a pawn of this color promotes.
func (c Color) PromotionRank() Rank {
	return promRank[c]
}

var pawnStartRank = [2]Rank{Rank2, Rank7}

// PawnStartRank returns the rank on which this color's pawns start.
func (c Color) PawnStartRank() Rank {
	return pawnStartRank[c]
}

var pawnDoubleRank = [2]Rank{Rank4, Rank5}

// PawnDoublePushRank returns the rank a pawn of this color lands on
// after a two-square opening push.
func (c Color) PawnDoublePushRank() Rank {
	return pawnDoubleRank[c]
}
