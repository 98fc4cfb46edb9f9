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

// CenterSquares is the four central squares (d4, e4, d5, e5), used by
// the evaluator to reward pieces that bear on the center.
var CenterSquares Bitboard

var kingSideCastleMask [ColorLength]Bitboard
var queenSideCastleMask [ColorLength]Bitboard
var squaresBb [ColorLength]Bitboard

func init() {
	CenterSquares = SqD4.Bb() | SqE4.Bb() | SqD5.Bb() | SqE5.Bb()

	kingSideCastleMask[White] = SqF1.Bb() | SqG1.Bb() | SqH1.Bb()
	kingSideCastleMask[Black] = SqF8.Bb() | SqG8.Bb() | SqH8.Bb()
	queenSideCastleMask[White] = SqD1.Bb() | SqC1.Bb() | SqB1.Bb() | SqA1.Bb()
	queenSideCastleMask[Black] = SqD8.Bb() | SqC8.Bb() | SqB8.Bb() | SqA8.Bb()

	for sq := SqA1; sq <= SqH8; sq++ {
		f := sq.FileOf()
		r := sq.RankOf()
		if (int(f)+int(r))%2 == 0 {
			squaresBb[Black] |= sq.Bb()
		} else {
			squaresBb[White] |= sq.Bb()
		}
	}
}

// KingSideCastleMask returns the kingside rook/king transit squares for
// c, excluding the king's home square.
func KingSideCastleMask(c Color) Bitboard {
	return kingSideCastleMask[c]
}

// QueenSideCastMask returns the queenside rook/king transit squares for
// c, excluding the king's home square.
func QueenSideCastMask(c Color) Bitboard {
	return queenSideCastleMask[c]
}

// SquaresBb returns every square of board color c - light squares for
// White, dark squares for Black - handy for bishop-pair and draw-detection
// heuristics.
func SquaresBb(c Color) Bitboard {
	return squaresBb[c]
}
