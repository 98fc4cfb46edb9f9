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

// MaxMoves bounds how many plies of history a single game can carry -
// used to size the position's undo stack.
const MaxMoves = 512

const (
	KB uint64 = 1024
	MB uint64 = KB * KB
	GB uint64 = KB * MB
)

var castlingRightsMask [SqLength]CastlingRights

func init() {
	castlingRightsMask[SqE1] = CastlingWhite
	castlingRightsMask[SqA1] = WhiteQueenside
	castlingRightsMask[SqH1] = WhiteKingside
	castlingRightsMask[SqE8] = CastlingBlack
	castlingRightsMask[SqA8] = BlackQueenside
	castlingRightsMask[SqH8] = BlackKingside
}

// GetCastlingRights returns which castling right(s), if any, are lost
// the moment a piece moves to or from sq - the king's home square
// revokes both rights for its color, a rook's home square revokes the
// one right on its side.
func GetCastlingRights(sq Square) CastlingRights {
	return castlingRightsMask[sq]
}
