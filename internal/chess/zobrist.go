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

// Key is a Zobrist hash key identifying a chess position for the
// transposition table and repetition detection. It needs the full 64
// bits for a low collision rate.
type Key uint64

// zobrist holds one random key per (piece, square), one per castling
// rights vector, one per en passant file, and one for the side to move.
// A position's Key is the XOR of the keys for everything on the board,
// updated incrementally on every DoMove/UndoMove rather than recomputed
// from scratch.
type zobrist struct {
	pieces         [PieceLength][SqLength]Key
	castlingRights [CastlingRightsLength]Key
	enPassantFile  [FileLength]Key
	nextPlayer     Key
}

var zobristBase zobrist

func init() {
	r := newRandom(1070372)
	for pc := PieceNone; pc < PieceLength; pc++ {
		for sq := SqA1; sq < Square(SqLength); sq++ {
			zobristBase.pieces[pc][sq] = Key(r.rand64())
		}
	}
	for cr := CastlingNone; cr <= CastlingAny; cr++ {
		zobristBase.castlingRights[cr] = Key(r.rand64())
	}
	for f := FileA; f < FileLength; f++ {
		zobristBase.enPassantFile[f] = Key(r.rand64())
	}
	zobristBase.nextPlayer = Key(r.rand64())
}

// ZobristPiece returns the key contribution of piece pc standing on sq.
func ZobristPiece(pc Piece, sq Square) Key {
	return zobristBase.pieces[pc][sq]
}

// ZobristCastling returns the key contribution of a castling rights vector.
func ZobristCastling(cr CastlingRights) Key {
	return zobristBase.castlingRights[cr]
}

// ZobristEnPassant returns the key contribution of an en passant file.
func ZobristEnPassant(f File) Key {
	return zobristBase.enPassantFile[f]
}

// ZobristNextPlayer returns the key contribution toggled whenever the
// side to move changes.
func ZobristNextPlayer() Key {
	return zobristBase.nextPlayer
}
