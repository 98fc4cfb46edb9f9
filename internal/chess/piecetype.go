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

// PieceType identifies a kind of chess piece, independent of color.
type PieceType uint8

const (
	PtNone   PieceType = 0
	King     PieceType = 1
	Pawn     PieceType = 2
	Knight   PieceType = 3
	Bishop   PieceType = 4
	Rook     PieceType = 5
	Queen    PieceType = 6
	PtLength PieceType = 7
)

// IsValid checks if pt is a valid, non-none piece type.
func (pt PieceType) IsValid() bool {
	return pt > PtNone && pt < PtLength
}

// IsSliding reports whether pieces of this type move along unobstructed rays.
func (pt PieceType) IsSliding() bool {
	return pt == Bishop || pt == Rook || pt == Queen
}

var gamePhaseValue = [PtLength]int{0, 0, 0, 1, 1, 2, 4}

// GamePhaseValue is the weight this piece type contributes to the
// game-phase counter used to blend midgame/endgame evaluation tables.
func (pt PieceType) GamePhaseValue() int {
	return gamePhaseValue[pt]
}

var pieceTypeValue = [PtLength]Value{0, 2000, 100, 320, 330, 500, 900}

// ValueOf returns the static material value of the piece type.
func (pt PieceType) ValueOf() Value {
	return pieceTypeValue[pt]
}

var pieceTypeToString = [PtLength]string{"NOPIECE", "King", "Pawn", "Knight", "Bishop", "Rook", "Queen"}

func (pt PieceType) String() string {
	return pieceTypeToString[pt]
}

const pieceTypeToChar = "-KPNBRQ"

// Char returns a single-character representation (K, P, N, B, R, Q).
func (pt PieceType) Char() string {
	return string(pieceTypeToChar[pt])
}
