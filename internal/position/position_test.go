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

package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/corvidchess/corvid/internal/chess"
)

func TestNewPositionStartFen(t *testing.T) {
	p := NewPosition()
	assert.Equal(t, StartFen, p.StringFen())
	assert.Equal(t, White, p.NextPlayer())
	assert.Equal(t, CastlingAny, p.CastlingRights())
	assert.Equal(t, SqNone, p.GetEnPassantSquare())
	assert.Equal(t, WhiteKing, p.GetPiece(SqE1))
	assert.Equal(t, BlackKing, p.GetPiece(SqE8))
}

func TestNewPositionFenInvalid(t *testing.T) {
	_, err := NewPositionFen("not a fen at all")
	require.Error(t, err)
}

func TestNewPositionFenRoundtrip(t *testing.T) {
	fens := []string{
		StartFen,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
		"8/8/8/4k3/8/8/4K3/8 w - - 0 1",
	}
	for _, fen := range fens {
		p, err := NewPositionFen(fen)
		require.NoError(t, err)
		assert.Equal(t, fen, p.StringFen())
	}
}

func TestDoUndoNormalMove(t *testing.T) {
	p := NewPosition()
	key := p.ZobristKey()
	m := NewNormalMove(WhitePawn, SqE2, SqE4, PieceNone)
	p.DoMove(m)
	assert.Equal(t, PieceNone, p.GetPiece(SqE2))
	assert.Equal(t, WhitePawn, p.GetPiece(SqE4))
	assert.Equal(t, Black, p.NextPlayer())
	assert.Equal(t, SqE3, p.GetEnPassantSquare())
	assert.NotEqual(t, key, p.ZobristKey())
	p.UndoMove()
	assert.Equal(t, WhitePawn, p.GetPiece(SqE2))
	assert.Equal(t, PieceNone, p.GetPiece(SqE4))
	assert.Equal(t, White, p.NextPlayer())
	assert.Equal(t, SqNone, p.GetEnPassantSquare())
	assert.Equal(t, key, p.ZobristKey())
}

func TestDoUndoCapture(t *testing.T) {
	p, err := NewPositionFen("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	require.NoError(t, err)
	key := p.ZobristKey()
	m := NewNormalMove(WhitePawn, SqE4, SqD5, BlackPawn)
	p.DoMove(m)
	assert.Equal(t, WhitePawn, p.GetPiece(SqD5))
	assert.Equal(t, 0, p.HalfMoveClock())
	p.UndoMove()
	assert.Equal(t, BlackPawn, p.GetPiece(SqD5))
	assert.Equal(t, PieceNone, p.GetPiece(SqE4))
	assert.Equal(t, key, p.ZobristKey())
}

func TestDoUndoEnPassant(t *testing.T) {
	p, err := NewPositionFen("rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")
	require.NoError(t, err)
	key := p.ZobristKey()
	m := NewEnpassantMove(WhitePawn, SqE5, SqF6, SqF5, BlackPawn)
	assert.True(t, p.IsCapturingMove(m))
	p.DoMove(m)
	assert.Equal(t, WhitePawn, p.GetPiece(SqF6))
	assert.Equal(t, PieceNone, p.GetPiece(SqF5))
	assert.Equal(t, PieceNone, p.GetPiece(SqE5))
	p.UndoMove()
	assert.Equal(t, BlackPawn, p.GetPiece(SqF5))
	assert.Equal(t, WhitePawn, p.GetPiece(SqE5))
	assert.Equal(t, PieceNone, p.GetPiece(SqF6))
	assert.Equal(t, key, p.ZobristKey())
}

func TestDoUndoPromotion(t *testing.T) {
	p, err := NewPositionFen("8/4P1k1/8/8/8/8/6K1/8 w - - 0 1")
	require.NoError(t, err)
	key := p.ZobristKey()
	m := NewPromoteMove(WhitePawn, SqE7, SqE8, PieceNone, Queen)
	p.DoMove(m)
	assert.Equal(t, WhiteQueen, p.GetPiece(SqE8))
	assert.Equal(t, PieceNone, p.GetPiece(SqE7))
	p.UndoMove()
	assert.Equal(t, WhitePawn, p.GetPiece(SqE7))
	assert.Equal(t, PieceNone, p.GetPiece(SqE8))
	assert.Equal(t, key, p.ZobristKey())
}

func TestDoUndoCastling(t *testing.T) {
	p, err := NewPositionFen("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	key := p.ZobristKey()
	m := NewCastleMove(WhiteKing, SqE1, SqG1, CornerWhiteKingside)
	p.DoMove(m)
	assert.Equal(t, WhiteKing, p.GetPiece(SqG1))
	assert.Equal(t, WhiteRook, p.GetPiece(SqF1))
	assert.Equal(t, PieceNone, p.GetPiece(SqE1))
	assert.Equal(t, PieceNone, p.GetPiece(SqH1))
	assert.False(t, p.CastlingRights().Has(WhiteKingside))
	assert.False(t, p.CastlingRights().Has(WhiteQueenside))
	p.UndoMove()
	assert.Equal(t, WhiteKing, p.GetPiece(SqE1))
	assert.Equal(t, WhiteRook, p.GetPiece(SqH1))
	assert.Equal(t, key, p.ZobristKey())
}

func TestCastlingRightsRevokedByRookMove(t *testing.T) {
	p, err := NewPositionFen("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	m := NewNormalMove(WhiteRook, SqA1, SqB1, PieceNone)
	p.DoMove(m)
	assert.False(t, p.CastlingRights().Has(WhiteQueenside))
	assert.True(t, p.CastlingRights().Has(WhiteKingside))
}

func TestDoNullMove(t *testing.T) {
	p := NewPosition()
	key := p.ZobristKey()
	p.DoNullMove()
	assert.Equal(t, Black, p.NextPlayer())
	p.UndoNullMove()
	assert.Equal(t, White, p.NextPlayer())
	assert.Equal(t, key, p.ZobristKey())
}

func TestIsAttacked(t *testing.T) {
	p, err := NewPositionFen("rnbqkbnr/pppp1ppp/8/4p3/8/5N2/PPPPPPPP/RNBQKB1R b KQkq - 2 2")
	require.NoError(t, err)
	assert.True(t, p.IsAttacked(SqE5, White))
	assert.False(t, p.IsAttacked(SqE4, White))
}

func TestHasCheck(t *testing.T) {
	p, err := NewPositionFen("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.NoError(t, err)
	assert.True(t, p.HasCheck())
}

func TestHasInsufficientMaterial(t *testing.T) {
	p, err := NewPositionFen("8/8/8/4k3/8/8/4K3/8 w - - 0 1")
	require.NoError(t, err)
	assert.True(t, p.HasInsufficientMaterial())

	p2 := NewPosition()
	assert.False(t, p2.HasInsufficientMaterial())
}

func TestCheckRepetitions(t *testing.T) {
	p := NewPosition()
	knightOut := NewNormalMove(WhiteKnight, SqG1, SqF3, PieceNone)
	knightBack := NewNormalMove(WhiteKnight, SqF3, SqG1, PieceNone)
	blackOut := NewNormalMove(BlackKnight, SqG8, SqF6, PieceNone)
	blackBack := NewNormalMove(BlackKnight, SqF6, SqG8, PieceNone)

	assert.False(t, p.CheckRepetitions(2))
	p.DoMove(knightOut)
	p.DoMove(blackOut)
	p.DoMove(knightBack)
	p.DoMove(blackBack)
	// one repetition of the start position so far
	assert.False(t, p.CheckRepetitions(2))
	p.DoMove(knightOut)
	p.DoMove(blackOut)
	p.DoMove(knightBack)
	p.DoMove(blackBack)
	// second repetition -> three-fold (reps=2 means "2 earlier occurrences")
	assert.True(t, p.CheckRepetitions(2))
}

func TestGivesCheck(t *testing.T) {
	p, err := NewPositionFen("4k3/8/8/8/8/8/R7/4K3 w - - 0 1")
	require.NoError(t, err)
	m := NewNormalMove(WhiteRook, SqA2, SqA8, PieceNone)
	assert.True(t, p.GivesCheck(m))
}

func TestLastMoveAndCapture(t *testing.T) {
	p := NewPosition()
	assert.Equal(t, MoveNone, p.LastMove())
	assert.False(t, p.WasCapturingMove())
	m := NewNormalMove(WhitePawn, SqE2, SqE4, PieceNone)
	p.DoMove(m)
	assert.Equal(t, m, p.LastMove())
	assert.False(t, p.WasCapturingMove())
}
