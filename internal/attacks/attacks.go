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

// Package attacks computes and caches the attack/defend bitboards of a
// position - who attacks which square, per color, piece type and from
// square - for use by the evaluator (mobility) and the search package's
// static exchange evaluation.
package attacks

import (
	"github.com/op/go-logging"

	"github.com/corvidchess/corvid/internal/applog"
	. "github.com/corvidchess/corvid/internal/chess"
	"github.com/corvidchess/corvid/internal/position"
)

// Attacks is a data structure to store all attacks and defends of a position.
type Attacks struct {
	log *logging.Logger

	// the position key for which the attacks have been calculated
	Zobrist Key
	// bitboards of attacked/defended squares for each color and each from square
	// to get attackers use &^ ownPieces or & ownPieces for defenders
	From [ColorLength][SqLength]Bitboard
	// bitboards of attackers/defenders for each color and to square
	// to get attackers use &^ ownPieces or & ownPieces for defenders
	To [ColorLength][SqLength]Bitboard
	// bitboards for all attacked/defended squares of a color
	// to get attackers use &^ ownPieces or & ownPieces for defenders
	All [ColorLength]Bitboard
	// bitboards of attacked/defended squares for each color and each piece type
	// to get attackers use &^ ownPieces or & ownPieces for defenders
	Piece [ColorLength][PtLength]Bitboard
	// sum of possible moves for each color (moves to ownPieces already excluded)
	Mobility [ColorLength]int
	// pawn attacks - squares attacked by pawns of the given color
	Pawns [ColorLength]Bitboard
	// pawn double - squares which are attacked twice by pawns of the given color
	PawnsDouble [ColorLength]Bitboard
}

// NewAttacks creates a new instance of Attacks.
func NewAttacks() *Attacks {
	return &Attacks{
		log: applog.GetLog(),
	}
}

// Clear resets all fields of the Attacks instance without new
// allocation by looping through all fields. Considerably faster than
// creating a new instance on every ply.
func (a *Attacks) Clear() {
	a.Zobrist = 0
	for sq := 0; sq < SqLength; sq++ {
		a.From[White][sq] = BbZero
		a.From[Black][sq] = BbZero
		a.To[White][sq] = BbZero
		a.To[Black][sq] = BbZero
	}
	for pt := PtNone; pt < PtLength; pt++ {
		a.Piece[White][pt] = BbZero
		a.Piece[Black][pt] = BbZero
	}
	a.All[White] = BbZero
	a.All[Black] = BbZero
	a.Mobility[White] = 0
	a.Mobility[Black] = 0
	a.Pawns[White] = 0
	a.Pawns[Black] = 0
	a.PawnsDouble[White] = 0
	a.PawnsDouble[Black] = 0
}

// Compute calculates all attacks on the position and stores the
// position's zobrist key so a repeated call for the same position is a
// no-op.
func (a *Attacks) Compute(p *position.Position) {
	if p.ZobristKey() == a.Zobrist {
		a.log.Debugf("attacks compute: position was already computed")
		return
	}
	a.Clear()
	a.Zobrist = p.ZobristKey()
	a.nonPawnAttacks(p)
	a.pawnAttacks(p)
}

// nonPawnAttacks calculates all attacks of non pawn pieces including the king.
func (a *Attacks) nonPawnAttacks(p *position.Position) {
	ptList := [5]PieceType{King, Knight, Bishop, Rook, Queen}
	var attacks Bitboard
	allPieces := p.OccupiedAll()

	for c := White; c <= Black; c++ {
		myPieces := p.OccupiedBb(c)
		for _, pt := range ptList {
			for pieces := p.PiecesBb(c, pt); pieces != BbZero; {
				psq := pieces.PopLsb()
				attacks = GetAttacksBb(pt, psq, allPieces)
				a.From[c][psq] = attacks
				a.Piece[c][pt] |= attacks
				a.All[c] |= attacks
				tmp := attacks
				for tmp != BbZero {
					toSq := tmp.PopLsb()
					a.To[c][toSq].PushSquare(psq)
				}
				a.Mobility[c] += (attacks &^ myPieces).PopCount()
			}
		}
	}
}

// pawnAttacks calculates all attacked squares for pawns of both colors.
func (a *Attacks) pawnAttacks(p *position.Position) {
	a.Pawns[White] = ShiftBitboard(p.PiecesBb(White, Pawn), Northwest) | ShiftBitboard(p.PiecesBb(White, Pawn), Northeast)
	a.Pawns[Black] = ShiftBitboard(p.PiecesBb(Black, Pawn), Southwest) | ShiftBitboard(p.PiecesBb(Black, Pawn), Southeast)
	a.PawnsDouble[White] = ShiftBitboard(p.PiecesBb(White, Pawn), Northwest) & ShiftBitboard(p.PiecesBb(White, Pawn), Northeast)
	a.PawnsDouble[Black] = ShiftBitboard(p.PiecesBb(Black, Pawn), Southwest) & ShiftBitboard(p.PiecesBb(Black, Pawn), Southeast)
}

// AttacksTo determines all attacks to square by pieces of the given color.
func AttacksTo(p *position.Position, square Square, color Color) Bitboard {
	epAttacks := BbZero
	enPassantSquare := p.GetEnPassantSquare()
	if enPassantSquare != SqNone && enPassantSquare == square {
		pawnSquare := enPassantSquare.To(color.Flip().PawnPushDirection())
		neighbours := BbZero
		if w := pawnSquare.To(West); w != SqNone {
			neighbours.PushSquare(w)
		}
		if e := pawnSquare.To(East); e != SqNone {
			neighbours.PushSquare(e)
		}
		if neighbours&p.PiecesBb(color, Pawn) != BbZero {
			epAttacks |= pawnSquare.Bb()
		}
	}

	occupiedAll := p.OccupiedAll()

	// reverse approach: generate attacks from the target square for each
	// piece type, then intersect with that piece type's bitboard.
	return (GetPawnAttacks(color.Flip(), square) & p.PiecesBb(color, Pawn)) |
		(GetAttacksBb(Knight, square, occupiedAll) & p.PiecesBb(color, Knight)) |
		(GetAttacksBb(King, square, occupiedAll) & p.PiecesBb(color, King)) |
		(GetAttacksBb(Rook, square, occupiedAll) & (p.PiecesBb(color, Rook) | p.PiecesBb(color, Queen))) |
		(GetAttacksBb(Bishop, square, occupiedAll) & (p.PiecesBb(color, Bishop) | p.PiecesBb(color, Queen))) |
		epAttacks
}

// RevealedAttacks returns sliding attacks to square given an occupied
// bitboard with some piece(s) removed - used by SEE to find the attacks
// a capture uncovers. Only sliders can be revealed this way.
func RevealedAttacks(p *position.Position, square Square, occupied Bitboard, color Color) Bitboard {
	return (GetAttacksBb(Rook, square, occupied) & (p.PiecesBb(color, Rook) | p.PiecesBb(color, Queen)) & occupied) |
		(GetAttacksBb(Bishop, square, occupied) & (p.PiecesBb(color, Bishop) | p.PiecesBb(color, Queen)) & occupied)
}
