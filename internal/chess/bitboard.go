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
	"math/bits"
	"strings"
)

// Bitboard is a 64 bit unsigned int with one bit per board square.
//
// Sliding-piece attacks are generated by scanning each of the piece's
// rays square by square until a board edge or an occupied square is
// hit, rather than via a magic-bitboard lookup. This trades a little
// raw speed for a table that needs no precomputed magic numbers and is
// obviously correct by construction.
type Bitboard uint64

const (
	BbZero Bitboard = 0
	BbOne  Bitboard = 1
	BbAll  Bitboard = 0xFFFFFFFFFFFFFFFF
)

var sqBb [SqLength]Bitboard
var fileBb [FileLength]Bitboard
var rankBb [RankLength]Bitboard

func init() {
	for sq := 0; sq < SqLength; sq++ {
		sqBb[sq] = Bitboard(1) << uint(sq)
	}
	for f := File(0); f < FileLength; f++ {
		var b Bitboard
		for r := Rank(0); r < RankLength; r++ {
			b |= SquareOf(f, r).Bb()
		}
		fileBb[f] = b
	}
	for r := Rank(0); r < RankLength; r++ {
		var b Bitboard
		for f := File(0); f < FileLength; f++ {
			b |= SquareOf(f, r).Bb()
		}
		rankBb[r] = b
	}
}

// Bb returns the single-bit bitboard for this square.
func (sq Square) Bb() Bitboard {
	return sqBb[sq]
}

// FileBb returns the bitboard of all squares on file f.
func FileBb(f File) Bitboard {
	return fileBb[f]
}

// RankBb returns the bitboard of all squares on rank r.
func RankBb(r Rank) Bitboard {
	return rankBb[r]
}

// PushSquare sets the bit for square s.
func PushSquare(b Bitboard, s Square) Bitboard {
	return b | s.Bb()
}

// PushSquare sets the bit for square s on the receiver.
func (b *Bitboard) PushSquare(s Square) Bitboard {
	*b |= s.Bb()
	return *b
}

// PopSquare clears the bit for square s.
func PopSquare(b Bitboard, s Square) Bitboard {
	return b &^ s.Bb()
}

// PopSquare clears the bit for square s on the receiver.
func (b *Bitboard) PopSquare(s Square) Bitboard {
	*b &^= s.Bb()
	return *b
}

// Has reports whether square s is set in b.
func (b Bitboard) Has(s Square) bool {
	return b&sqBb[s] != 0
}

// Lsb returns the least significant set square, or SqNone if b is empty.
func (b Bitboard) Lsb() Square {
	if b == 0 {
		return SqNone
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// Msb returns the most significant set square, or SqNone if b is empty.
func (b Bitboard) Msb() Square {
	if b == 0 {
		return SqNone
	}
	return Square(63 - bits.LeadingZeros64(uint64(b)))
}

// PopLsb clears and returns the least significant set square.
func (b *Bitboard) PopLsb() Square {
	sq := b.Lsb()
	if sq != SqNone {
		b.PopSquare(sq)
	}
	return sq
}

// PopCount returns the number of set bits.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// ShiftBitboard shifts every set bit of b by one square in direction d,
// clearing bits that would wrap across a file edge.
func ShiftBitboard(b Bitboard, d Direction) Bitboard {
	switch d {
	case North:
		return b << 8
	case South:
		return b >> 8
	case East:
		return (b &^ fileBb[FileH]) << 1
	case West:
		return (b &^ fileBb[FileA]) >> 1
	case Northeast:
		return (b &^ fileBb[FileH]) << 9
	case Southeast:
		return (b &^ fileBb[FileH]) >> 7
	case Southwest:
		return (b &^ fileBb[FileA]) >> 9
	case Northwest:
		return (b &^ fileBb[FileA]) << 7
	}
	return b
}

// rayAttacks scans from sq in direction d, stopping after including the
// first occupied square hit, and returns the union of the steps taken.
func rayAttacks(sq Square, d Direction, occupied Bitboard) Bitboard {
	var b Bitboard
	cur := sq
	for {
		next := cur.To(d)
		if next == SqNone {
			break
		}
		b |= next.Bb()
		if occupied.Has(next) {
			break
		}
		cur = next
	}
	return b
}

var bishopDirs = [4]Direction{Northeast, Southeast, Southwest, Northwest}
var rookDirs = [4]Direction{North, East, South, West}

// BishopAttacks returns the diagonal sliding attack set from sq given
// the board occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	var b Bitboard
	for _, d := range bishopDirs {
		b |= rayAttacks(sq, d, occupied)
	}
	return b
}

// RookAttacks returns the orthogonal sliding attack set from sq given
// the board occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	var b Bitboard
	for _, d := range rookDirs {
		b |= rayAttacks(sq, d, occupied)
	}
	return b
}

// QueenAttacks returns the combined diagonal and orthogonal attack set.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// GetAttacksBb returns the attack bitboard of a piece type from sq given
// the occupancy. Non-sliding piece types fall back to the precomputed
// pseudo-attack tables, ignoring occupied.
func GetAttacksBb(pt PieceType, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Bishop:
		return BishopAttacks(sq, occupied)
	case Rook:
		return RookAttacks(sq, occupied)
	case Queen:
		return QueenAttacks(sq, occupied)
	default:
		return GetPseudoAttacks(pt, sq)
	}
}

var knightAttacks [SqLength]Bitboard
var kingAttacks [SqLength]Bitboard
var pawnAttacks [ColorLength][SqLength]Bitboard

var knightSteps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}

func init() {
	for sq := Square(0); sq < Square(SqLength); sq++ {
		f, r := int(sq.FileOf()), int(sq.RankOf())

		var kn Bitboard
		for _, s := range knightSteps {
			nf, nr := f+s[0], r+s[1]
			if nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
				kn |= SquareOf(File(nf), Rank(nr)).Bb()
			}
		}
		knightAttacks[sq] = kn

		var ki Bitboard
		for _, d := range Directions {
			if to := sq.To(d); to != SqNone {
				ki |= to.Bb()
			}
		}
		kingAttacks[sq] = ki

		if to := sq.To(Northeast); to != SqNone {
			pawnAttacks[White][sq] |= to.Bb()
		}
		if to := sq.To(Northwest); to != SqNone {
			pawnAttacks[White][sq] |= to.Bb()
		}
		if to := sq.To(Southeast); to != SqNone {
			pawnAttacks[Black][sq] |= to.Bb()
		}
		if to := sq.To(Southwest); to != SqNone {
			pawnAttacks[Black][sq] |= to.Bb()
		}
	}
}

// GetPseudoAttacks returns the precomputed attack set of a non-sliding
// piece type (King, Knight) from sq, ignoring occupancy.
func GetPseudoAttacks(pt PieceType, sq Square) Bitboard {
	switch pt {
	case Knight:
		return knightAttacks[sq]
	case King:
		return kingAttacks[sq]
	default:
		return BbZero
	}
}

// GetPawnAttacks returns the pawn capture squares for a pawn of color c
// standing on sq.
func GetPawnAttacks(c Color, sq Square) Bitboard {
	return pawnAttacks[c][sq]
}

// Intermediate returns the bitboard of squares strictly between sq1 and
// sq2 along a shared rank, file, or diagonal. Empty if they don't share one.
func Intermediate(sq1, sq2 Square) Bitboard {
	if sq1 == sq2 {
		return BbZero
	}
	df := int(sq2.FileOf()) - int(sq1.FileOf())
	dr := int(sq2.RankOf()) - int(sq1.RankOf())
	var d Direction
	switch {
	case df == 0 && dr != 0:
		d = South
		if dr > 0 {
			d = North
		}
	case dr == 0 && df != 0:
		d = West
		if df > 0 {
			d = East
		}
	case df == dr:
		d = Southwest
		if df > 0 {
			d = Northeast
		}
	case df == -dr:
		d = Southeast
		if df > 0 {
			d = Southeast
		} else {
			d = Northwest
		}
	default:
		return BbZero
	}
	var b Bitboard
	cur := sq1.To(d)
	for cur != SqNone && cur != sq2 {
		b |= cur.Bb()
		cur = cur.To(d)
	}
	if cur != sq2 {
		return BbZero
	}
	return b
}

func (b Bitboard) String() string {
	return fmt.Sprintf("%064b", uint64(b))
}

// StringBoard renders the bitboard as an 8x8 grid, rank 8 first, with
// '1' for set squares and '0' for clear ones.
func (b Bitboard) StringBoard() string {
	var sb strings.Builder
	for r := Rank8; r.IsValid(); r-- {
		for f := FileA; f.IsValid(); f++ {
			if b.Has(SquareOf(f, r)) {
				sb.WriteString("1")
			} else {
				sb.WriteString("0")
			}
		}
		sb.WriteString("\n")
		if r == Rank1 {
			break
		}
	}
	return sb.String()
}

// StringGrouped returns the 64 bits grouped into bytes separated by
// dots, LSB to MSB (A1, B1, ... G8, H8), followed by the decimal value.
func (b Bitboard) StringGrouped() string {
	var sb strings.Builder
	for i := 0; i < 64; i++ {
		if i > 0 && i%8 == 0 {
			sb.WriteString(".")
		}
		if b&(BbOne<<uint(i)) != 0 {
			sb.WriteString("1")
		} else {
			sb.WriteString("0")
		}
	}
	sb.WriteString(fmt.Sprintf(" (%d)", b))
	return sb.String()
}
