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

// Package position represents data structures and functions for a chess board
// and its position.
// It uses an 8x8 piece board and bitboards, a stack for undo moves, zobrist
// keys for transposition tables, and material and positional value counters.
//
// Create a new instance with NewPosition(...) to get the chess start
// position, or NewPositionFen(fen) for an arbitrary position.
package position

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/op/go-logging"

	"github.com/corvidchess/corvid/internal/applog"
	"github.com/corvidchess/corvid/internal/assert"
	. "github.com/corvidchess/corvid/internal/chess"
)

var log *logging.Logger

const (
	// StartFen is the FEN of the standard chess starting position.
	StartFen string = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// Position represents the chess board and its position: an 8x8 piece
// board and bitboards, a stack for undo moves, a zobrist key for
// transposition tables, piece lists, and material/positional value
// counters.
//
// Create with NewPosition() or NewPositionFen(fen).
type Position struct {
	zobristKey Key

	board           [SqLength]Piece
	castlingRights  CastlingRights
	enPassantSquare Square
	halfMoveClock   int
	nextPlayer      Color

	kingSquare         [ColorLength]Square
	nextHalfMoveNumber int
	piecesBb           [ColorLength][PtLength]Bitboard
	occupiedBb         [ColorLength]Bitboard

	historyCounter int
	history        [maxHistory]historyState

	material        [ColorLength]Value
	materialNonPawn [ColorLength]Value
	psqMidValue     [ColorLength]Value
	psqEndValue     [ColorLength]Value
	gamePhase       int

	hasCheckFlag int
}

type historyState struct {
	zobristKey      Key
	move            Move
	fromPiece       Piece
	capturedPiece   Piece
	castlingRights  CastlingRights
	enpassantSquare Square
	halfMoveClock   int
	hasCheckFlag    int
}

const maxHistory int = MaxMoves

const (
	flagTBD   int = 0
	flagFalse int = 1
	flagTrue  int = 2
)

// NewPosition creates a new position. With no argument the position is
// the standard starting position; with a FEN argument it builds that
// position. Additional arguments are ignored.
func NewPosition(fen ...string) *Position {
	if len(fen) == 0 {
		p, _ := NewPositionFen(StartFen)
		return p
	}
	p, _ := NewPositionFen(fen[0])
	return p
}

// NewPositionFen creates a position from the given FEN string. Returns
// nil and an error if the FEN is invalid.
func NewPositionFen(fen string) (*Position, error) {
	if log == nil {
		log = applog.GetLog()
	}
	p := &Position{}
	if e := p.setupBoard(fen); e != nil {
		log.Errorf("fen for position setup not valid and position can't be created: %s", e)
		return nil, e
	}
	return p, nil
}

// DoMove commits a move to the board. For performance there is no
// legality check - the move must already be known pseudo-legal, e.g.
// because it came from the move generator or was revalidated with
// ValidateMove. Legality (king safety) is checked separately via
// IsLegalMove/WasLegalMove.
func (p *Position) DoMove(m Move) {
	fromSq := m.From
	fromPc := p.board[fromSq]
	myColor := fromPc.ColorOf()
	toSq := m.To
	targetPc := p.board[toSq]

	if assert.DEBUG {
		assert.Assert(m.IsValid(), "Position DoMove: invalid move %s", m.String())
		assert.Assert(fromPc != PieceNone, "Position DoMove: no piece on %s for move %s", fromSq.String(), m.StringUci())
		assert.Assert(myColor == p.nextPlayer, "Position DoMove: piece to move does not belong to next player %s", fromPc.String())
		assert.Assert(targetPc.TypeOf() != King, "Position DoMove: king cannot be captured, target piece is %s", targetPc.String())
	}

	tmpHistoryCounter := p.historyCounter
	p.history[tmpHistoryCounter].zobristKey = p.zobristKey
	p.history[tmpHistoryCounter].move = m
	p.history[tmpHistoryCounter].fromPiece = fromPc
	p.history[tmpHistoryCounter].capturedPiece = targetPc
	p.history[tmpHistoryCounter].castlingRights = p.castlingRights
	p.history[tmpHistoryCounter].enpassantSquare = p.enPassantSquare
	p.history[tmpHistoryCounter].halfMoveClock = p.halfMoveClock
	p.history[tmpHistoryCounter].hasCheckFlag = p.hasCheckFlag
	p.historyCounter++

	switch m.Kind {
	case KindNormal:
		p.doNormalMove(fromSq, toSq, targetPc, fromPc, myColor)
	case KindPromote:
		p.doPromotionMove(m, fromPc, myColor, toSq, targetPc, fromSq)
	case KindEnpassant:
		p.doEnPassantMove(toSq, myColor, fromPc, fromSq)
	case KindCastle:
		p.doCastlingMove(fromPc, myColor, toSq, fromSq)
	}

	p.hasCheckFlag = flagTBD
	p.nextHalfMoveNumber++
	p.nextPlayer = p.nextPlayer.Flip()
	p.zobristKey ^= ZobristNextPlayer()
}

// UndoMove resets the position to the state it was in before the last
// move was made.
func (p *Position) UndoMove() {
	if assert.DEBUG {
		assert.Assert(p.historyCounter > 0, "Position UndoMove: cannot undo the initial position")
	}

	p.historyCounter--
	p.nextHalfMoveNumber--
	p.nextPlayer = p.nextPlayer.Flip()
	tmpHistoryCounter := p.historyCounter
	move := p.history[p.historyCounter].move

	switch move.Kind {
	case KindNormal:
		p.movePiece(move.To, move.From)
		if p.history[p.historyCounter].capturedPiece != PieceNone {
			p.putPiece(p.history[p.historyCounter].capturedPiece, move.To)
		}
	case KindPromote:
		p.removePiece(move.To)
		p.putPiece(MakePiece(p.nextPlayer, Pawn), move.From)
		if p.history[p.historyCounter].capturedPiece != PieceNone {
			p.putPiece(p.history[p.historyCounter].capturedPiece, move.To)
		}
	case KindEnpassant:
		p.movePiece(move.To, move.From)
		p.putPiece(MakePiece(p.nextPlayer.Flip(), Pawn), move.CaptureSquare)
	case KindCastle:
		p.movePiece(move.To, move.From) // King
		switch move.To {
		case SqG1:
			p.movePiece(SqF1, SqH1) // Rook
		case SqC1:
			p.movePiece(SqD1, SqA1) // Rook
		case SqG8:
			p.movePiece(SqF8, SqH8) // Rook
		case SqC8:
			p.movePiece(SqD8, SqA8) // Rook
		default:
			panic("Position UndoMove: invalid castle move")
		}
	}

	p.castlingRights = p.history[tmpHistoryCounter].castlingRights
	p.enPassantSquare = p.history[tmpHistoryCounter].enpassantSquare
	p.halfMoveClock = p.history[tmpHistoryCounter].halfMoveClock
	p.hasCheckFlag = p.history[tmpHistoryCounter].hasCheckFlag
	p.zobristKey = p.history[tmpHistoryCounter].zobristKey
}

// DoNullMove is used by null-move pruning. The board stays unchanged
// but the side to move flips. The state before the null move is saved
// to history the same way a real move would be, so UndoNullMove
// restores it exactly.
func (p *Position) DoNullMove() {
	tmpHistoryCounter := p.historyCounter
	p.history[tmpHistoryCounter].zobristKey = p.zobristKey
	p.history[tmpHistoryCounter].move = NullMove
	p.history[tmpHistoryCounter].fromPiece = PieceNone
	p.history[tmpHistoryCounter].capturedPiece = PieceNone
	p.history[tmpHistoryCounter].castlingRights = p.castlingRights
	p.history[tmpHistoryCounter].enpassantSquare = p.enPassantSquare
	p.history[tmpHistoryCounter].halfMoveClock = p.halfMoveClock
	p.history[tmpHistoryCounter].hasCheckFlag = p.hasCheckFlag
	p.historyCounter++

	p.hasCheckFlag = flagTBD
	p.clearEnPassant()
	p.nextHalfMoveNumber++
	p.nextPlayer = p.nextPlayer.Flip()
	p.zobristKey ^= ZobristNextPlayer()
}

// UndoNullMove restores the state from before the matching DoNullMove.
func (p *Position) UndoNullMove() {
	p.historyCounter--
	p.nextHalfMoveNumber--
	p.nextPlayer = p.nextPlayer.Flip()
	tmpHistoryCounter := p.historyCounter
	p.castlingRights = p.history[tmpHistoryCounter].castlingRights
	p.enPassantSquare = p.history[tmpHistoryCounter].enpassantSquare
	p.halfMoveClock = p.history[tmpHistoryCounter].halfMoveClock
	p.hasCheckFlag = p.history[tmpHistoryCounter].hasCheckFlag
	p.zobristKey = p.history[tmpHistoryCounter].zobristKey
}

// IsAttacked checks if sq is attacked by a piece of color by.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	if (GetPawnAttacks(by.Flip(), sq)&p.piecesBb[by][Pawn] != 0) ||
		(GetPseudoAttacks(Knight, sq)&p.piecesBb[by][Knight] != 0) ||
		(GetPseudoAttacks(King, sq)&p.piecesBb[by][King] != 0) {
		return true
	}

	if GetAttacksBb(Bishop, sq, p.OccupiedAll())&p.piecesBb[by][Bishop] > 0 ||
		GetAttacksBb(Rook, sq, p.OccupiedAll())&p.piecesBb[by][Rook] > 0 ||
		GetAttacksBb(Queen, sq, p.OccupiedAll())&p.piecesBb[by][Queen] > 0 {
		return true
	}

	if p.enPassantSquare != SqNone {
		switch by {
		case White:
			if p.board[p.enPassantSquare.To(South)] == BlackPawn && p.enPassantSquare.To(South) == sq {
				if p.board[sq.To(West)] == WhitePawn {
					return true
				}
				return p.board[sq.To(East)] == WhitePawn
			}
		case Black:
			if p.board[p.enPassantSquare.To(North)] == WhitePawn && p.enPassantSquare.To(North) == sq {
				if p.board[sq.To(West)] == BlackPawn {
					return true
				}
				return p.board[sq.To(East)] == BlackPawn
			}
		}
	}
	return false
}

// IsLegalMove tests whether move is legal on the current position:
// the king must not be left in check, and during castling the king
// must not cross an attacked square.
func (p *Position) IsLegalMove(move Move) bool {
	if move.Kind == KindCastle {
		if p.IsAttacked(move.From, p.nextPlayer.Flip()) {
			return false
		}
		switch move.To {
		case SqG1:
			if p.IsAttacked(SqF1, p.nextPlayer.Flip()) {
				return false
			}
		case SqC1:
			if p.IsAttacked(SqD1, p.nextPlayer.Flip()) {
				return false
			}
		case SqG8:
			if p.IsAttacked(SqF8, p.nextPlayer.Flip()) {
				return false
			}
		case SqC8:
			if p.IsAttacked(SqD8, p.nextPlayer.Flip()) {
				return false
			}
		}
	}
	p.DoMove(move)
	legal := !p.IsAttacked(p.kingSquare[p.nextPlayer.Flip()], p.nextPlayer)
	p.UndoMove()
	return legal
}

// WasLegalMove tests whether the last move made was legal: the moving
// side's king must not now be in check, and if the last move was a
// castle, the king must not have crossed an attacked square. With an
// empty history this only checks whether the opponent's king is
// currently attacked.
func (p *Position) WasLegalMove() bool {
	if p.IsAttacked(p.kingSquare[p.nextPlayer.Flip()], p.nextPlayer) {
		return false
	}
	if p.historyCounter > 0 {
		move := p.history[p.historyCounter-1].move
		if move.Kind == KindCastle {
			if p.IsAttacked(move.From, p.nextPlayer) {
				return false
			}
			switch move.To {
			case SqG1:
				if p.IsAttacked(SqF1, p.nextPlayer) {
					return false
				}
			case SqC1:
				if p.IsAttacked(SqD1, p.nextPlayer) {
					return false
				}
			case SqG8:
				if p.IsAttacked(SqF8, p.nextPlayer) {
					return false
				}
			case SqC8:
				if p.IsAttacked(SqD8, p.nextPlayer) {
					return false
				}
			}
		}
	}
	return true
}

// HasCheck reports whether the next player is in check. The result is
// cached for the current position, so repeated calls are cheap.
func (p *Position) HasCheck() bool {
	if p.hasCheckFlag != flagTBD {
		return p.hasCheckFlag == flagTrue
	}
	check := p.IsAttacked(p.kingSquare[p.nextPlayer], p.nextPlayer.Flip())
	if check {
		p.hasCheckFlag = flagTrue
	} else {
		p.hasCheckFlag = flagFalse
	}
	return check
}

// IsCapturingMove reports whether move captures a piece on this
// position, including en passant.
func (p *Position) IsCapturingMove(move Move) bool {
	return p.occupiedBb[p.nextPlayer.Flip()].Has(move.To) || move.Kind == KindEnpassant
}

// CheckRepetitions reports whether the current position has occurred
// reps times earlier in the game's history (so reps=2 tests for a
// 3-fold repetition including the current occurrence).
func (p *Position) CheckRepetitions(reps int) bool {
	counter := 0
	i := p.historyCounter - 2
	lastHalfMove := p.halfMoveClock
	for i >= 0 {
		if p.history[i].halfMoveClock >= lastHalfMove {
			break
		}
		lastHalfMove = p.history[i].halfMoveClock
		if p.zobristKey == p.history[i].zobristKey {
			counter++
		}
		if counter >= reps {
			return true
		}
		i -= 2
	}
	return false
}

// HasInsufficientMaterial reports whether neither side has enough
// material to force a mate. This does not exclude positions where a
// helpmate is possible if the opponent cooperates.
func (p *Position) HasInsufficientMaterial() bool {
	if p.material[White]+p.material[Black] == 0 {
		return true
	}
	if p.piecesBb[White][Pawn].PopCount() == 0 && p.piecesBb[Black][Pawn].PopCount() == 0 {
		if p.materialNonPawn[White] < 400 && p.materialNonPawn[Black] < 400 {
			return true
		}
		if (p.materialNonPawn[White] == 2*Knight.ValueOf() && p.materialNonPawn[Black] <= Bishop.ValueOf()) ||
			(p.materialNonPawn[Black] == 2*Knight.ValueOf() && p.materialNonPawn[White] <= Bishop.ValueOf()) {
			return true
		}
		if (p.materialNonPawn[White] == 2*Bishop.ValueOf() && p.materialNonPawn[Black] == Bishop.ValueOf()) ||
			(p.materialNonPawn[Black] == 2*Bishop.ValueOf() && p.materialNonPawn[White] == Bishop.ValueOf()) {
			return true
		}
		if p.materialNonPawn[White] == 2*Bishop.ValueOf() || p.materialNonPawn[Black] == 2*Bishop.ValueOf() {
			return false
		}
		if (p.materialNonPawn[White] < 2*Bishop.ValueOf() && p.materialNonPawn[Black] <= Bishop.ValueOf()) ||
			(p.materialNonPawn[White] <= Bishop.ValueOf() && p.materialNonPawn[Black] < 2*Bishop.ValueOf()) {
			return true
		}
	}
	return false
}

// GivesCheck reports whether playing move would give check to the
// opponent of the side to move.
func (p *Position) GivesCheck(move Move) bool {
	us := p.nextPlayer
	them := us.Flip()
	kingSq := p.kingSquare[them]

	fromSq := move.From
	toSq := move.To
	fromPc := p.board[fromSq]
	fromPt := fromPc.TypeOf()
	epTargetSq := SqNone

	switch move.Kind {
	case KindPromote:
		fromPt = move.PromotedClass
	case KindCastle:
		fromPt = Rook
		switch toSq {
		case SqG1:
			toSq = SqF1
		case SqC1:
			toSq = SqD1
		case SqG8:
			toSq = SqF8
		case SqC8:
			toSq = SqD8
		}
	case KindEnpassant:
		epTargetSq = move.CaptureSquare
	}

	boardAfterMove := p.OccupiedAll()
	boardAfterMove.PopSquare(fromSq)
	boardAfterMove.PushSquare(toSq)
	if move.Kind == KindEnpassant {
		boardAfterMove.PopSquare(epTargetSq)
	}

	switch fromPt {
	case Pawn:
		if GetPawnAttacks(us, toSq).Has(kingSq) {
			return true
		}
	case King:
		// a king can never give direct check
	default:
		if GetAttacksBb(fromPt, toSq, boardAfterMove).Has(kingSq) {
			return true
		}
	}

	switch {
	case GetAttacksBb(Bishop, kingSq, boardAfterMove)&p.piecesBb[us][Bishop] > 0:
		return true
	case GetAttacksBb(Rook, kingSq, boardAfterMove)&p.piecesBb[us][Rook] > 0:
		return true
	case GetAttacksBb(Queen, kingSq, boardAfterMove)&p.piecesBb[us][Queen] > 0:
		return true
	}

	return false
}

func (p *Position) String() string {
	var os strings.Builder
	os.WriteString(p.StringFen())
	os.WriteString("\n")
	os.WriteString(p.StringBoard())
	os.WriteString("\n")
	os.WriteString(fmt.Sprintf("Next Player    : %s\n", p.nextPlayer.String()))
	os.WriteString(fmt.Sprintf("Game Phase     : %d\n", p.gamePhase))
	os.WriteString(fmt.Sprintf("Material White : %d\n", p.material[White]))
	os.WriteString(fmt.Sprintf("Material Black : %d\n", p.material[Black]))
	os.WriteString(fmt.Sprintf("Pos value White: %d/%d\n", p.psqMidValue[White], p.psqEndValue[White]))
	os.WriteString(fmt.Sprintf("Pos value Black: %d/%d\n", p.psqMidValue[Black], p.psqEndValue[Black]))
	return os.String()
}

// StringFen returns the FEN of the current position.
func (p *Position) StringFen() string {
	return p.fen()
}

// StringBoard returns an 8x8 ASCII-art board matrix.
func (p *Position) StringBoard() string {
	var os strings.Builder
	os.WriteString("+---+---+---+---+---+---+---+---+\n")
	for r := Rank1; r <= Rank8; r++ {
		for f := FileA; f <= FileH; f++ {
			os.WriteString("| ")
			os.WriteString(p.board[SquareOf(f, Rank8-r)].Char())
			os.WriteString(" ")
		}
		os.WriteString("|\n+---+---+---+---+---+---+---+---+\n")
	}
	return os.String()
}

func (p *Position) doNormalMove(fromSq, toSq Square, targetPc, fromPc Piece, myColor Color) {
	if p.castlingRights != CastlingNone {
		cr := GetCastlingRights(fromSq) | GetCastlingRights(toSq)
		if cr != CastlingNone {
			p.zobristKey ^= ZobristCastling(p.castlingRights) // out
			p.castlingRights.Remove(cr)
			p.zobristKey ^= ZobristCastling(p.castlingRights) // in
		}
	}
	p.clearEnPassant()
	if targetPc != PieceNone {
		p.removePiece(toSq)
		p.halfMoveClock = 0
	} else if fromPc.TypeOf() == Pawn {
		p.halfMoveClock = 0
		if SquareDistance(fromSq, toSq) == 2 {
			p.enPassantSquare = toSq.To(myColor.Flip().PawnPushDirection())
			p.zobristKey ^= ZobristEnPassant(p.enPassantSquare.FileOf())
		}
	} else {
		p.halfMoveClock++
	}
	p.movePiece(fromSq, toSq)
}

func (p *Position) doCastlingMove(fromPc Piece, myColor Color, toSq, fromSq Square) {
	if assert.DEBUG {
		assert.Assert(fromPc == MakePiece(myColor, King), "Position DoMove: castling move but from piece not king")
	}
	switch toSq {
	case SqG1:
		p.movePiece(fromSq, toSq)
		p.movePiece(SqH1, SqF1)
		p.zobristKey ^= ZobristCastling(p.castlingRights)
		p.castlingRights.Remove(CastlingWhite)
		p.zobristKey ^= ZobristCastling(p.castlingRights)
	case SqC1:
		p.movePiece(fromSq, toSq)
		p.movePiece(SqA1, SqD1)
		p.zobristKey ^= ZobristCastling(p.castlingRights)
		p.castlingRights.Remove(CastlingWhite)
		p.zobristKey ^= ZobristCastling(p.castlingRights)
	case SqG8:
		p.movePiece(fromSq, toSq)
		p.movePiece(SqH8, SqF8)
		p.zobristKey ^= ZobristCastling(p.castlingRights)
		p.castlingRights.Remove(CastlingBlack)
		p.zobristKey ^= ZobristCastling(p.castlingRights)
	case SqC8:
		p.movePiece(fromSq, toSq)
		p.movePiece(SqA8, SqD8)
		p.zobristKey ^= ZobristCastling(p.castlingRights)
		p.castlingRights.Remove(CastlingBlack)
		p.zobristKey ^= ZobristCastling(p.castlingRights)
	default:
		panic("Position DoMove: invalid castle move")
	}
	p.clearEnPassant()
	p.halfMoveClock++
}

func (p *Position) doEnPassantMove(toSq Square, myColor Color, fromPc Piece, fromSq Square) {
	capSq := toSq.To(myColor.Flip().PawnPushDirection())
	if assert.DEBUG {
		assert.Assert(fromPc == MakePiece(myColor, Pawn), "Position DoMove: en passant move but from piece not pawn")
		assert.Assert(p.enPassantSquare != SqNone, "Position DoMove: en passant move type without en passant square set")
		assert.Assert(p.board[capSq] == MakePiece(myColor.Flip(), Pawn), "Position DoMove: captured en passant piece invalid")
	}
	p.removePiece(capSq)
	p.movePiece(fromSq, toSq)
	p.clearEnPassant()
	p.halfMoveClock = 0
}

func (p *Position) doPromotionMove(m Move, fromPc Piece, myColor Color, toSq Square, targetPc Piece, fromSq Square) {
	if assert.DEBUG {
		assert.Assert(fromPc == MakePiece(myColor, Pawn), "Position DoMove: promotion move but from piece not pawn")
		assert.Assert(myColor.PromotionRank().Bb().Has(toSq), "Position DoMove: promotion move but wrong rank")
	}
	if targetPc != PieceNone {
		p.removePiece(toSq)
	}
	if p.castlingRights != CastlingNone {
		cr := GetCastlingRights(fromSq) | GetCastlingRights(toSq)
		if cr != CastlingNone {
			p.zobristKey ^= ZobristCastling(p.castlingRights)
			p.castlingRights.Remove(cr)
			p.zobristKey ^= ZobristCastling(p.castlingRights)
		}
	}
	p.removePiece(fromSq)
	p.putPiece(MakePiece(myColor, m.PromotedClass), toSq)
	p.clearEnPassant()
	p.halfMoveClock = 0
}

func (p *Position) movePiece(fromSq, toSq Square) {
	p.putPiece(p.removePiece(fromSq), toSq)
}

func (p *Position) putPiece(piece Piece, square Square) {
	color := piece.ColorOf()
	pieceType := piece.TypeOf()

	if assert.DEBUG {
		assert.Assert(p.board[square] == PieceNone, "tried to put a piece on an occupied square: %s", square.String())
		assert.Assert(!p.piecesBb[color][pieceType].Has(square), "tried to set a bit on a pieces bitboard that is already set: %s", square.String())
		assert.Assert(!p.occupiedBb[color].Has(square), "tried to set a bit on the occupied bitboard that is already set: %s", square.String())
	}

	p.board[square] = piece
	if pieceType == King {
		p.kingSquare[color] = square
	}
	p.piecesBb[color][pieceType].PushSquare(square)
	p.occupiedBb[color].PushSquare(square)
	p.zobristKey ^= ZobristPiece(piece, square)

	p.gamePhase += pieceType.GamePhaseValue()
	if p.gamePhase > GamePhaseMax {
		p.gamePhase = GamePhaseMax
	}

	p.material[color] += pieceType.ValueOf()
	if pieceType > Pawn {
		p.materialNonPawn[color] += pieceType.ValueOf()
	}
	p.psqMidValue[color] += PosMidValue(piece, square)
	p.psqEndValue[color] += PosEndValue(piece, square)
}

func (p *Position) removePiece(square Square) Piece {
	removed := p.board[square]
	color := removed.ColorOf()
	pieceType := removed.TypeOf()

	if assert.DEBUG {
		assert.Assert(p.board[square] != PieceNone, "tried to remove a piece from an empty square: %s", square.String())
		assert.Assert(p.piecesBb[color][pieceType].Has(square), "tried to clear a bit from a pieces bitboard that is not set: %s", square.String())
		assert.Assert(p.occupiedBb[color].Has(square), "tried to clear a bit from the occupied bitboard that is not set: %s", square.String())
	}

	p.board[square] = PieceNone
	p.piecesBb[color][pieceType].PopSquare(square)
	p.occupiedBb[color].PopSquare(square)
	p.zobristKey ^= ZobristPiece(removed, square)

	p.gamePhase -= pieceType.GamePhaseValue()
	if p.gamePhase < 0 {
		p.gamePhase = 0
	}

	p.material[color] -= pieceType.ValueOf()
	if pieceType > Pawn {
		p.materialNonPawn[color] -= pieceType.ValueOf()
	}
	p.psqMidValue[color] -= PosMidValue(removed, square)
	p.psqEndValue[color] -= PosEndValue(removed, square)
	return removed
}

func (p *Position) clearEnPassant() {
	if p.enPassantSquare != SqNone {
		p.zobristKey ^= ZobristEnPassant(p.enPassantSquare.FileOf())
		p.enPassantSquare = SqNone
	}
}

func (p *Position) fen() string {
	var fen strings.Builder
	for r := Rank1; r <= Rank8; r++ {
		emptySquares := 0
		for f := FileA; f <= FileH; f++ {
			pc := p.board[SquareOf(f, Rank8-r)]
			if pc == PieceNone {
				emptySquares++
			} else {
				if emptySquares > 0 {
					fen.WriteString(strconv.Itoa(emptySquares))
					emptySquares = 0
				}
				fen.WriteString(pc.String())
			}
		}
		if emptySquares > 0 {
			fen.WriteString(strconv.Itoa(emptySquares))
		}
		if r < Rank8 {
			fen.WriteString("/")
		}
	}
	fen.WriteString(" ")
	fen.WriteString(p.nextPlayer.String())
	fen.WriteString(" ")
	fen.WriteString(p.castlingRights.String())
	fen.WriteString(" ")
	fen.WriteString(p.enPassantSquare.String())
	fen.WriteString(" ")
	fen.WriteString(strconv.Itoa(p.halfMoveClock))
	fen.WriteString(" ")
	fen.WriteString(strconv.Itoa((p.nextHalfMoveNumber + 1) / 2))
	return fen.String()
}

var regexFenPos = regexp.MustCompile("[0-8pPnNbBrRqQkK/]+")
var regexWorB = regexp.MustCompile("^[w|b]$")
var regexCastlingRights = regexp.MustCompile("^(K?Q?k?q?|-)$")
var regexEnPassant = regexp.MustCompile("^([a-h][1-8]|-)$")

// setupBoard sets up a board based on a FEN string. This is the only
// way to get a valid Position instance - every field is zero-valued
// until this runs.
func (p *Position) setupBoard(fen string) error {
	fen = strings.TrimSpace(fen)
	fenParts := strings.Split(fen, " ")

	if len(fenParts) == 0 {
		return errors.New("fen must not be empty")
	}
	if !regexFenPos.MatchString(fenParts[0]) {
		return errors.New("fen position contains invalid characters")
	}

	currentSquare := SqA8
	for _, c := range fenParts[0] {
		if number, e := strconv.Atoi(string(c)); e == nil {
			currentSquare = Square(int(currentSquare) + number*int(East))
		} else if string(c) == "/" {
			currentSquare = currentSquare.To(South).To(South)
		} else {
			piece := PieceFromChar(string(c))
			if piece == PieceNone {
				return fmt.Errorf("invalid piece character: %s", string(c))
			}
			p.putPiece(piece, currentSquare)
			currentSquare++
		}
	}
	if currentSquare != SqA2 {
		return errors.New("did not reach the expected last square after reading the fen")
	}

	p.nextHalfMoveNumber = 1
	p.enPassantSquare = SqNone

	if len(fenParts) >= 2 {
		if !regexWorB.MatchString(fenParts[1]) {
			return errors.New("fen next player contains invalid characters")
		}
		switch fenParts[1] {
		case "w":
			p.nextPlayer = White
		case "b":
			p.nextPlayer = Black
			p.zobristKey ^= ZobristNextPlayer()
			p.nextHalfMoveNumber++
		}
	}

	if len(fenParts) >= 3 {
		if !regexCastlingRights.MatchString(fenParts[2]) {
			return errors.New("fen castling rights contains invalid characters")
		}
		if fenParts[2] != "-" {
			for _, c := range fenParts[2] {
				switch string(c) {
				case "K":
					p.castlingRights.Add(WhiteKingside)
				case "Q":
					p.castlingRights.Add(WhiteQueenside)
				case "k":
					p.castlingRights.Add(BlackKingside)
				case "q":
					p.castlingRights.Add(BlackQueenside)
				}
			}
		}
		p.zobristKey ^= ZobristCastling(p.castlingRights)
	}

	if len(fenParts) >= 4 {
		if !regexEnPassant.MatchString(fenParts[3]) {
			return errors.New("fen en passant square contains invalid characters")
		}
		if fenParts[3] != "-" {
			p.enPassantSquare = MakeSquare(fenParts[3])
		}
	}

	if len(fenParts) >= 5 {
		number, e := strconv.Atoi(fenParts[4])
		if e != nil {
			return e
		}
		p.halfMoveClock = number
	}

	if len(fenParts) >= 6 {
		moveNumber, e := strconv.Atoi(fenParts[5])
		if e != nil {
			return e
		}
		if moveNumber == 0 {
			moveNumber = 1
		}
		p.nextHalfMoveNumber = 2*moveNumber - (1 - int(p.nextPlayer))
	}

	return nil
}

// ZobristKey returns the current zobrist hash key of the position.
func (p *Position) ZobristKey() Key { return p.zobristKey }

// NextPlayer returns the side to move.
func (p *Position) NextPlayer() Color { return p.nextPlayer }

// GetPiece returns the piece on sq, or PieceNone if it is empty.
func (p *Position) GetPiece(sq Square) Piece { return p.board[sq] }

// PiecesBb returns the bitboard of pieces of type pt and color c.
func (p *Position) PiecesBb(c Color, pt PieceType) Bitboard { return p.piecesBb[c][pt] }

// OccupiedAll returns a bitboard of every occupied square.
func (p *Position) OccupiedAll() Bitboard { return p.occupiedBb[White] | p.occupiedBb[Black] }

// OccupiedBb returns a bitboard of the squares occupied by color c.
func (p *Position) OccupiedBb(c Color) Bitboard { return p.occupiedBb[c] }

// GamePhase returns the current game-phase counter: GamePhaseMax (24)
// at the start of the game, 0 once all minor and major pieces are off.
func (p *Position) GamePhase() int { return p.gamePhase }

// GamePhaseFactor returns gamePhase / GamePhaseMax, in [0, 1].
func (p *Position) GamePhaseFactor() float64 { return float64(p.gamePhase) / GamePhaseMax }

// GetEnPassantSquare returns the en passant target square, or SqNone.
func (p *Position) GetEnPassantSquare() Square { return p.enPassantSquare }

// CastlingRights returns the position's current castling rights.
func (p *Position) CastlingRights() CastlingRights { return p.castlingRights }

// KingSquare returns the current square of the king of color c.
func (p *Position) KingSquare(c Color) Square { return p.kingSquare[c] }

// HalfMoveClock returns the position's half-move (50-move rule) clock.
func (p *Position) HalfMoveClock() int { return p.halfMoveClock }

// NextHalfMoveNumber returns the half-move count that will be assigned
// to the next move played from this position.
func (p *Position) NextHalfMoveNumber() int { return p.nextHalfMoveNumber }

// Material returns the material value for color c.
func (p *Position) Material(c Color) Value { return p.material[c] }

// MaterialNonPawn returns the non-pawn material value for color c.
func (p *Position) MaterialNonPawn(c Color) Value { return p.materialNonPawn[c] }

// PsqMidValue returns the midgame piece-square value for color c.
func (p *Position) PsqMidValue(c Color) Value { return p.psqMidValue[c] }

// PsqEndValue returns the endgame piece-square value for color c.
func (p *Position) PsqEndValue(c Color) Value { return p.psqEndValue[c] }

// PawnKey returns a zobrist-style hash over pawns only, independent of
// any other piece or side-to-move state. Used by the evaluator's pawn
// structure cache, which only needs to detect whether the pawn skeleton
// of a position repeats - not the position itself.
func (p *Position) PawnKey() Key {
	var key Key
	for c := White; c <= Black; c++ {
		pawns := p.piecesBb[c][Pawn]
		for pawns != BbZero {
			key ^= ZobristPiece(MakePiece(c, Pawn), pawns.PopLsb())
		}
	}
	return key
}

// LastMove returns the last move made, or MoveNone with empty history.
func (p *Position) LastMove() Move {
	if p.historyCounter <= 0 {
		return MoveNone
	}
	return p.history[p.historyCounter-1].move
}

// LastCapturedPiece returns the piece captured by the last move, or
// PieceNone if it wasn't a capture or history is empty.
func (p *Position) LastCapturedPiece() Piece {
	if p.historyCounter <= 0 {
		return PieceNone
	}
	return p.history[p.historyCounter-1].capturedPiece
}

// WasCapturingMove reports whether the last move made was a capture.
func (p *Position) WasCapturingMove() bool {
	return p.LastCapturedPiece() != PieceNone
}
