/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package movegen contains functionality to create moves on a
// chess position. It implements several variants like
// generate pseudo legal moves, legal moves or on demand
// generation of pseudo legal moves.
package movegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/op/go-logging"

	"github.com/corvidchess/corvid/internal/applog"
	. "github.com/corvidchess/corvid/internal/chess"
	"github.com/corvidchess/corvid/internal/history"
	"github.com/corvidchess/corvid/internal/position"
)

var log *logging.Logger

// Movegen data structure. Create new move generator via
//  movegen.NewMoveGen()
// Creating this directly will not work.
type Movegen struct {
	pseudoLegalMoves *MoveList
	legalMoves       *MoveList
	onDemandMoves    *MoveList

	killerMoves        [2]Move
	pvMove             Move
	currentIteratorKey Key
	currentODStage     int8

	historyData *history.History
}

// //////////////////////////////////////////////////////
// // Public
// //////////////////////////////////////////////////////

// GenMode generation modes for on demand move generation
type GenMode int

// GenMode generation modes for on demand move generation
const (
	GenZero   GenMode = 0b00
	GenCap    GenMode = 0b01
	GenNonCap GenMode = 0b10
	GenAll    GenMode = 0b11
)

// NewMoveGen creates a new instance of a move generator
func NewMoveGen() *Movegen {
	if log == nil {
		log = applog.GetLog()
	}
	return &Movegen{
		pseudoLegalMoves:   NewMoveList(MaxMoves),
		legalMoves:         NewMoveList(MaxMoves),
		onDemandMoves:      NewMoveList(MaxMoves),
		killerMoves:        [2]Move{MoveNone, MoveNone},
		pvMove:             MoveNone,
		currentODStage:     odNew,
		currentIteratorKey: 0,
	}
}

// GeneratePseudoLegalMoves generates pseudo moves for the next player. Does not check if
// king is left in check or if it passes an attacked square when castling or has been in check
// before castling.
func (mg *Movegen) GeneratePseudoLegalMoves(p *position.Position, mode GenMode) *MoveList {
	mg.pseudoLegalMoves.Clear()
	if mode&GenCap != 0 {
		mg.generatePawnMoves(p, GenCap, mg.pseudoLegalMoves)
		mg.generateCastling(p, GenCap, mg.pseudoLegalMoves)
		mg.generateKingMoves(p, GenCap, mg.pseudoLegalMoves)
		mg.generateMoves(p, GenCap, mg.pseudoLegalMoves)
	}
	if mode&GenNonCap != 0 {
		mg.generatePawnMoves(p, GenNonCap, mg.pseudoLegalMoves)
		mg.generateCastling(p, GenNonCap, mg.pseudoLegalMoves)
		mg.generateKingMoves(p, GenNonCap, mg.pseudoLegalMoves)
		mg.generateMoves(p, GenNonCap, mg.pseudoLegalMoves)
	}
	mg.pseudoLegalMoves.Sort()
	mg.promoteSpecialMoves(mg.pseudoLegalMoves)
	return mg.pseudoLegalMoves
}

// GenerateLegalMoves generates legal moves for the next player.
// Uses GeneratePseudoLegalMoves and filters out illegal moves.
func (mg *Movegen) GenerateLegalMoves(p *position.Position, mode GenMode) *MoveList {
	mg.legalMoves.Clear()
	mg.GeneratePseudoLegalMoves(p, mode)
	for _, m := range *mg.pseudoLegalMoves {
		if p.IsLegalMove(m) {
			mg.legalMoves.PushBack(m)
		}
	}
	return mg.legalMoves
}

// GetNextMove returns the next move for the given position. Usually this would be used in a loop
// during search.
//
// If a PV move is set with SetPvMove it will be returned first, moved to
// the front of whichever phase actually generates it. Killer moves are
// promoted the same way as soon as the phase that generates them runs.
//
// To reuse this on the same position a call to ResetOnDemand() is
// necessary. This is not necessary when a different position is passed
// in as this func will reset itself in that case.
func (mg *Movegen) GetNextMove(p *position.Position, mode GenMode) Move {
	// if the position changes during iteration the iteration
	// will be reset and generation will restart with the new position.
	if p.ZobristKey() != mg.currentIteratorKey {
		mg.onDemandMoves.Clear()
		mg.currentODStage = odNew
		mg.currentIteratorKey = p.ZobristKey()
	}

	if mg.onDemandMoves.Len() == 0 {
		mg.fillOnDemandMoveList(p, mode)
	}

	if mg.onDemandMoves.Len() == 0 {
		return MoveNone
	}

	// the list is sorted worst-to-best and the PV/killer moves have been
	// repositioned to the very end, so the next best move to try is
	// simply the one at the back.
	return mg.onDemandMoves.PopBack()
}

// ResetOnDemand resets the move on demand generator to start fresh.
// Also deletes Killer and PV moves
func (mg *Movegen) ResetOnDemand() {
	mg.onDemandMoves.Clear()
	mg.currentODStage = odNew
	mg.currentIteratorKey = 0
	mg.pvMove = MoveNone
}

// SetPvMove sets a PV move which should be returned first by
// the OnDemand MoveGenerator.
func (mg *Movegen) SetPvMove(move Move) {
	mg.pvMove = move
}

// SetHistoryData supplies the history heuristic tables used to boost
// the sort value of quiet moves when history/counter-move ordering is
// enabled in config. Pass nil to disable.
func (mg *Movegen) SetHistoryData(h *history.History) {
	mg.historyData = h
}

// StoreKiller provides the on demand move generator with a new killer move
// which should be returned as soon as possible when generating moves with
// the on demand generator.
func (mg *Movegen) StoreKiller(move Move) {
	if move.SameAs(mg.killerMoves[0]) {
		return
	} else if move.SameAs(mg.killerMoves[1]) {
		mg.killerMoves[1] = mg.killerMoves[0]
		mg.killerMoves[0] = move
	} else {
		mg.killerMoves[1] = mg.killerMoves[0]
		mg.killerMoves[0] = move
	}
}

// HasLegalMove determines if we have at least one legal move. We only have to find
// one legal move. We search for any KING, PAWN, KNIGHT, BISHOP, ROOK, QUEEN move
// and return immediately if we found one.
// The order of our search is approx from the most likely to the least likely
func (mg *Movegen) HasLegalMove(p *position.Position) bool {
	nextPlayer := p.NextPlayer()
	nextPlayerBb := p.OccupiedBb(nextPlayer)

	// KING
	// We do not need to check castling as possible castling implies King or Rook moves
	kingSquare := p.KingSquare(nextPlayer)
	king := MakePiece(nextPlayer, King)
	tmpMoves := GetPseudoAttacks(King, kingSquare) &^ nextPlayerBb
	for tmpMoves != 0 {
		toSquare := tmpMoves.PopLsb()
		if p.IsLegalMove(NewNormalMove(king, kingSquare, toSquare, p.GetPiece(toSquare))) {
			return true
		}
	}

	myPawns := p.PiecesBb(nextPlayer, Pawn)
	pawn := MakePiece(nextPlayer, Pawn)
	opponentBb := p.OccupiedBb(nextPlayer.Flip())
	pushDir := nextPlayer.PawnPushDirection()

	// PAWN captures (includes promotions, which are still legal-or-not
	// regardless of promoted piece type, so only one representative is
	// checked here)
	for _, dir := range []Direction{West, East} {
		captureDir := pushDir + dir
		tmpMoves = ShiftBitboard(myPawns, captureDir) & opponentBb
		for tmpMoves != 0 {
			toSquare := tmpMoves.PopLsb()
			fromSquare := toSquare.To(-captureDir)
			captured := p.GetPiece(toSquare)
			var mv Move
			if toSquare.RankOf() == nextPlayer.PromotionRank() {
				mv = NewPromoteMove(pawn, fromSquare, toSquare, captured, Queen)
			} else {
				mv = NewNormalMove(pawn, fromSquare, toSquare, captured)
			}
			if p.IsLegalMove(mv) {
				return true
			}
		}
	}

	occupiedBb := p.OccupiedAll()

	// pawn pushes - check step one to unoccupied squares
	// don't have to test double steps as they would be redundant to single steps
	// for the purpose of finding at least one legal move
	tmpMoves = ShiftBitboard(myPawns, pushDir) &^ occupiedBb
	for tmpMoves != 0 {
		toSquare := tmpMoves.PopLsb()
		fromSquare := toSquare.To(-pushDir)
		var mv Move
		if toSquare.RankOf() == nextPlayer.PromotionRank() {
			mv = NewPromoteMove(pawn, fromSquare, toSquare, PieceNone, Queen)
		} else {
			mv = NewNormalMove(pawn, fromSquare, toSquare, PieceNone)
		}
		if p.IsLegalMove(mv) {
			return true
		}
	}

	// OFFICERS
	for pt := Knight; pt <= Queen; pt++ {
		piece := MakePiece(nextPlayer, pt)
		pieces := p.PiecesBb(nextPlayer, pt)
		for pieces != 0 {
			fromSquare := pieces.PopLsb()
			moves := GetAttacksBb(pt, fromSquare, occupiedBb) &^ nextPlayerBb
			for moves != 0 {
				toSquare := moves.PopLsb()
				if p.IsLegalMove(NewNormalMove(piece, fromSquare, toSquare, p.GetPiece(toSquare))) {
					return true
				}
			}
		}
	}

	// en passant captures
	enPassantSquare := p.GetEnPassantSquare()
	if enPassantSquare != SqNone {
		for _, dir := range []Direction{West, East} {
			captureDir := nextPlayer.Flip().PawnPushDirection() + dir
			tmpMoves = ShiftBitboard(enPassantSquare.Bb(), captureDir) & myPawns
			if tmpMoves != 0 {
				fromSquare := tmpMoves.PopLsb()
				toSquare := fromSquare.To(-captureDir)
				capturedSquare := enPassantSquare
				if p.IsLegalMove(NewEnpassantMove(pawn, fromSquare, toSquare, capturedSquare, p.GetPiece(capturedSquare))) {
					return true
				}
			}
		}
	}

	// no move found
	return false
}

// Regex for UCI notation (UCI)
var regexUciMove = regexp.MustCompile("([a-h][1-8][a-h][1-8])([NBRQnbrq])?")

// GetMoveFromUci Generates all legal moves and matches the given UCI
// move string against them. If there is a match the actual move is returned.
// Otherwise MoveNone is returned.
//
// As this uses string creation and comparison this is not very efficient.
// Use only when performance is not critical.
func (mg *Movegen) GetMoveFromUci(p *position.Position, uciMove string) Move {
	matches := regexUciMove.FindStringSubmatch(uciMove)
	if matches == nil {
		return MoveNone
	}

	// get the parts from the pattern match
	movePart := matches[1]
	promotionPart := ""
	if len(matches) == 3 {
		// we allow upper case promotion letters
		// not really UCI but many input files have this wrong
		promotionPart = strings.ToLower(matches[2])
	}

	// check against all legal moves on position
	mg.GenerateLegalMoves(p, GenAll)
	for _, m := range *mg.legalMoves {
		if m.StringUci() == movePart+promotionPart {
			return m
		}
	}
	return MoveNone
}

var regexSanMove = regexp.MustCompile("([NBRQK])?([a-h])?([1-8])?x?([a-h][1-8]|O-O-O|O-O)(=?([NBRQ]))?([!?+#]*)?")

// GetMoveFromSan Generates all legal moves and matches the given SAN
// move string against them. If there is a match the actual move is returned.
// Otherwise MoveNone is returned.
//
// As this uses string creation and comparison this is not very efficient.
// Use only when performance is not critical.
func (mg *Movegen) GetMoveFromSan(p *position.Position, sanMove string) Move {
	matches := regexSanMove.FindStringSubmatch(sanMove)
	if matches == nil {
		return MoveNone
	}

	pieceType := matches[1]
	disambFile := matches[2]
	disambRank := matches[3]
	toSquare := matches[4]
	promotion := matches[6]

	movesFound := 0
	var moveFromSAN Move

	mg.GenerateLegalMoves(p, GenAll)
	for _, genMove := range *mg.legalMoves {

		// castling moves
		if genMove.Kind == KindCastle {
			kingToSquare := genMove.To
			var castlingString string
			switch kingToSquare {
			case SqG1, SqG8:
				castlingString = "O-O"
			case SqC1, SqC8:
				castlingString = "O-O-O"
			default:
				log.Errorf("move kind Castle but wrong to square: %s", kingToSquare.String())
				continue
			}
			if castlingString == toSquare {
				moveFromSAN = genMove
				movesFound++
			}
			continue
		}

		// normal moves
		moveTarget := genMove.To.String()
		if moveTarget == toSquare {

			// determine if piece types match - if not skip
			legalPt := p.GetPiece(genMove.From).TypeOf()
			legalPtChar := legalPt.Char()
			if (len(pieceType) == 0 || legalPtChar != pieceType) &&
				(len(pieceType) != 0 || legalPt != Pawn) {
				continue
			}

			// Disambiguation File
			if len(disambFile) != 0 && genMove.From.FileOf().String() != disambFile {
				continue
			}

			// Disambiguation Rank
			if len(disambRank) != 0 && genMove.From.RankOf().String() != disambRank {
				continue
			}

			// promotion
			if (len(promotion) != 0 && (genMove.Kind != KindPromote || genMove.PromotedClass.Char() != promotion)) ||
				(len(promotion) == 0 && genMove.Kind == KindPromote) {
				continue
			}

			moveFromSAN = genMove
			movesFound++
		}
	}

	if movesFound > 1 {
		log.Warningf("SAN move %s is ambiguous (%d matches) on %s!", sanMove, movesFound, p.StringFen())
	} else if movesFound == 0 || moveFromSAN.IsNone() {
		log.Warningf("SAN move not valid! SAN move %s not found on position: %s", sanMove, p.StringFen())
	} else {
		return moveFromSAN
	}
	return MoveNone
}

// ValidateMove validates if a move is a valid move on the given position
func (mg *Movegen) ValidateMove(p *position.Position, move Move) bool {
	if move.IsNone() {
		return false
	}
	ml := mg.GenerateLegalMoves(p, GenAll)
	for _, m := range *ml {
		if move.SameAs(m) {
			return true
		}
	}
	return false
}

// PvMove returns the current PV move
func (mg *Movegen) PvMove() Move {
	return mg.pvMove
}

// KillerMoves returns a pointer to the killer moves array
func (mg *Movegen) KillerMoves() *[2]Move {
	return &mg.killerMoves
}

// String returns a string representation of a MoveGen instance
func (mg *Movegen) String() string {
	return fmt.Sprintf("MoveGen: { OnDemand Stage: { %d }, PV Move: %s Killer Move 1: %s Killer Move 2: %s }",
		mg.currentODStage, mg.pvMove.String(), mg.killerMoves[0].String(), mg.killerMoves[1].String())
}

// //////////////////////////////////////////////////////
// // Private
// //////////////////////////////////////////////////////

// States for the on demand move generator
const (
	odNew = iota
	odPv
	od1
	od2
	od3
	od4
	od5
	od6
	od7
	od8
	odEnd
)

// This calls the actual generation of moves in phases. The phases match roughly
// the order of most promising moves first.
func (mg *Movegen) fillOnDemandMoveList(p *position.Position, mode GenMode) {
	for mg.onDemandMoves.Len() == 0 && mg.currentODStage < odEnd {
		switch mg.currentODStage {
		case odNew:
			if mode&GenCap != 0 {
				mg.currentODStage = od1
			} else {
				mg.currentODStage = od4
			}
		case od1: // captures
			mg.generatePawnMoves(p, GenCap, mg.onDemandMoves)
			mg.currentODStage = od2
		case od2:
			mg.generateMoves(p, GenCap, mg.onDemandMoves)
			mg.currentODStage = od3
		case od3:
			mg.generateKingMoves(p, GenCap, mg.onDemandMoves)
			mg.currentODStage = od4
		case od4:
			if mode&GenNonCap != 0 {
				mg.currentODStage = od5
			} else {
				mg.currentODStage = odEnd
			}
		case od5: // non captures
			mg.generatePawnMoves(p, GenNonCap, mg.onDemandMoves)
			mg.currentODStage = od6
		case od6:
			mg.generateCastling(p, GenNonCap, mg.onDemandMoves)
			mg.currentODStage = od7
		case od7:
			mg.generateMoves(p, GenNonCap, mg.onDemandMoves)
			mg.currentODStage = od8
		case od8:
			mg.generateKingMoves(p, GenNonCap, mg.onDemandMoves)
			mg.currentODStage = odEnd
		}
		if mg.onDemandMoves.Len() > 0 {
			mg.onDemandMoves.Sort()
			mg.promoteSpecialMoves(mg.onDemandMoves)
		}
	}
}

// promoteSpecialMoves moves the killer moves and then the PV move - in
// that order - to the very back of ml, where GetNextMove pops from next.
// Calling killer2 before killer1 before pv means pv ends up furthest
// back and so is returned first, then killer1, then killer2.
func (mg *Movegen) promoteSpecialMoves(ml *MoveList) {
	ml.RepositionLast(func(m Move) bool { return m.SameAs(mg.killerMoves[1]) })
	ml.RepositionLast(func(m Move) bool { return m.SameAs(mg.killerMoves[0]) })
	if !mg.pvMove.IsNone() {
		ml.RepositionLast(func(m Move) bool { return m.SameAs(mg.pvMove) })
	}
}

func (mg *Movegen) generatePawnMoves(p *position.Position, mode GenMode, ml *MoveList) {
	nextPlayer := p.NextPlayer()
	myPawns := p.PiecesBb(nextPlayer, Pawn)
	oppPieces := p.OccupiedBb(nextPlayer.Flip())
	gamePhase := p.GamePhase()
	piece := MakePiece(nextPlayer, Pawn)
	pushDir := nextPlayer.PawnPushDirection()

	// captures
	if mode&GenCap != 0 {
		// This algorithm shifts the own pawn bitboard in the direction of pawn captures
		// and ANDs it with the opponents pieces. With this we get all possible captures
		// and can easily create the moves by using a loop over all captures and using
		// the backward shift for the from-square.
		// Values for sorting are ascending in the list but the search pops from
		// the back, so the highest value - MVV-LVA delta plus positional
		// value - is the most promising move.
		var tmpCaptures, promCaptures Bitboard

		for _, dir := range []Direction{West, East} {
			captureDir := pushDir + dir
			tmpCaptures = ShiftBitboard(myPawns, captureDir) & oppPieces
			promCaptures = tmpCaptures & RankBb(nextPlayer.PromotionRank())
			for promCaptures != 0 {
				toSquare := promCaptures.PopLsb()
				fromSquare := toSquare.To(-captureDir)
				captured := p.GetPiece(toSquare)
				value := captured.ValueOf() - piece.ValueOf() + PosValue(piece, toSquare, gamePhase)
				ml.PushBack(valued(NewPromoteMove(piece, fromSquare, toSquare, captured, Queen), value+Queen.ValueOf()))
				ml.PushBack(valued(NewPromoteMove(piece, fromSquare, toSquare, captured, Knight), value+Knight.ValueOf()))
				// rook and bishop promotions are usually redundant to queen
				// promotion (except in stalemate-avoidance situations) so
				// they sort lower
				ml.PushBack(valued(NewPromoteMove(piece, fromSquare, toSquare, captured, Rook), value+Rook.ValueOf()-Value(2000)))
				ml.PushBack(valued(NewPromoteMove(piece, fromSquare, toSquare, captured, Bishop), value+Bishop.ValueOf()-Value(2000)))
			}
			tmpCaptures &^= RankBb(nextPlayer.PromotionRank())
			for tmpCaptures != 0 {
				toSquare := tmpCaptures.PopLsb()
				fromSquare := toSquare.To(-captureDir)
				captured := p.GetPiece(toSquare)
				value := captured.ValueOf() - piece.ValueOf() + PosValue(piece, toSquare, gamePhase)
				ml.PushBack(valued(NewNormalMove(piece, fromSquare, toSquare, captured), value))
			}
		}

		// en passant captures
		enPassantSquare := p.GetEnPassantSquare()
		if enPassantSquare != SqNone {
			for _, dir := range []Direction{West, East} {
				captureDir := nextPlayer.Flip().PawnPushDirection() + dir
				tmpCaptures = ShiftBitboard(enPassantSquare.Bb(), captureDir) & myPawns
				if tmpCaptures != 0 {
					fromSquare := tmpCaptures.PopLsb()
					toSquare := fromSquare.To(-captureDir)
					value := PosValue(piece, toSquare, gamePhase)
					captured := p.GetPiece(enPassantSquare)
					ml.PushBack(valued(NewEnpassantMove(piece, fromSquare, toSquare, enPassantSquare, captured), value))
				}
			}
		}
	}

	// non captures
	if mode&GenNonCap != 0 {
		// Move my pawns forward one step and keep all on not occupied squares.
		// Move pawns now on rank 3 (rank 6) another square forward to check for pawn doubles.
		occupied := p.OccupiedAll()
		tmpMoves := ShiftBitboard(myPawns, pushDir) &^ occupied
		tmpMovesDouble := ShiftBitboard(tmpMoves&RankBb(nextPlayer.PawnDoublePushRank()), pushDir) &^ occupied

		// single pawn steps - promotions first
		promMoves := tmpMoves & RankBb(nextPlayer.PromotionRank())
		for promMoves != 0 {
			toSquare := promMoves.PopLsb()
			fromSquare := toSquare.To(-pushDir)
			value := Value(-10_000)
			ml.PushBack(valued(NewPromoteMove(piece, fromSquare, toSquare, PieceNone, Queen), value+Queen.ValueOf()))
			ml.PushBack(valued(NewPromoteMove(piece, fromSquare, toSquare, PieceNone, Knight), value+Knight.ValueOf()))
			ml.PushBack(valued(NewPromoteMove(piece, fromSquare, toSquare, PieceNone, Rook), value+Rook.ValueOf()-Value(2000)))
			ml.PushBack(valued(NewPromoteMove(piece, fromSquare, toSquare, PieceNone, Bishop), value+Bishop.ValueOf()-Value(2000)))
		}
		// double pawn steps
		for tmpMovesDouble != 0 {
			toSquare := tmpMovesDouble.PopLsb()
			fromSquare := toSquare.To(-pushDir).To(-pushDir)
			value := Value(-10_000) + PosValue(piece, toSquare, gamePhase)
			ml.PushBack(valued(NewNormalMove(piece, fromSquare, toSquare, PieceNone), value))
		}
		// normal single pawn steps
		tmpMoves &^= RankBb(nextPlayer.PromotionRank())
		for tmpMoves != 0 {
			toSquare := tmpMoves.PopLsb()
			fromSquare := toSquare.To(-pushDir)
			value := Value(-10_000) + PosValue(piece, toSquare, gamePhase)
			ml.PushBack(valued(NewNormalMove(piece, fromSquare, toSquare, PieceNone), value))
		}
	}
}

func (mg *Movegen) generateCastling(p *position.Position, mode GenMode, ml *MoveList) {
	nextPlayer := p.NextPlayer()
	occupiedBb := p.OccupiedAll()

	// pseudo castling - we will not check if we are in check after the
	// move, if we have passed an attacked square with the king, or if
	// the king has been in check before castling. Position.IsLegalMove
	// does those checks.
	if mode&GenNonCap == 0 || p.CastlingRights() == CastlingNone {
		return
	}
	cr := p.CastlingRights()
	if nextPlayer == White {
		king := MakePiece(White, King)
		if cr.Has(WhiteKingside) && Intermediate(SqE1, SqH1)&occupiedBb == 0 {
			ml.PushBack(valued(NewCastleMove(king, SqE1, SqG1, CornerWhiteKingside), Value(-5000)))
		}
		if cr.Has(WhiteQueenside) && Intermediate(SqE1, SqA1)&occupiedBb == 0 {
			ml.PushBack(valued(NewCastleMove(king, SqE1, SqC1, CornerWhiteQueenside), Value(-5000)))
		}
	} else {
		king := MakePiece(Black, King)
		if cr.Has(BlackKingside) && Intermediate(SqE8, SqH8)&occupiedBb == 0 {
			ml.PushBack(valued(NewCastleMove(king, SqE8, SqG8, CornerBlackKingside), Value(-5000)))
		}
		if cr.Has(BlackQueenside) && Intermediate(SqE8, SqA8)&occupiedBb == 0 {
			ml.PushBack(valued(NewCastleMove(king, SqE8, SqC8, CornerBlackQueenside), Value(-5000)))
		}
	}
}

func (mg *Movegen) generateKingMoves(p *position.Position, mode GenMode, ml *MoveList) {
	nextPlayer := p.NextPlayer()
	piece := MakePiece(nextPlayer, King)
	gamePhase := p.GamePhase()
	kingSquareBb := p.PiecesBb(nextPlayer, King)
	fromSquare := kingSquareBb.PopLsb()

	// pseudo attacks include all moves no matter if the king would be in check
	pseudoMoves := GetPseudoAttacks(King, fromSquare)

	if mode&GenCap != 0 {
		captures := pseudoMoves & p.OccupiedBb(nextPlayer.Flip())
		for captures != 0 {
			toSquare := captures.PopLsb()
			captured := p.GetPiece(toSquare)
			value := captured.ValueOf() - piece.ValueOf() + PosValue(piece, toSquare, gamePhase)
			ml.PushBack(valued(NewNormalMove(piece, fromSquare, toSquare, captured), value))
		}
	}

	if mode&GenNonCap != 0 {
		nonCaptures := pseudoMoves &^ p.OccupiedAll()
		for nonCaptures != 0 {
			toSquare := nonCaptures.PopLsb()
			value := Value(-10_000) + PosValue(piece, toSquare, gamePhase) + mg.historyBonus(nextPlayer, fromSquare, toSquare)
			ml.PushBack(valued(NewNormalMove(piece, fromSquare, toSquare, PieceNone), value))
		}
	}
}

// historyBonus returns the move ordering bonus derived from the history
// heuristic tables for a quiet move, or 0 if no history data has been
// set via SetHistoryData.
func (mg *Movegen) historyBonus(c Color, from, to Square) Value {
	if mg.historyData == nil {
		return 0
	}
	return Value(mg.historyData.HistoryCount[c][from][to] >> 8)
}

// generateMoves generates officer (knight, bishop, rook, queen) moves
// using GetAttacksBb, which scans sliding rays against the current
// occupancy directly - no separate "is anything in between" check needed.
func (mg *Movegen) generateMoves(p *position.Position, mode GenMode, ml *MoveList) {
	nextPlayer := p.NextPlayer()
	gamePhase := p.GamePhase()
	occupiedBb := p.OccupiedAll()

	for pt := Knight; pt <= Queen; pt++ {
		pieces := p.PiecesBb(nextPlayer, pt)
		piece := MakePiece(nextPlayer, pt)

		for pieces != 0 {
			fromSquare := pieces.PopLsb()
			moves := GetAttacksBb(pt, fromSquare, occupiedBb)

			if mode&GenCap != 0 {
				captures := moves & p.OccupiedBb(nextPlayer.Flip())
				for captures != 0 {
					toSquare := captures.PopLsb()
					captured := p.GetPiece(toSquare)
					value := captured.ValueOf() - piece.ValueOf() + PosValue(piece, toSquare, gamePhase)
					ml.PushBack(valued(NewNormalMove(piece, fromSquare, toSquare, captured), value))
				}
			}

			if mode&GenNonCap != 0 {
				nonCaptures := moves &^ occupiedBb
				for nonCaptures != 0 {
					toSquare := nonCaptures.PopLsb()
					value := Value(-10_000) + PosValue(piece, toSquare, gamePhase) + mg.historyBonus(nextPlayer, fromSquare, toSquare)
					ml.PushBack(valued(NewNormalMove(piece, fromSquare, toSquare, PieceNone), value))
				}
			}
		}
	}
}

// valued stamps a move generator sort key onto m and returns it, so move
// construction and value assignment read as a single expression at each
// PushBack call site.
func valued(m Move, v Value) Move {
	m.SetValue(v)
	return m
}
