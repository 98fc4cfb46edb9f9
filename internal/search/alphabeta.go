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

package search

import (
	"fmt"

	. "github.com/corvidchess/corvid/internal/chess"
	"github.com/corvidchess/corvid/internal/config"
	"github.com/corvidchess/corvid/internal/movegen"
	"github.com/corvidchess/corvid/internal/position"
	tt "github.com/corvidchess/corvid/internal/tt"
)

var trace = false

// rootSearch starts the actual recursive alpha beta search with the root moves for the first ply.
// As root moves are treated a little different this separate function supports readability
// as mixing it with the normal search would require quite some "if ply==0" statements.
// It returns the value of the best root move found.
func (s *Search) rootSearch(p *position.Position, depth int, alpha Value, beta Value) Value {
	if trace {
		s.slog.Debugf("Ply %-2.d Depth %-2.d start: %s", 0, depth, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("Ply %-2.d Depth %-2.d end: %s", 0, depth, s.statistics.CurrentVariation.StringUci())
	}

	// In root search we search all moves and store the value
	// into the root moves themselves for sorting in the
	// next iteration
	// best move is stored in pv[0][0]
	// best value is stored in pv[0][0].value
	// The next iteration begins with the best move of the last
	// iteration so we can be sure pv[0][0] will be set with the
	// last best move from the previous iteration independent of
	// the value. Any better move found is really better and will
	// replace pv[0][0] and also will be sorted first in the
	// next iteration

	// prepare root node search
	bestNodeValue := ValueNA
	var value Value

	// ///////////////////////////////////////////////////////
	// MOVE LOOP
	for i, m := range *s.rootMoves {

		p.DoMove(m)
		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(m)
		s.statistics.CurrentRootMoveIndex = i
		s.statistics.CurrentRootMove = m

		// check repetition and 50 moves
		if s.checkDrawRepAnd50(p, 2) {
			value = ValueDraw
		} else {
			// ///////////////////////////////////////////////////////////////////
			// PVS
			// First move in a node is an assumed PV and searched with full search window
			if !config.Settings.Search.UsePVS || i == 0 {
				value = -s.search(p, depth-1, 1, -beta, -alpha, true, true, MoveNone)
			} else {
				// Null window search after the initial PV search.
				value = -s.search(p, depth-1, 1, -alpha-1, -alpha, false, true, MoveNone)
				// If this move improved alpha without exceeding beta we do a proper full window
				// search to get an accurate score.
				if value > alpha && value < beta && !s.stopConditions() {
					s.statistics.RootPvsResearches++
					value = -s.search(p, depth-1, 1, -beta, -alpha, true, true, MoveNone)
				}
			}
			// ///////////////////////////////////////////////////////////////////
		}

		s.statistics.CurrentVariation.PopBack()
		p.UndoMove()

		// we want to do at least one complete search with depth 1
		// After that we can stop any time - any new best moves will
		// have been stored in pv[0]
		if s.stopConditions() && depth > 1 {
			return bestNodeValue
		}

		// set the value into the root move to later be able to sort
		// root moves according to value
		m.SetValue(value)
		(*s.rootMoves)[i] = m

		// Did we find a better move for this node (not ply)?
		// For the first move this is always the case.
		if value > bestNodeValue {
			// new best value
			bestNodeValue = value
			// we have a new pv[0][0] - store pv+1 tp pv
			savePV(m, s.pv[1], s.pv[0])
		}
	}
	// MOVE LOOP
	// ///////////////////////////////////////////////////////

	return bestNodeValue
}

// aspirationSearch wraps rootSearch with a narrow window centered on the
// previous iteration's best value. A narrow window cuts more nodes than
// the full window when the guess holds, at the cost of a re-search with
// a wider window whenever the true value falls outside it.
func (s *Search) aspirationSearch(p *position.Position, depth int, lastValue Value) Value {
	if lastValue == ValueNA {
		return s.rootSearch(p, depth, ValueMin, ValueMax)
	}

	for _, window := range aspirationSteps {
		alpha := lastValue - window
		beta := lastValue + window
		if alpha < ValueMin {
			alpha = ValueMin
		}
		if beta > ValueMax {
			beta = ValueMax
		}

		value := s.rootSearch(p, depth, alpha, beta)
		if s.stopConditions() {
			return value
		}

		switch {
		case value <= alpha:
			s.statistics.AspirationResearches++
			s.sendAspirationResearchInfo("upperbound")
			continue
		case value >= beta:
			s.statistics.AspirationResearches++
			s.sendAspirationResearchInfo("lowerbound")
			continue
		default:
			return value
		}
	}

	// all narrow windows failed - fall back to a full window search
	return s.rootSearch(p, depth, ValueMin, ValueMax)
}

// mtdf implements MTD(f), repeatedly calling rootSearch with a
// zero-width window around a guess value and tightening the guess
// towards the minimax value after each call.
// https://www.chessprogramming.org/MTD(f)
func (s *Search) mtdf(p *position.Position, depth int, firstGuess Value) Value {
	g := firstGuess
	if g == ValueNA {
		g = ValueZero
	}
	upperBound := ValueMax
	lowerBound := ValueMin

	for lowerBound < upperBound {
		beta := g
		if g == lowerBound {
			beta = g + 1
		}

		g = s.rootSearch(p, depth, beta-1, beta)
		s.statistics.AspirationResearches++

		if s.stopConditions() {
			return g
		}

		if g < beta {
			upperBound = g
		} else {
			lowerBound = g
		}
	}

	return g
}

// search is the normal alpha beta search after the root move ply (ply > 0).
// It will be called recursively until the remaining depth == 0 and we would
// enter quiescence search. Search consumes about 60% of the search time and
// all major prunings are done here. Quiescence search uses about 40% of the
// search time and has less options for pruning as not all moves are searched.
//
// onPV tells whether the caller believes this node continues the principal
// variation; knownRaiseAlpha is set only on the restart call issued when a
// node searched as a non-PV node turns out to need full PV treatment - it
// names the move known, from the aborted pass, to raise alpha and is
// searched first again so the restart is cheap.
func (s *Search) search(p *position.Position, depth int, ply int, alpha Value, beta Value, onPV bool, doNull bool, knownRaiseAlpha Move) Value {
	if trace {
		s.slog.Debugf("%0*s Ply %-2.d Depth %-2.d a:%-6.d b:%-6.d pv:%-6.v start:  %s", ply, "", ply, depth, alpha, beta, onPV, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("%0*s Ply %-2.d Depth %-2.d a:%-6.d b:%-6.d pv:%-6.v end  :  %s", ply, "", ply, depth, alpha, beta, onPV, s.statistics.CurrentVariation.StringUci())
	}

	// Check if search should be stopped
	if s.stopConditions() {
		return ValueNA
	}

	// Enter quiescence search when depth == 0 or max ply has been reached
	if depth == 0 || ply >= MaxDepth {
		return s.qsearch(p, ply, alpha, beta, onPV)
	}

	// Mate Distance Pruning
	// Did we already find a shorter mate then ignore
	// this one.
	if config.Settings.Search.UseMDP {
		if alpha < -ValueCheckMate+Value(ply) {
			alpha = -ValueCheckMate + Value(ply)
		}
		if beta > ValueCheckMate-Value(ply) {
			beta = ValueCheckMate - Value(ply)
		}
		if alpha >= beta {
			s.statistics.Mdp++
			return alpha
		}
	}

	// prepare node search
	us := p.NextPlayer()
	bestNodeValue := ValueNA
	bestNodeMove := MoveNone // used to store in the TT
	ttMove := MoveNone
	hasCheck := p.HasCheck()
	matethreat := false

	// TT Lookup
	// Results of searches are stored in the TT to be used to avoid
	// searching positions several times. If a position is stored in
	// the TT we retrieve its move and use it as a best move from a
	// previous search (through setting PV move in move gen). If we
	// have a value from a similar or deeper search we check if the
	// value is usable: a PV entry is exact, a Cut entry only improves
	// our knowledge if its value is already >= beta, an All entry
	// only if its value is already <= alpha.
	// Whether or not the stored depth suffices to cut, a PV entry
	// still tells us this node was a PV node on a previous visit -
	// that is one of the four ways a node is classified as PV below.
	ttIsPV := false
	if config.Settings.Search.UseTT {
		if ttEntry, found := s.tt.Probe(p.ZobristKey()); found {
			s.statistics.TTHit++
			ttIsPV = ttEntry.Kind() == tt.NodeKindPV
			if ttEntry.HasMove() {
				ttMove = ttEntry.Move()
			}
			if int(ttEntry.Depth()) >= depth {
				ttValue := valueFromTT(ttEntry.Value(), ply)
				cut := false
				if ttValue.IsValid() {
					switch ttEntry.Kind() {
					case tt.NodeKindPV:
						cut = true
					case tt.NodeKindCut:
						cut = ttValue >= beta
					case tt.NodeKindAll:
						cut = ttValue <= alpha
					}
				}
				if cut && config.Settings.Search.UseTTValue {
					if ttEntry.Kind() == tt.NodeKindPV && len(ttEntry.Path()) > 0 {
						setPV(ttEntry.Path(), s.pv[ply])
						if ttValue < alpha {
							ttValue = alpha
						}
						if ttValue > beta {
							ttValue = beta
						}
					} else {
						s.pv[ply].Clear()
					}
					s.statistics.TTCuts++
					return ttValue
				}
				s.statistics.TTNoCuts++
			}
		} else {
			s.statistics.TTMiss++
		}
	}

	// A node is classified as a PV node - one where we search every
	// move with a full window rather than trying to merely prove it
	// is worse than what we already have - if any of: we are at the
	// unbounded root window, the caller tells us we are still walking
	// the line it believes is principal, a previous pass already told
	// us which move raises alpha here, or the TT remembers this node
	// as a PV node.
	isPVNode := alpha == ValueMin || onPV || knownRaiseAlpha != MoveNone || ttIsPV

	// Reverse Futility Pruning, (RFP, Static Null Move Pruning)
	// https://www.chessprogramming.org/Reverse_Futility_Pruning
	// Anticipate likely alpha low in the next ply by a beta cut
	// off before making and evaluating the move
	if config.Settings.Search.UseRFP &&
		doNull &&
		depth <= 3 &&
		!isPVNode &&
		!hasCheck {
		// get an evaluation for the position
		staticEval := s.evaluate(p, ply)
		margin := rfp[depth]
		if staticEval-margin >= beta {
			s.statistics.RfpPrunings++
			return staticEval - margin // fail-hard: beta / fail-soft: staticEval - evalMargin;
		}
	}

	// NULL MOVE PRUNING
	// https://www.chessprogramming.org/Null_Move_Pruning
	// Under the assumption the in most chess position it would be better
	// do make a move than to not make a move we can assume that if
	// our positional value after a null move is already above beta (>beta)
	// it would be above beta when doing a move in any case.
	// Certain situations need to be considered though:
	// - Zugzwang - it would be better not to move
	// - in check - this would lead to an illegal situation where the king is captured
	// - recursive null moves should be avoided
	if config.Settings.Search.UseNullMove {
		if doNull &&
			!isPVNode &&
			depth >= config.Settings.Search.NmpDepth &&
			!hasCheck &&
			nullMoveSafe(p, us) {

			// Reduction is independent of how deep into the game phase
			// we are - a shallower formula just caused worse results.
			r := maxInt(5, depth/3)
			newDepth := depth - r - 1
			// double check that depth does not get negative
			if newDepth < 0 {
				newDepth = 0
			}

			// do null move search
			p.DoNullMove()
			s.nodesVisited++
			nValue := -s.search(p, newDepth, ply+1, -beta, -beta+1, false, false, MoveNone)
			p.UndoNullMove()

			// check if we should stop the search
			if s.stopConditions() {
				return ValueNA
			}

			// flag for mate threats
			if nValue > ValueCheckMateThreshold {
				// although this player did not make a move the value still is
				// a mate - very good! Just adjust the value to not return an
				// unproven mate
				s.statistics.NMPMateBeta++
				nValue = ValueCheckMateThreshold
			} else if nValue < -ValueCheckMateThreshold {
				// the player did not move a got mated ==> mate threat
				s.statistics.NMPMateAlpha++
				matethreat = true
			}

			// if the value is higher than beta even after not making
			// a move it is not worth searching as it will very likely
			// be above beta if we make a move
			if nValue >= beta {
				s.statistics.NullMoveCuts++
				// Store TT
				if config.Settings.Search.UseTT {
					s.storeTT(p, depth, ply, nValue, tt.NodeKindCut, ttMove, nil, matethreat)
				}
				return nValue
			}
		}
	}

	// Internal Iterative Deepening (IID)
	// https://www.chessprogramming.org/Internal_Iterative_Deepening
	// Used when no best move from the tt is available from a previous
	// searches. IID is used to find a good move to search first by
	// searching the current position to a reduced depth, and using
	// the best move of that search as the first move at the real depth.
	// Does not make a big difference in search tree size when move
	// order already is good.
	if config.Settings.Search.UseIID {
		if depth >= config.Settings.Search.IIDDepth &&
			ttMove == MoveNone && // no move from TT
			doNull && // avoid in null move search
			isPVNode {

			// get the new depth and make sure it is >0
			newDepth := depth - config.Settings.Search.IIDReduction
			if newDepth < 0 {
				newDepth = 0
			}

			// do the actual reduced search
			s.search(p, newDepth, ply, alpha, beta, onPV, true, MoveNone)
			s.statistics.IIDsearches++

			// check if we should stop the search
			if s.stopConditions() {
				return ValueNA
			}

			// get the best move from the reduced search if available
			if s.pv[ply].Len() > 0 {
				s.statistics.IIDmoves++
				ttMove = s.pv[ply].At(0)
			}
		}
	}

	// A move already known to raise alpha from an aborted pass over
	// this node is searched first, same as a TT/IID move.
	if knownRaiseAlpha != MoveNone {
		ttMove = knownRaiseAlpha
	}

	// reset search
	// !important to do this after IID!
	myMg := s.mg[ply]
	myMg.ResetOnDemand()
	s.pv[ply].Clear()

	// PV Move Sort
	// When we received a best move for the position from the
	// TT, IID or a remembered alpha-raising move we set it as
	// PV move in the movegen so it will be searched first.
	if config.Settings.Search.UseTTMove {
		if ttMove != MoveNone {
			s.statistics.TTMoveUsed++
			myMg.SetPvMove(ttMove)
		} else {
			s.statistics.NoTTMove++
		}
	}

	// prepare move loop
	movesSearched := 0
	entryAlpha := alpha
	raisedAlpha := false

	// ///////////////////////////////////////////////////////
	// MOVE LOOP
moveLoop:
	for move := myMg.GetNextMove(p, movegen.GenAll); move != MoveNone; move = myMg.GetNextMove(p, movegen.GenAll) {

		from := move.From
		to := move.To

		if false { // DEBUG
			err := false
			msg := ""
			switch {
			case !move.IsValid():
				msg = fmt.Sprintf("Position DoMove: Invalid move %s", move.String())
				err = true
			case p.GetPiece(from) == PieceNone:
				msg = fmt.Sprintf("Position DoMove: No piece on %s for move %s", p.GetPiece(from).String(), move.StringUci())
				err = true
			case p.GetPiece(from).ColorOf() != us:
				msg = fmt.Sprintf("Position DoMove: Piece to move does not belong to next player %s", p.GetPiece(from).String())
				err = true
			case p.GetPiece(to).TypeOf() == King:
				msg = fmt.Sprintf("Position DoMove: King cannot be captured!")
				err = true
			}
			if err {
				s.log.Criticalf("Search              : Depth %d Ply %d alpha %d beta %d isPv %t doNull %t\n", depth, ply, alpha, beta, isPVNode, doNull)
				s.log.Criticalf("Position            : %s\n", p.StringFen())
				s.log.Criticalf("Move                : %s\n", move.String())
				s.log.Criticalf("Moves Searched      : %d\n", movesSearched)
				s.log.Criticalf("ttMove              : %s\n", ttMove.String())
				s.log.Criticalf("bestMove            : %s\n", bestNodeMove.String())
				s.log.Criticalf("MoveGen PV          : %s\n", myMg.PvMove())
				s.log.Criticalf("MoveGen K1          : %s\n", myMg.KillerMoves()[0])
				s.log.Criticalf("MoveGen K2          : %s\n", myMg.KillerMoves()[1])
				s.log.Criticalf("MoveGen Moves       : %s\n", myMg.GeneratePseudoLegalMoves(p, movegen.GenAll).StringUci())
				s.log.Criticalf(msg)
				panic(msg)
			}
		} // DEBUG

		// prepare newDepth
		newDepth := depth - 1
		extension := 0

		givesCheck := p.GivesCheck(move)

		// Here we try some search extensions. This has to be done
		// very carefully as it usually is more effective to prune
		// than to extend.
		if config.Settings.Search.UseExt {
			// The check extensions is a bit redundant as our QS search
			// searches all moves anyway when in check. But with this
			// extension we hope to profit from using the prunings
			// of the normal search which are not available in
			// qsearch.
			if config.Settings.Search.UseCheckExt && givesCheck {
				s.statistics.CheckExtension++
				extension = 1
			}

			// If we have found a mate threat during Null Move Search
			// we extend normal search by one ply to try to find
			// a way out.
			if config.Settings.Search.UseThreatExt && matethreat {
				s.statistics.ThreatExtension++
				extension = 1
			}

			newDepth += extension
		}

		isTactical := move.IsPromotion() || p.IsCapturingMove(move)
		killers := myMg.KillerMoves()
		isQuiet := extension == 0 &&
			move != ttMove &&
			move != killers[0] &&
			move != killers[1] &&
			!isTactical &&
			!hasCheck && // pre move
			!givesCheck && // post move
			!matethreat // from pre move null move check

		// ///////////////////////////////////////////////////////
		// Forward Pruning
		// FP and LMP will only be done when the move is not
		// interesting - no check, no capture, etc. - and we are
		// not trying to prove this node is a PV node, since a PV
		// node needs every move searched to be trusted.
		if !isPVNode && isQuiet {

			// to check in futility pruning what material delta we have
			materialEval := p.Material(us) - p.Material(us.Flip())
			moveGain := p.GetPiece(to).ValueOf()

			// Futility Pruning
			// Using an array of margin values for each depth
			// we try to prune moves if they seem not worth
			// searching any further. They are so far below
			// alpha that we can assume a beta cutoff in the
			// next iteration anyway.
			// This is a typical forward pruning technique
			// which might lead to errors.
			// Limited Razoring / Extended FP are covered by this.
			if config.Settings.Search.UseFP && depth < 7 {
				futilityMargin := fp[depth]
				if materialEval+moveGain+futilityMargin <= alpha {
					if materialEval+moveGain > bestNodeValue {
						bestNodeValue = materialEval + moveGain
					}
					s.statistics.FpPrunings++
					continue
				}
			}

			// LMP - Late Move Pruning
			// aka Move Count Based Pruning
			if config.Settings.Search.UseLmp {
				if movesSearched >= LmpMovesSearched(depth) {
					s.statistics.LmpCuts++
					continue
				}
			}
		}
		// ///////////////////////////////////////////////////////

		// research is set once a reduced-depth search at this move
		// unexpectedly beats the running best value, forcing a
		// verification re-search at full depth of the very same move.
		research := false
		var value Value

		for {
			// LMR
			// Late move reduction searches a move at a reduced depth,
			// on the assumption that later moves (by move ordering)
			// rarely exceed alpha; a PV node still gives the first six
			// moves a full look since we cannot yet trust any ordering
			// to have found the true best move. See LmrReduction.
			r := 1
			if config.Settings.Search.UseLmr &&
				!research &&
				depth > 1 &&
				!hasCheck &&
				isQuiet {
				r = LmrReduction(depth, movesSearched, isPVNode)
				if r > 1 {
					s.statistics.LmrReductions++
				}
			}
			lmrDepth := newDepth - (r - 1)
			if lmrDepth < 0 {
				lmrDepth = 0
			}

			// ///////////////////////////////////////////////////////
			// DO MOVE
			p.DoMove(move)

			// check if legal move or skip
			if !p.WasLegalMove() {
				p.UndoMove()
				continue moveLoop
			}

			// we only count legal moves
			s.nodesVisited++
			s.statistics.CurrentVariation.PushBack(move)
			s.sendSearchUpdateToUci()

			// check repetition and 50 moves
			if s.checkDrawRepAnd50(p, 2) {
				value = ValueDraw
			} else {
				// ///////////////////////////////////////////////////////
				// PVS
				// Every move is searched with the full window until one
				// of them raises alpha - at that point we trust move
				// ordering enough that further moves only need to prove
				// they are worse (null window); if one of them turns out
				// to beat the running best after all we pay for a full
				// window re-search to get an accurate value.
				// https://www.chessprogramming.org/Principal_Variation_Search
				if !config.Settings.Search.UsePVS || !raisedAlpha {
					stillOnPv := isPVNode && movesSearched == 0
					value = -s.search(p, lmrDepth, ply+1, -beta, -alpha, stillOnPv, true, MoveNone)
				} else {
					// Null window search under the assumption that the
					// previous moves are better than this one.
					value = -s.search(p, lmrDepth, ply+1, -alpha-1, -alpha, false, true, MoveNone)
					// If there is some move which can raise alpha then
					// this was actually a better move and we must
					// perform a full window search to get an accurate
					// value.
					if bestNodeValue < value {
						value = -s.search(p, lmrDepth, ply+1, -beta, -alpha, true, true, MoveNone)
					}
				}
				// ///////////////////////////////////////////////////////
			}

			s.statistics.CurrentVariation.PopBack()
			p.UndoMove()
			// UNDO MOVE
			// ///////////////////////////////////////////////////////

			// check if we should stop the search
			if s.stopConditions() {
				return ValueNA
			}

			// If this reduced-depth search beat the running best value
			// we cannot yet trust it - re-search the same move at full
			// depth before accepting it.
			if bestNodeValue < value && r > 1 {
				research = true
				s.statistics.LmrResearches++
				continue
			}
			break
		}

		movesSearched++

		// Did we find a better move for this node (not ply)?
		// For the first move this is always the case.
		if value > bestNodeValue {
			// These "best" values are only valid for this node
			// not for all of the ply (not yet clear if >alpha)
			bestNodeValue = value
			bestNodeMove = move
			// Did we find a better move than in previous nodes in ply
			// then this is our new PV and best move for this ply.
			// If we never find a better alpha this means all moves in
			// this node are worse then other moves in other nodes which
			// raised alpha - meaning we have a better move from another
			// node we would play. We will return alpha and store a alpha
			// node in TT with no best move for TT.
			if value > alpha {
				// we have a new best move for the ply
				savePV(move, s.pv[ply+1], s.pv[ply])
				// If we found a move that is better or equal than beta
				// this means that the opponent can/will avoid this
				// position altogether so we can stop search this node.
				// We will not know if our best move is really the
				// best move or how good it really is (value is a lower bound)
				// as we cut off the rest of the search of the node here.
				// We will safe the move as a killer to be able to search it
				// earlier in another node of the ply.
				if value >= beta {
					// Count beta cuts
					s.statistics.BetaCuts++
					// Count beta cuts on first move
					if movesSearched == 1 {
						s.statistics.BetaCuts1st++
					}
					// store move which caused a beta cut off in this ply
					if config.Settings.Search.UseKiller && !p.IsCapturingMove(move) {
						myMg.StoreKiller(move)
					}
					// counter for moves which caused a beta cut off
					// we use 1 << depth as an increment to favor deeper searches
					// a more repetitions
					if config.Settings.Search.UseHistoryCounter {
						s.history.HistoryCount[us][from][to] += 1 << depth
					}
					// store a successful counter move to the previous opponent move
					if config.Settings.Search.UseCounterMoves {
						lastMove := p.LastMove()
						if lastMove != MoveNone {
							s.history.CounterMoves[lastMove.From][lastMove.To] = move
						}
					}
					if config.Settings.Search.UseTT {
						s.storeTT(p, depth, ply, value, tt.NodeKindCut, move, nil, matethreat)
					}
					return beta
				}
				// We found a move between alpha and beta which means we
				// really have found the best move so far in the ply which
				// can be forced (opponent can't avoid it).
				// We raise alpha so the successive searches in this ply
				// need to find even better moves or dismiss the moves.
				alpha = value
				raisedAlpha = true
			}
		}
		// no beta cutoff - decrease historyCounter for the move
		// we decrease it by only half the increase amount
		if config.Settings.Search.UseHistoryCounter {
			s.history.HistoryCount[us][from][to] -= 1 << (depth - 1)
			if s.history.HistoryCount[us][from][to] < 0 {
				s.history.HistoryCount[us][from][to] = 0
			}
		}

		// We believed this was not a PV node, so the moment one move
		// raises alpha without reaching beta we stop: we were wrong
		// and need to restart the whole node treating it as PV.
		if !isPVNode && raisedAlpha {
			break
		}
	}
	// MOVE LOOP
	// ///////////////////////////////////////////////////////

	// We thought we weren't in a PV node but a move raised alpha
	// without reaching beta - restart the node as a PV node, searching
	// the move we now know raises alpha first.
	if !isPVNode && raisedAlpha {
		s.statistics.PvReclassifications++
		return s.search(p, depth, ply, entryAlpha, beta, true, doNull, bestNodeMove)
	}

	// If we did not have at least one legal move
	// then we might have a mate or stalemate
	if movesSearched == 0 && !s.stopConditions() {
		if p.HasCheck() { // mate
			s.statistics.Checkmates++
			bestNodeValue = -ValueCheckMate + Value(ply)
		} else { // stalemate
			s.statistics.Stalemates++
			bestNodeValue = ValueDraw
		}
		raisedAlpha = false
		bestNodeMove = MoveNone
	}

	// Store TT
	// Store search result for this node into the transposition table.
	// A node where some move raised alpha is exact (PV, remembering the
	// continuation); otherwise every move was tried and failed to beat
	// alpha, which is an upper bound (All).
	if config.Settings.Search.UseTT {
		if raisedAlpha {
			// s.pv[ply] already holds bestNodeMove followed by the
			// continuation saved by the last savePV() call that raised
			// alpha in this node - it must not be rebuilt from
			// s.pv[ply+1], which was overwritten by every move searched
			// afterwards regardless of whether it raised alpha.
			s.storeTT(p, depth, ply, bestNodeValue, tt.NodeKindPV, bestNodeMove, *s.pv[ply], matethreat)
		} else {
			s.storeTT(p, depth, ply, bestNodeValue, tt.NodeKindAll, bestNodeMove, nil, matethreat)
		}
	}

	return bestNodeValue
}

// nullMoveSafe reports whether the side to move has enough material left
// that passing cannot be assumed to walk straight into zugzwang: more
// than two pawns and at least one piece other than the king.
func nullMoveSafe(p *position.Position, us Color) bool {
	pawns := p.PiecesBb(us, Pawn).PopCount()
	others := p.OccupiedBb(us).PopCount() - pawns
	return pawns > 2 && others > 1
}

// qsearch is a simplified search to counter the horizon effect in depth based
// searches. It continues the search into deeper branches as long as there are
// so called non quiet moves (usually capture, checks, promotions). Only if the
// position is relatively quiet we will compute an evaluation of the position
// to return to the previous depth.
// Look for non quiet moves is supported be the move generator which only
// generates captures or promotions in qsearch (when not in check) and also
// by SEE (Static Exchange Evaluation) to determine winning captured sequences.
func (s *Search) qsearch(p *position.Position, ply int, alpha Value, beta Value, isPV bool) Value {
	if trace {
		s.slog.Debugf("%0*s Ply %-2.d QSearch     a:%-6.d b:%-6.d pv:%-6.v start:  %s", ply, "", ply, alpha, beta, isPV, s.statistics.CurrentVariation.StringUci())
		defer s.slog.Debugf("%0*s Ply %-2.d QSearch     a:%-6.d b:%-6.d pv:%-6.v end  :  %s", ply, "", ply, alpha, beta, isPV, s.statistics.CurrentVariation.StringUci())
	}

	if s.statistics.CurrentExtraSearchDepth < ply {
		s.statistics.CurrentExtraSearchDepth = ply
	}

	// if we have deactivated qsearch or we have reached our maximum depth
	// we evaluate the position and return the value
	if !config.Settings.Search.UseQuiescence || ply >= MaxDepth {
		return s.evaluate(p, ply)
	}

	// Mate Distance Pruning
	// Did we already find a shorter mate then ignore
	// this one.
	if config.Settings.Search.UseMDP {
		if alpha < -ValueCheckMate+Value(ply) {
			alpha = -ValueCheckMate + Value(ply)
		}
		if beta > ValueCheckMate-Value(ply) {
			beta = ValueCheckMate - Value(ply)
		}
		if alpha >= beta {
			s.statistics.Mdp++
			return alpha
		}
	}

	// prepare node search
	bestNodeValue := ValueNA
	ttMove := MoveNone
	hasCheck := p.HasCheck()

	// if in check we simply do a normal search (all moves) in qsearch
	if !hasCheck {
		// get an evaluation for the position
		staticEval := s.evaluate(p, ply)
		// Quiescence StandPat
		// Use evaluation as a standing pat (lower bound)
		// https://www.chessprogramming.org/Quiescence_Search#Standing_Pat
		// Assumption is that there is at least on move which would improve the
		// current position. So if we are already >beta we don't need to look at it.
		if config.Settings.Search.UseQSStandpat && staticEval > alpha {
			if staticEval >= beta {
				s.statistics.StandpatCuts++
				return staticEval
			}
			alpha = staticEval
		}
		bestNodeValue = staticEval
	}

	// TT Lookup
	if config.Settings.Search.UseQSTT {
		if ttEntry, found := s.tt.Probe(p.ZobristKey()); found {
			s.statistics.TTHit++
			if ttEntry.HasMove() {
				ttMove = ttEntry.Move()
			}
			ttValue := valueFromTT(ttEntry.Value(), ply)
			cut := false
			if ttValue.IsValid() {
				switch ttEntry.Kind() {
				case tt.NodeKindPV:
					cut = true
				case tt.NodeKindCut:
					cut = ttValue >= beta
				case tt.NodeKindAll:
					cut = ttValue <= alpha
				}
			}
			if cut && config.Settings.Search.UseTTValue {
				s.statistics.TTCuts++
				return ttValue
			}
			s.statistics.TTNoCuts++
		} else {
			s.statistics.TTMiss++
		}
	}

	// prepare node search
	bestNodeMove := MoveNone // used to store in the TT
	myMg := s.mg[ply]
	myMg.ResetOnDemand()
	s.pv[ply].Clear()

	// PV Move Sort
	// When we received a best move for the position from the
	// TT we set it as PV move in the movegen so it will be
	// searched first.
	if config.Settings.Search.UseQSTT {
		if ttMove != MoveNone {
			s.statistics.TTMoveUsed++
			myMg.SetPvMove(ttMove)
		} else {
			s.statistics.NoTTMove++
		}
	}

	// prepare move loop
	var value Value
	movesSearched := 0
	raisedAlpha := false

	// if in check we search all moves
	// this is in fact a search extension for checks
	var mode movegen.GenMode
	if hasCheck {
		s.statistics.CheckInQS++
		mode = movegen.GenAll
	} else {
		mode = movegen.GenCap
	}

	// ///////////////////////////////////////////////////////
	// MOVE LOOP
	for move := myMg.GetNextMove(p, mode);
		move != MoveNone; move = myMg.GetNextMove(p, mode) {

		// reduce number of moves searched in quiescence
		// by looking at good captures only
		if !hasCheck && !s.goodCapture(p, move) {
			continue
		}

		// ///////////////////////////////////////////////////////
		// DO MOVE
		p.DoMove(move)

		// check if legal move or skip
		if !p.WasLegalMove() {
			p.UndoMove()
			continue
		}

		// we only count legal moves
		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(move)
		s.sendSearchUpdateToUci()

		// check repetition and 50 moves when in check
		// otherwise only capturing moves are generated
		// which break repetition and 50-moves rule anyway
		if hasCheck && s.checkDrawRepAnd50(p, 2) {
			value = ValueDraw
		} else {
			value = -s.qsearch(p, ply+1, -beta, -alpha, isPV)
		}

		movesSearched++
		s.statistics.CurrentVariation.PopBack()
		p.UndoMove()
		// UNDO MOVE
		// ///////////////////////////////////////////////////////

		// check if we should stop the search
		if s.stopConditions() {
			return ValueNA
		}

		// see search function above for documentation
		if value > bestNodeValue {
			bestNodeValue = value
			bestNodeMove = move
			if value > alpha {
				savePV(move, s.pv[ply+1], s.pv[ply])
				if value >= beta {
					// Count beta cuts
					s.statistics.BetaCuts++
					// Count beta cuts on first move
					if movesSearched == 1 {
						s.statistics.BetaCuts1st++
					}
					// counter for moves which caused a beta cut off
					// qsearch has no remaining depth, so the increment
					// is the fixed 1 << 1
					if config.Settings.Search.UseHistoryCounter {
						s.history.HistoryCount[p.NextPlayer()][move.From][move.To] += 1 << 1
					}
					// store a successful counter move to the previous opponent move
					if config.Settings.Search.UseCounterMoves {
						lastMove := p.LastMove()
						if lastMove != MoveNone {
							s.history.CounterMoves[lastMove.From][lastMove.To] = move
						}
					}
					if config.Settings.Search.UseQSTT {
						s.storeTT(p, 1, ply, value, tt.NodeKindCut, move, nil, false)
					}
					return beta
				}
				alpha = value
				raisedAlpha = true
			}
		}
	}
	// MOVE LOOP
	// ///////////////////////////////////////////////////////

	// if we did not have at least one legal move
	// then we might have a mate or in quiescence
	// only quite moves
	if movesSearched == 0 && !s.stopConditions() {
		// if we have a mate we had a check before and therefore
		// generated all move. We can be sure this is a mate.
		if p.HasCheck() {
			s.statistics.Checkmates++
			bestNodeValue = -ValueCheckMate + Value(ply)
			raisedAlpha = false
			bestNodeMove = MoveNone
		}
		// if we do not have mate we had no check and
		// therefore might have only quiet moves which
		// we did not generate.
		// We return the standpat value in this case
		// which we have set to bestNodeValue in the
		// static eval earlier
	}

	// Store TT
	if config.Settings.Search.UseQSTT {
		if raisedAlpha && bestNodeMove != MoveNone {
			s.storeTT(p, 1, ply, bestNodeValue, tt.NodeKindPV, bestNodeMove, *s.pv[ply], false)
		} else {
			s.storeTT(p, 1, ply, bestNodeValue, tt.NodeKindAll, bestNodeMove, nil, false)
		}
	}

	return bestNodeValue
}

// call evaluation on the position
func (s *Search) evaluate(p *position.Position, ply int) Value {
	s.statistics.LeafPositionsEvaluated++

	var value = ValueNA

	if config.Settings.Search.UseTT && config.Settings.Search.UseEvalTT {
		if ttEntry, found := s.tt.Probe(p.ZobristKey()); found {
			s.statistics.TTHit++
			s.statistics.EvaluationsFromTT++
			value = valueFromTT(ttEntry.Value(), ply)
		}
	}

	if value == ValueNA {
		s.statistics.Evaluations++
		value = s.eval.Evaluate(p)
	}

	if config.Settings.Search.UseTT && config.Settings.Search.UseEvalTT {
		s.storeTT(p, 0, ply, value, tt.NodeKindPV, MoveNone, nil, false)
	}

	return value
}

// reduce the number of moves searched in quiescence search by trying
// to only look at good captures. Might be improved with SEE in the
// future
func (s *Search) goodCapture(p *position.Position, move Move) bool {
	if config.Settings.Search.UseSEE {
		// Check SEE score of higher value pieces to low value pieces
		return see(p, move) > 0
	} else {
		// Lower value piece captures higher value piece
		// With a margin to also look at Bishop x Knight
		return p.GetPiece(move.From).ValueOf()+50 < p.GetPiece(move.To).ValueOf() ||
			// all recaptures should be looked at
			(p.LastMove() != MoveNone && p.LastMove().To == move.To && p.LastCapturedPiece() != PieceNone) ||
			// undefended pieces captures are good
			// If the defender is "behind" the attacker this will not be recognized
			// here This is not too bad as it only adds a move to qsearch which we
			// could otherwise ignore
			!p.IsAttacked(move.To, p.NextPlayer().Flip())
	}
}

// savePV adds the given move as first move to a cleared dest and the appends
// all src moves to dest
func savePV(move Move, src *MoveList, dest *MoveList) {
	dest.Clear()
	dest.PushBack(move)
	*dest = append(*dest, *src...)
}

// setPV replaces dest with a copy of path.
func setPV(path MoveList, dest *MoveList) {
	dest.Clear()
	*dest = append(*dest, path...)
}

// storeTT stores a position into the TT. kind/move/path classify the
// result as described on tt.NodeKind; path is only meaningful for
// tt.NodeKindPV. value is corrected for mate distance before storing.
func (s *Search) storeTT(p *position.Position, depth int, ply int, value Value, kind tt.NodeKind, move Move, path MoveList, mateThreat bool) {
	s.tt.Put(p.ZobristKey(), int8(depth), valueToTT(value, ply), kind, move, path, s.searchRootIndex, mateThreat)
}

// correct the value for mate distance when storing to TT
func valueToTT(value Value, ply int) Value {
	if value.IsCheckMateValue() {
		if value > 0 {
			value = value + Value(ply)
		} else {
			value = value - Value(ply)
		}
	}
	return value
}

// correct the value for mate distance when reading from TT
func valueFromTT(value Value, ply int) Value {
	if value.IsCheckMateValue() {
		if value > 0 {
			value = value - Value(ply)
		} else {
			value = value + Value(ply)
		}
	}
	return value
}
