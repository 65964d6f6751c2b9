package entity

import (
	"fmt"

	"github.com/rocketscienceinc/quantum-tictactoe/internal/apperror"
)

// Status is the lifecycle phase of a match.
type Status string

const (
	StatusWaiting    Status = "WAITING_TO_START"
	StatusInProgress Status = "IN_PROGRESS"
	StatusOver       Status = "OVER"
)

// majority is the number of sub-boards that decides a match when early finish is enabled.
const majority = boardCount/2 + 1

// Move is one applied move, in commit order.
type Move struct {
	Board BoardID `json:"board"`
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	Mark  Mark    `json:"mark"`
}

// Option configures a Match.
type Option func(*Match)

// WithEarlyFinish ends the match as soon as one mark has won a majority of sub-boards.
// The winner is the same one the full tally would produce.
func WithEarlyFinish() Option {
	return func(m *Match) {
		m.earlyFinish = true
	}
}

// Match is the game state machine. It is not safe for concurrent use; callers serialize
// operations per match.
type Match struct {
	playerX string
	playerO string
	status  Status
	moves   []Move
	xScore  int
	oScore  int
	winner  string
	boards  [boardCount]SubBoard

	earlyFinish bool
}

func NewMatch(opts ...Option) *Match {
	match := &Match{status: StatusWaiting}
	for _, opt := range opts {
		opt(match)
	}

	return match
}

// Join seats a player: X first, then O. Filling the second seat starts the match.
func (that *Match) Join(playerID string) error {
	if playerID == "" {
		return apperror.ErrInvalidPlayer
	}

	if that.seatOf(playerID) != EmptyCell {
		return apperror.ErrPlayerAlreadyInGame
	}

	switch {
	case that.playerX == "":
		that.playerX = playerID
	case that.playerO == "":
		that.playerO = playerID
	default:
		return apperror.ErrGameFull
	}

	if that.playerX != "" && that.playerO != "" {
		that.status = StatusInProgress
	}

	return nil
}

// Leave removes a player. With both seats filled the match ends and the other player wins;
// seats, moves and scores are kept. A lone player's seat is vacated.
func (that *Match) Leave(playerID string) error {
	seat := that.seatOf(playerID)
	if seat == EmptyCell {
		return apperror.ErrPlayerNotInGame
	}

	switch {
	case that.status == StatusOver:
		// OVER is terminal. A leave after a board-decided or leave-decided finish
		// keeps the recorded winner and scores.
		return nil
	case that.playerX != "" && that.playerO != "":
		that.status = StatusOver
		if seat == MarkX {
			that.winner = that.playerO
		} else {
			that.winner = that.playerX
		}
	default:
		that.playerX, that.playerO = "", ""
		that.status = StatusWaiting
		that.winner = ""
		that.moves = nil
		that.xScore, that.oScore = 0, 0
		that.boards = [boardCount]SubBoard{}
	}

	return nil
}

// ApplyMove validates and commits a move for playerID. A rejected move leaves the match untouched.
func (that *Match) ApplyMove(playerID string, board BoardID, row, col int) error {
	if that.status != StatusInProgress {
		return apperror.ErrGameNotInProgress
	}

	mark := that.Turn()
	if that.seatOf(playerID) != mark {
		return apperror.ErrNotYourTurn
	}

	idx, ok := board.index()
	if !ok || !validPosition(row, col) {
		return fmt.Errorf("%w: board %q row %d col %d", apperror.ErrInvalidMove, board, row, col)
	}

	subBoard := &that.boards[idx]
	if subBoard.Completed {
		return apperror.ErrBoardAlreadyDecided
	}

	if subBoard.Cell(row, col) != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.moves = append(that.moves, Move{Board: board, Row: row, Col: col, Mark: mark})

	switch subBoard.place(row, col, mark) {
	case MarkX:
		that.xScore++
	case MarkO:
		that.oScore++
	}

	that.updateMatchState()

	return nil
}

// Turn is the mark due to move next, derived from the number of moves made.
func (that *Match) Turn() Mark {
	return turnFor(len(that.moves))
}

func (that *Match) Status() Status {
	return that.status
}

// Snapshot returns a copy of the full match state that shares nothing with the match.
func (that *Match) Snapshot() Snapshot {
	moves := make([]Move, len(that.moves))
	copy(moves, that.moves)

	return Snapshot{
		X:      that.playerX,
		O:      that.playerO,
		Status: that.status,
		Moves:  moves,
		XScore: that.xScore,
		OScore: that.oScore,
		Winner: that.winner,
		Boards: that.boards,
	}
}

func (that *Match) updateMatchState() {
	if that.earlyFinish && (that.xScore >= majority || that.oScore >= majority) {
		that.finishByScore()
		return
	}

	for i := range that.boards {
		if !that.boards[i].Completed {
			return
		}
	}

	that.finishByScore()
}

func (that *Match) finishByScore() {
	that.status = StatusOver

	switch {
	case that.xScore > that.oScore:
		that.winner = that.playerX
	case that.oScore > that.xScore:
		that.winner = that.playerO
	default:
		that.winner = ""
	}
}

func (that *Match) seatOf(playerID string) Mark {
	switch {
	case playerID == "":
		return EmptyCell
	case playerID == that.playerX:
		return MarkX
	case playerID == that.playerO:
		return MarkO
	default:
		return EmptyCell
	}
}

func turnFor(moveCount int) Mark {
	if moveCount%2 == 0 {
		return MarkX
	}

	return MarkO
}
