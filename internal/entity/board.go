package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/quantum-tictactoe/internal/apperror"
)

// Mark is the symbol a seat places on a board.
type Mark string

const (
	MarkX     Mark = "X"
	MarkO     Mark = "O"
	EmptyCell Mark = ""
)

// BoardID identifies one of the three sub-boards.
type BoardID string

const (
	BoardA BoardID = "A"
	BoardB BoardID = "B"
	BoardC BoardID = "C"
)

const (
	boardCount = 3
	boardSize  = 3
)

// BoardIDs lists the sub-boards in index order.
var BoardIDs = [boardCount]BoardID{BoardA, BoardB, BoardC}

// WinCombos are the 8 lines of a 3x3 grid over row-major cell indexes.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// ParseBoardID accepts a, b, c in either case.
func ParseBoardID(s string) (BoardID, error) {
	id := BoardID(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := id.index(); !ok {
		return "", fmt.Errorf("%w: board %q", apperror.ErrInvalidMove, s)
	}

	return id, nil
}

func (that BoardID) index() (int, bool) {
	for i, id := range BoardIDs {
		if id == that {
			return i, true
		}
	}

	return 0, false
}

// SubBoard is one 3x3 grid. It is a plain value: copying it copies the cells.
type SubBoard struct {
	Cells     [boardSize][boardSize]Mark `json:"cells"`
	Completed bool                       `json:"completed"`
	Winner    Mark                       `json:"winner,omitempty"`
}

// Cell returns the mark at row, col. Callers must pass in-range coordinates.
func (that *SubBoard) Cell(row, col int) Mark {
	return that.Cells[row][col]
}

func (that *SubBoard) at(i int) Mark {
	return that.Cells[i/boardSize][i%boardSize]
}

// DetermineResult returns the mark holding a full line, or EmptyCell with full=true for a drawn board.
func (that *SubBoard) DetermineResult() (winner Mark, full bool) {
	for _, combo := range WinCombos {
		a, b, c := that.at(combo[0]), that.at(combo[1]), that.at(combo[2])
		if a != EmptyCell && a == b && b == c {
			return a, true
		}
	}

	for i := range boardSize * boardSize {
		if that.at(i) == EmptyCell {
			return EmptyCell, false
		}
	}

	return EmptyCell, true
}

// place marks a cell and settles the board. It reports the mark that won the board, if any.
// The caller has already checked that the board is open and the cell is empty.
func (that *SubBoard) place(row, col int, mark Mark) Mark {
	that.Cells[row][col] = mark

	winner, done := that.DetermineResult()
	if !done {
		return EmptyCell
	}

	that.Completed = true
	that.Winner = winner

	return winner
}

func validPosition(row, col int) bool {
	return row >= 0 && row < boardSize && col >= 0 && col < boardSize
}
