package entity

import (
	"fmt"

	"github.com/rocketscienceinc/quantum-tictactoe/internal/apperror"
)

// Snapshot is a read-only copy of a match, suitable for broadcasting and storage.
type Snapshot struct {
	X      string               `json:"x,omitempty"`
	O      string               `json:"o,omitempty"`
	Status Status               `json:"status"`
	Moves  []Move               `json:"moves"`
	XScore int                  `json:"x_score"`
	OScore int                  `json:"o_score"`
	Winner string               `json:"winner,omitempty"`
	Boards [boardCount]SubBoard `json:"boards"`
}

// Turn is the mark due to move next. It is meaningful only while the match is in progress.
func (that Snapshot) Turn() Mark {
	return turnFor(len(that.Moves))
}

// Board returns a copy of the sub-board with the given id.
func (that Snapshot) Board(id BoardID) (SubBoard, bool) {
	idx, ok := id.index()
	if !ok {
		return SubBoard{}, false
	}

	return that.Boards[idx], true
}

// Restore rebuilds a match from a snapshot by replaying it through the engine, so a
// restored match always satisfies the same invariants as a live one.
func Restore(snapshot Snapshot, opts ...Option) (*Match, error) {
	match := NewMatch(opts...)

	for _, playerID := range []string{snapshot.X, snapshot.O} {
		if playerID == "" {
			continue
		}

		if err := match.Join(playerID); err != nil {
			return nil, fmt.Errorf("%w: seat %q: %w", apperror.ErrCorruptSnapshot, playerID, err)
		}
	}

	for i, move := range snapshot.Moves {
		playerID := snapshot.X
		if move.Mark == MarkO {
			playerID = snapshot.O
		}

		if err := match.ApplyMove(playerID, move.Board, move.Row, move.Col); err != nil {
			return nil, fmt.Errorf("%w: move %d: %w", apperror.ErrCorruptSnapshot, i, err)
		}
	}

	// a match that ended before the boards decided it was ended by a leave
	if snapshot.Status == StatusOver && match.Status() != StatusOver {
		leaver := snapshot.X
		if snapshot.Winner == snapshot.X {
			leaver = snapshot.O
		}

		if err := match.Leave(leaver); err != nil {
			return nil, fmt.Errorf("%w: leave: %w", apperror.ErrCorruptSnapshot, err)
		}
	}

	if restored := match.Snapshot(); !sameOutcome(restored, snapshot) {
		return nil, fmt.Errorf("%w: replay ends in %s, snapshot says %s", apperror.ErrCorruptSnapshot, restored.Status, snapshot.Status)
	}

	return match, nil
}

func sameOutcome(a, b Snapshot) bool {
	if len(a.Moves) != len(b.Moves) {
		return false
	}

	for i := range a.Moves {
		if a.Moves[i] != b.Moves[i] {
			return false
		}
	}

	return a.X == b.X &&
		a.O == b.O &&
		a.Status == b.Status &&
		a.Winner == b.Winner &&
		a.XScore == b.XScore &&
		a.OScore == b.OScore &&
		a.Boards == b.Boards
}
