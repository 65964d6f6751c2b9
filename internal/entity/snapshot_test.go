package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/quantum-tictactoe/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestore(t *testing.T) {
	t.Run("Restores a match in progress", func(t *testing.T) {
		// Given: a snapshot of a match where X has won board A
		match := newStartedMatch(t)
		playSteps(t, match, winBoards[:6])
		snapshot := match.Snapshot()

		// When: restoring it
		restored, err := Restore(snapshot)

		// Then: the restored match has the same state and keeps playing
		require.NoError(t, err)
		assert.Equal(t, snapshot, restored.Snapshot())
		assert.NoError(t, restored.ApplyMove(player1, BoardB, 0, 0))
		assert.ErrorIs(t, restored.ApplyMove(player1, BoardB, 0, 1), apperror.ErrNotYourTurn)
	})

	t.Run("Restores an empty and a half-seated match", func(t *testing.T) {
		empty := NewMatch()
		restored, err := Restore(empty.Snapshot())
		require.NoError(t, err)
		assert.Equal(t, empty.Snapshot(), restored.Snapshot())

		waiting := NewMatch()
		require.NoError(t, waiting.Join(player1))
		restored, err = Restore(waiting.Snapshot())
		require.NoError(t, err)
		assert.Equal(t, waiting.Snapshot(), restored.Snapshot())
	})

	t.Run("Restores a match ended by a leave", func(t *testing.T) {
		for _, leaver := range []string{player1, player2} {
			// Given: a match ended by one player leaving
			match := newStartedMatch(t)
			playSteps(t, match, winBoards[:3])
			require.NoError(t, match.Leave(leaver))
			snapshot := match.Snapshot()

			// When: restoring it
			restored, err := Restore(snapshot)

			// Then: the leave outcome is kept
			require.NoError(t, err)
			assert.Equal(t, snapshot, restored.Snapshot())
		}
	})

	t.Run("Restores a match that went through JSON", func(t *testing.T) {
		match := newStartedMatch(t)
		playSteps(t, match, winBoards)
		require.NoError(t, match.ApplyMove(player2, BoardC, 1, 1))

		data, err := json.Marshal(match.Snapshot())
		require.NoError(t, err)

		var decoded Snapshot
		require.NoError(t, json.Unmarshal(data, &decoded))

		restored, err := Restore(decoded)
		require.NoError(t, err)
		assert.Equal(t, StatusOver, restored.Status())
		assert.Equal(t, player1, restored.Snapshot().Winner)
	})

	t.Run("Rejects a snapshot with an illegal move", func(t *testing.T) {
		// Given: a snapshot where O moved first
		snapshot := NewMatch().Snapshot()
		snapshot.X, snapshot.O = player1, player2
		snapshot.Status = StatusInProgress
		snapshot.Moves = []Move{{Board: BoardA, Row: 0, Col: 0, Mark: MarkO}}

		// When: restoring it
		_, err := Restore(snapshot)

		// Then: it is reported as corrupt with the cause attached
		require.ErrorIs(t, err, apperror.ErrCorruptSnapshot)
		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Rejects a snapshot whose outcome does not match its moves", func(t *testing.T) {
		match := newStartedMatch(t)
		playSteps(t, match, winBoards[:5])
		snapshot := match.Snapshot()
		snapshot.XScore = 0

		_, err := Restore(snapshot)

		assert.ErrorIs(t, err, apperror.ErrCorruptSnapshot)
	})

	t.Run("Rejects duplicate seats", func(t *testing.T) {
		snapshot := Snapshot{X: player1, O: player1, Status: StatusInProgress}

		_, err := Restore(snapshot)

		require.ErrorIs(t, err, apperror.ErrCorruptSnapshot)
		assert.ErrorIs(t, err, apperror.ErrPlayerAlreadyInGame)
	})
}

func TestSnapshot_Board(t *testing.T) {
	snapshot := NewMatch().Snapshot()

	_, ok := snapshot.Board("Z")
	assert.False(t, ok)

	board, ok := snapshot.Board(BoardC)
	assert.True(t, ok)
	assert.False(t, board.Completed)
}
