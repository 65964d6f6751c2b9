package cli

import (
	"bytes"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rocketscienceinc/quantum-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/quantum-tictactoe/internal/entity"
	"github.com/rocketscienceinc/quantum-tictactoe/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), err
}

func useRedis(t *testing.T) {
	t.Helper()

	_, st := suite.New(t)
	host, port, err := net.SplitHostPort(st.Addr)
	require.NoError(t, err)

	t.Setenv("QTTT_CONFIG", "")
	t.Setenv("QTTT_REDIS_HOST", host)
	t.Setenv("QTTT_REDIS_PORT", port)
}

func writeScript(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "script.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestMatchCommands(t *testing.T) {
	useRedis(t)

	// Given: a new match
	out, err := runCmd(t, "match", "new", "-o", "json")
	require.NoError(t, err)

	var created matchView
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, entity.StatusWaiting, created.Status)

	// When: two players join and X wins board A
	for _, args := range [][]string{
		{"match", "join", created.ID, "p1"},
		{"match", "join", created.ID, "p2"},
		{"match", "move", created.ID, "p1", "a", "0", "0"},
		{"match", "move", created.ID, "p2", "b", "0", "0"},
		{"match", "move", created.ID, "p1", "a", "0", "1"},
		{"match", "move", created.ID, "p2", "b", "0", "1"},
		{"match", "move", created.ID, "p1", "a", "0", "2"},
	} {
		_, err = runCmd(t, args...)
		require.NoError(t, err, strings.Join(args, " "))
	}

	// Then: show reports the score
	out, err = runCmd(t, "match", "show", created.ID, "-o", "json")
	require.NoError(t, err)

	var shown matchView
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, 1, shown.XScore)
	assert.Equal(t, entity.MarkO, shown.Turn)

	out, err = runCmd(t, "match", "show", created.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Status: IN_PROGRESS")
	assert.Contains(t, out, "A [X]")

	// And: rejections surface as errors
	_, err = runCmd(t, "match", "move", created.ID, "p1", "b", "2", "2")
	require.ErrorIs(t, err, apperror.ErrNotYourTurn)

	_, err = runCmd(t, "match", "move", created.ID, "p2", "q", "0", "0")
	require.ErrorIs(t, err, apperror.ErrInvalidMove)

	// And: leaving ends the match
	out, err = runCmd(t, "match", "leave", created.ID, "p2")
	require.NoError(t, err)
	assert.Contains(t, out, "Winner: p1")

	// And: discard removes it
	_, err = runCmd(t, "match", "discard", created.ID)
	require.NoError(t, err)

	_, err = runCmd(t, "match", "show", created.ID)
	assert.ErrorIs(t, err, apperror.ErrMatchNotFound)
}

func TestReplayCommand(t *testing.T) {
	t.Setenv("QTTT_CONFIG", "")

	t.Run("Prints each step and the final match", func(t *testing.T) {
		path := writeScript(t, `
steps:
  - join: p1
  - join: p2
  - move: {player: p1, board: A, row: 0, col: 0}
  - move: {player: p1, board: A, row: 1, col: 1}
  - leave: p1
`)

		out, err := runCmd(t, "replay", path)

		require.NoError(t, err)
		assert.Contains(t, out, "move p1 A 1 1")
		assert.Contains(t, out, "rejected: it's not your turn")
		assert.Contains(t, out, "Status: OVER")
		assert.Contains(t, out, "Winner: p2")
	})

	t.Run("JSON output carries rejection kinds", func(t *testing.T) {
		path := writeScript(t, "steps:\n  - join: p1\n  - join: p1\n")

		out, err := runCmd(t, "replay", path, "-o", "json")
		require.NoError(t, err)

		var view replayView
		require.NoError(t, json.Unmarshal([]byte(out), &view))
		require.Len(t, view.Steps, 2)
		assert.Empty(t, view.Steps[0].Error)
		assert.Equal(t, string(apperror.KindPlayerAlreadyInGame), view.Steps[1].Kind)
		assert.Equal(t, "p1", view.Match.X)
	})

	t.Run("Strict mode fails on a rejection", func(t *testing.T) {
		path := writeScript(t, "steps:\n  - leave: p1\n  - join: p1\n")

		out, err := runCmd(t, "replay", "--strict", path)

		require.ErrorIs(t, err, ErrReplayRejected)
		assert.ErrorIs(t, err, apperror.ErrPlayerNotInGame)
		assert.NotContains(t, out, "join p1")
	})

	t.Run("Early finish from the config applies to the replay", func(t *testing.T) {
		t.Setenv("QTTT_EARLY_FINISH", "true")
		path := writeScript(t, `
steps:
  - join: p1
  - join: p2
  - move: {player: p1, board: A, row: 0, col: 0}
  - move: {player: p2, board: C, row: 0, col: 0}
  - move: {player: p1, board: A, row: 0, col: 1}
  - move: {player: p2, board: C, row: 0, col: 1}
  - move: {player: p1, board: A, row: 0, col: 2}
  - move: {player: p2, board: C, row: 1, col: 0}
  - move: {player: p1, board: B, row: 0, col: 0}
  - move: {player: p2, board: C, row: 1, col: 2}
  - move: {player: p1, board: B, row: 0, col: 1}
  - move: {player: p2, board: C, row: 2, col: 1}
  - move: {player: p1, board: B, row: 0, col: 2}
`)

		out, err := runCmd(t, "replay", path)

		require.NoError(t, err)
		assert.Contains(t, out, "Status: OVER")
		assert.Contains(t, out, "Winner: p1")
	})

	t.Run("Missing script", func(t *testing.T) {
		_, err := runCmd(t, "replay", filepath.Join(t.TempDir(), "absent.yml"))

		assert.Error(t, err)
	})
}

func TestRootCmd_UnknownOutput(t *testing.T) {
	t.Setenv("QTTT_CONFIG", "")

	_, err := runCmd(t, "replay", "whatever.yml", "-o", "xml")

	assert.ErrorContains(t, err, "unknown output format")
}

func TestRenderBoards(t *testing.T) {
	// Given: X has won A and C is drawn
	var boards [3]entity.SubBoard
	boards[0].Cells[0] = [3]entity.Mark{entity.MarkX, entity.MarkX, entity.MarkX}
	boards[0].Completed = true
	boards[0].Winner = entity.MarkX
	boards[1].Cells[1][1] = entity.MarkO
	boards[2].Completed = true

	// When: rendering
	lines := strings.Split(strings.TrimRight(renderBoards(boards), "\n"), "\n")

	// Then: headers carry the board state and rows show the cells
	require.Len(t, lines, 4)
	assert.Equal(t, "A [X]       B           C [draw]", lines[0])
	assert.Equal(t, "X X X       . . .       . . .", lines[1])
	assert.Equal(t, ". . .       . O .       . . .", lines[2])
}
