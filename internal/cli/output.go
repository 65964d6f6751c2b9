package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rocketscienceinc/quantum-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/quantum-tictactoe/internal/entity"
	"github.com/rocketscienceinc/quantum-tictactoe/internal/script"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// matchView is a snapshot as printed to the user.
type matchView struct {
	ID   string      `json:"id,omitempty"`
	Turn entity.Mark `json:"turn,omitempty"`
	entity.Snapshot
}

type stepView struct {
	Index int    `json:"index"`
	Step  string `json:"step"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

type replayView struct {
	Steps []stepView `json:"steps"`
	Match matchView  `json:"match"`
}

// Output formats results for the configured format.
type Output struct {
	format string
	w      io.Writer
}

func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

func newMatchView(id string, snapshot entity.Snapshot) matchView {
	view := matchView{ID: id, Snapshot: snapshot}
	if snapshot.Status == entity.StatusInProgress {
		view.Turn = snapshot.Turn()
	}

	return view
}

func (that *Output) PrintMatch(id string, snapshot entity.Snapshot) error {
	view := newMatchView(id, snapshot)
	if that.format == outputJSON {
		return that.printJSON(view)
	}

	that.printMatchText(view)

	return nil
}

func (that *Output) PrintReplay(results []script.Result, snapshot entity.Snapshot) error {
	view := replayView{Steps: make([]stepView, 0, len(results)), Match: newMatchView("", snapshot)}
	for _, result := range results {
		step := stepView{Index: result.Index, Step: result.Step.String()}
		if result.Err != nil {
			step.Error = result.Err.Error()
			step.Kind = string(apperror.KindOf(result.Err))
		}
		view.Steps = append(view.Steps, step)
	}

	if that.format == outputJSON {
		return that.printJSON(view)
	}

	for _, step := range view.Steps {
		if step.Error != "" {
			fmt.Fprintf(that.w, "%3d  %-20s rejected: %s\n", step.Index, step.Step, step.Error)
		} else {
			fmt.Fprintf(that.w, "%3d  %-20s ok\n", step.Index, step.Step)
		}
	}
	fmt.Fprintln(that.w)
	that.printMatchText(view.Match)

	return nil
}

func (that *Output) PrintMessage(msg string) error {
	if that.format == outputJSON {
		return that.printJSON(map[string]string{"message": msg})
	}

	_, err := fmt.Fprintln(that.w, msg)

	return err
}

func (that *Output) printJSON(data any) error {
	enc := json.NewEncoder(that.w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	return nil
}

func (that *Output) printMatchText(view matchView) {
	if view.ID != "" {
		fmt.Fprintf(that.w, "Match:  %s\n", view.ID)
	}

	fmt.Fprintf(that.w, "Status: %s\n", view.Status)
	if view.Turn != entity.EmptyCell {
		fmt.Fprintf(that.w, "Turn:   %s\n", view.Turn)
	}

	fmt.Fprintf(that.w, "X:      %s (%d)\n", seatName(view.X), view.XScore)
	fmt.Fprintf(that.w, "O:      %s (%d)\n", seatName(view.O), view.OScore)

	if view.Status == entity.StatusOver {
		if view.Winner != "" {
			fmt.Fprintf(that.w, "Winner: %s\n", view.Winner)
		} else {
			fmt.Fprintln(that.w, "Winner: none (tie)")
		}
	}

	fmt.Fprintln(that.w)
	fmt.Fprint(that.w, renderBoards(view.Boards))
}

func seatName(playerID string) string {
	if playerID == "" {
		return "-"
	}

	return playerID
}

// renderBoards draws the sub-boards side by side with a header naming each board's state.
func renderBoards(boards [3]entity.SubBoard) string {
	var b strings.Builder

	headers := make([]string, len(boards))
	for i, board := range boards {
		header := string(entity.BoardIDs[i])
		switch {
		case board.Completed && board.Winner != entity.EmptyCell:
			header += " [" + string(board.Winner) + "]"
		case board.Completed:
			header += " [draw]"
		}
		headers[i] = fmt.Sprintf("%-10s", header)
	}
	b.WriteString(strings.TrimRight(strings.Join(headers, "  "), " "))
	b.WriteString("\n")

	for row := range 3 {
		lines := make([]string, len(boards))
		for i := range boards {
			cells := make([]string, 3)
			for col := range 3 {
				cells[col] = cellText(boards[i].Cells[row][col])
			}
			lines[i] = fmt.Sprintf("%-10s", strings.Join(cells, " "))
		}
		b.WriteString(strings.TrimRight(strings.Join(lines, "  "), " "))
		b.WriteString("\n")
	}

	return b.String()
}

func cellText(mark entity.Mark) string {
	if mark == entity.EmptyCell {
		return "."
	}

	return string(mark)
}
