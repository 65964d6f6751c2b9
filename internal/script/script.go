// Package script replays a written sequence of joins, leaves and moves against a fresh match.
package script

import (
	"errors"
	"fmt"
	"io"

	"github.com/rocketscienceinc/quantum-tictactoe/internal/entity"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyStep     = errors.New("step has no action")
	ErrAmbiguousStep = errors.New("step has more than one action")
)

// Script is a match setup plus its steps, in order.
type Script struct {
	EarlyFinish bool   `yaml:"early-finish"`
	Steps       []Step `yaml:"steps"`
}

// Step holds exactly one of Join, Leave or Move.
type Step struct {
	Join  string    `yaml:"join,omitempty"`
	Leave string    `yaml:"leave,omitempty"`
	Move  *MoveStep `yaml:"move,omitempty"`
}

type MoveStep struct {
	Player string `yaml:"player"`
	Board  string `yaml:"board"`
	Row    int    `yaml:"row"`
	Col    int    `yaml:"col"`
}

// Result is the outcome of one step.
type Result struct {
	Index int
	Step  Step
	Err   error
}

// Parse decodes a script and checks that every step names exactly one action.
func Parse(r io.Reader) (*Script, error) {
	var s Script

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}

	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	return &s, nil
}

func (that Step) validate() error {
	actions := 0
	if that.Join != "" {
		actions++
	}
	if that.Leave != "" {
		actions++
	}
	if that.Move != nil {
		actions++
	}

	switch actions {
	case 0:
		return ErrEmptyStep
	case 1:
		return nil
	default:
		return ErrAmbiguousStep
	}
}

// Options returns the match options the script asks for.
func (that *Script) Options() []entity.Option {
	if that.EarlyFinish {
		return []entity.Option{entity.WithEarlyFinish()}
	}

	return nil
}

// Run applies the steps to match in order. Rejected steps are recorded and skipped; with strict
// set, Run stops after the first rejection.
func (that *Script) Run(match *entity.Match, strict bool) []Result {
	results := make([]Result, 0, len(that.Steps))

	for i, step := range that.Steps {
		err := step.apply(match)
		results = append(results, Result{Index: i, Step: step, Err: err})

		if err != nil && strict {
			break
		}
	}

	return results
}

func (that Step) apply(match *entity.Match) error {
	switch {
	case that.Join != "":
		return match.Join(that.Join)
	case that.Leave != "":
		return match.Leave(that.Leave)
	case that.Move != nil:
		board, err := entity.ParseBoardID(that.Move.Board)
		if err != nil {
			return err
		}

		return match.ApplyMove(that.Move.Player, board, that.Move.Row, that.Move.Col)
	default:
		return ErrEmptyStep
	}
}

func (that Step) String() string {
	switch {
	case that.Join != "":
		return "join " + that.Join
	case that.Leave != "":
		return "leave " + that.Leave
	case that.Move != nil:
		return fmt.Sprintf("move %s %s %d %d", that.Move.Player, that.Move.Board, that.Move.Row, that.Move.Col)
	default:
		return "empty"
	}
}
