package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rocketscienceinc/quantum-tictactoe/internal/entity"
	"github.com/rocketscienceinc/quantum-tictactoe/internal/script"
	"github.com/spf13/cobra"
)

var ErrReplayRejected = errors.New("replay stopped at a rejected step")

func newReplayCmd(opts *rootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "replay <script.yml>",
		Short: "Play a YAML script of joins, leaves and moves against a fresh in-memory match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open script: %w", err)
			}
			defer file.Close()

			s, err := script.Parse(file)
			if err != nil {
				return err
			}

			options := s.Options()
			if !s.EarlyFinish && opts.conf.Match.EarlyFinish {
				options = append(options, entity.WithEarlyFinish())
			}

			match := entity.NewMatch(options...)
			results := s.Run(match, strict)

			opts.logger.Debug("replay finished", "script", args[0], "steps", len(results), "status", match.Status())

			if err = NewOutput(opts.output, cmd.OutOrStdout()).PrintReplay(results, match.Snapshot()); err != nil {
				return err
			}

			if strict && len(results) > 0 {
				if last := results[len(results)-1]; last.Err != nil {
					return fmt.Errorf("%w: step %d: %w", ErrReplayRejected, last.Index, last.Err)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Stop at the first rejected step and exit non-zero")

	return cmd
}
