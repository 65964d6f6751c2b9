package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/quantum-tictactoe/internal/entity"
	"github.com/rocketscienceinc/quantum-tictactoe/internal/usecase"
	"github.com/spf13/cobra"
)

func newMatchCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match commands",
	}

	cmd.AddCommand(newMatchNewCmd(opts))
	cmd.AddCommand(newMatchShowCmd(opts))
	cmd.AddCommand(newMatchJoinCmd(opts))
	cmd.AddCommand(newMatchLeaveCmd(opts))
	cmd.AddCommand(newMatchMoveCmd(opts))
	cmd.AddCommand(newMatchDiscardCmd(opts))

	return cmd
}

// withMatches opens the app for one command and closes it afterwards.
func (that *rootOptions) withMatches(cmd *cobra.Command, fn func(ctx context.Context, matches *usecase.MatchManager) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := that.openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	return fn(ctx, app.Matches)
}

func (that *rootOptions) printMatch(cmd *cobra.Command, id string, snapshot entity.Snapshot) error {
	return NewOutput(that.output, cmd.OutOrStdout()).PrintMatch(id, snapshot)
}

func newMatchNewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Create an empty match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withMatches(cmd, func(ctx context.Context, matches *usecase.MatchManager) error {
				id, snapshot, err := matches.CreateMatch(ctx)
				if err != nil {
					return err
				}

				return opts.printMatch(cmd, id, snapshot)
			})
		},
	}
}

func newMatchShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <match-id>",
		Short: "Show the current state of a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withMatches(cmd, func(ctx context.Context, matches *usecase.MatchManager) error {
				snapshot, err := matches.GetMatch(ctx, args[0])
				if err != nil {
					return err
				}

				return opts.printMatch(cmd, args[0], snapshot)
			})
		},
	}
}

func newMatchJoinCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "join <match-id> <player-id>",
		Short: "Seat a player (first X, then O)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withMatches(cmd, func(ctx context.Context, matches *usecase.MatchManager) error {
				snapshot, err := matches.Join(ctx, args[0], args[1])
				if err != nil {
					return err
				}

				return opts.printMatch(cmd, args[0], snapshot)
			})
		},
	}
}

func newMatchLeaveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "leave <match-id> <player-id>",
		Short: "Remove a player; with both seats filled the other player wins",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withMatches(cmd, func(ctx context.Context, matches *usecase.MatchManager) error {
				snapshot, err := matches.Leave(ctx, args[0], args[1])
				if err != nil {
					return err
				}

				return opts.printMatch(cmd, args[0], snapshot)
			})
		},
	}
}

func newMatchMoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <match-id> <player-id> <board> <row> <col>",
		Short: "Place the player's mark on board A, B or C at row, col (0-2)",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := entity.ParseBoardID(args[2])
			if err != nil {
				return err
			}

			row, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("row must be a number: %w", err)
			}

			col, err := strconv.Atoi(args[4])
			if err != nil {
				return fmt.Errorf("col must be a number: %w", err)
			}

			return opts.withMatches(cmd, func(ctx context.Context, matches *usecase.MatchManager) error {
				snapshot, err := matches.ApplyMove(ctx, args[0], args[1], board, row, col)
				if err != nil {
					return err
				}

				return opts.printMatch(cmd, args[0], snapshot)
			})
		},
	}
}

func newMatchDiscardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <match-id>",
		Short: "Delete a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withMatches(cmd, func(ctx context.Context, matches *usecase.MatchManager) error {
				if err := matches.DiscardMatch(ctx, args[0]); err != nil {
					return err
				}

				return NewOutput(opts.output, cmd.OutOrStdout()).PrintMessage("match " + args[0] + " discarded")
			})
		},
	}
}
