package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/astromechza/tld-buddy/pkg/model"
	"github.com/astromechza/tld-buddy/pkg/store"
)

func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Manage runs",
	}

	var difficulty string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a run and make it current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := model.ParseDifficulty(difficulty)
			if err != nil {
				return fmt.Errorf("%w: must be one of %v", err, model.Difficulties)
			}
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				run, err := s.AddRun(args[0], d)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), run.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&difficulty, "difficulty", string(model.DifficultyVoyageur), "run difficulty")

	rm := &cobra.Command{
		Use:   "rm <run-id>",
		Short: "Delete a run with its markers and stashed items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				s.DeleteRun(args[0])
				return nil
			})
		},
	}

	use := &cobra.Command{
		Use:   "use <run-id>",
		Short: "Switch the current run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				s.SetCurrentRun(args[0])
				return nil
			})
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				current := s.Snapshot().CurrentRunID
				for _, r := range s.Runs() {
					marker := " "
					if r.ID == current {
						marker = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%s\t%s\n",
						marker, r.ID, r.Name, r.Difficulty, time.UnixMilli(r.CreatedAt).Format(time.DateOnly))
				}
				return nil
			})
		},
	}

	cmd.AddCommand(add, rm, use, ls)
	return cmd
}
