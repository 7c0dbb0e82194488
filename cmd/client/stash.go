package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astromechza/tld-buddy/pkg/model"
	"github.com/astromechza/tld-buddy/pkg/store"
)

func NewStashCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stash",
		Short: "Track items stashed at points of interest in the current run",
	}

	var (
		quantity int
		note     string
	)
	add := &cobra.Command{
		Use:   "add <poi-id> <item-id>",
		Short: "Record an item stashed at a point of interest",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				run := s.CurrentRun()
				if run == nil {
					return errNoRun
				}
				item := s.AddStashedItem(model.StashedItem{
					RunID:    run.ID,
					POIID:    args[0],
					ItemID:   args[1],
					Quantity: quantity,
					Note:     note,
				})
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), item.ID)
				return nil
			})
		},
	}
	add.Flags().IntVar(&quantity, "quantity", 1, "item count")
	add.Flags().StringVar(&note, "note", "", "free text note")

	rm := &cobra.Command{
		Use:   "rm <stash-id>",
		Short: "Forget a stashed item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				s.RemoveStashedItem(args[0])
				return nil
			})
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List items stashed in the current run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				for _, i := range s.CurrentRunStashedItems() {
					where := i.POIID
					if p, ok := s.POIByID(i.POIID); ok {
						where = p.Name
					}
					what := i.ItemID
					if item, ok := s.ItemByID(i.ItemID); ok {
						what = item.Name
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tx%d\t@ %s\t%s\n", i.ID, what, i.Quantity, where, i.Note)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(add, rm, ls)
	return cmd
}
