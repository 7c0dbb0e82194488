package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astromechza/tld-buddy/pkg/model"
	"github.com/astromechza/tld-buddy/pkg/store"
)

var errNoRun = errors.New("no current run, create one with 'runs add'")

func NewMarkersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "markers",
		Short: "Manage item markers on the current map",
	}

	var (
		x, y     float64
		quantity int
		note     string
	)
	add := &cobra.Command{
		Use:   "add <item-id>",
		Short: "Place an item marker on the current map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				run, m := s.CurrentRun(), s.CurrentMap()
				if run == nil {
					return errNoRun
				}
				if m == nil {
					return errors.New("no current map, select one with 'maps use'")
				}
				name := args[0]
				if item, ok := s.ItemByID(args[0]); ok {
					name = item.Name
				}
				marker := s.AddMarker(model.Marker{
					RunID:    run.ID,
					MapID:    m.ID,
					ItemID:   args[0],
					Name:     name,
					X:        x,
					Y:        y,
					Quantity: quantity,
					Note:     note,
				})
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), marker.ID)
				return nil
			})
		},
	}
	add.Flags().Float64Var(&x, "x", 0, "x coordinate in map image pixels")
	add.Flags().Float64Var(&y, "y", 0, "y coordinate in map image pixels")
	add.Flags().IntVar(&quantity, "quantity", 1, "item count")
	add.Flags().StringVar(&note, "note", "", "free text note")

	rm := &cobra.Command{
		Use:   "rm <marker-id>",
		Short: "Remove a marker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				s.DeleteMarker(args[0])
				return nil
			})
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List markers on the current map for the current run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				for _, m := range s.CurrentMapMarkers() {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tx%d\t(%.0f, %.0f)\t%s\n", m.ID, m.Name, m.Quantity, m.X, m.Y, m.Note)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(add, rm, ls)
	return cmd
}
