package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/astromechza/tld-buddy/pkg/model"
	"github.com/astromechza/tld-buddy/pkg/store"
)

func NewPOIsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pois",
		Short: "Manage points of interest on the current map",
	}

	toggle := &cobra.Command{
		Use:   "toggle <poi-id>",
		Short: "Flip whether a point of interest is shown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				s.TogglePOI(args[0])
				return nil
			})
		},
	}

	enable := &cobra.Command{
		Use:   "enable <poi-id>...",
		Short: "Show points of interest",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				s.EnablePOIs(args)
				return nil
			})
		},
	}

	disable := &cobra.Command{
		Use:   "disable <poi-id>...",
		Short: "Hide points of interest",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				s.DisablePOIs(args)
				return nil
			})
		},
	}

	pin := &cobra.Command{
		Use:   "pin <poi-id> <x> <y>",
		Short: "Pin a point of interest at a position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid x: %w", err)
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid y: %w", err)
			}
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				s.PinPOI(args[0], x, y)
				return nil
			})
		},
	}

	unpin := &cobra.Command{
		Use:   "unpin <poi-id>",
		Short: "Remove the pin of a point of interest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				s.UnpinPOI(args[0])
				return nil
			})
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List points of interest on the current map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				enabled := s.EnabledPOIs()
				pins := s.CurrentMapPOIPins()
				for _, p := range s.CurrentMapAllPOIs() {
					state := " "
					if slices.Contains(enabled, p.ID) {
						state = "+"
					}
					pinned := ""
					if i := slices.IndexFunc(pins, func(pp model.POIPin) bool { return pp.POIID == p.ID }); i >= 0 {
						pinned = fmt.Sprintf("pinned (%.0f, %.0f)", pins[i].X, pins[i].Y)
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%s\t%s\n", state, p.ID, p.Name, p.Type, pinned)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(toggle, enable, disable, pin, unpin, ls)
	return cmd
}
