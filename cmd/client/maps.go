package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astromechza/tld-buddy/pkg/model"
	"github.com/astromechza/tld-buddy/pkg/store"
)

func NewMapsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maps",
		Short: "Browse and select maps",
	}

	use := &cobra.Command{
		Use:   "use <map-id>",
		Short: "Switch the current map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				if _, ok := s.MapByID(args[0]); !ok && len(s.Maps()) > 0 {
					return fmt.Errorf("unknown map %q", args[0])
				}
				s.SetCurrentMap(args[0])
				return nil
			})
		},
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				printMaps(cmd, s, s.Maps())
				return nil
			})
		},
	}

	recent := &cobra.Command{
		Use:   "recent",
		Short: "List recently visited maps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(s *store.Store) error {
				printMaps(cmd, s, s.RecentMaps())
				return nil
			})
		},
	}

	cmd.AddCommand(use, ls, recent)
	return cmd
}

func printMaps(cmd *cobra.Command, s *store.Store, maps []model.GameMap) {
	current := s.Snapshot().CurrentMapID
	for _, m := range maps {
		marker := " "
		if m.ID == current {
			marker = "*"
		}
		dlc := ""
		if m.IsDLC {
			dlc = " (dlc)"
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%s%s\t%s\n", marker, m.ID, m.Name, m.Type, dlc, s.MapThumbnail(m))
	}
}
