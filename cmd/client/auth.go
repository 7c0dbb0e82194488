package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astromechza/tld-buddy/pkg/remote"
	"github.com/astromechza/tld-buddy/pkg/store"
)

func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange the app password for a session cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), rootOpts.Timeout)
			defer cancel()
			sess, _, err := openRemote(rootOpts)
			if err != nil {
				return err
			}
			defer sess.close(ctx)
			if password == "" {
				password = sess.cfg.Password
			}
			if password == "" {
				return errors.New("no password given, pass --password or set password in the config file")
			}
			if err := sess.remote.Login(ctx, password); err != nil {
				if errors.Is(err, remote.ErrUnauthorized) {
					return errors.New("invalid password")
				}
				return fmt.Errorf("failed to log in: %w", err)
			}
			sess.saveToken()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged in")
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "app password, defaults to the config file value")
	return cmd
}

func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session, the current run and the current map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, sess *session) error {
				out := cmd.OutOrStdout()
				authenticated, err := sess.remote.Check(ctx)
				switch {
				case err != nil:
					_, _ = fmt.Fprintf(out, "server:  %s (unreachable: %v)\n", sess.cfg.Server, err)
				case authenticated:
					_, _ = fmt.Fprintf(out, "server:  %s (logged in)\n", sess.cfg.Server)
				default:
					_, _ = fmt.Fprintf(out, "server:  %s (not logged in)\n", sess.cfg.Server)
				}
				printStatus(cmd, sess.store)
				return nil
			})
		},
	}
}

func printStatus(cmd *cobra.Command, s *store.Store) {
	out := cmd.OutOrStdout()
	if run := s.CurrentRun(); run != nil {
		_, _ = fmt.Fprintf(out, "run:     %s (%s, %s)\n", run.Name, run.Difficulty, run.ID)
	} else {
		_, _ = fmt.Fprintln(out, "run:     none")
	}
	if m := s.CurrentMap(); m != nil {
		_, _ = fmt.Fprintf(out, "map:     %s (%s)\n", m.Name, m.ID)
	} else {
		_, _ = fmt.Fprintln(out, "map:     none")
	}
	snap := s.Snapshot()
	_, _ = fmt.Fprintf(out, "runs:    %d\nmarkers: %d\nstashed: %d\n", len(snap.Runs), len(s.CurrentMapMarkers()), len(s.CurrentRunStashedItems()))
}
