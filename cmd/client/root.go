package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/astromechza/tld-buddy/pkg/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Server     string
	Verbose    bool
	Timeout    time.Duration
}

// NewRootCommand creates the root command for the tld-buddy client.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "tld-buddy",
		Short:         "Track runs, markers and stashes for The Long Dark",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.DefaultClientPath(), "path to the client config file")
	cmd.PersistentFlags().StringVar(&opts.Server, "server", "", "server base url, overrides the config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "how long to wait for the server")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))
	cmd.AddCommand(NewMapsCommand(opts))
	cmd.AddCommand(NewMarkersCommand(opts))
	cmd.AddCommand(NewPOIsCommand(opts))
	cmd.AddCommand(NewStashCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}
