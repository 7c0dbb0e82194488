package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/astromechza/tld-buddy/pkg/config"
)

func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the client config file",
	}
	cmd.AddCommand(newConfigInitCommand(rootOpts))
	cmd.AddCommand(newConfigShowCommand(rootOpts))
	return cmd
}

func newConfigInitCommand(rootOpts *RootOptions) *cobra.Command {
	var password, cachePath string
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the config file from the defaults and the given flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(rootOpts.ConfigPath); err == nil && !force {
				return fmt.Errorf("config file %s already exists, pass --force to overwrite it", rootOpts.ConfigPath)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to check config file: %w", err)
			}
			cfg, _, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			if password != "" {
				cfg.Password = password
			}
			if cachePath != "" {
				cfg.CachePath = cachePath
			}
			if err := config.SaveClient(rootOpts.ConfigPath, cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootOpts.ConfigPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "app password to store")
	cmd.Flags().StringVar(&cachePath, "cache-path", "", "local cache database path")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func newConfigShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			if cfg.Password != "" {
				cfg.Password = "********"
			}
			raw, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
}
