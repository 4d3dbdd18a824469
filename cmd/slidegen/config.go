package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/standardbeagle/slidegen/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a documented default config",
	Long: `Write a documented default config file. Without a path the local
slidegen.kdl is created; --global writes the per-user file instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		file := configPath
		if file == "" {
			file = config.FindConfigFile()
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "config file:  %s\n", orNone(file))
		fmt.Fprintf(out, "listen:       %s\n", cfg.Server.Addr)
		fmt.Fprintf(out, "public url:   %s\n", cfg.Server.PublicURL)
		fmt.Fprintf(out, "templates:    %s\n", cfg.Templates.File)
		fmt.Fprintf(out, "llm provider: %s\n", orNone(cfg.LLM.Provider))
		fmt.Fprintf(out, "llm mock:     %t\n", cfg.LLM.Mock)
		fmt.Fprintf(out, "oauth client: %t\n", cfg.Google.ClientID != "")
		fmt.Fprintf(out, "overrides:    %d\n", len(cfg.Overrides()))
		return nil
	},
}

var (
	configGlobal bool
	configForce  bool
)

func init() {
	configInitCmd.Flags().BoolVar(&configGlobal, "global", false, "Write the per-user config file")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.LocalConfigFile
	switch {
	case len(args) == 1:
		path = args[0]
	case configGlobal:
		path = config.GlobalConfigPath()
		if path == "" {
			return errors.New("cannot determine the user config directory")
		}
	}

	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
