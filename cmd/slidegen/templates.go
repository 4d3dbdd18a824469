package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/standardbeagle/slidegen/internal/config"
	"github.com/standardbeagle/slidegen/internal/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect the template registry",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSLIDES DECK")
		for _, t := range reg.List() {
			deckID := t.GoogleSlidesTemplateID
			if deckID == "" {
				deckID = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, deckID)
		}
		return w.Flush()
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one template as JSON",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		reg, err := openRegistry()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var ids []string
		for _, t := range reg.List() {
			ids = append(ids, t.ID+"\t"+t.Name)
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		t, ok := reg.Get(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", templates.ErrTemplateNotFound, args[0])
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	},
}

func init() {
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
}

// openRegistry loads the registry without starting a browser.
func openRegistry() (*templates.Registry, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	reg := templates.NewRegistry(cfg.Templates.File)
	if err := reg.Load(); err != nil {
		return nil, err
	}
	return reg, nil
}
