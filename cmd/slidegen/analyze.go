package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze a website and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeBranding   bool
	analyzeScreenshot bool
)

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeBranding, "branding", false, "Print the derived brand profile instead of the raw analysis")
	analyzeCmd.Flags().BoolVar(&analyzeScreenshot, "screenshot", false, "Keep the screenshot data URI in the output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	analysis, err := a.inspector.Analyze(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if analyzeBranding {
		return enc.Encode(a.branding.Extract(analysis))
	}
	if !analyzeScreenshot {
		analysis.Screenshot = ""
	}
	return enc.Encode(analysis)
}
