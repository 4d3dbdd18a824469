package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/standardbeagle/slidegen/internal/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as MCP server",
	Long: `Run as an MCP (Model Context Protocol) server over stdio.

Exposes website analysis, branding extraction, template lookup and outline
generation to AI assistants. Logs go to stderr.`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    appName,
			Version: appVersion,
		},
		&mcp.ServerOptions{
			HasTools: true,
			Instructions: `Slide generator tools.

Available tools:
- analyze_website: Colors, fonts, logos and metadata of a website
- extract_branding: Brand profile derived from a website
- list_templates: Stored slide templates
- get_template: One template with branding and layouts
- generate_outline: Slide outline for a topic`,
		},
	)

	tools.Register(server, tools.Deps{
		Analyzer:  a.inspector,
		Branding:  a.branding,
		Registry:  a.registry,
		Generator: a.generator,
	})

	a.log.Info("mcp_started", "version", appVersion)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return err
	}
	a.log.Info("mcp_stopped")
	return nil
}
