// Package tools exposes the slide generator as MCP tools.
package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/slidegen/internal/aichannel"
	"github.com/standardbeagle/slidegen/internal/branding"
	"github.com/standardbeagle/slidegen/internal/inspector"
	"github.com/standardbeagle/slidegen/internal/templates"
)

// Analyzer inspects a website.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*inspector.SiteAnalysis, error)
}

// Deps are the services the tools call into. Nil fields disable the tools
// that need them.
type Deps struct {
	Analyzer  Analyzer
	Branding  *branding.Extractor
	Registry  *templates.Registry
	Generator aichannel.Generator
}

// Register adds every tool whose dependencies are present.
func Register(server *mcp.Server, deps Deps) {
	if deps.Branding == nil {
		deps.Branding = branding.NewExtractor(branding.DefaultOverrides())
	}
	if deps.Analyzer != nil {
		RegisterSiteTools(server, deps.Analyzer, deps.Branding)
	}
	if deps.Registry != nil {
		RegisterTemplateTools(server, deps.Registry)
	}
	if deps.Generator != nil {
		RegisterOutlineTools(server, deps.Generator)
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
