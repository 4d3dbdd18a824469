package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/slidegen/internal/branding"
	"github.com/standardbeagle/slidegen/internal/inspector"
)

// AnalyzeInput defines input for analyze_website and extract_branding.
type AnalyzeInput struct {
	URL        string `json:"url" jsonschema:"Website to inspect (a bare host gets https)"`
	Screenshot bool   `json:"screenshot,omitempty" jsonschema:"Include the PNG screenshot data URI (large)"`
}

// AnalyzeOutput defines output for analyze_website.
type AnalyzeOutput struct {
	Analysis *inspector.SiteAnalysis `json:"analysis"`
}

// BrandingOutput defines output for extract_branding.
type BrandingOutput struct {
	Branding branding.Profile `json:"branding"`
}

// RegisterSiteTools adds the website inspection tools.
func RegisterSiteTools(server *mcp.Server, analyzer Analyzer, extractor *branding.Extractor) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "analyze_website",
		Description: `Load a website in a headless browser and report its colors, fonts, logos and metadata.

Example:
  analyze_website {url: "https://example.com"}
  analyze_website {url: "example.com", screenshot: true}`,
	}, makeAnalyzeHandler(analyzer))

	mcp.AddTool(server, &mcp.Tool{
		Name: "extract_branding",
		Description: `Analyze a website and reduce it to the brand profile used for generated templates.

Example:
  extract_branding {url: "https://example.com"}`,
	}, makeBrandingHandler(analyzer, extractor))
}

func makeAnalyzeHandler(analyzer Analyzer) func(context.Context, *mcp.CallToolRequest, AnalyzeInput) (*mcp.CallToolResult, AnalyzeOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, AnalyzeOutput, error) {
		analysis, errRes := analyze(ctx, analyzer, input.URL)
		if errRes != nil {
			return errRes, AnalyzeOutput{}, nil
		}
		if !input.Screenshot {
			trimmed := *analysis
			trimmed.Screenshot = ""
			analysis = &trimmed
		}
		return nil, AnalyzeOutput{Analysis: analysis}, nil
	}
}

func makeBrandingHandler(analyzer Analyzer, extractor *branding.Extractor) func(context.Context, *mcp.CallToolRequest, AnalyzeInput) (*mcp.CallToolResult, BrandingOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, BrandingOutput, error) {
		analysis, errRes := analyze(ctx, analyzer, input.URL)
		if errRes != nil {
			return errRes, BrandingOutput{}, nil
		}
		return nil, BrandingOutput{Branding: extractor.Extract(analysis)}, nil
	}
}

func analyze(ctx context.Context, analyzer Analyzer, url string) (*inspector.SiteAnalysis, *mcp.CallToolResult) {
	if strings.TrimSpace(url) == "" {
		return nil, errorResult("Missing required parameter: url")
	}
	analysis, err := analyzer.Analyze(ctx, url)
	if err != nil {
		return nil, errorResult(fmt.Sprintf("Analysis of %s failed: %v", url, err))
	}
	return analysis, nil
}
