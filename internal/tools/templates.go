package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/slidegen/internal/templates"
)

// ListTemplatesInput defines input for list_templates.
type ListTemplatesInput struct {
	LinkedOnly bool `json:"linked_only,omitempty" jsonschema:"Only templates linked to a Google Slides deck"`
}

// TemplateSummary is one row of list_templates.
type TemplateSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SourceURL      string `json:"source_url,omitempty"`
	GoogleSlidesID string `json:"google_slides_id,omitempty"`
}

// ListTemplatesOutput defines output for list_templates.
type ListTemplatesOutput struct {
	Count     int               `json:"count"`
	Templates []TemplateSummary `json:"templates"`
}

// GetTemplateInput defines input for get_template.
type GetTemplateInput struct {
	ID string `json:"id" jsonschema:"Template ID from list_templates"`
}

// GetTemplateOutput defines output for get_template.
type GetTemplateOutput struct {
	Template templates.Template `json:"template"`
}

// RegisterTemplateTools adds the template registry tools.
func RegisterTemplateTools(server *mcp.Server, reg *templates.Registry) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "list_templates",
		Description: `List stored slide templates.
Examples:
  list_templates {}
  list_templates {linked_only: true}`,
	}, makeListTemplatesHandler(reg))

	mcp.AddTool(server, &mcp.Tool{
		Name: "get_template",
		Description: `Show one template with its branding and layouts.
Example:
  get_template {id: "techeroes-modern-2025"}`,
	}, makeGetTemplateHandler(reg))
}

func makeListTemplatesHandler(reg *templates.Registry) func(context.Context, *mcp.CallToolRequest, ListTemplatesInput) (*mcp.CallToolResult, ListTemplatesOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListTemplatesInput) (*mcp.CallToolResult, ListTemplatesOutput, error) {
		out := ListTemplatesOutput{Templates: []TemplateSummary{}}
		for _, t := range reg.List() {
			if input.LinkedOnly && t.GoogleSlidesTemplateID == "" {
				continue
			}
			out.Templates = append(out.Templates, TemplateSummary{
				ID:             t.ID,
				Name:           t.Name,
				SourceURL:      t.SourceURL,
				GoogleSlidesID: t.GoogleSlidesTemplateID,
			})
		}
		out.Count = len(out.Templates)
		return nil, out, nil
	}
}

func makeGetTemplateHandler(reg *templates.Registry) func(context.Context, *mcp.CallToolRequest, GetTemplateInput) (*mcp.CallToolResult, GetTemplateOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetTemplateInput) (*mcp.CallToolResult, GetTemplateOutput, error) {
		if input.ID == "" {
			return errorResult("Missing required parameter: id"), GetTemplateOutput{}, nil
		}
		t, ok := reg.Get(input.ID)
		if !ok {
			return errorResult(fmt.Sprintf("Template not found: %s", input.ID)), GetTemplateOutput{}, nil
		}
		return nil, GetTemplateOutput{Template: t}, nil
	}
}
