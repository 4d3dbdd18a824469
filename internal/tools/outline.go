package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/slidegen/internal/aichannel"
	"github.com/standardbeagle/slidegen/internal/deck"
)

// OutlineInput defines input for generate_outline.
type OutlineInput struct {
	Topic      string `json:"topic" jsonschema:"What the presentation is about"`
	Style      string `json:"style,omitempty" jsonschema:"Tone of the slides (default professional)"`
	SlideCount int    `json:"slide_count,omitempty" jsonschema:"Number of slides, 1 to 50 (default 5)"`
}

// OutlineOutput defines output for generate_outline.
type OutlineOutput struct {
	Outline *deck.Outline `json:"outline"`
}

// RegisterOutlineTools adds the outline generator tool.
func RegisterOutlineTools(server *mcp.Server, gen aichannel.Generator) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "generate_outline",
		Description: `Draft a slide outline for a topic. The result can be passed to the create-presentation endpoint.
Examples:
  generate_outline {topic: "Onboarding new engineers"}
  generate_outline {topic: "Q3 results", style: "concise", slide_count: 8}`,
	}, makeOutlineHandler(gen))
}

func makeOutlineHandler(gen aichannel.Generator) func(context.Context, *mcp.CallToolRequest, OutlineInput) (*mcp.CallToolResult, OutlineOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input OutlineInput) (*mcp.CallToolResult, OutlineOutput, error) {
		outline, err := gen.GenerateOutline(ctx, aichannel.OutlineRequest{
			Topic:      input.Topic,
			Style:      input.Style,
			SlideCount: input.SlideCount,
		})
		switch {
		case errors.Is(err, aichannel.ErrTopicRequired):
			return errorResult("Missing required parameter: topic"), OutlineOutput{}, nil
		case errors.Is(err, aichannel.ErrSlideCount):
			return errorResult(fmt.Sprintf("slide_count must be between %d and %d", aichannel.MinSlides, aichannel.MaxSlides)), OutlineOutput{}, nil
		case err != nil:
			return errorResult("Outline generation failed: " + err.Error()), OutlineOutput{}, nil
		}
		return nil, OutlineOutput{Outline: outline}, nil
	}
}
