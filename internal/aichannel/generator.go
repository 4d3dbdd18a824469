package aichannel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/standardbeagle/slidegen/internal/deck"
)

// Slide count bounds accepted by outline generation.
const (
	MinSlides = 1
	MaxSlides = 50
)

// Request defaults.
const (
	DefaultStyle      = "professional"
	DefaultSlideCount = 5
)

// Outline generation errors.
var (
	ErrTopicRequired  = errors.New("topic is required")
	ErrSlideCount     = fmt.Errorf("slide count must be between %d and %d", MinSlides, MaxSlides)
	ErrInvalidOutline = errors.New("invalid outline")
)

// OutlineRequest describes the deck to draft.
type OutlineRequest struct {
	Topic      string `json:"topic"`
	Style      string `json:"style,omitempty"`
	SlideCount int    `json:"slideCount"`
}

// Validate checks the request and fills in defaults. A zero SlideCount
// means the field was omitted.
func (r *OutlineRequest) Validate() error {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return ErrTopicRequired
	}
	if r.SlideCount == 0 {
		r.SlideCount = DefaultSlideCount
	}
	if r.SlideCount < MinSlides || r.SlideCount > MaxSlides {
		return ErrSlideCount
	}
	if strings.TrimSpace(r.Style) == "" {
		r.Style = DefaultStyle
	}
	return nil
}

// Generator drafts slide outlines.
type Generator interface {
	GenerateOutline(ctx context.Context, req OutlineRequest) (*deck.Outline, error)
}

// LLMGenerator drafts outlines by prompting a Provider for JSON.
type LLMGenerator struct {
	provider Provider
}

// NewLLMGenerator wraps a provider.
func NewLLMGenerator(provider Provider) *LLMGenerator {
	return &LLMGenerator{provider: provider}
}

const outlineSchema = `{
  "title": "Presentation title",
  "theme": "<style>",
  "slides": [
    {
      "id": "slide_1",
      "type": "title|content",
      "layout": "TITLE_SLIDE|TITLE_AND_BODY",
      "content": {
        "title": "Slide heading",
        "body": ["Point 1", "Point 2", "Point 3"]
      }
    }
  ]
}`

const outlineSystemPrompt = `You are a professional presentation designer.
Your job is to draft the structure of a slide deck.
Follow the requested schema exactly.`

func outlineUserPrompt(req OutlineRequest) string {
	return fmt.Sprintf(`Create a presentation on the topic %q in the style %q.
Number of slides: %d

Rules:
1. The first slide MUST have layout "TITLE_SLIDE".
2. All other slides use layout "TITLE_AND_BODY".
3. Each body is an array of short, concise bullet points.
4. Generate exactly %d slides.
5. Set "theme" to %q.`, req.Topic, req.Style, req.SlideCount, req.SlideCount, req.Style)
}

// GenerateOutline validates req, prompts the provider and parses its reply.
func (g *LLMGenerator) GenerateOutline(ctx context.Context, req OutlineRequest) (*deck.Outline, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if g.provider == nil || !g.provider.IsConfigured() {
		return nil, ErrNoAPIKey
	}

	slog.Info("outline_requested", "provider", g.provider.Name(), "topic", req.Topic, "slides", req.SlideCount)

	system := BuildEmbeddedJSONSystemPrompt(outlineSystemPrompt, outlineSchema)
	resp, err := g.provider.Complete(ctx, system, outlineUserPrompt(req))
	if err != nil {
		return nil, err
	}

	outline, err := ParseOutline(resp.Result)
	if err != nil {
		slog.Warn("outline_parse_failed", "provider", g.provider.Name(), "error", err, "raw_length", len(resp.Result))
		return nil, err
	}
	if outline.Theme == "" {
		outline.Theme = req.Style
	}
	if len(outline.Slides) != req.SlideCount {
		slog.Warn("outline_slide_count_mismatch", "requested", req.SlideCount, "received", len(outline.Slides))
	}

	slog.Info("outline_generated", "provider", g.provider.Name(), "slides", len(outline.Slides))
	return outline, nil
}

// ParseOutline decodes a model reply into an outline. The reply must hold a
// "slides" array; missing ids, types and layouts are filled positionally.
func ParseOutline(raw string) (*deck.Outline, error) {
	body, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var shape struct {
		Slides json.RawMessage `json:"slides"`
	}
	if err := json.Unmarshal([]byte(body), &shape); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutline, err)
	}
	trimmed := strings.TrimSpace(string(shape.Slides))
	if !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("%w: 'slides' array missing", ErrInvalidOutline)
	}

	var outline deck.Outline
	if err := json.Unmarshal([]byte(body), &outline); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutline, err)
	}
	if outline.Slides == nil {
		outline.Slides = []deck.Slide{}
	}

	for i := range outline.Slides {
		s := &outline.Slides[i]
		if s.ID == "" {
			s.ID = fmt.Sprintf("slide_%d", i+1)
		}
		if s.Layout == "" {
			if i == 0 {
				s.Layout = deck.LayoutTitle
			} else {
				s.Layout = deck.LayoutTitleAndBody
			}
		}
		if s.Type == "" {
			if s.Layout == deck.LayoutTitle {
				s.Type = "title"
			} else {
				s.Type = "content"
			}
		}
	}
	return &outline, nil
}
