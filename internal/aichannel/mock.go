package aichannel

import (
	"context"
	"fmt"

	"github.com/standardbeagle/slidegen/internal/deck"
)

// MockGenerator drafts a fixed-shape outline without calling a model: a title
// slide, numbered sections, and a closing summary.
type MockGenerator struct{}

// GenerateOutline returns exactly req.SlideCount slides.
func (MockGenerator) GenerateOutline(_ context.Context, req OutlineRequest) (*deck.Outline, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &deck.Outline{
		Title:  req.Topic,
		Theme:  req.Style,
		Slides: MockSlides(req.SlideCount, req.Topic),
	}, nil
}

// MockSlides builds count placeholder slides about topic.
func MockSlides(count int, topic string) []deck.Slide {
	if count < 1 {
		return nil
	}
	slides := make([]deck.Slide, 0, count)
	slides = append(slides, deck.Slide{
		ID:     "title",
		Type:   "title",
		Layout: deck.LayoutTitle,
		Content: deck.SlideContent{
			Title: topic,
			Body:  []string{"A presentation on " + topic},
		},
	})

	for i := 1; i < count-1; i++ {
		slides = append(slides, deck.Slide{
			ID:     fmt.Sprintf("content-%d", i),
			Type:   "content",
			Layout: deck.LayoutTitleAndBody,
			Content: deck.SlideContent{
				Title: fmt.Sprintf("Section %d", i),
				Body: []string{
					fmt.Sprintf("Key point %d.1 on %s", i, topic),
					fmt.Sprintf("Key point %d.2 on %s", i, topic),
					fmt.Sprintf("Key point %d.3 on %s", i, topic),
				},
			},
		})
	}

	if count > 1 {
		slides = append(slides, deck.Slide{
			ID:     "conclusion",
			Type:   "content",
			Layout: deck.LayoutTitleAndBody,
			Content: deck.SlideContent{
				Title: "Summary",
				Body: []string{
					"Summary of the key points",
					"Next steps",
					"Questions and answers",
				},
			},
		})
	}
	return slides
}
