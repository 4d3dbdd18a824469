// Package deck turns slide outlines into Google Slides decks. Content is
// applied in two rounds: pages are created or duplicated first, then text is
// written into the page ids those requests produced.
package deck

import (
	"errors"
	"fmt"
	"strings"
)

// Layout names used in outlines.
const (
	LayoutTitle        = "TITLE_SLIDE"
	LayoutTitleAndBody = "TITLE_AND_BODY"
)

// Slide is one entry of an outline, in presentation order.
type Slide struct {
	ID      string       `json:"id"`
	Type    string       `json:"type"`
	Layout  string       `json:"layout"`
	Content SlideContent `json:"content"`
}

// SlideContent is the text and media of a slide.
type SlideContent struct {
	Title string   `json:"title,omitempty"`
	Body  []string `json:"body,omitempty"`
	Image *Image   `json:"image,omitempty"`
	Chart *Chart   `json:"chart,omitempty"`
}

// Image is an illustration reference.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Chart is a chart description. Data is passed through untouched.
type Chart struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Outline is a generated presentation draft.
type Outline struct {
	Title  string  `json:"title"`
	Theme  string  `json:"theme"`
	Slides []Slide `json:"slides"`
}

// TitleOrDefault returns the slide title, or "Slide n" for the 0-based index.
func (s Slide) TitleOrDefault(index int) string {
	if strings.TrimSpace(s.Content.Title) != "" {
		return s.Content.Title
	}
	return fmt.Sprintf("Slide %d", index+1)
}

// BodyLines returns the non-blank body items.
func (s Slide) BodyLines() []string {
	var lines []string
	for _, b := range s.Content.Body {
		if strings.TrimSpace(b) != "" {
			lines = append(lines, b)
		}
	}
	return lines
}

// PageMap maps a logical slide index to the deck page that receives it.
type PageMap map[int]string

// Errors returned by the engine.
var (
	ErrEmptyTemplate   = errors.New("template deck has no pages")
	ErrNoSlides        = errors.New("no slides requested")
	ErrUnsupportedFmt  = errors.New("unsupported export format")
	ErrMissingPageID   = errors.New("page creation returned no id")
	ErrTemplateMissing = errors.New("template deck id is not set")
)

// NoTextElementError reports a page that should carry text but has no
// text-bearing element.
type NoTextElementError struct {
	PageID    string
	Available []string
}

func (e *NoTextElementError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("page %s has no text element (page is empty)", e.PageID)
	}
	return fmt.Sprintf("page %s has no text element (available: %s)", e.PageID, strings.Join(e.Available, ", "))
}
