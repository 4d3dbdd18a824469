package deck

import (
	"fmt"
	"sort"
	"strings"

	"google.golang.org/api/slides/v1"
)

// Placeholder tokens recognized in template text.
const (
	TokenTitle      = "{{TITLE}}"
	TokenSlideTitle = "{{SLIDE_TITLE}}"
	TokenContent    = "{{CONTENT}}"
)

// NumberedTitleToken returns {{SLIDE_TITLE_n}}.
func NumberedTitleToken(n int) string {
	return fmt.Sprintf("{{SLIDE_TITLE_%d}}", n)
}

// NumberedContentToken returns {{CONTENT_n}}.
func NumberedContentToken(n int) string {
	return fmt.Sprintf("{{CONTENT_%d}}", n)
}

// Blank layout font sizes.
const (
	blankTitleSize   = 36
	blankContentSize = 18
)

// TitleBoxID and ContentBoxID name the text boxes created on a blank page.
func TitleBoxID(pageID string) string   { return "title_" + pageID }
func ContentBoxID(pageID string) string { return "content_" + pageID }

// BlankContentRequests is round two of blank mode: a styled title box per
// page and a content box only when the body has text.
func BlankContentRequests(pages PageMap, outline []Slide) []*slides.Request {
	var reqs []*slides.Request
	for _, i := range sortedIndices(pages) {
		if i >= len(outline) {
			continue
		}
		pageID := pages[i]
		slide := outline[i]

		reqs = append(reqs, textBox(TitleBoxID(pageID), pageID, slide.TitleOrDefault(i), BlankTitleBox,
			TextStyle{SizePT: blankTitleSize, Bold: true})...)

		body := strings.Join(slide.BodyLines(), "\n\n")
		if strings.TrimSpace(body) == "" {
			continue
		}
		reqs = append(reqs, textBox(ContentBoxID(pageID), pageID, body, BlankContentBox,
			TextStyle{SizePT: blankContentSize})...)
	}
	return reqs
}

// PlaceholderRequests is round two of template mode. Each page gets its
// slide's title and newline-joined body substituted for the generic tokens
// and for the numbered tokens of its own index (and of the page it was
// duplicated from). Replacements are scoped to that page.
func PlaceholderRequests(pages PageMap, outline []Slide, aliases map[int]int) []*slides.Request {
	var reqs []*slides.Request
	for _, i := range sortedIndices(pages) {
		if i >= len(outline) {
			continue
		}
		pageID := pages[i]
		title := outline[i].TitleOrDefault(i)
		body := strings.Join(outline[i].BodyLines(), "\n")

		reqs = append(reqs,
			replaceText(pageID, TokenTitle, title),
			replaceText(pageID, TokenSlideTitle, title),
			replaceText(pageID, TokenContent, body),
		)

		numbers := []int{i}
		if src, ok := aliases[i]; ok && src != i {
			numbers = append(numbers, src)
		}
		for _, n := range numbers {
			reqs = append(reqs,
				replaceText(pageID, NumberedTitleToken(n), title),
				replaceText(pageID, NumberedContentToken(n), body),
			)
		}
	}
	return reqs
}

func sortedIndices(pages PageMap) []int {
	idx := make([]int, 0, len(pages))
	for i := range pages {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}
