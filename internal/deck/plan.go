package deck

import (
	"fmt"

	"google.golang.org/api/slides/v1"
)

// PagePlan is round one of content application: the page create, duplicate
// and delete requests, plus what is needed to read page ids back.
type PagePlan struct {
	Requests []*slides.Request

	// Known holds ids fixed before execution: reused pages and pre-named duplicates.
	Known PageMap

	// FromReplies lists the logical indices whose ids come from createSlide
	// replies, in reply order.
	FromReplies []int

	// Aliases maps a duplicated page's logical index to the index of the page
	// it was copied from, so numbered tokens copied with it still match.
	Aliases map[int]int

	// Duplicates counts duplicateObject requests.
	Duplicates int
}

// ContentPageIndex is the template page duplicated for extra slides: the
// second page, or the first when the deck has only one.
func ContentPageIndex(pageCount int) int {
	if pageCount > 1 {
		return 1
	}
	return 0
}

// PlanTemplatePages maps count slides onto a template deck. Existing pages
// are reused by index; missing ones are copied from the content page under
// ids from newID and moved to the end in order. Surplus template pages are
// deleted.
func PlanTemplatePages(pres *slides.Presentation, count int, newID func() string) (*PagePlan, error) {
	if count <= 0 {
		return nil, ErrNoSlides
	}
	if pres == nil || len(pres.Slides) == 0 {
		return nil, ErrEmptyTemplate
	}

	pages := pres.Slides
	source := ContentPageIndex(len(pages))

	// Reused pages may be image-only dividers; only the page copied for
	// extra slides must carry text.
	if count > len(pages) {
		if err := requireText(pages[source]); err != nil {
			return nil, err
		}
	}

	reused := min(count, len(pages))
	plan := &PagePlan{
		Known:   make(PageMap, count),
		Aliases: make(map[int]int),
	}
	for i := 0; i < reused; i++ {
		plan.Known[i] = pages[i].ObjectId
	}

	// Each copy is taken from the previous one. A duplicate lands right
	// after the page it copies, so the chain stays in creation order.
	var dupIDs []string
	from := pages[source].ObjectId
	for i := len(pages); i < count; i++ {
		id := newID()
		plan.Requests = append(plan.Requests, duplicatePage(from, id))
		plan.Known[i] = id
		plan.Aliases[i] = source
		dupIDs = append(dupIDs, id)
		from = id
	}
	plan.Duplicates = len(dupIDs)

	if len(dupIDs) > 0 {
		plan.Requests = append(plan.Requests, moveSlides(dupIDs, len(pages)+len(dupIDs)))
	}

	for i := count; i < len(pages); i++ {
		plan.Requests = append(plan.Requests, deleteObject(pages[i].ObjectId))
	}

	return plan, nil
}

// PlanBlankPages creates count blank pages and removes the pages a new
// deck starts with.
func PlanBlankPages(existing []string, count int) (*PagePlan, error) {
	if count <= 0 {
		return nil, ErrNoSlides
	}

	plan := &PagePlan{Known: make(PageMap, count)}
	for i := 0; i < count; i++ {
		plan.Requests = append(plan.Requests, createBlankSlide())
		plan.FromReplies = append(plan.FromReplies, i)
	}
	for _, id := range existing {
		plan.Requests = append(plan.Requests, deleteObject(id))
	}
	return plan, nil
}

// Resolve combines known ids with ids returned by createSlide replies.
func (p *PagePlan) Resolve(replies []*slides.Response) (PageMap, error) {
	pages := make(PageMap, len(p.Known)+len(p.FromReplies))
	for i, id := range p.Known {
		pages[i] = id
	}

	var created []string
	for _, r := range replies {
		if r != nil && r.CreateSlide != nil && r.CreateSlide.ObjectId != "" {
			created = append(created, r.CreateSlide.ObjectId)
		}
	}
	if len(created) < len(p.FromReplies) {
		return nil, fmt.Errorf("%w: expected %d pages, got %d", ErrMissingPageID, len(p.FromReplies), len(created))
	}
	for n, idx := range p.FromReplies {
		pages[idx] = created[n]
	}
	return pages, nil
}

func requireText(page *slides.Page) error {
	var available []string
	for _, el := range page.PageElements {
		if hasText(el) {
			return nil
		}
		available = append(available, ElementType(el))
	}
	return &NoTextElementError{PageID: page.ObjectId, Available: available}
}

// hasText looks through groups and table cells for a text body.
func hasText(el *slides.PageElement) bool {
	switch {
	case el.Shape != nil:
		return el.Shape.Text != nil
	case el.ElementGroup != nil:
		for _, child := range el.ElementGroup.Children {
			if hasText(child) {
				return true
			}
		}
	case el.Table != nil:
		for _, row := range el.Table.TableRows {
			for _, cell := range row.TableCells {
				if cell.Text != nil {
					return true
				}
			}
		}
	}
	return false
}

// ElementType names the kind of a page element.
func ElementType(el *slides.PageElement) string {
	switch {
	case el.Shape != nil:
		if el.Shape.ShapeType != "" {
			return el.Shape.ShapeType
		}
		return "SHAPE"
	case el.Image != nil:
		return "IMAGE"
	case el.Table != nil:
		return "TABLE"
	case el.Line != nil:
		return "LINE"
	case el.Video != nil:
		return "VIDEO"
	case el.ElementGroup != nil:
		return "GROUP"
	case el.SheetsChart != nil:
		return "SHEETS_CHART"
	case el.WordArt != nil:
		return "WORD_ART"
	default:
		return "UNKNOWN"
	}
}
