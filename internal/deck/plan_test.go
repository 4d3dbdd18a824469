package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/slides/v1"
)

func isDuplicate(r *slides.Request) bool { return r.DuplicateObject != nil }

func TestPlanTemplatePagesDuplicatesMissingPages(t *testing.T) {
	pres := &slides.Presentation{Slides: []*slides.Page{
		textPage("cover", "{{TITLE}}"),
		textPage("content", "{{SLIDE_TITLE}}", "{{CONTENT}}"),
	}}

	plan, err := PlanTemplatePages(pres, 5, sequentialIDs())
	require.NoError(t, err)

	assert.Equal(t, 3, plan.Duplicates)
	var sources []string
	for _, r := range plan.Requests {
		if isDuplicate(r) {
			sources = append(sources, r.DuplicateObject.ObjectId)
		}
	}
	assert.Equal(t, []string{"content", "dup_1", "dup_2"}, sources)

	assert.Equal(t, PageMap{0: "cover", 1: "content", 2: "dup_1", 3: "dup_2", 4: "dup_3"}, plan.Known)
	assert.Equal(t, map[int]int{2: 1, 3: 1, 4: 1}, plan.Aliases)
	assert.Empty(t, plan.FromReplies)

	order, err := applyPageRequests([]string{"cover", "content"}, plan.Requests)
	require.NoError(t, err)
	assert.Equal(t, []string{"cover", "content", "dup_1", "dup_2", "dup_3"}, order)
}

func TestPlanTemplatePagesKeepsTrailingPagesBeforeDuplicates(t *testing.T) {
	pres := &slides.Presentation{Slides: []*slides.Page{
		textPage("cover", "{{TITLE}}"),
		textPage("content", "{{SLIDE_TITLE}}"),
		textPage("closing", "{{CONTENT}}"),
	}}

	plan, err := PlanTemplatePages(pres, 5, sequentialIDs())
	require.NoError(t, err)

	order, err := applyPageRequests([]string{"cover", "content", "closing"}, plan.Requests)
	require.NoError(t, err)
	assert.Equal(t, []string{"cover", "content", "closing", "dup_1", "dup_2"}, order)

	for i, id := range order {
		assert.Equal(t, id, plan.Known[i])
	}
}

func TestPlanTemplatePagesSinglePageIsContentPage(t *testing.T) {
	pres := &slides.Presentation{Slides: []*slides.Page{textPage("only", "{{TITLE}}")}}

	plan, err := PlanTemplatePages(pres, 3, sequentialIDs())
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Duplicates)
	assert.Equal(t, map[int]int{1: 0, 2: 0}, plan.Aliases)

	order, err := applyPageRequests([]string{"only"}, plan.Requests)
	require.NoError(t, err)
	assert.Equal(t, []string{"only", "dup_1", "dup_2"}, order)
}

func TestPlanTemplatePagesExactFitHasNoRequests(t *testing.T) {
	pres := &slides.Presentation{Slides: []*slides.Page{
		textPage("a", "x"), textPage("b", "y"),
	}}
	plan, err := PlanTemplatePages(pres, 2, sequentialIDs())
	require.NoError(t, err)
	assert.Empty(t, plan.Requests)
	assert.Zero(t, plan.Duplicates)
}

func TestPlanTemplatePagesDeletesSurplus(t *testing.T) {
	pres := &slides.Presentation{Slides: []*slides.Page{
		textPage("a", "x"), textPage("b", "y"), textPage("c", "z"),
	}}
	plan, err := PlanTemplatePages(pres, 1, sequentialIDs())
	require.NoError(t, err)

	assert.Equal(t, PageMap{0: "a"}, plan.Known)
	require.Len(t, plan.Requests, 2)
	assert.Equal(t, "b", plan.Requests[0].DeleteObject.ObjectId)
	assert.Equal(t, "c", plan.Requests[1].DeleteObject.ObjectId)
}

func TestPlanTemplatePagesErrors(t *testing.T) {
	_, err := PlanTemplatePages(&slides.Presentation{}, 2, sequentialIDs())
	assert.ErrorIs(t, err, ErrEmptyTemplate)

	_, err = PlanTemplatePages(nil, 2, sequentialIDs())
	assert.ErrorIs(t, err, ErrEmptyTemplate)

	_, err = PlanTemplatePages(&slides.Presentation{Slides: []*slides.Page{textPage("a", "x")}}, 0, sequentialIDs())
	assert.ErrorIs(t, err, ErrNoSlides)
}

func TestPlanTemplatePagesNoTextElement(t *testing.T) {
	imageOnly := &slides.Page{
		ObjectId: "pic",
		PageElements: []*slides.PageElement{
			{ObjectId: "img", Image: &slides.Image{}},
			{ObjectId: "ln", Line: &slides.Line{}},
			{ObjectId: "rect", Shape: &slides.Shape{ShapeType: "RECTANGLE"}},
		},
	}
	pres := &slides.Presentation{Slides: []*slides.Page{textPage("cover", "{{TITLE}}"), imageOnly}}

	_, err := PlanTemplatePages(pres, 3, sequentialIDs())
	var nte *NoTextElementError
	require.ErrorAs(t, err, &nte)
	assert.Equal(t, "pic", nte.PageID)
	assert.Equal(t, []string{"IMAGE", "LINE", "RECTANGLE"}, nte.Available)
	assert.Contains(t, err.Error(), "IMAGE, LINE, RECTANGLE")

	// Reused pages without text are left as they are.
	plan, err := PlanTemplatePages(pres, 2, sequentialIDs())
	require.NoError(t, err)
	assert.Equal(t, PageMap{0: "cover", 1: "pic"}, plan.Known)
}

func TestPlanTemplatePagesFindsNestedText(t *testing.T) {
	grouped := &slides.Page{
		ObjectId: "grp",
		PageElements: []*slides.PageElement{
			{ObjectId: "g", ElementGroup: &slides.Group{Children: []*slides.PageElement{
				{ObjectId: "img", Image: &slides.Image{}},
				textPage("inner", "{{TITLE}}").PageElements[0],
			}}},
		},
	}
	table := &slides.Page{
		ObjectId: "tbl",
		PageElements: []*slides.PageElement{
			{ObjectId: "t", Table: &slides.Table{TableRows: []*slides.TableRow{
				{TableCells: []*slides.TableCell{{}, {Text: &slides.TextContent{}}}},
			}}},
		},
	}

	for _, page := range []*slides.Page{grouped, table} {
		pres := &slides.Presentation{Slides: []*slides.Page{textPage("cover", "{{TITLE}}"), page}}
		plan, err := PlanTemplatePages(pres, 4, sequentialIDs())
		require.NoError(t, err, page.ObjectId)
		assert.Equal(t, 2, plan.Duplicates)
	}

	emptyGroup := &slides.Page{
		ObjectId: "eg",
		PageElements: []*slides.PageElement{
			{ObjectId: "g", ElementGroup: &slides.Group{Children: []*slides.PageElement{{Image: &slides.Image{}}}}},
		},
	}
	_, err := PlanTemplatePages(&slides.Presentation{Slides: []*slides.Page{textPage("cover", "x"), emptyGroup}}, 3, sequentialIDs())
	var nte *NoTextElementError
	require.ErrorAs(t, err, &nte)
	assert.Equal(t, []string{"GROUP"}, nte.Available)
}

func TestPlanBlankPages(t *testing.T) {
	plan, err := PlanBlankPages([]string{"default"}, 3)
	require.NoError(t, err)

	require.Len(t, plan.Requests, 4)
	for _, r := range plan.Requests[:3] {
		require.NotNil(t, r.CreateSlide)
		assert.Equal(t, "BLANK", r.CreateSlide.SlideLayoutReference.PredefinedLayout)
	}
	assert.Equal(t, "default", plan.Requests[3].DeleteObject.ObjectId)
	assert.Equal(t, []int{0, 1, 2}, plan.FromReplies)

	_, err = PlanBlankPages(nil, 0)
	assert.ErrorIs(t, err, ErrNoSlides)
}

func TestResolve(t *testing.T) {
	plan, err := PlanBlankPages(nil, 2)
	require.NoError(t, err)

	pages, err := plan.Resolve([]*slides.Response{
		{CreateSlide: &slides.CreateSlideResponse{ObjectId: "s1"}},
		{},
		{CreateSlide: &slides.CreateSlideResponse{ObjectId: "s2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, PageMap{0: "s1", 1: "s2"}, pages)

	_, err = plan.Resolve([]*slides.Response{{CreateSlide: &slides.CreateSlideResponse{ObjectId: "s1"}}})
	assert.ErrorIs(t, err, ErrMissingPageID)
}

func TestContentPageIndex(t *testing.T) {
	assert.Equal(t, 0, ContentPageIndex(1))
	assert.Equal(t, 1, ContentPageIndex(2))
	assert.Equal(t, 1, ContentPageIndex(7))
}

func TestElementType(t *testing.T) {
	assert.Equal(t, "SHAPE", ElementType(&slides.PageElement{Shape: &slides.Shape{}}))
	assert.Equal(t, "TABLE", ElementType(&slides.PageElement{Table: &slides.Table{}}))
	assert.Equal(t, "GROUP", ElementType(&slides.PageElement{ElementGroup: &slides.Group{}}))
	assert.Equal(t, "UNKNOWN", ElementType(&slides.PageElement{}))
}
