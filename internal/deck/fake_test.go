package deck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/slides/v1"
)

// fakeSlides keeps decks in memory and answers createSlide with generated ids.
type fakeSlides struct {
	decks     map[string]*slides.Presentation
	batches   [][]*slides.Request
	created   int
	nextPage  int
	failBatch int // fail the nth batch (1-based); 0 never fails
	createErr error
	getErr    error
}

func newFakeSlides() *fakeSlides {
	return &fakeSlides{decks: make(map[string]*slides.Presentation)}
}

func (f *fakeSlides) addDeck(id string, pages ...*slides.Page) {
	f.decks[id] = &slides.Presentation{PresentationId: id, Title: id, Slides: pages}
}

func (f *fakeSlides) CreatePresentation(_ context.Context, title string) (*slides.Presentation, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	id := fmt.Sprintf("deck_%d", f.created)
	f.addDeck(id, &slides.Page{ObjectId: "p"})
	f.decks[id].Title = title
	return f.decks[id], nil
}

func (f *fakeSlides) GetPresentation(_ context.Context, id string) (*slides.Presentation, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.decks[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

// BatchUpdate rejects page moves out of deck order, as Slides does.
func (f *fakeSlides) BatchUpdate(_ context.Context, id string, reqs []*slides.Request) (*slides.BatchUpdatePresentationResponse, error) {
	f.batches = append(f.batches, reqs)
	if f.failBatch == len(f.batches) {
		return nil, errors.New("batch rejected")
	}
	if d, ok := f.decks[id]; ok {
		if _, err := applyPageRequests(pageIDs(d), reqs); err != nil {
			return nil, err
		}
	}
	resp := &slides.BatchUpdatePresentationResponse{}
	for _, r := range reqs {
		reply := &slides.Response{}
		if r.CreateSlide != nil {
			f.nextPage++
			reply.CreateSlide = &slides.CreateSlideResponse{ObjectId: fmt.Sprintf("gen_%d", f.nextPage)}
		}
		resp.Replies = append(resp.Replies, reply)
	}
	return resp, nil
}

type fakeDrive struct {
	copies    []string
	deleted   []string
	copyErr   error
	deleteErr error
	exported  map[string]string
}

func (f *fakeDrive) CopyFile(_ context.Context, fileID, name string) (string, error) {
	if f.copyErr != nil {
		return "", f.copyErr
	}
	f.copies = append(f.copies, fileID+"->"+name)
	return "copy_of_" + fileID, nil
}

func (f *fakeDrive) DeleteFile(_ context.Context, fileID string) error {
	f.deleted = append(f.deleted, fileID)
	return f.deleteErr
}

func (f *fakeDrive) ExportFile(_ context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	if f.exported == nil {
		f.exported = make(map[string]string)
	}
	f.exported[fileID] = mimeType
	return io.NopCloser(strings.NewReader("exported " + fileID)), nil
}

// textPage builds a page with one text box per given string.
func textPage(id string, texts ...string) *slides.Page {
	p := &slides.Page{ObjectId: id}
	for n, t := range texts {
		p.PageElements = append(p.PageElements, &slides.PageElement{
			ObjectId: fmt.Sprintf("%s_el%d", id, n),
			Shape: &slides.Shape{
				ShapeType: "TEXT_BOX",
				Text: &slides.TextContent{
					TextElements: []*slides.TextElement{{TextRun: &slides.TextRun{Content: t}}},
				},
			},
		})
	}
	return p
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("dup_%d", n)
	}
}

func countKind(reqs []*slides.Request, pick func(*slides.Request) bool) int {
	n := 0
	for _, r := range reqs {
		if pick(r) {
			n++
		}
	}
	return n
}

// applyPageRequests replays round-one page requests against a slide order
// the way Slides does: a duplicate lands right after the page it copies, and
// a move must list its slides in their current order.
func applyPageRequests(order []string, reqs []*slides.Request) ([]string, error) {
	order = append([]string(nil), order...)
	indexOf := func(id string) int {
		for i, o := range order {
			if o == id {
				return i
			}
		}
		return -1
	}

	for _, r := range reqs {
		switch {
		case r.DuplicateObject != nil:
			at := indexOf(r.DuplicateObject.ObjectId)
			if at < 0 {
				return nil, fmt.Errorf("duplicate of unknown page %s", r.DuplicateObject.ObjectId)
			}
			id := r.DuplicateObject.ObjectIds[r.DuplicateObject.ObjectId]
			order = append(order[:at+1], append([]string{id}, order[at+1:]...)...)

		case r.UpdateSlidesPosition != nil:
			ids := r.UpdateSlidesPosition.SlideObjectIds
			prev := -1
			for _, id := range ids {
				at := indexOf(id)
				if at < 0 {
					return nil, fmt.Errorf("move of unknown page %s", id)
				}
				if at < prev {
					return nil, fmt.Errorf("not in existing presentation order: %s at %d", id, at)
				}
				prev = at
			}
			insert := int(r.UpdateSlidesPosition.InsertionIndex)
			if insert > len(order) {
				return nil, fmt.Errorf("insertion index %d out of range", insert)
			}
			moving := make(map[string]bool, len(ids))
			for _, id := range ids {
				moving[id] = true
			}
			var before, after []string
			for i, id := range order {
				if moving[id] {
					continue
				}
				if i < insert {
					before = append(before, id)
				} else {
					after = append(after, id)
				}
			}
			order = append(append(before, ids...), after...)

		case r.DeleteObject != nil:
			at := indexOf(r.DeleteObject.ObjectId)
			if at < 0 {
				return nil, fmt.Errorf("delete of unknown page %s", r.DeleteObject.ObjectId)
			}
			order = append(order[:at], order[at+1:]...)
		}
	}
	return order, nil
}
