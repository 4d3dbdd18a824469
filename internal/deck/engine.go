package deck

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/api/slides/v1"
)

// SlidesAPI is the part of the Slides API the engine drives.
type SlidesAPI interface {
	CreatePresentation(ctx context.Context, title string) (*slides.Presentation, error)
	GetPresentation(ctx context.Context, id string) (*slides.Presentation, error)
	BatchUpdate(ctx context.Context, id string, reqs []*slides.Request) (*slides.BatchUpdatePresentationResponse, error)
}

// DriveAPI is the part of the Drive API the engine drives.
type DriveAPI interface {
	CopyFile(ctx context.Context, fileID, name string) (string, error)
	DeleteFile(ctx context.Context, fileID string) error
	ExportFile(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error)
}

// Stage names a round of a deck write.
type Stage string

const (
	// StagePages is round one: pages are created, copied or removed.
	StagePages Stage = "pages"
	// StageStyle is round two: text and styling are written.
	StageStyle Stage = "style"
)

// Engine applies slide content to decks.
type Engine struct {
	slides  SlidesAPI
	newID   func() string
	observe func(Stage)
}

func (e *Engine) notify(st Stage) {
	if e.observe != nil {
		e.observe(st)
	}
}

// NewEngine creates an engine. Duplicated pages get uuid-based ids.
func NewEngine(api SlidesAPI) *Engine {
	return &Engine{slides: api, newID: newPageID}
}

// newPageID returns an object id valid for the Slides API: it must start
// with a letter or underscore and be 5 to 50 characters long.
func newPageID() string {
	return "page_" + uuid.NewString()
}

// ApplyContent writes outline into deckID. With templateMode the deck's own
// pages carry placeholder tokens; otherwise pages are built from scratch.
func (e *Engine) ApplyContent(ctx context.Context, deckID string, outline []Slide, templateMode bool) error {
	if len(outline) == 0 {
		return ErrNoSlides
	}

	pres, err := e.slides.GetPresentation(ctx, deckID)
	if err != nil {
		return upstream("presentations.get", err)
	}

	var plan *PagePlan
	if templateMode {
		plan, err = PlanTemplatePages(pres, len(outline), e.newID)
	} else {
		plan, err = PlanBlankPages(pageIDs(pres), len(outline))
	}
	if err != nil {
		return err
	}

	pages, err := e.CreatePages(ctx, deckID, plan)
	if err != nil {
		return err
	}

	var fill []*slides.Request
	if templateMode {
		fill = PlaceholderRequests(pages, outline, plan.Aliases)
	} else {
		fill = BlankContentRequests(pages, outline)
	}
	if err := e.FillPages(ctx, deckID, fill); err != nil {
		return err
	}

	slog.Info("deck_content_applied",
		"deck", deckID,
		"slides", len(outline),
		"template_mode", templateMode,
		"duplicates", plan.Duplicates,
	)
	return nil
}

// CreatePages executes round one and returns the logical index to page id map.
func (e *Engine) CreatePages(ctx context.Context, deckID string, plan *PagePlan) (PageMap, error) {
	if len(plan.Requests) == 0 {
		return plan.Resolve(nil)
	}
	e.notify(StagePages)
	resp, err := e.slides.BatchUpdate(ctx, deckID, plan.Requests)
	if err != nil {
		return nil, upstream("presentations.batchUpdate", err)
	}
	return plan.Resolve(resp.Replies)
}

// FillPages executes round two.
func (e *Engine) FillPages(ctx context.Context, deckID string, reqs []*slides.Request) error {
	if len(reqs) == 0 {
		return nil
	}
	e.notify(StageStyle)
	if _, err := e.slides.BatchUpdate(ctx, deckID, reqs); err != nil {
		return upstream("presentations.batchUpdate", err)
	}
	return nil
}

func pageIDs(pres *slides.Presentation) []string {
	if pres == nil {
		return nil
	}
	ids := make([]string, 0, len(pres.Slides))
	for _, p := range pres.Slides {
		ids = append(ids, p.ObjectId)
	}
	return ids
}
