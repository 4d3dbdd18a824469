package deck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"google.golang.org/api/slides/v1"

	"github.com/standardbeagle/slidegen/internal/branding"
)

const (
	defaultDeckTitle     = "AI Generated Presentation"
	defaultTemplateTitle = "AI Slides Default Template"
	cleanupTimeout       = 15 * time.Second
)

// EditURL returns the browser URL of a deck.
func EditURL(id string) string {
	return fmt.Sprintf("https://docs.google.com/presentation/d/%s/edit", id)
}

// Result describes a created presentation.
type Result struct {
	PresentationID string `json:"presentationId"`
	URL            string `json:"url"`
	SlideCount     int    `json:"slideCount"`
}

// Service creates, themes and exports decks. Any deck it creates is deleted
// again if a later step fails.
type Service struct {
	slides SlidesAPI
	drive  DriveAPI
	engine *Engine
}

// NewService creates a service over the given API clients.
func NewService(s SlidesAPI, d DriveAPI) *Service {
	return &Service{slides: s, drive: d, engine: NewEngine(s)}
}

// Observe calls fn as each write round starts. It is not safe to change
// while a call is in flight.
func (s *Service) Observe(fn func(Stage)) {
	s.engine.observe = fn
}

// Engine exposes the content engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// CreatePresentation builds a deck from outline. With a templateDeckID the
// template is copied and its placeholders filled; otherwise pages are laid
// out from scratch.
func (s *Service) CreatePresentation(ctx context.Context, title string, outline []Slide, templateDeckID string) (*Result, error) {
	if len(outline) == 0 {
		return nil, ErrNoSlides
	}
	if title == "" {
		title = outline[0].Content.Title
	}
	if title == "" {
		title = defaultDeckTitle
	}

	var id string
	if templateDeckID != "" {
		copied, err := s.drive.CopyFile(ctx, templateDeckID, title)
		if err != nil {
			return nil, upstream("files.copy", err)
		}
		id = copied
	} else {
		pres, err := s.slides.CreatePresentation(ctx, title)
		if err != nil {
			return nil, upstream("presentations.create", err)
		}
		id = pres.PresentationId
	}
	slog.Info("deck_created", "deck", id, "template", templateDeckID)

	if err := s.engine.ApplyContent(ctx, id, outline, templateDeckID != ""); err != nil {
		s.Discard(ctx, id, err)
		return nil, err
	}

	return &Result{PresentationID: id, URL: EditURL(id), SlideCount: len(outline)}, nil
}

// brandedSlides are the token slides stamped into a generated template.
var brandedSlides = []struct{ title, content string }{
	{"{{SLIDE_TITLE_1}}", "{{CONTENT_1}}\n\n{{CONTENT_1_DETAIL}}"},
	{"{{SLIDE_TITLE_2}}", "{{CONTENT_2}}"},
	{"{{SLIDE_TITLE_3}}", "{{CONTENT_3}}\n\n• {{POINT_1}}\n• {{POINT_2}}\n• {{POINT_3}}"},
}

// BuildBrandedTemplate creates a token deck styled with profile and returns its id.
func (s *Service) BuildBrandedTemplate(ctx context.Context, profile branding.Profile, title string) (string, error) {
	return s.buildTokenDeck(ctx, title, 1+len(brandedSlides), func(pages PageMap) []*slides.Request {
		return BrandedTemplateRequests(pages, profile)
	})
}

// BrandedTemplateRequests lays out the cover and content token slides.
func BrandedTemplateRequests(pages PageMap, profile branding.Profile) []*slides.Request {
	var reqs []*slides.Request
	for _, i := range sortedIndices(pages) {
		pageID := pages[i]
		reqs = append(reqs, pageBackground(pageID, profile.BackgroundColor))

		if i == 0 {
			reqs = append(reqs, textBox(TitleBoxID(pageID), pageID, TokenTitle, CoverTitleBox, TextStyle{
				SizePT: 44, Bold: true, FontFamily: profile.FontFamily, Color: profile.TextColor,
			})...)
			continue
		}
		if i-1 >= len(brandedSlides) {
			continue
		}
		cfg := brandedSlides[i-1]
		reqs = append(reqs, textBox(TitleBoxID(pageID), pageID, cfg.title, BrandedTitleBox, TextStyle{
			SizePT: 32, Bold: true, FontFamily: profile.FontFamily, Color: profile.TextColor,
		})...)
		reqs = append(reqs, textBox(ContentBoxID(pageID), pageID, cfg.content, BrandedContentBox, TextStyle{
			SizePT: 18, FontFamily: profile.FontFamily, Color: profile.TextColor,
		})...)
	}
	return reqs
}

// DefaultContentBox places content closer to the title than the blank layout.
var DefaultContentBox = Box{Width: 600, Height: 300, X: 50, Y: 120}

// BuildDefaultTemplate creates the plain token deck used when no branded
// template exists and returns its id.
func (s *Service) BuildDefaultTemplate(ctx context.Context) (string, error) {
	tokens := [][2]string{
		{TokenTitle, TokenContent},
		{TokenSlideTitle, TokenContent},
		{TokenSlideTitle, TokenContent},
	}
	return s.buildTokenDeck(ctx, defaultTemplateTitle, len(tokens), func(pages PageMap) []*slides.Request {
		var reqs []*slides.Request
		for _, i := range sortedIndices(pages) {
			pageID := pages[i]
			reqs = append(reqs, textBox(TitleBoxID(pageID), pageID, tokens[i][0], BlankTitleBox,
				TextStyle{SizePT: blankTitleSize, Bold: true})...)
			reqs = append(reqs, textBox(ContentBoxID(pageID), pageID, tokens[i][1], DefaultContentBox,
				TextStyle{SizePT: blankContentSize})...)
		}
		return reqs
	})
}

func (s *Service) buildTokenDeck(ctx context.Context, title string, pageCount int, layout func(PageMap) []*slides.Request) (string, error) {
	pres, err := s.slides.CreatePresentation(ctx, title)
	if err != nil {
		return "", upstream("presentations.create", err)
	}
	id := pres.PresentationId

	plan, err := PlanBlankPages(pageIDs(pres), pageCount)
	if err == nil {
		var pages PageMap
		pages, err = s.engine.CreatePages(ctx, id, plan)
		if err == nil {
			err = s.engine.FillPages(ctx, id, layout(pages))
		}
	}
	if err != nil {
		s.Discard(ctx, id, err)
		return "", err
	}

	slog.Info("template_deck_created", "deck", id, "title", title, "pages", pageCount)
	return id, nil
}

// Discard deletes a deck left behind by a failed step. It runs even when
// ctx is already cancelled.
func (s *Service) Discard(ctx context.Context, id string, cause error) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := s.drive.DeleteFile(cctx, id); err != nil {
		slog.Warn("deck_cleanup_failed", "deck", id, "cause", cause, "error", err)
		return
	}
	slog.Warn("deck_discarded", "deck", id, "cause", cause)
}

// TemplateReport describes the structure of a template deck.
type TemplateReport struct {
	ID          string       `json:"templateId"`
	Title       string       `json:"title"`
	TotalSlides int          `json:"totalSlides"`
	Slides      []PageReport `json:"slideAnalysis"`
	Tokens      []string     `json:"tokens"`
}

// PageReport describes one page of a template deck.
type PageReport struct {
	Index    int             `json:"slideIndex"`
	ID       string          `json:"slideId"`
	Elements []ElementReport `json:"pageElements"`
	Tokens   []string        `json:"tokens,omitempty"`
}

// ElementReport describes one page element.
type ElementReport struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	HasText bool   `json:"hasText"`
	Text    string `json:"textContent,omitempty"`
}

var tokenPattern = regexp.MustCompile(`\{\{[A-Z0-9_]+\}\}`)

// InspectTemplate lists pages, element kinds and placeholder tokens of a deck.
func (s *Service) InspectTemplate(ctx context.Context, deckID string) (*TemplateReport, error) {
	pres, err := s.slides.GetPresentation(ctx, deckID)
	if err != nil {
		return nil, upstream("presentations.get", err)
	}
	return BuildTemplateReport(pres), nil
}

// BuildTemplateReport summarizes a fetched presentation.
func BuildTemplateReport(pres *slides.Presentation) *TemplateReport {
	report := &TemplateReport{
		ID:          pres.PresentationId,
		Title:       pres.Title,
		TotalSlides: len(pres.Slides),
	}
	seen := make(map[string]bool)

	for i, page := range pres.Slides {
		pr := PageReport{Index: i, ID: page.ObjectId}
		for _, el := range page.PageElements {
			er := ElementReport{ID: el.ObjectId, Type: ElementType(el)}
			if el.Shape != nil && el.Shape.Text != nil {
				er.HasText = true
				er.Text = strings.TrimSpace(shapeText(el.Shape.Text))
			}
			for _, tok := range tokenPattern.FindAllString(er.Text, -1) {
				pr.Tokens = append(pr.Tokens, tok)
				if !seen[tok] {
					seen[tok] = true
					report.Tokens = append(report.Tokens, tok)
				}
			}
			pr.Elements = append(pr.Elements, er)
		}
		report.Slides = append(report.Slides, pr)
	}
	return report
}

func shapeText(t *slides.TextContent) string {
	var b strings.Builder
	for _, te := range t.TextElements {
		if te.TextRun != nil {
			b.WriteString(te.TextRun.Content)
		}
	}
	return b.String()
}

// Export formats and their Drive MIME types.
var exportMIME = map[string]string{
	"pdf":  "application/pdf",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// ExportMIME returns the MIME type for format.
func ExportMIME(format string) (string, error) {
	mime, ok := exportMIME[strings.ToLower(format)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFmt, format)
	}
	return mime, nil
}

// Export streams deckID rendered as pdf or pptx. The caller closes the reader.
func (s *Service) Export(ctx context.Context, deckID, format string) (io.ReadCloser, string, error) {
	mime, err := ExportMIME(format)
	if err != nil {
		return nil, "", err
	}
	body, err := s.drive.ExportFile(ctx, deckID, mime)
	if err != nil {
		return nil, "", upstream("files.export", err)
	}
	return body, mime, nil
}
