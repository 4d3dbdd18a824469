package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/slides/v1"

	"github.com/standardbeagle/slidegen/internal/aichannel"
	"github.com/standardbeagle/slidegen/internal/auth"
	"github.com/standardbeagle/slidegen/internal/color"
	"github.com/standardbeagle/slidegen/internal/deck"
	"github.com/standardbeagle/slidegen/internal/events"
	"github.com/standardbeagle/slidegen/internal/inspector"
	"github.com/standardbeagle/slidegen/internal/templates"
)

// fakeGoogle implements both deck.SlidesAPI and deck.DriveAPI in memory.
type fakeGoogle struct {
	mu       sync.Mutex
	decks    map[string]*slides.Presentation
	batches  int
	nextID   int
	deleted  []string
	copyErr  error
	batchErr error
}

func newFakeGoogle() *fakeGoogle {
	return &fakeGoogle{decks: make(map[string]*slides.Presentation)}
}

func (f *fakeGoogle) addTemplateDeck(id string, pages int) {
	pres := &slides.Presentation{PresentationId: id, Title: id}
	for i := 0; i < pages; i++ {
		pageID := fmt.Sprintf("%s_p%d", id, i)
		pres.Slides = append(pres.Slides, &slides.Page{
			ObjectId: pageID,
			PageElements: []*slides.PageElement{{
				ObjectId: pageID + "_title",
				Shape: &slides.Shape{
					ShapeType: "TEXT_BOX",
					Text: &slides.TextContent{TextElements: []*slides.TextElement{
						{TextRun: &slides.TextRun{Content: "{{TITLE}}"}},
					}},
				},
			}},
		})
	}
	f.decks[id] = pres
}

func (f *fakeGoogle) CreatePresentation(_ context.Context, title string) (*slides.Presentation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("deck_%d", f.nextID)
	f.decks[id] = &slides.Presentation{
		PresentationId: id,
		Title:          title,
		Slides:         []*slides.Page{{ObjectId: id + "_initial"}},
	}
	return f.decks[id], nil
}

func (f *fakeGoogle) GetPresentation(_ context.Context, id string) (*slides.Presentation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.decks[id]
	if !ok {
		return nil, &googleapi.Error{Code: http.StatusNotFound, Message: "Requested entity was not found."}
	}
	return p, nil
}

func (f *fakeGoogle) BatchUpdate(_ context.Context, _ string, reqs []*slides.Request) (*slides.BatchUpdatePresentationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	resp := &slides.BatchUpdatePresentationResponse{}
	for _, r := range reqs {
		reply := &slides.Response{}
		if r.CreateSlide != nil {
			f.nextID++
			reply.CreateSlide = &slides.CreateSlideResponse{ObjectId: fmt.Sprintf("gen_%d", f.nextID)}
		}
		resp.Replies = append(resp.Replies, reply)
	}
	return resp, nil
}

func (f *fakeGoogle) CopyFile(_ context.Context, fileID, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.copyErr != nil {
		return "", f.copyErr
	}
	src, ok := f.decks[fileID]
	if !ok {
		return "", &googleapi.Error{Code: http.StatusNotFound}
	}
	id := "copy_of_" + fileID
	cp := *src
	cp.PresentationId = id
	cp.Title = name
	f.decks[id] = &cp
	return id, nil
}

func (f *fakeGoogle) DeleteFile(_ context.Context, fileID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, fileID)
	delete(f.decks, fileID)
	return nil
}

func (f *fakeGoogle) ExportFile(_ context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	if _, err := f.GetPresentation(context.Background(), fileID); err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader("%PDF " + fileID + " " + mimeType)), nil
}

type fakeAnalyzer struct {
	analysis *inspector.SiteAnalysis
	err      error
	calls    int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, rawURL string) (*inspector.SiteAnalysis, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if _, err := inspector.NormalizeURL(rawURL); err != nil {
		return nil, err
	}
	return f.analysis, nil
}

func sampleAnalysis() *inspector.SiteAnalysis {
	return &inspector.SiteAnalysis{
		URL:       "https://acme.test/",
		BrandName: "Acme",
		Colors: []color.Swatch{
			{Hex: "#111111", Usage: 50},
			{Hex: "#7c3aed", Usage: 10},
		},
		Fonts: []inspector.FontSample{{Family: "Poppins", Weight: "400", Source: inspector.FontGoogle}},
		Logos: []inspector.LogoCandidate{{URL: "https://acme.test/logo.svg", Type: inspector.LogoSVG, Confidence: 0.9}},
		Metadata: inspector.Metadata{
			Title:  "Acme",
			Domain: "acme.test",
		},
	}
}

type testEnv struct {
	server   *Server
	google   *fakeGoogle
	analyzer *fakeAnalyzer
	registry *templates.Registry
	progress *events.Hub
}

// newTestEnv wires a server whose Google calls run against fakeGoogle. With
// loggedIn false, requests needing Google fail with 401.
func newTestEnv(t *testing.T, loggedIn bool) *testEnv {
	t.Helper()

	reg := templates.NewRegistry(filepath.Join(t.TempDir(), "templates.json"))
	if err := reg.Load(); err != nil {
		t.Fatal(err)
	}

	opts := auth.Options{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/auth/callback"}
	if loggedIn {
		opts.Fallback = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test"})
	}

	g := newFakeGoogle()
	an := &fakeAnalyzer{analysis: sampleAnalysis()}
	hub := events.NewHub()
	t.Cleanup(func() { _ = hub.Close() })

	srv := New(Deps{
		Analyzer:  an,
		Registry:  reg,
		Generator: aichannel.MockGenerator{},
		Auth:      auth.New(opts),
		Decks: func(context.Context, oauth2.TokenSource) (*deck.Service, error) {
			return deck.NewService(g, g), nil
		},
		Progress: hub,
		Now:      func() time.Time { return time.Unix(0, 1700000000000000000) },
	})
	return &testEnv{server: srv, google: g, analyzer: an, registry: reg, progress: hub}
}

var errBoom = errors.New("boom")
