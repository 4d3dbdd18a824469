// Package api serves the slide generator over HTTP.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/standardbeagle/slidegen/internal/aichannel"
	"github.com/standardbeagle/slidegen/internal/auth"
	"github.com/standardbeagle/slidegen/internal/branding"
	"github.com/standardbeagle/slidegen/internal/deck"
	"github.com/standardbeagle/slidegen/internal/events"
	"github.com/standardbeagle/slidegen/internal/inspector"
	"github.com/standardbeagle/slidegen/internal/templates"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 4 << 20

// Analyzer inspects a website.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*inspector.SiteAnalysis, error)
}

// DeckFactory builds a deck service acting with the caller's credentials.
type DeckFactory func(ctx context.Context, ts oauth2.TokenSource) (*deck.Service, error)

// GoogleDeckFactory returns a DeckFactory backed by the Google REST clients.
func GoogleDeckFactory(opts deck.ClientOptions) DeckFactory {
	return func(ctx context.Context, ts oauth2.TokenSource) (*deck.Service, error) {
		c, err := deck.NewGoogleClient(ctx, ts, opts)
		if err != nil {
			return nil, err
		}
		return deck.NewService(c, c), nil
	}
}

// Deps are the collaborators a Server routes to.
type Deps struct {
	Analyzer  Analyzer
	Branding  *branding.Extractor
	Registry  *templates.Registry
	Generator aichannel.Generator
	Auth      *auth.Authenticator
	Decks     DeckFactory
	Progress  *events.Hub
	// Now is the clock used for generated ids. Nil means time.Now.
	Now func() time.Time
}

// Server owns the HTTP routes.
type Server struct {
	deps Deps
	mux  *http.ServeMux
}

// New creates a server and registers its routes.
func New(deps Deps) *Server {
	if deps.Branding == nil {
		deps.Branding = branding.NewExtractor(branding.DefaultOverrides())
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Server{deps: deps, mux: http.NewServeMux()}
	s.Register(s.mux)
	return s
}

// Register adds every route to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /generate-template", s.handleGenerateTemplate)
	mux.HandleFunc("POST /generate-outline", s.handleGenerateOutline)
	mux.HandleFunc("POST /create-presentation", s.handleCreatePresentation)
	mux.HandleFunc("GET /export/{id}/{format}", s.handleExport)

	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("POST /templates", s.handleUpsertTemplate)
	mux.HandleFunc("POST /templates/default", s.handleCreateDefaultTemplate)
	mux.HandleFunc("GET /templates/{id}", s.handleGetTemplate)
	mux.HandleFunc("PATCH /templates/{id}", s.handlePatchTemplate)
	mux.HandleFunc("GET /templates/{id}/analyze", s.handleAnalyzeTemplate)

	if s.deps.Auth != nil {
		mux.HandleFunc("GET /auth/google", s.deps.Auth.Login)
		mux.HandleFunc("GET /auth/callback", s.deps.Auth.Callback)
		mux.HandleFunc("POST /auth/logout", s.deps.Auth.Logout)
		mux.HandleFunc("GET /auth/status", s.deps.Auth.Status)
	}
	if s.deps.Progress != nil {
		mux.Handle("GET /ws/progress", s.deps.Progress)
	}
}

// Handler returns the instrumented root handler.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(logRequests(s.mux), "slidegen")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// publisher returns the progress sink, which may be absent.
func (s *Server) publisher() events.Publisher {
	if s.deps.Progress == nil {
		return events.Discard
	}
	return s.deps.Progress
}

// JobHeader carries a caller-chosen job id, so a client can subscribe to
// /ws/progress?job=<id> before it posts.
const JobHeader = "X-Job-ID"

// startJob uses the id from the body, then the header, then a fresh one.
func (s *Server) startJob(r *http.Request, id string) *events.Job {
	if id == "" {
		id = r.Header.Get(JobHeader)
	}
	return events.NewJob(s.publisher(), id)
}

// reportStyling publishes the styling step when a deck write reaches round two.
func reportStyling(svc *deck.Service, job *events.Job) {
	svc.Observe(func(st deck.Stage) {
		if st == deck.StageStyle {
			job.Step(events.StepStyling, "")
		}
	})
}

// decks resolves the caller's credentials and builds a deck service.
func (s *Server) decks(r *http.Request) (*deck.Service, error) {
	if s.deps.Auth == nil || s.deps.Decks == nil {
		return nil, auth.ErrNotAuthenticated
	}
	ts, err := s.deps.Auth.TokenSource(r)
	if err != nil {
		return nil, err
	}
	return s.deps.Decks(r.Context(), ts)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ValidationError{Message: "Invalid JSON body", Err: err}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response_encode_failed", "error", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack passes websocket upgrades through to the underlying writer.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
