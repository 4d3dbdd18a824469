package api

import (
	"net/http"
	"strings"

	"github.com/standardbeagle/slidegen/internal/branding"
	"github.com/standardbeagle/slidegen/internal/deck"
	"github.com/standardbeagle/slidegen/internal/events"
	"github.com/standardbeagle/slidegen/internal/inspector"
	"github.com/standardbeagle/slidegen/internal/templates"
)

type analyzeRequest struct {
	URL string `json:"url"`
}

type analyzeResponse struct {
	Success  bool                    `json:"success"`
	Analysis *inspector.SiteAnalysis `json:"analysis"`
	Branding *branding.Profile       `json:"branding,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, r, invalid("url", "URL is required"))
		return
	}

	analysis, err := s.deps.Analyzer.Analyze(r.Context(), req.URL)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := analyzeResponse{Success: true, Analysis: analysis}
	if r.URL.Query().Get("branding") == "true" {
		p := s.deps.Branding.Extract(analysis)
		resp.Branding = &p
	}
	writeJSON(w, http.StatusOK, resp)
}

type generateTemplateRequest struct {
	URL          string `json:"url"`
	TemplateName string `json:"templateName"`
	JobID        string `json:"jobId"`
}

type generatedTemplate struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	GoogleSlidesID  string           `json:"googleSlidesId"`
	GoogleSlidesURL string           `json:"googleSlidesUrl"`
	Branding        branding.Profile `json:"branding"`
}

type generateTemplateResponse struct {
	Success        bool              `json:"success"`
	JobID          string            `json:"jobId"`
	Branding       branding.Profile  `json:"branding"`
	Template       generatedTemplate `json:"template"`
	GoogleSlidesID string            `json:"googleSlidesId"`
	EditURL        string            `json:"editUrl"`
	Message        string            `json:"message"`
}

// handleGenerateTemplate analyzes a site, stamps a branded token deck and
// records it in the registry. A deck created before a later failure is
// deleted again.
func (s *Server) handleGenerateTemplate(w http.ResponseWriter, r *http.Request) {
	var req generateTemplateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, r, invalid("url", "URL is required"))
		return
	}

	svc, err := s.decks(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	job := s.startJob(r, req.JobID)
	reportStyling(svc, job)
	fail := func(err error) {
		job.Fail(err)
		writeError(w, r, err)
	}

	job.Step(events.StepAnalyzing, req.URL)
	analysis, err := s.deps.Analyzer.Analyze(ctx, req.URL)
	if err != nil {
		fail(err)
		return
	}

	job.Step(events.StepBranding, analysis.BrandName)
	profile := s.deps.Branding.Extract(analysis)

	name := strings.TrimSpace(req.TemplateName)
	if name == "" {
		name = profile.BrandName + " Template"
	}

	job.Step(events.StepCreatingDeck, name)
	deckID, err := svc.BuildBrandedTemplate(ctx, profile, name)
	if err != nil {
		fail(err)
		return
	}

	job.Step(events.StepSaving, deckID)
	tpl := templates.FromProfile(templates.NewWebsiteID(s.deps.Now()), name, analysis.URL, profile)
	tpl.GoogleSlidesTemplateID = deckID
	if err := s.deps.Registry.Upsert(tpl); err != nil {
		svc.Discard(ctx, deckID, err)
		fail(err)
		return
	}

	editURL := deck.EditURL(deckID)
	resp := generateTemplateResponse{
		Success:  true,
		JobID:    job.ID,
		Branding: profile,
		Template: generatedTemplate{
			ID:              tpl.ID,
			Name:            tpl.Name,
			GoogleSlidesID:  deckID,
			GoogleSlidesURL: editURL,
			Branding:        profile,
		},
		GoogleSlidesID: deckID,
		EditURL:        editURL,
		Message:        "Template " + tpl.Name + " created",
	}
	job.Done(resp.Template)
	writeJSON(w, http.StatusOK, resp)
}
