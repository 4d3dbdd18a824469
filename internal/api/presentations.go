package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/standardbeagle/slidegen/internal/aichannel"
	"github.com/standardbeagle/slidegen/internal/deck"
	"github.com/standardbeagle/slidegen/internal/events"
	"github.com/standardbeagle/slidegen/internal/templates"
)

type generateOutlineRequest struct {
	aichannel.OutlineRequest
	JobID string `json:"jobId"`
}

func (s *Server) handleGenerateOutline(w http.ResponseWriter, r *http.Request) {
	var req generateOutlineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if s.deps.Generator == nil {
		writeError(w, r, aichannel.ErrNoAPIKey)
		return
	}

	job := s.startJob(r, req.JobID)
	job.Step(events.StepGenerating, req.Topic)
	outline, err := s.deps.Generator.GenerateOutline(r.Context(), req.OutlineRequest)
	if err != nil {
		job.Fail(err)
		writeError(w, r, err)
		return
	}
	job.Done(nil)
	writeJSON(w, http.StatusOK, outline)
}

type createPresentationRequest struct {
	Slides     []deck.Slide `json:"slides"`
	Title      string       `json:"title"`
	TemplateID string       `json:"templateId"`
	JobID      string       `json:"jobId"`
}

type createPresentationResponse struct {
	*deck.Result
	JobID string `json:"jobId"`
}

func (s *Server) handleCreatePresentation(w http.ResponseWriter, r *http.Request) {
	var req createPresentationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.Slides) == 0 {
		writeError(w, r, invalid("slides", "Valid slides array is required"))
		return
	}

	templateDeckID, err := s.resolveTemplateDeck(req.TemplateID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	svc, err := s.decks(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	job := s.startJob(r, req.JobID)
	reportStyling(svc, job)
	job.Step(events.StepCreatingDeck, fmt.Sprintf("%d slides", len(req.Slides)))

	result, err := svc.CreatePresentation(r.Context(), req.Title, req.Slides, templateDeckID)
	if err != nil {
		job.Fail(err)
		writeError(w, r, err)
		return
	}

	job.Done(result)
	writeJSON(w, http.StatusOK, createPresentationResponse{Result: result, JobID: job.ID})
}

// resolveTemplateDeck maps a templateId to the Slides deck to copy. A
// registry id wins; otherwise the value may itself be a deck id or URL.
// An empty templateId means blank mode.
func (s *Server) resolveTemplateDeck(templateID string) (string, error) {
	templateID = strings.TrimSpace(templateID)
	if templateID == "" {
		return "", nil
	}
	if s.deps.Registry != nil {
		if tpl, ok := s.deps.Registry.Get(templateID); ok {
			if tpl.GoogleSlidesTemplateID == "" {
				return "", fmt.Errorf("%w: template %s", deck.ErrTemplateMissing, templateID)
			}
			return tpl.GoogleSlidesTemplateID, nil
		}
	}
	if id, ok := templates.ExtractGoogleSlidesID(templateID); ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %s", templates.ErrTemplateNotFound, templateID)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	format := strings.ToLower(r.PathValue("format"))
	if strings.TrimSpace(id) == "" {
		writeError(w, r, invalid("id", "Presentation ID is required"))
		return
	}
	if _, err := deck.ExportMIME(format); err != nil {
		writeError(w, r, err)
		return
	}

	svc, err := s.decks(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, mime, err := svc.Export(r.Context(), id, format)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="presentation.%s"`, format))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		slog.Warn("export_stream_failed", "deck", id, "error", err)
	}
}
