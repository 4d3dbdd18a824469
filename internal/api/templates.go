package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/standardbeagle/slidegen/internal/deck"
	"github.com/standardbeagle/slidegen/internal/templates"
)

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Registry.List())
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tpl, ok := s.deps.Registry.Get(id)
	if !ok {
		writeError(w, r, fmt.Errorf("%w: %s", templates.ErrTemplateNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleUpsertTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl templates.Template
	if err := decodeJSON(w, r, &tpl); err != nil {
		writeError(w, r, err)
		return
	}
	if problems := templates.Validate(tpl); len(problems) > 0 {
		writeError(w, r, &ValidationError{Message: "Invalid template configuration", Problems: problems})
		return
	}
	if tpl.GoogleSlidesTemplateID != "" {
		id, ok := templates.ExtractGoogleSlidesID(tpl.GoogleSlidesTemplateID)
		if !ok {
			writeError(w, r, invalid("googleSlidesTemplateId", "Invalid Google Slides ID or URL"))
			return
		}
		tpl.GoogleSlidesTemplateID = id
	}
	if tpl.Layouts == nil {
		tpl.Layouts = templates.DefaultLayouts()
	}

	if err := s.deps.Registry.Upsert(tpl); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "template": tpl})
}

type patchTemplateRequest struct {
	Name                   *string             `json:"name"`
	Description            *string             `json:"description"`
	GoogleSlidesTemplateID *string             `json:"googleSlidesTemplateId"`
	Branding               *templates.Branding `json:"branding"`
}

// handlePatchTemplate merges the supplied fields into a stored template.
func (s *Server) handlePatchTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req patchTemplateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Name == nil && req.Description == nil && req.GoogleSlidesTemplateID == nil && req.Branding == nil {
		writeError(w, r, invalid("googleSlidesTemplateId", "googleSlidesTemplateId is required"))
		return
	}

	tpl, ok := s.deps.Registry.Get(id)
	if !ok {
		writeError(w, r, fmt.Errorf("%w: %s", templates.ErrTemplateNotFound, id))
		return
	}

	if req.Name != nil {
		tpl.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		tpl.Description = *req.Description
	}
	if req.Branding != nil {
		tpl.Branding = req.Branding
	}
	if req.GoogleSlidesTemplateID != nil {
		slidesID, ok := templates.ExtractGoogleSlidesID(strings.TrimSpace(*req.GoogleSlidesTemplateID))
		if !ok {
			writeError(w, r, invalid("googleSlidesTemplateId", "Invalid Google Slides ID or URL"))
			return
		}
		tpl.GoogleSlidesTemplateID = slidesID
	}

	if problems := templates.Validate(tpl); len(problems) > 0 {
		writeError(w, r, &ValidationError{Message: "Invalid template configuration", Problems: problems})
		return
	}
	if err := s.deps.Registry.Upsert(tpl); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Template " + id + " updated",
		"template": tpl,
	})
}

// handleCreateDefaultTemplate builds the plain token deck and links it to
// the default registry entry.
func (s *Server) handleCreateDefaultTemplate(w http.ResponseWriter, r *http.Request) {
	svc, err := s.decks(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	deckID, err := svc.BuildDefaultTemplate(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = s.deps.Registry.SetGoogleSlidesID(templates.DefaultTemplateID, deckID)
	if errors.Is(err, templates.ErrTemplateNotFound) {
		tpl := templates.DefaultTemplates()[0]
		tpl.GoogleSlidesTemplateID = deckID
		err = s.deps.Registry.Upsert(tpl)
	}
	if err != nil {
		svc.Discard(ctx, deckID, err)
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"templateId":     templates.DefaultTemplateID,
		"googleSlidesId": deckID,
		"editUrl":        deck.EditURL(deckID),
		"message":        "Default template created",
	})
}

type analyzeTemplateResponse struct {
	Success bool `json:"success"`
	*deck.TemplateReport
}

func (s *Server) handleAnalyzeTemplate(w http.ResponseWriter, r *http.Request) {
	deckID, err := s.resolveTemplateDeck(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	svc, err := s.decks(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := svc.InspectTemplate(r.Context(), deckID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeTemplateResponse{Success: true, TemplateReport: report})
}
