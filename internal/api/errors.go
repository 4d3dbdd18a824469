package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/standardbeagle/slidegen/internal/aichannel"
	"github.com/standardbeagle/slidegen/internal/auth"
	"github.com/standardbeagle/slidegen/internal/deck"
	"github.com/standardbeagle/slidegen/internal/inspector"
	"github.com/standardbeagle/slidegen/internal/templates"
)

// ValidationError is a malformed request. Message is shown to the caller.
type ValidationError struct {
	Field   string
	Message string
	// Problems lists every issue when more than one was found.
	Problems []string
	Err      error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details string   `json:"details,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// classify maps an error to a status code and a caller-facing message.
func classify(err error) (int, string) {
	var ve *ValidationError
	var ue *deck.UpstreamError
	var nte *deck.NoTextElementError

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, aichannel.ErrTopicRequired):
		return http.StatusBadRequest, "Topic is required"
	case errors.Is(err, aichannel.ErrSlideCount):
		return http.StatusBadRequest, "Slide count must be between 1 and 50"
	case errors.Is(err, inspector.ErrInvalidURL):
		return http.StatusBadRequest, "Invalid URL format"
	case errors.Is(err, deck.ErrUnsupportedFmt):
		return http.StatusBadRequest, "Format must be pdf or pptx"
	case errors.Is(err, deck.ErrNoSlides):
		return http.StatusBadRequest, "Valid slides array is required"
	case errors.Is(err, deck.ErrTemplateMissing):
		return http.StatusBadRequest, "Template has no linked Google Slides deck"
	case errors.Is(err, auth.ErrNotAuthenticated):
		return http.StatusUnauthorized, "Not authenticated. Please log in with Google first."
	case errors.Is(err, templates.ErrTemplateNotFound):
		return http.StatusNotFound, "Template not found"
	case errors.As(err, &ue):
		switch {
		case ue.Forbidden():
			return http.StatusForbidden, "Access denied. Please check your Google Drive permissions."
		case ue.NotFound():
			return http.StatusNotFound, "Template not found. Please check the template ID."
		case ue.Status >= 400:
			return ue.Status, "Google API error: " + ue.Err.Error()
		default:
			return http.StatusBadGateway, "Google API error: " + ue.Err.Error()
		}
	case errors.Is(err, deck.ErrEmptyTemplate), errors.As(err, &nte):
		return http.StatusInternalServerError, "Template deck has no usable structure"
	case errors.Is(err, inspector.ErrNavigation):
		return http.StatusBadGateway, "Website analysis failed"
	case errors.Is(err, inspector.ErrBrowser):
		return http.StatusServiceUnavailable, "Browser unavailable"
	case errors.Is(err, aichannel.ErrNoAPIKey):
		return http.StatusServiceUnavailable, "No language model is configured"
	case errors.Is(err, aichannel.ErrProviderError), errors.Is(err, aichannel.ErrInvalidOutline):
		return http.StatusBadGateway, "Outline generation failed"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// writeError logs err and writes its JSON form. Validation failures carry
// no details; everything else includes the underlying error text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	resp := ErrorResponse{Error: msg}

	var ve *ValidationError
	if errors.As(err, &ve) {
		resp.Errors = ve.Problems
	} else {
		resp.Details = err.Error()
	}

	if status >= 500 {
		slog.Error("request_failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		slog.Warn("request_rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}
