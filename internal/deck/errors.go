package deck

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// UpstreamError wraps a failed Slides or Drive call with the HTTP status the
// API returned, when there was one.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Forbidden reports a permission failure.
func (e *UpstreamError) Forbidden() bool {
	return e.Status == http.StatusForbidden
}

// NotFound reports a missing deck or file.
func (e *UpstreamError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

func upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	status := 0
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		status = gerr.Code
	}
	return &UpstreamError{Op: op, Status: status, Err: err}
}
