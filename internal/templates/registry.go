package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DefaultFile is the templates file name used when none is configured.
const DefaultFile = "templates.json"

// ErrTemplateNotFound is returned for unknown template ids.
var ErrTemplateNotFound = errors.New("template not found")

// Registry is the in-memory template list backed by a JSON file. Every
// mutation rewrites the whole file; concurrent processes still race and the
// last writer wins.
type Registry struct {
	path string

	mu        sync.RWMutex
	templates []Template
}

// NewRegistry creates a registry for path. Call Load before use.
func NewRegistry(path string) *Registry {
	if path == "" {
		path = DefaultFile
	}
	return &Registry{path: path}
}

// Path returns the backing file.
func (r *Registry) Path() string {
	return r.path
}

// Load reads the file if present, otherwise seeds DefaultTemplates. A
// corrupt file leaves the defaults in place and returns the parse error.
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		r.templates = DefaultTemplates()
		if os.IsNotExist(err) {
			slog.Info("templates_seeded", "path", r.path, "count", len(r.templates))
			return nil
		}
		return fmt.Errorf("read templates: %w", err)
	}

	var loaded []Template
	if err := json.Unmarshal(data, &loaded); err != nil {
		r.templates = DefaultTemplates()
		return fmt.Errorf("parse templates: %w", err)
	}

	r.templates = loaded
	slog.Info("templates_loaded", "path", r.path, "count", len(loaded))
	return nil
}

// List returns a copy of all templates in file order.
func (r *Registry) List() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Template, len(r.templates))
	for i, t := range r.templates {
		out[i] = t.Clone()
	}
	return out
}

// Get returns a copy of the template with id.
func (r *Registry) Get(id string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexLocked(id); i >= 0 {
		return r.templates[i].Clone(), true
	}
	return Template{}, false
}

// Upsert replaces the template with the same id or appends it, then saves.
func (r *Registry) Upsert(t Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t = t.Clone()
	if i := r.indexLocked(t.ID); i >= 0 {
		r.templates[i] = t
	} else {
		r.templates = append(r.templates, t)
	}
	return r.saveLocked()
}

// SetGoogleSlidesID links a template to a Slides deck and saves.
func (r *Registry) SetGoogleSlidesID(id, slidesID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	r.templates[i].GoogleSlidesTemplateID = slidesID
	if err := r.saveLocked(); err != nil {
		return err
	}
	slog.Info("template_linked", "template", id, "slides_id", slidesID)
	return nil
}

func (r *Registry) indexLocked(id string) int {
	for i, t := range r.templates {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// saveLocked writes through a temp file so a crash mid-write leaves the
// previous file intact.
func (r *Registry) saveLocked() error {
	data, err := json.MarshalIndent(r.templates, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal templates: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create templates dir: %w", err)
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write templates: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace templates: %w", err)
	}
	return nil
}
