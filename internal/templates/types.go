// Package templates keeps the list of branded slide templates in a flat JSON file.
package templates

import "regexp"

// Template is a named branding and layout configuration, optionally linked
// to a Google Slides deck that carries placeholder tokens.
type Template struct {
	ID                     string            `json:"id"`
	Name                   string            `json:"name"`
	Description            string            `json:"description,omitempty"`
	Version                string            `json:"version,omitempty"`
	SourceURL              string            `json:"sourceUrl,omitempty"`
	Branding               *Branding         `json:"branding"`
	Layouts                map[string]Layout `json:"layouts"`
	GoogleSlidesTemplateID string            `json:"googleSlidesTemplateId,omitempty"`
}

// Branding groups a template's color, font and logo tables.
type Branding struct {
	Colors map[string]string `json:"colors"`
	Fonts  map[string]string `json:"fonts"`
	Logos  map[string]string `json:"logos"`
	Assets map[string]string `json:"assets,omitempty"`
}

// Layout describes the elements of one slide layout.
type Layout struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Elements    []Element `json:"elements"`
}

// Element is a positioned text, image or shape slot inside a layout.
type Element struct {
	Type     string            `json:"type"`
	Name     string            `json:"name"`
	Position string            `json:"position"`
	Style    map[string]string `json:"style,omitempty"`
}

// Clone returns a deep copy so callers can mutate without touching the registry.
func (t Template) Clone() Template {
	out := t
	if t.Branding != nil {
		b := Branding{
			Colors: cloneMap(t.Branding.Colors),
			Fonts:  cloneMap(t.Branding.Fonts),
			Logos:  cloneMap(t.Branding.Logos),
			Assets: cloneMap(t.Branding.Assets),
		}
		out.Branding = &b
	}
	if t.Layouts != nil {
		out.Layouts = make(map[string]Layout, len(t.Layouts))
		for k, l := range t.Layouts {
			l.Elements = append([]Element(nil), l.Elements...)
			out.Layouts[k] = l
		}
	}
	return out
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Validate returns every problem found; an empty slice means valid.
func Validate(t Template) []string {
	var errs []string
	if t.ID == "" {
		errs = append(errs, "Template ID is required")
	}
	if t.Name == "" {
		errs = append(errs, "Template name is required")
	}
	if t.Branding == nil {
		return append(errs, "Branding configuration is required")
	}
	if len(t.Branding.Colors) == 0 {
		errs = append(errs, "Color scheme is required")
	}
	if len(t.Branding.Fonts) == 0 {
		errs = append(errs, "Font configuration is required")
	}
	return errs
}

var slidesIDPattern = regexp.MustCompile(`/presentation/d/([a-zA-Z0-9-_]+)`)
var bareIDPattern = regexp.MustCompile(`^[a-zA-Z0-9-_]{10,}$`)

// ExtractGoogleSlidesID pulls the deck id out of a Slides URL. A bare id is
// returned unchanged.
func ExtractGoogleSlidesID(s string) (string, bool) {
	if m := slidesIDPattern.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if bareIDPattern.MatchString(s) {
		return s, true
	}
	return "", false
}
