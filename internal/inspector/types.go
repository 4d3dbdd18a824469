// Package inspector loads a web page in a headless browser and harvests the
// colors, fonts, logos and metadata that make up a site's visual identity.
package inspector

import (
	"errors"

	"github.com/standardbeagle/slidegen/internal/color"
)

// Errors returned by the inspector.
var (
	ErrNavigation = errors.New("navigation failed")
	ErrBrowser    = errors.New("browser unavailable")
	ErrInvalidURL = errors.New("invalid URL")
)

// FontSource classifies where a font is served from.
type FontSource string

const (
	FontGoogle FontSource = "google"
	FontLocal  FontSource = "local"
	FontSystem FontSource = "system"
)

// LogoType is the asset kind of a logo candidate.
type LogoType string

const (
	LogoImage LogoType = "image"
	LogoSVG   LogoType = "svg"
)

// LogoPosition is the page region a logo candidate was found in.
type LogoPosition string

const (
	PositionHeader LogoPosition = "header"
	PositionFooter LogoPosition = "footer"
	PositionOther  LogoPosition = "other"
)

// FontSample is one distinct font family seen on the page.
type FontSample struct {
	Family string     `json:"family"`
	Weight string     `json:"weight"`
	Source FontSource `json:"source"`
}

// LogoCandidate is an image that looks like a brand logo.
type LogoCandidate struct {
	URL        string       `json:"url"`
	Type       LogoType     `json:"type"`
	Position   LogoPosition `json:"position"`
	Confidence float64      `json:"confidence"`
}

// Metadata is the document-level information of an analyzed page.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OGImage     string `json:"ogImage,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
	Domain      string `json:"domain"`
}

// SiteAnalysis is the result of inspecting one URL.
type SiteAnalysis struct {
	URL       string          `json:"url"`
	BrandName string          `json:"brandName"`
	Colors    []color.Swatch  `json:"colors"`
	Fonts     []FontSample    `json:"fonts"`
	Logos     []LogoCandidate `json:"logos"`
	// Screenshot is a PNG encoded as a data URI.
	Screenshot string   `json:"screenshot,omitempty"`
	Metadata   Metadata `json:"metadata"`
}

// PageData is the raw material collected from a rendered page before any
// ranking or normalization.
type PageData struct {
	Meta       RawMetadata
	Colors     []RawColor
	Fonts      RawFonts
	Logos      []RawLogo
	Screenshot []byte
}

// RawMetadata holds every candidate value for the metadata fallback chains.
type RawMetadata struct {
	DocumentTitle      string `json:"documentTitle"`
	OGTitle            string `json:"ogTitle"`
	TwitterTitle       string `json:"twitterTitle"`
	Description        string `json:"description"`
	OGDescription      string `json:"ogDescription"`
	TwitterDescription string `json:"twitterDescription"`
	OGImage            string `json:"ogImage"`
	TwitterImage       string `json:"twitterImage"`
	Icon               string `json:"icon"`
	ShortcutIcon       string `json:"shortcutIcon"`
}

// RawColor is a computed color value and the number of times it was seen.
type RawColor struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// RawFonts lists computed font-family stacks in document order.
type RawFonts struct {
	GoogleFonts bool      `json:"googleFonts"`
	Fonts       []RawFont `json:"fonts"`
}

// RawFont is one computed font-family stack with its weight.
type RawFont struct {
	Stack  string `json:"stack"`
	Weight string `json:"weight"`
}

// RawLogo is an image matched by one of the logo selectors.
type RawLogo struct {
	Src      string `json:"src"`
	Alt      string `json:"alt"`
	Position string `json:"position"`
}
