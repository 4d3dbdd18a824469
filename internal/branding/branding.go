// Package branding derives a five-color, font and logo profile from a site analysis.
package branding

import (
	"sort"
	"strings"

	"github.com/standardbeagle/slidegen/internal/color"
	"github.com/standardbeagle/slidegen/internal/inspector"
)

// Fixed palette values.
const (
	FallbackPrimary   = "#7C3AED"
	FallbackSecondary = "#FF6B35"
	FallbackAccent    = "#00D9D9"
	BackgroundColor   = "#FFFFFF"
	TextColor         = "#2D2D2D"
	FallbackFont      = "Inter"
)

// PreferredSecondaries are picked as secondary color when present in the sample set.
var PreferredSecondaries = []string{"#7C3AED", "#3B82F6", "#6366F1"}

// Profile is a normalized brand identity.
type Profile struct {
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	AccentColor     string `json:"accentColor"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	FontFamily      string `json:"fontFamily"`
	LogoURL         string `json:"logoUrl,omitempty"`
	BrandName       string `json:"brandName"`
}

// Extractor turns site analyses into profiles, consulting a table of
// per-domain overrides first.
type Extractor struct {
	overrides Overrides
}

// NewExtractor creates an extractor. A nil table means no overrides.
func NewExtractor(overrides Overrides) *Extractor {
	return &Extractor{overrides: overrides}
}

// Extract never fails; every field falls back to a fixed default.
func (e *Extractor) Extract(analysis *inspector.SiteAnalysis) Profile {
	if analysis == nil {
		analysis = &inspector.SiteAnalysis{}
	}
	if o, ok := e.overrides.Lookup(analysis.Metadata.Domain); ok {
		return o.Apply(analysis)
	}
	return Derive(analysis)
}

// Derive applies the generic heuristics without consulting overrides.
func Derive(analysis *inspector.SiteAnalysis) Profile {
	primary, secondary, accent := SelectColors(analysis.Colors)
	return Profile{
		PrimaryColor:    primary,
		SecondaryColor:  secondary,
		AccentColor:     accent,
		BackgroundColor: BackgroundColor,
		TextColor:       TextColor,
		FontFamily:      SelectFont(analysis.Fonts),
		LogoURL:         SelectLogo(analysis.Logos),
		BrandName:       analysis.BrandName,
	}
}

// SelectColors picks primary by usage, secondary from the preference list or
// the runner-up, and accent as the first vibrant color.
func SelectColors(samples []color.Swatch) (primary, secondary, accent string) {
	if len(samples) == 0 {
		return FallbackPrimary, FallbackSecondary, FallbackAccent
	}

	sorted := make([]color.Swatch, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Usage > sorted[j].Usage
	})

	primary = sorted[0].Hex
	secondary = selectSecondary(sorted)
	accent = FallbackAccent
	for _, s := range sorted {
		if color.IsVibrant(s.Hex) {
			accent = s.Hex
			break
		}
	}
	return primary, secondary, accent
}

func selectSecondary(sorted []color.Swatch) string {
	for _, want := range PreferredSecondaries {
		for _, s := range sorted {
			if color.Equal(s.Hex, want) {
				return want
			}
		}
	}
	if len(sorted) > 1 {
		return sorted[1].Hex
	}
	return FallbackSecondary
}

// SelectFont prefers a Google-served font, then any Inter variant, then the
// first font seen.
func SelectFont(fonts []inspector.FontSample) string {
	if len(fonts) == 0 {
		return FallbackFont
	}
	for _, f := range fonts {
		if f.Source == inspector.FontGoogle {
			return f.Family
		}
	}
	for _, f := range fonts {
		if strings.Contains(strings.ToLower(f.Family), "inter") {
			return f.Family
		}
	}
	return fonts[0].Family
}

// SelectLogo returns the URL of the most confident candidate, or "".
func SelectLogo(logos []inspector.LogoCandidate) string {
	best := -1
	for i, l := range logos {
		if best < 0 || l.Confidence > logos[best].Confidence {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return logos[best].URL
}
