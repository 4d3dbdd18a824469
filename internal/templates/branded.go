package templates

import (
	"fmt"
	"time"

	"github.com/standardbeagle/slidegen/internal/branding"
)

// NewWebsiteID returns a registry id for a template generated from a site.
func NewWebsiteID(now time.Time) string {
	return fmt.Sprintf("website-%d", now.UnixNano())
}

// FromProfile builds a registry entry from a branding profile. The secondary
// tones that profiles do not carry are fixed.
func FromProfile(id, name, sourceURL string, p branding.Profile) Template {
	if name == "" {
		name = p.BrandName + " Template"
	}
	return Template{
		ID:          id,
		Name:        name,
		Description: "Auto-generated template from " + sourceURL,
		Version:     "1.0.0",
		SourceURL:   sourceURL,
		Branding: &Branding{
			Colors: map[string]string{
				"primary":       p.PrimaryColor,
				"secondary":     p.SecondaryColor,
				"accent":        p.AccentColor,
				"background":    p.BackgroundColor,
				"backgroundAlt": "#F5F5F5",
				"text":          p.TextColor,
				"textLight":     "#6B7280",
				"success":       "#10B981",
				"warning":       "#F59E0B",
			},
			Fonts: map[string]string{
				"heading":       p.FontFamily,
				"headingWeight": "700",
				"body":          p.FontFamily,
				"bodyWeight":    "400",
				"mono":          "Roboto Mono",
			},
			Logos: map[string]string{
				"main":   p.LogoURL,
				"icon":   p.LogoURL,
				"footer": p.LogoURL,
			},
			Assets: map[string]string{
				"iconStyle":    "rounded",
				"borderRadius": "12px",
				"shadowStyle":  "subtle",
			},
		},
		Layouts: DefaultLayouts(),
	}
}
