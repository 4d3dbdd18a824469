package branding

import (
	"strings"

	"github.com/standardbeagle/slidegen/internal/inspector"
)

// Override is a fixed profile for a known domain. Empty fields fall back
// to the generic defaults.
type Override struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	AccentColor    string `json:"accentColor"`
	FontFamily     string `json:"fontFamily"`
	BrandName      string `json:"brandName"`
}

// Overrides maps a bare domain (no "www.") to its fixed profile.
type Overrides map[string]Override

// DefaultOverrides is the built-in override table.
func DefaultOverrides() Overrides {
	return Overrides{
		"unlock-your-song.de": {
			PrimaryColor:   "#f6cd6f",
			SecondaryColor: "#7C3AED",
			AccentColor:    "#00D9D9",
			FontFamily:     "Inter",
			BrandName:      "Unlock Your Song",
		},
	}
}

// Lookup matches the domain itself or any subdomain of a table entry.
func (o Overrides) Lookup(domain string) (Override, bool) {
	d := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "www.")
	if d == "" || len(o) == 0 {
		return Override{}, false
	}
	if ov, ok := o[d]; ok {
		return ov, true
	}
	for key, ov := range o {
		if strings.HasSuffix(d, "."+key) {
			return ov, true
		}
	}
	return Override{}, false
}

// Apply builds the profile. The logo is the first candidate found on the page.
func (o Override) Apply(analysis *inspector.SiteAnalysis) Profile {
	p := Profile{
		PrimaryColor:    or(o.PrimaryColor, FallbackPrimary),
		SecondaryColor:  or(o.SecondaryColor, FallbackSecondary),
		AccentColor:     or(o.AccentColor, FallbackAccent),
		BackgroundColor: BackgroundColor,
		TextColor:       TextColor,
		FontFamily:      or(o.FontFamily, FallbackFont),
		BrandName:       or(o.BrandName, analysis.BrandName),
	}
	if len(analysis.Logos) > 0 {
		p.LogoURL = analysis.Logos[0].URL
	}
	return p
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
