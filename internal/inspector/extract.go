package inspector

import (
	"encoding/base64"
	"net/url"
	"sort"
	"strings"

	"github.com/standardbeagle/slidegen/internal/color"
)

const (
	maxColors = 10
	maxLogos  = 3

	unknownTitle = "Unknown Title"
	unknownBrand = "Unknown Brand"
)

// LogoSelectors are queried in order; earlier matches win deduplication.
var LogoSelectors = []string{
	`img[alt*="logo" i]`,
	`img[src*="logo" i]`,
	`img[class*="logo" i]`,
	`img[id*="logo" i]`,
	`.logo img`,
	`#logo img`,
	`header img`,
	`nav img`,
}

// Build turns raw page data into a ranked SiteAnalysis.
func Build(rawURL string, page *PageData) *SiteAnalysis {
	meta := buildMetadata(rawURL, page.Meta)

	brand := meta.Title
	if brand == "" {
		brand = unknownBrand
	}

	analysis := &SiteAnalysis{
		URL:       rawURL,
		BrandName: brand,
		Colors:    RankColors(page.Colors),
		Fonts:     ClassifyFonts(page.Fonts),
		Logos:     RankLogos(page.Logos),
		Metadata:  meta,
	}
	if len(page.Screenshot) > 0 {
		analysis.Screenshot = "data:image/png;base64," + base64.StdEncoding.EncodeToString(page.Screenshot)
	}
	return analysis
}

func buildMetadata(rawURL string, raw RawMetadata) Metadata {
	meta := Metadata{
		Title:       firstNonEmpty(raw.DocumentTitle, raw.OGTitle, raw.TwitterTitle, unknownTitle),
		Description: firstNonEmpty(raw.Description, raw.OGDescription, raw.TwitterDescription),
		OGImage:     firstNonEmpty(raw.OGImage, raw.TwitterImage),
		Favicon:     firstNonEmpty(raw.Icon, raw.ShortcutIcon),
	}
	if u, err := url.Parse(rawURL); err == nil {
		meta.Domain = u.Hostname()
	}
	return meta
}

// RankColors folds raw computed-style values into at most ten swatches,
// most used first.
func RankColors(values []RawColor) []color.Swatch {
	tally := color.NewTally()
	for _, v := range values {
		tally.Add(v.Value, v.Count)
	}
	return tally.Top(maxColors)
}

// ClassifyFonts keeps the first family of each stack, one entry per family.
func ClassifyFonts(raw RawFonts) []FontSample {
	var fonts []FontSample
	seen := make(map[string]bool)

	for _, f := range raw.Fonts {
		family := PrimaryFamily(f.Stack)
		if family == "" || seen[family] {
			continue
		}
		seen[family] = true
		fonts = append(fonts, FontSample{
			Family: family,
			Weight: f.Weight,
			Source: fontSource(family, raw.GoogleFonts),
		})
	}
	return fonts
}

// PrimaryFamily returns the first entry of a font-family stack without quotes.
func PrimaryFamily(stack string) string {
	first, _, _ := strings.Cut(stack, ",")
	first = strings.NewReplacer(`"`, "", `'`, "").Replace(first)
	return strings.TrimSpace(first)
}

func fontSource(family string, googleFonts bool) FontSource {
	switch {
	case googleFonts:
		return FontGoogle
	case strings.Contains(family, " ") || len(family) > 20:
		return FontLocal
	default:
		return FontSystem
	}
}

// RankLogos drops data URIs, dedupes by src and keeps the three most confident.
func RankLogos(raw []RawLogo) []LogoCandidate {
	var logos []LogoCandidate
	seen := make(map[string]bool)

	for _, r := range raw {
		if r.Src == "" || strings.Contains(r.Src, "data:") || seen[r.Src] {
			continue
		}
		seen[r.Src] = true

		logo := LogoCandidate{
			URL:        r.Src,
			Type:       LogoImage,
			Position:   PositionOther,
			Confidence: 0.7,
		}
		if strings.Contains(r.Src, ".svg") {
			logo.Type = LogoSVG
		}
		switch LogoPosition(r.Position) {
		case PositionHeader, PositionFooter:
			logo.Position = LogoPosition(r.Position)
		}
		if strings.Contains(strings.ToLower(r.Alt), "logo") {
			logo.Confidence = 0.9
		}
		logos = append(logos, logo)
	}

	sort.SliceStable(logos, func(i, j int) bool {
		return logos[i].Confidence > logos[j].Confidence
	})
	if len(logos) > maxLogos {
		logos = logos[:maxLogos]
	}
	return logos
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
