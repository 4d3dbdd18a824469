package templates

// DefaultTemplateID identifies the seeded template.
const DefaultTemplateID = "techeroes-modern-2025"

// DefaultTemplates is the list used when no templates file exists.
func DefaultTemplates() []Template {
	return []Template{{
		ID:   DefaultTemplateID,
		Name: "Techeroes Modern",
		Branding: &Branding{
			Colors: map[string]string{
				"primary":       "#00D9D9",
				"secondary":     "#FF6B35",
				"accent":        "#7C3AED",
				"background":    "#FFFFFF",
				"backgroundAlt": "#F5F5F5",
				"text":          "#2D2D2D",
				"textLight":     "#6B7280",
				"success":       "#10B981",
				"warning":       "#F59E0B",
			},
			Fonts: map[string]string{
				"heading": "Poppins",
				"body":    "Inter",
				"mono":    "Roboto Mono",
			},
			Logos: map[string]string{
				"main":   "https://www.techeroes.de/logo-main.svg",
				"icon":   "https://www.techeroes.de/fox-icon.svg",
				"footer": "https://www.techeroes.de/logo-horizontal.svg",
			},
		},
		Layouts: DefaultLayouts(),
	}}
}

// DefaultLayouts describes the two layouts every generated deck uses.
func DefaultLayouts() map[string]Layout {
	return map[string]Layout{
		"TITLE_SLIDE": {
			ID:          "TITLE_SLIDE",
			Name:        "Title",
			Description: "Opening slide with the presentation title",
			Elements: []Element{
				{Type: "text", Name: "title", Position: "center"},
			},
		},
		"TITLE_AND_BODY": {
			ID:          "TITLE_AND_BODY",
			Name:        "Title and body",
			Description: "Heading with bullet content below",
			Elements: []Element{
				{Type: "text", Name: "title", Position: "top"},
				{Type: "text", Name: "body", Position: "body"},
			},
		},
	}
}
